package app

import (
	"math"
	"strings"
	"time"

	"capitals-quiz/internal/domain"
	"capitals-quiz/internal/questionbank"
)

const (
	// batchSize is the number of questions served before the next progression check.
	batchSize = 10
	// carryOver is how many questions of the previous tier a transition batch may keep.
	carryOver = 5
)

type tierRules struct {
	timePerQuestion int
	basePoints      int
	speedBonus      float64
}

var rulesByTier = map[domain.Tier]tierRules{
	domain.TierEasy:   {timePerQuestion: 20, basePoints: 10, speedBonus: 0.5},
	domain.TierMedium: {timePerQuestion: 15, basePoints: 15, speedBonus: 0.75},
	domain.TierHard:   {timePerQuestion: 8, basePoints: 20, speedBonus: 1.0},
}

// TimePerQuestion returns the countdown length in seconds for a tier.
func TimePerQuestion(tier domain.Tier) int {
	return rulesByTier[tier].timePerQuestion
}

// Points computes base points plus the floored speed bonus for a correct answer.
func Points(tier domain.Tier, timeRemaining int) int {
	r := rulesByTier[tier]
	return r.basePoints + int(math.Floor(float64(timeRemaining)*r.speedBonus))
}

type batchPart struct {
	tier domain.Tier
	max  int
}

// planBatch maps the number of correct answers so far to the composition of the
// next batch and the tier label it is served under.
func planBatch(answered int) ([]batchPart, domain.Tier) {
	switch {
	case answered < 10:
		return []batchPart{{domain.TierEasy, batchSize}}, domain.TierEasy
	case answered < 20:
		return []batchPart{{domain.TierEasy, carryOver}, {domain.TierMedium, batchSize}}, domain.TierMedium
	case answered < 30:
		return []batchPart{{domain.TierMedium, carryOver}, {domain.TierHard, batchSize}}, domain.TierHard
	default:
		return []batchPart{{domain.TierHard, batchSize}}, domain.TierHard
	}
}

// Engine is the single-session quiz state machine. It is not safe for
// concurrent use; Session serializes access.
type Engine struct {
	bank     *questionbank.Bank
	onFinish func(domain.SessionResult)
	now      func() time.Time

	username          string
	status            domain.Status
	tier              domain.Tier
	questionsAnswered int
	score             int
	used              map[string]struct{}
	pools             map[domain.Tier][]domain.CapitalFact
	batch             []domain.Question
	index             int
	timeLeft          int
	answers           []domain.AnsweredQuestion
	reason            domain.EndReason
	result            *domain.SessionResult
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithFinishHook registers a callback invoked once on the transition to Finished.
func WithFinishHook(fn func(domain.SessionResult)) EngineOption {
	return func(e *Engine) {
		e.onFinish = fn
	}
}

// WithEngineClock overrides the clock used to stamp results.
func WithEngineClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine returns an engine in the NotStarted state.
func NewEngine(bank *questionbank.Bank, opts ...EngineOption) *Engine {
	e := &Engine{
		bank:   bank,
		now:    time.Now,
		status: domain.StatusNotStarted,
		tier:   domain.TierEasy,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start begins the quiz for username.
func (e *Engine) Start(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.ErrEmptyUsername
	}
	switch e.status {
	case domain.StatusInProgress:
		return domain.ErrAlreadyStarted
	case domain.StatusFinished:
		return domain.ErrSessionFinished
	}

	e.username = username
	e.pools = make(map[domain.Tier][]domain.CapitalFact, len(domain.Tiers))
	for _, tier := range domain.Tiers {
		e.pools[tier] = e.bank.Sample(tier, questionbank.SampleAll)
	}
	e.used = make(map[string]struct{})
	e.answers = nil
	e.score = 0
	e.questionsAnswered = 0
	e.status = domain.StatusInProgress

	batch, label := e.nextBatch()
	e.tier = label
	if len(batch) == 0 {
		e.finish(domain.EndExhausted)
		return nil
	}
	e.batch = batch
	e.index = 0
	e.timeLeft = TimePerQuestion(e.tier)
	return nil
}

// Answer submits choice for the current question. A nil choice is the timeout
// sentinel. timeRemaining is the caller-reported clock, clamped to the tier's
// countdown range.
func (e *Engine) Answer(choice *string, timeRemaining int) (domain.AnsweredQuestion, error) {
	if e.status != domain.StatusInProgress {
		return domain.AnsweredQuestion{}, domain.ErrNotInProgress
	}

	q := e.batch[e.index]
	e.used[q.Key] = struct{}{}

	if timeRemaining < 0 {
		timeRemaining = 0
	}
	if limit := TimePerQuestion(e.tier); timeRemaining > limit {
		timeRemaining = limit
	}

	answered := domain.AnsweredQuestion{
		QuestionID:    q.ID,
		Country:       q.Country,
		CorrectAnswer: q.Capital,
		TimeRemaining: timeRemaining,
		Tier:          e.tier,
	}
	if choice != nil {
		answered.UserAnswer = *choice
		answered.IsCorrect = *choice == q.Capital
	}

	if !answered.IsCorrect {
		e.answers = append(e.answers, answered)
		if choice == nil {
			e.finish(domain.EndTimeout)
		} else {
			e.finish(domain.EndWrongAnswer)
		}
		return answered, nil
	}

	answered.PointsEarned = Points(e.tier, timeRemaining)
	e.score += answered.PointsEarned
	e.questionsAnswered++
	e.answers = append(e.answers, answered)

	if e.index+1 < len(e.batch) {
		e.index++
		e.timeLeft = TimePerQuestion(e.tier)
		return answered, nil
	}

	batch, label := e.nextBatch()
	if len(batch) == 0 {
		e.finish(domain.EndExhausted)
		return answered, nil
	}
	e.batch = batch
	e.index = 0
	e.tier = label
	e.timeLeft = TimePerQuestion(e.tier)
	return answered, nil
}

// Tick consumes one second of the current countdown and reports whether it
// has reached zero.
func (e *Engine) Tick() bool {
	if e.status != domain.StatusInProgress {
		return false
	}
	if e.timeLeft > 0 {
		e.timeLeft--
	}
	return e.timeLeft == 0
}

// Status returns the lifecycle state.
func (e *Engine) Status() domain.Status {
	return e.status
}

// Served counts questions handed out so far, including the current one.
func (e *Engine) Served() int {
	if e.status == domain.StatusInProgress {
		return len(e.answers) + 1
	}
	return len(e.answers)
}

// CurrentQuestion returns the question awaiting an answer.
func (e *Engine) CurrentQuestion() (domain.Question, bool) {
	if e.status != domain.StatusInProgress {
		return domain.Question{}, false
	}
	return e.batch[e.index], true
}

// Result returns the session result once Finished.
func (e *Engine) Result() (domain.SessionResult, bool) {
	if e.result == nil {
		return domain.SessionResult{}, false
	}
	return *e.result, true
}

// View snapshots what the UI renders.
func (e *Engine) View() domain.SessionView {
	view := domain.SessionView{
		Username:          e.username,
		Status:            e.status,
		Tier:              e.tier,
		TimeLeft:          e.timeLeft,
		Score:             e.score,
		QuestionsAnswered: e.questionsAnswered,
		Reason:            e.reason,
	}
	if q, ok := e.CurrentQuestion(); ok {
		view.CurrentQuestion = &q
	}
	if e.status == domain.StatusFinished {
		view.Answers = append([]domain.AnsweredQuestion(nil), e.answers...)
		view.TimeLeft = 0
	}
	return view
}

// nextBatch assembles the next batch from the unused remainder of the pools
// named by planBatch.
func (e *Engine) nextBatch() ([]domain.Question, domain.Tier) {
	parts, label := planBatch(e.questionsAnswered)
	facts := make([]domain.CapitalFact, 0, batchSize)
	for _, part := range parts {
		room := batchSize - len(facts)
		if room <= 0 {
			break
		}
		n := part.max
		if n > room {
			n = room
		}
		facts = append(facts, e.bank.SampleUnique(e.pools[part.tier], n, e.used)...)
	}
	e.bank.Shuffle(facts)

	batch := make([]domain.Question, 0, len(facts))
	for _, f := range facts {
		batch = append(batch, e.bank.NewQuestion(f))
	}
	return batch, label
}

func (e *Engine) finish(reason domain.EndReason) {
	e.status = domain.StatusFinished
	e.reason = reason
	e.timeLeft = 0
	e.batch = nil
	e.index = 0

	result := domain.SessionResult{
		Username:          e.username,
		Score:             e.score,
		Tier:              e.tier,
		QuestionsAnswered: e.questionsAnswered,
		Answers:           append([]domain.AnsweredQuestion(nil), e.answers...),
		Reason:            reason,
		FinishedAt:        e.now(),
	}
	e.result = &result
	if e.onFinish != nil {
		e.onFinish(result)
	}
}
