package app

import (
	"math/rand"
	"testing"

	"capitals-quiz/internal/domain"
	"capitals-quiz/internal/questionbank"
	. "github.com/smartystreets/goconvey/convey"
)

func seededBank(t *testing.T, facts []domain.CapitalFact, seed int64) *questionbank.Bank {
	t.Helper()
	bank, err := questionbank.New(facts, questionbank.WithRand(rand.New(rand.NewSource(seed))))
	if err != nil {
		t.Fatalf("new bank: %v", err)
	}
	return bank
}

func strPtr(s string) *string { return &s }

// answerCorrectly answers the current question right and returns the tier of
// the fact that was served.
func answerCorrectly(e *Engine, remaining int) (domain.Tier, domain.AnsweredQuestion) {
	q, _ := e.CurrentQuestion()
	aq, err := e.Answer(strPtr(q.Capital), remaining)
	So(err, ShouldBeNil)
	return q.Tier, aq
}

func TestScoring(t *testing.T) {
	Convey("Points follow base plus floored speed bonus", t, func() {
		So(Points(domain.TierEasy, 10), ShouldEqual, 15)
		So(Points(domain.TierEasy, 7), ShouldEqual, 13)
		So(Points(domain.TierMedium, 5), ShouldEqual, 18)
		So(Points(domain.TierHard, 8), ShouldEqual, 28)
		So(Points(domain.TierHard, 0), ShouldEqual, 20)
	})

	Convey("Countdown lengths are per tier", t, func() {
		So(TimePerQuestion(domain.TierEasy), ShouldEqual, 20)
		So(TimePerQuestion(domain.TierMedium), ShouldEqual, 15)
		So(TimePerQuestion(domain.TierHard), ShouldEqual, 8)
	})
}

func TestEngineLifecycle(t *testing.T) {
	Convey("Given a started engine", t, func() {
		var results []domain.SessionResult
		e := NewEngine(seededBank(t, questionbank.Capitals(), 11), WithFinishHook(func(r domain.SessionResult) {
			results = append(results, r)
		}))
		So(e.Status(), ShouldEqual, domain.StatusNotStarted)
		So(e.Start("  alice "), ShouldBeNil)

		view := e.View()
		So(view.Status, ShouldEqual, domain.StatusInProgress)
		So(view.Username, ShouldEqual, "alice")
		So(view.Tier, ShouldEqual, domain.TierEasy)
		So(view.TimeLeft, ShouldEqual, 20)
		So(view.CurrentQuestion, ShouldNotBeNil)
		So(view.CurrentQuestion.Options, ShouldHaveLength, 4)
		So(view.CurrentQuestion.Options, ShouldContain, view.CurrentQuestion.Capital)

		Convey("A correct answer with 10 seconds left earns 15 points", func() {
			_, aq := answerCorrectly(e, 10)
			So(aq.IsCorrect, ShouldBeTrue)
			So(aq.PointsEarned, ShouldEqual, 15)
			So(e.View().Score, ShouldEqual, 15)
			So(e.View().QuestionsAnswered, ShouldEqual, 1)
			So(e.View().TimeLeft, ShouldEqual, 20)
		})

		Convey("Reported time above the countdown is clamped", func() {
			_, aq := answerCorrectly(e, 500)
			So(aq.TimeRemaining, ShouldEqual, 20)
			So(aq.PointsEarned, ShouldEqual, 20)
		})

		Convey("A wrong answer ends the session with zero points", func() {
			answerCorrectly(e, 20)
			aq, err := e.Answer(strPtr("Atlantis"), 12)
			So(err, ShouldBeNil)
			So(aq.IsCorrect, ShouldBeFalse)
			So(aq.PointsEarned, ShouldEqual, 0)
			So(e.Status(), ShouldEqual, domain.StatusFinished)

			view := e.View()
			So(view.Reason, ShouldEqual, domain.EndWrongAnswer)
			So(view.Score, ShouldEqual, 20)
			So(view.Answers, ShouldHaveLength, 2)
			So(view.CurrentQuestion, ShouldBeNil)

			So(results, ShouldHaveLength, 1)
			So(results[0].Username, ShouldEqual, "alice")
			So(results[0].Score, ShouldEqual, 20)
			So(results[0].Tier, ShouldEqual, domain.TierEasy)

			Convey("And no further answers or restarts are accepted", func() {
				_, err := e.Answer(strPtr("Paris"), 5)
				So(err, ShouldEqual, domain.ErrNotInProgress)
				So(e.Start("alice"), ShouldEqual, domain.ErrSessionFinished)
				So(results, ShouldHaveLength, 1)
			})
		})

		Convey("A nil choice is a timeout", func() {
			aq, err := e.Answer(nil, 0)
			So(err, ShouldBeNil)
			So(aq.IsCorrect, ShouldBeFalse)
			So(aq.UserAnswer, ShouldEqual, "")
			So(e.View().Reason, ShouldEqual, domain.EndTimeout)
		})

		Convey("Ticking to zero reports expiry", func() {
			for i := 0; i < 19; i++ {
				So(e.Tick(), ShouldBeFalse)
			}
			So(e.Tick(), ShouldBeTrue)
			So(e.View().TimeLeft, ShouldEqual, 0)
		})

		Convey("Starting twice is rejected", func() {
			So(e.Start("alice"), ShouldEqual, domain.ErrAlreadyStarted)
		})
	})

	Convey("An empty username is rejected", t, func() {
		e := NewEngine(seededBank(t, questionbank.Capitals(), 1))
		So(e.Start("   "), ShouldEqual, domain.ErrEmptyUsername)
		So(e.Status(), ShouldEqual, domain.StatusNotStarted)
	})
}

func TestEngineProgression(t *testing.T) {
	Convey("Given a player who never misses", t, func() {
		e := NewEngine(seededBank(t, questionbank.Capitals(), 99))
		So(e.Start("bob"), ShouldBeNil)

		served := func(n int) map[domain.Tier]int {
			counts := map[domain.Tier]int{}
			for i := 0; i < n; i++ {
				tier, _ := answerCorrectly(e, 0)
				counts[tier]++
			}
			return counts
		}

		first := served(10)
		So(first[domain.TierEasy], ShouldEqual, 10)

		Convey("The 11th question is served from a medium batch", func() {
			So(e.View().Tier, ShouldEqual, domain.TierMedium)
			So(e.View().TimeLeft, ShouldEqual, 15)

			second := served(10)
			So(second[domain.TierEasy], ShouldBeLessThanOrEqualTo, 5)
			So(second[domain.TierEasy]+second[domain.TierMedium], ShouldEqual, 10)

			Convey("After 20 the batch turns hard", func() {
				So(e.View().Tier, ShouldEqual, domain.TierHard)
				third := served(10)
				So(third[domain.TierMedium], ShouldBeLessThanOrEqualTo, 5)
				So(third[domain.TierMedium]+third[domain.TierHard], ShouldEqual, 10)

				Convey("After 30 only hard questions remain", func() {
					So(e.View().Tier, ShouldEqual, domain.TierHard)
					fourth := served(10)
					So(fourth[domain.TierHard], ShouldEqual, 10)
				})
			})
		})
	})
}

func TestEngineExhaustion(t *testing.T) {
	Convey("Given a player who answers every question", t, func() {
		var result *domain.SessionResult
		e := NewEngine(seededBank(t, questionbank.Capitals(), 5), WithFinishHook(func(r domain.SessionResult) {
			result = &r
		}))
		So(e.Start("carol"), ShouldBeNil)

		seen := map[string]bool{}
		lastScore, lastAnswered := 0, 0
		for e.Status() == domain.StatusInProgress {
			q, _ := e.CurrentQuestion()
			So(seen[q.Key], ShouldBeFalse)
			seen[q.Key] = true
			answerCorrectly(e, 3)

			view := e.View()
			So(view.Score, ShouldBeGreaterThanOrEqualTo, lastScore)
			So(view.QuestionsAnswered, ShouldBeGreaterThanOrEqualTo, lastAnswered)
			lastScore, lastAnswered = view.Score, view.QuestionsAnswered
		}

		Convey("Then the session ends as exhausted, not failed", func() {
			So(e.View().Reason, ShouldEqual, domain.EndExhausted)
			So(result, ShouldNotBeNil)
			So(result.QuestionsAnswered, ShouldEqual, len(seen))
			// 15 easy, 10 medium and every hard fact are reachable.
			So(len(seen), ShouldEqual, 15+10+147)
		})
	})

	Convey("A catalog with no easy facts finishes on start", t, func() {
		facts := []domain.CapitalFact{
			{Country: "A", Capital: "W", Tier: domain.TierHard},
			{Country: "B", Capital: "X", Tier: domain.TierHard},
			{Country: "C", Capital: "Y", Tier: domain.TierHard},
			{Country: "D", Capital: "Z", Tier: domain.TierHard},
		}
		e := NewEngine(seededBank(t, facts, 1))
		So(e.Start("dave"), ShouldBeNil)
		So(e.Status(), ShouldEqual, domain.StatusFinished)
		So(e.View().Reason, ShouldEqual, domain.EndExhausted)
	})
}

func TestPlanBatch(t *testing.T) {
	Convey("Batch plans match the progression table", t, func() {
		parts, tier := planBatch(0)
		So(tier, ShouldEqual, domain.TierEasy)
		So(parts, ShouldResemble, []batchPart{{domain.TierEasy, 10}})

		parts, tier = planBatch(15)
		So(tier, ShouldEqual, domain.TierMedium)
		So(parts, ShouldResemble, []batchPart{{domain.TierEasy, 5}, {domain.TierMedium, 10}})

		parts, tier = planBatch(29)
		So(tier, ShouldEqual, domain.TierHard)
		So(parts, ShouldResemble, []batchPart{{domain.TierMedium, 5}, {domain.TierHard, 10}})

		parts, tier = planBatch(30)
		So(tier, ShouldEqual, domain.TierHard)
		So(parts, ShouldResemble, []batchPart{{domain.TierHard, 10}})
	})
}
