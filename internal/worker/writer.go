package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"capitals-quiz/internal/domain"
	"capitals-quiz/internal/metrics"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	defaultWorkers = 2
	defaultRetries = 3
	defaultBackoff = 200 * time.Millisecond
	defaultTimeout = 5 * time.Second
)

// Recorder writes a score to the leaderboard.
type Recorder interface {
	RecordScore(ctx context.Context, username string, score int, tier domain.Tier) (domain.RecordOutcome, error)
}

// Reporter carries the save outcome back to the live session.
type Reporter interface {
	ReportSaved(ctx context.Context, sessionID string, outcome domain.SaveOutcome) error
}

// Writer drains a ResultQueue into the leaderboard with bounded retries.
// Replaying RecordScore is safe because the stored score is a monotone max.
type Writer struct {
	queue    *ResultQueue
	recorder Recorder
	reporter Reporter
	log      zerolog.Logger

	workers int
	retries int
	backoff time.Duration
	timeout time.Duration

	done chan struct{}
}

// Option configures a Writer.
type Option func(*Writer)

// WithWorkers sets how many goroutines drain the queue.
func WithWorkers(n int) Option {
	return func(w *Writer) {
		if n > 0 {
			w.workers = n
		}
	}
}

// WithRetries sets how many times a failed write is retried.
func WithRetries(n int) Option {
	return func(w *Writer) {
		if n >= 0 {
			w.retries = n
		}
	}
}

// WithBackoff sets the base delay; attempt n waits n*backoff.
func WithBackoff(d time.Duration) Option {
	return func(w *Writer) {
		if d >= 0 {
			w.backoff = d
		}
	}
}

// WithWriteTimeout bounds each RecordScore attempt.
func WithWriteTimeout(d time.Duration) Option {
	return func(w *Writer) {
		if d > 0 {
			w.timeout = d
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(log zerolog.Logger) Option {
	return func(w *Writer) {
		w.log = log
	}
}

func NewWriter(queue *ResultQueue, recorder Recorder, reporter Reporter, opts ...Option) *Writer {
	w := &Writer{
		queue:    queue,
		recorder: recorder,
		reporter: reporter,
		log:      zerolog.Nop(),
		workers:  defaultWorkers,
		retries:  defaultRetries,
		backoff:  defaultBackoff,
		timeout:  defaultTimeout,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run processes results until the queue is closed and drained or ctx is done.
func (w *Writer) Run(ctx context.Context) error {
	defer close(w.done)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < w.workers; i++ {
		log := w.log.With().Int("worker", i).Logger()
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case result, ok := <-w.queue.Results():
					if !ok {
						return nil
					}
					metrics.WriterQueueDepth(w.queue.Len())
					w.process(ctx, log, result)
				}
			}
		})
	}
	return g.Wait()
}

// Shutdown stops intake and waits for queued results to be written.
func (w *Writer) Shutdown(ctx context.Context) error {
	if err := w.queue.Close(); err != nil {
		return err
	}
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.log.Warn().Int("pending", w.queue.Len()).Msg("writer shutdown timed out")
		return fmt.Errorf("writer shutdown: %w", ctx.Err())
	}
}

func (w *Writer) process(ctx context.Context, log zerolog.Logger, result domain.SessionResult) {
	log = log.With().
		Str("session_id", result.SessionID).
		Str("username", result.Username).
		Logger()

	outcome, err := w.record(ctx, log, result)
	saved := domain.SaveOutcome{Status: domain.SaveSaved, NewBest: outcome.NewBest}
	if err != nil {
		log.Error().Err(err).Int("score", result.Score).Msg("leaderboard write failed")
		saved = domain.SaveOutcome{Status: domain.SaveFailed, Err: err}
	} else {
		log.Info().
			Int("score", result.Score).
			Str("tier", string(result.Tier)).
			Bool("new_best", outcome.NewBest).
			Msg("score saved")
	}

	if w.reporter == nil || result.SessionID == "" {
		return
	}
	if err := w.reporter.ReportSaved(ctx, result.SessionID, saved); err != nil {
		// The player may have left already.
		log.Debug().Err(err).Msg("save outcome not delivered")
	}
}

func (w *Writer) record(ctx context.Context, log zerolog.Logger, result domain.SessionResult) (domain.RecordOutcome, error) {
	var lastErr error
	for attempt := 0; attempt <= w.retries; attempt++ {
		if attempt > 0 {
			metrics.WriterRetry()
			log.Warn().Err(lastErr).Int("attempt", attempt).Msg("retrying leaderboard write")
			select {
			case <-ctx.Done():
				return domain.RecordOutcome{}, ctx.Err()
			case <-time.After(time.Duration(attempt) * w.backoff):
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, w.timeout)
		outcome, err := w.recorder.RecordScore(attemptCtx, result.Username, result.Score, result.Tier)
		cancel()
		if err == nil {
			return outcome, nil
		}
		if permanent(err) {
			return domain.RecordOutcome{}, err
		}
		lastErr = err
	}
	return domain.RecordOutcome{}, fmt.Errorf("after %d retries: %w", w.retries, lastErr)
}

// permanent reports errors a retry cannot fix.
func permanent(err error) bool {
	return errors.Is(err, domain.ErrEmptyUsername) ||
		errors.Is(err, domain.ErrNegativeScore) ||
		errors.Is(err, domain.ErrInvalidTier)
}
