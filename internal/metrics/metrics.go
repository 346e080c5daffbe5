// Package metrics exposes Prometheus collectors for the quiz service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "capitals_quiz"
)

// Registry is the service registry; it avoids polluting the default one in tests.
var Registry = prometheus.NewRegistry() //nolint:gochecknoglobals

var (
	auto = promauto.With(Registry)

	sessionsStarted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "quiz",
		Name:      "sessions_started_total",
		Help:      "Quiz sessions started.",
	})

	sessionsFinished = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "quiz",
		Name:      "sessions_finished_total",
		Help:      "Quiz sessions finished, by end reason.",
	}, []string{"reason"})

	activeSessions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "quiz",
		Name:      "active_sessions",
		Help:      "Sessions currently held in the session store.",
	})

	answers = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "quiz",
		Name:      "answers_total",
		Help:      "Answers submitted, by tier and correctness.",
	}, []string{"tier", "correct"})

	finalScores = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "quiz",
		Name:      "final_score",
		Help:      "Distribution of final session scores by ending tier.",
		Buckets:   []float64{0, 25, 50, 100, 200, 400, 800, 1600, 3200},
	}, []string{"tier"})

	leaderboardWrites = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "leaderboard",
		Name:      "writes_total",
		Help:      "RecordScore calls by outcome (improved, unchanged, error).",
	}, []string{"outcome"})

	leaderboardErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "leaderboard",
		Name:      "errors_total",
		Help:      "Leaderboard store failures by operation.",
	}, []string{"op"})

	writerQueueDepth = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "writer",
		Name:      "queue_depth",
		Help:      "Session results waiting to be written.",
	})

	writerDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "writer",
		Name:      "dropped_total",
		Help:      "Session results rejected because the queue was full or closed.",
	})

	writerRetries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "writer",
		Name:      "retries_total",
		Help:      "RecordScore retries after transient failures.",
	})

	httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by endpoint, method and status code.",
	}, []string{"endpoint", "method", "status_code"})

	httpDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"endpoint", "method"})
)

func init() { //nolint:gochecknoinits
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func SessionStarted()                   { sessionsStarted.Inc(); activeSessions.Inc() }
func SessionReleased()                  { activeSessions.Dec() }
func SessionFinished(reason string)     { sessionsFinished.WithLabelValues(reason).Inc() }
func FinalScore(tier string, score int) { finalScores.WithLabelValues(tier).Observe(float64(score)) }
func LeaderboardWrite(outcome string)   { leaderboardWrites.WithLabelValues(outcome).Inc() }
func LeaderboardError(op string)        { leaderboardErrors.WithLabelValues(op).Inc() }
func WriterQueueDepth(n int)            { writerQueueDepth.Set(float64(n)) }
func WriterDropped()                    { writerDropped.Inc() }
func WriterRetry()                      { writerRetries.Inc() }

// HTTPRequest counts a served request.
func HTTPRequest(endpoint, method, code string) {
	httpRequests.WithLabelValues(endpoint, method, code).Inc()
}

// Answer counts a submission.
func Answer(tier string, correct bool) {
	label := "false"
	if correct {
		label = "true"
	}
	answers.WithLabelValues(tier, label).Inc()
}

// HTTPDuration observes request latency in seconds.
func HTTPDuration(endpoint, method string, seconds float64) {
	httpDuration.WithLabelValues(endpoint, method).Observe(seconds)
}
