// Package telemetry exports Prometheus metrics for the quiz operations.
//
// Metrics are fed off the event bus rather than from the handlers, so the
// service layer stays unaware of instrumentation.
package telemetry

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/quizkit/quizkit/internal/domain"
	"github.com/quizkit/quizkit/internal/event"
)

type Metrics struct {
	quizzesCreated    prometheus.Counter
	questionsAdded    prometheus.Counter
	submissionsScored prometheus.Counter
	scoreRatio        prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		quizzesCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "quizkit",
			Name:      "quizzes_created_total",
			Help:      "Number of quizzes created.",
		}),
		questionsAdded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "quizkit",
			Name:      "questions_added_total",
			Help:      "Number of questions attached to quizzes.",
		}),
		submissionsScored: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "quizkit",
			Name:      "submissions_scored_total",
			Help:      "Number of submissions scored.",
		}),
		scoreRatio: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quizkit",
			Name:      "submission_score_ratio",
			Help:      "Score over total per scored submission.",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		}),
	}
}

// Observe subscribes the metrics to the bus. Call once during startup.
func (m *Metrics) Observe(eb *event.Bus) {
	eb.Subscribe(domain.EventNameQuizCreated, func(ctx context.Context, e event.Event) error {
		m.quizzesCreated.Inc()
		return nil
	})

	eb.Subscribe(domain.EventNameQuestionsAdded, func(ctx context.Context, e event.Event) error {
		if added, ok := e.(domain.EventQuestionsAdded); ok {
			m.questionsAdded.Add(float64(len(added.Questions)))
		}
		return nil
	})

	eb.Subscribe(domain.EventNameSubmissionScored, func(ctx context.Context, e event.Event) error {
		m.submissionsScored.Inc()

		scored, ok := e.(domain.EventSubmissionScored)
		if !ok || scored.Summary.Total == 0 {
			return nil
		}

		m.scoreRatio.Observe(float64(scored.Summary.Score) / float64(scored.Summary.Total))
		return nil
	})
}
