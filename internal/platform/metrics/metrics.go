package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	UsersCreated    prometheus.Counter
	PollsCreated    prometheus.Counter
	GuessesCreated  prometheus.Counter
	GuessesRejected *prometheus.CounterVec
	RequestLatency  *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		UsersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bolao_users_created_total",
			Help: "Total number of users created in the system",
		}),
		PollsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bolao_polls_created_total",
			Help: "Total number of polls created in the system",
		}),
		GuessesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bolao_guesses_created_total",
			Help: "Total number of guesses accepted by the submission workflow",
		}),
		GuessesRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bolao_guesses_rejected_total",
			Help: "Total number of guess submissions rejected, by guard",
		}, []string{"reason"}),
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bolao_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}
}

// IncrementUsersCreated increments the users created counter by 1.
func (m *Metrics) IncrementUsersCreated() {
	m.UsersCreated.Inc()
}

// IncrementPollsCreated increments the polls created counter by 1.
func (m *Metrics) IncrementPollsCreated() {
	m.PollsCreated.Inc()
}

// IncrementGuessesCreated increments the guesses created counter by 1.
func (m *Metrics) IncrementGuessesCreated() {
	m.GuessesCreated.Inc()
}

// IncrementGuessesRejected counts a rejected submission under its guard name.
func (m *Metrics) IncrementGuessesRejected(reason string) {
	m.GuessesRejected.WithLabelValues(reason).Inc()
}
