package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the bot.
type Metrics struct {
	InteractionsHandled *prometheus.CounterVec
	InteractionFailures *prometheus.CounterVec
	HandleLatency       prometheus.Histogram
	TasksCreated        prometheus.Counter
	TasksCompleted      prometheus.Counter
	TasksCancelled      prometheus.Counter
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		InteractionsHandled: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interactions_handled_total",
			Help:      "Interactions handled by kind and name.",
		}, []string{"kind", "name"}),
		InteractionFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interaction_failures_total",
			Help:      "Interactions that ended in an error by kind.",
		}, []string{"kind"}),
		HandleLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "interaction_handle_seconds",
			Help:      "Time spent handling one interaction.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}),
		TasksCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_created_total",
			Help:      "Tasks created.",
		}),
		TasksCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_completed_total",
			Help:      "Tasks completed.",
		}),
		TasksCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_cancelled_total",
			Help:      "Tasks cancelled after confirmation.",
		}),
	}
}

func (m *Metrics) ObserveHandle(d time.Duration) {
	if m == nil {
		return
	}
	m.HandleLatency.Observe(d.Seconds())
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
