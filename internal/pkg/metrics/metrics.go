package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Entity label values.
const (
	EntityLeave      = "leave_request"
	EntityAssessment = "assessment"
)

// Result label values.
const (
	ResultSuccess  = "success"
	ResultDenied   = "denied"
	ResultConflict = "conflict"
	ResultError    = "error"
)

type workflowMetrics struct {
	transitionsTotal   *prometheus.CounterVec
	transitionLatency  *prometheus.HistogramVec
	createdTotal       *prometheus.CounterVec
	bookingUpdateTotal *prometheus.CounterVec
	openRequests       *prometheus.GaugeVec
	sseSubscribers     prometheus.Gauge
}

var workflowSingleton = sync.OnceValue(func() *workflowMetrics {
	return &workflowMetrics{
		transitionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hc_workflow",
			Name:      "transitions_total",
			Help:      "Total number of approval transition attempts.",
		}, []string{"entity", "level", "action", "result"}),
		transitionLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hc_workflow",
			Name:      "transition_duration_seconds",
			Help:      "Latency of the transaction applying a transition.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"entity", "result"}),
		createdTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hc_workflow",
			Name:      "created_total",
			Help:      "Total number of submitted requests.",
		}, []string{"entity"}),
		bookingUpdateTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hc_workflow",
			Name:      "booking_updates_total",
			Help:      "Total number of booking code updates.",
		}, []string{"result"}),
		openRequests: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "hc_workflow",
			Name:      "open_requests",
			Help:      "Leave requests currently waiting at each non-final status.",
		}, []string{"status"}),
		sseSubscribers: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "hc_workflow",
			Name:      "sse_subscribers",
			Help:      "Open event stream connections.",
		}),
	}
})

func RecordTransition(entity, level, action, result string) {
	workflowSingleton().transitionsTotal.WithLabelValues(entity, level, action, result).Inc()
}

func ObserveTransitionDuration(entity, result string, d time.Duration) {
	workflowSingleton().transitionLatency.WithLabelValues(entity, result).Observe(d.Seconds())
}

func RecordCreated(entity string) {
	workflowSingleton().createdTotal.WithLabelValues(entity).Inc()
}

func RecordBookingUpdate(result string) {
	workflowSingleton().bookingUpdateTotal.WithLabelValues(result).Inc()
}

func SetOpenRequests(status string, n int) {
	workflowSingleton().openRequests.WithLabelValues(status).Set(float64(n))
}

func SetSSESubscribers(n int) {
	workflowSingleton().sseSubscribers.Set(float64(n))
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
