package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_http_requests_total",
			Help: "Total number of HTTP requests processed by the job board.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jobboard_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	wsActiveConnections = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "jobboard_ws_active_connections",
			Help: "Number of active websocket connections.",
		},
		[]string{"kind"},
	)
	wsEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_ws_events_total",
			Help: "Total number of websocket events.",
		},
		[]string{"kind", "event"},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobboard_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
	applicationsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobboard_applications_created_total",
			Help: "Total number of job applications submitted.",
		},
	)
	applicationDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_application_decisions_total",
			Help: "Application status changes by resulting status.",
		},
		[]string{"status"},
	)
	messagesSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_chat_messages_sent_total",
			Help: "Chat messages stored, by message type.",
		},
		[]string{"type"},
	)
	roomTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_chat_room_transitions_total",
			Help: "Chat room lifecycle transitions.",
		},
		[]string{"transition"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		wsActiveConnections,
		wsEventsTotal,
		amqpPublishErrorsTotal,
		applicationsCreatedTotal,
		applicationDecisionsTotal,
		messagesSentTotal,
		roomTransitionsTotal,
	)
}

func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func IncWSActive(kind string) {
	wsActiveConnections.WithLabelValues(kind).Inc()
}

func DecWSActive(kind string) {
	wsActiveConnections.WithLabelValues(kind).Dec()
}

func IncWSEvent(kind, event string) {
	wsEventsTotal.WithLabelValues(kind, event).Inc()
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}

func IncApplicationCreated() {
	applicationsCreatedTotal.Inc()
}

func IncApplicationDecision(status string) {
	applicationDecisionsTotal.WithLabelValues(status).Inc()
}

func IncMessageSent(msgType string) {
	messagesSentTotal.WithLabelValues(msgType).Inc()
}

// IncRoomTransition counts created, reactivated, left and closed rooms.
func IncRoomTransition(transition string) {
	roomTransitionsTotal.WithLabelValues(transition).Inc()
}
