package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mafiabot_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mafiabot_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mafiabot_http_rate_limited_total",
			Help: "Requests rejected by a rate limiter",
		},
		[]string{"limiter"},
	)

	// Moderation metrics
	MessagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mafiabot_messages_processed_total",
			Help: "Inbound messages by pipeline result",
		},
		[]string{"result"},
	)

	ModerationActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mafiabot_moderation_actions_total",
			Help: "Automatic moderation actions by category and outcome",
		},
		[]string{"category", "outcome"},
	)

	Redirects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mafiabot_redirects_total",
			Help: "Redirect messages sent to general channel users",
		},
		[]string{"outcome"},
	)

	RemoteCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mafiabot_discord_call_duration_seconds",
			Help:    "Latency of Discord REST calls made by the enforcer",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"op"},
	)

	CommandsExecuted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mafiabot_commands_executed_total",
			Help: "Slash commands handled",
		},
		[]string{"command", "status"},
	)

	// Dashboard metrics
	DashboardObservers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mafiabot_dashboard_observers",
			Help: "Connected dashboard clients",
		},
	)

	EventsBroadcast = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mafiabot_events_broadcast_total",
			Help: "Dashboard events broadcast by type",
		},
		[]string{"type"},
	)
)
