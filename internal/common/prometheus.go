package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	AdRewardTicketsTotal       = "ad_reward_tickets_total"
	AbuseFlagsTotal            = "abuse_flags_total"
	RoundsSettledTotal         = "rounds_settled_total"
	PushMessagesTotal          = "push_messages_total"
)

var (
	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"path", "status_code"}),
		AdRewardTicketsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: AdRewardTicketsTotal,
			Help: "Tickets credited by completed ad sessions",
		}, []string{"seq"}),
		AbuseFlagsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: AbuseFlagsTotal,
			Help: "Users flagged by the abuse sweep",
		}, []string{"reason"}),
		RoundsSettledTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: RoundsSettledTotal,
			Help: "Rounds settled by draw-apply-results and process-winners",
		}, []string{"path"}),
		PushMessagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: PushMessagesTotal,
			Help: "Winner notifications sent through the push provider",
		}, []string{"result"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"path", "status_code"}),
	}
)
