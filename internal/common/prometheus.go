package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	EntryVerificationTotal     = "entry_verification_total"
	WinnerCreatedTotal         = "winner_created_total"
	AnnouncementFailureTotal   = "announcement_failure_total"
)

var (
	PromGauges = map[string]*prometheus.GaugeVec{}

	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"method", "status_code"}),
		EntryVerificationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: EntryVerificationTotal,
			Help: "Count of entry verifications by resulting status",
		}, []string{"status"}),
		WinnerCreatedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: WinnerCreatedTotal,
			Help: "Count of created winners by selection mode",
		}, []string{"mode"}),
		AnnouncementFailureTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: AnnouncementFailureTotal,
			Help: "Count of winner announcements which could not be posted",
		}, []string{}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"method", "status_code"}),
	}

	PromSummaries = map[string]*prometheus.SummaryVec{}
)
