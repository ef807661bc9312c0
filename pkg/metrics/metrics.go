package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "empi"

	metricLabelRoute   = "route"
	metricLabelStatus  = "status"
	metricLabelBackend = "backend"
)

// Metrics is the structure that holds all prometheus metrics
var (
	// ServiceRequestCounter count the number of requests for each route
	ServiceRequestCounter = newCounterVec(
		"service_request_count",
		"Count of requests for each route",
		metricLabelRoute, metricLabelStatus,
	)
	// ServiceRequestDuration observe the duration of requests for each route
	ServiceRequestDuration = newSummaryVec(
		"service_request_duration_seconds",
		"Seconds to decode a request, execute it and encode its response",
		metricLabelRoute, metricLabelStatus,
	)
	// StorageOpenCounter count storage stream opens per backend
	StorageOpenCounter = newCounterVec(
		"storage_open_count",
		"Number of storage stream opens per backend and status",
		metricLabelBackend, metricLabelStatus,
	)
	// RecordsImportedCounter count the person records imported
	RecordsImportedCounter = newCounterVec(
		"records_imported_count",
		"Number of person records imported",
	)
)

func newSummaryVec(name, help string, labels ...string) *prometheus.SummaryVec {
	vec := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}

func newCounterVec(name, help string, labels ...string) *prometheus.CounterVec {
	vec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}
