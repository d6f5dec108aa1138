// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EmployeesCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hr_employees_created_total",
			Help: "Total number of employees created",
		},
	)

	EmployeesDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hr_employees_deleted_total",
			Help: "Total number of employees deleted",
		},
	)

	AttendanceMarkedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hr_attendance_marked_total",
			Help: "Total number of attendance marks saved",
		},
	)

	SnapshotCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hr_snapshot_cache_requests_total",
			Help: "Daily snapshot cache lookups by result",
		},
		[]string{"result"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
