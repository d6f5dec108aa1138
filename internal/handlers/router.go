package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shrimpsizemoose/hrdesk/internal/app"
	"github.com/shrimpsizemoose/hrdesk/internal/metrics"
)

// NewRouter registers the HR API on a fresh mux wrapped in request metrics.
func NewRouter(service *app.Service) http.Handler {
	employees := NewEmployeeHandler(service)
	attendance := NewAttendanceHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/employees", employees.HandleList)
	mux.HandleFunc("POST /api/employees", employees.HandleCreate)
	mux.HandleFunc("DELETE /api/employees/{id}", employees.HandleDelete)

	mux.HandleFunc("POST /api/attendance", attendance.HandleMark)
	mux.HandleFunc("GET /api/attendance/today", attendance.HandleToday)
	mux.HandleFunc("GET /api/attendance/summary", attendance.HandleSummary)
	mux.HandleFunc("GET /api/attendance/daily/{date}", attendance.HandleDaily)
	mux.HandleFunc("GET /api/attendance/{employee_id}", attendance.HandleHistory)

	return withMetrics(mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		// the mux fills in Pattern on the way through
		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}
		metrics.APIRequestDuration.WithLabelValues(
			path,
			r.Method,
			strconv.Itoa(rec.status),
		).Observe(time.Since(start).Seconds())
	})
}
