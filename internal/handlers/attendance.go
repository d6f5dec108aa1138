package handlers

import (
	"net/http"

	"github.com/shrimpsizemoose/hrdesk/internal/app"
	"github.com/shrimpsizemoose/hrdesk/internal/metrics"
	"github.com/shrimpsizemoose/hrdesk/internal/models"
)

type AttendanceHandler struct {
	service *app.Service
}

func NewAttendanceHandler(service *app.Service) *AttendanceHandler {
	return &AttendanceHandler{
		service: service,
	}
}

func (h *AttendanceHandler) HandleMark(w http.ResponseWriter, r *http.Request) {
	var req models.AttendanceRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, app.InvalidBody())
		return
	}

	if _, err := h.service.MarkAttendance(r.Context(), &req); err != nil {
		writeError(w, r, err)
		return
	}

	metrics.AttendanceMarkedTotal.Inc()
	writeMessage(w, http.StatusCreated, "Attendance marked successfully")
}

func (h *AttendanceHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "employee_id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	records, err := h.service.History(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *AttendanceHandler) HandleDaily(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.DailySnapshot(r.Context(), r.PathValue("date"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (h *AttendanceHandler) HandleToday(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.TodaySnapshot(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// HandleSummary serves /api/attendance/summary?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (h *AttendanceHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	summaries, err := h.service.Summary(r.Context(), query.Get("from"), query.Get("to"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}
