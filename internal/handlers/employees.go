package handlers

import (
	"net/http"

	"github.com/shrimpsizemoose/hrdesk/internal/app"
	"github.com/shrimpsizemoose/hrdesk/internal/metrics"
	"github.com/shrimpsizemoose/hrdesk/internal/models"
)

type EmployeeHandler struct {
	service *app.Service
}

func NewEmployeeHandler(service *app.Service) *EmployeeHandler {
	return &EmployeeHandler{
		service: service,
	}
}

func (h *EmployeeHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	employees, err := h.service.ListEmployees(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, employees)
}

func (h *EmployeeHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req models.EmployeeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, app.InvalidBody())
		return
	}

	if _, err := h.service.CreateEmployee(r.Context(), &req); err != nil {
		writeError(w, r, err)
		return
	}

	metrics.EmployeesCreatedTotal.Inc()
	writeMessage(w, http.StatusCreated, "Employee added successfully")
}

func (h *EmployeeHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.service.DeleteEmployee(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	metrics.EmployeesDeletedTotal.Inc()
	writeMessage(w, http.StatusOK, "Employee deleted")
}
