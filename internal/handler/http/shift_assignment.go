package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/shiftassign"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/handler/http/response"
)

type ShiftAssignmentHandler interface {
	// Get handles GET /shiftAssignments/{projectId}/{monthYear}
	Get(w http.ResponseWriter, r *http.Request)
	// Save handles POST /shiftAssignments
	Save(w http.ResponseWriter, r *http.Request)
	// Delete handles DELETE /shiftAssignments/{projectId}/{monthYear}
	Delete(w http.ResponseWriter, r *http.Request)
	// Export handles GET /shiftAssignments/{projectId}/{monthYear}/export?format=xlsx|csv
	Export(w http.ResponseWriter, r *http.Request)
}

type shiftAssignmentHandlerImpl struct {
	service shiftassign.Service
}

func NewShiftAssignmentHandler(service shiftassign.Service) ShiftAssignmentHandler {
	return &shiftAssignmentHandlerImpl{service: service}
}

func (h *shiftAssignmentHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectId")
	monthYear := chi.URLParam(r, "monthYear")

	result, err := h.service.Get(r.Context(), projectID, monthYear)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *shiftAssignmentHandlerImpl) Save(w http.ResponseWriter, r *http.Request) {
	var req shiftassign.SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.service.Save(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if result.Inserted {
		response.Created(w, "Shift assignments created", result)
		return
	}
	response.SuccessWithMessage(w, "Shift assignments updated", result)
}

func (h *shiftAssignmentHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "projectId"), chi.URLParam(r, "monthYear")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift assignments deleted", nil)
}

func (h *shiftAssignmentHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	format, err := shiftassign.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.service.Export(r.Context(), chi.URLParam(r, "projectId"), chi.URLParam(r, "monthYear"), format)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, result.FileName, result.ContentType, result.Content)
}
