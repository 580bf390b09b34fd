package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/employee"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/staff"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/handler/http/response"
)

// StaffHandler serves /others: cleaning staff and drivers
type StaffHandler interface {
	ListAllStaff(w http.ResponseWriter, r *http.Request)
	ListStaff(w http.ResponseWriter, r *http.Request)
	GetStaff(w http.ResponseWriter, r *http.Request)
	CreateStaff(w http.ResponseWriter, r *http.Request)
	UpdateStaff(w http.ResponseWriter, r *http.Request)
	DeleteStaff(w http.ResponseWriter, r *http.Request)
}

type staffHandlerImpl struct {
	staffService staff.StaffService
}

func NewStaffHandler(staffService staff.StaffService) StaffHandler {
	return &staffHandlerImpl{staffService: staffService}
}

func (h *staffHandlerImpl) ListAllStaff(w http.ResponseWriter, r *http.Request) {
	results, err := h.staffService.ListAllStaff(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, results, &response.Meta{TotalItems: int64(len(results))})
}

// ListStaff handles GET /others/{category}
func (h *staffHandlerImpl) ListStaff(w http.ResponseWriter, r *http.Request) {
	category, err := staff.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	results, err := h.staffService.ListStaff(r.Context(), category)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, results, &response.Meta{TotalItems: int64(len(results))})
}

func (h *staffHandlerImpl) GetStaff(w http.ResponseWriter, r *http.Request) {
	category, err := staff.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.staffService.GetStaff(r.Context(), category, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *staffHandlerImpl) CreateStaff(w http.ResponseWriter, r *http.Request) {
	category, err := staff.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req employee.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.staffService.CreateStaff(r.Context(), category, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Staff member created", result)
}

func (h *staffHandlerImpl) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	category, err := staff.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req employee.UpdateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.staffService.UpdateStaff(r.Context(), category, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Staff member updated", result)
}

func (h *staffHandlerImpl) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	category, err := staff.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.staffService.DeleteStaff(r.Context(), category, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Staff member deleted", nil)
}
