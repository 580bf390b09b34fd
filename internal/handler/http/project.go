package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/project"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/handler/http/response"
)

type ProjectHandler interface {
	ListProjects(w http.ResponseWriter, r *http.Request)
	GetProject(w http.ResponseWriter, r *http.Request)
	CreateProject(w http.ResponseWriter, r *http.Request)
	UpdateProject(w http.ResponseWriter, r *http.Request)
	DeleteProject(w http.ResponseWriter, r *http.Request)
}

type projectHandlerImpl struct {
	projectService project.ProjectService
}

func NewProjectHandler(projectService project.ProjectService) ProjectHandler {
	return &projectHandlerImpl{projectService: projectService}
}

// decodeProjectBody keeps roster decoding errors distinct from malformed JSON
func decodeProjectBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, project.ErrInvalidEmployees) {
			return err
		}
		return errMalformedBody
	}
	return nil
}

var errMalformedBody = errors.New("invalid request format")

// ListProjects handles GET /projects?department=
func (h *projectHandlerImpl) ListProjects(w http.ResponseWriter, r *http.Request) {
	filter := project.ProjectFilter{Department: queryPtr(r, "department")}

	results, err := h.projectService.ListProjects(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, results, &response.Meta{TotalItems: int64(len(results))})
}

func (h *projectHandlerImpl) GetProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Project ID is required", nil)
		return
	}

	result, err := h.projectService.GetProject(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *projectHandlerImpl) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req project.CreateProjectRequest
	if err := decodeProjectBody(r, &req); err != nil {
		if errors.Is(err, errMalformedBody) {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
		response.HandleError(w, err)
		return
	}

	result, err := h.projectService.CreateProject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Project created", result)
}

func (h *projectHandlerImpl) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Project ID is required", nil)
		return
	}

	var req project.UpdateProjectRequest
	if err := decodeProjectBody(r, &req); err != nil {
		if errors.Is(err, errMalformedBody) {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
		response.HandleError(w, err)
		return
	}
	req.ID = id

	result, err := h.projectService.UpdateProject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Project updated", result)
}

func (h *projectHandlerImpl) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Project ID is required", nil)
		return
	}

	if err := h.projectService.DeleteProject(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Project deleted", nil)
}
