package http

import (
	"encoding/json"
	"net/http"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/user"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/handler/http/response"
)

type UserHandler interface {
	ListUsers(w http.ResponseWriter, r *http.Request)
	CreateUser(w http.ResponseWriter, r *http.Request)
}

type userHandlerImpl struct {
	userService user.UserService
}

func NewUserHandler(userService user.UserService) UserHandler {
	return &userHandlerImpl{userService: userService}
}

func (h *userHandlerImpl) ListUsers(w http.ResponseWriter, r *http.Request) {
	results, err := h.userService.ListUsers(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, results, &response.Meta{TotalItems: int64(len(results))})
}

func (h *userHandlerImpl) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req user.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.userService.CreateUser(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "User created", result)
}
