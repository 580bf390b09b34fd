package user

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/user"
)

type userServiceImpl struct {
	userRepo user.UserRepository
}

func NewUserService(userRepo user.UserRepository) user.UserService {
	return &userServiceImpl{userRepo: userRepo}
}

func (s *userServiceImpl) ListUsers(ctx context.Context) ([]user.UserResponse, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	responses := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, user.ToResponse(u))
	}
	return responses, nil
}

func (s *userServiceImpl) CreateUser(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	exists, err := s.userRepo.ExistsByEmployeeID(ctx, req.EmployeeID)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to check employee ID: %w", err)
	}
	if exists {
		return user.UserResponse{}, user.ErrUserEmployeeIDExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.userRepo.Create(ctx, user.User{
		EmployeeID:   req.EmployeeID,
		Name:         req.Name,
		PasswordHash: string(hash),
		Role:         user.Role(req.Role),
	})
	if err != nil {
		return user.UserResponse{}, err
	}

	slog.Info("user created", "user_id", created.ID, "employee_id", created.EmployeeID, "role", created.Role)
	return user.ToResponse(created), nil
}
