package service

import (
	"context"
	"time"

	"clubpos/internal/apierror"
	"clubpos/internal/dto"
	"clubpos/internal/model"
	"clubpos/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	Create(ctx context.Context, req dto.CreateUserRequest) (*dto.UserListItem, error)
	List(ctx context.Context) ([]dto.UserListItem, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateUserRequest) (*dto.UserListItem, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req dto.ChangePasswordRequest) error
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) Create(ctx context.Context, req dto.CreateUserRequest) (*dto.UserListItem, error) {
	if existing, err := s.users.FindByUsername(ctx, req.Username); err == nil && existing != nil {
		return nil, apierror.Conflictf("el usuario %s ya existe", req.Username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         req.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return userToItem(user), nil
}

func (s *userService) List(ctx context.Context) ([]dto.UserListItem, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserListItem, len(users))
	for i := range users {
		items[i] = *userToItem(&users[i])
	}
	return items, nil
}

func (s *userService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateUserRequest) (*dto.UserListItem, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFoundf("usuario %s", id)
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
		// Password reset invalidates any open session
		user.RefreshHash = nil
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return userToItem(user), nil
}

func (s *userService) ChangePassword(ctx context.Context, userID uuid.UUID, req dto.ChangePasswordRequest) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return apierror.NotFoundf("usuario %s", userID)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return apierror.Unauthorizedf("contrasena actual incorrecta")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), 12)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	return s.users.Update(ctx, user)
}

func userToItem(u *model.User) *dto.UserListItem {
	return &dto.UserListItem{
		ID:        u.ID.String(),
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}
