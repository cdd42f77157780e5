package service

import (
	"context"
	"errors"
	"testing"

	"clubpos/internal/apierror"
	"clubpos/internal/dto"
	"clubpos/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserCreateRejectsDuplicateUsername(t *testing.T) {
	repo := newStubUserRepo()
	repo.add("cajero1", "secreto123", model.RoleEmp)
	svc := NewUserService(repo)

	_, err := svc.Create(context.Background(), dto.CreateUserRequest{
		Username: "cajero1",
		Password: "otra-clave",
		Role:     model.RoleEmp,
	})
	assert.True(t, errors.Is(err, apierror.ErrConflict))
}

func TestUserCreateHashesPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo)

	item, err := svc.Create(context.Background(), dto.CreateUserRequest{
		Username: "admin1",
		Password: "clave-segura",
		Role:     model.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, item.Role)

	stored, err := repo.FindByUsername(context.Background(), "admin1")
	require.NoError(t, err)
	assert.NotEqual(t, "clave-segura", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("clave-segura")))
}

func TestUserUpdatePasswordRevokesSession(t *testing.T) {
	repo := newStubUserRepo()
	u := repo.add("cajero1", "secreto123", model.RoleEmp)
	hash := "algun-refresh-hash"
	u.RefreshHash = &hash
	svc := NewUserService(repo)

	_, err := svc.Update(context.Background(), u.ID, dto.UpdateUserRequest{Password: "clave-nueva"})
	require.NoError(t, err)

	assert.Nil(t, u.RefreshHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("clave-nueva")))
}

func TestChangePasswordChecksCurrent(t *testing.T) {
	repo := newStubUserRepo()
	u := repo.add("cajero1", "secreto123", model.RoleEmp)
	svc := NewUserService(repo)

	err := svc.ChangePassword(context.Background(), u.ID, dto.ChangePasswordRequest{
		CurrentPassword: "equivocada",
		NewPassword:     "clave-nueva",
	})
	assert.True(t, errors.Is(err, apierror.ErrUnauthorized))

	err = svc.ChangePassword(context.Background(), u.ID, dto.ChangePasswordRequest{
		CurrentPassword: "secreto123",
		NewPassword:     "clave-nueva",
	})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("clave-nueva")))
}
