package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T) UserService {
	t.Helper()
	db := newTestDB(t)
	return NewUserService(repository.NewUserRepository(db), repository.NewAuditRepository(db))
}

func TestCreateUserAndLogin(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "", CreateUserRequest{
		Username: "contadora",
		Email:    "contadora@example.com",
		Password: "secreto123",
		Role:     model.RoleAccountant,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAccountant, user.Role)

	tokens, err := svc.Login(ctx, LoginUserRequest{Email: "contadora@example.com", Password: "secreto123"})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	// A valid refresh token rotates into a fresh pair.
	rotated, err := svc.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "", CreateUserRequest{
		Username: "aux", Email: "aux@example.com", Password: "secreto123", Role: model.RoleAssistant,
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginUserRequest{Email: "aux@example.com", Password: "otra"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid email or password")

	_, err = svc.Login(ctx, LoginUserRequest{Email: "nadie@example.com", Password: "x"})
	require.Error(t, err)
}

func TestCreateUserRejectsInvalidRoleAndDuplicates(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "", CreateUserRequest{
		Username: "x", Email: "x@example.com", Password: "secreto123", Role: "superuser",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid role")

	_, err = svc.CreateUser(ctx, "", CreateUserRequest{
		Username: "admin1", Email: "admin1@example.com", Password: "secreto123", Role: model.RoleAdmin,
	})
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, "", CreateUserRequest{
		Username: "admin1", Email: "otro@example.com", Password: "secreto123", Role: model.RoleAdmin,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "username already exists")
}

func TestRefreshRejectsUnknownToken(t *testing.T) {
	svc := newUserService(t)

	_, err := svc.Refresh(context.Background(), "deadbeef")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid refresh token")
}
