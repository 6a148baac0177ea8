package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ayush/rv-checklist/backend/internal/apperr"
	"github.com/ayush/rv-checklist/backend/internal/logging"
	"github.com/ayush/rv-checklist/backend/internal/models"
	"github.com/ayush/rv-checklist/backend/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	tokens := NewTokenIssuer([]byte("test-secret"), time.Hour)
	return NewService(mem, tokens, bcrypt.MinCost, logging.Discard()), mem
}

func registerCmd(email string) RegisterCommand {
	return RegisterCommand{Email: email, Password: "secret1", FirstName: "Ann", LastName: "Lee"}
}

func TestRegister(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	token, user, err := svc.Register(ctx, registerCmd("ann@example.com"))
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")))

	sub, err := svc.tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, sub)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, registerCmd("dup@example.com"))
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, registerCmd("dup@example.com"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, "Email already in use", err.Error())
}

func TestCreateKeepsRequestedRole(t *testing.T) {
	svc, _ := newTestService(t)
	u, err := svc.Create(context.Background(), models.NewUser{
		Email: "root@example.com", Password: "Admin123!", FirstName: "Ad", LastName: "Min", Role: models.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)

	found, err := svc.FindByEmail(context.Background(), "root@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)
}

func TestLogin(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	fixed := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	_, user, err := svc.Register(ctx, registerCmd("bob@example.com"))
	require.NoError(t, err)
	assert.Nil(t, user.LastLoginAt)

	token, got, err := svc.Login(ctx, LoginCommand{Email: "bob@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, user.ID, got.ID)

	stored, err := mem.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLoginAt)
	assert.True(t, fixed.Equal(*stored.LastLoginAt))
}

func TestLoginFailures(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()

	_, user, err := svc.Register(ctx, registerCmd("carl@example.com"))
	require.NoError(t, err)

	_, _, wrongPw := svc.Login(ctx, LoginCommand{Email: "carl@example.com", Password: "nope-nope"})
	_, _, unknown := svc.Login(ctx, LoginCommand{Email: "ghost@example.com", Password: "secret1"})
	for _, err := range []error{wrongPw, unknown} {
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
		assert.Equal(t, "Invalid email or password", err.Error())
	}

	_, _, caseMismatch := svc.Login(ctx, LoginCommand{Email: "CARL@example.com", Password: "secret1"})
	assert.ErrorIs(t, caseMismatch, apperr.ErrUnauthenticated)

	require.NoError(t, mem.SetUserActive(ctx, user.ID, false))
	_, _, inactive := svc.Login(ctx, LoginCommand{Email: "carl@example.com", Password: "secret1"})
	require.Error(t, inactive)
	assert.ErrorIs(t, inactive, apperr.ErrUnauthenticated)
}

func TestAuthenticate(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()

	token, user, err := svc.Register(ctx, registerCmd("dee@example.com"))
	require.NoError(t, err)

	id, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id.ID)
	assert.Empty(t, id.PasswordHash)

	_, err = svc.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	orphan, err := svc.tokens.Issue("no-such-user")
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, orphan)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	require.NoError(t, mem.SetUserActive(ctx, user.ID, false))
	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}
