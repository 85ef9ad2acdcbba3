package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskvault/backend/domain"
	"github.com/taskvault/backend/pkg/password"
	"github.com/taskvault/backend/pkg/token"
	"github.com/taskvault/backend/repository/memory"
	"github.com/taskvault/backend/usecase"
)

type recordedAudit struct {
	mu     sync.Mutex
	events []usecase.AuthEvent
}

func (r *recordedAudit) RecordAuthEvent(ctx context.Context, event usecase.AuthEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordedAudit) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kinds []string
	for _, e := range r.events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

func newTestUseCase(t *testing.T) (*UseCase, *memory.UserRepository, *token.Issuer, *recordedAudit) {
	t.Helper()
	users := memory.NewUserRepository()
	issuer := token.NewIssuer("test-secret", "taskvault", time.Hour)
	audit := &recordedAudit{}
	uc := New(users, password.NewHasher(bcrypt.MinCost), issuer, audit, nil)
	return uc, users, issuer, audit
}

func TestRegisterAndSignIn(t *testing.T) {
	uc, _, issuer, audit := newTestUseCase(t)
	ctx := context.Background()

	user, err := uc.Register(ctx, "a@x.com", "Alice Example", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	assert.Equal(t, "a@x.com", user.Email)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotContains(t, user.PasswordHash, "secret1")

	accessToken, err := uc.SignIn(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, accessToken)

	claims, err := issuer.Verify(accessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)

	assert.Equal(t, []string{usecase.AuthEventUserRegistered, usecase.AuthEventLoginSucceeded}, audit.kinds())
}

func TestSignInUnknownEmail(t *testing.T) {
	uc, _, _, audit := newTestUseCase(t)

	accessToken, err := uc.SignIn(context.Background(), "b@x.com", "anything")
	assert.Empty(t, accessToken)
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))

	require.Len(t, audit.events, 1)
	assert.Equal(t, usecase.AuthEventLoginFailed, audit.events[0].Kind)
	assert.Equal(t, "b@x.com", audit.events[0].Email)
}

func TestSignInWrongPassword(t *testing.T) {
	uc, _, _, _ := newTestUseCase(t)
	ctx := context.Background()

	_, err := uc.Register(ctx, "a@x.com", "Alice Example", "secret1")
	require.NoError(t, err)

	accessToken, err := uc.SignIn(ctx, "a@x.com", "wrong")
	assert.Empty(t, accessToken)
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestSignInFailureMessagesAreIdentical(t *testing.T) {
	uc, _, _, _ := newTestUseCase(t)
	ctx := context.Background()

	_, err := uc.Register(ctx, "a@x.com", "Alice Example", "secret1")
	require.NoError(t, err)

	_, wrongPassErr := uc.SignIn(ctx, "a@x.com", "wrong")
	_, noUserErr := uc.SignIn(ctx, "b@x.com", "anything")

	require.Error(t, wrongPassErr)
	require.Error(t, noUserErr)
	assert.Equal(t, wrongPassErr.Error(), noUserErr.Error())
	assert.Equal(t, "Invalid credentials", noUserErr.Error())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	uc, _, _, _ := newTestUseCase(t)
	ctx := context.Background()

	_, err := uc.Register(ctx, "a@x.com", "Alice Example", "secret1")
	require.NoError(t, err)

	user, err := uc.Register(ctx, "a@x.com", "Another Alice", "secret2")
	assert.Nil(t, user)
	require.ErrorIs(t, err, domain.ErrEmailTaken)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeConflict))
}

func TestSignInDoesNotMutateUser(t *testing.T) {
	uc, users, _, _ := newTestUseCase(t)
	ctx := context.Background()

	registered, err := uc.Register(ctx, "a@x.com", "Alice Example", "secret1")
	require.NoError(t, err)

	before, err := users.GetByID(ctx, registered.ID)
	require.NoError(t, err)

	_, _ = uc.SignIn(ctx, "a@x.com", "secret1")
	_, _ = uc.SignIn(ctx, "a@x.com", "wrong")

	after, err := users.GetByID(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
