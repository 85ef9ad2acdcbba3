// Package auth orchestrates registration and sign-in: credential lookup,
// password verification and token issuance.
package auth

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/taskvault/backend/domain"
	"github.com/taskvault/backend/pkg/password"
	"github.com/taskvault/backend/pkg/token"
	"github.com/taskvault/backend/repository"
	"github.com/taskvault/backend/usecase"
)

type UseCase struct {
	users  repository.UserRepository
	hasher password.Hasher
	tokens *token.Issuer
	audit  usecase.AuditRecorder
	logger *zap.Logger
}

func New(users repository.UserRepository, hasher password.Hasher, tokens *token.Issuer, audit usecase.AuditRecorder, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		audit:  audit,
		logger: logger,
	}
}

// SignIn verifies the credentials and returns a signed access token.
// Unknown email and wrong password both fail with the identical
// domain.ErrInvalidCredentials so callers cannot probe for accounts.
// No user state is mutated.
func (uc *UseCase) SignIn(ctx context.Context, email, plaintext string) (string, error) {
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			uc.rejectSignIn(ctx, email, "user not found")
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if !uc.hasher.Verify(plaintext, user.PasswordHash) {
		uc.rejectSignIn(ctx, email, "password mismatch")
		return "", domain.ErrInvalidCredentials
	}

	accessToken, err := uc.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", err
	}

	uc.record(ctx, usecase.AuthEvent{Kind: usecase.AuthEventLoginSucceeded, Email: email})
	return accessToken, nil
}

// Register creates a new user with a hashed password. A duplicate email
// surfaces as domain.ErrEmailTaken from the store's uniqueness constraint.
func (uc *UseCase) Register(ctx context.Context, email, fullName, plaintext string) (*domain.User, error) {
	digest, err := uc.hasher.Hash(plaintext)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: digest,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.logger.Info("user created", zap.String("email", user.Email))
	uc.record(ctx, usecase.AuthEvent{Kind: usecase.AuthEventUserRegistered, Email: email})
	return user, nil
}

func (uc *UseCase) rejectSignIn(ctx context.Context, email, reason string) {
	uc.logger.Warn("login attempt failed",
		zap.String("email", email),
		zap.String("reason", reason))
	uc.record(ctx, usecase.AuthEvent{Kind: usecase.AuthEventLoginFailed, Email: email, Reason: reason})
}

func (uc *UseCase) record(ctx context.Context, event usecase.AuthEvent) {
	if uc.audit == nil {
		return
	}
	if err := uc.audit.RecordAuthEvent(ctx, event); err != nil {
		uc.logger.Error("failed to record auth event", zap.Error(err))
	}
}
