package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pontoamd/ponto-server/internal/logger"
	"github.com/pontoamd/ponto-server/internal/model"
)

// TokenPair is an access/refresh token pair issued at login.
type TokenPair struct {
	Access  string
	Refresh string
}

// Auth manages the roster: registration, login and role changes.
type Auth struct {
	userStore model.UserStore
	tokens    model.TokenManager
	logger    *logger.Logger
}

func NewAuth(userStore model.UserStore, tokens model.TokenManager, logger *logger.Logger) *Auth {
	return &Auth{
		userStore: userStore,
		tokens:    tokens,
		logger:    logger,
	}
}

// Register creates a roster entry with a bcrypt password hash.
func (a *Auth) Register(ctx context.Context, handle, password, displayName string, role model.Role) (model.User, error) {
	if !role.Valid() {
		role = model.RoleEmployee
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		ID:           uuid.New(),
		Handle:       handle,
		PasswordHash: hash,
		DisplayName:  displayName,
		Role:         role,
		CreatedAt:    time.Now(),
	}

	saved, err := a.userStore.Create(ctx, user)
	if err != nil {
		if errors.Is(err, model.ErrDuplicateHandle) {
			a.logger.Info("registration rejected, handle taken", "handle", handle)
			return model.User{}, model.ErrDuplicateHandle
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("user registered", "user_id", saved.ID, "role", saved.Role)

	return saved, nil
}

// Login verifies credentials and issues a token pair. The failure is
// the same whether the handle or the password was wrong.
func (a *Auth) Login(ctx context.Context, handle, password string) (model.User, TokenPair, error) {
	user, err := a.userStore.GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, TokenPair{}, model.ErrInvalidCredentials
		}
		return model.User{}, TokenPair{}, fmt.Errorf("failed to get user by handle: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return model.User{}, TokenPair{}, model.ErrInvalidCredentials
	}

	pair, err := a.issuePair(user)
	if err != nil {
		return model.User{}, TokenPair{}, err
	}

	return user, pair, nil
}

// Refresh validates a refresh token and issues a fresh pair. The user
// is re-read so a role change is reflected in the new access token.
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	userID, err := a.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to parse refresh token: %w", err)
	}

	user, err := a.userStore.GetByID(ctx, userID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return a.issuePair(user)
}

// ToggleRole flips the target's role between EMPLOYEE and ADMIN. An
// admin cannot change their own role; the roster is left untouched.
func (a *Auth) ToggleRole(ctx context.Context, actorID, targetID uuid.UUID) (model.User, error) {
	if actorID == targetID {
		return model.User{}, model.ErrSelfRoleChange
	}

	target, err := a.userStore.GetByID(ctx, targetID)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get target user: %w", err)
	}

	newRole := target.Role.Toggle()
	if err := a.userStore.UpdateRole(ctx, targetID, newRole); err != nil {
		return model.User{}, fmt.Errorf("failed to update role: %w", err)
	}

	a.logger.Info("role changed", "user_id", targetID, "role", newRole)

	target.Role = newRole
	return target, nil
}

// ListUsers returns the roster ordered by display name.
func (a *Auth) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := a.userStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetUser returns a single roster entry.
func (a *Auth) GetUser(ctx context.Context, id uuid.UUID) (model.User, error) {
	user, err := a.userStore.GetByID(ctx, id)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (a *Auth) issuePair(user model.User) (TokenPair, error) {
	access, err := a.tokens.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to issue access token: %w", err)
	}

	refresh, err := a.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	return TokenPair{Access: access, Refresh: refresh}, nil
}
