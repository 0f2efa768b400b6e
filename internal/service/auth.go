// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses forms, renders views
//	Service (Business layer) → validates, enforces the workflows
//	Repository (Data layer)  → reads/writes the database
//
// Handlers only know about HTTP. Services only know about business rules.
// Neither knows about SQL. Each service receives repository INTERFACES,
// so tests inject in-memory fakes and never touch a real database.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/campus-clubs/internal/apperror"
	"github.com/sakif/campus-clubs/internal/auth"
	"github.com/sakif/campus-clubs/internal/model"
	"github.com/sakif/campus-clubs/internal/repository"
)

// AuthService handles registration and credential verification.
//
// DEPENDENCIES (injected via NewAuthService):
//   - users     repository.UserRepository → the credential store
//   - passwords *auth.PasswordService     → bcrypt hashing
//   - sessions  *auth.SessionService      → signed session tokens
//   - logger    *slog.Logger              → structured logging
type AuthService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	sessions  *auth.SessionService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	passwords *auth.PasswordService,
	sessions *auth.SessionService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		passwords: passwords,
		sessions:  sessions,
		logger:    logger,
	}
}

// AuthResult bundles the identity and the signed session token so the
// handler can set the cookie and redirect in one step. Setting the cookie
// itself is the handler's job — an HTTP concern that doesn't belong here.
type AuthResult struct {
	Identity auth.Identity
	Token    string
}

// Register creates a new account.
//
// The name is the unique business key. We look it up first so a taken name
// gets a friendly conflict error; the UNIQUE constraint in the store backs
// this up against concurrent signups, and the repository reports that as
// the same conflict.
//
// The password is bcrypt-hashed before it goes anywhere near the store —
// there is no code path that persists or compares plaintext.
func (s *AuthService) Register(ctx context.Context, name, password string, role model.Role, email string) (*model.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}
	if !role.Valid() {
		return nil, apperror.ValidationFailed("role", fmt.Sprintf("unknown role %q", role))
	}

	// Duplicate check. ErrNotFound is the happy path here.
	_, err := s.users.GetUserByName(ctx, name)
	if err == nil {
		return nil, apperror.Conflict("user", name)
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/auth: checking existing user %q: %w", name, err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", err.Error())
	}

	user := &model.User{
		Name:         name,
		PasswordHash: hash,
		Role:         role,
		Email:        strings.TrimSpace(email), // optional
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			// Lost the race against a concurrent signup with the same name.
			return nil, err
		}
		s.logger.Error("failed to create user",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("name", user.Name),
		slog.String("role", string(user.Role)),
	)

	return user, nil
}

// Authenticate verifies a name/password pair and issues a session.
//
// USER ENUMERATION:
// An unknown name and a wrong password both return the same
// InvalidCredentials error. If they differed, an attacker could probe
// which usernames exist by watching which error comes back.
func (s *AuthService) Authenticate(ctx context.Context, name, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)

	user, err := s.users.GetUserByName(ctx, name)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.InvalidCredentials()
		}
		return nil, fmt.Errorf("service/auth: looking up user %q: %w", name, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.InvalidCredentials()
	}

	identity := auth.Identity{
		ID:    user.ID,
		Name:  user.Name,
		Role:  user.Role,
		Email: user.Email,
	}

	token, err := s.sessions.Issue(identity)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing session for user %s: %w", user.ID, err)
	}

	s.logger.Info("user authenticated",
		slog.String("userID", user.ID),
		slog.String("role", string(user.Role)),
	)

	return &AuthResult{Identity: identity, Token: token}, nil
}
