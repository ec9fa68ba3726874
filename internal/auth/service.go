package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/petadopt/petadopt-backend/internal/users"
	"github.com/petadopt/petadopt-backend/pkg/auth/session"
	"github.com/petadopt/petadopt-backend/pkg/db/models"
	pkgerrors "github.com/petadopt/petadopt-backend/pkg/errors"
	"github.com/petadopt/petadopt-backend/pkg/security"
	"gorm.io/gorm"
)

// Service defines the behavior needed by the auth controllers.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	StartSession(ctx context.Context, user *users.UserDTO, replaceSessionID string) (*session.Issued, error)
	Logout(ctx context.Context, sessionID string) error
}

type service struct {
	users   userRepository
	session sessionManager
}

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type sessionManager interface {
	Open(ctx context.Context, userID uint, fresh bool) (*session.Issued, error)
	Revoke(ctx context.Context, sessionID string) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	SessionManager sessionManager
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &service{
		users:   params.UserRepo,
		session: params.SessionManager,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	dto := users.FromModel(user)
	issued, err := s.StartSession(ctx, dto, req.ReplaceSessionID)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{User: dto, Session: issued}, nil
}

// StartSession opens a fresh session for user, revoking replaceSessionID first.
func (s *service) StartSession(ctx context.Context, user *users.UserDTO, replaceSessionID string) (*session.Issued, error) {
	if user == nil || user.ID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user is required to start a session")
	}
	if strings.TrimSpace(replaceSessionID) != "" {
		if err := s.session.Revoke(ctx, replaceSessionID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke previous session")
		}
	}
	issued, err := s.session.Open(ctx, user.ID, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open session")
	}
	return issued, nil
}

func (s *service) Logout(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return nil
	}
	if err := s.session.Revoke(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

// authenticate returns the same error for an unknown email and a wrong password.
func (s *service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	input := normalizeEmail(email)
	if input == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, MessageInvalidCredentials)
	}
	user, err := s.users.FindByEmail(ctx, input)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, MessageInvalidCredentials)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, MessageInvalidCredentials)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
