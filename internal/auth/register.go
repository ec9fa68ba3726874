package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/petadopt/petadopt-backend/internal/users"
	"github.com/petadopt/petadopt-backend/pkg/config"
	"github.com/petadopt/petadopt-backend/pkg/db"
	pkgerrors "github.com/petadopt/petadopt-backend/pkg/errors"
	"github.com/petadopt/petadopt-backend/pkg/security"
	"gorm.io/gorm"
)

// RegisterService handles the sign-up transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	DB               *db.Client
	PasswordConfig   config.PasswordConfig
	AllowAdminSignup bool
}

type registerService struct {
	db               *db.Client
	passwordCfg      config.PasswordConfig
	allowAdminSignup bool
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &registerService{
		db:               params.DB,
		passwordCfg:      params.PasswordConfig,
		allowAdminSignup: params.AllowAdminSignup,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error) {
	isAdmin := strings.EqualFold(strings.TrimSpace(req.Role), RoleAdmin)
	if isAdmin && !s.allowAdminSignup {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, MessageAdminSignupClosed)
	}
	return createUser(ctx, s.db, s.passwordCfg, req.Username, req.Email, req.Password, isAdmin)
}

// createUser validates, hashes and inserts a user in one transaction. Duplicate
// email wins over duplicate username when both collide.
func createUser(ctx context.Context, client *db.Client, passwordCfg config.PasswordConfig, username, email, password string, isAdmin bool) (*users.UserDTO, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	if username == "" || email == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, MessageMissingFields)
	}

	passwordHash, err := security.HashPassword(password, passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var created *users.UserDTO
	err = client.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, MessageDuplicateEmail)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}

		if _, err := userRepo.FindByUsername(ctx, username); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, MessageDuplicateUsername)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check username")
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Username:     username,
			Email:        email,
			PasswordHash: passwordHash,
			IsAdmin:      isAdmin,
		})
		if err != nil {
			return mapCreateError(err)
		}

		created = users.FromModel(user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// mapCreateError turns a unique violation that raced past the pre-checks into
// the matching duplicate error.
func mapCreateError(err error) error {
	switch {
	case db.IsUniqueViolation(err, "email"):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, MessageDuplicateEmail)
	case db.IsUniqueViolation(err, "username"):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, MessageDuplicateUsername)
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}
}
