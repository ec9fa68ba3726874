package auth

import (
	"context"
	"errors"

	"github.com/petadopt/petadopt-backend/internal/users"
	"github.com/petadopt/petadopt-backend/pkg/config"
	"github.com/petadopt/petadopt-backend/pkg/db"
	pkgerrors "github.com/petadopt/petadopt-backend/pkg/errors"
	"github.com/petadopt/petadopt-backend/pkg/security"
	"gorm.io/gorm"
)

// PasswordService replaces stored credentials.
type PasswordService interface {
	SetPassword(ctx context.Context, req SetPasswordRequest) (*users.UserDTO, error)
}

// PasswordServiceParams names the dependencies for password changes.
type PasswordServiceParams struct {
	DB             *db.Client
	PasswordConfig config.PasswordConfig
}

type passwordService struct {
	db          *db.Client
	passwordCfg config.PasswordConfig
}

// NewPasswordService builds a password service.
func NewPasswordService(params PasswordServiceParams) (PasswordService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &passwordService{db: params.DB, passwordCfg: params.PasswordConfig}, nil
}

func (s *passwordService) SetPassword(ctx context.Context, req SetPasswordRequest) (*users.UserDTO, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, MessageMissingFields)
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var updated *users.UserDTO
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := users.NewRepository(tx)
		user, err := repo.FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, MessageUserNotFound)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
		}
		if err := repo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update password")
		}
		updated = users.FromModel(user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
