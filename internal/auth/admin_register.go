package auth

import (
	"context"

	"github.com/petadopt/petadopt-backend/internal/users"
	"github.com/petadopt/petadopt-backend/pkg/config"
	"github.com/petadopt/petadopt-backend/pkg/db"
	pkgerrors "github.com/petadopt/petadopt-backend/pkg/errors"
)

// AdminRegisterRequest contains the credentials for an operator-created admin.
type AdminRegisterRequest struct {
	Username string
	Email    string
	Password string
}

// AdminRegisterService creates administrator accounts outside the web form.
type AdminRegisterService interface {
	Register(ctx context.Context, req AdminRegisterRequest) (*users.UserDTO, error)
}

// AdminRegisterServiceParams names the dependencies for the admin register flow.
type AdminRegisterServiceParams struct {
	DB             *db.Client
	PasswordConfig config.PasswordConfig
}

type adminRegisterService struct {
	db          *db.Client
	passwordCfg config.PasswordConfig
}

// NewAdminRegisterService builds an admin registration service.
func NewAdminRegisterService(params AdminRegisterServiceParams) (AdminRegisterService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &adminRegisterService{
		db:          params.DB,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *adminRegisterService) Register(ctx context.Context, req AdminRegisterRequest) (*users.UserDTO, error) {
	return createUser(ctx, s.db, s.passwordCfg, req.Username, req.Email, req.Password, true)
}
