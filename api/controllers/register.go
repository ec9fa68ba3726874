package controllers

import (
	"net/http"

	"github.com/petadopt/petadopt-backend/api/middleware"
	"github.com/petadopt/petadopt-backend/api/responses"
	"github.com/petadopt/petadopt-backend/api/validators"
	"github.com/petadopt/petadopt-backend/api/views"
	"github.com/petadopt/petadopt-backend/internal/auth"
	"github.com/petadopt/petadopt-backend/pkg/config"
	pkgerrors "github.com/petadopt/petadopt-backend/pkg/errors"
	"github.com/petadopt/petadopt-backend/pkg/logger"
	"github.com/petadopt/petadopt-backend/pkg/metrics"
)

const MessageAccountCreated = "Account created successfully!"

type registerForm struct {
	Username string `form:"username" label:"Username" validate:"max=80"`
	Email    string `form:"email" label:"Email" validate:"omitempty,max=120,email"`
	Password string `form:"password"`
	Role     string `form:"role"`
	Next     string `form:"next"`
}

// AuthRegisterForm renders the sign-up page. The role picker only appears
// when self-service admin accounts are allowed.
func AuthRegisterForm(allowAdminSignup bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.RenderHTML(w, http.StatusOK, views.RegisterPage(views.RegisterView{
			Shell:      shell(w, r),
			Next:       validators.SafeRedirect(r.URL.Query().Get("next"), ""),
			AllowAdmin: allowAdminSignup,
		}))
	}
}

// AuthRegister creates the account and logs it in straight away.
func AuthRegister(registerSvc auth.RegisterService, authSvc auth.Service, sessionCfg config.SessionConfig, allowAdminSignup bool, authMetrics *metrics.AuthMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if registerSvc == nil || authSvc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "registration service unavailable"))
			return
		}

		var form registerForm
		decodeErr := validators.DecodeForm(r, &form)
		next := validators.SafeRedirect(firstNonEmpty(form.Next, r.URL.Query().Get("next")), "")

		rerender := func(err error) {
			authMetrics.Inc("register", metrics.OutcomeFailure)
			responses.RenderHTML(w, responses.StatusFor(err), views.RegisterPage(views.RegisterView{
				Shell:      shell(w, r),
				Username:   form.Username,
				Email:      form.Email,
				Role:       form.Role,
				Next:       next,
				Error:      responses.PublicMessage(err),
				AllowAdmin: allowAdminSignup,
			}))
		}
		if decodeErr != nil {
			rerender(decodeErr)
			return
		}

		user, err := registerSvc.Register(ctx, auth.RegisterRequest{
			Username: form.Username,
			Email:    form.Email,
			Password: form.Password,
			Role:     form.Role,
		})
		if err != nil {
			switch pkgerrors.CodeOf(err) {
			case pkgerrors.CodeValidation, pkgerrors.CodeConflict, pkgerrors.CodeForbidden:
				rerender(err)
			default:
				responses.WriteError(ctx, logg, w, err)
			}
			return
		}

		replace := ""
		if current := middleware.PrincipalFromContext(ctx); current.IsAuthenticated() {
			replace = current.SessionID
		}
		issued, err := authSvc.StartSession(ctx, user, replace)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		authMetrics.Inc("register", metrics.OutcomeSuccess)
		if logg != nil {
			logg.Info(logg.WithFields(logg.WithUserID(ctx, user.ID), map[string]any{"is_admin": user.IsAdmin}), "auth.registered")
		}
		middleware.SetSessionCookie(w, sessionCfg, issued.Token, sessionCfg.TTL())
		responses.Redirect(w, r, validators.SafeRedirect(next, middleware.DashboardPath), responses.Success(MessageAccountCreated))
	}
}
