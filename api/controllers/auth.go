package controllers

import (
	"net/http"
	"net/url"

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

const (
	MessageLoggedIn  = "Logged in successfully!"
	MessageLoggedOut = "You have been logged out."
)

type loginForm struct {
	Email    string `form:"email" label:"Email" validate:"max=120"`
	Password string `form:"password"`
	Next     string `form:"next"`
}

// AuthLoginForm renders the login page, keeping ?next= for after login.
func AuthLoginForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.RenderHTML(w, http.StatusOK, views.LoginPage(views.LoginView{
			Shell: shell(w, r),
			Next:  validators.SafeRedirect(r.URL.Query().Get("next"), ""),
		}))
	}
}

// AuthLogin verifies the credentials and opens a session. Failures go back to
// the login form with one message for every kind of bad credential.
func AuthLogin(svc auth.Service, sessionCfg config.SessionConfig, authMetrics *metrics.AuthMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var form loginForm
		decodeErr := validators.DecodeForm(r, &form)
		next := validators.SafeRedirect(firstNonEmpty(form.Next, r.URL.Query().Get("next")), "")
		back := withNext(middleware.LoginPath, next)
		if decodeErr != nil {
			authMetrics.Inc("login", metrics.OutcomeFailure)
			responses.Redirect(w, r, back, responses.Danger(auth.MessageInvalidCredentials))
			return
		}

		req := auth.LoginRequest{Email: form.Email, Password: form.Password}
		if current := middleware.PrincipalFromContext(ctx); current.IsAuthenticated() {
			req.ReplaceSessionID = current.SessionID
		}

		result, err := svc.Login(ctx, req)
		if err != nil {
			authMetrics.Inc("login", metrics.OutcomeFailure)
			if pkgerrors.Is(err, pkgerrors.CodeUnauthorized) {
				if logg != nil {
					logg.Info(ctx, "auth.login_failed")
				}
				responses.Redirect(w, r, back, responses.Danger(responses.PublicMessage(err)))
				return
			}
			responses.WriteError(ctx, logg, w, err)
			return
		}

		authMetrics.Inc("login", metrics.OutcomeSuccess)
		if logg != nil {
			logg.Info(logg.WithUserID(ctx, result.User.ID), "auth.login_succeeded")
		}
		middleware.SetSessionCookie(w, sessionCfg, result.Session.Token, sessionCfg.TTL())
		responses.Redirect(w, r, validators.SafeRedirect(next, middleware.DashboardPath), responses.Success(MessageLoggedIn))
	}
}

// AuthLogout revokes the current session and clears the cookie.
func AuthLogout(svc auth.Service, sessionCfg config.SessionConfig, authMetrics *metrics.AuthMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		principal := middleware.PrincipalFromContext(ctx)
		if principal.IsAuthenticated() && svc != nil {
			if err := svc.Logout(ctx, principal.SessionID); err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
		}
		authMetrics.Inc("logout", metrics.OutcomeSuccess)
		middleware.ClearSessionCookie(w, sessionCfg)
		responses.Redirect(w, r, "/", responses.Info(MessageLoggedOut))
	}
}

func withNext(path, next string) string {
	if next == "" {
		return path
	}
	return path + "?next=" + url.QueryEscape(next)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
