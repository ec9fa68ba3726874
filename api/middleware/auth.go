package middleware

import (
	"net/http"
	"net/url"

	"github.com/petadopt/petadopt-backend/api/responses"
	"github.com/petadopt/petadopt-backend/internal/authz"
	pkgerrors "github.com/petadopt/petadopt-backend/pkg/errors"
	"github.com/petadopt/petadopt-backend/pkg/logger"
)

// LoginPath is where anonymous callers are sent.
const LoginPath = "/login"

// DashboardPath is where callers land after login and after a refused admin action.
const DashboardPath = "/dashboard"

// RequireAuthenticated redirects anonymous callers to the login page. GET
// requests keep their original location in ?next=.
func RequireAuthenticated(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := authz.RequireAuthenticated(PrincipalFromContext(r.Context())); err != nil {
				if logg != nil {
					logg.Info(logg.WithField(r.Context(), "path", r.URL.Path), "auth.login_required")
				}
				redirectToLogin(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin refuses non-admins with message and sends them to the
// dashboard. Anonymous callers get the login redirect instead.
func RequireAdmin(message string, logg *logger.Logger) func(http.Handler) http.Handler {
	if message == "" {
		message = authz.MessageAdminRequired
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := authz.RequireAdmin(PrincipalFromContext(r.Context()))
			if err == nil {
				next.ServeHTTP(w, r)
				return
			}
			switch pkgerrors.CodeOf(err) {
			case pkgerrors.CodeUnauthorized:
				redirectToLogin(w, r)
			case pkgerrors.CodeForbidden:
				if logg != nil {
					logg.Warn(logg.WithField(r.Context(), "path", r.URL.Path), "auth.admin_required")
				}
				responses.Redirect(w, r, DashboardPath, responses.Danger(message))
			default:
				responses.WriteError(r.Context(), logg, w, err)
			}
		})
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	location := LoginPath
	if r.Method == http.MethodGet {
		location += "?next=" + url.QueryEscape(r.URL.RequestURI())
	}
	responses.Redirect(w, r, location, responses.Info(authz.MessageLoginRequired))
}
