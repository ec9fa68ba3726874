package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/petadopt/petadopt-backend/internal/authz"
	"github.com/petadopt/petadopt-backend/pkg/auth/session"
	"github.com/petadopt/petadopt-backend/pkg/config"
	"github.com/petadopt/petadopt-backend/pkg/db/models"
	"github.com/petadopt/petadopt-backend/pkg/logger"
	"gorm.io/gorm"
)

// SessionResolver verifies a session token against the registry.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*session.Session, error)
}

// UserLoader loads the account behind a session so role changes apply on the
// next request.
type UserLoader interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
}

// Session resolves the session cookie into a principal. Invalid, expired and
// revoked tokens degrade to an anonymous request and the cookie is cleared.
func Session(cfg config.SessionConfig, resolver SessionResolver, users UserLoader, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cfg.CookieName)
			if err != nil || strings.TrimSpace(cookie.Value) == "" || resolver == nil || users == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			sess, err := resolver.Resolve(ctx, cookie.Value)
			if err != nil {
				if errors.Is(err, session.ErrInvalidSession) {
					ClearSessionCookie(w, cfg)
				} else if logg != nil {
					logg.Error(ctx, "session.resolve_failed", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.FindByID(ctx, sess.UserID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ClearSessionCookie(w, cfg)
				} else if logg != nil {
					logg.Error(ctx, "session.load_user_failed", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			principal := &authz.Principal{
				UserID:    user.ID,
				Username:  user.Username,
				Email:     user.Email,
				IsAdmin:   user.IsAdmin,
				Fresh:     sess.Fresh,
				SessionID: sess.ID,
			}
			ctx = WithPrincipal(ctx, principal)
			if logg != nil {
				ctx = logg.WithUserID(ctx, user.ID)
				ctx = logg.WithActorRole(ctx, roleLabel(principal))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SetSessionCookie hands the signed session token to the browser.
func SetSessionCookie(w http.ResponseWriter, cfg config.SessionConfig, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter, cfg config.SessionConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func roleLabel(p *authz.Principal) string {
	if p.IsAdmin {
		return "admin"
	}
	return "adopter"
}
