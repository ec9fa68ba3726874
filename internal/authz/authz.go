// Package authz holds the capability checks shared by HTTP middleware and the
// listing service.
package authz

import (
	"fmt"

	pkgerrors "github.com/petadopt/petadopt-backend/pkg/errors"
)

const (
	MessageLoginRequired = "Please log in to access this page."
	MessageAdminRequired = "Administrator access required."
)

// Principal is the identity resolved from a live session.
type Principal struct {
	UserID    uint
	Username  string
	Email     string
	IsAdmin   bool
	Fresh     bool
	SessionID string
}

// IsAuthenticated reports whether p represents a logged-in user.
func (p *Principal) IsAuthenticated() bool {
	return p != nil && p.UserID != 0
}

// RequireAuthenticated fails with CodeUnauthorized for anonymous callers.
func RequireAuthenticated(p *Principal) error {
	if !p.IsAuthenticated() {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, MessageLoginRequired)
	}
	return nil
}

// RequireAdmin fails with CodeUnauthorized for anonymous callers and
// CodeForbidden for authenticated non-admins.
func RequireAdmin(p *Principal) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if !p.IsAdmin {
		return pkgerrors.New(pkgerrors.CodeForbidden, MessageAdminRequired)
	}
	return nil
}

// ForbiddenMessage names the listing action a non-admin tried, e.g. "add".
func ForbiddenMessage(action string) string {
	return fmt.Sprintf("Only admins can %s pets.", action)
}

// RequireAdminFor is RequireAdmin with the Forbidden message naming action.
func RequireAdminFor(p *Principal, action string) error {
	err := RequireAdmin(p)
	if pkgerrors.Is(err, pkgerrors.CodeForbidden) {
		return pkgerrors.New(pkgerrors.CodeForbidden, ForbiddenMessage(action))
	}
	return err
}
