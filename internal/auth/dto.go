package auth

import (
	"github.com/petadopt/petadopt-backend/internal/users"
	"github.com/petadopt/petadopt-backend/pkg/auth/session"
)

// User-visible outcomes of the credential flows.
const (
	MessageInvalidCredentials = "Invalid email or password."
	MessageMissingFields      = "All fields are required."
	MessageDuplicateEmail     = "Email already registered."
	MessageDuplicateUsername  = "Username already taken."
	MessageAdminSignupClosed  = "Administrator accounts can only be created by an operator."
	MessageUserNotFound       = "No account uses that email."
)

// RoleAdmin is the registration form value that requests the administrator flag.
const RoleAdmin = "admin"

// LoginRequest captures the credentials posted to the login form.
// ReplaceSessionID names a session the caller already holds; it is revoked
// before the new one is opened.
type LoginRequest struct {
	Email            string
	Password         string
	ReplaceSessionID string
}

// LoginResponse carries the authenticated user and the session to hand out.
type LoginResponse struct {
	User    *users.UserDTO
	Session *session.Issued
}

// RegisterRequest captures the registration form.
type RegisterRequest struct {
	Username string
	Email    string
	Password string
	Role     string
}

// SetPasswordRequest names the account by email and carries the new password.
type SetPasswordRequest struct {
	Email    string
	Password string
}
