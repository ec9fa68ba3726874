package auth

import "github.com/golang-jwt/jwt/v5"

// SessionTokenPayload captures the data available when minting a session cookie.
type SessionTokenPayload struct {
	UserID    uint
	SessionID string
	Fresh     bool
}

// SessionClaims represents the typed JWT stored in the session cookie. The
// registered jti carries the server-side session id.
type SessionClaims struct {
	UserID uint `json:"user_id"`
	Fresh  bool `json:"fresh"`
	jwt.RegisteredClaims
}
