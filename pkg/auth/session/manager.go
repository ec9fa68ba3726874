package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/petadopt/petadopt-backend/pkg/auth"
	"github.com/petadopt/petadopt-backend/pkg/config"
	redisclient "github.com/petadopt/petadopt-backend/pkg/redis"
)

// ErrInvalidSession covers malformed, expired, revoked or mismatched sessions.
var ErrInvalidSession = errors.New("invalid session")

// Store is the key/value surface the manager needs. *redis.Client satisfies it.
type Store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	SessionKey(sessionID string) string
}

// Session is a verified login session.
type Session struct {
	ID        string
	UserID    uint
	Fresh     bool
	ExpiresAt time.Time
}

// Issued is returned when a session is opened; Token goes into the cookie.
type Issued struct {
	Session
	Token string
}

// Manager opens, resolves and revokes login sessions. Each session is a signed
// token plus a registry entry, so deleting the entry revokes the token.
type Manager struct {
	store Store
	cfg   config.SessionConfig
	now   func() time.Time
}

// Resolver exposes the read-only surface needed by middleware.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*Session, error)
}

// NewManager constructs a session manager backed by the provided store.
func NewManager(store Store, cfg config.SessionConfig) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, fmt.Errorf("session secret is required")
	}
	if cfg.TTL() <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Manager{store: store, cfg: cfg, now: time.Now}, nil
}

// NewRedisManager is NewManager for the shared Redis client.
func NewRedisManager(client *redisclient.Client, cfg config.SessionConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return NewManager(client, cfg)
}

// TTL reports how long an opened session stays valid.
func (m *Manager) TTL() time.Duration {
	return m.cfg.TTL()
}

// Open registers a new session for userID and returns its signed token.
func (m *Manager) Open(ctx context.Context, userID uint, fresh bool) (*Issued, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user id is required")
	}
	now := m.now()
	sessionID := NewSessionID()

	token, err := auth.MintSessionToken(m.cfg, now, auth.SessionTokenPayload{
		UserID:    userID,
		SessionID: sessionID,
		Fresh:     fresh,
	})
	if err != nil {
		return nil, err
	}
	if err := m.store.Set(ctx, m.store.SessionKey(sessionID), strconv.FormatUint(uint64(userID), 10), m.cfg.TTL()); err != nil {
		return nil, fmt.Errorf("register session: %w", err)
	}

	return &Issued{
		Session: Session{
			ID:        sessionID,
			UserID:    userID,
			Fresh:     fresh,
			ExpiresAt: now.Add(m.cfg.TTL()),
		},
		Token: token,
	}, nil
}

// Resolve verifies the token and confirms its registry entry still names the
// same user. Any mismatch yields ErrInvalidSession; store failures are returned as-is.
func (m *Manager) Resolve(ctx context.Context, token string) (*Session, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrInvalidSession
	}
	claims, err := auth.ParseSessionToken(m.cfg, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	stored, err := m.store.Get(ctx, m.store.SessionKey(claims.ID))
	if err != nil {
		if errors.Is(err, redisclient.ErrNil) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}
	if stored != strconv.FormatUint(uint64(claims.UserID), 10) {
		return nil, ErrInvalidSession
	}

	session := &Session{
		ID:     claims.ID,
		UserID: claims.UserID,
		Fresh:  claims.Fresh,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

// Revoke deletes the registry entry for sessionID.
func (m *Manager) Revoke(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	return m.store.Del(ctx, m.store.SessionKey(sessionID))
}

// HasSession reports whether sessionID is still registered.
func (m *Manager) HasSession(ctx context.Context, sessionID string) (bool, error) {
	if strings.TrimSpace(sessionID) == "" {
		return false, fmt.Errorf("session id is required")
	}
	if _, err := m.store.Get(ctx, m.store.SessionKey(sessionID)); err != nil {
		if errors.Is(err, redisclient.ErrNil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// NewSessionID produces the identifier used as the JWT jti and registry key.
func NewSessionID() string {
	return uuid.NewString()
}
