package auth

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/petadopt/petadopt-backend/internal/users"
	"github.com/petadopt/petadopt-backend/pkg/auth/session"
	"github.com/petadopt/petadopt-backend/pkg/config"
	"github.com/petadopt/petadopt-backend/pkg/db"
	"github.com/petadopt/petadopt-backend/pkg/db/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testPasswordConfig = config.PasswordConfig{
	ArgonMemoryKB:    8192,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

var dbSeq atomic.Int64

// newTestDB opens a private in-memory database; each call gets its own.
func newTestDB(t *testing.T) *db.Client {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.User{}))
	return db.NewFromGorm(conn)
}

func newTestSessionManager(t *testing.T) (*session.Manager, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore()
	manager, err := session.NewManager(store, config.SessionConfig{Secret: "secret", Issuer: "petadopt", TTLMinutes: 60})
	require.NoError(t, err)
	return manager, store
}

func countUsers(t *testing.T, client *db.Client) int64 {
	t.Helper()
	count, err := users.NewRepository(client.DB()).Count(context.Background())
	require.NoError(t, err)
	return count
}

func usersRepo(client *db.Client) *users.Repository {
	return users.NewRepository(client.DB())
}
