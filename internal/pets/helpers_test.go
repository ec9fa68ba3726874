package pets

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/petadopt/petadopt-backend/internal/authz"
	"github.com/petadopt/petadopt-backend/pkg/db"
	"github.com/petadopt/petadopt-backend/pkg/db/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

var (
	adminActor   = &authz.Principal{UserID: 1, Username: "admin", IsAdmin: true}
	adopterActor = &authz.Principal{UserID: 2, Username: "adopter"}
)

func newTestDB(t *testing.T) *db.Client {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Pet{}))
	return db.NewFromGorm(conn)
}

func newTestService(t *testing.T) (Service, *db.Client) {
	t.Helper()
	client := newTestDB(t)
	svc, err := NewService(NewRepository(client.DB()), client, nil)
	require.NoError(t, err)
	return svc, client
}

func countPets(t *testing.T, client *db.Client) int64 {
	t.Helper()
	var count int64
	require.NoError(t, client.DB().Model(&models.Pet{}).Count(&count).Error)
	return count
}

func strPtr(value string) *string {
	return &value
}
