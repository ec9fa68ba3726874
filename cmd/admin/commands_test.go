package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/petadopt/petadopt-backend/internal/auth"
	"github.com/petadopt/petadopt-backend/pkg/config"
	"github.com/petadopt/petadopt-backend/pkg/db"
	"github.com/petadopt/petadopt-backend/pkg/db/models"
	"github.com/petadopt/petadopt-backend/pkg/security"
)

var dbSeq atomic.Int64

// fixture keeps one shared in-memory database alive across command runs.
type fixture struct {
	cfg    *config.Config
	keeper *db.Client
	dsn    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:admin_cli_%d?mode=memory&cache=shared", dbSeq.Add(1))
	keeper := openSQLite(t, dsn)
	require.NoError(t, keeper.DB().AutoMigrate(&models.User{}, &models.Pet{}))
	t.Cleanup(func() { _ = keeper.Close() })

	return &fixture{
		cfg: &config.Config{
			App: config.AppConfig{Env: config.AppEnvTest},
			Password: config.PasswordConfig{
				ArgonMemoryKB:    8192,
				ArgonTime:        1,
				ArgonParallelism: 1,
				ArgonSaltLen:     16,
				ArgonKeyLen:      32,
			},
		},
		keeper: keeper,
		dsn:    dsn,
	}
}

func openSQLite(t *testing.T, dsn string) *db.Client {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return db.NewFromGorm(conn)
}

func (f *fixture) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	open := func(context.Context) (*environment, error) {
		return &environment{cfg: f.cfg, db: openSQLite(t, f.dsn)}, nil
	}
	root := newRootCmd(open, &out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (f *fixture) user(t *testing.T, email string) models.User {
	t.Helper()
	var u models.User
	require.NoError(t, f.keeper.DB().Where("email = ?", email).First(&u).Error)
	return u
}

func TestCreateAdmin(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "hunter2 two\n", "create-admin", "--username", "root", "--email", "Root@Example.com")
	require.NoError(t, err)
	require.Contains(t, out, "created admin root <root@example.com>")
	require.NotContains(t, out, "hunter2")

	u := f.user(t, "root@example.com")
	require.True(t, u.IsAdmin)
	ok, err := security.VerifyPassword("hunter2 two", u.PasswordHash)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = f.run(t, "x\n", "create-admin", "--username", "other", "--email", "root@example.com")
	require.EqualError(t, err, auth.MessageDuplicateEmail)
}

func TestCreateAdminRequiresFlags(t *testing.T) {
	f := newFixture(t)
	_, err := f.run(t, "pw\n", "create-admin", "--username", "root")
	require.Error(t, err)
}

func TestCreateAdminReadsPasswordFromStdinOnly(t *testing.T) {
	f := newFixture(t)

	_, err := f.run(t, "", "create-admin", "--username", "root", "--email", "root@example.com")
	require.EqualError(t, err, "password required on stdin")

	_, err = f.run(t, "pw\n", "create-admin", "--username", "root", "--email", "root@example.com", "--password", "pw")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown flag: --password")

	var count int64
	require.NoError(t, f.keeper.DB().Model(&models.User{}).Count(&count).Error)
	require.Zero(t, count)

	_, err = f.run(t, "no-newline", "create-admin", "--username", "root", "--email", "root@example.com")
	require.NoError(t, err)
	ok, err := security.VerifyPassword("no-newline", f.user(t, "root@example.com").PasswordHash)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestSetPassword(t *testing.T) {
	f := newFixture(t)
	_, err := f.run(t, "old\n", "create-admin", "--username", "root", "--email", "root@example.com")
	require.NoError(t, err)

	out, err := f.run(t, "new-secret\r\n", "set-password", "--email", "root@example.com")
	require.NoError(t, err)
	require.Contains(t, out, "password for root@example.com updated")
	ok, err := security.VerifyPassword("new-secret", f.user(t, "root@example.com").PasswordHash)
	require.NoError(t, err)
	require.True(t, ok)

	out, err = f.run(t, "", "set-password", "--email", "root@example.com", "--generate")
	require.NoError(t, err)
	generated := strings.TrimSpace(out[strings.LastIndex(out, " ")+1:])
	require.Len(t, generated, generatedPasswordLength)
	ok, err = security.VerifyPassword(generated, f.user(t, "root@example.com").PasswordHash)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = f.run(t, "", "set-password", "--email", "root@example.com")
	require.EqualError(t, err, "password required on stdin")

	_, err = f.run(t, "x\n", "set-password", "--email", "root@example.com", "--password", "x")
	require.Error(t, err)

	_, err = f.run(t, "x\n", "set-password", "--email", "ghost@example.com")
	require.EqualError(t, err, auth.MessageUserNotFound)
}

func TestListUsers(t *testing.T) {
	f := newFixture(t)
	_, err := f.run(t, "pw\n", "create-admin", "--username", "root", "--email", "root@example.com")
	require.NoError(t, err)

	out, err := f.run(t, "", "list-users")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "USERNAME")
	require.Contains(t, lines[1], "root@example.com")
	require.Contains(t, lines[1], "admin")
}
