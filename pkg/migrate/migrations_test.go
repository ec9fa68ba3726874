package migrate_test

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/petadopt/petadopt-backend/pkg/config"
	"github.com/petadopt/petadopt-backend/pkg/db"
	"github.com/petadopt/petadopt-backend/pkg/logger"
	"github.com/petadopt/petadopt-backend/pkg/migrate"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", "*_"+suffix+".sql"))
	require.NoError(t, err)
	require.Len(t, matches, 1, "expected exactly one %s migration", suffix)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	return string(data)
}

func TestUsersMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "create_users_table")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS users",
		"CONSTRAINT users_username_key UNIQUE (username)",
		"CONSTRAINT users_email_key UNIQUE (email)",
		"is_admin BOOLEAN NOT NULL DEFAULT FALSE",
		"DROP TABLE IF EXISTS users",
	}
	for _, sub := range checks {
		require.Contains(t, content, sub)
	}
}

func TestPetsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "create_pets_table")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS pets",
		"status VARCHAR(20) NOT NULL DEFAULT 'available'",
		"CHECK (status IN ('available', 'pending', 'adopted'))",
		"CHECK (species IN ('Dog', 'Cat'))",
		"CHECK (updated_at >= created_at)",
		"CREATE INDEX IF NOT EXISTS idx_pets_species_status",
		"DROP TABLE IF EXISTS pets",
	}
	for _, sub := range checks {
		require.Contains(t, content, sub)
	}
}

func TestMigrationsDirIsValid(t *testing.T) {
	require.NoError(t, migrate.ValidateDir("migrations"))
}

func TestEmbeddedMigrationsAreValid(t *testing.T) {
	require.NoError(t, migrate.ValidateFS(migrate.Embedded(), "migrations"))
}

func TestEmbeddedMatchesDisk(t *testing.T) {
	onDisk, err := filepath.Glob(filepath.Join("migrations", "*.sql"))
	require.NoError(t, err)

	embedded, err := fs.Glob(migrate.Embedded(), "migrations/*.sql")
	require.NoError(t, err)
	require.Len(t, embedded, len(onDisk))
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "create_users.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	require.Error(t, migrate.ValidateDir(dir))

	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20260101000000_missing_down.sql"), []byte("-- +goose Up\n"), 0o644))
	require.Error(t, migrate.ValidateDir(dir))

	dir = t.TempDir()
	for _, name := range []string{"20260101000000_a.sql", "20260101000000_b.sql"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	}
	require.Error(t, migrate.ValidateDir(dir))
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Pet Photos!")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(path, "_add_pet_photos.sql"), path)
	require.NoError(t, migrate.ValidateDir(dir))

	_, err = migrate.CreateSQLMigration(dir, "!!!")
	require.Error(t, err)
}

func TestMaybeRunDevAutoMigratesSQLite(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:migrate_auto?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	client := db.NewFromGorm(conn)

	cfg := &config.Config{
		App: config.AppConfig{Env: config.AppEnvTest},
		DB:  config.DBConfig{Driver: config.DBDriverSQLite},
	}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	require.NoError(t, migrate.MaybeRunDev(context.Background(), cfg, logg, client))
	require.True(t, conn.Migrator().HasTable("users"))
	require.True(t, conn.Migrator().HasTable("pets"))
}

func TestMaybeRunDevSkipsPostgresOutsideDev(t *testing.T) {
	cfg := &config.Config{
		App:          config.AppConfig{Env: config.AppEnvProd},
		DB:           config.DBConfig{Driver: config.DBDriverPostgres},
		FeatureFlags: config.FeatureFlagsConfig{AutoMigrate: true},
	}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	require.NoError(t, migrate.MaybeRunDev(context.Background(), cfg, logg, nil))
}
