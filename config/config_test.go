package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_TTL", "")

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.True(t, cfg.UsesDefaultSecret())
	assert.Equal(t, int64(5<<20), cfg.UploadMaxBytes)
}

func TestLoad_EnvOverridesDotEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("MOCARDAPIO_TEST_KEY=from-file\nJWT_TTL=2h\n"), 0o600))
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("DB_DRIVER", "POSTGRES")
	t.Cleanup(func() { os.Unsetenv("MOCARDAPIO_TEST_KEY") })

	cfg := Load(envFile)

	assert.Equal(t, "from-file", os.Getenv("MOCARDAPIO_TEST_KEY"))
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
	assert.Equal(t, "postgres", cfg.DBDriver)
}

func TestIsProduction(t *testing.T) {
	assert.True(t, Config{AppEnv: "production"}.IsProduction())
	assert.False(t, Config{AppEnv: "development"}.IsProduction())
}

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, "app.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", sqliteDSN("app.db"))
	assert.Equal(t, "file:x?mode=memory&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", sqliteDSN("file:x?mode=memory"))
	assert.Equal(t, "x?_pragma=foreign_keys(0)", sqliteDSN("x?_pragma=foreign_keys(0)"))
}

func TestOpenDB_UnsupportedDriver(t *testing.T) {
	_, err := OpenDB(Config{DBDriver: "oracle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported DB_DRIVER")
}

func TestOpenDB_SQLiteMigrates(t *testing.T) {
	db, err := OpenDB(Config{DBDriver: "sqlite", DatabaseDSN: "file:config_test?mode=memory&cache=shared"})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	assert.True(t, db.Migrator().HasTable("orders"))
	assert.True(t, db.Migrator().HasTable("order_status_histories"))
	assert.True(t, db.Migrator().HasIndex("kitchen_profiles", "idx_kitchen_profiles_user_id"))
}
