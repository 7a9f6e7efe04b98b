package postgres

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoutfit/reoutfit-backend/config"
	"github.com/reoutfit/reoutfit-backend/migrations"
)

func TestMigrationFilesSorted(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_links.sql": {Data: []byte("SELECT 1")},
		"0001_init.sql":  {Data: []byte("SELECT 1")},
		"README.md":      {Data: []byte("docs")},
	}

	names, err := MigrationFiles(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_init.sql", "0002_links.sql"}, names)
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	names, err := MigrationFiles(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "0001_init.sql", names[0])
}

func TestDSN(t *testing.T) {
	cfg := &config.DatabaseConfig{Host: "db", Port: 5433, User: "app", Password: "pw", Name: "reoutfit"}
	assert.Equal(t, "host=db port=5433 user=app password=pw dbname=reoutfit sslmode=disable", DSN(cfg))

	cfg.DSN = "postgres://u:p@h/db"
	assert.Equal(t, "postgres://u:p@h/db", DSN(cfg))
}

func TestMigrationError(t *testing.T) {
	pgErr := &pgconn.PgError{Severity: "ERROR", Code: "42601", Message: "syntax error", Position: 17}
	err := migrationError("0002_bad.sql", pgErr)
	assert.EqualError(t, err, "apply 0002_bad.sql: SQLSTATE 42601 at position 17: ERROR: syntax error (SQLSTATE 42601)")
	assert.ErrorIs(t, err, pgErr)

	plain := errors.New("conn closed")
	assert.EqualError(t, migrationError("0001_init.sql", plain), "apply 0001_init.sql: conn closed")
}
