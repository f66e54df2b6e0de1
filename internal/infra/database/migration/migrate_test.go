package migration

import (
	"go-weather/internal/infra/database/sqlc"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpKeepsDatabaseOpen(t *testing.T) {
	db, err := sqlc.OpenSQLite(filepath.Join(t.TempDir(), "weather.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Up(db, "sqlite"))
	require.NoError(t, Up(db, "sqlite"))

	require.NoError(t, db.Ping())
	assert.Zero(t, db.Stats().InUse)

	var tables int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('last_city', 'current_weather', 'forecast')`).Scan(&tables))
	assert.Equal(t, 3, tables)
}

func TestUpRejectsUnknownDriver(t *testing.T) {
	db, err := sqlc.OpenSQLite(filepath.Join(t.TempDir(), "weather.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	err = Up(db, "mysql")

	assert.ErrorContains(t, err, "unsupported migration driver: mysql")
}
