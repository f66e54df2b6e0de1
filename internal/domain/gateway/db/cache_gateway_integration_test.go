//go:build database

package db

import (
	"context"
	"fmt"
	"go-weather/internal/infra/database/gorm"
	"go-weather/internal/infra/database/migration"
	"go-weather/internal/infra/database/sqlc"
	"go-weather/pkg/redis"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startContainer(t *testing.T, req testcontainers.ContainerRequest) (string, int) {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, req.ExposedPorts[0])
	require.NoError(t, err)
	return host, port.Int()
}

func startPostgres(t *testing.T) string {
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "weather",
			"POSTGRES_PASSWORD": "weather",
			"POSTGRES_DB":       "weather",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	})
	return fmt.Sprintf("host=%s port=%d user=weather password=weather dbname=weather sslmode=disable", host, port)
}

func TestPostgresCacheContract(t *testing.T) {
	conn, err := sqlc.OpenPostgres(startPostgres(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	// a connection kept by the migration would starve the contract below
	conn.SetMaxOpenConns(1)
	require.NoError(t, migration.Up(conn, "postgres"))
	require.NoError(t, migration.Up(conn, "postgres"))
	assert.Zero(t, conn.Stats().InUse)

	runCacheContract(t, NewSQLCCacheGateway(conn, DialectPostgres))

	health := NewSQLCHealthDBGateway(conn, DialectPostgres).Health()
	assert.Equal(t, "UP", string(health.Status))
}

func TestGormCacheContract(t *testing.T) {
	dsn := startPostgres(t)
	conn, err := sqlc.OpenPostgres(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, migration.Up(conn, "postgres"))

	db, err := gorm.Open(dsn)
	require.NoError(t, err)

	runCacheContract(t, NewGormCacheGateway(db))

	health := NewGormHealthDBGateway(db).Health()
	assert.Equal(t, "UP", string(health.Status))
}

func TestRedisCacheContract(t *testing.T) {
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
	})

	client, err := redis.NewClient(redis.NewRedisConfig().WithHost(host).WithPort(port))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	runCacheContract(t, NewRedisCacheGateway(client))

	health := NewRedisHealthDBGateway(client).Health()
	assert.Equal(t, "UP", string(health.Status))
}
