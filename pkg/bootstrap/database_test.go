package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"txnsense/internal/config"
	"txnsense/internal/logger"
)

func TestPostgresDSN(t *testing.T) {
	dsn := PostgresDSN(config.PostgresConfig{
		Host:     "db",
		Port:     5432,
		User:     "txnsense",
		Password: "secret",
		DBName:   "transactions",
	})
	assert.Equal(t, "postgres://txnsense:secret@db:5432/transactions?sslmode=disable", dsn)

	dsn = PostgresDSN(config.PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "d", SSLMode: "require"})
	assert.Equal(t, "postgres://u:p@db:5432/d?sslmode=require", dsn)
}

func TestConnect_MemoryDriverNeedsNothing(t *testing.T) {
	cfg := &config.Config{
		Database: config.DatabaseConfig{Driver: "memory"},
		Currency: config.CurrencyConfig{CacheBackend: "memory"},
	}
	dc := NewDatabaseConnector(cfg, logger.NopLogger())

	conns, err := dc.Connect(context.Background())
	require.NoError(t, err)
	assert.Nil(t, conns.Postgres)
	assert.Nil(t, conns.MongoDB)
	assert.Nil(t, conns.Redis)
	assert.Empty(t, dc.ShutdownDatabases(context.Background(), conns))
}
