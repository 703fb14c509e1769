package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindset-backend/internal/config"
	"mindset-backend/internal/model"
)

func TestOpenSQLiteUsesOneConnection(t *testing.T) {
	gdb, err := Open(config.DBConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "mindset.db"),
		Pool:   config.DBPoolConfig{MaxOpenConns: 20, MaxIdleConns: 5},
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	require.NoError(t, Migrate(gdb))
	assert.True(t, gdb.Migrator().HasTable(&model.AssessmentResponse{}))
}

func TestPostgresDSN(t *testing.T) {
	dc := config.DBConfig{
		Host:     "db",
		Port:     5432,
		Username: "mindset",
		Password: config.DBPassword{Value: "pw"},
		Names:    config.DBNames{Mindset: "mindset"},
		SSLMode:  "disable",
	}
	assert.Equal(t, "postgres://mindset:pw@db:5432/mindset?sslmode=disable", PostgresDSN(dc))

	dc.DSN = "postgres://override"
	assert.Equal(t, "postgres://override", PostgresDSN(dc))
}
