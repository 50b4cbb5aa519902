package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteInMemory(t *testing.T) {
	gormDB, err := Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NotNil(t, gormDB)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Ping())
}

func TestOpenRejectsEmptyDSN(t *testing.T) {
	_, err := Open("sqlite", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DSN is required")
}

func TestOpenRejectsUnknownDialect(t *testing.T) {
	_, err := Open("oracle", "some-dsn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database type")
}
