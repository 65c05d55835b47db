package admin

import (
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationResult_AppliedNewVersions(t *testing.T) {
	msg, err := migrationResult(nil, nil, 3, false)

	require.NoError(t, err)
	assert.Equal(t, "migrations: applied successfully (version 3)", msg)
}

func TestMigrationResult_AlreadyUpToDate(t *testing.T) {
	msg, err := migrationResult(migrate.ErrNoChange, nil, 3, false)

	require.NoError(t, err)
	assert.Equal(t, "migrations: database is up to date (version 3)", msg)
}

func TestMigrationResult_EmptyDatabase(t *testing.T) {
	msg, err := migrationResult(migrate.ErrNoChange, migrate.ErrNilVersion, 0, false)

	require.NoError(t, err)
	assert.Equal(t, "migrations: database is up to date (no migrations applied)", msg)
}

func TestMigrationResult_DirtyVersion(t *testing.T) {
	_, err := migrationResult(nil, nil, 2, true)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "dirty")
}
