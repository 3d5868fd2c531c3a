package repository

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apiKeyRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "key", "name", "is_active", "created_at", "last_used"})
}

func TestAPIKeyRepository_ValidateAndTouch(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAPIKeyRepository(db)

	mock.ExpectQuery(`UPDATE api_keys\s+SET last_used = \$2\s+WHERE key = \$1 AND is_active = TRUE`).
		WithArgs("sk-secret", int64(1700000000)).
		WillReturnRows(apiKeyRows().AddRow(3, "sk-secret", "ci", true, 100, 1700000000))

	key, err := repo.ValidateAndTouch("sk-secret", 1700000000)

	require.NoError(t, err)
	require.NotNil(t, key)
	assert.Equal(t, int64(3), key.ID)
	require.NotNil(t, key.LastUsed)
	assert.Equal(t, int64(1700000000), *key.LastUsed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAPIKeyRepository_ValidateAndTouch_UnknownKey(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAPIKeyRepository(db)

	mock.ExpectQuery(`UPDATE api_keys`).
		WithArgs("sk-revoked", int64(1700000000)).
		WillReturnRows(apiKeyRows())

	key, err := repo.ValidateAndTouch("sk-revoked", 1700000000)

	// Unknown and revoked keys look identical to the caller.
	require.NoError(t, err)
	assert.Nil(t, key)
}

func TestAPIKeyRepository_Deactivate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAPIKeyRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE api_keys SET is_active = FALSE WHERE id = $1`)).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	deactivated, err := repo.Deactivate(3)

	require.NoError(t, err)
	assert.True(t, deactivated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAPIKeyRepository_Deactivate_Unknown(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAPIKeyRepository(db)

	mock.ExpectExec(`UPDATE api_keys SET is_active = FALSE`).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	deactivated, err := repo.Deactivate(99)

	require.NoError(t, err)
	assert.False(t, deactivated)
}
