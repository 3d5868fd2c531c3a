package repository

import (
	"database/sql"
	"fmt"

	"task-manager/entity"

	"github.com/jmoiron/sqlx"
)

// APIKeyRepository interface defines API key data operations
type APIKeyRepository interface {
	Create(key *entity.APIKey) (*entity.APIKey, error)
	List() ([]entity.APIKey, error)
	ValidateAndTouch(key string, now int64) (*entity.APIKey, error)
	Deactivate(id int64) (bool, error)
}

// apiKeyRepository implements APIKeyRepository interface
type apiKeyRepository struct {
	db *sqlx.DB
}

// NewAPIKeyRepository creates a new API key repository instance
func NewAPIKeyRepository(db *sqlx.DB) APIKeyRepository {
	return &apiKeyRepository{
		db: db,
	}
}

// Create inserts a new API key
func (r *apiKeyRepository) Create(key *entity.APIKey) (*entity.APIKey, error) {
	query := `
		INSERT INTO api_keys (key, name, is_active, created_at, last_used)
		VALUES (:key, :name, :is_active, :created_at, :last_used)
		RETURNING id, key, name, is_active, created_at, last_used
	`

	rows, err := r.db.NamedQuery(query, key)
	if err != nil {
		return nil, fmt.Errorf("failed to create API key: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, fmt.Errorf("failed to get created API key")
	}

	var created entity.APIKey
	if err := rows.StructScan(&created); err != nil {
		return nil, fmt.Errorf("failed to scan created API key: %w", err)
	}

	return &created, nil
}

// List retrieves all API keys, active and revoked
func (r *apiKeyRepository) List() ([]entity.APIKey, error) {
	query := `
		SELECT id, key, name, is_active, created_at, last_used
		FROM api_keys
		ORDER BY created_at DESC
	`

	var keys []entity.APIKey
	if err := r.db.Select(&keys, query); err != nil {
		return nil, fmt.Errorf("failed to list API keys: %w", err)
	}

	return keys, nil
}

// ValidateAndTouch looks up an active key by exact match and stamps its
// last_used time in the same statement.
func (r *apiKeyRepository) ValidateAndTouch(key string, now int64) (*entity.APIKey, error) {
	query := `
		UPDATE api_keys
		SET last_used = $2
		WHERE key = $1 AND is_active = TRUE
		RETURNING id, key, name, is_active, created_at, last_used
	`

	var apiKey entity.APIKey
	err := r.db.Get(&apiKey, query, key, now)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to validate API key: %w", err)
	}

	return &apiKey, nil
}

// Deactivate soft-disables an API key. There is no reactivation path.
func (r *apiKeyRepository) Deactivate(id int64) (bool, error) {
	query := `UPDATE api_keys SET is_active = FALSE WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return false, fmt.Errorf("failed to deactivate API key: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}
