package entity

// APIKey represents a provisioned API credential. Keys are soft-disabled
// on revocation and never hard-deleted.
type APIKey struct {
	ID        int64  `db:"id" json:"id"`
	Key       string `db:"key" json:"key"`
	Name      string `db:"name" json:"name"`
	IsActive  bool   `db:"is_active" json:"is_active"`
	CreatedAt int64  `db:"created_at" json:"created_at"`
	LastUsed  *int64 `db:"last_used" json:"last_used"`
}

// TableName returns the table name for the APIKey entity
func (APIKey) TableName() string {
	return "api_keys"
}

// APIKeyCreateRequest represents the request to provision a new API key
type APIKeyCreateRequest struct {
	Name string `json:"name" validate:"required"`
}

// APIKeyResponse is returned on creation and is the only place the
// secret is ever exposed.
type APIKeyResponse struct {
	ID        int64  `json:"id"`
	Key       string `json:"key"`
	Name      string `json:"name"`
	IsActive  bool   `json:"is_active"`
	CreatedAt int64  `json:"created_at"`
	LastUsed  *int64 `json:"last_used"`
}

// APIKeyListItem represents a key in listings, with the secret redacted.
type APIKeyListItem struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	IsActive  bool   `json:"is_active"`
	CreatedAt int64  `json:"created_at"`
	LastUsed  *int64 `json:"last_used"`
}
