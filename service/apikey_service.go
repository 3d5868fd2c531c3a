package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"task-manager/entity"
	"task-manager/pkg/apperr"
	"task-manager/pkg/logger"
	"task-manager/repository"
)

// APIKeyService interface defines API key business operations
type APIKeyService interface {
	Create(ctx context.Context, req *entity.APIKeyCreateRequest) (*entity.APIKeyResponse, error)
	Validate(ctx context.Context, key string) (*entity.APIKey, error)
	List(ctx context.Context) ([]entity.APIKeyListItem, error)
	Deactivate(ctx context.Context, id int64) error
}

// apiKeyService implements APIKeyService interface
type apiKeyService struct {
	apiKeyRepo repository.APIKeyRepository
	logger     *logger.Logger
}

// NewAPIKeyService creates a new API key service instance
func NewAPIKeyService(apiKeyRepo repository.APIKeyRepository, logger *logger.Logger) APIKeyService {
	return &apiKeyService{
		apiKeyRepo: apiKeyRepo,
		logger:     logger,
	}
}

// Create provisions a fresh key. The secret is returned here and never
// again; listings redact it.
func (s *apiKeyService) Create(ctx context.Context, req *entity.APIKeyCreateRequest) (*entity.APIKeyResponse, error) {
	secret, err := generateAPIKey()
	if err != nil {
		s.logger.Errorw("Failed to generate API key", "error", err)
		return nil, apperr.Wrap(apperr.Internal, "Failed to create API key", err)
	}

	created, err := s.apiKeyRepo.Create(&entity.APIKey{
		Key:       secret,
		Name:      req.Name,
		IsActive:  true,
		CreatedAt: time.Now().Unix(),
	})
	if err != nil {
		s.logger.Errorw("Failed to store API key", "name", req.Name, "error", err)
		return nil, apperr.Wrap(apperr.Internal, "Failed to create API key", err)
	}

	s.logger.Infow("API key created", "key_id", created.ID, "name", created.Name)

	return &entity.APIKeyResponse{
		ID:        created.ID,
		Key:       created.Key,
		Name:      created.Name,
		IsActive:  created.IsActive,
		CreatedAt: created.CreatedAt,
		LastUsed:  created.LastUsed,
	}, nil
}

// Validate resolves a presented secret to its active key, stamping
// last_used on the way through.
func (s *apiKeyService) Validate(ctx context.Context, key string) (*entity.APIKey, error) {
	apiKey, err := s.apiKeyRepo.ValidateAndTouch(key, time.Now().Unix())
	if err != nil {
		s.logger.Errorw("Failed to validate API key", "error", err)
		return nil, apperr.Wrap(apperr.Internal, "Failed to validate API key", err)
	}
	if apiKey == nil {
		return nil, apperr.New(apperr.Unauthorized, "Invalid or inactive API key")
	}

	return apiKey, nil
}

// List retrieves all keys with secrets redacted
func (s *apiKeyService) List(ctx context.Context) ([]entity.APIKeyListItem, error) {
	keys, err := s.apiKeyRepo.List()
	if err != nil {
		s.logger.Errorw("Failed to list API keys", "error", err)
		return nil, apperr.Wrap(apperr.Internal, "Failed to list API keys", err)
	}

	items := make([]entity.APIKeyListItem, 0, len(keys))
	for _, key := range keys {
		items = append(items, entity.APIKeyListItem{
			ID:        key.ID,
			Name:      key.Name,
			IsActive:  key.IsActive,
			CreatedAt: key.CreatedAt,
			LastUsed:  key.LastUsed,
		})
	}

	return items, nil
}

// Deactivate revokes a key. Revocation is permanent.
func (s *apiKeyService) Deactivate(ctx context.Context, id int64) error {
	deactivated, err := s.apiKeyRepo.Deactivate(id)
	if err != nil {
		s.logger.Errorw("Failed to deactivate API key", "key_id", id, "error", err)
		return apperr.Wrap(apperr.Internal, "Failed to deactivate API key", err)
	}
	if !deactivated {
		return apperr.New(apperr.NotFound, "API key not found")
	}

	s.logger.Infow("API key deactivated", "key_id", id)
	return nil
}

// generateAPIKey generates an sk-prefixed 256-bit random secret
func generateAPIKey() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate API key: %w", err)
	}

	return "sk-" + base64.RawURLEncoding.EncodeToString(bytes), nil
}
