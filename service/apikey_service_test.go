package service

import (
	"context"
	"strings"
	"testing"

	"task-manager/entity"
	"task-manager/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAPIKeyFixture() (APIKeyService, *fakeAPIKeyRepo) {
	repo := &fakeAPIKeyRepo{}
	return NewAPIKeyService(repo, testLogger()), repo
}

func TestAPIKeyCreate(t *testing.T) {
	service, _ := newAPIKeyFixture()

	response, err := service.Create(context.Background(), &entity.APIKeyCreateRequest{Name: "ci"})

	require.NoError(t, err)
	assert.Equal(t, "ci", response.Name)
	assert.True(t, response.IsActive)
	assert.True(t, strings.HasPrefix(response.Key, "sk-"))
	assert.Greater(t, len(response.Key), 40)
	assert.Nil(t, response.LastUsed)
}

func TestAPIKeyCreate_KeysAreUnique(t *testing.T) {
	service, _ := newAPIKeyFixture()

	first, err := service.Create(context.Background(), &entity.APIKeyCreateRequest{Name: "a"})
	require.NoError(t, err)
	second, err := service.Create(context.Background(), &entity.APIKeyCreateRequest{Name: "b"})
	require.NoError(t, err)

	assert.NotEqual(t, first.Key, second.Key)
}

func TestAPIKeyValidate(t *testing.T) {
	service, _ := newAPIKeyFixture()

	created, err := service.Create(context.Background(), &entity.APIKeyCreateRequest{Name: "ci"})
	require.NoError(t, err)

	key, err := service.Validate(context.Background(), created.Key)
	require.NoError(t, err)
	assert.Equal(t, created.ID, key.ID)
	assert.NotNil(t, key.LastUsed)

	_, err = service.Validate(context.Background(), "sk-bogus")
	require.Error(t, err)
	assert.Equal(t, apperr.Unauthorized, apperr.KindOf(err))
}

func TestAPIKeyValidate_RevokedKey(t *testing.T) {
	service, _ := newAPIKeyFixture()

	created, err := service.Create(context.Background(), &entity.APIKeyCreateRequest{Name: "ci"})
	require.NoError(t, err)

	require.NoError(t, service.Deactivate(context.Background(), created.ID))

	_, err = service.Validate(context.Background(), created.Key)
	require.Error(t, err)
	assert.Equal(t, apperr.Unauthorized, apperr.KindOf(err))
}

func TestAPIKeyList_RedactsSecrets(t *testing.T) {
	service, repo := newAPIKeyFixture()

	_, err := service.Create(context.Background(), &entity.APIKeyCreateRequest{Name: "ci"})
	require.NoError(t, err)

	items, err := service.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "ci", items[0].Name)

	// The stored secret exists but the list item has no field for it.
	assert.NotEmpty(t, repo.keys[0].Key)
}

func TestAPIKeyDeactivate_Unknown(t *testing.T) {
	service, _ := newAPIKeyFixture()

	err := service.Deactivate(context.Background(), 99)

	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}
