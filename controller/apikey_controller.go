package controller

import (
	"net/http"

	"task-manager/entity"
	"task-manager/pkg/logger"
	"task-manager/service"
	"task-manager/validator"

	"github.com/labstack/echo/v4"
)

// APIKeyController handles API key HTTP requests
type APIKeyController struct {
	apiKeyService service.APIKeyService
	validator     *validator.Validator
	logger        *logger.Logger
}

// NewAPIKeyController creates a new API key controller instance
func NewAPIKeyController(apiKeyService service.APIKeyService, validator *validator.Validator, logger *logger.Logger) *APIKeyController {
	return &APIKeyController{
		apiKeyService: apiKeyService,
		validator:     validator,
		logger:        logger,
	}
}

// Create provisions a new API key. This route is public so a fresh
// deployment can bootstrap its first credential.
// @Summary Create API key
// @Description Provision a new API key; the secret is only ever returned here
// @Tags API Keys
// @Accept json
// @Produce json
// @Param request body entity.APIKeyCreateRequest true "Create API Key Request"
// @Success 201 {object} entity.APIKeyResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /auth/api-keys [post]
func (c *APIKeyController) Create(ctx echo.Context) error {
	var req entity.APIKeyCreateRequest

	if err := ctx.Bind(&req); err != nil {
		c.logger.Errorw("Failed to bind request", "error", err)
		return bindError(ctx, err)
	}

	if err := c.validator.ValidateStruct(&req); err != nil {
		c.logger.Warnw("Validation failed", "error", err)
		return validationError(ctx, err)
	}

	response, err := c.apiKeyService.Create(ctx.Request().Context(), &req)
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, response)
}

// List retrieves all API keys with secrets redacted
// @Summary List API keys
// @Description List all API keys; secrets are redacted
// @Tags API Keys
// @Produce json
// @Success 200 {array} entity.APIKeyListItem
// @Failure 500 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /auth/api-keys [get]
func (c *APIKeyController) List(ctx echo.Context) error {
	response, err := c.apiKeyService.List(ctx.Request().Context())
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// Deactivate revokes an API key
// @Summary Deactivate API key
// @Description Permanently revoke an API key
// @Tags API Keys
// @Produce json
// @Param id path int true "API Key ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /auth/api-keys/{id} [delete]
func (c *APIKeyController) Deactivate(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return bindError(ctx, err)
	}

	if err := c.apiKeyService.Deactivate(ctx.Request().Context(), id); err != nil {
		return serviceError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"message": "API key deactivated successfully",
	})
}
