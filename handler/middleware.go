package handler

import (
	"net/http"
	"strings"

	"task-manager/pkg/logger"
	"task-manager/service"

	"github.com/labstack/echo/v4"
)

// APIKeyMiddleware creates an API key authentication middleware. The
// key creation route stays public so a fresh deployment can bootstrap
// its first credential.
func APIKeyMiddleware(apiKeyService service.APIKeyService, logger *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Skip authentication for public endpoints
			path := c.Request().URL.Path
			if (path == "/api/v1/auth/api-keys" && c.Request().Method == http.MethodPost) ||
				strings.HasPrefix(path, "/swagger") ||
				strings.HasPrefix(path, "/docs") ||
				path == "/" ||
				path == "/health" {
				return next(c)
			}

			// Get Authorization header
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				logger.Warnw("Missing Authorization header", "path", path)
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"error":   "Unauthorized",
					"details": "Missing Authorization header",
				})
			}

			// Check Bearer token format
			if !strings.HasPrefix(authHeader, "Bearer ") {
				logger.Warnw("Invalid Authorization header format", "path", path)
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"error":   "Unauthorized",
					"details": "Invalid Authorization header format",
				})
			}

			// Extract key
			key := authHeader[7:] // Remove "Bearer " prefix

			// Validate against active keys, stamping last_used
			apiKey, err := apiKeyService.Validate(c.Request().Context(), key)
			if err != nil {
				logger.Warnw("API key rejected", "path", path, "error", err)
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"error":   "Unauthorized",
					"details": "Invalid or inactive API key",
				})
			}

			// Store key identity in context
			c.Set("api_key", apiKey)

			logger.Debugw("API key authentication successful", "key_id", apiKey.ID, "path", path)
			return next(c)
		}
	}
}

// CORSMiddleware creates a CORS middleware
func CORSMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("Access-Control-Allow-Origin", "*")
			c.Response().Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			c.Response().Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

			if c.Request().Method == "OPTIONS" {
				return c.NoContent(http.StatusNoContent)
			}

			return next(c)
		}
	}
}

// RequestLoggerMiddleware creates a request logging middleware
func RequestLoggerMiddleware(logger *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			logger.Infow("HTTP Request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"remote_addr", c.RealIP(),
				"user_agent", c.Request().UserAgent(),
			)

			err := next(c)

			logger.Infow("HTTP Response",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
			)

			return err
		}
	}
}
