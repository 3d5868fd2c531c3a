package controller

import (
	"net/http"

	"task-manager/pkg/apperr"

	"github.com/labstack/echo/v4"
)

// serviceError renders a service-layer error with the status its kind
// maps to. Unclassified errors degrade to a generic 500 payload.
func serviceError(ctx echo.Context, err error) error {
	return ctx.JSON(apperr.HTTPStatus(err), map[string]interface{}{
		"error": apperr.MessageOf(err),
	})
}

func bindError(ctx echo.Context, err error) error {
	return ctx.JSON(http.StatusBadRequest, map[string]interface{}{
		"error":   "Invalid request format",
		"details": err.Error(),
	})
}

func validationError(ctx echo.Context, err error) error {
	return ctx.JSON(http.StatusBadRequest, map[string]interface{}{
		"error":   "Validation failed",
		"details": err.Error(),
	})
}
