package controller

import (
	"net/http"
	"strconv"

	"task-manager/entity"
	"task-manager/pkg/logger"
	"task-manager/service"
	"task-manager/validator"

	"github.com/labstack/echo/v4"
)

// UserController handles user HTTP requests
type UserController struct {
	userService service.UserService
	validator   *validator.Validator
	logger      *logger.Logger
}

// NewUserController creates a new user controller instance
func NewUserController(userService service.UserService, validator *validator.Validator, logger *logger.Logger) *UserController {
	return &UserController{
		userService: userService,
		validator:   validator,
		logger:      logger,
	}
}

// Register handles user registration against a verification token
// @Summary Register user
// @Description Register a new user with a phone verification token
// @Tags Users
// @Accept json
// @Produce json
// @Param request body entity.RegisterRequest true "Register Request"
// @Success 201 {object} entity.UserResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /users/register [post]
func (c *UserController) Register(ctx echo.Context) error {
	var req entity.RegisterRequest

	if err := ctx.Bind(&req); err != nil {
		c.logger.Errorw("Failed to bind request", "error", err)
		return bindError(ctx, err)
	}

	if err := c.validator.ValidateStruct(&req); err != nil {
		c.logger.Warnw("Validation failed", "error", err)
		return validationError(ctx, err)
	}

	response, err := c.userService.Register(ctx.Request().Context(), &req)
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, response)
}

// Login handles credential login by email or mobile number
// @Summary Login
// @Description Authenticate with email or mobile number plus password
// @Tags Users
// @Accept json
// @Produce json
// @Param request body entity.LoginRequest true "Login Request"
// @Success 200 {object} entity.LoginResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /users/login [post]
func (c *UserController) Login(ctx echo.Context) error {
	var req entity.LoginRequest

	if err := ctx.Bind(&req); err != nil {
		c.logger.Errorw("Failed to bind request", "error", err)
		return bindError(ctx, err)
	}

	if err := c.validator.ValidateStruct(&req); err != nil {
		c.logger.Warnw("Validation failed", "error", err)
		return validationError(ctx, err)
	}

	response, err := c.userService.Login(ctx.Request().Context(), &req)
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// Get retrieves a user by ID
// @Summary Get user
// @Description Retrieve an active user by ID
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} entity.UserResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /users/{id} [get]
func (c *UserController) Get(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return bindError(ctx, err)
	}

	response, err := c.userService.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// Update applies a partial profile update
// @Summary Update user
// @Description Update profile fields; changing the mobile number resets phone verification
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body entity.UserUpdateRequest true "Update Request"
// @Success 200 {object} entity.UserResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /users/{id} [put]
func (c *UserController) Update(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return bindError(ctx, err)
	}

	var req entity.UserUpdateRequest
	if err := ctx.Bind(&req); err != nil {
		c.logger.Errorw("Failed to bind request", "error", err)
		return bindError(ctx, err)
	}

	if err := c.validator.ValidateStruct(&req); err != nil {
		c.logger.Warnw("Validation failed", "error", err)
		return validationError(ctx, err)
	}

	response, err := c.userService.Update(ctx.Request().Context(), id, &req)
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// Delete soft-deletes a user
// @Summary Delete user
// @Description Soft-delete a user
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /users/{id} [delete]
func (c *UserController) Delete(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return bindError(ctx, err)
	}

	if err := c.userService.Delete(ctx.Request().Context(), id); err != nil {
		return serviceError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"message": "User deleted successfully",
	})
}

// List retrieves all active users
// @Summary List users
// @Description Retrieve all active users
// @Tags Users
// @Produce json
// @Success 200 {array} entity.UserResponse
// @Failure 500 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /users [get]
func (c *UserController) List(ctx echo.Context) error {
	response, err := c.userService.List(ctx.Request().Context())
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// pathID parses a numeric path parameter
func pathID(ctx echo.Context, name string) (int64, error) {
	return strconv.ParseInt(ctx.Param(name), 10, 64)
}
