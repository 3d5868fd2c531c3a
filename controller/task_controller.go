package controller

import (
	"fmt"
	"net/http"
	"strconv"

	"task-manager/entity"
	"task-manager/pkg/logger"
	"task-manager/service"
	"task-manager/validator"

	"github.com/labstack/echo/v4"
)

// TaskController handles task HTTP requests. Every route identifies the
// owner through a required user_id query parameter.
type TaskController struct {
	taskService service.TaskService
	validator   *validator.Validator
	logger      *logger.Logger
}

// NewTaskController creates a new task controller instance
func NewTaskController(taskService service.TaskService, validator *validator.Validator, logger *logger.Logger) *TaskController {
	return &TaskController{
		taskService: taskService,
		validator:   validator,
		logger:      logger,
	}
}

// Create handles task creation
// @Summary Create task
// @Description Create a task with a start/end time window
// @Tags Tasks
// @Accept json
// @Produce json
// @Param user_id query int true "ID of the user creating the task"
// @Param request body entity.TaskCreateRequest true "Create Task Request"
// @Success 201 {object} entity.TaskResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /tasks [post]
func (c *TaskController) Create(ctx echo.Context) error {
	userID, err := queryUserID(ctx)
	if err != nil {
		return bindError(ctx, err)
	}

	var req entity.TaskCreateRequest
	if err := ctx.Bind(&req); err != nil {
		c.logger.Errorw("Failed to bind request", "error", err)
		return bindError(ctx, err)
	}

	if err := c.validator.ValidateStruct(&req); err != nil {
		c.logger.Warnw("Validation failed", "error", err)
		return validationError(ctx, err)
	}

	response, err := c.taskService.Create(ctx.Request().Context(), userID, &req)
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, response)
}

// List handles filtered task listing
// @Summary List tasks
// @Description List a user's active tasks with optional filters
// @Tags Tasks
// @Produce json
// @Param user_id query int true "ID of the user"
// @Param status query string false "Filter by status"
// @Param priority query string false "Filter by priority"
// @Param is_completed query bool false "Filter by completion"
// @Param start_date query string false "Tasks starting on or after this date"
// @Param end_date query string false "Tasks ending on or before this date"
// @Success 200 {array} entity.TaskResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /tasks [get]
func (c *TaskController) List(ctx echo.Context) error {
	userID, err := queryUserID(ctx)
	if err != nil {
		return bindError(ctx, err)
	}

	var filter entity.TaskFilter
	if err := ctx.Bind(&filter); err != nil {
		c.logger.Errorw("Failed to bind filter", "error", err)
		return bindError(ctx, err)
	}

	response, err := c.taskService.List(ctx.Request().Context(), userID, &filter)
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// Get retrieves a single task
// @Summary Get task
// @Description Retrieve a task owned by the user
// @Tags Tasks
// @Produce json
// @Param id path int true "Task ID"
// @Param user_id query int true "ID of the user who owns the task"
// @Success 200 {object} entity.TaskResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /tasks/{id} [get]
func (c *TaskController) Get(ctx echo.Context) error {
	userID, err := queryUserID(ctx)
	if err != nil {
		return bindError(ctx, err)
	}

	taskID, err := pathID(ctx, "id")
	if err != nil {
		return bindError(ctx, err)
	}

	response, err := c.taskService.GetByID(ctx.Request().Context(), userID, taskID)
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// Update applies a partial task update
// @Summary Update task
// @Description Update task fields; times are revalidated and status is kept in sync with is_completed
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path int true "Task ID"
// @Param user_id query int true "ID of the user who owns the task"
// @Param request body entity.TaskUpdateRequest true "Update Task Request"
// @Success 200 {object} entity.TaskResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /tasks/{id} [put]
func (c *TaskController) Update(ctx echo.Context) error {
	userID, err := queryUserID(ctx)
	if err != nil {
		return bindError(ctx, err)
	}

	taskID, err := pathID(ctx, "id")
	if err != nil {
		return bindError(ctx, err)
	}

	var req entity.TaskUpdateRequest
	if err := ctx.Bind(&req); err != nil {
		c.logger.Errorw("Failed to bind request", "error", err)
		return bindError(ctx, err)
	}

	if err := c.validator.ValidateStruct(&req); err != nil {
		c.logger.Warnw("Validation failed", "error", err)
		return validationError(ctx, err)
	}

	response, err := c.taskService.Update(ctx.Request().Context(), userID, taskID, &req)
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// Delete soft-deletes a task
// @Summary Delete task
// @Description Soft-delete a task owned by the user
// @Tags Tasks
// @Produce json
// @Param id path int true "Task ID"
// @Param user_id query int true "ID of the user who owns the task"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /tasks/{id} [delete]
func (c *TaskController) Delete(ctx echo.Context) error {
	userID, err := queryUserID(ctx)
	if err != nil {
		return bindError(ctx, err)
	}

	taskID, err := pathID(ctx, "id")
	if err != nil {
		return bindError(ctx, err)
	}

	if err := c.taskService.Delete(ctx.Request().Context(), userID, taskID); err != nil {
		return serviceError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"message": "Task deleted successfully",
	})
}

// Complete marks a task completed
// @Summary Complete task
// @Description Mark a task as completed
// @Tags Tasks
// @Produce json
// @Param id path int true "Task ID"
// @Param user_id query int true "ID of the user who owns the task"
// @Success 200 {object} entity.TaskResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /tasks/{id}/complete [patch]
func (c *TaskController) Complete(ctx echo.Context) error {
	userID, err := queryUserID(ctx)
	if err != nil {
		return bindError(ctx, err)
	}

	taskID, err := pathID(ctx, "id")
	if err != nil {
		return bindError(ctx, err)
	}

	response, err := c.taskService.Complete(ctx.Request().Context(), userID, taskID)
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// Stats aggregates a user's tasks
// @Summary Task statistics
// @Description Per-status counts and completion rate over a user's active tasks
// @Tags Tasks
// @Produce json
// @Param user_id query int true "ID of the user"
// @Success 200 {object} entity.TaskStats
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /tasks/stats/summary [get]
func (c *TaskController) Stats(ctx echo.Context) error {
	userID, err := queryUserID(ctx)
	if err != nil {
		return bindError(ctx, err)
	}

	response, err := c.taskService.Stats(ctx.Request().Context(), userID)
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// Overdue lists tasks past their end time
// @Summary Overdue tasks
// @Description Active, uncompleted tasks whose end time has passed, most recently due first
// @Tags Tasks
// @Produce json
// @Param user_id query int true "ID of the user"
// @Success 200 {array} entity.TaskResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /tasks/overdue/list [get]
func (c *TaskController) Overdue(ctx echo.Context) error {
	userID, err := queryUserID(ctx)
	if err != nil {
		return bindError(ctx, err)
	}

	response, err := c.taskService.Overdue(ctx.Request().Context(), userID)
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// ByPriority lists tasks of a given priority
// @Summary Tasks by priority
// @Description List a user's active tasks with the given priority
// @Tags Tasks
// @Produce json
// @Param priority path string true "Task priority" Enums(low, medium, high)
// @Param user_id query int true "ID of the user"
// @Success 200 {array} entity.TaskResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /tasks/priority/{priority} [get]
func (c *TaskController) ByPriority(ctx echo.Context) error {
	userID, err := queryUserID(ctx)
	if err != nil {
		return bindError(ctx, err)
	}

	response, err := c.taskService.List(ctx.Request().Context(), userID, &entity.TaskFilter{
		Priority: ctx.Param("priority"),
	})
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// ByStatus lists tasks of a given status
// @Summary Tasks by status
// @Description List a user's active tasks with the given status
// @Tags Tasks
// @Produce json
// @Param status path string true "Task status" Enums(pending, in_progress, completed, cancelled)
// @Param user_id query int true "ID of the user"
// @Success 200 {array} entity.TaskResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /tasks/status/{status} [get]
func (c *TaskController) ByStatus(ctx echo.Context) error {
	userID, err := queryUserID(ctx)
	if err != nil {
		return bindError(ctx, err)
	}

	response, err := c.taskService.List(ctx.Request().Context(), userID, &entity.TaskFilter{
		Status: ctx.Param("status"),
	})
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// Today lists tasks scheduled within the current day
// @Summary Today's tasks
// @Description List a user's active tasks whose window falls within today
// @Tags Tasks
// @Produce json
// @Param user_id query int true "ID of the user"
// @Success 200 {array} entity.TaskResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /tasks/today/list [get]
func (c *TaskController) Today(ctx echo.Context) error {
	userID, err := queryUserID(ctx)
	if err != nil {
		return bindError(ctx, err)
	}

	response, err := c.taskService.Today(ctx.Request().Context(), userID)
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// queryUserID parses the required user_id query parameter
func queryUserID(ctx echo.Context) (int64, error) {
	raw := ctx.QueryParam("user_id")
	if raw == "" {
		return 0, fmt.Errorf("user_id query parameter is required")
	}

	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("user_id must be a number")
	}

	return userID, nil
}
