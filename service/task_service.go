package service

import (
	"context"
	"math"
	"time"

	"task-manager/entity"
	"task-manager/pkg/apperr"
	"task-manager/pkg/logger"
	"task-manager/pkg/timeconv"
	"task-manager/repository"
)

// TaskService interface defines task business operations
type TaskService interface {
	Create(ctx context.Context, userID int64, req *entity.TaskCreateRequest) (*entity.TaskResponse, error)
	GetByID(ctx context.Context, userID int64, taskID int64) (*entity.TaskResponse, error)
	List(ctx context.Context, userID int64, filter *entity.TaskFilter) ([]entity.TaskResponse, error)
	Update(ctx context.Context, userID int64, taskID int64, req *entity.TaskUpdateRequest) (*entity.TaskResponse, error)
	Delete(ctx context.Context, userID int64, taskID int64) error
	Complete(ctx context.Context, userID int64, taskID int64) (*entity.TaskResponse, error)
	Stats(ctx context.Context, userID int64) (*entity.TaskStats, error)
	Overdue(ctx context.Context, userID int64) ([]entity.TaskResponse, error)
	Today(ctx context.Context, userID int64) ([]entity.TaskResponse, error)
}

// taskService implements TaskService interface
type taskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	logger   *logger.Logger
}

// NewTaskService creates a new task service instance
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, logger *logger.Logger) TaskService {
	return &taskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

// Create parses the human-readable task times and stores a new task for
// an active user. Defaults are priority=medium, status=pending.
func (s *taskService) Create(ctx context.Context, userID int64, req *entity.TaskCreateRequest) (*entity.TaskResponse, error) {
	if err := s.requireActiveUser(userID); err != nil {
		return nil, err
	}

	startTime, err := timeconv.ParseHumanTime(req.StartTaskTime)
	if err != nil {
		return nil, apperr.Newf(apperr.Validation, "Invalid start_task_time: %v", err)
	}

	endTime, err := timeconv.ParseHumanTime(req.EndTaskTime)
	if err != nil {
		return nil, apperr.Newf(apperr.Validation, "Invalid end_task_time: %v", err)
	}

	if endTime <= startTime {
		return nil, apperr.New(apperr.Validation, "End time must be after start time")
	}

	priority := entity.PriorityMedium
	if req.Priority != "" {
		priority, err = entity.ParseTaskPriority(req.Priority)
		if err != nil {
			return nil, apperr.New(apperr.Validation, err.Error())
		}
	}

	status := entity.StatusPending
	if req.Status != "" {
		status, err = entity.ParseTaskStatus(req.Status)
		if err != nil {
			return nil, apperr.New(apperr.Validation, err.Error())
		}
	}

	created, err := s.taskRepo.Create(&entity.Task{
		Title:         req.Title,
		Description:   req.Description,
		UserID:        userID,
		CreatedAt:     time.Now().Unix(),
		StartTaskTime: startTime,
		EndTaskTime:   endTime,
		IsCompleted:   false,
		IsActive:      true,
		Priority:      priority,
		Status:        status,
	})
	if err != nil {
		s.logger.Errorw("Failed to create task", "user_id", userID, "error", err)
		return nil, apperr.Wrap(apperr.Internal, "Failed to create task", err)
	}

	s.logger.Infow("Task created", "task_id", created.ID, "user_id", userID)

	return toTaskResponse(created), nil
}

// GetByID retrieves a single task owned by the user
func (s *taskService) GetByID(ctx context.Context, userID int64, taskID int64) (*entity.TaskResponse, error) {
	if err := s.requireActiveUser(userID); err != nil {
		return nil, err
	}

	task, err := s.getOwnedTask(userID, taskID)
	if err != nil {
		return nil, err
	}

	return toTaskResponse(task), nil
}

// List retrieves the user's active tasks matching the filter
func (s *taskService) List(ctx context.Context, userID int64, filter *entity.TaskFilter) ([]entity.TaskResponse, error) {
	if err := s.requireActiveUser(userID); err != nil {
		return nil, err
	}

	query, err := buildTaskQuery(filter)
	if err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.List(userID, query)
	if err != nil {
		s.logger.Errorw("Failed to list tasks", "user_id", userID, "error", err)
		return nil, apperr.Wrap(apperr.Internal, "Failed to list tasks", err)
	}

	return toTaskResponses(tasks), nil
}

// Update applies a partial task update. New times are merged with the
// stored ones and the window is revalidated; status is applied before
// is_completed so an explicit is_completed=true always wins and forces
// status=completed.
func (s *taskService) Update(ctx context.Context, userID int64, taskID int64, req *entity.TaskUpdateRequest) (*entity.TaskResponse, error) {
	if err := s.requireActiveUser(userID); err != nil {
		return nil, err
	}

	task, err := s.getOwnedTask(userID, taskID)
	if err != nil {
		return nil, err
	}

	startTime := task.StartTaskTime
	if req.StartTaskTime != nil {
		startTime, err = timeconv.ParseHumanTime(*req.StartTaskTime)
		if err != nil {
			return nil, apperr.Newf(apperr.Validation, "Invalid start_task_time: %v", err)
		}
	}

	endTime := task.EndTaskTime
	if req.EndTaskTime != nil {
		endTime, err = timeconv.ParseHumanTime(*req.EndTaskTime)
		if err != nil {
			return nil, apperr.Newf(apperr.Validation, "Invalid end_task_time: %v", err)
		}
	}

	if endTime <= startTime {
		return nil, apperr.New(apperr.Validation, "End time must be after start time")
	}
	task.StartTaskTime = startTime
	task.EndTaskTime = endTime

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Priority != nil {
		priority, err := entity.ParseTaskPriority(*req.Priority)
		if err != nil {
			return nil, apperr.New(apperr.Validation, err.Error())
		}
		task.Priority = priority
	}

	if req.Status != nil {
		status, err := entity.ParseTaskStatus(*req.Status)
		if err != nil {
			return nil, apperr.New(apperr.Validation, err.Error())
		}
		task.Status = status
		task.IsCompleted = status == entity.StatusCompleted
	}
	if req.IsCompleted != nil {
		task.IsCompleted = *req.IsCompleted
		if *req.IsCompleted {
			task.Status = entity.StatusCompleted
		}
	}

	now := time.Now().Unix()
	task.UpdatedAt = &now

	updated, err := s.taskRepo.Update(task)
	if err != nil {
		s.logger.Errorw("Failed to update task", "task_id", taskID, "error", err)
		return nil, apperr.Wrap(apperr.Internal, "Failed to update task", err)
	}

	s.logger.Infow("Task updated", "task_id", updated.ID, "user_id", userID)

	return toTaskResponse(updated), nil
}

// Delete soft-deletes a task owned by the user
func (s *taskService) Delete(ctx context.Context, userID int64, taskID int64) error {
	if err := s.requireActiveUser(userID); err != nil {
		return err
	}

	if _, err := s.getOwnedTask(userID, taskID); err != nil {
		return err
	}

	deleted, err := s.taskRepo.SoftDelete(taskID, time.Now().Unix())
	if err != nil {
		s.logger.Errorw("Failed to delete task", "task_id", taskID, "error", err)
		return apperr.Wrap(apperr.Internal, "Failed to delete task", err)
	}
	if !deleted {
		return apperr.New(apperr.NotFound, "Task not found")
	}

	s.logger.Infow("Task deleted", "task_id", taskID, "user_id", userID)
	return nil
}

// Complete marks a task completed
func (s *taskService) Complete(ctx context.Context, userID int64, taskID int64) (*entity.TaskResponse, error) {
	completed := true
	status := string(entity.StatusCompleted)

	return s.Update(ctx, userID, taskID, &entity.TaskUpdateRequest{
		Status:      &status,
		IsCompleted: &completed,
	})
}

// Stats aggregates the user's active tasks and derives the completion
// rate as a percentage rounded to two decimals, 0.0 when there are no
// tasks.
func (s *taskService) Stats(ctx context.Context, userID int64) (*entity.TaskStats, error) {
	if err := s.requireActiveUser(userID); err != nil {
		return nil, err
	}

	stats, err := s.taskRepo.Stats(userID)
	if err != nil {
		s.logger.Errorw("Failed to get task stats", "user_id", userID, "error", err)
		return nil, apperr.Wrap(apperr.Internal, "Failed to get task statistics", err)
	}

	if stats.TotalTasks > 0 {
		rate := float64(stats.CompletedTasks) / float64(stats.TotalTasks) * 100
		stats.CompletionRate = math.Round(rate*100) / 100
	}

	return stats, nil
}

// Overdue retrieves active, uncompleted tasks whose end time has passed
func (s *taskService) Overdue(ctx context.Context, userID int64) ([]entity.TaskResponse, error) {
	if err := s.requireActiveUser(userID); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.Overdue(userID, time.Now().Unix())
	if err != nil {
		s.logger.Errorw("Failed to list overdue tasks", "user_id", userID, "error", err)
		return nil, apperr.Wrap(apperr.Internal, "Failed to list overdue tasks", err)
	}

	return toTaskResponses(tasks), nil
}

// Today retrieves tasks whose window falls within the current local
// day. Unlike the list filter, whose end_date is a plain upper bound,
// the shortcut's end bound is the last second of the day: with a
// midnight bound no task window could ever qualify.
func (s *taskService) Today(ctx context.Context, userID int64) ([]entity.TaskResponse, error) {
	if err := s.requireActiveUser(userID); err != nil {
		return nil, err
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local).Unix()
	dayEnd := dayStart + 24*60*60 - 1

	tasks, err := s.taskRepo.List(userID, &repository.TaskQuery{
		StartFrom: &dayStart,
		EndBefore: &dayEnd,
	})
	if err != nil {
		s.logger.Errorw("Failed to list today's tasks", "user_id", userID, "error", err)
		return nil, apperr.Wrap(apperr.Internal, "Failed to list tasks", err)
	}

	return toTaskResponses(tasks), nil
}

// requireActiveUser rejects operations for unknown or soft-deleted users
func (s *taskService) requireActiveUser(userID int64) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		s.logger.Errorw("Failed to check task owner", "user_id", userID, "error", err)
		return apperr.Wrap(apperr.Internal, "Failed to verify user", err)
	}
	if user == nil {
		return apperr.New(apperr.NotFound, "User not found")
	}

	return nil
}

// getOwnedTask retrieves a task and hides it behind NotFound unless it
// is active and owned by the user.
func (s *taskService) getOwnedTask(userID int64, taskID int64) (*entity.Task, error) {
	task, err := s.taskRepo.GetByID(taskID)
	if err != nil {
		s.logger.Errorw("Failed to get task", "task_id", taskID, "error", err)
		return nil, apperr.Wrap(apperr.Internal, "Failed to get task", err)
	}
	if task == nil || !task.IsActive || task.UserID != userID {
		return nil, apperr.New(apperr.NotFound, "Task not found")
	}

	return task, nil
}

// buildTaskQuery converts an HTTP-level filter into repository terms.
// Date bounds are the parsed values as-is, so a bare end_date is a
// midnight bound.
func buildTaskQuery(filter *entity.TaskFilter) (*repository.TaskQuery, error) {
	if filter == nil || filter.IsZero() {
		return nil, nil
	}

	query := &repository.TaskQuery{IsCompleted: filter.IsCompleted}

	if filter.Status != "" {
		status, err := entity.ParseTaskStatus(filter.Status)
		if err != nil {
			return nil, apperr.New(apperr.Validation, err.Error())
		}
		query.Status = &status
	}
	if filter.Priority != "" {
		priority, err := entity.ParseTaskPriority(filter.Priority)
		if err != nil {
			return nil, apperr.New(apperr.Validation, err.Error())
		}
		query.Priority = &priority
	}
	if filter.StartDate != "" {
		startFrom, err := timeconv.ParseHumanTime(filter.StartDate)
		if err != nil {
			return nil, apperr.Newf(apperr.Validation, "Invalid start_date: %v", err)
		}
		query.StartFrom = &startFrom
	}
	if filter.EndDate != "" {
		endBefore, err := timeconv.ParseHumanTime(filter.EndDate)
		if err != nil {
			return nil, apperr.Newf(apperr.Validation, "Invalid end_date: %v", err)
		}
		query.EndBefore = &endBefore
	}

	return query, nil
}

func toTaskResponse(task *entity.Task) *entity.TaskResponse {
	return &entity.TaskResponse{
		ID:                 task.ID,
		Title:              task.Title,
		Description:        task.Description,
		UserID:             task.UserID,
		CreatedAt:          task.CreatedAt,
		UpdatedAt:          task.UpdatedAt,
		StartTaskTime:      task.StartTaskTime,
		EndTaskTime:        task.EndTaskTime,
		StartTaskTimeHuman: timeconv.FormatEpoch(task.StartTaskTime),
		EndTaskTimeHuman:   timeconv.FormatEpoch(task.EndTaskTime),
		IsCompleted:        task.IsCompleted,
		IsActive:           task.IsActive,
		Priority:           task.Priority,
		Status:             task.Status,
	}
}

func toTaskResponses(tasks []entity.Task) []entity.TaskResponse {
	responses := make([]entity.TaskResponse, 0, len(tasks))
	for i := range tasks {
		responses = append(responses, *toTaskResponse(&tasks[i]))
	}

	return responses
}
