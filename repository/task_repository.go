package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"task-manager/entity"

	"github.com/jmoiron/sqlx"
)

// TaskQuery narrows task listings. All set fields are combined
// conjunctively; time bounds are epoch seconds, already parsed by the
// service layer.
type TaskQuery struct {
	Status      *entity.TaskStatus
	Priority    *entity.TaskPriority
	IsCompleted *bool
	StartFrom   *int64
	EndBefore   *int64
}

// TaskRepository interface defines task data operations
type TaskRepository interface {
	Create(task *entity.Task) (*entity.Task, error)
	GetByID(id int64) (*entity.Task, error)
	List(userID int64, query *TaskQuery) ([]entity.Task, error)
	Update(task *entity.Task) (*entity.Task, error)
	SoftDelete(id int64, now int64) (bool, error)
	Stats(userID int64) (*entity.TaskStats, error)
	Overdue(userID int64, now int64) ([]entity.Task, error)
}

// taskRepository implements TaskRepository interface
type taskRepository struct {
	db *sqlx.DB
}

// NewTaskRepository creates a new task repository instance
func NewTaskRepository(db *sqlx.DB) TaskRepository {
	return &taskRepository{
		db: db,
	}
}

const taskColumns = `id, title, description, user_id, created_at, updated_at, start_task_time, end_task_time, is_completed, is_active, priority, status`

// Create inserts a new task
func (r *taskRepository) Create(task *entity.Task) (*entity.Task, error) {
	query := `
		INSERT INTO tasks (title, description, user_id, created_at, updated_at, start_task_time, end_task_time, is_completed, is_active, priority, status)
		VALUES (:title, :description, :user_id, :created_at, :updated_at, :start_task_time, :end_task_time, :is_completed, :is_active, :priority, :status)
		RETURNING ` + taskColumns

	rows, err := r.db.NamedQuery(query, task)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, fmt.Errorf("failed to get created task")
	}

	var created entity.Task
	if err := rows.StructScan(&created); err != nil {
		return nil, fmt.Errorf("failed to scan created task: %w", err)
	}

	return &created, nil
}

// GetByID retrieves a task by ID regardless of owner or active state;
// ownership and liveness checks belong to the service.
func (r *taskRepository) GetByID(id int64) (*entity.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	var task entity.Task
	err := r.db.Get(&task, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return &task, nil
}

// List retrieves a user's active tasks matching the query, newest first
func (r *taskRepository) List(userID int64, taskQuery *TaskQuery) ([]entity.Task, error) {
	conditions := []string{"user_id = $1", "is_active = TRUE"}
	args := []interface{}{userID}
	argIndex := 2

	if taskQuery != nil {
		if taskQuery.Status != nil {
			conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
			args = append(args, *taskQuery.Status)
			argIndex++
		}
		if taskQuery.Priority != nil {
			conditions = append(conditions, fmt.Sprintf("priority = $%d", argIndex))
			args = append(args, *taskQuery.Priority)
			argIndex++
		}
		if taskQuery.IsCompleted != nil {
			conditions = append(conditions, fmt.Sprintf("is_completed = $%d", argIndex))
			args = append(args, *taskQuery.IsCompleted)
			argIndex++
		}
		if taskQuery.StartFrom != nil {
			conditions = append(conditions, fmt.Sprintf("start_task_time >= $%d", argIndex))
			args = append(args, *taskQuery.StartFrom)
			argIndex++
		}
		if taskQuery.EndBefore != nil {
			conditions = append(conditions, fmt.Sprintf("end_task_time <= $%d", argIndex))
			args = append(args, *taskQuery.EndBefore)
			argIndex++
		}
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM tasks
		WHERE %s
		ORDER BY created_at DESC
	`, taskColumns, strings.Join(conditions, " AND "))

	var tasks []entity.Task
	if err := r.db.Select(&tasks, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// Update persists the full task row
func (r *taskRepository) Update(task *entity.Task) (*entity.Task, error) {
	query := `
		UPDATE tasks
		SET title = :title, description = :description, updated_at = :updated_at,
		    start_task_time = :start_task_time, end_task_time = :end_task_time,
		    is_completed = :is_completed, priority = :priority, status = :status
		WHERE id = :id AND is_active = TRUE
		RETURNING ` + taskColumns

	rows, err := r.db.NamedQuery(query, task)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, fmt.Errorf("task not found")
	}

	var updated entity.Task
	if err := rows.StructScan(&updated); err != nil {
		return nil, fmt.Errorf("failed to scan updated task: %w", err)
	}

	return &updated, nil
}

// SoftDelete marks a task inactive
func (r *taskRepository) SoftDelete(id int64, now int64) (bool, error) {
	query := `UPDATE tasks SET is_active = FALSE, updated_at = $2 WHERE id = $1 AND is_active = TRUE`

	result, err := r.db.Exec(query, id, now)
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// Stats aggregates a user's active tasks per status. The completion
// rate is derived by the service.
func (r *taskRepository) Stats(userID int64) (*entity.TaskStats, error) {
	query := `
		SELECT
			COUNT(*) AS total_tasks,
			COUNT(*) FILTER (WHERE is_completed) AS completed_tasks,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending_tasks,
			COUNT(*) FILTER (WHERE status = 'in_progress') AS in_progress_tasks,
			COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled_tasks
		FROM tasks
		WHERE user_id = $1 AND is_active = TRUE
	`

	var stats struct {
		TotalTasks      int `db:"total_tasks"`
		CompletedTasks  int `db:"completed_tasks"`
		PendingTasks    int `db:"pending_tasks"`
		InProgressTasks int `db:"in_progress_tasks"`
		CancelledTasks  int `db:"cancelled_tasks"`
	}
	if err := r.db.Get(&stats, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get task stats: %w", err)
	}

	return &entity.TaskStats{
		TotalTasks:      stats.TotalTasks,
		CompletedTasks:  stats.CompletedTasks,
		PendingTasks:    stats.PendingTasks,
		InProgressTasks: stats.InProgressTasks,
		CancelledTasks:  stats.CancelledTasks,
	}, nil
}

// Overdue retrieves active, uncompleted tasks past their end time,
// most recently due first.
func (r *taskRepository) Overdue(userID int64, now int64) ([]entity.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1 AND is_active = TRUE AND is_completed = FALSE AND end_task_time < $2
		ORDER BY end_task_time DESC
	`

	var tasks []entity.Task
	if err := r.db.Select(&tasks, query, userID, now); err != nil {
		return nil, fmt.Errorf("failed to list overdue tasks: %w", err)
	}

	return tasks, nil
}
