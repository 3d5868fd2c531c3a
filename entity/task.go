package entity

import "fmt"

// TaskPriority is the closed set of task priorities.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// ParseTaskPriority normalizes and validates a priority string.
func ParseTaskPriority(value string) (TaskPriority, error) {
	switch TaskPriority(value) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return TaskPriority(value), nil
	}
	return "", fmt.Errorf("priority must be one of: low, medium, high")
}

// TaskStatus is the closed set of task statuses.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusCancelled  TaskStatus = "cancelled"
)

// ParseTaskStatus normalizes and validates a status string.
func ParseTaskStatus(value string) (TaskStatus, error) {
	switch TaskStatus(value) {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return TaskStatus(value), nil
	}
	return "", fmt.Errorf("status must be one of: pending, in_progress, completed, cancelled")
}

// Task represents a scheduled unit of work owned by a user. Task times
// are epoch seconds with end strictly after start; deletion is soft.
type Task struct {
	ID            int64        `db:"id" json:"id"`
	Title         string       `db:"title" json:"title"`
	Description   string       `db:"description" json:"description"`
	UserID        int64        `db:"user_id" json:"user_id"`
	CreatedAt     int64        `db:"created_at" json:"created_at"`
	UpdatedAt     *int64       `db:"updated_at" json:"updated_at"`
	StartTaskTime int64        `db:"start_task_time" json:"start_task_time"`
	EndTaskTime   int64        `db:"end_task_time" json:"end_task_time"`
	IsCompleted   bool         `db:"is_completed" json:"is_completed"`
	IsActive      bool         `db:"is_active" json:"is_active"`
	Priority      TaskPriority `db:"priority" json:"priority"`
	Status        TaskStatus   `db:"status" json:"status"`
}

// TableName returns the table name for the Task entity
func (Task) TableName() string {
	return "tasks"
}

// TaskCreateRequest represents the request to create a task. Times are
// human-readable strings converted to epoch seconds by the service.
type TaskCreateRequest struct {
	Title         string `json:"title" validate:"required"`
	Description   string `json:"description" validate:"required"`
	StartTaskTime string `json:"start_task_time" validate:"required"`
	EndTaskTime   string `json:"end_task_time" validate:"required"`
	Priority      string `json:"priority" validate:"omitempty,task_priority"`
	Status        string `json:"status" validate:"omitempty,task_status"`
}

// TaskUpdateRequest represents a partial task update. Nil fields are
// left untouched.
type TaskUpdateRequest struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	StartTaskTime *string `json:"start_task_time"`
	EndTaskTime   *string `json:"end_task_time"`
	Priority      *string `json:"priority" validate:"omitempty,task_priority"`
	Status        *string `json:"status" validate:"omitempty,task_status"`
	IsCompleted   *bool   `json:"is_completed"`
}

// TaskFilter narrows task listings. All present fields are combined
// conjunctively; dates are human-readable strings.
type TaskFilter struct {
	Status      string `json:"status" query:"status" validate:"omitempty,task_status"`
	Priority    string `json:"priority" query:"priority" validate:"omitempty,task_priority"`
	IsCompleted *bool  `json:"is_completed" query:"is_completed"`
	StartDate   string `json:"start_date" query:"start_date"`
	EndDate     string `json:"end_date" query:"end_date"`
}

// IsZero reports whether no filter criteria are set.
func (f TaskFilter) IsZero() bool {
	return f.Status == "" && f.Priority == "" && f.IsCompleted == nil && f.StartDate == "" && f.EndDate == ""
}

// TaskResponse represents a task with derived human-readable times.
type TaskResponse struct {
	ID                 int64        `json:"id"`
	Title              string       `json:"title"`
	Description        string       `json:"description"`
	UserID             int64        `json:"user_id"`
	CreatedAt          int64        `json:"created_at"`
	UpdatedAt          *int64       `json:"updated_at"`
	StartTaskTime      int64        `json:"start_task_time"`
	EndTaskTime        int64        `json:"end_task_time"`
	StartTaskTimeHuman string       `json:"start_task_time_human"`
	EndTaskTimeHuman   string       `json:"end_task_time_human"`
	IsCompleted        bool         `json:"is_completed"`
	IsActive           bool         `json:"is_active"`
	Priority           TaskPriority `json:"priority"`
	Status             TaskStatus   `json:"status"`
}

// TaskStats aggregates a user's active tasks.
type TaskStats struct {
	TotalTasks      int     `json:"total_tasks"`
	CompletedTasks  int     `json:"completed_tasks"`
	PendingTasks    int     `json:"pending_tasks"`
	InProgressTasks int     `json:"in_progress_tasks"`
	CancelledTasks  int     `json:"cancelled_tasks"`
	CompletionRate  float64 `json:"completion_rate"`
}
