package task

import (
	"context"
	"time"
)

// CreateTaskRequest is the request for creating a task.
type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// GetTaskRequest is the request for getting a task.
type GetTaskRequest struct {
	TaskID int64 `json:"task_id"`
}

// CompleteTaskRequest is the request for completing a task.
type CompleteTaskRequest struct {
	TaskID int64 `json:"task_id"`
}

// DeleteTaskRequest is the request for deleting a task.
type DeleteTaskRequest struct {
	TaskID int64 `json:"task_id"`
}

// ListTasksRequest is the request for listing tasks. PendingOnly restricts
// the result to open tasks in ID order; otherwise every task is returned,
// newest first.
type ListTasksRequest struct {
	PendingOnly bool `json:"pending_only,omitempty"`
}

// ListTasksResponse is the response for listing tasks.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

// LookupTaskResponse carries the result of an operation addressed by ID.
// Found is false, and Task nil, when no task has that ID.
type LookupTaskResponse struct {
	Found bool          `json:"found"`
	Task  *TaskResponse `json:"task,omitempty"`
}

// StatsRequest is the request for task statistics.
type StatsRequest struct{}

// StatsResponse is the response with task statistics.
type StatsResponse struct {
	Total          int64   `json:"total"`
	Completed      int64   `json:"completed"`
	Pending        int64   `json:"pending"`
	CompletionRate float64 `json:"completion_rate"`
}

// TaskResponse is the response for a single task.
type TaskResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// TaskPort defines the task operations available to driving adapters such
// as the interactive shell. Lookups report absence through found instead of
// an error.
type TaskPort interface {
	CreateTask(ctx context.Context, req *CreateTaskRequest) (*TaskResponse, error)
	ListTasks(ctx context.Context) (*ListTasksResponse, error)
	ListPendingTasks(ctx context.Context) (*ListTasksResponse, error)
	GetTask(ctx context.Context, taskID int64) (task *TaskResponse, found bool, err error)
	CompleteTask(ctx context.Context, taskID int64) (task *TaskResponse, found bool, err error)
	DeleteTask(ctx context.Context, taskID int64) (task *TaskResponse, found bool, err error)
	Stats(ctx context.Context) (*StatsResponse, error)
}
