package task

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// taskAdapter wraps ServiceContainer for type-safe cross-module communication.
type taskAdapter struct {
	container mono.ServiceContainer
}

// NewTaskAdapter creates a new adapter for task services.
// container is the ServiceContainer from the task module received via SetDependencyServiceContainer.
func NewTaskAdapter(container mono.ServiceContainer) TaskPort {
	if container == nil {
		panic("task adapter requires non-nil ServiceContainer")
	}
	return &taskAdapter{container: container}
}

// CreateTask creates a new task via the create-task service.
func (a *taskAdapter) CreateTask(ctx context.Context, req *CreateTaskRequest) (*TaskResponse, error) {
	var resp TaskResponse
	if err := call(ctx, a.container, "create-task", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListTasks lists every task, newest first.
func (a *taskAdapter) ListTasks(ctx context.Context) (*ListTasksResponse, error) {
	var resp ListTasksResponse
	if err := call(ctx, a.container, "list-tasks", &ListTasksRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListPendingTasks lists the open tasks in ID order.
func (a *taskAdapter) ListPendingTasks(ctx context.Context) (*ListTasksResponse, error) {
	var resp ListTasksResponse
	if err := call(ctx, a.container, "list-tasks", &ListTasksRequest{PendingOnly: true}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetTask retrieves a task by ID via the get-task service.
func (a *taskAdapter) GetTask(ctx context.Context, taskID int64) (*TaskResponse, bool, error) {
	return lookup(ctx, a.container, "get-task", &GetTaskRequest{TaskID: taskID})
}

// CompleteTask marks a task as completed via the complete-task service.
func (a *taskAdapter) CompleteTask(ctx context.Context, taskID int64) (*TaskResponse, bool, error) {
	return lookup(ctx, a.container, "complete-task", &CompleteTaskRequest{TaskID: taskID})
}

// DeleteTask deletes a task via the delete-task service and returns its last state.
func (a *taskAdapter) DeleteTask(ctx context.Context, taskID int64) (*TaskResponse, bool, error) {
	return lookup(ctx, a.container, "delete-task", &DeleteTaskRequest{TaskID: taskID})
}

// Stats fetches completion counters via the task-stats service.
func (a *taskAdapter) Stats(ctx context.Context) (*StatsResponse, error) {
	var resp StatsResponse
	if err := call(ctx, a.container, "task-stats", &StatsRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func lookup[Req any](ctx context.Context, container mono.ServiceContainer, service string, req *Req) (*TaskResponse, bool, error) {
	var resp LookupTaskResponse
	if err := call(ctx, container, service, req, &resp); err != nil {
		return nil, false, err
	}
	if !resp.Found || resp.Task == nil {
		return nil, false, nil
	}
	return resp.Task, true, nil
}

func call[Req, Resp any](ctx context.Context, container mono.ServiceContainer, service string, req *Req, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return fmt.Errorf("%s service call failed: %w", service, err)
	}
	return nil
}
