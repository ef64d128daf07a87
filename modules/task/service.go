package task

import (
	"context"
	"fmt"
	"time"

	domain "github.com/deymon-d/task-manager-with-tests/domain/task"
	"github.com/deymon-d/task-manager-with-tests/events"
	"github.com/go-monolith/mono"
)

// createTask handles the create-task service request.
// Input is stored as given; the shell validates titles and lengths.
func (m *TaskModule) createTask(_ context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.store.Create(req.Title, req.Description, req.DueDate)
	if err != nil {
		m.log.Error("failed to create task", "error", err)
		return TaskResponse{}, err
	}
	m.log.Debug("task created", "task_id", t.ID)

	if m.eventBus != nil {
		event := events.TaskCreatedEvent{
			TaskID:    t.ID,
			Title:     t.Title,
			DueDate:   t.DueDate,
			CreatedAt: t.CreatedAt,
		}
		if err := events.TaskCreatedV1.Publish(m.eventBus, event, nil); err != nil {
			m.log.Warn("failed to publish TaskCreated event", "task_id", t.ID, "error", err)
		}
	}

	return toTaskResponse(t), nil
}

// listTasks handles the list-tasks service request.
func (m *TaskModule) listTasks(_ context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	var (
		tasks []domain.Task
		err   error
	)
	if req.PendingOnly {
		tasks, err = m.store.ListPending()
	} else {
		tasks, err = m.store.ListAll()
	}
	if err != nil {
		m.log.Error("failed to list tasks", "pending_only", req.PendingOnly, "error", err)
		return ListTasksResponse{}, err
	}

	response := ListTasksResponse{
		Tasks: make([]TaskResponse, 0, len(tasks)),
		Total: len(tasks),
	}
	for _, t := range tasks {
		response.Tasks = append(response.Tasks, toTaskResponse(t))
	}
	return response, nil
}

// getTask handles the get-task service request.
func (m *TaskModule) getTask(_ context.Context, req GetTaskRequest, _ *mono.Msg) (LookupTaskResponse, error) {
	t, found, err := m.store.Get(req.TaskID)
	if err != nil {
		m.log.Error("failed to get task", "task_id", req.TaskID, "error", err)
		return LookupTaskResponse{}, err
	}
	return toLookupResponse(t, found), nil
}

// completeTask handles the complete-task service request.
func (m *TaskModule) completeTask(_ context.Context, req CompleteTaskRequest, _ *mono.Msg) (LookupTaskResponse, error) {
	t, found, changed, err := m.store.complete(req.TaskID)
	if err != nil {
		m.log.Error("failed to complete task", "task_id", req.TaskID, "error", err)
		return LookupTaskResponse{}, err
	}

	if changed && m.eventBus != nil {
		event := events.TaskCompletedEvent{
			TaskID:      t.ID,
			Title:       t.Title,
			CompletedAt: time.Now(),
		}
		if err := events.TaskCompletedV1.Publish(m.eventBus, event, nil); err != nil {
			m.log.Warn("failed to publish TaskCompleted event", "task_id", t.ID, "error", err)
		}
	}

	return toLookupResponse(t, found), nil
}

// deleteTask handles the delete-task service request.
func (m *TaskModule) deleteTask(_ context.Context, req DeleteTaskRequest, _ *mono.Msg) (LookupTaskResponse, error) {
	t, found, err := m.store.Delete(req.TaskID)
	if err != nil {
		m.log.Error("failed to delete task", "task_id", req.TaskID, "error", err)
		return LookupTaskResponse{}, err
	}

	if found && m.eventBus != nil {
		event := events.TaskDeletedEvent{
			TaskID:    t.ID,
			Title:     t.Title,
			Completed: t.Completed,
			DeletedAt: time.Now(),
		}
		if err := events.TaskDeletedV1.Publish(m.eventBus, event, nil); err != nil {
			m.log.Warn("failed to publish TaskDeleted event", "task_id", t.ID, "error", err)
		}
	}

	return toLookupResponse(t, found), nil
}

// taskStats handles the task-stats service request.
func (m *TaskModule) taskStats(_ context.Context, _ StatsRequest, _ *mono.Msg) (StatsResponse, error) {
	st, err := m.store.Stats()
	if err != nil {
		m.log.Error("failed to compute stats", "error", err)
		return StatsResponse{}, fmt.Errorf("failed to compute stats: %w", err)
	}
	return StatsResponse{
		Total:          st.Total,
		Completed:      st.Completed,
		Pending:        st.Pending,
		CompletionRate: st.CompletionRate(),
	}, nil
}

// toTaskResponse converts a domain Task to a TaskResponse.
func toTaskResponse(t domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		DueDate:     t.DueDate,
	}
}

func toLookupResponse(t domain.Task, found bool) LookupTaskResponse {
	if !found {
		return LookupTaskResponse{Found: false}
	}
	resp := toTaskResponse(t)
	return LookupTaskResponse{Found: true, Task: &resp}
}
