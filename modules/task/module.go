package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/deymon-d/task-manager-with-tests/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TaskModule owns the task store and exposes it as request-reply services.
type TaskModule struct {
	cfg      StoreConfig
	store    *Store
	closed   atomic.Bool
	eventBus mono.EventBus
	log      *slog.Logger
}

// Compile-time interface checks.
var _ mono.Module = (*TaskModule)(nil)
var _ mono.ServiceProviderModule = (*TaskModule)(nil)
var _ mono.EventEmitterModule = (*TaskModule)(nil)
var _ mono.HealthCheckableModule = (*TaskModule)(nil)

// NewModule creates a new TaskModule. The store is opened on Start.
func NewModule(cfg StoreConfig, log *slog.Logger) *TaskModule {
	if log == nil {
		log = slog.Default()
	}
	return &TaskModule{
		cfg: cfg,
		log: log.With("module", "task"),
	}
}

// Name returns the module name.
func (m *TaskModule) Name() string {
	return "task"
}

// SetEventBus receives the framework event bus.
func (m *TaskModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events published by this module.
func (m *TaskModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskCreatedV1.ToBase(),
		events.TaskCompletedV1.ToBase(),
		events.TaskDeletedV1.ToBase(),
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *TaskModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "create-task", json.Unmarshal, json.Marshal, m.createTask,
	); err != nil {
		return fmt.Errorf("failed to register create-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-tasks", json.Unmarshal, json.Marshal, m.listTasks,
	); err != nil {
		return fmt.Errorf("failed to register list-tasks service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-task", json.Unmarshal, json.Marshal, m.getTask,
	); err != nil {
		return fmt.Errorf("failed to register get-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "complete-task", json.Unmarshal, json.Marshal, m.completeTask,
	); err != nil {
		return fmt.Errorf("failed to register complete-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete-task", json.Unmarshal, json.Marshal, m.deleteTask,
	); err != nil {
		return fmt.Errorf("failed to register delete-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "task-stats", json.Unmarshal, json.Marshal, m.taskStats,
	); err != nil {
		return fmt.Errorf("failed to register task-stats service: %w", err)
	}

	m.log.Debug("registered services",
		"services", "create-task, list-tasks, get-task, complete-task, delete-task, task-stats")
	return nil
}

// Start opens the task store.
func (m *TaskModule) Start(_ context.Context) error {
	store, err := OpenStore(m.cfg, m.log)
	if err != nil {
		return fmt.Errorf("failed to open task store: %w", err)
	}
	m.store = store
	m.closed.Store(false)

	if m.eventBus == nil {
		m.log.Warn("eventBus not set, events will not be published")
	}
	m.log.Info("module started", "database", m.cfg.Path)
	return nil
}

// Stop closes the task store. Calling Stop again is a no-op. Requests that
// arrive after Stop fail with ErrStorageUnavailable.
func (m *TaskModule) Stop(_ context.Context) error {
	if m.store == nil || !m.closed.CompareAndSwap(false, true) {
		return nil
	}

	if err := m.store.Close(); err != nil {
		return fmt.Errorf("failed to close task store: %w", err)
	}

	m.log.Info("module stopped")
	return nil
}

// Health performs a health check on the task module.
func (m *TaskModule) Health(ctx context.Context) mono.HealthStatus {
	if m.store == nil || m.closed.Load() {
		return mono.HealthStatus{
			Healthy: false,
			Message: "store not open",
		}
	}

	if err := m.store.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver": "sqlite",
			"path":   m.store.Path(),
		},
	}
}
