package activity

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/deymon-d/task-manager-with-tests/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// DefaultHistorySize is the number of entries kept when none is configured.
const DefaultHistorySize = 100

// Kind identifies a task lifecycle change.
type Kind string

const (
	KindCreated   Kind = "task_created"
	KindCompleted Kind = "task_completed"
	KindDeleted   Kind = "task_deleted"
)

// Entry is a single journal record.
type Entry struct {
	TaskID  int64     `json:"task_id"`
	Kind    Kind      `json:"kind"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// ActivityModule keeps a journal of task lifecycle events.
// It subscribes to task events using the EventConsumerModule interface.
type ActivityModule struct {
	log  *slog.Logger
	size int

	mu      sync.RWMutex
	entries []Entry
}

var _ mono.Module = (*ActivityModule)(nil)
var _ mono.EventConsumerModule = (*ActivityModule)(nil)

// NewModule creates an ActivityModule that keeps at most size entries.
func NewModule(size int, log *slog.Logger) *ActivityModule {
	if size <= 0 {
		size = DefaultHistorySize
	}
	if log == nil {
		log = slog.Default()
	}
	return &ActivityModule{
		log:     log.With("module", "activity"),
		size:    size,
		entries: make([]Entry, 0, size),
	}
}

func (m *ActivityModule) Name() string {
	return "activity"
}

func (m *ActivityModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCreatedV1, m.handleTaskCreated, m); err != nil {
		return fmt.Errorf("failed to register TaskCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCompletedV1, m.handleTaskCompleted, m); err != nil {
		return fmt.Errorf("failed to register TaskCompleted consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskDeletedV1, m.handleTaskDeleted, m); err != nil {
		return fmt.Errorf("failed to register TaskDeleted consumer: %w", err)
	}

	m.log.Debug("registered event consumers", "events", "TaskCreated, TaskCompleted, TaskDeleted")
	return nil
}

func (m *ActivityModule) handleTaskCreated(_ context.Context, event events.TaskCreatedEvent, _ *mono.Msg) error {
	m.log.Info("task created", "task_id", event.TaskID, "title", event.Title)
	m.record(event.TaskID, KindCreated, fmt.Sprintf("Task '%s' created", event.Title), event.CreatedAt)
	return nil
}

func (m *ActivityModule) handleTaskCompleted(_ context.Context, event events.TaskCompletedEvent, _ *mono.Msg) error {
	m.log.Info("task completed", "task_id", event.TaskID, "title", event.Title)
	m.record(event.TaskID, KindCompleted, fmt.Sprintf("Task '%s' completed", event.Title), event.CompletedAt)
	return nil
}

func (m *ActivityModule) handleTaskDeleted(_ context.Context, event events.TaskDeletedEvent, _ *mono.Msg) error {
	m.log.Info("task deleted", "task_id", event.TaskID, "title", event.Title, "completed", event.Completed)
	m.record(event.TaskID, KindDeleted, fmt.Sprintf("Task '%s' deleted", event.Title), event.DeletedAt)
	return nil
}

// record appends an entry, dropping the oldest one once the journal is full.
func (m *ActivityModule) record(taskID int64, kind Kind, message string, at time.Time) {
	if at.IsZero() {
		at = time.Now()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.entries) == m.size {
		copy(m.entries, m.entries[1:])
		m.entries = m.entries[:len(m.entries)-1]
	}
	m.entries = append(m.entries, Entry{
		TaskID:  taskID,
		Kind:    kind,
		Message: message,
		At:      at,
	})
}

// Recent returns a copy of the journal, oldest entry first.
func (m *ActivityModule) Recent() []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Entry, len(m.entries))
	copy(result, m.entries)
	return result
}

func (m *ActivityModule) Start(_ context.Context) error {
	m.log.Debug("module started - listening for task events")
	return nil
}

func (m *ActivityModule) Stop(_ context.Context) error {
	m.log.Debug("module stopped", "entries", len(m.Recent()))
	return nil
}
