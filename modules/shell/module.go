package shell

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/deymon-d/task-manager-with-tests/modules/task"
	"github.com/go-monolith/mono"
)

// ShellModule runs the interactive menu as a driving adapter of the task module.
// It depends on the task module and talks to it only through task.TaskPort.
type ShellModule struct {
	cfg  Config
	log  *slog.Logger
	port task.TaskPort

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

var _ mono.Module = (*ShellModule)(nil)
var _ mono.DependentModule = (*ShellModule)(nil)

// NewModule creates a ShellModule reading from cfg.In and writing to cfg.Out.
func NewModule(cfg Config, log *slog.Logger) *ShellModule {
	if log == nil {
		log = slog.Default()
	}
	return &ShellModule{
		cfg:  cfg,
		log:  log.With("module", "shell"),
		done: make(chan struct{}),
	}
}

func (m *ShellModule) Name() string {
	return "shell"
}

func (m *ShellModule) Dependencies() []string {
	return []string{"task"}
}

// SetDependencyServiceContainer receives the task module's container and
// wraps it in an adapter.
func (m *ShellModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "task" {
		m.port = task.NewTaskAdapter(container)
	}
}

// Start launches the menu loop in the background. Done is closed once the
// loop ends.
func (m *ShellModule) Start(_ context.Context) error {
	if m.port == nil {
		return errors.New("required dependency 'task' not initialized")
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	sh := New(m.port, m.cfg, m.log)
	go func() {
		defer m.once.Do(func() { close(m.done) })
		if err := sh.Run(ctx); err != nil {
			m.log.Error("shell stopped with error", "error", err)
		}
	}()

	m.log.Debug("module started")
	return nil
}

// Stop cancels the menu loop. A loop blocked on input exits at the next line.
func (m *ShellModule) Stop(_ context.Context) error {
	if m.cancel != nil {
		m.cancel()
	}
	m.log.Debug("module stopped")
	return nil
}

// Done is closed when the user leaves the menu or the input ends.
func (m *ShellModule) Done() <-chan struct{} {
	return m.done
}
