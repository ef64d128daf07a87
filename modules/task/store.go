package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domain "github.com/deymon-d/task-manager-with-tests/domain/task"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrStorageUnavailable wraps every failure of the underlying database file
// (open, read or write). Callers treat it as fatal for the current operation.
var ErrStorageUnavailable = errors.New("task storage unavailable")

// StoreConfig configures the SQLite-backed store.
type StoreConfig struct {
	// Path of the database file. ":memory:" is accepted for throwaway stores.
	Path string
	// Debug enables SQL tracing through the logger at debug level.
	Debug bool
}

// Stats holds task completion counters.
type Stats struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Pending   int64 `json:"pending"`
}

// CompletionRate returns the completed share as a percentage, or 0 when
// there are no tasks.
func (s Stats) CompletionRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Total) * 100
}

// Store persists tasks in a single SQLite table and exclusively owns the
// connection to the database file.
type Store struct {
	db   *gorm.DB
	path string
	log  *slog.Logger
}

// OpenStore opens (creating when missing) the database file and makes sure the
// tasks table exists.
func OpenStore(cfg StoreConfig, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}

	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}
	gormLogger := logger.New(
		slog.NewLogLogger(log.Handler(), slog.LevelDebug),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn(cfg.Path)), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, storageError("open database", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, storageError("get sql.DB", err)
	}
	// one connection for the lifetime of the store
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		sqlDB.Close()
		return nil, storageError("create tasks table", err)
	}

	log.Debug("task store opened", "path", cfg.Path)
	return &Store{db: db, path: cfg.Path, log: log}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Create inserts a new open task and returns it with its assigned ID.
func (s *Store) Create(title, description string, due *time.Time) (domain.Task, error) {
	t := domain.Task{
		Title:       title,
		Description: description,
		DueDate:     due,
	}
	if err := s.db.Create(&t).Error; err != nil {
		return domain.Task{}, storageError("create task", err)
	}
	return t, nil
}

// ListAll returns every task, most recently created first.
func (s *Store) ListAll() ([]domain.Task, error) {
	var tasks []domain.Task
	if err := s.db.Order("created_at DESC").Order("id DESC").Find(&tasks).Error; err != nil {
		return nil, storageError("list tasks", err)
	}
	return tasks, nil
}

// Get returns the task with the given ID. found is false when no such row
// exists.
func (s *Store) Get(id int64) (t domain.Task, found bool, err error) {
	if err := s.db.First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Task{}, false, nil
		}
		return domain.Task{}, false, storageError("get task", err)
	}
	return t, true, nil
}

// Complete marks the task as completed. Nothing is written when the task does
// not exist or is already completed.
func (s *Store) Complete(id int64) (domain.Task, bool, error) {
	t, found, _, err := s.complete(id)
	return t, found, err
}

// complete is Complete that also reports whether the row changed.
func (s *Store) complete(id int64) (t domain.Task, found, changed bool, err error) {
	t, found, err = s.Get(id)
	if err != nil || !found {
		return t, found, false, err
	}
	if t.Completed {
		return t, true, false, nil
	}

	if err := s.db.Model(&domain.Task{}).Where("id = ?", t.ID).Update("completed", true).Error; err != nil {
		return domain.Task{}, false, false, storageError("complete task", err)
	}
	t.Completed = true
	return t, true, true, nil
}

// Delete permanently removes the task and returns the value it had before
// removal. Nothing is written when the task does not exist.
func (s *Store) Delete(id int64) (domain.Task, bool, error) {
	t, found, err := s.Get(id)
	if err != nil || !found {
		return t, found, err
	}

	if err := s.db.Delete(&domain.Task{}, t.ID).Error; err != nil {
		return domain.Task{}, false, storageError("delete task", err)
	}
	return t, true, nil
}

// ListPending returns the tasks that are not completed, in ID order.
func (s *Store) ListPending() ([]domain.Task, error) {
	var tasks []domain.Task
	if err := s.db.Where("completed = ?", false).Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, storageError("list pending tasks", err)
	}
	return tasks, nil
}

// Stats counts all and completed tasks.
func (s *Store) Stats() (Stats, error) {
	var st Stats
	if err := s.db.Model(&domain.Task{}).Count(&st.Total).Error; err != nil {
		return Stats{}, storageError("count tasks", err)
	}
	if err := s.db.Model(&domain.Task{}).Where("completed = ?", true).Count(&st.Completed).Error; err != nil {
		return Stats{}, storageError("count completed tasks", err)
	}
	st.Pending = st.Total - st.Completed
	return st, nil
}

// Ping checks that the database file is still reachable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return storageError("get sql.DB", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return storageError("ping database", err)
	}
	return nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return storageError("get sql.DB", err)
	}
	if err := sqlDB.Close(); err != nil {
		return storageError("close database", err)
	}
	s.log.Debug("task store closed", "path", s.path)
	return nil
}

func storageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}

// dsn asks the driver to return timestamps in local time.
func dsn(path string) string {
	if path == ":memory:" {
		return path
	}
	return path + "?_loc=auto"
}
