package task

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupTestStore opens a store backed by a file in a temporary directory.
func setupTestStore(t *testing.T) (*Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tasks.db")
	store, err := OpenStore(StoreConfig{Path: path}, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store, path
}

func TestStore_Create(t *testing.T) {
	store, _ := setupTestStore(t)

	before := time.Now()
	task, err := store.Create("Test task", "Test description", nil)
	require.NoError(t, err)

	assert.Equal(t, int64(1), task.ID)
	assert.Equal(t, "Test task", task.Title)
	assert.Equal(t, "Test description", task.Description)
	assert.False(t, task.Completed)
	assert.Nil(t, task.DueDate)
	assert.WithinDuration(t, before, task.CreatedAt, 5*time.Second)
}

func TestStore_CreateDefaults(t *testing.T) {
	store, _ := setupTestStore(t)

	created, err := store.Create("T", "", nil)
	require.NoError(t, err)

	got, found, err := store.Get(created.ID)
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, "T", got.Title)
	assert.Empty(t, got.Description)
	assert.False(t, got.Completed)
	assert.Nil(t, got.DueDate)
	assert.WithinDuration(t, created.CreatedAt, got.CreatedAt, time.Millisecond)
}

func TestStore_CreateWithDueDate(t *testing.T) {
	store, _ := setupTestStore(t)

	due := time.Date(2026, time.December, 31, 0, 0, 0, 0, time.Local)
	created, err := store.Create("Year end", "", &due)
	require.NoError(t, err)

	got, found, err := store.Get(created.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.NotNil(t, got.DueDate)
	assert.True(t, due.Equal(*got.DueDate), "due date %v, got %v", due, *got.DueDate)
}

func TestStore_CreateDoesNotValidateTitle(t *testing.T) {
	store, _ := setupTestStore(t)

	task, err := store.Create("", "", nil)
	require.NoError(t, err)
	assert.NotZero(t, task.ID)
}

func TestStore_IDsStrictlyIncreasing(t *testing.T) {
	store, _ := setupTestStore(t)

	var last int64
	for i := 0; i < 5; i++ {
		task, err := store.Create("task", "", nil)
		require.NoError(t, err)
		assert.Greater(t, task.ID, last)
		last = task.ID
	}

	// deleting the newest row must not hand its id out again
	_, found, err := store.Delete(last)
	require.NoError(t, err)
	require.True(t, found)

	task, err := store.Create("after delete", "", nil)
	require.NoError(t, err)
	assert.Greater(t, task.ID, last)
}

func TestStore_ListAll(t *testing.T) {
	store, _ := setupTestStore(t)

	t.Run("empty database", func(t *testing.T) {
		tasks, err := store.ListAll()
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	_, err := store.Create("Task 1", "", nil)
	require.NoError(t, err)
	_, err = store.Create("Task 2", "", nil)
	require.NoError(t, err)

	t.Run("newest first", func(t *testing.T) {
		tasks, err := store.ListAll()
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, "Task 2", tasks[0].Title)
		assert.Equal(t, "Task 1", tasks[1].Title)
	})
}

func TestStore_ListAllOrdersByCreationTime(t *testing.T) {
	store, _ := setupTestStore(t)

	first, err := store.Create("older", "", nil)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	second, err := store.Create("newer", "", nil)
	require.NoError(t, err)
	require.True(t, second.CreatedAt.After(first.CreatedAt))

	// completing the older one must not move it
	_, _, err = store.Complete(first.ID)
	require.NoError(t, err)

	tasks, err := store.ListAll()
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, second.ID, tasks[0].ID)
	assert.Equal(t, first.ID, tasks[1].ID)
}

func TestStore_Get(t *testing.T) {
	store, _ := setupTestStore(t)

	created, err := store.Create("FindByID Test", "desc", nil)
	require.NoError(t, err)

	t.Run("existing task", func(t *testing.T) {
		got, found, err := store.Get(created.ID)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "FindByID Test", got.Title)
	})

	t.Run("missing task", func(t *testing.T) {
		got, found, err := store.Get(999)
		require.NoError(t, err)
		assert.False(t, found)
		assert.Zero(t, got)
	})
}

func TestStore_Complete(t *testing.T) {
	store, _ := setupTestStore(t)

	created, err := store.Create("Test task", "", nil)
	require.NoError(t, err)

	t.Run("existing task", func(t *testing.T) {
		completed, found, err := store.Complete(created.ID)
		require.NoError(t, err)
		require.True(t, found)
		assert.True(t, completed.Completed)

		got, found, err := store.Get(created.ID)
		require.NoError(t, err)
		require.True(t, found)
		assert.True(t, got.Completed)
		assert.WithinDuration(t, created.CreatedAt, got.CreatedAt, time.Millisecond)
	})

	t.Run("already completed", func(t *testing.T) {
		again, found, err := store.Complete(created.ID)
		require.NoError(t, err)
		require.True(t, found)
		assert.True(t, again.Completed)
	})

	t.Run("missing task", func(t *testing.T) {
		before, err := store.ListAll()
		require.NoError(t, err)

		_, found, err := store.Complete(42)
		require.NoError(t, err)
		assert.False(t, found)

		after, err := store.ListAll()
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}

func TestStore_CompleteReportsChange(t *testing.T) {
	store, _ := setupTestStore(t)

	created, err := store.Create("Only once", "", nil)
	require.NoError(t, err)

	_, found, changed, err := store.complete(created.ID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, changed)

	got, found, changed, err := store.complete(created.ID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.False(t, changed)
	assert.True(t, got.Completed)

	_, found, changed, err = store.complete(404)
	require.NoError(t, err)
	assert.False(t, found)
	assert.False(t, changed)
}

func TestStore_Delete(t *testing.T) {
	store, _ := setupTestStore(t)

	created, err := store.Create("To be deleted", "gone soon", nil)
	require.NoError(t, err)
	_, _, err = store.Complete(created.ID)
	require.NoError(t, err)

	t.Run("existing task", func(t *testing.T) {
		deleted, found, err := store.Delete(created.ID)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "To be deleted", deleted.Title)
		assert.Equal(t, "gone soon", deleted.Description)
		assert.True(t, deleted.Completed)

		_, found, err = store.Get(created.ID)
		require.NoError(t, err)
		assert.False(t, found)

		tasks, err := store.ListAll()
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("missing task", func(t *testing.T) {
		keep, err := store.Create("keep", "", nil)
		require.NoError(t, err)

		_, found, err := store.Delete(created.ID)
		require.NoError(t, err)
		assert.False(t, found)

		tasks, err := store.ListAll()
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, keep.ID, tasks[0].ID)
	})
}

func TestStore_ListPending(t *testing.T) {
	store, _ := setupTestStore(t)

	_, err := store.Create("Task 1", "", nil)
	require.NoError(t, err)
	_, err = store.Create("Task 2", "", nil)
	require.NoError(t, err)
	_, _, err = store.Complete(1)
	require.NoError(t, err)

	pending, err := store.ListPending()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Task 2", pending[0].Title)
}

func TestStore_ListPendingInIDOrder(t *testing.T) {
	store, _ := setupTestStore(t)

	for _, title := range []string{"a", "b", "c"} {
		_, err := store.Create(title, "", nil)
		require.NoError(t, err)
	}

	pending, err := store.ListPending()
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{pending[0].Title, pending[1].Title, pending[2].Title})
}

func TestStore_Scenario(t *testing.T) {
	store, _ := setupTestStore(t)

	_, err := store.Create("Task 1", "", nil)
	require.NoError(t, err)
	_, err = store.Create("Task 2", "", nil)
	require.NoError(t, err)

	all, err := store.ListAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Task 2", all[0].Title)

	_, found, err := store.Complete(1)
	require.NoError(t, err)
	require.True(t, found)

	got, found, err := store.Get(1)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, got.Completed)

	_, found, err = store.Delete(1)
	require.NoError(t, err)
	require.True(t, found)

	all, err = store.ListAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Task 2", all[0].Title)
}

func TestStore_Stats(t *testing.T) {
	store, _ := setupTestStore(t)

	st, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, Stats{}, st)
	assert.Zero(t, st.CompletionRate())

	for i := 0; i < 4; i++ {
		_, err := store.Create("task", "", nil)
		require.NoError(t, err)
	}
	_, _, err = store.Complete(2)
	require.NoError(t, err)

	st, err = store.Stats()
	require.NoError(t, err)
	assert.Equal(t, Stats{Total: 4, Completed: 1, Pending: 3}, st)
	assert.InDelta(t, 25.0, st.CompletionRate(), 0.001)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.db")

	store, err := OpenStore(StoreConfig{Path: path}, discardLogger())
	require.NoError(t, err)
	created, err := store.Create("durable", "survives restart", nil)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := OpenStore(StoreConfig{Path: path}, discardLogger())
	require.NoError(t, err)
	defer reopened.Close()

	got, found, err := reopened.Get(created.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "survives restart", got.Description)
}

func TestStore_OpenFailure(t *testing.T) {
	// sqlite does not create missing parent directories
	path := filepath.Join(t.TempDir(), "missing", "tasks.db")
	_, err := OpenStore(StoreConfig{Path: path}, discardLogger())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStorageUnavailable))
}

func TestStore_ClosedStoreFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.db")
	store, err := OpenStore(StoreConfig{Path: path}, discardLogger())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = store.Create("late", "", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}
