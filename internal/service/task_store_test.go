package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"testing"
	"time"

	"entgo.io/ent/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Uzipoo/ToDo-app/internal/database"
	"github.com/Uzipoo/ToDo-app/internal/models"
	"github.com/Uzipoo/ToDo-app/internal/repository"
)

var fixedNow = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

// failingRepository fails every call with err.
type failingRepository struct {
	err   error
	saves int
}

func (r *failingRepository) Save(ctx context.Context, tasks []models.Task) error {
	r.saves++
	return r.err
}

func (r *failingRepository) Load(ctx context.Context) ([]models.Task, bool, error) {
	return nil, false, r.err
}

func newTestStore(t *testing.T, repo repository.SnapshotRepository) *TaskStore {
	t.Helper()
	n := 0
	store := NewTaskStore(repo,
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("task-%d", n)
		}),
		WithClock(func() time.Time { return fixedNow }),
		WithLogger(log.New(&bytes.Buffer{}, "", 0)),
	)
	require.NoError(t, store.Initialize(context.Background()))
	return store
}

func taskIDs(tasks []models.Task) []string {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}

func TestTaskStore_AddPrepends(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, repository.NewMemoryRepository())

	texts := []string{"one", "two", "three"}
	for _, text := range texts {
		_, ok := store.Add(ctx, text, nil)
		require.True(t, ok)
	}

	tasks := store.Tasks()
	require.Len(t, tasks, 3)
	assert.Equal(t, []string{"task-3", "task-2", "task-1"}, taskIDs(tasks))
	assert.Equal(t, "three", tasks[0].Text)
	for _, task := range tasks {
		assert.False(t, task.Completed)
		assert.Equal(t, fixedNow, task.CreatedAt)
		assert.Nil(t, task.DueDate)
	}
}

func TestTaskStore_AddRejectsBlankText(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	store := newTestStore(t, repo)

	for _, text := range []string{"", "   ", "\t\n"} {
		_, ok := store.Add(ctx, text, nil)
		assert.False(t, ok, "%q", text)
	}

	assert.Empty(t, store.Tasks())
	assert.Zero(t, repo.Saves(), "rejected adds do not persist")
}

func TestTaskStore_AddTrimsAndKeepsDueDate(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, repository.NewMemoryRepository())
	due := time.Date(2026, 10, 20, 17, 0, 0, 999_999, time.FixedZone("CEST", 2*3600))

	task, ok := store.Add(ctx, "  Buy milk  ", &due)
	require.True(t, ok)

	assert.Equal(t, "Buy milk", task.Text)
	require.NotNil(t, task.DueDate)
	assert.True(t, task.DueDate.Equal(due.Truncate(time.Millisecond)))
	assert.Equal(t, time.UTC, task.DueDate.Location())
}

func TestTaskStore_ToggleTwiceRestores(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, repository.NewMemoryRepository())
	a, _ := store.Add(ctx, "A", nil)
	b, _ := store.Add(ctx, "B", nil)

	toggled, ok := store.Toggle(ctx, a.ID)
	require.True(t, ok)
	assert.True(t, toggled.Completed)
	assert.Equal(t, []string{b.ID, a.ID}, taskIDs(store.Tasks()), "order unchanged")
	assert.False(t, store.Tasks()[0].Completed, "other tasks untouched")

	toggled, ok = store.Toggle(ctx, a.ID)
	require.True(t, ok)
	assert.False(t, toggled.Completed)
}

func TestTaskStore_ToggleUnknownID(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	store := newTestStore(t, repo)
	store.Add(ctx, "A", nil)
	before := store.Tasks()
	saves := repo.Saves()

	_, ok := store.Toggle(ctx, "missing")

	assert.False(t, ok)
	assert.Equal(t, before, store.Tasks())
	assert.Equal(t, saves, repo.Saves())
}

func TestTaskStore_DeletePreservesOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, repository.NewMemoryRepository())
	a, _ := store.Add(ctx, "A", nil)
	b, _ := store.Add(ctx, "B", nil)
	c, _ := store.Add(ctx, "C", nil)

	require.True(t, store.Delete(ctx, b.ID))
	assert.Equal(t, []string{c.ID, a.ID}, taskIDs(store.Tasks()))

	assert.False(t, store.Delete(ctx, b.ID), "already deleted")
	assert.False(t, store.Delete(ctx, "missing"))
	assert.Len(t, store.Tasks(), 2)
}

func TestTaskStore_VisibleTasks(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, repository.NewMemoryRepository())
	a, _ := store.Add(ctx, "A", nil)
	b, _ := store.Add(ctx, "B", nil)
	c, _ := store.Add(ctx, "C", nil)
	store.Toggle(ctx, b.ID)

	tests := []struct {
		filter models.Filter
		want   []string
	}{
		{models.FilterAll, []string{c.ID, b.ID, a.ID}},
		{models.FilterActive, []string{c.ID, a.ID}},
		{models.FilterCompleted, []string{b.ID}},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			store.SetFilter(tt.filter)
			assert.Equal(t, tt.filter, store.Filter())
			assert.Equal(t, tt.want, taskIDs(store.VisibleTasks()))
			assert.Len(t, store.Tasks(), 3, "filtering never mutates the list")
		})
	}
}

func TestTaskStore_SetFilterDoesNotPersist(t *testing.T) {
	repo := repository.NewMemoryRepository()
	store := newTestStore(t, repo)

	store.SetFilter(models.FilterCompleted)
	store.SetFilter("")

	assert.Equal(t, models.FilterAll, store.Filter())
	assert.Zero(t, repo.Saves())
}

func TestTaskStore_ReturnedSlicesAreCopies(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, repository.NewMemoryRepository())
	store.Add(ctx, "A", nil)

	tasks := store.Tasks()
	tasks[0].Text = "changed"
	visible := store.VisibleTasks()
	visible[0].Completed = true

	assert.Equal(t, "A", store.Tasks()[0].Text)
	assert.False(t, store.Tasks()[0].Completed)
}

func TestTaskStore_DueDateIsNotShared(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, repository.NewMemoryRepository())
	due := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	other := time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)

	added, ok := store.Add(ctx, "A", &due)
	require.True(t, ok)
	*added.DueDate = other

	*store.VisibleTasks()[0].DueDate = other
	*store.Tasks()[0].DueDate = other
	*store.State().Visible[0].DueDate = other

	toggled, ok := store.Toggle(ctx, added.ID)
	require.True(t, ok)
	*toggled.DueDate = other

	got := store.Tasks()[0].DueDate
	require.NotNil(t, got)
	assert.True(t, got.Equal(due), "due date changed to %v", got)
}

func TestTaskStore_StateWithKeepsFilter(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, repository.NewMemoryRepository())
	a, _ := store.Add(ctx, "A", nil)
	store.Add(ctx, "B", nil)
	store.Toggle(ctx, a.ID)
	store.SetFilter(models.FilterActive)

	state := store.StateWith(models.FilterCompleted)
	assert.Equal(t, models.FilterCompleted, state.Filter)
	assert.Equal(t, []string{a.ID}, taskIDs(state.Visible))
	assert.Len(t, state.Tasks, 2)
	assert.Equal(t, models.FilterActive, store.Filter())
}

func TestTaskStore_SetFilterUnknownValue(t *testing.T) {
	store := newTestStore(t, repository.NewMemoryRepository())
	store.SetFilter(models.FilterCompleted)

	store.SetFilter(models.Filter("bogus"))
	assert.Equal(t, models.FilterAll, store.Filter())
}

func TestTaskStore_Scenario_BuyMilk(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, repository.NewMemoryRepository())

	task, ok := store.Add(ctx, "Buy milk", nil)
	require.True(t, ok)
	tasks := store.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Text)
	assert.False(t, tasks[0].Completed)

	toggled, ok := store.Toggle(ctx, task.ID)
	require.True(t, ok)
	assert.True(t, toggled.Completed)

	stats := store.Stats()
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1.0, stats.Ratio())

	store.SetFilter(models.FilterActive)
	assert.Empty(t, store.VisibleTasks())

	store.SetFilter(models.FilterCompleted)
	assert.Len(t, store.VisibleTasks(), 1)
}

func TestTaskStore_Scenario_AddAddDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, repository.NewMemoryRepository())

	a, _ := store.Add(ctx, "A", nil)
	b, _ := store.Add(ctx, "B", nil)
	assert.Equal(t, []string{"B", "A"}, []string{store.Tasks()[0].Text, store.Tasks()[1].Text})

	require.True(t, store.Delete(ctx, a.ID))
	tasks := store.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, b.ID, tasks[0].ID)
}

func TestTaskStore_PersistsEveryMutation(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	store := newTestStore(t, repo)

	a, _ := store.Add(ctx, "A", nil)
	store.Add(ctx, "B", nil)
	store.Toggle(ctx, a.ID)
	store.Delete(ctx, a.ID)
	assert.Equal(t, 4, repo.Saves())

	// A fresh session sees the last saved state.
	reloaded := newTestStore(t, repo)
	tasks := reloaded.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "B", tasks[0].Text)
	assert.Equal(t, models.FilterAll, reloaded.Filter(), "filter is not persisted")
}

func TestTaskStore_InitializeLoadsOnce(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	seed := newTestStore(t, repo)
	seed.Add(ctx, "persisted", nil)

	store := NewTaskStore(repo, WithLogger(log.New(&bytes.Buffer{}, "", 0)))
	require.NoError(t, store.Initialize(ctx))
	require.Len(t, store.Tasks(), 1)

	store.Delete(ctx, store.Tasks()[0].ID)
	require.NoError(t, repo.Save(ctx, seed.Tasks()))

	require.NoError(t, store.Initialize(ctx))
	assert.Empty(t, store.Tasks(), "second Initialize does not reload")
}

func TestTaskStore_InitializeMalformedSnapshot(t *testing.T) {
	repo := repository.NewMemoryRepositoryWithBlob([]byte(`{"broken":`))
	store := NewTaskStore(repo, WithLogger(log.New(&bytes.Buffer{}, "", 0)))

	err := store.Initialize(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, repository.ErrMalformedSnapshot))
	assert.Empty(t, store.Tasks())

	_, ok := store.Add(context.Background(), "still works", nil)
	assert.True(t, ok)
}

func TestTaskStore_SaveFailureKeepsMutation(t *testing.T) {
	var logs bytes.Buffer
	repo := &failingRepository{err: errors.New("quota exceeded")}
	store := NewTaskStore(repo, WithLogger(log.New(&logs, "", 0)))

	_, ok := store.Add(context.Background(), "A", nil)

	assert.True(t, ok)
	assert.Len(t, store.Tasks(), 1)
	assert.Equal(t, 1, repo.saves)
	assert.Contains(t, logs.String(), "quota exceeded")
}

func TestTaskStore_SaveOutlivesCancelledContext(t *testing.T) {
	db, err := database.Open(context.Background(), database.Config{
		Driver:     dialect.SQLite,
		SQLitePath: filepath.Join(t.TempDir(), "todo.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))

	store := newTestStore(t, repository.NewSQLRepository(db))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, ok := store.Add(ctx, "Buy milk", nil)
	require.True(t, ok)

	reloaded := newTestStore(t, repository.NewSQLRepository(db))
	tasks := reloaded.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Text)
}

func TestTaskStore_Subscribe(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, repository.NewMemoryRepository())
	changes, cancel := store.Subscribe()

	a, _ := store.Add(ctx, "A", nil)
	store.Toggle(ctx, a.ID)
	store.SetFilter(models.FilterCompleted)
	store.Delete(ctx, a.ID)
	store.Toggle(ctx, "missing")

	want := []models.ChangeKind{models.ChangeAdded, models.ChangeToggled, models.ChangeFilter, models.ChangeDeleted}
	for _, kind := range want {
		select {
		case change := <-changes:
			assert.Equal(t, kind, change.Kind)
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %s", kind)
		}
	}

	cancel()
	cancel()
	_, open := <-changes
	assert.False(t, open, "cancel closes the channel")
}

func TestTaskStore_State(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, repository.NewMemoryRepository())
	a, _ := store.Add(ctx, "A", nil)
	store.Add(ctx, "B", nil)
	store.Toggle(ctx, a.ID)
	store.SetFilter(models.FilterActive)

	state := store.State()

	assert.Len(t, state.Tasks, 2)
	require.Len(t, state.Visible, 1)
	assert.Equal(t, "B", state.Visible[0].Text)
	assert.Equal(t, models.FilterActive, state.Filter)
	assert.Equal(t, models.Stats{Total: 2, Completed: 1, Pending: 1}, state.Stats)
}
