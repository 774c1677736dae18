// internal/service/task_store.go
package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Uzipoo/ToDo-app/internal/models"
	"github.com/Uzipoo/ToDo-app/internal/repository"
)

// TaskStore owns the task list and the current filter. Every mutation is
// written through to the snapshot repository before it returns.
type TaskStore struct {
	mu          sync.Mutex
	repo        repository.SnapshotRepository
	tasks       []models.Task
	filter      models.Filter
	initialized bool

	newID  func() string
	now    func() time.Time
	logger *log.Logger

	subMu sync.RWMutex
	subs  map[chan models.Change]struct{}
}

// saveTimeout bounds a single snapshot save.
const saveTimeout = 10 * time.Second

type StoreOption func(*TaskStore)

// WithIDGenerator replaces the uuid generator. Ids must be unique.
func WithIDGenerator(fn func() string) StoreOption {
	return func(s *TaskStore) { s.newID = fn }
}

func WithClock(fn func() time.Time) StoreOption {
	return func(s *TaskStore) { s.now = fn }
}

func WithLogger(l *log.Logger) StoreOption {
	return func(s *TaskStore) { s.logger = l }
}

func NewTaskStore(repo repository.SnapshotRepository, opts ...StoreOption) *TaskStore {
	s := &TaskStore{
		repo:   repo,
		tasks:  []models.Task{},
		filter: models.FilterAll,
		newID:  uuid.NewString,
		now:    time.Now,
		logger: log.Default(),
		subs:   make(map[chan models.Change]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize loads the persisted snapshot. Only the first call reads storage.
// An absent or unreadable snapshot leaves the list empty; the load error is
// returned so the caller can report it, but the store stays usable.
func (s *TaskStore) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	s.initialized = true

	tasks, found, err := s.repo.Load(ctx)
	if err != nil {
		s.tasks = []models.Task{}
		return fmt.Errorf("load snapshot: %w", err)
	}
	if !found {
		s.logger.Println("[INFO] No snapshot found, starting with an empty list")
		s.tasks = []models.Task{}
		return nil
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	s.tasks = tasks
	s.logger.Printf("[INFO] Loaded %d tasks from snapshot", len(tasks))

	s.publishLocked(models.ChangeLoaded, nil)
	return nil
}

// Add prepends a new task. Text is trimmed; blank text is rejected and
// Add reports false without touching the list.
func (s *TaskStore) Add(ctx context.Context, text string, dueDate *time.Time) (models.Task, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Task{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task := models.Task{
		ID:        s.newID(),
		Text:      text,
		Completed: false,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}
	if dueDate != nil {
		due := dueDate.UTC().Truncate(time.Millisecond)
		task.DueDate = &due
	}

	tasks := make([]models.Task, 0, len(s.tasks)+1)
	tasks = append(tasks, task)
	s.tasks = append(tasks, s.tasks...)

	s.persistLocked(ctx)
	s.publishLocked(models.ChangeAdded, &task)
	return cloneTask(task), true
}

// Toggle flips the completed flag of the task with id. Unknown ids are a no-op.
func (s *TaskStore) Toggle(ctx context.Context, id string) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return models.Task{}, false
	}

	toggled := s.tasks[i].Toggled()
	tasks := make([]models.Task, len(s.tasks))
	copy(tasks, s.tasks)
	tasks[i] = toggled
	s.tasks = tasks

	s.persistLocked(ctx)
	s.publishLocked(models.ChangeToggled, &toggled)
	return cloneTask(toggled), true
}

// Delete removes the task with id, keeping the order of the rest. Unknown ids
// are a no-op.
func (s *TaskStore) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return false
	}

	removed := s.tasks[i]
	tasks := make([]models.Task, 0, len(s.tasks)-1)
	tasks = append(tasks, s.tasks[:i]...)
	tasks = append(tasks, s.tasks[i+1:]...)
	s.tasks = tasks

	s.persistLocked(ctx)
	s.publishLocked(models.ChangeDeleted, &removed)
	return true
}

// SetFilter changes the view filter. Nothing is persisted. Values other than
// the three known filters are treated as FilterAll.
func (s *TaskStore) SetFilter(f models.Filter) {
	switch f {
	case models.FilterAll, models.FilterActive, models.FilterCompleted:
	default:
		f = models.FilterAll
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.filter == f {
		return
	}
	s.filter = f
	s.publishLocked(models.ChangeFilter, nil)
}

func (s *TaskStore) Filter() models.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// VisibleTasks returns the tasks matching the current filter, in list order.
func (s *TaskStore) VisibleTasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visibleLocked()
}

// Tasks returns a copy of the full list.
func (s *TaskStore) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTasks(s.tasks)
}

func (s *TaskStore) Stats() models.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.NewStats(s.tasks)
}

// State returns the list, the visible subset, the filter and stats taken
// under one lock.
func (s *TaskStore) State() models.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.State{
		Tasks:   cloneTasks(s.tasks),
		Visible: s.visibleLocked(),
		Filter:  s.filter,
		Stats:   models.NewStats(s.tasks),
	}
}

// StateWith is State with the visible subset taken under f instead of the
// current filter. The store's filter is left unchanged.
func (s *TaskStore) StateWith(f models.Filter) models.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	visible := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if f.Matches(t) {
			visible = append(visible, cloneTask(t))
		}
	}
	return models.State{
		Tasks:   cloneTasks(s.tasks),
		Visible: visible,
		Filter:  f,
		Stats:   models.NewStats(s.tasks),
	}
}

// Subscribe returns a channel receiving every change and a function that
// cancels the subscription. Changes are dropped for subscribers that fall
// behind rather than blocking mutations.
func (s *TaskStore) Subscribe() (<-chan models.Change, func()) {
	ch := make(chan models.Change, 64)
	s.subMu.Lock()
	s.subs[ch] = struct{}{}
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, ch)
			s.subMu.Unlock()
			close(ch)
		})
	}
}

func (s *TaskStore) indexLocked(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *TaskStore) visibleLocked() []models.Task {
	visible := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if s.filter.Matches(t) {
			visible = append(visible, cloneTask(t))
		}
	}
	return visible
}

// persistLocked saves the current list. The save outlives the caller's
// context so a cancelled request still gets its mutation written. A failed
// save is logged and dropped; the in-memory mutation stands.
func (s *TaskStore) persistLocked(ctx context.Context) {
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()

	if err := s.repo.Save(saveCtx, s.tasks); err != nil {
		s.logger.Printf("[ERROR] Failed to save snapshot: %v", err)
	}
}

func (s *TaskStore) publishLocked(kind models.ChangeKind, task *models.Task) {
	if task != nil {
		c := cloneTask(*task)
		task = &c
	}
	change := models.Change{
		Kind:   kind,
		Task:   task,
		Filter: s.filter,
		Stats:  models.NewStats(s.tasks),
		At:     s.now(),
	}

	s.subMu.RLock()
	defer s.subMu.RUnlock()
	for ch := range s.subs {
		select {
		case ch <- change:
		default:
			// subscriber is behind; drop to avoid blocking the store
		}
	}
}

func cloneTasks(tasks []models.Task) []models.Task {
	out := make([]models.Task, len(tasks))
	for i, t := range tasks {
		out[i] = cloneTask(t)
	}
	return out
}

// cloneTask copies t so the due date pointer is not shared with the list.
func cloneTask(t models.Task) models.Task {
	if t.DueDate != nil {
		due := *t.DueDate
		t.DueDate = &due
	}
	return t
}
