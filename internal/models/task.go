package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidFilter is returned when a filter name is not one of all, active or completed.
var ErrInvalidFilter = errors.New("invalid filter")

// Filter selects which tasks are visible. It is view state and never persisted.
type Filter string

// Filter values
const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// ParseFilter converts a filter name to a Filter. An empty name means FilterAll.
func ParseFilter(name string) (Filter, error) {
	switch Filter(strings.ToLower(strings.TrimSpace(name))) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterActive:
		return FilterActive, nil
	case FilterCompleted:
		return FilterCompleted, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFilter, name)
	}
}

// Matches reports whether the task is visible under the filter.
func (f Filter) Matches(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

func (f Filter) String() string {
	if f == "" {
		return string(FilterAll)
	}
	return string(f)
}

type Task struct {
	ID        string
	Text      string
	Completed bool
	CreatedAt time.Time
	DueDate   *time.Time
}

// Toggled returns a copy of the task with Completed flipped.
func (t Task) Toggled() Task {
	t.Completed = !t.Completed
	if t.DueDate != nil {
		due := *t.DueDate
		t.DueDate = &due
	}
	return t
}

// IsOverdue reports whether an active task is past its due date at now.
func (t Task) IsOverdue(now time.Time) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(now)
}

// Stats summarizes progress over the whole list, independent of the filter.
type Stats struct {
	Total     int
	Completed int
	Pending   int
}

// NewStats counts tasks.
func NewStats(tasks []Task) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		}
	}
	s.Pending = s.Total - s.Completed
	return s
}

// Ratio is Completed/Total, or 0 for an empty list.
func (s Stats) Ratio() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Total)
}

// State is everything a view needs to render the list.
type State struct {
	Tasks   []Task
	Visible []Task
	Filter  Filter
	Stats   Stats
}

// ChangeKind names a store mutation.
type ChangeKind string

const (
	ChangeLoaded  ChangeKind = "loaded"
	ChangeAdded   ChangeKind = "added"
	ChangeToggled ChangeKind = "toggled"
	ChangeDeleted ChangeKind = "deleted"
	ChangeFilter  ChangeKind = "filter"
)

// Change is emitted to subscribers after every store mutation.
type Change struct {
	Kind   ChangeKind
	Task   *Task
	Filter Filter
	Stats  Stats
	At     time.Time
}
