// Package taskv1 defines the todo.v1.TaskService gRPC API.
package taskv1

import "time"

type Task struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	Completed bool       `json:"completed"`
	CreatedAt time.Time  `json:"createdAt"`
	DueDate   *time.Time `json:"dueDate,omitempty"`
}

type Stats struct {
	Total     int32   `json:"total"`
	Completed int32   `json:"completed"`
	Pending   int32   `json:"pending"`
	Ratio     float64 `json:"ratio"`
}

type AddTaskRequest struct {
	Text    string     `json:"text"`
	DueDate *time.Time `json:"dueDate,omitempty"`
}

// AddTaskResponse has Added=false when the text was blank.
type AddTaskResponse struct {
	Added bool   `json:"added"`
	Task  *Task  `json:"task,omitempty"`
	Stats *Stats `json:"stats"`
}

type TaskIDRequest struct {
	ID string `json:"id"`
}

// ToggleTaskResponse has Found=false when no task had the id.
type ToggleTaskResponse struct {
	Found bool   `json:"found"`
	Task  *Task  `json:"task,omitempty"`
	Stats *Stats `json:"stats"`
}

type DeleteTaskResponse struct {
	Deleted bool   `json:"deleted"`
	Stats   *Stats `json:"stats"`
}

type SetFilterRequest struct {
	Filter string `json:"filter"`
}

// ListTasksRequest lists under the current filter, or under Filter when set
// without changing the current one.
type ListTasksRequest struct {
	Filter string `json:"filter,omitempty"`
}

// ListTasksResponse carries the tasks visible under the current filter.
type ListTasksResponse struct {
	Filter string  `json:"filter"`
	Tasks  []*Task `json:"tasks"`
	Stats  *Stats  `json:"stats"`
}

type GetStatsRequest struct{}

type WatchTasksRequest struct{}

// Event types
const (
	EventTypeLoaded  = "loaded"
	EventTypeAdded   = "added"
	EventTypeToggled = "toggled"
	EventTypeDeleted = "deleted"
	EventTypeFilter  = "filter"
)

type TaskEvent struct {
	EventType string    `json:"eventType"`
	Task      *Task     `json:"task,omitempty"`
	Filter    string    `json:"filter"`
	Stats     *Stats    `json:"stats"`
	Timestamp time.Time `json:"timestamp"`
}
