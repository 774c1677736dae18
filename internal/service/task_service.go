// internal/service/task_service.go
package service

import (
	"context"
	"errors"
	"log"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	taskv1 "github.com/Uzipoo/ToDo-app/api/task/v1"
	"github.com/Uzipoo/ToDo-app/internal/models"
)

// TaskService exposes a TaskStore over gRPC.
type TaskService struct {
	taskv1.UnimplementedTaskServiceServer
	store *TaskStore
}

func NewTaskService(store *TaskStore) *TaskService {
	return &TaskService{
		store: store,
	}
}

// AddTask creates a task. Blank text is not an error: the response reports
// Added=false and nothing changes.
func (s *TaskService) AddTask(ctx context.Context, req *taskv1.AddTaskRequest) (*taskv1.AddTaskResponse, error) {
	task, added := s.store.Add(ctx, req.Text, req.DueDate)

	resp := &taskv1.AddTaskResponse{
		Added: added,
		Stats: convertStatsToProto(s.store.Stats()),
	}
	if added {
		resp.Task = convertTaskToProto(task)
	}
	return resp, nil
}

// ToggleTask flips a task's completed flag
func (s *TaskService) ToggleTask(ctx context.Context, req *taskv1.TaskIDRequest) (*taskv1.ToggleTaskResponse, error) {
	if req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	task, found := s.store.Toggle(ctx, req.ID)

	resp := &taskv1.ToggleTaskResponse{
		Found: found,
		Stats: convertStatsToProto(s.store.Stats()),
	}
	if found {
		resp.Task = convertTaskToProto(task)
	}
	return resp, nil
}

// DeleteTask removes a task
func (s *TaskService) DeleteTask(ctx context.Context, req *taskv1.TaskIDRequest) (*taskv1.DeleteTaskResponse, error) {
	if req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	deleted := s.store.Delete(ctx, req.ID)

	return &taskv1.DeleteTaskResponse{
		Deleted: deleted,
		Stats:   convertStatsToProto(s.store.Stats()),
	}, nil
}

// SetFilter changes the view filter and returns the newly visible tasks
func (s *TaskService) SetFilter(ctx context.Context, req *taskv1.SetFilterRequest) (*taskv1.ListTasksResponse, error) {
	filter, err := models.ParseFilter(req.Filter)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	s.store.SetFilter(filter)
	return convertStateToProto(s.store.State()), nil
}

// ListTasks returns the tasks visible under the current filter, or under the
// request's filter when one is given
func (s *TaskService) ListTasks(ctx context.Context, req *taskv1.ListTasksRequest) (*taskv1.ListTasksResponse, error) {
	if req.Filter == "" {
		return convertStateToProto(s.store.State()), nil
	}

	filter, err := models.ParseFilter(req.Filter)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return convertStateToProto(s.store.StateWith(filter)), nil
}

func (s *TaskService) GetStats(ctx context.Context, req *taskv1.GetStatsRequest) (*taskv1.Stats, error) {
	return convertStatsToProto(s.store.Stats()), nil
}

// WatchTasks streams store changes until the client goes away
func (s *TaskService) WatchTasks(req *taskv1.WatchTasksRequest, stream taskv1.TaskService_WatchTasksServer) error {
	changes, cancel := s.store.Subscribe()
	defer cancel()

	for {
		select {
		case <-stream.Context().Done():
			return nil
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			if err := stream.Send(convertChangeToProto(change)); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				log.Printf("[ERROR] WatchTasks send failed: %v", err)
				return err
			}
		}
	}
}

// Helper functions

func convertTaskToProto(task models.Task) *taskv1.Task {
	proto := &taskv1.Task{
		ID:        task.ID,
		Text:      task.Text,
		Completed: task.Completed,
		CreatedAt: task.CreatedAt,
	}
	if task.DueDate != nil {
		due := *task.DueDate
		proto.DueDate = &due
	}
	return proto
}

func convertStatsToProto(stats models.Stats) *taskv1.Stats {
	return &taskv1.Stats{
		Total:     int32(stats.Total),
		Completed: int32(stats.Completed),
		Pending:   int32(stats.Pending),
		Ratio:     stats.Ratio(),
	}
}

func convertStateToProto(state models.State) *taskv1.ListTasksResponse {
	tasks := make([]*taskv1.Task, len(state.Visible))
	for i, task := range state.Visible {
		tasks[i] = convertTaskToProto(task)
	}
	return &taskv1.ListTasksResponse{
		Filter: state.Filter.String(),
		Tasks:  tasks,
		Stats:  convertStatsToProto(state.Stats),
	}
}

func convertChangeToProto(change models.Change) *taskv1.TaskEvent {
	event := &taskv1.TaskEvent{
		EventType: convertChangeKindToEventType(change.Kind),
		Filter:    change.Filter.String(),
		Stats:     convertStatsToProto(change.Stats),
		Timestamp: change.At,
	}
	if change.Task != nil {
		event.Task = convertTaskToProto(*change.Task)
	}
	return event
}

func convertChangeKindToEventType(kind models.ChangeKind) string {
	switch kind {
	case models.ChangeLoaded:
		return taskv1.EventTypeLoaded
	case models.ChangeAdded:
		return taskv1.EventTypeAdded
	case models.ChangeToggled:
		return taskv1.EventTypeToggled
	case models.ChangeDeleted:
		return taskv1.EventTypeDeleted
	case models.ChangeFilter:
		return taskv1.EventTypeFilter
	default:
		return string(kind)
	}
}

// ConvertProtoToTask converts an API task back to the domain model.
func ConvertProtoToTask(task *taskv1.Task) models.Task {
	t := models.Task{
		ID:        task.ID,
		Text:      task.Text,
		Completed: task.Completed,
		CreatedAt: task.CreatedAt,
	}
	if task.DueDate != nil {
		due := *task.DueDate
		t.DueDate = &due
	}
	return t
}

// ConvertProtoToStats converts API stats back to the domain model.
func ConvertProtoToStats(stats *taskv1.Stats) models.Stats {
	if stats == nil {
		return models.Stats{}
	}
	return models.Stats{
		Total:     int(stats.Total),
		Completed: int(stats.Completed),
		Pending:   int(stats.Pending),
	}
}
