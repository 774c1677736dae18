package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	taskv1 "github.com/Uzipoo/ToDo-app/api/task/v1"
	"github.com/Uzipoo/ToDo-app/internal/config"
	"github.com/Uzipoo/ToDo-app/internal/database"
	"github.com/Uzipoo/ToDo-app/internal/models"
	"github.com/Uzipoo/ToDo-app/internal/repository"
	"github.com/Uzipoo/ToDo-app/internal/service"
)

// Backend is what the commands drive: a local store or a remote server.
type Backend interface {
	Add(ctx context.Context, text string, dueDate *time.Time) (models.Task, bool, error)
	Toggle(ctx context.Context, id string) (models.Task, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, filter models.Filter) ([]models.Task, models.Stats, error)
	Stats(ctx context.Context) (models.Stats, error)
	Close() error
}

// localBackend runs a TaskStore in-process over a sqlite file. Each CLI
// invocation is one session: load on start, save after the mutation.
type localBackend struct {
	db    *sqlx.DB
	store *service.TaskStore
}

func newLocalBackend(ctx context.Context, path string, logger *log.Logger) (*localBackend, error) {
	db, err := database.Open(ctx, database.Config{Driver: config.DriverSQLite, SQLitePath: path})
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	store := service.NewTaskStore(repository.NewSQLRepository(db), service.WithLogger(logger))
	if err := store.Initialize(ctx); err != nil {
		logger.Printf("[ERROR] %v; starting with an empty list", err)
	}
	return &localBackend{db: db, store: store}, nil
}

func (b *localBackend) Add(ctx context.Context, text string, dueDate *time.Time) (models.Task, bool, error) {
	task, added := b.store.Add(ctx, text, dueDate)
	return task, added, nil
}

func (b *localBackend) Toggle(ctx context.Context, id string) (models.Task, bool, error) {
	task, found := b.store.Toggle(ctx, id)
	return task, found, nil
}

func (b *localBackend) Delete(ctx context.Context, id string) (bool, error) {
	return b.store.Delete(ctx, id), nil
}

func (b *localBackend) List(ctx context.Context, filter models.Filter) ([]models.Task, models.Stats, error) {
	state := b.store.StateWith(filter)
	return state.Visible, state.Stats, nil
}

func (b *localBackend) Stats(ctx context.Context) (models.Stats, error) {
	return b.store.Stats(), nil
}

func (b *localBackend) Close() error {
	return b.db.Close()
}

// remoteBackend talks to a running server over gRPC.
type remoteBackend struct {
	conn   *grpc.ClientConn
	client taskv1.TaskServiceClient
}

func newRemoteBackend(addr string) (*remoteBackend, error) {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUserAgent("todo-cli"),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", addr, err)
	}
	return newRemoteBackendFromConn(conn), nil
}

func newRemoteBackendFromConn(conn *grpc.ClientConn) *remoteBackend {
	return &remoteBackend{conn: conn, client: taskv1.NewTaskServiceClient(conn)}
}

func (b *remoteBackend) Add(ctx context.Context, text string, dueDate *time.Time) (models.Task, bool, error) {
	resp, err := b.client.AddTask(ctx, &taskv1.AddTaskRequest{Text: text, DueDate: dueDate})
	if err != nil {
		return models.Task{}, false, fmt.Errorf("add task: %w", err)
	}
	if !resp.Added || resp.Task == nil {
		return models.Task{}, false, nil
	}
	return service.ConvertProtoToTask(resp.Task), true, nil
}

func (b *remoteBackend) Toggle(ctx context.Context, id string) (models.Task, bool, error) {
	resp, err := b.client.ToggleTask(ctx, &taskv1.TaskIDRequest{ID: id})
	if err != nil {
		return models.Task{}, false, fmt.Errorf("toggle task: %w", err)
	}
	if !resp.Found || resp.Task == nil {
		return models.Task{}, false, nil
	}
	return service.ConvertProtoToTask(resp.Task), true, nil
}

func (b *remoteBackend) Delete(ctx context.Context, id string) (bool, error) {
	resp, err := b.client.DeleteTask(ctx, &taskv1.TaskIDRequest{ID: id})
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	return resp.Deleted, nil
}

func (b *remoteBackend) List(ctx context.Context, filter models.Filter) ([]models.Task, models.Stats, error) {
	resp, err := b.client.ListTasks(ctx, &taskv1.ListTasksRequest{Filter: filter.String()})
	if err != nil {
		return nil, models.Stats{}, fmt.Errorf("list tasks: %w", err)
	}
	tasks := make([]models.Task, len(resp.Tasks))
	for i, t := range resp.Tasks {
		tasks[i] = service.ConvertProtoToTask(t)
	}
	return tasks, service.ConvertProtoToStats(resp.Stats), nil
}

func (b *remoteBackend) Stats(ctx context.Context) (models.Stats, error) {
	resp, err := b.client.GetStats(ctx, &taskv1.GetStatsRequest{})
	if err != nil {
		return models.Stats{}, fmt.Errorf("get stats: %w", err)
	}
	return service.ConvertProtoToStats(resp), nil
}

func (b *remoteBackend) Close() error {
	return b.conn.Close()
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}
