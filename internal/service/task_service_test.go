package service

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	taskv1 "github.com/Uzipoo/ToDo-app/api/task/v1"
	"github.com/Uzipoo/ToDo-app/internal/middleware"
	"github.com/Uzipoo/ToDo-app/internal/repository"
)

func setupTaskServiceClient(t *testing.T) (taskv1.TaskServiceClient, *TaskStore) {
	t.Helper()
	conn, store := setupTaskServiceConn(t)
	return taskv1.NewTaskServiceClient(conn), store
}

func setupTaskServiceConn(t *testing.T) (*grpc.ClientConn, *TaskStore) {
	t.Helper()

	store := newTestStore(t, repository.NewMemoryRepository())
	listener := bufconn.Listen(1 << 20)

	server := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			middleware.NewMetadataExtractorInterceptor().Unary(),
			middleware.NewValidationInterceptor().Unary(),
		),
	)
	taskv1.RegisterTaskServiceServer(server, NewTaskService(store))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(server, healthServer)
	healthServer.SetServingStatus(taskv1.TaskService_ServiceDesc.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	go server.Serve(listener)
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn, store
}

func TestHealthCheck_JSONCodec(t *testing.T) {
	conn, _ := setupTaskServiceConn(t)
	client := grpc_health_v1.NewHealthClient(conn)

	resp, err := client.Check(context.Background(),
		&grpc_health_v1.HealthCheckRequest{Service: taskv1.TaskService_ServiceDesc.ServiceName},
		grpc.CallContentSubtype(taskv1.CodecName),
	)
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.GetStatus())

	_, err = client.Check(context.Background(),
		&grpc_health_v1.HealthCheckRequest{Service: "unknown.Service"},
		grpc.CallContentSubtype(taskv1.CodecName),
	)
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestTaskService_AddTask(t *testing.T) {
	client, store := setupTaskServiceClient(t)
	ctx := context.Background()
	due := time.Date(2026, 10, 20, 17, 0, 0, 0, time.UTC)

	resp, err := client.AddTask(ctx, &taskv1.AddTaskRequest{Text: "Buy milk", DueDate: &due})
	require.NoError(t, err)
	require.True(t, resp.Added)
	require.NotNil(t, resp.Task)
	assert.Equal(t, "Buy milk", resp.Task.Text)
	assert.False(t, resp.Task.Completed)
	require.NotNil(t, resp.Task.DueDate)
	assert.True(t, resp.Task.DueDate.Equal(due))
	assert.Equal(t, int32(1), resp.Stats.Total)
	assert.Len(t, store.Tasks(), 1)
}

func TestTaskService_AddTaskBlankTextIsNoop(t *testing.T) {
	client, store := setupTaskServiceClient(t)

	resp, err := client.AddTask(context.Background(), &taskv1.AddTaskRequest{Text: "   "})

	require.NoError(t, err)
	assert.False(t, resp.Added)
	assert.Nil(t, resp.Task)
	assert.Empty(t, store.Tasks())
}

func TestTaskService_ToggleAndDelete(t *testing.T) {
	client, _ := setupTaskServiceClient(t)
	ctx := context.Background()

	added, err := client.AddTask(ctx, &taskv1.AddTaskRequest{Text: "A"})
	require.NoError(t, err)
	id := added.Task.ID

	toggled, err := client.ToggleTask(ctx, &taskv1.TaskIDRequest{ID: id})
	require.NoError(t, err)
	assert.True(t, toggled.Found)
	assert.True(t, toggled.Task.Completed)
	assert.Equal(t, int32(1), toggled.Stats.Completed)
	assert.InDelta(t, 1.0, toggled.Stats.Ratio, 1e-9)

	missing, err := client.ToggleTask(ctx, &taskv1.TaskIDRequest{ID: "missing"})
	require.NoError(t, err, "unknown id is not an error")
	assert.False(t, missing.Found)

	deleted, err := client.DeleteTask(ctx, &taskv1.TaskIDRequest{ID: id})
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)
	assert.Equal(t, int32(0), deleted.Stats.Total)

	deleted, err = client.DeleteTask(ctx, &taskv1.TaskIDRequest{ID: id})
	require.NoError(t, err)
	assert.False(t, deleted.Deleted)
}

func TestTaskService_InvalidArguments(t *testing.T) {
	client, _ := setupTaskServiceClient(t)
	ctx := context.Background()

	_, err := client.ToggleTask(ctx, &taskv1.TaskIDRequest{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.DeleteTask(ctx, &taskv1.TaskIDRequest{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.SetFilter(ctx, &taskv1.SetFilterRequest{Filter: "someday"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.ListTasks(ctx, &taskv1.ListTasksRequest{Filter: "someday"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestTaskService_SetFilterAndList(t *testing.T) {
	client, _ := setupTaskServiceClient(t)
	ctx := context.Background()

	a, err := client.AddTask(ctx, &taskv1.AddTaskRequest{Text: "A"})
	require.NoError(t, err)
	_, err = client.AddTask(ctx, &taskv1.AddTaskRequest{Text: "B"})
	require.NoError(t, err)
	_, err = client.ToggleTask(ctx, &taskv1.TaskIDRequest{ID: a.Task.ID})
	require.NoError(t, err)

	list, err := client.ListTasks(ctx, &taskv1.ListTasksRequest{})
	require.NoError(t, err)
	assert.Equal(t, "all", list.Filter)
	require.Len(t, list.Tasks, 2)
	assert.Equal(t, "B", list.Tasks[0].Text)

	active, err := client.SetFilter(ctx, &taskv1.SetFilterRequest{Filter: "active"})
	require.NoError(t, err)
	assert.Equal(t, "active", active.Filter)
	require.Len(t, active.Tasks, 1)
	assert.Equal(t, "B", active.Tasks[0].Text)
	assert.Equal(t, int32(2), active.Stats.Total, "stats cover the whole list")

	list, err = client.ListTasks(ctx, &taskv1.ListTasksRequest{})
	require.NoError(t, err)
	assert.Equal(t, "active", list.Filter, "filter sticks")

	done, err := client.ListTasks(ctx, &taskv1.ListTasksRequest{Filter: "completed"})
	require.NoError(t, err)
	assert.Equal(t, "completed", done.Filter)
	require.Len(t, done.Tasks, 1)
	assert.Equal(t, "A", done.Tasks[0].Text)

	list, err = client.ListTasks(ctx, &taskv1.ListTasksRequest{})
	require.NoError(t, err)
	assert.Equal(t, "active", list.Filter, "a one-off filter leaves the current one alone")

	stats, err := client.GetStats(ctx, &taskv1.GetStatsRequest{})
	require.NoError(t, err)
	assert.Equal(t, int32(2), stats.Total)
	assert.Equal(t, int32(1), stats.Completed)
	assert.Equal(t, int32(1), stats.Pending)
}

func TestTaskService_WatchTasks(t *testing.T) {
	client, store := setupTaskServiceClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := client.WatchTasks(ctx, &taskv1.WatchTasksRequest{})
	require.NoError(t, err)

	// The subscription is registered once the handler starts; keep adding
	// until the first event arrives.
	received := make(chan *taskv1.TaskEvent, 1)
	go func() {
		event, err := stream.Recv()
		if err == nil {
			received <- event
		}
	}()

	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case event := <-received:
			assert.Equal(t, taskv1.EventTypeAdded, event.EventType)
			require.NotNil(t, event.Task)
			assert.Equal(t, "watched", event.Task.Text)
			return
		case <-ticker.C:
			store.Add(context.Background(), "watched", nil)
		case <-ctx.Done():
			t.Fatal("timed out waiting for a task event")
		}
	}
}

func TestConvertProtoRoundTrip(t *testing.T) {
	due := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	store := newTestStore(t, repository.NewMemoryRepository())
	task, _ := store.Add(context.Background(), "A", &due)

	back := ConvertProtoToTask(convertTaskToProto(task))
	assert.Equal(t, task.ID, back.ID)
	assert.True(t, back.DueDate.Equal(*task.DueDate))

	stats := ConvertProtoToStats(convertStatsToProto(store.Stats()))
	assert.Equal(t, store.Stats(), stats)
	assert.Equal(t, 0, ConvertProtoToStats(nil).Total)
}
