package taskv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "todo.v1.TaskService"

const (
	TaskService_AddTask_FullMethodName    = "/todo.v1.TaskService/AddTask"
	TaskService_ToggleTask_FullMethodName = "/todo.v1.TaskService/ToggleTask"
	TaskService_DeleteTask_FullMethodName = "/todo.v1.TaskService/DeleteTask"
	TaskService_SetFilter_FullMethodName  = "/todo.v1.TaskService/SetFilter"
	TaskService_ListTasks_FullMethodName  = "/todo.v1.TaskService/ListTasks"
	TaskService_GetStats_FullMethodName   = "/todo.v1.TaskService/GetStats"
	TaskService_WatchTasks_FullMethodName = "/todo.v1.TaskService/WatchTasks"
)

// TaskServiceClient is the client API for TaskService.
type TaskServiceClient interface {
	AddTask(ctx context.Context, in *AddTaskRequest, opts ...grpc.CallOption) (*AddTaskResponse, error)
	ToggleTask(ctx context.Context, in *TaskIDRequest, opts ...grpc.CallOption) (*ToggleTaskResponse, error)
	DeleteTask(ctx context.Context, in *TaskIDRequest, opts ...grpc.CallOption) (*DeleteTaskResponse, error)
	SetFilter(ctx context.Context, in *SetFilterRequest, opts ...grpc.CallOption) (*ListTasksResponse, error)
	ListTasks(ctx context.Context, in *ListTasksRequest, opts ...grpc.CallOption) (*ListTasksResponse, error)
	GetStats(ctx context.Context, in *GetStatsRequest, opts ...grpc.CallOption) (*Stats, error)
	WatchTasks(ctx context.Context, in *WatchTasksRequest, opts ...grpc.CallOption) (TaskService_WatchTasksClient, error)
}

type taskServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewTaskServiceClient returns a client that sends every call with the JSON codec.
func NewTaskServiceClient(cc grpc.ClientConnInterface) TaskServiceClient {
	return &taskServiceClient{cc}
}

func withCodec(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}

func (c *taskServiceClient) AddTask(ctx context.Context, in *AddTaskRequest, opts ...grpc.CallOption) (*AddTaskResponse, error) {
	out := new(AddTaskResponse)
	if err := c.cc.Invoke(ctx, TaskService_AddTask_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *taskServiceClient) ToggleTask(ctx context.Context, in *TaskIDRequest, opts ...grpc.CallOption) (*ToggleTaskResponse, error) {
	out := new(ToggleTaskResponse)
	if err := c.cc.Invoke(ctx, TaskService_ToggleTask_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *taskServiceClient) DeleteTask(ctx context.Context, in *TaskIDRequest, opts ...grpc.CallOption) (*DeleteTaskResponse, error) {
	out := new(DeleteTaskResponse)
	if err := c.cc.Invoke(ctx, TaskService_DeleteTask_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *taskServiceClient) SetFilter(ctx context.Context, in *SetFilterRequest, opts ...grpc.CallOption) (*ListTasksResponse, error) {
	out := new(ListTasksResponse)
	if err := c.cc.Invoke(ctx, TaskService_SetFilter_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *taskServiceClient) ListTasks(ctx context.Context, in *ListTasksRequest, opts ...grpc.CallOption) (*ListTasksResponse, error) {
	out := new(ListTasksResponse)
	if err := c.cc.Invoke(ctx, TaskService_ListTasks_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *taskServiceClient) GetStats(ctx context.Context, in *GetStatsRequest, opts ...grpc.CallOption) (*Stats, error) {
	out := new(Stats)
	if err := c.cc.Invoke(ctx, TaskService_GetStats_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *taskServiceClient) WatchTasks(ctx context.Context, in *WatchTasksRequest, opts ...grpc.CallOption) (TaskService_WatchTasksClient, error) {
	stream, err := c.cc.NewStream(ctx, &TaskService_ServiceDesc.Streams[0], TaskService_WatchTasks_FullMethodName, withCodec(opts)...)
	if err != nil {
		return nil, err
	}
	x := &taskServiceWatchTasksClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type TaskService_WatchTasksClient interface {
	Recv() (*TaskEvent, error)
	grpc.ClientStream
}

type taskServiceWatchTasksClient struct {
	grpc.ClientStream
}

func (x *taskServiceWatchTasksClient) Recv() (*TaskEvent, error) {
	m := new(TaskEvent)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// TaskServiceServer is the server API for TaskService.
type TaskServiceServer interface {
	AddTask(context.Context, *AddTaskRequest) (*AddTaskResponse, error)
	ToggleTask(context.Context, *TaskIDRequest) (*ToggleTaskResponse, error)
	DeleteTask(context.Context, *TaskIDRequest) (*DeleteTaskResponse, error)
	SetFilter(context.Context, *SetFilterRequest) (*ListTasksResponse, error)
	ListTasks(context.Context, *ListTasksRequest) (*ListTasksResponse, error)
	GetStats(context.Context, *GetStatsRequest) (*Stats, error)
	WatchTasks(*WatchTasksRequest, TaskService_WatchTasksServer) error
}

// UnimplementedTaskServiceServer can be embedded to have forward compatible implementations.
type UnimplementedTaskServiceServer struct{}

func (UnimplementedTaskServiceServer) AddTask(context.Context, *AddTaskRequest) (*AddTaskResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AddTask not implemented")
}
func (UnimplementedTaskServiceServer) ToggleTask(context.Context, *TaskIDRequest) (*ToggleTaskResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ToggleTask not implemented")
}
func (UnimplementedTaskServiceServer) DeleteTask(context.Context, *TaskIDRequest) (*DeleteTaskResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method DeleteTask not implemented")
}
func (UnimplementedTaskServiceServer) SetFilter(context.Context, *SetFilterRequest) (*ListTasksResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SetFilter not implemented")
}
func (UnimplementedTaskServiceServer) ListTasks(context.Context, *ListTasksRequest) (*ListTasksResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListTasks not implemented")
}
func (UnimplementedTaskServiceServer) GetStats(context.Context, *GetStatsRequest) (*Stats, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetStats not implemented")
}
func (UnimplementedTaskServiceServer) WatchTasks(*WatchTasksRequest, TaskService_WatchTasksServer) error {
	return status.Errorf(codes.Unimplemented, "method WatchTasks not implemented")
}

func RegisterTaskServiceServer(s grpc.ServiceRegistrar, srv TaskServiceServer) {
	s.RegisterService(&TaskService_ServiceDesc, srv)
}

func _TaskService_AddTask_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(AddTaskRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TaskServiceServer).AddTask(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TaskService_AddTask_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TaskServiceServer).AddTask(ctx, req.(*AddTaskRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _TaskService_ToggleTask_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(TaskIDRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TaskServiceServer).ToggleTask(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TaskService_ToggleTask_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TaskServiceServer).ToggleTask(ctx, req.(*TaskIDRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _TaskService_DeleteTask_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(TaskIDRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TaskServiceServer).DeleteTask(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TaskService_DeleteTask_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TaskServiceServer).DeleteTask(ctx, req.(*TaskIDRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _TaskService_SetFilter_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(SetFilterRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TaskServiceServer).SetFilter(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TaskService_SetFilter_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TaskServiceServer).SetFilter(ctx, req.(*SetFilterRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _TaskService_ListTasks_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ListTasksRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TaskServiceServer).ListTasks(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TaskService_ListTasks_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TaskServiceServer).ListTasks(ctx, req.(*ListTasksRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _TaskService_GetStats_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetStatsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TaskServiceServer).GetStats(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TaskService_GetStats_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TaskServiceServer).GetStats(ctx, req.(*GetStatsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _TaskService_WatchTasks_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(WatchTasksRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(TaskServiceServer).WatchTasks(m, &taskServiceWatchTasksServer{stream})
}

type TaskService_WatchTasksServer interface {
	Send(*TaskEvent) error
	grpc.ServerStream
}

type taskServiceWatchTasksServer struct {
	grpc.ServerStream
}

func (x *taskServiceWatchTasksServer) Send(m *TaskEvent) error {
	return x.ServerStream.SendMsg(m)
}

// TaskService_ServiceDesc is the grpc.ServiceDesc for TaskService.
var TaskService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TaskServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "AddTask", Handler: _TaskService_AddTask_Handler},
		{MethodName: "ToggleTask", Handler: _TaskService_ToggleTask_Handler},
		{MethodName: "DeleteTask", Handler: _TaskService_DeleteTask_Handler},
		{MethodName: "SetFilter", Handler: _TaskService_SetFilter_Handler},
		{MethodName: "ListTasks", Handler: _TaskService_ListTasks_Handler},
		{MethodName: "GetStats", Handler: _TaskService_GetStats_Handler},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "WatchTasks",
			Handler:       _TaskService_WatchTasks_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "todo/v1/task.json",
}
