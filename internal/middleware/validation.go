// internal/middleware/validation.go
package middleware

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	taskv1 "github.com/Uzipoo/ToDo-app/api/task/v1"
	"github.com/Uzipoo/ToDo-app/internal/models"
)

// maxIDLength bounds ids accepted from clients; generated ids are 36 chars.
const maxIDLength = 128

// ValidationInterceptor rejects malformed TaskService requests before they
// reach the store. Blank task text is deliberately not rejected here: the
// store treats it as a no-op.
type ValidationInterceptor struct{}

func NewValidationInterceptor() *ValidationInterceptor {
	return &ValidationInterceptor{}
}

// Unary returns a unary server interceptor for request validation
func (v *ValidationInterceptor) Unary() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if err := v.validateRequest(req); err != nil {
			return nil, err
		}
		return handler(ctx, req)
	}
}

func (v *ValidationInterceptor) validateRequest(req interface{}) error {
	switch r := req.(type) {
	case *taskv1.TaskIDRequest:
		return validateTaskID(r.ID)
	case *taskv1.SetFilterRequest:
		if _, err := models.ParseFilter(r.Filter); err != nil {
			return status.Error(codes.InvalidArgument, err.Error())
		}
	case *taskv1.ListTasksRequest:
		if _, err := models.ParseFilter(r.Filter); err != nil {
			return status.Error(codes.InvalidArgument, err.Error())
		}
	case *taskv1.AddTaskRequest:
		if r.DueDate != nil && r.DueDate.IsZero() {
			return status.Error(codes.InvalidArgument, "due date must not be the zero time")
		}
	}
	return nil
}

func validateTaskID(id string) error {
	switch {
	case strings.TrimSpace(id) == "":
		return status.Error(codes.InvalidArgument, "id is required")
	case len(id) > maxIDLength:
		return status.Errorf(codes.InvalidArgument, "id must be at most %d characters", maxIDLength)
	}
	return nil
}
