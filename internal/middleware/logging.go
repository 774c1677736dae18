package middleware

import (
	"context"
	"log"
	"time"

	"google.golang.org/grpc"
)

// LoggingInterceptor logs every call with its duration and caller.
type LoggingInterceptor struct {
	logger *log.Logger
}

func NewLoggingInterceptor(logger *log.Logger) *LoggingInterceptor {
	if logger == nil {
		logger = log.Default()
	}
	return &LoggingInterceptor{logger: logger}
}

func (l *LoggingInterceptor) Unary() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		l.log(ctx, info.FullMethod, time.Since(start), err)
		return resp, err
	}
}

func (l *LoggingInterceptor) Stream() grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		stream grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		start := time.Now()
		err := handler(srv, stream)
		l.log(stream.Context(), info.FullMethod, time.Since(start), err)
		return err
	}
}

func (l *LoggingInterceptor) log(ctx context.Context, method string, duration time.Duration, err error) {
	clientInfo := GetClientInfoFromContext(ctx)
	logLevel := "INFO"
	if err != nil {
		logLevel = "ERROR"
	}
	l.logger.Printf("[%s] %s completed in %v (ip: %s, agent: %s)",
		logLevel, method, duration, clientInfo.IPAddress, clientInfo.UserAgent)
	if err != nil {
		l.logger.Printf("[ERROR] %s error: %v", method, err)
	}
}
