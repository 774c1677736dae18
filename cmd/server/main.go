// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	taskv1 "github.com/Uzipoo/ToDo-app/api/task/v1"
	"github.com/Uzipoo/ToDo-app/internal/config"
	"github.com/Uzipoo/ToDo-app/internal/database"
	"github.com/Uzipoo/ToDo-app/internal/httpapi"
	"github.com/Uzipoo/ToDo-app/internal/middleware"
	"github.com/Uzipoo/ToDo-app/internal/repository"
	"github.com/Uzipoo/ToDo-app/internal/service"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.ValidateConfig(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx := context.Background()

	repo, closeRepo, err := openRepository(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer closeRepo()

	store := service.NewTaskStore(repo)
	if err := store.Initialize(ctx); err != nil {
		log.Printf("[ERROR] %v; starting with an empty list", err)
	}
	log.Printf("Loaded %d tasks from %s storage", len(store.Tasks()), cfg.Database.Driver)

	metadataExtractor := middleware.NewMetadataExtractorInterceptor()
	validationInterceptor := middleware.NewValidationInterceptor()
	loggingInterceptor := middleware.NewLoggingInterceptor(nil)

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			metadataExtractor.Unary(),
			validationInterceptor.Unary(),
			loggingInterceptor.Unary(),
		),
		grpc.ChainStreamInterceptor(
			metadataExtractor.Stream(),
			loggingInterceptor.Stream(),
		),
	)
	taskv1.RegisterTaskServiceServer(grpcServer, service.NewTaskService(store))

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(taskv1.TaskService_ServiceDesc.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.Server.GRPCPort))
	if err != nil {
		log.Fatalf("Failed to listen: %v", err)
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	httpServer := httpapi.NewServer(store).NewHTTPServer(fmt.Sprintf(":%s", cfg.Server.HTTPPort))

	go func() {
		log.Printf("ToDo gRPC server listening on port %s", cfg.Server.GRPCPort)
		if err := grpcServer.Serve(listener); err != nil {
			log.Fatalf("Failed to serve gRPC: %v", err)
		}
	}()
	go func() {
		log.Printf("ToDo HTTP API listening on port %s", cfg.Server.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to serve HTTP: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	healthServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown: %v", err)
	}
	grpcServer.GracefulStop()
	log.Println("Server shutdown complete")
}

// openRepository builds the snapshot repository for the configured driver.
func openRepository(ctx context.Context, cfg *config.Config) (repository.SnapshotRepository, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		log.Println("Using in-memory storage; tasks are lost on restart")
		return repository.NewMemoryRepository(), func() {}, nil

	case config.DriverPgx:
		pool, err := database.OpenPgxPool(ctx, cfg.ToDatabaseConfig())
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewPgxRepository(pool)
		if cfg.Database.AutoMigrate {
			if err := repo.EnsureTable(ctx); err != nil {
				pool.Close()
				return nil, nil, err
			}
		}
		return repo, pool.Close, nil

	default:
		db, err := database.Open(ctx, cfg.ToDatabaseConfig())
		if err != nil {
			return nil, nil, err
		}
		if cfg.Database.AutoMigrate {
			log.Println("Running auto migration...")
			if err := database.Migrate(ctx, db); err != nil {
				db.Close()
				return nil, nil, err
			}
		}
		closeDB := func() {
			if err := db.Close(); err != nil {
				log.Printf("Failed to close database connection: %v", err)
			}
		}
		return repository.NewSQLRepository(db), closeDB, nil
	}
}
