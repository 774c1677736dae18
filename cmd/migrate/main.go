package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/Uzipoo/ToDo-app/internal/config"
	"github.com/Uzipoo/ToDo-app/internal/database"
	"github.com/Uzipoo/ToDo-app/internal/repository"
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

	ctx := context.Background()
	log.Printf("Running %s migrations...", cfg.Database.Driver)

	switch cfg.Database.Driver {
	case config.DriverMemory:
		log.Println("Memory storage has no schema; nothing to do")
		return

	case config.DriverPgx:
		pool, err := database.OpenPgxPool(ctx, cfg.ToDatabaseConfig())
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer pool.Close()
		if err := repository.NewPgxRepository(pool).EnsureTable(ctx); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}

	default:
		db, err := database.Open(ctx, cfg.ToDatabaseConfig())
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	log.Println("Migrations completed successfully")
}
