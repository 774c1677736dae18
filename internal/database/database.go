// internal/database/database.go
package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"entgo.io/ent/dialect"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Uzipoo/ToDo-app/internal/repository"
)

// Config for database connection
type Config struct {
	Driver     string // sqlite3, postgres or pgx
	SQLitePath string
	Host       string
	Port       int
	User       string
	Password   string
	DBName     string
	SSLMode    string
}

// DSN builds the driver-specific connection string.
func (c Config) DSN() string {
	switch c.Driver {
	case dialect.SQLite:
		return fmt.Sprintf("file:%s?cache=shared&_fk=1&_busy_timeout=5000", c.SQLitePath)
	case "pgx":
		return fmt.Sprintf(
			"postgres://%s:%s@%s:%d/%s?sslmode=%s",
			c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
		)
	default:
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
		)
	}
}

// Open connects to sqlite3 or postgres and verifies the connection.
func Open(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	if cfg.Driver != dialect.SQLite && cfg.Driver != dialect.Postgres {
		return nil, fmt.Errorf("unsupported sql driver %q", cfg.Driver)
	}

	db, err := sqlx.Open(cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Configure connection pool
	if cfg.Driver == dialect.SQLite {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Printf("[INFO] Connected to %s", cfg.Driver)
	return db, nil
}

// OpenPgxPool connects a native pgx pool and verifies the connection.
func OpenPgxPool(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	poolCfg.MaxConns = 25
	poolCfg.MaxConnLifetime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Println("[INFO] Connected to PostgreSQL with pgx")
	return pool, nil
}

// Migrate creates the snapshot table if it is missing.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	query, args := repository.CreateTableQuery(db.DriverName())
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("run migration: %w", err)
	}
	return nil
}
