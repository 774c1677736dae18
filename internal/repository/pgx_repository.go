package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Uzipoo/ToDo-app/internal/models"
)

// PgxRepository is SQLRepository over a native pgx pool.
type PgxRepository struct {
	pool *pgxpool.Pool
	key  string
}

func NewPgxRepository(pool *pgxpool.Pool) *PgxRepository {
	return &PgxRepository{pool: pool, key: SnapshotKey}
}

// EnsureTable creates kv_store if it doesn't exist.
func (r *PgxRepository) EnsureTable(ctx context.Context) error {
	query, args := CreateTableQuery(dialect.Postgres)
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("create %s: %w", TableName, err)
	}
	return nil
}

func (r *PgxRepository) Save(ctx context.Context, tasks []models.Task) error {
	data, err := EncodeSnapshot(tasks)
	if err != nil {
		return err
	}

	query, args := upsertQuery(dialect.Postgres, r.key, data, time.Now().UTC())
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *PgxRepository) Load(ctx context.Context) ([]models.Task, bool, error) {
	query, args := selectQuery(dialect.Postgres, r.key)

	var value string
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load snapshot: %w", err)
	}
	return decodeLoaded([]byte(value), "pgx")
}
