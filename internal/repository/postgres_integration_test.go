package repository

import (
	"context"
	"os/exec"
	"testing"

	"entgo.io/ent/dialect"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	_ "github.com/lib/pq"
)

// startPostgres runs a throwaway PostgreSQL container. testcontainers-go
// panics without a Docker daemon, so probe for one first.
func startPostgres(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping PostgreSQL integration test in short mode")
	}
	if err := exec.Command("docker", "info").Run(); err != nil {
		t.Skip("Docker not available, skipping PostgreSQL integration test")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("todo"),
		postgres.WithUsername("todo"),
		postgres.WithPassword("todo"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Skipf("failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return connStr
}

func TestPostgres_Adapters(t *testing.T) {
	connStr := startPostgres(t)
	ctx := context.Background()

	db, err := sqlx.Open(dialect.Postgres, connStr)
	require.NoError(t, err)
	defer db.Close()

	query, args := CreateTableQuery(dialect.Postgres)
	_, err = db.ExecContext(ctx, query, args...)
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	sqlRepo := NewSQLRepository(db)
	pgxRepo := NewPgxRepository(pool)
	require.NoError(t, pgxRepo.EnsureTable(ctx), "idempotent with the table already present")

	_, found, err := sqlRepo.Load(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = pgxRepo.Load(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	// Both adapters share the same slot: last writer wins.
	require.NoError(t, sqlRepo.Save(ctx, sampleTasks()))
	tasks, found, err := pgxRepo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	require.Len(t, tasks, 2)
	assertTaskEqual(t, sampleTasks()[1], tasks[1])

	require.NoError(t, pgxRepo.Save(ctx, sampleTasks()[1:]))
	tasks, found, err = sqlRepo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	require.Len(t, tasks, 1)
	assertTaskEqual(t, sampleTasks()[1], tasks[0])
}
