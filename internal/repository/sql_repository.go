// internal/repository/sql_repository.go
package repository

import (
	"context"
	stdsql "database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"

	"github.com/Uzipoo/ToDo-app/internal/models"
)

// TableName is the key/value table holding snapshots.
const TableName = "kv_store"

// CreateTableQuery returns the DDL for the key/value table in the given dialect.
func CreateTableQuery(dialectName string) (string, []any) {
	timeType := "timestamp"
	switch dialectName {
	case dialect.Postgres:
		timeType = "timestamptz"
	case dialect.SQLite:
		timeType = "datetime"
	}

	query := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s ("+
			"key varchar(255) NOT NULL, "+
			"value text NOT NULL, "+
			"updated_at %s NOT NULL, "+
			"PRIMARY KEY (key))",
		TableName, timeType,
	)
	return query, nil
}

func upsertQuery(dialectName, key string, data []byte, now time.Time) (string, []any) {
	return sql.Dialect(dialectName).
		Insert(TableName).
		Columns("key", "value", "updated_at").
		Values(key, string(data), now).
		OnConflict(
			sql.ConflictColumns("key"),
			sql.ResolveWithNewValues(),
		).
		Query()
}

func selectQuery(dialectName, key string) (string, []any) {
	b := sql.Dialect(dialectName)
	return b.Select("value").
		From(b.Table(TableName)).
		Where(sql.EQ("key", key)).
		Query()
}

// SQLRepository stores the snapshot as one row of kv_store. The SQL dialect
// follows the driver the handle was opened with (sqlite3 or postgres).
type SQLRepository struct {
	db      *sqlx.DB
	dialect string
	key     string
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{
		db:      db,
		dialect: db.DriverName(),
		key:     SnapshotKey,
	}
}

func (r *SQLRepository) Save(ctx context.Context, tasks []models.Task) error {
	data, err := EncodeSnapshot(tasks)
	if err != nil {
		return err
	}

	query, args := upsertQuery(r.dialect, r.key, data, time.Now().UTC())
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *SQLRepository) Load(ctx context.Context) ([]models.Task, bool, error) {
	query, args := selectQuery(r.dialect, r.key)

	var value string
	if err := r.db.GetContext(ctx, &value, query, args...); err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load snapshot: %w", err)
	}
	return decodeLoaded([]byte(value), r.dialect)
}
