package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// unitSetRepo backs both the blacklist and the review list. The two tables
// share a layout and differ only in name.
type unitSetRepo struct {
	db    *sql.DB
	table string
}

func (r *unitSetRepo) Add(ctx context.Context, unitID string) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(r.table).
		Columns("unit_id", "added_at").
		Values(unitID, time.Now().UTC().UnixNano()).
		OnConflict(entsql.ConflictColumns("unit_id"), entsql.DoNothing()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("add %s to %s: %w", unitID, r.table, err)
	}
	return nil
}

func (r *unitSetRepo) Remove(ctx context.Context, unitID string) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(r.table).
		Where(entsql.EQ("unit_id", unitID)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("remove %s from %s: %w", unitID, r.table, err)
	}
	return nil
}

func (r *unitSetRepo) List(ctx context.Context) ([]string, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("unit_id").
		From(entsql.Table(r.table)).
		OrderBy("added_at", "unit_id").
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.table, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
