package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

type scoreRepo struct {
	db        *sql.DB
	seq       *sequenceCounter
	sessionID string
}

var scoreColumns = []string{"sequence", "exercise_id", "score", "timestamp", "session_id"}

func (r *scoreRepo) Append(ctx context.Context, exerciseID string, score int, at time.Time) error {
	seq, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(ScoresTable.Name).
		Columns(scoreColumns...).
		Values(seq, exerciseID, score, at.UTC().Unix(), r.sessionID).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append score for %s: %w", exerciseID, err)
	}
	return nil
}

func (r *scoreRepo) Recent(ctx context.Context, exerciseID string, limit int) ([]ScoreRow, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(scoreColumns...).
		From(entsql.Table(ScoresTable.Name)).
		Where(entsql.EQ("exercise_id", exerciseID)).
		OrderBy(entsql.Desc("sequence"))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()
	rows, err := r.queryRows(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("query scores for %s: %w", exerciseID, err)
	}
	return rows, nil
}

func (r *scoreRepo) All(ctx context.Context) (map[string][]ScoreRow, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(scoreColumns...).
		From(entsql.Table(ScoresTable.Name)).
		OrderBy("sequence").
		Query()
	rows, err := r.queryRows(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("query all scores: %w", err)
	}
	out := make(map[string][]ScoreRow)
	for _, row := range rows {
		out[row.ExerciseID] = append(out[row.ExerciseID], row)
	}
	return out, nil
}

func (r *scoreRepo) queryRows(ctx context.Context, query string, args []any) ([]ScoreRow, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ScoreRow
	for rows.Next() {
		var (
			row ScoreRow
			ts  int64
		)
		if err := rows.Scan(&row.Sequence, &row.ExerciseID, &row.Score, &ts, &row.SessionID); err != nil {
			return nil, err
		}
		row.Timestamp = time.Unix(ts, 0).UTC()
		out = append(out, row)
	}
	return out, rows.Err()
}
