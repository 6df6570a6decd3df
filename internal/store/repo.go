package store

import (
	"context"
	"time"
)

// ScoreRow is one recorded mastery score.
type ScoreRow struct {
	Sequence   int64
	ExerciseID string
	Score      int
	Timestamp  time.Time
	SessionID  string
}

// ScoreRepo records and queries exercise scores.
type ScoreRepo interface {
	// Append records a score for an exercise.
	Append(ctx context.Context, exerciseID string, score int, at time.Time) error

	// Recent returns up to limit scores for an exercise, newest first.
	// A limit of 0 means unlimited.
	Recent(ctx context.Context, exerciseID string, limit int) ([]ScoreRow, error)

	// All returns every score grouped by exercise, oldest first.
	All(ctx context.Context) (map[string][]ScoreRow, error)
}

// UnitSetRepo manages a persistent set of unit IDs.
type UnitSetRepo interface {
	// Add inserts a unit. Adding an existing unit is a no-op.
	Add(ctx context.Context, unitID string) error

	// Remove deletes a unit. Removing a missing unit is a no-op.
	Remove(ctx context.Context, unitID string) error

	// List returns all units in insertion order.
	List(ctx context.Context) ([]string, error)
}
