package store

import (
	"context"

	"healthtrack/internal/exam"
	"healthtrack/internal/goals"
)

// Repository holds the exam history and the small amount of user state
// around it. Exam records are append-only: there is no update or delete.
type Repository interface {
	// Append stores r. A record with an existing id is a conflict.
	Append(ctx context.Context, r exam.Record) error
	// List returns every record in insertion order.
	List(ctx context.Context) ([]exam.Record, error)
	Get(ctx context.Context, id string) (exam.Record, error)

	MarkRead(ctx context.Context, notificationIDs ...string) error
	ReadIDs(ctx context.Context) (map[string]bool, error)

	AddGoal(ctx context.Context, g goals.Goal) error
	ListGoals(ctx context.Context) ([]goals.Goal, error)
	// UpdateGoalProgress sets the goal's current value and returns the
	// updated goal.
	UpdateGoalProgress(ctx context.Context, id string, value float64) (goals.Goal, error)
}
