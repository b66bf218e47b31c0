package repository

import (
	"context"

	"github.com/taskdeck/bot/domain"
)

// UserRepository owns the per-user task membership sets. Every mutation is
// idempotent: repeated calls with the same arguments are no-ops beyond the
// first, which makes the lifecycle engine's fan-out safe to retry.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// AttachTask ensures the user record exists and that taskID is a member
	// of its active set.
	AttachTask(ctx context.Context, userID, username, taskID string) error
	// DetachTask removes taskID from the user's active set.
	DetachTask(ctx context.Context, userID, taskID string) error
	// RecordCompletion adds taskID to the user's completed set and increments
	// the completion counter. The two writes are a single atomic operation
	// and the counter moves at most once per task.
	RecordCompletion(ctx context.Context, userID, taskID string) error
	CountUsers(ctx context.Context) (int, error)
}
