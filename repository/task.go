package repository

import (
	"context"
	"time"

	"github.com/taskdeck/bot/domain"
)

// TaskRepository is the persistence contract for task documents.
// Implementations must be safe to call before any connection exists; the
// first call establishes the backing store exactly once. Failures are
// propagated, never retried here.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id string) error
	// ListDueOn returns open tasks whose due date falls on the given day.
	ListDueOn(ctx context.Context, day time.Time) ([]domain.Task, error)
	CountTasks(ctx context.Context) (int, error)
}
