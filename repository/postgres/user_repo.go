package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/taskdeck/bot/domain"
	"github.com/taskdeck/bot/internal/infrastructure/postgres"
	"github.com/taskdeck/bot/repository"
)

type userRepository struct {
	pool *postgres.LazyPool
}

// NewUserRepository instantiates a Postgres-backed user repository.
func NewUserRepository(pool *postgres.LazyPool) repository.UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	pool, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, storageErr(err)
	}

	const query = `
	SELECT id, username, active_tasks, completed_tasks, completed_count
	FROM users
	WHERE id = $1
	`
	var user domain.User
	if err := pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.ActiveTasks,
		&user.CompletedTasks,
		&user.CompletedCount,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, storageErr(err)
	}
	return &user, nil
}

// AttachTask upserts the user row and adds the task to its active set in a
// single statement, so repeated calls cannot duplicate the membership.
func (r *userRepository) AttachTask(ctx context.Context, userID, username, taskID string) error {
	pool, err := r.pool.Acquire(ctx)
	if err != nil {
		return storageErr(err)
	}

	const query = `
	INSERT INTO users (id, username, active_tasks, completed_tasks, completed_count)
	VALUES ($1, $2, ARRAY[$3::text], '{}', 0)
	ON CONFLICT (id) DO UPDATE
	SET username = EXCLUDED.username,
		active_tasks = CASE
			WHEN $3 = ANY(users.active_tasks) THEN users.active_tasks
			ELSE array_append(users.active_tasks, $3)
		END
	`
	_, err = pool.Exec(ctx, query, userID, username, taskID)
	return storageErr(err)
}

func (r *userRepository) DetachTask(ctx context.Context, userID, taskID string) error {
	pool, err := r.pool.Acquire(ctx)
	if err != nil {
		return storageErr(err)
	}

	const query = `UPDATE users SET active_tasks = array_remove(active_tasks, $2) WHERE id = $1`
	_, err = pool.Exec(ctx, query, userID, taskID)
	return storageErr(err)
}

// RecordCompletion moves the set-add and the counter increment in one
// guarded UPDATE: when the task is already in the completed set the row
// predicate fails and neither write happens.
func (r *userRepository) RecordCompletion(ctx context.Context, userID, taskID string) error {
	pool, err := r.pool.Acquire(ctx)
	if err != nil {
		return storageErr(err)
	}

	const query = `
	UPDATE users
	SET completed_tasks = array_append(completed_tasks, $2),
		completed_count = completed_count + 1
	WHERE id = $1 AND NOT ($2 = ANY(completed_tasks))
	`
	_, err = pool.Exec(ctx, query, userID, taskID)
	return storageErr(err)
}

func (r *userRepository) CountUsers(ctx context.Context) (int, error) {
	pool, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, storageErr(err)
	}

	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, storageErr(err)
	}
	return count, nil
}
