package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taskdeck/bot/domain"
	"github.com/taskdeck/bot/internal/infrastructure/postgres"
	"github.com/taskdeck/bot/repository"
)

type taskRepository struct {
	pool *postgres.LazyPool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
// The pool connects on the first call, not here.
func NewTaskRepository(pool *postgres.LazyPool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	pool, err := r.pool.Acquire(ctx)
	if err != nil {
		return storageErr(err)
	}

	const query = `
	INSERT INTO tasks (id, creator_id, title, description, priority, due_date, assignees, channel_ref, message_ref, shared, completed, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = pool.Exec(ctx, query,
		task.ID,
		task.CreatorID,
		task.Title,
		task.Description,
		string(task.Priority),
		task.DueDate,
		task.Assignees,
		task.ChannelRef,
		task.MessageRef,
		task.Shared,
		task.Completed,
		task.CreatedAt,
	)
	return storageErr(err)
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	pool, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, storageErr(err)
	}

	const query = `
	SELECT id, creator_id, title, description, priority, due_date, assignees, channel_ref, message_ref, shared, completed, completed_at, created_at
	FROM tasks
	WHERE id = $1
	`
	return scanTask(pool.QueryRow(ctx, query, id))
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	pool, err := r.pool.Acquire(ctx)
	if err != nil {
		return storageErr(err)
	}

	const query = `
	UPDATE tasks
	SET title = $2,
		description = $3,
		priority = $4,
		due_date = $5,
		assignees = $6,
		channel_ref = $7,
		message_ref = $8,
		shared = $9,
		completed = $10,
		completed_at = $11
	WHERE id = $1
	`
	tag, err := pool.Exec(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		string(task.Priority),
		task.DueDate,
		task.Assignees,
		task.ChannelRef,
		task.MessageRef,
		task.Shared,
		task.Completed,
		task.CompletedAt,
	)
	if err != nil {
		return storageErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	pool, err := r.pool.Acquire(ctx)
	if err != nil {
		return storageErr(err)
	}

	const query = `DELETE FROM tasks WHERE id = $1`
	tag, err := pool.Exec(ctx, query, id)
	if err != nil {
		return storageErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) ListDueOn(ctx context.Context, day time.Time) ([]domain.Task, error) {
	pool, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, storageErr(err)
	}

	const query = `
	SELECT id, creator_id, title, description, priority, due_date, assignees, channel_ref, message_ref, shared, completed, completed_at, created_at
	FROM tasks
	WHERE completed = FALSE AND due_date = $1::date
	ORDER BY created_at
	`
	rows, err := pool.Query(ctx, query, day.Truncate(24*time.Hour))
	if err != nil {
		return nil, storageErr(err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, storageErr(rows.Err())
}

func (r *taskRepository) CountTasks(ctx context.Context) (int, error) {
	pool, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, storageErr(err)
	}

	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&count); err != nil {
		return 0, storageErr(err)
	}
	return count, nil
}

func scanTask(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Task, error) {
	var task domain.Task
	var priority string

	if err := row.Scan(
		&task.ID,
		&task.CreatorID,
		&task.Title,
		&task.Description,
		&priority,
		&task.DueDate,
		&task.Assignees,
		&task.ChannelRef,
		&task.MessageRef,
		&task.Shared,
		&task.Completed,
		&task.CompletedAt,
		&task.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, storageErr(err)
	}

	task.Priority = domain.Priority(priority)
	return &task, nil
}
