package bolt

import (
	"context"
	"encoding/json"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/taskdeck/bot/domain"
	"github.com/taskdeck/bot/repository"
)

type taskRepository struct {
	store *Store
}

// NewTaskRepository returns a Bolt-backed implementation of TaskRepository.
func NewTaskRepository(store *Store) repository.TaskRepository {
	return &taskRepository{store: store}
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	if task == nil || task.ID == "" {
		return domain.ErrInvalidPayload
	}
	return r.put(task)
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	var task *domain.Task
	err := r.store.view(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketTasks).Get([]byte(id))
		if raw == nil {
			return domain.ErrTaskNotFound
		}
		var t domain.Task
		if err := json.Unmarshal(raw, &t); err != nil {
			return storageErr(err)
		}
		task = &t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil || task.ID == "" {
		return domain.ErrInvalidPayload
	}
	return r.store.update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTasks)
		if b.Get([]byte(task.ID)) == nil {
			return domain.ErrTaskNotFound
		}
		raw, err := json.Marshal(task)
		if err != nil {
			return storageErr(err)
		}
		return storageErr(b.Put([]byte(task.ID), raw))
	})
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	return r.store.update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTasks)
		if b.Get([]byte(id)) == nil {
			return domain.ErrTaskNotFound
		}
		return storageErr(b.Delete([]byte(id)))
	})
}

func (r *taskRepository) ListDueOn(ctx context.Context, day time.Time) ([]domain.Task, error) {
	y, m, d := day.Date()
	var tasks []domain.Task
	err := r.store.view(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTasks).ForEach(func(_, raw []byte) error {
			var t domain.Task
			if err := json.Unmarshal(raw, &t); err != nil {
				return nil
			}
			if t.Completed || t.DueDate == nil {
				return nil
			}
			ty, tm, td := t.DueDate.Date()
			if ty == y && tm == m && td == d {
				tasks = append(tasks, t)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) CountTasks(ctx context.Context) (int, error) {
	var count int
	err := r.store.view(func(tx *bolt.Tx) error {
		count = tx.Bucket(bucketTasks).Stats().KeyN
		return nil
	})
	return count, err
}

func (r *taskRepository) put(task *domain.Task) error {
	return r.store.update(func(tx *bolt.Tx) error {
		raw, err := json.Marshal(task)
		if err != nil {
			return storageErr(err)
		}
		return storageErr(tx.Bucket(bucketTasks).Put([]byte(task.ID), raw))
	})
}
