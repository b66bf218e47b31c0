// Package memory provides an in-process implementation of the repository
// contracts for local development and tests. Semantics mirror the durable
// backends: idempotent set mutations, lazy user creation, NotFound
// sentinels.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/taskdeck/bot/domain"
	"github.com/taskdeck/bot/repository"
)

// Store holds both collections behind one mutex so each operation is
// atomic with respect to the others.
type Store struct {
	mu    sync.RWMutex
	tasks map[string]domain.Task
	users map[string]domain.User
}

func NewStore() *Store {
	return &Store{
		tasks: make(map[string]domain.Task),
		users: make(map[string]domain.User),
	}
}

// Tasks returns the TaskRepository view of the store.
func (s *Store) Tasks() repository.TaskRepository { return &taskRepo{s} }

// Users returns the UserRepository view of the store.
func (s *Store) Users() repository.UserRepository { return &userRepo{s} }

type taskRepo struct{ s *Store }

func (r *taskRepo) Create(_ context.Context, task *domain.Task) error {
	if task == nil || task.ID == "" {
		return domain.ErrInvalidPayload
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.tasks[task.ID] = cloneTask(*task)
	return nil
}

func (r *taskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	task, ok := r.s.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	out := cloneTask(task)
	return &out, nil
}

func (r *taskRepo) Update(_ context.Context, task *domain.Task) error {
	if task == nil || task.ID == "" {
		return domain.ErrInvalidPayload
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tasks[task.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	r.s.tasks[task.ID] = cloneTask(*task)
	return nil
}

func (r *taskRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.s.tasks, id)
	return nil
}

func (r *taskRepo) ListDueOn(_ context.Context, day time.Time) ([]domain.Task, error) {
	y, m, d := day.Date()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.Task
	for _, task := range r.s.tasks {
		if task.Completed || task.DueDate == nil {
			continue
		}
		ty, tm, td := task.DueDate.Date()
		if ty == y && tm == m && td == d {
			out = append(out, cloneTask(task))
		}
	}
	return out, nil
}

func (r *taskRepo) CountTasks(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.tasks), nil
}

type userRepo struct{ s *Store }

func (r *userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := cloneUser(user)
	return &out, nil
}

func (r *userRepo) AttachTask(_ context.Context, userID, username, taskID string) error {
	if userID == "" {
		return domain.ErrInvalidPayload
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[userID]
	if !ok {
		user = domain.User{ID: userID}
	}
	if username != "" {
		user.Username = username
	}
	if !contains(user.ActiveTasks, taskID) {
		user.ActiveTasks = append(user.ActiveTasks, taskID)
	}
	r.s.users[userID] = user
	return nil
}

func (r *userRepo) DetachTask(_ context.Context, userID, taskID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[userID]
	if !ok {
		return nil
	}
	out := user.ActiveTasks[:0]
	for _, id := range user.ActiveTasks {
		if id != taskID {
			out = append(out, id)
		}
	}
	user.ActiveTasks = out
	r.s.users[userID] = user
	return nil
}

func (r *userRepo) RecordCompletion(_ context.Context, userID, taskID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[userID]
	if !ok {
		return nil
	}
	if contains(user.CompletedTasks, taskID) {
		return nil
	}
	user.CompletedTasks = append(user.CompletedTasks, taskID)
	user.CompletedCount++
	r.s.users[userID] = user
	return nil
}

func (r *userRepo) CountUsers(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.users), nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func cloneTask(t domain.Task) domain.Task {
	t.Assignees = append([]string(nil), t.Assignees...)
	return t
}

func cloneUser(u domain.User) domain.User {
	u.ActiveTasks = append([]string(nil), u.ActiveTasks...)
	u.CompletedTasks = append([]string(nil), u.CompletedTasks...)
	return u
}
