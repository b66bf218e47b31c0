package bolt

import (
	"context"
	"encoding/json"

	bolt "go.etcd.io/bbolt"

	"github.com/taskdeck/bot/domain"
	"github.com/taskdeck/bot/repository"
)

type userRepository struct {
	store *Store
}

// NewUserRepository returns a Bolt-backed implementation of UserRepository.
// Every mutation runs inside one Bolt write transaction, which gives the
// set-add plus counter increment of RecordCompletion its atomicity.
func NewUserRepository(store *Store) repository.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user *domain.User
	err := r.store.view(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketUsers).Get([]byte(id))
		if raw == nil {
			return domain.ErrUserNotFound
		}
		var u domain.User
		if err := json.Unmarshal(raw, &u); err != nil {
			return storageErr(err)
		}
		user = &u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) AttachTask(ctx context.Context, userID, username, taskID string) error {
	return r.mutate(userID, func(u *domain.User) {
		if username != "" {
			u.Username = username
		}
		u.ActiveTasks = addToSet(u.ActiveTasks, taskID)
	})
}

func (r *userRepository) DetachTask(ctx context.Context, userID, taskID string) error {
	return r.mutateExisting(userID, func(u *domain.User) {
		u.ActiveTasks = removeFromSet(u.ActiveTasks, taskID)
	})
}

func (r *userRepository) RecordCompletion(ctx context.Context, userID, taskID string) error {
	return r.mutateExisting(userID, func(u *domain.User) {
		if contains(u.CompletedTasks, taskID) {
			return
		}
		u.CompletedTasks = append(u.CompletedTasks, taskID)
		u.CompletedCount++
	})
}

func (r *userRepository) CountUsers(ctx context.Context) (int, error) {
	var count int
	err := r.store.view(func(tx *bolt.Tx) error {
		count = tx.Bucket(bucketUsers).Stats().KeyN
		return nil
	})
	return count, err
}

// mutate loads (or lazily creates) the user document and rewrites it under
// a single write transaction.
func (r *userRepository) mutate(userID string, fn func(*domain.User)) error {
	return r.apply(userID, true, fn)
}

// mutateExisting is mutate without the lazy create: mutations against an
// unknown user are idempotent no-ops.
func (r *userRepository) mutateExisting(userID string, fn func(*domain.User)) error {
	return r.apply(userID, false, fn)
}

func (r *userRepository) apply(userID string, createMissing bool, fn func(*domain.User)) error {
	if userID == "" {
		return domain.ErrInvalidPayload
	}
	return r.store.update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketUsers)
		user := domain.User{ID: userID}
		raw := b.Get([]byte(userID))
		if raw == nil && !createMissing {
			return nil
		}
		if raw != nil {
			if err := json.Unmarshal(raw, &user); err != nil {
				return storageErr(err)
			}
		}
		fn(&user)
		out, err := json.Marshal(&user)
		if err != nil {
			return storageErr(err)
		}
		return storageErr(b.Put([]byte(userID), out))
	})
}

func addToSet(set []string, v string) []string {
	if contains(set, v) {
		return set
	}
	return append(set, v)
}

func removeFromSet(set []string, v string) []string {
	out := set[:0]
	for _, s := range set {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
