package bolt

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/taskdeck/bot/domain"
)

var (
	bucketTasks = []byte("tasks")
	bucketUsers = []byte("users")
)

// Store wraps a BoltDB file holding the tasks and users buckets. The file
// is opened on the first repository call and reused for the process
// lifetime.
type Store struct {
	path string

	mu sync.Mutex
	db *bolt.DB
}

// NewStore records the file path without opening it.
func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) acquire() (*bolt.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db, nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, storageErr(err)
	}
	db, err := bolt.Open(s.path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, storageErr(err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketTasks); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketUsers)
		return err
	}); err != nil {
		db.Close()
		return nil, storageErr(err)
	}

	s.db = db
	return s.db, nil
}

func (s *Store) update(fn func(tx *bolt.Tx) error) error {
	db, err := s.acquire()
	if err != nil {
		return err
	}
	return db.Update(fn)
}

func (s *Store) view(fn func(tx *bolt.Tx) error) error {
	db, err := s.acquire()
	if err != nil {
		return err
	}
	return db.View(fn)
}

// Ping opens the file if needed and reports whether it is usable.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.acquire()
	return err
}

// Close closes the Bolt database if it was ever opened.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func storageErr(err error) error {
	if err == nil {
		return nil
	}
	return domain.WrapError(domain.ErrCodeUnavailable, "storage unavailable", err)
}
