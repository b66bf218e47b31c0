package commands

import (
	"sync"
	"time"
)

// CooldownTable is the per-command, per-user rate-limit record. Entries
// live in process memory and expire through a per-entry timer, so a
// restart forgets all cooldowns; they are a courtesy, not a security
// boundary.
type CooldownTable struct {
	mu      sync.Mutex
	entries map[string]map[string]time.Time
	now     func() time.Time
	after   func(time.Duration, func()) // timer hook, swapped in tests
}

func NewCooldownTable() *CooldownTable {
	return &CooldownTable{
		entries: make(map[string]map[string]time.Time),
		now:     time.Now,
		after: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
	}
}

// Touch records a use of command by user. When the previous use is still
// inside the window it returns the remaining wait and true without
// refreshing the record.
func (t *CooldownTable) Touch(command, userID string, window time.Duration) (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	users, ok := t.entries[command]
	if !ok {
		users = make(map[string]time.Time)
		t.entries[command] = users
	}

	now := t.now()
	if last, ok := users[userID]; ok {
		expiry := last.Add(window)
		if now.Before(expiry) {
			return expiry.Sub(now), true
		}
	}

	users[userID] = now
	t.after(window, func() {
		t.expire(command, userID, now)
	})
	return 0, false
}

// expire drops the entry only if it still belongs to the use that armed
// the timer.
func (t *CooldownTable) expire(command, userID string, stamped time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if users, ok := t.entries[command]; ok {
		if last, ok := users[userID]; ok && last.Equal(stamped) {
			delete(users, userID)
		}
	}
}
