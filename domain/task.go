package domain

import "time"

// Task represents a tracked item attached to a rendered chat message.
type Task struct {
	ID          string     `json:"id"`
	CreatorID   string     `json:"creator_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Assignees   []string   `json:"assignees,omitempty"`
	ChannelRef  string     `json:"channel_ref"`
	MessageRef  string     `json:"message_ref"`
	Shared      bool       `json:"shared"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Completed
}

// Participants returns the creator plus all assignees, deduplicated,
// creator first. Fan-out over completion and cancellation iterates this
// slice, so a creator who self-assigns is never visited twice.
func (t *Task) Participants() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.Assignees)+1)
	seen := make(map[string]struct{}, len(t.Assignees)+1)
	out = append(out, t.CreatorID)
	seen[t.CreatorID] = struct{}{}
	for _, id := range t.Assignees {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
