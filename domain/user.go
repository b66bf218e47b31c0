package domain

// User tracks which tasks a platform identity participates in.
// Records are created lazily on first task assignment and never deleted
// by the lifecycle engine.
type User struct {
	ID             string   `json:"id"`
	Username       string   `json:"username,omitempty"`
	ActiveTasks    []string `json:"active_tasks,omitempty"`
	CompletedTasks []string `json:"completed_tasks,omitempty"`
	CompletedCount int      `json:"completed_count"`
}

// HasActiveTask reports whether taskID is in the user's active set.
func (u *User) HasActiveTask(taskID string) bool {
	if u == nil {
		return false
	}
	for _, id := range u.ActiveTasks {
		if id == taskID {
			return true
		}
	}
	return false
}
