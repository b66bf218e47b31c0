package platform

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Action names the lifecycle transition a button press requests. The
// custom id "<action>:<taskId>" is the one wire contract owned end to end
// by this codebase: buttons are emitted with FormatCustomID and decoded
// with ParseCustomID.
type Action string

const (
	ActionComplete      Action = "complete_task"
	ActionCancel        Action = "cancel_task"
	ActionConfirmCancel Action = "confirm_cancel_task"
	ActionAbortCancel   Action = "cancel_cancel_task"
)

// FormatCustomID builds the control identifier for a task action.
func FormatCustomID(action Action, taskID string) string {
	return fmt.Sprintf("%s:%s", action, taskID)
}

// ParseCustomID splits a control identifier and validates its parts. The
// task id must be a well-formed UUID so that stray identifiers from other
// bots or older revisions are dropped early.
func ParseCustomID(customID string) (Action, string, error) {
	action, taskID, ok := strings.Cut(customID, ":")
	if !ok || taskID == "" {
		return "", "", fmt.Errorf("custom id %q has no task id", customID)
	}

	switch Action(action) {
	case ActionComplete, ActionCancel, ActionConfirmCancel, ActionAbortCancel:
	default:
		return "", "", fmt.Errorf("custom id %q has unknown action", customID)
	}

	if _, err := uuid.Parse(taskID); err != nil {
		return "", "", fmt.Errorf("custom id %q has malformed task id: %w", customID, err)
	}
	return Action(action), taskID, nil
}
