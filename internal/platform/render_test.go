package platform

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/taskdeck/bot/domain"
)

func sampleTask() *domain.Task {
	due := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	return &domain.Task{
		ID:          uuid.NewString(),
		CreatorID:   "creator",
		Title:       "Ship release",
		Description: "cut the tag",
		Priority:    domain.PriorityHigh,
		DueDate:     &due,
		ChannelRef:  "chan-1",
		MessageRef:  "msg-1",
		CreatedAt:   time.Now().UTC(),
	}
}

func TestTaskMessageCarriesLifecycleButtons(t *testing.T) {
	task := sampleTask()
	msg := TaskMessage(task)

	if len(msg.Buttons) != 2 {
		t.Fatalf("len(Buttons) = %d, want 2", len(msg.Buttons))
	}
	wantIDs := map[string]bool{
		FormatCustomID(ActionCancel, task.ID):   true,
		FormatCustomID(ActionComplete, task.ID): true,
	}
	for _, b := range msg.Buttons {
		if !wantIDs[b.CustomID] {
			t.Fatalf("unexpected button custom id %q", b.CustomID)
		}
	}
	if msg.Embeds[0].Fields[1].Value != "Mar 15, 2024" {
		t.Fatalf("due field = %q, want formatted date", msg.Embeds[0].Fields[1].Value)
	}
}

func TestTaskMessageUnsharedShowsSelf(t *testing.T) {
	task := sampleTask()
	msg := TaskMessage(task)
	if msg.Embeds[0].Fields[2].Value != "Self" {
		t.Fatalf("shared field = %q, want Self", msg.Embeds[0].Fields[2].Value)
	}
}

func TestTaskMessageSharedMentionsAssignees(t *testing.T) {
	task := sampleTask()
	task.Assignees = []string{"bob", "carol"}
	msg := TaskMessage(task)
	if got := msg.Embeds[0].Fields[2].Value; got != "<@bob>, <@carol>" {
		t.Fatalf("shared field = %q, want mentions", got)
	}
}

func TestCompletedTaskMessageStripsButtons(t *testing.T) {
	task := sampleTask()
	now := time.Now().UTC()
	task.Completed = true
	task.CompletedAt = &now

	msg := CompletedTaskMessage(task)
	if len(msg.Buttons) != 0 {
		t.Fatalf("len(Buttons) = %d, want 0", len(msg.Buttons))
	}
	if !strings.Contains(msg.Embeds[0].Title, "Completed") {
		t.Fatalf("title = %q, want completion marker", msg.Embeds[0].Title)
	}
}

func TestConfirmCancelMessagePairsConfirmAndAbort(t *testing.T) {
	task := sampleTask()
	msg := ConfirmCancelMessage(task)

	if len(msg.Buttons) != 2 {
		t.Fatalf("len(Buttons) = %d, want 2", len(msg.Buttons))
	}
	wantIDs := map[string]bool{
		FormatCustomID(ActionAbortCancel, task.ID):   true,
		FormatCustomID(ActionConfirmCancel, task.ID): true,
	}
	for _, b := range msg.Buttons {
		if !wantIDs[b.CustomID] {
			t.Fatalf("unexpected button custom id %q", b.CustomID)
		}
	}
}

func TestTaskListMessageFooterShowsTotal(t *testing.T) {
	msg := TaskListMessage("**a** - b\n\n", 7)
	if got := msg.Embeds[0].Fields[0].Value; got != "7 task(s)" {
		t.Fatalf("footer = %q, want %q", got, "7 task(s)")
	}
}

func TestTaskListMessageEmptyBodyFallsBack(t *testing.T) {
	msg := TaskListMessage("", 0)
	if msg.Embeds[0].Description != "No open tasks." {
		t.Fatalf("description = %q, want fallback", msg.Embeds[0].Description)
	}
}
