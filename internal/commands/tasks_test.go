package commands

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/taskdeck/bot/domain"
	"github.com/taskdeck/bot/internal/platform"
	"github.com/taskdeck/bot/repository/memory"
)

func seedTask(t *testing.T, store *memory.Store, userID, title string, priority domain.Priority) *domain.Task {
	t.Helper()
	ctx := context.Background()
	task := &domain.Task{
		ID:          uuid.NewString(),
		CreatorID:   userID,
		Title:       title,
		Description: "details",
		Priority:    priority,
		ChannelRef:  "chan-1",
		MessageRef:  "msg-1",
	}
	if err := store.Tasks().Create(ctx, task); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := store.Users().AttachTask(ctx, userID, "alice", task.ID); err != nil {
		t.Fatalf("AttachTask() error = %v", err)
	}
	return task
}

func runTasks(t *testing.T, store *memory.Store, chat *platform.MockClient, userID string) {
	t.Helper()
	cmd := NewTasksCommand(store.Tasks(), store.Users(), chat, true)
	err := cmd.Run(context.Background(), domain.Interaction{
		Kind:   domain.InteractionCommand,
		UserID: userID,
		Token:  "tok",
	})
	if err != nil {
		t.Fatalf("tasks Run() error = %v", err)
	}
}

func TestTasksUnknownUserGetsOnboardingReply(t *testing.T) {
	store := memory.NewStore()
	chat := platform.NewMockClient()

	runTasks(t, store, chat, "stranger")

	reply := chat.LastReply()
	if reply == nil {
		t.Fatal("no reply sent")
	}
	if !strings.Contains(reply.Message.Content, "/todo") {
		t.Fatalf("reply = %q, want onboarding hint", reply.Message.Content)
	}
	if !reply.Ephemeral {
		t.Fatal("onboarding reply not ephemeral")
	}
}

func TestTasksSortsByPriorityDescendingStable(t *testing.T) {
	store := memory.NewStore()
	chat := platform.NewMockClient()

	// Insertion order low, high-1, medium, high-2. Equal ranks keep
	// encounter order, so high-1 must stay ahead of high-2.
	seedTask(t, store, "alice", "low task", domain.PriorityLow)
	seedTask(t, store, "alice", "first high", domain.PriorityHigh)
	seedTask(t, store, "alice", "medium task", domain.PriorityMedium)
	seedTask(t, store, "alice", "second high", domain.PriorityHigh)

	runTasks(t, store, chat, "alice")

	reply := chat.LastReply()
	if reply == nil {
		t.Fatal("no reply sent")
	}
	body := reply.Message.Embeds[0].Description

	order := []string{"first high", "second high", "medium task", "low task"}
	pos := -1
	for _, title := range order {
		at := strings.Index(body, title)
		if at < 0 {
			t.Fatalf("listing missing %q:\n%s", title, body)
		}
		if at < pos {
			t.Fatalf("listing out of order, %q appears early:\n%s", title, body)
		}
		pos = at
	}
}

func TestTasksSkipsDanglingIDs(t *testing.T) {
	store := memory.NewStore()
	chat := platform.NewMockClient()
	ctx := context.Background()

	seedTask(t, store, "alice", "real task", domain.PriorityMedium)
	if err := store.Users().AttachTask(ctx, "alice", "alice", uuid.NewString()); err != nil {
		t.Fatalf("AttachTask() error = %v", err)
	}

	runTasks(t, store, chat, "alice")

	reply := chat.LastReply()
	if reply == nil {
		t.Fatal("no reply sent")
	}
	embed := reply.Message.Embeds[0]
	if !strings.Contains(embed.Description, "real task") {
		t.Fatalf("listing missing surviving task:\n%s", embed.Description)
	}
	if embed.Fields[0].Value != "1 task(s)" {
		t.Fatalf("footer = %q, want %q", embed.Fields[0].Value, "1 task(s)")
	}
}

func TestTasksOnlyDanglingIDsGetsOnboardingReply(t *testing.T) {
	store := memory.NewStore()
	chat := platform.NewMockClient()
	ctx := context.Background()

	if err := store.Users().AttachTask(ctx, "alice", "alice", uuid.NewString()); err != nil {
		t.Fatalf("AttachTask() error = %v", err)
	}

	runTasks(t, store, chat, "alice")

	reply := chat.LastReply()
	if reply == nil {
		t.Fatal("no reply sent")
	}
	if !strings.Contains(reply.Message.Content, "/todo") {
		t.Fatalf("reply = %q, want onboarding hint", reply.Message.Content)
	}
}

func TestTasksTruncatesOnEntryBoundaryKeepsFullCount(t *testing.T) {
	store := memory.NewStore()
	chat := platform.NewMockClient()
	ctx := context.Background()

	// Enough long entries to overflow the 4096-char body.
	long := strings.Repeat("x", 400)
	total := 20
	for i := 0; i < total; i++ {
		task := &domain.Task{
			ID:          uuid.NewString(),
			CreatorID:   "alice",
			Title:       fmt.Sprintf("task %02d %s", i, long),
			Description: "details",
			Priority:    domain.PriorityMedium,
			ChannelRef:  "chan-1",
			MessageRef:  "msg-1",
		}
		if err := store.Tasks().Create(ctx, task); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if err := store.Users().AttachTask(ctx, "alice", "alice", task.ID); err != nil {
			t.Fatalf("AttachTask() error = %v", err)
		}
	}

	runTasks(t, store, chat, "alice")

	reply := chat.LastReply()
	if reply == nil {
		t.Fatal("no reply sent")
	}
	embed := reply.Message.Embeds[0]
	if len(embed.Description) > maxListBody {
		t.Fatalf("body length = %d, exceeds %d", len(embed.Description), maxListBody)
	}
	// Entries end with a blank line; a truncated body must too, proving
	// no entry was cut mid-way.
	if !strings.HasSuffix(embed.Description, "\n\n") {
		t.Fatal("body does not end on an entry boundary")
	}
	if want := fmt.Sprintf("%d task(s)", total); embed.Fields[0].Value != want {
		t.Fatalf("footer = %q, want %q", embed.Fields[0].Value, want)
	}
}
