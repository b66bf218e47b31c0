package interactions

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/taskdeck/bot/domain"
	"github.com/taskdeck/bot/internal/commands"
	"github.com/taskdeck/bot/internal/platform"
	"github.com/taskdeck/bot/repository/memory"
	taskUC "github.com/taskdeck/bot/usecase/task"
)

func newTestRouter() (*Router, *memory.Store, *platform.MockClient) {
	store := memory.NewStore()
	chat := platform.NewMockClient()
	engine := taskUC.NewEngine(store.Tasks(), store.Users(), chat, nil, nil)
	registry := commands.NewRegistry(chat, nil)
	return NewRouter(registry, engine, nil, nil), store, chat
}

func createTask(t *testing.T, store *memory.Store, chat *platform.MockClient) *domain.Task {
	t.Helper()
	engine := taskUC.NewEngine(store.Tasks(), store.Users(), chat, nil, nil)
	task, err := engine.Create(context.Background(), taskUC.CreateInput{
		CreatorID: "creator",
		ChannelID: "chan-1",
		Title:     "Routed task",
		Priority:  domain.PriorityMedium,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return task
}

func buttonPress(customID, messageRef string) domain.Interaction {
	return domain.Interaction{
		Kind:       domain.InteractionButton,
		CustomID:   customID,
		MessageRef: messageRef,
		UserID:     "creator",
		ChannelID:  "chan-1",
		Token:      "tok",
	}
}

func TestHandleCompleteButton(t *testing.T) {
	router, store, chat := newTestRouter()
	task := createTask(t, store, chat)
	ctx := context.Background()

	router.Handle(ctx, buttonPress(platform.FormatCustomID(platform.ActionComplete, task.ID), task.MessageRef))

	stored, err := store.Tasks().GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if !stored.Completed {
		t.Fatal("task not completed after button press")
	}
}

func TestHandleCancelFlow(t *testing.T) {
	router, store, chat := newTestRouter()
	task := createTask(t, store, chat)
	ctx := context.Background()

	router.Handle(ctx, buttonPress(platform.FormatCustomID(platform.ActionCancel, task.ID), task.MessageRef))
	if len(chat.Sent) != 2 {
		t.Fatalf("len(chat.Sent) = %d, want 2 after cancel request", len(chat.Sent))
	}
	confirmRef := chat.Sent[1].MessageRef

	router.Handle(ctx, buttonPress(platform.FormatCustomID(platform.ActionConfirmCancel, task.ID), confirmRef))

	if _, err := store.Tasks().GetByID(ctx, task.ID); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Fatalf("GetByID() error = %v, want NotFound after confirmed cancel", err)
	}
}

func TestHandleAbortButtonKeepsTask(t *testing.T) {
	router, store, chat := newTestRouter()
	task := createTask(t, store, chat)
	ctx := context.Background()

	router.Handle(ctx, buttonPress(platform.FormatCustomID(platform.ActionAbortCancel, task.ID), "confirm-1"))

	if _, err := store.Tasks().GetByID(ctx, task.ID); err != nil {
		t.Fatalf("GetByID() error = %v, want task kept", err)
	}
	if len(chat.Deleted) != 1 || chat.Deleted[0] != "confirm-1" {
		t.Fatalf("chat.Deleted = %v, want only the confirmation", chat.Deleted)
	}
}

func TestHandleMalformedCustomIDIsDropped(t *testing.T) {
	router, store, chat := newTestRouter()
	task := createTask(t, store, chat)
	ctx := context.Background()

	router.Handle(ctx, buttonPress("delete_task:"+task.ID, task.MessageRef))
	router.Handle(ctx, buttonPress("complete_task:not-a-uuid", task.MessageRef))

	stored, err := store.Tasks().GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if stored.Completed {
		t.Fatal("malformed custom id mutated the task")
	}
	if len(chat.Deleted) != 0 {
		t.Fatalf("chat.Deleted = %v, want none", chat.Deleted)
	}
}

func TestHandleStaleButtonIsBenign(t *testing.T) {
	router, _, chat := newTestRouter()
	ctx := context.Background()

	// Complete against a task that no longer exists: no error surface,
	// no message traffic.
	router.Handle(ctx, buttonPress(platform.FormatCustomID(platform.ActionComplete, uuid.NewString()), "msg-9"))

	if len(chat.Edits) != 0 || len(chat.Sent) != 0 {
		t.Fatalf("stale press produced traffic: sent=%d edits=%d", len(chat.Sent), len(chat.Edits))
	}
}

func TestHandleRoutesCommandsToRegistry(t *testing.T) {
	store := memory.NewStore()
	chat := platform.NewMockClient()
	engine := taskUC.NewEngine(store.Tasks(), store.Users(), chat, nil, nil)
	registry := commands.NewRegistry(chat, nil)

	ran := 0
	registry.Register(&commands.Command{
		Name: "ping",
		Run: func(ctx context.Context, in domain.Interaction) error {
			ran++
			return nil
		},
	})
	router := NewRouter(registry, engine, nil, nil)

	router.Handle(context.Background(), domain.Interaction{
		Kind:    domain.InteractionCommand,
		Command: "ping",
		UserID:  "alice",
	})

	if ran != 1 {
		t.Fatalf("command ran %d times, want 1", ran)
	}
}
