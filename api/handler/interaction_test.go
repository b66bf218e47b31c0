package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/taskdeck/bot/api/transport"
	"github.com/taskdeck/bot/domain"
	"github.com/taskdeck/bot/internal/commands"
	"github.com/taskdeck/bot/internal/interactions"
	"github.com/taskdeck/bot/internal/platform"
	"github.com/taskdeck/bot/pkg/httpcontext"
	"github.com/taskdeck/bot/repository/memory"
	taskUC "github.com/taskdeck/bot/usecase/task"
)

func newTestHandler() *InteractionHandler {
	store := memory.NewStore()
	chat := platform.NewMockClient()
	engine := taskUC.NewEngine(store.Tasks(), store.Users(), chat, nil, nil)
	registry := commands.NewRegistry(chat, nil)
	router := interactions.NewRouter(registry, engine, nil, nil)
	adapter := httpcontext.NewAdapter(time.Second)
	// nil verifier skips signature checks in tests
	return NewInteractionHandler(router, nil, adapter, nil)
}

func postInteraction(handler *InteractionHandler, body string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(fasthttp.MethodPost)
	ctx.Request.SetBodyString(body)
	handler.Receive(ctx)
	return ctx
}

func TestReceiveAnswersPingWithPong(t *testing.T) {
	handler := newTestHandler()

	ctx := postInteraction(handler, `{"type":1}`)

	if ctx.Response.StatusCode() != http.StatusOK {
		t.Fatalf("status = %d, want 200", ctx.Response.StatusCode())
	}
	var callback transport.Callback
	if err := json.Unmarshal(ctx.Response.Body(), &callback); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if callback.Type != transport.CallbackPong {
		t.Fatalf("callback type = %d, want pong", callback.Type)
	}
}

func TestReceiveDefersCommandAndDispatchesAsync(t *testing.T) {
	store := memory.NewStore()
	chat := platform.NewMockClient()
	engine := taskUC.NewEngine(store.Tasks(), store.Users(), chat, nil, nil)
	registry := commands.NewRegistry(chat, nil)

	done := make(chan struct{})
	registry.Register(&commands.Command{
		Name: "tasks",
		Run: func(ctx context.Context, in domain.Interaction) error {
			close(done)
			return nil
		},
	})
	router := interactions.NewRouter(registry, engine, nil, nil)
	handler := NewInteractionHandler(router, nil, httpcontext.NewAdapter(time.Second), nil)

	ctx := postInteraction(handler, `{
		"type": 2,
		"token": "tok",
		"channel_id": "chan-1",
		"user": {"id": "alice-id", "username": "alice"},
		"data": {"name": "tasks"}
	}`)

	var callback transport.Callback
	if err := json.Unmarshal(ctx.Response.Body(), &callback); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if callback.Type != transport.CallbackDeferredReply {
		t.Fatalf("callback type = %d, want deferred reply", callback.Type)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("command never dispatched")
	}
}

func TestReceiveDefersButtonWithUpdate(t *testing.T) {
	handler := newTestHandler()

	ctx := postInteraction(handler, `{
		"type": 3,
		"token": "tok",
		"channel_id": "chan-1",
		"user": {"id": "alice-id", "username": "alice"},
		"data": {"custom_id": "complete_task:11111111-2222-3333-4444-555555555555"},
		"message": {"id": "msg-1"}
	}`)

	var callback transport.Callback
	if err := json.Unmarshal(ctx.Response.Body(), &callback); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if callback.Type != transport.CallbackDeferredUpdate {
		t.Fatalf("callback type = %d, want deferred update", callback.Type)
	}
}

func TestReceiveRejectsMalformedBody(t *testing.T) {
	handler := newTestHandler()

	ctx := postInteraction(handler, `{not json`)
	if ctx.Response.StatusCode() != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", ctx.Response.StatusCode())
	}
}

func TestReceiveRejectsUnknownType(t *testing.T) {
	handler := newTestHandler()

	ctx := postInteraction(handler, `{"type": 9}`)
	if ctx.Response.StatusCode() != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", ctx.Response.StatusCode())
	}
}
