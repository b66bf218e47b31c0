package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskdeck/bot/api/transport"
	"github.com/taskdeck/bot/domain"
	"github.com/taskdeck/bot/internal/interactions"
	"github.com/taskdeck/bot/pkg/httpcontext"
)

// InteractionHandler receives the platform's interaction webhook: verify
// the signature, answer the handshake, acknowledge real interactions and
// hand them to the router off the request goroutine.
type InteractionHandler struct {
	baseHandler
	router   *interactions.Router
	verifier *SignatureVerifier
}

func NewInteractionHandler(router *interactions.Router, verifier *SignatureVerifier, adapter *httpcontext.Adapter, logger *zap.Logger) *InteractionHandler {
	return &InteractionHandler{
		baseHandler: newBaseHandler(adapter, logger),
		router:      router,
		verifier:    verifier,
	}
}

func (h *InteractionHandler) Receive(ctx *fasthttp.RequestCtx) {
	if h.verifier != nil && !h.verifier.Verify(ctx) {
		ctx.SetStatusCode(http.StatusUnauthorized)
		return
	}

	var req transport.InteractionRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		ctx.SetStatusCode(http.StatusBadRequest)
		return
	}

	if req.Type == transport.InteractionTypePing {
		h.respondJSON(ctx, http.StatusOK, transport.Callback{Type: transport.CallbackPong})
		return
	}

	in, ok := req.ToInteraction()
	if !ok {
		ctx.SetStatusCode(http.StatusBadRequest)
		return
	}

	// Acknowledge immediately; the actual reply goes through the
	// interaction token once the work is done.
	callback := transport.Callback{Type: transport.CallbackDeferredUpdate}
	if in.Kind == domain.InteractionCommand {
		callback = transport.Callback{Type: transport.CallbackDeferredReply}
	}
	h.respondJSON(ctx, http.StatusOK, callback)

	stdCtx, cancel := h.adapter.Detached(ctx)
	go func() {
		defer cancel()
		h.router.Handle(stdCtx, in)
	}()
}
