// Package interactions routes inbound interactive events to the operation
// they represent: commands to the command registry, button presses to the
// lifecycle transition named in the control identifier.
package interactions

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/taskdeck/bot/domain"
	"github.com/taskdeck/bot/internal/commands"
	"github.com/taskdeck/bot/internal/observability"
	"github.com/taskdeck/bot/internal/platform"
	taskUC "github.com/taskdeck/bot/usecase/task"
)

type Router struct {
	registry *commands.Registry
	engine   *taskUC.Engine
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewRouter wires the dispatch targets; metrics may be nil.
func NewRouter(registry *commands.Registry, engine *taskUC.Engine, metrics *observability.Metrics, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		registry: registry,
		engine:   engine,
		metrics:  metrics,
		logger:   logger,
	}
}

// Handle processes one interaction. Each call is an independent unit of
// work: failures are contained here and never ripple into other
// in-flight interactions.
func (r *Router) Handle(ctx context.Context, in domain.Interaction) {
	start := time.Now()
	defer func() { r.metrics.ObserveHandle(time.Since(start)) }()

	switch in.Kind {
	case domain.InteractionCommand:
		r.count("command", in.Command)
		r.registry.Dispatch(ctx, in)
	case domain.InteractionButton:
		r.handleButton(ctx, in)
	default:
		r.logger.Error("unknown interaction kind", zap.String("kind", string(in.Kind)))
	}
}

func (r *Router) handleButton(ctx context.Context, in domain.Interaction) {
	action, taskID, err := platform.ParseCustomID(in.CustomID)
	if err != nil {
		// The control is unusable and the failure is not actionable by
		// the end user, so log and drop.
		r.logger.Error("malformed control identifier", zap.String("custom_id", in.CustomID), zap.Error(err))
		return
	}
	r.count("button", string(action))

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("button handler panicked",
				zap.String("custom_id", in.CustomID),
				zap.Any("panic", rec))
		}
	}()

	switch action {
	case platform.ActionComplete:
		err = r.engine.Complete(ctx, taskID, in.UserID)
	case platform.ActionCancel:
		err = r.engine.RequestCancel(ctx, taskID)
	case platform.ActionConfirmCancel:
		err = r.engine.ConfirmCancel(ctx, taskID, in.ChannelID, in.MessageRef)
	case platform.ActionAbortCancel:
		// Abort needs no task lookup; only the confirmation message goes.
		err = r.engine.AbortCancel(ctx, in.ChannelID, in.MessageRef)
	}
	if err != nil {
		if r.metrics != nil {
			r.metrics.InteractionFailures.WithLabelValues("button").Inc()
		}
		r.logger.Error("button action failed",
			zap.String("action", string(action)),
			zap.String("task_id", taskID),
			zap.Error(err))
	}
}

func (r *Router) count(kind, name string) {
	if r.metrics == nil {
		return
	}
	r.metrics.InteractionsHandled.WithLabelValues(kind, name).Inc()
}
