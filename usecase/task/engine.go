// Package task implements the task lifecycle engine: creation, completion
// and the two-phase cancel, including the shared-task fan-out that keeps
// every participant's user document in step with the task document.
package task

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskdeck/bot/domain"
	"github.com/taskdeck/bot/internal/observability"
	"github.com/taskdeck/bot/internal/platform"
	"github.com/taskdeck/bot/repository"
)

// Engine drives tasks through Created -> Active -> Completed or the
// Cancelling -> Cancelled gate. It owns the consistency rules between the
// task document, the per-user task sets and the rendered message.
type Engine struct {
	tasks   repository.TaskRepository
	users   repository.UserRepository
	chat    platform.Client
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewEngine wires the engine's collaborators; metrics may be nil.
func NewEngine(tasks repository.TaskRepository, users repository.UserRepository, chat platform.Client, metrics *observability.Metrics, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		tasks:   tasks,
		users:   users,
		chat:    chat,
		metrics: metrics,
		logger:  logger,
	}
}

// CreateInput carries validated task fields into the engine. Validation
// happens upstream in the command surface.
type CreateInput struct {
	CreatorID   string
	CreatorName string
	ChannelID   string
	Title       string
	Description string
	Priority    domain.Priority
	DueDate     *time.Time
	Assignees   []string
}

// Create renders and sends the task card, persists the task with the
// returned message reference, then attaches the task to every distinct
// participant. The message is sent first so the stored MessageRef is
// always valid; if persistence fails afterwards the orphaned message is
// tolerated and button presses against it resolve to a benign NotFound.
func (e *Engine) Create(ctx context.Context, in CreateInput) (*domain.Task, error) {
	description := in.Description
	if description == "" {
		description = " "
	}

	task := &domain.Task{
		ID:          uuid.NewString(),
		CreatorID:   in.CreatorID,
		Title:       in.Title,
		Description: description,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		Assignees:   dedupe(in.Assignees),
		ChannelRef:  in.ChannelID,
		Shared:      len(in.Assignees) > 0,
		CreatedAt:   time.Now().UTC(),
	}

	ref, err := e.chat.SendMessage(ctx, in.ChannelID, platform.TaskMessage(task))
	if err != nil {
		return nil, err
	}
	task.MessageRef = ref

	if err := e.tasks.Create(ctx, task); err != nil {
		e.logger.Error("task persisted after send failed, message orphaned",
			zap.String("task_id", task.ID),
			zap.String("message_ref", ref),
			zap.Error(err))
		return nil, err
	}

	if err := e.users.AttachTask(ctx, task.CreatorID, in.CreatorName, task.ID); err != nil {
		return nil, err
	}
	for _, assignee := range task.Assignees {
		if assignee == task.CreatorID {
			continue
		}
		name, err := e.chat.FetchDisplayName(ctx, assignee)
		if err != nil {
			e.logger.Warn("display name lookup failed", zap.String("user_id", assignee), zap.Error(err))
		}
		if err := e.users.AttachTask(ctx, assignee, name, task.ID); err != nil {
			return nil, err
		}
	}

	if e.metrics != nil {
		e.metrics.TasksCreated.Inc()
	}
	return task, nil
}

// Complete marks the task done and credits every participant. Idempotent:
// completing an already-completed or missing task is a no-op, and each
// participant's update is individually idempotent so a crash mid-fan-out
// is safe to retry without double-crediting anyone.
func (e *Engine) Complete(ctx context.Context, taskID, actorID string) error {
	task, err := e.tasks.GetByID(ctx, taskID)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			e.logger.Debug("complete pressed on unknown task", zap.String("task_id", taskID))
			return nil
		}
		return err
	}
	if task.IsCompleted() {
		return nil
	}

	now := time.Now().UTC()
	task.Completed = true
	task.CompletedAt = &now
	if err := e.tasks.Update(ctx, task); err != nil {
		return err
	}

	for _, participant := range task.Participants() {
		if err := e.users.DetachTask(ctx, participant, task.ID); err != nil {
			return err
		}
		if err := e.users.RecordCompletion(ctx, participant, task.ID); err != nil {
			return err
		}
	}

	if err := e.chat.EditMessage(ctx, task.ChannelRef, task.MessageRef, platform.CompletedTaskMessage(task)); err != nil {
		e.logger.Warn("completed card render failed", zap.String("task_id", task.ID), zap.Error(err))
	}

	if e.metrics != nil {
		e.metrics.TasksCompleted.Inc()
	}
	e.logger.Info("task completed",
		zap.String("task_id", task.ID),
		zap.String("actor", actorID),
		zap.Int("participants", len(task.Participants())))
	return nil
}

// RequestCancel opens the confirm/abort gate. Nothing is mutated; if the
// user never answers, the task stays active with no cleanup needed.
func (e *Engine) RequestCancel(ctx context.Context, taskID string) error {
	task, err := e.tasks.GetByID(ctx, taskID)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil
		}
		return err
	}

	_, err = e.chat.SendMessage(ctx, task.ChannelRef, platform.ConfirmCancelMessage(task))
	return err
}

// ConfirmCancel is the terminal destructive transition: every participant
// loses the task from their active set, the task record is deleted with
// no tombstone, and both the confirmation and the original message go.
func (e *Engine) ConfirmCancel(ctx context.Context, taskID, channelID, confirmRef string) error {
	task, err := e.tasks.GetByID(ctx, taskID)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			// Record already gone; just clear the stale confirmation.
			e.deleteMessage(ctx, channelID, confirmRef)
			return nil
		}
		return err
	}

	for _, participant := range task.Participants() {
		if err := e.users.DetachTask(ctx, participant, task.ID); err != nil {
			return err
		}
	}

	if err := e.tasks.Delete(ctx, task.ID); err != nil && !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		return err
	}

	e.deleteMessage(ctx, channelID, confirmRef)
	e.deleteMessage(ctx, task.ChannelRef, task.MessageRef)

	if e.metrics != nil {
		e.metrics.TasksCancelled.Inc()
	}
	e.logger.Info("task cancelled", zap.String("task_id", task.ID))
	return nil
}

// AbortCancel discards the confirmation message and nothing else.
func (e *Engine) AbortCancel(ctx context.Context, channelID, confirmRef string) error {
	e.deleteMessage(ctx, channelID, confirmRef)
	return nil
}

// deleteMessage logs render failures instead of propagating them: a stale
// message is a presentation artifact, not a data-loss event.
func (e *Engine) deleteMessage(ctx context.Context, channelID, messageRef string) {
	if messageRef == "" {
		return
	}
	if err := e.chat.DeleteMessage(ctx, channelID, messageRef); err != nil {
		e.logger.Warn("message delete failed",
			zap.String("message_ref", messageRef),
			zap.Error(err))
	}
}

func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
