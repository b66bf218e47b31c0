// Package reminder posts a daily notice for open tasks due today.
package reminder

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/taskdeck/bot/internal/config"
	"github.com/taskdeck/bot/internal/platform"
	"github.com/taskdeck/bot/repository"
)

// Sweeper runs the reminder schedule. It is read-only with respect to
// task state: a reminder is a notification, not a lifecycle transition.
type Sweeper struct {
	tasks   repository.TaskRepository
	chat    platform.Client
	channel string
	cron    *cron.Cron
	logger  *zap.Logger
}

func New(cfg config.ReminderConfig, tasks repository.TaskRepository, chat platform.Client, logger *zap.Logger) *Sweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{
		tasks:   tasks,
		chat:    chat,
		channel: cfg.Channel,
		cron:    cron.New(),
		logger:  logger,
	}
}

// Start registers the schedule and launches the cron runner.
func (s *Sweeper) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the scheduler, waiting for a running sweep to finish.
func (s *Sweeper) Stop(ctx context.Context) {
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
	case <-ctx.Done():
	}
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	due, err := s.tasks.ListDueOn(ctx, time.Now().UTC())
	if err != nil {
		s.logger.Error("due-task sweep failed", zap.Error(err))
		return
	}
	if len(due) == 0 {
		return
	}

	if _, err := s.chat.SendMessage(ctx, s.channel, platform.ReminderMessage(due)); err != nil {
		s.logger.Warn("reminder send failed", zap.Error(err))
		return
	}
	s.logger.Info("posted due-task reminder", zap.Int("tasks", len(due)))
}
