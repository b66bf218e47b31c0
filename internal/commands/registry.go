// Package commands is the command surface: a static registry of slash
// commands with per-command cooldowns, input validation and top-level
// error containment around execution.
package commands

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/taskdeck/bot/domain"
	"github.com/taskdeck/bot/internal/platform"
)

// Command binds a slash-command name to its handler. Commands are
// registered explicitly at startup; there is no dynamic discovery.
type Command struct {
	Name        string
	Description string
	Cooldown    time.Duration
	Options     []platform.CommandOptionSpec
	Run         func(ctx context.Context, in domain.Interaction) error
}

// Spec returns the registration payload for this command.
func (c *Command) Spec() platform.CommandSpec {
	return platform.CommandSpec{
		Name:        c.Name,
		Description: c.Description,
		Options:     c.Options,
	}
}

// Registry dispatches command interactions. It owns the cooldown table
// and the containment boundary: a failing or panicking command answers
// with a generic ephemeral reply and never takes the process down.
type Registry struct {
	mu        sync.RWMutex
	commands  map[string]*Command
	cooldowns *CooldownTable
	chat      platform.Client
	logger    *zap.Logger
}

func NewRegistry(chat platform.Client, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		commands:  make(map[string]*Command),
		cooldowns: NewCooldownTable(),
		chat:      chat,
		logger:    logger,
	}
}

func (r *Registry) Register(cmd *Command) {
	if cmd == nil || cmd.Name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[cmd.Name] = cmd
}

// Commands returns the registered commands for registration with the
// platform's command registry.
func (r *Registry) Commands() []*Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		out = append(out, cmd)
	}
	return out
}

// Specs collects the registration payloads for every registered command.
func (r *Registry) Specs() []platform.CommandSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]platform.CommandSpec, 0, len(r.commands))
	for _, cmd := range r.commands {
		out = append(out, cmd.Spec())
	}
	return out
}

// Dispatch runs the named command for one interaction.
func (r *Registry) Dispatch(ctx context.Context, in domain.Interaction) {
	r.mu.RLock()
	cmd, ok := r.commands[in.Command]
	r.mu.RUnlock()
	if !ok {
		r.logger.Error("unknown command", zap.String("command", in.Command))
		return
	}

	if cmd.Cooldown > 0 {
		if remaining, limited := r.cooldowns.Touch(cmd.Name, in.UserID, cmd.Cooldown); limited {
			r.reply(ctx, in, fmt.Sprintf(
				"Please wait %.1f more second(s) before reusing the `%s` command.",
				remaining.Seconds(), cmd.Name))
			return
		}
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("command panicked",
				zap.String("command", cmd.Name),
				zap.Any("panic", rec))
			r.reply(ctx, in, "There was an error while executing this command!")
		}
	}()

	if err := cmd.Run(ctx, in); err != nil {
		r.handleError(ctx, cmd.Name, in, err)
	}
}

func (r *Registry) handleError(ctx context.Context, name string, in domain.Interaction, err error) {
	var dErr *domain.Error
	if errors.As(err, &dErr) && dErr.Code == domain.ErrCodeInvalid {
		r.reply(ctx, in, dErr.Message)
		return
	}

	r.logger.Error("command failed",
		zap.String("command", name),
		zap.String("user_id", in.UserID),
		zap.Error(err))
	r.reply(ctx, in, "There was an error while executing this command!")
}

func (r *Registry) reply(ctx context.Context, in domain.Interaction, content string) {
	if err := r.chat.Reply(ctx, in.Token, platform.Text(content), true); err != nil {
		r.logger.Warn("reply failed", zap.Error(err))
	}
}
