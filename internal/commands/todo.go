package commands

import (
	"context"
	"time"

	"github.com/taskdeck/bot/domain"
	"github.com/taskdeck/bot/internal/platform"
	taskUC "github.com/taskdeck/bot/usecase/task"
)

// NewTodoCommand builds the task-creation command. Title, description and
// priority are required; date and assignee are optional. Validation
// failures reply with guidance and create nothing.
func NewTodoCommand(engine *taskUC.Engine, chat platform.Client, cooldown time.Duration) *Command {
	return &Command{
		Name:        "todo",
		Description: "Create a new task",
		Cooldown:    cooldown,
		Options: []platform.CommandOptionSpec{
			{Type: platform.OptionString, Name: "title", Description: "The title of the task", Required: true},
			{Type: platform.OptionString, Name: "description", Description: "The description of the task", Required: true},
			{Type: platform.OptionString, Name: "priority", Description: "The priority of the task", Required: true,
				Choices: []platform.OptionChoice{
					{Name: "Low", Value: "low"},
					{Name: "Medium", Value: "medium"},
					{Name: "High", Value: "high"},
				}},
			{Type: platform.OptionString, Name: "date", Description: "Due date in MM/DD/YYYY format"},
			{Type: platform.OptionUser, Name: "assignee", Description: "User to assign the task to"},
		},
		Run: func(ctx context.Context, in domain.Interaction) error {
			title := in.Option("title")
			if title == "" {
				return domain.NewError(domain.ErrCodeInvalid, "Title is required.")
			}

			priority, err := domain.ParsePriority(in.Option("priority"))
			if err != nil {
				return domain.NewError(domain.ErrCodeInvalid, "Invalid priority level. Please choose from low, medium, or high.")
			}

			var due *time.Time
			if raw := in.Option("date"); raw != "" {
				due, err = ParseDueDate(raw)
				if err != nil {
					return err
				}
			}

			var assignees []string
			if assignee := in.Option("assignee"); assignee != "" {
				assignees = []string{assignee}
			}

			task, err := engine.Create(ctx, taskUC.CreateInput{
				CreatorID:   in.UserID,
				CreatorName: in.Username,
				ChannelID:   in.ChannelID,
				Title:       title,
				Description: in.Option("description"),
				Priority:    priority,
				DueDate:     due,
				Assignees:   assignees,
			})
			if err != nil {
				return err
			}

			return chat.Reply(ctx, in.Token, platform.Text("Task **"+task.Title+"** created."), true)
		},
	}
}
