package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/taskdeck/bot/domain"
	"github.com/taskdeck/bot/internal/platform"
	"github.com/taskdeck/bot/repository"
)

// maxListBody bounds the accumulated listing text to the platform's embed
// description limit. Truncation drops whole entries, never splits one.
const maxListBody = 4096

// NewTasksCommand builds the read-only listing command. Tasks sort by
// descending priority rank with ties keeping encounter order; the footer
// always shows the full count even when the body was truncated.
func NewTasksCommand(tasks repository.TaskRepository, users repository.UserRepository, chat platform.Client, ephemeral bool) *Command {
	return &Command{
		Name:        "tasks",
		Description: "List all your tasks",
		Run: func(ctx context.Context, in domain.Interaction) error {
			user, err := users.GetByID(ctx, in.UserID)
			if err != nil {
				if domain.IsDomainError(err, domain.ErrCodeNotFound) {
					return chat.Reply(ctx, in.Token,
						platform.Text("You don't have any tasks yet. Create one with `/todo`."), true)
				}
				return err
			}

			resolved := make([]domain.Task, 0, len(user.ActiveTasks))
			for _, taskID := range user.ActiveTasks {
				task, err := tasks.GetByID(ctx, taskID)
				if err != nil {
					// Dangling ids are expected after partial failures;
					// skip them rather than failing the listing.
					if domain.IsDomainError(err, domain.ErrCodeNotFound) {
						continue
					}
					return err
				}
				resolved = append(resolved, *task)
			}

			if len(resolved) == 0 {
				return chat.Reply(ctx, in.Token,
					platform.Text("You don't have any tasks yet. Create one with `/todo`."), true)
			}

			sort.SliceStable(resolved, func(i, j int) bool {
				return resolved[i].Priority.Rank() > resolved[j].Priority.Rank()
			})

			body := renderListBody(resolved)
			return chat.Reply(ctx, in.Token, platform.TaskListMessage(body, len(resolved)), ephemeral)
		},
	}
}

func renderListBody(tasks []domain.Task) string {
	var b strings.Builder
	for _, t := range tasks {
		entry := listEntry(t)
		if b.Len()+len(entry) > maxListBody {
			break
		}
		b.WriteString(entry)
	}
	return b.String()
}

func listEntry(t domain.Task) string {
	due := "No due date"
	if t.DueDate != nil {
		due = t.DueDate.Format("Jan 02, 2006")
	}
	return fmt.Sprintf("**%s** - %s\n**%s** - %s\n\n", t.Title, strings.TrimSpace(t.Description), t.Priority.Label(), due)
}
