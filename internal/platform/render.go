package platform

import (
	"fmt"
	"strings"
	"time"

	"github.com/taskdeck/bot/domain"
)

// Embed colors, carried over from the bot's visual language: amber for
// open tasks, green for completed, red for the cancel gate, blue for lists.
const (
	colorOpen      = 0xe2c327
	colorCompleted = 0x3ae2a3
	colorCancel    = 0xe23a3a
	colorList      = 0x0099FF
)

// TaskMessage renders the open-task card with its complete/cancel buttons.
func TaskMessage(t *domain.Task) *Message {
	return &Message{
		Embeds: []Embed{{
			Title:       fmt.Sprintf("📌 Task: %s", t.Title),
			Description: t.Description,
			Color:       colorOpen,
			Fields: []EmbedField{
				{Name: "Priority", Value: t.Priority.Label(), Inline: true},
				{Name: "Due Date", Value: dueDateValue(t.DueDate), Inline: true},
				{Name: "Shared with", Value: sharedValue(t.Assignees), Inline: false},
			},
			Timestamp: t.CreatedAt.UTC().Format(time.RFC3339),
		}},
		Buttons: []Button{
			{CustomID: FormatCustomID(ActionCancel, t.ID), Label: "❌ Cancel", Style: ButtonSecondary},
			{CustomID: FormatCustomID(ActionComplete, t.ID), Label: "✅ Complete", Style: ButtonSuccess},
		},
	}
}

// CompletedTaskMessage renders the closed card. It carries no buttons, so
// editing the original message with it strips every control.
func CompletedTaskMessage(t *domain.Task) *Message {
	completedAt := ""
	if t.CompletedAt != nil {
		completedAt = t.CompletedAt.Format("Jan 02, 2006")
	}
	return &Message{
		Embeds: []Embed{{
			Title:       fmt.Sprintf("✅ Task Completed: %s", t.Title),
			Description: t.Description,
			Color:       colorCompleted,
			Fields: []EmbedField{
				{Name: "Priority", Value: t.Priority.Label(), Inline: true},
				{Name: "Due Date", Value: dueDateValue(t.DueDate), Inline: true},
				{Name: "Shared with", Value: sharedValue(t.Assignees), Inline: false},
				{Name: "Completed At", Value: completedAt, Inline: true},
			},
		}},
	}
}

// ConfirmCancelMessage renders the destructive-action gate with its
// confirm/abort pair.
func ConfirmCancelMessage(t *domain.Task) *Message {
	return &Message{
		Embeds: []Embed{{
			Title:       fmt.Sprintf("❌ Cancel Task: %s", t.Title),
			Description: "Are you sure you want to cancel this task?",
			Color:       colorCancel,
		}},
		Buttons: []Button{
			{CustomID: FormatCustomID(ActionAbortCancel, t.ID), Label: "❌ Keep it", Style: ButtonDanger},
			{CustomID: FormatCustomID(ActionConfirmCancel, t.ID), Label: "✅ Confirm", Style: ButtonSuccess},
		},
	}
}

// TaskListMessage renders the listing embed.
func TaskListMessage(body string, total int) *Message {
	if body == "" {
		body = "No open tasks."
	}
	return &Message{
		Embeds: []Embed{{
			Title:       "Your Tasks",
			Description: body,
			Color:       colorList,
			Fields: []EmbedField{
				{Name: "Total", Value: fmt.Sprintf("%d task(s)", total), Inline: false},
			},
		}},
	}
}

// ReminderMessage renders the due-today sweep notice.
func ReminderMessage(tasks []domain.Task) *Message {
	var b strings.Builder
	for _, t := range tasks {
		fmt.Fprintf(&b, "**%s** — %s (%s)\n", t.Title, mention(t.CreatorID), t.Priority.Label())
	}
	return &Message{
		Embeds: []Embed{{
			Title:       "⏰ Tasks due today",
			Description: b.String(),
			Color:       colorOpen,
		}},
	}
}

func dueDateValue(due *time.Time) string {
	if due == nil {
		return "No due date"
	}
	return due.Format("Jan 02, 2006")
}

func sharedValue(assignees []string) string {
	if len(assignees) == 0 {
		return "Self"
	}
	mentions := make([]string, 0, len(assignees))
	for _, id := range assignees {
		mentions = append(mentions, mention(id))
	}
	return strings.Join(mentions, ", ")
}

func mention(userID string) string {
	return fmt.Sprintf("<@%s>", userID)
}
