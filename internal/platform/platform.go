// Package platform isolates the chat platform behind a small rendering and
// identity interface. The rest of the bot treats it as an opaque sink for
// messages plus a display-name resolver.
package platform

import "context"

// Client is the chat-platform capability consumed by the lifecycle engine
// and the command surface.
type Client interface {
	// SendMessage posts a message to a channel and returns its reference.
	SendMessage(ctx context.Context, channelID string, msg *Message) (string, error)
	// EditMessage rewrites a previously sent message in place.
	EditMessage(ctx context.Context, channelID, messageRef string, msg *Message) error
	// DeleteMessage removes a previously sent message.
	DeleteMessage(ctx context.Context, channelID, messageRef string) error
	// FetchDisplayName resolves a user id to a display name.
	FetchDisplayName(ctx context.Context, userID string) (string, error)
	// Reply answers an interaction through its token, optionally visible
	// only to the invoking user.
	Reply(ctx context.Context, token string, msg *Message, ephemeral bool) error
}

// Message is the platform-agnostic content of one rendered message: plain
// content, embed cards and at most one row of buttons.
type Message struct {
	Content string
	Embeds  []Embed
	Buttons []Button
}

type Embed struct {
	Title       string
	Description string
	Color       int
	Fields      []EmbedField
	Timestamp   string
}

type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// ButtonStyle follows the platform's numeric button styles.
type ButtonStyle int

const (
	ButtonPrimary   ButtonStyle = 1
	ButtonSecondary ButtonStyle = 2
	ButtonSuccess   ButtonStyle = 3
	ButtonDanger    ButtonStyle = 4
)

type Button struct {
	CustomID string
	Label    string
	Style    ButtonStyle
}

// Text builds a plain reply message.
func Text(content string) *Message {
	return &Message{Content: content}
}
