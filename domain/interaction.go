package domain

// InteractionKind discriminates the two inbound event shapes.
type InteractionKind string

const (
	InteractionCommand InteractionKind = "command"
	InteractionButton  InteractionKind = "button"
)

// Interaction is a normalized inbound event: either a command invocation
// or a button press. Kind selects which fields are meaningful.
type Interaction struct {
	Kind InteractionKind

	// Command invocation.
	Command string
	Options map[string]string

	// Button press. CustomID has the shape "action:taskId" and MessageRef
	// points at the message the pressed control is attached to.
	CustomID   string
	MessageRef string

	// Common.
	UserID    string
	Username  string
	ChannelID string
	Token     string
}

// Option returns a named command option, empty when absent.
func (i Interaction) Option(name string) string {
	if i.Options == nil {
		return ""
	}
	return i.Options[name]
}
