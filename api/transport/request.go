package transport

import "github.com/taskdeck/bot/domain"

// Interaction payload types, as delivered by the platform webhook.
const (
	InteractionTypePing      = 1
	InteractionTypeCommand   = 2
	InteractionTypeComponent = 3
)

// InteractionRequest is the inbound webhook payload for a command
// invocation or a button press.
type InteractionRequest struct {
	Type      int              `json:"type"`
	Token     string           `json:"token"`
	ChannelID string           `json:"channel_id"`
	Member    *Member          `json:"member,omitempty"`
	User      *UserRef         `json:"user,omitempty"`
	Data      *InteractionData `json:"data,omitempty"`
	Message   *MessageRef      `json:"message,omitempty"`
}

type Member struct {
	User *UserRef `json:"user"`
}

type UserRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type InteractionData struct {
	Name     string          `json:"name,omitempty"`
	CustomID string          `json:"custom_id,omitempty"`
	Options  []CommandOption `json:"options,omitempty"`
}

type CommandOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type MessageRef struct {
	ID string `json:"id"`
}

// ToInteraction normalizes the wire payload into the domain's tagged
// union. Ping payloads have no domain equivalent and return false.
func (r *InteractionRequest) ToInteraction() (domain.Interaction, bool) {
	in := domain.Interaction{
		Token:     r.Token,
		ChannelID: r.ChannelID,
	}

	user := r.User
	if r.Member != nil && r.Member.User != nil {
		user = r.Member.User
	}
	if user != nil {
		in.UserID = user.ID
		in.Username = user.Username
	}

	switch r.Type {
	case InteractionTypeCommand:
		in.Kind = domain.InteractionCommand
		if r.Data != nil {
			in.Command = r.Data.Name
			if len(r.Data.Options) > 0 {
				in.Options = make(map[string]string, len(r.Data.Options))
				for _, opt := range r.Data.Options {
					in.Options[opt.Name] = opt.Value
				}
			}
		}
	case InteractionTypeComponent:
		in.Kind = domain.InteractionButton
		if r.Data != nil {
			in.CustomID = r.Data.CustomID
		}
		if r.Message != nil {
			in.MessageRef = r.Message.ID
		}
	default:
		return domain.Interaction{}, false
	}

	return in, true
}
