package platform

// Command option types, as numbered by the platform.
const (
	OptionString = 3
	OptionUser   = 6
)

// CommandSpec describes a slash command for registration with the
// platform's command registry.
type CommandSpec struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Options     []CommandOptionSpec `json:"options,omitempty"`
}

type CommandOptionSpec struct {
	Type        int            `json:"type"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Required    bool           `json:"required"`
	Choices     []OptionChoice `json:"choices,omitempty"`
}

type OptionChoice struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}
