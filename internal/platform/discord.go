package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskdeck/bot/domain"
	"github.com/taskdeck/bot/internal/config"
)

// RestClient implements Client against the platform's HTTP API using a
// fasthttp client. All failures are classified as render failures; the
// task record, not the message, is the source of truth.
type RestClient struct {
	http    *fasthttp.Client
	base    string
	token   string
	appID   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewRestClient builds a REST client from platform configuration.
func NewRestClient(cfg config.PlatformConfig, logger *zap.Logger) *RestClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RestClient{
		http: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		base:    cfg.APIBase,
		token:   cfg.BotToken,
		appID:   cfg.AppID,
		timeout: timeout,
		logger:  logger,
	}
}

func (c *RestClient) SendMessage(ctx context.Context, channelID string, msg *Message) (string, error) {
	url := fmt.Sprintf("%s/channels/%s/messages", c.base, channelID)
	body, status, err := c.do(ctx, fasthttp.MethodPost, url, encodeMessage(msg, false))
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", renderErr(fmt.Errorf("send message: status %d", status))
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return "", renderErr(err)
	}
	return created.ID, nil
}

func (c *RestClient) EditMessage(ctx context.Context, channelID, messageRef string, msg *Message) error {
	url := fmt.Sprintf("%s/channels/%s/messages/%s", c.base, channelID, messageRef)
	_, status, err := c.do(ctx, fasthttp.MethodPatch, url, encodeMessage(msg, false))
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return renderErr(fmt.Errorf("edit message %s: status %d", messageRef, status))
	}
	return nil
}

func (c *RestClient) DeleteMessage(ctx context.Context, channelID, messageRef string) error {
	url := fmt.Sprintf("%s/channels/%s/messages/%s", c.base, channelID, messageRef)
	_, status, err := c.do(ctx, fasthttp.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	// An already-deleted message is not a failure.
	if status != http.StatusNoContent && status != http.StatusNotFound {
		return renderErr(fmt.Errorf("delete message %s: status %d", messageRef, status))
	}
	return nil
}

func (c *RestClient) FetchDisplayName(ctx context.Context, userID string) (string, error) {
	url := fmt.Sprintf("%s/users/%s", c.base, userID)
	body, status, err := c.do(ctx, fasthttp.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", renderErr(fmt.Errorf("fetch user %s: status %d", userID, status))
	}

	var user struct {
		Username   string `json:"username"`
		GlobalName string `json:"global_name"`
	}
	if err := json.Unmarshal(body, &user); err != nil {
		return "", renderErr(err)
	}
	if user.GlobalName != "" {
		return user.GlobalName, nil
	}
	return user.Username, nil
}

// RegisterCommands replaces the application's global slash commands.
func (c *RestClient) RegisterCommands(ctx context.Context, specs []CommandSpec) error {
	url := fmt.Sprintf("%s/applications/%s/commands", c.base, c.appID)
	payload, err := json.Marshal(specs)
	if err != nil {
		return err
	}
	_, status, err := c.do(ctx, fasthttp.MethodPut, url, payload)
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return renderErr(fmt.Errorf("register commands: status %d", status))
	}
	return nil
}

// Reply posts a follow-up response through the interaction webhook.
func (c *RestClient) Reply(ctx context.Context, token string, msg *Message, ephemeral bool) error {
	url := fmt.Sprintf("%s/webhooks/%s/%s", c.base, c.appID, token)
	_, status, err := c.do(ctx, fasthttp.MethodPost, url, encodeMessage(msg, ephemeral))
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusNoContent {
		return renderErr(fmt.Errorf("interaction reply: status %d", status))
	}
	return nil
}

func (c *RestClient) do(ctx context.Context, method, url string, payload []byte) ([]byte, int, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(method)
	req.SetRequestURI(url)
	req.Header.Set("Authorization", "Bot "+c.token)
	if payload != nil {
		req.Header.SetContentType("application/json")
		req.SetBody(payload)
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return nil, 0, renderErr(err)
	}

	body := append([]byte(nil), resp.Body()...)
	return body, resp.StatusCode(), nil
}

func renderErr(err error) error {
	return domain.WrapError(domain.ErrCodeRender, "platform request failed", err)
}

// Wire shapes for the platform's message JSON.

type wireMessage struct {
	Content string      `json:"content,omitempty"`
	Embeds  []wireEmbed `json:"embeds,omitempty"`
	// Components is always serialized, even empty, so editing a message
	// with no buttons strips the stale controls.
	Components []wireRow `json:"components"`
	Flags      int       `json:"flags,omitempty"`
}

type wireEmbed struct {
	Title       string      `json:"title,omitempty"`
	Description string      `json:"description,omitempty"`
	Color       int         `json:"color,omitempty"`
	Fields      []wireField `json:"fields,omitempty"`
	Timestamp   string      `json:"timestamp,omitempty"`
}

type wireField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type wireRow struct {
	Type       int          `json:"type"`
	Components []wireButton `json:"components"`
}

type wireButton struct {
	Type     int    `json:"type"`
	Style    int    `json:"style"`
	Label    string `json:"label"`
	CustomID string `json:"custom_id"`
}

const ephemeralFlag = 1 << 6

func encodeMessage(msg *Message, ephemeral bool) []byte {
	if msg == nil {
		msg = &Message{}
	}
	wire := wireMessage{Content: msg.Content, Components: []wireRow{}}
	if ephemeral {
		wire.Flags = ephemeralFlag
	}
	for _, e := range msg.Embeds {
		we := wireEmbed{
			Title:       e.Title,
			Description: e.Description,
			Color:       e.Color,
			Timestamp:   e.Timestamp,
		}
		for _, f := range e.Fields {
			we.Fields = append(we.Fields, wireField(f))
		}
		wire.Embeds = append(wire.Embeds, we)
	}
	if len(msg.Buttons) > 0 {
		row := wireRow{Type: 1, Components: []wireButton{}}
		for _, b := range msg.Buttons {
			row.Components = append(row.Components, wireButton{
				Type:     2,
				Style:    int(b.Style),
				Label:    b.Label,
				CustomID: b.CustomID,
			})
		}
		wire.Components = []wireRow{row}
	}

	out, _ := json.Marshal(wire)
	return out
}
