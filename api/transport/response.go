package transport

import "encoding/json"

// Interaction callback types answered synchronously to the webhook.
const (
	CallbackPong           = 1
	CallbackDeferredReply  = 5
	CallbackDeferredUpdate = 6
)

// Callback is the synchronous answer to an interaction webhook.
type Callback struct {
	Type int           `json:"type"`
	Data *CallbackData `json:"data,omitempty"`
}

type CallbackData struct {
	Flags int `json:"flags,omitempty"`
}

// Envelope is the standard API response wrapper used for both success and
// error payloads on the admin surface.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  interface{} `json:"error,omitempty"`
}

// NewSuccess returns a success envelope.
func NewSuccess(data interface{}) Envelope {
	return Envelope{
		Status: "success",
		Data:   data,
	}
}

// NewError returns an error envelope.
func NewError(code string, err interface{}) Envelope {
	return Envelope{
		Status: "error",
		Code:   code,
		Error:  err,
	}
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}
