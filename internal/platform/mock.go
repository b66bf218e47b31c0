package platform

import (
	"context"
	"fmt"
	"sync"
)

// MockClient is an in-memory Client that records every call. Used by
// tests and by local development without platform credentials.
type MockClient struct {
	mu sync.Mutex

	// SendErr, when set, is returned by SendMessage.
	SendErr error
	// EditErr, when set, is returned by EditMessage.
	EditErr error

	nextRef  int
	Sent     []SentMessage
	Edits    []SentMessage
	Deleted  []string
	Replies  []SentReply
	Names    map[string]string
	NameHits map[string]int
}

// SentMessage records one send or edit call.
type SentMessage struct {
	ChannelID  string
	MessageRef string
	Message    *Message
}

// SentReply records one interaction reply.
type SentReply struct {
	Token     string
	Message   *Message
	Ephemeral bool
}

func NewMockClient() *MockClient {
	return &MockClient{
		Names:    make(map[string]string),
		NameHits: make(map[string]int),
	}
}

func (m *MockClient) SendMessage(_ context.Context, channelID string, msg *Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendErr != nil {
		return "", m.SendErr
	}
	m.nextRef++
	ref := fmt.Sprintf("msg-%d", m.nextRef)
	m.Sent = append(m.Sent, SentMessage{ChannelID: channelID, MessageRef: ref, Message: msg})
	return ref, nil
}

func (m *MockClient) EditMessage(_ context.Context, channelID, messageRef string, msg *Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.EditErr != nil {
		return m.EditErr
	}
	m.Edits = append(m.Edits, SentMessage{ChannelID: channelID, MessageRef: messageRef, Message: msg})
	return nil
}

func (m *MockClient) DeleteMessage(_ context.Context, channelID, messageRef string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deleted = append(m.Deleted, messageRef)
	return nil
}

func (m *MockClient) FetchDisplayName(_ context.Context, userID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NameHits[userID]++
	if name, ok := m.Names[userID]; ok {
		return name, nil
	}
	return "user-" + userID, nil
}

func (m *MockClient) Reply(_ context.Context, token string, msg *Message, ephemeral bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Replies = append(m.Replies, SentReply{Token: token, Message: msg, Ephemeral: ephemeral})
	return nil
}

// LastReply returns the most recent reply, nil when none was sent.
func (m *MockClient) LastReply() *SentReply {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Replies) == 0 {
		return nil
	}
	r := m.Replies[len(m.Replies)-1]
	return &r
}
