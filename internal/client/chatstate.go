package client

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	StatusSending   = "sending"
	StatusDelivered = "delivered"
	StatusFailed    = "failed"
)

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrNotRetryable = errors.New("message is not a failed local message")
)

// ChatState is the local view of one conversation. Sends are optimistic: the
// message shows up as "sending" before the server answers.
type ChatState struct {
	client         *Client
	userID         uint64
	conversationID uint64

	mu       sync.Mutex
	messages []Message
}

func NewChatState(c *Client, userID, conversationID uint64) *ChatState {
	return &ChatState{client: c, userID: userID, conversationID: conversationID}
}

// Messages returns a snapshot.
func (s *ChatState) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.messages)
}

// Load replaces local state with the server history.
func (s *ChatState) Load(ctx context.Context) error {
	msgs, err := s.client.GetChats(ctx, s.userID, s.conversationID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.messages = msgs
	s.mu.Unlock()
	return nil
}

// Send appends a local "sending" message, then reconciles it with the server
// reply. On failure the local message stays, marked "failed".
func (s *ChatState) Send(ctx context.Context, content string) (Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Message{}, ErrEmptyMessage
	}

	local := Message{
		ID:        "local-" + uuid.NewString(),
		Content:   content,
		Sender:    "user",
		Timestamp: time.Now().Format(time.RFC3339),
		Status:    StatusSending,
	}
	s.mu.Lock()
	s.messages = append(s.messages, local)
	s.mu.Unlock()

	return s.deliver(ctx, local.ID, content)
}

// Retry resends a failed local message in place.
func (s *ChatState) Retry(ctx context.Context, localID string) (Message, error) {
	s.mu.Lock()
	i := s.indexOf(localID)
	if i < 0 || s.messages[i].Status != StatusFailed {
		s.mu.Unlock()
		return Message{}, ErrNotRetryable
	}
	s.messages[i].Status = StatusSending
	content := s.messages[i].Content
	s.mu.Unlock()

	return s.deliver(ctx, localID, content)
}

func (s *ChatState) deliver(ctx context.Context, localID, content string) (Message, error) {
	user, bot, err := s.client.SendMessage(ctx, s.conversationID, s.userID, content)

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(localID)
	if err != nil {
		if i >= 0 {
			s.messages[i].Status = StatusFailed
		}
		return Message{}, err
	}
	if i < 0 {
		// Load replaced state while the request was in flight; the reload
		// may already hold the server's copies
		for _, m := range []Message{user, bot} {
			if s.indexOf(m.ID) < 0 {
				s.messages = append(s.messages, m)
			}
		}
		return bot, nil
	}
	s.messages[i] = user
	s.messages = slices.Insert(s.messages, i+1, bot)
	return bot, nil
}

func (s *ChatState) indexOf(id string) int {
	return slices.IndexFunc(s.messages, func(m Message) bool { return m.ID == id })
}
