package chat

import (
	"fmt"
	"time"
)

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

type Status string

const (
	StatusSending   Status = "sending"
	StatusDelivered Status = "delivered"
	StatusFailed    Status = "failed"
)

// DefaultConversationID is used when a caller does not name a conversation.
// There is no conversation creation flow; each user has one by default.
const DefaultConversationID uint64 = 1

type Message struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement"`
	UserID         uint64    `gorm:"not null;index:idx_chat_msg_user_conv_created,priority:1"`
	ConversationID uint64    `gorm:"not null;index:idx_chat_msg_user_conv_created,priority:2"`
	Content        string    `gorm:"type:text;not null"`
	Sender         Sender    `gorm:"type:varchar(8);not null"`
	Status         Status    `gorm:"type:varchar(16);not null"`
	CreatedAt      time.Time `gorm:"index:idx_chat_msg_user_conv_created,priority:3"`
}

func (Message) TableName() string { return "chat_messages" }

// MessageView is the wire shape of a message.
type MessageView struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Sender    Sender `json:"sender"`
	Timestamp string `json:"timestamp"`
	Status    Status `json:"status"`
}

// DisplayID combines sender and row id, e.g. "bot-42".
func (m Message) DisplayID() string {
	return fmt.Sprintf("%s-%d", m.Sender, m.ID)
}

func (m Message) View() MessageView {
	return MessageView{
		ID:        m.DisplayID(),
		Content:   m.Content,
		Sender:    m.Sender,
		Timestamp: m.CreatedAt.Format(time.RFC3339),
		Status:    m.Status,
	}
}

func Views(msgs []Message) []MessageView {
	out := make([]MessageView, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.View())
	}
	return out
}

// Exchange is one user message and the bot reply paired with it.
type Exchange struct {
	User Message
	Bot  Message
}
