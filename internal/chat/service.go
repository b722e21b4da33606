package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/suPer8Hu/mindguide/internal/activity"
	"github.com/suPer8Hu/mindguide/internal/bot"
	"github.com/suPer8Hu/mindguide/internal/common"
	"gorm.io/gorm"
)

const maxPageSize = 200

type Service struct {
	repo      *Repo
	responder bot.Responder
	activity  *activity.Logger
	log       *log.Logger
}

func NewService(repo *Repo, responder bot.Responder, act *activity.Logger, lg *log.Logger) *Service {
	return &Service{repo: repo, responder: responder, activity: act, log: lg}
}

// SendMessage stores the user's message and exactly one bot reply in one
// transaction and records MESSAGE_SENT. The activity write sits behind a
// savepoint: if it fails the message pair is still committed.
func (s *Service) SendMessage(ctx context.Context, conversationID, userID uint64, content string) (*Exchange, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, common.Invalid("Content is required")
	}
	if conversationID == 0 {
		conversationID = DefaultConversationID
	}

	var (
		ex     Exchange
		logged bool
	)
	err := s.repo.Transaction(ctx, func(tx *gorm.DB, r *Repo) error {
		// 1) user message
		userMsg := &Message{
			ConversationID: conversationID,
			UserID:         userID,
			Content:        content,
			Sender:         SenderUser,
			Status:         StatusDelivered,
		}
		if err := r.InsertMessage(ctx, userMsg); err != nil {
			return fmt.Errorf("insert user message: %w", err)
		}

		// 2) bot reply
		reply, err := s.responder.Reply(ctx, conversationID, userID, content)
		if err != nil {
			return fmt.Errorf("bot reply: %w", err)
		}
		botMsg := &Message{
			ConversationID: conversationID,
			UserID:         userID,
			Content:        reply,
			Sender:         SenderBot,
			Status:         StatusDelivered,
		}
		if err := r.InsertMessage(ctx, botMsg); err != nil {
			return fmt.Errorf("insert bot message: %w", err)
		}

		// 3) audit; failure is logged by the activity logger and ignored here
		logged = s.activity.RecordTx(ctx, tx, userID, activity.ActionMessageSent) == nil

		ex = Exchange{User: *userMsg, Bot: *botMsg}
		return nil
	})
	if err != nil {
		s.log.Error("send message failed", "uid", userID, "conversation", conversationID, "err", err)
		return nil, fmt.Errorf("send message: %w", err)
	}

	if logged {
		s.activity.Committed(ctx, userID)
	}
	return &ex, nil
}

type Page struct {
	Limit    int
	BeforeID uint64
}

// GetHistory returns the conversation in ascending timestamp order. A zero
// Page returns the whole conversation.
func (s *Service) GetHistory(ctx context.Context, userID, conversationID uint64, page Page) ([]Message, error) {
	if conversationID == 0 {
		conversationID = DefaultConversationID
	}
	if page.Limit < 0 {
		page.Limit = 0
	}
	if page.Limit > maxPageSize {
		page.Limit = maxPageSize
	}
	msgs, err := s.repo.ListHistory(ctx, userID, conversationID, page.Limit, page.BeforeID)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	return msgs, nil
}
