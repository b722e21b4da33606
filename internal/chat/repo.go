package chat

import (
	"context"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// Transaction runs fn in a transaction; fn gets a repo bound to it.
func (r *Repo) Transaction(ctx context.Context, fn func(tx *gorm.DB, txRepo *Repo) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(tx, &Repo{db: tx})
	})
}

func (r *Repo) InsertMessage(ctx context.Context, m *Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// ListHistory returns the conversation oldest -> newest. With limit > 0 it
// returns only the newest `limit` messages older than beforeID (when set),
// still in ascending order.
func (r *Repo) ListHistory(ctx context.Context, userID, conversationID uint64, limit int, beforeID uint64) ([]Message, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ? AND conversation_id = ?", userID, conversationID)
	if beforeID > 0 {
		q = q.Where("id < ?", beforeID)
	}

	var msgs []Message
	if limit <= 0 {
		err := q.Order("created_at ASC").Order("id ASC").Find(&msgs).Error
		return msgs, err
	}

	if err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&msgs).Error; err != nil {
		return nil, err
	}
	// reverse to ASC (oldest -> newest)
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}
