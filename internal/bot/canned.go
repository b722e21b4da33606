package bot

import (
	"context"
	"errors"
	"math/rand/v2"
)

var DefaultReplies = []string{
	"I understand. Tell me more.",
	"That sounds difficult. I'm listening.",
	"You're not alone in this.",
	"It's okay to feel this way.",
	"Thanks for sharing this with me.",
}

// Canned picks a reply uniformly at random from a fixed pool.
type Canned struct {
	replies []string
	intn    func(n int) int
}

func NewCanned(replies []string) (*Canned, error) {
	if len(replies) == 0 {
		return nil, errors.New("bot: canned reply pool is empty")
	}
	pool := append([]string(nil), replies...)
	return &Canned{replies: pool, intn: rand.IntN}, nil
}

func (c *Canned) Reply(ctx context.Context, conversationID, userID uint64, content string) (string, error) {
	_ = ctx
	return c.replies[c.intn(len(c.replies))], nil
}

// Replies returns a copy of the pool.
func (c *Canned) Replies() []string {
	return append([]string(nil), c.replies...)
}
