// Package bot chooses the reply the assistant sends back for a user message.
package bot

import "context"

// Responder produces the bot reply for one user message.
type Responder interface {
	Reply(ctx context.Context, conversationID, userID uint64, content string) (string, error)
}
