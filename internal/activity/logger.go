package activity

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// Logger appends audit events. It never decides whether the primary
// operation succeeds; callers choose whether to look at the error.
type Logger struct {
	repo  *Repo
	log   *log.Logger
	hooks []func(ctx context.Context, userID uint64)
}

func NewLogger(repo *Repo, lg *log.Logger) *Logger {
	return &Logger{repo: repo, log: lg}
}

// OnRecord registers fn to run after an event for userID is durable.
// Not safe to call concurrently with Record.
func (l *Logger) OnRecord(fn func(ctx context.Context, userID uint64)) {
	l.hooks = append(l.hooks, fn)
}

// Record appends one event with its own statement.
func (l *Logger) Record(ctx context.Context, userID uint64, action Action) error {
	if !action.Valid() {
		return fmt.Errorf("record activity: unknown action %q", action)
	}
	if err := l.repo.Insert(ctx, &Log{UserID: userID, ActionType: action}); err != nil {
		l.log.Error("activity log write failed", "uid", userID, "action", action, "err", err)
		return fmt.Errorf("record activity: %w", err)
	}
	l.Committed(ctx, userID)
	return nil
}

// RecordTx appends one event inside tx behind a savepoint, so a failed
// write leaves the rest of tx usable. The caller must call Committed once
// tx commits.
func (l *Logger) RecordTx(ctx context.Context, tx *gorm.DB, userID uint64, action Action) error {
	if !action.Valid() {
		return fmt.Errorf("record activity: unknown action %q", action)
	}
	err := tx.Transaction(func(sp *gorm.DB) error {
		return l.repo.WithTx(sp).Insert(ctx, &Log{UserID: userID, ActionType: action})
	})
	if err != nil {
		l.log.Warn("activity log write rolled back", "uid", userID, "action", action, "err", err)
		return fmt.Errorf("record activity: %w", err)
	}
	return nil
}

// Committed runs the post-write hooks for userID.
func (l *Logger) Committed(ctx context.Context, userID uint64) {
	for _, h := range l.hooks {
		h(ctx, userID)
	}
}
