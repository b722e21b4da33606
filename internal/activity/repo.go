package activity

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// WithTx returns a repo bound to tx.
func (r *Repo) WithTx(tx *gorm.DB) *Repo {
	return &Repo{db: tx}
}

func (r *Repo) Insert(ctx context.Context, l *Log) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *Repo) Count(ctx context.Context, userID uint64, actions []Action) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Log{}).
		Where("user_id = ? AND action_type IN ?", userID, actionStrings(actions)).
		Count(&n).Error
	return n, err
}

// EachTimeDesc calls fn with the created_at of every matching record, newest
// first, until fn returns false.
func (r *Repo) EachTimeDesc(ctx context.Context, userID uint64, actions []Action, fn func(time.Time) bool) error {
	rows, err := r.db.WithContext(ctx).Model(&Log{}).
		Select("created_at").
		Where("user_id = ? AND action_type IN ?", userID, actionStrings(actions)).
		Order("created_at DESC").
		Order("id DESC").
		Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var ts time.Time
		if err := rows.Scan(&ts); err != nil {
			return err
		}
		if !fn(ts) {
			break
		}
	}
	return rows.Err()
}

// ListByUser returns the user's records, newest first.
func (r *Repo) ListByUser(ctx context.Context, userID uint64, limit int) ([]Log, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var out []Log
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func actionStrings(actions []Action) []string {
	out := make([]string, 0, len(actions))
	for _, a := range actions {
		out = append(out, string(a))
	}
	return out
}
