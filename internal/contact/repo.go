package contact

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

func (r *Repo) Create(ctx context.Context, s *Submission) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Submission, error) {
	var s Submission
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repo) MarkQueued(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&Submission{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Update("status", StatusQueued).Error
}

func (r *Repo) MarkNotified(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&Submission{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status": StatusNotified,
			"error":  nil,
		}).Error
}

func (r *Repo) MarkFailed(ctx context.Context, id string, errMsg string) error {
	return r.db.WithContext(ctx).Model(&Submission{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status": StatusFailed,
			"error":  errMsg,
		}).Error
}

// ListPending returns submissions that never made it onto the queue,
// oldest first.
func (r *Repo) ListPending(ctx context.Context, limit int) ([]Submission, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []Submission
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
