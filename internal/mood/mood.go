package mood

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/suPer8Hu/mindguide/internal/common"
	"gorm.io/gorm"
)

const (
	DefaultDays = 30
	MaxDays     = 365
	dateLayout  = "2006-01-02"
)

type Log struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UserID    uint64    `gorm:"not null;index:idx_mood_user_date,priority:1"`
	LogDate   time.Time `gorm:"type:date;not null;index:idx_mood_user_date,priority:2"`
	Mood      int       `gorm:"not null"`
	Activity  *string   `gorm:"type:varchar(64)"`
	CreatedAt time.Time
}

func (Log) TableName() string { return "mood_logs" }

type View struct {
	ID       string  `json:"id"`
	Date     string  `json:"date"`
	Mood     int     `json:"mood"`
	Activity *string `json:"activity"`
}

func (l Log) View() View {
	return View{
		ID:       fmt.Sprintf("log-%d", l.ID),
		Date:     l.LogDate.Format(dateLayout),
		Mood:     l.Mood,
		Activity: l.Activity,
	}
}

func Views(logs []Log) []View {
	out := make([]View, 0, len(logs))
	for _, l := range logs {
		out = append(out, l.View())
	}
	return out
}

type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

func (s *Service) today() time.Time {
	n := s.now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, n.Location())
}

// List returns the user's logs from the last `days` days, oldest first.
func (s *Service) List(ctx context.Context, userID uint64, days int) ([]Log, error) {
	if days <= 0 {
		days = DefaultDays
	}
	if days > MaxDays {
		days = MaxDays
	}
	since := s.today().AddDate(0, 0, -days)

	var logs []Log
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND log_date >= ?", userID, since).
		Order("log_date ASC").
		Order("id ASC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("list mood logs: %w", err)
	}
	return logs, nil
}

// Record stores one mood entry. An empty date means today; dates in the
// future are rejected.
func (s *Service) Record(ctx context.Context, userID uint64, mood int, activity, date string) (*Log, error) {
	if mood < 1 || mood > 5 {
		return nil, common.Invalid("Mood must be between 1 and 5")
	}

	day := s.today()
	if date = strings.TrimSpace(date); date != "" {
		d, err := time.ParseInLocation(dateLayout, date, day.Location())
		if err != nil {
			return nil, common.Invalid("Date must be YYYY-MM-DD")
		}
		if d.After(day) {
			return nil, common.Invalid("Date cannot be in the future")
		}
		day = d
	}

	l := &Log{UserID: userID, LogDate: day, Mood: mood}
	if a := strings.TrimSpace(activity); a != "" {
		if len(a) > 64 {
			return nil, common.Invalid("Activity is too long")
		}
		l.Activity = &a
	}
	if err := s.db.WithContext(ctx).Create(l).Error; err != nil {
		return nil, fmt.Errorf("record mood: %w", err)
	}
	return l, nil
}
