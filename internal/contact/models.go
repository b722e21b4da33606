package contact

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusQueued   Status = "queued"
	StatusNotified Status = "notified"
	StatusFailed   Status = "failed"
)

type Submission struct {
	ID string `gorm:"primaryKey;size:26"` // ULID length

	Name    string `gorm:"type:varchar(128);not null"`
	Email   string `gorm:"type:varchar(191);index;not null"`
	Subject string `gorm:"type:varchar(255);not null"`
	Message string `gorm:"type:text;not null"`

	Status Status `gorm:"type:varchar(16);index;not null"`

	// Filled when failed
	Error *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Submission) TableName() string { return "contact_submissions" }

type Form struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}
