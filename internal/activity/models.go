package activity

import (
	"fmt"
	"strings"
	"time"
)

type Action string

const (
	ActionLogin       Action = "LOGIN"
	ActionLogout      Action = "LOGOUT"
	ActionSignup      Action = "SIGNUP"
	ActionMessageSent Action = "MESSAGE_SENT"
)

func (a Action) Valid() bool {
	switch a {
	case ActionLogin, ActionLogout, ActionSignup, ActionMessageSent:
		return true
	}
	return false
}

func ParseAction(s string) (Action, error) {
	a := Action(strings.ToUpper(strings.TrimSpace(s)))
	if !a.Valid() {
		return "", fmt.Errorf("unknown activity action %q", s)
	}
	return a, nil
}

type Log struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint64    `gorm:"not null;index:idx_activity_user_created,priority:1" json:"user_id"`
	ActionType Action    `gorm:"type:varchar(16);not null;index" json:"action_type"`
	CreatedAt  time.Time `gorm:"index:idx_activity_user_created,priority:2" json:"created_at"`
}

func (Log) TableName() string { return "activity_logs" }
