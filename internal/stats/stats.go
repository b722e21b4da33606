// Package stats derives the dashboard numbers from the activity log.
//
// What counts is an explicit Policy: the aggregation used to live in a
// stored procedure whose rules were never written down.
package stats

import (
	"time"

	"github.com/suPer8Hu/mindguide/internal/activity"
)

const dateLayout = "2006-01-02"

type Stats struct {
	TotalSessions   int     `json:"totalSessions"`
	CurrentStreak   int     `json:"currentStreak"`
	BadgesEarned    int     `json:"badgesEarned"`
	LastSessionDate *string `json:"lastSessionDate"`
}

type Policy struct {
	// Each record of these actions is one session.
	SessionActions []activity.Action
	// A calendar day with any of these actions keeps the streak alive.
	StreakActions []activity.Action
	// One badge per threshold reached.
	SessionBadges []int
	StreakBadges  []int
	// Calendar days are taken in this zone.
	Location *time.Location
}

func DefaultPolicy() Policy {
	return Policy{
		SessionActions: []activity.Action{activity.ActionLogin, activity.ActionSignup},
		StreakActions:  []activity.Action{activity.ActionLogin, activity.ActionSignup, activity.ActionMessageSent},
		SessionBadges:  []int{1, 5, 10, 25, 50, 100},
		StreakBadges:   []int{3, 7, 14, 30},
		Location:       time.Local,
	}
}

// Badges counts the thresholds reached by sessions and streak.
func (p Policy) Badges(sessions, streak int) int {
	n := 0
	for _, t := range p.SessionBadges {
		if sessions >= t {
			n++
		}
	}
	for _, t := range p.StreakBadges {
		if streak >= t {
			n++
		}
	}
	return n
}

// streakCounter consumes activity times newest first and counts the run of
// consecutive calendar days ending at the newest one.
type streakCounter struct {
	loc      *time.Location
	last     time.Time // newest day seen, zero until the first feed
	current  time.Time
	streak   int
	finished bool
}

func newStreakCounter(loc *time.Location) *streakCounter {
	if loc == nil {
		loc = time.Local
	}
	return &streakCounter{loc: loc}
}

func (s *streakCounter) day(ts time.Time) time.Time {
	t := ts.In(s.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
}

// feed returns false once the run is broken.
func (s *streakCounter) feed(ts time.Time) bool {
	if s.finished {
		return false
	}
	d := s.day(ts)
	switch {
	case s.streak == 0:
		s.last, s.current, s.streak = d, d, 1
	case d.Equal(s.current):
	case d.Equal(s.current.AddDate(0, 0, -1)):
		s.current = d
		s.streak++
	default:
		s.finished = true
	}
	return !s.finished
}

func (s *streakCounter) lastDate() *string {
	if s.streak == 0 {
		return nil
	}
	v := s.last.Format(dateLayout)
	return &v
}
