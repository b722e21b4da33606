package redisstore

import (
	"testing"

	"github.com/suPer8Hu/mindguide/internal/stats"
)

var _ stats.Cache = (*Store)(nil)

func TestStatsKey(t *testing.T) {
	if got := statsKey(42); got != "stats:user:42" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestDecodeStats(t *testing.T) {
	st, err := decodeStats([]byte(`{"totalSessions":3,"currentStreak":2,"badgesEarned":1,"lastSessionDate":"2026-01-02"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.TotalSessions != 3 || st.LastSessionDate == nil || *st.LastSessionDate != "2026-01-02" {
		t.Fatalf("unexpected stats: %+v", st)
	}
	if _, err := decodeStats([]byte("{")); err == nil {
		t.Fatalf("expected decode error")
	}
}
