package stats

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/suPer8Hu/mindguide/internal/activity"
)

// Cache stores computed stats per user. Implementations may be lossy.
type Cache interface {
	GetStats(ctx context.Context, userID uint64) (*Stats, error) // nil, nil on miss
	SetStats(ctx context.Context, userID uint64, s Stats) error
	DeleteStats(ctx context.Context, userID uint64) error
}

type Aggregator struct {
	repo   *activity.Repo
	policy Policy
	cache  Cache
	log    *log.Logger

	// bumped by Invalidate; a fill computed across a bump is not cached
	mu   sync.Mutex
	gens map[uint64]uint64
}

// NewAggregator; cache may be nil.
func NewAggregator(repo *activity.Repo, policy Policy, cache Cache, lg *log.Logger) *Aggregator {
	if policy.Location == nil {
		policy.Location = time.Local
	}
	return &Aggregator{repo: repo, policy: policy, cache: cache, log: lg, gens: make(map[uint64]uint64)}
}

func (a *Aggregator) generation(userID uint64) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gens[userID]
}

func (a *Aggregator) GetStats(ctx context.Context, userID uint64) (Stats, error) {
	gen := a.generation(userID)
	if a.cache != nil {
		cached, err := a.cache.GetStats(ctx, userID)
		if err != nil {
			a.log.Warn("stats cache read failed", "uid", userID, "err", err)
		} else if cached != nil {
			return *cached, nil
		}
	}

	st, err := a.compute(ctx, userID)
	if err != nil {
		return Stats{}, fmt.Errorf("get stats: %w", err)
	}

	if a.cache != nil {
		if a.generation(userID) != gen {
			// activity landed while computing; leave the slot empty
			return st, nil
		}
		if err := a.cache.SetStats(ctx, userID, st); err != nil {
			a.log.Warn("stats cache write failed", "uid", userID, "err", err)
		}
	}
	return st, nil
}

// Invalidate drops the cached stats for userID. Shaped to be an
// activity.Logger hook.
func (a *Aggregator) Invalidate(ctx context.Context, userID uint64) {
	if a.cache == nil {
		return
	}
	a.mu.Lock()
	a.gens[userID]++
	a.mu.Unlock()
	if err := a.cache.DeleteStats(ctx, userID); err != nil {
		a.log.Warn("stats cache invalidate failed", "uid", userID, "err", err)
	}
}

func (a *Aggregator) compute(ctx context.Context, userID uint64) (Stats, error) {
	sessions, err := a.repo.Count(ctx, userID, a.policy.SessionActions)
	if err != nil {
		return Stats{}, err
	}

	sc := newStreakCounter(a.policy.Location)
	if err := a.repo.EachTimeDesc(ctx, userID, a.policy.StreakActions, sc.feed); err != nil {
		return Stats{}, err
	}

	st := Stats{
		TotalSessions:   int(sessions),
		CurrentStreak:   sc.streak,
		LastSessionDate: sc.lastDate(),
	}
	st.BadgesEarned = a.policy.Badges(st.TotalSessions, st.CurrentStreak)
	return st, nil
}
