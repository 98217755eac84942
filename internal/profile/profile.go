// Package profile owns per-player progress: session counters, coins, revive
// passes and life regeneration. It is the persistence collaborator behind the
// notify dispatcher and the entitlement provider read by the game.
package profile

import (
	"time"

	"github.com/vovakirdan/tui-flappy/internal/continuation"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

// Profile is a player's persisted state.
type Profile struct {
	Player          string
	Counters        continuation.Counters
	LivesUpdatedAt  time.Time
	Coins           int64
	RevivePasses    int
	HeartsCollected int
}

// fromRecord converts a storage record.
func fromRecord(rec storage.ProfileRecord) Profile {
	return Profile{
		Player: rec.Player,
		Counters: continuation.Counters{
			GamesSinceAd: rec.GamesSinceAd,
			Lives:        rec.Lives,
			AdFreeUntil:  rec.AdFreeUntil,
		},
		LivesUpdatedAt:  rec.LivesUpdatedAt,
		Coins:           rec.Coins,
		RevivePasses:    rec.RevivePasses,
		HeartsCollected: rec.HeartsCollected,
	}
}

func (p Profile) record() storage.ProfileRecord {
	return storage.ProfileRecord{
		Player:          p.Player,
		GamesSinceAd:    p.Counters.GamesSinceAd,
		Lives:           p.Counters.Lives,
		LivesUpdatedAt:  p.LivesUpdatedAt,
		AdFreeUntil:     p.Counters.AdFreeUntil,
		Coins:           p.Coins,
		RevivePasses:    p.RevivePasses,
		HeartsCollected: p.HeartsCollected,
	}
}

// Regenerate grants one life per full interval elapsed since LivesUpdatedAt,
// never above maxLives, and returns how many were granted. Partial progress
// towards the next life is kept.
func (p *Profile) Regenerate(now time.Time, interval time.Duration, maxLives int) int {
	if p.Counters.Lives >= maxLives || p.LivesUpdatedAt.IsZero() {
		p.LivesUpdatedAt = now
		return 0
	}
	if interval <= 0 {
		return 0
	}

	n := int(now.Sub(p.LivesUpdatedAt) / interval)
	if n <= 0 {
		return 0
	}
	gained := n
	if room := maxLives - p.Counters.Lives; gained > room {
		gained = room
	}
	p.Counters.Lives += gained
	if p.Counters.Lives >= maxLives {
		p.LivesUpdatedAt = now
	} else {
		p.LivesUpdatedAt = p.LivesUpdatedAt.Add(time.Duration(n) * interval)
	}
	return gained
}

// NextLife returns when the next life regenerates, or the zero time at max lives.
func (p Profile) NextLife(interval time.Duration, maxLives int) time.Time {
	if p.Counters.Lives >= maxLives || p.LivesUpdatedAt.IsZero() || interval <= 0 {
		return time.Time{}
	}
	return p.LivesUpdatedAt.Add(interval)
}
