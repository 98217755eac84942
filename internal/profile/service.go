package profile

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/continuation"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

// Service loads and updates profiles in the store.
type Service struct {
	store  *storage.Store
	cfg    config.ContinuationConfig
	now    func() time.Time
	logger *log.Logger
}

// NewService creates a profile service.
func NewService(store *storage.Store, cfg config.ContinuationConfig, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Service{store: store, cfg: cfg, now: time.Now, logger: logger}
}

// SetClock replaces the time source. Used by tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Load returns the player's profile with regenerated lives applied.
// New players start with full lives.
func (s *Service) Load(player string) (Profile, error) {
	rec, found, err := s.store.LoadProfile(player)
	if err != nil {
		return Profile{}, err
	}

	now := s.now()
	p := fromRecord(rec)
	if !found {
		p.Counters.Lives = s.cfg.MaxLives
		p.LivesUpdatedAt = now
		if err := s.store.SaveProfile(p.record()); err != nil {
			return Profile{}, err
		}
		s.logger.Info("profile created", "player", player)
		return p, nil
	}

	if gained := p.Regenerate(now, s.cfg.LifeRegen, s.cfg.MaxLives); gained > 0 {
		s.logger.Info("lives regenerated", "player", player, "gained", gained, "lives", p.Counters.Lives)
		if err := s.store.SaveCounters(player, p.Counters.GamesSinceAd, p.Counters.Lives, p.LivesUpdatedAt); err != nil {
			return Profile{}, err
		}
	}
	return p, nil
}

// Entitlements returns a session entitlement provider for p.
func (s *Service) Entitlements(p Profile) *Entitlements {
	return NewEntitlements(p.Counters.AdFreeUntil, p.RevivePasses, s.now)
}

// SaveCounters persists counters. The regeneration clock starts when lives
// first drop below the cap.
func (s *Service) SaveCounters(player string, c continuation.Counters) error {
	rec, _, err := s.store.LoadProfile(player)
	if err != nil {
		return err
	}
	updated := rec.LivesUpdatedAt
	switch {
	case c.Lives >= s.cfg.MaxLives:
		updated = s.now()
	case rec.Lives >= s.cfg.MaxLives || updated.IsZero():
		updated = s.now()
	}
	return s.store.SaveCounters(player, c.GamesSinceAd, c.Lives, updated)
}

// RecordPickup counts a collected heart.
func (s *Service) RecordPickup(player string) error {
	return s.store.RecordPickup(player)
}

// RecordAttempt stores a finished attempt, credits its coins and adds it to
// the leaderboard.
func (s *Service) RecordAttempt(player string, a continuation.AttemptComplete) error {
	id, err := s.store.RecordAttempt(storage.AttemptRecord{
		Player:    player,
		Score:     a.Score,
		Coins:     a.Coins,
		Route:     a.Route.String(),
		Abandoned: a.Abandoned,
	})
	if err != nil {
		return err
	}
	if err := s.store.AddCoins(player, a.Coins); err != nil {
		return err
	}
	if _, err := s.store.SaveScore(player, a.Score, a.Coins); err != nil {
		return err
	}
	s.logger.Debug("attempt recorded", "player", player, "id", id, "score", a.Score, "route", a.Route)
	return nil
}

// ConsumeRevivePass spends one premium revive pass.
func (s *Service) ConsumeRevivePass(player string) error {
	return s.store.ConsumeRevivePass(player)
}

// GrantAdFree extends the ad-free window by d, starting from now or from the
// current expiry if it is still in the future.
func (s *Service) GrantAdFree(player string, d time.Duration) (time.Time, error) {
	if d <= 0 {
		return time.Time{}, fmt.Errorf("profile: ad-free duration must be positive, got %s", d)
	}
	p, err := s.Load(player)
	if err != nil {
		return time.Time{}, err
	}
	start := s.now()
	if p.Counters.AdFreeUntil.After(start) {
		start = p.Counters.AdFreeUntil
	}
	until := start.Add(d)
	if err := s.store.GrantAdFree(player, until); err != nil {
		return time.Time{}, err
	}
	return until, nil
}

// AddRevivePasses credits n premium revive passes.
func (s *Service) AddRevivePasses(player string, n int) error {
	if n <= 0 {
		return fmt.Errorf("profile: pass count must be positive, got %d", n)
	}
	if _, err := s.Load(player); err != nil {
		return err
	}
	return s.store.AddRevivePasses(player, n)
}
