package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNoRevivePass is returned when a player has no revive pass to spend.
var ErrNoRevivePass = errors.New("storage: no revive pass left")

// ProfileRecord is the persisted per-player state.
type ProfileRecord struct {
	Player          string
	GamesSinceAd    int
	Lives           int
	LivesUpdatedAt  time.Time // Start of the current regeneration interval
	AdFreeUntil     time.Time
	Coins           int64
	RevivePasses    int
	HeartsCollected int
	CreatedAt       time.Time
}

// LoadProfile returns the player's profile. found is false when the player
// has never been saved; rec then only carries the name.
func (s *Store) LoadProfile(player string) (rec ProfileRecord, found bool, err error) {
	rec.Player = player

	var livesMs, adFreeMs int64
	var createdAt any
	err = s.db.QueryRow(
		`SELECT games_since_ad, lives, lives_updated_ms, ad_free_until_ms,
		        coins, revive_passes, hearts_collected, created_at
		 FROM profiles WHERE player = ?`,
		player,
	).Scan(&rec.GamesSinceAd, &rec.Lives, &livesMs, &adFreeMs,
		&rec.Coins, &rec.RevivePasses, &rec.HeartsCollected, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return rec, false, nil
	}
	if err != nil {
		return rec, false, fmt.Errorf("storage: cannot load profile %s: %w", player, err)
	}

	rec.LivesUpdatedAt = fromMillis(livesMs)
	rec.AdFreeUntil = fromMillis(adFreeMs)
	rec.CreatedAt = parseTime(createdAt)
	return rec, true, nil
}

// SaveProfile inserts or fully replaces a profile.
func (s *Store) SaveProfile(rec ProfileRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO profiles
		 (player, games_since_ad, lives, lives_updated_ms, ad_free_until_ms, coins, revive_passes, hearts_collected)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(player) DO UPDATE SET
		   games_since_ad = excluded.games_since_ad,
		   lives = excluded.lives,
		   lives_updated_ms = excluded.lives_updated_ms,
		   ad_free_until_ms = excluded.ad_free_until_ms,
		   coins = excluded.coins,
		   revive_passes = excluded.revive_passes,
		   hearts_collected = excluded.hearts_collected`,
		rec.Player, rec.GamesSinceAd, rec.Lives, toMillis(rec.LivesUpdatedAt), toMillis(rec.AdFreeUntil),
		rec.Coins, rec.RevivePasses, rec.HeartsCollected,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save profile %s: %w", rec.Player, err)
	}
	return nil
}

// ensureProfile creates an empty profile row if none exists.
func (s *Store) ensureProfile(player string) error {
	_, err := s.db.Exec("INSERT OR IGNORE INTO profiles (player) VALUES (?)", player)
	if err != nil {
		return fmt.Errorf("storage: cannot create profile %s: %w", player, err)
	}
	return nil
}

// SaveCounters updates the session counters of a profile.
func (s *Store) SaveCounters(player string, gamesSinceAd, lives int, livesUpdatedAt time.Time) error {
	if err := s.ensureProfile(player); err != nil {
		return err
	}
	_, err := s.db.Exec(
		`UPDATE profiles SET games_since_ad = ?, lives = ?, lives_updated_ms = ? WHERE player = ?`,
		gamesSinceAd, lives, toMillis(livesUpdatedAt), player,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save counters %s: %w", player, err)
	}
	return nil
}

// AddCoins credits coins to a profile.
func (s *Store) AddCoins(player string, coins int) error {
	if err := s.ensureProfile(player); err != nil {
		return err
	}
	_, err := s.db.Exec("UPDATE profiles SET coins = coins + ? WHERE player = ?", coins, player)
	if err != nil {
		return fmt.Errorf("storage: cannot add coins %s: %w", player, err)
	}
	return nil
}

// RecordPickup counts a collected heart.
func (s *Store) RecordPickup(player string) error {
	if err := s.ensureProfile(player); err != nil {
		return err
	}
	_, err := s.db.Exec("UPDATE profiles SET hearts_collected = hearts_collected + 1 WHERE player = ?", player)
	if err != nil {
		return fmt.Errorf("storage: cannot record pickup %s: %w", player, err)
	}
	return nil
}

// GrantAdFree sets the end of the ad-free window.
func (s *Store) GrantAdFree(player string, until time.Time) error {
	if err := s.ensureProfile(player); err != nil {
		return err
	}
	_, err := s.db.Exec("UPDATE profiles SET ad_free_until_ms = ? WHERE player = ?", toMillis(until), player)
	if err != nil {
		return fmt.Errorf("storage: cannot grant ad-free %s: %w", player, err)
	}
	return nil
}

// AddRevivePasses credits premium revive passes.
func (s *Store) AddRevivePasses(player string, n int) error {
	if err := s.ensureProfile(player); err != nil {
		return err
	}
	_, err := s.db.Exec("UPDATE profiles SET revive_passes = revive_passes + ? WHERE player = ?", n, player)
	if err != nil {
		return fmt.Errorf("storage: cannot add revive passes %s: %w", player, err)
	}
	return nil
}

// ConsumeRevivePass spends one pass. Returns ErrNoRevivePass if none is left.
func (s *Store) ConsumeRevivePass(player string) error {
	res, err := s.db.Exec(
		"UPDATE profiles SET revive_passes = revive_passes - 1 WHERE player = ? AND revive_passes > 0",
		player,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot consume revive pass %s: %w", player, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: cannot consume revive pass %s: %w", player, err)
	}
	if n == 0 {
		return ErrNoRevivePass
	}
	return nil
}

// Players lists every player with a profile, alphabetically.
func (s *Store) Players() ([]string, error) {
	rows, err := s.db.Query("SELECT player FROM profiles ORDER BY player")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot list players: %w", err)
	}
	defer rows.Close()

	var players []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("storage: cannot scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}
