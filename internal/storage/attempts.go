package storage

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AttemptRecord is one finished attempt.
type AttemptRecord struct {
	ID        string
	Player    string
	Score     int
	Coins     int
	Route     string // Revive route taken, "none" if no revive
	Abandoned bool
	CreatedAt time.Time
}

// RecordAttempt stores an attempt and returns its generated ID.
func (s *Store) RecordAttempt(rec AttemptRecord) (string, error) {
	id := uuid.New().String()
	_, err := s.db.Exec(
		`INSERT INTO attempts (id, player, score, coins, route, abandoned) VALUES (?, ?, ?, ?, ?, ?)`,
		id, rec.Player, rec.Score, rec.Coins, rec.Route, rec.Abandoned,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot record attempt: %w", err)
	}
	return id, nil
}

// RecentAttempts returns a player's most recent attempts, newest first.
func (s *Store) RecentAttempts(player string, limit int) ([]AttemptRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, player, score, coins, route, abandoned, created_at
		 FROM attempts
		 WHERE player = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		player, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query attempts: %w", err)
	}
	defer rows.Close()

	var records []AttemptRecord
	for rows.Next() {
		var r AttemptRecord
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Player, &r.Score, &r.Coins, &r.Route, &r.Abandoned, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// RouteCounts returns how many of a player's attempts used each revive route.
func (s *Store) RouteCounts(player string) (map[string]int, error) {
	rows, err := s.db.Query(
		"SELECT route, COUNT(*) FROM attempts WHERE player = ? GROUP BY route",
		player,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot count routes: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var route string
		var n int
		if err := rows.Scan(&route, &n); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		counts[route] = n
	}
	return counts, rows.Err()
}
