package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-flappy/internal/storage"
)

func TestScoreboardViews(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	store.SaveScore("alice", 12, 17)
	store.SaveScore("bob", 30, 30)
	store.SaveScore("bob", 4, 4)
	store.RecordAttempt(storage.AttemptRecord{Player: "alice", Score: 12, Coins: 17, Route: "optional_ad"})

	m := NewScoreboardModel(store, "alice", 100, 30)
	if m.rowCount != 3 {
		t.Errorf("Leaderboard should list every player, got %d rows", m.rowCount)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	if m.view != viewMine || m.rowCount != 1 {
		t.Errorf("My scores should list only alice, got view=%d rows=%d", m.view, m.rowCount)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	if m.view != viewAttempts || m.rowCount != 1 {
		t.Errorf("Attempts view: view=%d rows=%d", m.view, m.rowCount)
	}
	if !strings.Contains(m.View(), "optional_ad") {
		t.Error("Attempts view should show the revive route")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(ScoreboardModel)
	if m.view != viewMine {
		t.Errorf("Shift+tab should go back, got view=%d", m.view)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !next.(ScoreboardModel).IsGoingBack() {
		t.Error("Esc should go back")
	}
}

func TestScoreboardWithoutStore(t *testing.T) {
	m := NewScoreboardModel(nil, "alice", 60, 20)
	if !strings.Contains(m.View(), "No scores recorded yet") {
		t.Error("Expected empty message")
	}
}
