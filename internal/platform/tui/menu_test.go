package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

func menuUpdate(m MenuModel, msg tea.Msg) MenuModel {
	next, _ := m.Update(msg)
	return next.(MenuModel)
}

func TestMenuSelectsPreset(t *testing.T) {
	m := NewMenuModel("alice", core.DefaultConfig())

	m = menuUpdate(m, tea.KeyMsg{Type: tea.KeyDown})
	m = menuUpdate(m, tea.KeyMsg{Type: tea.KeyEnter})

	res := m.result()
	if res.Quit || res.WantsScoreboard {
		t.Fatalf("Unexpected result %+v", res)
	}
	if res.Preset != config.DifficultyHard {
		t.Errorf("Expected hard preset, got %q", res.Preset)
	}
}

func TestMenuCursorBounds(t *testing.T) {
	m := NewMenuModel("alice", core.DefaultConfig())
	for i := 0; i < 10; i++ {
		m = menuUpdate(m, tea.KeyMsg{Type: tea.KeyUp})
	}
	if m.cursor != 0 {
		t.Errorf("Cursor should stop at 0, got %d", m.cursor)
	}
	for i := 0; i < 10; i++ {
		m = menuUpdate(m, tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.cursor != len(m.items)-1 {
		t.Errorf("Cursor should stop at last item, got %d", m.cursor)
	}
}

func TestMenuScoreboardAndQuit(t *testing.T) {
	m := menuUpdate(NewMenuModel("alice", core.DefaultConfig()), tea.KeyMsg{Type: tea.KeyTab})
	if !m.result().WantsScoreboard {
		t.Error("Tab should open the scoreboard")
	}

	m = menuUpdate(NewMenuModel("alice", core.DefaultConfig()), tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if !m.result().Quit {
		t.Error("q should quit")
	}
	if m.View() != "" {
		t.Error("Quitting menu should render nothing")
	}
}
