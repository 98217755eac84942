// Package tui provides the Bubble Tea integration for the game.
// It handles the terminal UI loop, input mapping, ad playback and the
// menu/scoreboard screens, both locally and over SSH.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game simulation tick. Handle identifies the
// scheduling that produced it; ticks from a stopped scheduling are ignored.
type TickMsg struct {
	Handle uint64
	At     time.Time
}

// Scheduler drives the simulation clock. At most one tick is in flight at a
// time; Stop invalidates it and Start resumes with a fresh handle.
type Scheduler struct {
	interval time.Duration
	handle   uint64
	inFlight bool
	running  bool
}

// NewScheduler creates a stopped scheduler for the given tick rate.
func NewScheduler(tickRate int) *Scheduler {
	if tickRate <= 0 {
		tickRate = 60
	}
	return &Scheduler{interval: time.Second / time.Duration(tickRate)}
}

// Start begins ticking. It returns nil if the scheduler is already running.
func (s *Scheduler) Start() tea.Cmd {
	if s.running {
		return nil
	}
	s.running = true
	return s.schedule()
}

// Accept reports whether msg is the tick currently in flight and marks it
// delivered. Stale ticks return false.
func (s *Scheduler) Accept(msg TickMsg) bool {
	if !s.running || !s.inFlight || msg.Handle != s.handle {
		return false
	}
	s.inFlight = false
	return true
}

// Next schedules the following tick after an accepted one.
func (s *Scheduler) Next() tea.Cmd {
	if !s.running || s.inFlight {
		return nil
	}
	return s.schedule()
}

// Stop halts ticking. Safe to call repeatedly.
func (s *Scheduler) Stop() {
	if !s.running {
		return
	}
	s.running = false
	s.inFlight = false
	s.handle++
}

// Running reports whether ticks are being produced.
func (s *Scheduler) Running() bool {
	return s.running
}

// Interval returns the time between ticks.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

func (s *Scheduler) schedule() tea.Cmd {
	s.handle++
	s.inFlight = true
	h := s.handle
	return tea.Tick(s.interval, func(t time.Time) tea.Msg {
		return TickMsg{Handle: h, At: t}
	})
}
