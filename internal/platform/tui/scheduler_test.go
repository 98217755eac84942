package tui

import (
	"testing"
	"time"
)

func TestSchedulerSingleTickInFlight(t *testing.T) {
	s := NewScheduler(1000)

	cmd := s.Start()
	if cmd == nil {
		t.Fatal("Start should schedule a tick")
	}
	if s.Start() != nil {
		t.Error("Second Start must not schedule another tick")
	}
	if s.Next() != nil {
		t.Error("Next must not schedule while a tick is in flight")
	}

	msg, ok := cmd().(TickMsg)
	if !ok {
		t.Fatal("Expected TickMsg")
	}
	if !s.Accept(msg) {
		t.Fatal("Current tick should be accepted")
	}
	if s.Accept(msg) {
		t.Error("A tick must only be accepted once")
	}
	if s.Next() == nil {
		t.Error("Next should schedule after an accepted tick")
	}
}

func TestSchedulerStopInvalidatesTick(t *testing.T) {
	s := NewScheduler(1000)
	cmd := s.Start()
	msg := cmd().(TickMsg)

	s.Stop()
	s.Stop() // idempotent
	if s.Running() {
		t.Fatal("Scheduler should be stopped")
	}
	if s.Accept(msg) {
		t.Error("Tick from before Stop must be ignored")
	}
	if s.Next() != nil {
		t.Error("Stopped scheduler must not schedule")
	}

	// Resume gets a fresh handle; the old tick stays stale.
	cmd = s.Start()
	if cmd == nil {
		t.Fatal("Start should resume")
	}
	if s.Accept(msg) {
		t.Error("Old tick accepted after resume")
	}
	if !s.Accept(cmd().(TickMsg)) {
		t.Error("New tick should be accepted")
	}
}

func TestSchedulerInterval(t *testing.T) {
	tests := []struct {
		rate int
		want time.Duration
	}{
		{60, time.Second / 60},
		{30, time.Second / 30},
		{0, time.Second / 60},
	}
	for _, tt := range tests {
		if got := NewScheduler(tt.rate).Interval(); got != tt.want {
			t.Errorf("NewScheduler(%d).Interval() = %s, want %s", tt.rate, got, tt.want)
		}
	}
}
