package continuation

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

type fakeEntitlements struct {
	adFree bool
	pass   bool
}

func (f *fakeEntitlements) IsAdFree() bool        { return f.adFree }
func (f *fakeEntitlements) HasUnusedRevive() bool { return f.pass }

func newTestMachine(counters Counters, ent *fakeEntitlements) *Machine {
	m := NewMachine(DefaultConfig(), counters, ent, log.New(io.Discard))
	m.Handle(NewAttempt{})
	return m
}

// findEffect returns the first effect of type T.
func findEffect[T Effect](effects []Effect) (T, bool) {
	for _, e := range effects {
		if v, ok := e.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func countEffects[T Effect](effects []Effect) int {
	n := 0
	for _, e := range effects {
		if _, ok := e.(T); ok {
			n++
		}
	}
	return n
}

// finishAttempt collides and declines so the attempt completes.
func finishAttempt(t *testing.T, m *Machine) {
	t.Helper()
	m.Handle(Collision{Score: 3})
	if m.Phase() == PhaseReviving && m.Stage() == StageOffer {
		m.Handle(Choose{Option: OptionDecline})
	}
	if m.Phase() != PhaseTerminal {
		t.Fatalf("expected terminal, got %s/%s", m.Phase(), m.Stage())
	}
}

func TestMachineStartsIdle(t *testing.T) {
	m := NewMachine(DefaultConfig(), Counters{Lives: 9, ReviveUsed: true}, nil, nil)
	if m.Phase() != PhaseIdle {
		t.Errorf("Expected idle, got %s", m.Phase())
	}
	if m.Counters().Lives != 3 {
		t.Errorf("Lives should be clamped to max, got %d", m.Counters().Lives)
	}
	if m.Counters().ReviveUsed {
		t.Error("ReviveUsed must not survive loading")
	}

	m.Handle(NewAttempt{})
	if !m.Running() {
		t.Error("NewAttempt should start playing")
	}
}

func TestOptionalAdRevive(t *testing.T) {
	m := newTestMachine(Counters{}, &fakeEntitlements{})

	effects := m.Handle(Collision{Score: 4, Coins: 4})
	if m.Phase() != PhaseReviving || m.Stage() != StageOffer {
		t.Fatalf("Expected offer, got %s/%s", m.Phase(), m.Stage())
	}
	if _, ok := findEffect[OfferRevive](effects); !ok {
		t.Error("Expected OfferRevive effect")
	}

	effects = m.Handle(Choose{Option: OptionWatchAd})
	play, ok := findEffect[PlayAd](effects)
	if !ok {
		t.Fatal("Expected PlayAd effect")
	}
	if play.Kind != AdRewarded {
		t.Errorf("Expected rewarded ad, got %s", play.Kind)
	}
	if m.Stage() != StageAwaitingAd {
		t.Errorf("Expected awaiting ad, got %s", m.Stage())
	}

	effects = m.Handle(AdResult{Request: play.Request, Completed: true})
	rev, ok := findEffect[Revive](effects)
	if !ok || rev.Route != RouteOptionalAd {
		t.Fatalf("Expected optional-ad revive, got %v", effects)
	}
	if m.Stage() != StageReady {
		t.Errorf("Expected ready, got %s", m.Stage())
	}

	effects = m.Handle(Resume{})
	if _, ok := findEffect[Resumed](effects); !ok {
		t.Error("Expected Resumed effect")
	}
	if !m.Running() {
		t.Error("Should be playing after resume")
	}
}

func TestReviveAtMostOncePerAttempt(t *testing.T) {
	m := newTestMachine(Counters{}, &fakeEntitlements{})

	m.Handle(Collision{Score: 1})
	effects := m.Handle(Choose{Option: OptionWatchAd})
	play, _ := findEffect[PlayAd](effects)
	m.Handle(AdResult{Request: play.Request, Completed: true})
	m.Handle(Resume{})

	effects = m.Handle(Collision{Score: 2})
	if m.Phase() != PhaseTerminal {
		t.Fatalf("Second collision must be terminal, got %s/%s", m.Phase(), m.Stage())
	}
	if countEffects[AttemptComplete](effects) != 1 {
		t.Errorf("Expected exactly one AttemptComplete, got %v", effects)
	}
	if countEffects[Revive](effects) != 0 {
		t.Error("Second collision must not revive")
	}
}

func TestAdFreeRevivesWithoutAd(t *testing.T) {
	ent := &fakeEntitlements{adFree: true}
	m := newTestMachine(Counters{GamesSinceAd: 1}, ent)

	if m.Counters().GamesSinceAd != 0 {
		t.Errorf("Ad-free window should reset the ad counter, got %d", m.Counters().GamesSinceAd)
	}

	effects := m.Handle(Collision{Score: 10})
	if countEffects[PlayAd](effects) != 0 {
		t.Error("Ad-free revive must not request an ad")
	}
	rev, ok := findEffect[Revive](effects)
	if !ok || rev.Route != RouteFree {
		t.Fatalf("Expected free revive, got %v", effects)
	}
	if m.Stage() != StageReady {
		t.Errorf("Expected ready, got %s", m.Stage())
	}

	m.Handle(Resume{})
	m.Handle(Collision{Score: 12})
	if m.Phase() != PhaseTerminal {
		t.Errorf("Second collision with ad-free must be terminal, got %s", m.Phase())
	}
}

func TestMandatoryAdCadence(t *testing.T) {
	m := newTestMachine(Counters{}, &fakeEntitlements{})

	// Attempt 1: offer, declined.
	finishAttempt(t, m)
	if got := m.Counters().GamesSinceAd; got != 1 {
		t.Fatalf("Expected 1 completed attempt, got %d", got)
	}

	// Attempt 2: the cadence threshold is reached.
	m.Handle(NewAttempt{})
	effects := m.Handle(Collision{Score: 5})
	if m.Phase() != PhaseMandatoryAd {
		t.Fatalf("Expected mandatory ad, got %s", m.Phase())
	}
	play, ok := findEffect[PlayAd](effects)
	if !ok || play.Kind != AdInterstitial {
		t.Fatalf("Expected interstitial, got %v", effects)
	}

	effects = m.Handle(AdResult{Request: play.Request, Completed: true})
	if m.Counters().GamesSinceAd != 0 {
		t.Errorf("Counter should reset after mandatory ad, got %d", m.Counters().GamesSinceAd)
	}
	if rev, ok := findEffect[Revive](effects); !ok || rev.Route != RouteMandatoryAd {
		t.Errorf("Expected mandatory-ad revive, got %v", effects)
	}
	m.Handle(Resume{})
	m.Handle(Collision{Score: 6})
	if m.Phase() != PhaseTerminal {
		t.Fatalf("Expected terminal, got %s", m.Phase())
	}
	if m.Counters().GamesSinceAd != 0 {
		t.Errorf("Counter reset this attempt must not increment, got %d", m.Counters().GamesSinceAd)
	}

	// Attempt 3: no mandatory ad.
	m.Handle(NewAttempt{})
	m.Handle(Collision{Score: 1})
	if m.Phase() == PhaseMandatoryAd {
		t.Error("Attempt after a mandatory ad must not show another")
	}
}

func TestMandatoryAdWithReviveUsedEndsAttempt(t *testing.T) {
	m := newTestMachine(Counters{Lives: 1}, &fakeEntitlements{})

	// Burn the revive while the mandatory ad is not yet due.
	m.Handle(Collision{Score: 1})
	m.Handle(Choose{Option: OptionUseLife})
	m.Handle(Resume{})

	m.counters.GamesSinceAd = 1
	effects := m.Handle(Collision{Score: 2})
	play, ok := findEffect[PlayAd](effects)
	if !ok {
		t.Fatalf("Expected mandatory ad, got %v", effects)
	}
	effects = m.Handle(AdResult{Request: play.Request, Completed: true})
	if m.Phase() != PhaseTerminal {
		t.Fatalf("Revive already used: expected terminal, got %s", m.Phase())
	}
	if countEffects[Revive](effects) != 0 {
		t.Error("Must not revive twice")
	}
	if m.Counters().GamesSinceAd != 0 {
		t.Errorf("Completed interstitial should still reset the counter, got %d", m.Counters().GamesSinceAd)
	}
}

func TestAdFailureEndsAttempt(t *testing.T) {
	tests := []struct {
		name   string
		result func(req uint64) AdResult
	}{
		{"rejected", func(req uint64) AdResult { return AdResult{Request: req, Completed: false} }},
		{"error", func(req uint64) AdResult { return AdResult{Request: req, Err: errors.New("no fill")} }},
		{"timeout", func(req uint64) AdResult {
			return AdResult{Request: req, Completed: true, Err: errors.New("context deadline exceeded")}
		}},
	}

	for _, tt := range tests {
		t.Run("mandatory/"+tt.name, func(t *testing.T) {
			m := newTestMachine(Counters{GamesSinceAd: 1}, &fakeEntitlements{})
			effects := m.Handle(Collision{Score: 7})
			play, ok := findEffect[PlayAd](effects)
			if !ok {
				t.Fatalf("Expected PlayAd, got %v", effects)
			}
			effects = m.Handle(tt.result(play.Request))
			if m.Phase() != PhaseTerminal {
				t.Fatalf("Expected terminal, got %s", m.Phase())
			}
			done, ok := findEffect[AttemptComplete](effects)
			if !ok || done.Score != 7 {
				t.Errorf("Expected AttemptComplete with score 7, got %v", effects)
			}
			if m.PendingAd() != 0 {
				t.Error("Pending ad should be cleared")
			}
		})

		t.Run("optional/"+tt.name, func(t *testing.T) {
			m := newTestMachine(Counters{}, &fakeEntitlements{})
			m.Handle(Collision{Score: 2})
			effects := m.Handle(Choose{Option: OptionWatchAd})
			play, _ := findEffect[PlayAd](effects)
			m.Handle(tt.result(play.Request))
			if m.Phase() != PhaseTerminal {
				t.Fatalf("Expected terminal, got %s", m.Phase())
			}
		})
	}
}

func TestStaleAdResultIgnored(t *testing.T) {
	m := newTestMachine(Counters{GamesSinceAd: 1}, &fakeEntitlements{})
	effects := m.Handle(Collision{})
	play, _ := findEffect[PlayAd](effects)

	if effects := m.Handle(AdResult{Request: play.Request + 1, Completed: true}); effects != nil {
		t.Errorf("Stale result should be ignored, got %v", effects)
	}
	if m.Phase() != PhaseMandatoryAd {
		t.Errorf("Phase should be unchanged, got %s", m.Phase())
	}

	m.Handle(AdResult{Request: play.Request, Completed: true})
	if effects := m.Handle(AdResult{Request: play.Request, Completed: false}); effects != nil {
		t.Errorf("Duplicate result should be ignored, got %v", effects)
	}
	if m.Stage() != StageReady {
		t.Errorf("Expected ready, got %s", m.Stage())
	}
}

func TestCollisionOutsidePlayingIgnored(t *testing.T) {
	m := newTestMachine(Counters{}, &fakeEntitlements{})
	m.Handle(Collision{Score: 1})

	if effects := m.Handle(Collision{Score: 1}); effects != nil {
		t.Errorf("Re-entrant collision should be ignored, got %v", effects)
	}
	if m.Anomalies() != 1 {
		t.Errorf("Expected 1 anomaly, got %d", m.Anomalies())
	}
	if m.Stage() != StageOffer {
		t.Errorf("State should be unchanged, got %s", m.Stage())
	}
}

func TestUseLife(t *testing.T) {
	t.Run("spends a life", func(t *testing.T) {
		m := newTestMachine(Counters{Lives: 2}, &fakeEntitlements{})
		m.Handle(Collision{})
		effects := m.Handle(Choose{Option: OptionUseLife})
		if m.Counters().Lives != 1 {
			t.Errorf("Expected 1 life left, got %d", m.Counters().Lives)
		}
		if rev, ok := findEffect[Revive](effects); !ok || rev.Route != RouteLife {
			t.Errorf("Expected life revive, got %v", effects)
		}
	})

	t.Run("spends a pass", func(t *testing.T) {
		m := newTestMachine(Counters{}, &fakeEntitlements{pass: true})
		m.Handle(Collision{})
		effects := m.Handle(Choose{Option: OptionUseLife})
		if countEffects[ConsumeRevivePass](effects) != 1 {
			t.Errorf("Expected ConsumeRevivePass, got %v", effects)
		}
		if m.Stage() != StageReady {
			t.Errorf("Expected ready, got %s", m.Stage())
		}
	})

	t.Run("nothing to spend", func(t *testing.T) {
		m := newTestMachine(Counters{}, &fakeEntitlements{})
		m.Handle(Collision{})
		if effects := m.Handle(Choose{Option: OptionUseLife}); effects != nil {
			t.Errorf("Expected no effects, got %v", effects)
		}
		if m.Stage() != StageOffer {
			t.Errorf("Offer should stay open, got %s", m.Stage())
		}
	})
}

func TestPickupCapsLives(t *testing.T) {
	m := newTestMachine(Counters{Lives: 2}, &fakeEntitlements{})

	effects := m.Handle(Pickup{})
	if countEffects[PickupReward](effects) != 1 || countEffects[CountersChanged](effects) != 1 {
		t.Errorf("Unexpected effects %v", effects)
	}
	effects = m.Handle(Pickup{})
	if m.Counters().Lives != 3 {
		t.Errorf("Expected lives capped at 3, got %d", m.Counters().Lives)
	}
	if countEffects[PickupReward](effects) != 1 || countEffects[CountersChanged](effects) != 0 {
		t.Errorf("Capped pickup should still reward, got %v", effects)
	}
}

func TestAbandon(t *testing.T) {
	m := newTestMachine(Counters{}, &fakeEntitlements{})
	effects := m.Handle(Abandon{Score: 9, Coins: 11})
	done, ok := findEffect[AttemptComplete](effects)
	if !ok || !done.Abandoned || done.Score != 9 || done.Coins != 11 {
		t.Errorf("Unexpected AttemptComplete %+v", done)
	}
	if m.Counters().GamesSinceAd != 1 {
		t.Errorf("Abandoned attempt counts as completed, got %d", m.Counters().GamesSinceAd)
	}
	if effects := m.Handle(Abandon{}); effects != nil {
		t.Error("Abandon after terminal should be a no-op")
	}
}

func TestNewAttemptDuringPlayIgnored(t *testing.T) {
	m := newTestMachine(Counters{}, &fakeEntitlements{})
	if effects := m.Handle(NewAttempt{}); effects != nil {
		t.Errorf("Expected no effects, got %v", effects)
	}
	if m.Anomalies() != 1 {
		t.Errorf("Expected anomaly, got %d", m.Anomalies())
	}
}

func TestCountersAdFreeAt(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := Counters{}
	if c.AdFreeAt(now) {
		t.Error("Zero window should not be ad-free")
	}
	c.AdFreeUntil = now.Add(time.Hour)
	if !c.AdFreeAt(now) {
		t.Error("Expected ad-free inside window")
	}
	if c.AdFreeAt(now.Add(2 * time.Hour)) {
		t.Error("Expected expired window")
	}
}

type recordingSink struct {
	pickups  int
	attempts []AttemptComplete
}

func (r *recordingSink) OnCollectiblePickup()                { r.pickups++ }
func (r *recordingSink) OnAttemptComplete(a AttemptComplete) { r.attempts = append(r.attempts, a) }

func TestNotify(t *testing.T) {
	sink := &recordingSink{}
	Notify(sink, []Effect{
		PickupReward{},
		CountersChanged{},
		AttemptComplete{Score: 4, Coins: 9, Route: RouteLife},
	})
	if sink.pickups != 1 {
		t.Errorf("Expected 1 pickup, got %d", sink.pickups)
	}
	want := AttemptComplete{Score: 4, Coins: 9, Route: RouteLife}
	if len(sink.attempts) != 1 || sink.attempts[0] != want {
		t.Errorf("Unexpected attempts %v", sink.attempts)
	}
}
