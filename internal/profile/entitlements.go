package profile

import (
	"sync"
	"time"
)

// Entitlements is a clock-backed entitlement provider for one session.
// The pass count is updated optimistically when a pass is spent; the
// authoritative decrement happens asynchronously in storage.
type Entitlements struct {
	mu          sync.Mutex
	adFreeUntil time.Time
	passes      int
	now         func() time.Time
}

// NewEntitlements creates a provider. now defaults to time.Now.
func NewEntitlements(adFreeUntil time.Time, passes int, now func() time.Time) *Entitlements {
	if now == nil {
		now = time.Now
	}
	return &Entitlements{adFreeUntil: adFreeUntil, passes: passes, now: now}
}

// IsAdFree reports whether the ad-free window is open right now.
func (e *Entitlements) IsAdFree() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.adFreeUntil.IsZero() && e.now().Before(e.adFreeUntil)
}

// HasUnusedRevive reports whether a premium revive pass is available.
func (e *Entitlements) HasUnusedRevive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.passes > 0
}

// SpendPass removes one pass locally.
func (e *Entitlements) SpendPass() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.passes > 0 {
		e.passes--
	}
}

// Passes returns the locally known pass count.
func (e *Entitlements) Passes() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.passes
}

// AdFreeUntil returns the end of the ad-free window.
func (e *Entitlements) AdFreeUntil() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.adFreeUntil
}
