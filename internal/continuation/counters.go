package continuation

import "time"

// Counters is the session state that outlives a single attempt.
type Counters struct {
	GamesSinceAd int       // Completed attempts since the last mandatory ad
	Lives        int       // 0..MaxLives
	ReviveUsed   bool      // Per attempt; false between attempts
	AdFreeUntil  time.Time // Zero when no entitlement was ever granted
}

// AdFreeAt reports whether the stored entitlement window covers t.
func (c Counters) AdFreeAt(t time.Time) bool {
	return !c.AdFreeUntil.IsZero() && t.Before(c.AdFreeUntil)
}

// normalize clamps loaded values into their valid ranges.
func (c Counters) normalize(maxLives int) Counters {
	if c.GamesSinceAd < 0 {
		c.GamesSinceAd = 0
	}
	if c.Lives < 0 {
		c.Lives = 0
	}
	if c.Lives > maxLives {
		c.Lives = maxLives
	}
	c.ReviveUsed = false
	return c
}
