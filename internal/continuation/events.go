package continuation

// Event is an input to the state machine.
type Event interface {
	event()
}

// Collision is raised by the game when the detector reports a hit.
type Collision struct {
	Score int
	Coins int
}

func (Collision) event() {}

// Choose answers an open revive offer.
type Choose struct {
	Option Option
}

func (Choose) event() {}

// AdResult resolves a PlayAd effect. Request must match the pending request.
type AdResult struct {
	Request   uint64
	Completed bool
	Err       error
}

func (AdResult) event() {}

// Resume is the first impulse after a revive.
type Resume struct{}

func (Resume) event() {}

// Pickup is raised once per collected heart.
type Pickup struct{}

func (Pickup) event() {}

// Abandon ends the attempt early (player quit or restarted mid-run).
type Abandon struct {
	Score int
	Coins int
}

func (Abandon) event() {}

// NewAttempt starts the next attempt.
type NewAttempt struct{}

func (NewAttempt) event() {}
