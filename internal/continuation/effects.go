package continuation

// Effect is an instruction for the caller produced by a transition.
type Effect interface {
	effect()
}

// PlayAd asks the caller to play an ad and answer with AdResult{Request: ...}.
type PlayAd struct {
	Request uint64
	Kind    AdKind
}

func (PlayAd) effect() {}

// OfferRevive tells the UI which revive options are available.
type OfferRevive struct {
	Lives   int
	HasPass bool
}

func (OfferRevive) effect() {}

// Revive asks the game to reposition the actor and arm invulnerability.
type Revive struct {
	Route Route
}

func (Revive) effect() {}

// Resumed signals the simulation is running again after a revive.
type Resumed struct {
	Route Route
}

func (Resumed) effect() {}

// PickupReward is forwarded to the reward collaborator.
type PickupReward struct{}

func (PickupReward) effect() {}

// AttemptComplete is emitted exactly once when an attempt reaches Terminal.
type AttemptComplete struct {
	Score     int
	Coins     int
	Route     Route // Revive route used during the attempt, RouteNone if none
	Abandoned bool
}

func (AttemptComplete) effect() {}

// CountersChanged carries a copy of the counters after a mutation.
type CountersChanged struct {
	Counters Counters
}

func (CountersChanged) effect() {}

// ConsumeRevivePass asks the entitlement owner to spend one premium revive.
type ConsumeRevivePass struct{}

func (ConsumeRevivePass) effect() {}
