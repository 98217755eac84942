// Package continuation implements the failure/continuation state machine:
// what happens after the actor collides, which revive route applies, when a
// mandatory ad is due, and how the session counters evolve across attempts.
//
// The machine is a single transition function, Machine.Handle, that consumes
// an Event and returns the Effects the caller must carry out. It never blocks
// and never calls collaborators itself, apart from the pure entitlement
// queries read at collision time.
package continuation

// Phase is the top-level state of an attempt.
type Phase int

const (
	PhaseIdle        Phase = iota // No attempt started yet
	PhasePlaying                  // Simulation running
	PhaseColliding                // Transient: collision being routed
	PhaseReviving                 // Revive in progress (see ReviveStage)
	PhaseMandatoryAd              // Simulation halted until the interstitial resolves
	PhaseTerminal                 // Attempt over
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePlaying:
		return "playing"
	case PhaseColliding:
		return "colliding"
	case PhaseReviving:
		return "reviving"
	case PhaseMandatoryAd:
		return "mandatory_ad"
	case PhaseTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// ReviveStage refines PhaseReviving.
type ReviveStage int

const (
	StageNone       ReviveStage = iota
	StageOffer                  // Waiting for the player to pick a revive option
	StageAwaitingAd             // Optional rewarded ad playing
	StageReady                  // Repositioned, resumes on next impulse
)

func (s ReviveStage) String() string {
	switch s {
	case StageNone:
		return "none"
	case StageOffer:
		return "offer"
	case StageAwaitingAd:
		return "awaiting_ad"
	case StageReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Route records how a revive was granted.
type Route int

const (
	RouteNone        Route = iota
	RouteFree              // Ad-free entitlement, no ad shown
	RouteMandatoryAd       // Interstitial forced by the cadence counter
	RouteOptionalAd        // Player accepted a rewarded ad
	RouteLife              // Premium bypass: a life or a revive pass
)

func (r Route) String() string {
	switch r {
	case RouteNone:
		return "none"
	case RouteFree:
		return "free"
	case RouteMandatoryAd:
		return "mandatory_ad"
	case RouteOptionalAd:
		return "optional_ad"
	case RouteLife:
		return "life"
	default:
		return "unknown"
	}
}

// AdKind selects the ad format requested from the playback collaborator.
type AdKind int

const (
	AdInterstitial AdKind = iota // Mandatory, cadence driven
	AdRewarded                   // Optional, grants a revive
)

func (k AdKind) String() string {
	if k == AdRewarded {
		return "rewarded"
	}
	return "interstitial"
}

// Option is a player choice while a revive offer is open.
type Option int

const (
	OptionWatchAd Option = iota
	OptionUseLife
	OptionDecline
)

func (o Option) String() string {
	switch o {
	case OptionWatchAd:
		return "watch_ad"
	case OptionUseLife:
		return "use_life"
	case OptionDecline:
		return "decline"
	default:
		return "unknown"
	}
}
