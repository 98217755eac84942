package continuation

import (
	"io"

	"github.com/charmbracelet/log"
)

// Config holds the policy knobs of the machine.
type Config struct {
	AdCadence int // Mandatory ad on every Nth completed attempt
	MaxLives  int
}

// DefaultConfig returns the standard policy.
func DefaultConfig() Config {
	return Config{AdCadence: 2, MaxLives: 3}
}

// Machine is the continuation state machine. It is not safe for concurrent
// use; the game loop owns it.
type Machine struct {
	cfg    Config
	ent    Entitlements
	logger *log.Logger

	counters Counters
	phase    Phase
	stage    ReviveStage
	route    Route

	nextRequest uint64
	pendingAd   uint64 // 0 when no ad is awaited
	adReset     bool   // Mandatory ad completed during this attempt

	score     int
	coins     int
	anomalies int
}

// NewMachine creates a machine in PhaseIdle with counters loaded from storage.
func NewMachine(cfg Config, counters Counters, ent Entitlements, logger *log.Logger) *Machine {
	if cfg.AdCadence < 1 {
		cfg.AdCadence = 1
	}
	if ent == nil {
		ent = NoEntitlements{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Machine{
		cfg:      cfg,
		ent:      ent,
		logger:   logger,
		counters: counters.normalize(cfg.MaxLives),
	}
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase { return m.phase }

// Stage returns the revive stage (StageNone outside PhaseReviving).
func (m *Machine) Stage() ReviveStage { return m.stage }

// Route returns the revive route taken during the current attempt.
func (m *Machine) Route() Route { return m.route }

// Counters returns a copy of the session counters.
func (m *Machine) Counters() Counters { return m.counters }

// PendingAd returns the request id of the ad being awaited, or 0.
func (m *Machine) PendingAd() uint64 { return m.pendingAd }

// Anomalies returns how many out-of-phase events were ignored.
func (m *Machine) Anomalies() int { return m.anomalies }

// Running reports whether the simulation should advance.
func (m *Machine) Running() bool { return m.phase == PhasePlaying }

// Handle applies one event and returns the resulting effects.
func (m *Machine) Handle(ev Event) []Effect {
	switch e := ev.(type) {
	case NewAttempt:
		return m.newAttempt()
	case Collision:
		return m.collide(e)
	case Choose:
		return m.choose(e)
	case AdResult:
		return m.adResult(e)
	case Resume:
		return m.resume()
	case Pickup:
		return m.pickup()
	case Abandon:
		return m.abandon(e)
	default:
		m.anomaly("unknown event", "event", ev)
		return nil
	}
}

func (m *Machine) newAttempt() []Effect {
	if m.phase != PhaseIdle && m.phase != PhaseTerminal {
		m.anomaly("new attempt while attempt in progress")
		return nil
	}
	m.phase = PhasePlaying
	m.stage = StageNone
	m.route = RouteNone
	m.pendingAd = 0
	m.adReset = false
	m.score, m.coins = 0, 0

	changed := m.counters.ReviveUsed
	m.counters.ReviveUsed = false
	if m.syncAdFree() {
		changed = true
	}
	if changed {
		return []Effect{m.countersChanged()}
	}
	return nil
}

func (m *Machine) collide(e Collision) []Effect {
	if m.phase != PhasePlaying {
		// Several detector calls can report one physical hit.
		m.anomaly("collision outside playing")
		return nil
	}
	m.phase = PhaseColliding
	m.score, m.coins = e.Score, e.Coins

	var effects []Effect
	if m.syncAdFree() {
		effects = append(effects, m.countersChanged())
	}
	adFree := m.ent.IsAdFree()

	switch {
	case adFree && !m.counters.ReviveUsed:
		m.counters.ReviveUsed = true
		effects = append(effects, m.countersChanged())
		return append(effects, m.ready(RouteFree)...)

	case !adFree && !m.adReset && m.counters.GamesSinceAd+1 >= m.cfg.AdCadence:
		m.phase = PhaseMandatoryAd
		return append(effects, m.requestAd(AdInterstitial))

	case !m.counters.ReviveUsed:
		m.phase = PhaseReviving
		m.stage = StageOffer
		return append(effects, OfferRevive{Lives: m.counters.Lives, HasPass: m.ent.HasUnusedRevive()})

	default:
		return append(effects, m.terminate(false)...)
	}
}

func (m *Machine) choose(e Choose) []Effect {
	if m.phase != PhaseReviving || m.stage != StageOffer {
		m.anomaly("choice without open offer", "option", e.Option)
		return nil
	}
	switch e.Option {
	case OptionWatchAd:
		m.counters.ReviveUsed = true
		m.stage = StageAwaitingAd
		m.route = RouteOptionalAd
		return []Effect{m.countersChanged(), m.requestAd(AdRewarded)}

	case OptionUseLife:
		var effects []Effect
		switch {
		case m.counters.Lives > 0:
			m.counters.Lives--
		case m.ent.HasUnusedRevive():
			effects = append(effects, ConsumeRevivePass{})
		default:
			m.logger.Debug("use life rejected", "lives", m.counters.Lives)
			return nil
		}
		m.counters.ReviveUsed = true
		effects = append(effects, m.countersChanged())
		return append(effects, m.ready(RouteLife)...)

	case OptionDecline:
		return m.terminate(false)

	default:
		m.anomaly("unknown option", "option", e.Option)
		return nil
	}
}

func (m *Machine) adResult(e AdResult) []Effect {
	if m.pendingAd == 0 || e.Request != m.pendingAd {
		m.logger.Debug("stale ad result", "request", e.Request, "pending", m.pendingAd)
		return nil
	}
	m.pendingAd = 0
	ok := e.Completed && e.Err == nil
	if !ok {
		m.logger.Info("ad not completed, ending attempt", "phase", m.phase, "err", e.Err)
	}

	switch {
	case m.phase == PhaseMandatoryAd:
		if !ok {
			return m.terminate(false)
		}
		m.counters.GamesSinceAd = 0
		m.adReset = true
		if m.counters.ReviveUsed {
			// The interstitial still plays, but a second revive is never granted.
			return append([]Effect{m.countersChanged()}, m.terminate(false)...)
		}
		m.counters.ReviveUsed = true
		return append([]Effect{m.countersChanged()}, m.ready(RouteMandatoryAd)...)

	case m.phase == PhaseReviving && m.stage == StageAwaitingAd:
		if !ok {
			return m.terminate(false)
		}
		return m.ready(RouteOptionalAd)

	default:
		m.anomaly("ad result in unexpected phase")
		return nil
	}
}

func (m *Machine) resume() []Effect {
	if m.phase != PhaseReviving || m.stage != StageReady {
		return nil
	}
	m.phase = PhasePlaying
	m.stage = StageNone
	return []Effect{Resumed{Route: m.route}}
}

func (m *Machine) pickup() []Effect {
	if m.phase != PhasePlaying {
		m.anomaly("pickup outside playing")
		return nil
	}
	effects := []Effect{PickupReward{}}
	if m.counters.Lives < m.cfg.MaxLives {
		m.counters.Lives++
		effects = append(effects, m.countersChanged())
	}
	return effects
}

func (m *Machine) abandon(e Abandon) []Effect {
	switch m.phase {
	case PhaseIdle, PhaseTerminal:
		return nil
	}
	m.score, m.coins = e.Score, e.Coins
	return m.terminate(true)
}

// ready moves to Reviving/Ready and asks the game to reposition the actor.
func (m *Machine) ready(route Route) []Effect {
	m.phase = PhaseReviving
	m.stage = StageReady
	m.route = route
	return []Effect{Revive{Route: route}}
}

func (m *Machine) terminate(abandoned bool) []Effect {
	m.phase = PhaseTerminal
	m.stage = StageNone
	m.pendingAd = 0
	if !m.adReset {
		m.counters.GamesSinceAd++
	}
	m.counters.ReviveUsed = false
	return []Effect{
		AttemptComplete{Score: m.score, Coins: m.coins, Route: m.route, Abandoned: abandoned},
		m.countersChanged(),
	}
}

func (m *Machine) requestAd(kind AdKind) Effect {
	m.nextRequest++
	m.pendingAd = m.nextRequest
	if kind == AdInterstitial {
		m.route = RouteMandatoryAd
	}
	return PlayAd{Request: m.pendingAd, Kind: kind}
}

// syncAdFree resets the ad counter while an ad-free window is active.
func (m *Machine) syncAdFree() bool {
	if m.ent.IsAdFree() && m.counters.GamesSinceAd != 0 {
		m.counters.GamesSinceAd = 0
		return true
	}
	return false
}

func (m *Machine) countersChanged() Effect {
	return CountersChanged{Counters: m.counters}
}

func (m *Machine) anomaly(msg string, keyvals ...interface{}) {
	m.anomalies++
	m.logger.Warn(msg, append([]interface{}{"phase", m.phase}, keyvals...)...)
}
