// Package notify delivers continuation effects to the persistence backend
// without blocking the game loop. Delivery is best effort: when the buffer is
// full the oldest pending notification is dropped, and backend failures are
// logged and counted but never reported back to the loop.
package notify

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/continuation"
)

// Backend persists notifications for a player.
type Backend interface {
	RecordPickup(player string) error
	RecordAttempt(player string, a continuation.AttemptComplete) error
	SaveCounters(player string, c continuation.Counters) error
	ConsumeRevivePass(player string) error
}

// DefaultBufferSize is used when New gets a non-positive size.
const DefaultBufferSize = 64

// Dispatcher queues effects for one player and delivers them on a worker goroutine.
type Dispatcher struct {
	player  string
	backend Backend
	logger  *log.Logger

	mu     sync.Mutex // guards queue sends against Close
	closed bool
	queue  chan continuation.Effect
	done   chan struct{}

	delivered atomic.Int64
	dropped   atomic.Int64
	failed    atomic.Int64
}

// New starts a dispatcher.
func New(player string, backend Backend, logger *log.Logger, bufferSize int) *Dispatcher {
	if bufferSize < 1 {
		bufferSize = DefaultBufferSize
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	d := &Dispatcher{
		player:  player,
		backend: backend,
		logger:  logger,
		queue:   make(chan continuation.Effect, bufferSize),
		done:    make(chan struct{}),
	}
	go d.run()
	return d
}

// Publish enqueues the effects the backend cares about. It never blocks.
// Rewards go through the RewardSink methods; order is preserved.
func (d *Dispatcher) Publish(effects []continuation.Effect) {
	for i, e := range effects {
		switch e.(type) {
		case continuation.PickupReward, continuation.AttemptComplete:
			continuation.Notify(d, effects[i:i+1])
		case continuation.CountersChanged, continuation.ConsumeRevivePass:
			d.enqueue(e)
		}
	}
}

// OnCollectiblePickup implements continuation.RewardSink.
func (d *Dispatcher) OnCollectiblePickup() {
	d.enqueue(continuation.PickupReward{})
}

// OnAttemptComplete implements continuation.RewardSink.
func (d *Dispatcher) OnAttemptComplete(done continuation.AttemptComplete) {
	d.enqueue(done)
}

func (d *Dispatcher) enqueue(e continuation.Effect) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}

	select {
	case d.queue <- e:
		return
	default:
	}

	// Buffer full, drop oldest and retry
	select {
	case old := <-d.queue:
		d.dropped.Add(1)
		d.logger.Warn("notification dropped", "player", d.player, "effect", old)
	default:
	}
	select {
	case d.queue <- e:
	default:
		d.dropped.Add(1)
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for e := range d.queue {
		if err := d.deliver(e); err != nil {
			d.failed.Add(1)
			d.logger.Error("notification failed", "player", d.player, "effect", e, "err", err)
			continue
		}
		d.delivered.Add(1)
	}
}

func (d *Dispatcher) deliver(e continuation.Effect) error {
	switch e := e.(type) {
	case continuation.PickupReward:
		return d.backend.RecordPickup(d.player)
	case continuation.AttemptComplete:
		return d.backend.RecordAttempt(d.player, e)
	case continuation.CountersChanged:
		return d.backend.SaveCounters(d.player, e.Counters)
	case continuation.ConsumeRevivePass:
		return d.backend.ConsumeRevivePass(d.player)
	}
	return nil
}

// Close stops accepting effects and waits until the queue is drained.
// Safe to call multiple times.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	<-d.done
}

// Stats returns delivered, dropped and failed counts.
func (d *Dispatcher) Stats() (delivered, dropped, failed int64) {
	return d.delivered.Load(), d.dropped.Load(), d.failed.Load()
}

var _ continuation.RewardSink = (*Dispatcher)(nil)
