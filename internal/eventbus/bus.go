// Package eventbus merges the application's event producers (key input
// forwarded by the UI, a periodic poll timer, shutdown) into one ordered
// channel consumed by the core event loop.
package eventbus

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// Event is one item on the merged stream.
type Event interface {
	appEvent()
}

// InputEvent carries a single key press, encoded as a Bubble Tea key string
// (e.g. "enter", "esc", "a", "ctrl+c").
type InputEvent struct {
	Key string
}

func (InputEvent) appEvent() {}

// TickEvent fires on the polling period.
type TickEvent struct{}

func (TickEvent) appEvent() {}

// StopEvent is terminal: no further events follow it.
type StopEvent struct{}

func (StopEvent) appEvent() {}

// ErrBusFull is returned when a producer would overflow the buffer. Producers
// never block; a full bus drops the event instead.
var ErrBusFull = errors.New("event bus channel is full")

// ErrBusStopped is returned when publishing after Stop.
var ErrBusStopped = errors.New("event bus is stopped")

// Bus fans two independent producers into one buffered channel. The consumer
// sees events strictly in arrival order.
type Bus struct {
	events   chan Event
	done     chan struct{}
	stopOnce sync.Once

	// Tick interval in nanoseconds, read by the ticker goroutine at the top
	// of each period, so changes take effect on the next period.
	tickNanos atomic.Int64
}

// NewBus creates a bus with the given initial tick period. The ticker starts
// on the first call to StartTicker.
func NewBus(tick time.Duration) *Bus {
	b := &Bus{
		events: make(chan Event, 100),
		done:   make(chan struct{}),
	}
	b.tickNanos.Store(int64(tick))
	return b
}

// Events returns the merged stream. After StopEvent is delivered the channel
// yields nothing further.
func (b *Bus) Events() <-chan Event {
	return b.events
}

// Publish enqueues an event without blocking the producer.
func (b *Bus) Publish(ev Event) error {
	select {
	case <-b.done:
		return ErrBusStopped
	default:
	}
	select {
	case b.events <- ev:
		return nil
	default:
		return ErrBusFull
	}
}

// StartTicker launches the periodic producer. It stops when the bus stops.
func (b *Bus) StartTicker() {
	go func() {
		for {
			interval := time.Duration(b.tickNanos.Load())
			select {
			case <-b.done:
				return
			case <-time.After(interval):
				_ = b.Publish(TickEvent{})
			}
		}
	}()
}

// SetTickInterval adjusts the polling period. The change applies from the
// next period onward, not retroactively.
func (b *Bus) SetTickInterval(d time.Duration) {
	if d > 0 {
		b.tickNanos.Store(int64(d))
	}
}

// TickInterval returns the current polling period.
func (b *Bus) TickInterval() time.Duration {
	return time.Duration(b.tickNanos.Load())
}

// StopAfter arms a supervisory timer that stops the bus after d. Used for
// scripted and test runs.
func (b *Bus) StopAfter(d time.Duration) {
	go func() {
		select {
		case <-b.done:
		case <-time.After(d):
			b.Stop()
		}
	}()
}

// Stop enqueues the terminal StopEvent and shuts the producers down. It is
// safe to call more than once.
func (b *Bus) Stop() {
	b.stopOnce.Do(func() {
		// Make room for the terminal event if the buffer is full.
		select {
		case b.events <- StopEvent{}:
		default:
			select {
			case <-b.events:
			default:
			}
			select {
			case b.events <- StopEvent{}:
			default:
			}
		}
		close(b.done)
	})
}
