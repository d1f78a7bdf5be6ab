// ABOUTME: Asynchronous audit dispatcher fanning events out to backends
// ABOUTME: Emit never blocks; a full buffer drops the event with a warning

package audit

import (
	"log/slog"
	"sync"
)

// Dispatcher decouples audit emission from the caller's response path.
// Events are queued on a buffered channel and forwarded to every backend by a
// background worker. When the buffer is full the event is dropped; audit is a
// side channel and must never delay or fail the primary operation.
type Dispatcher struct {
	events   chan Event
	backends []Emitter
	logger   *slog.Logger

	closeOnce sync.Once
	done      chan struct{}
	drained   chan struct{}
}

var _ Emitter = (*Dispatcher)(nil)

// NewDispatcher starts a dispatcher forwarding to the given backends.
// If logger is nil, slog.Default() is used.
func NewDispatcher(buffer int, logger *slog.Logger, backends ...Emitter) *Dispatcher {
	if buffer <= 0 {
		buffer = 256
	}
	if logger == nil {
		logger = slog.Default()
	}

	d := &Dispatcher{
		events:   make(chan Event, buffer),
		backends: backends,
		logger:   logger.With("component", "audit"),
		done:     make(chan struct{}),
		drained:  make(chan struct{}),
	}

	go d.run()
	return d
}

// Emit queues the event without blocking. Events arriving after Close, or
// while the buffer is full, are dropped.
func (d *Dispatcher) Emit(ev Event) {
	select {
	case <-d.done:
		d.logger.Warn("audit event dropped after close", "action", ev.Action)
		return
	default:
	}

	select {
	case d.events <- ev:
	default:
		d.logger.Warn("audit buffer full, dropping event", "action", ev.Action)
	}
}

// Close stops accepting events, drains the queue, and waits for delivery.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.done)
	})
	<-d.drained
}

func (d *Dispatcher) run() {
	defer close(d.drained)

	for {
		select {
		case ev := <-d.events:
			d.deliver(ev)
		case <-d.done:
			// Drain whatever was queued before shutdown
			for {
				select {
				case ev := <-d.events:
					d.deliver(ev)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) deliver(ev Event) {
	for _, b := range d.backends {
		b.Emit(ev)
	}
}
