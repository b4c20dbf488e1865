//go:generate mockgen -source=recorder.go -destination=recorder_mock.go -package=recorder
package recorder

import (
	"context"
	"sync"

	"shiki/internal/config/logger"
)

const subscriberBuffer = 64

// Recorder accumulates workflow events in order. Record is the only mutator;
// events are never removed. Safe for concurrent callers: events recorded by
// the same service keep their relative order.
type Recorder interface {
	Record(event Event)
	Snapshot() []Event
	Subscribe(ctx context.Context) <-chan Event
	Close()
}

// recorder implements the Recorder interface
type recorder struct {
	mu          sync.RWMutex
	events      []Event
	subscribers []chan Event
	closed      bool
	log         logger.Logger
}

// New creates a new Recorder
func New(log logger.Logger) Recorder {
	return &recorder{
		events:      make([]Event, 0),
		subscribers: make([]chan Event, 0),
		log:         log.WithComponent("RECORDER"),
	}
}

// Record appends an event and fans it out to live subscribers
func (r *recorder) Record(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	r.events = append(r.events, event)

	r.log.Debug().
		Str("service", event.Service).
		Str("kind", string(event.Kind)).
		Msg("event recorded")

	for _, ch := range r.subscribers {
		select {
		case ch <- event:
		default:
			// Slow subscribers miss live events; the snapshot stays complete
		}
	}
}

// Snapshot returns a copy of the recorded events in order
func (r *recorder) Snapshot() []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make([]Event, len(r.events))
	copy(snapshot, r.events)

	return snapshot
}

// Subscribe creates a live subscription channel, closed when ctx is done
func (r *recorder) Subscribe(ctx context.Context) <-chan Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	r.subscribers = append(r.subscribers, ch)

	go func() {
		<-ctx.Done()
		r.unsubscribe(ch)
	}()

	return ch
}

// Close closes all subscriber channels and rejects further events
func (r *recorder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	r.closed = true

	for _, ch := range r.subscribers {
		close(ch)
	}

	r.subscribers = nil
}

func (r *recorder) unsubscribe(ch chan Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, sub := range r.subscribers {
		if sub == ch {
			r.subscribers = append(r.subscribers[:i], r.subscribers[i+1:]...)

			close(ch)

			break
		}
	}
}
