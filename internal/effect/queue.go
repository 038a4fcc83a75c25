package effect

import (
	"sync"

	"github.com/SniraJavas/EcommerceWebApp/internal/store"
)

// feed is a thread-safe FIFO of dispatched events, filled by the store
// listener and drained by the runtime goroutine.
//
// The feed is unbounded so a burst of follow-up dispatches never blocks
// the store's drain loop. A buffered channel signals availability for
// context-aware waiting; multiple signals coalesce.
type feed struct {
	mu     sync.Mutex
	events []store.Event
	closed bool
	signal chan struct{}
}

func newFeed() *feed {
	return &feed{
		events: make([]store.Event, 0, 64),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue adds an event to the back of the feed. Returns false if the
// feed is closed.
func (f *feed) Enqueue(ev store.Event) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return false
	}
	f.events = append(f.events, ev)

	select {
	case f.signal <- struct{}{}:
	default:
	}
	return true
}

// TryDequeue attempts to dequeue without blocking.
func (f *feed) TryDequeue() (store.Event, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.events) == 0 {
		return store.Event{}, false
	}

	ev := f.events[0]

	// Nil out the slot so the event's tree and action can be collected
	// while the backing array lives on.
	f.events[0] = store.Event{}
	if len(f.events) == 1 {
		f.events = f.events[:0]
	} else {
		f.events = f.events[1:]
	}
	return ev, true
}

// Wait returns the availability signal channel. It closes when the feed
// closes, waking all waiters.
func (f *feed) Wait() <-chan struct{} {
	return f.signal
}

// Len returns the number of queued events.
func (f *feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

// Closed reports whether Close was called.
func (f *feed) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Close marks the feed as done. Idempotent.
func (f *feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.closed = true
	close(f.signal)
}
