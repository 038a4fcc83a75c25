package journal

import (
	"context"
	"log/slog"
	"sync"

	"github.com/SniraJavas/EcommerceWebApp/internal/store"
)

// Recorder persists every event a store dispatches, no-op reductions
// included, so the journal carries the complete event stream a replay
// needs.
//
// Appends run synchronously on the dispatch path. A failed append is
// logged and counted but never interrupts dispatch; the in-memory tree
// stays authoritative and the journal is simply missing that event.
type Recorder struct {
	journal *Journal
	detach  func()

	mu      sync.Mutex
	dropped int
	lastErr error
}

// NewRecorder attaches a recorder to the store and begins journaling.
func NewRecorder(j *Journal, s *store.Store) *Recorder {
	r := &Recorder{journal: j}
	r.detach = s.Listen(r.record)
	return r
}

func (r *Recorder) record(ev store.Event) {
	if err := r.journal.AppendEvent(context.Background(), ev); err != nil {
		slog.Error("journal append failed",
			"seq", ev.Seq,
			"kind", ev.Action.Kind(),
			"error", err)
		r.mu.Lock()
		r.dropped++
		r.lastErr = err
		r.mu.Unlock()
	}
}

// Close detaches the recorder from the store. The journal itself stays
// open; closing it is the caller's job.
func (r *Recorder) Close() {
	r.detach()
}

// Dropped reports how many events failed to journal and the last error
// seen, nil if every append succeeded.
func (r *Recorder) Dropped() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped, r.lastErr
}
