package effect

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/SniraJavas/EcommerceWebApp/internal/store"
)

// Runtime feeds dispatched actions to effects.
//
// A store listener copies every event into the feed; a dedicated Run
// goroutine drains it and spawns one goroutine per matching effect call.
// Follow-up actions therefore always dispatch from outside the triggering
// call stack. Calls are never cancelled when a newer trigger of the same
// kind arrives; with several in flight, whichever completes last
// determines the final state.
type Runtime struct {
	store   *store.Store
	effects []Effect
	feed    *feed

	// busy counts queued events plus running effect calls. A chain hands
	// off by incrementing for its next stage before the current one
	// decrements, so zero reliably means quiescent.
	busy  atomic.Int64
	quiet chan struct{}

	detach func()
}

// NewRuntime registers a listener on the store and prepares the effect
// set. Events accumulate in the feed until Run starts draining.
func NewRuntime(s *store.Store, effects []Effect) *Runtime {
	r := &Runtime{
		store:   s,
		effects: append([]Effect(nil), effects...),
		feed:    newFeed(),
		quiet:   make(chan struct{}, 1),
	}
	r.detach = s.Listen(func(ev store.Event) {
		r.busy.Add(1)
		if !r.feed.Enqueue(ev) {
			r.step()
		}
	})
	return r
}

// Run drains the feed until the context is cancelled or Stop closes the
// feed. Must be called from exactly one goroutine.
func (r *Runtime) Run(ctx context.Context) error {
	slog.Info("effects runtime starting", "effects", len(r.effects))

	for {
		ev, ok := r.feed.TryDequeue()
		if ok {
			r.handle(ctx, ev)
			continue
		}

		select {
		case <-ctx.Done():
			slog.Info("effects runtime stopping", "reason", "context cancelled")
			r.feed.Close()
			return ctx.Err()

		case <-r.feed.Wait():
			if r.feed.Closed() && r.feed.Len() == 0 {
				slog.Info("effects runtime stopping", "reason", "feed closed")
				return nil
			}
		}
	}
}

// Stop detaches from the store and closes the feed, causing Run to return
// once the remaining events are drained.
func (r *Runtime) Stop() {
	r.detach()
	r.feed.Close()
}

// Settle blocks until no event is queued and no effect call is running.
// Tests and scenario steps use it as a deterministic "everything async has
// landed" barrier.
func (r *Runtime) Settle(ctx context.Context) error {
	for {
		if r.busy.Load() == 0 {
			// Hand the wakeup on so concurrent waiters also return.
			select {
			case r.quiet <- struct{}{}:
			default:
			}
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.quiet:
		}
	}
}

// handle spawns one call per effect matching the event's kind. Each spawn
// takes its own busy increment before the event's own is released.
func (r *Runtime) handle(ctx context.Context, ev store.Event) {
	kind := ev.Action.Kind()
	for i := range r.effects {
		eff := r.effects[i]
		if eff.Kind != kind {
			continue
		}
		r.busy.Add(1)
		go r.invoke(ctx, eff, ev)
	}
	r.step()
}

// invoke runs one effect call and dispatches its follow-up under the
// trigger's token. The follow-up enqueues (incrementing busy) before this
// call's decrement, keeping the chain's count above zero throughout.
func (r *Runtime) invoke(ctx context.Context, eff Effect, ev store.Event) {
	defer r.step()

	slog.Debug("effect triggered",
		"effect", eff.Name,
		"kind", string(ev.Action.Kind()),
		"token", ev.Token,
		"seq", ev.Seq)

	result := eff.Call(ctx, ev)
	if result == nil {
		return
	}
	r.store.DispatchWith(ev.Token, result)
}

// step releases one busy increment and signals Settle waiters on reaching
// zero.
func (r *Runtime) step() {
	if r.busy.Add(-1) == 0 {
		select {
		case r.quiet <- struct{}{}:
		default:
		}
	}
}
