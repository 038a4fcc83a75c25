package journal

import (
	"context"
	"fmt"

	"github.com/SniraJavas/EcommerceWebApp/internal/canon"
	"github.com/SniraJavas/EcommerceWebApp/internal/state"
	"github.com/SniraJavas/EcommerceWebApp/internal/store"
)

// DivergenceError reports a replayed reduction whose state digest stopped
// matching the digest the journal recorded at the same position.
type DivergenceError struct {
	Seq  int64
	Kind string
	Want string // digest recorded in the journal
	Got  string // digest produced by the replayed reduction
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("replay diverged at seq %d (%s): produced state digest %s, journal recorded %s",
		e.Seq, e.Kind, e.Got, e.Want)
}

type replayConfig struct {
	verify  bool
	observe func(store.Event)
}

// ReplayOption configures Replay.
type ReplayOption func(*replayConfig)

// WithVerify compares the state digest after every replayed action
// against the digest the journal recorded, failing with a
// DivergenceError on the first mismatch.
func WithVerify() ReplayOption {
	return func(c *replayConfig) { c.verify = true }
}

// WithObserver invokes fn for every replayed event, in order.
func WithObserver(fn func(store.Event)) ReplayOption {
	return func(c *replayConfig) { c.observe = fn }
}

// Replay rebuilds a store from the journal by re-dispatching every
// recorded action in sequence order under its original token. Effects
// are not re-run; their outcomes already sit in the log as success and
// failure actions.
//
// The returned store's clock continues from the last journaled sequence,
// so new dispatches extend the same history.
func Replay(ctx context.Context, j *Journal, opts ...ReplayOption) (*store.Store, error) {
	var cfg replayConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	records, err := j.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	var s *store.Store
	if len(records) > 0 {
		// Late-attached recorders leave a journal that starts past seq 1.
		s = store.New(store.WithClock(store.NewClockAt(records[0].Seq - 1)))
	} else {
		s = store.New()
	}

	var last store.Event
	detach := s.Listen(func(ev store.Event) { last = ev })
	defer detach()

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		a, err := rec.Action()
		if err != nil {
			return nil, err
		}
		s.DispatchWith(rec.Token, a)

		// A seq mismatch means the journal has a gap; the stream past it
		// cannot be trusted to land on the recorded positions.
		if last.Seq != rec.Seq {
			return nil, fmt.Errorf("replay seq gap: dispatched seq %d, journal recorded %d", last.Seq, rec.Seq)
		}

		if cfg.verify {
			got, err := canon.Digest(canon.DomainState, state.Document(last.Tree))
			if err != nil {
				return nil, fmt.Errorf("replay digest at seq %d: %w", rec.Seq, err)
			}
			if got != rec.StateDigest {
				return nil, &DivergenceError{
					Seq:  rec.Seq,
					Kind: string(rec.Kind),
					Want: rec.StateDigest,
					Got:  got,
				}
			}
		}

		if cfg.observe != nil {
			cfg.observe(last)
		}
	}

	return s, nil
}
