// Package store implements the dispatch pipeline: actions enter one at a
// time, reduce against the current state tree, and fan out to observers.
package store

import (
	"log/slog"
	"sync"

	"github.com/SniraJavas/EcommerceWebApp/internal/action"
	"github.com/SniraJavas/EcommerceWebApp/internal/state"
)

// Event describes one processed dispatch.
type Event struct {
	// Seq is the logical clock position of this dispatch.
	Seq int64
	// Token correlates the dispatch with the external interaction that
	// started its chain. Effect follow-ups carry their trigger's token.
	Token string
	// Action is the dispatched action.
	Action action.Action
	// Changed reports whether the reduction produced a new tree.
	Changed bool
	// Tree is the state after the reduction.
	Tree *state.Tree
}

// Store owns the state tree and serializes every mutation through one
// FIFO dispatch queue.
//
// Dispatch model: the first caller to find the pipeline idle becomes the
// drainer and processes queued actions on its own stack until none remain.
// A dispatch arriving while a drain is running, including one issued from
// inside an observer callback, is queued and handled by the active drain.
// Reductions therefore never interleave and never nest.
//
// Thread-safety model:
//   - Dispatch/DispatchWith: safe from any goroutine
//   - Subscribe/Listen and the returned removal funcs: safe from any
//     goroutine, including observer callbacks
//   - Observer callbacks run outside the store lock, one event at a time,
//     in dispatch order
type Store struct {
	mu       sync.Mutex
	tree     *state.Tree
	pending  []pendingAction
	draining bool

	clock  *Clock
	tokens TokenGenerator

	nextID    int
	subs      []treeSub
	listeners []eventSub
}

type pendingAction struct {
	token string
	act   action.Action
}

type treeSub struct {
	id int
	fn func(*state.Tree)
}

type eventSub struct {
	id int
	fn func(Event)
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the logical clock. Replay passes a clock resumed at
// the journal's last sequence number.
func WithClock(c *Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithTokens replaces the correlation token source. Tests and scenarios
// pass a FixedGenerator.
func WithTokens(g TokenGenerator) Option {
	return func(s *Store) { s.tokens = g }
}

// New creates a store holding the initial state tree.
func New(opts ...Option) *Store {
	s := &Store{
		tree:    state.NewTree(),
		pending: make([]pendingAction, 0, 16),
		clock:   NewClock(),
		tokens:  UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current tree. The tree is immutable; the caller may
// hold it indefinitely.
func (s *Store) State() *state.Tree {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree
}

// Dispatch applies an action under a fresh correlation token.
func (s *Store) Dispatch(a action.Action) {
	s.DispatchWith(s.tokens.Generate(), a)
}

// DispatchWith applies an action under an existing correlation token.
//
// When the pipeline is idle the full cycle (reduce, then observer
// delivery) completes before this call returns. When a drain is already
// running the action is queued for it and this call returns immediately;
// the action still processes in FIFO position, it just completes on the
// drainer's stack.
func (s *Store) DispatchWith(token string, a action.Action) {
	s.mu.Lock()
	s.pending = append(s.pending, pendingAction{token: token, act: a})
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	s.drain()
}

// drain processes queued actions until none remain. Entered with s.mu held
// and draining set; returns with s.mu released and draining cleared. The
// lock is released around observer callbacks so observers can dispatch,
// subscribe, and unsubscribe without deadlocking.
func (s *Store) drain() {
	for len(s.pending) > 0 {
		next := s.pending[0]

		// Nil out the slot so the action payload can be collected while
		// the backing array lives on.
		s.pending[0] = pendingAction{}
		if len(s.pending) == 1 {
			s.pending = s.pending[:0]
		} else {
			s.pending = s.pending[1:]
		}

		seq := s.clock.Next()
		before := s.tree
		after := state.Reduce(before, next.act)
		s.tree = after

		ev := Event{
			Seq:     seq,
			Token:   next.token,
			Action:  next.act,
			Changed: after != before,
			Tree:    after,
		}

		// Snapshot observers under the lock; an observer removed during
		// delivery may still receive the event in flight.
		listeners := make([]eventSub, len(s.listeners))
		copy(listeners, s.listeners)
		var subs []treeSub
		if ev.Changed {
			subs = make([]treeSub, len(s.subs))
			copy(subs, s.subs)
		}

		s.mu.Unlock()

		slog.Debug("action dispatched",
			"seq", ev.Seq,
			"kind", string(next.act.Kind()),
			"token", ev.Token,
			"changed", ev.Changed)

		for _, l := range listeners {
			l.fn(ev)
		}
		for _, sub := range subs {
			sub.fn(after)
		}

		s.mu.Lock()
	}
	s.draining = false
	s.mu.Unlock()
}

// Subscribe registers a tree observer. It fires after each dispatch that
// actually changed the tree, always with the complete new tree, in
// dispatch order. The returned function removes the subscription.
func (s *Store) Subscribe(fn func(*state.Tree)) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, treeSub{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Listen registers an observer of every processed dispatch, including
// no-ops. The journal and the effects runtime listen; UI-style consumers
// want Subscribe. The returned function removes the listener.
func (s *Store) Listen(fn func(Event)) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, eventSub{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}
