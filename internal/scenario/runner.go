package scenario

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/SniraJavas/EcommerceWebApp/internal/action"
	"github.com/SniraJavas/EcommerceWebApp/internal/cart"
	"github.com/SniraJavas/EcommerceWebApp/internal/effect"
	"github.com/SniraJavas/EcommerceWebApp/internal/gateway"
	"github.com/SniraJavas/EcommerceWebApp/internal/state"
	"github.com/SniraJavas/EcommerceWebApp/internal/store"
)

// defaultNow is the backend clock used when a scenario does not pin one.
// It is Go's reference time moved to 2026 so pinned order dates read
// naturally in traces.
var defaultNow = time.Date(2026, time.January, 2, 15, 4, 5, 0, time.UTC)

// Result is the outcome of one scenario run.
type Result struct {
	// Scenario is the name of the scenario that ran.
	Scenario string

	// Events is every dispatch the run produced, triggers and effect
	// follow-ups both, in seq order.
	Events []store.Event

	// Final is the state tree after the last step settled.
	Final *state.Tree
}

type runConfig struct {
	dial func(gateway.TokenVault) gateway.Gateway
}

// RunOption adjusts how a scenario runs.
type RunOption func(*runConfig)

// WithBackend points the run's effects at an external gateway instead of
// the scripted in-memory one. The dial function receives the run's token
// vault so a login step authenticates the calls that follow it. The
// scenario catalog still resolves product shorthands, but it seeds
// nothing, and scripted failures are rejected.
func WithBackend(dial func(gateway.TokenVault) gateway.Gateway) RunOption {
	return func(c *runConfig) { c.dial = dial }
}

// Run executes a scenario against a fresh engine. Each run builds its own
// store, backend gateway, vault, and effects runtime, so scenarios never
// observe each other's state.
func Run(ctx context.Context, sc *Scenario, opts ...RunOption) (*Result, error) {
	var cfg runConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	products, err := sc.products()
	if err != nil {
		return nil, err
	}

	now := defaultNow
	if sc.Now != "" {
		now, err = time.Parse(time.RFC3339, sc.Now)
		if err != nil {
			return nil, fmt.Errorf("now: %w", err)
		}
	}

	vault := gateway.NewMemoryVault()

	var gw gateway.Gateway
	if cfg.dial != nil {
		if len(sc.Failures) > 0 {
			return nil, fmt.Errorf("scripted failures need the built-in backend")
		}
		gw = cfg.dial(vault)
	} else {
		mem := gateway.NewMemory(
			gateway.WithProducts(products),
			gateway.WithUsers(sc.Users),
			gateway.WithNow(func() time.Time { return now }),
		)
		for _, f := range sc.Failures {
			mem.FailWith(f.Op, &gateway.StatusError{Op: f.Op, Status: f.Status, Message: f.Message})
		}
		gw = mem
	}

	// One token per step; follow-ups inherit their trigger's token.
	tokens := make([]string, len(sc.Steps))
	for i := range tokens {
		tokens[i] = fmt.Sprintf("flow-%d", i+1)
	}
	s := store.New(store.WithTokens(store.NewFixedGenerator(tokens...)))

	var (
		mu     sync.Mutex
		events []store.Event
	)
	detach := s.Listen(func(ev store.Event) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	})
	defer detach()

	mgr := cart.NewManager(s)
	rt := effect.NewRuntime(s, effect.Defaults(gw, vault, mgr))

	done := make(chan error, 1)
	go func() { done <- rt.Run(ctx) }()
	defer func() {
		rt.Stop()
		<-done
	}()

	for i, step := range sc.Steps {
		a, err := sc.buildAction(step)
		if err != nil {
			return nil, fmt.Errorf("steps[%d] (%s): %w", i, step.Dispatch, err)
		}
		s.Dispatch(a)
		if err := rt.Settle(ctx); err != nil {
			return nil, fmt.Errorf("steps[%d] (%s): settle: %w", i, step.Dispatch, err)
		}
	}

	mu.Lock()
	trace := append([]store.Event(nil), events...)
	mu.Unlock()

	return &Result{Scenario: sc.Name, Events: trace, Final: s.State()}, nil
}

// buildAction turns a step into the action it dispatches.
func (sc *Scenario) buildAction(step Step) (action.Action, error) {
	kind := action.Kind(step.Dispatch)

	if step.Product != "" {
		p, ok := sc.product(step.Product)
		if !ok {
			return nil, fmt.Errorf("product %q is not in the catalog", step.Product)
		}
		switch kind {
		case action.KindCartAdded:
			return action.CartAdded{Product: p}, nil
		case action.KindCartRemoved:
			return action.CartRemoved{ProductID: p.ID}, nil
		}
		return nil, fmt.Errorf("product shorthand only applies to cart steps")
	}

	payload, err := decodePayload(step.Payload)
	if err != nil {
		return nil, err
	}
	return action.Decode(kind, payload)
}

// decodePayload converts a YAML-parsed payload into the document
// vocabulary the action codec accepts. Integers normalize to int64; nulls
// and fractional numbers are rejected because canonical JSON has no place
// for them and amounts travel as strings.
func decodePayload(raw map[string]any) (map[string]any, error) {
	if raw == nil {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(raw))
	for key, val := range raw {
		conv, err := decodeValue(val)
		if err != nil {
			return nil, fmt.Errorf("payload field %q: %w", key, err)
		}
		out[key] = conv
	}
	return out, nil
}

func decodeValue(val any) (any, error) {
	switch v := val.(type) {
	case nil:
		return nil, fmt.Errorf("null values are forbidden in payloads")
	case string, bool:
		return v, nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		// YAML hands over some integers as float64.
		if v == float64(int64(v)) {
			return int64(v), nil
		}
		return nil, fmt.Errorf("fractional number %v is forbidden in payloads", v)
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			conv, err := decodeValue(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			out[i] = conv
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, elem := range v {
			conv, err := decodeValue(elem)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", key, err)
			}
			out[key] = conv
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported payload value type %T", val)
	}
}
