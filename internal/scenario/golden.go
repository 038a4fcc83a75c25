package scenario

import (
	"context"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/SniraJavas/EcommerceWebApp/internal/action"
	"github.com/SniraJavas/EcommerceWebApp/internal/canon"
)

// TraceSnapshot is the serialized form of a run's dispatch trace.
type TraceSnapshot struct {
	Scenario string
	Steps    []TraceStep
}

// TraceStep is one dispatched action in a trace.
type TraceStep struct {
	Seq     int64
	Token   string
	Kind    string
	Payload map[string]any
}

// Snapshot converts a run result into its trace form.
func Snapshot(res *Result) (*TraceSnapshot, error) {
	steps := make([]TraceStep, len(res.Events))
	for i, ev := range res.Events {
		payload, err := action.Encode(ev.Action)
		if err != nil {
			return nil, fmt.Errorf("trace step %d: %w", i, err)
		}
		steps[i] = TraceStep{
			Seq:     ev.Seq,
			Token:   ev.Token,
			Kind:    string(ev.Action.Kind()),
			Payload: payload,
		}
	}
	return &TraceSnapshot{Scenario: res.Scenario, Steps: steps}, nil
}

// MarshalCanonical renders the snapshot as canonical JSON, the byte form
// golden files store.
func (s *TraceSnapshot) MarshalCanonical() ([]byte, error) {
	steps := make([]any, len(s.Steps))
	for i, st := range s.Steps {
		steps[i] = map[string]any{
			"seq":     st.Seq,
			"token":   st.Token,
			"kind":    st.Kind,
			"payload": st.Payload,
		}
	}
	return canon.Marshal(map[string]any{
		"scenario": s.Scenario,
		"steps":    steps,
	})
}

// RunGolden executes a scenario and compares its trace against the golden
// file at testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/scenario -update
//
// Returns an error if the scenario fails to run; trace mismatches fail the
// test through goldie.
func RunGolden(t *testing.T, sc *Scenario) error {
	t.Helper()

	res, err := Run(context.Background(), sc)
	if err != nil {
		return err
	}

	snap, err := Snapshot(res)
	if err != nil {
		return err
	}
	data, err := snap.MarshalCanonical()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, sc.Name, data)
	return nil
}
