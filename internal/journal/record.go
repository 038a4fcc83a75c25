package journal

import (
	"fmt"

	"github.com/SniraJavas/EcommerceWebApp/internal/action"
	"github.com/SniraJavas/EcommerceWebApp/internal/canon"
	"github.com/SniraJavas/EcommerceWebApp/internal/state"
	"github.com/SniraJavas/EcommerceWebApp/internal/store"
)

// Record is one journaled dispatch.
//
// Payload holds the action's payload as canonical JSON text. Digest is
// content-addressed over (token, kind, payload, seq), and StateDigest is
// the canonical digest of the state tree after this action's reduction.
type Record struct {
	Digest      string
	Token       string
	Kind        action.Kind
	Payload     string
	Seq         int64
	StateDigest string
}

// Action decodes the record's payload back into the dispatched action.
func (r Record) Action() (action.Action, error) {
	a, err := action.DecodeJSON(r.Kind, []byte(r.Payload))
	if err != nil {
		return nil, fmt.Errorf("record at seq %d: %w", r.Seq, err)
	}
	return a, nil
}

// RecordOf builds the journal record for a dispatched event.
func RecordOf(ev store.Event) (Record, error) {
	kind := ev.Action.Kind()

	payload, err := action.Encode(ev.Action)
	if err != nil {
		return Record{}, fmt.Errorf("record event at seq %d: %w", ev.Seq, err)
	}
	data, err := canon.Marshal(payload)
	if err != nil {
		return Record{}, fmt.Errorf("record event at seq %d: %w", ev.Seq, err)
	}
	digest, err := action.Digest(ev.Token, kind, payload, ev.Seq)
	if err != nil {
		return Record{}, fmt.Errorf("record event at seq %d: %w", ev.Seq, err)
	}
	stateDigest, err := canon.Digest(canon.DomainState, state.Document(ev.Tree))
	if err != nil {
		return Record{}, fmt.Errorf("record event at seq %d: %w", ev.Seq, err)
	}

	return Record{
		Digest:      digest,
		Token:       ev.Token,
		Kind:        kind,
		Payload:     string(data),
		Seq:         ev.Seq,
		StateDigest: stateDigest,
	}, nil
}
