package journal

import (
	"context"
	"fmt"

	"github.com/SniraJavas/EcommerceWebApp/internal/store"
)

// Append inserts a record into the journal.
// Uses ON CONFLICT(digest) DO NOTHING for idempotency - re-appending the
// same record is silently ignored. A different record claiming an
// already-used seq still violates UNIQUE(seq) and returns an error: the
// database holds a different history than the caller's.
func (j *Journal) Append(ctx context.Context, rec Record) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO actions
		(digest, token, kind, payload, seq, state_digest)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(digest) DO NOTHING
	`,
		rec.Digest,
		rec.Token,
		string(rec.Kind),
		rec.Payload,
		rec.Seq,
		rec.StateDigest,
	)
	if err != nil {
		return fmt.Errorf("append record: %w", err)
	}

	return nil
}

// AppendEvent builds the record for a dispatched event and appends it.
func (j *Journal) AppendEvent(ctx context.Context, ev store.Event) error {
	rec, err := RecordOf(ev)
	if err != nil {
		return err
	}
	return j.Append(ctx, rec)
}
