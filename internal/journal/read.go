package journal

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/SniraJavas/EcommerceWebApp/internal/action"
)

// Seq is UNIQUE, so ordering by it alone is deterministic across reads.

// ReadAll returns every record in dispatch order.
// Returns an empty slice (not nil) if the journal is empty.
func (j *Journal) ReadAll(ctx context.Context) ([]Record, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT digest, token, kind, payload, seq, state_digest
		FROM actions
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// ReadFlow returns the records sharing one correlation token, in dispatch
// order. Returns an empty slice (not nil) if the token is unknown.
func (j *Journal) ReadFlow(ctx context.Context, token string) ([]Record, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT digest, token, kind, payload, seq, state_digest
		FROM actions
		WHERE token = ?
		ORDER BY seq ASC
	`, token)
	if err != nil {
		return nil, fmt.Errorf("query flow records: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// ReadRecord retrieves a single record by digest.
// Returns sql.ErrNoRows if not found.
func (j *Journal) ReadRecord(ctx context.Context, digest string) (Record, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT digest, token, kind, payload, seq, state_digest
		FROM actions
		WHERE digest = ?
	`, digest)

	return scanRecordRow(row)
}

// LastSeq returns the highest sequence number in the journal, 0 when empty.
// Used to resume the logical clock from the correct position.
func (j *Journal) LastSeq(ctx context.Context) (int64, error) {
	var seq int64
	err := j.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) FROM actions
	`).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("get last seq: %w", err)
	}
	return seq, nil
}

// Count returns the number of journaled records.
func (j *Journal) Count(ctx context.Context) (int, error) {
	var n int
	err := j.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM actions
	`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// ListTokens returns all distinct correlation tokens in the journal.
// Results ordered alphabetically.
func (j *Journal) ListTokens(ctx context.Context) ([]string, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT DISTINCT token FROM actions
		ORDER BY token
	`)
	if err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("scan token: %w", err)
		}
		tokens = append(tokens, token)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tokens: %w", err)
	}

	if tokens == nil {
		tokens = []string{}
	}

	return tokens, nil
}

// collectRecords drains a row set into a slice of records.
func collectRecords(rows *sql.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	if records == nil {
		records = []Record{}
	}

	return records, nil
}

// scanRecord scans a row into a Record.
func scanRecord(rows *sql.Rows) (Record, error) {
	var rec Record
	var kind string

	if err := rows.Scan(
		&rec.Digest, &rec.Token, &kind, &rec.Payload, &rec.Seq, &rec.StateDigest,
	); err != nil {
		return Record{}, fmt.Errorf("scan record: %w", err)
	}

	rec.Kind = action.Kind(kind)
	return rec, nil
}

// scanRecordRow scans a single row into a Record.
func scanRecordRow(row *sql.Row) (Record, error) {
	var rec Record
	var kind string

	if err := row.Scan(
		&rec.Digest, &rec.Token, &kind, &rec.Payload, &rec.Seq, &rec.StateDigest,
	); err != nil {
		return Record{}, err
	}

	rec.Kind = action.Kind(kind)
	return rec, nil
}
