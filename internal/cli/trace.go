package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SniraJavas/EcommerceWebApp/internal/journal"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Token    string // optional - filter to one correlation token
	Kind     string // optional - filter to one action kind
}

// TraceAction is a single journaled dispatch in the trace timeline.
type TraceAction struct {
	Seq         int64           `json:"seq"`
	Token       string          `json:"token"`
	Kind        string          `json:"kind"`
	Payload     json.RawMessage `json:"payload"`
	Digest      string          `json:"digest"`
	StateDigest string          `json:"state_digest"`
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	Timeline []TraceAction `json:"timeline"`
	Stats    TraceStats    `json:"stats"`
}

// TraceStats holds summary statistics for the trace.
type TraceStats struct {
	TotalActions int   `json:"total_actions"`
	Flows        int   `json:"flows"`
	FirstSeq     int64 `json:"first_seq"`
	LastSeq      int64 `json:"last_seq"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Print the journaled dispatch timeline",
		Long: `Print the action journal as a timeline.

Every dispatch is shown in sequence order with its correlation token,
so an external trigger and the effect follow-ups it caused read as one
chain: they share a token. --token narrows the timeline to one chain,
--kind to one action kind.

Examples:
  shopfront trace --db ./shopfront.db
  shopfront trace --db ./shopfront.db --token flow-4
  shopfront trace --db ./shopfront.db --kind orders/placeSucceeded
  shopfront trace --db ./shopfront.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Token, "token", "", "filter to one correlation token")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "filter to one action kind")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	j, err := journal.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer j.Close()

	var records []journal.Record
	if opts.Token != "" {
		records, err = j.ReadFlow(ctx, opts.Token)
	} else {
		records, err = j.ReadAll(ctx)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read journal", err)
	}

	result := buildTrace(records, opts.Kind)

	if len(result.Timeline) == 0 {
		if opts.Format == "json" {
			return outputTraceJSON(cmd, result)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No journaled actions match.")
		return nil
	}

	if opts.Format == "json" {
		return outputTraceJSON(cmd, result)
	}
	return outputTraceText(cmd, result, opts.Verbose)
}

// buildTrace converts journal records to the trace timeline, applying the
// kind filter.
func buildTrace(records []journal.Record, kindFilter string) TraceResult {
	timeline := []TraceAction{}
	tokens := make(map[string]bool)

	for _, rec := range records {
		if kindFilter != "" && string(rec.Kind) != kindFilter {
			continue
		}
		timeline = append(timeline, TraceAction{
			Seq:         rec.Seq,
			Token:       rec.Token,
			Kind:        string(rec.Kind),
			Payload:     json.RawMessage(rec.Payload),
			Digest:      rec.Digest,
			StateDigest: rec.StateDigest,
		})
		tokens[rec.Token] = true
	}

	stats := TraceStats{
		TotalActions: len(timeline),
		Flows:        len(tokens),
	}
	if len(timeline) > 0 {
		stats.FirstSeq = timeline[0].Seq
		stats.LastSeq = timeline[len(timeline)-1].Seq
	}

	return TraceResult{Timeline: timeline, Stats: stats}
}

// outputTraceJSON outputs the trace result as JSON.
func outputTraceJSON(cmd *cobra.Command, result TraceResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}

// outputTraceText outputs the trace result as text.
func outputTraceText(cmd *cobra.Command, result TraceResult, verbose bool) error {
	w := cmd.OutOrStdout()

	fmt.Fprintln(w, "=== Timeline ===")
	for _, act := range result.Timeline {
		formatTraceAction(w, act, verbose)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Stats ===")
	fmt.Fprintf(w, "  Actions: %d\n", result.Stats.TotalActions)
	fmt.Fprintf(w, "  Flows:   %d\n", result.Stats.Flows)
	fmt.Fprintf(w, "  Seq:     %d..%d\n", result.Stats.FirstSeq, result.Stats.LastSeq)

	return nil
}

// formatTraceAction formats a single timeline entry for text output.
func formatTraceAction(w io.Writer, act TraceAction, verbose bool) {
	fmt.Fprintf(w, "  [%d] %s %s\n", act.Seq, act.Token, act.Kind)
	if !verbose {
		return
	}
	if payload := formatPayload(act.Payload); payload != "{}" {
		fmt.Fprintf(w, "       payload: %s\n", payload)
	}
	fmt.Fprintf(w, "       digest: %s\n", truncateDigest(act.Digest))
	fmt.Fprintf(w, "       state:  %s\n", truncateDigest(act.StateDigest))
}

// formatPayload renders a payload document with sorted keys so text
// output is deterministic.
func formatPayload(raw json.RawMessage) string {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return string(raw)
	}
	return formatDoc(m)
}

// formatDoc formats a document map for display with sorted keys.
func formatDoc(m map[string]any) string {
	if len(m) == 0 {
		return "{}"
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, formatDocValue(m[k])))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// formatDocValue formats a single value for display, handling nested
// structures deterministically.
func formatDocValue(v any) string {
	switch val := v.(type) {
	case map[string]any:
		return formatDoc(val)
	case []any:
		parts := make([]string, len(val))
		for i, elem := range val {
			parts[i] = formatDocValue(elem)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case string:
		return val
	default:
		return fmt.Sprintf("%v", v)
	}
}

// truncateDigest shortens a hex digest for display.
func truncateDigest(d string) string {
	if len(d) <= 16 {
		return d
	}
	return d[:8] + "..." + d[len(d)-8:]
}
