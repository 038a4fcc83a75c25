package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SniraJavas/EcommerceWebApp/internal/journal"
	"github.com/SniraJavas/EcommerceWebApp/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	Verify   bool
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Replayed int        `json:"replayed"`
	Flows    int        `json:"flows"`
	Verified bool       `json:"verified"`
	Final    FinalState `json:"final_state"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Rebuild state from the journal",
		Long: `Rebuild a fresh engine by re-dispatching every journaled action in
sequence order.

Effects are not re-run: their outcomes already sit in the journal as
success and failure actions, so the rebuilt state matches the original
run exactly. With --verify the state digest after every reduction is
compared against the digest the journal recorded, and the replay fails
on the first mismatch.

Exit codes:
  0 - Replay complete (and verified, with --verify)
  1 - Replay diverged from the journal or the journal has a gap
  2 - Command error (journal not found, etc.)

Examples:
  shopfront replay --db ./shopfront.db
  shopfront replay --db ./shopfront.db --verify
  shopfront replay --db ./shopfront.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().BoolVar(&opts.Verify, "verify", false, "check every state digest against the journal")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	j, err := journal.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer j.Close()

	replayed := 0
	flows := make(map[string]bool)
	replayOpts := []journal.ReplayOption{
		journal.WithObserver(func(ev store.Event) {
			replayed++
			flows[ev.Token] = true
			if opts.Verbose && opts.Format != "json" {
				fmt.Fprintf(cmd.OutOrStdout(), "  [%d] %s %s\n", ev.Seq, ev.Token, ev.Action.Kind())
			}
		}),
	}
	if opts.Verify {
		replayOpts = append(replayOpts, journal.WithVerify())
	}

	s, err := journal.Replay(ctx, j, replayOpts...)
	if err != nil {
		return replayFailure(cmd, opts, err)
	}

	result := ReplayResult{
		Replayed: replayed,
		Flows:    len(flows),
		Verified: opts.Verify,
		Final:    summarizeState(s.State()),
	}

	if opts.Format == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(CLIResponse{Status: "ok", Data: result})
	}
	return outputReplayText(cmd, result, opts.Verbose)
}

// replayFailure reports a failed replay and maps it to an exit code.
// Divergence and gaps mean the journal and the engine disagree (exit 1);
// everything else is a command error (exit 2).
func replayFailure(cmd *cobra.Command, opts *ReplayOptions, err error) error {
	var div *journal.DivergenceError
	if errors.As(err, &div) {
		if opts.Format == "json" {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			if encErr := encoder.Encode(CLIResponse{
				Status: "error",
				Error: &CLIError{
					Code:    CodeDivergence,
					Message: div.Error(),
					Details: map[string]any{
						"seq":  div.Seq,
						"kind": div.Kind,
						"want": div.Want,
						"got":  div.Got,
					},
				},
			}); encErr != nil {
				return encErr
			}
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "✗ Replay diverged at seq %d (%s)\n", div.Seq, div.Kind)
			fmt.Fprintf(cmd.OutOrStdout(), "  journal: %s\n", truncateDigest(div.Want))
			fmt.Fprintf(cmd.OutOrStdout(), "  replay:  %s\n", truncateDigest(div.Got))
		}
		return WrapExitError(ExitFailure, "replay diverged from journal", err)
	}

	return WrapExitError(ExitFailure, "replay failed", err)
}

// outputReplayText outputs the replay result as text.
func outputReplayText(cmd *cobra.Command, result ReplayResult, verbose bool) error {
	w := cmd.OutOrStdout()

	if verbose && result.Replayed > 0 {
		fmt.Fprintln(w)
	}

	if result.Replayed == 0 {
		fmt.Fprintln(w, "Journal is empty; nothing to replay.")
		return nil
	}

	fmt.Fprintf(w, "✓ Replayed %d action(s) across %d flow(s)\n", result.Replayed, result.Flows)
	if result.Verified {
		fmt.Fprintln(w, "✓ Every state digest matches the journal")
	}
	fmt.Fprintln(w)

	writeFinalState(w, result.Final)
	return nil
}
