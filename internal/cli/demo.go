package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/SniraJavas/EcommerceWebApp/internal/gateway"
	"github.com/SniraJavas/EcommerceWebApp/internal/journal"
	"github.com/SniraJavas/EcommerceWebApp/internal/scenario"
	"github.com/SniraJavas/EcommerceWebApp/internal/selector"
	"github.com/SniraJavas/EcommerceWebApp/internal/state"
)

// The summary renders through the same views the storefront chrome uses.
var (
	headerView   = selector.Header()
	orderHistory = selector.OrderHistory()
)

// DemoOptions holds flags for the demo command.
type DemoOptions struct {
	*RootOptions
	Database string
	Backend  string
}

// DemoResult is the JSON payload of a demo run.
type DemoResult struct {
	Trace     json.RawMessage `json:"trace"`
	Final     FinalState      `json:"final_state"`
	Journaled int             `json:"journaled,omitempty"`
}

// FinalState is the condensed state summary reported after a run.
type FinalState struct {
	Products      int  `json:"products"`
	CartItems     int  `json:"cart_items"`
	Orders        int  `json:"orders"`
	Authenticated bool `json:"authenticated"`
}

// NewDemoCommand creates the demo command.
func NewDemoCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DemoOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "demo <scenario.yaml>",
		Short: "Run a scripted scenario through the engine",
		Long: `Run a scripted scenario through a fresh engine and print the
dispatched action trace.

Each step dispatches one action; the run settles all effect follow-ups
before the next step, so the trace is deterministic. By default the
effects talk to the built-in in-memory backend seeded from the scenario's
catalog and users. With --backend they talk to a live storefront API
instead, in which case scripted failures are rejected.

With --db every dispatched action is appended to a SQLite journal that
the trace and replay commands can read back.

Examples:
  shopfront demo ./scenarios/checkout.yaml
  shopfront demo ./scenarios/checkout.yaml --db ./shopfront.db
  shopfront demo ./scenarios/checkout.yaml --backend http://localhost:8080
  shopfront demo ./scenarios/checkout.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "journal dispatched actions to this SQLite database")
	cmd.Flags().StringVar(&opts.Backend, "backend", "", "base URL of a live storefront API (default: built-in backend)")

	return cmd
}

func runDemo(opts *DemoOptions, path string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	sc, err := scenario.Load(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}

	// Open the journal before running so a bad path fails fast.
	var j *journal.Journal
	if opts.Database != "" {
		j, err = journal.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open journal", err)
		}
		defer j.Close()
	}

	var runOpts []scenario.RunOption
	if opts.Backend != "" {
		base := opts.Backend
		runOpts = append(runOpts, scenario.WithBackend(func(vault gateway.TokenVault) gateway.Gateway {
			return gateway.NewHTTP(base, vault)
		}))
	}

	res, err := scenario.Run(ctx, sc, runOpts...)
	if err != nil {
		return WrapExitError(ExitFailure, "scenario run failed", err)
	}

	journaled := 0
	if j != nil {
		for _, ev := range res.Events {
			if err := j.AppendEvent(ctx, ev); err != nil {
				return WrapExitError(ExitCommandError, "failed to journal events", err)
			}
			journaled++
		}
	}

	snap, err := scenario.Snapshot(res)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to encode trace", err)
	}

	if opts.Format == "json" {
		data, err := snap.MarshalCanonical()
		if err != nil {
			return WrapExitError(ExitFailure, "failed to encode trace", err)
		}
		return outputDemoJSON(cmd, DemoResult{
			Trace:     json.RawMessage(data),
			Final:     summarizeState(res.Final),
			Journaled: journaled,
		})
	}

	return outputDemoText(cmd, sc, snap, res.Final, journaled, opts.Verbose)
}

// outputDemoJSON outputs the demo result as JSON.
func outputDemoJSON(cmd *cobra.Command, result DemoResult) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(CLIResponse{Status: "ok", Data: result})
}

// outputDemoText outputs the demo result as text.
func outputDemoText(cmd *cobra.Command, sc *scenario.Scenario, snap *scenario.TraceSnapshot, final *state.Tree, journaled int, verbose bool) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Fprintln(w, sc.Description)
	}
	fmt.Fprintln(w)

	for _, st := range snap.Steps {
		fmt.Fprintf(w, "  [%d] %s %s\n", st.Seq, st.Token, st.Kind)
		if verbose && len(st.Payload) > 0 {
			payload, err := json.Marshal(st.Payload)
			if err != nil {
				return WrapExitError(ExitFailure, "failed to encode trace", err)
			}
			fmt.Fprintf(w, "       payload: %s\n", payload)
		}
	}
	fmt.Fprintln(w)

	writeFinalState(w, summarizeState(final))

	if journaled > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Journaled %d event(s)\n", journaled)
	}
	return nil
}

// summarizeState condenses a state tree into the reported summary.
func summarizeState(tree *state.Tree) FinalState {
	h := headerView.Get(tree)
	return FinalState{
		Products:      h.ProductCount,
		CartItems:     h.CartCount,
		Orders:        len(orderHistory.Get(tree)),
		Authenticated: h.SignedIn,
	}
}

// writeFinalState renders the state summary as text.
func writeFinalState(w io.Writer, fs FinalState) {
	fmt.Fprintln(w, "Final state:")
	fmt.Fprintf(w, "  Catalog: %d product(s)\n", fs.Products)
	fmt.Fprintf(w, "  Cart:    %d item(s)\n", fs.CartItems)
	fmt.Fprintf(w, "  Orders:  %d order(s)\n", fs.Orders)
	fmt.Fprintf(w, "  Session: %s\n", sessionLabel(fs.Authenticated))
}

// sessionLabel names the session state for text output.
func sessionLabel(authenticated bool) string {
	if authenticated {
		return "authenticated"
	}
	return "guest"
}
