package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SniraJavas/EcommerceWebApp/internal/journal"
)

// checkoutScenario is the scripted session the CLI tests run: sign in,
// fill the cart, place an order. Six dispatches across four flows.
const checkoutScenario = `name: checkout
description: Sign in, fill the cart, and place an order.
catalog:
  - id: p-1
    name: Mechanical Keyboard
    price: "19.99"
  - id: p-2
    name: Desk Mat
    price: "7.25"
users:
  ada@example.com: hunter2
steps:
  - dispatch: session/loginRequested
    payload:
      email: ada@example.com
      password: hunter2
  - dispatch: cart/added
    product: p-1
  - dispatch: cart/added
    product: p-2
  - dispatch: orders/placeRequested
`

// rejectedScenario scripts the backend to refuse order placement.
const rejectedScenario = `name: order-rejected
description: The backend declines the order; the cart survives.
catalog:
  - id: p-1
    name: Mechanical Keyboard
    price: "19.99"
failures:
  - op: PlaceOrder
    status: 502
    message: upstream unavailable
steps:
  - dispatch: cart/added
    product: p-1
  - dispatch: orders/placeRequested
`

// writeScenario drops scenario YAML into a temp dir and returns its path.
func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDemoMissingScenarioArg(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewDemoCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestDemoScenarioNotFound(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewDemoCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "missing.yaml")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load scenario")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestDemoText(t *testing.T) {
	path := writeScenario(t, checkoutScenario)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewDemoCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "Scenario: checkout")
	assert.Contains(t, output, "session/loginSucceeded")
	assert.Contains(t, output, "orders/placeSucceeded")
	assert.Contains(t, output, "flow-4")
	assert.Contains(t, output, "Final state:")
	assert.Contains(t, output, "1 order(s)")
	assert.Contains(t, output, "authenticated")
}

func TestDemoVerbosePayloads(t *testing.T) {
	path := writeScenario(t, checkoutScenario)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text", Verbose: true}
	cmd := NewDemoCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "payload:")
	assert.Contains(t, output, "ada@example.com")
	assert.Contains(t, output, "Mechanical Keyboard")
}

func TestDemoScriptedFailure(t *testing.T) {
	path := writeScenario(t, rejectedScenario)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewDemoCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "orders/placeFailed")
	assert.NotContains(t, output, "orders/placeSucceeded")
	// The rejected order leaves the cart intact.
	assert.Contains(t, output, "1 item(s)")
	assert.Contains(t, output, "0 order(s)")
}

func TestDemoJSON(t *testing.T) {
	path := writeScenario(t, checkoutScenario)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewDemoCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())

	var response CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &response))
	assert.Equal(t, "ok", response.Status)

	data, ok := response.Data.(map[string]any)
	require.True(t, ok)

	final, ok := data["final_state"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), final["orders"])
	assert.Equal(t, float64(0), final["cart_items"])
	assert.Equal(t, true, final["authenticated"])

	trace, ok := data["trace"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "checkout", trace["scenario"])
	steps, ok := trace["steps"].([]any)
	require.True(t, ok)
	assert.Len(t, steps, 6)
}

func TestDemoJournal(t *testing.T) {
	path := writeScenario(t, checkoutScenario)
	dbPath := filepath.Join(t.TempDir(), "shopfront.db")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewDemoCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path, "--db", dbPath})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Journaled 6 event(s)")

	j, err := journal.Open(dbPath)
	require.NoError(t, err)
	defer j.Close()

	count, err := j.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, count)

	tokens, err := j.ListTokens(context.Background())
	require.NoError(t, err)
	assert.Len(t, tokens, 4)
}

func TestDemoJournalBadPath(t *testing.T) {
	path := writeScenario(t, checkoutScenario)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewDemoCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path, "--db", filepath.Join(t.TempDir(), "no", "such", "dir", "x.db")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open journal")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestDemoBackendRejectsScriptedFailures(t *testing.T) {
	path := writeScenario(t, rejectedScenario)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewDemoCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path, "--backend", "http://127.0.0.1:1"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scripted failures")
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestSessionLabel(t *testing.T) {
	assert.Equal(t, "authenticated", sessionLabel(true))
	assert.Equal(t, "guest", sessionLabel(false))
}
