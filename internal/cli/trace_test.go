package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SniraJavas/EcommerceWebApp/internal/journal"
)

// seedJournal runs the checkout scenario through demo --db and returns
// the journal path: six actions across four flows.
func seedJournal(t *testing.T) string {
	t.Helper()

	path := writeScenario(t, checkoutScenario)
	dbPath := filepath.Join(t.TempDir(), "shopfront.db")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewDemoCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path, "--db", dbPath})
	require.NoError(t, cmd.Execute())

	return dbPath
}

// emptyJournal creates a journal with no records and returns its path.
func emptyJournal(t *testing.T) string {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "empty.db")
	j, err := journal.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, j.Close())
	return dbPath
}

func TestTraceMissingDatabaseFlag(t *testing.T) {
	buf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(errBuf)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestTraceNonExistentDatabase(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", filepath.Join(t.TempDir(), "no", "such", "dir", "x.db")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open journal")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTraceEmptyJournal(t *testing.T) {
	dbPath := emptyJournal(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "No journaled actions match.")
}

func TestTraceTimeline(t *testing.T) {
	dbPath := seedJournal(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "=== Timeline ===")
	assert.Contains(t, output, "[1] flow-1 session/loginRequested")
	assert.Contains(t, output, "[2] flow-1 session/loginSucceeded")
	assert.Contains(t, output, "orders/placeSucceeded")
	assert.Contains(t, output, "=== Stats ===")
	assert.Contains(t, output, "Actions: 6")
	assert.Contains(t, output, "Flows:   4")
	assert.Contains(t, output, "Seq:     1..6")
}

func TestTraceTokenFilter(t *testing.T) {
	dbPath := seedJournal(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath, "--token", "flow-1"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "session/loginRequested")
	assert.Contains(t, output, "session/loginSucceeded")
	assert.NotContains(t, output, "cart/added")
	assert.Contains(t, output, "Actions: 2")
	assert.Contains(t, output, "Flows:   1")
}

func TestTraceUnknownToken(t *testing.T) {
	dbPath := seedJournal(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath, "--token", "flow-99"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "No journaled actions match.")
}

func TestTraceKindFilter(t *testing.T) {
	dbPath := seedJournal(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath, "--kind", "cart/added"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "cart/added")
	assert.NotContains(t, output, "session/loginRequested")
	assert.Contains(t, output, "Actions: 2")
	assert.Contains(t, output, "Flows:   2")
}

func TestTraceVerbose(t *testing.T) {
	dbPath := seedJournal(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text", Verbose: true}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath, "--token", "flow-1"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "payload: {email=ada@example.com, password=hunter2}")
	assert.Contains(t, output, "digest:")
	assert.Contains(t, output, "state:")
}

func TestTraceJSON(t *testing.T) {
	dbPath := seedJournal(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath})

	require.NoError(t, cmd.Execute())

	var response CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &response))
	assert.Equal(t, "ok", response.Status)

	data, ok := response.Data.(map[string]any)
	require.True(t, ok)

	timeline, ok := data["timeline"].([]any)
	require.True(t, ok)
	assert.Len(t, timeline, 6)

	first, ok := timeline[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), first["seq"])
	assert.Equal(t, "flow-1", first["token"])
	assert.Equal(t, "session/loginRequested", first["kind"])
	assert.NotEmpty(t, first["digest"])
	assert.NotEmpty(t, first["state_digest"])

	stats, ok := data["stats"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(6), stats["total_actions"])
	assert.Equal(t, float64(4), stats["flows"])
}

func TestTraceJSONEmpty(t *testing.T) {
	dbPath := emptyJournal(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath})

	require.NoError(t, cmd.Execute())

	var response CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &response))
	assert.Equal(t, "ok", response.Status)
}

func TestTraceHelpText(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "timeline")
	assert.Contains(t, output, "--db")
	assert.Contains(t, output, "--token")
	assert.Contains(t, output, "--kind")
}

func TestTruncateDigest(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"short", "short"},
		{"exactly16chars!!", "exactly16chars!!"},
		{"aaaaaaaabbbbbbbbccccccccdddddddd", "aaaaaaaa...dddddddd"},
	}

	for _, tc := range testCases {
		result := truncateDigest(tc.input)
		assert.Equal(t, tc.expected, result)
	}
}

func TestFormatDoc(t *testing.T) {
	// Empty doc
	assert.Equal(t, "{}", formatDoc(nil))
	assert.Equal(t, "{}", formatDoc(map[string]any{}))

	// Single field
	result := formatDoc(map[string]any{"key": "value"})
	assert.Contains(t, result, "key=value")

	// Multiple fields - should be in sorted order (deterministic)
	result = formatDoc(map[string]any{"b": 2, "a": 1, "c": 3})
	assert.Equal(t, "{a=1, b=2, c=3}", result)
}

func TestFormatDocNested(t *testing.T) {
	// Nested map - keys sorted at each level
	nested := map[string]any{
		"outer": map[string]any{
			"z": 3,
			"a": 1,
		},
		"simple": "value",
	}
	result := formatDoc(nested)
	assert.Equal(t, "{outer={a=1, z=3}, simple=value}", result)
}

func TestFormatDocValue(t *testing.T) {
	assert.Equal(t, "hello", formatDocValue("hello"))
	assert.Equal(t, "42", formatDocValue(42))
	assert.Equal(t, "true", formatDocValue(true))
	assert.Equal(t, "{a=1}", formatDocValue(map[string]any{"a": 1}))
	assert.Equal(t, "[1, 2]", formatDocValue([]any{1, 2}))
}
