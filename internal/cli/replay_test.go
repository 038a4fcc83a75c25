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

// tamperJournal rewrites one record column so verification has something
// to catch.
func tamperJournal(t *testing.T, dbPath, query string, args ...any) {
	t.Helper()

	j, err := journal.Open(dbPath)
	require.NoError(t, err)
	defer j.Close()

	_, err = j.DB().Exec(query, args...)
	require.NoError(t, err)
}

func TestReplayMissingDatabaseFlag(t *testing.T) {
	buf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(errBuf)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestReplayNonExistentDatabase(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", filepath.Join(t.TempDir(), "no", "such", "dir", "x.db")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open journal")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestReplayEmptyJournal(t *testing.T) {
	dbPath := emptyJournal(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "nothing to replay")
}

func TestReplayText(t *testing.T) {
	dbPath := seedJournal(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "✓ Replayed 6 action(s) across 4 flow(s)")
	assert.Contains(t, output, "Final state:")
	assert.Contains(t, output, "1 order(s)")
	assert.Contains(t, output, "authenticated")
}

func TestReplayVerify(t *testing.T) {
	dbPath := seedJournal(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath, "--verify"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "✓ Every state digest matches the journal")
}

func TestReplayVerbose(t *testing.T) {
	dbPath := seedJournal(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text", Verbose: true}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "[1] flow-1 session/loginRequested")
	assert.Contains(t, output, "[6] flow-4 orders/placeSucceeded")
}

func TestReplayJSON(t *testing.T) {
	dbPath := seedJournal(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath, "--verify"})

	require.NoError(t, cmd.Execute())

	var response CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &response))
	assert.Equal(t, "ok", response.Status)

	data, ok := response.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(6), data["replayed"])
	assert.Equal(t, float64(4), data["flows"])
	assert.Equal(t, true, data["verified"])

	final, ok := data["final_state"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), final["orders"])
}

func TestReplayDivergence(t *testing.T) {
	dbPath := seedJournal(t)
	tamperJournal(t, dbPath, "UPDATE actions SET state_digest = 'deadbeef' WHERE seq = 3")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath, "--verify"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	output := buf.String()
	assert.Contains(t, output, "✗ Replay diverged at seq 3 (cart/added)")
	assert.Contains(t, output, "journal: deadbeef")
	assert.Contains(t, output, "replay:")
}

func TestReplayDivergenceJSON(t *testing.T) {
	dbPath := seedJournal(t)
	tamperJournal(t, dbPath, "UPDATE actions SET state_digest = 'deadbeef' WHERE seq = 3")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath, "--verify"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var response CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &response))
	assert.Equal(t, "error", response.Status)
	require.NotNil(t, response.Error)
	assert.Equal(t, CodeDivergence, response.Error.Code)
}

func TestReplayWithoutVerifySkipsTamperedDigest(t *testing.T) {
	dbPath := seedJournal(t)
	tamperJournal(t, dbPath, "UPDATE actions SET state_digest = 'deadbeef' WHERE seq = 3")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "✓ Replayed 6 action(s)")
}

func TestReplaySeqGap(t *testing.T) {
	dbPath := seedJournal(t)
	tamperJournal(t, dbPath, "DELETE FROM actions WHERE seq = 2")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seq gap")
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestReplayHelpText(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "Rebuild")
	assert.Contains(t, output, "--db")
	assert.Contains(t, output, "--verify")
}
