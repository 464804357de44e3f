package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	var out bytes.Buffer
	RootCommand.SetOut(&out)
	RootCommand.SetArgs(args)
	t.Cleanup(func() {
		RootCommand.SetOut(nil)
		RootCommand.SetArgs(nil)
	})
	require.NoError(t, RootCommand.Execute())
	return out.String()
}

func TestRenderChangePinJson(t *testing.T) {
	out := execute(t, "render", "changepin", "--json", "--status", "pinError", "--remaining-attempts", "2")

	var tree map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &tree))
	require.Contains(t, out, `"testID": "ChangePin"`)
	require.Contains(t, out, "Your current PIN is incorrect. You have 2 attempts left.")
}

func TestRenderSession(t *testing.T) {
	out := execute(t, "render", "session", "--status", "requestPermission", "--language", "en")

	require.Contains(t, out, "Sign message")
	require.Contains(t, out, "Signature request")
	require.Contains(t, out, "Please confirm your age")
	// no escape sequences when not writing to a terminal
	require.NotContains(t, out, "\x1b[")
}

func TestRenderToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocked.txt")
	out := execute(t, "render", "changepin", "--json=false", "--status", "keyshareBlocked", "--timeout", "30s", "--out", path)
	require.Empty(t, out)

	bts, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(bts), "Too many incorrect attempts.")
	require.Contains(t, string(bts), "[ Dismiss ]")
}

func TestVersion(t *testing.T) {
	out := execute(t, "version")
	require.Contains(t, out, "irmawallet")
	require.Contains(t, out, "Version:")
}
