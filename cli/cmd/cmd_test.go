package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mamercad/community.healthchecksio/cli/api/apitest"
)

// resetFlags puts every flag back to its default and drops the context a
// previous run left on the command, so commands can be executed more than
// once per process.
func resetFlags(c *cobra.Command) {
	// cobra only hands the root context down to commands without one.
	c.SetContext(nil)

	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func setupEnv(t *testing.T, token string) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{"API_URL", "TIMEOUT", "OUTPUT"} {
		t.Setenv("HEALTHCHECKSIO_"+k, "")
		os.Unsetenv("HEALTHCHECKSIO_" + k)
	}
	t.Setenv("HEALTHCHECKSIO_API_TOKEN", token)
	if token == "" {
		os.Unsetenv("HEALTHCHECKSIO_API_TOKEN")
	}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func decodeOutcome(t *testing.T, out string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &m), out)
	return m
}

func TestBadgesCommand(t *testing.T) {
	srv := apitest.New(t)
	srv.AddCheck("web", "prod")
	setupEnv(t, srv.APIKey)

	out, _, err := execute(t, "--api", srv.BaseURL(), "badges")
	require.NoError(t, err)

	m := decodeOutcome(t, out)
	assert.Equal(t, false, m["changed"])
	assert.NotContains(t, m, "failed")
	badges := m["data"].(map[string]any)["badges"].(map[string]any)
	assert.Contains(t, badges, "prod")
	assert.Equal(t, []string{"badges"}, srv.Requests())
}

func TestChannelsCommand(t *testing.T) {
	srv := apitest.New(t)
	srv.AddChannel("ops", "email")
	setupEnv(t, srv.APIKey)

	out, _, err := execute(t, "--api", srv.BaseURL(), "channels")
	require.NoError(t, err)

	channels := decodeOutcome(t, out)["data"].(map[string]any)["channels"].([]any)
	require.Len(t, channels, 1)
	assert.Equal(t, "ops", channels[0].(map[string]any)["name"])
}

func TestChecksCommand_Tags(t *testing.T) {
	srv := apitest.New(t)
	srv.AddCheck("web", "a", "b")
	srv.AddCheck("db", "a")
	setupEnv(t, srv.APIKey)

	out, _, err := execute(t, "--api", srv.BaseURL(), "checks", "--tag", "a", "-t", "b")
	require.NoError(t, err)

	assert.Equal(t, []string{"checks?tag=a&tag=b"}, srv.Requests())
	checks := decodeOutcome(t, out)["data"].(map[string]any)["checks"].([]any)
	require.Len(t, checks, 1)
	assert.Equal(t, "web", checks[0].(map[string]any)["name"])
}

func TestChecksCommand_UUID(t *testing.T) {
	srv := apitest.New(t)
	id := srv.AddCheck("web")
	setupEnv(t, srv.APIKey)

	out, _, err := execute(t, "--api", srv.BaseURL(), "checks", id)
	require.NoError(t, err)

	assert.Equal(t, []string{"checks/" + id}, srv.Requests())
	assert.Equal(t, id, decodeOutcome(t, out)["data"].(map[string]any)["uuid"])
}

func TestChecksCommand_TagsAndUUID(t *testing.T) {
	srv := apitest.New(t)
	setupEnv(t, srv.APIKey)

	out, _, err := execute(t, "--api", srv.BaseURL(), "checks", "12345", "--tag", "a")
	require.EqualError(t, err, "tags and uuid arguments are mutually exclusive and cannot both be provided.")

	assert.Empty(t, srv.Requests())
	m := decodeOutcome(t, out)
	assert.Equal(t, true, m["failed"])
	assert.Equal(t, false, m["changed"])
}

func TestChecksCommand_ErrorStatus(t *testing.T) {
	srv := apitest.New(t)
	srv.Fail(http.StatusBadRequest, "bad")
	setupEnv(t, srv.APIKey)

	out, _, err := execute(t, "--api", srv.BaseURL(), "checks")
	require.EqualError(t, err, "Failed to get checks [HTTP 400]")
	assert.Equal(t, "Failed to get checks [HTTP 400]", decodeOutcome(t, out)["msg"])
}

func TestSubResourceCommands_ErrorStatus(t *testing.T) {
	id := "dfa582de-caa3-447f-9d02-7c481c80408c"
	for _, sub := range []string{"flips", "pings"} {
		t.Run(sub, func(t *testing.T) {
			srv := apitest.New(t)
			srv.Fail(http.StatusBadRequest, "")
			setupEnv(t, srv.APIKey)

			_, _, err := execute(t, "--api", srv.BaseURL(), sub, id)
			require.EqualError(t, err, "Failed to get checks/"+id+"/"+sub+" [HTTP 400: (empty error message)]")
			assert.Equal(t, []string{"checks/" + id + "/" + sub}, srv.Requests())
		})
	}
}

func TestSubResourceCommands_RequireUUID(t *testing.T) {
	setupEnv(t, "token")
	for _, sub := range []string{"flips", "pings"} {
		_, _, err := execute(t, sub)
		assert.Error(t, err, sub)
	}
}

func TestCheckMode(t *testing.T) {
	srv := apitest.New(t)
	setupEnv(t, "")

	for _, args := range [][]string{
		{"badges"},
		{"channels"},
		{"checks"},
		{"flips", "dfa582de-caa3-447f-9d02-7c481c80408c"},
		{"pings", "dfa582de-caa3-447f-9d02-7c481c80408c"},
	} {
		out, _, err := execute(t, append([]string{"--api", srv.BaseURL(), "--check"}, args...)...)
		require.NoError(t, err, args)

		m := decodeOutcome(t, out)
		assert.Equal(t, map[string]any{}, m["data"], args)
	}
	assert.Empty(t, srv.Requests())
}

func TestMissingToken(t *testing.T) {
	srv := apitest.New(t)
	setupEnv(t, "")

	_, _, err := execute(t, "--api", srv.BaseURL(), "channels")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no API token")
	assert.Empty(t, srv.Requests())
}

func TestWrongToken(t *testing.T) {
	srv := apitest.New(t)
	setupEnv(t, "nope")

	_, _, err := execute(t, "--api", srv.BaseURL(), "channels")
	require.EqualError(t, err, "Failed to get channels [HTTP 401: wrong api key]")
}

func TestYAMLOutput(t *testing.T) {
	srv := apitest.New(t)
	srv.AddChannel("ops", "slack")
	setupEnv(t, srv.APIKey)

	out, _, err := execute(t, "--api", srv.BaseURL(), "-o", "yaml", "channels")
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &m))
	assert.Equal(t, false, m["changed"])
	assert.Contains(t, out, "kind: slack")
}

func TestPrettyOutput(t *testing.T) {
	srv := apitest.New(t)
	id := srv.AddCheck("nightly-backup", "prod")
	srv.SetStatus(id, "down")
	setupEnv(t, srv.APIKey)

	out, _, err := execute(t, "--api", srv.BaseURL(), "-o", "pretty", "checks")
	require.NoError(t, err)
	assert.Contains(t, out, "HEALTHCHECKS.IO CHECKS")
	assert.Contains(t, out, "nightly-backup")
	assert.Contains(t, out, "checks (1)")
}

func TestPrettyOutput_Failure(t *testing.T) {
	srv := apitest.New(t)
	srv.Fail(http.StatusNotFound, "not found")
	setupEnv(t, srv.APIKey)

	out, _, err := execute(t, "--api", srv.BaseURL(), "-o", "pretty", "channels")
	require.Error(t, err)
	assert.Contains(t, out, "Failed to get channels [HTTP 404: not found]")
}

func TestUnknownOutput(t *testing.T) {
	setupEnv(t, "token")

	_, _, err := execute(t, "-o", "xml", "badges")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output")
}

func TestWatchIntervalTooShort(t *testing.T) {
	srv := apitest.New(t)
	setupEnv(t, srv.APIKey)

	_, _, err := execute(t, "--api", srv.BaseURL(), "checks", "--watch", "10ms")
	require.Error(t, err)
	assert.Empty(t, srv.Requests())
}

func TestWatchStopsWithContext(t *testing.T) {
	srv := apitest.New(t)
	srv.AddCheck("web")
	setupEnv(t, srv.APIKey)

	// A plain run first leaves a live context on the checks command.
	_, _, err := execute(t, "--api", srv.BaseURL(), "checks")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resetFlags(rootCmd)
	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"--api", srv.BaseURL(), "checks", "--watch", "1s"})
	require.NoError(t, rootCmd.ExecuteContext(ctx))
}

func TestVersionCommand(t *testing.T) {
	setupEnv(t, "")

	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version")
	assert.Contains(t, out, "https://healthchecks.io/api/v1")
}

func TestVerboseLogsRequests(t *testing.T) {
	srv := apitest.New(t)
	setupEnv(t, srv.APIKey)

	_, stderr, err := execute(t, "--api", srv.BaseURL(), "-v", "badges")
	require.NoError(t, err)
	assert.Contains(t, stderr, "GET badges -> 200")
}
