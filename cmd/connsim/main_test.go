package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestSimulate(t *testing.T) {
	cfg := defaultConfig()
	cfg.Connections = 4
	cfg.Requests = 30
	cfg.ReadChunk = 64

	results, err := simulate(context.Background(), cfg, quietLogger())
	require.NoError(t, err)
	require.Len(t, results, 4)
	for _, r := range results {
		require.Equal(t, 30, r.requests)
		require.Equal(t, 20, r.authorized, "every third request has a wrong password")
		require.Equal(t, 10, r.challenged)
		require.Zero(t, r.refused)
		require.Positive(t, r.peakInUse)
		require.LessOrEqual(t, r.peakInUse, r.capacity)
	}
}

func TestSimulateTinyPool(t *testing.T) {
	cfg := defaultConfig()
	cfg.Connections = 1
	cfg.Requests = 5
	cfg.PoolSize = 96
	cfg.ReadChunk = 32

	results, err := simulate(context.Background(), cfg, quietLogger())
	require.NoError(t, err)
	require.Positive(t, results[0].refused, "requests larger than the pool must be refused")
}

func TestSimulateBackings(t *testing.T) {
	cfg := defaultConfig()
	cfg.Connections = 2
	cfg.Requests = 3
	cfg.MapThreshold = -1

	results, err := simulate(context.Background(), cfg, quietLogger())
	require.NoError(t, err)
	sums := summarize(results)
	require.Len(t, sums, 1)
	require.Equal(t, "heap", sums[0].backing.String())
	require.Equal(t, 2, sums[0].connections)
	require.Equal(t, 6, sums[0].requests)
}

func TestRunCommand(t *testing.T) {
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer, app.ErrWriter = &out, &errOut

	err := app.Run([]string{"connsim", "run", "--connections", "2", "--requests", "6", "--verbosity", "error"})
	require.NoError(t, err)
	require.Contains(t, out.String(), "AUTHORIZED")
	require.Contains(t, out.String(), "connsim_connpool_pools_created_total")
}

func TestConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "connsim.toml")
	require.NoError(t, os.WriteFile(file, []byte("connections = 3\nrequests = 7\nrealm = \"from-file\"\n"), 0o600))

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	err := app.Run([]string{"connsim", "dumpconfig", "--config", file, "--requests", "9"})
	require.NoError(t, err)

	got := out.String()
	require.Contains(t, got, "connections = 3")
	require.Contains(t, got, "requests = 9")
	require.Contains(t, got, `realm = "from-file"`)
}

func TestConfigValidation(t *testing.T) {
	for _, args := range [][]string{
		{"--connections", "0"},
		{"--read-chunk", "-1"},
		{"--verbosity", "loud"},
	} {
		app := newApp()
		app.Writer, app.ErrWriter = io.Discard, io.Discard
		require.Error(t, app.Run(append([]string{"connsim", "dumpconfig"}, args...)), "args %v", args)
	}
}
