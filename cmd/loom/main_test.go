package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"storyloom/internal/config"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setup(t *testing.T) {
	t.Helper()
	logger = zap.NewNop()
	workspace = t.TempDir()
	cfg = config.DefaultConfig()
	cfg.Reveal.Interval = "1ms"
	scenarioPath = ""
	intervalSet = false
	verbose = false
	forceInit = false
}

func testCommand() (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	return cmd, out
}

func TestRunReveal_Args(t *testing.T) {
	setup(t)
	cmd, out := testCommand()

	require.NoError(t, runReveal(cmd, []string{"The", "door", "creaks."}))
	assert.Equal(t, "The door creaks.\n", out.String())
}

func TestRunReveal_Stdin(t *testing.T) {
	setup(t)
	cmd, out := testCommand()
	cmd.SetIn(strings.NewReader("A raven lands nearby. ✦\n"))

	require.NoError(t, runReveal(cmd, nil))
	assert.Equal(t, "A raven lands nearby. ✦\n", out.String())
}

func TestRunReveal_EmptyText(t *testing.T) {
	setup(t)
	cmd, out := testCommand()
	cmd.SetIn(strings.NewReader(""))

	require.NoError(t, runReveal(cmd, nil))
	assert.Equal(t, "\n", out.String())
}

func TestTypeOut_Cancelled(t *testing.T) {
	setup(t)
	var out bytes.Buffer

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := typeOut(ctx, &out, strings.Repeat("x", 500), 5*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	typed := strings.TrimSuffix(out.String(), "\n")
	assert.Less(t, len(typed), 500)
	assert.Equal(t, strings.Repeat("x", len(typed)), typed)
}

func TestTypeOut_NegativeInterval(t *testing.T) {
	setup(t)
	err := typeOut(context.Background(), &bytes.Buffer{}, "hi", -time.Millisecond)
	assert.Error(t, err)
}

func TestApplyOverrides(t *testing.T) {
	setup(t)
	scenarioPath = "scene.yaml"
	intervalSet = true
	revealInterval = 7 * time.Millisecond
	verbose = true

	c := config.DefaultConfig()
	require.NoError(t, applyOverrides(c))
	assert.Equal(t, "scene.yaml", c.Scenario)
	assert.Equal(t, 7*time.Millisecond, c.GetRevealInterval())
	assert.True(t, c.Logging.DebugMode)

	revealInterval = -time.Millisecond
	err := applyOverrides(config.DefaultConfig())
	assert.True(t, errors.Is(err, config.ErrInvalid))
}

func TestConfigInitAndShow(t *testing.T) {
	setup(t)
	cmd, out := testCommand()

	require.NoError(t, runConfigInit(cmd, nil))
	path := config.DefaultPath(workspace)
	assert.FileExists(t, path)
	assert.Contains(t, out.String(), path)

	assert.Error(t, runConfigInit(cmd, nil), "refuses to overwrite")
	forceInit = true
	assert.NoError(t, runConfigInit(cmd, nil))

	cmd, out = testCommand()
	require.NoError(t, runConfigShow(cmd, nil))
	assert.Contains(t, out.String(), "interval: 1ms")
	assert.Contains(t, out.String(), "greeting:")
	assert.Contains(t, out.String(), "placeholder: Ask anything")
}

func TestRunScenario(t *testing.T) {
	setup(t)
	cfg.UI.Theme = "dark"
	cmd, out := testCommand()

	require.NoError(t, runScenario(cmd, nil))
	s := out.String()
	assert.Contains(t, s, "Verve")
	assert.Contains(t, s, "Aren Vale")
	assert.Contains(t, s, "Forest Path")
	assert.Contains(t, s, "Awareness")
}

func TestRunScenario_CustomFile(t *testing.T) {
	setup(t)
	cfg.UI.Theme = "light"
	path := filepath.Join(workspace, "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte("place:\n  name: The Crooked Lantern\n  description: A warm inn.\n"), 0644))
	cfg.Scenario = path

	cmd, out := testCommand()
	require.NoError(t, runScenario(cmd, nil))
	assert.Contains(t, out.String(), "The Crooked Lantern")
	assert.NotContains(t, out.String(), "Aren Vale")
}

func TestLoadSettings(t *testing.T) {
	setup(t)
	for _, k := range []string{"LOOM_THEME", "LOOM_REVEAL_INTERVAL", "LOOM_REPLY_DELAY", "LOOM_DEBUG"} {
		t.Setenv(k, "")
	}
	c := config.DefaultConfig()
	c.UI.Theme = "light"
	require.NoError(t, c.Save(config.DefaultPath(workspace)))

	cmd := &cobra.Command{}
	cmd.Flags().Duration("interval", 0, "")
	require.NoError(t, loadSettings(cmd))
	assert.Equal(t, "light", cfg.UI.Theme)
	assert.Equal(t, 30*time.Millisecond, cfg.GetRevealInterval())
}
