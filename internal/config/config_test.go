package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"LOOM_THEME", "LOOM_REVEAL_INTERVAL", "LOOM_REPLY_DELAY", "LOOM_DEBUG"} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 30*time.Millisecond, cfg.GetRevealInterval())
	assert.Equal(t, time.Second, cfg.GetReplyDelay())
	assert.Equal(t, 1500*time.Millisecond, cfg.GetActionsHideDelay())
	assert.Equal(t, 2*time.Second, cfg.GetCopiedResetDelay())
	assert.Equal(t, "What's on your mind today?", cfg.Chat.Greeting)
	assert.Equal(t, "Ask anything", cfg.Chat.Placeholder)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)
	path := DefaultPath(t.TempDir())

	cfg := DefaultConfig()
	cfg.Reveal.Interval = "5ms"
	cfg.UI.Theme = "dark"
	cfg.Logging.Categories = map[string]bool{"reveal": false}

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Millisecond, loaded.GetRevealInterval())
	assert.Equal(t, "dark", loaded.UI.Theme)
	assert.Equal(t, map[string]bool{"reveal": false}, loaded.Logging.Categories)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("reveal:\n  interval: 12ms\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12*time.Millisecond, cfg.GetRevealInterval())
	assert.Equal(t, "Verve", cfg.UI.Title)
}

func TestLoad_ParseError(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("reveal: [broken"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("theme and timings", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LOOM_THEME", "light")
		t.Setenv("LOOM_REVEAL_INTERVAL", "1ms")
		t.Setenv("LOOM_REPLY_DELAY", "250ms")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "light", cfg.UI.Theme)
		assert.Equal(t, time.Millisecond, cfg.GetRevealInterval())
		assert.Equal(t, 250*time.Millisecond, cfg.GetReplyDelay())
	})

	t.Run("debug toggle", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LOOM_DEBUG", "true")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.True(t, cfg.Logging.DebugMode)
	})

	t.Run("bad debug value is ignored", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LOOM_DEBUG", "sometimes")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.False(t, cfg.Logging.DebugMode)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative reveal interval", func(c *Config) { c.Reveal.Interval = "-5ms" }},
		{"unparseable reply delay", func(c *Config) { c.Chat.ReplyDelay = "soon" }},
		{"unknown theme", func(c *Config) { c.UI.Theme = "sepia" }},
		{"negative avatars", func(c *Config) { c.UI.MaxAvatars = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
		})
	}
}

func TestLoad_RejectsNegativeIntervalFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOOM_REVEAL_INTERVAL", "-1ms")

	_, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestGetters_FallBackOnGarbage(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, 30*time.Millisecond, cfg.GetRevealInterval())
	assert.Equal(t, time.Second, cfg.GetReplyDelay())

	cfg.Reveal.Interval = "0s"
	assert.Equal(t, time.Duration(0), cfg.GetRevealInterval())
}

func TestLoggingOptions(t *testing.T) {
	l := LoggingConfig{Level: "debug", Format: "json", DebugMode: true}
	opts := l.Options()
	assert.True(t, opts.DebugMode)
	assert.True(t, opts.JSONFormat)
	assert.Equal(t, "debug", opts.Level)
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	clearEnv(t)
	path := DefaultPath(t.TempDir())
	require.NoError(t, DefaultConfig().Save(path))

	var mu sync.Mutex
	var reloaded []*Config

	w, err := NewWatcher(path, 40*time.Millisecond, func(cfg *Config, err error) {
		if err != nil {
			return
		}
		mu.Lock()
		reloaded = append(reloaded, cfg)
		mu.Unlock()
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	cfg := DefaultConfig()
	cfg.UI.Theme = "dark"
	require.NoError(t, cfg.Save(path))
	require.NoError(t, cfg.Save(path))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(reloaded) > 0 && reloaded[len(reloaded)-1].UI.Theme == "dark"
	}, 3*time.Second, 20*time.Millisecond)

	stats := w.Stats()
	assert.GreaterOrEqual(t, stats.Events, 1)
	assert.GreaterOrEqual(t, stats.Reloads, 1)
}

func TestWatcher_ReportsInvalidReload(t *testing.T) {
	clearEnv(t)
	path := DefaultPath(t.TempDir())
	require.NoError(t, DefaultConfig().Save(path))

	errs := make(chan error, 4)
	w, err := NewWatcher(path, 20*time.Millisecond, func(_ *Config, err error) {
		if err != nil {
			errs <- err
		}
	})
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("reveal:\n  interval: -3ms\n"), 0644))

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, ErrInvalid)
	case <-time.After(3 * time.Second):
		t.Fatal("expected a reload error")
	}
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "config.yaml"), 0, nil)
	require.NoError(t, err)
	w.Stop()
}
