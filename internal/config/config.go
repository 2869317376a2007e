// Package config loads storyloom settings from <workspace>/.loom/config.yaml,
// applies environment overrides and hot-reloads the file while the chat runs.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"storyloom/internal/logging"

	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all storyloom configuration.
type Config struct {
	Reveal  RevealConfig  `yaml:"reveal"`
	Chat    ChatConfig    `yaml:"chat"`
	UI      UIConfig      `yaml:"ui"`
	Logging LoggingConfig `yaml:"logging"`

	// Scenario is an optional YAML file replacing the built-in mock cards.
	Scenario string `yaml:"scenario,omitempty"`
}

// RevealConfig configures the typing effect.
type RevealConfig struct {
	Interval string `yaml:"interval"` // delay between revealed characters
}

// ChatConfig configures the message flow.
type ChatConfig struct {
	ReplyDelay  string `yaml:"reply_delay"` // delay before the narrator answers
	Greeting    string `yaml:"greeting"`
	Placeholder string `yaml:"placeholder"`
	Narrator    string `yaml:"narrator"` // display name of the narrator
}

// UIConfig configures presentation.
type UIConfig struct {
	Theme            string `yaml:"theme"` // auto, light, dark
	Title            string `yaml:"title"`
	Tagline          string `yaml:"tagline"`
	MaxAvatars       int    `yaml:"max_avatars"`
	ShowCards        bool   `yaml:"show_cards"`
	ActionsHideDelay string `yaml:"actions_hide_delay"`
	CopiedResetDelay string `yaml:"copied_reset_delay"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level"`      // debug, info, warn, error
	Format     string          `yaml:"format"`     // json, text
	DebugMode  bool            `yaml:"debug_mode"` // Master toggle - false = no logging
	Categories map[string]bool `yaml:"categories,omitempty"`
}

// Options converts the logging section for the logging package.
func (l LoggingConfig) Options() logging.Options {
	return logging.Options{
		DebugMode:  l.DebugMode,
		Level:      l.Level,
		JSONFormat: l.Format == "json",
		Categories: l.Categories,
	}
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Reveal: RevealConfig{
			Interval: "30ms",
		},
		Chat: ChatConfig{
			ReplyDelay:  "1s",
			Greeting:    "What's on your mind today?",
			Placeholder: "Ask anything",
			Narrator:    "Narrator",
		},
		UI: UIConfig{
			Theme:            "auto",
			Title:            "Verve",
			Tagline:          "Dynamic narratives, forged by decisions",
			MaxAvatars:       3,
			ShowCards:        true,
			ActionsHideDelay: "1.5s",
			CopiedResetDelay: "2s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultPath returns the config file location for a workspace.
func DefaultPath(workspace string) string {
	return filepath.Join(workspace, ".loom", "config.yaml")
}

// Load loads configuration from a YAML file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if theme := os.Getenv("LOOM_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if interval := os.Getenv("LOOM_REVEAL_INTERVAL"); interval != "" {
		c.Reveal.Interval = interval
	}
	if delay := os.Getenv("LOOM_REPLY_DELAY"); delay != "" {
		c.Chat.ReplyDelay = delay
	}
	if debug := os.Getenv("LOOM_DEBUG"); debug != "" {
		if on, err := strconv.ParseBool(debug); err == nil {
			c.Logging.DebugMode = on
		} else {
			logging.Get(logging.CategoryConfig).Warn("ignoring LOOM_DEBUG=%q: %v", debug, err)
		}
	}
}

// ValidThemes lists the accepted ui.theme values.
var ValidThemes = []string{"auto", "light", "dark"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	durations := []struct {
		key   string
		value string
	}{
		{"reveal.interval", c.Reveal.Interval},
		{"chat.reply_delay", c.Chat.ReplyDelay},
		{"ui.actions_hide_delay", c.UI.ActionsHideDelay},
		{"ui.copied_reset_delay", c.UI.CopiedResetDelay},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		v, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalid, d.key, err)
		}
		if v < 0 {
			return fmt.Errorf("%w: %s must not be negative (got %s)", ErrInvalid, d.key, d.value)
		}
	}

	validTheme := false
	for _, t := range ValidThemes {
		if c.UI.Theme == t {
			validTheme = true
			break
		}
	}
	if !validTheme {
		return fmt.Errorf("%w: ui.theme %q (valid: %v)", ErrInvalid, c.UI.Theme, ValidThemes)
	}

	if c.UI.MaxAvatars < 0 {
		return fmt.Errorf("%w: ui.max_avatars must not be negative", ErrInvalid)
	}
	return nil
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

// GetRevealInterval returns the per-character reveal delay.
func (c *Config) GetRevealInterval() time.Duration {
	return parseDuration(c.Reveal.Interval, 30*time.Millisecond)
}

// GetReplyDelay returns the narrator reply delay.
func (c *Config) GetReplyDelay() time.Duration {
	return parseDuration(c.Chat.ReplyDelay, time.Second)
}

// GetActionsHideDelay returns how long user message actions linger after deselection.
func (c *Config) GetActionsHideDelay() time.Duration {
	return parseDuration(c.UI.ActionsHideDelay, 1500*time.Millisecond)
}

// GetCopiedResetDelay returns how long the "Copied" state is shown.
func (c *Config) GetCopiedResetDelay() time.Duration {
	return parseDuration(c.UI.CopiedResetDelay, 2*time.Second)
}
