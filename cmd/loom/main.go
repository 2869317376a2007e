package main

import (
	"fmt"
	"os"
	"time"

	"storyloom/internal/config"
	"storyloom/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose        bool
	workspace      string
	scenarioPath   string
	revealInterval time.Duration
	intervalSet    bool

	// Effective configuration after file, env and flags
	cfg *config.Config

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "loom",
	Short: "storyloom - interactive narrative chat",
	Long: `storyloom is a terminal storytelling companion.

Type what your character does; the narrator answers, typing its reply out
character by character. The side cards show your protagonist, the current
scene and who is present.

Run without arguments to start the interactive chat interface.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadSettings(cmd); err != nil {
			return err
		}

		// The interactive chat owns the terminal; it logs to files only.
		if cmd == cmd.Root() {
			logger = zap.NewNop()
			return nil
		}

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: launch interactive chat
		return runInteractiveChat()
	},
}

// loadSettings resolves the workspace, loads the config file and applies the
// command line overrides on top of it.
func loadSettings(cmd *cobra.Command) error {
	if workspace == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to resolve workspace: %w", err)
		}
		workspace = wd
	}

	loaded, err := config.Load(config.DefaultPath(workspace))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	intervalSet = cmd.Flags().Changed("interval")
	if err := applyOverrides(loaded); err != nil {
		return err
	}
	cfg = loaded

	if err := logging.Initialize(workspace, cfg.Logging.Options()); err != nil {
		return fmt.Errorf("failed to initialize file logging: %w", err)
	}
	logging.Boot("workspace %s, config %s", workspace, config.DefaultPath(workspace))
	return nil
}

// applyOverrides layers the command line flags over a loaded config.
func applyOverrides(c *config.Config) error {
	if scenarioPath != "" {
		c.Scenario = scenarioPath
	}
	if intervalSet {
		c.Reveal.Interval = revealInterval.String()
	}
	if verbose {
		c.Logging.DebugMode = true
		c.Logging.Level = "debug"
	}
	return c.Validate()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().StringVar(&scenarioPath, "scenario", "", "Scenario YAML file (default: built-in)")
	rootCmd.PersistentFlags().DurationVar(&revealInterval, "interval", 30*time.Millisecond, "Delay between revealed characters")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing config file")

	// Add commands to root
	rootCmd.AddCommand(revealCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(scenarioCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
