package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhisek/storyforge/internal/config"
	"github.com/abhisek/storyforge/internal/logging"
	"github.com/abhisek/storyforge/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "storyforge",
	Short: "Generate and play interactive stories",
	Long:  "storyforge turns a theme into a branching, choose-your-own-adventure story and lets you play it in the terminal.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides STORYFORGE_DATABASE_PATH)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/storyforge/config.toml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (overrides STORYFORGE_LOG_LEVEL)")

	rootCmd.Flags().String("server", "", "Use a running storyforge server instead of the local database")
	rootCmd.Flags().String("at", "/", "Location to open, e.g. /stories/7 or /play/7")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(storyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file named by --config (or the default one)
// and applies the --db and --log-level flags on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.Database.Path = p
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	return cfg, nil
}

// openStore loads configuration and opens the database it names.
func openStore(cmd *cobra.Command) (*store.Store, config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, cfg, err
	}
	dbPath, err := cfg.DatabasePath()
	if err != nil {
		return nil, cfg, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, cfg, fmt.Errorf("open database: %w", err)
	}
	return s, cfg, nil
}

// stderrLogger builds the human readable logger used by non-TUI commands.
func stderrLogger(cfg config.Config) (zerolog.Logger, error) {
	return logging.New(logging.Options{
		Level:         cfg.Log.Level,
		HumanReadable: true,
		Writer:        os.Stderr,
	})
}
