package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/abhisek/storyforge/internal/api"
	"github.com/abhisek/storyforge/internal/app"
	"github.com/abhisek/storyforge/internal/config"
	"github.com/abhisek/storyforge/internal/logging"
	"github.com/abhisek/storyforge/internal/store"
)

// runApp builds a story backend and launches the TUI. With --server the
// backend is a remote storyforge server; otherwise stories are generated
// in-process and stored in the local database.
func runApp(cmd *cobra.Command) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("storyforge needs an interactive terminal; use 'storyforge story' commands in scripts")
	}

	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	dbPath, err := cfg.DatabasePath()
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}

	logFile, err := logging.OpenFile(cfg.LogPath(dbPath))
	if err != nil {
		return err
	}
	defer logFile.Close()
	log, err := logging.New(logging.Options{Level: cfg.Log.Level, Writer: logFile})
	if err != nil {
		return err
	}

	start, _ := cmd.Flags().GetString("at")
	opts := app.Options{
		SessionID:    uuid.NewString(),
		PollInterval: cfg.Generation.PollInterval,
		Start:        start,
		Logger:       &log,
	}

	if server, _ := cmd.Flags().GetString("server"); server != "" {
		log.Info().Str("server", server).Msg("using remote backend")
		opts.Backend = api.NewClient(server, nil)
		return app.Run(opts)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	backend, err := newLocalBackend(ctx, st, cfg, log)
	if err != nil {
		return err
	}
	defer backend.Close()
	if !backend.configured {
		warnNotConfigured()
	}

	opts.Backend = backend.jobs
	return app.Run(opts)
}

func warnNotConfigured() {
	fmt.Fprintln(os.Stderr, "LLM provider not configured.")
	fmt.Fprintf(os.Stderr, "Set OPENAI_API_KEY, ANTHROPIC_API_KEY, GEMINI_API_KEY or OPENROUTER_API_KEY, or edit %s.\n", configHint())
	fmt.Fprintln(os.Stderr, "Story generation will fail until then; stored stories can still be played.")
}

func configHint() string {
	if p, err := config.DefaultPath(); err == nil {
		return p
	}
	return "config.toml"
}
