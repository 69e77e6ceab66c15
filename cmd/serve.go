package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/storyforge/internal/api"
	"github.com/abhisek/storyforge/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the story API and run generation workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		log, err := stderrLogger(cfg)
		if err != nil {
			return err
		}

		httpCfg, err := api.LoadConfigFromEnv()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			httpCfg.Addr, _ = cmd.Flags().GetString("addr")
		}
		if cmd.Flags().Changed("cookie-secure") {
			httpCfg.CookieSecure, _ = cmd.Flags().GetBool("cookie-secure")
		}

		shutdownTracing, err := telemetry.Setup(ctx, "storyforge")
		if err != nil {
			return fmt.Errorf("setup tracing: %w", err)
		}
		defer func() {
			if err := shutdownTracing(context.Background()); err != nil {
				log.Warn().Err(err).Msg("tracing shutdown failed")
			}
		}()

		backend, err := newLocalBackend(ctx, st, cfg, log)
		if err != nil {
			return err
		}
		defer backend.Close()
		if !backend.configured {
			log.Warn().Msg("LLM provider not configured; generation jobs will fail")
		}

		return api.NewServer(backend.jobs, log, httpCfg).ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides STORYFORGE_HTTP_ADDR)")
	serveCmd.Flags().Bool("cookie-secure", false, "Mark the session cookie Secure (overrides STORYFORGE_COOKIE_SECURE)")
}
