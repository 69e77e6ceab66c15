package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/abhisek/storyforge/internal/config"
	"github.com/abhisek/storyforge/internal/jobs"
	"github.com/abhisek/storyforge/internal/llm"
	"github.com/abhisek/storyforge/internal/store"
	"github.com/abhisek/storyforge/internal/storygen"
)

// localBackend is the in-process story service: the store, the LLM
// provider and the job workers.
type localBackend struct {
	store *store.Store
	jobs  *jobs.Service

	// configured is false when no LLM provider could be built; jobs then
	// fail with llm.ErrNotConfigured.
	configured bool
}

func newLocalBackend(ctx context.Context, st *store.Store, cfg config.Config, log zerolog.Logger) (*localBackend, error) {
	llmCfg := cfg.LLMConfig()
	if llmCfg.Provider == llm.ProviderMock && llmCfg.Mock.Reply == nil {
		llmCfg.Mock.Reply = storygen.DemoDraft()
	}
	provider, err := llm.NewProvider(ctx, llmCfg, st.EventRepo(), log)
	configured := true
	if err != nil {
		if !errors.Is(err, llm.ErrNotConfigured) {
			return nil, fmt.Errorf("LLM provider: %w", err)
		}
		configured = false
		provider = nil
	}

	gen := storygen.New(provider, cfg.StorygenConfig())
	svc := jobs.New(gen, st.StoryRepo(), st.JobRepo(), log, jobs.Config{
		Workers:    cfg.Generation.Workers,
		QueueSize:  cfg.Generation.QueueSize,
		JobTimeout: cfg.Generation.JobTimeout,
	})
	return &localBackend{store: st, jobs: svc, configured: configured}, nil
}

// Close stops the workers, waiting for running jobs.
func (b *localBackend) Close() error {
	return b.jobs.Close()
}
