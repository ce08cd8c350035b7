package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sells-group/leadscout/internal/captions"
	"github.com/sells-group/leadscout/internal/enrich"
	"github.com/sells-group/leadscout/internal/research"
	"github.com/sells-group/leadscout/internal/social"
	"github.com/sells-group/leadscout/pkg/anthropic"
	"github.com/sells-group/leadscout/pkg/instagram"
	"github.com/sells-group/leadscout/pkg/perplexity"
)

var (
	enrichInput  string
	enrichOutput string
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich and tag leads from a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		leads, err := loadLeads(enrichInput)
		if err != nil {
			return err
		}

		orch := newOrchestrator()
		result := orch.BatchEnrichAndTag(ctx, leads)

		return saveLeads(enrichOutput, result)
	},
}

// newOrchestrator wires the adapters from config. A missing credential
// disables that one adapter, not the pipeline.
func newOrchestrator() *enrich.Orchestrator {
	var igClient instagram.Client
	if cfg.Instagram.Token != "" {
		var opts []instagram.Option
		if cfg.Instagram.BaseURL != "" {
			opts = append(opts, instagram.WithBaseURL(cfg.Instagram.BaseURL))
		}
		igClient = instagram.NewClient(cfg.Instagram.Token, opts...)
	}

	var aiClient anthropic.Client
	if cfg.Anthropic.Key != "" {
		aiClient = anthropic.NewClient(cfg.Anthropic.Key)
	}

	var pplxClient perplexity.Client
	if cfg.Perplexity.Key != "" {
		pplxClient = perplexity.NewClient(cfg.Perplexity.Key,
			perplexity.WithBaseURL(cfg.Perplexity.BaseURL),
			perplexity.WithModel(cfg.Perplexity.Model),
		)
	}

	return enrich.New(
		social.NewFetcher(igClient),
		captions.NewAnalyzer(aiClient, cfg.Anthropic.Model),
		research.NewProvider(pplxClient, cfg.Perplexity.Model),
		cfg.Enrich,
	)
}

func init() {
	enrichCmd.Flags().StringVar(&enrichInput, "input", "", "leads JSON file (required)")
	enrichCmd.Flags().StringVar(&enrichOutput, "output", "-", "output file, - for stdout")
	_ = enrichCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(enrichCmd)
}
