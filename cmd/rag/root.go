package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"factrag/internal/chat"
	"factrag/internal/config"
	"factrag/internal/corpus"
	"factrag/internal/embedding"
	"factrag/internal/input"
	"factrag/internal/logging"
	"factrag/internal/service"
	"factrag/internal/tui"
)

type rootFlags struct {
	config      string
	corpus      string
	top         int
	concurrency int
	logLevel    string
}

func newRootCmd() *cobra.Command {
	var f rootFlags
	cmd := &cobra.Command{
		Use:   "rag",
		Short: "Answer a question from a corpus of facts",
		Long: `rag embeds every line of the corpus file, retrieves the facts most
similar to your question and asks a chat model to answer from them only.

The question is read from stdin when it is piped, otherwise it is asked
interactively.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			log, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// main reports the returned error.
			reader := input.Select(os.Stdin, cmd.OutOrStdout())
			return run(ctx, cfg, reader, cmd.OutOrStdout(), log)
		},
	}
	cmd.Flags().StringVar(&f.config, "config", "", "Path to YAML config file (optional; uses ./config.yaml or ~/.config/rag/config.yaml)")
	cmd.Flags().StringVar(&f.corpus, "corpus", "", "Corpus file, one fact per line (overrides config)")
	cmd.Flags().IntVar(&f.top, "top", 0, "Number of facts to retrieve (overrides config)")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 0, "Parallel embedding calls during ingestion (overrides config)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")
	return cmd
}

func loadConfig(cmd *cobra.Command, f rootFlags) (*config.AppConfig, error) {
	var (
		cfg *config.AppConfig
		err error
	)
	if f.config == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(f.config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("corpus") {
		cfg.Corpus.Path = f.corpus
	}
	if cmd.Flags().Changed("top") {
		cfg.Retrieval.TopN = f.top
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Ingest.Concurrency = f.concurrency
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.AppConfig, reader input.QueryReader, out io.Writer, log *slog.Logger) error {
	facts, err := corpus.Load(cfg.Corpus.Path)
	if err != nil {
		return fmt.Errorf("loading corpus: %w", err)
	}
	fmt.Fprintf(out, "Loaded %d entries\n", len(facts))

	emb, err := embedding.New(cfg.Embedder, log)
	if err != nil {
		return err
	}
	model, err := chat.New(cfg.Chat)
	if err != nil {
		return err
	}

	p := service.New(emb, model, service.Config{
		TopN:        cfg.Retrieval.TopN,
		Temperature: cfg.Chat.ChatTemperature(),
		Concurrency: cfg.Ingest.Concurrency,
	}, log)
	if err := p.Ingest(ctx, facts); err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	query, err := reader.ReadQuery(ctx)
	if err != nil {
		return fmt.Errorf("reading question: %w", err)
	}

	matches, err := p.Retrieve(ctx, query)
	if err != nil {
		return fmt.Errorf("retrieving knowledge: %w", err)
	}
	fmt.Fprint(out, tui.RenderMatches(matches))

	answer, err := p.Generate(ctx, query, matches)
	if err != nil {
		return fmt.Errorf("generating answer: %w", err)
	}
	fmt.Fprint(out, tui.RenderAnswer(answer))
	return nil
}
