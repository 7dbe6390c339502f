package cmd

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/abhisek/docquiz/internal/assembler"
	"github.com/abhisek/docquiz/internal/config"
	"github.com/abhisek/docquiz/internal/evaluator"
	"github.com/abhisek/docquiz/internal/llm"
	"github.com/abhisek/docquiz/internal/logger"
	"github.com/abhisek/docquiz/internal/quizgen"
	"github.com/abhisek/docquiz/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "docquiz",
	Short: "Generate multiple-choice quizzes from documents",
	Long: "docquiz samples ingested documents, asks an LLM for quiz questions " +
		"and filters out structural, copied and duplicate questions.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides DOCQUIZ_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (default "+config.DefaultPath+")")
	rootCmd.PersistentFlags().String("log-mode", "", "Log mode: dev or prod (overrides DOCQUIZ_LOG_MODE env var)")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(documentsCmd)
	rootCmd.AddCommand(sampleCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// env bundles what most commands need: configuration, a logger and an open
// store. Close releases the store and flushes the logger.
type env struct {
	cfg   *config.Config
	log   *logger.Logger
	store *store.Store
}

func (e *env) Close() {
	e.store.Close()
	e.log.Sync()
}

// setup loads configuration and opens the store, honouring the global flags.
func setup(cmd *cobra.Command) (*env, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if mode, _ := cmd.Flags().GetString("log-mode"); mode != "" {
		cfg.Log.Mode = mode
	}
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return &env{cfg: cfg, log: log, store: st}, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the config file or DOCQUIZ_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.Database.Path != "" {
		return cfg.Database.Path, store.EnsureDir(cfg.Database.Path)
	}
	return store.DefaultDBPath()
}

// embedder builds the configured embedder. Failures disable the diversity
// guard instead of aborting the command.
func (e *env) embedder(ctx context.Context) llm.Embedder {
	emb, err := llm.NewEmbedder(ctx, e.cfg.LLM)
	if err != nil {
		e.log.Warn("embedding unavailable, diversity guard disabled", "error", err)
		return nil
	}
	return emb
}

// quizService wires the generation pipeline against the configured LLM
// provider. seed 0 seeds the assembler from the clock.
func (e *env) quizService(ctx context.Context, seed uint64) (*quizgen.Service, error) {
	if err := e.cfg.LLM.Validate(); err != nil {
		return nil, fmt.Errorf("LLM provider not configured: %w", err)
	}
	provider, err := llm.NewProvider(ctx, e.cfg.LLM, e.store.EventRepo(), e.log)
	if err != nil {
		return nil, err
	}

	var rng *rand.Rand
	if seed != 0 {
		rng = rand.New(rand.NewPCG(seed, seed))
	}

	asm := assembler.New(e.embedder(ctx), rng, e.log)
	source := quizgen.NewLLMSource(provider, quizgen.SourceConfig{
		MaxTokens:   e.cfg.LLM.MaxTokens,
		Temperature: quizgen.DefaultSourceConfig().Temperature,
		Timeout:     e.cfg.LLM.Timeout,
	})
	orch := quizgen.NewOrchestrator(source, evaluator.New(e.cfg.Evaluation), e.log)

	return quizgen.NewService(e.store.ChunkRepo(), asm, orch, e.store.QuizRepo(), e.log), nil
}
