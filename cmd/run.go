package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/edugen/internal/config"
	"github.com/abhisek/edugen/internal/content"
	"github.com/abhisek/edugen/internal/generator"
	"github.com/abhisek/edugen/internal/llm"
	"github.com/abhisek/edugen/internal/logging"
	"github.com/abhisek/edugen/internal/store"
	"github.com/abhisek/edugen/internal/ui"
	"github.com/abhisek/edugen/internal/validation"
)

// newProvider builds the model provider. Tests replace it.
var newProvider = llm.NewProvider

// progressEnabled reports whether the progress display can be drawn.
var progressEnabled = func() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// env holds what every command needs: configuration, a logger and the store.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store
}

// openEnv loads configuration, applies the persistent flags, and opens the
// database. The caller must call close.
func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, path, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	if dev, _ := cmd.Flags().GetBool("log-dev"); dev {
		cfg.Log.Development = true
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	logger.Debug("env.ready", zap.String("db", dbPath), zap.String("config", path))

	return &env{cfg: cfg, logger: logger, store: s}, nil
}

// loadConfig loads the --config file, which must exist when given, or the
// default config file if present.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	path, _ := cmd.Flags().GetString("config")
	required := path != ""
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path, required)
	return cfg, path, err
}

func (e *env) close() {
	_ = e.logger.Sync()
	_ = e.store.Close()
}

// newGenerator wires the provider, the item reviewer and the generator.
func (e *env) newGenerator(ctx context.Context, agent bool) (*generator.Generator, error) {
	llmCfg, err := llm.Resolve(e.cfg.LLM)
	if err != nil {
		return nil, err
	}
	provider, err := newProvider(ctx, llmCfg, e.store.EventRepo(), e.logger.Named("llm"))
	if err != nil {
		return nil, err
	}

	gc := e.cfg.GeneratorConfig()
	gc.Tiers = llmCfg.Tiers
	if !agent {
		gc.AgentValidation = false
	}
	if gc.AgentValidation {
		gc.Agent = validation.NewReviewer(
			llm.WithTimeout(provider, gc.CallTimeout),
			e.cfg.ReviewerConfig(),
			e.logger.Named("review"),
		)
	}
	return generator.New(provider, gc, e.logger.Named("generator")), nil
}

// runWork runs work behind a progress display when stderr is a terminal.
func runWork(ctx context.Context, label string, work ui.WorkFunc) error {
	if progressEnabled() {
		return ui.RunWithProgress(ctx, label, work)
	}
	return work(ctx, func(int) {})
}

// commonFlags registers the flags shared by the generation commands.
func commonFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("subject", "s", "", "Subject (see 'edugen formats')")
	f.IntP("grade", "g", 0, "Grade level, 1-11")
	f.StringP("topic", "t", "", "Topic, 3-200 characters")
	f.StringP("difficulty", "d", "medium", "Difficulty: easy, medium, hard")
	f.Bool("paid", false, "Use the paid model tier")
	f.Bool("no-agent", false, "Skip the model review of generated items")
	f.Bool("json", false, "Print JSON instead of formatted text")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("grade")
	_ = cmd.MarkFlagRequired("topic")
}

func readCommon(cmd *cobra.Command) generator.Common {
	f := cmd.Flags()
	subject, _ := f.GetString("subject")
	grade, _ := f.GetInt("grade")
	topic, _ := f.GetString("topic")
	difficulty, _ := f.GetString("difficulty")
	paid, _ := f.GetBool("paid")
	return generator.Common{
		Subject:    content.Subject(subject),
		Grade:      grade,
		Topic:      topic,
		Difficulty: content.Difficulty(difficulty),
		Paid:       paid,
	}
}

type outputOpts struct {
	agent  bool
	save   bool
	asJSON bool
}

func readOutput(cmd *cobra.Command) outputOpts {
	noAgent, _ := cmd.Flags().GetBool("no-agent")
	noSave, _ := cmd.Flags().GetBool("no-save")
	asJSON, _ := cmd.Flags().GetBool("json")
	return outputOpts{agent: !noAgent, save: !noSave, asJSON: asJSON}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// userError turns generator failures into the message shown on the
// command line. Internal details stay in the log.
func userError(err error) error {
	if errors.Is(err, generator.ErrAI) {
		return fmt.Errorf("%w: the model did not produce usable content, try again", generator.ErrAI)
	}
	return err
}
