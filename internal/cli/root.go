// Package cli implements the foodctl command line: a one-shot catalog load
// followed by the same selection transitions the HTTP sessions use.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Lixing-Zhang/food-finder/internal/config"
	"github.com/Lixing-Zhang/food-finder/internal/filter"
	"github.com/Lixing-Zhang/food-finder/internal/loader"
	"github.com/Lixing-Zhang/food-finder/internal/session"
	"github.com/Lixing-Zhang/food-finder/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCmd builds the foodctl command tree. Flags override environment
// variables, which override defaults.
func NewRootCmd() *cobra.Command {
	v := config.New()

	root := &cobra.Command{
		Use:   "foodctl",
		Short: "Browse a food catalog from the terminal",
		Long: `foodctl loads a food catalog from an HTTP endpoint or a local JSON file
and prints the items matching a search text and a meal category.`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringP("source", "s", "", "catalog location: http(s) URL, file URL or path (env DATA_SOURCE_URL)")
	flags.Int("timeout", 0, "load timeout in seconds (env LOAD_TIMEOUT)")
	flags.String("log-level", "", "log level: debug, info, warn, error (env LOG_LEVEL)")
	_ = v.BindPFlag("data_source_url", flags.Lookup("source"))
	_ = v.BindPFlag("load_timeout", flags.Lookup("timeout"))
	_ = v.BindPFlag("log_level", flags.Lookup("log-level"))

	root.AddCommand(newListCmd(v), newCategoriesCmd(v))
	return root
}

// Execute runs foodctl with os.Args
func Execute() error {
	return NewRootCmd().Execute()
}

// runtime is what every subcommand needs after flags are parsed
type runtime struct {
	cfg    *config.Config
	engine *filter.Engine
	loader session.DatasetLoader
	log    *slog.Logger
}

func newRuntime(v *viper.Viper) (*runtime, error) {
	cfg, err := config.FromViper(v)
	if err != nil {
		return nil, err
	}

	// logs go to stderr so stdout stays parseable
	log := logger.NewWithWriter(os.Stderr, cfg.LogLevel)

	l, err := loader.New(cfg.Catalog.SourceURL, loader.Options{
		Timeout:         cfg.Catalog.LoadTimeoutDuration(),
		MaxPayloadBytes: cfg.Catalog.MaxPayloadBytes,
		Logger:          log,
	})
	if err != nil {
		return nil, err
	}

	categories := make([]filter.Category, len(cfg.Catalog.Categories))
	for i, c := range cfg.Catalog.Categories {
		categories[i] = filter.Category(c)
	}

	return &runtime{
		cfg: cfg,
		engine: filter.NewEngine(
			filter.WithCategories(categories...),
			filter.WithDataCategories(cfg.Catalog.CategoriesFromData),
		),
		loader: l,
		log:    log,
	}, nil
}

// load runs the one-shot catalog load, failing with the load error
func (rt *runtime) load(ctx context.Context) (session.Session, error) {
	s := session.Load(ctx, rt.loader, rt.engine, "foodctl")
	if s.Status == session.StatusFailed {
		return s, fmt.Errorf("failed to load catalog: %w", s.LoadErr)
	}
	rt.log.Debug("catalog loaded", "source", s.Dataset.Source(), "items", s.Dataset.Len())
	return s, nil
}
