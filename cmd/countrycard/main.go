package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"countrycard/internal/app"
	"countrycard/internal/card"
	"countrycard/internal/config"
	"countrycard/internal/country"
	"countrycard/internal/kv"
	"countrycard/internal/logging"
	"countrycard/internal/recent"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath  string
	verbose     bool
	storageFlag string
	timeout     time.Duration

	logger *zap.Logger
	cfg    *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "countrycard [country name]",
	Short: "Look up a country and show it as an information card",
	Long: `countrycard fetches a country from the REST Countries API and prints
its capital, population, area, currencies, languages, timezones,
neighbours and more as a card. The last five countries you looked up are
remembered between runs.

Run without arguments to start the interactive prompt.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig()
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.Logging.Level, verbose)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return runInteractive(cmd, args)
		}
		return runLookup(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: <user config dir>/countrycard/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&storageFlag, "storage", "", "recent searches backend: file, sqlite, redis, memory")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "overall timeout for one lookup")

	rootCmd.AddCommand(lookupCmd, recentCmd, exportCmd, interactiveCmd, configCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	c, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if storageFlag != "" {
		c.Storage.Backend = storageFlag
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return c, nil
}

// environment is everything a command needs, built from config.
type environment struct {
	service  *app.Service
	renderer *card.Renderer
	closer   io.Closer
}

func newEnvironment() (*environment, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	backend, closer, err := kv.Open(cfg.KVOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err)
	}

	client := country.NewClient(country.ClientOptions{
		BaseURL:       cfg.API.BaseURL,
		Timeout:       cfg.GetAPITimeout(),
		UserAgent:     cfg.API.UserAgent,
		RatePerSecond: cfg.API.RatePerSecond,
		MaxRetries:    cfg.API.MaxRetries,
	}, logger.Named("api"))

	store := recent.NewStore(backend, cfg.Storage.Key, logger.Named("recent"))

	fields := []zap.Field{
		zap.String("api", cfg.API.BaseURL),
		zap.String("storage", cfg.Storage.Backend),
	}
	if p, ok := backend.(kv.Pather); ok {
		fields = append(fields, zap.String("path", p.Path()))
	}
	logger.Debug("environment ready", fields...)

	return &environment{
		service:  app.NewService(client, store, logger),
		renderer: card.NewRenderer(cfg.Display.Width),
		closer:   closer,
	}, nil
}

func (e *environment) Close() {
	if err := e.closer.Close(); err != nil {
		logger.Warn("failed to close storage", zap.Error(err))
	}
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	baseCtx := cmd.Context()
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	return context.WithTimeout(baseCtx, timeout)
}
