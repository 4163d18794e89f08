package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/leadsegment/internal/cache"
	"github.com/ajitpratap0/leadsegment/internal/config"
	"github.com/ajitpratap0/leadsegment/internal/segment"
)

var (
	cfg        *config.Config
	configPath string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	rootCmd := &cobra.Command{
		Use:          "leadsegment",
		Short:        "leadsegment: CRM lead segmentation for HubSpot contact exports",
		Long:         "Segments HubSpot contact exports by social engagement, geography and entry channel, and reports close rates and time-to-close per segment.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.LoadFile(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.leadsegment/config.yaml or ./config.yaml)")

	rootCmd.AddCommand(
		segmentCmd(),
		reportCmd(),
		validateCmd(),
		geoCmd(),
		serveCmd(),
		mcpCmd(),
	)

	rootCmd.SetContext(ctx)

	err := rootCmd.Execute()
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if cfg != nil {
		switch cfg.Logging.Level {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg != nil && cfg.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// newCache builds the configured result cache. The returned close function
// is always non-nil.
func newCache(ctx context.Context, logger *slog.Logger) (cache.Cache, func(), error) {
	noop := func() {}
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return cache.Nop{}, noop, nil
	case config.CacheRedis:
		rc, err := cache.DialRedis(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB, cfg.Cache.RedisPrefix)
		if err != nil {
			return nil, noop, err
		}
		logger.Debug("using redis cache", "addr", cfg.Cache.RedisAddr, "db", cfg.Cache.RedisDB)
		return rc, func() { _ = rc.Close() }, nil
	default:
		return cache.NewMemory(), noop, nil
	}
}

func newEngine(ctx context.Context, logger *slog.Logger) (*segment.Engine, func(), error) {
	c, closeFn, err := newCache(ctx, logger)
	if err != nil {
		return nil, closeFn, fmt.Errorf("connecting to cache: %w", err)
	}
	return segment.NewEngine(logger, c, cfg.Cache.TTL()), closeFn, nil
}
