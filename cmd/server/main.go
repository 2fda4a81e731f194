// Package main provides the API server binary.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/nba-edge/internal/analyzer"
	"github.com/yourusername/nba-edge/internal/cache"
	"github.com/yourusername/nba-edge/internal/config"
	"github.com/yourusername/nba-edge/internal/health"
	"github.com/yourusername/nba-edge/internal/logger"
	"github.com/yourusername/nba-edge/internal/predictor"
	"github.com/yourusername/nba-edge/internal/scheduler"
	"github.com/yourusername/nba-edge/internal/server"
	"github.com/yourusername/nba-edge/internal/statsapi"
	"github.com/yourusername/nba-edge/internal/storage"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string

	cfg *config.Config
	log *logrus.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config/config.yaml", "Path to configuration file")
}

var rootCmd = &cobra.Command{
	Use:     "server",
	Short:   "Run the matchup analysis API server",
	Long:    `Serves the analysis API, a websocket feed of completed analyses, health probes and Prometheus metrics.`,
	Version: fmt.Sprintf("%s (%s)", Version, GitCommit),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadWithDefaults(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if !cmd.Flags().Changed("config") {
			if err := config.ReloadFromEnv(cfg); err != nil {
				return fmt.Errorf("failed to load configuration from environment: %w", err)
			}
		}
		if err := config.LoadSecretsFromAWS(cmd.Context(), cfg); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		log = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	provider, client, err := buildProvider()
	if err != nil {
		return err
	}

	p := predictor.New(provider, coefficientsFromConfig(cfg), log)
	a := analyzer.New(p, cfg.Betting.EdgeThreshold, log)

	checker := health.NewChecker(cfg.App.Name, Version, GitCommit)
	checker.AddCheck("provider", provider)

	var history storage.AnalysisRepository
	if cfg.Storage.Enabled {
		db, err := storage.NewDB(ctx, &cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to history store: %w", err)
		}
		defer db.Close()

		if err := storage.EnsureSchema(ctx, db); err != nil {
			return err
		}
		history = storage.NewPostgresAnalysisRepository(db)
		checker.AddCheck("history", db)
	}

	if cfg.Scheduler.Enabled {
		sched := scheduler.New(provider, log)
		if err := sched.ScheduleRefresh(cfg.Scheduler.RefreshSpec, cfg.Scheduler.Teams, cfg.Provider.RecentGames); err != nil {
			return err
		}
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()
	}

	srv := server.New(server.Deps{
		Config:        cfg,
		Analyzer:      a,
		Predictor:     p,
		History:       history,
		Checker:       checker,
		RegistryNames: client.Registry().Names,
		Logger:        log,
	})

	return srv.Start(ctx)
}

func buildProvider() (*statsapi.CachedProvider, *statsapi.Client, error) {
	httpCfg := statsapi.DefaultHTTPClientConfig()
	httpCfg.Timeout = cfg.ProviderTimeout()
	httpCfg.MaxRetries = cfg.Provider.RetryAttempts
	httpCfg.RateLimit = cfg.Provider.RateLimitPerSecond
	httpCfg.RateLimitBurst = cfg.Provider.RateLimitBurst
	httpCfg.CircuitBreakerEnabled = cfg.Provider.CircuitBreakerEnabled

	httpClient := statsapi.NewRateLimitedHTTPClient(httpCfg, log)
	client := statsapi.NewClient(httpClient, cfg.Provider.BaseURL, cfg.Provider.APIKey, cfg.Provider.Season, log)

	c, err := buildCache()
	if err != nil {
		return nil, nil, err
	}

	return statsapi.NewCachedProvider(client, c, cfg.CacheTTL(), log), client, nil
}

func buildCache() (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Redis.Address,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		return cache.NewRedisCache(client, "nba-edge:", cfg.CacheTTL()), nil
	case "memory":
		return cache.NewMemoryCache(cfg.CacheTTL(), cfg.Cache.MaxSize), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

func coefficientsFromConfig(cfg *config.Config) predictor.Coefficients {
	return predictor.Coefficients{
		NetRatingScale:     cfg.Model.NetRatingScale,
		HomeCourtBonus:     cfg.Model.HomeCourtBonus,
		ProbabilityFloor:   cfg.Model.ProbabilityFloor,
		ProbabilityCeiling: cfg.Model.ProbabilityCeiling,
		RecentGames:        cfg.Provider.RecentGames,
	}
}
