// Package main provides the single-matchup analysis CLI.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/nba-edge/internal/analyzer"
	"github.com/yourusername/nba-edge/internal/cache"
	"github.com/yourusername/nba-edge/internal/config"
	"github.com/yourusername/nba-edge/internal/export"
	"github.com/yourusername/nba-edge/internal/logger"
	"github.com/yourusername/nba-edge/internal/models"
	"github.com/yourusername/nba-edge/internal/predictor"
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
	homeTeam   string
	awayTeam   string
	homeOdds   float64
	awayOdds   float64
	betSide    string
	bankroll   float64
	kellyFrac  float64
	outputJSON string
	outputCSV  string
	includeRaw bool
	saveRun    bool

	cfg *config.Config
	log *logrus.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVar(&homeTeam, "home", "", "Home team name (required)")
	rootCmd.Flags().StringVar(&awayTeam, "away", "", "Away team name (required)")
	rootCmd.Flags().Float64Var(&homeOdds, "home-odds", 0, "Decimal odds on the home side")
	rootCmd.Flags().Float64Var(&awayOdds, "away-odds", 0, "Decimal odds on the away side")
	rootCmd.Flags().StringVar(&betSide, "bet-side", "none", "Side to size a stake for: home, away or none")
	rootCmd.Flags().Float64Var(&bankroll, "bankroll", 0, "Bankroll for stake sizing (defaults from config)")
	rootCmd.Flags().Float64Var(&kellyFrac, "kelly-fraction", 0, "Fraction of full Kelly to stake (defaults from config)")
	rootCmd.Flags().StringVar(&outputJSON, "output-json", "", "Write the report to this JSON file")
	rootCmd.Flags().StringVar(&outputCSV, "output-csv", "", "Write the report as a single-row CSV file")
	rootCmd.Flags().BoolVar(&includeRaw, "include-raw", false, "Include raw feature data in the report")
	rootCmd.Flags().BoolVar(&saveRun, "save", false, "Persist the report to the history store")

	rootCmd.MarkFlagRequired("home")
	rootCmd.MarkFlagRequired("away")
}

var rootCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze one NBA matchup against a moneyline market",
	Long: `Analyze combines a model win probability with quoted decimal odds:
implied and vig-free fair probabilities, the model's edge over both,
and an optional fractional-Kelly stake suggestion.`,
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
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	provider, err := buildProvider()
	if err != nil {
		return err
	}

	p := predictor.New(provider, coefficientsFromConfig(cfg), log)
	a := analyzer.New(p, cfg.Betting.EdgeThreshold, log)

	if bankroll <= 0 && betSide != string(models.BetSideNone) {
		bankroll = cfg.Betting.DefaultBankroll
	}
	if kellyFrac <= 0 {
		kellyFrac = cfg.Betting.KellyMultiplier
	}

	start := time.Now()
	// Always request the raw analysis so the fallback flag is observable;
	// it is stripped again below unless --include-raw asked for it.
	report, err := a.Run(ctx, analyzer.Request{
		HomeTeam:        homeTeam,
		AwayTeam:        awayTeam,
		Odds:            models.MarketOdds{HomeDecimalOdds: homeOdds, AwayDecimalOdds: awayOdds},
		BetSide:         models.BetSide(betSide),
		Bankroll:        bankroll,
		KellyMultiplier: kellyFrac,
		IncludeRaw:      true,
	})
	if err != nil {
		return err
	}
	durationMs := float64(time.Since(start).Microseconds()) / 1000.0

	fallback := report.RawAnalysis != nil && report.RawAnalysis.Prediction.IsFallback()
	if !includeRaw {
		report.RawAnalysis = nil
	}

	analysisLog := logger.NewAnalysisLogger(log)
	analysisLog.LogAnalysisRun(report.Home, report.Away, report.Model.HomeProb, report.Model.AwayProb, fallback, durationMs)
	if report.Kelly != nil {
		analysisLog.LogKellySizing(report.Home, report.Away, string(report.Kelly.BetSide),
			report.Kelly.FullKellyFraction, report.Kelly.FractionUsed,
			report.Kelly.SuggestedStake, report.Kelly.Bankroll)
	}

	if err := writeOutputs(ctx, report); err != nil {
		return err
	}

	return printReport(report)
}

func buildProvider() (statsapi.Provider, error) {
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
		return nil, err
	}

	return statsapi.NewCachedProvider(client, c, cfg.CacheTTL(), log), nil
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

func writeOutputs(ctx context.Context, report *models.Report) error {
	if outputJSON != "" {
		if err := export.WriteJSON(outputJSON, report); err != nil {
			return err
		}
		logger.NewAnalysisLogger(log).LogExport("json", outputJSON, 1)
	}
	if outputCSV != "" {
		if err := export.WriteCSV(outputCSV, []*models.Report{report}); err != nil {
			return err
		}
		logger.NewAnalysisLogger(log).LogExport("csv", outputCSV, 1)
	}

	if saveRun {
		if !cfg.Storage.Enabled {
			return fmt.Errorf("--save requires storage to be enabled in configuration")
		}
		db, err := storage.NewDB(ctx, &cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to history store: %w", err)
		}
		defer db.Close()

		if err := storage.EnsureSchema(ctx, db); err != nil {
			return err
		}
		record, err := storage.NewPostgresAnalysisRepository(db).Save(ctx, report)
		if err != nil {
			return err
		}
		log.WithField("analysis_id", record.ID).Info("Analysis saved")
	}

	return nil
}

func printReport(report *models.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
