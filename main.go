package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bgreer104/skuchecker/config"
	"bgreer104/skuchecker/helpers"
	"bgreer104/skuchecker/internal/checker"
	"bgreer104/skuchecker/internal/fetch"
	"bgreer104/skuchecker/internal/metrics"
	"bgreer104/skuchecker/logger"
	"bgreer104/skuchecker/services/cache"
	"bgreer104/skuchecker/services/publisher"
	"bgreer104/skuchecker/services/report"
	"bgreer104/skuchecker/services/worker"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	for _, site := range cfg.Sites {
		if _, err := checker.Lookup(site); err != nil {
			log.Fatal().Err(err).Msg("Invalid site configuration")
		}
	}

	log.Info().
		Str("environment", cfg.Environment).
		Strs("sites", cfg.Sites).
		Int("max_candidates", cfg.MaxCandidates).
		Int("concurrency", cfg.Concurrency).
		Msg("Starting SKU checker")

	// Cooperative cancellation between identifiers
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize services
	services := initializeServices(ctx, &cfg)
	defer services.Cleanup()

	// Load identifiers
	identifiers, err := helpers.LoadIdentifiers(cfg.InputFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.InputFile).Msg("Failed to load identifiers")
	}
	if len(identifiers) == 0 {
		log.Fatal().Str("file", cfg.InputFile).Msg("No identifiers found in input file")
	}
	log.Info().Int("identifiers", len(identifiers)).Msg("Loaded identifiers")

	provider := checker.NewProviderClient(cfg.ProviderEndpoint, cfg.ProviderAPIKey, cfg.ProviderSites, cfg.HTTPTimeout)
	if provider != nil {
		log.Info().Strs("sites", cfg.ProviderSites).Msg("Provider mode enabled")
	}

	// Each worker builds its own checker so transport state is never
	// shared between goroutines.
	newChecker := func() worker.Checker {
		fetcher := fetch.NewHTTPClient(fetch.Options{
			Timeout:   cfg.HTTPTimeout,
			Attempts:  cfg.RetryAttempts,
			Backoff:   cfg.RetryBackoff,
			BlockTime: cfg.BlockTime,
			Blocks:    services.Cache,
			Metrics:   services.Metrics,
		})
		return checker.NewChecker(fetcher, cfg.MaxCandidates, provider, services.Metrics)
	}

	w := worker.NewWorker(ctx, newChecker, cfg.Sites, cfg.Concurrency, services.Publisher)
	results := w.Run(identifiers)

	log.Info().Int("results", len(results)).Msg("Batch finished")

	report.RenderTable(os.Stdout, results)
	if err := writeOutputs(&cfg, results); err != nil {
		log.Fatal().Err(err).Msg("Failed to write outputs")
	}
}

// Services holds all the initialized services
type Services struct {
	Cache     cache.CacheService
	Publisher publisher.Publisher
	Metrics   *metrics.Metrics
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
	}
}

// initializeServices initializes all required services
func initializeServices(ctx context.Context, cfg *config.Config) *Services {
	services := &Services{
		Metrics: metrics.New(),
	}

	if cfg.MemcacheAddr != "" {
		services.Cache = cache.NewMemcacheService(cfg.MemcacheAddr)
		logger.Info("Using memcache at %s for rate-limit blocks", cfg.MemcacheAddr)
	} else {
		services.Cache = cache.NewMemoryService()
	}

	if cfg.RedisAddr != "" {
		services.Publisher = publisher.NewRedisPublisher(
			ctx,
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamMaxLen,
		)
		logger.Info("Publishing results to Redis at %s (stream: %s)", cfg.RedisAddr, cfg.RedisStream)
	}

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(services.Metrics.Registry, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				logger.Error("Metrics listener failed: %v", err)
			}
		}()
		logger.Info("Serving metrics on %s", cfg.MetricsAddr)
	}

	return services
}

// writeOutputs exports results in the configured format(s)
func writeOutputs(cfg *config.Config, results []checker.CheckResult) error {
	if cfg.OutputFormat == "csv" || cfg.OutputFormat == "dual" {
		cw, err := report.NewCSVWriter(cfg.OutputFile)
		if err != nil {
			return err
		}
		if err := cw.Write(results); err != nil {
			cw.Close()
			return err
		}
		if err := cw.Close(); err != nil {
			return err
		}
		logger.Info("Wrote %d results to %s", len(results), cfg.OutputFile)
	}

	if cfg.OutputFormat == "jsonl" || cfg.OutputFormat == "dual" {
		path := cfg.OutputFile
		if cfg.OutputFormat == "dual" {
			path = path + ".jsonl"
		}
		jw, err := report.NewJSONWriter(path)
		if err != nil {
			return err
		}
		if err := jw.Write(results); err != nil {
			jw.Close()
			return err
		}
		if err := jw.Close(); err != nil {
			return err
		}
		logger.Info("Wrote %d results to %s", len(results), path)
	}

	return nil
}
