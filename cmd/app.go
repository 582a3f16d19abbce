package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/nawasena/internal/ai"
	"github.com/spigell/nawasena/internal/ai/advisor"
	"github.com/spigell/nawasena/internal/ai/gemini"
	"github.com/spigell/nawasena/internal/ai/openai"
	"github.com/spigell/nawasena/internal/filtering"
	"github.com/spigell/nawasena/internal/logger"
	"github.com/spigell/nawasena/internal/matching"
	"github.com/spigell/nawasena/internal/observability"
	"github.com/spigell/nawasena/internal/roster"
	"github.com/spigell/nawasena/internal/scoring"
	"github.com/spigell/nawasena/internal/secrets"
)

const (
	providerGemini = "gemini"
	providerOpenAI = "openai"
)

// runtime bundles what every command needs.
type runtime struct {
	config  *Config
	logger  *zap.Logger
	stats   *observability.Stats
	service *matching.Service
}

// setup builds the logger, loads the config and wires the matching service.
func setup(ctx context.Context) *runtime {
	logger, config := setupLight()

	stats := observability.NewStats()
	service, err := newService(ctx, config, stats, logger)
	if err != nil {
		logger.Fatal("building the matching service", zap.Error(err))
	}

	return &runtime{config: config, logger: logger, stats: stats, service: service}
}

// setupLight builds the logger and loads the config only.
func setupLight() (*zap.Logger, *Config) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	return logger, config
}

func newService(ctx context.Context, config *Config, stats *observability.Stats, logger *zap.Logger) (*matching.Service, error) {
	r, err := roster.Load(config.Data.Employees, config.Data.Jobs)
	if err != nil {
		return nil, err
	}
	logger.Info("roster loaded",
		zap.Int("employees", len(r.Employees())),
		zap.Int("jobs", len(r.Jobs())),
	)

	weights := scoring.DefaultWeights()
	if config.Scoring.Weights != nil {
		if err := config.Scoring.Weights.Validate(); err != nil {
			return nil, fmt.Errorf("scoring.weights: %w", err)
		}
		weights = *config.Scoring.Weights
	}

	method, err := scoring.ParseMethod(config.Scoring.Method)
	if err != nil {
		return nil, fmt.Errorf("scoring.method: %w", err)
	}

	var adv ai.Advisor
	if config.AI.Enabled && !viper.GetBool("no-ai") {
		built, err := newAdvisor(ctx, config.AI, logger)
		if err != nil {
			logger.Warn("ai is disabled, falling back to local scores", zap.Error(err))
		} else {
			adv = built
		}
	}

	filters := &filtering.Config{
		ExcludeFile:  config.ExcludeFile,
		MinimumScore: config.Scoring.MinimumScore,
	}
	var skip []string
	if config.Candidates != nil {
		skip = config.Candidates.SkipFilters
		if config.Candidates.Exclude != nil {
			filters.Departments = config.Candidates.Exclude.Departments
		}
	}

	return matching.New(r, scoring.NewScorer(r, weights), adv, matching.Options{
		TopK:          config.Scoring.TopK,
		Concurrency:   config.AI.Concurrency,
		DefaultMethod: method,
		Filters:       filters,
		SkipFilters:   skip,
		Stats:         stats,
		Logger:        logger,
	})
}

// newAdvisor stacks provider -> rate limit -> cache -> flows.
func newAdvisor(ctx context.Context, cfg *AIConfig, log *zap.Logger) (*advisor.Advisor, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider == "" {
		provider = providerGemini
	}

	var (
		generator    ai.Generator
		maxLogLength int
		err          error
	)

	switch provider {
	case providerGemini:
		generator, maxLogLength, err = newGeminiGenerator(ctx, cfg.Gemini, log)
	case providerOpenAI:
		generator, err = newOpenAIGenerator(cfg.OpenAI, log)
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	aiLogger := logger.WithCommonFields(log, provider, generator.Model())
	aiLogger.Info("ai enabled",
		zap.Int("concurrency", cfg.Concurrency),
		zap.Float64("requests_per_second", cfg.RequestsPerSecond),
		zap.Int("cache_size", cfg.CacheSize),
	)

	generator = ai.NewThrottledGenerator(generator, cfg.RequestsPerSecond, cfg.Burst)
	generator = ai.NewCachedGenerator(generator, cfg.CacheSize, aiLogger)

	return advisor.New(generator, aiLogger, maxLogLength)
}

func newGeminiGenerator(ctx context.Context, cfg *GeminiConfig, log *zap.Logger) (ai.Generator, int, error) {
	if cfg == nil {
		cfg = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, 0, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	genLogger := logger.WithCommonFields(log, providerGemini, cfg.Model).With(
		zap.Int("ai_retry_attempts", cfg.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Model, cfg.MaxRetries, genLogger)
	if err != nil {
		return nil, 0, err
	}
	return generator, cfg.MaxLogLength, nil
}

func newOpenAIGenerator(cfg *OpenAIConfig, log *zap.Logger) (ai.Generator, error) {
	if cfg == nil {
		cfg = &OpenAIConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "openai api key",
		File: cfg.APIKeyFile,
		Env:  "OPENAI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.openai.api-key-file or OPENAI_API_KEY_FILE)", err)
	}

	genLogger := logger.WithCommonFields(log, providerOpenAI, cfg.Model).With(
		zap.Int("ai_retry_attempts", cfg.MaxRetries),
	)

	generator, err := openai.NewGenerator(apiKey, cfg.Model, cfg.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}
	return generator, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
