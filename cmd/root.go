package cmd

import (
	"errors"
	"io/fs"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/nawasena/internal/scoring"
)

const (
	app = "nawasena"
)

type Config struct {
	Server      *ServerConfig     `mapstructure:"server"`
	Data        *DataConfig       `mapstructure:"data"`
	ExcludeFile string            `mapstructure:"exclude-file"`
	Candidates  *CandidatesConfig `mapstructure:"candidates"`
	Scoring     *ScoringConfig    `mapstructure:"scoring"`
	AI          *AIConfig         `mapstructure:"ai"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type DataConfig struct {
	Employees string `mapstructure:"employees"`
	Jobs      string `mapstructure:"jobs"`
}

type CandidatesConfig struct {
	SkipFilters []string `mapstructure:"skip-filters"`
	Exclude     *struct {
		Departments []string `mapstructure:"departments"`
	} `mapstructure:"exclude"`
}

type ScoringConfig struct {
	Method       string           `mapstructure:"method"`
	TopK         int              `mapstructure:"top-k"`
	MinimumScore float64          `mapstructure:"minimum-score"`
	Weights      *scoring.Weights `mapstructure:"weights"`
}

type AIConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	Provider          string        `mapstructure:"provider"`
	Concurrency       int           `mapstructure:"concurrency"`
	RequestsPerSecond float64       `mapstructure:"requests-per-second"`
	Burst             int           `mapstructure:"burst"`
	CacheSize         int           `mapstructure:"cache-size"`
	Gemini            *GeminiConfig `mapstructure:"gemini"`
	OpenAI            *OpenAIConfig `mapstructure:"openai"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type OpenAIConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "nawasena matches civil servants to open positions and explains the match with an LLM",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	for key, env := range map[string]string{
		"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
		"ai.openai.api-key-file": "OPENAI_API_KEY_FILE",
		"server.addr":            "NAWASENA_ADDR",
	} {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	setDefaults()
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is nawasena.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().Bool("no-ai", false, "answer from local scores only")
	rootCmd.PersistentFlags().StringP("exclude-file", "e", "", "special file with employees to exclude. Default is unset.")
	rootCmd.PersistentFlags().StringSlice("skip-filter", nil, "candidate pool steps to skip: exclude_file, departments, minimum_score")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("no-ai", rootCmd.PersistentFlags().Lookup("no-ai"))
	viper.BindPFlag("exclude-file", rootCmd.PersistentFlags().Lookup("exclude-file"))
	viper.BindPFlag("candidates.skip-filters", rootCmd.PersistentFlags().Lookup("skip-filter"))
}

func setDefaults() {
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("scoring.method", string(scoring.MethodCosine))
	viper.SetDefault("scoring.top-k", 5)
	viper.SetDefault("ai.enabled", true)
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.concurrency", 4)
	viper.SetDefault("ai.burst", 1)
	viper.SetDefault("ai.cache-size", 256)
	viper.SetDefault("ai.gemini.max-retries", 3)
	viper.SetDefault("ai.gemini.max-log-length", 200)
	viper.SetDefault("ai.openai.max-retries", 3)
}

func initConfig() {
	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// The default config file is optional, an explicit one is not.
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}
	if config == nil {
		config = &Config{}
	}
	if config.Server == nil {
		config.Server = &ServerConfig{}
	}
	if config.Data == nil {
		config.Data = &DataConfig{}
	}
	if config.Scoring == nil {
		config.Scoring = &ScoringConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}

	return config, nil
}
