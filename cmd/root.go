package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gkotua/jobradar/internal/ai"
	"github.com/gkotua/jobradar/internal/ai/gemini"
	"github.com/gkotua/jobradar/internal/extract"
	"github.com/gkotua/jobradar/internal/match"
	"github.com/gkotua/jobradar/internal/rank"
	"github.com/gkotua/jobradar/internal/scrape"
	"github.com/gkotua/jobradar/internal/search"
	"github.com/gkotua/jobradar/internal/secrets"
	"github.com/gkotua/jobradar/internal/store"
	"github.com/gkotua/jobradar/internal/taxonomy"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	app = "jobradar"
)

type Config struct {
	TaxonomyFile string         `mapstructure:"taxonomy-file"`
	Sources      *SourcesConfig `mapstructure:"sources"`
	Store        *StoreConfig   `mapstructure:"store"`
	Search       *SearchConfig  `mapstructure:"search"`
	Server       *ServerConfig  `mapstructure:"server"`
	AI           *AIConfig      `mapstructure:"ai"`
}

type SourcesConfig struct {
	HRGE     bool `mapstructure:"hrge"`
	LinkedIn bool `mapstructure:"linkedin"`
}

type StoreConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type SearchConfig struct {
	LimitPerSource int `mapstructure:"limit-per-source"`
}

type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobradar is a cli for extracting job requirements from plain messages and matching scraped postings against them",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobradar.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)

		// We can't proceed if the requested config file parsed with error.
		if err := viper.ReadInConfig(); err != nil {
			log.Fatal(err)
		}
		return
	}

	viper.AddConfigPath(".")
	viper.SetConfigName(app + ".yaml")

	// The built-in defaults are a complete configuration, so a missing
	// config file is fine.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatal(err)
		}
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

	return config, nil
}

// buildService assembles the full pipeline from the config. The returned
// store is nil when persistence is disabled; the caller owns closing it.
func buildService(ctx context.Context, config *Config, logger *zap.Logger) (*search.Service, *store.Store, error) {
	tax, err := loadTaxonomy(config)
	if err != nil {
		return nil, nil, fmt.Errorf("loading taxonomy: %w", err)
	}

	ranker := rank.New(match.NewScorer(tax), logger)
	scraper := scrape.New(logger, buildSources(config, logger)...)

	opts := search.Options{}

	if config.Search != nil {
		opts.LimitPerSource = config.Search.LimitPerSource
	}

	if config.Store != nil && config.Store.Enabled {
		path := config.Store.Path
		if path == "" {
			path = app + ".db"
		}

		st, err := store.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening store: %w", err)
		}
		opts.Store = st
	}

	if config.AI != nil && config.AI.Enabled {
		llm, err := newAIExtractor(ctx, config.AI, logger)
		if err != nil {
			logger.Warn("skipping llm extraction", zap.Error(err))
		} else {
			opts.LLM = llm
		}
	}

	return search.NewService(extract.New(tax), scraper, ranker, logger, opts), opts.Store, nil
}

func loadTaxonomy(config *Config) (*taxonomy.Taxonomy, error) {
	if config.TaxonomyFile != "" {
		return taxonomy.LoadFile(config.TaxonomyFile)
	}
	return taxonomy.Default(), nil
}

// buildSources returns the enabled scraping sources. With no sources section
// every source is on.
func buildSources(config *Config, logger *zap.Logger) []scrape.Source {
	if config.Sources == nil {
		return []scrape.Source{scrape.NewHRGE(logger), scrape.NewLinkedIn(logger)}
	}

	sources := make([]scrape.Source, 0, 2)
	if config.Sources.HRGE {
		sources = append(sources, scrape.NewHRGE(logger))
	}
	if config.Sources.LinkedIn {
		sources = append(sources, scrape.NewLinkedIn(logger))
	}
	return sources
}

func newAIExtractor(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Extractor, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		cfg.Gemini = &GeminiConfig{}
	}

	apiKeyFile := cfg.Gemini.APIKeyFile
	if apiKeyFile == "" {
		apiKeyFile = viper.GetString("ai.gemini.api-key-file")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: apiKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	extractorLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", generator.Model()),
	)

	return gemini.NewExtractor(generator, extractorLogger, cfg.Gemini.MaxLogLength), nil
}
