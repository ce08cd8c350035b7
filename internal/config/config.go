package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Instagram  InstagramConfig  `yaml:"instagram" mapstructure:"instagram"`
	Perplexity PerplexityConfig `yaml:"perplexity" mapstructure:"perplexity"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Enrich     EnrichConfig     `yaml:"enrich" mapstructure:"enrich"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// InstagramConfig holds the profile-scraper credentials. An empty token
// disables the social metrics adapter.
type InstagramConfig struct {
	Token   string `yaml:"token" mapstructure:"token"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// PerplexityConfig holds deep-research API settings. An empty key disables
// the research adapter.
type PerplexityConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// AnthropicConfig holds caption-analysis API settings. An empty key disables
// the caption analyzer.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// EnrichConfig configures orchestrator behavior.
type EnrichConfig struct {
	// MaxConcurrent bounds in-flight enrichments during batch runs.
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent" validate:"gte=1,lte=64"`
	// AdapterTimeoutSecs is the per-adapter-call timeout.
	AdapterTimeoutSecs int `yaml:"adapter_timeout_secs" mapstructure:"adapter_timeout_secs" validate:"gte=1"`
	// SocialPerSecond is the social-scrape rate limit across all workers.
	SocialPerSecond float64 `yaml:"social_per_second" mapstructure:"social_per_second" validate:"gt=0"`
	// ResearchPerSecond is the deep-research rate limit across all workers.
	ResearchPerSecond float64 `yaml:"research_per_second" mapstructure:"research_per_second" validate:"gt=0"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" mapstructure:"format" validate:"oneof=json console"`
}

// Load reads configuration from file and environment and validates it.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("perplexity.base_url", "https://api.perplexity.ai")
	v.SetDefault("perplexity.model", "sonar-pro")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("enrich.max_concurrent", 4)
	v.SetDefault("enrich.adapter_timeout_secs", 60)
	v.SetDefault("enrich.social_per_second", 1.0)
	v.SetDefault("enrich.research_per_second", 0.5)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: validate")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
