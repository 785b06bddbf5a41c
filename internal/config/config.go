package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Search    SearchConfig    `yaml:"search" mapstructure:"search"`
	Verifier  VerifierConfig  `yaml:"verifier" mapstructure:"verifier"`
	Discovery DiscoveryConfig `yaml:"discovery" mapstructure:"discovery"`
	Audit     AuditConfig     `yaml:"audit" mapstructure:"audit"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// SearchConfig holds AI search API settings.
type SearchConfig struct {
	Key         string  `yaml:"key" mapstructure:"key"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	Model       string  `yaml:"model" mapstructure:"model"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	MaxRetries  int     `yaml:"max_retries" mapstructure:"max_retries"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// VerifierConfig configures link liveness probing.
type VerifierConfig struct {
	TimeoutSecs int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// DiscoveryConfig tunes the citation discovery loop.
type DiscoveryConfig struct {
	MaxTiers           int `yaml:"max_tiers" mapstructure:"max_tiers"`
	UnderutilizedLimit int `yaml:"underutilized_limit" mapstructure:"underutilized_limit"`
}

// AuditConfig configures compliance scanning.
type AuditConfig struct {
	ProbeLinks   bool `yaml:"probe_links" mapstructure:"probe_links"`
	TopOffenders int  `yaml:"top_offenders" mapstructure:"top_offenders"`
}

// ServerConfig configures the webhook server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CITATIONS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("search.base_url", "https://api.perplexity.ai")
	v.SetDefault("search.model", "sonar-pro")
	v.SetDefault("search.rate_per_sec", 1.0)
	v.SetDefault("search.max_retries", 3)
	v.SetDefault("search.timeout_secs", 30)
	v.SetDefault("verifier.timeout_secs", 10)
	v.SetDefault("verifier.concurrency", 10)
	v.SetDefault("discovery.max_tiers", 0)
	v.SetDefault("discovery.underutilized_limit", 50)
	v.SetDefault("audit.probe_links", false)
	v.SetDefault("audit.top_offenders", 10)

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

	return &cfg, nil
}

// Validate checks that the configuration required for the given run mode is
// present and sane. Modes: "discover", "audit", "serve".
func (c *Config) Validate(mode string) error {
	var missing []string

	requireDB := func() {
		if c.Store.DatabaseURL == "" {
			missing = append(missing, "store.database_url is required")
		}
	}

	switch mode {
	case "discover":
		requireDB()
		if c.Search.Key == "" {
			missing = append(missing, "search.key is required")
		}
	case "audit":
		requireDB()
	case "serve":
		requireDB()
		if c.Search.Key == "" {
			missing = append(missing, "search.key is required")
		}
		if c.Server.Port <= 0 {
			missing = append(missing, "server.port must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Search.RatePerSec < 0 {
		missing = append(missing, "search.rate_per_sec must be >= 0")
	}
	if c.Verifier.Concurrency < 0 || c.Verifier.Concurrency > 100 {
		missing = append(missing, "verifier.concurrency must be between 0 and 100")
	}

	if len(missing) > 0 {
		return eris.New("config: " + strings.Join(missing, "; "))
	}
	return nil
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
