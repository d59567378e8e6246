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
	Enverus  EnverusConfig  `yaml:"enverus" mapstructure:"enverus"`
	Geocode  GeocodeConfig  `yaml:"geocode" mapstructure:"geocode"`
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// EnverusConfig holds DirectAccess API credentials and query scope.
type EnverusConfig struct {
	APIKey       string `yaml:"api_key" mapstructure:"api_key"`
	ClientID     string `yaml:"client_id" mapstructure:"client_id"`
	ClientSecret string `yaml:"client_secret" mapstructure:"client_secret"`
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	County       string `yaml:"county" mapstructure:"county"`
	PageSize     int    `yaml:"page_size" mapstructure:"page_size"`
}

// GeocodeConfig configures the geocoding cascade.
type GeocodeConfig struct {
	CensusBaseURL    string `yaml:"census_base_url" mapstructure:"census_base_url"`
	NominatimEnabled bool   `yaml:"nominatim_enabled" mapstructure:"nominatim_enabled"`
}

// CacheConfig configures the local well-fetch cache.
type CacheConfig struct {
	Path     string `yaml:"path" mapstructure:"path"`
	TTLHours int    `yaml:"ttl_hours" mapstructure:"ttl_hours"`
}

// AnalysisConfig holds proximity analysis defaults.
type AnalysisConfig struct {
	RadiusDegrees float64 `yaml:"radius_degrees" mapstructure:"radius_degrees"`
	TopN          int     `yaml:"top_n" mapstructure:"top_n"`
	AliasesPath   string  `yaml:"aliases_path" mapstructure:"aliases_path"`
}

// ServerConfig configures the HTTP API server.
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
	v.SetEnvPrefix("WELLPROX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("enverus.county", "OKLAHOMA")
	v.SetDefault("enverus.page_size", 10000)
	v.SetDefault("geocode.nominatim_enabled", true)
	v.SetDefault("cache.path", "wellprox_cache.db")
	v.SetDefault("cache.ttl_hours", 24)
	v.SetDefault("analysis.radius_degrees", 0.05)
	v.SetDefault("analysis.top_n", 100)

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

// Validate checks that the configuration is complete for the given mode.
// Modes: "analyze" (local analysis, remote fetch optional), "fetch" (requires
// Enverus credentials), "serve" (requires a listen port).
func (c *Config) Validate(mode string) error {
	var problems []string

	if c.Analysis.RadiusDegrees <= 0 {
		problems = append(problems, "analysis.radius_degrees must be > 0")
	}
	if c.Analysis.TopN < 0 {
		problems = append(problems, "analysis.top_n must be >= 0")
	}
	if c.Cache.TTLHours < 0 {
		problems = append(problems, "cache.ttl_hours must be >= 0")
	}

	switch mode {
	case "analyze":
		// Credentials are only needed when no local well file is given;
		// the command checks that at call time.
	case "fetch":
		if c.Enverus.ClientID == "" {
			problems = append(problems, "enverus.client_id is required")
		}
		if c.Enverus.ClientSecret == "" {
			problems = append(problems, "enverus.client_secret is required")
		}
		if c.Enverus.PageSize <= 0 {
			problems = append(problems, "enverus.page_size must be > 0")
		}
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
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
