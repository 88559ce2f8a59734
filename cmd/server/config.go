package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Default configuration
const (
	DefaultPort           = 8080
	DefaultReadTimeout    = 30 * time.Second
	DefaultWriteTimeout   = 30 * time.Second
	DefaultMaxRequestSize = 1024 * 1024 // 1MB
	DefaultConcurrency    = 0           // 0 means fasthttp's default
	DefaultMaxTextLength  = 20000       // code points per text
	DefaultCacheSize      = 4096
	DefaultThreshold      = 0.35
	DefaultPrecision      = 3
)

// Config holds the server settings resolved from flags, environment
// (EDITSIM_ prefix) and an optional config file.
type Config struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read-timeout"`
	WriteTimeout   time.Duration `mapstructure:"write-timeout"`
	MaxRequestSize int           `mapstructure:"max-request-size"`
	Concurrency    int           `mapstructure:"concurrency"`
	MaxTextLength  int           `mapstructure:"max-text-length"`
	WarmUp         bool          `mapstructure:"warm-up"`
	LogFile        string        `mapstructure:"log-file"`
	Threshold      float64       `mapstructure:"threshold"`
	Precision      int           `mapstructure:"precision"`
	Normalizer     string        `mapstructure:"normalizer"`
	CacheSize      int           `mapstructure:"cache-size"`
}

func registerFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "Config file (yaml, json or toml)")
	flags.Int("port", DefaultPort, "HTTP server port")
	flags.Duration("read-timeout", DefaultReadTimeout, "HTTP read timeout")
	flags.Duration("write-timeout", DefaultWriteTimeout, "HTTP write timeout")
	flags.Int("max-request-size", DefaultMaxRequestSize, "Maximum request size in bytes")
	flags.Int("concurrency", DefaultConcurrency, "Maximum number of concurrent connections (0 = fasthttp default)")
	flags.Int("max-text-length", DefaultMaxTextLength, "Maximum code points accepted per text")
	flags.Bool("warm-up", true, "Warm up the scorer on startup")
	flags.String("log-file", "", "Log file path (empty = stdout)")
	flags.Float64("threshold", DefaultThreshold, "Edit ratio at or above which a revision is flagged")
	flags.Int("precision", DefaultPrecision, "Decimals kept in reported ratios")
	flags.String("normalizer", "none", "Text normalization: none, nfc or nfkc")
	flags.Int("cache-size", DefaultCacheSize, "Number of (base, revised) pairs to memoize (0 = off)")
}

// loadConfig merges flags, EDITSIM_* environment variables and the config file.
func loadConfig(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("EDITSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return Config{}, fmt.Errorf("bind flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that the scorer does not validate itself.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.MaxTextLength <= 0 {
		return fmt.Errorf("max-text-length must be positive")
	}
	if c.MaxRequestSize <= 0 {
		return fmt.Errorf("max-request-size must be positive")
	}
	return nil
}
