// Package config loads the service configuration from defaults, an optional
// config.yaml and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv   string `mapstructure:"app_env" validate:"oneof=development production test"`
	LogLevel string `mapstructure:"log_level"`

	DBPath   string `mapstructure:"db_path" validate:"required"`
	DBDriver string `mapstructure:"db_driver" validate:"required"`

	// An empty RedisAddr disables the aggregate cache.
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db" validate:"min=0"`

	GRPCPort              int  `mapstructure:"grpc_port" validate:"min=1,max=65535"`
	GRPCReflectionEnabled bool `mapstructure:"grpc_reflection_enabled"`
	HTTPPort              int  `mapstructure:"http_port" validate:"min=1,max=65535"`

	// DataDir holds the survey spreadsheets and the questionnaire exports.
	DataDir   string `mapstructure:"data_dir" validate:"required"`
	AssetsDir string `mapstructure:"assets_dir"`

	CacheTTL          time.Duration `mapstructure:"cache_ttl" validate:"gt=0"`
	DatasetTTL        time.Duration `mapstructure:"dataset_ttl" validate:"gt=0"`
	ChartTimeout      time.Duration `mapstructure:"chart_timeout" validate:"gt=0"`
	ReportConcurrency int           `mapstructure:"report_concurrency" validate:"min=1,max=16"`
	SessionTTL        time.Duration `mapstructure:"session_ttl" validate:"gt=0"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "")
	v.SetDefault("db_path", "./data/avalia.db")
	v.SetDefault("db_driver", "sqlite3")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("grpc_port", 50051)
	v.SetDefault("grpc_reflection_enabled", false)
	v.SetDefault("http_port", 8080)
	v.SetDefault("data_dir", "./data")
	v.SetDefault("assets_dir", "./assets")
	v.SetDefault("cache_ttl", 10*time.Minute)
	v.SetDefault("dataset_ttl", 5*time.Minute)
	v.SetDefault("chart_timeout", 5*time.Second)
	v.SetDefault("report_concurrency", 2)
	v.SetDefault("session_ttl", 30*time.Minute)
	v.SetDefault("shutdown_timeout", 10*time.Second)
}

// Load reads the configuration. A config.yaml is looked up in the given
// directories (the working directory when none is given); a missing file is
// not an error. Each key can be overridden by its upper-case environment
// variable, e.g. GRPC_PORT.
func Load(dirs ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// NewLogger creates a new Zap logger based on the config.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	if cfg.AppEnv == "production" {
		zc = zap.NewProductionConfig()
	}
	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
		}
		zc.Level = level
	}
	return zc.Build()
}
