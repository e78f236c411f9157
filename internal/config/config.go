package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	Engine EngineConfig
	CORS   CORSConfig
	Log    LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// EngineConfig holds the compliance engine's statutory knobs.
type EngineConfig struct {
	// B2CLThreshold is the invoice value above which an unregistered
	// inter-state supply is reported invoice-wise.
	B2CLThreshold decimal.Decimal
	// ReconTolerance is the per-amount tolerance for value comparison.
	ReconTolerance decimal.Decimal
	// FuzzyEnabled turns on the secondary reconciliation pass.
	FuzzyEnabled bool
	// FuzzyWindowDays bounds the invoice date gap in the fuzzy pass.
	FuzzyWindowDays int
	// ITCWarningWindowDays is how many days before the payment deadline
	// an unpaid credit turns at-risk.
	ITCWarningWindowDays int
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the TAXOS_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TAXOS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "taxos")
	v.SetDefault("db.password", "taxos_secret")
	v.SetDefault("db.name", "taxos_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Engine defaults
	v.SetDefault("engine.b2cl_threshold", "250000")
	v.SetDefault("engine.recon_tolerance", "1")
	v.SetDefault("engine.fuzzy_enabled", true)
	v.SetDefault("engine.fuzzy_window_days", 5)
	v.SetDefault("engine.itc_warning_window_days", 15)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                    "TAXOS_SERVER_PORT",
		"server.read_timeout":            "TAXOS_SERVER_READ_TIMEOUT",
		"server.write_timeout":           "TAXOS_SERVER_WRITE_TIMEOUT",
		"server.environment":             "TAXOS_SERVER_ENVIRONMENT",
		"db.host":                        "TAXOS_DB_HOST",
		"db.port":                        "TAXOS_DB_PORT",
		"db.user":                        "TAXOS_DB_USER",
		"db.password":                    "TAXOS_DB_PASSWORD",
		"db.name":                        "TAXOS_DB_NAME",
		"db.sslmode":                     "TAXOS_DB_SSLMODE",
		"db.max_open":                    "TAXOS_DB_MAX_OPEN",
		"db.max_idle":                    "TAXOS_DB_MAX_IDLE",
		"engine.b2cl_threshold":          "TAXOS_ENGINE_B2CL_THRESHOLD",
		"engine.recon_tolerance":         "TAXOS_ENGINE_RECON_TOLERANCE",
		"engine.fuzzy_enabled":           "TAXOS_ENGINE_FUZZY_ENABLED",
		"engine.fuzzy_window_days":       "TAXOS_ENGINE_FUZZY_WINDOW_DAYS",
		"engine.itc_warning_window_days": "TAXOS_ENGINE_ITC_WARNING_WINDOW_DAYS",
		"log.level":                      "TAXOS_LOG_LEVEL",
		"log.format":                     "TAXOS_LOG_FORMAT",
		"cors.allowed_origins":           "TAXOS_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if TAXOS_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("TAXOS_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}

	threshold, err := decimal.NewFromString(v.GetString("engine.b2cl_threshold"))
	if err != nil {
		return nil, fmt.Errorf("parsing engine.b2cl_threshold: %w", err)
	}
	tolerance, err := decimal.NewFromString(v.GetString("engine.recon_tolerance"))
	if err != nil {
		return nil, fmt.Errorf("parsing engine.recon_tolerance: %w", err)
	}
	cfg.Engine = EngineConfig{
		B2CLThreshold:        threshold,
		ReconTolerance:       tolerance,
		FuzzyEnabled:         v.GetBool("engine.fuzzy_enabled"),
		FuzzyWindowDays:      v.GetInt("engine.fuzzy_window_days"),
		ITCWarningWindowDays: v.GetInt("engine.itc_warning_window_days"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	return cfg, nil
}
