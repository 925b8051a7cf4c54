package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server   Server   `mapstructure:"server" yaml:"server"`
	Database Database `mapstructure:"database" yaml:"database"`
	Logger   Logger   `mapstructure:"logger" yaml:"logger"`
	Account  Account  `mapstructure:"account" yaml:"account"`
	Accounts Accounts `mapstructure:"accounts" yaml:"accounts"`
	Import   Import   `mapstructure:"import" yaml:"import"`
	Client   Client   `mapstructure:"client" yaml:"client"`
}

// Server holds the configuration for the web server.
type Server struct {
	Port            int           `mapstructure:"port" yaml:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	// DefaultUserID is used for requests that carry no X-User-ID header.
	DefaultUserID uint `mapstructure:"default_user_id" yaml:"default_user_id"`
}

// Database holds the configuration for the database.
type Database struct {
	DSN string `mapstructure:"dsn" yaml:"dsn"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Account holds the defaults applied when a user's settings are first created.
type Account struct {
	BaseValue       float64 `mapstructure:"base_value" yaml:"base_value"`
	RiskPercentage  float64 `mapstructure:"risk_percentage" yaml:"risk_percentage"`
	ProfitRiskRatio float64 `mapstructure:"profit_risk_ratio" yaml:"profit_risk_ratio"`
	LossRiskRatio   float64 `mapstructure:"loss_risk_ratio" yaml:"loss_risk_ratio"`
}

// Accounts holds the configuration for user lifecycle management.
type Accounts struct {
	SweepInterval time.Duration `mapstructure:"sweep_interval" yaml:"sweep_interval"`
}

// Import holds the configuration for bulk trade import.
type Import struct {
	Strict bool `mapstructure:"strict" yaml:"strict"`
}

// Client holds the configuration for the REST client used by the CLI.
type Client struct {
	BaseURL        string        `mapstructure:"base_url" yaml:"base_url"`
	UserID         uint          `mapstructure:"user_id" yaml:"user_id"`
	RateLimit      float64       `mapstructure:"rate_limit" yaml:"rate_limit"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst" yaml:"rate_limit_burst"`
	Timeout        time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// Default returns the configuration used when no file or environment overrides exist.
func Default() Config {
	return Config{
		Server: Server{
			Port:            8080,
			ShutdownTimeout: 10 * time.Second,
			DefaultUserID:   1,
		},
		Database: Database{DSN: "journal.db"},
		Logger:   Logger{Level: "info", Format: "console"},
		Account: Account{
			BaseValue:       100000,
			RiskPercentage:  1,
			ProfitRiskRatio: 2,
			LossRiskRatio:   1,
		},
		Accounts: Accounts{SweepInterval: time.Hour},
		Import:   Import{Strict: true},
		Client: Client{
			BaseURL:        "http://localhost:8080",
			UserID:         1,
			RateLimit:      20, // requests per second
			RateLimitBurst: 5,
			Timeout:        15 * time.Second,
		},
	}
}

// LoadConfig reads configuration from file or environment variables.
// A missing config file is not an error; defaults and environment still apply.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config") // name of config file (without extension)
	v.SetConfigType("yml")    // or yaml, json

	// Allow environment variables to override config file
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v, Default())

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
		err = nil
	}

	err = v.Unmarshal(&config)
	return
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.default_user_id", d.Server.DefaultUserID)
	v.SetDefault("database.dsn", d.Database.DSN)
	v.SetDefault("logger.level", d.Logger.Level)
	v.SetDefault("logger.format", d.Logger.Format)
	v.SetDefault("account.base_value", d.Account.BaseValue)
	v.SetDefault("account.risk_percentage", d.Account.RiskPercentage)
	v.SetDefault("account.profit_risk_ratio", d.Account.ProfitRiskRatio)
	v.SetDefault("account.loss_risk_ratio", d.Account.LossRiskRatio)
	v.SetDefault("accounts.sweep_interval", d.Accounts.SweepInterval)
	v.SetDefault("import.strict", d.Import.Strict)
	v.SetDefault("client.base_url", d.Client.BaseURL)
	v.SetDefault("client.user_id", d.Client.UserID)
	v.SetDefault("client.rate_limit", d.Client.RateLimit)
	v.SetDefault("client.rate_limit_burst", d.Client.RateLimitBurst)
	v.SetDefault("client.timeout", d.Client.Timeout)
}
