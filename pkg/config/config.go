package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Logger    LoggingConfig
	Engine    EngineConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	Mode         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	Name          string
	SSLMode       string
	RunMigrations bool
	MaxOpenConns  int
	MaxIdleConns  int
}

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	Secret            string
	ExpirationHours   time.Duration
	RefreshExpiration time.Duration
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string
	Format string
}

// EngineConfig holds the transactional engine's injected tunables.
// Every tunable below lives on this struct, constructed once and
// passed to the engine components — no component reads from
// package-global state.
type EngineConfig struct {
	ReturnPeriodDays        int
	RestockingFeePercent    float64
	MinConditionForCredit   string
	AutoApproveThreshold    float64
	GracePeriodDays         int
	LateFeeMultiplier       float64
	MaxExtensions           int
	SecurityDepositPercent  float64
	DefaultTaxRate          float64
	OperationTimeoutSeconds int
	ReconciliationCron      string
	MaxRetries              int
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	Requests int
	Duration time.Duration
}

// Load loads configuration from environment variables and .env file.
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	setDefaults()

	viper.SetEnvPrefix("")
	viper.AutomaticEnv()

	viper.BindEnv("DB_HOST")
	viper.BindEnv("DB_PORT")
	viper.BindEnv("DB_USER")
	viper.BindEnv("DB_PASSWORD")
	viper.BindEnv("DB_NAME")
	viper.BindEnv("DB_SSL_MODE")
	viper.BindEnv("SERVER_HOST")
	viper.BindEnv("SERVER_PORT")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{
		Server: ServerConfig{
			Host:         viper.GetString("SERVER_HOST"),
			Port:         viper.GetInt("SERVER_PORT"),
			Env:          viper.GetString("ENV"),
			Mode:         viper.GetString("SERVER_MODE"),
			ReadTimeout:  viper.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout: viper.GetDuration("SERVER_WRITE_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Host:          viper.GetString("DB_HOST"),
			Port:          viper.GetInt("DB_PORT"),
			User:          viper.GetString("DB_USER"),
			Password:      viper.GetString("DB_PASSWORD"),
			Name:          viper.GetString("DB_NAME"),
			SSLMode:       viper.GetString("DB_SSL_MODE"),
			RunMigrations: viper.GetBool("DB_RUN_MIGRATIONS"),
			MaxOpenConns:  viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:  viper.GetInt("DB_MAX_IDLE_CONNS"),
		},
		JWT: JWTConfig{
			Secret:            viper.GetString("JWT_SECRET"),
			ExpirationHours:   viper.GetDuration("JWT_EXPIRATION"),
			RefreshExpiration: viper.GetDuration("JWT_REFRESH_EXPIRATION"),
		},
		Logger: LoggingConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
		Engine: EngineConfig{
			ReturnPeriodDays:        viper.GetInt("RETURN_PERIOD_DAYS"),
			RestockingFeePercent:    viper.GetFloat64("RESTOCKING_FEE_PERCENT"),
			MinConditionForCredit:   viper.GetString("MIN_CONDITION_FOR_CREDIT"),
			AutoApproveThreshold:    viper.GetFloat64("AUTO_APPROVE_THRESHOLD"),
			GracePeriodDays:         viper.GetInt("GRACE_PERIOD_DAYS"),
			LateFeeMultiplier:       viper.GetFloat64("LATE_FEE_MULTIPLIER"),
			MaxExtensions:           viper.GetInt("MAX_EXTENSIONS"),
			SecurityDepositPercent:  viper.GetFloat64("SECURITY_DEPOSIT_PERCENT"),
			DefaultTaxRate:          viper.GetFloat64("DEFAULT_TAX_RATE"),
			OperationTimeoutSeconds: viper.GetInt("OPERATION_TIMEOUT_SECONDS"),
			ReconciliationCron:      viper.GetString("RECONCILIATION_CRON"),
			MaxRetries:              viper.GetInt("MAX_RETRIES"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetDuration("RATE_LIMIT_DURATION"),
		},
	}

	return config, nil
}

// setDefaults sets default values for configuration. Engine defaults
// mirror the documented reference configuration exactly.
func setDefaults() {
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_PORT", 3000)
	viper.SetDefault("ENV", "development")
	viper.SetDefault("SERVER_MODE", "debug")
	viper.SetDefault("SERVER_READ_TIMEOUT", "10s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "10s")

	viper.SetDefault("DB_HOST", "postgres")
	viper.SetDefault("DB_PORT", 5432)
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_NAME", "rental_engine")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_RUN_MIGRATIONS", true)
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)

	viper.SetDefault("JWT_SECRET", "your_jwt_secret_key_here")
	viper.SetDefault("JWT_EXPIRATION", "24h")
	viper.SetDefault("JWT_REFRESH_EXPIRATION", "168h")

	viper.SetDefault("LOG_LEVEL", "debug")
	viper.SetDefault("LOG_FORMAT", "json")

	viper.SetDefault("RETURN_PERIOD_DAYS", 30)
	viper.SetDefault("RESTOCKING_FEE_PERCENT", 15.0)
	viper.SetDefault("MIN_CONDITION_FOR_CREDIT", "C")
	viper.SetDefault("AUTO_APPROVE_THRESHOLD", 1000.0)
	viper.SetDefault("GRACE_PERIOD_DAYS", 1)
	viper.SetDefault("LATE_FEE_MULTIPLIER", 1.5)
	viper.SetDefault("MAX_EXTENSIONS", 3)
	viper.SetDefault("SECURITY_DEPOSIT_PERCENT", 20.0)
	viper.SetDefault("DEFAULT_TAX_RATE", 10.0)
	viper.SetDefault("OPERATION_TIMEOUT_SECONDS", 30)
	viper.SetDefault("RECONCILIATION_CRON", "0 0 * * *")
	viper.SetDefault("MAX_RETRIES", 3)

	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", "1m")
}

// GetDSN returns the database connection string.
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

// GetServerAddress returns the server address.
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDevelopment returns true if the environment is development.
func (c *ServerConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if the environment is production.
func (c *ServerConfig) IsProduction() bool {
	return c.Env == "production"
}
