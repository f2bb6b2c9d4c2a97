package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	CookieSecure      bool   `mapstructure:"COOKIE_SECURE"`

	// Diet backend.
	BackendURL     string        `mapstructure:"BACKEND_URL"`
	BackendTimeout time.Duration `mapstructure:"BACKEND_TIMEOUT"`

	// Durable client state: "redis", "mongo" or "memory".
	StoreDriver string        `mapstructure:"STORE_DRIVER"`
	StateTTL    time.Duration `mapstructure:"STATE_TTL"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisStateDB  int    `mapstructure:"REDIS_STATE_DB"`

	// Mongo configuration.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Flow tuning.
	LoadingStageDuration time.Duration `mapstructure:"LOADING_STAGE_DURATION"`
	DefaultPriceCents    float64       `mapstructure:"DEFAULT_PRICE_CENTS"`
	ChromeTimeout        time.Duration `mapstructure:"CHROME_TIMEOUT"`

	// Housekeeping.
	JourneyIdleTTL time.Duration `mapstructure:"JOURNEY_IDLE_TTL"`
	SweepInterval  time.Duration `mapstructure:"SWEEP_INTERVAL"`
	HealthInterval time.Duration `mapstructure:"HEALTH_INTERVAL"`
	AllowedOrigins []string      `mapstructure:"ALLOWED_ORIGINS"`
}

var AppConfig Config

func LoadConfig() {
	// A local .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("COOKIE_SECURE", false)
	viper.SetDefault("BACKEND_URL", "http://localhost:3001")
	viper.SetDefault("BACKEND_TIMEOUT", 60*time.Second)
	viper.SetDefault("STORE_DRIVER", "redis")
	viper.SetDefault("STATE_TTL", 30*24*time.Hour)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_STATE_DB", 0)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "dietpix")
	viper.SetDefault("LOADING_STAGE_DURATION", 3*time.Second)
	viper.SetDefault("DEFAULT_PRICE_CENTS", 990)
	viper.SetDefault("CHROME_TIMEOUT", 30*time.Second)
	viper.SetDefault("JOURNEY_IDLE_TTL", 30*time.Minute)
	viper.SetDefault("SWEEP_INTERVAL", 5*time.Minute)
	viper.SetDefault("HEALTH_INTERVAL", 60*time.Second)
	viper.SetDefault("ALLOWED_ORIGINS", []string{"http://localhost:3000"})

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
