package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

const envProduction = "production"

var (
	ErrMissingSecret  = errors.New("jwt secrets must be set in production")
	ErrRateLimiter    = errors.New("rate limiter needs positive max requests and window")
	ErrSessionTTL     = errors.New("guest session ttl must not be negative")
	ErrMissingAPIKey  = errors.New("api key must be set in production")
	ErrWeakSecretPair = errors.New("access and refresh secrets must differ")
)

type Config struct {
	Server   Server   `envconfig:"SERVER"`
	App      App      `envconfig:"APP"`
	Guest    Guest    `envconfig:"GUEST"`
	Cache    Cache    `envconfig:"CACHE"`
	JWT      JWT      `envconfig:"JWT"`
	DB       DB       `envconfig:"DB"`
	Kafka    Kafka    `envconfig:"KAFKA"`
	External External `envconfig:"EXTERNAL"`
}

type Server struct {
	Env      string `envconfig:"ENV"       default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Port     string `envconfig:"PORT"      default:"8080"`
	Host     string `envconfig:"HOST"`
	Shutdown struct {
		CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS" default:"5"`
		GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"   default:"10"`
	} `envconfig:"SHUTDOWN"`
}

type App struct {
	Name     string `envconfig:"APP_NAME" default:"niseko"`
	Timezone string `envconfig:"TIMEZONE" default:"Asia/Tokyo"`
	CORS     struct {
		AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
		AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
		AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
		AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
		Enable           bool     `envconfig:"ENABLE"`
		MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
	} `envconfig:"CORS"`
	RateLimiter struct {
		Enable        bool `envconfig:"ENABLE"`
		MaxRequests   int  `envconfig:"MAX_REQUESTS"   default:"60"`
		WindowSeconds int  `envconfig:"WINDOW_SECONDS" default:"60"`
	} `envconfig:"RATE_LIMITER"`
	APIKey string `envconfig:"API_KEY"`
}

// Guest tunes the check-in flow.
type Guest struct {
	WifiNetwork       string `envconfig:"WIFI_NETWORK"`
	SessionTTLSeconds int    `envconfig:"SESSION_TTL_SECONDS"`
	AutoTasks         bool   `envconfig:"AUTO_TASKS"`
}

type Cache struct {
	Redis struct {
		Primary struct {
			Host     string `envconfig:"HOST"`
			Port     string `envconfig:"PORT"`
			Password string `envconfig:"PASSWORD"`
			DB       int    `envconfig:"DB"`
		} `envconfig:"PRIMARY"`
	} `envconfig:"REDIS"`
	TTL int `envconfig:"TTL" default:"300"`
}

type JWT struct {
	AccessSecret     string `envconfig:"ACCESS_SECRET"`
	RefreshSecret    string `envconfig:"REFRESH_SECRET"`
	AccessExpireMin  int    `envconfig:"ACCESS_EXPIRE_MIN"  default:"60"`
	RefreshExpireMin int    `envconfig:"REFRESH_EXPIRE_MIN" default:"10080"`
}

// PostgresNode is one side of the read/write split.
type PostgresNode struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	Timezone string `envconfig:"TIMEZONE"`
	SSLMode  string `envconfig:"SSL_MODE" default:"disable"`
}

type DB struct {
	Postgres struct {
		MaxRetry       int          `envconfig:"MAX_RETRY"       default:"3"`
		RetryWaitTime  int          `envconfig:"RETRY_WAIT_TIME" default:"2"`
		MigrationTable string       `envconfig:"MIGRATION_TABLE"`
		AutoMigrate    bool         `envconfig:"AUTO_MIGRATE"`
		Prefix         string       `envconfig:"PREFIX"`
		Read           PostgresNode `envconfig:"READ"`
		Write          PostgresNode `envconfig:"WRITE"`
	} `envconfig:"POSTGRES"`
}

// Kafka is optional. Without brokers, events are dropped with a debug log.
type Kafka struct {
	Brokers       []string `envconfig:"BROKERS"`
	ConsumerGroup string   `envconfig:"CONSUMER_GROUP" default:"niseko"`
	SASL          struct {
		Username string `envconfig:"USERNAME"`
		Password string `envconfig:"PASSWORD"`
	} `envconfig:"SASL"`
	Topics struct {
		GuestCheckedIn  string `envconfig:"GUEST_CHECKED_IN"`
		GuestCheckedOut string `envconfig:"GUEST_CHECKED_OUT"`
	} `envconfig:"TOPICS"`
}

type External struct {
	Otel struct {
		Endpoint string `envconfig:"ENDPOINT"`
	} `envconfig:"OTEL"`
	S3 struct {
		Region          string `envconfig:"REGION"`
		Endpoint        string `envconfig:"ENDPOINT"`
		AccessKeyID     string `envconfig:"ACCESS_KEY_ID"`
		SecretAccessKey string `envconfig:"SECRET_ACCESS_KEY"`
		BucketName      string `envconfig:"BUCKET_NAME"`
		PublicURL       string `envconfig:"PUBLIC_URL"`
		UsePathStyle    bool   `envconfig:"USE_PATH_STYLE"`
	} `envconfig:"S3"`
}

// Validate rejects settings the service cannot run safely with.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Env == envProduction {
		if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
			errs = append(errs, ErrMissingSecret)
		}

		if c.App.APIKey == "" {
			errs = append(errs, ErrMissingAPIKey)
		}
	}

	if c.JWT.AccessSecret != "" && c.JWT.AccessSecret == c.JWT.RefreshSecret {
		errs = append(errs, ErrWeakSecretPair)
	}

	if c.App.RateLimiter.Enable && (c.App.RateLimiter.MaxRequests <= 0 || c.App.RateLimiter.WindowSeconds <= 0) {
		errs = append(errs, ErrRateLimiter)
	}

	if c.Guest.SessionTTLSeconds < 0 {
		errs = append(errs, ErrSessionTTL)
	}

	return errors.Join(errs...)
}

// Load reads the process environment into a fresh Config.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

var (
	conf    *Config
	once    sync.Once
	initErr error
)

// Init loads .env when present, then the environment. It runs once per process.
func Init() error {
	once.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Warn().Err(err).Msg("Could not load .env file, continuing with existing environment variables")
		} else {
			log.Info().Msg("Successfully loaded variables from .env file into environment")
		}

		conf, initErr = Load()
		if initErr == nil {
			log.Info().Str("env", conf.Server.Env).Msg("Service configuration initialized successfully")
		}
	})

	return initErr
}

func Get() *Config {
	if err := Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize configuration")
	}

	return conf
}
