package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Application struct {
	GracefulShutdownTimeout time.Duration
}

type HTTPServer struct {
	Port int
}

type Database struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type Redis struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type Logger struct {
	Level string
	Mode  string // development or production
}

type Swagger struct {
	Enabled bool `json:"enabled"`
}

type OTP struct {
	Length         int
	ExpirationTime time.Duration
	CooldownWindow time.Duration
	MaxAttempts    int
}

type Verification struct {
	ExpirationTime time.Duration
}

type SMS struct {
	Provider    string // twilio or console
	AccountSID  string
	AuthToken   string
	FromNumber  string
	CountryCode string
	SendTimeout time.Duration
}

type Config struct {
	Application  Application
	HTTPServer   HTTPServer
	Database     Database
	Redis        Redis
	Logger       Logger
	Swagger      Swagger
	OTP          OTP
	Verification Verification
	SMS          SMS
}

func Load() (*Config, error) {
	// Optional .env overlay for local development; real deployments set
	// the environment directly.
	_ = godotenv.Load(".env")

	cfg := &Config{
		Application: Application{
			GracefulShutdownTimeout: parseDurationWithDefault("APPLICATION_GRACEFUL_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		HTTPServer: HTTPServer{
			Port: parseIntWithDefault("HTTP_SERVER_PORT", 8080),
		},
		Database: Database{
			Host:     getEnvWithDefault("DATABASE_HOST", "db"),
			Port:     parseIntWithDefault("DATABASE_PORT", 5432),
			User:     getEnvWithDefault("DATABASE_USER", "task_manager"),
			Password: getEnvWithDefault("DATABASE_PASSWORD", "task_manager"),
			Name:     getEnvWithDefault("DATABASE_NAME", "task_manager"),
			SSLMode:  getEnvWithDefault("DATABASE_SSL_MODE", "disable"),
		},
		Redis: Redis{
			Host:     getEnvWithDefault("REDIS_HOST", "redis"),
			Port:     parseIntWithDefault("REDIS_PORT", 6379),
			Password: getEnvWithDefault("REDIS_PASSWORD", ""),
			DB:       parseIntWithDefault("REDIS_DB", 0),
		},
		Logger: Logger{
			Level: getEnvWithDefault("LOGGER_LEVEL", "info"),
			Mode:  getEnvWithDefault("LOGGER_MODE", "production"),
		},
		Swagger: Swagger{
			Enabled: getEnvBoolWithDefault("SWAGGER_ENABLED", true),
		},
		OTP: OTP{
			Length:         parseIntWithDefault("OTP_LENGTH", 6),
			ExpirationTime: parseDurationWithDefault("OTP_EXPIRATION_TIME", 5*time.Minute),
			CooldownWindow: parseDurationWithDefault("OTP_COOLDOWN_WINDOW", 60*time.Second),
			MaxAttempts:    parseIntWithDefault("OTP_MAX_ATTEMPTS", 3),
		},
		Verification: Verification{
			ExpirationTime: parseDurationWithDefault("VERIFICATION_EXPIRATION_TIME", time.Hour),
		},
		SMS: SMS{
			Provider:    getEnvWithDefault("SMS_PROVIDER", "console"),
			AccountSID:  getEnvWithDefault("TWILIO_ACCOUNT_SID", ""),
			AuthToken:   getEnvWithDefault("TWILIO_AUTH_TOKEN", ""),
			FromNumber:  getEnvWithDefault("TWILIO_PHONE_NUMBER", ""),
			CountryCode: getEnvWithDefault("SMS_COUNTRY_CODE", "+91"),
			SendTimeout: parseDurationWithDefault("SMS_SEND_TIMEOUT", 10*time.Second),
		},
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func parseDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
