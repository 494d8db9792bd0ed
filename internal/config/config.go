package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/cdma-ap/cmsnr-directory/internal/pkg/database"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Admin    AdminConfig
	Birthday BirthdayConfig
	Telegram TelegramConfig
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port               int
	Env                string
	LogLevel           string
	Timezone           string
	CORSAllowedOrigins []string
}

type AdminConfig struct {
	Username     string
	PasswordHash string
}

type BirthdayConfig struct {
	WhatsAppURL        string
	WhatsAppDepartment string
	WhatsAppTimeout    time.Duration
	SendDelay          time.Duration
	CronEnabled        bool
	CronHour           int
}

// TelegramConfig is optional; run summaries are only posted when both fields are set.
type TelegramConfig struct {
	BotToken string
	ChatID   int64
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	config := &Config{}

	// Database configuration
	driver := strings.ToLower(getEnv("DB_DRIVER", DriverPostgres))
	defaultPort := "5432"
	if driver == DriverMySQL {
		defaultPort = "3306"
	}
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", defaultPort))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Driver:   driver,
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "cmsnr_directory"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "4000"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:               appPort,
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Timezone:           getEnv("APP_TIMEZONE", "Asia/Kolkata"),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "12h"),
	}

	config.Admin = AdminConfig{
		Username:     getEnv("ADMIN_USERNAME", "admin"),
		PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
	}

	// Birthday notifier
	waTimeout, err := time.ParseDuration(getEnv("WHATSAPP_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid WHATSAPP_TIMEOUT: %w", err)
	}
	sendDelay, err := time.ParseDuration(getEnv("BIRTHDAY_SEND_DELAY", "500ms"))
	if err != nil {
		return nil, fmt.Errorf("invalid BIRTHDAY_SEND_DELAY: %w", err)
	}
	cronEnabled, err := strconv.ParseBool(getEnv("BIRTHDAY_CRON_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid BIRTHDAY_CRON_ENABLED: %w", err)
	}
	cronHour, err := strconv.Atoi(getEnv("BIRTHDAY_CRON_HOUR", "9"))
	if err != nil {
		return nil, fmt.Errorf("invalid BIRTHDAY_CRON_HOUR: %w", err)
	}

	config.Birthday = BirthdayConfig{
		WhatsAppURL:        getEnv("WHATSAPP_API_URL", "https://realtimegoverance.ap.gov.in:8000/api/v1/templates/direct-send"),
		WhatsAppDepartment: getEnv("WHATSAPP_DEPARTMENT", "CDMA"),
		WhatsAppTimeout:    waTimeout,
		SendDelay:          sendDelay,
		CronEnabled:        cronEnabled,
		CronHour:           cronHour,
	}

	var chatID int64
	if raw := getEnv("TELEGRAM_CHAT_ID", ""); raw != "" {
		chatID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
	}
	config.Telegram = TelegramConfig{
		BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		ChatID:   chatID,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Driver != DriverPostgres && c.Database.Driver != DriverMySQL {
		return fmt.Errorf("DB_DRIVER must be %q or %q", DriverPostgres, DriverMySQL)
	}
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.IsProduction() && c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required in production")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	if c.Birthday.CronHour < 0 || c.Birthday.CronHour > 23 {
		return fmt.Errorf("BIRTHDAY_CRON_HOUR must be between 0 and 23")
	}
	if c.Birthday.WhatsAppTimeout <= 0 {
		return fmt.Errorf("WHATSAPP_TIMEOUT must be positive")
	}
	if _, err := url.ParseRequestURI(c.Birthday.WhatsAppURL); err != nil {
		return fmt.Errorf("invalid WHATSAPP_API_URL: %w", err)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// Location is the zone that defines "today" for birthdays and buckets.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DatabaseURL returns the connection string for the configured driver
func (c *Config) DatabaseURL() string {
	if c.Database.Driver == DriverMySQL {
		return database.MySQLDSN(
			c.Database.User,
			c.Database.Password,
			c.Database.Host,
			c.Database.Port,
			c.Database.Name,
		)
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.Database.User),
		url.QueryEscape(c.Database.Password),
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key, fallback string) []string {
	value := getEnv(key, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
