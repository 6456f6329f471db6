package main

import (
	"fmt"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Server settings
	Host        string
	Port        int
	Environment string
	LogLevel    string

	// Database settings
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	// AI settings
	AIProvider     string
	AIGeminiAPIKey string
	AIGeminiModel  string
	AIClaudeAPIKey string
	AIClaudeModel  string
	AIMaxTokens    int
	AITimeout      time.Duration

	// Notification settings
	NotifyEnabled bool
	BarkURL       string
	BarkTokens    string

	// Report page settings
	ReportUser     string
	ReportPassword string

	// Mailbox poller settings
	IMAPEnabled      bool
	IMAPServer       string
	IMAPUsername     string
	IMAPPassword     string
	IMAPMailbox      string
	IMAPPollInterval time.Duration

	// Archive settings
	ArchiveProvider  string
	ArchiveLocalPath string
	ArchiveS3Bucket  string
	ArchiveS3Region  string
}

// LoadConfig loads configuration from environment variables.
func LoadConfig(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		// Server settings
		Host:        envString(getenv, "SERVER_HOST", "localhost"),
		Port:        envInt(getenv, "SERVER_PORT", 8080),
		Environment: envString(getenv, "ENVIRONMENT", "dev"),
		LogLevel:    envString(getenv, "LOG_LEVEL", "info"),

		// Database settings
		DBUser:     envString(getenv, "DB_USER", "postgres"),
		DBPassword: envString(getenv, "DB_PASSWORD", ""),
		DBHost:     envString(getenv, "DB_HOSTNAME", "localhost"),
		DBPort:     envString(getenv, "DB_PORT", "5432"),
		DBName:     envString(getenv, "DB_NAME", "authinbox"),

		// AI settings
		AIProvider:     envString(getenv, "AI_PROVIDER", "gemini"),
		AIGeminiAPIKey: envString(getenv, "GEMINI_API_KEY", ""),
		AIGeminiModel:  envString(getenv, "GEMINI_MODEL", "gemini-1.5-flash"),
		AIClaudeAPIKey: envString(getenv, "CLAUDE_API_KEY", ""),
		AIClaudeModel:  envString(getenv, "CLAUDE_MODEL", "claude-3-5-haiku-20241022"),
		AIMaxTokens:    envInt(getenv, "AI_MAX_TOKENS", 1024),
		AITimeout:      envDuration(getenv, "AI_TIMEOUT", 60*time.Second),

		// Notification settings
		NotifyEnabled: envBool(getenv, "NOTIFY_ENABLED", false),
		BarkURL:       envString(getenv, "BARK_URL", "https://api.day.app"),
		BarkTokens:    envString(getenv, "BARK_TOKENS", ""),

		// Report page settings
		ReportUser:     envString(getenv, "REPORT_USER", "admin"),
		ReportPassword: envString(getenv, "REPORT_PASSWORD", ""),

		// Mailbox poller settings
		IMAPEnabled:      envBool(getenv, "IMAP_ENABLED", false),
		IMAPServer:       envString(getenv, "IMAP_SERVER", ""),
		IMAPUsername:     envString(getenv, "IMAP_USER", ""),
		IMAPPassword:     envString(getenv, "IMAP_PASSWORD", ""),
		IMAPMailbox:      envString(getenv, "IMAP_MAILBOX", "INBOX"),
		IMAPPollInterval: envDuration(getenv, "IMAP_POLL_INTERVAL", time.Minute),

		// Archive settings
		ArchiveProvider:  envString(getenv, "ARCHIVE_PROVIDER", "none"),
		ArchiveLocalPath: envString(getenv, "ARCHIVE_LOCAL_PATH", "./archive"),
		ArchiveS3Bucket:  envString(getenv, "ARCHIVE_S3_BUCKET", ""),
		ArchiveS3Region:  envString(getenv, "ARCHIVE_S3_REGION", "us-east-1"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DatabaseURL returns the PostgreSQL connection string.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// validate checks production requirements.
func (c *Config) validate() error {
	if c.Environment == "prod" || c.Environment == "production" {
		if c.ReportPassword == "" {
			return fmt.Errorf("REPORT_PASSWORD must be set in production environment")
		}
		switch c.AIProvider {
		case "gemini":
			if c.AIGeminiAPIKey == "" {
				return fmt.Errorf("GEMINI_API_KEY must be set when AI_PROVIDER=gemini")
			}
		case "claude":
			if c.AIClaudeAPIKey == "" {
				return fmt.Errorf("CLAUDE_API_KEY must be set when AI_PROVIDER=claude")
			}
		}
	}
	if c.IMAPEnabled && c.IMAPServer == "" {
		return fmt.Errorf("IMAP_SERVER must be set when IMAP_ENABLED=true")
	}
	if c.ArchiveProvider == "s3" && c.ArchiveS3Bucket == "" {
		return fmt.Errorf("ARCHIVE_S3_BUCKET must be set when ARCHIVE_PROVIDER=s3")
	}
	return nil
}

// Helper functions for loading environment variables with defaults.

func envString(getenv func(string) string, key, defaultValue string) string {
	if value := getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func envInt(getenv func(string) string, key string, defaultValue int) int {
	if value := getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func envBool(getenv func(string) string, key string, defaultValue bool) bool {
	if value := getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func envDuration(getenv func(string) string, key string, defaultValue time.Duration) time.Duration {
	if value := getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
