package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort      string
	MaxUploadBytes  int64
	LogLevel        string
	JWTSecret       string
	TokenTTLSeconds int64
	AllowedOrigins  []string
	OfficeConverter string
	SourcesDir      string
	TempDir         string
}

// NewConfig creates a new configuration instance with default values
func NewConfig() *AppConfig {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:      getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8000")),
		MaxUploadBytes:  getEnvInt64OrDefault("MAX_UPLOAD_BYTES", 50*1024*1024), // 50MB default
		LogLevel:        getEnvOrDefault("LOG_LEVEL", "info"),
		JWTSecret:       getEnvOrDefault("JWT_SECRET", defaultJWTSecret),
		TokenTTLSeconds: getEnvInt64OrDefault("TOKEN_TTL_SECONDS", 86400),
		AllowedOrigins:  splitAndTrim(getEnvOrDefault("ALLOWED_ORIGINS", "*")),
		OfficeConverter: getEnvOrDefault("OFFICE_CONVERTER", "unoconv"),
		SourcesDir:      getEnvOrDefault("SOURCES_DIR", ""),
		TempDir:         getEnvOrDefault("TEMP_DIR", os.TempDir()),
	}
}

// Validate rejects configurations the server cannot run with.
func (c *AppConfig) Validate() error {
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	if c.TokenTTLSeconds <= 0 {
		return fmt.Errorf("TOKEN_TTL_SECONDS must be positive, got %d", c.TokenTTLSeconds)
	}
	if c.OfficeConverter == "" {
		return fmt.Errorf("OFFICE_CONVERTER must not be empty")
	}
	return nil
}

// UsesDefaultJWTSecret reports whether the signing key was left at its
// development default, so startup can warn about it.
func (c *AppConfig) UsesDefaultJWTSecret() bool {
	return c.JWTSecret == defaultJWTSecret
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetMaxUploadBytes returns the maximum allowed upload size per file
func (c *AppConfig) GetMaxUploadBytes() int64 {
	return c.MaxUploadBytes
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetJWTSecret returns the JWT signing key
func (c *AppConfig) GetJWTSecret() string {
	return c.JWTSecret
}

// GetTokenTTLSeconds returns the access token lifetime in seconds
func (c *AppConfig) GetTokenTTLSeconds() int64 {
	return c.TokenTTLSeconds
}

// GetAllowedOrigins returns the CORS origin allow-list
func (c *AppConfig) GetAllowedOrigins() []string {
	return c.AllowedOrigins
}

// GetOfficeConverter returns the external office converter binary
func (c *AppConfig) GetOfficeConverter() string {
	return c.OfficeConverter
}

// GetSourcesDir returns the known-sources directory, empty for built-ins
func (c *AppConfig) GetSourcesDir() string {
	return c.SourcesDir
}

// GetTempDir returns the scratch directory for file-based tools
func (c *AppConfig) GetTempDir() string {
	return c.TempDir
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
