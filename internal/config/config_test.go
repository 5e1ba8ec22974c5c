package config

import "testing"

const defaultMaxUploadBytes int64 = 50 * 1024 * 1024

func TestNewConfig_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("MAX_UPLOAD_BYTES", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("TOKEN_TTL_SECONDS", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("OFFICE_CONVERTER", "")
	t.Setenv("SOURCES_DIR", "")

	cfg := NewConfig()

	if cfg.GetServerPort() != "8000" {
		t.Fatalf("expected default server port 8000, got %s", cfg.GetServerPort())
	}
	if cfg.GetMaxUploadBytes() != defaultMaxUploadBytes {
		t.Fatalf("expected default upload cap %d, got %d", defaultMaxUploadBytes, cfg.GetMaxUploadBytes())
	}
	if cfg.GetLogLevel() != "info" {
		t.Fatalf("expected default log level info, got %s", cfg.GetLogLevel())
	}
	if cfg.GetTokenTTLSeconds() != 86400 {
		t.Fatalf("expected default token ttl 86400, got %d", cfg.GetTokenTTLSeconds())
	}
	if origins := cfg.GetAllowedOrigins(); len(origins) != 1 || origins[0] != "*" {
		t.Fatalf("expected default origins [*], got %v", origins)
	}
	if cfg.GetOfficeConverter() != "unoconv" {
		t.Fatalf("expected default converter unoconv, got %s", cfg.GetOfficeConverter())
	}
	if cfg.GetSourcesDir() != "" {
		t.Fatalf("expected default sources dir empty, got %s", cfg.GetSourcesDir())
	}
	if !cfg.UsesDefaultJWTSecret() {
		t.Fatalf("expected the development jwt secret to be flagged")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate, got %v", err)
	}
}

func TestNewConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("MAX_UPLOAD_BYTES", "12345")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("TOKEN_TTL_SECONDS", "3600")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:5173, http://localhost:3000")
	t.Setenv("OFFICE_CONVERTER", "soffice")
	t.Setenv("SOURCES_DIR", "/srv/sources")

	cfg := NewConfig()

	if cfg.GetServerPort() != "9090" {
		t.Fatalf("expected server port 9090, got %s", cfg.GetServerPort())
	}
	if cfg.GetMaxUploadBytes() != 12345 {
		t.Fatalf("expected upload cap 12345, got %d", cfg.GetMaxUploadBytes())
	}
	if cfg.GetLogLevel() != "debug" {
		t.Fatalf("expected log level debug, got %s", cfg.GetLogLevel())
	}
	if cfg.GetJWTSecret() != "secret" {
		t.Fatalf("expected jwt secret secret, got %s", cfg.GetJWTSecret())
	}
	if cfg.UsesDefaultJWTSecret() {
		t.Fatalf("custom jwt secret must not be flagged as the default")
	}
	if cfg.GetTokenTTLSeconds() != 3600 {
		t.Fatalf("expected token ttl 3600, got %d", cfg.GetTokenTTLSeconds())
	}
	origins := cfg.GetAllowedOrigins()
	if len(origins) != 2 || origins[0] != "http://localhost:5173" || origins[1] != "http://localhost:3000" {
		t.Fatalf("expected trimmed origin list, got %v", origins)
	}
	if cfg.GetOfficeConverter() != "soffice" {
		t.Fatalf("expected converter soffice, got %s", cfg.GetOfficeConverter())
	}
	if cfg.GetSourcesDir() != "/srv/sources" {
		t.Fatalf("expected sources dir /srv/sources, got %s", cfg.GetSourcesDir())
	}
}

func TestNewConfig_Fallbacks(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SERVER_PORT", "9091")
	t.Setenv("MAX_UPLOAD_BYTES", "not-a-number")

	cfg := NewConfig()

	if cfg.GetServerPort() != "9091" {
		t.Fatalf("expected server port 9091, got %s", cfg.GetServerPort())
	}
	if cfg.GetMaxUploadBytes() != defaultMaxUploadBytes {
		t.Fatalf("expected default upload cap %d, got %d", defaultMaxUploadBytes, cfg.GetMaxUploadBytes())
	}
}

func TestAppConfig_ValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"non-positive upload cap", func(c *AppConfig) { c.MaxUploadBytes = 0 }},
		{"non-positive token ttl", func(c *AppConfig) { c.TokenTTLSeconds = -1 }},
		{"empty converter", func(c *AppConfig) { c.OfficeConverter = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
