package config

import (
	"time"

	"pdf-manager/internal/domain"
	"pdf-manager/internal/infra/office"
	"pdf-manager/internal/repository"
	"pdf-manager/internal/service"
	"pdf-manager/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config           *AppConfig
	Logger           domain.Logger
	UserRepository   domain.UserRepository
	SourceRepository domain.SourceRepository
	AuthService      domain.AuthService
	PDFService       domain.PDFService
}

// NewContainer creates a new dependency injection container
func NewContainer() (*Container, error) {
	config := NewConfig()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	appLogger := logger.NewLogger(config.GetLogLevel())
	if config.UsesDefaultJWTSecret() {
		appLogger.Warn("JWT_SECRET is the development default; set it before exposing the server")
	}

	// Repositories
	userRepo := repository.NewInMemoryUserRepository(appLogger)
	sourceRepo := repository.NewFileSourceRepository(config.GetSourcesDir(), appLogger)

	// Domain collaborators
	toolkit := service.NewPDFToolkit(config.GetTempDir(), appLogger)
	extractor := service.NewTextExtractor(appLogger)
	converter := office.NewConverter(config.GetOfficeConverter(), config.GetTempDir(), appLogger)

	// Services
	authService := service.NewAuthService(
		userRepo,
		[]byte(config.GetJWTSecret()),
		time.Duration(config.GetTokenTTLSeconds())*time.Second,
		appLogger,
	)
	pdfService := service.NewPDFService(toolkit, extractor, converter, sourceRepo, appLogger)

	return &Container{
		Config:           config,
		Logger:           appLogger,
		UserRepository:   userRepo,
		SourceRepository: sourceRepo,
		AuthService:      authService,
		PDFService:       pdfService,
	}, nil
}

// GetConfig returns the configuration instance
func (c *Container) GetConfig() domain.Config {
	return c.Config
}

// GetLogger returns the logger instance
func (c *Container) GetLogger() domain.Logger {
	return c.Logger
}
