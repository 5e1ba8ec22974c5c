package domain

import (
	"context"
	"image"
)

// PDFService runs one operation per request. Dispatch over the parameter
// record is exhaustive; unknown records are internal errors.
type PDFService interface {
	Run(ctx context.Context, files []FileUpload, params OperationParams) (*OperationOutcome, error)
}

// PDFToolkit wraps the file-based PDF engine used for structural work.
type PDFToolkit interface {
	Optimize(ctx context.Context, pdf []byte, level CompressionLevel) ([]byte, error)
	Merge(ctx context.Context, pdfs [][]byte) ([]byte, error)
	PageCount(ctx context.Context, pdf []byte) (int, error)
	ApplyEdits(ctx context.Context, pdf []byte, ops []EditOperation) ([]byte, error)
	ImagesToPDF(ctx context.Context, images [][]byte) ([]byte, error)
}

// TextExtractor pulls the text layer out of a PDF and renders pages to
// images.
type TextExtractor interface {
	ExtractPages(pdf []byte) ([]PageText, error)
	RenderPage(pdf []byte, page int) (image.Image, error)
	PageCount(pdf []byte) (int, error)
}

// OfficeConverter converts office, HTML, and plain-text documents to PDF
// through an external tool.
type OfficeConverter interface {
	ToPDF(ctx context.Context, filename string, data []byte) ([]byte, error)
}

// UserRepository stores users for the token and register endpoints.
type UserRepository interface {
	FindByUsername(username string) (*User, error)
	FindByID(id string) (*User, error)
	Create(user *User) error
}

// SourceRepository provides the known sources for plagiarism checking.
type SourceRepository interface {
	KnownSources() ([]KnownSource, error)
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetMaxUploadBytes() int64
	GetLogLevel() string
	GetJWTSecret() string
	GetTokenTTLSeconds() int64
	GetAllowedOrigins() []string
	GetOfficeConverter() string
	GetSourcesDir() string
	GetTempDir() string
}
