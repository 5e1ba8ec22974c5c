package service

import (
	"context"
	"image"

	"pdf-manager/internal/domain"
)

// Shared mocks for service package tests.

type mockLogger struct{}

func (mockLogger) Info(msg string, fields ...interface{})             {}
func (mockLogger) Error(msg string, err error, fields ...interface{}) {}
func (mockLogger) Debug(msg string, fields ...interface{})            {}
func (mockLogger) Warn(msg string, fields ...interface{})             {}

type mockUserRepo struct {
	users     map[string]*domain.User
	createErr error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*domain.User)}
}

func (m *mockUserRepo) FindByUsername(username string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserRepo) FindByID(id string) (*domain.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserRepo) Create(user *domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.users[user.ID] = user
	return nil
}

type mockToolkit struct {
	optimized   []byte
	merged      []byte
	edited      []byte
	imported    []byte
	pageCount   int
	err         error
	lastLevel   domain.CompressionLevel
	lastMerge   [][]byte
	lastOps     []domain.EditOperation
	lastImages  [][]byte
	mergeCalled bool
}

func (m *mockToolkit) Optimize(ctx context.Context, pdf []byte, level domain.CompressionLevel) ([]byte, error) {
	m.lastLevel = level
	if m.err != nil {
		return nil, m.err
	}
	return m.optimized, nil
}

func (m *mockToolkit) Merge(ctx context.Context, pdfs [][]byte) ([]byte, error) {
	m.mergeCalled = true
	m.lastMerge = pdfs
	if m.err != nil {
		return nil, m.err
	}
	return m.merged, nil
}

func (m *mockToolkit) PageCount(ctx context.Context, pdf []byte) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.pageCount, nil
}

func (m *mockToolkit) ApplyEdits(ctx context.Context, pdf []byte, ops []domain.EditOperation) ([]byte, error) {
	m.lastOps = ops
	if m.err != nil {
		return nil, m.err
	}
	return m.edited, nil
}

func (m *mockToolkit) ImagesToPDF(ctx context.Context, images [][]byte) ([]byte, error) {
	m.lastImages = images
	if m.err != nil {
		return nil, m.err
	}
	return m.imported, nil
}

type mockExtractor struct {
	pages     []domain.PageText
	rendered  image.Image
	pageCount int
	err       error
}

func (m *mockExtractor) ExtractPages(pdf []byte) ([]domain.PageText, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.pages, nil
}

func (m *mockExtractor) RenderPage(pdf []byte, page int) (image.Image, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.rendered, nil
}

func (m *mockExtractor) PageCount(pdf []byte) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.pageCount, nil
}

type mockConverter struct {
	pdf      []byte
	err      error
	lastName string
	lastData []byte
}

func (m *mockConverter) ToPDF(ctx context.Context, filename string, data []byte) ([]byte, error) {
	m.lastName = filename
	m.lastData = data
	if m.err != nil {
		return nil, m.err
	}
	return m.pdf, nil
}

type mockSources struct {
	sources []domain.KnownSource
	err     error
}

func (m *mockSources) KnownSources() ([]domain.KnownSource, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.sources, nil
}
