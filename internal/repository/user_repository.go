package repository

import (
	"strings"
	"sync"
	"time"

	"pdf-manager/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Development login. Register new users through the API for anything else.
const (
	seedUsername = "demo@example.com"
	seedPassword = "demo1234"
	seedName     = "Demo"
)

// InMemoryUserRepository keeps users in process memory. The server holds no
// document state between requests; users are the one long-lived thing, and
// they live here behind the domain.UserRepository interface.
type InMemoryUserRepository struct {
	mu         sync.RWMutex
	byUsername map[string]*domain.User
	byID       map[string]*domain.User
	logger     domain.Logger
}

// NewInMemoryUserRepository creates the store and seeds the development user.
func NewInMemoryUserRepository(logger domain.Logger) *InMemoryUserRepository {
	r := &InMemoryUserRepository{
		byUsername: make(map[string]*domain.User),
		byID:       make(map[string]*domain.User),
		logger:     logger,
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		// bcrypt only fails on impossible cost values.
		logger.Error("Failed to hash seed password", err)
		return r
	}
	seed := &domain.User{
		ID:           uuid.NewString(),
		Username:     seedUsername,
		Email:        seedUsername,
		Name:         seedName,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	r.byUsername[seedUsername] = seed
	r.byID[seed.ID] = seed
	logger.Info("Seeded development user", "username", seedUsername)
	return r
}

// FindByUsername looks a user up by username, case-insensitively.
func (r *InMemoryUserRepository) FindByUsername(username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byUsername[normalizeUsername(username)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// FindByID looks a user up by ID.
func (r *InMemoryUserRepository) FindByID(id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// Create stores a new user. The username must be unused.
func (r *InMemoryUserRepository) Create(user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := normalizeUsername(user.Username)
	if _, exists := r.byUsername[key]; exists {
		return domain.ErrUserExists
	}

	stored := *user
	stored.Username = key
	r.byUsername[key] = &stored
	r.byID[stored.ID] = &stored
	return nil
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
