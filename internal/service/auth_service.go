package service

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"pdf-manager/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// accessClaims is the payload signed into access tokens. Subject carries
// the user ID.
type accessClaims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

type authService struct {
	users  domain.UserRepository
	secret []byte
	ttl    time.Duration
	logger domain.Logger
}

// NewAuthService creates an auth service signing HS256 tokens with the
// given secret, valid for ttl.
func NewAuthService(
	users domain.UserRepository,
	secret []byte,
	ttl time.Duration,
	logger domain.Logger,
) *authService {
	return &authService{
		users:  users,
		secret: secret,
		ttl:    ttl,
		logger: logger,
	}
}

// IssueToken checks the credentials and returns a signed bearer token.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (s *authService) IssueToken(username, password string) (*domain.AccessToken, error) {
	user, err := s.users.FindByUsername(username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	now := time.Now()
	claims := accessClaims{
		Email: user.Email,
		Name:  user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Debug("Issued access token", "user_id", user.ID, "ttl_sec", int64(s.ttl.Seconds()))
	return &domain.AccessToken{
		AccessToken: signed,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.ttl.Seconds()),
	}, nil
}

// Register creates a new account. The email is the username itself when it
// looks like an address, otherwise username@example.com; a missing display
// name is derived from the email's local part.
func (s *authService) Register(username, password, name string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, &domain.ValidationError{Field: "username", Message: "Username is required"}
	}
	if len(password) < minPasswordLength {
		return nil, &domain.ValidationError{Field: "password", Message: "Password must be at least 8 characters long"}
	}

	email := username
	if !strings.Contains(username, "@") {
		email = username + "@example.com"
	}
	if name == "" {
		name = displayNameFromEmail(email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	s.logger.Info("Registered user", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// ValidateToken parses and verifies a bearer token and resolves its user.
func (s *authService) ValidateToken(token string) (*domain.User, error) {
	claims := &accessClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrInvalidToken
	}

	user, err := s.users.FindByID(claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return user, nil
}

// displayNameFromEmail turns "jane.doe@x.com" into "Jane Doe".
func displayNameFromEmail(email string) string {
	local := email
	if at := strings.Index(email, "@"); at >= 0 {
		local = email[:at]
	}
	local = strings.ReplaceAll(local, ".", " ")
	local = strings.ReplaceAll(local, "_", " ")

	words := strings.Fields(local)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
