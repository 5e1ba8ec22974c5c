package domain

import (
	"time"
)

// User represents a user in the system.
type User struct {
	ID           string
	Username     string
	Email        string
	Name         string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Public returns the user shape exposed by the API.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, Name: u.Name}
}

// PublicUser is the user representation returned to clients.
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AccessToken is the response of the token endpoint.
type AccessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}
