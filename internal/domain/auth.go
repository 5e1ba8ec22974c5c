package domain

// AuthService issues and validates access tokens and registers users.
type AuthService interface {
	IssueToken(username, password string) (*AccessToken, error)
	Register(username, password, name string) (*User, error)
	ValidateToken(token string) (*User, error)
}
