package auth

import "time"

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

// Validate checks required fields and returns a ValidationError on failure.
func (d LoginDTO) Validate() error {
	if d.Username == "" {
		return ValidationError{Msg: "username is required"}
	}
	if d.Password == "" {
		return ValidationError{Msg: "password is required"}
	}
	return nil
}

// LoginResponse mirrors what the login endpoint returns: the bearer token
// plus the identity snapshot clients cache.
type LoginResponse struct {
	Token          string     `json:"token"`
	UserID         int64      `json:"user_id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	FullName       string     `json:"full_name"`
	IsSuperuser    bool       `json:"is_superuser"`
	IsActive       bool       `json:"is_active"`
	Permissions    []string   `json:"permissions"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
	TokenExpiresAt time.Time  `json:"token_expires_at"`
}
