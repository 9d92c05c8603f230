package auth

import "errors"

// Issuer is the "iss" claim stamped on every token minted by the bridge.
const Issuer = "ovos-api"

// Scope labels what a token is allowed to do.
type Scope string

const (
	// ScopeAccess authorises gated API endpoints.
	ScopeAccess Scope = "access"

	// ScopeRefresh authorises minting a new access token, nothing else.
	ScopeRefresh Scope = "refresh"
)

// User represents a single account in the users database file.
type User struct {
	Name         string `json:"user"`
	PasswordHash string `json:"password"`
	Active       bool   `json:"active"`
}

// Sentinel errors for auth operations.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownUser        = errors.New("unknown or inactive user")
	ErrTokenExpired       = errors.New("token has expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrWrongScope         = errors.New("wrong scope for token")
)
