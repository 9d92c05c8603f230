package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Config carries the token authority settings.
type Config struct {
	// Secret is the HMAC signing key shared by all bridge instances.
	Secret string

	// Algorithm names the HMAC variant: HS256, HS384 or HS512.
	Algorithm string

	// AccessTTL is the lifetime of access tokens.
	AccessTTL time.Duration

	// RefreshTTL is the lifetime of refresh tokens.
	RefreshTTL time.Duration
}

// Claims extends the JWT registered claims with the token scope.
type Claims struct {
	jwt.RegisteredClaims
	Scope Scope `json:"scope"`
}

// Authority mints and verifies the bridge's JWTs.
type Authority struct {
	cfg    Config
	method jwt.SigningMethod
	store  *Store
}

// NewAuthority creates a token authority backed by the given user store.
//
// Parameters:
//   - cfg: signing secret, algorithm and token lifetimes
//   - store: user store consulted on every verification
//
// Returns an error if the algorithm is not a supported HMAC variant or
// the store is nil.
func NewAuthority(cfg Config, store *Store) (*Authority, error) {
	if store == nil {
		return nil, errors.New("auth: nil user store")
	}

	method := jwt.GetSigningMethod(cfg.Algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("auth: unsupported signing algorithm %q", cfg.Algorithm)
	}

	return &Authority{cfg: cfg, method: method, store: store}, nil
}

// Issue mints a signed token for the user with the given scope.
func (a *Authority) Issue(user User, scope Scope) (string, error) {
	ttl := a.cfg.AccessTTL
	if scope == ScopeRefresh {
		ttl = a.cfg.RefreshTTL
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   user.Name,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Scope: scope,
	}

	token := jwt.NewWithClaims(a.method, claims)
	signed, err := token.SignedString([]byte(a.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing %s token: %w", scope, err)
	}
	return signed, nil
}

// Verify validates a token string and checks that it carries the
// required scope and belongs to a user still present and active.
//
// Failures are reported in a fixed order: expiry first, then signature
// or structural problems, then unknown/inactive user, then scope.
func (a *Authority) Verify(tokenString string, required Scope) (User, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(a.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{a.method.Alg()}),
		jwt.WithIssuer(Issuer),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return User{}, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return User{}, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return User{}, ErrTokenInvalid
	}
	if claims.Subject == "" {
		return User{}, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}

	user, err := a.store.Get(claims.Subject)
	if err != nil {
		return User{}, err
	}

	if claims.Scope != required {
		return User{}, fmt.Errorf("%w: have %q, need %q", ErrWrongScope, claims.Scope, required)
	}

	return user, nil
}

// Refresh validates a refresh token and mints a fresh access token for
// the same user.
func (a *Authority) Refresh(refreshToken string) (string, error) {
	user, err := a.Verify(refreshToken, ScopeRefresh)
	if err != nil {
		return "", err
	}
	return a.Issue(user, ScopeAccess)
}
