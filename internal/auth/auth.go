// Package auth implements the optional bearer-token gate in front of the
// API: static API keys from configuration, or short-lived HS256 access
// tokens.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenLifetime defines how long issued access tokens are valid.
const TokenLifetime = time.Hour

var (
	// ErrMissingToken is returned when no bearer credential was supplied.
	ErrMissingToken = errors.New("missing or malformed authorization header")
	// ErrTokenExpired is returned when the access token has expired.
	ErrTokenExpired = errors.New("token expired")
	// ErrInvalidToken is returned when the credential is invalid for any
	// other reason.
	ErrInvalidToken = errors.New("invalid token")
)

// Service verifies request credentials. A service with no keys and no
// secret accepts everything.
type Service struct {
	validKeys []string
	secret    string
	disabled  bool
}

// NewService creates an auth service. disabled forces the gate open
// regardless of configured keys.
func NewService(validKeys []string, secret string, disabled bool) *Service {
	return &Service{validKeys: validKeys, secret: secret, disabled: disabled}
}

// Enabled reports whether requests are actually checked.
func (s *Service) Enabled() bool {
	if s.disabled {
		return false
	}
	return len(s.validKeys) > 0 || s.secret != ""
}

// Authorize checks an Authorization header value. The bearer credential
// may be a configured static key or a signed access token.
func (s *Service) Authorize(authHeader string) error {
	if !s.Enabled() {
		return nil
	}

	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || token == "" {
		return ErrMissingToken
	}

	for _, key := range s.validKeys {
		if token == key {
			return nil
		}
	}

	if s.secret != "" {
		_, err := ValidateAccessToken(token, s.secret)
		return err
	}

	return ErrInvalidToken
}

// Claims are the JWT claims carried by access tokens.
type Claims struct {
	jwt.RegisteredClaims
	Client string `json:"client"`
}

// CreateAccessToken issues a signed access token for a client.
func CreateAccessToken(client, secret string) (string, error) {
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        now.Format(time.RFC3339Nano),
		},
		Client: client,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateAccessToken validates and parses an access token.
func ValidateAccessToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
