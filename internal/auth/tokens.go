// Package auth issues and checks the bearer tokens handed out at login.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"timestrap/internal/domain"
)

var (
	// ErrInvalidToken is returned when the token is malformed or signed with another key.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the token has expired.
	ErrExpiredToken = errors.New("token has expired")
	// ErrSigningDisabled is returned when no signing secret is configured.
	ErrSigningDisabled = errors.New("token signing is not configured")
)

// timeNow allows tests to pin the clock.
var timeNow = time.Now

// Config holds token configuration.
type Config struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// Claims are the claims carried by a login token. The subject is the employee code.
type Claims struct {
	EmployeeName string `json:"employee_name"`
	jwt.RegisteredClaims
}

// Identity returns the identity the token was issued to.
func (c *Claims) Identity() domain.Identity {
	return domain.Identity{EmployeeID: c.Subject, EmployeeName: c.EmployeeName}
}

// TokenManager handles JWT token operations.
type TokenManager struct {
	config Config
}

// NewTokenManager creates a new TokenManager with the given configuration.
func NewTokenManager(config Config) *TokenManager {
	return &TokenManager{config: config}
}

// Enabled reports whether tokens can be issued.
func (m *TokenManager) Enabled() bool {
	return m != nil && m.config.Secret != ""
}

// Issue signs a token for the given identity and returns it with its expiry.
func (m *TokenManager) Issue(identity domain.Identity) (string, time.Time, error) {
	if !m.Enabled() {
		return "", time.Time{}, ErrSigningDisabled
	}

	now := timeNow()
	expires := now.Add(m.config.TTL)
	claims := Claims{
		EmployeeName: identity.EmployeeName,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.config.Issuer,
			Subject:   identity.EmployeeID,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.config.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// Validate checks the token signature, issuer and expiry and returns its claims.
func (m *TokenManager) Validate(tokenString string) (*Claims, error) {
	if !m.Enabled() {
		return nil, ErrSigningDisabled
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(timeNow),
	}
	if m.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.config.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(m.config.Secret), nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
