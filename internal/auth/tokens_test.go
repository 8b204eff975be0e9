package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timestrap/internal/domain"
)

func pinClock(t *testing.T, at time.Time) {
	t.Helper()
	previous := timeNow
	timeNow = func() time.Time { return at }
	t.Cleanup(func() { timeNow = previous })
}

func testManager() *TokenManager {
	return NewTokenManager(Config{Secret: "test-secret", TTL: time.Hour, Issuer: "timestrap"})
}

func TestTokenManager_IssueAndValidate(t *testing.T) {
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	pinClock(t, now)
	manager := testManager()

	token, expires, err := manager.Issue(domain.Identity{EmployeeID: "E001", EmployeeName: "Ada"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, now.Add(time.Hour), expires)

	claims, err := manager.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "E001", claims.Subject)
	assert.Equal(t, domain.Identity{EmployeeID: "E001", EmployeeName: "Ada"}, claims.Identity())
	assert.Equal(t, "timestrap", claims.Issuer)
}

func TestTokenManager_Expired(t *testing.T) {
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	pinClock(t, now)
	manager := testManager()

	token, _, err := manager.Issue(domain.Identity{EmployeeID: "E001", EmployeeName: "Ada"})
	require.NoError(t, err)

	pinClock(t, now.Add(2*time.Hour))
	_, err = manager.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	token, _, err := testManager().Issue(domain.Identity{EmployeeID: "E001", EmployeeName: "Ada"})
	require.NoError(t, err)

	other := NewTokenManager(Config{Secret: "other", TTL: time.Hour, Issuer: "timestrap"})
	_, err = other.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_WrongIssuer(t *testing.T) {
	token, _, err := NewTokenManager(Config{Secret: "test-secret", TTL: time.Hour, Issuer: "elsewhere"}).
		Issue(domain.Identity{EmployeeID: "E001", EmployeeName: "Ada"})
	require.NoError(t, err)

	_, err = testManager().Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Garbage(t *testing.T) {
	_, err := testManager().Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Disabled(t *testing.T) {
	manager := NewTokenManager(Config{TTL: time.Hour})

	assert.False(t, manager.Enabled())
	_, _, err := manager.Issue(domain.Identity{EmployeeID: "E001"})
	assert.ErrorIs(t, err, ErrSigningDisabled)
	_, err = manager.Validate("x")
	assert.ErrorIs(t, err, ErrSigningDisabled)
}
