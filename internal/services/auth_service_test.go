package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timestrap/internal/auth"
	"timestrap/internal/errors"
)

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name           string
		code           string
		employeeName   string
		errorAssertion func(t *testing.T, err error)
	}{
		{
			name:         "should log in with matching name",
			code:         "E001",
			employeeName: "Ada Lovelace",
		},
		{
			name:         "should ignore case and surrounding spaces in name",
			code:         " E001 ",
			employeeName: "  ada LOVELACE ",
		},
		{
			name:         "should reject missing code",
			code:         "",
			employeeName: "Ada Lovelace",
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
			},
		},
		{
			name:         "should reject missing name",
			code:         "E001",
			employeeName: "   ",
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
			},
		},
		{
			name:         "should return not found for unknown code",
			code:         "E999",
			employeeName: "Ada Lovelace",
			errorAssertion: func(t *testing.T, err error) {
				assert.Equal(t, 404, errors.HTTPStatus(err))
			},
		},
		{
			name:         "should deny wrong name",
			code:         "E001",
			employeeName: "Grace Hopper",
			errorAssertion: func(t *testing.T, err error) {
				assert.Equal(t, 401, errors.HTTPStatus(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := setupRepo(t)
			seedEmployee(t, repo, "E001", "Ada Lovelace")
			service := NewAuthService(repo, nil)

			result, err := service.Login(context.Background(), tt.code, tt.employeeName)

			if tt.errorAssertion != nil {
				require.Error(t, err)
				tt.errorAssertion(t, err)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "E001", result.Employee.Code)
			assert.Equal(t, "Ada Lovelace", result.Employee.Name)
			assert.Empty(t, result.Token)
		})
	}
}

func TestAuthService_LoginIssuesToken(t *testing.T) {
	repo := setupRepo(t)
	seedEmployee(t, repo, "E001", "Ada Lovelace")
	tokens := auth.NewTokenManager(auth.Config{Secret: "s3cret", TTL: time.Hour, Issuer: "timestrap"})
	service := NewAuthService(repo, tokens)

	result, err := service.Login(context.Background(), "E001", "ada lovelace")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)

	claims, err := tokens.Validate(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "E001", claims.Identity().EmployeeID)
	assert.Equal(t, "Ada Lovelace", claims.Identity().EmployeeName)
}
