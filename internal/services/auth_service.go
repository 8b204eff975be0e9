package services

import (
	"context"
	"fmt"
	"strings"

	"timestrap/internal/auth"
	"timestrap/internal/domain"
	"timestrap/internal/errors"
	"timestrap/internal/repository/sqlstore"
)

// authServiceImpl implements the AuthService interface
type authServiceImpl struct {
	repo   sqlstore.Repository
	tokens *auth.TokenManager
	mapper *domain.EmployeeMapper
}

// NewAuthService creates a new AuthService instance. tokens may be nil, in which case logins
// succeed without a token.
func NewAuthService(repo sqlstore.Repository, tokens *auth.TokenManager) AuthService {
	return &authServiceImpl{
		repo:   repo,
		tokens: tokens,
		mapper: domain.NewEmployeeMapper(),
	}
}

// Login looks the employee up by code and compares the name without regard to case
func (a *authServiceImpl) Login(ctx context.Context, employeeCode, employeeName string) (*LoginResult, error) {
	code := strings.TrimSpace(employeeCode)
	name := strings.TrimSpace(employeeName)
	if code == "" || name == "" {
		return nil, errors.NewValidationError("employee ID and name are required", nil)
	}

	dbEmployee, err := a.repo.GetEmployeeByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	employee := a.mapper.FromDatabase(*dbEmployee)
	if !employee.MatchesName(name) {
		return nil, errors.NewPermissionError("login", "employee "+code)
	}

	result := &LoginResult{Employee: employee}
	if a.tokens != nil && a.tokens.Enabled() {
		token, expiresAt, err := a.tokens.Issue(employee.Identity())
		if err != nil {
			return nil, fmt.Errorf("issue token: %w", err)
		}
		result.Token = token
		result.ExpiresAt = expiresAt
	}
	return result, nil
}
