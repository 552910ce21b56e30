package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/chronotrack/attendance-backend-go/internal/domain/auth"
	"github.com/chronotrack/attendance-backend-go/internal/domain/employee"
	"github.com/chronotrack/attendance-backend-go/internal/pkg/jwt"
)

type service struct {
	employees employee.Store
	jwt       jwt.Service
}

func NewAuthService(employees employee.Store, jwtService jwt.Service) auth.Service {
	return &service{employees: employees, jwt: jwtService}
}

// Login implements auth.Service. A missing employee and a wrong password
// produce the same error so the endpoint leaks nothing about which
// codes exist.
func (s *service) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	emp, err := s.employees.GetByCode(ctx, req.EmployeeCode)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	if !emp.IsActive || emp.PasswordHash == nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*emp.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	return s.issueTokens(emp)
}

// Refresh implements auth.Service.
func (s *service) Refresh(ctx context.Context, req auth.RefreshRequest) (auth.TokenResponse, error) {
	employeeID, orgID, err := s.jwt.DecodeRefreshToken(req.RefreshToken)
	if err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidToken
	}

	emp, err := s.employees.GetByID(ctx, employeeID, orgID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidToken
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	if !emp.IsActive {
		return auth.TokenResponse{}, auth.ErrInvalidToken
	}

	return s.issueTokens(emp)
}

func (s *service) issueTokens(emp employee.Employee) (auth.TokenResponse, error) {
	accessToken, accessExp, err := s.jwt.GenerateAccessToken(emp.ID, emp.OrgID, emp.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, refreshExp, err := s.jwt.GenerateRefreshToken(emp.ID, emp.OrgID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  accessExp,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: refreshExp,
	}, nil
}
