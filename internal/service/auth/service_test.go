package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/chronotrack/attendance-backend-go/internal/domain/auth"
	"github.com/chronotrack/attendance-backend-go/internal/domain/employee"
	"github.com/chronotrack/attendance-backend-go/internal/pkg/jwt"
	"github.com/chronotrack/attendance-backend-go/internal/repository/memory"
)

func testEmployee(t *testing.T, password string, active bool) employee.Employee {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	h := string(hash)
	return employee.Employee{
		ID:           "emp-1",
		OrgID:        "org-1",
		Code:         "E001",
		FullName:     "Alex Kim",
		Timezone:     "UTC",
		Role:         employee.RoleWorker,
		PasswordHash: &h,
		IsActive:     active,
	}
}

func newService(t *testing.T, emps ...employee.Employee) auth.Service {
	t.Helper()
	jwtService := jwt.NewJWTService("test-secret", "15m", "168h")
	return NewAuthService(memory.NewEmployeeStore(emps...), jwtService)
}

func TestLogin(t *testing.T) {
	svc := newService(t, testEmployee(t, "hunter2", true))

	tokens, err := svc.Login(context.Background(), auth.LoginRequest{EmployeeCode: "E001", Password: "hunter2"})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Greater(t, tokens.AccessTokenExpiresAt, int64(0))
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newService(t, testEmployee(t, "hunter2", true))

	_, err := svc.Login(context.Background(), auth.LoginRequest{EmployeeCode: "E001", Password: "nope"})
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_UnknownCode(t *testing.T) {
	svc := newService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{EmployeeCode: "E999", Password: "hunter2"})
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_InactiveEmployee(t *testing.T) {
	svc := newService(t, testEmployee(t, "hunter2", false))

	_, err := svc.Login(context.Background(), auth.LoginRequest{EmployeeCode: "E001", Password: "hunter2"})
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_MissingFields(t *testing.T) {
	svc := newService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{})
	require.Error(t, err)
}

func TestRefresh(t *testing.T) {
	svc := newService(t, testEmployee(t, "hunter2", true))

	tokens, err := svc.Login(context.Background(), auth.LoginRequest{EmployeeCode: "E001", Password: "hunter2"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), auth.RefreshRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestRefresh_AccessTokenRejected(t *testing.T) {
	svc := newService(t, testEmployee(t, "hunter2", true))

	tokens, err := svc.Login(context.Background(), auth.LoginRequest{EmployeeCode: "E001", Password: "hunter2"})
	require.NoError(t, err)

	// An access token is not acceptable where a refresh token is expected.
	_, err = svc.Refresh(context.Background(), auth.RefreshRequest{RefreshToken: tokens.AccessToken})
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRefresh_Garbage(t *testing.T) {
	svc := newService(t)

	_, err := svc.Refresh(context.Background(), auth.RefreshRequest{RefreshToken: "not-a-token"})
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}
