package jwt

import (
	"net/http"
	"time"

	"github.com/chronotrack/attendance-backend-go/internal/domain/employee"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

type Service interface {
	GenerateAccessToken(employeeID, orgID string, role employee.Role) (token string, expiresAt int64, err error)
	GenerateRefreshToken(employeeID, orgID string) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
	RefreshTokenCookie(token string, expiresAt int64) *http.Cookie
	DecodeRefreshToken(tokenString string) (employeeID, orgID string, err error)
}

type JWTService struct {
	secretKey                  string
	accessTokenExpirationTime  string
	refreshTokenExpirationTime string
	tokenAuth                  *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string, refreshTokenExpirationTime string) Service {
	return &JWTService{
		secretKey:                  secretKey,
		accessTokenExpirationTime:  accessTokenExpirationTime,
		refreshTokenExpirationTime: refreshTokenExpirationTime,
		tokenAuth:                  jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) GenerateAccessToken(employeeID, orgID string, role employee.Role) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"employee_id": employeeID,
		"org_id":      orgID,
		"role":        string(role),
		"type":        "access",
		"exp":         expiresAt,
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) GenerateRefreshToken(employeeID, orgID string) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.refreshTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"employee_id": employeeID,
		"org_id":      orgID,
		"exp":         expiresAt,
		"type":        "refresh",
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) RefreshTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/api/v1/auth",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteStrictMode,
	}
}

// DecodeRefreshToken validates a refresh token and returns the employee
// and org IDs carried in it.
func (j *JWTService) DecodeRefreshToken(tokenString string) (string, string, error) {
	token, err := j.tokenAuth.Decode(tokenString)
	if err != nil {
		return "", "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != "refresh" {
		return "", "", jwt.ErrInvalidJWT()
	}

	employeeID, ok := stringClaim(token.Get("employee_id"))
	if !ok {
		return "", "", jwt.ErrInvalidJWT()
	}
	orgID, ok := stringClaim(token.Get("org_id"))
	if !ok {
		return "", "", jwt.ErrInvalidJWT()
	}

	return employeeID, orgID, nil
}

func stringClaim(v interface{}, ok bool) (string, bool) {
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
