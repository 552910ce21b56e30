package http

import (
	"encoding/json"
	"net/http"

	"github.com/chronotrack/attendance-backend-go/internal/domain/auth"
	"github.com/chronotrack/attendance-backend-go/internal/handler/http/response"
	"github.com/chronotrack/attendance-backend-go/internal/pkg/jwt"
)

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	Refresh(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
}

type authHandlerImpl struct {
	authService auth.Service
	jwtService  jwt.Service
}

func NewAuthHandler(authService auth.Service, jwtService jwt.Service) AuthHandler {
	return &authHandlerImpl{
		authService: authService,
		jwtService:  jwtService,
	}
}

// Login implements AuthHandler. The refresh token also travels in an
// HTTP-only cookie for browser clients.
func (h *authHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	tokens, err := h.authService.Login(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	http.SetCookie(w, h.jwtService.RefreshTokenCookie(tokens.RefreshToken, tokens.RefreshTokenExpiresAt))
	response.Success(w, tokens)
}

// Refresh implements AuthHandler. The token comes from the cookie when
// the body omits it.
func (h *authHandlerImpl) Refresh(w http.ResponseWriter, r *http.Request) {
	var req auth.RefreshRequest
	// The body is optional for cookie-based clients.
	_ = json.NewDecoder(r.Body).Decode(&req)

	if req.RefreshToken == "" {
		cookie, err := r.Cookie("refresh_token")
		if err != nil {
			response.HandleError(w, auth.ErrNotAuthenticated)
			return
		}
		req.RefreshToken = cookie.Value
	}

	tokens, err := h.authService.Refresh(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	http.SetCookie(w, h.jwtService.RefreshTokenCookie(tokens.RefreshToken, tokens.RefreshTokenExpiresAt))
	response.Success(w, tokens)
}

// Logout implements AuthHandler by expiring the refresh cookie.
func (h *authHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.jwtService.RefreshTokenCookie("", 0))
	response.SuccessWithMessage(w, "Logged out", nil)
}
