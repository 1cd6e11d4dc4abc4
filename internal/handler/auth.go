package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"livemusicnotes/internal/httputil"
	"livemusicnotes/internal/model"
	"livemusicnotes/internal/transport/http/middleware"
)

// UserService is the account side of the API.
type UserService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetProfile(ctx context.Context, userID int64) (*model.ProfileResponse, error)
	UpdateBio(ctx context.Context, userID int64, req model.UpdateProfileRequest) (*model.Profile, error)
}

// TokenIssuer turns an authenticated user into an auth response.
type TokenIssuer interface {
	NewAuthResponse(user *model.User) (*model.AuthResponse, error)
}

// AuthHandler groups auth-related HTTP endpoints and their dependencies.
type AuthHandler struct {
	users        UserService
	tokens       TokenIssuer
	secureCookie bool
}

// NewAuthHandler wires dependencies for authentication endpoints.
func NewAuthHandler(users UserService, tokens TokenIssuer, secureCookie bool) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, secureCookie: secureCookie}
}

// Register creates an account and logs it in.
// POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.users.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "Failed to register")
		return
	}

	h.writeAuth(w, r, http.StatusCreated, user)
}

// Login handles user login
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if req.Username == "" {
		httputil.WriteBadRequest(w, "Username is required")
		return
	}
	if req.Password == "" {
		httputil.WriteBadRequest(w, "Password is required")
		return
	}

	user, err := h.users.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "Failed to login")
		return
	}

	h.writeAuth(w, r, http.StatusOK, user)
}

// writeAuth issues a token, sets it as the access_token cookie for browser
// clients and returns it in the body for everyone else.
func (h *AuthHandler) writeAuth(w http.ResponseWriter, r *http.Request, status int, user *model.User) {
	resp, err := h.tokens.NewAuthResponse(user)
	if err != nil {
		writeServiceError(w, r, err, "Failed to generate token")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    resp.AccessToken,
		Path:     "/",
		MaxAge:   resp.ExpiresIn,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	httputil.WriteJSON(w, status, resp)
}

// Me returns the currently authenticated user
// GET /me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		writeServiceError(w, r, err, "Failed to get user")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}
