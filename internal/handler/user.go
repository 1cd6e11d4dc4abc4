package handler

import (
	"encoding/json"
	"net/http"

	"livemusicnotes/internal/httputil"
	"livemusicnotes/internal/model"
	"livemusicnotes/internal/transport/http/middleware"
)

type UserHandler struct {
	users UserService
	notes NoteService
}

func NewUserHandler(users UserService, notes NoteService) *UserHandler {
	return &UserHandler{users: users, notes: notes}
}

// GetProfile returns the user, their bio and a page of their notes.
// GET /users/{id}?page=
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseIDParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	profile, err := h.users.GetProfile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to get profile")
		return
	}

	profile.Notes, err = h.notes.ByUser(r.Context(), userID, pageParam(r))
	if err != nil {
		writeServiceError(w, r, err, "Failed to get notes")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// UpdateProfile replaces the caller's bio.
// PUT /me/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req model.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	profile, err := h.users.UpdateBio(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, r, err, "Failed to update profile")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}
