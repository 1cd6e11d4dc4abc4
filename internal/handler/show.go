package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"livemusicnotes/internal/httputil"
	"livemusicnotes/internal/model"
)

type ShowService interface {
	Create(ctx context.Context, req model.CreateShowRequest) (*model.Show, error)
	Get(ctx context.Context, id int64) (*model.Show, error)
}

type ShowHandler struct {
	shows ShowService
}

func NewShowHandler(shows ShowService) *ShowHandler {
	return &ShowHandler{shows: shows}
}

// GET /shows/{id}
func (h *ShowHandler) Get(w http.ResponseWriter, r *http.Request) {
	showID, ok := parseIDParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid show ID")
		return
	}

	show, err := h.shows.Get(r.Context(), showID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to get show")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, show)
}

// POST /shows
func (h *ShowHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req model.CreateShowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	show, err := h.shows.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "Failed to create show")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, show)
}
