package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"livemusicnotes/internal/httputil"
	"livemusicnotes/internal/model"
)

type ArtistService interface {
	List(ctx context.Context, search string, pageNumber int) (*model.Page[model.Artist], error)
	Get(ctx context.Context, id int64) (*model.Artist, error)
	ShowsForArtist(ctx context.Context, artistID int64, pageNumber int) (*model.Page[model.Show], error)
	Create(ctx context.Context, req model.CreateArtistRequest) (*model.Artist, error)
}

type ArtistHandler struct {
	artists ArtistService
}

func NewArtistHandler(artists ArtistService) *ArtistHandler {
	return &ArtistHandler{artists: artists}
}

// GET /artists?search_name=&page=
func (h *ArtistHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.artists.List(r.Context(), r.URL.Query().Get("search_name"), pageParam(r))
	if err != nil {
		writeServiceError(w, r, err, "Failed to list artists")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, page)
}

// GET /artists/{id}
func (h *ArtistHandler) Get(w http.ResponseWriter, r *http.Request) {
	artistID, ok := parseIDParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid artist ID")
		return
	}

	artist, err := h.artists.Get(r.Context(), artistID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to get artist")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, artist)
}

// GET /artists/{id}/shows?page=
func (h *ArtistHandler) Shows(w http.ResponseWriter, r *http.Request) {
	artistID, ok := parseIDParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid artist ID")
		return
	}

	page, err := h.artists.ShowsForArtist(r.Context(), artistID, pageParam(r))
	if err != nil {
		writeServiceError(w, r, err, "Failed to list shows")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, page)
}

// POST /artists
func (h *ArtistHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req model.CreateArtistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	artist, err := h.artists.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "Failed to create artist")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, artist)
}
