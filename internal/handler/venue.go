package handler

import (
	"context"
	"net/http"

	"livemusicnotes/internal/httputil"
	"livemusicnotes/internal/model"
	"livemusicnotes/internal/validation"
)

type VenueService interface {
	List(ctx context.Context, search string, pageNumber int) (*model.Page[model.Venue], error)
	Get(ctx context.Context, id int64) (*model.Venue, error)
	ShowsAtVenue(ctx context.Context, venueID int64, pageNumber int) (*model.Page[model.Show], error)
	Create(ctx context.Context, form validation.VenueForm, thumbnail *model.ImageUpload) (*model.Venue, error)
}

type VenueHandler struct {
	venues VenueService
}

func NewVenueHandler(venues VenueService) *VenueHandler {
	return &VenueHandler{venues: venues}
}

// List returns 25 venues per page ordered by name.
// GET /venues?search_name=&page=
func (h *VenueHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.venues.List(r.Context(), r.URL.Query().Get("search_name"), pageParam(r))
	if err != nil {
		writeServiceError(w, r, err, "Failed to list venues")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, page)
}

// GET /venues/{id}
func (h *VenueHandler) Get(w http.ResponseWriter, r *http.Request) {
	venueID, ok := parseIDParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid venue ID")
		return
	}

	venue, err := h.venues.Get(r.Context(), venueID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to get venue")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, venue)
}

// Shows lists the shows at a venue, most recent first.
// GET /venues/{id}/shows?page=
func (h *VenueHandler) Shows(w http.ResponseWriter, r *http.Request) {
	venueID, ok := parseIDParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid venue ID")
		return
	}

	page, err := h.venues.ShowsAtVenue(r.Context(), venueID, pageParam(r))
	if err != nil {
		writeServiceError(w, r, err, "Failed to list shows")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, page)
}

// Create adds a venue from a multipart form with an optional thumbnail.
// POST /venues
func (h *VenueHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseMultipart(w, r) {
		return
	}

	form := validation.ParseVenueForm(r.MultipartForm.Value)
	thumbnail, err := formImage(r, "thumbnail")
	if err != nil {
		writeServiceError(w, r, err, "Invalid thumbnail upload")
		return
	}

	venue, err := h.venues.Create(r.Context(), form, thumbnail)
	if err != nil {
		writeServiceError(w, r, err, "Failed to create venue")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, venue)
}
