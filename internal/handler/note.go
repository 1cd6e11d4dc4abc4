package handler

import (
	"context"
	"net/http"

	"livemusicnotes/internal/httputil"
	"livemusicnotes/internal/model"
	"livemusicnotes/internal/transport/http/middleware"
	"livemusicnotes/internal/validation"
)

type NoteService interface {
	Create(ctx context.Context, userID, showID int64, form validation.NoteForm, photo *model.ImageUpload) (*model.Note, error)
	Update(ctx context.Context, userID, noteID int64, form validation.NoteForm, change model.PhotoChange) (*model.Note, error)
	Delete(ctx context.Context, userID, noteID int64) error
	Get(ctx context.Context, id int64) (*model.Note, error)
	ForShow(ctx context.Context, showID int64, pageNumber int) (*model.Page[model.Note], error)
	ByUser(ctx context.Context, userID int64, pageNumber int) (*model.Page[model.Note], error)
	Latest(ctx context.Context, pageNumber int) (*model.Page[model.Note], error)
	Search(ctx context.Context, search string, pageNumber int) (*model.Page[model.Note], error)
}

type NoteHandler struct {
	notes NoteService
}

func NewNoteHandler(notes NoteService) *NoteHandler {
	return &NoteHandler{notes: notes}
}

// Create posts a note about a show. Multipart fields: title, text, rating,
// and an optional photo.
// POST /shows/{id}/notes
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}
	showID, ok := parseIDParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid show ID")
		return
	}
	if !parseMultipart(w, r) {
		return
	}

	form := validation.ParseNoteForm(r.MultipartForm.Value)
	photo, err := formImage(r, "photo")
	if err != nil {
		writeServiceError(w, r, err, "Invalid photo upload")
		return
	}

	note, err := h.notes.Create(r.Context(), userID, showID, form, photo)
	if err != nil {
		writeServiceError(w, r, err, "Failed to create note")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, note)
}

// Update edits a note. A new photo replaces the old one; photo_clear=true
// removes it. Sending neither keeps the current photo.
// PUT /notes/{id}
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}
	noteID, ok := parseIDParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid note ID")
		return
	}
	if !parseMultipart(w, r) {
		return
	}

	form := validation.ParseNoteForm(r.MultipartForm.Value)
	photo, err := formImage(r, "photo")
	if err != nil {
		writeServiceError(w, r, err, "Invalid photo upload")
		return
	}

	change := model.PhotoChange{Photo: photo, Clear: formBool(r, "photo_clear")}
	if change.Photo != nil && change.Clear {
		httputil.WriteValidationError(w, validation.Errors{
			"photo": "Please either submit a new file or check the clear checkbox, not both.",
		})
		return
	}

	note, err := h.notes.Update(r.Context(), userID, noteID, form, change)
	if err != nil {
		writeServiceError(w, r, err, "Failed to update note")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, note)
}

// Delete removes a note and its photo.
// DELETE /notes/{id}
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}
	noteID, ok := parseIDParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid note ID")
		return
	}

	if err := h.notes.Delete(r.Context(), userID, noteID); err != nil {
		writeServiceError(w, r, err, "Failed to delete note")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GET /notes/{id}
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	noteID, ok := parseIDParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid note ID")
		return
	}

	note, err := h.notes.Get(r.Context(), noteID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to get note")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, note)
}

// ForShow lists notes about one show.
// GET /shows/{id}/notes?page=
func (h *NoteHandler) ForShow(w http.ResponseWriter, r *http.Request) {
	showID, ok := parseIDParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid show ID")
		return
	}

	page, err := h.notes.ForShow(r.Context(), showID, pageParam(r))
	if err != nil {
		writeServiceError(w, r, err, "Failed to list notes")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, page)
}

// GET /notes/latest?page=
func (h *NoteHandler) Latest(w http.ResponseWriter, r *http.Request) {
	page, err := h.notes.Latest(r.Context(), pageParam(r))
	if err != nil {
		writeServiceError(w, r, err, "Failed to list notes")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, page)
}

// Search lists notes whose title contains search_name.
// GET /notes/search?search_name=&page=
func (h *NoteHandler) Search(w http.ResponseWriter, r *http.Request) {
	page, err := h.notes.Search(r.Context(), r.URL.Query().Get("search_name"), pageParam(r))
	if err != nil {
		writeServiceError(w, r, err, "Failed to search notes")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, page)
}
