package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"livemusicnotes/internal/httputil"
	"livemusicnotes/internal/logging"
	"livemusicnotes/internal/model"
	"livemusicnotes/internal/service"
	"livemusicnotes/internal/validation"
)

// maxFormSize bounds a multipart body: one photo plus the text fields.
const maxFormSize = model.MaxPhotoSizeBytes + 1<<20

func parseIDParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func pageParam(r *http.Request) int {
	return model.ParsePageNumber(r.URL.Query().Get("page"))
}

// parseMultipart reads a multipart body capped at maxFormSize. It writes the
// error response itself and reports whether the handler may continue.
func parseMultipart(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, http.ErrNotMultipart):
			httputil.WriteBadRequest(w, "Content-Type must be multipart/form-data")
		case errors.As(err, &tooLarge):
			httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "Upload exceeds 10MB limit")
		default:
			httputil.WriteBadRequest(w, "Invalid form data")
		}
		return false
	}
	return true
}

// formImage returns the uploaded image in field, or nil when none was sent.
func formImage(r *http.Request, field string) (*model.ImageUpload, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return service.ReadImage(file, header)
}

func formBool(r *http.Request, field string) bool {
	switch strings.ToLower(strings.TrimSpace(r.FormValue(field))) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// writeServiceError maps a service error onto an HTTP response. Anything it
// does not recognise is logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if fields, ok := validation.FieldsOf(err); ok {
		httputil.WriteValidationError(w, fields)
		return
	}

	switch {
	case errors.Is(err, model.ErrUserNotFound):
		httputil.WriteNotFound(w, "User not found")
	case errors.Is(err, model.ErrVenueNotFound):
		httputil.WriteNotFound(w, "Venue not found")
	case errors.Is(err, model.ErrArtistNotFound):
		httputil.WriteNotFound(w, "Artist not found")
	case errors.Is(err, model.ErrShowNotFound):
		httputil.WriteNotFound(w, "Show not found")
	case errors.Is(err, model.ErrNoteNotFound):
		httputil.WriteNotFound(w, "Note not found")
	case errors.Is(err, model.ErrNotNoteOwner):
		httputil.WriteForbidden(w, "You can only change your own notes")
	case errors.Is(err, model.ErrInvalidCredentials):
		httputil.WriteUnauthorized(w, "Invalid username or password")
	case errors.Is(err, model.ErrFileTooLarge):
		httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "Upload exceeds 10MB limit")
	case errors.Is(err, model.ErrInvalidImageType):
		httputil.WriteBadRequestWithCode(w, model.CodeInvalidImageType, "Unsupported image type. Allowed: jpeg, png, gif, webp")
	default:
		logging.FromContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg(fallback)
		httputil.WriteInternalError(w, fallback)
	}
}
