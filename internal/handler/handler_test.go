package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"livemusicnotes/internal/httputil"
	"livemusicnotes/internal/model"
	"livemusicnotes/internal/transport/http/middleware"
	"livemusicnotes/internal/validation"
)

// =============================================================================
// MOCKS
// =============================================================================

type mockNoteService struct {
	createFn func(ctx context.Context, userID, showID int64, form validation.NoteForm, photo *model.ImageUpload) (*model.Note, error)
	updateFn func(ctx context.Context, userID, noteID int64, form validation.NoteForm, change model.PhotoChange) (*model.Note, error)
	deleteFn func(ctx context.Context, userID, noteID int64) error
	byUserFn func(ctx context.Context, userID int64, pageNumber int) (*model.Page[model.Note], error)
	searchFn func(ctx context.Context, search string, pageNumber int) (*model.Page[model.Note], error)
}

func (m *mockNoteService) Create(ctx context.Context, userID, showID int64, form validation.NoteForm, photo *model.ImageUpload) (*model.Note, error) {
	return m.createFn(ctx, userID, showID, form, photo)
}

func (m *mockNoteService) Update(ctx context.Context, userID, noteID int64, form validation.NoteForm, change model.PhotoChange) (*model.Note, error) {
	return m.updateFn(ctx, userID, noteID, form, change)
}

func (m *mockNoteService) Delete(ctx context.Context, userID, noteID int64) error {
	return m.deleteFn(ctx, userID, noteID)
}

func (m *mockNoteService) Get(ctx context.Context, id int64) (*model.Note, error) {
	return nil, model.ErrNoteNotFound
}

func (m *mockNoteService) ForShow(ctx context.Context, showID int64, pageNumber int) (*model.Page[model.Note], error) {
	return model.NewPage[model.Note](nil, 1, model.DefaultPageSize, 0), nil
}

func (m *mockNoteService) ByUser(ctx context.Context, userID int64, pageNumber int) (*model.Page[model.Note], error) {
	if m.byUserFn != nil {
		return m.byUserFn(ctx, userID, pageNumber)
	}
	return model.NewPage[model.Note](nil, 1, model.DefaultPageSize, 0), nil
}

func (m *mockNoteService) Latest(ctx context.Context, pageNumber int) (*model.Page[model.Note], error) {
	return model.NewPage[model.Note](nil, 1, model.DefaultPageSize, 0), nil
}

func (m *mockNoteService) Search(ctx context.Context, search string, pageNumber int) (*model.Page[model.Note], error) {
	return m.searchFn(ctx, search, pageNumber)
}

type mockVenueService struct {
	listFn func(ctx context.Context, search string, pageNumber int) (*model.Page[model.Venue], error)
}

func (m *mockVenueService) List(ctx context.Context, search string, pageNumber int) (*model.Page[model.Venue], error) {
	return m.listFn(ctx, search, pageNumber)
}

func (m *mockVenueService) Get(ctx context.Context, id int64) (*model.Venue, error) {
	return nil, model.ErrVenueNotFound
}

func (m *mockVenueService) ShowsAtVenue(ctx context.Context, venueID int64, pageNumber int) (*model.Page[model.Show], error) {
	return nil, model.ErrVenueNotFound
}

func (m *mockVenueService) Create(ctx context.Context, form validation.VenueForm, thumbnail *model.ImageUpload) (*model.Venue, error) {
	return nil, errors.New("not implemented")
}

type mockUserService struct {
	registerFn   func(ctx context.Context, req model.RegisterRequest) (*model.User, error)
	loginFn      func(ctx context.Context, req model.LoginRequest) (*model.User, error)
	getProfileFn func(ctx context.Context, userID int64) (*model.ProfileResponse, error)
}

func (m *mockUserService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	return m.registerFn(ctx, req)
}

func (m *mockUserService) Login(ctx context.Context, req model.LoginRequest) (*model.User, error) {
	return m.loginFn(ctx, req)
}

func (m *mockUserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return &model.User{ID: id, Username: "testuser"}, nil
}

func (m *mockUserService) GetProfile(ctx context.Context, userID int64) (*model.ProfileResponse, error) {
	return m.getProfileFn(ctx, userID)
}

func (m *mockUserService) UpdateBio(ctx context.Context, userID int64, req model.UpdateProfileRequest) (*model.Profile, error) {
	return &model.Profile{UserID: userID, Bio: req.Bio}, nil
}

type stubTokens struct{}

func (stubTokens) NewAuthResponse(user *model.User) (*model.AuthResponse, error) {
	return &model.AuthResponse{User: user, AccessToken: "token-for-" + user.Username, ExpiresIn: 3600}, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// asUser runs requests as if AuthMiddleware had authenticated userID.
func asUser(userID int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithUserID(r.Context(), userID)))
		})
	}
}

func multipartBody(t *testing.T, fields map[string]string, fileField string, file []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, "photo.png")
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		fw.Write(file)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httputil.ErrorDetail {
	t.Helper()
	var resp httputil.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return resp.Error
}

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// =============================================================================
// NOTE HANDLER TESTS
// =============================================================================

func TestNoteHandler_Create(t *testing.T) {
	var gotForm validation.NoteForm
	var gotPhoto *model.ImageUpload
	var gotUser, gotShow int64
	notes := &mockNoteService{
		createFn: func(ctx context.Context, userID, showID int64, form validation.NoteForm, photo *model.ImageUpload) (*model.Note, error) {
			gotUser, gotShow, gotForm, gotPhoto = userID, showID, form, photo
			return &model.Note{ID: 9, UserID: userID, ShowID: showID, Title: form.Title}, nil
		},
	}
	r := chi.NewRouter()
	r.With(asUser(7)).Post("/shows/{id}/notes", NewNoteHandler(notes).Create)

	body, contentType := multipartBody(t, map[string]string{
		"title":  "Great set",
		"text":   "Loud.",
		"rating": "5",
	}, "photo", pngHeader)
	req := httptest.NewRequest(http.MethodPost, "/shows/3/notes", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	if gotUser != 7 || gotShow != 3 {
		t.Errorf("user/show = %d/%d, want 7/3", gotUser, gotShow)
	}
	if gotForm.Title != "Great set" || gotForm.Rating == nil || *gotForm.Rating != 5 {
		t.Errorf("form = %+v", gotForm)
	}
	if gotPhoto == nil || gotPhoto.ContentType != model.ContentTypePNG {
		t.Errorf("photo = %+v, want sniffed png upload", gotPhoto)
	}
}

func TestNoteHandler_Create_ValidationError(t *testing.T) {
	notes := &mockNoteService{
		createFn: func(ctx context.Context, userID, showID int64, form validation.NoteForm, photo *model.ImageUpload) (*model.Note, error) {
			return nil, form.Validate()
		},
	}
	r := chi.NewRouter()
	r.With(asUser(7)).Post("/shows/{id}/notes", NewNoteHandler(notes).Create)

	body, contentType := multipartBody(t, map[string]string{"title": "x", "text": "y", "rating": "abc"}, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/shows/3/notes", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	detail := decodeError(t, rec)
	if detail.Code != httputil.ErrCodeValidation || detail.Fields["rating"] != validation.MsgWholeNumber {
		t.Errorf("error = %+v", detail)
	}
}

func TestNoteHandler_Create_RejectsNonImage(t *testing.T) {
	notes := &mockNoteService{
		createFn: func(ctx context.Context, userID, showID int64, form validation.NoteForm, photo *model.ImageUpload) (*model.Note, error) {
			t.Error("service should not be called")
			return nil, nil
		},
	}
	r := chi.NewRouter()
	r.With(asUser(7)).Post("/shows/{id}/notes", NewNoteHandler(notes).Create)

	body, contentType := multipartBody(t, map[string]string{"title": "x", "text": "y", "rating": "3"}, "photo", []byte("plain text, not an image"))
	req := httptest.NewRequest(http.MethodPost, "/shows/3/notes", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if detail := decodeError(t, rec); detail.Code != model.CodeInvalidImageType {
		t.Errorf("code = %q, want %q", detail.Code, model.CodeInvalidImageType)
	}
}

func TestNoteHandler_Update_PhotoClear(t *testing.T) {
	var gotChange model.PhotoChange
	notes := &mockNoteService{
		updateFn: func(ctx context.Context, userID, noteID int64, form validation.NoteForm, change model.PhotoChange) (*model.Note, error) {
			gotChange = change
			return &model.Note{ID: noteID}, nil
		},
	}
	r := chi.NewRouter()
	r.With(asUser(7)).Put("/notes/{id}", NewNoteHandler(notes).Update)

	body, contentType := multipartBody(t, map[string]string{
		"title": "t", "text": "x", "rating": "2", "photo_clear": "true",
	}, "", nil)
	req := httptest.NewRequest(http.MethodPut, "/notes/4", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if !gotChange.Clear || gotChange.Photo != nil {
		t.Errorf("change = %+v, want clear only", gotChange)
	}
}

func TestNoteHandler_Update_PhotoAndClearConflict(t *testing.T) {
	notes := &mockNoteService{
		updateFn: func(ctx context.Context, userID, noteID int64, form validation.NoteForm, change model.PhotoChange) (*model.Note, error) {
			t.Error("service should not be called")
			return nil, nil
		},
	}
	r := chi.NewRouter()
	r.With(asUser(7)).Put("/notes/{id}", NewNoteHandler(notes).Update)

	body, contentType := multipartBody(t, map[string]string{
		"title": "t", "text": "x", "rating": "2", "photo_clear": "on",
	}, "photo", pngHeader)
	req := httptest.NewRequest(http.MethodPut, "/notes/4", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if detail := decodeError(t, rec); detail.Fields["photo"] == "" {
		t.Errorf("error = %+v, want photo field error", detail)
	}
}

func TestNoteHandler_Delete(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"deleted", nil, http.StatusNoContent},
		{"not owner", model.ErrNotNoteOwner, http.StatusForbidden},
		{"not found", model.ErrNoteNotFound, http.StatusNotFound},
		{"storage failure", errors.New("delete note photo: storage unavailable"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notes := &mockNoteService{
				deleteFn: func(ctx context.Context, userID, noteID int64) error { return tt.err },
			}
			r := chi.NewRouter()
			r.With(asUser(7)).Delete("/notes/{id}", NewNoteHandler(notes).Delete)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/notes/4", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestNoteHandler_Delete_InvalidID(t *testing.T) {
	r := chi.NewRouter()
	r.With(asUser(7)).Delete("/notes/{id}", NewNoteHandler(&mockNoteService{}).Delete)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/notes/abc", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestNoteHandler_Search_PassesQuery(t *testing.T) {
	var gotSearch string
	var gotPage int
	notes := &mockNoteService{
		searchFn: func(ctx context.Context, search string, pageNumber int) (*model.Page[model.Note], error) {
			gotSearch, gotPage = search, pageNumber
			return model.NewPage[model.Note](nil, 1, model.DefaultPageSize, 0), nil
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/notes/search?search_name=encore&page=2", nil)
	NewNoteHandler(notes).Search(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if gotSearch != "encore" || gotPage != 2 {
		t.Errorf("search/page = %q/%d", gotSearch, gotPage)
	}
}

// =============================================================================
// VENUE HANDLER TESTS
// =============================================================================

func TestVenueHandler_List(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantPage int
	}{
		{"default page", "", 1},
		{"explicit page", "?page=3", 3},
		{"garbage page", "?page=abc", 1},
		{"negative page", "?page=-2", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPage int
			venues := &mockVenueService{
				listFn: func(ctx context.Context, search string, pageNumber int) (*model.Page[model.Venue], error) {
					gotPage = pageNumber
					return model.NewPage([]model.Venue{{ID: 1, Name: "Fillmore"}}, 1, model.DefaultPageSize, 1), nil
				},
			}

			rec := httptest.NewRecorder()
			NewVenueHandler(venues).List(rec, httptest.NewRequest(http.MethodGet, "/venues"+tt.query, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
			}
			if gotPage != tt.wantPage {
				t.Errorf("page = %d, want %d", gotPage, tt.wantPage)
			}

			var page model.Page[model.Venue]
			if err := json.NewDecoder(rec.Body).Decode(&page); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(page.Items) != 1 || page.PageSize != model.DefaultPageSize {
				t.Errorf("page = %+v", page)
			}
		})
	}
}

func TestVenueHandler_List_BadSearch(t *testing.T) {
	venues := &mockVenueService{
		listFn: func(ctx context.Context, search string, pageNumber int) (*model.Page[model.Venue], error) {
			return nil, validation.SearchForm{SearchName: search}.Validate()
		},
	}

	rec := httptest.NewRecorder()
	NewVenueHandler(venues).List(rec, httptest.NewRequest(http.MethodGet, "/venues?search_name=%20%20", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if detail := decodeError(t, rec); detail.Fields["search_name"] != validation.MsgRequired {
		t.Errorf("error = %+v", detail)
	}
}

func TestVenueHandler_Get_NotFound(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/venues/{id}", NewVenueHandler(&mockVenueService{}).Get)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/venues/12", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

// =============================================================================
// AUTH AND USER HANDLER TESTS
// =============================================================================

func TestAuthHandler_Register(t *testing.T) {
	users := &mockUserService{
		registerFn: func(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
			return &model.User{ID: 1, Username: req.Username}, nil
		},
	}
	h := NewAuthHandler(users, stubTokens{}, false)

	body := `{"username":"alice","email":"a@example.com","first_name":"A","last_name":"L","password1":"pw","password2":"pw"}`
	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var resp model.AuthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.AccessToken != "token-for-alice" {
		t.Errorf("access token = %q", resp.AccessToken)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != middleware.AccessTokenCookie || !cookies[0].HttpOnly {
		t.Errorf("cookies = %+v, want one http-only access_token cookie", cookies)
	}
}

func TestAuthHandler_Register_TakenUsername(t *testing.T) {
	users := &mockUserService{
		registerFn: func(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
			return nil, &validation.Error{
				Fields: validation.Errors{"username": validation.MsgUsernameTaken},
				Cause:  model.ErrUsernameExists,
			}
		},
	}
	h := NewAuthHandler(users, stubTokens{}, false)

	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(`{"username":"alice"}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if detail := decodeError(t, rec); detail.Fields["username"] != validation.MsgUsernameTaken {
		t.Errorf("error = %+v", detail)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		loginErr   error
		wantStatus int
	}{
		{"success", `{"username":"alice","password":"pw"}`, nil, http.StatusOK},
		{"bad credentials", `{"username":"alice","password":"nope"}`, model.ErrInvalidCredentials, http.StatusUnauthorized},
		{"missing password", `{"username":"alice"}`, nil, http.StatusBadRequest},
		{"invalid json", `{`, nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &mockUserService{
				loginFn: func(ctx context.Context, req model.LoginRequest) (*model.User, error) {
					if tt.loginErr != nil {
						return nil, tt.loginErr
					}
					return &model.User{ID: 1, Username: req.Username}, nil
				},
			}
			h := NewAuthHandler(users, stubTokens{}, false)

			rec := httptest.NewRecorder()
			h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tt.body)))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestUserHandler_GetProfile_IncludesNotes(t *testing.T) {
	users := &mockUserService{
		getProfileFn: func(ctx context.Context, userID int64) (*model.ProfileResponse, error) {
			return &model.ProfileResponse{User: &model.User{ID: userID, Username: "alice"}, Bio: "hi"}, nil
		},
	}
	notes := &mockNoteService{
		byUserFn: func(ctx context.Context, userID int64, pageNumber int) (*model.Page[model.Note], error) {
			return model.NewPage([]model.Note{{ID: 1, UserID: userID}}, 1, model.DefaultPageSize, 1), nil
		},
	}
	r := chi.NewRouter()
	r.Get("/users/{id}", NewUserHandler(users, notes).GetProfile)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/5", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var resp model.ProfileResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Bio != "hi" || resp.Notes == nil || len(resp.Notes.Items) != 1 {
		t.Errorf("profile = %+v", resp)
	}
}

func TestUserHandler_GetProfile_NotFound(t *testing.T) {
	users := &mockUserService{
		getProfileFn: func(ctx context.Context, userID int64) (*model.ProfileResponse, error) {
			return nil, model.ErrUserNotFound
		},
	}
	r := chi.NewRouter()
	r.Get("/users/{id}", NewUserHandler(users, &mockNoteService{}).GetProfile)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/5", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
