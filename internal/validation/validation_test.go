package validation

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"livemusicnotes/internal/model"
)

func noteValues(title, text, rating string) url.Values {
	return url.Values{"title": {title}, "text": {text}, "rating": {rating}}
}

func fieldsOf(t *testing.T, err error) Errors {
	t.Helper()
	fields, ok := FieldsOf(err)
	if !ok {
		t.Fatalf("expected *validation.Error, got %v", err)
	}
	return fields
}

func TestNoteForm_Valid(t *testing.T) {
	f := ParseNoteForm(noteValues("Great night", "Loud and fun", "5"))
	if err := f.Validate(); err != nil {
		t.Fatalf("expected valid form, got %v", err)
	}
	in := f.Input()
	if in.Title != "Great night" || in.Rating != 5 {
		t.Errorf("unexpected input: %+v", in)
	}
}

func TestNoteForm_BlankTitleAndText(t *testing.T) {
	// Every ASCII whitespace character, alone and combined.
	blanks := []string{"", " ", "\t", "\n", "\r", "\x0b", "\x0c", " \t\n\r\x0b\x0c"}

	for _, blank := range blanks {
		f := ParseNoteForm(noteValues(blank, "body", "3"))
		fields := fieldsOf(t, f.Validate())
		if _, ok := fields["title"]; !ok {
			t.Errorf("title %q should be rejected", blank)
		}

		f = ParseNoteForm(noteValues("title", blank, "3"))
		fields = fieldsOf(t, f.Validate())
		if _, ok := fields["text"]; !ok {
			t.Errorf("text %q should be rejected", blank)
		}
	}
}

func TestNoteForm_Lengths(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		text      string
		wantField string
	}{
		{"title at limit", strings.Repeat("a", model.MaxNoteTitleLength), "ok", ""},
		{"title too long", strings.Repeat("a", model.MaxNoteTitleLength+1), "ok", "title"},
		{"text at limit", "ok", strings.Repeat("b", model.MaxNoteTextLength), ""},
		{"text too long", "ok", strings.Repeat("b", model.MaxNoteTextLength+1), "text"},
		{"multibyte counted as characters", strings.Repeat("é", model.MaxNoteTitleLength), "ok", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ParseNoteForm(noteValues(tc.title, tc.text, "4")).Validate()
			if tc.wantField == "" {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			fields := fieldsOf(t, err)
			if _, ok := fields[tc.wantField]; !ok {
				t.Errorf("expected error on %s, got %v", tc.wantField, fields)
			}
		})
	}
}

func TestNoteForm_Rating(t *testing.T) {
	tests := []struct {
		raw     string
		valid   bool
		wantMsg string
	}{
		{strconv.Itoa(model.MinRating), true, ""},
		{strconv.Itoa(model.MaxRating), true, ""},
		{strconv.Itoa(model.MinRating - 1), false, ""},
		{strconv.Itoa(model.MaxRating + 1), false, ""},
		{"-1", false, ""},
		{"", false, MsgRequired},
		{"three", false, MsgWholeNumber},
		{"2.5", false, MsgWholeNumber},
	}

	for _, tc := range tests {
		err := ParseNoteForm(noteValues("t", "x", tc.raw)).Validate()
		if tc.valid {
			if err != nil {
				t.Errorf("rating %q: expected valid, got %v", tc.raw, err)
			}
			continue
		}
		fields := fieldsOf(t, err)
		msg, ok := fields["rating"]
		if !ok {
			t.Errorf("rating %q: expected rating error, got %v", tc.raw, fields)
			continue
		}
		if tc.wantMsg != "" && msg != tc.wantMsg {
			t.Errorf("rating %q: message = %q, want %q", tc.raw, msg, tc.wantMsg)
		}
	}
}

func validRegistration() model.RegisterRequest {
	return model.RegisterRequest{
		Username:  "bob",
		Email:     "bob@bob.com",
		FirstName: "bob",
		LastName:  "whatever",
		Password1: "q!w$er^ty6ui7op",
		Password2: "q!w$er^ty6ui7op",
	}
}

func TestRegistrationForm_Valid(t *testing.T) {
	if err := NewRegistrationForm(validRegistration()).Validate(); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
}

func TestRegistrationForm_MissingFields(t *testing.T) {
	tests := []struct {
		field string
		clear func(*model.RegisterRequest)
	}{
		{"username", func(r *model.RegisterRequest) { r.Username = "" }},
		{"email", func(r *model.RegisterRequest) { r.Email = "" }},
		{"first_name", func(r *model.RegisterRequest) { r.FirstName = "" }},
		{"last_name", func(r *model.RegisterRequest) { r.LastName = "" }},
		{"password1", func(r *model.RegisterRequest) { r.Password1 = "" }},
		{"password2", func(r *model.RegisterRequest) { r.Password2 = "" }},
	}

	for _, tc := range tests {
		t.Run(tc.field, func(t *testing.T) {
			req := validRegistration()
			tc.clear(&req)
			fields := fieldsOf(t, NewRegistrationForm(req).Validate())
			if _, ok := fields[tc.field]; !ok {
				t.Errorf("expected error on %s, got %v", tc.field, fields)
			}
		})
	}
}

func TestRegistrationForm_PasswordMismatch(t *testing.T) {
	req := validRegistration()
	req.Password2 = "something-else"

	fields := fieldsOf(t, NewRegistrationForm(req).Validate())
	if fields["password2"] != MsgPasswordMatch {
		t.Errorf("password2 = %q, want %q", fields["password2"], MsgPasswordMatch)
	}
}

func TestRegistrationForm_InvalidEmail(t *testing.T) {
	req := validRegistration()
	req.Email = "not-an-email"

	fields := fieldsOf(t, NewRegistrationForm(req).Validate())
	if fields["email"] != MsgInvalidEmail {
		t.Errorf("email = %q, want %q", fields["email"], MsgInvalidEmail)
	}
}

func TestSearchForm(t *testing.T) {
	tests := []struct {
		name  string
		term  string
		valid bool
	}{
		{"empty", "", false},
		{"blank", "   ", false},
		{"too long", strings.Repeat("x", 201), false},
		{"at limit", strings.Repeat("x", 200), true},
		{"normal", "First Avenue", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := SearchForm{SearchName: tc.term}.Validate()
			if (err == nil) != tc.valid {
				t.Errorf("Validate(%q) error = %v, want valid=%v", tc.term, err, tc.valid)
			}
		})
	}
}

func TestProfileForm(t *testing.T) {
	if err := (ProfileForm{Bio: ""}).Validate(); err != nil {
		t.Errorf("empty bio should be valid, got %v", err)
	}
	if err := (ProfileForm{Bio: strings.Repeat("b", model.MaxBioLength)}).Validate(); err != nil {
		t.Errorf("500-char bio should be valid, got %v", err)
	}
	fields := fieldsOf(t, ProfileForm{Bio: strings.Repeat("b", model.MaxBioLength+1)}.Validate())
	if _, ok := fields["bio"]; !ok {
		t.Errorf("expected bio error, got %v", fields)
	}
}

func TestVenueForm(t *testing.T) {
	values := url.Values{
		"uuid":  {"abc-123"},
		"name":  {"First Avenue"},
		"city":  {"Minneapolis"},
		"state": {"mn"},
	}
	f := ParseVenueForm(values)
	if err := f.Validate(); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
	if f.State != "MN" {
		t.Errorf("state = %q, want upper-cased MN", f.State)
	}

	values.Set("state", "Minnesota")
	fields := fieldsOf(t, ParseVenueForm(values).Validate())
	if _, ok := fields["state"]; !ok {
		t.Errorf("expected state error, got %v", fields)
	}
}

func TestShowForm(t *testing.T) {
	ok := NewShowForm(model.CreateShowRequest{ShowDate: "2026-03-01T20:00:00Z", ArtistID: 1, VenueID: 2})
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}

	bad := NewShowForm(model.CreateShowRequest{ShowDate: "next friday"})
	fields := fieldsOf(t, bad.Validate())
	if fields["show_date"] != MsgInvalidDate {
		t.Errorf("show_date = %q, want %q", fields["show_date"], MsgInvalidDate)
	}
	if _, ok := fields["artist_id"]; !ok {
		t.Error("expected artist_id error")
	}
	if _, ok := fields["venue_id"]; !ok {
		t.Error("expected venue_id error")
	}
}

func TestError_UnwrapsCause(t *testing.T) {
	err := error(&Error{Fields: Errors{"username": MsgUsernameTaken}, Cause: model.ErrUsernameExists})
	if !errors.Is(err, model.ErrUsernameExists) {
		t.Error("expected errors.Is to find the cause")
	}
	if !strings.Contains(err.Error(), "username") {
		t.Errorf("message should name the field: %s", err.Error())
	}
}

func TestArtistForm_NameLength(t *testing.T) {
	if err := (ArtistForm{Name: strings.Repeat("n", model.MaxArtistNameLength)}).Validate(); err != nil {
		t.Errorf("name at limit should be valid, got %v", err)
	}
	fields := fieldsOf(t, ArtistForm{Name: strings.Repeat("n", model.MaxArtistNameLength+1)}.Validate())
	if _, ok := fields["name"]; !ok {
		t.Errorf("expected name error, got %v", fields)
	}
}
