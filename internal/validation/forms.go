package validation

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"livemusicnotes/internal/model"
)

// NoteForm is the title/text/rating part of a note submission. Rating is nil
// when the field was missing or empty.
type NoteForm struct {
	Title  string `form:"title" validate:"required,notblank,max=200"`
	Text   string `form:"text" validate:"required,notblank,max=1000"`
	Rating *int   `form:"rating" validate:"required,min=1,max=5"`

	ratingErr string
}

// ParseNoteForm reads a note form from submitted values. A rating that is not
// a whole number is recorded and reported by Validate.
func ParseNoteForm(values url.Values) NoteForm {
	f := NoteForm{
		Title: values.Get("title"),
		Text:  values.Get("text"),
	}
	raw := strings.TrimSpace(values.Get("rating"))
	if raw == "" {
		return f
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		f.ratingErr = MsgWholeNumber
		return f
	}
	f.Rating = &n
	return f
}

// Validate returns a *Error naming every invalid field, or nil.
func (f NoteForm) Validate() error {
	errs := Errors{}
	if f.ratingErr != "" {
		errs.Add("rating", f.ratingErr)
	}
	for field, msg := range Struct(f) {
		errs.Add(field, msg)
	}
	return errs.Err()
}

// Input converts a validated form into the service input.
func (f NoteForm) Input() model.NoteInput {
	in := model.NoteInput{Title: f.Title, Text: f.Text}
	if f.Rating != nil {
		in.Rating = *f.Rating
	}
	return in
}

// RegistrationForm mirrors the sign-up page. Email, first and last name are
// mandatory here even though a bare account would not need them.
type RegistrationForm struct {
	Username  string `form:"username" validate:"required,notblank,max=150"`
	Email     string `form:"email" validate:"required,email,max=254"`
	FirstName string `form:"first_name" validate:"required,notblank,max=150"`
	LastName  string `form:"last_name" validate:"required,notblank,max=150"`
	Password1 string `form:"password1" validate:"required"`
	Password2 string `form:"password2" validate:"required,eqfield=Password1"`
}

func NewRegistrationForm(req model.RegisterRequest) RegistrationForm {
	return RegistrationForm{
		Username:  strings.TrimSpace(req.Username),
		Email:     strings.TrimSpace(req.Email),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Password1: req.Password1,
		Password2: req.Password2,
	}
}

func (f RegistrationForm) Validate() error {
	return Struct(f).Err()
}

// SearchForm is the single search_name box used for venues, artists and notes.
type SearchForm struct {
	SearchName string `form:"search_name" validate:"required,notblank,max=200"`
}

func (f SearchForm) Validate() error {
	return Struct(f).Err()
}

// Term returns the trimmed search term.
func (f SearchForm) Term() string {
	return strings.TrimSpace(f.SearchName)
}

// ProfileForm edits the user's bio. An empty bio is allowed.
type ProfileForm struct {
	Bio string `form:"bio" validate:"max=500"`
}

func (f ProfileForm) Validate() error {
	return Struct(f).Err()
}

type ArtistForm struct {
	Name string `form:"name" validate:"required,notblank,max=200"`
}

func (f ArtistForm) Validate() error {
	return Struct(f).Err()
}

// VenueForm covers the venue admin form. State is a two-letter code.
type VenueForm struct {
	UUID    string `form:"uuid" validate:"required,notblank,max=200"`
	Name    string `form:"name" validate:"required,notblank,max=200"`
	Address string `form:"address" validate:"max=200"`
	City    string `form:"city" validate:"required,notblank,max=200"`
	State   string `form:"state" validate:"required,len=2,alpha"`
	ZipCode string `form:"zip_code" validate:"max=10"`
}

// ParseVenueForm reads a venue form from submitted values.
func ParseVenueForm(values url.Values) VenueForm {
	return VenueForm{
		UUID:    strings.TrimSpace(values.Get("uuid")),
		Name:    strings.TrimSpace(values.Get("name")),
		Address: strings.TrimSpace(values.Get("address")),
		City:    strings.TrimSpace(values.Get("city")),
		State:   strings.ToUpper(strings.TrimSpace(values.Get("state"))),
		ZipCode: strings.TrimSpace(values.Get("zip_code")),
	}
}

func (f VenueForm) Validate() error {
	return Struct(f).Err()
}

func (f VenueForm) Request() model.CreateVenueRequest {
	return model.CreateVenueRequest{
		UUID:    f.UUID,
		Name:    f.Name,
		Address: f.Address,
		City:    f.City,
		State:   f.State,
		ZipCode: f.ZipCode,
	}
}

// ShowForm schedules an artist at a venue.
type ShowForm struct {
	ShowDate *time.Time `form:"show_date" validate:"required"`
	ArtistID int64      `form:"artist_id" validate:"gt=0"`
	VenueID  int64      `form:"venue_id" validate:"gt=0"`

	dateErr string
}

// NewShowForm parses the RFC 3339 show date from the request body.
func NewShowForm(req model.CreateShowRequest) ShowForm {
	f := ShowForm{ArtistID: req.ArtistID, VenueID: req.VenueID}
	raw := strings.TrimSpace(req.ShowDate)
	if raw == "" {
		return f
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		f.dateErr = MsgInvalidDate
		return f
	}
	f.ShowDate = &t
	return f
}

func (f ShowForm) Validate() error {
	errs := Errors{}
	if f.dateErr != "" {
		errs.Add("show_date", f.dateErr)
	}
	for field, msg := range Struct(f) {
		errs.Add(field, msg)
	}
	return errs.Err()
}
