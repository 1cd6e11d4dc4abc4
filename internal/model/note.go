package model

import (
	"errors"
	"time"
)

// Note is one user's rated opinion of one show, optionally with a photo.
// Photo holds the storage key of the uploaded image.
type Note struct {
	ID         int64      `db:"id" json:"id"`
	ShowID     int64      `db:"show_id" json:"show_id"`
	UserID     int64      `db:"user_id" json:"user_id"`
	Title      string     `db:"title" json:"title"`
	Text       string     `db:"text" json:"text"`
	Rating     int        `db:"rating" json:"rating"`
	PostedDate *time.Time `db:"posted_date" json:"posted_date"`
	Photo      *string    `db:"photo" json:"-"`

	// Joined fields (not in notes table)
	Username   string    `db:"username" json:"username,omitempty"`
	ArtistName string    `db:"artist_name" json:"artist_name,omitempty"`
	VenueName  string    `db:"venue_name" json:"venue_name,omitempty"`
	ShowDate   time.Time `db:"show_date" json:"show_date"`
	PhotoURL   *string   `db:"-" json:"photo_url,omitempty"`
}

// HasPhoto reports whether a photo is attached.
func (n *Note) HasPhoto() bool {
	return n.Photo != nil && *n.Photo != ""
}

// NoteInput is the validated note form content.
type NoteInput struct {
	Title  string
	Text   string
	Rating int
}

// PhotoChange describes what a note edit does to the attached photo. Photo
// replaces the current photo when set; Clear removes it. Neither keeps it.
type PhotoChange struct {
	Photo *ImageUpload
	Clear bool
}

// Note constraints, mirrored by the validate tags on validation.NoteForm.
const (
	MaxNoteTitleLength = 200
	MaxNoteTextLength  = 1000
	MinRating          = 1
	MaxRating          = 5
)

// Note errors
var (
	ErrNoteNotFound = errors.New("note not found")
	ErrNotNoteOwner = errors.New("not the owner of this note")
)
