package model

import (
	"errors"
	"time"
)

// Show is one artist playing at one venue on a particular date.
type Show struct {
	ID       int64     `db:"id" json:"id"`
	ShowDate time.Time `db:"show_date" json:"show_date"`
	ArtistID int64     `db:"artist_id" json:"artist_id"`
	VenueID  int64     `db:"venue_id" json:"venue_id"`

	// Joined fields (not in shows table)
	ArtistName string `db:"artist_name" json:"artist_name"`
	VenueName  string `db:"venue_name" json:"venue_name"`
}

// CreateShowRequest is the request body for POST /shows.
type CreateShowRequest struct {
	ShowDate string `json:"show_date"` // RFC3339
	ArtistID int64  `json:"artist_id"`
	VenueID  int64  `json:"venue_id"`
}

var ErrShowNotFound = errors.New("show not found")
