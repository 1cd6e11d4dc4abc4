package model

import "errors"

// Venue is a physical location that hosts shows. UUID is the external
// identifier the venue was imported with and is unique across venues.
type Venue struct {
	ID           int64   `db:"id" json:"id"`
	UUID         string  `db:"uuid" json:"uuid"`
	Name         string  `db:"name" json:"name"`
	Address      string  `db:"address" json:"address"`
	City         string  `db:"city" json:"city"`
	State        string  `db:"state" json:"state"`
	ZipCode      string  `db:"zip_code" json:"zip_code"`
	Thumbnail    *string `db:"thumbnail" json:"-"`
	ThumbnailURL *string `db:"-" json:"thumbnail_url,omitempty"`
}

// CreateVenueRequest carries the venue form fields.
type CreateVenueRequest struct {
	UUID    string `json:"uuid"`
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
}

var (
	ErrVenueNotFound = errors.New("venue not found")
	ErrVenueExists   = errors.New("venue uuid already exists")
)
