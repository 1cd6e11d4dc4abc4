package model

import "errors"

// Artist is a performer. Names are unique.
type Artist struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// CreateArtistRequest is the request body for POST /artists.
type CreateArtistRequest struct {
	Name string `json:"name"`
}

const MaxArtistNameLength = 200

var (
	ErrArtistNotFound = errors.New("artist not found")
	ErrArtistExists   = errors.New("artist already exists")
)
