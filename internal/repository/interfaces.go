package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"livemusicnotes/internal/model"
)

type UserRepository interface {
	// Create inserts the user and its empty profile in one transaction.
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string, caseInsensitive bool) (bool, error)
	ExistsByEmail(ctx context.Context, email string, caseInsensitive bool) (bool, error)
}

type ProfileRepository interface {
	// GetByUserID returns the user's profile, or an empty one if no row exists yet.
	GetByUserID(ctx context.Context, userID int64) (*model.Profile, error)
	UpsertBio(ctx context.Context, userID int64, bio string) (*model.Profile, error)
}

type ArtistRepository interface {
	Create(ctx context.Context, name string) (*model.Artist, error)
	GetByID(ctx context.Context, id int64) (*model.Artist, error)
	Count(ctx context.Context, search string) (int, error)
	List(ctx context.Context, search string, offset, limit int) ([]model.Artist, error)
}

type VenueRepository interface {
	Create(ctx context.Context, venue *model.Venue) error
	GetByID(ctx context.Context, id int64) (*model.Venue, error)
	GetByUUID(ctx context.Context, uuid string) (*model.Venue, error)
	// Count and List filter by case-insensitive substring on name; an empty
	// search matches every venue. List is ordered by name.
	Count(ctx context.Context, search string) (int, error)
	List(ctx context.Context, search string, offset, limit int) ([]model.Venue, error)
}

type ShowRepository interface {
	Create(ctx context.Context, show *model.Show) error
	GetByID(ctx context.Context, id int64) (*model.Show, error)
	// Venue and artist listings are ordered by show date, newest first.
	CountByVenue(ctx context.Context, venueID int64) (int, error)
	ListByVenue(ctx context.Context, venueID int64, offset, limit int) ([]model.Show, error)
	CountByArtist(ctx context.Context, artistID int64) (int, error)
	ListByArtist(ctx context.Context, artistID int64, offset, limit int) ([]model.Show, error)
}

// NoteFilter narrows a note listing. Zero values mean "no filter".
type NoteFilter struct {
	ShowID int64
	UserID int64
	Title  string
}

type NoteRepository interface {
	Create(ctx context.Context, note *model.Note) error
	GetByID(ctx context.Context, id int64) (*model.Note, error)
	// PhotoForUpdate locks the note row in tx and returns its current photo key.
	PhotoForUpdate(ctx context.Context, tx *sqlx.Tx, id int64) (*string, error)
	// Update writes title, text, rating and photo of the note.
	Update(ctx context.Context, tx *sqlx.Tx, note *model.Note) error
	Delete(ctx context.Context, tx *sqlx.Tx, id int64) error
	// Count and List return notes newest first.
	Count(ctx context.Context, filter NoteFilter) (int, error)
	List(ctx context.Context, filter NoteFilter, offset, limit int) ([]model.Note, error)
	// ClearPhoto drops the photo reference if the note still points at key.
	ClearPhoto(ctx context.Context, id int64, key string) error
	// IsPhotoReferenced reports whether any note still points at key.
	IsPhotoReferenced(ctx context.Context, key string) (bool, error)
}
