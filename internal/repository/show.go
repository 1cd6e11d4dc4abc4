package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"livemusicnotes/internal/model"
)

type showRepository struct {
	db *sqlx.DB
}

func NewShowRepository(db *sqlx.DB) ShowRepository {
	return &showRepository{db: db}
}

const showSelect = `
	SELECT s.id, s.show_date, s.artist_id, s.venue_id, a.name AS artist_name, v.name AS venue_name
	FROM shows s
	JOIN artists a ON a.id = s.artist_id
	JOIN venues v ON v.id = s.venue_id
`

func (r *showRepository) Create(ctx context.Context, s *model.Show) error {
	query := `
		WITH inserted AS (
			INSERT INTO shows (show_date, artist_id, venue_id)
			VALUES ($1, $2, $3)
			RETURNING id, artist_id, venue_id
		)
		SELECT i.id, a.name AS artist_name, v.name AS venue_name
		FROM inserted i
		JOIN artists a ON a.id = i.artist_id
		JOIN venues v ON v.id = i.venue_id
	`
	err := r.db.QueryRowxContext(ctx, query, s.ShowDate, s.ArtistID, s.VenueID).
		Scan(&s.ID, &s.ArtistName, &s.VenueName)
	if err != nil {
		if constraint, ok := isForeignKeyViolation(err); ok {
			if strings.Contains(constraint, "venue") {
				return model.ErrVenueNotFound
			}
			return model.ErrArtistNotFound
		}
		return fmt.Errorf("insert show: %w", err)
	}
	return nil
}

func (r *showRepository) GetByID(ctx context.Context, id int64) (*model.Show, error) {
	var s model.Show
	err := r.db.GetContext(ctx, &s, showSelect+` WHERE s.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrShowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get show: %w", err)
	}
	return &s, nil
}

func (r *showRepository) CountByVenue(ctx context.Context, venueID int64) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM shows WHERE venue_id = $1`, venueID); err != nil {
		return 0, fmt.Errorf("count shows by venue: %w", err)
	}
	return total, nil
}

func (r *showRepository) ListByVenue(ctx context.Context, venueID int64, offset, limit int) ([]model.Show, error) {
	query := showSelect + `
		WHERE s.venue_id = $1
		ORDER BY s.show_date DESC, s.id DESC
		LIMIT $2 OFFSET $3
	`
	shows := []model.Show{}
	if err := r.db.SelectContext(ctx, &shows, query, venueID, limit, offset); err != nil {
		return nil, fmt.Errorf("list shows by venue: %w", err)
	}
	return shows, nil
}

func (r *showRepository) CountByArtist(ctx context.Context, artistID int64) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM shows WHERE artist_id = $1`, artistID); err != nil {
		return 0, fmt.Errorf("count shows by artist: %w", err)
	}
	return total, nil
}

func (r *showRepository) ListByArtist(ctx context.Context, artistID int64, offset, limit int) ([]model.Show, error) {
	query := showSelect + `
		WHERE s.artist_id = $1
		ORDER BY s.show_date DESC, s.id DESC
		LIMIT $2 OFFSET $3
	`
	shows := []model.Show{}
	if err := r.db.SelectContext(ctx, &shows, query, artistID, limit, offset); err != nil {
		return nil, fmt.Errorf("list shows by artist: %w", err)
	}
	return shows, nil
}
