package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"livemusicnotes/internal/model"
)

type venueRepository struct {
	db *sqlx.DB
}

func NewVenueRepository(db *sqlx.DB) VenueRepository {
	return &venueRepository{db: db}
}

const venueColumns = `id, uuid, name, address, city, state, zip_code, thumbnail`

func (r *venueRepository) Create(ctx context.Context, v *model.Venue) error {
	query := `
		INSERT INTO venues (uuid, name, address, city, state, zip_code, thumbnail)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.db.QueryRowxContext(ctx, query,
		v.UUID, v.Name, v.Address, v.City, v.State, v.ZipCode, v.Thumbnail,
	).Scan(&v.ID)
	if err != nil {
		if _, ok := isUniqueViolation(err); ok {
			return model.ErrVenueExists
		}
		return fmt.Errorf("insert venue: %w", err)
	}
	return nil
}

func (r *venueRepository) GetByID(ctx context.Context, id int64) (*model.Venue, error) {
	var v model.Venue
	err := r.db.GetContext(ctx, &v, `SELECT `+venueColumns+` FROM venues WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrVenueNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get venue: %w", err)
	}
	return &v, nil
}

func (r *venueRepository) GetByUUID(ctx context.Context, uuid string) (*model.Venue, error) {
	var v model.Venue
	err := r.db.GetContext(ctx, &v, `SELECT `+venueColumns+` FROM venues WHERE uuid = $1`, uuid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrVenueNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get venue by uuid: %w", err)
	}
	return &v, nil
}

func (r *venueRepository) Count(ctx context.Context, search string) (int, error) {
	query := `SELECT COUNT(*) FROM venues`
	var args []interface{}
	if search != "" {
		query += ` WHERE name ILIKE $1`
		args = append(args, containsPattern(search))
	}

	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("count venues: %w", err)
	}
	return total, nil
}

// List returns venues sorted by name. Ties are broken by id so that pages
// never overlap.
func (r *venueRepository) List(ctx context.Context, search string, offset, limit int) ([]model.Venue, error) {
	var query string
	var args []interface{}

	if search == "" {
		query = `SELECT ` + venueColumns + ` FROM venues ORDER BY name, id LIMIT $1 OFFSET $2`
		args = []interface{}{limit, offset}
	} else {
		query = `SELECT ` + venueColumns + ` FROM venues WHERE name ILIKE $1 ORDER BY name, id LIMIT $2 OFFSET $3`
		args = []interface{}{containsPattern(search), limit, offset}
	}

	venues := []model.Venue{}
	if err := r.db.SelectContext(ctx, &venues, query, args...); err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	return venues, nil
}
