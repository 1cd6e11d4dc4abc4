package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"livemusicnotes/internal/model"
)

type artistRepository struct {
	db *sqlx.DB
}

func NewArtistRepository(db *sqlx.DB) ArtistRepository {
	return &artistRepository{db: db}
}

func (r *artistRepository) Create(ctx context.Context, name string) (*model.Artist, error) {
	var a model.Artist
	err := r.db.GetContext(ctx, &a, `INSERT INTO artists (name) VALUES ($1) RETURNING id, name`, name)
	if err != nil {
		if _, ok := isUniqueViolation(err); ok {
			return nil, model.ErrArtistExists
		}
		return nil, fmt.Errorf("insert artist: %w", err)
	}
	return &a, nil
}

func (r *artistRepository) GetByID(ctx context.Context, id int64) (*model.Artist, error) {
	var a model.Artist
	err := r.db.GetContext(ctx, &a, `SELECT id, name FROM artists WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrArtistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get artist: %w", err)
	}
	return &a, nil
}

func (r *artistRepository) Count(ctx context.Context, search string) (int, error) {
	query := `SELECT COUNT(*) FROM artists`
	var args []interface{}
	if search != "" {
		query += ` WHERE name ILIKE $1`
		args = append(args, containsPattern(search))
	}

	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("count artists: %w", err)
	}
	return total, nil
}

func (r *artistRepository) List(ctx context.Context, search string, offset, limit int) ([]model.Artist, error) {
	var query string
	var args []interface{}

	if search == "" {
		query = `SELECT id, name FROM artists ORDER BY name, id LIMIT $1 OFFSET $2`
		args = []interface{}{limit, offset}
	} else {
		query = `SELECT id, name FROM artists WHERE name ILIKE $1 ORDER BY name, id LIMIT $2 OFFSET $3`
		args = []interface{}{containsPattern(search), limit, offset}
	}

	artists := []model.Artist{}
	if err := r.db.SelectContext(ctx, &artists, query, args...); err != nil {
		return nil, fmt.Errorf("list artists: %w", err)
	}
	return artists, nil
}
