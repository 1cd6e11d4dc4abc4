package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"livemusicnotes/internal/model"
)

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID int64) (*model.Profile, error) {
	var p model.Profile
	err := r.db.GetContext(ctx, &p, `SELECT id, user_id, bio FROM profiles WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return &model.Profile{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

// UpsertBio sets the bio, creating the profile row for users that predate it.
func (r *profileRepository) UpsertBio(ctx context.Context, userID int64, bio string) (*model.Profile, error) {
	query := `
		INSERT INTO profiles (user_id, bio)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET bio = EXCLUDED.bio
		RETURNING id, user_id, bio
	`
	var p model.Profile
	if err := r.db.GetContext(ctx, &p, query, userID, bio); err != nil {
		if _, ok := isForeignKeyViolation(err); ok {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return &p, nil
}
