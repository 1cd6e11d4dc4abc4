package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Migrate creates all tables needed by the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    username VARCHAR(150) NOT NULL UNIQUE,
    email VARCHAR(254) NOT NULL UNIQUE CHECK (email <> ''),
    first_name VARCHAR(150) NOT NULL CHECK (first_name <> ''),
    last_name VARCHAR(150) NOT NULL CHECK (last_name <> ''),
    password_hashed VARCHAR(255) NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_users_username_lower ON users (LOWER(username));
CREATE INDEX IF NOT EXISTS idx_users_email_lower ON users (LOWER(email));

CREATE TABLE IF NOT EXISTS profiles (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
    bio VARCHAR(500) NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS artists (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(200) NOT NULL UNIQUE CHECK (name <> '')
);

CREATE TABLE IF NOT EXISTS venues (
    id BIGSERIAL PRIMARY KEY,
    uuid VARCHAR(200) NOT NULL UNIQUE CHECK (uuid <> ''),
    name VARCHAR(200) NOT NULL CHECK (name <> ''),
    address VARCHAR(200) NOT NULL DEFAULT '',
    city VARCHAR(200) NOT NULL CHECK (city <> ''),
    state CHAR(2) NOT NULL,
    zip_code VARCHAR(10) NOT NULL DEFAULT '',
    thumbnail VARCHAR(255)
);

CREATE INDEX IF NOT EXISTS idx_venues_name ON venues (name);

CREATE TABLE IF NOT EXISTS shows (
    id BIGSERIAL PRIMARY KEY,
    show_date TIMESTAMPTZ NOT NULL,
    artist_id BIGINT NOT NULL REFERENCES artists(id) ON DELETE CASCADE,
    venue_id BIGINT NOT NULL REFERENCES venues(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_shows_venue_date ON shows (venue_id, show_date DESC);
CREATE INDEX IF NOT EXISTS idx_shows_artist_date ON shows (artist_id, show_date DESC);

CREATE TABLE IF NOT EXISTS notes (
    id BIGSERIAL PRIMARY KEY,
    show_id BIGINT NOT NULL REFERENCES shows(id) ON DELETE CASCADE,
    user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    title VARCHAR(200) NOT NULL,
    text VARCHAR(1000) NOT NULL,
    rating SMALLINT NOT NULL CHECK (rating BETWEEN 1 AND 5),
    posted_date DATE,
    photo VARCHAR(255)
);

CREATE INDEX IF NOT EXISTS idx_notes_show ON notes (show_id, id DESC);
CREATE INDEX IF NOT EXISTS idx_notes_user ON notes (user_id, id DESC);
CREATE INDEX IF NOT EXISTS idx_notes_photo ON notes (photo) WHERE photo IS NOT NULL;
`
