package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"livemusicnotes/internal/model"
)

type noteRepository struct {
	db *sqlx.DB
}

func NewNoteRepository(db *sqlx.DB) NoteRepository {
	return &noteRepository{db: db}
}

const noteSelect = `
	SELECT n.id, n.show_id, n.user_id, n.title, n.text, n.rating, n.posted_date, n.photo,
	       u.username, a.name AS artist_name, v.name AS venue_name, s.show_date
	FROM notes n
	JOIN users u ON u.id = n.user_id
	JOIN shows s ON s.id = n.show_id
	JOIN artists a ON a.id = s.artist_id
	JOIN venues v ON v.id = s.venue_id
`

func (r *noteRepository) Create(ctx context.Context, n *model.Note) error {
	query := `
		INSERT INTO notes (show_id, user_id, title, text, rating, posted_date, photo)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.db.QueryRowxContext(ctx, query,
		n.ShowID, n.UserID, n.Title, n.Text, n.Rating, n.PostedDate, n.Photo,
	).Scan(&n.ID)
	if err != nil {
		if constraint, ok := isForeignKeyViolation(err); ok {
			if strings.Contains(constraint, "user") {
				return model.ErrUserNotFound
			}
			return model.ErrShowNotFound
		}
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

func (r *noteRepository) GetByID(ctx context.Context, id int64) (*model.Note, error) {
	var n model.Note
	err := r.db.GetContext(ctx, &n, noteSelect+` WHERE n.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	return &n, nil
}

func (r *noteRepository) PhotoForUpdate(ctx context.Context, tx *sqlx.Tx, id int64) (*string, error) {
	var photo sql.NullString
	err := tx.GetContext(ctx, &photo, `SELECT photo FROM notes WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock note photo: %w", err)
	}
	if !photo.Valid || photo.String == "" {
		return nil, nil
	}
	return &photo.String, nil
}

func (r *noteRepository) Update(ctx context.Context, tx *sqlx.Tx, n *model.Note) error {
	query := `UPDATE notes SET title = $1, text = $2, rating = $3, photo = $4 WHERE id = $5`
	result, err := tx.ExecContext(ctx, query, n.Title, n.Text, n.Rating, n.Photo, n.ID)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrNoteNotFound
	}
	return nil
}

func (r *noteRepository) Delete(ctx context.Context, tx *sqlx.Tx, id int64) error {
	result, err := tx.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrNoteNotFound
	}
	return nil
}

// where renders the filter as a WHERE clause with positional args.
func (f NoteFilter) where() (string, []interface{}) {
	var conds []string
	var args []interface{}

	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, strings.Replace(cond, "?", "$"+strconv.Itoa(len(args)), 1))
	}
	if f.ShowID != 0 {
		add("n.show_id = ?", f.ShowID)
	}
	if f.UserID != 0 {
		add("n.user_id = ?", f.UserID)
	}
	if f.Title != "" {
		add("n.title ILIKE ?", containsPattern(f.Title))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *noteRepository) Count(ctx context.Context, filter NoteFilter) (int, error) {
	where, args := filter.where()
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM notes n`+where, args...); err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}
	return total, nil
}

// List returns notes by posted date then id, newest first.
func (r *noteRepository) List(ctx context.Context, filter NoteFilter, offset, limit int) ([]model.Note, error) {
	where, args := filter.where()
	n := len(args)
	query := noteSelect + where +
		fmt.Sprintf(" ORDER BY n.posted_date DESC NULLS LAST, n.id DESC LIMIT $%d OFFSET $%d", n+1, n+2)
	args = append(args, limit, offset)

	notes := []model.Note{}
	if err := r.db.SelectContext(ctx, &notes, query, args...); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

func (r *noteRepository) ClearPhoto(ctx context.Context, id int64, key string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE notes SET photo = NULL WHERE id = $1 AND photo = $2`, id, key)
	if err != nil {
		return fmt.Errorf("clear note photo: %w", err)
	}
	return nil
}

func (r *noteRepository) IsPhotoReferenced(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM notes WHERE photo = $1)`, key)
	if err != nil {
		return false, fmt.Errorf("check photo reference: %w", err)
	}
	return exists, nil
}
