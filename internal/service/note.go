package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"livemusicnotes/internal/logging"
	"livemusicnotes/internal/metrics"
	"livemusicnotes/internal/model"
	"livemusicnotes/internal/queue"
	"livemusicnotes/internal/repository"
	"livemusicnotes/internal/storage"
	"livemusicnotes/internal/validation"
)

// NoteService manages notes and keeps the photo store in step with them:
// a stored photo is removed once no note row points at it, and no row is
// ever left pointing at a missing photo.
type NoteService struct {
	notes     repository.NoteRepository
	shows     repository.ShowRepository
	db        *sqlx.DB
	store     storage.PhotoStore
	media     *MediaService
	publisher queue.Publisher // nil when Redis is not configured

	now func() time.Time
}

func NewNoteService(
	notes repository.NoteRepository,
	shows repository.ShowRepository,
	db *sqlx.DB,
	store storage.PhotoStore,
	media *MediaService,
	publisher queue.Publisher,
) *NoteService {
	return &NoteService{
		notes:     notes,
		shows:     shows,
		db:        db,
		store:     store,
		media:     media,
		publisher: publisher,
		now:       time.Now,
	}
}

// Create posts a note by userID about showID, dated today (UTC).
func (s *NoteService) Create(ctx context.Context, userID, showID int64, form validation.NoteForm, photo *model.ImageUpload) (*model.Note, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.shows.GetByID(ctx, showID); err != nil {
		return nil, err
	}

	in := form.Input()
	today := s.today()
	note := &model.Note{
		ShowID:     showID,
		UserID:     userID,
		Title:      in.Title,
		Text:       in.Text,
		Rating:     in.Rating,
		PostedDate: &today,
	}

	if photo != nil {
		key, err := s.media.StoreNotePhoto(ctx, photo)
		if err != nil {
			return nil, fmt.Errorf("store photo: %w", err)
		}
		note.Photo = &key
	}

	if err := s.notes.Create(ctx, note); err != nil {
		if note.Photo != nil {
			discardStaged(ctx, s.store, *note.Photo)
		}
		return nil, err
	}

	return s.Get(ctx, note.ID)
}

// Update edits the owner's note. A new photo is stored before the row is
// written; the replaced or cleared photo is deleted only after commit.
func (s *NoteService) Update(ctx context.Context, userID, noteID int64, form validation.NoteForm, change model.PhotoChange) (*model.Note, error) {
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note.UserID != userID {
		return nil, model.ErrNotNoteOwner
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	in := form.Input()
	note.Title, note.Text, note.Rating = in.Title, in.Text, in.Rating

	var staged string
	switch {
	case change.Photo != nil:
		staged, err = s.media.StoreNotePhoto(ctx, change.Photo)
		if err != nil {
			return nil, fmt.Errorf("store photo: %w", err)
		}
		note.Photo = &staged
	case change.Clear:
		note.Photo = nil
	}

	keepPhoto := change.Photo == nil && !change.Clear
	previous, err := s.saveNote(ctx, note, keepPhoto)
	if err != nil {
		if staged != "" {
			discardStaged(ctx, s.store, staged)
		}
		return nil, err
	}

	if previous != "" && (!note.HasPhoto() || *note.Photo != previous) {
		reason := metrics.PhotoReasonReplaced
		if !note.HasPhoto() {
			reason = metrics.PhotoReasonCleared
		}
		releasePhoto(ctx, s.store, s.publisher, note.ID, previous, reason)
	}

	s.decorate(note)
	return note, nil
}

// saveNote writes note in a transaction and returns the photo key the row
// held just before the write. The row is locked while that key is read, so
// concurrent edits each release the photo they actually replaced.
func (s *NoteService) saveNote(ctx context.Context, note *model.Note, keepPhoto bool) (string, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := s.notes.PhotoForUpdate(ctx, tx, note.ID)
	if err != nil {
		return "", err
	}
	if keepPhoto {
		note.Photo = current
	}

	if err := s.notes.Update(ctx, tx, note); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit transaction: %w", err)
	}

	if current == nil {
		return "", nil
	}
	return *current, nil
}

// Delete removes the owner's note and its photo. The row delete commits only
// after the photo is gone, so a storage failure leaves both in place.
func (s *NoteService) Delete(ctx context.Context, userID, noteID int64) error {
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return err
	}
	if note.UserID != userID {
		return model.ErrNotNoteOwner
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	photo, err := s.notes.PhotoForUpdate(ctx, tx, noteID)
	if err != nil {
		return err
	}
	if err := s.notes.Delete(ctx, tx, noteID); err != nil {
		return err
	}

	if photo != nil {
		if err := deletePhoto(ctx, s.store, *photo, metrics.PhotoReasonNoteDeleted); err != nil {
			return fmt.Errorf("delete note photo: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		if photo != nil {
			s.dropPhotoRef(ctx, noteID, *photo)
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// dropPhotoRef clears a reference to a photo that is already gone from
// storage because the row delete did not commit.
func (s *NoteService) dropPhotoRef(ctx context.Context, noteID int64, key string) {
	if err := s.notes.ClearPhoto(ctx, noteID, key); err != nil {
		logging.FromContext(ctx).Error().Err(err).
			Int64("note_id", noteID).Str("key", key).
			Msg("note still references a deleted photo")
	}
}

func (s *NoteService) Get(ctx context.Context, id int64) (*model.Note, error) {
	note, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.decorate(note)
	return note, nil
}

// ForShow lists notes about a show, newest first.
func (s *NoteService) ForShow(ctx context.Context, showID int64, pageNumber int) (*model.Page[model.Note], error) {
	if _, err := s.shows.GetByID(ctx, showID); err != nil {
		return nil, err
	}
	return s.list(ctx, repository.NoteFilter{ShowID: showID}, pageNumber)
}

// ByUser lists a user's notes, newest first.
func (s *NoteService) ByUser(ctx context.Context, userID int64, pageNumber int) (*model.Page[model.Note], error) {
	return s.list(ctx, repository.NoteFilter{UserID: userID}, pageNumber)
}

// Latest lists every note, newest first.
func (s *NoteService) Latest(ctx context.Context, pageNumber int) (*model.Page[model.Note], error) {
	return s.list(ctx, repository.NoteFilter{}, pageNumber)
}

// Search lists notes whose title contains the search term.
func (s *NoteService) Search(ctx context.Context, search string, pageNumber int) (*model.Page[model.Note], error) {
	form := validation.SearchForm{SearchName: search}
	if err := form.Validate(); err != nil {
		return nil, err
	}
	return s.list(ctx, repository.NoteFilter{Title: form.Term()}, pageNumber)
}

func (s *NoteService) list(ctx context.Context, filter repository.NoteFilter, pageNumber int) (*model.Page[model.Note], error) {
	page, err := fetchPage(ctx, pageNumber,
		func(ctx context.Context) (int, error) { return s.notes.Count(ctx, filter) },
		func(ctx context.Context, offset, limit int) ([]model.Note, error) {
			return s.notes.List(ctx, filter, offset, limit)
		},
	)
	if err != nil {
		return nil, err
	}
	for i := range page.Items {
		s.decorate(&page.Items[i])
	}
	return page, nil
}

func (s *NoteService) decorate(n *model.Note) {
	n.PhotoURL = s.media.URL(n.Photo)
}

func (s *NoteService) today() time.Time {
	y, m, d := s.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
