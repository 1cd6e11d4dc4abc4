package service

import (
	"context"
	"errors"
	"strings"

	"livemusicnotes/internal/model"
	"livemusicnotes/internal/repository"
	"livemusicnotes/internal/validation"
)

type ArtistService struct {
	artists repository.ArtistRepository
	shows   repository.ShowRepository
}

func NewArtistService(artists repository.ArtistRepository, shows repository.ShowRepository) *ArtistService {
	return &ArtistService{artists: artists, shows: shows}
}

// List returns artists ordered by name, optionally filtered by name.
func (s *ArtistService) List(ctx context.Context, search string, pageNumber int) (*model.Page[model.Artist], error) {
	term, err := searchTerm(search)
	if err != nil {
		return nil, err
	}
	return fetchPage(ctx, pageNumber,
		func(ctx context.Context) (int, error) { return s.artists.Count(ctx, term) },
		func(ctx context.Context, offset, limit int) ([]model.Artist, error) {
			return s.artists.List(ctx, term, offset, limit)
		},
	)
}

func (s *ArtistService) Get(ctx context.Context, id int64) (*model.Artist, error) {
	return s.artists.GetByID(ctx, id)
}

// ShowsForArtist lists the artist's shows, most recent first.
func (s *ArtistService) ShowsForArtist(ctx context.Context, artistID int64, pageNumber int) (*model.Page[model.Show], error) {
	if _, err := s.artists.GetByID(ctx, artistID); err != nil {
		return nil, err
	}
	return fetchPage(ctx, pageNumber,
		func(ctx context.Context) (int, error) { return s.shows.CountByArtist(ctx, artistID) },
		func(ctx context.Context, offset, limit int) ([]model.Show, error) {
			return s.shows.ListByArtist(ctx, artistID, offset, limit)
		},
	)
}

func (s *ArtistService) Create(ctx context.Context, req model.CreateArtistRequest) (*model.Artist, error) {
	form := validation.ArtistForm{Name: strings.TrimSpace(req.Name)}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	artist, err := s.artists.Create(ctx, form.Name)
	if errors.Is(err, model.ErrArtistExists) {
		return nil, &validation.Error{
			Fields: validation.Errors{"name": "Artist with this Name already exists."},
			Cause:  err,
		}
	}
	return artist, err
}
