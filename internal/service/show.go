package service

import (
	"context"
	"errors"

	"livemusicnotes/internal/model"
	"livemusicnotes/internal/repository"
	"livemusicnotes/internal/validation"
)

type ShowService struct {
	shows repository.ShowRepository
}

func NewShowService(shows repository.ShowRepository) *ShowService {
	return &ShowService{shows: shows}
}

const msgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."

// Create schedules a show. Unknown artist or venue ids are field errors
// wrapping model.ErrArtistNotFound or model.ErrVenueNotFound.
func (s *ShowService) Create(ctx context.Context, req model.CreateShowRequest) (*model.Show, error) {
	form := validation.NewShowForm(req)
	if err := form.Validate(); err != nil {
		return nil, err
	}

	show := &model.Show{
		ShowDate: form.ShowDate.UTC(),
		ArtistID: form.ArtistID,
		VenueID:  form.VenueID,
	}
	if err := s.shows.Create(ctx, show); err != nil {
		switch {
		case errors.Is(err, model.ErrArtistNotFound):
			return nil, &validation.Error{Fields: validation.Errors{"artist_id": msgInvalidChoice}, Cause: err}
		case errors.Is(err, model.ErrVenueNotFound):
			return nil, &validation.Error{Fields: validation.Errors{"venue_id": msgInvalidChoice}, Cause: err}
		}
		return nil, err
	}
	return show, nil
}

func (s *ShowService) Get(ctx context.Context, id int64) (*model.Show, error) {
	return s.shows.GetByID(ctx, id)
}
