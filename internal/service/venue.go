package service

import (
	"context"
	"errors"
	"fmt"

	"livemusicnotes/internal/cache"
	"livemusicnotes/internal/logging"
	"livemusicnotes/internal/model"
	"livemusicnotes/internal/repository"
	"livemusicnotes/internal/storage"
	"livemusicnotes/internal/validation"
)

type VenueService struct {
	venues repository.VenueRepository
	shows  repository.ShowRepository
	cache  cache.VenueCache
	media  *MediaService
	store  storage.PhotoStore
}

func NewVenueService(
	venues repository.VenueRepository,
	shows repository.ShowRepository,
	venueCache cache.VenueCache,
	media *MediaService,
	store storage.PhotoStore,
) *VenueService {
	if venueCache == nil {
		venueCache = cache.NoopVenueCache{}
	}
	return &VenueService{
		venues: venues,
		shows:  shows,
		cache:  venueCache,
		media:  media,
		store:  store,
	}
}

// List returns one page of venues ordered by name. A non-empty search
// filters by case-insensitive substring of the name.
func (s *VenueService) List(ctx context.Context, search string, pageNumber int) (*model.Page[model.Venue], error) {
	term, err := searchTerm(search)
	if err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	if page, found, err := s.cache.Get(ctx, term, pageNumber); err != nil {
		logger.Warn().Err(err).Msg("venue cache read failed")
	} else if found {
		return page, nil
	}

	page, err := fetchPage(ctx, pageNumber,
		func(ctx context.Context) (int, error) { return s.venues.Count(ctx, term) },
		func(ctx context.Context, offset, limit int) ([]model.Venue, error) {
			return s.venues.List(ctx, term, offset, limit)
		},
	)
	if err != nil {
		return nil, err
	}
	for i := range page.Items {
		s.decorate(&page.Items[i])
	}

	if err := s.cache.Set(ctx, term, pageNumber, page); err != nil {
		logger.Warn().Err(err).Msg("venue cache write failed")
	}
	return page, nil
}

// Get returns the venue with the given id or model.ErrVenueNotFound.
func (s *VenueService) Get(ctx context.Context, id int64) (*model.Venue, error) {
	venue, err := s.venues.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.decorate(venue)
	return venue, nil
}

func (s *VenueService) GetByUUID(ctx context.Context, uuid string) (*model.Venue, error) {
	venue, err := s.venues.GetByUUID(ctx, uuid)
	if err != nil {
		return nil, err
	}
	s.decorate(venue)
	return venue, nil
}

// ShowsAtVenue lists the venue's shows, most recent first.
func (s *VenueService) ShowsAtVenue(ctx context.Context, venueID int64, pageNumber int) (*model.Page[model.Show], error) {
	if _, err := s.venues.GetByID(ctx, venueID); err != nil {
		return nil, err
	}
	return fetchPage(ctx, pageNumber,
		func(ctx context.Context) (int, error) { return s.shows.CountByVenue(ctx, venueID) },
		func(ctx context.Context, offset, limit int) ([]model.Show, error) {
			return s.shows.ListByVenue(ctx, venueID, offset, limit)
		},
	)
}

// Create validates and inserts a venue. The thumbnail, if any, is stored
// first and removed again when the insert fails.
func (s *VenueService) Create(ctx context.Context, form validation.VenueForm, thumbnail *model.ImageUpload) (*model.Venue, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	req := form.Request()
	venue := &model.Venue{
		UUID:    req.UUID,
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
		State:   req.State,
		ZipCode: req.ZipCode,
	}

	if thumbnail != nil {
		key, err := s.media.StoreThumbnail(ctx, thumbnail)
		if err != nil {
			return nil, fmt.Errorf("store thumbnail: %w", err)
		}
		venue.Thumbnail = &key
	}

	if err := s.venues.Create(ctx, venue); err != nil {
		if venue.Thumbnail != nil {
			discardStaged(ctx, s.store, *venue.Thumbnail)
		}
		if errors.Is(err, model.ErrVenueExists) {
			return nil, &validation.Error{
				Fields: validation.Errors{"uuid": "Venue with this Uuid already exists."},
				Cause:  err,
			}
		}
		return nil, err
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("venue cache invalidation failed")
	}

	s.decorate(venue)
	return venue, nil
}

func (s *VenueService) decorate(v *model.Venue) {
	v.ThumbnailURL = s.media.URL(v.Thumbnail)
}
