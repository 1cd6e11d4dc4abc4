package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"livemusicnotes/internal/model"
	"livemusicnotes/internal/storage"
	"livemusicnotes/internal/validation"
)

type mockVenueRepository struct {
	createFn  func(ctx context.Context, venue *model.Venue) error
	getByIDFn func(ctx context.Context, id int64) (*model.Venue, error)
	countFn   func(ctx context.Context, search string) (int, error)
	listFn    func(ctx context.Context, search string, offset, limit int) ([]model.Venue, error)
}

func (m *mockVenueRepository) Create(ctx context.Context, venue *model.Venue) error {
	if m.createFn != nil {
		return m.createFn(ctx, venue)
	}
	venue.ID = 1
	return nil
}

func (m *mockVenueRepository) GetByID(ctx context.Context, id int64) (*model.Venue, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrVenueNotFound
}

func (m *mockVenueRepository) GetByUUID(ctx context.Context, uuid string) (*model.Venue, error) {
	return nil, model.ErrVenueNotFound
}

func (m *mockVenueRepository) Count(ctx context.Context, search string) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, search)
	}
	return 0, nil
}

func (m *mockVenueRepository) List(ctx context.Context, search string, offset, limit int) ([]model.Venue, error) {
	if m.listFn != nil {
		return m.listFn(ctx, search, offset, limit)
	}
	return nil, nil
}

// memoryVenueCache records what the service caches.
type memoryVenueCache struct {
	pages       map[string]*model.Page[model.Venue]
	invalidated int
}

func newMemoryVenueCache() *memoryVenueCache {
	return &memoryVenueCache{pages: map[string]*model.Page[model.Venue]{}}
}

func cacheKey(search string, page int) string {
	return fmt.Sprintf("%s|%d", search, page)
}

func (c *memoryVenueCache) Get(ctx context.Context, search string, page int) (*model.Page[model.Venue], bool, error) {
	p, ok := c.pages[cacheKey(search, page)]
	return p, ok, nil
}

func (c *memoryVenueCache) Set(ctx context.Context, search string, page int, p *model.Page[model.Venue]) error {
	c.pages[cacheKey(search, page)] = p
	return nil
}

func (c *memoryVenueCache) Invalidate(ctx context.Context) error {
	c.invalidated++
	c.pages = map[string]*model.Page[model.Venue]{}
	return nil
}

func newVenueServiceForTest(t *testing.T, venues *mockVenueRepository, venueCache *memoryVenueCache) (*VenueService, *storage.LocalStore) {
	t.Helper()
	store, err := storage.NewLocalStore(t.TempDir(), "/media")
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	svc := NewVenueService(venues, &mockShowRepository{}, venueCache, NewMediaService(store), store)
	return svc, store
}

func TestVenueService_List_Pagination(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		page       int
		wantNumber int
		wantOffset int
		wantPages  int
		wantList   bool
	}{
		{name: "first page", total: 60, page: 1, wantNumber: 1, wantOffset: 0, wantPages: 3, wantList: true},
		{name: "last page", total: 60, page: 3, wantNumber: 3, wantOffset: 50, wantPages: 3, wantList: true},
		{name: "past the end clamps", total: 60, page: 99, wantNumber: 3, wantOffset: 50, wantPages: 3, wantList: true},
		{name: "zero page is first", total: 30, page: 0, wantNumber: 1, wantOffset: 0, wantPages: 2, wantList: true},
		{name: "empty listing", total: 0, page: 4, wantNumber: 1, wantOffset: 0, wantPages: 1, wantList: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listed := false
			var gotOffset, gotLimit int
			venues := &mockVenueRepository{
				countFn: func(ctx context.Context, search string) (int, error) { return tt.total, nil },
				listFn: func(ctx context.Context, search string, offset, limit int) ([]model.Venue, error) {
					listed = true
					gotOffset, gotLimit = offset, limit
					return []model.Venue{{ID: 1, Name: "Fillmore"}}, nil
				},
			}
			svc, _ := newVenueServiceForTest(t, venues, newMemoryVenueCache())

			page, err := svc.List(context.Background(), "", tt.page)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if page.Number != tt.wantNumber || page.TotalPages != tt.wantPages {
				t.Errorf("page %d of %d, want %d of %d", page.Number, page.TotalPages, tt.wantNumber, tt.wantPages)
			}
			if listed != tt.wantList {
				t.Errorf("List called = %v, want %v", listed, tt.wantList)
			}
			if tt.wantList && (gotOffset != tt.wantOffset || gotLimit != model.DefaultPageSize) {
				t.Errorf("offset/limit = %d/%d, want %d/%d", gotOffset, gotLimit, tt.wantOffset, model.DefaultPageSize)
			}
			if page.Items == nil {
				t.Error("items should never be nil")
			}
		})
	}
}

func TestVenueService_List_Search(t *testing.T) {
	var gotSearch string
	venues := &mockVenueRepository{
		countFn: func(ctx context.Context, search string) (int, error) {
			gotSearch = search
			return 0, nil
		},
	}
	svc, _ := newVenueServiceForTest(t, venues, newMemoryVenueCache())

	if _, err := svc.List(context.Background(), "  fill ", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotSearch != "fill" {
		t.Errorf("search = %q, want %q", gotSearch, "fill")
	}
}

func TestVenueService_List_BlankSearchRejected(t *testing.T) {
	counted := false
	venues := &mockVenueRepository{
		countFn: func(ctx context.Context, search string) (int, error) {
			counted = true
			return 0, nil
		},
	}
	svc, _ := newVenueServiceForTest(t, venues, newMemoryVenueCache())

	_, err := svc.List(context.Background(), " \t ", 1)
	fields, ok := validation.FieldsOf(err)
	if !ok || fields["search_name"] != validation.MsgRequired {
		t.Errorf("error = %v, want search_name required", err)
	}
	if counted {
		t.Error("repository should not be queried for an invalid search")
	}
}

func TestVenueService_List_UsesCache(t *testing.T) {
	calls := 0
	venues := &mockVenueRepository{
		countFn: func(ctx context.Context, search string) (int, error) {
			calls++
			return 1, nil
		},
		listFn: func(ctx context.Context, search string, offset, limit int) ([]model.Venue, error) {
			return []model.Venue{{ID: 1, Name: "Fillmore"}}, nil
		},
	}
	svc, _ := newVenueServiceForTest(t, venues, newMemoryVenueCache())

	for i := 0; i < 2; i++ {
		if _, err := svc.List(context.Background(), "", 1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("repository queried %d times, want 1", calls)
	}
}

func TestVenueService_Create_InvalidatesCache(t *testing.T) {
	venueCache := newMemoryVenueCache()
	svc, store := newVenueServiceForTest(t, &mockVenueRepository{}, venueCache)

	form := validation.VenueForm{UUID: "v-1", Name: "Fillmore", City: "San Francisco", State: "CA"}
	venue, err := svc.Create(context.Background(), form, pngUpload(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if venueCache.invalidated != 1 {
		t.Errorf("cache invalidated %d times, want 1", venueCache.invalidated)
	}
	if venue.Thumbnail == nil || venue.ThumbnailURL == nil {
		t.Fatal("thumbnail should be stored and decorated")
	}
	ok, err := store.Exists(context.Background(), *venue.Thumbnail)
	if err != nil || !ok {
		t.Errorf("thumbnail %q not in store (err %v)", *venue.Thumbnail, err)
	}
}

func TestVenueService_Create_DuplicateUUID(t *testing.T) {
	var thumb string
	venues := &mockVenueRepository{
		createFn: func(ctx context.Context, venue *model.Venue) error {
			thumb = *venue.Thumbnail
			return model.ErrVenueExists
		},
	}
	svc, store := newVenueServiceForTest(t, venues, newMemoryVenueCache())

	form := validation.VenueForm{UUID: "v-1", Name: "Fillmore", City: "San Francisco", State: "CA"}
	_, err := svc.Create(context.Background(), form, pngUpload(t))

	if !errors.Is(err, model.ErrVenueExists) {
		t.Errorf("error = %v, want %v", err, model.ErrVenueExists)
	}
	if fields, ok := validation.FieldsOf(err); !ok || fields["uuid"] == "" {
		t.Errorf("error = %v, want uuid field error", err)
	}
	if ok, _ := store.Exists(context.Background(), thumb); ok {
		t.Error("thumbnail of a rejected venue should be removed")
	}
}

func TestVenueService_ShowsAtVenue_UnknownVenue(t *testing.T) {
	svc, _ := newVenueServiceForTest(t, &mockVenueRepository{}, newMemoryVenueCache())

	if _, err := svc.ShowsAtVenue(context.Background(), 42, 1); !errors.Is(err, model.ErrVenueNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrVenueNotFound)
	}
}
