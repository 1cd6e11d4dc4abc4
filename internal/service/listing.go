package service

import (
	"context"

	"livemusicnotes/internal/model"
	"livemusicnotes/internal/validation"
)

// fetchPage runs the count-then-slice pattern shared by every listing.
// Out-of-range page numbers are clamped to the last page.
func fetchPage[T any](
	ctx context.Context,
	pageNumber int,
	count func(ctx context.Context) (int, error),
	list func(ctx context.Context, offset, limit int) ([]T, error),
) (*model.Page[T], error) {
	total, err := count(ctx)
	if err != nil {
		return nil, err
	}

	number, offset, limit := model.PageRequest{Number: pageNumber, Size: model.DefaultPageSize}.Resolve(total)

	var items []T
	if total > 0 {
		items, err = list(ctx, offset, limit)
		if err != nil {
			return nil, err
		}
	}
	return model.NewPage(items, number, limit, total), nil
}

// searchTerm validates a non-empty search box. An empty box means no filter.
func searchTerm(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	form := validation.SearchForm{SearchName: raw}
	if err := form.Validate(); err != nil {
		return "", err
	}
	return form.Term(), nil
}
