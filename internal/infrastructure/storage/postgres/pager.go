package postgres

import (
	"context"
	"fmt"
)

// DefaultPageSize is the number of rows requested per page.
const DefaultPageSize = 1000

// PageFunc fetches at most limit rows starting at offset. Implementations must
// use a stable ORDER BY so pages neither overlap nor skip rows.
type PageFunc[T any] func(ctx context.Context, limit, offset uint64) ([]T, error)

// FetchAll requests fixed-size pages sequentially until a page comes back
// short, and returns every row. Any page error fails the whole fetch.
func FetchAll[T any](ctx context.Context, pageSize int, fetch PageFunc[T]) ([]T, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	limit := uint64(pageSize)

	var all []T
	for offset := uint64(0); ; offset += limit {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := fetch(ctx, limit, offset)
		if err != nil {
			return nil, fmt.Errorf("fetch page at offset %d: %w", offset, err)
		}
		all = append(all, page...)
		if uint64(len(page)) < limit {
			return all, nil
		}
	}
}
