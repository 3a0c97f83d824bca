package album

import (
	"context"
	"sort"
)

// Repository is the catalog capability every store adapter provides.
type Repository interface {
	Count(ctx context.Context) (int64, error)
	Save(ctx context.Context, a Album) error
	FindAll(ctx context.Context) ([]Album, error)
	FindByID(ctx context.Context, id string) (Album, error)
	Ping(ctx context.Context) error
	Close() error
}

// SortByTitle orders albums by title, then id, for stores without a native
// ordered scan.
func SortByTitle(albums []Album) {
	sort.SliceStable(albums, func(i, j int) bool {
		if albums[i].Title != albums[j].Title {
			return albums[i].Title < albums[j].Title
		}
		return albums[i].ID < albums[j].ID
	})
}
