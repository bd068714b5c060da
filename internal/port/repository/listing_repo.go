package repository

import (
	"context"
	"errors"

	"github.com/vitrine-imoveis/listing-service/internal/entity"
)

// ErrNotFound is returned by point lookups, updates and deletes when no
// row matches the given id.
var ErrNotFound = errors.New("record not found")

// Sort keys accepted by ListingFilter.OrderBy.
const (
	OrderNewest    = "newest" // default
	OrderOldest    = "oldest"
	OrderPriceAsc  = "price_asc"
	OrderPriceDesc = "price_desc"
	OrderTitleAsc  = "title_asc"
	OrderTitleDesc = "title_desc"
)

// ListingFilter is a declarative filter-and-sort request for listing scans.
// Zero values mean "no constraint".
type ListingFilter struct {
	City         string
	Neighborhood string
	Type         entity.ListingType
	Category     entity.Category
	Status       entity.Status
	MinPrice     float64
	MaxPrice     float64
	OrderBy      string
}

type ListingRepository interface {
	// Create inserts the listing and returns the id assigned by the store.
	Create(ctx context.Context, listing *entity.Listing) (string, error)
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	// UpdateFields overwrites the text, numeric and enumerated fields of
	// the listing keyed by id. Status is deliberately not touched; it only
	// changes through UpdateStatus.
	UpdateFields(ctx context.Context, id string, listing *entity.Listing) error
	UpdateStatus(ctx context.Context, id string, status entity.Status) error
	Delete(ctx context.Context, id string) error
	Find(ctx context.Context, filter ListingFilter) ([]*entity.Listing, error)
	DistinctCities(ctx context.Context) ([]string, error)
	DistinctNeighborhoods(ctx context.Context) ([]string, error)
}

type ListingImageRepository interface {
	// InsertMany inserts all rows in one batched call.
	InsertMany(ctx context.Context, images []*entity.ListingImage) error
	GetByID(ctx context.Context, id string) (*entity.ListingImage, error)
	// FindByListingID returns the listing's images ordered by display
	// order ascending, the cover first.
	FindByListingID(ctx context.Context, listingID string) ([]*entity.ListingImage, error)
	// MaxDisplayOrder returns the highest display order in use for the
	// listing, or -1 when the listing has no images.
	MaxDisplayOrder(ctx context.Context, listingID string) (int, error)
	Delete(ctx context.Context, id string) error
}
