package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vitrine-imoveis/listing-service/internal/entity"
	"github.com/vitrine-imoveis/listing-service/internal/port/cache"
	"github.com/vitrine-imoveis/listing-service/internal/port/repository"
	"github.com/vitrine-imoveis/listing-service/internal/port/storage"
)

// EventPublisher pushes listing lifecycle events to the message bus.
// A nil publisher disables events.
type EventPublisher interface {
	PublishListingCreated(ctx context.Context, listing *entity.Listing) error
	PublishListingUpdated(ctx context.Context, listingID string) error
	PublishListingDeleted(ctx context.Context, listingID string) error
	PublishListingStatusChanged(ctx context.Context, listingID string, status entity.Status) error
}

// ListingInput is the validated field set shared by create and update.
// Update overwrites all of these fields; partial patches are not supported.
type ListingInput struct {
	Code         string
	Title        string
	Description  string
	Price        float64
	City         string
	Neighborhood string
	Address      string
	Type         entity.ListingType
	Category     entity.Category
}

func (in ListingInput) Validate() error {
	var problems []string
	required := []struct {
		name, value string
	}{
		{"code", in.Code},
		{"title", in.Title},
		{"city", in.City},
		{"neighborhood", in.Neighborhood},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			problems = append(problems, f.name+" is required")
		}
	}
	if in.Price < 0 {
		problems = append(problems, "price must be non-negative")
	}
	if !in.Type.Valid() {
		problems = append(problems, fmt.Sprintf("type %q is not one of %s, %s", in.Type, entity.TypeForSale, entity.TypeForRent))
	}
	if !in.Category.Valid() {
		problems = append(problems, fmt.Sprintf("category %q is unknown", in.Category))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
	}
	return nil
}

// ImageUpload is one locally selected photo to attach to a listing.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ListingDetail is a listing plus its images, cover first.
type ListingDetail struct {
	Listing *entity.Listing
	Images  []*entity.ListingImage
}

func listingCacheKey(listingID string) string {
	return fmt.Sprintf("listing:%s", listingID)
}

const listingCacheTTL = 1 * time.Hour

// ListingUseCase orchestrates listing creation and editing against the
// record store and the object store. The stores offer no multi-table
// transaction, so atomicity across listing row, image rows and blobs is
// hand-rolled: create forward, compensate with a delete on failure.
type ListingUseCase struct {
	listings  repository.ListingRepository
	images    repository.ListingImageRepository
	storage   storage.ObjectStorage
	cacheRepo cache.CacheRepository
	publisher EventPublisher
	logger    *zap.Logger
}

func NewListingUseCase(
	listings repository.ListingRepository,
	images repository.ListingImageRepository,
	store storage.ObjectStorage,
	cacheRepo cache.CacheRepository,
	publisher EventPublisher,
	logger *zap.Logger,
) *ListingUseCase {
	return &ListingUseCase{
		listings:  listings,
		images:    images,
		storage:   store,
		cacheRepo: cacheRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateListing inserts a new listing with status available, uploads the
// supplied photos concurrently and inserts their metadata rows in one
// batch. If any part of the image batch fails, the just-created listing
// row is deleted again so no partially visible listing remains.
func (uc *ListingUseCase) CreateListing(ctx context.Context, in ListingInput, photos []ImageUpload) (*entity.Listing, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("ListingUseCase.CreateListing: %w", err)
	}

	now := time.Now()
	listing := &entity.Listing{
		Code:         in.Code,
		Title:        in.Title,
		Description:  in.Description,
		Price:        in.Price,
		City:         in.City,
		Neighborhood: in.Neighborhood,
		Address:      in.Address,
		Type:         in.Type,
		Category:     in.Category,
		Status:       entity.StatusAvailable,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	id, err := uc.listings.Create(ctx, listing)
	if err != nil {
		uc.logger.Error("Failed to insert listing", zap.String("code", in.Code), zap.Error(err))
		return nil, fmt.Errorf("ListingUseCase.CreateListing: %w: %w", ErrCreateFailed, err)
	}
	listing.ID = id

	if len(photos) > 0 {
		if batchErr := uc.attachImages(ctx, id, photos, 0); batchErr != nil {
			return nil, uc.compensateCreate(ctx, id, batchErr)
		}
	}

	uc.cacheListing(ctx, listing)
	if uc.publisher != nil {
		if pubErr := uc.publisher.PublishListingCreated(ctx, listing); pubErr != nil {
			uc.logger.Warn("Failed to publish listing created event", zap.String("listing_id", id), zap.Error(pubErr))
		}
	}

	uc.logger.Info("Listing created",
		zap.String("listing_id", id),
		zap.String("code", listing.Code),
		zap.Int("photos", len(photos)))
	return listing, nil
}

// compensateCreate undoes the listing insert after a failed image batch.
// When the compensating delete itself fails, the orphaned row is surfaced
// as ErrCompensationFailed rather than ErrCreateFailed.
func (uc *ListingUseCase) compensateCreate(ctx context.Context, listingID string, batchErr error) error {
	uc.logger.Warn("Image batch failed, rolling back listing",
		zap.String("listing_id", listingID), zap.Error(batchErr))

	if delErr := uc.listings.Delete(ctx, listingID); delErr != nil && !errors.Is(delErr, repository.ErrNotFound) {
		uc.logger.Error("Compensating delete failed, listing row left behind",
			zap.String("listing_id", listingID), zap.Error(delErr))
		return fmt.Errorf("ListingUseCase.CreateListing: %w (listing %s, delete: %v): %w",
			ErrCompensationFailed, listingID, delErr, batchErr)
	}
	return fmt.Errorf("ListingUseCase.CreateListing: %w: %w", ErrCreateFailed, batchErr)
}

// UpdateListing removes the requested stored images, overwrites the
// listing's fields, then uploads and appends any new photos. Unlike
// creation there is no compensation: a failed photo batch leaves the
// committed field changes in place, which is the documented trade-off.
func (uc *ListingUseCase) UpdateListing(ctx context.Context, listingID string, in ListingInput, photos []ImageUpload, removeImageIDs []string) error {
	if err := in.Validate(); err != nil {
		return fmt.Errorf("ListingUseCase.UpdateListing: %w", err)
	}

	// Existing-image deletions are independent of each other; one failure
	// does not block the siblings or the rest of the update.
	var errs []error
	for _, imageID := range removeImageIDs {
		if err := uc.removeStoredImage(ctx, imageID); err != nil {
			errs = append(errs, err)
		}
	}

	fields := &entity.Listing{
		Code:         in.Code,
		Title:        in.Title,
		Description:  in.Description,
		Price:        in.Price,
		City:         in.City,
		Neighborhood: in.Neighborhood,
		Address:      in.Address,
		Type:         in.Type,
		Category:     in.Category,
		UpdatedAt:    time.Now(),
	}
	if err := uc.listings.UpdateFields(ctx, listingID, fields); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			errs = append(errs, fmt.Errorf("ListingUseCase.UpdateListing: %w", ErrListingNotFound))
		} else {
			uc.logger.Error("Failed to update listing fields", zap.String("listing_id", listingID), zap.Error(err))
			errs = append(errs, fmt.Errorf("ListingUseCase.UpdateListing: %w: %w", ErrUpdateFailed, err))
		}
		return errors.Join(errs...)
	}

	uc.invalidateListing(ctx, listingID)

	if len(photos) > 0 {
		if batchErr := uc.appendImages(ctx, listingID, photos); batchErr != nil {
			uc.logger.Warn("Photo batch failed during update, field changes stay committed",
				zap.String("listing_id", listingID), zap.Error(batchErr))
			errs = append(errs, fmt.Errorf("ListingUseCase.UpdateListing: %w: %w", ErrUpdateFailed, batchErr))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	if uc.publisher != nil {
		if pubErr := uc.publisher.PublishListingUpdated(ctx, listingID); pubErr != nil {
			uc.logger.Warn("Failed to publish listing updated event", zap.String("listing_id", listingID), zap.Error(pubErr))
		}
	}
	uc.logger.Info("Listing updated", zap.String("listing_id", listingID),
		zap.Int("new_photos", len(photos)), zap.Int("removed_images", len(removeImageIDs)))
	return nil
}

// attachImages uploads all photos concurrently, then inserts one metadata
// row per photo in a single batch, display order following input order
// from startOrder. All uploads are jointly awaited; the first failure
// decides the outcome, in-flight uploads finish and their results are
// discarded. Blobs uploaded before a metadata failure stay behind as an
// accepted leak.
func (uc *ListingUseCase) attachImages(ctx context.Context, listingID string, photos []ImageUpload, startOrder int) error {
	rows := make([]*entity.ListingImage, len(photos))

	var g errgroup.Group
	for i, photo := range photos {
		g.Go(func() error {
			path := objectPath(listingID, i, photo.Filename)
			url, err := uc.storage.Upload(ctx, path, photo.Data, photo.ContentType, false)
			if err != nil {
				return fmt.Errorf("upload %q: %w", photo.Filename, err)
			}
			rows[i] = &entity.ListingImage{
				ListingID:    listingID,
				URL:          url,
				DisplayOrder: startOrder + i,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("%w: %w", ErrImageBatchFailed, err)
	}

	if err := uc.images.InsertMany(ctx, rows); err != nil {
		return fmt.Errorf("%w: metadata insert: %w", ErrImageBatchFailed, err)
	}
	return nil
}

// appendImages attaches new photos after the highest display order in
// use; existing images are never renumbered.
func (uc *ListingUseCase) appendImages(ctx context.Context, listingID string, photos []ImageUpload) error {
	maxOrder, err := uc.images.MaxDisplayOrder(ctx, listingID)
	if err != nil {
		return fmt.Errorf("%w: display order lookup: %w", ErrImageBatchFailed, err)
	}
	return uc.attachImages(ctx, listingID, photos, maxOrder+1)
}

// removeStoredImage deletes one existing image: stored object first, then
// the metadata row. If the object delete fails the row is kept, so the
// image stays deletable later and no row ever points at nothing.
func (uc *ListingUseCase) removeStoredImage(ctx context.Context, imageID string) error {
	img, err := uc.images.GetByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Deleting the same image twice is a no-op.
			uc.logger.Warn("Image already deleted", zap.String("image_id", imageID))
			return nil
		}
		return fmt.Errorf("%w: lookup image %s: %w", ErrImageDeleteFailed, imageID, err)
	}

	path, err := uc.storage.PathFromURL(img.URL)
	if err != nil {
		return fmt.Errorf("%w: image %s: %w", ErrImageDeleteFailed, imageID, err)
	}
	if err := uc.storage.Delete(ctx, path); err != nil {
		return fmt.Errorf("%w: object %s: %w", ErrImageDeleteFailed, path, err)
	}
	if err := uc.images.Delete(ctx, imageID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: metadata row %s: %w", ErrImageDeleteFailed, imageID, err)
	}
	return nil
}

// ChangeStatus toggles a listing between available and sold/rented,
// guarded by the entity-level transition rules.
func (uc *ListingUseCase) ChangeStatus(ctx context.Context, listingID string, next entity.Status) (*entity.Listing, error) {
	listing, err := uc.listings.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("ListingUseCase.ChangeStatus: %w", ErrListingNotFound)
		}
		return nil, fmt.Errorf("ListingUseCase.ChangeStatus: %w", err)
	}

	if err := listing.Transition(next); err != nil {
		return nil, fmt.Errorf("ListingUseCase.ChangeStatus: %s -> %s for %s listing: %w",
			listing.Status, next, listing.Type, err)
	}

	if err := uc.listings.UpdateStatus(ctx, listingID, next); err != nil {
		return nil, fmt.Errorf("ListingUseCase.ChangeStatus: %w: %w", ErrUpdateFailed, err)
	}

	uc.invalidateListing(ctx, listingID)
	if uc.publisher != nil {
		if pubErr := uc.publisher.PublishListingStatusChanged(ctx, listingID, next); pubErr != nil {
			uc.logger.Warn("Failed to publish status changed event", zap.String("listing_id", listingID), zap.Error(pubErr))
		}
	}
	uc.logger.Info("Listing status changed", zap.String("listing_id", listingID), zap.String("status", string(next)))
	return listing, nil
}

// DeleteListing removes the listing row. Stored images are intentionally
// not cascade-cleaned; their rows and blobs become unreachable.
func (uc *ListingUseCase) DeleteListing(ctx context.Context, listingID string) error {
	if err := uc.listings.Delete(ctx, listingID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("ListingUseCase.DeleteListing: %w", ErrListingNotFound)
		}
		return fmt.Errorf("ListingUseCase.DeleteListing: %w", err)
	}

	uc.invalidateListing(ctx, listingID)
	if uc.publisher != nil {
		if pubErr := uc.publisher.PublishListingDeleted(ctx, listingID); pubErr != nil {
			uc.logger.Warn("Failed to publish listing deleted event", zap.String("listing_id", listingID), zap.Error(pubErr))
		}
	}
	uc.logger.Info("Listing deleted", zap.String("listing_id", listingID))
	return nil
}

// GetListing returns one listing with its images ordered cover-first.
func (uc *ListingUseCase) GetListing(ctx context.Context, listingID string) (*ListingDetail, error) {
	listing := uc.cachedListing(ctx, listingID)
	if listing == nil {
		var err error
		listing, err = uc.listings.GetByID(ctx, listingID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("ListingUseCase.GetListing: %w", ErrListingNotFound)
			}
			return nil, fmt.Errorf("ListingUseCase.GetListing: %w", err)
		}
		uc.cacheListing(ctx, listing)
	}

	images, err := uc.images.FindByListingID(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("ListingUseCase.GetListing: images for %s: %w", listingID, err)
	}
	return &ListingDetail{Listing: listing, Images: images}, nil
}

// SearchListings is a pass-through to the record store's filtered,
// ordered scan.
func (uc *ListingUseCase) SearchListings(ctx context.Context, filter repository.ListingFilter) ([]*entity.Listing, error) {
	listings, err := uc.listings.Find(ctx, filter)
	if err != nil {
		uc.logger.Error("Failed to search listings", zap.Error(err))
		return nil, fmt.Errorf("ListingUseCase.SearchListings: %w", err)
	}
	return listings, nil
}

// FilterOptions returns the distinct cities and neighborhoods in use,
// for the catalog's filter dropdowns.
func (uc *ListingUseCase) FilterOptions(ctx context.Context) (cities, neighborhoods []string, err error) {
	cities, err = uc.listings.DistinctCities(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("ListingUseCase.FilterOptions: cities: %w", err)
	}
	neighborhoods, err = uc.listings.DistinctNeighborhoods(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("ListingUseCase.FilterOptions: neighborhoods: %w", err)
	}
	return cities, neighborhoods, nil
}

// objectPath derives a storage path inside the listing's namespace. A
// fresh uuid plus the batch index keeps concurrently uploading siblings
// from colliding.
func objectPath(listingID string, index int, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s/%s_%d%s", listingID, uuid.NewString(), index, ext)
}

func (uc *ListingUseCase) cacheListing(ctx context.Context, listing *entity.Listing) {
	if uc.cacheRepo == nil {
		return
	}
	data, err := json.Marshal(listing)
	if err != nil {
		uc.logger.Warn("Failed to marshal listing for cache", zap.String("listing_id", listing.ID), zap.Error(err))
		return
	}
	if err := uc.cacheRepo.Set(ctx, listingCacheKey(listing.ID), data, listingCacheTTL); err != nil {
		uc.logger.Warn("Failed to cache listing", zap.String("listing_id", listing.ID), zap.Error(err))
	}
}

func (uc *ListingUseCase) cachedListing(ctx context.Context, listingID string) *entity.Listing {
	if uc.cacheRepo == nil {
		return nil
	}
	data, err := uc.cacheRepo.Get(ctx, listingCacheKey(listingID))
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			uc.logger.Warn("Cache read failed", zap.String("listing_id", listingID), zap.Error(err))
		}
		return nil
	}
	var listing entity.Listing
	if err := json.Unmarshal(data, &listing); err != nil {
		uc.logger.Warn("Corrupted cache entry, dropping", zap.String("listing_id", listingID), zap.Error(err))
		if delErr := uc.cacheRepo.Delete(ctx, listingCacheKey(listingID)); delErr != nil {
			uc.logger.Warn("Failed to drop corrupted cache entry", zap.String("listing_id", listingID), zap.Error(delErr))
		}
		return nil
	}
	return &listing
}

func (uc *ListingUseCase) invalidateListing(ctx context.Context, listingID string) {
	if uc.cacheRepo == nil {
		return
	}
	if err := uc.cacheRepo.Delete(ctx, listingCacheKey(listingID)); err != nil {
		uc.logger.Warn("Failed to invalidate cached listing", zap.String("listing_id", listingID), zap.Error(err))
	}
}
