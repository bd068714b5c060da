package mongo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vitrine-imoveis/listing-service/internal/entity"
	"github.com/vitrine-imoveis/listing-service/internal/port/repository"
)

const listingsCollection = "listings"

type mongoListing struct {
	ID           string    `bson:"_id"`
	Code         string    `bson:"code"`
	Title        string    `bson:"title"`
	Description  string    `bson:"description"`
	Price        float64   `bson:"price"`
	City         string    `bson:"city"`
	Neighborhood string    `bson:"neighborhood"`
	Address      string    `bson:"address"`
	Type         string    `bson:"type"`
	Category     string    `bson:"category"`
	Status       string    `bson:"status"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func listingToDoc(l *entity.Listing) *mongoListing {
	return &mongoListing{
		ID:           l.ID,
		Code:         l.Code,
		Title:        l.Title,
		Description:  l.Description,
		Price:        l.Price,
		City:         l.City,
		Neighborhood: l.Neighborhood,
		Address:      l.Address,
		Type:         string(l.Type),
		Category:     string(l.Category),
		Status:       string(l.Status),
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

func (d *mongoListing) toEntity() *entity.Listing {
	return &entity.Listing{
		ID:           d.ID,
		Code:         d.Code,
		Title:        d.Title,
		Description:  d.Description,
		Price:        d.Price,
		City:         d.City,
		Neighborhood: d.Neighborhood,
		Address:      d.Address,
		Type:         entity.ListingType(d.Type),
		Category:     entity.Category(d.Category),
		Status:       entity.Status(d.Status),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type ListingRepository struct {
	collection *mongo.Collection
}

func NewListingRepository(client *mongo.Client, database string) *ListingRepository {
	return &ListingRepository{collection: client.Database(database).Collection(listingsCollection)}
}

func (r *ListingRepository) Create(ctx context.Context, listing *entity.Listing) (string, error) {
	if listing.ID == "" {
		listing.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.collection.InsertOne(ctx, listingToDoc(listing)); err != nil {
		return "", fmt.Errorf("ListingRepository.Create: %w", err)
	}
	return listing.ID, nil
}

func (r *ListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	var doc mongoListing
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("ListingRepository.GetByID: %w", err)
	}
	return doc.toEntity(), nil
}

// UpdateFields overwrites everything except status and created_at, which
// only UpdateStatus and Create may touch.
func (r *ListingRepository) UpdateFields(ctx context.Context, id string, listing *entity.Listing) error {
	updatedAt := listing.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	res, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"code":         listing.Code,
		"title":        listing.Title,
		"description":  listing.Description,
		"price":        listing.Price,
		"city":         listing.City,
		"neighborhood": listing.Neighborhood,
		"address":      listing.Address,
		"type":         string(listing.Type),
		"category":     string(listing.Category),
		"updated_at":   updatedAt,
	}})
	if err != nil {
		return fmt.Errorf("ListingRepository.UpdateFields: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ListingRepository) UpdateStatus(ctx context.Context, id string, status entity.Status) error {
	res, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":     string(status),
		"updated_at": time.Now(),
	}})
	if err != nil {
		return fmt.Errorf("ListingRepository.UpdateStatus: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("ListingRepository.Delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ListingRepository) Find(ctx context.Context, filter repository.ListingFilter) ([]*entity.Listing, error) {
	opts := options.Find().SetSort(buildListingSort(filter.OrderBy))
	cursor, err := r.collection.Find(ctx, buildListingQuery(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("ListingRepository.Find: %w", err)
	}
	var docs []mongoListing
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("ListingRepository.Find: decode: %w", err)
	}
	listings := make([]*entity.Listing, 0, len(docs))
	for i := range docs {
		listings = append(listings, docs[i].toEntity())
	}
	return listings, nil
}

func (r *ListingRepository) DistinctCities(ctx context.Context) ([]string, error) {
	return r.distinctStrings(ctx, "city")
}

func (r *ListingRepository) DistinctNeighborhoods(ctx context.Context) ([]string, error) {
	return r.distinctStrings(ctx, "neighborhood")
}

func (r *ListingRepository) distinctStrings(ctx context.Context, field string) ([]string, error) {
	values, err := r.collection.Distinct(ctx, field, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("ListingRepository.distinctStrings(%s): %w", field, err)
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out, nil
}

func buildListingQuery(filter repository.ListingFilter) bson.M {
	query := bson.M{}
	if filter.City != "" {
		query["city"] = filter.City
	}
	if filter.Neighborhood != "" {
		query["neighborhood"] = filter.Neighborhood
	}
	if filter.Type != "" {
		query["type"] = string(filter.Type)
	}
	if filter.Category != "" {
		query["category"] = string(filter.Category)
	}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	price := bson.M{}
	if filter.MinPrice > 0 {
		price["$gte"] = filter.MinPrice
	}
	if filter.MaxPrice > 0 {
		price["$lte"] = filter.MaxPrice
	}
	if len(price) > 0 {
		query["price"] = price
	}
	return query
}

func buildListingSort(orderBy string) bson.D {
	switch orderBy {
	case repository.OrderOldest:
		return bson.D{{Key: "created_at", Value: 1}}
	case repository.OrderPriceAsc:
		return bson.D{{Key: "price", Value: 1}}
	case repository.OrderPriceDesc:
		return bson.D{{Key: "price", Value: -1}}
	case repository.OrderTitleAsc:
		return bson.D{{Key: "title", Value: 1}}
	case repository.OrderTitleDesc:
		return bson.D{{Key: "title", Value: -1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}}
	}
}
