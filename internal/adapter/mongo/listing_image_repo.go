package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vitrine-imoveis/listing-service/internal/entity"
	"github.com/vitrine-imoveis/listing-service/internal/port/repository"
)

const listingImagesCollection = "listing_images"

type mongoListingImage struct {
	ID           string    `bson:"_id"`
	ListingID    string    `bson:"listing_id"`
	URL          string    `bson:"url"`
	DisplayOrder int       `bson:"display_order"`
	CreatedAt    time.Time `bson:"created_at"`
}

func (d *mongoListingImage) toEntity() *entity.ListingImage {
	return &entity.ListingImage{
		ID:           d.ID,
		ListingID:    d.ListingID,
		URL:          d.URL,
		DisplayOrder: d.DisplayOrder,
		CreatedAt:    d.CreatedAt,
	}
}

type ListingImageRepository struct {
	collection *mongo.Collection
}

func NewListingImageRepository(client *mongo.Client, database string) *ListingImageRepository {
	return &ListingImageRepository{collection: client.Database(database).Collection(listingImagesCollection)}
}

func (r *ListingImageRepository) InsertMany(ctx context.Context, images []*entity.ListingImage) error {
	if len(images) == 0 {
		return nil
	}
	now := time.Now()
	docs := make([]interface{}, 0, len(images))
	for _, img := range images {
		if img.ID == "" {
			img.ID = primitive.NewObjectID().Hex()
		}
		if img.CreatedAt.IsZero() {
			img.CreatedAt = now
		}
		docs = append(docs, &mongoListingImage{
			ID:           img.ID,
			ListingID:    img.ListingID,
			URL:          img.URL,
			DisplayOrder: img.DisplayOrder,
			CreatedAt:    img.CreatedAt,
		})
	}
	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("ListingImageRepository.InsertMany: %w", err)
	}
	return nil
}

func (r *ListingImageRepository) GetByID(ctx context.Context, id string) (*entity.ListingImage, error) {
	var doc mongoListingImage
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("ListingImageRepository.GetByID: %w", err)
	}
	return doc.toEntity(), nil
}

func (r *ListingImageRepository) FindByListingID(ctx context.Context, listingID string) ([]*entity.ListingImage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "display_order", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"listing_id": listingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("ListingImageRepository.FindByListingID: %w", err)
	}
	var docs []mongoListingImage
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("ListingImageRepository.FindByListingID: decode: %w", err)
	}
	images := make([]*entity.ListingImage, 0, len(docs))
	for i := range docs {
		images = append(images, docs[i].toEntity())
	}
	return images, nil
}

func (r *ListingImageRepository) MaxDisplayOrder(ctx context.Context, listingID string) (int, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: "display_order", Value: -1}}).
		SetProjection(bson.M{"display_order": 1})

	var doc mongoListingImage
	err := r.collection.FindOne(ctx, bson.M{"listing_id": listingID}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return -1, nil
		}
		return 0, fmt.Errorf("ListingImageRepository.MaxDisplayOrder: %w", err)
	}
	return doc.DisplayOrder, nil
}

func (r *ListingImageRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("ListingImageRepository.Delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
