package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/vitrine-imoveis/listing-service/internal/entity"
	"github.com/vitrine-imoveis/listing-service/internal/port/repository"
)

func TestBuildListingQuery(t *testing.T) {
	testCases := []struct {
		name     string
		filter   repository.ListingFilter
		expected bson.M
	}{
		{
			name:     "Empty",
			filter:   repository.ListingFilter{},
			expected: bson.M{},
		},
		{
			name: "EqualityFilters",
			filter: repository.ListingFilter{
				City:         "Porto Alegre",
				Neighborhood: "Centro",
				Type:         entity.TypeForRent,
				Category:     entity.CategoryApartment,
				Status:       entity.StatusAvailable,
			},
			expected: bson.M{
				"city":         "Porto Alegre",
				"neighborhood": "Centro",
				"type":         "for_rent",
				"category":     "apartment",
				"status":       "available",
			},
		},
		{
			name:     "MinPriceOnly",
			filter:   repository.ListingFilter{MinPrice: 100000},
			expected: bson.M{"price": bson.M{"$gte": float64(100000)}},
		},
		{
			name:     "MaxPriceOnly",
			filter:   repository.ListingFilter{MaxPrice: 500000},
			expected: bson.M{"price": bson.M{"$lte": float64(500000)}},
		},
		{
			name:   "PriceRange",
			filter: repository.ListingFilter{MinPrice: 100000, MaxPrice: 500000},
			expected: bson.M{"price": bson.M{
				"$gte": float64(100000),
				"$lte": float64(500000),
			}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, buildListingQuery(tc.filter))
		})
	}
}

func TestBuildListingSort(t *testing.T) {
	testCases := []struct {
		name     string
		orderBy  string
		expected bson.D
	}{
		{"DefaultIsNewestFirst", "", bson.D{{Key: "created_at", Value: -1}}},
		{"UnknownFallsBackToNewest", "whatever", bson.D{{Key: "created_at", Value: -1}}},
		{"Oldest", repository.OrderOldest, bson.D{{Key: "created_at", Value: 1}}},
		{"PriceAsc", repository.OrderPriceAsc, bson.D{{Key: "price", Value: 1}}},
		{"PriceDesc", repository.OrderPriceDesc, bson.D{{Key: "price", Value: -1}}},
		{"TitleAsc", repository.OrderTitleAsc, bson.D{{Key: "title", Value: 1}}},
		{"TitleDesc", repository.OrderTitleDesc, bson.D{{Key: "title", Value: -1}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, buildListingSort(tc.orderBy))
		})
	}
}

func TestListingDocRoundTrip(t *testing.T) {
	l := &entity.Listing{
		ID:           "abc",
		Code:         "CA-001",
		Title:        "House",
		Price:        350000,
		City:         "Canoas",
		Neighborhood: "Niterói",
		Type:         entity.TypeForSale,
		Category:     entity.CategoryHouse,
		Status:       entity.StatusAvailable,
	}
	assert.Equal(t, l, listingToDoc(l).toEntity())
}
