package handler

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vitrine-imoveis/listing-service/internal/entity"
	"github.com/vitrine-imoveis/listing-service/internal/port/repository"
	"github.com/vitrine-imoveis/listing-service/internal/usecase"
)

func TestFilterFromQuery(t *testing.T) {
	r := httptest.NewRequest("GET",
		"/api/listings?city=Canoas&type=for_rent&category=apartment&min_price=1000&max_price=2500&order_by=price_asc", nil)

	filter, err := filterFromQuery(r)
	require.NoError(t, err)

	assert.Equal(t, repository.ListingFilter{
		City:     "Canoas",
		Type:     entity.TypeForRent,
		Category: entity.CategoryApartment,
		MinPrice: 1000,
		MaxPrice: 2500,
		OrderBy:  repository.OrderPriceAsc,
	}, filter)
}

func TestFilterFromQuery_RejectsBadPrice(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/listings?min_price=cheap", nil)
	_, err := filterFromQuery(r)
	assert.Error(t, err)
}

func TestRespondError_StatusMapping(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"Validation", fmt.Errorf("wrap: %w", usecase.ErrValidation), 400},
		{"NotFound", fmt.Errorf("wrap: %w", usecase.ErrListingNotFound), 404},
		{"RepoNotFound", repository.ErrNotFound, 404},
		{"StatusGuard", fmt.Errorf("wrap: %w", entity.ErrInvalidStatusTransition), 409},
		{"Unknown", fmt.Errorf("boom"), 500},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondError(zap.NewNop(), rec, tc.err)
			assert.Equal(t, tc.expected, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}
