package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/vitrine-imoveis/listing-service/internal/entity"
	"github.com/vitrine-imoveis/listing-service/internal/port/repository"
	"github.com/vitrine-imoveis/listing-service/internal/usecase"
)

type listingResponse struct {
	ID           string    `json:"id"`
	Code         string    `json:"code"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	City         string    `json:"city"`
	Neighborhood string    `json:"neighborhood"`
	Address      string    `json:"address"`
	Type         string    `json:"type"`
	Category     string    `json:"category"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type imageResponse struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	DisplayOrder int    `json:"display_order"`
}

type listingDetailResponse struct {
	listingResponse
	Images []imageResponse `json:"images"`
}

func toListingResponse(l *entity.Listing) listingResponse {
	return listingResponse{
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

func toListingDetailResponse(d *usecase.ListingDetail) listingDetailResponse {
	resp := listingDetailResponse{
		listingResponse: toListingResponse(d.Listing),
		Images:          make([]imageResponse, 0, len(d.Images)),
	}
	for _, img := range d.Images {
		resp.Images = append(resp.Images, imageResponse{
			ID:           img.ID,
			URL:          img.URL,
			DisplayOrder: img.DisplayOrder,
		})
	}
	return resp
}

func writeJSON(logger *zap.Logger, w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// respondError maps domain errors onto HTTP statuses. Validation and
// state-guard failures carry their message to the client; everything
// else is logged and hidden behind a generic 500.
func respondError(logger *zap.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrValidation):
		writeJSON(logger, w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrListingNotFound), errors.Is(err, repository.ErrNotFound):
		writeJSON(logger, w, http.StatusNotFound, errorResponse{Error: "listing not found"})
	case errors.Is(err, entity.ErrInvalidStatusTransition):
		writeJSON(logger, w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		logger.Error("Request failed", zap.Error(err))
		writeJSON(logger, w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
