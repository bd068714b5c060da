package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/vitrine-imoveis/listing-service/internal/entity"
	"github.com/vitrine-imoveis/listing-service/internal/port/repository"
	"github.com/vitrine-imoveis/listing-service/internal/usecase"
)

// ListingHandler serves the public, read-only side of the site plus the
// visitor inquiry form.
type ListingHandler struct {
	listings  *usecase.ListingUseCase
	inquiries *usecase.InquiryUseCase
	logger    *zap.Logger
}

func NewListingHandler(listings *usecase.ListingUseCase, inquiries *usecase.InquiryUseCase, logger *zap.Logger) *ListingHandler {
	return &ListingHandler{listings: listings, inquiries: inquiries, logger: logger}
}

// HandleSearchListings answers GET /api/listings with optional filter and
// sort query parameters.
func (h *ListingHandler) HandleSearchListings(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		writeJSON(h.logger, w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	listings, err := h.listings.SearchListings(r.Context(), filter)
	if err != nil {
		respondError(h.logger, w, err)
		return
	}

	resp := make([]listingResponse, 0, len(listings))
	for _, l := range listings {
		resp = append(resp, toListingResponse(l))
	}
	writeJSON(h.logger, w, http.StatusOK, resp)
}

func (h *ListingHandler) HandleGetListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	detail, err := h.listings.GetListing(r.Context(), id)
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	writeJSON(h.logger, w, http.StatusOK, toListingDetailResponse(detail))
}

// HandleFilterOptions returns the distinct cities and neighborhoods in
// use, for populating the search form dropdowns.
func (h *ListingHandler) HandleFilterOptions(w http.ResponseWriter, r *http.Request) {
	cities, neighborhoods, err := h.listings.FilterOptions(r.Context())
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	writeJSON(h.logger, w, http.StatusOK, map[string][]string{
		"cities":        cities,
		"neighborhoods": neighborhoods,
	})
}

type inquiryRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// HandleCreateInquiry forwards a visitor's contact request about the
// listing to the agent by email.
func (h *ListingHandler) HandleCreateInquiry(w http.ResponseWriter, r *http.Request) {
	var req inquiryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(h.logger, w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	err := h.inquiries.Send(r.Context(), usecase.InquiryInput{
		ListingID: chi.URLParam(r, "id"),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
	})
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	writeJSON(h.logger, w, http.StatusAccepted, map[string]string{"status": "sent"})
}

func filterFromQuery(r *http.Request) (repository.ListingFilter, error) {
	q := r.URL.Query()
	filter := repository.ListingFilter{
		City:         q.Get("city"),
		Neighborhood: q.Get("neighborhood"),
		Type:         entity.ListingType(q.Get("type")),
		Category:     entity.Category(q.Get("category")),
		Status:       entity.Status(q.Get("status")),
		OrderBy:      q.Get("order_by"),
	}
	if raw := q.Get("min_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return repository.ListingFilter{}, fmt.Errorf("min_price %q is not a number", raw)
		}
		filter.MinPrice = v
	}
	if raw := q.Get("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return repository.ListingFilter{}, fmt.Errorf("max_price %q is not a number", raw)
		}
		filter.MaxPrice = v
	}
	return filter, nil
}
