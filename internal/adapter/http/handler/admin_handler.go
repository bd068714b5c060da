package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/vitrine-imoveis/listing-service/internal/entity"
	"github.com/vitrine-imoveis/listing-service/internal/usecase"
)

// AdminHandler serves the authenticated management surface: creating,
// editing and retiring listings. Create and update accept multipart
// form data so listing fields and photo files travel in one request.
type AdminHandler struct {
	listings      *usecase.ListingUseCase
	logger        *zap.Logger
	maxUploadSize int64
}

func NewAdminHandler(listings *usecase.ListingUseCase, maxUploadSize int64, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{listings: listings, logger: logger, maxUploadSize: maxUploadSize}
}

// HandleCreateListing answers POST /api/admin/listings.
func (h *AdminHandler) HandleCreateListing(w http.ResponseWriter, r *http.Request) {
	in, photos, err := h.parseListingForm(r)
	if err != nil {
		writeJSON(h.logger, w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	listing, err := h.listings.CreateListing(r.Context(), in, photos)
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	writeJSON(h.logger, w, http.StatusCreated, toListingResponse(listing))
}

// HandleUpdateListing answers PUT /api/admin/listings/{id}. The form
// carries the full field set, any new photos, and the ids of images to
// remove in repeated remove_image_ids fields.
func (h *AdminHandler) HandleUpdateListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	in, photos, err := h.parseListingForm(r)
	if err != nil {
		writeJSON(h.logger, w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	removeImageIDs := r.MultipartForm.Value["remove_image_ids"]

	if err := h.listings.UpdateListing(r.Context(), id, in, photos, removeImageIDs); err != nil {
		respondError(h.logger, w, err)
		return
	}
	writeJSON(h.logger, w, http.StatusOK, map[string]string{"status": "updated"})
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

// HandleChangeStatus answers PATCH /api/admin/listings/{id}/status.
func (h *AdminHandler) HandleChangeStatus(w http.ResponseWriter, r *http.Request) {
	var req changeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(h.logger, w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	listing, err := h.listings.ChangeStatus(r.Context(), chi.URLParam(r, "id"), entity.Status(req.Status))
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	writeJSON(h.logger, w, http.StatusOK, toListingResponse(listing))
}

// HandleDeleteListing answers DELETE /api/admin/listings/{id}.
func (h *AdminHandler) HandleDeleteListing(w http.ResponseWriter, r *http.Request) {
	if err := h.listings.DeleteListing(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseListingForm reads the shared multipart field set of create and
// update. Photo files arrive under repeated "photos" parts and keep
// their client-side selection order.
func (h *AdminHandler) parseListingForm(r *http.Request) (usecase.ListingInput, []usecase.ImageUpload, error) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		return usecase.ListingInput{}, nil, fmt.Errorf("invalid multipart form: %w", err)
	}

	in := usecase.ListingInput{
		Code:         r.FormValue("code"),
		Title:        r.FormValue("title"),
		Description:  r.FormValue("description"),
		City:         r.FormValue("city"),
		Neighborhood: r.FormValue("neighborhood"),
		Address:      r.FormValue("address"),
		Type:         entity.ListingType(r.FormValue("type")),
		Category:     entity.Category(r.FormValue("category")),
	}
	if raw := r.FormValue("price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return usecase.ListingInput{}, nil, fmt.Errorf("price %q is not a number", raw)
		}
		in.Price = price
	}

	files := r.MultipartForm.File["photos"]
	photos := make([]usecase.ImageUpload, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return usecase.ListingInput{}, nil, fmt.Errorf("failed to open uploaded file %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return usecase.ListingInput{}, nil, fmt.Errorf("failed to read uploaded file %s: %w", fh.Filename, err)
		}
		photos = append(photos, usecase.ImageUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return in, photos, nil
}
