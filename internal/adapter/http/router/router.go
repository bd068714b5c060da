package router

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vitrine-imoveis/listing-service/internal/adapter/http/handler"
	"github.com/vitrine-imoveis/listing-service/internal/adapter/http/middleware"
)

// New wires the public catalogue routes, the JWT-guarded admin routes
// and the operational endpoints into one chi mux.
func New(
	listingHandler *handler.ListingHandler,
	adminHandler *handler.AdminHandler,
	jwtSecret string,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Tracing)
	r.Use(middleware.Metrics)
	r.Use(middleware.RequestLogger(logger))

	r.Get("/healthz", handler.HandleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/api/listings", listingHandler.HandleSearchListings)
	r.Get("/api/listings/filters", listingHandler.HandleFilterOptions)
	r.Get("/api/listings/{id}", listingHandler.HandleGetListing)
	r.Post("/api/listings/{id}/inquiry", listingHandler.HandleCreateInquiry)

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(jwtSecret, logger))

		r.Post("/api/admin/listings", adminHandler.HandleCreateListing)
		r.Put("/api/admin/listings/{id}", adminHandler.HandleUpdateListing)
		r.Patch("/api/admin/listings/{id}/status", adminHandler.HandleChangeStatus)
		r.Delete("/api/admin/listings/{id}", adminHandler.HandleDeleteListing)
	})

	return r
}
