package rest

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/house-marketplace/listing-service/internal/adapter/rest/middleware"
)

// NewRouter wires the public read endpoints and the JWT-protected mutation
// endpoints.
func NewRouter(h *Handler, jwtSecret string, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger(logger))

	r.Get("/api/listings", h.SearchListings)
	r.Get("/api/listings/recent", h.RecentListings)
	r.Get("/api/listings/{id}", h.GetListing)

	r.Group(func(pr chi.Router) {
		pr.Use(middleware.JWTAuth(jwtSecret, logger))
		pr.Post("/api/listings", h.CreateListing)
		pr.Put("/api/listings/{id}", h.UpdateListing)
		pr.Delete("/api/listings/{id}", h.DeleteListing)
		pr.Post("/api/listings/{id}/contact", h.ContactOwner)
	})

	return r
}
