package rest

import (
	"github.com/go-chi/chi/v5"
	"github.com/openhaus/listing-service/internal/adapter/rest/middleware"
	"github.com/openhaus/listing-service/internal/platform/logger"
)

// NewRouter wires the page-shaped API: browse and detail routes are public,
// everything that mutates or belongs to a profile sits behind the JWT
// middleware.
func NewRouter(lh *ListingHandler, uh *UserHandler, jwtSecret string, log *logger.Logger) *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(middleware.RequestLogger(log))

	// Public routes
	mux.Post("/api/users/register", uh.HandleRegister)
	mux.Post("/api/users/login", uh.HandleLogin)
	mux.Get("/api/landlords/{landlordID}", uh.HandleGetLandlord)
	mux.Get("/api/listings/category/{category}", lh.HandleListByCategory)
	mux.Get("/api/listings/{id}", lh.HandleGetListing)

	// Routes requiring an authenticated session
	mux.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(jwtSecret, log))

		r.Get("/api/users/me", uh.HandleGetProfile)
		r.Put("/api/users/me", uh.HandleUpdateProfile)
		r.Get("/api/users/me/listings", lh.HandleMyListings)

		r.Post("/api/listings", lh.HandleCreateListing)
		r.Put("/api/listings/{id}", lh.HandleUpdateListing)
		r.Delete("/api/listings/{id}", lh.HandleDeleteListing)
		r.Post("/api/listings/{id}/contact", lh.HandleContactLandlord)
	})

	return mux
}
