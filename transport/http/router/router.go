package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"inn/config"
	"inn/internal/handlers/auth"
	"inn/internal/handlers/booking"
	"inn/internal/handlers/room"
	"inn/transport/http/middleware"
)

type DomainHandlers struct {
	Auth    auth.Handler
	Booking booking.Handler
	Room    room.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	AuthMiddleware middleware.Auth
	Config         *config.Config
}

func New(domainHandlers DomainHandlers, authMiddleware middleware.Auth, cfg *config.Config) Router {
	return Router{
		DomainHandlers: domainHandlers,
		AuthMiddleware: authMiddleware,
		Config:         cfg,
	}
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/api", func(routerGroup chi.Router) {
		admin := r.AuthMiddleware.Admin

		r.DomainHandlers.Auth.Router(routerGroup, admin)
		r.DomainHandlers.Booking.Router(routerGroup, admin)
		r.DomainHandlers.Room.Router(routerGroup, admin)

		// Uploaded booking documents are served directly off disk. With the
		// S3 driver the bucket's public domain serves them instead.
		uploads := http.StripPrefix("/api/uploads/", http.FileServer(http.Dir(r.Config.Storage.UploadDir)))
		routerGroup.Handle("/uploads/*", uploads)
	})
}
