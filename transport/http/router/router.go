package router

import (
	"github.com/go-chi/chi/v5"

	"bookinn/internal/handlers/accommodation"
	"bookinn/internal/handlers/auth"
	"bookinn/internal/handlers/reservation"
	"bookinn/internal/handlers/user"
)

type DomainHandlers struct {
	Auth          auth.Handler
	User          user.Handler
	Accommodation accommodation.Handler
	Reservation   reservation.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Accommodation.Router(routerGroup)
		r.DomainHandlers.Reservation.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
