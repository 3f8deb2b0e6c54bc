//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"bookinn/config"
	"bookinn/infras/jwt"
	"bookinn/infras/kafka"
	"bookinn/infras/otel"
	"bookinn/infras/postgres"
	"bookinn/infras/redis"
	"bookinn/infras/s3"
	"bookinn/internal/notification"
	"bookinn/permissions"
	"bookinn/shared/cache"
	"bookinn/transport/http"
	"bookinn/transport/http/middleware"
	"bookinn/transport/http/router"

	accommodationRepository "bookinn/internal/domains/accommodation/repository"
	accommodationService "bookinn/internal/domains/accommodation/service"
	authService "bookinn/internal/domains/auth/service"
	reservationRepository "bookinn/internal/domains/reservation/repository"
	reservationService "bookinn/internal/domains/reservation/service"
	userRepository "bookinn/internal/domains/user/repository"
	userService "bookinn/internal/domains/user/service"

	accommodationHandler "bookinn/internal/handlers/accommodation"
	authHandler "bookinn/internal/handlers/auth"
	reservationHandler "bookinn/internal/handlers/reservation"
	userHandler "bookinn/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	notification.New,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
	userService.New,
)

var accommodationDomain = wire.NewSet(
	accommodationRepository.New,
	accommodationService.New,
)

var reservationDomain = wire.NewSet(
	reservationRepository.New,
	reservationService.New,
)

var domains = wire.NewSet(
	authDomain,
	accommodationDomain,
	reservationDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	accommodationHandler.New,
	reservationHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
