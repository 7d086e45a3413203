//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"inn/config"
	"inn/infras/files"
	"inn/infras/jsonstore"
	"inn/infras/jwt"
	"inn/infras/mailer"
	"inn/infras/otel"
	"inn/infras/redis"
	"inn/infras/s3"
	"inn/shared/cache"
	"inn/transport/http"
	"inn/transport/http/middleware"
	"inn/transport/http/router"

	authRepository "inn/internal/domains/auth/repository"
	authService "inn/internal/domains/auth/service"
	bookingRepository "inn/internal/domains/booking/repository"
	bookingService "inn/internal/domains/booking/service"
	receiptService "inn/internal/domains/receipt/service"
	roomRepository "inn/internal/domains/room/repository"
	roomService "inn/internal/domains/room/service"

	authHandler "inn/internal/handlers/auth"
	bookingHandler "inn/internal/handlers/booking"
	roomHandler "inn/internal/handlers/room"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	otel.New,
	redis.New,
	jwt.New,
	jsonstore.New,
	s3.New,
	files.New,
	mailer.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var authDomain = wire.NewSet(
	authRepository.New,
	authService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	receiptService.New,
	bookingService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var domains = wire.NewSet(
	authDomain,
	bookingDomain,
	roomDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	bookingHandler.New,
	roomHandler.New,
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
