//go:build wireinject
// +build wireinject

package di

import (
	"niseko/config"
	"niseko/infras/jwt"
	"niseko/infras/kafka"
	"niseko/infras/otel"
	"niseko/infras/postgres"
	"niseko/infras/redis"
	"niseko/infras/s3"
	"niseko/permissions"
	"niseko/shared/cache"
	"niseko/transport/http"
	"niseko/transport/http/middleware"
	"niseko/transport/http/router"

	"github.com/google/wire"

	authService "niseko/internal/domains/auth/service"
	guestArchive "niseko/internal/domains/guest/archive"
	guestEvent "niseko/internal/domains/guest/event"
	guestRepository "niseko/internal/domains/guest/repository"
	guestService "niseko/internal/domains/guest/service"
	roomCatalog "niseko/internal/domains/room/catalog"
	roomService "niseko/internal/domains/room/service"
	taskRepository "niseko/internal/domains/task/repository"
	taskService "niseko/internal/domains/task/service"
	userRepository "niseko/internal/domains/user/repository"
	userService "niseko/internal/domains/user/service"
	authHandler "niseko/internal/handlers/auth"
	guestHandler "niseko/internal/handlers/guest"
	roomHandler "niseko/internal/handlers/room"
	taskHandler "niseko/internal/handlers/task"
	userHandler "niseko/internal/handlers/user"
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
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
	userService.New,
)

var roomDomain = wire.NewSet(
	roomCatalog.Default,
	roomService.New,
)

var taskDomain = wire.NewSet(
	taskRepository.New,
	taskService.New,
)

var guestDomain = wire.NewSet(
	provideSessionBuilder,
	guestRepository.New,
	guestEvent.New,
	guestArchive.New,
	guestService.New,
)

var domains = wire.NewSet(
	authDomain,
	roomDomain,
	taskDomain,
	guestDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	guestHandler.New,
	taskHandler.New,
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
