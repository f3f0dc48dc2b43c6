//регистрация и аутентификация пользователей зала;
//прием снимков коллекций от клиентов (websocket и REST);
//раздача изменений коллекций всем подписанным клиентам;
//админские решения по заявкам на тренировки и оценка прошедших.

//POST /api/v1/auth/register          # Регистрация (публичный)
//POST /api/v1/auth/login             # Логин (публичный)
//GET  /api/v1/collections            # Список коллекций (auth)
//GET  /api/v1/collections/{path}     # Снимок коллекции (auth)
//PUT  /api/v1/collections/{path}     # Записать снимок (auth)
//GET  /api/v1/bookings               # Список записей (auth)
//GET  /api/v1/bookings/classify      # Классификация слота (auth)
//POST /api/v1/bookings/{id}/approve  # Подтвердить (админ)
//POST /api/v1/bookings/{id}/reject   # Отклонить (админ)
//POST /api/v1/bookings/{id}/rate     # Оценить (auth)
//GET  /api/v1/slots                  # Слоты рабочего дня
//GET  /api/v1/realtime               # Websocket синхронизации (auth)

package api

import (
	bookingAPI "gymsync/internal/app/server/api/http/booking"
	collectionAPI "gymsync/internal/app/server/api/http/collection"
	healthAPI "gymsync/internal/app/server/api/http/health"
	"gymsync/internal/app/server/api/http/middleware"
	"gymsync/internal/app/server/api/http/middleware/auth"
	"gymsync/internal/app/server/api/http/middleware/logger"
	"gymsync/internal/app/server/api/http/middleware/ratelimit"
	userAPI "gymsync/internal/app/server/api/http/user"
	"gymsync/internal/app/server/config"
	"gymsync/internal/app/server/realtime"
	"gymsync/internal/domain/booking"
	"gymsync/internal/domain/collection"
	"gymsync/internal/domain/session"
	"gymsync/internal/domain/user"
	"gymsync/internal/infrastructure/storage/postgres"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/exp/slog"
)

type Handlers struct {
	Health     *healthAPI.Handler
	User       *userAPI.Handler
	Collection *collectionAPI.Handler
	Booking    *bookingAPI.Handler
	Realtime   *realtime.Handler
	Bridge     *realtime.Bridge
}

// New создает *chi.Mux со ВСЕМИ операциями через huma.Register и
// websocket-маршрутом синхронизации. Возвращаемый мост рассылки запускается
// вызывающей стороной; без Redis он равен nil.
func New(cfg *config.Config, storage *postgres.Storage, rdb *redis.Client, log *slog.Logger) (*chi.Mux, *realtime.Bridge) {
	mux := chi.NewMux()

	humaConfig := huma.DefaultConfig("Gymsync API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, humaConfig)

	h := handlers(cfg, storage, rdb, log)
	h.Health.SetupRoutes(API)
	h.User.SetupRoutes(API)
	h.Collection.SetupRoutes(API)
	h.Booking.SetupRoutes(API)

	mux.Get("/api/v1/realtime", h.Realtime.ServeWS)

	return mux, h.Bridge
}

func handlers(cfg *config.Config, storage *postgres.Storage, rdb *redis.Client, log *slog.Logger) *Handlers {
	sessionRepo := postgres.NewSessionRepository(storage, log)
	sessionService := session.NewService(sessionRepo, log)
	authMW := auth.New(sessionService, log)
	loggerMW := logger.New(log)
	rateMW := ratelimit.New(cfg.Server.RateLimit, cfg.Server.RateBurst, log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(log, middlewares.GetAllAndClear())

	userRepo := postgres.NewUserRepository(storage, log)
	userService := user.NewService(userRepo, user.NewCredentialsValidator(), log)
	middlewares.Add(rateMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	userHandler := userAPI.NewHandler(userService, sessionService, log, middlewares.GetAllAndClear())

	collectionRepo := postgres.NewCollectionRepository(storage, log)
	collectionService := collection.NewService(collectionRepo, log)

	bookingRepo := postgres.NewBookingRepository(storage, log)
	bookingService := booking.NewService(bookingRepo, log)

	// Снимки "bookings" от клиентов разворачиваются в таблицу записей,
	// серверные решения публикуются обратно как снимок коллекции.
	collectionService.RegisterProjector(booking.CollectionPath, booking.NewSnapshotProjector(bookingService))

	hub := realtime.NewHub(log)
	var bridge *realtime.Bridge
	if rdb != nil {
		bridge = realtime.NewBridge(rdb, hub, log)
		hub.SetBridge(bridge)
	}
	bookingService.SetPublisher(realtime.NewBookingPublisher(collectionService, hub, log))

	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	collectionHandler := collectionAPI.NewHandler(collectionService, hub, log, middlewares.GetAllAndClear())

	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	bookingHandler := bookingAPI.NewHandler(bookingService, userService, log, middlewares.GetAllAndClear())

	realtimeHandler := realtime.NewHandler(hub, collectionService, sessionService, log)

	return &Handlers{
		Health:     healthHandler,
		User:       userHandler,
		Collection: collectionHandler,
		Booking:    bookingHandler,
		Realtime:   realtimeHandler,
		Bridge:     bridge,
	}
}
