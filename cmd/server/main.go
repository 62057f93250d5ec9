package main // Entry point package

import (
    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/travel-booking-platform/internal/config"
    "github.com/iliyamo/travel-booking-platform/internal/database"
    "github.com/iliyamo/travel-booking-platform/internal/handler"
    "github.com/iliyamo/travel-booking-platform/internal/logger"
    "github.com/iliyamo/travel-booking-platform/internal/middleware"
    "github.com/iliyamo/travel-booking-platform/internal/queue"
    "github.com/iliyamo/travel-booking-platform/internal/repository"
    "github.com/iliyamo/travel-booking-platform/internal/router"
)

func main() {
    _ = godotenv.Load() // .env is optional; real env vars win

    cfg := config.Load()
    log := logger.New()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.WithError(err).Fatal("database connect failed")
    }
    defer db.Close()

    // ---- Repositories ----
    users := repository.NewUserRepo(db)
    refreshTokens := repository.NewRefreshTokenRepo(db)
    ledger := repository.NewLedgerRepo(db)
    trips := repository.NewTripRepo(db)
    bookings := repository.NewBookingRepo(db)
    reviews := repository.NewReviewRepo(db)
    jobs := repository.NewJobRepo(db, ledger)
    requests := repository.NewRequestRepo(db)
    notifications := repository.NewNotificationRepo(db)
    contacts := repository.NewContactRepo(db)

    // ---- Handlers ----
    authH := handler.NewAuthHandler(cfg, users, refreshTokens)
    tokenH := handler.NewTokenHandler(ledger)
    tripH := handler.NewTripHandler(trips, reviews)
    bookingH := handler.NewBookingHandler(bookings, trips, reviews)
    jobH := handler.NewJobHandler(jobs)
    requestH := handler.NewRequestHandler(requests)
    notificationH := handler.NewNotificationHandler(notifications)
    contactH := handler.NewContactHandler(contacts)
    adminH := handler.NewAdminHandler(users, ledger, contacts)

    // Background consumer turning published events into notification
    // rows. Runs its own reconnect loop for the lifetime of the server.
    go func() {
        if err := queue.StartNotificationConsumer(notifications, log); err != nil {
            log.WithError(err).Error("notification consumer stopped")
        }
    }()

    e := echo.New()
    e.HideBanner = true

    // Redis-backed response cache and token-bucket rate limiter guard
    // the public browse endpoints.
    rdb := config.NewRedisClient()
    publicMW := []echo.MiddlewareFunc{
        middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
        middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
    }

    router.RegisterRoutes(e)
    router.RegisterAuth(e, authH, cfg.JWTSecret)
    router.RegisterPublic(e, tripH, jobH, contactH, publicMW...)
    router.RegisterUser(e, tokenH, notificationH, jobH, cfg.JWTSecret)
    router.RegisterClient(e, bookingH, requestH, jobH, cfg.JWTSecret)
    router.RegisterAgent(e, tripH, bookingH, requestH, cfg.JWTSecret)
    router.RegisterAdmin(e, adminH, requestH, cfg.JWTSecret)

    addr := ":" + cfg.Port
    log.WithField("addr", addr).WithField("env", cfg.Env).Info("listening")

    if err := e.Start(addr); err != nil {
        log.WithError(err).Fatal("server stopped")
    }
}
