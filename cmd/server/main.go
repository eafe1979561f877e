package main // Entry point package

import (
    "log"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"
    "github.com/prometheus/client_golang/prometheus/promhttp"

    "github.com/fricsignage/signage-api/internal/config"
    "github.com/fricsignage/signage-api/internal/database"
    "github.com/fricsignage/signage-api/internal/handler"
    "github.com/fricsignage/signage-api/internal/middleware"
    "github.com/fricsignage/signage-api/internal/queue"
    "github.com/fricsignage/signage-api/internal/repository"
    "github.com/fricsignage/signage-api/internal/router"
    "github.com/fricsignage/signage-api/internal/storage"
)

func main() {
    // .env is optional; real deployments set the environment directly.
    _ = godotenv.Load()

    cfg := config.Load()
    cacheCfg := config.LoadCacheConfig()
    rlCfg := config.LoadRateLimitConfig()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database connect: %v", err)
    }
    defer db.Close()

    if err := database.Migrate(db); err != nil {
        log.Fatalf("database migrate: %v", err)
    }

    // Redis is optional: a nil client turns the cache and the rate limiter
    // into pass-throughs.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Println("redis unavailable; response cache and rate limiting disabled")
    }

    store, err := storage.NewStore(cfg.UploadDir)
    if err != nil {
        log.Fatalf("upload dir: %v", err)
    }

    users := repository.NewUserRepo(db)
    tokens := repository.NewTokenRepo(db)
    admins := repository.NewAdminRepo(db)
    subs := repository.NewSubmissionRepo(db)
    slots := repository.NewSlotRepo(db)
    files := repository.NewFileRepo(db)

    authH := handler.NewAuthHandler(cfg, users, tokens)
    adminAuthH := handler.NewAdminAuthHandler(cfg, admins)
    submissionH := handler.NewSubmissionHandler(cfg, subs, slots, files, users, store)
    bookedH := handler.NewBookedHandler(slots)
    reviewH := handler.NewReviewHandler(subs, cfg.APIOrigin)

    e := echo.New()
    e.HideBanner = true
    e.Use(echomw.Recover())
    e.Use(echomw.Logger())

    metrics := middleware.NewMetrics("signage-api")
    e.Use(metrics.Middleware())
    e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

    router.RegisterRoutes(e, bookedH, submissionH, cacheCfg, rlCfg, rdb)
    router.RegisterAuth(e, authH, cfg.JWTSecret, rlCfg, rdb)
    router.RegisterAdmin(e, adminAuthH, reviewH, admins, cfg.JWTSecret, rlCfg, rdb)

    // Serve stored media so the review UI can preview submissions.
    e.Static("/uploads", cfg.UploadDir)

    // Mail worker: consumes user.registered and submission.received.  Runs
    // its own reconnect loop, so a broker outage never stops the API.
    go func() {
        if err := queue.StartMailConsumer(cfg.SMTP); err != nil {
            log.Printf("mail consumer stopped: %v", err)
        }
    }()

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)

    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
