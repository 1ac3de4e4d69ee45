package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/s1res/digital-navigator/internal/config"
	"github.com/s1res/digital-navigator/internal/database"
	"github.com/s1res/digital-navigator/internal/handler"
	"github.com/s1res/digital-navigator/internal/middleware"
	"github.com/s1res/digital-navigator/internal/queue"
	"github.com/s1res/digital-navigator/internal/repository"
	"github.com/s1res/digital-navigator/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.InitSchema(ctx, db); err != nil {
		log.Fatalf("schema: %v", err)
	}
	if err := database.SeedDefaultUsers(ctx, db, cfg.BcryptCost); err != nil {
		log.Fatalf("seed: %v", err)
	}

	// Redis is optional: without it the rate limiter and the browse
	// cache are simply disabled.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and response cache disabled")
	}

	events := repository.NewEventRepo(db)
	users := repository.NewUserRepo(db)
	regs := repository.NewRegistrationRepo(db)

	eventHandler := handler.NewEventHandler(cfg, events, regs)
	regHandler := handler.NewRegistrationHandler(events, users, regs)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterPublic(e, eventHandler, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterUser(e, regHandler, cfg.JWTSecret)
	router.RegisterAdmin(e, regHandler, eventHandler, cfg.JWTSecret)

	// Background consumer keeps its own reconnect loop.
	go func() {
		if err := queue.StartRegistrationConsumer(); err != nil {
			log.Printf("registration consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
