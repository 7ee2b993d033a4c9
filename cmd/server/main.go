package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/lws-platform/auth-service/internal/config"
	"github.com/lws-platform/auth-service/internal/database"
	"github.com/lws-platform/auth-service/internal/handler"
	"github.com/lws-platform/auth-service/internal/middleware"
	"github.com/lws-platform/auth-service/internal/queue"
	"github.com/lws-platform/auth-service/internal/repository"
	"github.com/lws-platform/auth-service/internal/router"
	"github.com/lws-platform/auth-service/internal/service"
)

// main is the composition root: every store, service and handler is
// constructed once here and passed down explicitly.
func main() {
	_ = godotenv.Load() // optional .env for local runs
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("mysql connect failed: %v", err)
	}
	rdb, err := config.NewRedisClient()
	if err != nil {
		// The token store lives in Redis; without it nothing can be
		// issued or authorized.
		log.Fatalf("redis connect failed: %v", err)
	}

	accounts := repository.NewAccountRepo(db)
	tokens := repository.NewTokenRepo(rdb)
	events := repository.NewEventRepo(cfg.AmqpURL)

	accountSvc := service.NewAccountService(accounts, tokens, events, cfg.BcryptCost)
	tokenSvc := service.NewTokenService(tokens)

	go func() {
		if err := queue.StartTokenConsumer(cfg.AmqpURL, accountSvc); err != nil {
			log.Printf("token consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	limiter := middleware.NewCredentialRateLimiter(config.LoadRateLimitConfig(), rdb)
	router.RegisterRoutes(e, handler.NewAccountHandler(accountSvc, tokenSvc), handler.NewAuthHandler(), tokens, limiter)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
