package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/mella-app/mella/internal/config"
	"github.com/mella-app/mella/internal/database"
	"github.com/mella-app/mella/internal/handler"
	"github.com/mella-app/mella/internal/middleware"
	"github.com/mella-app/mella/internal/model"
	"github.com/mella-app/mella/internal/notify"
	"github.com/mella-app/mella/internal/queue"
	"github.com/mella-app/mella/internal/realtime"
	"github.com/mella-app/mella/internal/repository"
	"github.com/mella-app/mella/internal/router"
)

func main() {
	// A missing .env is fine in production; config.Load still enforces
	// the required variables.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Redis backs the response cache and the rate limiter.  A nil
	// client just disables both.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, caching and rate limiting disabled")
	}

	hub := realtime.NewHub()

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	adRepo := repository.NewAdRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	notifRepo := repository.NewNotificationRepo(db)
	feedRepo := repository.NewFeedRepo(db)
	messageRepo := repository.NewMessageRepo(db)
	typingRepo := repository.NewTypingRepo(db)
	reviewRepo := repository.NewReviewRepo(db)

	fanout := notify.NewFanout(notifRepo, feedRepo, hub)

	authH := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	adH := handler.NewAdHandler(adRepo, fanout, hub)
	publicH := handler.NewPublicHandler(adRepo, reviewRepo)
	bookingH := handler.NewBookingHandler(bookingRepo, adRepo, userRepo, fanout, hub)
	workerH := handler.NewWorkerBookingHandler(bookingRepo, adRepo, fanout, hub)
	notifH := handler.NewNotificationHandler(notifRepo)
	feedH := handler.NewFeedHandler(feedRepo, cfg.JWTSecret)
	messageH := handler.NewMessageHandler(messageRepo, typingRepo, userRepo, fanout, hub)
	reviewH := handler.NewReviewHandler(reviewRepo, bookingRepo, adRepo, fanout, hub)
	wsH := handler.NewWSHandler(hub, cfg.JWTSecret)

	// Background consumer for booking lifecycle events; it reconnects
	// on its own and only ever logs.
	go func() {
		if err := queue.StartLifecycleConsumer(); err != nil {
			log.Printf("lifecycle consumer stopped: %v", err)
		}
	}()

	// Reap abandoned typing indicators so crashed clients do not appear
	// to type forever.
	go func() {
		ticker := time.NewTicker(model.TypingStaleAfter)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if convs, err := typingRepo.DeleteStale(ctx); err != nil {
				log.Printf("typing reaper: %v", err)
			} else {
				// keyed per conversation so filtered subscriptions see it
				for _, conv := range convs {
					hub.Signal("typing_indicators", "delete", realtime.ConversationFilter(conv))
				}
			}
			cancel()
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cacheMw := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, feedH, cacheMw)
	router.RegisterShared(e, notifH, messageH, bookingH, cfg.JWTSecret)
	router.RegisterCustomer(e, bookingH, reviewH, cfg.JWTSecret)
	router.RegisterWorker(e, adH, workerH, cfg.JWTSecret)
	router.RegisterRealtime(e, wsH)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
