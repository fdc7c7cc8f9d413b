package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/adora-ads/adora-api/internal/config"
	"github.com/adora-ads/adora-api/internal/database"
	"github.com/adora-ads/adora-api/internal/handler"
	"github.com/adora-ads/adora-api/internal/jobs"
	"github.com/adora-ads/adora-api/internal/middleware"
	"github.com/adora-ads/adora-api/internal/queue"
	"github.com/adora-ads/adora-api/internal/repository"
	"github.com/adora-ads/adora-api/internal/router"
	queue_publisher "github.com/adora-ads/adora-api/internal/service"
	"github.com/adora-ads/adora-api/internal/stats"
)

func main() {
	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()
	if cfg.DBMigrate {
		if err := database.Migrate(context.Background(), db); err != nil {
			log.Fatalf("db migrate: %v", err)
		}
	}

	// Redis is optional: without it there is no cache, no rate limit and the
	// admin stats are computed per request.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; cache, rate limit and stats snapshot disabled")
	} else {
		defer rdb.Close()
	}
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Repositories
	profiles := repository.NewProfileRepo(db)
	users := repository.NewUserRepo(db, profiles)
	tokens := repository.NewTokenRepo(db)
	spaces := repository.NewSpaceRepo(db)
	bookings := repository.NewBookingRepo(db)
	catalog := repository.Catalog{ProfileRepo: profiles, SpaceRepo: spaces, BookingRepo: bookings}

	snapshots := stats.NewStore(rdb, 24*time.Hour)
	purger := middleware.CachePurger{Cfg: cacheCfg, RDB: rdb}

	var publisher handler.EventPublisher
	if cfg.EventsEnabled {
		pub := queue_publisher.New(cfg.RabbitMQURL)
		defer pub.Close()
		// booking writes only enqueue; the worker talks to the broker
		async := queue_publisher.NewAsync(pub, 256, 5*time.Second)
		defer async.Close()
		publisher = async
		go func() {
			if err := queue.StartBookingConsumer(ctx, cfg.RabbitMQURL, "logs"); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("booking-consumer: stopped: %v", err)
			}
		}()
	}

	if cfg.StatsSpec != "" && rdb != nil {
		c, err := jobs.NewStatsSnapshot(catalog, snapshots).Start(cfg.StatsSpec)
		if err != nil {
			log.Fatalf("stats snapshot: %v", err)
		}
		defer c.Stop()
	}

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	limit := middleware.NewTokenBucket(rlCfg, rdb)
	authLimit := middleware.NewTokenBucket(rlCfg.Scoped("auth", 10), rdb)
	cache := middleware.NewRedisCache(cacheCfg, rdb)

	router.RegisterRoutes(e, db)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, profiles, tokens, snapshots), cfg.JWTSecret, authLimit)

	spaceH := handler.NewSpaceHandler(spaces, purger, snapshots)
	bookingH := handler.NewBookingHandler(bookings, publisher, purger, snapshots)
	router.RegisterPublic(e, spaceH, cache, limit)
	router.RegisterOwner(e, spaceH, bookingH, cfg.JWTSecret)
	router.RegisterBrand(e, bookingH, cfg.JWTSecret)
	router.RegisterAdmin(e, handler.NewAdminHandler(catalog, snapshots), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
