package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/postboard/api-go/cache"
	"github.com/postboard/api-go/config"
	"github.com/postboard/api-go/events"
	"github.com/postboard/api-go/logger"
	"github.com/postboard/api-go/routes"
	"github.com/postboard/api-go/services"
	"github.com/postboard/api-go/utils"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := logger.Init(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := config.InitTracing(ctx, cfg)
	if err != nil {
		log.Error("init tracing", "error", err)
		os.Exit(1)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Error("init database", "error", err)
		os.Exit(1)
	}

	var likeCache services.LikeCountCache
	if cfg.RedisAddr != "" {
		likeCache = cache.NewLikeCountCache(cache.NewClient(cfg.RedisAddr), cfg.LikeCacheTTL)
		log.Info("like count cache enabled", "addr", cfg.RedisAddr)
	}

	var (
		publisher     events.Publisher = events.NopPublisher{}
		natsPublisher *events.NATSPublisher
	)
	if cfg.NATSURL != "" {
		natsPublisher, err = events.NewNATSPublisher(cfg.NATSURL, cfg.NATSSubjectPrefix)
		if err != nil {
			log.Error("connect to nats", "error", err)
			os.Exit(1)
		}
		defer natsPublisher.Close()
		publisher = natsPublisher
	}

	likes := services.NewLikeLedger(db, likeCache)
	deps := routes.Dependencies{
		DB:      db,
		Posts:   services.NewPostService(db, likes, publisher),
		Listing: services.NewListing(db),
		Tokens:  utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL),
		Readiness: func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			if err := sqlDB.Ping(); err != nil {
				return err
			}
			if natsPublisher != nil {
				return natsPublisher.Check()
			}
			return nil
		},
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())
	routes.SetupRoutes(r, deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(r, "postboard-api"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracing shutdown", "error", err)
	}
}
