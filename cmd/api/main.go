package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/sportsdist/commerce/internal/analytics"
	"github.com/sportsdist/commerce/internal/auth"
	"github.com/sportsdist/commerce/internal/cart"
	"github.com/sportsdist/commerce/internal/catalog"
	"github.com/sportsdist/commerce/internal/config"
	"github.com/sportsdist/commerce/internal/httpx"
	kafkax "github.com/sportsdist/commerce/internal/kafka"
	"github.com/sportsdist/commerce/internal/logx"
	"github.com/sportsdist/commerce/internal/orders"
	"github.com/sportsdist/commerce/internal/postgres"
	"github.com/sportsdist/commerce/internal/redisx"
	"github.com/sportsdist/commerce/internal/settings"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logx.New(logx.Options{Service: cfg.ServiceName, Env: cfg.AppEnv, Level: cfg.LogLevel})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers
	pCreated := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024)
	pCreated.Start(ctx)
	pStatus := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderStatusChanged, 1024)
	pStatus.Start(ctx)

	// Stores & handlers
	sessions := &auth.Sessions{Redis: rdb, TTL: cfg.SessionTTL}
	authH := &httpx.AuthHandler{Credentials: &auth.Repo{DB: db}, Sessions: sessions, TTL: cfg.SessionTTL}
	catalogRepo := &catalog.Repo{DB: db}
	catalogH := &httpx.CatalogHandler{Catalog: catalogRepo}
	cartH := &httpx.CartHandler{Cart: &cart.Repo{DB: db}, Catalog: catalogRepo}
	ordersH := &httpx.OrdersHandler{
		Orders:  &orders.Repo{DB: db},
		Created: pCreated,
		Status:  pStatus,
		Service: cfg.ServiceName,
	}
	settingsH := &httpx.SettingsHandler{Settings: &settings.Store{DB: db, Redis: rdb}}
	analyticsH := &httpx.AnalyticsHandler{
		Source: &analytics.Repo{DB: db},
		Live:   &analytics.Tracker{Redis: rdb, ServiceName: cfg.ServiceName},
	}

	router := httpx.NewRouter()
	authH.Register(router)
	catalogH.Register(router)
	router.Group(func(pr chi.Router) {
		pr.Use(httpx.RequireSession(sessions))
		cartH.Register(pr)
		ordersH.Register(pr)
		settingsH.Register(pr)
		analyticsH.Register(pr)
	})

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Info("HTTP listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("listen failed", "err", err)
			os.Exit(1)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	pCreated.Close()
	pStatus.Close()
	cancel() // stop producer loops
	pCreated.WaitClosed()
	pStatus.WaitClosed()
	slog.Info("bye")
}
