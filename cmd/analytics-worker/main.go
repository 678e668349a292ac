package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/sportsdist/commerce/internal/analytics"
	"github.com/sportsdist/commerce/internal/config"
	kafkax "github.com/sportsdist/commerce/internal/kafka"
	"github.com/sportsdist/commerce/internal/logx"
	"github.com/sportsdist/commerce/internal/orders"
	"github.com/sportsdist/commerce/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logx.New(logx.Options{Service: cfg.ServiceName + "-analytics", Env: cfg.AppEnv, Level: cfg.LogLevel})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	tracker := &analytics.Tracker{Redis: rdb, ServiceName: cfg.ServiceName + "-analytics"}

	group := getenv("ANALYTICS_GROUP", "analytics-svc")
	workers := mustAtoi(os.Getenv("ANALYTICS_WORKERS"), "4")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, orders.TopicOrderCreated, workers)

	go func() {
		log.Info("analytics consumer started", "group", group, "topic", orders.TopicOrderCreated, "workers", workers)
		if err := cons.Start(ctx, tracker.HandleOrderCreated); err != nil {
			log.Error("consumer exit", "err", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Info("shutting down consumer")
	cancel()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}
