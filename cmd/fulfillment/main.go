package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/gaughey2000/ecommerce-project-sub000/internal/config"
	"github.com/gaughey2000/ecommerce-project-sub000/internal/fulfillment"
	kafkax "github.com/gaughey2000/ecommerce-project-sub000/internal/kafka"
	"github.com/gaughey2000/ecommerce-project-sub000/internal/orders"
	"github.com/gaughey2000/ecommerce-project-sub000/internal/postgres"
	"github.com/gaughey2000/ecommerce-project-sub000/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	pCancelled := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCancelled, 1024)
	pCancelled.Start(ctx)

	svc := &fulfillment.Service{
		Store:       &fulfillment.Repo{DB: db},
		Redis:       rdb,
		Producer:    pCancelled,
		ServiceName: cfg.ServiceName + "-fulfillment",
	}

	group := getenv("FULFILLMENT_GROUP", "fulfillment-svc")
	workers := atoi(os.Getenv("FULFILLMENT_WORKERS"), 4)
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, orders.TopicOrderCancelRequested, workers)

	go func() {
		log.Printf("fulfillment consumer started: group=%s topic=%s workers=%d",
			group, orders.TopicOrderCancelRequested, workers)
		if err := cons.Start(ctx, svc.HandleCancelRequested); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down consumer...")
	cancel()
	pCancelled.Close()
	pCancelled.WaitClosed()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
