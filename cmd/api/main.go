package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/gaughey2000/ecommerce-project-sub000/internal/cart"
	"github.com/gaughey2000/ecommerce-project-sub000/internal/catalog"
	"github.com/gaughey2000/ecommerce-project-sub000/internal/checkout"
	"github.com/gaughey2000/ecommerce-project-sub000/internal/config"
	"github.com/gaughey2000/ecommerce-project-sub000/internal/httpx"
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

	if err := postgres.Migrate(cfg.PostgresDSN); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	pCreated := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024)
	pCreated.Start(ctx)
	pCancel := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCancelRequested, 1024)
	pCancel.Start(ctx)

	carts := &cart.Repo{DB: db}
	svc := &checkout.Service{
		Carts:   carts,
		Store:   &checkout.Repo{DB: db},
		Gateway: checkout.SandboxGateway{},
	}

	router := httpx.NewRouter()
	(&httpx.ProductsHandler{Catalog: &catalog.Repo{DB: db}}).Register(router)
	(&httpx.CartHandler{Carts: carts, Redis: rdb}).Register(router)
	(&httpx.CheckoutHandler{Checkout: svc, Producer: pCreated, Redis: rdb, Service: cfg.ServiceName}).Register(router)
	(&httpx.OrdersHandler{Orders: &orders.Repo{DB: db}, Producer: pCancel, Redis: rdb, Service: cfg.ServiceName}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)

	pCreated.Close()
	pCreated.WaitClosed()
	pCancel.Close()
	pCancel.WaitClosed()
}
