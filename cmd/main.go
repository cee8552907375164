package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	authapp "github.com/threeofkind/storefront/application/auth"
	checkoutapp "github.com/threeofkind/storefront/application/checkout"
	inventoryapp "github.com/threeofkind/storefront/application/inventory"
	orderapp "github.com/threeofkind/storefront/application/order"
	paymentapp "github.com/threeofkind/storefront/application/payment"
	"github.com/threeofkind/storefront/cmd/config"
	redisclient "github.com/threeofkind/storefront/cmd/redis"
	_ "github.com/threeofkind/storefront/docs"
	orderRepo "github.com/threeofkind/storefront/repository/order"
	paymentRepo "github.com/threeofkind/storefront/repository/payment"
	productRepo "github.com/threeofkind/storefront/repository/product"
	redisRepo "github.com/threeofkind/storefront/repository/redis"
	txRepo "github.com/threeofkind/storefront/repository/tx"
	"github.com/threeofkind/storefront/thirdparty/kafka"
	"github.com/threeofkind/storefront/thirdparty/midtrans"
	"github.com/threeofkind/storefront/thirdparty/rabbitmq"
	"github.com/threeofkind/storefront/transport"
	"github.com/threeofkind/storefront/utils/logger"
	"go.uber.org/zap"
)

// @title STOREFRONT API
// @version 1.0
// @description Checkout, payment and order lifecycle API
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.Environment, "storefront-api"); err != nil {
		panic(err)
	}
	defer logger.Close()

	logger.Info("Starting server", zap.String("env", cfg.Environment))

	db, err := sqlx.Connect("mysql", cfg.GetDSN())
	if err != nil {
		logger.Fatal("err connect db", zap.Error(err))
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := redisclient.New(cfg); err != nil {
		logger.Fatal("err connect redis", zap.Error(err))
	}
	defer func() {
		_ = redisclient.Close()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Without a broker, orders still complete; they are expired by the gateway's own expire
	// notification instead of the delayed message.
	publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQ.Host, cfg.RabbitMQ.Port, cfg.RabbitMQ.User, cfg.RabbitMQ.Password)
	if err != nil {
		logger.Error("err connect rabbitmq, payment expiry messages disabled", zap.Error(err))
		publisher = nil
	} else {
		defer publisher.Close()
	}

	// Requests still in flight during shutdown publish events, so the producer outlives ctx.
	eventsCtx, stopEvents := context.WithCancel(context.Background())
	defer stopEvents()
	events := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, 1024)
	events.Start(eventsCtx)

	TxRepo := txRepo.NewTxRepository(db)
	ProductRepo := productRepo.NewProductRepository(db)
	OrderRepo := orderRepo.NewOrderRepository(db)
	PaymentRepo := paymentRepo.NewPaymentRepository(db)
	RedisRepo := redisRepo.NewRepository()

	Gateway := midtrans.NewGateway(cfg.Midtrans)

	InventoryApp := inventoryapp.NewInventoryApp(ProductRepo)
	AuthApp := authapp.NewAuthApp(cfg, RedisRepo)
	OrderApp := orderapp.NewOrderApp(TxRepo, OrderRepo, PaymentRepo, RedisRepo, InventoryApp, events)
	PaymentApp := paymentapp.NewPaymentApp(Gateway, PaymentRepo, OrderApp)
	CheckoutApp := checkoutapp.NewCheckoutApp(cfg, TxRepo, ProductRepo, OrderRepo, PaymentRepo, InventoryApp, Gateway, publisher, events)

	httpTransport := transport.NewTransport(cfg.Internal.APIKey, AuthApp, CheckoutApp, OrderApp, PaymentApp)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      httpTransport,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP server running", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	stopEvents()
	events.WaitClosed()
}
