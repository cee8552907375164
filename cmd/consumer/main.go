package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/threeofkind/storefront/cmd/config"
	"github.com/threeofkind/storefront/thirdparty/rabbitmq"
	"github.com/threeofkind/storefront/utils/logger"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.Environment, "storefront-expiry-consumer"); err != nil {
		panic(err)
	}
	defer logger.Close()

	consumer, err := rabbitmq.NewConsumer(cfg.RabbitMQ.Host, cfg.RabbitMQ.Port, cfg.RabbitMQ.User, cfg.RabbitMQ.Password,
		cfg.Internal.APIURL, cfg.Internal.APIKey)
	if err != nil {
		logger.Fatal("err connect rabbitmq", zap.Error(err))
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := consumer.Start(ctx); err != nil {
		logger.Fatal("err start consumer", zap.Error(err))
	}
	logger.Info("Payment expiry consumer running", zap.String("api_url", cfg.Internal.APIURL))

	<-ctx.Done()
	logger.Info("Shutting down consumer")
}
