// Command audit-consumer appends every user.registered event to
// logs/registrations.log.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/iliyamo/tedris-portal/internal/config"
	"github.com/iliyamo/tedris-portal/internal/logger"
	"github.com/iliyamo/tedris-portal/internal/queue"
)

func main() {
	_ = godotenv.Load()

	zl, err := logger.New(config.IsProdEnv(os.Getenv("APP_ENV")))
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	path := os.Getenv("AUDIT_LOG_PATH")
	c := queue.NewConsumer(config.RabbitURL(), path, zl)
	zl.Info("audit consumer started", zap.String("queue", queue.UserRegisteredQueue), zap.String("log", c.LogPath))
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		zl.Fatal("audit consumer", zap.Error(err))
	}
}
