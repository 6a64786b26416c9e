package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/iliyamo/tedris-portal/internal/config"
	"github.com/iliyamo/tedris-portal/internal/database"
	"github.com/iliyamo/tedris-portal/internal/handler"
	"github.com/iliyamo/tedris-portal/internal/logger"
	"github.com/iliyamo/tedris-portal/internal/queue"
	"github.com/iliyamo/tedris-portal/internal/repository"
	"github.com/iliyamo/tedris-portal/internal/router"
	"github.com/iliyamo/tedris-portal/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	zl, err := logger.New(cfg.IsProd())
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	dsn := cfg.DBDSN
	if cfg.DBDriver == "mysql" && dsn == "" {
		dsn = database.MySQLDSN(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	}
	db, err := database.Open(cfg.DBDriver, dsn)
	if err != nil {
		zl.Fatal("open database", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(ctx, db); err != nil {
		zl.Fatal("migrate", zap.Error(err))
	}

	users := repository.NewUserRepo(db)
	schools := repository.NewSchoolRepo(db)
	if n, err := schools.Seed(ctx, database.DefaultSchools); err != nil {
		zl.Fatal("seed schools", zap.Error(err))
	} else if n > 0 {
		zl.Info("seeded schools", zap.Int("count", n))
	}

	var events service.Publisher
	if cfg.EventsEnabled {
		events = queue.NewPublisher(cfg.RabbitURL, zl)
	}
	auth, err := service.NewAuth(users, cfg.BcryptCost, zl)
	if err != nil {
		zl.Fatal("auth service", zap.Error(err))
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		zl.Warn("redis unavailable; cache and rate limit disabled")
	} else {
		defer rdb.Close()
	}

	e := router.New(router.Handlers{
		Auth: handler.NewAuthHandler(cfg,
			service.NewRegistration(users, schools, events, cfg.BcryptCost, zl),
			auth, users, repository.NewTokenRepo(db), zl),
		Admin:  handler.NewAdminHandler(service.NewStats(repository.NewStatsRepo(db), zl), users, zl),
		Public: handler.NewPublicHandler(schools, zl),
		DB:     db,
	}, router.Options{
		JWTSecret: cfg.JWTSecret,
		Redis:     rdb,
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
		Log:       zl,
	})

	addr := ":" + cfg.Port
	zl.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env), zap.String("db", cfg.DBDriver))
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zl.Error("shutdown", zap.Error(err))
	}
}
