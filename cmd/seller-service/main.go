package main

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	shttp "github.com/sorteweb/banca-platform/internal/seller-service/http"
	"github.com/sorteweb/banca-platform/internal/seller-service/repo"
	"github.com/sorteweb/banca-platform/internal/shared/auth"
	"github.com/sorteweb/banca-platform/internal/shared/config"
	"github.com/sorteweb/banca-platform/internal/shared/db"
	"github.com/sorteweb/banca-platform/internal/shared/logger"
	"github.com/sorteweb/banca-platform/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	ctx := context.Background()

	var st shttp.Store
	healthFn := func(ctx context.Context) error { return nil }

	if cfg.Offline {
		log.Warn("modo offline: store em memória, sem Postgres")
		st = repo.NewMemory()
	} else {
		pg, err := db.ConnectPostgres(cfg.PostgresDSN)
		if err != nil {
			log.Fatal("pg", zap.Error(err))
		}
		defer pg.Close()
		if err := db.EnsureSchema(ctx, pg); err != nil {
			log.Fatal("ensure schema", zap.Error(err))
		}
		st = repo.NewPostgres(pg)
		healthFn = func(ctx context.Context) error { return pg.PingContext(ctx) }
	}

	am := auth.NewManager(cfg.JWTSecret, 12*time.Hour)

	api := shttp.NewServer(log, am, st)
	apiSrv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: api.Router(),
	}

	metrics.StartMetricsServer(cfg.MetricsPort, healthFn)

	log.Info("seller-service listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
