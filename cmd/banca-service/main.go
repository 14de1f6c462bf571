package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sorteweb/banca-platform/internal/banca-service/blocked"
	"github.com/sorteweb/banca-platform/internal/banca-service/entry"
	bhttp "github.com/sorteweb/banca-platform/internal/banca-service/http"
	"github.com/sorteweb/banca-platform/internal/banca-service/ledger"
	kpub "github.com/sorteweb/banca-platform/internal/banca-service/producer"
	"github.com/sorteweb/banca-platform/internal/banca-service/registry"
	"github.com/sorteweb/banca-platform/internal/banca-service/repo"
	"github.com/sorteweb/banca-platform/internal/banca-service/seller"
	"github.com/sorteweb/banca-platform/internal/shared/auth"
	"github.com/sorteweb/banca-platform/internal/shared/cache"
	"github.com/sorteweb/banca-platform/internal/shared/config"
	"github.com/sorteweb/banca-platform/internal/shared/db"
	"github.com/sorteweb/banca-platform/internal/shared/kafka"
	"github.com/sorteweb/banca-platform/internal/shared/logger"
	"github.com/sorteweb/banca-platform/internal/shared/metrics"
)

// store é a união dos contratos de persistência do serviço, satisfeita
// tanto pelo Postgres quanto pelo modo offline em memória.
type store interface {
	registry.Store
	blocked.Store
	ledger.Store
	bhttp.ProfileStore
}

func main() {
	cfg := config.Load()
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	ctx := context.Background()

	var (
		st   store
		rdb  *redis.Client
		publ ledger.Publisher
	)

	healthFn := func(ctx context.Context) error { return nil }

	if cfg.Offline {
		log.Warn("modo offline: stores em memória, sem Postgres/Redis/Kafka")
		mem := repo.NewMemory()
		seedOffline(log, mem)
		st = mem
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

		rdb, err = cache.ConnectRedis(cfg.RedisAddr)
		if err != nil {
			log.Fatal("redis", zap.Error(err))
		}

		placedWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetPlaced)
		defer placedWriter.Close()
		cancelledWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetCancelled)
		defer cancelledWriter.Close()
		publ = kpub.NewKafkaPublisher(placedWriter, cancelledWriter)

		healthFn = func(ctx context.Context) error {
			if err := pg.PingContext(ctx); err != nil {
				return fmt.Errorf("pg: %w", err)
			}
			if err := rdb.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
			return nil
		}
	}

	games := registry.NewGames(log, st)
	bl := blocked.NewRegistry(log, st, games, rdb)
	led := ledger.New(log, st, publ)
	entries := entry.NewManager(bl)

	if err := games.Load(ctx); err != nil {
		log.Fatal("carga de jogos", zap.Error(err))
	}
	if err := bl.Load(ctx); err != nil {
		log.Fatal("carga de bloqueios", zap.Error(err))
	}
	if err := led.Load(ctx); err != nil {
		log.Fatal("carga do ledger", zap.Error(err))
	}

	am := auth.NewManager(cfg.JWTSecret, 12*time.Hour)

	var scli *seller.Client
	if cfg.SellerServiceURL != "" {
		scli = seller.New(cfg.SellerServiceURL)
	}

	api := bhttp.NewServer(log, am, st, games, bl, led, entries, scli)
	apiSrv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: api.Router(),
	}

	metrics.Init()
	metrics.StartMetricsServer(cfg.MetricsPort, healthFn)

	log.Info("banca-service listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}

// seedOffline cria um admin padrão pra banca rodar sozinha em demo local
func seedOffline(log *zap.Logger, mem *repo.Memory) {
	hash, err := auth.HashPassword("admin123")
	if err != nil {
		log.Fatal("seed admin", zap.Error(err))
	}
	p := mem.SeedProfile(repo.Profile{
		Nome:      "Administrador",
		Usuario:   "admin",
		SenhaHash: hash,
		Role:      "admin",
		Status:    "ativo",
	})
	log.Info("admin offline criado", zap.String("usuario", p.Usuario))
}
