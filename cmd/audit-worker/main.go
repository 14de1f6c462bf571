package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/sorteweb/banca-platform/internal/shared/config"
	"github.com/sorteweb/banca-platform/internal/shared/db"
	"github.com/sorteweb/banca-platform/internal/shared/kafka"
	"github.com/sorteweb/banca-platform/internal/shared/logger"
	"github.com/sorteweb/banca-platform/internal/shared/metrics"
	ev "github.com/sorteweb/banca-platform/pkg/contracts/events"
)

// O audit-worker materializa a trilha de auditoria: consome os eventos
// de ciclo de vida das apostas e grava uma linha em bet_transactions
// por transição. Payload ilegível vai para a DLQ e não trava o consumo.

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg connect", zap.Error(err))
	}
	defer pg.Close()

	if err := db.EnsureSchema(context.Background(), pg); err != nil {
		log.Fatal("ensure schema", zap.Error(err))
	}

	placedReader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicBetPlaced, "audit-worker")
	defer placedReader.Close()
	cancelledReader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicBetCancelled, "audit-worker")
	defer cancelledReader.Close()

	var dlqWriter *kafkago.Writer
	if cfg.TopicBetAuditDLQ != "" {
		dlqWriter = kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetAuditDLQ)
		defer dlqWriter.Close()
	}

	metrics.Init()
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return pg.PingContext(ctx)
	})

	log.Info("audit-worker started",
		zap.String("consume", cfg.TopicBetPlaced+","+cfg.TopicBetCancelled),
		zap.String("dlq", cfg.TopicBetAuditDLQ),
	)

	ctx := context.Background()

	go consumePlaced(ctx, log, pg, placedReader, dlqWriter)
	consumeCancelled(ctx, log, pg, cancelledReader, dlqWriter)
}

func consumePlaced(ctx context.Context, log *zap.Logger, pg *sql.DB, r *kafkago.Reader, dlq *kafkago.Writer) {
	for {
		key, value, err := kafka.ReadNext(ctx, r)
		if err != nil {
			log.Warn("kafka read bet_placed", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		var placed ev.BetPlaced
		if jerr := json.Unmarshal(value, &placed); jerr != nil || placed.BetID == "" {
			log.Error("payload bet_placed ilegível, enviando para DLQ", zap.Error(jerr))
			sendDLQ(ctx, log, dlq, key, value)
			continue
		}
		if err := insertTransaction(ctx, pg, placed.BetID, "nova", "ativa", "aposta registrada"); err != nil {
			log.Error("bet_tx insert", zap.String("betId", placed.BetID), zap.Error(err))
			time.Sleep(500 * time.Millisecond)
		}
	}
}

func consumeCancelled(ctx context.Context, log *zap.Logger, pg *sql.DB, r *kafkago.Reader, dlq *kafkago.Writer) {
	for {
		key, value, err := kafka.ReadNext(ctx, r)
		if err != nil {
			log.Warn("kafka read bet_cancelled", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		var cancelled ev.BetCancelled
		if jerr := json.Unmarshal(value, &cancelled); jerr != nil || cancelled.BetID == "" {
			log.Error("payload bet_cancelled ilegível, enviando para DLQ", zap.Error(jerr))
			sendDLQ(ctx, log, dlq, key, value)
			continue
		}
		motivo := cancelled.Motivo
		if motivo == "" {
			motivo = "cancelada pela administração"
		}
		if err := insertTransaction(ctx, pg, cancelled.BetID, "ativa", "cancelada", motivo); err != nil {
			log.Error("bet_tx insert", zap.String("betId", cancelled.BetID), zap.Error(err))
			time.Sleep(500 * time.Millisecond)
		}
	}
}

func insertTransaction(ctx context.Context, pg *sql.DB, betID, oldStatus, newStatus, reason string) error {
	_, err := pg.ExecContext(ctx, `
		INSERT INTO bet_transactions (bet_id, old_status, new_status, reason, created_at)
		VALUES ($1,$2,$3,$4,NOW())`, betID, oldStatus, newStatus, reason)
	return err
}

func sendDLQ(ctx context.Context, log *zap.Logger, dlq *kafkago.Writer, key, value []byte) {
	if dlq == nil {
		return
	}
	if err := kafka.WriteJSON(ctx, dlq, string(key), value); err != nil {
		log.Warn("falha ao escrever na DLQ", zap.Error(err))
	}
}
