package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/sorteweb/banca-platform/pkg/contracts/events"
)

// KafkaPublisher emite os eventos de ciclo de vida de aposta
type KafkaPublisher struct {
	PlacedWriter    *kafka.Writer
	CancelledWriter *kafka.Writer
}

func NewKafkaPublisher(placed, cancelled *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{PlacedWriter: placed, CancelledWriter: cancelled}
}

func (p *KafkaPublisher) PublishBetPlaced(ctx context.Context, e events.BetPlaced) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, _ := json.Marshal(e)
	return p.PlacedWriter.WriteMessages(ctx, kafka.Message{Key: []byte(e.BetID), Value: b})
}

func (p *KafkaPublisher) PublishBetCancelled(ctx context.Context, e events.BetCancelled) error {
	b, _ := json.Marshal(e)
	return p.CancelledWriter.WriteMessages(ctx, kafka.Message{Key: []byte(e.BetID), Value: b})
}
