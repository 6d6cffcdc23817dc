package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-picking-service/internal/auth"
	"github.com/fekuna/omnipos-picking-service/internal/intake"
	"github.com/fekuna/omnipos-picking-service/internal/pkg/logger"
)

const EventOrderCreated = "orders/create"

// MessageReader is satisfied by *broker.KafkaConsumer.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type OrderListener struct {
	consumer  MessageReader
	processor *intake.Processor
	logger    logger.ZapLogger
	backoff   time.Duration
}

func NewOrderListener(consumer MessageReader, processor *intake.Processor, log logger.ZapLogger) *OrderListener {
	return &OrderListener{
		consumer:  consumer,
		processor: processor,
		logger:    log,
		backoff:   time.Second,
	}
}

func (l *OrderListener) Start(ctx context.Context) {
	l.logger.Info("Starting order intake Kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping order intake Kafka listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(l.backoff)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

// OrderCreatedEvent is the envelope the event bridge relays webhooks in.
type OrderCreatedEvent struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Shop      string          `json:"shop"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

func (l *OrderListener) processMessage(ctx context.Context, value []byte) {
	var event OrderCreatedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != EventOrderCreated {
		return
	}

	l.processor.Process(ctx, intake.Delivery{
		ShopID:     auth.NormalizeShop(event.Shop),
		DeliveryID: event.EventID,
		Payload:    event.Payload,
	})
}
