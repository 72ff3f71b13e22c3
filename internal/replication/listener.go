package replication

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/tinttrack/inventory-service/internal/inventory"
	"github.com/tinttrack/inventory-service/pkg/broker"
	"github.com/tinttrack/inventory-service/pkg/logger"
	"go.uber.org/zap"
)

// Listener consumes the replication stream and replays ledger transactions
// committed on other devices. Replays are idempotent: a transaction id that
// already exists locally is skipped, so redelivery is safe.
type Listener struct {
	consumer *broker.KafkaConsumer
	items    inventory.UseCase
	deviceID string
	logger   logger.ZapLogger
}

func NewListener(consumer *broker.KafkaConsumer, items inventory.UseCase, deviceID string, log logger.ZapLogger) *Listener {
	return &Listener{
		consumer: consumer,
		items:    items,
		deviceID: deviceID,
		logger:   log,
	}
}

// Start blocks reading the stream until the context is cancelled.
func (l *Listener) Start(ctx context.Context) {
	l.logger.Info("replication listener started", zap.String("device_id", l.deviceID))

	for {
		msg, err := l.consumer.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				l.logger.Info("replication listener stopped")
				return
			}
			l.logger.Error("failed to read replication message", zap.Error(err))
			continue
		}
		l.handleMessage(ctx, msg.Value)
	}
}

func (l *Listener) handleMessage(ctx context.Context, value []byte) {
	var event StockTransactionEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("failed to decode replication event", zap.Error(err))
		return
	}

	if event.EventType != EventTypeStockTransactionRecorded {
		l.logger.Warn("skipping unknown replication event", zap.String("event_type", event.EventType))
		return
	}
	// Our own commits already applied locally before publishing.
	if event.DeviceID == l.deviceID {
		return
	}

	applied, err := l.items.ApplyRemoteTransaction(ctx, &event.Payload)
	if err != nil {
		l.logger.Error("failed to apply remote transaction",
			zap.String("transaction_id", event.Payload.ID),
			zap.String("device_id", event.DeviceID),
			zap.Error(err),
		)
		return
	}
	if !applied {
		l.logger.Debug("skipped already applied transaction", zap.String("transaction_id", event.Payload.ID))
		return
	}

	l.logger.Info("applied remote transaction",
		zap.String("transaction_id", event.Payload.ID),
		zap.String("item_id", event.Payload.InventoryItemID),
		zap.Float64("delta_grams", event.Payload.DeltaGrams),
	)
}
