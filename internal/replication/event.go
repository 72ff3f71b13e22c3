package replication

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/tinttrack/inventory-service/internal/model"
)

const EventTypeStockTransactionRecorded = "StockTransactionRecorded"

// StockTransactionEvent carries one committed ledger entry across devices.
// The payload is the transaction verbatim; applying it on another device
// reproduces the same signed stock delta, so all devices converge once both
// event streams have been consumed.
type StockTransactionEvent struct {
	EventID   string                     `json:"event_id"`
	EventType string                     `json:"event_type"`
	DeviceID  string                     `json:"device_id"`
	Payload   model.InventoryTransaction `json:"payload"`
	Timestamp time.Time                  `json:"timestamp"`
}

// EncodeTransactionEvent builds the wire form of a committed transaction.
// The returned key is the item id so per-item ordering is preserved by the
// broker partitioning.
func EncodeTransactionEvent(deviceID string, txn *model.InventoryTransaction) (key, value []byte, err error) {
	event := StockTransactionEvent{
		EventID:   uuid.New().String(),
		EventType: EventTypeStockTransactionRecorded,
		DeviceID:  deviceID,
		Payload:   *txn,
		Timestamp: time.Now(),
	}
	value, err = json.Marshal(event)
	if err != nil {
		return nil, nil, err
	}
	return []byte(txn.InventoryItemID), value, nil
}
