package store

import (
	"context"

	"tradelytics/internal/models"
)

// KeyValueStore is the persistence contract the engine depends on: one
// logical key for the local-trade overlay and one for the commission-rate
// setting. The SQLite implementation is the default; tests use MemoryStore.
type KeyValueStore interface {
	LocalTrades(ctx context.Context) ([]models.Trade, error)
	SaveLocalTrades(ctx context.Context, trades []models.Trade) error
	CommissionRate(ctx context.Context) (float64, bool, error)
	SaveCommissionRate(ctx context.Context, rate float64) error
	Close() error
}

var _ KeyValueStore = (*SQLiteStore)(nil)
var _ KeyValueStore = (*MemoryStore)(nil)
