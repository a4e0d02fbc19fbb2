package store

import (
	"context"
	"math"
	"sync"

	apperrors "tradelytics/internal/errors"
	"tradelytics/internal/models"
)

// MemoryStore is an in-memory KeyValueStore for tests and ephemeral runs.
type MemoryStore struct {
	mu      sync.RWMutex
	trades  []models.Trade
	rate    float64
	hasRate bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) LocalTrades(ctx context.Context) ([]models.Trade, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Trade(nil), m.trades...), nil
}

func (m *MemoryStore) SaveLocalTrades(ctx context.Context, trades []models.Trade) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trades = append([]models.Trade(nil), trades...)
	return nil
}

func (m *MemoryStore) CommissionRate(ctx context.Context) (float64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rate, m.hasRate, nil
}

func (m *MemoryStore) SaveCommissionRate(ctx context.Context, rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		return apperrors.ErrInvalidSetting
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rate = rate
	m.hasRate = true
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
