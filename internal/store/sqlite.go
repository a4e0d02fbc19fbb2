// Package store provides data persistence implementations.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/mattn/go-sqlite3"

	apperrors "tradelytics/internal/errors"
	"tradelytics/internal/models"
)

// Logical keys for the persisted values. Version suffixes allow future
// schema changes without migrations.
const (
	localTradesKey  = "localTrades.v1"
	commissionRtKey = "commissionRt.v1"
)

// SQLiteStore implements KeyValueStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the settings database, creating the
// parent directory if needed.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// LocalTrades reads the persisted overlay of locally-originated trades.
// A missing or unreadable value degrades to an empty overlay.
func (s *SQLiteStore) LocalTrades(ctx context.Context) ([]models.Trade, error) {
	raw, err := s.get(ctx, localTradesKey)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	var trades []models.Trade
	if err := json.Unmarshal([]byte(raw), &trades); err != nil {
		return nil, &apperrors.StoreError{Key: localTradesKey, Op: "decode", Err: err}
	}
	return trades, nil
}

// SaveLocalTrades writes the complete overlay back in one logical key.
func (s *SQLiteStore) SaveLocalTrades(ctx context.Context, trades []models.Trade) error {
	if trades == nil {
		trades = []models.Trade{}
	}
	raw, err := json.Marshal(trades)
	if err != nil {
		return &apperrors.StoreError{Key: localTradesKey, Op: "encode", Err: err}
	}
	return s.set(ctx, localTradesKey, string(raw))
}

// CommissionRate reads the round-trip commission per unit. The second
// return reports whether a value was present.
func (s *SQLiteStore) CommissionRate(ctx context.Context) (float64, bool, error) {
	raw, err := s.get(ctx, commissionRtKey)
	if err != nil || raw == "" {
		return 0, false, err
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false, nil
	}
	return v, true, nil
}

// SaveCommissionRate persists the commission setting. Negative or
// non-finite values are rejected.
func (s *SQLiteStore) SaveCommissionRate(ctx context.Context, rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		return apperrors.ErrInvalidSetting
	}
	return s.set(ctx, commissionRtKey, strconv.FormatFloat(rate, 'f', -1, 64))
}

func (s *SQLiteStore) get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", &apperrors.StoreError{Key: key, Op: "read", Err: err}
	}
	return value, nil
}

func (s *SQLiteStore) set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return &apperrors.StoreError{Key: key, Op: "write", Err: err}
	}
	return nil
}
