// Package feed acquires the serialized trade dataset from the first
// candidate location that resolves, falling back to a built-in minimal
// dataset when every candidate fails. Acquisition failures are recovered
// locally and never surfaced as fatal.
package feed

import (
	"encoding/json"
	"os"

	"github.com/rs/zerolog"

	apperrors "tradelytics/internal/errors"
	"tradelytics/internal/models"
	"tradelytics/internal/normalize"
)

// rawDataset mirrors the on-disk feed document before normalization.
type rawDataset struct {
	Trades  []models.RawTradeRecord `json:"trades"`
	Journal []models.JournalEntry   `json:"journal"`
}

// Loader reads the dataset from an ordered list of candidate file paths.
type Loader struct {
	candidates []string
	log        zerolog.Logger
}

// NewLoader creates a loader over the given candidate paths.
func NewLoader(candidates []string, log zerolog.Logger) *Loader {
	return &Loader{candidates: candidates, log: log}
}

// Load tries each candidate in order and returns the first dataset that
// parses and contains at least one trade, with every trade passed through
// the normalizer. On total failure it returns the fallback dataset. The
// second return names the winning source ("fallback" when none did).
func (l *Loader) Load() (models.Dataset, string) {
	var lastErr error
	for _, path := range l.candidates {
		raw, err := os.ReadFile(path)
		if err != nil {
			lastErr = &apperrors.FeedError{Source: path, Err: err}
			l.log.Debug().Str("source", path).Err(err).Msg("feed candidate unreadable")
			continue
		}
		var doc rawDataset
		if err := json.Unmarshal(raw, &doc); err != nil {
			lastErr = &apperrors.FeedError{Source: path, Err: err}
			l.log.Warn().Str("source", path).Err(err).Msg("feed candidate malformed")
			continue
		}
		if len(doc.Trades) == 0 {
			l.log.Debug().Str("source", path).Msg("feed candidate has no trades")
			continue
		}
		l.log.Info().Str("source", path).Int("trades", len(doc.Trades)).Msg("feed loaded")
		return normalizeDataset(doc), path
	}

	l.log.Warn().Err(lastErr).Msg("all feed candidates failed, using fallback dataset")
	return Fallback(), "fallback"
}

// Merge combines the fetched dataset with the persisted local overlay.
// Fetched entries take precedence on id collision; overlay trades are
// appended in their stored order. The empty id dedups like any other key.
func Merge(fetched models.Dataset, overlay []models.Trade) models.Dataset {
	seen := make(map[string]bool, len(fetched.Trades))
	for _, t := range fetched.Trades {
		seen[t.ID] = true
	}
	merged := append([]models.Trade(nil), fetched.Trades...)
	for _, t := range overlay {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		merged = append(merged, t)
	}
	fetched.Trades = merged
	return fetched
}

// Fallback returns the built-in minimal dataset used when no candidate
// source resolves.
func Fallback() models.Dataset {
	f := func(v float64) *float64 { return &v }
	raws := []models.RawTradeRecord{
		{
			ID: "T-1024", Date: "2026-02-20", Symbol: "NVDA", Side: "Long",
			Setup: "ORB", Qty: f(100), Entry: f(714.5), Exit: f(721.8),
			PnL: f(730), R: f(1.4), Tags: []string{"A+ setup", "trend"},
			Notes: "Strong open drive + continuation.",
		},
		{
			ID: "T-1025", Date: "2026-02-20", Symbol: "TSLA", Side: "Short",
			Setup: "Fade", Qty: f(80), Entry: f(212.9), Exit: f(214.2),
			PnL: f(-104), R: f(-0.4), Tags: []string{"overtrade"},
			Notes: "Entered too early before rejection confirmation.",
		},
	}
	trades := make([]models.Trade, 0, len(raws))
	for _, raw := range raws {
		trades = append(trades, normalize.Normalize(raw))
	}
	return models.Dataset{Trades: trades, Journal: []models.JournalEntry{}}
}

func normalizeDataset(doc rawDataset) models.Dataset {
	trades := make([]models.Trade, 0, len(doc.Trades))
	for _, raw := range doc.Trades {
		trades = append(trades, normalize.Normalize(raw))
	}
	journal := doc.Journal
	if journal == nil {
		journal = []models.JournalEntry{}
	}
	return models.Dataset{Trades: trades, Journal: journal}
}
