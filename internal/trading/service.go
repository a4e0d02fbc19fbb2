// Package trading owns the trade lifecycle: loading the canonical set,
// admitting manual and imported trades through validation, and keeping the
// persisted local overlay in sync.
package trading

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	apperrors "tradelytics/internal/errors"
	"tradelytics/internal/feed"
	"tradelytics/internal/importer"
	"tradelytics/internal/models"
	"tradelytics/internal/normalize"
	"tradelytics/internal/store"
)

// DefaultManualSetup labels manually entered trades with no setup.
const DefaultManualSetup = "Manual"

// Service coordinates the trade set. The engine packages stay pure; all
// mutable state lives here, and reads hand out snapshots.
type Service struct {
	store  store.KeyValueStore
	loader *feed.Loader
	parser *importer.Parser
	log    zerolog.Logger

	data models.Dataset
	rate float64 // round-trip commission per unit
	now  func() time.Time
}

// NewService creates a service over the given collaborators. defaultRate
// applies until the store supplies a persisted commission setting.
func NewService(kv store.KeyValueStore, loader *feed.Loader, log zerolog.Logger, defaultRate float64) *Service {
	return &Service{
		store:  kv,
		loader: loader,
		parser: importer.NewParser(log),
		log:    log,
		rate:   defaultRate,
		now:    time.Now,
	}
}

// Load acquires the dataset: feed candidates first, then the persisted
// local overlay merged in (feed wins id collisions), then the persisted
// commission setting. Acquisition failures degrade, they never abort.
func (s *Service) Load(ctx context.Context) error {
	fetched, source := s.loader.Load()

	overlay, err := s.store.LocalTrades(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("local overlay unreadable, continuing without it")
		overlay = nil
	}
	for i, t := range overlay {
		overlay[i] = normalize.Renormalize(t)
	}

	s.data = feed.Merge(fetched, overlay)

	if rate, ok, err := s.store.CommissionRate(ctx); err == nil && ok {
		s.rate = rate
	}

	s.log.Info().
		Str("source", source).
		Int("trades", len(s.data.Trades)).
		Int("local", len(overlay)).
		Float64("commission_per_unit", s.rate).
		Msg("dataset loaded")
	return nil
}

// Trades returns a snapshot copy of the canonical trade set. Report
// computations operate on this copy, so later mutations cannot race an
// in-progress aggregation.
func (s *Service) Trades() []models.Trade {
	return append([]models.Trade(nil), s.data.Trades...)
}

// Journal returns a snapshot of the journal entries.
func (s *Service) Journal() []models.JournalEntry {
	return append([]models.JournalEntry(nil), s.data.Journal...)
}

// CommissionRate returns the active round-trip commission per unit.
func (s *Service) CommissionRate() float64 {
	return s.rate
}

// SetCommissionRate validates and persists the commission setting.
func (s *Service) SetCommissionRate(ctx context.Context, rate float64) error {
	if err := s.store.SaveCommissionRate(ctx, rate); err != nil {
		return err
	}
	s.rate = rate
	return nil
}

// SaveTrade admits one manually entered trade. For a new trade editID is
// empty and a manual id is assigned; for an edit it names the trade being
// replaced. Validation failures block only this save.
func (s *Service) SaveTrade(ctx context.Context, raw models.RawTradeRecord, editID string) (models.Trade, error) {
	if raw.Setup == "" {
		raw.Setup = DefaultManualSetup
	}
	t := normalize.Normalize(raw)

	if editID != "" {
		t.ID = editID
	} else if t.ID == "" {
		t.ID = models.ManualIDPrefix + strconv.FormatInt(s.now().UnixMilli(), 10)
	}
	if t.Date == "" {
		t.Date = s.now().Format("2006-01-02")
	}

	if err := s.Validate(t, editID); err != nil {
		return models.Trade{}, err
	}

	replaced := false
	for i := range s.data.Trades {
		if s.data.Trades[i].ID == t.ID {
			s.data.Trades[i] = t
			replaced = true
			break
		}
	}
	if !replaced {
		s.data.Trades = append(s.data.Trades, t)
	}

	if err := s.syncOverlay(ctx); err != nil {
		return t, err
	}
	s.log.Info().Str("id", t.ID).Str("symbol", t.Symbol).Bool("edit", replaced).Msg("trade saved")
	return t, nil
}

// DeleteTrade removes a locally-originated trade by id. Feed trades are
// locked.
func (s *Service) DeleteTrade(ctx context.Context, id string) error {
	for i, t := range s.data.Trades {
		if t.ID != id {
			continue
		}
		if !t.IsLocal() {
			return apperrors.ErrTradeLocked
		}
		s.data.Trades = append(s.data.Trades[:i], s.data.Trades[i+1:]...)
		if err := s.syncOverlay(ctx); err != nil {
			return err
		}
		s.log.Info().Str("id", id).Msg("trade deleted")
		return nil
	}
	return apperrors.ErrTradeNotFound
}

// ImportSummary reports the outcome of one CSV import.
type ImportSummary struct {
	Imported int
	Skipped  int
}

// ImportCSV parses delimited text, normalizes each usable row, tags ids
// with the import origin, and appends the result to the canonical set.
// Rows without an explicit commission keep zero so the rate setting imputes
// at computation time.
func (s *Service) ImportCSV(ctx context.Context, text string) (ImportSummary, error) {
	result := s.parser.Parse(text)
	summary := ImportSummary{Skipped: result.Skipped}
	if len(result.Records) == 0 {
		if result.Skipped > 0 {
			return summary, apperrors.ErrEmptyImport
		}
		return summary, nil
	}

	for _, raw := range result.Records {
		t := normalize.Normalize(raw)
		// File-supplied ids that are not already locally owned get the
		// import prefix, so the trade lands in the persisted overlay and
		// stays editable.
		if !t.IsLocal() {
			t.ID = models.ImportIDPrefix + t.ID
		}
		s.data.Trades = append(s.data.Trades, t)
		summary.Imported++
	}

	if err := s.syncOverlay(ctx); err != nil {
		return summary, err
	}
	s.log.Info().Int("imported", summary.Imported).Int("skipped", summary.Skipped).Msg("import complete")
	return summary, nil
}

// ExportCSV serializes the given snapshot with the active commission rate
// baked into the netPnl column.
func (s *Service) ExportCSV(trades []models.Trade) string {
	return importer.Export(trades, s.rate)
}

// Validate checks the admission invariants for one trade. editID names the trade
// being edited so its own id does not count as a duplicate.
func (s *Service) Validate(t models.Trade, editID string) error {
	var violations []string

	if t.ID == "" {
		violations = append(violations, "Trade ID is required")
	}
	for _, existing := range s.data.Trades {
		if existing.ID == t.ID && existing.ID != editID {
			violations = append(violations, "Duplicate trade ID detected")
			break
		}
	}
	if t.Symbol == "" {
		violations = append(violations, "Symbol is required")
	}
	if t.Qty <= 0 {
		violations = append(violations, "Quantity must be greater than zero")
	}
	if t.Commission < 0 {
		violations = append(violations, "Commission must be non-negative")
	}
	if t.AssetType == models.AssetOptions {
		if t.Strike <= 0 {
			violations = append(violations, "Strike must be positive for options")
		}
		if t.OptionType != models.OptionCall && t.OptionType != models.OptionPut {
			violations = append(violations, fmt.Sprintf("Option type must be %s or %s", models.OptionCall, models.OptionPut))
		}
		if t.Underlying == "" {
			violations = append(violations, "Underlying is required for options")
		}
		if t.Expiry == "" {
			violations = append(violations, "Expiry is required for options")
		}
	}

	if len(violations) > 0 {
		return apperrors.NewValidationError(t.ID, violations)
	}
	return nil
}

// syncOverlay writes the complete filtered overlay of local trades back to
// the store.
func (s *Service) syncOverlay(ctx context.Context) error {
	local := make([]models.Trade, 0)
	for _, t := range s.data.Trades {
		if t.IsLocal() {
			local = append(local, t)
		}
	}
	return s.store.SaveLocalTrades(ctx, local)
}
