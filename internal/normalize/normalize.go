// Package normalize converts partial raw trade records into the canonical
// Trade shape. It is the single admission point: no other code reads raw
// trade fields.
package normalize

import (
	"regexp"
	"strings"

	"tradelytics/internal/models"
)

// futuresContractPattern matches a futures contract symbol: a 1-3 letter
// root, a month code, and a 1-2 digit year (e.g. MNQH6, ESZ25).
var futuresContractPattern = regexp.MustCompile(`^[A-Z]{1,3}[FGHJKMNQUVXZ]\d{1,2}$`)

// futuresRoots are outright roots that identify a futures instrument even
// without a contract-month suffix.
var futuresRoots = map[string]bool{
	"ES": true, "NQ": true, "YM": true, "RTY": true,
	"CL": true, "GC": true, "SI": true, "ZB": true, "ZN": true,
	"MES": true, "MNQ": true, "MYM": true, "M2K": true,
	"MCL": true, "MGC": true,
}

// Normalize maps a raw record onto the canonical Trade, applying the
// fallback rules for every absent field. It is idempotent: normalizing the
// raw form of an already-canonical trade yields the identical trade.
func Normalize(raw models.RawTradeRecord) models.Trade {
	t := models.Trade{
		ID:             strings.TrimSpace(raw.ID),
		Date:           strings.TrimSpace(raw.Date),
		EntryTime:      strings.TrimSpace(raw.EntryTime),
		EntryTimestamp: strings.TrimSpace(raw.EntryTimestamp),
		Symbol:         strings.ToUpper(strings.TrimSpace(raw.Symbol)),
		Setup:          strings.TrimSpace(raw.Setup),
		Notes:          raw.Notes,
	}

	t.AssetType = inferAssetType(raw.AssetType, t.Symbol)
	t.Underlying = inferUnderlying(raw.Underlying, t.Symbol)
	t.Side = normalizeSide(raw.Side)
	t.Strategy = strings.TrimSpace(raw.Strategy)
	if t.Strategy == "" {
		t.Strategy = t.Setup
	}

	t.Tags = cleanTags(raw.Tags)
	t.Qty = floatOr(raw.Qty, 1)
	t.Entry = floatOr(raw.Entry, 0)
	t.Exit = floatOr(raw.Exit, 0)
	t.R = floatOr(raw.R, 0)

	if raw.PnL != nil {
		t.PnL = *raw.PnL
	} else {
		t.PnL = GrossFromPrices(t.Side, t.Entry, t.Exit, t.Qty)
	}

	t.Commission = floatOr(raw.Commission, 0)
	if t.Commission < 0 {
		t.Commission = 0
	}

	// Options fields are meaningful only for options trades; everything
	// else carries harmless zero values.
	if t.AssetType == models.AssetOptions {
		t.OptionType = strings.ToUpper(strings.TrimSpace(raw.OptionType))
		t.Expiry = strings.TrimSpace(raw.Expiry)
		t.Strike = floatOr(raw.Strike, 0)
		if raw.Contracts != nil && *raw.Contracts > 0 {
			t.Contracts = *raw.Contracts
		}
	}

	return t
}

// Renormalize passes a canonical trade through the admission path again.
func Renormalize(t models.Trade) models.Trade {
	return Normalize(models.RawFromTrade(t))
}

// inferAssetType resolves the asset type, in order: explicit value, futures
// symbol shape, stock.
func inferAssetType(explicit, symbol string) models.AssetType {
	switch models.AssetType(strings.ToLower(strings.TrimSpace(explicit))) {
	case models.AssetStock:
		return models.AssetStock
	case models.AssetFutures:
		return models.AssetFutures
	case models.AssetOptions:
		return models.AssetOptions
	}
	if IsFuturesSymbol(symbol) {
		return models.AssetFutures
	}
	return models.AssetStock
}

func inferUnderlying(explicit, symbol string) string {
	if u := strings.ToUpper(strings.TrimSpace(explicit)); u != "" {
		return u
	}
	return symbol
}

// IsFuturesSymbol reports whether a symbol looks like a futures root or a
// dated futures contract.
func IsFuturesSymbol(symbol string) bool {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return false
	}
	return futuresRoots[s] || futuresContractPattern.MatchString(s)
}

// normalizeSide maps free-form side values onto Long/Short, defaulting to
// Long for anything unrecognized.
func normalizeSide(raw string) models.Side {
	s := strings.ToLower(strings.TrimSpace(raw))
	if strings.Contains(s, "short") || s == "sell" {
		return models.SideShort
	}
	return models.SideLong
}

// GrossFromPrices reconstructs gross P&L from prices when no explicit P&L
// is supplied: per-unit price difference times quantity, sign following the
// trade direction.
func GrossFromPrices(side models.Side, entry, exit, qty float64) float64 {
	if side == models.SideShort {
		return (entry - exit) * qty
	}
	return (exit - entry) * qty
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if t := strings.TrimSpace(tag); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func floatOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
