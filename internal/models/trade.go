package models

import "strings"

// AssetType classifies the traded instrument.
type AssetType string

const (
	AssetStock   AssetType = "stock"
	AssetFutures AssetType = "futures"
	AssetOptions AssetType = "options"
)

// Side is the direction of a trade.
type Side string

const (
	SideLong  Side = "Long"
	SideShort Side = "Short"
)

// Option type values for options trades.
const (
	OptionCall = "CALL"
	OptionPut  = "PUT"
)

// ID prefixes marking trade origin. Trades carrying one of these prefixes
// are locally owned and editable; everything else came from the data feed
// and is read-only.
const (
	ManualIDPrefix = "MAN-"
	ImportIDPrefix = "CSV-"
)

// Trade is the canonical trade record. Every trade, whatever its source,
// passes through normalize.Normalize exactly once before entering the
// working set.
type Trade struct {
	ID             string    `json:"id"`
	Date           string    `json:"date"`                     // YYYY-MM-DD
	EntryTime      string    `json:"entryTime,omitempty"`      // HH:MM, session-local
	EntryTimestamp string    `json:"entryTimestamp,omitempty"` // RFC3339 instant
	Symbol         string    `json:"symbol"`
	AssetType      AssetType `json:"assetType"`
	Underlying     string    `json:"underlying"`
	OptionType     string    `json:"optionType,omitempty"`
	Expiry         string    `json:"expiry,omitempty"`
	Strike         float64   `json:"strike,omitempty"`
	Contracts      int       `json:"contracts,omitempty"`
	Side           Side      `json:"side"`
	Setup          string    `json:"setup"`
	Strategy       string    `json:"strategy"`
	Tags           []string  `json:"tags"`
	Qty            float64   `json:"qty"`
	Entry          float64   `json:"entry"`
	Exit           float64   `json:"exit"`
	PnL            float64   `json:"pnl"` // gross
	Commission     float64   `json:"commission"`
	R              float64   `json:"r"`
	Notes          string    `json:"notes,omitempty"`
}

// IsLocal reports whether the trade originated from manual entry or a CSV
// import, i.e. whether it belongs in the persisted overlay.
func (t Trade) IsLocal() bool {
	return strings.HasPrefix(t.ID, ManualIDPrefix) || strings.HasPrefix(t.ID, ImportIDPrefix)
}

// RawTradeRecord is the partial, pre-normalization shape of a trade as it
// arrives from the JSON feed, the CSV importer, or manual entry. Pointer
// fields distinguish "absent" from a genuine zero so the normalizer can
// apply its fallback rules.
type RawTradeRecord struct {
	ID             string   `json:"id,omitempty"`
	Date           string   `json:"date,omitempty"`
	EntryTime      string   `json:"entryTime,omitempty"`
	EntryTimestamp string   `json:"entryTimestamp,omitempty"`
	Symbol         string   `json:"symbol,omitempty"`
	AssetType      string   `json:"assetType,omitempty"`
	Underlying     string   `json:"underlying,omitempty"`
	OptionType     string   `json:"optionType,omitempty"`
	Expiry         string   `json:"expiry,omitempty"`
	Strike         *float64 `json:"strike,omitempty"`
	Contracts      *int     `json:"contracts,omitempty"`
	Side           string   `json:"side,omitempty"`
	Setup          string   `json:"setup,omitempty"`
	Strategy       string   `json:"strategy,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	Qty            *float64 `json:"qty,omitempty"`
	Entry          *float64 `json:"entry,omitempty"`
	Exit           *float64 `json:"exit,omitempty"`
	PnL            *float64 `json:"pnl,omitempty"`
	Commission     *float64 `json:"commission,omitempty"`
	R              *float64 `json:"r,omitempty"`
	Notes          string   `json:"notes,omitempty"`
}

// RawFromTrade converts a canonical trade back to its raw shape. Used when
// re-admitting an edited trade and for idempotence checks.
func RawFromTrade(t Trade) RawTradeRecord {
	strike, contracts := t.Strike, t.Contracts
	qty, entry, exit, pnl, comm, r := t.Qty, t.Entry, t.Exit, t.PnL, t.Commission, t.R
	return RawTradeRecord{
		ID:             t.ID,
		Date:           t.Date,
		EntryTime:      t.EntryTime,
		EntryTimestamp: t.EntryTimestamp,
		Symbol:         t.Symbol,
		AssetType:      string(t.AssetType),
		Underlying:     t.Underlying,
		OptionType:     t.OptionType,
		Expiry:         t.Expiry,
		Strike:         &strike,
		Contracts:      &contracts,
		Side:           string(t.Side),
		Setup:          t.Setup,
		Strategy:       t.Strategy,
		Tags:           append([]string(nil), t.Tags...),
		Qty:            &qty,
		Entry:          &entry,
		Exit:           &exit,
		PnL:            &pnl,
		Commission:     &comm,
		R:              &r,
		Notes:          t.Notes,
	}
}
