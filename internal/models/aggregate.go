package models

// AggregateRow holds grouped statistics for one dimension value. Rows are
// derived fresh from a trade snapshot on every report and never persisted.
type AggregateRow struct {
	Key     string  `json:"key"`
	Trades  int     `json:"trades"`
	Wins    int     `json:"wins"`
	PnL     float64 `json:"pnl"`    // summed net P&L
	RTotal  float64 `json:"rTotal"` // summed R multiples
	WinRate float64 `json:"winRate"`
	AvgR    float64 `json:"avgR"`
}
