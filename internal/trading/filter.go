package trading

import (
	"sort"
	"strings"

	"tradelytics/internal/metrics"
	"tradelytics/internal/models"
)

// Filter narrows and orders a trade snapshot for review. Zero values leave
// a dimension unfiltered.
type Filter struct {
	Symbol   string // case-insensitive substring match
	Side     string // "Long" or "Short"
	Setup    string
	DateFrom string // inclusive, YYYY-MM-DD
	DateTo   string // inclusive
	Sort     string // date-desc, date-asc, pnl-desc, pnl-asc, r-desc, r-asc
}

// Apply filters and sorts a snapshot. The input slice is not modified.
func (f Filter) Apply(trades []models.Trade, ratePerUnit float64) []models.Trade {
	out := make([]models.Trade, 0, len(trades))
	symbol := strings.ToLower(f.Symbol)
	for _, t := range trades {
		if symbol != "" && !strings.Contains(strings.ToLower(t.Symbol), symbol) {
			continue
		}
		if f.Side != "" && string(t.Side) != f.Side {
			continue
		}
		if f.Setup != "" && t.Setup != f.Setup {
			continue
		}
		if f.DateFrom != "" && t.Date < f.DateFrom {
			continue
		}
		if f.DateTo != "" && t.Date > f.DateTo {
			continue
		}
		out = append(out, t)
	}

	less := f.sorter(out, ratePerUnit)
	if less != nil {
		sort.SliceStable(out, less)
	}
	return out
}

func (f Filter) sorter(trades []models.Trade, rate float64) func(i, j int) bool {
	net := func(i int) float64 { return metrics.NetPnL(trades[i], rate) }
	switch f.Sort {
	case "", "date-desc":
		return func(i, j int) bool { return trades[i].Date > trades[j].Date }
	case "date-asc":
		return func(i, j int) bool { return trades[i].Date < trades[j].Date }
	case "pnl-desc":
		return func(i, j int) bool { return net(i) > net(j) }
	case "pnl-asc":
		return func(i, j int) bool { return net(i) < net(j) }
	case "r-desc":
		return func(i, j int) bool { return trades[i].R > trades[j].R }
	case "r-asc":
		return func(i, j int) bool { return trades[i].R < trades[j].R }
	}
	return nil
}

// WorstTrades returns the n most damaging trades by net P&L.
func WorstTrades(trades []models.Trade, ratePerUnit float64, n int) []models.Trade {
	sorted := append([]models.Trade(nil), trades...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return metrics.NetPnL(sorted[i], ratePerUnit) < metrics.NetPnL(sorted[j], ratePerUnit)
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}
