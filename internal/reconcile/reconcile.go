// Package reconcile verifies that aggregated P&L totals match the
// trade-level ground truth. A mismatch flags an aggregation defect; it is
// reported, never corrected.
package reconcile

import (
	"math"
	"sort"

	"tradelytics/internal/metrics"
	"tradelytics/internal/models"
)

// Tolerance is the absolute tolerance, in currency units, within which two
// totals count as equal.
const Tolerance = 1e-3

// Result compares one aggregation's total against the trade-level total.
type Result struct {
	Dimension      string  `json:"dimension"`
	TradeTotal     float64 `json:"tradeTotal"`
	AggregateTotal float64 `json:"aggregateTotal"`
	Diff           float64 `json:"diff"`
	OK             bool    `json:"ok"`
}

// Check sums the aggregation's per-group P&L and compares it with the sum
// of per-trade net P&L over the same snapshot.
func Check(trades []models.Trade, ratePerUnit float64, dimension string, rows []models.AggregateRow) Result {
	var tradeTotal float64
	for _, t := range trades {
		tradeTotal += metrics.NetPnL(t, ratePerUnit)
	}
	var aggTotal float64
	for _, row := range rows {
		aggTotal += row.PnL
	}
	diff := aggTotal - tradeTotal
	return Result{
		Dimension:      dimension,
		TradeTotal:     tradeTotal,
		AggregateTotal: aggTotal,
		Diff:           diff,
		OK:             math.Abs(diff) <= Tolerance,
	}
}

// CheckAll runs Check for every supplied dimension.
func CheckAll(trades []models.Trade, ratePerUnit float64, dimensions map[string][]models.AggregateRow) []Result {
	names := make([]string, 0, len(dimensions))
	for name := range dimensions {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]Result, 0, len(names))
	for _, name := range names {
		results = append(results, Check(trades, ratePerUnit, name, dimensions[name]))
	}
	return results
}
