// Package equity builds the chronological cumulative-P&L series and the
// maximum peak-to-trough drawdown for a trade snapshot.
package equity

import (
	"sort"

	"tradelytics/internal/metrics"
	"tradelytics/internal/models"
)

// Point is one step of the equity curve.
type Point struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Curve returns the running cumulative net P&L, ordered by date. The sort
// is stable so same-day trades keep their entry sequence.
func Curve(trades []models.Trade, ratePerUnit float64) []Point {
	sorted := sortByDate(trades)
	curve := make([]Point, 0, len(sorted))
	var sum float64
	for _, t := range sorted {
		sum += metrics.NetPnL(t, ratePerUnit)
		curve = append(curve, Point{Date: t.Date, Value: sum})
	}
	return curve
}

// MaxDrawdown returns the most negative equity-minus-peak value across the
// date-ordered sequence. It is always <= 0, and 0 when equity never dips
// below a prior peak.
func MaxDrawdown(trades []models.Trade, ratePerUnit float64) float64 {
	var equity, peak, maxDd float64
	for _, t := range sortByDate(trades) {
		equity += metrics.NetPnL(t, ratePerUnit)
		if equity > peak {
			peak = equity
		}
		if dd := equity - peak; dd < maxDd {
			maxDd = dd
		}
	}
	return maxDd
}

func sortByDate(trades []models.Trade) []models.Trade {
	sorted := append([]models.Trade(nil), trades...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})
	return sorted
}
