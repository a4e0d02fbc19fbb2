package equity

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"tradelytics/internal/models"
)

func TestCurveOrdersByDate(t *testing.T) {
	trades := []models.Trade{
		{ID: "b", Date: "2026-01-02", PnL: 100},
		{ID: "a", Date: "2026-01-01", PnL: -50},
	}
	curve := Curve(trades, 0)

	if len(curve) != 2 {
		t.Fatalf("got %d points, want 2", len(curve))
	}
	if curve[0].Date != "2026-01-01" || curve[0].Value != -50 {
		t.Errorf("point 0 = %+v, want 2026-01-01 / -50", curve[0])
	}
	if curve[1].Date != "2026-01-02" || curve[1].Value != 50 {
		t.Errorf("point 1 = %+v, want 2026-01-02 / 50", curve[1])
	}
}

func TestCurveStableWithinDay(t *testing.T) {
	trades := []models.Trade{
		{ID: "first", Date: "2026-01-01", PnL: 10},
		{ID: "second", Date: "2026-01-01", PnL: 20},
	}
	curve := Curve(trades, 0)

	if curve[0].Value != 10 || curve[1].Value != 30 {
		t.Errorf("same-day trades reordered: %+v", curve)
	}
}

func TestMaxDrawdown(t *testing.T) {
	trades := []models.Trade{
		{Date: "2026-01-01", PnL: 100},
		{Date: "2026-01-02", PnL: -30},
		{Date: "2026-01-03", PnL: -40},
		{Date: "2026-01-04", PnL: 10},
	}
	if got := MaxDrawdown(trades, 0); math.Abs(got-(-70)) > 1e-9 {
		t.Errorf("MaxDrawdown = %v, want -70", got)
	}
}

func TestMaxDrawdownZeroWhenNeverBelowPeak(t *testing.T) {
	trades := []models.Trade{
		{Date: "2026-01-01", PnL: 10},
		{Date: "2026-01-02", PnL: 0},
		{Date: "2026-01-03", PnL: 25},
	}
	if got := MaxDrawdown(trades, 0); got != 0 {
		t.Errorf("MaxDrawdown = %v, want 0 for a non-decreasing curve", got)
	}
	if got := MaxDrawdown(nil, 0); got != 0 {
		t.Errorf("MaxDrawdown(nil) = %v, want 0", got)
	}
}

// Property: the maximum drawdown is never positive and never exceeds the
// sum of the losing trades in magnitude.
func TestProperty_DrawdownBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	pnlsGen := gen.SliceOf(gen.Float64Range(-1e4, 1e4))

	properties.Property("drawdown is bounded", prop.ForAll(
		func(pnls []float64) bool {
			trades := make([]models.Trade, len(pnls))
			var lossSum float64
			for i, p := range pnls {
				trades[i] = models.Trade{Date: "2026-01-01", Qty: 1, PnL: p}
				if p < 0 {
					lossSum += p
				}
			}
			dd := MaxDrawdown(trades, 0)
			if dd > 0 {
				t.Logf("positive drawdown %v", dd)
				return false
			}
			if dd < lossSum-1e-6 {
				t.Logf("drawdown %v deeper than total losses %v", dd, lossSum)
				return false
			}
			return true
		},
		pnlsGen,
	))

	properties.TestingRun(t)
}
