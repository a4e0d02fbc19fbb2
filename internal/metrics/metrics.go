// Package metrics computes per-trade derived values and portfolio-level
// statistics. Every function is a pure computation over the supplied trade
// snapshot.
package metrics

import (
	"math"

	"tradelytics/internal/models"
)

// EffectiveCommission returns the trade's explicit commission when it is a
// finite positive value, otherwise imputes qty times the round-trip rate
// per unit.
func EffectiveCommission(t models.Trade, ratePerUnit float64) float64 {
	if t.Commission > 0 && !math.IsInf(t.Commission, 0) && !math.IsNaN(t.Commission) {
		return t.Commission
	}
	return math.Max(0, t.Qty) * ratePerUnit
}

// NetPnL is gross P&L minus the effective commission.
func NetPnL(t models.Trade, ratePerUnit float64) float64 {
	return t.PnL - EffectiveCommission(t, ratePerUnit)
}

// Stats holds portfolio-level statistics over one trade snapshot.
type Stats struct {
	TotalPnL     float64 `json:"totalPnl"`
	Count        int     `json:"count"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	WinRate      float64 `json:"winRate"`
	AvgR         float64 `json:"avgR"`
	Expectancy   float64 `json:"expectancy"`
	ProfitFactor float64 `json:"profitFactor"` // +Inf when no losing trades
}

// Compute derives the full statistics set. An empty snapshot yields the
// zero Stats, with profit factor 0.
func Compute(trades []models.Trade, ratePerUnit float64) Stats {
	var s Stats
	s.Count = len(trades)
	if s.Count == 0 {
		return s
	}

	var grossWin, grossLoss, rSum float64
	for _, t := range trades {
		net := NetPnL(t, ratePerUnit)
		s.TotalPnL += net
		rSum += t.R
		if net > 0 {
			s.Wins++
			grossWin += net
		} else {
			s.Losses++
			grossLoss += -net
		}
	}

	n := float64(s.Count)
	s.WinRate = float64(s.Wins) / n * 100
	s.AvgR = rSum / n
	s.Expectancy = s.TotalPnL / n

	switch {
	case grossLoss > 0:
		s.ProfitFactor = grossWin / grossLoss
	case grossWin > 0:
		s.ProfitFactor = math.Inf(1)
	default:
		s.ProfitFactor = 0
	}
	return s
}
