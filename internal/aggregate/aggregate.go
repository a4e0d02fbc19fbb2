// Package aggregate groups a trade snapshot along one dimension into
// per-group statistics. All groupings reconcile with the trade-level net
// P&L total except tags, where a multi-tagged trade contributes once per
// tag.
package aggregate

import (
	"math"
	"sort"
	"time"

	"tradelytics/internal/metrics"
	"tradelytics/internal/models"
)

// UnknownKey is the bucket for trades whose key function yields nothing.
const UnknownKey = "Unknown"

// UntaggedKey is the tag bucket for trades carrying no tags at all.
const UntaggedKey = "untagged"

// KeyFunc extracts the grouping key from a trade.
type KeyFunc func(models.Trade) string

// By groups trades by keyFn, deriving win rate and average R per group.
// Rows come back sorted by net P&L, best group first.
func By(trades []models.Trade, ratePerUnit float64, keyFn KeyFunc) []models.AggregateRow {
	groups := make(map[string]*models.AggregateRow)
	order := make([]string, 0)
	for _, t := range trades {
		key := keyFn(t)
		if key == "" {
			key = UnknownKey
		}
		accumulate(groups, &order, key, t, ratePerUnit)
	}
	return finish(groups, order)
}

// BySetup groups by the primary strategy label.
func BySetup(trades []models.Trade, ratePerUnit float64) []models.AggregateRow {
	return By(trades, ratePerUnit, func(t models.Trade) string { return t.Setup })
}

// BySymbol groups by instrument symbol.
func BySymbol(trades []models.Trade, ratePerUnit float64) []models.AggregateRow {
	return By(trades, ratePerUnit, func(t models.Trade) string { return t.Symbol })
}

// ByDay groups by calendar day.
func ByDay(trades []models.Trade, ratePerUnit float64) []models.AggregateRow {
	return By(trades, ratePerUnit, func(t models.Trade) string { return t.Date })
}

// ByWeekday groups by the weekday of the trade date.
func ByWeekday(trades []models.Trade, ratePerUnit float64) []models.AggregateRow {
	return By(trades, ratePerUnit, func(t models.Trade) string {
		d, err := time.Parse("2006-01-02", t.Date)
		if err != nil {
			return UnknownKey
		}
		return d.Weekday().String()
	})
}

// ByHour groups by the hour-of-day bucket of the best available time
// signal: an explicit timestamp is converted into the session timezone; a
// reconstructed date+entryTime is taken verbatim as already session-local,
// with no timezone conversion on that path; otherwise Unknown.
func ByHour(trades []models.Trade, ratePerUnit float64, session *time.Location) []models.AggregateRow {
	return By(trades, ratePerUnit, func(t models.Trade) string {
		return HourBucket(t, session)
	})
}

// HourBucket derives the time-of-day bucket label for one trade.
func HourBucket(t models.Trade, session *time.Location) string {
	if t.EntryTimestamp != "" {
		if ts, err := time.Parse(time.RFC3339, t.EntryTimestamp); err == nil {
			return ts.In(session).Format("15:00")
		}
	}
	if t.EntryTime != "" && t.Date != "" {
		if ts, err := time.Parse("2006-01-02 15:04", t.Date+" "+t.EntryTime); err == nil {
			return ts.Format("15:00")
		}
	}
	return UnknownKey
}

// ByTags flat-maps each trade across all of its tags, so one trade can
// feed several groups. Tagless trades land in the untagged bucket, not in
// Unknown.
func ByTags(trades []models.Trade, ratePerUnit float64) []models.AggregateRow {
	groups := make(map[string]*models.AggregateRow)
	order := make([]string, 0)
	for _, t := range trades {
		if len(t.Tags) == 0 {
			accumulate(groups, &order, UntaggedKey, t, ratePerUnit)
			continue
		}
		for _, tag := range t.Tags {
			accumulate(groups, &order, tag, t, ratePerUnit)
		}
	}
	return finish(groups, order)
}

// Recovery band labels. A trade lands in the high band only when both
// journal scores for its date are finite and at or above the threshold.
const (
	HighRecoveryBand  = "High recovery"
	LowerRecoveryBand = "Lower recovery"
)

// ByRecovery joins trades to journal entries by exact date and classifies
// each into one of two bands. No matching entry, or a non-finite score,
// means the lower band.
func ByRecovery(trades []models.Trade, journal []models.JournalEntry, ratePerUnit, threshold float64) []models.AggregateRow {
	byDate := make(map[string]models.JournalEntry, len(journal))
	for _, j := range journal {
		byDate[j.Date] = j
	}
	return By(trades, ratePerUnit, func(t models.Trade) string {
		j, ok := byDate[t.Date]
		if ok && scoreAtLeast(j.OuraSleepScore, threshold) && scoreAtLeast(j.OuraReadinessScore, threshold) {
			return HighRecoveryBand
		}
		return LowerRecoveryBand
	})
}

func scoreAtLeast(score *float64, threshold float64) bool {
	return score != nil && !math.IsNaN(*score) && !math.IsInf(*score, 0) && *score >= threshold
}

func accumulate(groups map[string]*models.AggregateRow, order *[]string, key string, t models.Trade, ratePerUnit float64) {
	row, ok := groups[key]
	if !ok {
		row = &models.AggregateRow{Key: key}
		groups[key] = row
		*order = append(*order, key)
	}
	net := metrics.NetPnL(t, ratePerUnit)
	row.Trades++
	if net > 0 {
		row.Wins++
	}
	row.PnL += net
	row.RTotal += t.R
}

func finish(groups map[string]*models.AggregateRow, order []string) []models.AggregateRow {
	rows := make([]models.AggregateRow, 0, len(order))
	for _, key := range order {
		row := *groups[key]
		if row.Trades > 0 {
			row.WinRate = float64(row.Wins) / float64(row.Trades) * 100
			row.AvgR = row.RTotal / float64(row.Trades)
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].PnL > rows[j].PnL })
	return rows
}
