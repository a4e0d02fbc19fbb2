package aggregate

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"tradelytics/internal/metrics"
	"tradelytics/internal/models"
)

func fp(v float64) *float64 { return &v }

func TestBySetup(t *testing.T) {
	trades := []models.Trade{
		{Setup: "ORB", PnL: 500, R: 2},
		{Setup: "ORB", PnL: -200, R: -1},
		{Setup: "Fade", PnL: 50, R: 0.5},
	}
	rows := BySetup(trades, 0)

	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	// Sorted best group first.
	if rows[0].Key != "ORB" {
		t.Errorf("rows[0].Key = %q, want ORB", rows[0].Key)
	}
	orb := rows[0]
	if orb.Trades != 2 || orb.Wins != 1 {
		t.Errorf("ORB counts = %d/%d, want 2/1", orb.Trades, orb.Wins)
	}
	if orb.WinRate != 50 {
		t.Errorf("ORB WinRate = %v, want 50", orb.WinRate)
	}
	if math.Abs(orb.PnL-300) > 1e-9 {
		t.Errorf("ORB PnL = %v, want 300", orb.PnL)
	}
	if math.Abs(orb.AvgR-0.5) > 1e-9 {
		t.Errorf("ORB AvgR = %v, want 0.5", orb.AvgR)
	}
}

func TestEmptyKeyGoesToUnknown(t *testing.T) {
	trades := []models.Trade{{Setup: "", PnL: 10}}
	rows := BySetup(trades, 0)

	if len(rows) != 1 || rows[0].Key != UnknownKey {
		t.Errorf("rows = %+v, want single %q bucket", rows, UnknownKey)
	}
}

func TestByTagsFlatMap(t *testing.T) {
	trades := []models.Trade{
		{Tags: []string{"trend", "A+ setup"}, PnL: 100},
		{Tags: nil, PnL: -20},
	}
	rows := ByTags(trades, 0)

	byKey := map[string]models.AggregateRow{}
	for _, row := range rows {
		byKey[row.Key] = row
	}
	if byKey["trend"].PnL != 100 || byKey["A+ setup"].PnL != 100 {
		t.Errorf("multi-tag trade should feed every tag group: %+v", rows)
	}
	if byKey[UntaggedKey].PnL != -20 || byKey[UntaggedKey].Trades != 1 {
		t.Errorf("tagless trade should land in %q: %+v", UntaggedKey, rows)
	}
}

func TestHourBucket(t *testing.T) {
	session, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatal(err)
	}

	// Explicit timestamp converts into the session timezone.
	ts := models.Trade{EntryTimestamp: "2026-02-20T14:31:00Z"}
	if got := HourBucket(ts, session); got != "09:00" {
		t.Errorf("timestamp bucket = %q, want 09:00", got)
	}

	// Reconstructed date+entryTime is taken verbatim, no conversion.
	local := models.Trade{Date: "2026-02-20", EntryTime: "09:31"}
	if got := HourBucket(local, session); got != "09:00" {
		t.Errorf("entryTime bucket = %q, want 09:00", got)
	}

	// No time signal at all.
	if got := HourBucket(models.Trade{Date: "2026-02-20"}, session); got != UnknownKey {
		t.Errorf("bucket without time = %q, want %q", got, UnknownKey)
	}
}

func TestByWeekday(t *testing.T) {
	trades := []models.Trade{
		{Date: "2026-02-20", PnL: 10}, // Friday
		{Date: "not-a-date", PnL: 5},
	}
	rows := ByWeekday(trades, 0)

	byKey := map[string]models.AggregateRow{}
	for _, row := range rows {
		byKey[row.Key] = row
	}
	if byKey["Friday"].Trades != 1 {
		t.Errorf("expected a Friday bucket: %+v", rows)
	}
	if byKey[UnknownKey].Trades != 1 {
		t.Errorf("unparseable date should bucket as %q: %+v", UnknownKey, rows)
	}
}

func TestByRecovery(t *testing.T) {
	journal := []models.JournalEntry{
		{Date: "2026-02-20", OuraSleepScore: fp(80), OuraReadinessScore: fp(75)},
		{Date: "2026-02-21", OuraSleepScore: fp(80), OuraReadinessScore: fp(60)},
		{Date: "2026-02-22", OuraSleepScore: fp(90)}, // readiness missing
	}
	trades := []models.Trade{
		{Date: "2026-02-20", PnL: 100}, // both scores at/above threshold
		{Date: "2026-02-21", PnL: 50},  // readiness below
		{Date: "2026-02-22", PnL: 25},  // score missing
		{Date: "2026-02-23", PnL: 10},  // no journal entry
	}
	rows := ByRecovery(trades, journal, 0, 70)

	byKey := map[string]models.AggregateRow{}
	for _, row := range rows {
		byKey[row.Key] = row
	}
	if byKey[HighRecoveryBand].Trades != 1 {
		t.Errorf("high band trades = %d, want 1", byKey[HighRecoveryBand].Trades)
	}
	if byKey[LowerRecoveryBand].Trades != 3 {
		t.Errorf("lower band trades = %d, want 3", byKey[LowerRecoveryBand].Trades)
	}
}

func TestRowsSortedByPnLDesc(t *testing.T) {
	trades := []models.Trade{
		{Symbol: "A", PnL: -10},
		{Symbol: "B", PnL: 300},
		{Symbol: "C", PnL: 40},
	}
	rows := BySymbol(trades, 0)
	for i := 1; i < len(rows); i++ {
		if rows[i-1].PnL < rows[i].PnL {
			t.Errorf("rows not sorted by PnL desc: %+v", rows)
		}
	}
}

// Property: every partitioning dimension conserves the trade-level net
// total. Tags are not a partition: a trade feeds one group per tag.
func TestProperty_PartitionsConserveTotal(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	tradeGen := gen.SliceOf(gopter.CombineGens(
		gen.OneConstOf("ORB", "Fade", "Reversal", ""),
		gen.OneConstOf("NVDA", "TSLA", "ES", "MNQ"),
		gen.OneConstOf("2026-02-19", "2026-02-20", "2026-02-21"),
		gen.Float64Range(-1e4, 1e4),
		gen.Float64Range(1, 100),
	).Map(func(vals []interface{}) models.Trade {
		return models.Trade{
			Setup:  vals[0].(string),
			Symbol: vals[1].(string),
			Date:   vals[2].(string),
			PnL:    vals[3].(float64),
			Qty:    vals[4].(float64),
		}
	}))

	properties.Property("group totals match trade totals", prop.ForAll(
		func(trades []models.Trade, rate float64) bool {
			var want float64
			for _, tr := range trades {
				want += metrics.NetPnL(tr, rate)
			}
			for name, rows := range map[string][]models.AggregateRow{
				"setups":   BySetup(trades, rate),
				"symbols":  BySymbol(trades, rate),
				"days":     ByDay(trades, rate),
				"weekdays": ByWeekday(trades, rate),
			} {
				var got float64
				for _, row := range rows {
					got += row.PnL
				}
				if math.Abs(got-want) > 1e-6*math.Max(1, math.Abs(want)) {
					t.Logf("%s total = %v, want %v", name, got, want)
					return false
				}
			}
			return true
		},
		tradeGen, gen.Float64Range(0, 10),
	))

	properties.TestingRun(t)
}
