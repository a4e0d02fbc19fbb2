package importer

import (
	"strconv"
	"strings"

	"tradelytics/internal/metrics"
	"tradelytics/internal/models"
)

// exportColumns is the fixed export column order.
var exportColumns = []string{
	"id", "date", "entryTime", "assetType", "symbol", "underlying", "side",
	"setup", "strategy", "qty", "contracts", "expiry", "strike", "optionType",
	"entry", "exit", "pnl", "commission", "netPnl", "r", "tags", "notes",
}

// Export serializes trades as comma-delimited text in the fixed column
// order. Fields containing a comma, quote or newline are quoted with
// doubled-quote escaping; tags are joined by "|". The netPnl column bakes
// in the effective commission at the given rate.
func Export(trades []models.Trade, ratePerUnit float64) string {
	if len(trades) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(strings.Join(exportColumns, ","))
	for _, t := range trades {
		cells := []string{
			t.ID,
			t.Date,
			t.EntryTime,
			string(t.AssetType),
			t.Symbol,
			t.Underlying,
			string(t.Side),
			t.Setup,
			t.Strategy,
			formatNumber(t.Qty),
			strconv.Itoa(t.Contracts),
			t.Expiry,
			formatNumber(t.Strike),
			t.OptionType,
			formatNumber(t.Entry),
			formatNumber(t.Exit),
			formatNumber(t.PnL),
			formatNumber(t.Commission),
			formatNumber(metrics.NetPnL(t, ratePerUnit)),
			formatNumber(t.R),
			strings.Join(t.Tags, "|"),
			t.Notes,
		}
		b.WriteByte('\n')
		for i, cell := range cells {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(escapeCSV(cell))
		}
	}
	return b.String()
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, "\",\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
