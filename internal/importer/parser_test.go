package importer

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"tradelytics/internal/models"
)

func newTestParser() *Parser {
	p := NewParser(zerolog.Nop())
	p.now = func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}
	return p
}

func TestDetectDelimiter(t *testing.T) {
	cases := []struct {
		text string
		want rune
	}{
		{"a,b,c\n1,2,3", ','},
		{"a\tb\tc\n1\t2\t3", '\t'},
		{"a,b\tc\td\n", '\t'}, // strictly more tabs
		{"a,b\tc\n", ','},     // tie goes to comma
		{"header\n", ','},
	}
	for _, tc := range cases {
		if got := detectDelimiter(tc.text); got != tc.want {
			t.Errorf("detectDelimiter(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestParseHeaderAliases(t *testing.T) {
	text := "Trade Date,Ticker,Direction,Quantity,Entry Price,Exit Price,P/L\n" +
		"2026-02-20,nvda,Long,100,714.5,721.8,730\n"
	result := newTestParser().Parse(text)

	if len(result.Records) != 1 || result.Skipped != 0 {
		t.Fatalf("got %d records, %d skipped, want 1 and 0", len(result.Records), result.Skipped)
	}
	rec := result.Records[0]
	if rec.Symbol != "NVDA" {
		t.Errorf("Symbol = %q, want NVDA", rec.Symbol)
	}
	if rec.Date != "2026-02-20" {
		t.Errorf("Date = %q, want 2026-02-20", rec.Date)
	}
	if rec.Qty == nil || *rec.Qty != 100 {
		t.Errorf("Qty = %v, want 100", rec.Qty)
	}
	if rec.PnL == nil || *rec.PnL != 730 {
		t.Errorf("PnL = %v, want explicit 730", rec.PnL)
	}
}

func TestComputedPnLMultipliesByQty(t *testing.T) {
	text := "date,symbol,side,qty,entry,exit\n" +
		"2026-02-20,NVDA,Long,100,714.5,721.8\n"
	result := newTestParser().Parse(text)

	if len(result.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(result.Records))
	}
	rec := result.Records[0]
	if rec.PnL == nil || math.Abs(*rec.PnL-730) > 1e-9 {
		t.Errorf("computed PnL = %v, want 730", rec.PnL)
	}
}

func TestParseNumberShapes(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"730", 730, true},
		{"$1,234.50", 1234.5, true},
		{"(104)", -104, true},
		{"($1,234.50)", -1234.5, true},
		{" 12.5 ", 12.5, true},
		{"", 0, false},
		{"n/a", 0, false},
	}
	for _, tc := range cases {
		got, ok := parseNumber(tc.raw)
		if ok != tc.ok || math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("parseNumber(%q) = (%v, %v), want (%v, %v)", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestSideFromFillTimeOrdering(t *testing.T) {
	text := "symbol,qty,entry,exit,bought timestamp,sold timestamp\n" +
		"TSLA,10,214.2,212.9,2026-02-20T10:05:00Z,2026-02-20T09:31:00Z\n" +
		"NVDA,10,714.5,721.8,2026-02-20T09:31:00Z,2026-02-20T10:05:00Z\n"
	result := newTestParser().Parse(text)

	if len(result.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(result.Records))
	}
	if result.Records[0].Side != string(models.SideShort) {
		t.Errorf("sold before bought should infer Short, got %q", result.Records[0].Side)
	}
	if result.Records[1].Side != string(models.SideLong) {
		t.Errorf("bought before sold should infer Long, got %q", result.Records[1].Side)
	}
}

func TestBuySellPriceFallback(t *testing.T) {
	text := "symbol,side,qty,buy price,sell price\n" +
		"NVDA,Long,100,714.5,721.8\n"
	result := newTestParser().Parse(text)

	if len(result.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(result.Records))
	}
	rec := result.Records[0]
	if rec.Entry == nil || *rec.Entry != 714.5 {
		t.Errorf("Entry = %v, want buy price fallback 714.5", rec.Entry)
	}
	if rec.Exit == nil || *rec.Exit != 721.8 {
		t.Errorf("Exit = %v, want sell price fallback 721.8", rec.Exit)
	}
}

func TestCommissionImputedFromNet(t *testing.T) {
	text := "symbol,side,qty,pnl,net p&l\n" +
		"NVDA,Long,100,450,400\n"
	result := newTestParser().Parse(text)

	if len(result.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(result.Records))
	}
	rec := result.Records[0]
	if rec.Commission == nil || math.Abs(*rec.Commission-50) > 1e-9 {
		t.Errorf("Commission = %v, want imputed 50", rec.Commission)
	}
}

func TestQuotedFieldsAndTags(t *testing.T) {
	text := "symbol,side,entry,exit,tags,notes\n" +
		"NVDA,Long,714.5,721.8,trend|A+ setup,\"held through lunch, added on pullback\nsecond line\"\n"
	result := newTestParser().Parse(text)

	if len(result.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(result.Records))
	}
	rec := result.Records[0]
	if len(rec.Tags) != 2 || rec.Tags[0] != "trend" || rec.Tags[1] != "A+ setup" {
		t.Errorf("Tags = %#v, want [trend, A+ setup]", rec.Tags)
	}
	if !strings.Contains(rec.Notes, "added on pullback\nsecond line") {
		t.Errorf("Notes lost the quoted content: %q", rec.Notes)
	}
}

func TestUnusableRowsSkippedNotFatal(t *testing.T) {
	text := "symbol,side,entry,exit\n" +
		",Long,,\n" + // no symbol, no price pair
		"NVDA,Long,714.5,721.8\n" +
		",Short,,\n"
	result := newTestParser().Parse(text)

	if len(result.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(result.Records))
	}
	if result.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", result.Skipped)
	}
}

func TestPricePairAdmitsSymbollessRow(t *testing.T) {
	text := "symbol,side,entry,exit\n" +
		",Long,714.5,721.8\n"
	result := newTestParser().Parse(text)

	if len(result.Records) != 1 || result.Skipped != 0 {
		t.Fatalf("a row with both prices should be admitted, got %d records %d skipped",
			len(result.Records), result.Skipped)
	}
}

func TestDeriveDate(t *testing.T) {
	p := newTestParser()
	cases := map[string]string{
		"2026-02-20":           "2026-02-20",
		"2026-02-20T09:31:00Z": "2026-02-20",
		"2/20/2026":            "2026-02-20",
		"12/5/26":              "2026-12-05",
		"2/20/2026 09:31":      "2026-02-20",
		"not a date":           "2026-03-01", // processing date
		"":                     "2026-03-01",
	}
	for raw, want := range cases {
		if got := p.deriveDate(raw); got != want {
			t.Errorf("deriveDate(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestSynthesizedImportID(t *testing.T) {
	text := "symbol,side,entry,exit\n" +
		"NVDA,Long,714.5,721.8\n" +
		"TSLA,Short,214.2,212.9\n"
	result := newTestParser().Parse(text)

	if len(result.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(result.Records))
	}
	seen := map[string]bool{}
	for i, rec := range result.Records {
		if !strings.HasPrefix(rec.ID, models.ImportIDPrefix) {
			t.Errorf("record %d id %q lacks %q prefix", i, rec.ID, models.ImportIDPrefix)
		}
		if seen[rec.ID] {
			t.Errorf("duplicate synthesized id %q", rec.ID)
		}
		seen[rec.ID] = true
	}
}

func TestDefaultSetupAndQty(t *testing.T) {
	text := "symbol,side,entry,exit\nNVDA,Long,714.5,721.8\n"
	result := newTestParser().Parse(text)

	if len(result.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(result.Records))
	}
	rec := result.Records[0]
	if rec.Setup != DefaultImportSetup {
		t.Errorf("Setup = %q, want %q", rec.Setup, DefaultImportSetup)
	}
	if rec.Qty == nil || *rec.Qty != 1 {
		t.Errorf("Qty = %v, want default 1", rec.Qty)
	}
}

func TestTabDelimitedDocument(t *testing.T) {
	text := "symbol\tside\tqty\tentry\texit\n" +
		"NVDA\tLong\t100\t714.5\t721.8\n"
	result := newTestParser().Parse(text)

	if len(result.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(result.Records))
	}
	if result.Records[0].Symbol != "NVDA" {
		t.Errorf("Symbol = %q, want NVDA", result.Records[0].Symbol)
	}
}
