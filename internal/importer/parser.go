// Package importer parses heterogeneous broker exports (comma or tab
// delimited) into raw trade records and serializes canonical trades back
// to CSV. Parsed records are not yet normalized: callers must pass them
// through normalize.Normalize before use.
package importer

import (
	"encoding/csv"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"tradelytics/internal/models"
)

// DefaultImportSetup labels imported rows that carry no setup column.
const DefaultImportSetup = "CSV Import"

var (
	isoDatePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	slashDate     = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2,4}`)
	numCleaner    = regexp.MustCompile(`[$\s,]`)
)

// Result is the outcome of parsing one delimited document.
type Result struct {
	Records []models.RawTradeRecord
	Skipped int
}

// Parser converts delimited text into raw trade records. The zero value is
// not usable; construct with NewParser.
type Parser struct {
	log zerolog.Logger
	now func() time.Time
}

// NewParser creates a parser that logs row-level skips to the given logger.
func NewParser(log zerolog.Logger) *Parser {
	return &Parser{log: log, now: time.Now}
}

// Parse reads delimited text and derives one raw record per data row.
// Unusable rows are skipped and counted, never fatal.
func (p *Parser) Parse(text string) Result {
	delimiter := detectDelimiter(text)

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var result Result
	var columns map[string]int
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed line: skip and keep going.
			result.Skipped++
			p.log.Debug().Err(err).Int("row", row).Msg("skipping malformed row")
			continue
		}
		if blankRecord(record) {
			continue
		}
		if columns == nil {
			columns = resolveColumns(record)
			continue
		}
		row++

		raw, ok := p.deriveRow(record, columns, row)
		if !ok {
			result.Skipped++
			continue
		}
		result.Records = append(result.Records, raw)
	}

	p.log.Info().
		Int("imported", len(result.Records)).
		Int("skipped", result.Skipped).
		Msg("parsed delimited import")
	return result
}

// deriveRow applies the per-field fallback chain, in the fixed order:
// side, prices, pnl, commission, date, id, tags.
func (p *Parser) deriveRow(record []string, columns map[string]int, row int) (models.RawTradeRecord, bool) {
	field := func(name string) string {
		i := columns[name]
		if i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	symbol := strings.ToUpper(field("symbol"))
	entry, entryOK := parseNumber(field("entry"))
	exit, exitOK := parseNumber(field("exit"))
	if symbol == "" && !(entryOK && exitOK) {
		return models.RawTradeRecord{}, false
	}

	// Side: explicit column first, then bought/sold timestamp ordering.
	side := explicitSide(field("side"))
	if side == "" {
		if bought, sold := field("boughttime"), field("soldtime"); bought != "" && sold != "" && sold < bought {
			side = string(models.SideShort)
		} else if bought != "" && sold != "" {
			side = string(models.SideLong)
		}
	}
	if side == "" {
		side = string(models.SideLong)
	}

	// Prices: explicit entry/exit columns win over buy/sell price columns.
	if !entryOK {
		entry, _ = parseNumber(field("buyprice"))
	}
	if !exitOK {
		exit, _ = parseNumber(field("sellprice"))
	}

	qty := 1.0
	if v, ok := parseNumber(field("qty")); ok {
		qty = v
	}

	computedPnl := (exit - entry) * qty
	if side == string(models.SideShort) {
		computedPnl = (entry - exit) * qty
	}
	pnl := computedPnl
	if v, ok := parseNumber(field("pnl")); ok {
		pnl = v
	}

	// Commission: explicit column wins; otherwise impute from a net-P&L
	// column as the gross/net gap, floored at zero.
	commission, _ := parseNumber(field("commission"))
	if commission == 0 {
		if netRaw := field("netpnl"); netRaw != "" {
			net, ok := parseNumber(netRaw)
			if !ok {
				net = pnl
			}
			if imputed := pnl - net; imputed > 0 {
				commission = imputed
			}
		}
	}

	r, _ := parseNumber(field("r"))

	id := field("id")
	if id == "" {
		id = models.ImportIDPrefix + strconv.FormatInt(p.now().UnixMilli(), 10) + "-" + strconv.Itoa(row)
	}

	setup := field("setup")
	if setup == "" {
		setup = DefaultImportSetup
	}

	raw := models.RawTradeRecord{
		ID:             id,
		Date:           p.deriveDate(field("date")),
		EntryTime:      field("entrytime"),
		EntryTimestamp: field("entrytimestamp"),
		Symbol:         symbol,
		AssetType:      field("assettype"),
		Underlying:     field("underlying"),
		OptionType:     field("optiontype"),
		Expiry:         field("expiry"),
		Side:           side,
		Setup:          setup,
		Strategy:       field("strategy"),
		Tags:           splitTags(field("tags")),
		Qty:            &qty,
		Entry:          &entry,
		Exit:           &exit,
		PnL:            &pnl,
		Commission:     &commission,
		R:              &r,
		Notes:          field("notes"),
	}
	if v, ok := parseNumber(field("strike")); ok {
		raw.Strike = &v
	}
	if v, ok := parseNumber(field("contracts")); ok {
		c := int(v)
		raw.Contracts = &c
	}
	return raw, true
}

// deriveDate accepts ISO-prefixed values verbatim (first ten characters),
// parses M/D/YYYY shapes, and falls back to the processing date.
func (p *Parser) deriveDate(raw string) string {
	switch {
	case isoDatePrefix.MatchString(raw):
		return raw[:10]
	case slashDate.MatchString(raw):
		datePart := raw
		if i := strings.IndexAny(raw, " T"); i > 0 {
			datePart = raw[:i]
		}
		for _, layout := range []string{"1/2/2006", "1/2/06"} {
			if d, err := time.Parse(layout, datePart); err == nil {
				return d.Format("2006-01-02")
			}
		}
	}
	return p.now().Format("2006-01-02")
}

// detectDelimiter counts commas and tabs in the first line; tab wins only
// when strictly more frequent.
func detectDelimiter(text string) rune {
	firstLine := text
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		firstLine = text[:i]
	}
	if strings.Count(firstLine, "\t") > strings.Count(firstLine, ",") {
		return '\t'
	}
	return ','
}

// parseNumber cleans currency symbols, thousands separators and whitespace,
// treating a parenthesized value as negative. The second return reports
// whether a finite number was present.
func parseNumber(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	cleaned := numCleaner.ReplaceAllString(raw, "")
	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = cleaned[1 : len(cleaned)-1]
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	if negative {
		v = -v
	}
	return v, true
}

func explicitSide(raw string) string {
	s := strings.ToLower(raw)
	switch {
	case strings.Contains(s, "short") || s == "sell":
		return string(models.SideShort)
	case s != "":
		return string(models.SideLong)
	}
	return ""
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '|' || r == ';' || r == ','
	})
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if t := strings.TrimSpace(part); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func blankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
