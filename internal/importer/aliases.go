package importer

import "strings"

// fieldAliases maps one canonical field to the normalized header spellings
// that can supply it. The table is an ordered slice so resolution order is
// explicit: when alias lists overlap (setup and strategy both accept a
// "strategy" header) the canonical fields bind independently, each to the
// first matching column in header order.
type fieldAliases struct {
	field   string
	aliases []string
}

var aliasTable = []fieldAliases{
	{"id", []string{"id", "tradeid", "ticketid", "orderid"}},
	{"date", []string{"date", "tradedate", "opendate", "closedate", "boughttime", "soldtime", "boughttimestamp", "soldtimestamp"}},
	{"entrytime", []string{"entrytime", "opentime", "time"}},
	{"entrytimestamp", []string{"entrytimestamp", "timestamp", "executiontime"}},
	{"symbol", []string{"symbol", "ticker", "instrument"}},
	{"assettype", []string{"assettype", "asset", "instrumenttype", "securitytype"}},
	{"underlying", []string{"underlying", "underlyingsymbol", "root"}},
	{"side", []string{"side", "direction", "position", "action"}},
	{"setup", []string{"setup", "strategy", "playbook", "pattern"}},
	{"strategy", []string{"strategy", "setup"}},
	{"qty", []string{"qty", "quantity", "size", "shares", "contracts"}},
	{"contracts", []string{"contracts", "lots"}},
	{"expiry", []string{"expiry", "expiration", "expirydate", "expirationdate"}},
	{"strike", []string{"strike", "strikeprice"}},
	{"optiontype", []string{"optiontype", "callput", "putcall", "right"}},
	{"entry", []string{"entry", "entryprice", "open", "openprice", "avgentry", "buyprice"}},
	{"exit", []string{"exit", "exitprice", "close", "closeprice", "avgexit", "sellprice"}},
	{"buyprice", []string{"buyprice"}},
	{"sellprice", []string{"sellprice"}},
	{"boughttime", []string{"boughttime", "boughttimestamp"}},
	{"soldtime", []string{"soldtime", "soldtimestamp"}},
	{"pnl", []string{"pnl", "pl", "grosspnl", "profit", "realizedpnl"}},
	{"commission", []string{"commission", "commissions", "fee", "fees", "cost", "costs"}},
	{"netpnl", []string{"netpnl", "netpl"}},
	{"r", []string{"r", "rmultiple", "rmult"}},
	{"tags", []string{"tags", "tag"}},
	{"notes", []string{"notes", "note", "comment", "comments", "journal"}},
}

// normalizeHeader lowercases a header cell and strips everything that is
// not a letter or digit, so "Net P&L", "net_pnl" and "NetPnl" all resolve
// to the same key.
func normalizeHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(h) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// resolveColumns maps canonical field names to column indexes. A canonical
// field with no matching header is absent for every row (index -1).
func resolveColumns(headers []string) map[string]int {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = normalizeHeader(h)
	}

	idx := make(map[string]int, len(aliasTable))
	for _, fa := range aliasTable {
		idx[fa.field] = -1
		for col, h := range normalized {
			if contains(fa.aliases, h) {
				idx[fa.field] = col
				break
			}
		}
	}
	return idx
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
