package output

import (
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatNOK formats an amount as whole kroner with space thousands separators ("600 000 kr").
func FormatNOK(amount decimal.Decimal) string {
	return humanize.FormatInteger("# ###.", int(amount.Round(0).IntPart())) + " kr"
}

// FormatPercent formats an optional percentage with one decimal. Undefined values render as "n/a".
func FormatPercent(p *decimal.Decimal) string {
	if p == nil {
		return "n/a"
	}
	return p.StringFixed(1) + "%"
}

// FormatSignedNOK is FormatNOK with an explicit plus sign on positive amounts.
func FormatSignedNOK(amount decimal.Decimal) string {
	if amount.IsPositive() {
		return "+" + FormatNOK(amount)
	}
	return FormatNOK(amount)
}

func optionalFixed(d *decimal.Decimal, places int32) string {
	if d == nil {
		return ""
	}
	return d.StringFixed(places)
}

func intToString(i int) string { return strconv.Itoa(i) }

func boolToString(b bool) string { return strconv.FormatBool(b) }
