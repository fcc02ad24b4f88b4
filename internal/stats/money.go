package stats

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is the currency all prices are recorded in.
const Currency = money.USD

// FormatUSD renders an amount like "$1,234.50".
func FormatUSD(d decimal.Decimal) string {
	cents := d.Shift(2).Round(0).IntPart()
	return money.New(cents, Currency).Display()
}

// FormatSignedUSD renders an amount with an explicit sign, "+$5.00" or "-$5.00".
func FormatSignedUSD(d decimal.Decimal) string {
	switch {
	case d.IsPositive():
		return "+" + FormatUSD(d)
	case d.IsNegative():
		return "-" + FormatUSD(d.Abs())
	default:
		return FormatUSD(d)
	}
}
