// Package money formats AUD and PHP amounts for display.
package money

import (
	"math"
	"strconv"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const (
	AUD = gomoney.AUD
	PHP = gomoney.PHP
)

// Format renders v in the currency's display form, e.g. "$1,234.50" or
// "₱1,000.00". Amounts are rounded half away from zero to the currency's
// minor unit. Australian dollars are shown with a bare "$".
func Format(v float64, code string) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}

	cur := gomoney.GetCurrency(code)
	if cur == nil {
		return strconv.FormatFloat(v, 'f', 2, 64) + " " + code
	}

	minor := decimal.NewFromFloat(v).Shift(int32(cur.Fraction)).Round(0).IntPart()

	if code == AUD {
		return gomoney.NewFormatter(cur.Fraction, cur.Decimal, cur.Thousand, "$", cur.Template).Format(minor)
	}

	return gomoney.New(minor, code).Display()
}

func FormatAUD(v float64) string { return Format(v, AUD) }

func FormatPHP(v float64) string { return Format(v, PHP) }

// Rate renders the PHP→AUD rate the way the settings screen shows it.
func Rate(r float64) string {
	return "1 PHP = " + strconv.FormatFloat(r, 'f', 4, 64) + " AUD"
}
