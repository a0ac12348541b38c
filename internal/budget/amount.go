package budget

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"

	"github.com/shopspring/decimal"
)

// Amount is a money figure as stored in the document. Decoding never fails:
// numbers are taken as-is, strings go through ParseAmount and anything else
// (null, booleans, objects) becomes zero.
type Amount float64

var (
	nonNumeric    = regexp.MustCompile(`[^0-9.\-]`)
	numericPrefix = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)`)
)

// ParseAmount strips every character except digits, '.' and '-' and reads the
// leading number that remains. Unparseable input yields 0.
// Examples: "$1,234.50" -> 1234.5, "PHP -35.00" -> -35, "n/a" -> 0.
func ParseAmount(s string) float64 {
	clean := nonNumeric.ReplaceAllString(s, "")

	match := numericPrefix.FindString(clean)
	if match == "" {
		return 0
	}

	d, err := decimal.NewFromString(match)
	if err != nil {
		return 0
	}

	return d.InexactFloat64()
}

func (a Amount) Float() float64 { return float64(a) }

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(a))
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*a = 0
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*a = 0
			return nil
		}

		*a = Amount(ParseAmount(s))
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			*a = 0
			return nil
		}

		*a = Amount(f)
	default:
		*a = 0
	}

	return nil
}

// Ptr returns a pointer to a copy of v, for optional amounts such as budgets.
func Ptr(v float64) *Amount {
	a := Amount(v)
	return &a
}
