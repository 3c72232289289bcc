package money

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Round2 rounds half-up to 2 decimal places (cents).
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// StageAmount computes the frozen amount for a payment stage:
// price × percentage / 100, rounded to cents.
func StageAmount(price decimal.Decimal, percentage int) decimal.Decimal {
	return Round2(price.Mul(decimal.NewFromInt(int64(percentage))).Div(decimal.NewFromInt(100)))
}

// ToGuaranies converts a USD amount to guaraníes at the given rate,
// rounded half-up to a whole integer. Guaraní has no cents.
func ToGuaranies(usd, rate decimal.Decimal) int64 {
	return usd.Mul(rate).Round(0).IntPart()
}

// FormatGs renders an integer guaraní amount with es-PY thousands
// separators, e.g. 730000 → "730.000".
func FormatGs(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	if len(s) > 3 {
		var out []byte
		pre := len(s) % 3
		if pre > 0 {
			out = append(out, s[:pre]...)
		}
		for i := pre; i < len(s); i += 3 {
			if len(out) > 0 {
				out = append(out, '.')
			}
			out = append(out, s[i:i+3]...)
		}
		s = string(out)
	}
	if neg {
		return "-" + s
	}
	return s
}

// FormatUSD renders a USD amount with two decimals, e.g. "500.00".
func FormatUSD(d decimal.Decimal) string {
	return d.StringFixed(2)
}
