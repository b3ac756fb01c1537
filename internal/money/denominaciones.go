// Package money holds the exact-decimal helpers shared by the till and the vault:
// the Colombian banknote/coin set, cash breakdowns and peso formatting.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// denominaciones is the fixed set of face values accepted in the vault, largest first.
var denominaciones = [...]int64{100000, 50000, 20000, 10000, 5000, 2000, 1000, 500, 200, 100, 50}

// Denominaciones returns a copy of the valid face values, largest first.
func Denominaciones() []int64 {
	out := make([]int64, len(denominaciones))
	copy(out, denominaciones[:])
	return out
}

func EsDenominacionValida(d int64) bool {
	for _, v := range denominaciones {
		if v == d {
			return true
		}
	}
	return false
}

// Redondear fixes an amount to the two fraction digits stored in decimal(14,2) columns.
func Redondear(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Formatear renders an amount as Colombian pesos, e.g. $1.234.567 or $1.500,50.
func Formatear(d decimal.Decimal) string {
	signo := ""
	if d.IsNegative() {
		signo = "-"
		d = d.Neg()
	}
	d = d.Round(2)
	entero := d.Truncate(0)

	digitos := entero.String()
	var b strings.Builder
	for i, r := range digitos {
		if i > 0 && (len(digitos)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	s := signo + "$" + b.String()
	if centavos := d.Sub(entero); !centavos.IsZero() {
		s += fmt.Sprintf(",%02d", centavos.Mul(decimal.NewFromInt(100)).IntPart())
	}
	return s
}
