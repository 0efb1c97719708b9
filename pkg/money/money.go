// Package money formatea montos para mostrar en páginas y reportes.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Format devuelve el monto con dos decimales y separador de miles: 1234.5 → "1,234.50".
func Format(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3+3)
	for i := 0; i < n; i++ {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, intPart[i])
	}
	out := string(buf) + "." + frac
	if neg {
		return "-" + out
	}
	return out
}

// FormatWithSymbol antepone "$".
func FormatWithSymbol(d decimal.Decimal) string {
	f := Format(d)
	if strings.HasPrefix(f, "-") {
		return "-$" + f[1:]
	}
	return "$" + f
}
