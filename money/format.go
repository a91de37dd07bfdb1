package money

import (
	"fmt"
	"strings"
)

// CurrencyPrefix is printed before every formatted amount.
const CurrencyPrefix = "R$ "

// Format renders a as "R$ 1.234.567,89". The integer part has no upper bound.
func Format(a Amount) string {
	return fmt.Sprintf("%s%s,%02d", CurrencyPrefix, groupThousands(a.Reais().String()), a.Centavos())
}

// groupThousands inserts "." every three digits counting from the right.
func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
