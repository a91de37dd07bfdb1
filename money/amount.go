// Package money converts user-entered amounts into exact centavo counts and
// renders them as Brazilian currency strings and spelled-out Portuguese.
package money

import (
	"math/big"
	"strings"
)

var hundred = big.NewInt(100)

// Amount is a non-negative quantity of centavos. The zero value is zero.
// Amounts are never converted to floating point.
type Amount struct {
	cents *big.Int
}

// Parse keeps only the ASCII digits of raw and reads them as centavos: the
// last two digits are the cents, everything before them the reais.
// ok is false when raw holds no digit at all ("no amount", not zero).
func Parse(raw string) (a Amount, ok bool) {
	digits := Digits(raw)
	if digits == "" {
		return Amount{}, false
	}
	if len(digits) < 3 {
		digits = strings.Repeat("0", 3-len(digits)) + digits
	}
	n, _ := new(big.Int).SetString(digits, 10)
	return Amount{cents: n}, true
}

// FromCents returns the amount holding n centavos.
func FromCents(n uint64) Amount {
	return Amount{cents: new(big.Int).SetUint64(n)}
}

// Digits strips every character of s that is not an ASCII decimal digit.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

func (a Amount) value() *big.Int {
	if a.cents == nil {
		return new(big.Int)
	}
	return a.cents
}

// IsZero reports whether the amount is exactly zero centavos.
func (a Amount) IsZero() bool { return a.value().Sign() == 0 }

// Reais returns the integer currency-unit part as a fresh big.Int.
func (a Amount) Reais() *big.Int {
	return new(big.Int).Quo(a.value(), hundred)
}

// Centavos returns the 0–99 cents part.
func (a Amount) Centavos() int {
	return int(new(big.Int).Rem(a.value(), hundred).Int64())
}

// Cents returns the whole amount in centavos as a decimal string.
func (a Amount) Cents() string { return a.value().String() }

// String implements fmt.Stringer using Format.
func (a Amount) String() string { return Format(a) }
