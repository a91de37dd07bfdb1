package money

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrTooLarge is returned by Words for amounts of one billion reais or more;
// only the thousand and million scales are spelled out.
var ErrTooLarge = errors.New("money: valor acima de 999.999.999,99 não pode ser escrito por extenso")

// WordsLimit is the first integer-part value Words refuses.
const WordsLimit = 1_000_000_000

var (
	unitWords    = [...]string{"", "um", "dois", "três", "quatro", "cinco", "seis", "sete", "oito", "nove"}
	teenWords    = [...]string{"dez", "onze", "doze", "treze", "quatorze", "quinze", "dezesseis", "dezessete", "dezoito", "dezenove"}
	tensWords    = [...]string{"", "", "vinte", "trinta", "quarenta", "cinquenta", "sessenta", "setenta", "oitenta", "noventa"}
	hundredWords = [...]string{"", "cento", "duzentos", "trezentos", "quatrocentos", "quinhentos", "seiscentos", "setecentos", "oitocentos", "novecentos"}
)

// scale is one magnitude tier above the 0–999 group.
type scale struct {
	size uint64
	one  string // the whole phrase when the tier count is exactly one
	many string // appended to group(count) otherwise
}

// scales lists the tiers most significant first.
var scales = []scale{
	{size: 1_000_000, one: "um milhão", many: "milhões"},
	{size: 1_000, one: "mil", many: "mil"},
}

// Words spells a out in Portuguese, e.g. "Cem reais e cinquenta centavos".
// The first letter is upper case and no final period is added. A zero amount
// yields "".
func Words(a Amount) (string, error) {
	if a.IsZero() {
		return "", nil
	}
	reais := a.Reais()
	if !reais.IsUint64() || reais.Uint64() >= WordsLimit {
		return "", ErrTooLarge
	}
	n := reais.Uint64()
	cents := a.Centavos()

	var b strings.Builder
	if n > 0 {
		b.WriteString(integerWords(n))
		b.WriteByte(' ')
	}
	// The unit word is always present, so cents alone read "reais e ...".
	if n == 1 {
		b.WriteString("real")
	} else {
		b.WriteString("reais")
	}
	if cents > 0 {
		b.WriteString(" e ")
		b.WriteString(group(cents))
		if cents == 1 {
			b.WriteString(" centavo")
		} else {
			b.WriteString(" centavos")
		}
	}
	return capitalize(b.String()), nil
}

// integerWords spells 1 ≤ n < WordsLimit, joining non-empty tiers with " e ".
func integerWords(n uint64) string {
	var parts []string
	for _, s := range scales {
		if n < s.size {
			continue
		}
		count := n / s.size
		n %= s.size
		if count == 1 {
			parts = append(parts, s.one)
		} else {
			parts = append(parts, group(int(count))+" "+s.many)
		}
	}
	if n > 0 {
		parts = append(parts, group(int(n)))
	}
	return strings.Join(parts, " e ")
}

// group spells 0–999; zero is the empty string.
func group(n int) string {
	switch {
	case n <= 0:
		return ""
	case n < 10:
		return units(n)
	case n < 20:
		return teens(n)
	case n < 100:
		return tens(n)
	case n < 1000:
		return hundreds(n)
	}
	return ""
}

func units(n int) string { return unitWords[n] }

func teens(n int) string { return teenWords[n-10] }

func tens(n int) string {
	w := tensWords[n/10]
	if u := n % 10; u > 0 {
		w += " e " + units(u)
	}
	return w
}

func hundreds(n int) string {
	if n == 100 {
		return "cem"
	}
	w := hundredWords[n/100]
	if rest := n % 100; rest > 0 {
		w += " e " + group(rest)
	}
	return w
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	// Casers keep state, so each call gets its own.
	return cases.Upper(language.BrazilianPortuguese).String(string(r)) + s[size:]
}
