package record

import (
	"fmt"
	"time"

	"github.com/techttk77-droid/baixadoc-alvara/money"
)

const (
	cpfDigits  = 11
	cnpjDigits = 14
)

// FormatTaxID punctuates a CPF (up to 11 digits, "000.000.000-00") or a CNPJ
// (more than 11, "00.000.000/0000-00"). Digits that do not fill the pattern
// are returned bare; digits past a full CNPJ are kept after it.
func FormatTaxID(raw string) string {
	d := money.Digits(raw)
	switch {
	case len(d) <= cpfDigits:
		if len(d) < cpfDigits {
			return d
		}
		return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:11]
	case len(d) < cnpjDigits:
		return d
	default:
		return d[0:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:14] + d[14:]
	}
}

var monthNames = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// ShortDate renders t as DD/MM/AAAA.
func ShortDate(t time.Time) string { return t.Format("02/01/2006") }

// LongDate renders t as "5 de Março de 2025." with the final period.
func LongDate(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d.", t.Day(), monthNames[t.Month()-1], t.Year())
}
