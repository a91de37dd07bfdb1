// Package record holds the form snapshot a notice is generated from.
package record

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/techttk77-droid/baixadoc-alvara/money"
)

// Field names a form field. The values double as template binding keys.
type Field string

const (
	Creditor      Field = "creditor"
	TaxID         Field = "taxId"
	Attorney      Field = "attorney"
	CaseNumber    Field = "caseNumber"
	OpposingParty Field = "opposingParty"
	Amount        Field = "amount"
	Description   Field = "description"
)

// Fields lists every required field in form order.
var Fields = []Field{Creditor, TaxID, Attorney, CaseNumber, OpposingParty, Amount, Description}

// ErrInvalid is matched by every ValidationError.
var ErrInvalid = errors.New("dados do formulário inválidos")

// ValidationError lists the fields that block generation.
type ValidationError struct {
	Missing    []Field
	ZeroAmount bool
}

func (e *ValidationError) Error() string {
	if e.ZeroAmount && len(e.Missing) == 0 {
		return "o valor a receber deve ser maior que zero"
	}
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = string(f)
	}
	return fmt.Sprintf("campos obrigatórios vazios: %s", strings.Join(names, ", "))
}

// Unwrap lets errors.Is match ErrInvalid.
func (e *ValidationError) Unwrap() error { return ErrInvalid }

// Message is the text shown to the person filling the form.
func (e *ValidationError) Message() string {
	if e.ZeroAmount && len(e.Missing) == 0 {
		return "O valor a receber deve ser maior que zero."
	}
	return "Por favor, preencha todos os campos!"
}

// CaseRecord is an immutable snapshot of the form. Update it with With,
// which returns a new record and leaves the receiver untouched.
type CaseRecord struct {
	Creditor        string
	TaxID           string // already formatted
	Attorney        string
	CaseNumber      string
	OpposingParty   string
	Description     string // amount in words, editable
	FormattedAmount string // "R$ ..."

	amount    money.Amount
	hasAmount bool
}

// With returns a copy of r with field set to value. TaxID is reformatted;
// Amount is parsed and also refreshes FormattedAmount and Description.
func (r CaseRecord) With(field Field, value string) CaseRecord {
	value = norm.NFC.String(value)
	switch field {
	case Creditor:
		r.Creditor = value
	case TaxID:
		r.TaxID = FormatTaxID(value)
	case Attorney:
		r.Attorney = value
	case CaseNumber:
		r.CaseNumber = value
	case OpposingParty:
		r.OpposingParty = value
	case Description:
		r.Description = value
	case Amount:
		a, ok := money.Parse(value)
		r.amount, r.hasAmount = a, ok
		if !ok {
			r.FormattedAmount, r.Description = "", ""
			break
		}
		r.FormattedAmount = money.Format(a)
		// Out-of-range amounts keep their figures but get no words, which
		// leaves Description empty and fails validation.
		r.Description, _ = money.Words(a)
	}
	return r
}

// FromValues builds a record from raw form values. The amount is applied
// before the description so a typed description overrides the derived words.
func FromValues(get func(Field) string) CaseRecord {
	var r CaseRecord
	for _, f := range Fields {
		v := get(f)
		if f == Description && strings.TrimSpace(v) == "" {
			continue
		}
		r = r.With(f, v)
	}
	return r
}

// AmountValue returns the parsed amount; ok is false when none was entered.
func (r CaseRecord) AmountValue() (money.Amount, bool) { return r.amount, r.hasAmount }

// Get returns the display value of field.
func (r CaseRecord) Get(field Field) string {
	switch field {
	case Creditor:
		return r.Creditor
	case TaxID:
		return r.TaxID
	case Attorney:
		return r.Attorney
	case CaseNumber:
		return r.CaseNumber
	case OpposingParty:
		return r.OpposingParty
	case Amount:
		return r.FormattedAmount
	case Description:
		return r.Description
	}
	return ""
}

// Validate reports every empty field, and a zero amount, as one error.
func (r CaseRecord) Validate() error {
	zero := r.hasAmount && r.amount.IsZero()
	var missing []Field
	for _, f := range Fields {
		// A zero amount has no words; report the amount, not the description.
		if f == Description && zero {
			continue
		}
		if strings.TrimSpace(r.Get(f)) == "" {
			missing = append(missing, f)
		}
	}
	if len(missing) == 0 && !zero {
		return nil
	}
	return &ValidationError{Missing: missing, ZeroAmount: zero}
}

// Values returns the binding map for templates, including the dates of now.
func (r CaseRecord) Values(now time.Time) map[string]string {
	v := make(map[string]string, len(Fields)+3)
	for _, f := range Fields {
		v[string(f)] = r.Get(f)
	}
	v["date"] = ShortDate(now)
	v["longDate"] = LongDate(now)
	if r.hasAmount {
		v["amountCents"] = r.amount.Cents()
	}
	return v
}

// Filename is the download name of the notice for this record.
func (r CaseRecord) Filename() string {
	safe := strings.NewReplacer("/", "-", `\`, "-").Replace(strings.TrimSpace(r.CaseNumber))
	return "alvara-" + safe + ".pdf"
}
