package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an exact monetary amount backed by the numeric(10,2) columns.
// It remembers the text it was decoded from, because the webhook signature
// is computed over the amount exactly as the sender wrote it: decimal.String
// trims trailing zeros ("100.50" becomes "100.5"), which would break the
// signature for any amount with a trailing zero.
type Money struct {
	decimal.Decimal
	text string
}

func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{Decimal: d, text: s}, nil
}

// RequireMoney is MoneyFromString that panics on a malformed input.
func RequireMoney(s string) Money {
	m, err := MoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Text returns the amount as it appeared on the wire. Amounts that never
// crossed the wire render at the two-decimal column scale.
func (m Money) Text() string {
	if m.text != "" {
		return m.text
	}
	return m.Decimal.StringFixed(2)
}

// String renders at the fixed two-decimal scale of the storage columns.
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts both a JSON number and a quoted decimal string and
// keeps the raw text for Text.
func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	m.Decimal = d
	m.text = s
	return nil
}
