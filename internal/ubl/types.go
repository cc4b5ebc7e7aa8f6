package ubl

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date layout used on the wire
const DateLayout = "2006-01-02"

// Identifier is a value with an optional identification scheme
type Identifier struct {
	Value          string
	SchemeID       string
	SchemeAgencyID string
}

// NewIdentifier returns nil for an empty value
func NewIdentifier(value string) *Identifier {
	if value == "" {
		return nil
	}
	return &Identifier{Value: value}
}

// NewSchemedIdentifier returns nil for an empty value
func NewSchemedIdentifier(value, schemeID string) *Identifier {
	if value == "" {
		return nil
	}
	return &Identifier{Value: value, SchemeID: schemeID}
}

// Code is a value drawn from a code list
type Code struct {
	Value         string
	ListID        string
	ListAgencyID  string
	ListVersionID string
	Name          string
}

// NewCode returns nil for an empty value
func NewCode(value string) *Code {
	if value == "" {
		return nil
	}
	return &Code{Value: value}
}

// NewListCode returns nil for an empty value
func NewListCode(value, listID string) *Code {
	if value == "" {
		return nil
	}
	return &Code{Value: value, ListID: listID}
}

// Text is free text with an optional language
type Text struct {
	Value      string
	LanguageID string
}

// NewText returns nil for an empty value
func NewText(value string) *Text {
	if value == "" {
		return nil
	}
	return &Text{Value: value}
}

// Amount is a monetary value in a currency
type Amount struct {
	Value      decimal.Decimal
	CurrencyID string
}

// NewAmount fails unless currency is a three letter code
func NewAmount(value decimal.Decimal, currency string) (*Amount, error) {
	if !isCurrencyCode(currency) {
		return nil, errors.Newf("amount %s: invalid currency %q", value, currency)
	}
	return &Amount{Value: value, CurrencyID: currency}, nil
}

func isCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, c := range s {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

// Quantity is a measured value with its unit
type Quantity struct {
	Value    decimal.Decimal
	UnitCode string
}

// NewQuantity fails on an empty unit code
func NewQuantity(value decimal.Decimal, unitCode string) (*Quantity, error) {
	if unitCode == "" {
		return nil, errors.Newf("quantity %s: unit code is required", value)
	}
	return &Quantity{Value: value, UnitCode: unitCode}, nil
}

// Numeric is a unit-less decimal such as a percent or multiplier
type Numeric struct {
	Value decimal.Decimal
}

// NewNumeric wraps v
func NewNumeric(v decimal.Decimal) *Numeric {
	return &Numeric{Value: v}
}

// Date is a calendar date without time or zone
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD)
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, errors.Wrapf(err, "parse date %q", s)
	}
	return DateOf(t), nil
}

// DateOf returns the calendar date of t in its own location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// IsZero reports whether d is the zero date
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Indicator is a tri-state boolean; the zero value is unset
type Indicator uint8

const (
	IndicatorUnset Indicator = iota
	IndicatorTrue
	IndicatorFalse
)

// NewIndicator returns a set indicator
func NewIndicator(b bool) Indicator {
	if b {
		return IndicatorTrue
	}
	return IndicatorFalse
}

// IsSet reports whether the indicator carries a value
func (i Indicator) IsSet() bool {
	return i == IndicatorTrue || i == IndicatorFalse
}

// Bool returns the indicator value; unset reads as false
func (i Indicator) Bool() bool {
	return i == IndicatorTrue
}

func (i Indicator) String() string {
	switch i {
	case IndicatorTrue:
		return "true"
	case IndicatorFalse:
		return "false"
	default:
		return ""
	}
}

// BinaryObject is embedded content such as an attached PDF
type BinaryObject struct {
	Content  []byte
	MimeCode string
	Filename string
}
