package view

import (
	"fmt"
	"time"
	_ "time/tzdata" // fixed zone must resolve on hosts without zoneinfo

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const stampLayout = "02 Jan 2006 15:04 MST"

// Formatter renders numbers, money and timestamps in one fixed locale,
// timezone and currency.
type Formatter struct {
	loc     *time.Location
	printer *message.Printer
	unit    currency.Unit
}

func NewFormatter(tz, locale, code string) (*Formatter, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", tz, err)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("currency %q: %w", code, err)
	}
	return &Formatter{loc: loc, printer: message.NewPrinter(tag), unit: unit}, nil
}

// Number formats v with one fractional digit and locale grouping.
func (f *Formatter) Number(v float64) string {
	return f.printer.Sprint(number.Decimal(v, number.Scale(1)))
}

// Money formats v with the ISO code at the currency's standard rounding.
func (f *Formatter) Money(v float64) string {
	return f.printer.Sprint(currency.ISO(f.unit.Amount(v)))
}

// Stamp formats t in the fixed timezone; the zero time renders as "—".
func (f *Formatter) Stamp(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.In(f.loc).Format(stampLayout)
}
