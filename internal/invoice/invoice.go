// Package invoice holds the billing-cycle calendar arithmetic shared by the
// purchase preview path and the persistence path. Both must produce identical
// results, so this package is the only place the closing-day rule lives.
package invoice

import (
	"fmt"
	"time"
)

const (
	// MinClosingDay and MaxClosingDay bound a card's statement closing day
	MinClosingDay = 1
	MaxClosingDay = 31
	// MinInstallments and MaxInstallments bound a purchase's installment count
	MinInstallments = 1
	MaxInstallments = 99
)

// Month identifies one monthly statement bucket (e.g. 2025-07)
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the bucket for the calendar month containing t
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses a bucket in YYYY-MM format
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid invoice month %q: %w", s, err)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// String formats the bucket as YYYY-MM
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// AddMonths returns the bucket n calendar months after m, rolling the year
// every 12 months. Normalization goes through time.Date on day 1 so it can
// never be affected by month lengths.
func (m Month) AddMonths(n int) Month {
	t := time.Date(m.Year, m.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	return Month{Year: t.Year(), Month: t.Month()}
}

// Compare returns -1, 0 or 1 comparing m chronologically against o
func (m Month) Compare(o Month) int {
	a := m.Year*12 + int(m.Month)
	b := o.Year*12 + int(o.Month)
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Before reports whether m is chronologically before o
func (m Month) Before(o Month) bool {
	return m.Compare(o) < 0
}

// DaysIn returns the number of days in the given calendar month
func DaysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDay returns day limited to the last valid day of the given month,
// e.g. day 31 in February yields 28 or 29. Days below 1 are raised to 1.
func ClampDay(year int, month time.Month, day int) int {
	if day < 1 {
		return 1
	}
	if last := DaysIn(year, month); day > last {
		return last
	}
	return day
}

// Resolve maps a purchase date and a card's closing day to the bucket of the
// first installment. A purchase made on or after the closing day belongs to
// the following month's statement; the closing day itself is inclusive. When
// the closing day exceeds the length of the purchase month it is clamped to
// that month's last day, never rolled into the next month.
func Resolve(purchaseDate time.Time, closingDay int) (Month, error) {
	if closingDay < MinClosingDay || closingDay > MaxClosingDay {
		return Month{}, fmt.Errorf("%w: closing day %d", ErrInvalidClosingDay, closingDay)
	}

	current := MonthOf(purchaseDate)
	effectiveClosingDay := ClampDay(current.Year, current.Month, closingDay)

	if purchaseDate.Day() >= effectiveClosingDay {
		return current.AddMonths(1), nil
	}
	return current, nil
}

// Schedule expands the first bucket and an installment count into the ordered
// sequence of buckets the purchase occupies, one per consecutive calendar
// month. The result depends only on the inputs.
func Schedule(first Month, installments int) ([]Month, error) {
	if installments < MinInstallments || installments > MaxInstallments {
		return nil, fmt.Errorf("%w: %d installments", ErrInvalidInstallments, installments)
	}

	months := make([]Month, installments)
	for i := range months {
		months[i] = first.AddMonths(i)
	}
	return months, nil
}

// Covers reports whether target falls within the schedule seeded at first.
// Consumers use this instead of expanding and scanning so the containment
// rule cannot drift from Schedule.
func Covers(first Month, installments int, target Month) bool {
	if installments < MinInstallments || installments > MaxInstallments {
		return false
	}
	offset := (target.Year-first.Year)*12 + int(target.Month) - int(first.Month)
	return offset >= 0 && offset < installments
}
