// Package calendar implements YearMonth arithmetic for the projection engine.
//
// A YearMonth is a "YYYY-MM" string. Because the month is always zero-padded
// to two digits, plain string comparison is a total order consistent with
// calendar chronology, so months can be compared without parsing.
package calendar

import (
	"fmt"
	"strconv"
	"strings"

	"piano/internal/core"
)

// Parse splits a "YYYY-MM" string into its year and month parts.
func Parse(ym core.YearMonth) (year, month int, err error) {
	s := string(ym)
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return 0, 0, fmt.Errorf("invalid year-month %q", s)
	}
	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year in %q: %w", s, err)
	}
	month, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month in %q: %w", s, err)
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("month out of range in %q", s)
	}
	return year, month, nil
}

// Format builds a YearMonth from a year and a 1-based month.
func Format(year, month int) core.YearMonth {
	return core.YearMonth(fmt.Sprintf("%04d-%02d", year, month))
}

// AddMonths returns ym shifted by n months. n may be negative.
func AddMonths(ym core.YearMonth, n int) core.YearMonth {
	year, month, err := Parse(ym)
	if err != nil {
		return ym
	}
	total := year*12 + (month - 1) + n
	return Format(total/12, total%12+1)
}

// Compare returns -1, 0 or +1 ordering a against b.
// Lexicographic comparison is valid because months are zero-padded.
func Compare(a, b core.YearMonth) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// MonthsBetween returns the signed number of months from a to b.
// MonthsBetween("2025-01", "2025-04") == 3.
func MonthsBetween(a, b core.YearMonth) int {
	ay, am, errA := Parse(a)
	by, bm, errB := Parse(b)
	if errA != nil || errB != nil {
		return 0
	}
	return (by*12 + bm) - (ay*12 + am)
}

// InRange reports whether ym falls in [start, end]. An empty end means the
// range is open-ended.
func InRange(ym, start, end core.YearMonth) bool {
	if Compare(ym, start) < 0 {
		return false
	}
	return end == "" || Compare(ym, end) <= 0
}

// IntervalMonths translates a frequency into its month step.
// A custom frequency uses everyNMonths; anything below 1 is clamped to 1 so a
// malformed record cannot stall occurrence stepping.
func IntervalMonths(freq core.Frequency, everyNMonths int) int {
	switch freq {
	case core.FrequencyMonthly:
		return 1
	case core.FrequencyQuarterly:
		return 3
	case core.FrequencyYearly:
		return 12
	case core.FrequencyCustom:
		if everyNMonths < 1 {
			return 1
		}
		return everyNMonths
	default:
		return 1
	}
}

// Range enumerates every month in [start, end], inclusive. An inverted range
// yields nil.
func Range(start, end core.YearMonth) []core.YearMonth {
	if Compare(start, end) > 0 {
		return nil
	}
	n := MonthsBetween(start, end) + 1
	months := make([]core.YearMonth, 0, n)
	for ym := start; Compare(ym, end) <= 0; ym = AddMonths(ym, 1) {
		months = append(months, ym)
	}
	return months
}
