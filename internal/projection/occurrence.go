// Package projection implements the financial projection engine: pure,
// deterministic month-stepping computations over already-materialized entity
// records. Nothing here performs I/O or reads a clock; given identical inputs
// the output is bit-identical.
package projection

import (
	"piano/internal/calendar"
	"piano/internal/core"
)

// Schedule captures the periodic fields shared by recurring items and
// recurring investment contributions, so both resolve occurrences through
// the same logic.
type Schedule struct {
	Start        core.YearMonth
	End          core.YearMonth // optional, open-ended when empty
	Frequency    core.Frequency
	EveryNMonths int
	Active       bool
}

// OccursIn reports whether the schedule produces an occurrence in the given
// month. For intervals longer than a month the occurrence months are
// phase-aligned on Start: a quarterly schedule starting 2025-01 occurs in
// 2025-01, 2025-04, 2025-07, 2025-10.
func (s Schedule) OccursIn(month core.YearMonth) bool {
	if !s.Active {
		return false
	}
	if !calendar.InRange(month, s.Start, s.End) {
		return false
	}
	interval := calendar.IntervalMonths(s.Frequency, s.EveryNMonths)
	if interval <= 1 {
		return true
	}
	return calendar.MonthsBetween(s.Start, month)%interval == 0
}

func recurringSchedule(item core.RecurringItem) Schedule {
	return Schedule{
		Start:        item.StartDate,
		End:          item.EndDate,
		Frequency:    item.Frequency,
		EveryNMonths: item.EveryNMonths,
		Active:       item.Active,
	}
}

func contributionSchedule(c core.InvestmentContribution) Schedule {
	return Schedule{
		Start:        c.StartDate,
		End:          c.EndDate,
		Frequency:    c.Frequency,
		EveryNMonths: c.EveryNMonths,
		Active:       c.Active,
	}
}

// occurrencesInRange enumerates the months in [queryStart, queryEnd] on which
// a repeating item occurs. Stepping starts from the item's own first
// occurrence, not from queryStart, so the phase is preserved: "every 2 months
// from March" stays March/May/July even when queried from January.
func occurrencesInRange(first, itemEnd core.YearMonth, freq core.Frequency, everyN int, queryStart, queryEnd core.YearMonth) []core.YearMonth {
	interval := calendar.IntervalMonths(freq, everyN)
	ym := first
	for calendar.Compare(ym, queryStart) < 0 {
		ym = calendar.AddMonths(ym, interval)
	}
	limit := queryEnd
	if itemEnd != "" && calendar.Compare(itemEnd, limit) < 0 {
		limit = itemEnd
	}
	var months []core.YearMonth
	for calendar.Compare(ym, limit) <= 0 {
		months = append(months, ym)
		ym = calendar.AddMonths(ym, interval)
	}
	return months
}
