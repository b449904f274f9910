package projection

import (
	"testing"

	"piano/internal/calendar"
	"piano/internal/core"
)

func TestScheduleOccursInQuarterly(t *testing.T) {
	s := Schedule{
		Start:     "2025-01",
		Frequency: core.FrequencyQuarterly,
		Active:    true,
	}

	active := map[core.YearMonth]bool{
		"2025-01": true,
		"2025-04": true,
		"2025-07": true,
		"2025-10": true,
	}
	for _, month := range calendar.Range("2025-01", "2025-12") {
		if got := s.OccursIn(month); got != active[month] {
			t.Errorf("OccursIn(%q) = %v, want %v", month, got, active[month])
		}
	}
}

func TestScheduleOccursIn(t *testing.T) {
	tests := []struct {
		name  string
		s     Schedule
		month core.YearMonth
		want  bool
	}{
		{
			name:  "inactive never occurs",
			s:     Schedule{Start: "2025-01", Frequency: core.FrequencyMonthly, Active: false},
			month: "2025-03",
			want:  false,
		},
		{
			name:  "before start",
			s:     Schedule{Start: "2025-03", Frequency: core.FrequencyMonthly, Active: true},
			month: "2025-02",
			want:  false,
		},
		{
			name:  "after end",
			s:     Schedule{Start: "2025-01", End: "2025-06", Frequency: core.FrequencyMonthly, Active: true},
			month: "2025-07",
			want:  false,
		},
		{
			name:  "monthly inside range",
			s:     Schedule{Start: "2025-01", End: "2025-06", Frequency: core.FrequencyMonthly, Active: true},
			month: "2025-04",
			want:  true,
		},
		{
			name:  "custom every 2 months on phase",
			s:     Schedule{Start: "2025-03", Frequency: core.FrequencyCustom, EveryNMonths: 2, Active: true},
			month: "2025-07",
			want:  true,
		},
		{
			name:  "custom every 2 months off phase",
			s:     Schedule{Start: "2025-03", Frequency: core.FrequencyCustom, EveryNMonths: 2, Active: true},
			month: "2025-06",
			want:  false,
		},
		{
			name:  "yearly anniversary",
			s:     Schedule{Start: "2024-06", Frequency: core.FrequencyYearly, Active: true},
			month: "2026-06",
			want:  true,
		},
		{
			name:  "yearly off anniversary",
			s:     Schedule{Start: "2024-06", Frequency: core.FrequencyYearly, Active: true},
			month: "2026-07",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.OccursIn(tt.month); got != tt.want {
				t.Errorf("OccursIn(%q) = %v, want %v", tt.month, got, tt.want)
			}
		})
	}
}

func TestOccurrencesInRangePreservesPhase(t *testing.T) {
	// Every 2 months from March, queried from January: occurrences must stay
	// on the March phase, not shift onto the query start.
	got := occurrencesInRange("2025-03", "", core.FrequencyCustom, 2, "2025-01", "2025-12")
	want := []core.YearMonth{"2025-03", "2025-05", "2025-07", "2025-09", "2025-11"}
	assertMonths(t, got, want)
}

func TestOccurrencesInRange(t *testing.T) {
	tests := []struct {
		name           string
		first, itemEnd core.YearMonth
		freq           core.Frequency
		everyN         int
		qStart, qEnd   core.YearMonth
		want           []core.YearMonth
	}{
		{
			name:  "first occurrence inside range",
			first: "2025-04", freq: core.FrequencyQuarterly,
			qStart: "2025-01", qEnd: "2025-12",
			want: []core.YearMonth{"2025-04", "2025-07", "2025-10"},
		},
		{
			name:  "query starts mid-stream",
			first: "2025-01", freq: core.FrequencyQuarterly,
			qStart: "2025-05", qEnd: "2025-12",
			want: []core.YearMonth{"2025-07", "2025-10"},
		},
		{
			name:  "item end truncates",
			first: "2025-01", itemEnd: "2025-06", freq: core.FrequencyMonthly,
			qStart: "2025-04", qEnd: "2025-12",
			want: []core.YearMonth{"2025-04", "2025-05", "2025-06"},
		},
		{
			name:  "first occurrence after range",
			first: "2026-01", freq: core.FrequencyMonthly,
			qStart: "2025-01", qEnd: "2025-12",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := occurrencesInRange(tt.first, tt.itemEnd, tt.freq, tt.everyN, tt.qStart, tt.qEnd)
			assertMonths(t, got, tt.want)
		})
	}
}

func assertMonths(t *testing.T, got, want []core.YearMonth) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d occurrences %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("occurrence[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
