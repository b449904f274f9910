package projection

import (
	"piano/internal/calendar"
	"piano/internal/core"
)

// LineSource identifies which item population produced a breakdown line.
type LineSource string

const (
	SourceRecurring        LineSource = "recurring"
	SourcePlannedOneOff    LineSource = "planned-one-off"
	SourcePlannedRepeating LineSource = "planned-repeating"
)

// ItemKind is the filterable shape of a line: recurring, one-off or
// repeating.
type ItemKind string

const (
	KindRecurring ItemKind = "recurring"
	KindOneOff    ItemKind = "one-off"
	KindRepeating ItemKind = "repeating"
)

func (s LineSource) kind() ItemKind {
	switch s {
	case SourcePlannedOneOff:
		return KindOneOff
	case SourcePlannedRepeating:
		return KindRepeating
	default:
		return KindRecurring
	}
}

// LineItem is one income or expense line in a month's breakdown.
type LineItem struct {
	ItemID       int64         `json:"itemId"`
	Name         string        `json:"name"`
	Type         core.ItemType `json:"type"`
	Amount       float64       `json:"amount"`
	Category     string        `json:"category"`
	Source       LineSource    `json:"source"`
	IsOverridden bool          `json:"isOverridden,omitempty"`
}

// MonthlyProjection is one month of a cash account's projected flow.
type MonthlyProjection struct {
	AccountID       int64          `json:"accountId"`
	Month           core.YearMonth `json:"month"`
	Lines           []LineItem     `json:"lines"`
	TotalIncome     float64        `json:"totalIncome"`
	TotalExpenses   float64        `json:"totalExpenses"`
	NetChange       float64        `json:"netChange"`
	StartingBalance float64        `json:"startingBalance"`
	EndingBalance   float64        `json:"endingBalance"`
}

// CashflowFilter narrows a cashflow projection. StartDate/EndDate truncate
// the account's own window; the slice fields restrict which lines are
// included, an empty slice meaning no restriction. The running balance is
// threaded from the filtered totals, so filtering changes the reported
// ending balance (a deliberate "what-if without these items" view).
type CashflowFilter struct {
	StartDate  core.YearMonth
	EndDate    core.YearMonth
	Categories []string
	ItemTypes  []core.ItemType
	ItemKinds  []ItemKind
}

func (f *CashflowFilter) includes(line LineItem) bool {
	if f == nil {
		return true
	}
	if len(f.Categories) > 0 && !containsString(f.Categories, line.Category) {
		return false
	}
	if len(f.ItemTypes) > 0 && !containsType(f.ItemTypes, line.Type) {
		return false
	}
	if len(f.ItemKinds) > 0 && !containsKind(f.ItemKinds, line.Source.kind()) {
		return false
	}
	return true
}

func containsString(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsType(set []core.ItemType, v core.ItemType) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsKind(set []ItemKind, v ItemKind) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

type overrideKey struct {
	itemID int64
	month  core.YearMonth
}

// ProjectCashflow produces the month-by-month income/expense/balance series
// for one cash account. The window runs from the account's starting date to
// its custom end date (or starting date + horizon - 1), truncated by the
// filter's start/end when present. The first emitted month always opens with
// the account's starting balance.
func ProjectCashflow(account core.CashAccount, recurring []core.RecurringItem, planned []core.PlannedItem, filter *CashflowFilter) []MonthlyProjection {
	start := account.StartingDate
	end := account.CustomEndDate
	if end == "" {
		horizon := account.HorizonMonths
		if horizon < 1 {
			horizon = 1
		}
		end = calendar.AddMonths(start, horizon-1)
	}
	if filter != nil {
		if filter.StartDate != "" && calendar.Compare(filter.StartDate, start) > 0 {
			start = filter.StartDate
		}
		if filter.EndDate != "" && calendar.Compare(filter.EndDate, end) < 0 {
			end = filter.EndDate
		}
	}
	if calendar.Compare(start, end) > 0 {
		return nil
	}

	overrides := make(map[overrideKey]core.PlannedItem)
	oneOffByMonth := make(map[core.YearMonth][]core.PlannedItem)
	repeatingByMonth := make(map[core.YearMonth][]core.PlannedItem)
	for _, p := range planned {
		switch {
		case p.IsOverride():
			overrides[overrideKey{p.OverridesItemID, p.ScheduledDate}] = p
		case p.Kind == core.PlannedOneOff:
			oneOffByMonth[p.ScheduledDate] = append(oneOffByMonth[p.ScheduledDate], p)
		case p.Kind == core.PlannedRepeating:
			for _, m := range occurrencesInRange(p.FirstOccurrence, p.EndDate, p.Frequency, p.EveryNMonths, start, end) {
				repeatingByMonth[m] = append(repeatingByMonth[m], p)
			}
		}
	}

	balance := account.StartingBalance
	var out []MonthlyProjection
	for month := start; calendar.Compare(month, end) <= 0; month = calendar.AddMonths(month, 1) {
		row := MonthlyProjection{
			AccountID:       account.ID,
			Month:           month,
			StartingBalance: balance,
		}

		for _, item := range recurring {
			if !recurringSchedule(item).OccursIn(month) {
				continue
			}
			line := LineItem{
				ItemID:   item.ID,
				Name:     item.Name,
				Type:     item.Type,
				Amount:   item.Amount,
				Category: item.Category,
				Source:   SourceRecurring,
			}
			if ov, ok := overrides[overrideKey{item.ID, month}]; ok {
				if ov.Skip {
					continue
				}
				line.IsOverridden = true
				if ov.Name != "" {
					line.Name = ov.Name
				}
				if ov.Amount > 0 {
					line.Amount = ov.Amount
				}
				if ov.Category != "" {
					line.Category = ov.Category
				}
			}
			row.addLine(line, filter)
		}

		for _, p := range oneOffByMonth[month] {
			row.addLine(LineItem{
				ItemID:   p.ID,
				Name:     p.Name,
				Type:     p.Type,
				Amount:   p.Amount,
				Category: p.Category,
				Source:   SourcePlannedOneOff,
			}, filter)
		}
		for _, p := range repeatingByMonth[month] {
			row.addLine(LineItem{
				ItemID:   p.ID,
				Name:     p.Name,
				Type:     p.Type,
				Amount:   p.Amount,
				Category: p.Category,
				Source:   SourcePlannedRepeating,
			}, filter)
		}

		row.NetChange = row.TotalIncome - row.TotalExpenses
		row.EndingBalance = row.StartingBalance + row.NetChange
		balance = row.EndingBalance
		out = append(out, row)
	}
	return out
}

func (m *MonthlyProjection) addLine(line LineItem, filter *CashflowFilter) {
	if !filter.includes(line) {
		return
	}
	m.Lines = append(m.Lines, line)
	if line.Type == core.ItemIncome {
		m.TotalIncome += line.Amount
	} else {
		m.TotalExpenses += line.Amount
	}
}
