package projection

import (
	"piano/internal/calendar"
	"piano/internal/core"
)

// EntityValue is one entity's contribution to an aggregate month, kept for
// per-entity drill-down in the UI.
type EntityValue struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// WealthProjectionMonth is one row of the unified net-worth time series.
// Values are summed as-is across entities regardless of currency; the engine
// performs no FX conversion.
type WealthProjectionMonth struct {
	Month            core.YearMonth `json:"month"`
	Cash             []EntityValue  `json:"cash"`
	Investments      []EntityValue  `json:"investments"`
	Receivables      []EntityValue  `json:"receivables"`
	Debts            []EntityValue  `json:"debts"`
	CashTotal        float64        `json:"cashTotal"`
	InvestmentsTotal float64        `json:"investmentsTotal"`
	ReceivablesTotal float64        `json:"receivablesTotal"`
	DebtsTotal       float64        `json:"debtsTotal"`
	NetWorth         float64        `json:"netWorth"`
}

// WealthInput bundles every entity and its sub-record collections, keyed by
// owning entity id, as assembled by the loader.
type WealthInput struct {
	Accounts       []core.CashAccount
	RecurringItems map[int64][]core.RecurringItem
	PlannedItems   map[int64][]core.PlannedItem

	Investments   []core.InvestmentAccount
	Contributions map[int64][]core.InvestmentContribution

	Receivables []core.Receivable
	Repayments  map[int64][]core.ReceivableRepayment

	Debts          []core.Debt
	ReferenceRates map[int64][]core.DebtReferenceRate
	ExtraPayments  map[int64][]core.DebtExtraPayment
}

// ProjectWealth merges the per-entity projections into one net-worth series
// over [start, end]. Each entity's series is computed once up front; months
// where an entity has no row fall back to its static value: starting balance
// for cash, starting valuation for investments, current balance for
// receivables. A debt with no row for a month counts as fully paid off when
// the month is past its last emitted row, and as its initial principal when
// the month predates its schedule.
func ProjectWealth(in WealthInput, start, end core.YearMonth) []WealthProjectionMonth {
	if calendar.Compare(start, end) > 0 {
		return nil
	}

	cashRows := make([]map[core.YearMonth]MonthlyProjection, len(in.Accounts))
	for i, account := range in.Accounts {
		filter := &CashflowFilter{StartDate: start, EndDate: end}
		rows := ProjectCashflow(account, in.RecurringItems[account.ID], in.PlannedItems[account.ID], filter)
		cashRows[i] = make(map[core.YearMonth]MonthlyProjection, len(rows))
		for _, row := range rows {
			cashRows[i][row.Month] = row
		}
	}

	investmentRows := make([]map[core.YearMonth]InvestmentProjectionMonth, len(in.Investments))
	for i, account := range in.Investments {
		rows := ProjectInvestment(account, in.Contributions[account.ID], start, end)
		investmentRows[i] = make(map[core.YearMonth]InvestmentProjectionMonth, len(rows))
		for _, row := range rows {
			investmentRows[i][row.Month] = row
		}
	}

	receivableRows := make([]map[core.YearMonth]ReceivableProjectionMonth, len(in.Receivables))
	for i, receivable := range in.Receivables {
		rows := ProjectReceivable(receivable, in.Repayments[receivable.ID], start, end)
		receivableRows[i] = make(map[core.YearMonth]ReceivableProjectionMonth, len(rows))
		for _, row := range rows {
			receivableRows[i][row.Month] = row
		}
	}

	debtRows := make([]map[core.YearMonth]DebtProjectionMonth, len(in.Debts))
	debtLastMonth := make([]core.YearMonth, len(in.Debts))
	for i, debt := range in.Debts {
		rows := ProjectDebt(debt, in.ReferenceRates[debt.ID], in.ExtraPayments[debt.ID], start, end)
		debtRows[i] = make(map[core.YearMonth]DebtProjectionMonth, len(rows))
		for _, row := range rows {
			debtRows[i][row.Month] = row
		}
		if len(rows) > 0 {
			debtLastMonth[i] = rows[len(rows)-1].Month
		}
	}

	months := calendar.Range(start, end)
	out := make([]WealthProjectionMonth, 0, len(months))
	for _, month := range months {
		row := WealthProjectionMonth{Month: month}

		for i, account := range in.Accounts {
			value := account.StartingBalance
			if r, ok := cashRows[i][month]; ok {
				value = r.EndingBalance
			}
			row.Cash = append(row.Cash, EntityValue{ID: account.ID, Name: account.Name, Value: value})
			row.CashTotal += value
		}
		for i, account := range in.Investments {
			value := account.StartingValuation
			if r, ok := investmentRows[i][month]; ok {
				value = r.EndingValuation
			}
			row.Investments = append(row.Investments, EntityValue{ID: account.ID, Name: account.Name, Value: value})
			row.InvestmentsTotal += value
		}
		for i, receivable := range in.Receivables {
			value := receivable.CurrentBalance
			if r, ok := receivableRows[i][month]; ok {
				value = r.EndingBalance
			}
			row.Receivables = append(row.Receivables, EntityValue{ID: receivable.ID, Name: receivable.Name, Value: value})
			row.ReceivablesTotal += value
		}
		for i, debt := range in.Debts {
			var value float64
			if r, ok := debtRows[i][month]; ok {
				value = r.EndingPrincipal
			} else if debtLastMonth[i] != "" && calendar.Compare(month, debtLastMonth[i]) > 0 {
				value = 0 // already paid off
			} else {
				value = debt.InitialPrincipal
			}
			row.Debts = append(row.Debts, EntityValue{ID: debt.ID, Name: debt.Name, Value: value})
			row.DebtsTotal += value
		}

		row.NetWorth = row.CashTotal + row.InvestmentsTotal + row.ReceivablesTotal - row.DebtsTotal
		out = append(out, row)
	}
	return out
}
