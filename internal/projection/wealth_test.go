package projection

import (
	"math"
	"testing"

	"piano/internal/core"
)

func wealthFixture() WealthInput {
	return WealthInput{
		Accounts: []core.CashAccount{
			{
				ID: 1, Name: "Checking", Currency: "EUR",
				StartingBalance: 1000, StartingDate: "2025-01", HorizonMonths: 12,
			},
		},
		RecurringItems: map[int64][]core.RecurringItem{
			1: {{
				ID: 10, AccountID: 1, Name: "Salary", Type: core.ItemIncome,
				Amount: 100, Frequency: core.FrequencyMonthly, StartDate: "2025-01", Active: true,
			}},
		},
		Investments: []core.InvestmentAccount{
			{
				ID: 2, Name: "ETF", Currency: "EUR",
				StartingValuation: 5000, ValuationDate: "2025-01", AnnualGrowthRate: 0,
			},
		},
		Receivables: []core.Receivable{
			{
				ID: 3, Name: "Loan to Anna", Currency: "EUR",
				InitialPrincipal: 300, CurrentBalance: 300, StartDate: "2025-01",
				ExpectedMonthlyRepayment: 100,
			},
		},
		Debts: []core.Debt{
			{
				ID: 4, Name: "Phone plan", Currency: "EUR",
				Type:             core.DebtFixedInstallment,
				InitialPrincipal: 500, InstallmentAmount: 100, TotalInstallments: 5,
				StartDate: "2025-01",
			},
		},
	}
}

func TestProjectWealthNetWorth(t *testing.T) {
	rows := ProjectWealth(wealthFixture(), "2025-01", "2025-12")
	if len(rows) != 12 {
		t.Fatalf("expected 12 rows, got %d", len(rows))
	}

	jan := rows[0]
	// cash 1100, investments 5000, receivable 200, debt 400
	wantNet := 1100.0 + 5000 + 200 - 400
	if math.Abs(jan.NetWorth-wantNet) > 1e-9 {
		t.Errorf("january net worth = %v, want %v", jan.NetWorth, wantNet)
	}
	if len(jan.Cash) != 1 || len(jan.Investments) != 1 || len(jan.Receivables) != 1 || len(jan.Debts) != 1 {
		t.Errorf("january breakdown arrays incomplete: %+v", jan)
	}
	if jan.Cash[0].Name != "Checking" || jan.Cash[0].Value != 1100 {
		t.Errorf("january cash breakdown = %+v", jan.Cash[0])
	}
}

// A debt paid off mid-window must contribute zero afterwards, not its
// initial principal.
func TestProjectWealthPaidOffDebt(t *testing.T) {
	rows := ProjectWealth(wealthFixture(), "2025-01", "2025-12")

	if got := rows[4].DebtsTotal; got != 0 {
		t.Errorf("month 5 debt total = %v, want 0 (final installment)", got)
	}
	for _, row := range rows[5:] {
		if row.DebtsTotal != 0 {
			t.Errorf("month %s: debt total = %v, want 0 after payoff", row.Month, row.DebtsTotal)
		}
	}
}

// Once a receivable's series stops, months past it fall back to the static
// current balance. Only debts get the past-last-row-means-zero treatment.
func TestProjectWealthSettledReceivable(t *testing.T) {
	rows := ProjectWealth(wealthFixture(), "2025-01", "2025-12")

	if got := rows[2].ReceivablesTotal; got != 0 {
		t.Errorf("month 3 receivable total = %v, want 0 (settled)", got)
	}
	for _, row := range rows[3:] {
		if row.ReceivablesTotal != 300 {
			t.Errorf("month %s: receivable total = %v, want current-balance fallback 300", row.Month, row.ReceivablesTotal)
		}
	}
}

func TestProjectWealthFallbacks(t *testing.T) {
	in := WealthInput{
		Accounts: []core.CashAccount{
			{
				ID: 1, Name: "Future account", Currency: "EUR",
				StartingBalance: 250, StartingDate: "2026-01", HorizonMonths: 12,
			},
		},
		Debts: []core.Debt{
			{
				ID: 4, Name: "Future debt", Currency: "EUR",
				Type: core.DebtAmortized, InterestModel: core.InterestNone,
				InitialPrincipal: 900, MonthlyPayment: 100, StartDate: "2026-01",
			},
		},
	}

	rows := ProjectWealth(in, "2025-01", "2025-03")
	for _, row := range rows {
		if row.CashTotal != 250 {
			t.Errorf("month %s: cash fallback = %v, want starting balance 250", row.Month, row.CashTotal)
		}
		if row.DebtsTotal != 900 {
			t.Errorf("month %s: debt fallback = %v, want initial principal 900", row.Month, row.DebtsTotal)
		}
	}
}

func TestProjectWealthInvertedRange(t *testing.T) {
	if rows := ProjectWealth(wealthFixture(), "2025-12", "2025-01"); rows != nil {
		t.Errorf("inverted range should yield nil, got %d rows", len(rows))
	}
}

func TestRollupByYear(t *testing.T) {
	rows := ProjectWealth(wealthFixture(), "2025-10", "2026-03")
	years := RollupByYear(rows)
	if len(years) != 2 {
		t.Fatalf("expected 2 yearly rows, got %d", len(years))
	}

	y2025 := years[0]
	if y2025.Year != 2025 || y2025.FirstMonth != "2025-10" || y2025.LastMonth != "2025-12" {
		t.Errorf("2025 rollup bounds = %+v", y2025)
	}
	if y2025.StartNetWorth != rows[0].NetWorth {
		t.Errorf("2025 start net worth = %v, want %v", y2025.StartNetWorth, rows[0].NetWorth)
	}
	if y2025.NetWorth != rows[2].NetWorth {
		t.Errorf("2025 closing net worth = %v, want %v", y2025.NetWorth, rows[2].NetWorth)
	}

	if years[1].Year != 2026 || years[1].FirstMonth != "2026-01" {
		t.Errorf("2026 rollup = %+v", years[1])
	}
}
