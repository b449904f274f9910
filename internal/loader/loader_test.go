package loader

import (
	"context"
	"errors"
	"testing"

	"piano/internal/core"
)

type fakeStore struct {
	accounts      []core.CashAccount
	recurring     map[int64][]core.RecurringItem
	planned       map[int64][]core.PlannedItem
	investments   []core.InvestmentAccount
	contributions map[int64][]core.InvestmentContribution
	receivables   []core.Receivable
	repayments    map[int64][]core.ReceivableRepayment
	debts         []core.Debt
	rates         map[int64][]core.DebtReferenceRate
	extras        map[int64][]core.DebtExtraPayment

	failListRecurring bool
}

var errStore = errors.New("store failure")

func (f *fakeStore) GetCashAccount(_ context.Context, id int64) (core.CashAccount, error) {
	for _, a := range f.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return core.CashAccount{}, core.ErrNotFound
}

func (f *fakeStore) ListCashAccounts(context.Context) ([]core.CashAccount, error) {
	return f.accounts, nil
}

func (f *fakeStore) ListRecurringItems(_ context.Context, accountID int64) ([]core.RecurringItem, error) {
	if f.failListRecurring {
		return nil, errStore
	}
	return f.recurring[accountID], nil
}

func (f *fakeStore) ListPlannedItems(_ context.Context, accountID int64) ([]core.PlannedItem, error) {
	return f.planned[accountID], nil
}

func (f *fakeStore) GetInvestmentAccount(_ context.Context, id int64) (core.InvestmentAccount, error) {
	for _, a := range f.investments {
		if a.ID == id {
			return a, nil
		}
	}
	return core.InvestmentAccount{}, core.ErrNotFound
}

func (f *fakeStore) ListInvestmentAccounts(context.Context) ([]core.InvestmentAccount, error) {
	return f.investments, nil
}

func (f *fakeStore) ListContributions(_ context.Context, accountID int64) ([]core.InvestmentContribution, error) {
	return f.contributions[accountID], nil
}

func (f *fakeStore) GetReceivable(_ context.Context, id int64) (core.Receivable, error) {
	for _, r := range f.receivables {
		if r.ID == id {
			return r, nil
		}
	}
	return core.Receivable{}, core.ErrNotFound
}

func (f *fakeStore) ListReceivables(context.Context) ([]core.Receivable, error) {
	return f.receivables, nil
}

func (f *fakeStore) ListRepayments(_ context.Context, receivableID int64) ([]core.ReceivableRepayment, error) {
	return f.repayments[receivableID], nil
}

func (f *fakeStore) GetDebt(_ context.Context, id int64) (core.Debt, error) {
	for _, d := range f.debts {
		if d.ID == id {
			return d, nil
		}
	}
	return core.Debt{}, core.ErrNotFound
}

func (f *fakeStore) ListDebts(context.Context) ([]core.Debt, error) {
	return f.debts, nil
}

func (f *fakeStore) ListReferenceRates(_ context.Context, debtID int64) ([]core.DebtReferenceRate, error) {
	return f.rates[debtID], nil
}

func (f *fakeStore) ListExtraPayments(_ context.Context, debtID int64) ([]core.DebtExtraPayment, error) {
	return f.extras[debtID], nil
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		accounts: []core.CashAccount{{ID: 1, Name: "Checking", Currency: "EUR", StartingBalance: 1000, StartingDate: "2025-01", HorizonMonths: 12}},
		recurring: map[int64][]core.RecurringItem{
			1: {{ID: 10, AccountID: 1, Name: "Salary", Amount: 2000, Type: core.ItemIncome, Frequency: core.FrequencyMonthly, StartDate: "2025-01", Active: true}},
		},
		planned: map[int64][]core.PlannedItem{
			1: {{ID: 20, AccountID: 1, Name: "Holiday", Amount: 500, Type: core.ItemExpense, Kind: core.PlannedOneOff, ScheduledDate: "2025-06"}},
		},
		investments: []core.InvestmentAccount{{ID: 2, Name: "ETF", StartingValuation: 5000, ValuationDate: "2025-01", AnnualGrowthRate: 5}},
		contributions: map[int64][]core.InvestmentContribution{
			2: {{ID: 30, AccountID: 2, Amount: 100, Type: core.Contribution, Kind: core.PlannedRepeating, Frequency: core.FrequencyMonthly, StartDate: "2025-01", Active: true}},
		},
		receivables: []core.Receivable{{ID: 3, Name: "Loan to friend", InitialPrincipal: 300, CurrentBalance: 300, StartDate: "2025-01", ExpectedMonthlyRepayment: 100}},
		repayments: map[int64][]core.ReceivableRepayment{
			3: {{ID: 40, ReceivableID: 3, Month: "2025-01", Amount: 100}},
		},
		debts:  []core.Debt{{ID: 4, Name: "Car loan", Type: core.DebtAmortized, InitialPrincipal: 5000, StartDate: "2025-01", MonthlyPayment: 200, InterestModel: core.InterestFixed, FixedInterestRate: 4}},
		rates:  map[int64][]core.DebtReferenceRate{4: {{ID: 50, DebtID: 4, Month: "2025-01", Rate: 3.5}}},
		extras: map[int64][]core.DebtExtraPayment{4: {{ID: 60, DebtID: 4, Month: "2025-03", Amount: 250}}},
	}
}

func TestCashAccountBundle(t *testing.T) {
	l := New(newFakeStore())

	account, recurring, planned, err := l.CashAccountBundle(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.Name != "Checking" {
		t.Errorf("account name = %q, want Checking", account.Name)
	}
	if len(recurring) != 1 || recurring[0].Name != "Salary" {
		t.Errorf("recurring = %+v, want single Salary item", recurring)
	}
	if len(planned) != 1 || planned[0].Name != "Holiday" {
		t.Errorf("planned = %+v, want single Holiday item", planned)
	}
}

func TestCashAccountBundleNotFound(t *testing.T) {
	l := New(newFakeStore())

	_, _, _, err := l.CashAccountBundle(context.Background(), 99)
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestCashAccountBundleCollectionFailure(t *testing.T) {
	store := newFakeStore()
	store.failListRecurring = true
	l := New(store)

	_, _, _, err := l.CashAccountBundle(context.Background(), 1)
	if !errors.Is(err, errStore) {
		t.Fatalf("error = %v, want store failure", err)
	}
}

func TestDebtBundle(t *testing.T) {
	l := New(newFakeStore())

	debt, rates, extras, err := l.DebtBundle(context.Background(), 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if debt.Name != "Car loan" {
		t.Errorf("debt name = %q, want Car loan", debt.Name)
	}
	if len(rates) != 1 || rates[0].Rate != 3.5 {
		t.Errorf("rates = %+v, want single 3.5 entry", rates)
	}
	if len(extras) != 1 || extras[0].Amount != 250 {
		t.Errorf("extras = %+v, want single 250 entry", extras)
	}
}

func TestWealthInput(t *testing.T) {
	l := New(newFakeStore())

	in, err := l.WealthInput(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(in.Accounts) != 1 || len(in.Investments) != 1 || len(in.Receivables) != 1 || len(in.Debts) != 1 {
		t.Fatalf("entity counts = %d/%d/%d/%d, want 1 each",
			len(in.Accounts), len(in.Investments), len(in.Receivables), len(in.Debts))
	}
	if got := in.RecurringItems[1]; len(got) != 1 || got[0].Name != "Salary" {
		t.Errorf("recurring for account 1 = %+v", got)
	}
	if got := in.Contributions[2]; len(got) != 1 {
		t.Errorf("contributions for account 2 = %+v", got)
	}
	if got := in.Repayments[3]; len(got) != 1 || got[0].Amount != 100 {
		t.Errorf("repayments for receivable 3 = %+v", got)
	}
	if got := in.ReferenceRates[4]; len(got) != 1 {
		t.Errorf("reference rates for debt 4 = %+v", got)
	}
	if got := in.ExtraPayments[4]; len(got) != 1 {
		t.Errorf("extra payments for debt 4 = %+v", got)
	}
}

func TestWealthInputCollectionFailure(t *testing.T) {
	store := newFakeStore()
	store.failListRecurring = true
	l := New(store)

	_, err := l.WealthInput(context.Background())
	if !errors.Is(err, errStore) {
		t.Fatalf("error = %v, want store failure", err)
	}
}
