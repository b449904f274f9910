// Package loader assembles an entity together with its sub-record
// collections before handing them, fully materialized, to the projection
// engine. Independent collections are fetched concurrently; this is the only
// parallelism in the system, the engine itself is strictly synchronous.
package loader

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"piano/internal/core"
	"piano/internal/projection"
)

// Store is the slice of the repository the loader reads from.
type Store interface {
	GetCashAccount(ctx context.Context, id int64) (core.CashAccount, error)
	ListCashAccounts(ctx context.Context) ([]core.CashAccount, error)
	ListRecurringItems(ctx context.Context, accountID int64) ([]core.RecurringItem, error)
	ListPlannedItems(ctx context.Context, accountID int64) ([]core.PlannedItem, error)

	GetInvestmentAccount(ctx context.Context, id int64) (core.InvestmentAccount, error)
	ListInvestmentAccounts(ctx context.Context) ([]core.InvestmentAccount, error)
	ListContributions(ctx context.Context, accountID int64) ([]core.InvestmentContribution, error)

	GetReceivable(ctx context.Context, id int64) (core.Receivable, error)
	ListReceivables(ctx context.Context) ([]core.Receivable, error)
	ListRepayments(ctx context.Context, receivableID int64) ([]core.ReceivableRepayment, error)

	GetDebt(ctx context.Context, id int64) (core.Debt, error)
	ListDebts(ctx context.Context) ([]core.Debt, error)
	ListReferenceRates(ctx context.Context, debtID int64) ([]core.DebtReferenceRate, error)
	ListExtraPayments(ctx context.Context, debtID int64) ([]core.DebtExtraPayment, error)
}

type Loader struct {
	store Store
}

func New(store Store) *Loader {
	return &Loader{store: store}
}

// CashAccountBundle loads one cash account with its recurring and planned
// items, fetching the two collections concurrently.
func (l *Loader) CashAccountBundle(ctx context.Context, id int64) (core.CashAccount, []core.RecurringItem, []core.PlannedItem, error) {
	account, err := l.store.GetCashAccount(ctx, id)
	if err != nil {
		return core.CashAccount{}, nil, nil, fmt.Errorf("load cash account: %w", err)
	}

	var (
		recurring []core.RecurringItem
		planned   []core.PlannedItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		recurring, err = l.store.ListRecurringItems(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		planned, err = l.store.ListPlannedItems(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.CashAccount{}, nil, nil, fmt.Errorf("load cash account %d collections: %w", id, err)
	}
	return account, recurring, planned, nil
}

// InvestmentBundle loads one investment account and its contributions.
func (l *Loader) InvestmentBundle(ctx context.Context, id int64) (core.InvestmentAccount, []core.InvestmentContribution, error) {
	account, err := l.store.GetInvestmentAccount(ctx, id)
	if err != nil {
		return core.InvestmentAccount{}, nil, fmt.Errorf("load investment account: %w", err)
	}
	contributions, err := l.store.ListContributions(ctx, id)
	if err != nil {
		return core.InvestmentAccount{}, nil, fmt.Errorf("load contributions for account %d: %w", id, err)
	}
	return account, contributions, nil
}

// ReceivableBundle loads one receivable and its recorded repayments.
func (l *Loader) ReceivableBundle(ctx context.Context, id int64) (core.Receivable, []core.ReceivableRepayment, error) {
	receivable, err := l.store.GetReceivable(ctx, id)
	if err != nil {
		return core.Receivable{}, nil, fmt.Errorf("load receivable: %w", err)
	}
	repayments, err := l.store.ListRepayments(ctx, id)
	if err != nil {
		return core.Receivable{}, nil, fmt.Errorf("load repayments for receivable %d: %w", id, err)
	}
	return receivable, repayments, nil
}

// DebtBundle loads one debt with its reference rates and extra payments,
// fetching the two collections concurrently.
func (l *Loader) DebtBundle(ctx context.Context, id int64) (core.Debt, []core.DebtReferenceRate, []core.DebtExtraPayment, error) {
	debt, err := l.store.GetDebt(ctx, id)
	if err != nil {
		return core.Debt{}, nil, nil, fmt.Errorf("load debt: %w", err)
	}

	var (
		rates  []core.DebtReferenceRate
		extras []core.DebtExtraPayment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rates, err = l.store.ListReferenceRates(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		extras, err = l.store.ListExtraPayments(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.Debt{}, nil, nil, fmt.Errorf("load debt %d collections: %w", id, err)
	}
	return debt, rates, extras, nil
}

// WealthInput loads every entity and all sub-record collections for the
// aggregator. Sub-collections are fetched concurrently across entities.
func (l *Loader) WealthInput(ctx context.Context) (projection.WealthInput, error) {
	var in projection.WealthInput

	// Entity lists first: they decide how many sub-collection fetches follow.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		in.Accounts, err = l.store.ListCashAccounts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		in.Investments, err = l.store.ListInvestmentAccounts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		in.Receivables, err = l.store.ListReceivables(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		in.Debts, err = l.store.ListDebts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return projection.WealthInput{}, fmt.Errorf("load entity lists: %w", err)
	}

	in.RecurringItems = make(map[int64][]core.RecurringItem, len(in.Accounts))
	in.PlannedItems = make(map[int64][]core.PlannedItem, len(in.Accounts))
	in.Contributions = make(map[int64][]core.InvestmentContribution, len(in.Investments))
	in.Repayments = make(map[int64][]core.ReceivableRepayment, len(in.Receivables))
	in.ReferenceRates = make(map[int64][]core.DebtReferenceRate, len(in.Debts))
	in.ExtraPayments = make(map[int64][]core.DebtExtraPayment, len(in.Debts))

	var mu sync.Mutex
	g, gctx = errgroup.WithContext(ctx)
	for _, account := range in.Accounts {
		id := account.ID
		g.Go(func() error {
			items, err := l.store.ListRecurringItems(gctx, id)
			if err != nil {
				return err
			}
			planned, err := l.store.ListPlannedItems(gctx, id)
			if err != nil {
				return err
			}
			mu.Lock()
			in.RecurringItems[id] = items
			in.PlannedItems[id] = planned
			mu.Unlock()
			return nil
		})
	}
	for _, account := range in.Investments {
		id := account.ID
		g.Go(func() error {
			contributions, err := l.store.ListContributions(gctx, id)
			if err != nil {
				return err
			}
			mu.Lock()
			in.Contributions[id] = contributions
			mu.Unlock()
			return nil
		})
	}
	for _, receivable := range in.Receivables {
		id := receivable.ID
		g.Go(func() error {
			repayments, err := l.store.ListRepayments(gctx, id)
			if err != nil {
				return err
			}
			mu.Lock()
			in.Repayments[id] = repayments
			mu.Unlock()
			return nil
		})
	}
	for _, debt := range in.Debts {
		id := debt.ID
		g.Go(func() error {
			rates, err := l.store.ListReferenceRates(gctx, id)
			if err != nil {
				return err
			}
			extras, err := l.store.ListExtraPayments(gctx, id)
			if err != nil {
				return err
			}
			mu.Lock()
			in.ReferenceRates[id] = rates
			in.ExtraPayments[id] = extras
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return projection.WealthInput{}, fmt.Errorf("load sub-record collections: %w", err)
	}

	return in, nil
}
