package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"piano/internal/core"
)

func (r *SQLiteRepository) CreateInvestmentAccount(ctx context.Context, a core.InvestmentAccount) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO investment_accounts (name, currency, starting_valuation, valuation_date, annual_growth_rate)
		VALUES (?, ?, ?, ?, ?)`,
		a.Name, a.Currency, a.StartingValuation, string(a.ValuationDate), a.AnnualGrowthRate)
	if err != nil {
		return 0, fmt.Errorf("create investment account: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) GetInvestmentAccount(ctx context.Context, id int64) (core.InvestmentAccount, error) {
	var a core.InvestmentAccount
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, currency, starting_valuation, valuation_date, annual_growth_rate
		FROM investment_accounts WHERE id = ?`, id).
		Scan(&a.ID, &a.Name, &a.Currency, &a.StartingValuation, &a.ValuationDate, &a.AnnualGrowthRate)
	if errors.Is(err, sql.ErrNoRows) {
		return core.InvestmentAccount{}, core.ErrNotFound
	}
	if err != nil {
		return core.InvestmentAccount{}, fmt.Errorf("get investment account %d: %w", id, err)
	}
	return a, nil
}

func (r *SQLiteRepository) ListInvestmentAccounts(ctx context.Context) ([]core.InvestmentAccount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, currency, starting_valuation, valuation_date, annual_growth_rate
		FROM investment_accounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list investment accounts: %w", err)
	}
	defer rows.Close()

	var accounts []core.InvestmentAccount
	for rows.Next() {
		var a core.InvestmentAccount
		if err := rows.Scan(&a.ID, &a.Name, &a.Currency, &a.StartingValuation, &a.ValuationDate, &a.AnnualGrowthRate); err != nil {
			return nil, fmt.Errorf("scan investment account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *SQLiteRepository) DeleteInvestmentAccount(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM investment_accounts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete investment account %d: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) CreateContribution(ctx context.Context, c core.InvestmentContribution) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO investment_contributions (account_id, name, type, amount, kind, scheduled_date, start_date, end_date, frequency, every_n_months, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.AccountID, c.Name, string(c.Type), c.Amount, string(c.Kind),
		nullYM(c.ScheduledDate), nullYM(c.StartDate), nullYM(c.EndDate),
		string(c.Frequency), c.EveryNMonths, c.Active)
	if err != nil {
		return 0, fmt.Errorf("create contribution: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) ListContributions(ctx context.Context, accountID int64) ([]core.InvestmentContribution, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, account_id, name, type, amount, kind, scheduled_date, start_date, end_date, frequency, every_n_months, active
		FROM investment_contributions WHERE account_id = ? ORDER BY id`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list contributions: %w", err)
	}
	defer rows.Close()

	var contributions []core.InvestmentContribution
	for rows.Next() {
		var c core.InvestmentContribution
		var scheduled, start, end, freq sql.NullString
		if err := rows.Scan(&c.ID, &c.AccountID, &c.Name, &c.Type, &c.Amount, &c.Kind,
			&scheduled, &start, &end, &freq, &c.EveryNMonths, &c.Active); err != nil {
			return nil, fmt.Errorf("scan contribution: %w", err)
		}
		c.ScheduledDate = ymFromNull(scheduled)
		c.StartDate = ymFromNull(start)
		c.EndDate = ymFromNull(end)
		c.Frequency = core.Frequency(freq.String)
		contributions = append(contributions, c)
	}
	return contributions, rows.Err()
}

func (r *SQLiteRepository) DeleteContribution(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM investment_contributions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete contribution %d: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) CreateReceivable(ctx context.Context, rec core.Receivable) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO receivables (name, currency, initial_principal, current_balance, start_date, has_interest, annual_interest_rate, expected_monthly_repayment)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Name, rec.Currency, rec.InitialPrincipal, rec.CurrentBalance, string(rec.StartDate),
		rec.HasInterest, rec.AnnualInterestRate, rec.ExpectedMonthlyRepayment)
	if err != nil {
		return 0, fmt.Errorf("create receivable: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) GetReceivable(ctx context.Context, id int64) (core.Receivable, error) {
	var rec core.Receivable
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, currency, initial_principal, current_balance, start_date, has_interest, annual_interest_rate, expected_monthly_repayment
		FROM receivables WHERE id = ?`, id).
		Scan(&rec.ID, &rec.Name, &rec.Currency, &rec.InitialPrincipal, &rec.CurrentBalance,
			&rec.StartDate, &rec.HasInterest, &rec.AnnualInterestRate, &rec.ExpectedMonthlyRepayment)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Receivable{}, core.ErrNotFound
	}
	if err != nil {
		return core.Receivable{}, fmt.Errorf("get receivable %d: %w", id, err)
	}
	return rec, nil
}

func (r *SQLiteRepository) ListReceivables(ctx context.Context) ([]core.Receivable, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, currency, initial_principal, current_balance, start_date, has_interest, annual_interest_rate, expected_monthly_repayment
		FROM receivables ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list receivables: %w", err)
	}
	defer rows.Close()

	var receivables []core.Receivable
	for rows.Next() {
		var rec core.Receivable
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Currency, &rec.InitialPrincipal, &rec.CurrentBalance,
			&rec.StartDate, &rec.HasInterest, &rec.AnnualInterestRate, &rec.ExpectedMonthlyRepayment); err != nil {
			return nil, fmt.Errorf("scan receivable: %w", err)
		}
		receivables = append(receivables, rec)
	}
	return receivables, rows.Err()
}

func (r *SQLiteRepository) DeleteReceivable(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM receivables WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete receivable %d: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) CreateRepayment(ctx context.Context, rep core.ReceivableRepayment) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO receivable_repayments (receivable_id, month, amount) VALUES (?, ?, ?)`,
		rep.ReceivableID, string(rep.Month), rep.Amount)
	if err != nil {
		return 0, fmt.Errorf("create repayment: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) ListRepayments(ctx context.Context, receivableID int64) ([]core.ReceivableRepayment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, receivable_id, month, amount
		FROM receivable_repayments WHERE receivable_id = ? ORDER BY month`, receivableID)
	if err != nil {
		return nil, fmt.Errorf("list repayments: %w", err)
	}
	defer rows.Close()

	var repayments []core.ReceivableRepayment
	for rows.Next() {
		var rep core.ReceivableRepayment
		if err := rows.Scan(&rep.ID, &rep.ReceivableID, &rep.Month, &rep.Amount); err != nil {
			return nil, fmt.Errorf("scan repayment: %w", err)
		}
		repayments = append(repayments, rep)
	}
	return repayments, rows.Err()
}

func (r *SQLiteRepository) CreateDebt(ctx context.Context, d core.Debt) (int64, error) {
	// Fixed-installment debts leave the model empty; the column only
	// accepts the named values.
	if d.InterestModel == "" {
		d.InterestModel = core.InterestNone
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO debts (name, currency, type, initial_principal, start_date, interest_model, fixed_interest_rate, reference_rate_margin, monthly_payment, installment_amount, total_installments)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.Name, d.Currency, string(d.Type), d.InitialPrincipal, string(d.StartDate),
		string(d.InterestModel), d.FixedInterestRate, d.ReferenceRateMargin,
		d.MonthlyPayment, d.InstallmentAmount, d.TotalInstallments)
	if err != nil {
		return 0, fmt.Errorf("create debt: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) GetDebt(ctx context.Context, id int64) (core.Debt, error) {
	var d core.Debt
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, currency, type, initial_principal, start_date, interest_model, fixed_interest_rate, reference_rate_margin, monthly_payment, installment_amount, total_installments
		FROM debts WHERE id = ?`, id).
		Scan(&d.ID, &d.Name, &d.Currency, &d.Type, &d.InitialPrincipal, &d.StartDate,
			&d.InterestModel, &d.FixedInterestRate, &d.ReferenceRateMargin,
			&d.MonthlyPayment, &d.InstallmentAmount, &d.TotalInstallments)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Debt{}, core.ErrNotFound
	}
	if err != nil {
		return core.Debt{}, fmt.Errorf("get debt %d: %w", id, err)
	}
	return d, nil
}

func (r *SQLiteRepository) ListDebts(ctx context.Context) ([]core.Debt, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, currency, type, initial_principal, start_date, interest_model, fixed_interest_rate, reference_rate_margin, monthly_payment, installment_amount, total_installments
		FROM debts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}
	defer rows.Close()

	var debts []core.Debt
	for rows.Next() {
		var d core.Debt
		if err := rows.Scan(&d.ID, &d.Name, &d.Currency, &d.Type, &d.InitialPrincipal, &d.StartDate,
			&d.InterestModel, &d.FixedInterestRate, &d.ReferenceRateMargin,
			&d.MonthlyPayment, &d.InstallmentAmount, &d.TotalInstallments); err != nil {
			return nil, fmt.Errorf("scan debt: %w", err)
		}
		debts = append(debts, d)
	}
	return debts, rows.Err()
}

func (r *SQLiteRepository) DeleteDebt(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM debts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete debt %d: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) CreateReferenceRate(ctx context.Context, rate core.DebtReferenceRate) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO debt_reference_rates (debt_id, month, rate) VALUES (?, ?, ?)
		ON CONFLICT (debt_id, month) DO UPDATE SET rate = excluded.rate`,
		rate.DebtID, string(rate.Month), rate.Rate)
	if err != nil {
		return 0, fmt.Errorf("create reference rate: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) ListReferenceRates(ctx context.Context, debtID int64) ([]core.DebtReferenceRate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, debt_id, month, rate
		FROM debt_reference_rates WHERE debt_id = ? ORDER BY month`, debtID)
	if err != nil {
		return nil, fmt.Errorf("list reference rates: %w", err)
	}
	defer rows.Close()

	var rates []core.DebtReferenceRate
	for rows.Next() {
		var rate core.DebtReferenceRate
		if err := rows.Scan(&rate.ID, &rate.DebtID, &rate.Month, &rate.Rate); err != nil {
			return nil, fmt.Errorf("scan reference rate: %w", err)
		}
		rates = append(rates, rate)
	}
	return rates, rows.Err()
}

func (r *SQLiteRepository) CreateExtraPayment(ctx context.Context, extra core.DebtExtraPayment) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO debt_extra_payments (debt_id, month, amount) VALUES (?, ?, ?)`,
		extra.DebtID, string(extra.Month), extra.Amount)
	if err != nil {
		return 0, fmt.Errorf("create extra payment: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) ListExtraPayments(ctx context.Context, debtID int64) ([]core.DebtExtraPayment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, debt_id, month, amount
		FROM debt_extra_payments WHERE debt_id = ? ORDER BY month`, debtID)
	if err != nil {
		return nil, fmt.Errorf("list extra payments: %w", err)
	}
	defer rows.Close()

	var extras []core.DebtExtraPayment
	for rows.Next() {
		var extra core.DebtExtraPayment
		if err := rows.Scan(&extra.ID, &extra.DebtID, &extra.Month, &extra.Amount); err != nil {
			return nil, fmt.Errorf("scan extra payment: %w", err)
		}
		extras = append(extras, extra)
	}
	return extras, rows.Err()
}

// AuditEntry is one row of the entity-change audit trail appended by the
// worker.
type AuditEntry struct {
	ID         int64
	EntityKind string
	EntityID   int64
	Action     string
	OccurredAt time.Time
}

func (r *SQLiteRepository) AppendAudit(ctx context.Context, entry AuditEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_log (entity_kind, entity_id, action, occurred_at) VALUES (?, ?, ?, ?)`,
		entry.EntityKind, entry.EntityID, entry.Action, entry.OccurredAt)
	if err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListAudit(ctx context.Context, limit int) ([]AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, entity_kind, entity_id, action, occurred_at
		FROM audit_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var entry AuditEntry
		if err := rows.Scan(&entry.ID, &entry.EntityKind, &entry.EntityID, &entry.Action, &entry.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
