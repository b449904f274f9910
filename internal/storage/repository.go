// Package storage persists financial entities and their sub-record
// collections in SQLite. It is the concrete implementation of the loader's
// data source; the projection engine itself never touches it.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"piano/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Ping reports whether the database is reachable. Used by readiness checks.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// nullYM maps an optional YearMonth to a nullable TEXT column.
func nullYM(ym core.YearMonth) sql.NullString {
	return sql.NullString{String: string(ym), Valid: ym != ""}
}

func ymFromNull(s sql.NullString) core.YearMonth {
	if !s.Valid {
		return ""
	}
	return core.YearMonth(s.String)
}

func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

func (r *SQLiteRepository) CreateCashAccount(ctx context.Context, a core.CashAccount) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO cash_accounts (name, currency, starting_balance, starting_date, horizon_months, custom_end_date)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.Name, a.Currency, a.StartingBalance, string(a.StartingDate), a.HorizonMonths, nullYM(a.CustomEndDate))
	if err != nil {
		return 0, fmt.Errorf("create cash account: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) GetCashAccount(ctx context.Context, id int64) (core.CashAccount, error) {
	var a core.CashAccount
	var end sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, currency, starting_balance, starting_date, horizon_months, custom_end_date
		FROM cash_accounts WHERE id = ?`, id).
		Scan(&a.ID, &a.Name, &a.Currency, &a.StartingBalance, &a.StartingDate, &a.HorizonMonths, &end)
	if errors.Is(err, sql.ErrNoRows) {
		return core.CashAccount{}, core.ErrNotFound
	}
	if err != nil {
		return core.CashAccount{}, fmt.Errorf("get cash account %d: %w", id, err)
	}
	a.CustomEndDate = ymFromNull(end)
	return a, nil
}

func (r *SQLiteRepository) ListCashAccounts(ctx context.Context) ([]core.CashAccount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, currency, starting_balance, starting_date, horizon_months, custom_end_date
		FROM cash_accounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list cash accounts: %w", err)
	}
	defer rows.Close()

	var accounts []core.CashAccount
	for rows.Next() {
		var a core.CashAccount
		var end sql.NullString
		if err := rows.Scan(&a.ID, &a.Name, &a.Currency, &a.StartingBalance, &a.StartingDate, &a.HorizonMonths, &end); err != nil {
			return nil, fmt.Errorf("scan cash account: %w", err)
		}
		a.CustomEndDate = ymFromNull(end)
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *SQLiteRepository) UpdateCashAccount(ctx context.Context, a core.CashAccount) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE cash_accounts
		SET name = ?, currency = ?, starting_balance = ?, starting_date = ?, horizon_months = ?, custom_end_date = ?
		WHERE id = ?`,
		a.Name, a.Currency, a.StartingBalance, string(a.StartingDate), a.HorizonMonths, nullYM(a.CustomEndDate), a.ID)
	if err != nil {
		return fmt.Errorf("update cash account %d: %w", a.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteCashAccount(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cash_accounts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete cash account %d: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) CreateRecurringItem(ctx context.Context, item core.RecurringItem) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO recurring_items (account_id, name, type, amount, category, frequency, every_n_months, start_date, end_date, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.AccountID, item.Name, string(item.Type), item.Amount, item.Category,
		string(item.Frequency), item.EveryNMonths, string(item.StartDate), nullYM(item.EndDate), item.Active)
	if err != nil {
		return 0, fmt.Errorf("create recurring item: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) ListRecurringItems(ctx context.Context, accountID int64) ([]core.RecurringItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, account_id, name, type, amount, category, frequency, every_n_months, start_date, end_date, active
		FROM recurring_items WHERE account_id = ? ORDER BY id`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list recurring items: %w", err)
	}
	defer rows.Close()

	var items []core.RecurringItem
	for rows.Next() {
		var item core.RecurringItem
		var end sql.NullString
		if err := rows.Scan(&item.ID, &item.AccountID, &item.Name, &item.Type, &item.Amount,
			&item.Category, &item.Frequency, &item.EveryNMonths, &item.StartDate, &end, &item.Active); err != nil {
			return nil, fmt.Errorf("scan recurring item: %w", err)
		}
		item.EndDate = ymFromNull(end)
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *SQLiteRepository) UpdateRecurringItem(ctx context.Context, item core.RecurringItem) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE recurring_items
		SET name = ?, type = ?, amount = ?, category = ?, frequency = ?, every_n_months = ?, start_date = ?, end_date = ?, active = ?
		WHERE id = ?`,
		item.Name, string(item.Type), item.Amount, item.Category, string(item.Frequency),
		item.EveryNMonths, string(item.StartDate), nullYM(item.EndDate), item.Active, item.ID)
	if err != nil {
		return fmt.Errorf("update recurring item %d: %w", item.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteRecurringItem(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM recurring_items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete recurring item %d: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) CreatePlannedItem(ctx context.Context, item core.PlannedItem) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO planned_items (account_id, name, type, amount, category, kind, scheduled_date, overrides_item_id, skip, first_occurrence, frequency, every_n_months, end_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.AccountID, item.Name, string(item.Type), item.Amount, item.Category, string(item.Kind),
		nullYM(item.ScheduledDate), nullID(item.OverridesItemID), item.Skip,
		nullYM(item.FirstOccurrence), string(item.Frequency), item.EveryNMonths, nullYM(item.EndDate))
	if err != nil {
		return 0, fmt.Errorf("create planned item: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) ListPlannedItems(ctx context.Context, accountID int64) ([]core.PlannedItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, account_id, name, type, amount, category, kind, scheduled_date, overrides_item_id, skip, first_occurrence, frequency, every_n_months, end_date
		FROM planned_items WHERE account_id = ? ORDER BY id`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list planned items: %w", err)
	}
	defer rows.Close()

	var items []core.PlannedItem
	for rows.Next() {
		var item core.PlannedItem
		var scheduled, first, end sql.NullString
		var overrides sql.NullInt64
		var freq sql.NullString
		if err := rows.Scan(&item.ID, &item.AccountID, &item.Name, &item.Type, &item.Amount,
			&item.Category, &item.Kind, &scheduled, &overrides, &item.Skip,
			&first, &freq, &item.EveryNMonths, &end); err != nil {
			return nil, fmt.Errorf("scan planned item: %w", err)
		}
		item.ScheduledDate = ymFromNull(scheduled)
		item.OverridesItemID = overrides.Int64
		item.FirstOccurrence = ymFromNull(first)
		item.Frequency = core.Frequency(freq.String)
		item.EndDate = ymFromNull(end)
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *SQLiteRepository) DeletePlannedItem(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM planned_items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete planned item %d: %w", id, err)
	}
	return nil
}
