package services

import (
	"context"
	"fmt"
	"log/slog"

	"piano/internal/amqp"
	"piano/internal/core"
	"piano/internal/storage"
)

// EntityService orchestrates entity writes across SQLite and AMQP.
type EntityService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewEntityService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *EntityService {
	return &EntityService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// publishChange publishes an entity-change message. Publishing failures are
// logged and swallowed: the SQLite write already succeeded and the request
// must not fail because the broker is down.
func (s *EntityService) publishChange(ctx context.Context, kind amqp.EntityKind, id int64, action amqp.ChangeAction) {
	if s.amqpClient == nil {
		return
	}
	if err := s.amqpClient.PublishEntityChange(ctx, kind, id, action); err != nil {
		slog.ErrorContext(ctx, "Failed to publish entity change",
			"kind", kind, "id", id, "action", action, "error", err)
	}
}

func (s *EntityService) CreateCashAccount(ctx context.Context, a core.CashAccount) (int64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	id, err := s.storage.CreateCashAccount(ctx, a)
	if err != nil {
		return 0, fmt.Errorf("create cash account: %w", err)
	}
	s.publishChange(ctx, amqp.KindCashAccount, id, amqp.ActionCreated)
	return id, nil
}

func (s *EntityService) GetCashAccount(ctx context.Context, id int64) (core.CashAccount, error) {
	return s.storage.GetCashAccount(ctx, id)
}

func (s *EntityService) ListCashAccounts(ctx context.Context) ([]core.CashAccount, error) {
	return s.storage.ListCashAccounts(ctx)
}

func (s *EntityService) UpdateCashAccount(ctx context.Context, a core.CashAccount) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if err := s.storage.UpdateCashAccount(ctx, a); err != nil {
		return fmt.Errorf("update cash account: %w", err)
	}
	s.publishChange(ctx, amqp.KindCashAccount, a.ID, amqp.ActionUpdated)
	return nil
}

func (s *EntityService) DeleteCashAccount(ctx context.Context, id int64) error {
	if err := s.storage.DeleteCashAccount(ctx, id); err != nil {
		return fmt.Errorf("delete cash account: %w", err)
	}
	s.publishChange(ctx, amqp.KindCashAccount, id, amqp.ActionDeleted)
	return nil
}

func (s *EntityService) CreateRecurringItem(ctx context.Context, item core.RecurringItem) (int64, error) {
	if err := item.Validate(); err != nil {
		return 0, err
	}
	id, err := s.storage.CreateRecurringItem(ctx, item)
	if err != nil {
		return 0, fmt.Errorf("create recurring item: %w", err)
	}
	s.publishChange(ctx, amqp.KindRecurringItem, id, amqp.ActionCreated)
	return id, nil
}

func (s *EntityService) ListRecurringItems(ctx context.Context, accountID int64) ([]core.RecurringItem, error) {
	return s.storage.ListRecurringItems(ctx, accountID)
}

func (s *EntityService) UpdateRecurringItem(ctx context.Context, item core.RecurringItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	if err := s.storage.UpdateRecurringItem(ctx, item); err != nil {
		return fmt.Errorf("update recurring item: %w", err)
	}
	s.publishChange(ctx, amqp.KindRecurringItem, item.ID, amqp.ActionUpdated)
	return nil
}

func (s *EntityService) DeleteRecurringItem(ctx context.Context, id int64) error {
	if err := s.storage.DeleteRecurringItem(ctx, id); err != nil {
		return fmt.Errorf("delete recurring item: %w", err)
	}
	s.publishChange(ctx, amqp.KindRecurringItem, id, amqp.ActionDeleted)
	return nil
}

func (s *EntityService) CreatePlannedItem(ctx context.Context, item core.PlannedItem) (int64, error) {
	if err := item.Validate(); err != nil {
		return 0, err
	}
	id, err := s.storage.CreatePlannedItem(ctx, item)
	if err != nil {
		return 0, fmt.Errorf("create planned item: %w", err)
	}
	s.publishChange(ctx, amqp.KindPlannedItem, id, amqp.ActionCreated)
	return id, nil
}

func (s *EntityService) ListPlannedItems(ctx context.Context, accountID int64) ([]core.PlannedItem, error) {
	return s.storage.ListPlannedItems(ctx, accountID)
}

func (s *EntityService) DeletePlannedItem(ctx context.Context, id int64) error {
	if err := s.storage.DeletePlannedItem(ctx, id); err != nil {
		return fmt.Errorf("delete planned item: %w", err)
	}
	s.publishChange(ctx, amqp.KindPlannedItem, id, amqp.ActionDeleted)
	return nil
}

func (s *EntityService) CreateInvestmentAccount(ctx context.Context, a core.InvestmentAccount) (int64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	id, err := s.storage.CreateInvestmentAccount(ctx, a)
	if err != nil {
		return 0, fmt.Errorf("create investment account: %w", err)
	}
	s.publishChange(ctx, amqp.KindInvestmentAccount, id, amqp.ActionCreated)
	return id, nil
}

func (s *EntityService) GetInvestmentAccount(ctx context.Context, id int64) (core.InvestmentAccount, error) {
	return s.storage.GetInvestmentAccount(ctx, id)
}

func (s *EntityService) ListInvestmentAccounts(ctx context.Context) ([]core.InvestmentAccount, error) {
	return s.storage.ListInvestmentAccounts(ctx)
}

func (s *EntityService) DeleteInvestmentAccount(ctx context.Context, id int64) error {
	if err := s.storage.DeleteInvestmentAccount(ctx, id); err != nil {
		return fmt.Errorf("delete investment account: %w", err)
	}
	s.publishChange(ctx, amqp.KindInvestmentAccount, id, amqp.ActionDeleted)
	return nil
}

func (s *EntityService) CreateContribution(ctx context.Context, c core.InvestmentContribution) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	id, err := s.storage.CreateContribution(ctx, c)
	if err != nil {
		return 0, fmt.Errorf("create contribution: %w", err)
	}
	s.publishChange(ctx, amqp.KindContribution, id, amqp.ActionCreated)
	return id, nil
}

func (s *EntityService) ListContributions(ctx context.Context, accountID int64) ([]core.InvestmentContribution, error) {
	return s.storage.ListContributions(ctx, accountID)
}

func (s *EntityService) DeleteContribution(ctx context.Context, id int64) error {
	if err := s.storage.DeleteContribution(ctx, id); err != nil {
		return fmt.Errorf("delete contribution: %w", err)
	}
	s.publishChange(ctx, amqp.KindContribution, id, amqp.ActionDeleted)
	return nil
}

func (s *EntityService) CreateReceivable(ctx context.Context, rec core.Receivable) (int64, error) {
	if err := rec.Validate(); err != nil {
		return 0, err
	}
	id, err := s.storage.CreateReceivable(ctx, rec)
	if err != nil {
		return 0, fmt.Errorf("create receivable: %w", err)
	}
	s.publishChange(ctx, amqp.KindReceivable, id, amqp.ActionCreated)
	return id, nil
}

func (s *EntityService) GetReceivable(ctx context.Context, id int64) (core.Receivable, error) {
	return s.storage.GetReceivable(ctx, id)
}

func (s *EntityService) ListReceivables(ctx context.Context) ([]core.Receivable, error) {
	return s.storage.ListReceivables(ctx)
}

func (s *EntityService) DeleteReceivable(ctx context.Context, id int64) error {
	if err := s.storage.DeleteReceivable(ctx, id); err != nil {
		return fmt.Errorf("delete receivable: %w", err)
	}
	s.publishChange(ctx, amqp.KindReceivable, id, amqp.ActionDeleted)
	return nil
}

func (s *EntityService) CreateRepayment(ctx context.Context, rep core.ReceivableRepayment) (int64, error) {
	if !rep.Month.Valid() {
		return 0, core.ErrInvalidDate
	}
	if rep.Amount <= 0 {
		return 0, core.ErrInvalidAmount
	}
	id, err := s.storage.CreateRepayment(ctx, rep)
	if err != nil {
		return 0, fmt.Errorf("create repayment: %w", err)
	}
	s.publishChange(ctx, amqp.KindRepayment, id, amqp.ActionCreated)
	return id, nil
}

func (s *EntityService) ListRepayments(ctx context.Context, receivableID int64) ([]core.ReceivableRepayment, error) {
	return s.storage.ListRepayments(ctx, receivableID)
}

func (s *EntityService) CreateDebt(ctx context.Context, d core.Debt) (int64, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}
	id, err := s.storage.CreateDebt(ctx, d)
	if err != nil {
		return 0, fmt.Errorf("create debt: %w", err)
	}
	s.publishChange(ctx, amqp.KindDebt, id, amqp.ActionCreated)
	return id, nil
}

func (s *EntityService) GetDebt(ctx context.Context, id int64) (core.Debt, error) {
	return s.storage.GetDebt(ctx, id)
}

func (s *EntityService) ListDebts(ctx context.Context) ([]core.Debt, error) {
	return s.storage.ListDebts(ctx)
}

func (s *EntityService) DeleteDebt(ctx context.Context, id int64) error {
	if err := s.storage.DeleteDebt(ctx, id); err != nil {
		return fmt.Errorf("delete debt: %w", err)
	}
	s.publishChange(ctx, amqp.KindDebt, id, amqp.ActionDeleted)
	return nil
}

func (s *EntityService) CreateReferenceRate(ctx context.Context, rate core.DebtReferenceRate) (int64, error) {
	if !rate.Month.Valid() {
		return 0, core.ErrInvalidDate
	}
	id, err := s.storage.CreateReferenceRate(ctx, rate)
	if err != nil {
		return 0, fmt.Errorf("create reference rate: %w", err)
	}
	s.publishChange(ctx, amqp.KindReferenceRate, id, amqp.ActionCreated)
	return id, nil
}

func (s *EntityService) ListReferenceRates(ctx context.Context, debtID int64) ([]core.DebtReferenceRate, error) {
	return s.storage.ListReferenceRates(ctx, debtID)
}

func (s *EntityService) CreateExtraPayment(ctx context.Context, extra core.DebtExtraPayment) (int64, error) {
	if !extra.Month.Valid() {
		return 0, core.ErrInvalidDate
	}
	if extra.Amount <= 0 {
		return 0, core.ErrInvalidAmount
	}
	id, err := s.storage.CreateExtraPayment(ctx, extra)
	if err != nil {
		return 0, fmt.Errorf("create extra payment: %w", err)
	}
	s.publishChange(ctx, amqp.KindExtraPayment, id, amqp.ActionCreated)
	return id, nil
}

func (s *EntityService) ListExtraPayments(ctx context.Context, debtID int64) ([]core.DebtExtraPayment, error) {
	return s.storage.ListExtraPayments(ctx, debtID)
}

// Close closes both storage and AMQP connections.
func (s *EntityService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close entity service: %v", errs)
	}

	return nil
}
