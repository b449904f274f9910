package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"piano/internal/calendar"
	"piano/internal/core"
	"piano/internal/loader"
	"piano/internal/projection"
)

var ErrRangeTooLarge = errors.New("requested range too large")

// ProjectionService loads entities through the loader and runs the pure
// projection engine over them. The engine never reads the clock; the current
// month enters here, through nowFunc, and only to default missing ranges.
type ProjectionService struct {
	loader         *loader.Loader
	defaultHorizon int
	maxRangeMonths int
	nowFunc        func() time.Time
}

func NewProjectionService(l *loader.Loader, defaultHorizon, maxRangeMonths int) *ProjectionService {
	return &ProjectionService{
		loader:         l,
		defaultHorizon: defaultHorizon,
		maxRangeMonths: maxRangeMonths,
		nowFunc:        time.Now,
	}
}

func (s *ProjectionService) currentMonth() core.YearMonth {
	now := s.nowFunc()
	return calendar.Format(now.Year(), int(now.Month()))
}

// resolveRange fills missing bounds with the default window starting at the
// current month and rejects ranges wider than the configured maximum.
func (s *ProjectionService) resolveRange(start, end core.YearMonth) (core.YearMonth, core.YearMonth, error) {
	if start == "" {
		start = s.currentMonth()
	}
	if end == "" {
		end = calendar.AddMonths(start, s.defaultHorizon-1)
	}
	if !start.Valid() || !end.Valid() {
		return "", "", core.ErrInvalidDate
	}
	if months := calendar.MonthsBetween(start, end) + 1; months > s.maxRangeMonths {
		return "", "", fmt.Errorf("%w: %d months, maximum %d", ErrRangeTooLarge, months, s.maxRangeMonths)
	}
	return start, end, nil
}

// CashflowProjection projects one cash account. A nil filter projects the
// account's full window.
func (s *ProjectionService) CashflowProjection(ctx context.Context, accountID int64, filter *projection.CashflowFilter) ([]projection.MonthlyProjection, error) {
	if filter != nil {
		if filter.StartDate != "" && !filter.StartDate.Valid() {
			return nil, core.ErrInvalidDate
		}
		if filter.EndDate != "" && !filter.EndDate.Valid() {
			return nil, core.ErrInvalidDate
		}
	}
	account, recurring, planned, err := s.loader.CashAccountBundle(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return projection.ProjectCashflow(account, recurring, planned, filter), nil
}

func (s *ProjectionService) InvestmentProjection(ctx context.Context, accountID int64, start, end core.YearMonth) ([]projection.InvestmentProjectionMonth, error) {
	start, end, err := s.resolveRange(start, end)
	if err != nil {
		return nil, err
	}
	account, contributions, err := s.loader.InvestmentBundle(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return projection.ProjectInvestment(account, contributions, start, end), nil
}

func (s *ProjectionService) ReceivableProjection(ctx context.Context, receivableID int64, start, end core.YearMonth) ([]projection.ReceivableProjectionMonth, error) {
	start, end, err := s.resolveRange(start, end)
	if err != nil {
		return nil, err
	}
	receivable, repayments, err := s.loader.ReceivableBundle(ctx, receivableID)
	if err != nil {
		return nil, err
	}
	return projection.ProjectReceivable(receivable, repayments, start, end), nil
}

func (s *ProjectionService) DebtProjection(ctx context.Context, debtID int64, start, end core.YearMonth) ([]projection.DebtProjectionMonth, error) {
	start, end, err := s.resolveRange(start, end)
	if err != nil {
		return nil, err
	}
	debt, rates, extras, err := s.loader.DebtBundle(ctx, debtID)
	if err != nil {
		return nil, err
	}
	return projection.ProjectDebt(debt, rates, extras, start, end), nil
}

// WealthProjection aggregates every entity into one monthly net-worth series.
func (s *ProjectionService) WealthProjection(ctx context.Context, start, end core.YearMonth) ([]projection.WealthProjectionMonth, error) {
	start, end, err := s.resolveRange(start, end)
	if err != nil {
		return nil, err
	}
	in, err := s.loader.WealthInput(ctx)
	if err != nil {
		return nil, err
	}
	return projection.ProjectWealth(in, start, end), nil
}

// WealthYearly rolls the monthly wealth series up into calendar years.
func (s *ProjectionService) WealthYearly(ctx context.Context, start, end core.YearMonth) ([]projection.WealthProjectionYear, error) {
	months, err := s.WealthProjection(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return projection.RollupByYear(months), nil
}
