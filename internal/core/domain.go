// Package core holds the financial-entity records shared by storage, the
// projection engine and the HTTP layer. Records are plain values: mutation
// lives in the storage layer, computation treats them as immutable.
package core

import (
	"errors"
	"strings"
)

// YearMonth is a calendar month in "YYYY-MM" form. Months are zero-padded,
// so lexicographic order equals chronological order.
type YearMonth string

type (
	ItemType         string
	Frequency        string
	PlannedKind      string
	ContributionType string
	DebtType         string
	InterestModel    string
)

const (
	ItemIncome  ItemType = "income"
	ItemExpense ItemType = "expense"

	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
	FrequencyCustom    Frequency = "custom"

	PlannedOneOff    PlannedKind = "one-off"
	PlannedRepeating PlannedKind = "repeating"

	Contribution ContributionType = "contribution"
	Withdrawal   ContributionType = "withdrawal"

	DebtAmortized        DebtType = "amortized"
	DebtFixedInstallment DebtType = "fixed-installment"

	InterestNone     InterestModel = "none"
	InterestFixed    InterestModel = "fixed"
	InterestVariable InterestModel = "variable"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyCurrency    = errors.New("empty currency")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid year-month")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrInvalidType      = errors.New("invalid type")
)

// CashAccount is a liquid account projected by the cashflow projector.
// The projection window runs from StartingDate for HorizonMonths, unless
// CustomEndDate pins an explicit last month.
type CashAccount struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Currency        string    `json:"currency"`
	StartingBalance float64   `json:"startingBalance"`
	StartingDate    YearMonth `json:"startingDate"`
	HorizonMonths   int       `json:"horizonMonths"`
	CustomEndDate   YearMonth `json:"customEndDate,omitempty"` // optional, overrides HorizonMonths
}

// RecurringItem is a periodic income or expense attached to a cash account.
type RecurringItem struct {
	ID           int64     `json:"id"`
	AccountID    int64     `json:"accountId"`
	Name         string    `json:"name"`
	Type         ItemType  `json:"type"`
	Amount       float64   `json:"amount"`
	Category     string    `json:"category,omitempty"`
	Frequency    Frequency `json:"frequency"`
	EveryNMonths int       `json:"everyNMonths,omitempty"` // used when Frequency is custom
	StartDate    YearMonth `json:"startDate"`
	EndDate      YearMonth `json:"endDate,omitempty"` // optional
	Active       bool      `json:"active"`
}

// PlannedItem is a one-off or repeating cash item. A one-off item that sets
// OverridesItemID is an occurrence override: for its ScheduledDate month it
// replaces (or, with Skip, suppresses) the linked recurring item's occurrence
// without touching the recurring definition.
type PlannedItem struct {
	ID        int64       `json:"id"`
	AccountID int64       `json:"accountId"`
	Name      string      `json:"name"`
	Type      ItemType    `json:"type"`
	Amount    float64     `json:"amount"`
	Category  string      `json:"category,omitempty"`
	Kind      PlannedKind `json:"kind"`

	// One-off fields.
	ScheduledDate   YearMonth `json:"scheduledDate,omitempty"`
	OverridesItemID int64     `json:"overridesItemId,omitempty"` // 0 when not an override
	Skip            bool      `json:"skip,omitempty"`

	// Repeating fields.
	FirstOccurrence YearMonth `json:"firstOccurrence,omitempty"`
	Frequency       Frequency `json:"frequency,omitempty"`
	EveryNMonths    int       `json:"everyNMonths,omitempty"`
	EndDate         YearMonth `json:"endDate,omitempty"` // optional
}

// IsOverride reports whether the item is an occurrence override for a
// recurring item.
func (p PlannedItem) IsOverride() bool {
	return p.Kind == PlannedOneOff && p.OverridesItemID != 0
}

// InvestmentAccount compounds monthly from its valuation anchor.
type InvestmentAccount struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Currency          string    `json:"currency"`
	StartingValuation float64   `json:"startingValuation"`
	ValuationDate     YearMonth `json:"valuationDate"`
	AnnualGrowthRate  float64   `json:"annualGrowthRate"` // percent, e.g. 12 for 12%/yr
}

// InvestmentContribution is a one-off or recurring cash movement into or out
// of an investment account.
type InvestmentContribution struct {
	ID        int64            `json:"id"`
	AccountID int64            `json:"accountId"`
	Name      string           `json:"name"`
	Type      ContributionType `json:"type"`
	Amount    float64          `json:"amount"`
	Kind      PlannedKind      `json:"kind"`

	ScheduledDate YearMonth `json:"scheduledDate,omitempty"` // one-off

	StartDate    YearMonth `json:"startDate,omitempty"` // recurring
	EndDate      YearMonth `json:"endDate,omitempty"`   // optional
	Frequency    Frequency `json:"frequency,omitempty"`
	EveryNMonths int       `json:"everyNMonths,omitempty"`
	Active       bool      `json:"active"`
}

// Receivable is money owed to the user, decaying through repayments.
// ExpectedMonthlyRepayment is a forecast used only for months without a
// recorded repayment.
type Receivable struct {
	ID                       int64     `json:"id"`
	Name                     string    `json:"name"`
	Currency                 string    `json:"currency"`
	InitialPrincipal         float64   `json:"initialPrincipal"`
	CurrentBalance           float64   `json:"currentBalance"`
	StartDate                YearMonth `json:"startDate"`
	HasInterest              bool      `json:"hasInterest"`
	AnnualInterestRate       float64   `json:"annualInterestRate,omitempty"` // percent
	ExpectedMonthlyRepayment float64   `json:"expectedMonthlyRepayment"`
}

// ReceivableRepayment is an actual recorded repayment for one month.
type ReceivableRepayment struct {
	ID           int64     `json:"id"`
	ReceivableID int64     `json:"receivableId"`
	Month        YearMonth `json:"month"`
	Amount       float64   `json:"amount"`
}

// Debt is an outstanding liability. Amortized debts pay MonthlyPayment with
// interest per InterestModel; fixed-installment debts pay InstallmentAmount
// for TotalInstallments periods with no interest.
type Debt struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Currency         string    `json:"currency"`
	Type             DebtType  `json:"type"`
	InitialPrincipal float64   `json:"initialPrincipal"`
	StartDate        YearMonth `json:"startDate"`

	// Amortized fields.
	InterestModel       InterestModel `json:"interestModel,omitempty"`
	FixedInterestRate   float64       `json:"fixedInterestRate,omitempty"`   // percent, model=fixed
	ReferenceRateMargin float64       `json:"referenceRateMargin,omitempty"` // percent, model=variable
	MonthlyPayment      float64       `json:"monthlyPayment,omitempty"`

	// Fixed-installment fields.
	InstallmentAmount float64 `json:"installmentAmount,omitempty"`
	TotalInstallments int     `json:"totalInstallments,omitempty"`
}

// DebtReferenceRate is one entry of the externally supplied rate table for
// variable-rate debts.
type DebtReferenceRate struct {
	ID     int64     `json:"id"`
	DebtID int64     `json:"debtId"`
	Month  YearMonth `json:"month"`
	Rate   float64   `json:"rate"` // percent annual, before margin
}

// DebtExtraPayment is an ad-hoc principal payment recorded for one month.
type DebtExtraPayment struct {
	ID     int64     `json:"id"`
	DebtID int64     `json:"debtId"`
	Month  YearMonth `json:"month"`
	Amount float64   `json:"amount"`
}

func validYearMonth(ym YearMonth) bool {
	s := string(ym)
	if len(s) != 7 || s[4] != '-' {
		return false
	}
	for i, c := range s {
		if i == 4 {
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return s[5:] >= "01" && s[5:] <= "12"
}

// Valid reports whether the YearMonth is well-formed.
func (ym YearMonth) Valid() bool {
	return validYearMonth(ym)
}

func (a CashAccount) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(a.Currency) == "" {
		return ErrEmptyCurrency
	}
	if !validYearMonth(a.StartingDate) {
		return ErrInvalidDate
	}
	if a.CustomEndDate != "" && !validYearMonth(a.CustomEndDate) {
		return ErrInvalidDate
	}
	if a.CustomEndDate == "" && a.HorizonMonths < 1 {
		return errors.New("horizon must be at least one month")
	}
	return nil
}

func (i RecurringItem) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyName
	}
	if i.Type != ItemIncome && i.Type != ItemExpense {
		return ErrInvalidType
	}
	if i.Amount <= 0 {
		return ErrInvalidAmount
	}
	switch i.Frequency {
	case FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
	case FrequencyCustom:
		if i.EveryNMonths < 1 {
			return ErrInvalidFrequency
		}
	default:
		return ErrInvalidFrequency
	}
	if !validYearMonth(i.StartDate) {
		return ErrInvalidDate
	}
	if i.EndDate != "" && !validYearMonth(i.EndDate) {
		return ErrInvalidDate
	}
	return nil
}

func (p PlannedItem) Validate() error {
	if p.Type != ItemIncome && p.Type != ItemExpense {
		return ErrInvalidType
	}
	switch p.Kind {
	case PlannedOneOff:
		if !validYearMonth(p.ScheduledDate) {
			return ErrInvalidDate
		}
		// A skip override suppresses an occurrence and carries no
		// payload of its own.
		if p.IsOverride() && p.Skip {
			return nil
		}
	case PlannedRepeating:
		if !validYearMonth(p.FirstOccurrence) {
			return ErrInvalidDate
		}
		if p.EndDate != "" && !validYearMonth(p.EndDate) {
			return ErrInvalidDate
		}
		switch p.Frequency {
		case FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		case FrequencyCustom:
			if p.EveryNMonths < 1 {
				return ErrInvalidFrequency
			}
		default:
			return ErrInvalidFrequency
		}
	default:
		return errors.New("invalid planned item kind")
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.Amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (a InvestmentAccount) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(a.Currency) == "" {
		return ErrEmptyCurrency
	}
	if !validYearMonth(a.ValuationDate) {
		return ErrInvalidDate
	}
	return nil
}

func (c InvestmentContribution) Validate() error {
	if c.Type != Contribution && c.Type != Withdrawal {
		return ErrInvalidType
	}
	if c.Amount <= 0 {
		return ErrInvalidAmount
	}
	switch c.Kind {
	case PlannedOneOff:
		if !validYearMonth(c.ScheduledDate) {
			return ErrInvalidDate
		}
	case PlannedRepeating:
		if !validYearMonth(c.StartDate) {
			return ErrInvalidDate
		}
		if c.EndDate != "" && !validYearMonth(c.EndDate) {
			return ErrInvalidDate
		}
	default:
		return errors.New("invalid contribution kind")
	}
	return nil
}

func (r Receivable) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyName
	}
	if r.InitialPrincipal <= 0 {
		return ErrInvalidAmount
	}
	if !validYearMonth(r.StartDate) {
		return ErrInvalidDate
	}
	if r.HasInterest && r.AnnualInterestRate < 0 {
		return errors.New("negative interest rate")
	}
	return nil
}

func (d Debt) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	if d.InitialPrincipal <= 0 {
		return ErrInvalidAmount
	}
	if !validYearMonth(d.StartDate) {
		return ErrInvalidDate
	}
	switch d.Type {
	case DebtAmortized:
		switch d.InterestModel {
		case InterestNone, InterestFixed, InterestVariable:
		default:
			return errors.New("invalid interest model")
		}
		if d.MonthlyPayment <= 0 {
			return errors.New("monthly payment must be positive")
		}
	case DebtFixedInstallment:
		if d.InstallmentAmount <= 0 {
			return errors.New("installment amount must be positive")
		}
		if d.TotalInstallments < 1 {
			return errors.New("installment count must be at least one")
		}
	default:
		return errors.New("invalid debt type")
	}
	return nil
}
