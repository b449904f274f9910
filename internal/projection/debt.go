package projection

import (
	"piano/internal/calendar"
	"piano/internal/core"
)

// DebtProjectionMonth is one month of a debt's amortization schedule.
type DebtProjectionMonth struct {
	DebtID              int64          `json:"debtId"`
	Month               core.YearMonth `json:"month"`
	EffectiveAnnualRate float64        `json:"effectiveAnnualRate"`
	Interest            float64        `json:"interest"`
	PrincipalPaid       float64        `json:"principalPaid"`
	TotalPayment        float64        `json:"totalPayment"`
	EndingPrincipal     float64        `json:"endingPrincipal"`
}

// effectiveAnnualRate resolves the annual interest percentage for one month.
// For variable-rate debts the latest reference-rate entry at or before the
// month applies, plus the debt's margin; with no entry yet the margin alone
// is not charged and the rate is zero.
func effectiveAnnualRate(debt core.Debt, rates []core.DebtReferenceRate, month core.YearMonth) float64 {
	switch debt.InterestModel {
	case core.InterestFixed:
		return debt.FixedInterestRate
	case core.InterestVariable:
		var best core.YearMonth
		var rate float64
		found := false
		for _, r := range rates {
			if calendar.Compare(r.Month, month) > 0 {
				continue
			}
			if !found || calendar.Compare(r.Month, best) > 0 {
				best = r.Month
				rate = r.Rate
				found = true
			}
		}
		if !found {
			return 0
		}
		return rate + debt.ReferenceRateMargin
	default:
		return 0
	}
}

// ProjectDebt produces the monthly principal/interest series for one debt.
// The walk starts at the debt's own start date; only months inside
// [start, end] are emitted. The principal is clamped at zero and no rows are
// emitted after it gets there.
func ProjectDebt(debt core.Debt, rates []core.DebtReferenceRate, extras []core.DebtExtraPayment, start, end core.YearMonth) []DebtProjectionMonth {
	if calendar.Compare(start, end) > 0 {
		return nil
	}

	extraByMonth := make(map[core.YearMonth]float64, len(extras))
	for _, e := range extras {
		extraByMonth[e.Month] += e.Amount
	}

	principal := debt.InitialPrincipal
	installmentsLeft := debt.TotalInstallments

	var rows []DebtProjectionMonth
	for month := debt.StartDate; principal > 0 && calendar.Compare(month, end) <= 0; month = calendar.AddMonths(month, 1) {
		var interest, principalPaid, totalPayment float64
		annualRate := effectiveAnnualRate(debt, rates, month)

		switch debt.Type {
		case core.DebtAmortized:
			interest = principal * annualRate / 100 / 12
			principalPaid = debt.MonthlyPayment - interest
			if principalPaid > principal {
				principalPaid = principal
			}
			totalPayment = debt.MonthlyPayment
		case core.DebtFixedInstallment:
			if installmentsLeft > 0 {
				principalPaid = debt.InstallmentAmount
				if principalPaid > principal {
					principalPaid = principal
				}
				installmentsLeft--
			}
			totalPayment = principalPaid
		}

		if extra := extraByMonth[month]; extra > 0 {
			applied := extra
			if remaining := principal - principalPaid; applied > remaining {
				applied = remaining
			}
			principalPaid += applied
			totalPayment += extra
		}

		ending := principal - principalPaid
		if ending < 0 {
			ending = 0
		}

		if calendar.Compare(month, start) >= 0 {
			rows = append(rows, DebtProjectionMonth{
				DebtID:              debt.ID,
				Month:               month,
				EffectiveAnnualRate: annualRate,
				Interest:            interest,
				PrincipalPaid:       principalPaid,
				TotalPayment:        totalPayment,
				EndingPrincipal:     ending,
			})
		}
		principal = ending
	}
	return rows
}
