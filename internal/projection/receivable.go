package projection

import (
	"piano/internal/calendar"
	"piano/internal/core"
)

// ReceivableProjectionMonth is one month of a receivable's balance decay.
type ReceivableProjectionMonth struct {
	ReceivableID  int64          `json:"receivableId"`
	Month         core.YearMonth `json:"month"`
	Interest      float64        `json:"interest"`
	Repayment     float64        `json:"repayment"`
	EndingBalance float64        `json:"endingBalance"`
}

// ProjectReceivable produces the monthly balance series for one receivable.
// The walk starts at the receivable's own start date so the balance entering
// the query range reflects earlier recorded repayments; only months inside
// [start, end] are emitted. A recorded repayment always wins for its month;
// the expected monthly repayment is used as a forecast only for months at or
// after the query start. The balance is clamped at zero and the series stops
// for good once it gets there.
func ProjectReceivable(receivable core.Receivable, repayments []core.ReceivableRepayment, start, end core.YearMonth) []ReceivableProjectionMonth {
	if calendar.Compare(start, end) > 0 {
		return nil
	}

	monthlyRate := 0.0
	if receivable.HasInterest {
		monthlyRate = receivable.AnnualInterestRate / 100 / 12
	}

	recorded := make(map[core.YearMonth]float64, len(repayments))
	for _, r := range repayments {
		recorded[r.Month] += r.Amount
	}

	balance := receivable.InitialPrincipal
	var rows []ReceivableProjectionMonth
	for month := receivable.StartDate; calendar.Compare(month, end) <= 0; month = calendar.AddMonths(month, 1) {
		interest := balance * monthlyRate
		repayment, ok := recorded[month]
		if !ok && calendar.Compare(month, start) >= 0 {
			repayment = receivable.ExpectedMonthlyRepayment
		}
		balance = balance + interest - repayment
		if balance < 0 {
			balance = 0
		}
		if calendar.Compare(month, start) >= 0 {
			rows = append(rows, ReceivableProjectionMonth{
				ReceivableID:  receivable.ID,
				Month:         month,
				Interest:      interest,
				Repayment:     repayment,
				EndingBalance: balance,
			})
		}
		if balance == 0 {
			break
		}
	}
	return rows
}
