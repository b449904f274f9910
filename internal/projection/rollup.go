package projection

import (
	"piano/internal/calendar"
	"piano/internal/core"
)

// WealthProjectionYear is a yearly fold of the monthly wealth series:
// opening net worth from the year's first row, closing totals from its last.
type WealthProjectionYear struct {
	Year             int            `json:"year"`
	FirstMonth       core.YearMonth `json:"firstMonth"`
	LastMonth        core.YearMonth `json:"lastMonth"`
	StartNetWorth    float64        `json:"startNetWorth"`
	CashTotal        float64        `json:"cashTotal"`
	InvestmentsTotal float64        `json:"investmentsTotal"`
	ReceivablesTotal float64        `json:"receivablesTotal"`
	DebtsTotal       float64        `json:"debtsTotal"`
	NetWorth         float64        `json:"netWorth"`
}

// RollupByYear groups monthly wealth rows by calendar year. Input order is
// preserved; rows are expected to be chronological, as the aggregator emits
// them.
func RollupByYear(months []WealthProjectionMonth) []WealthProjectionYear {
	var out []WealthProjectionYear
	for _, m := range months {
		year, _, err := calendar.Parse(m.Month)
		if err != nil {
			continue
		}
		if len(out) == 0 || out[len(out)-1].Year != year {
			out = append(out, WealthProjectionYear{
				Year:          year,
				FirstMonth:    m.Month,
				StartNetWorth: m.NetWorth,
			})
		}
		last := &out[len(out)-1]
		last.LastMonth = m.Month
		last.CashTotal = m.CashTotal
		last.InvestmentsTotal = m.InvestmentsTotal
		last.ReceivablesTotal = m.ReceivablesTotal
		last.DebtsTotal = m.DebtsTotal
		last.NetWorth = m.NetWorth
	}
	return out
}
