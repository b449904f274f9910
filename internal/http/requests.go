package http

import "piano/internal/core"

// Request bodies mirror the core records with camelCase JSON names. IDs and
// owner references come from the URL, never from the body.

type cashAccountRequest struct {
	Name            string  `json:"name"`
	Currency        string  `json:"currency"`
	StartingBalance float64 `json:"startingBalance"`
	StartingDate    string  `json:"startingDate"`
	HorizonMonths   int     `json:"horizonMonths"`
	CustomEndDate   string  `json:"customEndDate"`
}

func (req cashAccountRequest) toCore(id int64) core.CashAccount {
	return core.CashAccount{
		ID:              id,
		Name:            req.Name,
		Currency:        req.Currency,
		StartingBalance: req.StartingBalance,
		StartingDate:    core.YearMonth(req.StartingDate),
		HorizonMonths:   req.HorizonMonths,
		CustomEndDate:   core.YearMonth(req.CustomEndDate),
	}
}

type recurringItemRequest struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Amount       float64 `json:"amount"`
	Category     string  `json:"category"`
	Frequency    string  `json:"frequency"`
	EveryNMonths int     `json:"everyNMonths"`
	StartDate    string  `json:"startDate"`
	EndDate      string  `json:"endDate"`
	Active       bool    `json:"active"`
}

func (req recurringItemRequest) toCore(id, accountID int64) core.RecurringItem {
	return core.RecurringItem{
		ID:           id,
		AccountID:    accountID,
		Name:         req.Name,
		Type:         core.ItemType(req.Type),
		Amount:       req.Amount,
		Category:     req.Category,
		Frequency:    core.Frequency(req.Frequency),
		EveryNMonths: req.EveryNMonths,
		StartDate:    core.YearMonth(req.StartDate),
		EndDate:      core.YearMonth(req.EndDate),
		Active:       req.Active,
	}
}

type plannedItemRequest struct {
	Name            string  `json:"name"`
	Type            string  `json:"type"`
	Amount          float64 `json:"amount"`
	Category        string  `json:"category"`
	Kind            string  `json:"kind"`
	ScheduledDate   string  `json:"scheduledDate"`
	OverridesItemID int64   `json:"overridesItemId"`
	Skip            bool    `json:"skip"`
	FirstOccurrence string  `json:"firstOccurrence"`
	Frequency       string  `json:"frequency"`
	EveryNMonths    int     `json:"everyNMonths"`
	EndDate         string  `json:"endDate"`
}

func (req plannedItemRequest) toCore(accountID int64) core.PlannedItem {
	return core.PlannedItem{
		AccountID:       accountID,
		Name:            req.Name,
		Type:            core.ItemType(req.Type),
		Amount:          req.Amount,
		Category:        req.Category,
		Kind:            core.PlannedKind(req.Kind),
		ScheduledDate:   core.YearMonth(req.ScheduledDate),
		OverridesItemID: req.OverridesItemID,
		Skip:            req.Skip,
		FirstOccurrence: core.YearMonth(req.FirstOccurrence),
		Frequency:       core.Frequency(req.Frequency),
		EveryNMonths:    req.EveryNMonths,
		EndDate:         core.YearMonth(req.EndDate),
	}
}

type investmentAccountRequest struct {
	Name              string  `json:"name"`
	Currency          string  `json:"currency"`
	StartingValuation float64 `json:"startingValuation"`
	ValuationDate     string  `json:"valuationDate"`
	AnnualGrowthRate  float64 `json:"annualGrowthRate"`
}

func (req investmentAccountRequest) toCore() core.InvestmentAccount {
	return core.InvestmentAccount{
		Name:              req.Name,
		Currency:          req.Currency,
		StartingValuation: req.StartingValuation,
		ValuationDate:     core.YearMonth(req.ValuationDate),
		AnnualGrowthRate:  req.AnnualGrowthRate,
	}
}

type contributionRequest struct {
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	Amount        float64 `json:"amount"`
	Kind          string  `json:"kind"`
	ScheduledDate string  `json:"scheduledDate"`
	StartDate     string  `json:"startDate"`
	EndDate       string  `json:"endDate"`
	Frequency     string  `json:"frequency"`
	EveryNMonths  int     `json:"everyNMonths"`
	Active        bool    `json:"active"`
}

func (req contributionRequest) toCore(accountID int64) core.InvestmentContribution {
	return core.InvestmentContribution{
		AccountID:     accountID,
		Name:          req.Name,
		Type:          core.ContributionType(req.Type),
		Amount:        req.Amount,
		Kind:          core.PlannedKind(req.Kind),
		ScheduledDate: core.YearMonth(req.ScheduledDate),
		StartDate:     core.YearMonth(req.StartDate),
		EndDate:       core.YearMonth(req.EndDate),
		Frequency:     core.Frequency(req.Frequency),
		EveryNMonths:  req.EveryNMonths,
		Active:        req.Active,
	}
}

type receivableRequest struct {
	Name                     string  `json:"name"`
	Currency                 string  `json:"currency"`
	InitialPrincipal         float64 `json:"initialPrincipal"`
	CurrentBalance           float64 `json:"currentBalance"`
	StartDate                string  `json:"startDate"`
	HasInterest              bool    `json:"hasInterest"`
	AnnualInterestRate       float64 `json:"annualInterestRate"`
	ExpectedMonthlyRepayment float64 `json:"expectedMonthlyRepayment"`
}

func (req receivableRequest) toCore() core.Receivable {
	return core.Receivable{
		Name:                     req.Name,
		Currency:                 req.Currency,
		InitialPrincipal:         req.InitialPrincipal,
		CurrentBalance:           req.CurrentBalance,
		StartDate:                core.YearMonth(req.StartDate),
		HasInterest:              req.HasInterest,
		AnnualInterestRate:       req.AnnualInterestRate,
		ExpectedMonthlyRepayment: req.ExpectedMonthlyRepayment,
	}
}

type monthAmountRequest struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

type referenceRateRequest struct {
	Month string  `json:"month"`
	Rate  float64 `json:"rate"`
}

type debtRequest struct {
	Name                string  `json:"name"`
	Currency            string  `json:"currency"`
	Type                string  `json:"type"`
	InitialPrincipal    float64 `json:"initialPrincipal"`
	StartDate           string  `json:"startDate"`
	InterestModel       string  `json:"interestModel"`
	FixedInterestRate   float64 `json:"fixedInterestRate"`
	ReferenceRateMargin float64 `json:"referenceRateMargin"`
	MonthlyPayment      float64 `json:"monthlyPayment"`
	InstallmentAmount   float64 `json:"installmentAmount"`
	TotalInstallments   int     `json:"totalInstallments"`
}

func (req debtRequest) toCore() core.Debt {
	return core.Debt{
		Name:                req.Name,
		Currency:            req.Currency,
		Type:                core.DebtType(req.Type),
		InitialPrincipal:    req.InitialPrincipal,
		StartDate:           core.YearMonth(req.StartDate),
		InterestModel:       core.InterestModel(req.InterestModel),
		FixedInterestRate:   req.FixedInterestRate,
		ReferenceRateMargin: req.ReferenceRateMargin,
		MonthlyPayment:      req.MonthlyPayment,
		InstallmentAmount:   req.InstallmentAmount,
		TotalInstallments:   req.TotalInstallments,
	}
}

type createdResponse struct {
	ID int64 `json:"id"`
}
