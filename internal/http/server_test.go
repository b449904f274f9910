package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"piano/internal/core"
	"piano/internal/projection"
	"piano/internal/services"
)

// fakeEntities is an in-memory EntityAPI for handler tests.
type fakeEntities struct {
	accounts map[int64]core.CashAccount
	nextID   int64
}

func newFakeEntities() *fakeEntities {
	return &fakeEntities{accounts: make(map[int64]core.CashAccount), nextID: 1}
}

func (f *fakeEntities) CreateCashAccount(_ context.Context, a core.CashAccount) (int64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	a.ID = f.nextID
	f.nextID++
	f.accounts[a.ID] = a
	return a.ID, nil
}

func (f *fakeEntities) GetCashAccount(_ context.Context, id int64) (core.CashAccount, error) {
	a, ok := f.accounts[id]
	if !ok {
		return core.CashAccount{}, core.ErrNotFound
	}
	return a, nil
}

func (f *fakeEntities) ListCashAccounts(context.Context) ([]core.CashAccount, error) {
	out := make([]core.CashAccount, 0, len(f.accounts))
	for _, a := range f.accounts {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeEntities) UpdateCashAccount(_ context.Context, a core.CashAccount) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if _, ok := f.accounts[a.ID]; !ok {
		return core.ErrNotFound
	}
	f.accounts[a.ID] = a
	return nil
}

func (f *fakeEntities) DeleteCashAccount(_ context.Context, id int64) error {
	if _, ok := f.accounts[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.accounts, id)
	return nil
}

func (f *fakeEntities) CreateRecurringItem(_ context.Context, item core.RecurringItem) (int64, error) {
	if err := item.Validate(); err != nil {
		return 0, err
	}
	return 1, nil
}

func (f *fakeEntities) ListRecurringItems(context.Context, int64) ([]core.RecurringItem, error) {
	return nil, nil
}
func (f *fakeEntities) UpdateRecurringItem(context.Context, core.RecurringItem) error { return nil }
func (f *fakeEntities) DeleteRecurringItem(context.Context, int64) error              { return nil }
func (f *fakeEntities) CreatePlannedItem(_ context.Context, item core.PlannedItem) (int64, error) {
	if err := item.Validate(); err != nil {
		return 0, err
	}
	return 1, nil
}
func (f *fakeEntities) ListPlannedItems(context.Context, int64) ([]core.PlannedItem, error) {
	return nil, nil
}
func (f *fakeEntities) DeletePlannedItem(context.Context, int64) error { return nil }
func (f *fakeEntities) CreateInvestmentAccount(context.Context, core.InvestmentAccount) (int64, error) {
	return 1, nil
}
func (f *fakeEntities) GetInvestmentAccount(context.Context, int64) (core.InvestmentAccount, error) {
	return core.InvestmentAccount{}, core.ErrNotFound
}
func (f *fakeEntities) ListInvestmentAccounts(context.Context) ([]core.InvestmentAccount, error) {
	return nil, nil
}
func (f *fakeEntities) DeleteInvestmentAccount(context.Context, int64) error { return nil }
func (f *fakeEntities) CreateContribution(context.Context, core.InvestmentContribution) (int64, error) {
	return 1, nil
}
func (f *fakeEntities) ListContributions(context.Context, int64) ([]core.InvestmentContribution, error) {
	return nil, nil
}
func (f *fakeEntities) DeleteContribution(context.Context, int64) error { return nil }
func (f *fakeEntities) CreateReceivable(context.Context, core.Receivable) (int64, error) {
	return 1, nil
}
func (f *fakeEntities) GetReceivable(context.Context, int64) (core.Receivable, error) {
	return core.Receivable{}, core.ErrNotFound
}
func (f *fakeEntities) ListReceivables(context.Context) ([]core.Receivable, error) { return nil, nil }
func (f *fakeEntities) DeleteReceivable(context.Context, int64) error              { return nil }
func (f *fakeEntities) CreateRepayment(context.Context, core.ReceivableRepayment) (int64, error) {
	return 1, nil
}
func (f *fakeEntities) ListRepayments(context.Context, int64) ([]core.ReceivableRepayment, error) {
	return nil, nil
}
func (f *fakeEntities) CreateDebt(context.Context, core.Debt) (int64, error) { return 1, nil }
func (f *fakeEntities) GetDebt(context.Context, int64) (core.Debt, error) {
	return core.Debt{}, core.ErrNotFound
}
func (f *fakeEntities) ListDebts(context.Context) ([]core.Debt, error) { return nil, nil }
func (f *fakeEntities) DeleteDebt(context.Context, int64) error        { return nil }
func (f *fakeEntities) CreateReferenceRate(context.Context, core.DebtReferenceRate) (int64, error) {
	return 1, nil
}
func (f *fakeEntities) ListReferenceRates(context.Context, int64) ([]core.DebtReferenceRate, error) {
	return nil, nil
}
func (f *fakeEntities) CreateExtraPayment(context.Context, core.DebtExtraPayment) (int64, error) {
	return 1, nil
}
func (f *fakeEntities) ListExtraPayments(context.Context, int64) ([]core.DebtExtraPayment, error) {
	return nil, nil
}

// fakeProjections records the last call and returns canned rows.
type fakeProjections struct {
	lastFilter *projection.CashflowFilter
	lastStart  core.YearMonth
	lastEnd    core.YearMonth
	rangeErr   error
}

func (f *fakeProjections) CashflowProjection(_ context.Context, accountID int64, filter *projection.CashflowFilter) ([]projection.MonthlyProjection, error) {
	if accountID != 1 {
		return nil, core.ErrNotFound
	}
	f.lastFilter = filter
	return []projection.MonthlyProjection{{AccountID: accountID, Month: "2025-01", EndingBalance: 1000}}, nil
}

func (f *fakeProjections) InvestmentProjection(_ context.Context, accountID int64, start, end core.YearMonth) ([]projection.InvestmentProjectionMonth, error) {
	if f.rangeErr != nil {
		return nil, f.rangeErr
	}
	f.lastStart, f.lastEnd = start, end
	return []projection.InvestmentProjectionMonth{{AccountID: accountID, Month: "2025-01", EndingValuation: 500}}, nil
}

func (f *fakeProjections) ReceivableProjection(_ context.Context, receivableID int64, start, end core.YearMonth) ([]projection.ReceivableProjectionMonth, error) {
	f.lastStart, f.lastEnd = start, end
	return nil, nil
}

func (f *fakeProjections) DebtProjection(_ context.Context, debtID int64, start, end core.YearMonth) ([]projection.DebtProjectionMonth, error) {
	f.lastStart, f.lastEnd = start, end
	return nil, nil
}

func (f *fakeProjections) WealthProjection(_ context.Context, start, end core.YearMonth) ([]projection.WealthProjectionMonth, error) {
	f.lastStart, f.lastEnd = start, end
	return []projection.WealthProjectionMonth{{Month: "2025-01", NetWorth: 4200}}, nil
}

func (f *fakeProjections) WealthYearly(_ context.Context, start, end core.YearMonth) ([]projection.WealthProjectionYear, error) {
	f.lastStart, f.lastEnd = start, end
	return []projection.WealthProjectionYear{{Year: 2025, NetWorth: 4200}}, nil
}

func newTestServer() (*Server, *fakeEntities, *fakeProjections) {
	entities := newFakeEntities()
	projections := &fakeProjections{}
	return NewServer(":0", entities, projections, nil), entities, projections
}

func TestHealthEndpoints(t *testing.T) {
	s, _, _ := newTestServer()
	defer s.rateLimiter.stop()

	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		s.Server.Handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
	}
}

func TestReadyEndpointFailure(t *testing.T) {
	entities := newFakeEntities()
	s := NewServer(":0", entities, &fakeProjections{}, func(context.Context) error {
		return context.DeadlineExceeded
	})
	defer s.rateLimiter.stop()

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestCreateCashAccount(t *testing.T) {
	s, entities, _ := newTestServer()
	defer s.rateLimiter.stop()

	body := `{"name":"Checking","currency":"EUR","startingBalance":1000,"startingDate":"2025-01","horizonMonths":12}`
	req := httptest.NewRequest(http.MethodPost, "/api/accounts", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}
	var resp createdResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != 1 {
		t.Errorf("id = %d, want 1", resp.ID)
	}
	if entities.accounts[1].Name != "Checking" {
		t.Errorf("stored account = %+v", entities.accounts[1])
	}
}

func TestCreateCashAccountValidation(t *testing.T) {
	s, _, _ := newTestServer()
	defer s.rateLimiter.stop()

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"malformed json", `{`, http.StatusBadRequest},
		{"unknown field", `{"nome":"X"}`, http.StatusBadRequest},
		{"empty name", `{"name":"","currency":"EUR","startingDate":"2025-01","horizonMonths":12}`, http.StatusUnprocessableEntity},
		{"bad month", `{"name":"X","currency":"EUR","startingDate":"Jan 2025","horizonMonths":12}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/accounts", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			s.Server.Handler.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d, body %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestGetCashAccountNotFound(t *testing.T) {
	s, _, _ := newTestServer()
	defer s.rateLimiter.stop()

	req := httptest.NewRequest(http.MethodGet, "/api/accounts/42", nil)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestCashflowProjectionEndpoint(t *testing.T) {
	s, entities, projections := newTestServer()
	defer s.rateLimiter.stop()
	entities.accounts[1] = core.CashAccount{ID: 1, Name: "Checking"}

	req := httptest.NewRequest(http.MethodGet,
		"/api/accounts/1/projection?start=2025-03&categories=rent,food&types=expense&kinds=recurring", nil)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	f := projections.lastFilter
	if f == nil {
		t.Fatal("filter not passed to projection service")
	}
	if f.StartDate != "2025-03" {
		t.Errorf("filter start = %s, want 2025-03", f.StartDate)
	}
	if len(f.Categories) != 2 || f.Categories[0] != "rent" {
		t.Errorf("filter categories = %v", f.Categories)
	}
	if len(f.ItemTypes) != 1 || f.ItemTypes[0] != core.ItemExpense {
		t.Errorf("filter types = %v", f.ItemTypes)
	}
	if len(f.ItemKinds) != 1 || f.ItemKinds[0] != projection.KindRecurring {
		t.Errorf("filter kinds = %v", f.ItemKinds)
	}

	var months []projection.MonthlyProjection
	if err := json.Unmarshal(rec.Body.Bytes(), &months); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(months) != 1 || months[0].EndingBalance != 1000 {
		t.Errorf("months = %+v", months)
	}
}

func TestProjectionFilterValidation(t *testing.T) {
	s, _, _ := newTestServer()
	defer s.rateLimiter.stop()

	tests := []struct {
		name string
		url  string
	}{
		{"bad month", "/api/accounts/1/projection?start=2025-3"},
		{"bad type", "/api/accounts/1/projection?types=revenue"},
		{"bad kind", "/api/accounts/1/projection?kinds=weekly"},
		{"bad id", "/api/accounts/zero/projection"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			rec := httptest.NewRecorder()
			s.Server.Handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestInvestmentProjectionRangeTooLarge(t *testing.T) {
	s, _, projections := newTestServer()
	defer s.rateLimiter.stop()
	projections.rangeErr = services.ErrRangeTooLarge

	req := httptest.NewRequest(http.MethodGet, "/api/investments/1/projection", nil)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestWealthEndpoints(t *testing.T) {
	s, _, projections := newTestServer()
	defer s.rateLimiter.stop()

	req := httptest.NewRequest(http.MethodGet, "/api/wealth?start=2025-01&end=2025-12", nil)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("wealth status = %d", rec.Code)
	}
	if projections.lastStart != "2025-01" || projections.lastEnd != "2025-12" {
		t.Errorf("range = %s..%s", projections.lastStart, projections.lastEnd)
	}
	var months []projection.WealthProjectionMonth
	if err := json.Unmarshal(rec.Body.Bytes(), &months); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(months) != 1 || months[0].NetWorth != 4200 {
		t.Errorf("months = %+v", months)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/wealth/yearly", nil)
	rec = httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("yearly status = %d", rec.Code)
	}
	var years []projection.WealthProjectionYear
	if err := json.Unmarshal(rec.Body.Bytes(), &years); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(years) != 1 || years[0].Year != 2025 {
		t.Errorf("years = %+v", years)
	}
}
