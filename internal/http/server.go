// Package http exposes the JSON API: entity CRUD plus the projection
// endpoints. Handlers stay thin; orchestration lives in the services layer.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"piano/internal/core"
	applog "piano/internal/log"
	"piano/internal/projection"
)

// EntityAPI is the entity-service surface the handlers need.
type EntityAPI interface {
	CreateCashAccount(ctx context.Context, a core.CashAccount) (int64, error)
	GetCashAccount(ctx context.Context, id int64) (core.CashAccount, error)
	ListCashAccounts(ctx context.Context) ([]core.CashAccount, error)
	UpdateCashAccount(ctx context.Context, a core.CashAccount) error
	DeleteCashAccount(ctx context.Context, id int64) error

	CreateRecurringItem(ctx context.Context, item core.RecurringItem) (int64, error)
	ListRecurringItems(ctx context.Context, accountID int64) ([]core.RecurringItem, error)
	UpdateRecurringItem(ctx context.Context, item core.RecurringItem) error
	DeleteRecurringItem(ctx context.Context, id int64) error

	CreatePlannedItem(ctx context.Context, item core.PlannedItem) (int64, error)
	ListPlannedItems(ctx context.Context, accountID int64) ([]core.PlannedItem, error)
	DeletePlannedItem(ctx context.Context, id int64) error

	CreateInvestmentAccount(ctx context.Context, a core.InvestmentAccount) (int64, error)
	GetInvestmentAccount(ctx context.Context, id int64) (core.InvestmentAccount, error)
	ListInvestmentAccounts(ctx context.Context) ([]core.InvestmentAccount, error)
	DeleteInvestmentAccount(ctx context.Context, id int64) error

	CreateContribution(ctx context.Context, c core.InvestmentContribution) (int64, error)
	ListContributions(ctx context.Context, accountID int64) ([]core.InvestmentContribution, error)
	DeleteContribution(ctx context.Context, id int64) error

	CreateReceivable(ctx context.Context, rec core.Receivable) (int64, error)
	GetReceivable(ctx context.Context, id int64) (core.Receivable, error)
	ListReceivables(ctx context.Context) ([]core.Receivable, error)
	DeleteReceivable(ctx context.Context, id int64) error

	CreateRepayment(ctx context.Context, rep core.ReceivableRepayment) (int64, error)
	ListRepayments(ctx context.Context, receivableID int64) ([]core.ReceivableRepayment, error)

	CreateDebt(ctx context.Context, d core.Debt) (int64, error)
	GetDebt(ctx context.Context, id int64) (core.Debt, error)
	ListDebts(ctx context.Context) ([]core.Debt, error)
	DeleteDebt(ctx context.Context, id int64) error

	CreateReferenceRate(ctx context.Context, rate core.DebtReferenceRate) (int64, error)
	ListReferenceRates(ctx context.Context, debtID int64) ([]core.DebtReferenceRate, error)

	CreateExtraPayment(ctx context.Context, extra core.DebtExtraPayment) (int64, error)
	ListExtraPayments(ctx context.Context, debtID int64) ([]core.DebtExtraPayment, error)
}

// ProjectionAPI is the projection-service surface the handlers need.
type ProjectionAPI interface {
	CashflowProjection(ctx context.Context, accountID int64, filter *projection.CashflowFilter) ([]projection.MonthlyProjection, error)
	InvestmentProjection(ctx context.Context, accountID int64, start, end core.YearMonth) ([]projection.InvestmentProjectionMonth, error)
	ReceivableProjection(ctx context.Context, receivableID int64, start, end core.YearMonth) ([]projection.ReceivableProjectionMonth, error)
	DebtProjection(ctx context.Context, debtID int64, start, end core.YearMonth) ([]projection.DebtProjectionMonth, error)
	WealthProjection(ctx context.Context, start, end core.YearMonth) ([]projection.WealthProjectionMonth, error)
	WealthYearly(ctx context.Context, start, end core.YearMonth) ([]projection.WealthProjectionYear, error)
}

type Server struct {
	http.Server
	entities    EntityAPI
	projections ProjectionAPI
	ready       func(context.Context) error
	rateLimiter *rateLimiter
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server. ready is polled by /readyz; nil means always ready.
func NewServer(addr string, entities EntityAPI, projections ProjectionAPI, ready func(context.Context) error) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		entities:    entities,
		projections: projections,
		ready:       ready,
		rateLimiter: newRateLimiter(),
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/accounts", s.wrap(s.handleCreateCashAccount))
	mux.HandleFunc("GET /api/accounts", s.wrap(s.handleListCashAccounts))
	mux.HandleFunc("GET /api/accounts/{id}", s.wrap(s.handleGetCashAccount))
	mux.HandleFunc("PUT /api/accounts/{id}", s.wrap(s.handleUpdateCashAccount))
	mux.HandleFunc("DELETE /api/accounts/{id}", s.wrap(s.handleDeleteCashAccount))
	mux.HandleFunc("GET /api/accounts/{id}/projection", s.wrap(s.handleCashflowProjection))

	mux.HandleFunc("POST /api/accounts/{id}/recurring", s.wrap(s.handleCreateRecurringItem))
	mux.HandleFunc("GET /api/accounts/{id}/recurring", s.wrap(s.handleListRecurringItems))
	mux.HandleFunc("PUT /api/recurring/{id}", s.wrap(s.handleUpdateRecurringItem))
	mux.HandleFunc("DELETE /api/recurring/{id}", s.wrap(s.handleDeleteRecurringItem))

	mux.HandleFunc("POST /api/accounts/{id}/planned", s.wrap(s.handleCreatePlannedItem))
	mux.HandleFunc("GET /api/accounts/{id}/planned", s.wrap(s.handleListPlannedItems))
	mux.HandleFunc("DELETE /api/planned/{id}", s.wrap(s.handleDeletePlannedItem))

	mux.HandleFunc("POST /api/investments", s.wrap(s.handleCreateInvestment))
	mux.HandleFunc("GET /api/investments", s.wrap(s.handleListInvestments))
	mux.HandleFunc("GET /api/investments/{id}", s.wrap(s.handleGetInvestment))
	mux.HandleFunc("DELETE /api/investments/{id}", s.wrap(s.handleDeleteInvestment))
	mux.HandleFunc("GET /api/investments/{id}/projection", s.wrap(s.handleInvestmentProjection))
	mux.HandleFunc("POST /api/investments/{id}/contributions", s.wrap(s.handleCreateContribution))
	mux.HandleFunc("GET /api/investments/{id}/contributions", s.wrap(s.handleListContributions))
	mux.HandleFunc("DELETE /api/contributions/{id}", s.wrap(s.handleDeleteContribution))

	mux.HandleFunc("POST /api/receivables", s.wrap(s.handleCreateReceivable))
	mux.HandleFunc("GET /api/receivables", s.wrap(s.handleListReceivables))
	mux.HandleFunc("GET /api/receivables/{id}", s.wrap(s.handleGetReceivable))
	mux.HandleFunc("DELETE /api/receivables/{id}", s.wrap(s.handleDeleteReceivable))
	mux.HandleFunc("GET /api/receivables/{id}/projection", s.wrap(s.handleReceivableProjection))
	mux.HandleFunc("POST /api/receivables/{id}/repayments", s.wrap(s.handleCreateRepayment))
	mux.HandleFunc("GET /api/receivables/{id}/repayments", s.wrap(s.handleListRepayments))

	mux.HandleFunc("POST /api/debts", s.wrap(s.handleCreateDebt))
	mux.HandleFunc("GET /api/debts", s.wrap(s.handleListDebts))
	mux.HandleFunc("GET /api/debts/{id}", s.wrap(s.handleGetDebt))
	mux.HandleFunc("DELETE /api/debts/{id}", s.wrap(s.handleDeleteDebt))
	mux.HandleFunc("GET /api/debts/{id}/projection", s.wrap(s.handleDebtProjection))
	mux.HandleFunc("POST /api/debts/{id}/rates", s.wrap(s.handleCreateReferenceRate))
	mux.HandleFunc("GET /api/debts/{id}/rates", s.wrap(s.handleListReferenceRates))
	mux.HandleFunc("POST /api/debts/{id}/extra-payments", s.wrap(s.handleCreateExtraPayment))
	mux.HandleFunc("GET /api/debts/{id}/extra-payments", s.wrap(s.handleListExtraPayments))

	mux.HandleFunc("GET /api/wealth", s.wrap(s.handleWealth))
	mux.HandleFunc("GET /api/wealth/yearly", s.wrap(s.handleWealthYearly))

	return s
}

// wrap adds request logging, rate limiting on mutations, and security
// headers to a handler.
func (s *Server) wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			applog.FieldComponent, applog.ComponentHTTP,
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			"client_ip", clientIP)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			applog.FieldComponent, applog.ComponentHTTP,
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rw.statusCode,
			applog.FieldDuration, time.Since(start).Milliseconds())
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			slog.WarnContext(r.Context(), "Readiness check failed", "error", err)
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Shutdown stops the rate-limiter cleanup goroutine before shutting the
// HTTP server down.
func (s *Server) Shutdown(ctx context.Context) error {
	s.rateLimiter.stop()
	return s.Server.Shutdown(ctx)
}

// Simple in-memory rate limiter for mutating requests.
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries removes client entries older than 10 minutes.
func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]

	if !exists {
		rl.clients[clientIP] = &clientInfo{
			lastRequest: now,
			requests:    1,
		}
		return true
	}

	// Reset counter if more than 1 minute has passed
	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	// Allow up to 60 requests per minute
	client.requests++
	client.lastRequest = now

	return client.requests <= 60
}
