package http

import "github.com/labstack/echo/v4"

type Handlers struct {
	Health     *Handler
	Loans      *LoanHandler
	Ledger     *LedgerHandler
	Settlement *SettlementHandler
}

// Register mounts every route on e. mutating wraps the POST routes only
// (e.g. the idempotency middleware).
func Register(e *echo.Echo, h Handlers, mutating ...echo.MiddlewareFunc) {
	e.GET("/health", h.Health.Health)
	e.GET("/schedules/quote", h.Loans.Quote)

	e.POST("/loans", h.Loans.CreateLoan, mutating...)
	e.GET("/loans/:loan_id", h.Loans.GetLoan)
	e.POST("/loans/:loan_id/renewals", h.Loans.RenewLoan, mutating...)

	e.GET("/loans/:loan_id/ledger", h.Ledger.GetLedger)
	e.GET("/loans/:loan_id/ledger/verify", h.Ledger.VerifyLedger)
	e.GET("/loans/:loan_id/transactions", h.Ledger.ListTransactions)

	e.POST("/loans/:loan_id/interest-payments", h.Settlement.RecordInterestPayment, mutating...)
	e.POST("/loans/:loan_id/redemption", h.Settlement.Redeem, mutating...)
}
