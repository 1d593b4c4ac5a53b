package http

import (
	"net/http"

	"pawn-settlement/internal/usecase/ledger"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type LedgerHandler struct {
	uc  *ledger.Usecase
	log logrus.FieldLogger
}

func NewLedgerHandler(uc *ledger.Usecase, log logrus.FieldLogger) *LedgerHandler {
	return &LedgerHandler{uc: uc, log: log}
}

func (h *LedgerHandler) GetLedger(c echo.Context) error {
	loanID, ok := validLoanID(c)
	if !ok {
		return badLoanID(c)
	}
	v, err := h.uc.View(c.Request().Context(), loanID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *LedgerHandler) ListTransactions(c echo.Context) error {
	loanID, ok := validLoanID(c)
	if !ok {
		return badLoanID(c)
	}
	hist, err := h.uc.Transactions(c.Request().Context(), loanID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, hist)
}

// VerifyLedger always answers 200 with the reconciliation; drift is logged.
func (h *LedgerHandler) VerifyLedger(c echo.Context) error {
	loanID, ok := validLoanID(c)
	if !ok {
		return badLoanID(c)
	}
	rec, err := h.uc.Verify(c.Request().Context(), loanID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if drift := rec.Err(); drift != nil {
		h.log.WithError(drift).WithFields(logrus.Fields{
			"loan_id": rec.LoanID,
			"cycle":   rec.CycleNumber,
		}).Warn("ledger drift detected")
	}
	return c.JSON(http.StatusOK, rec)
}
