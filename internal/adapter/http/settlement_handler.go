package http

import (
	"net/http"

	"pawn-settlement/internal/usecase/settlement"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type SettlementHandler struct {
	uc  *settlement.Usecase
	log logrus.FieldLogger
}

func NewSettlementHandler(uc *settlement.Usecase, log logrus.FieldLogger) *SettlementHandler {
	return &SettlementHandler{uc: uc, log: log}
}

type interestPaymentReq struct {
	Amount int64   `json:"amount" validate:"lte=1000000000000000"`
	Notes  *string `json:"notes" validate:"omitempty,max=500"`
}

type redeemReq struct {
	PrincipalAmount int64   `json:"principal_amount" validate:"lte=1000000000000000"`
	InterestAmount  int64   `json:"interest_amount" validate:"lte=1000000000000000"`
	Notes           *string `json:"notes" validate:"omitempty,max=500"`
}

func (h *SettlementHandler) RecordInterestPayment(c echo.Context) error {
	loanID, ok := validLoanID(c)
	if !ok {
		return badLoanID(c)
	}
	var req interestPaymentReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	txID, err := h.uc.RecordInterestPayment(c.Request().Context(), loanID, req.Amount, req.Notes)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"loan_id":        loanID,
		"transaction_id": txID,
		"amount":         req.Amount,
	})
}

func (h *SettlementHandler) Redeem(c echo.Context) error {
	loanID, ok := validLoanID(c)
	if !ok {
		return badLoanID(c)
	}
	var req redeemReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Redeem(c.Request().Context(), settlement.RedeemInput{
		LoanID:          loanID,
		PrincipalAmount: req.PrincipalAmount,
		InterestAmount:  req.InterestAmount,
		Notes:           req.Notes,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}
