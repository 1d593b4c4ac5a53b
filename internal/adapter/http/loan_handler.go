package http

import (
	"net/http"
	"time"

	"pawn-settlement/internal/usecase/loan"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type LoanHandler struct {
	uc  *loan.Usecase
	log logrus.FieldLogger
}

func NewLoanHandler(uc *loan.Usecase, log logrus.FieldLogger) *LoanHandler {
	return &LoanHandler{uc: uc, log: log}
}

type collateralReq struct {
	Description         string `json:"description" validate:"required,max=255"`
	AppraisedValue      int64  `json:"appraised_value" validate:"gte=0,lte=1000000000000000"`
	AppraiserEmployeeID string `json:"appraiser_employee_id" validate:"required,hex32"`
}

type createLoanReq struct {
	CustomerID  string        `json:"customer_id" validate:"required,hex32"`
	Principal   int64         `json:"principal" validate:"lte=1000000000000000"`
	Product     string        `json:"product" validate:"required"`
	DisbursedAt string        `json:"disbursed_at" validate:"omitempty,datetime=2006-01-02"`
	Collateral  collateralReq `json:"collateral"`
}

type renewLoanReq struct {
	RenewedAt string `json:"renewed_at" validate:"omitempty,datetime=2006-01-02"`
}

type quoteReq struct {
	Principal int64  `query:"principal" validate:"lte=1000000000000000"`
	Product   string `query:"product" validate:"required"`
}

// CreateLoan disburses a new loan. Amount and product checks are left to the
// usecase so they surface as 422 with the settlement error code.
func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req createLoanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Disburse(c.Request().Context(), loan.DisburseInput{
		CustomerID:  req.CustomerID,
		Principal:   req.Principal,
		Product:     req.Product,
		DisbursedAt: parseDate(req.DisbursedAt),
		Collateral: loan.CollateralInput{
			Description:         req.Collateral.Description,
			AppraisedValue:      req.Collateral.AppraisedValue,
			AppraiserEmployeeID: req.Collateral.AppraiserEmployeeID,
		},
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	loanID, ok := validLoanID(c)
	if !ok {
		return badLoanID(c)
	}
	dto, err := h.uc.Get(c.Request().Context(), loanID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) RenewLoan(c echo.Context) error {
	loanID, ok := validLoanID(c)
	if !ok {
		return badLoanID(c)
	}
	var req renewLoanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Renew(c.Request().Context(), loanID, parseDate(req.RenewedAt))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Quote(c echo.Context) error {
	var req quoteReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Quote(req.Principal, req.Product)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// parseDate reads an already validated YYYY-MM-DD value; empty yields the zero time.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.Parse(time.DateOnly, s)
	return t
}
