package http

import (
	"errors"
	"net/http"

	"pawn-settlement/internal/domain/loan"
	"pawn-settlement/pkg/id"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	codeValidation    = "validation_failed"
	codeInvalidAmount = "invalid_amount"
	codePrincipal     = "invalid_principal"
	codeInterest      = "invalid_interest"
	codeProduct       = "unknown_product"
	codeNotFound      = "not_found"
	codeSettled       = "already_settled"
	codeInternal      = "internal_error"
)

// bindAndValidate binds the request into dst and runs the registered validator.
// It writes the 400 response itself and returns false when the request is unusable.
func bindAndValidate(c echo.Context, dst any) (bool, error) {
	if err := c.Bind(dst); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Code: codeValidation})
	}
	if err := c.Validate(dst); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Code:    codeValidation,
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}

// writeError renders a usecase error. Store failures are logged with their
// cause and answered with a generic message.
func writeError(c echo.Context, log logrus.FieldLogger, err error) error {
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		log.WithError(unwrapCause(err)).WithFields(logrus.Fields{
			"method": c.Request().Method,
			"path":   c.Path(),
		}).Error("request failed")
		return c.JSON(status, ErrorResponse{Error: "internal error", Code: code})
	}
	return c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, loan.ErrInvalidPrincipal):
		return http.StatusUnprocessableEntity, codePrincipal
	case errors.Is(err, loan.ErrInvalidInterest):
		return http.StatusUnprocessableEntity, codeInterest
	case errors.Is(err, loan.ErrUnknownProduct):
		return http.StatusUnprocessableEntity, codeProduct
	case errors.Is(err, loan.ErrInvalidAmount):
		return http.StatusUnprocessableEntity, codeInvalidAmount
	case errors.Is(err, loan.ErrInvalidInput):
		return http.StatusUnprocessableEntity, codeValidation
	case errors.Is(err, loan.ErrNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, loan.ErrAlreadySettled):
		return http.StatusConflict, codeSettled
	default:
		return http.StatusInternalServerError, codeInternal
	}
}

func unwrapCause(err error) error {
	var pe *loan.PersistenceError
	if errors.As(err, &pe) && pe.Err != nil {
		return pe.Err
	}
	return err
}

func validLoanID(c echo.Context) (string, bool) {
	loanID := c.Param("loan_id")
	return loanID, id.Valid(loanID)
}

func badLoanID(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "validation failed",
		Code:    codeValidation,
		Details: []FieldError{{Field: "loan_id", Message: "must be 32-char lowercase hex"}},
	})
}
