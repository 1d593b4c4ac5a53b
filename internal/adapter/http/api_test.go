package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pawn-settlement/internal/adapter/repository/mysql"
	"pawn-settlement/internal/testutil/sqlitetest"
	cycleuc "pawn-settlement/internal/usecase/cycle"
	"pawn-settlement/internal/usecase/ledger"
	"pawn-settlement/internal/usecase/loan"
	"pawn-settlement/internal/usecase/settlement"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus/hooks/test"
	"gorm.io/gorm"
)

var (
	customerID  = strings.Repeat("c", 32)
	appraiserID = strings.Repeat("e", 32)
	unknownLoan = strings.Repeat("f", 32)
)

type testAPI struct {
	e    *echo.Echo
	db   *gorm.DB
	hook *test.Hook
}

// newTestAPI wires the real usecases over an in-memory database.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	db := sqlitetest.Open(t)
	log, hook := test.NewNullLogger()

	tx := mysql.NewGormUoW(db)
	loans := mysql.NewLoanRepository(db)
	cycles := cycleuc.NewUsecase(tx, log)

	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()
	Register(e, Handlers{
		Health:     NewHandler(nil),
		Loans:      NewLoanHandler(loan.NewUsecase(loans, tx, log), log),
		Ledger:     NewLedgerHandler(ledger.NewUsecase(loans, mysql.NewCycleRepository(db), mysql.NewTransactionRepository(db), cycles), log),
		Settlement: NewSettlementHandler(settlement.NewUsecase(tx, log), log),
	})
	return &testAPI{e: e, db: db, hook: hook}
}

func (a *testAPI) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

// disburse creates a loan anchored at 2025-03-01 and returns its id.
func (a *testAPI) disburse(t *testing.T, principal int64, product string) string {
	t.Helper()
	body := mustJSONString(t, map[string]any{
		"customer_id":  customerID,
		"principal":    principal,
		"product":      product,
		"disbursed_at": "2025-03-01",
		"collateral": map[string]any{
			"description":           "Honda Vision 2021",
			"appraised_value":       principal * 2,
			"appraiser_employee_id": appraiserID,
		},
	})
	rec := a.do(t, http.MethodPost, "/loans", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("disburse: status = %d body=%s", rec.Code, rec.Body.String())
	}
	var dto loan.LoanDTO
	decode(t, rec, &dto)
	return dto.LoanID
}

func mustJSONString(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("bad json: %v; raw=%s", err, rec.Body.String())
	}
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var out ErrorResponse
	decode(t, rec, &out)
	return out
}

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
