package uowmock

import (
	"context"
	"errors"
	"testing"

	"pawn-settlement/internal/domain/loan"
	"pawn-settlement/internal/domain/uow"
	"pawn-settlement/internal/testutil/cyclemock"
	"pawn-settlement/internal/testutil/loanmock"
	"pawn-settlement/internal/testutil/txmock"
)

func TestUoW_WithinTx_Forwards(t *testing.T) {
	ctx := context.Background()

	repos := uow.Repos{Loans: &loanmock.Repo{}, Cycles: &cyclemock.Repo{}}
	innerCalled := false
	m := &UoW{
		WithinTxFn: func(gotCtx context.Context, fn func(r uow.Repos) error) error {
			if gotCtx != ctx {
				t.Fatalf("WithinTx: ctx mismatch")
			}
			return fn(repos)
		},
	}

	err := m.WithinTx(ctx, func(r uow.Repos) error {
		innerCalled = true
		if r.Loans != repos.Loans || r.Cycles != repos.Cycles {
			t.Fatalf("WithinTx: repos not forwarded correctly")
		}
		return nil
	})
	if err != nil || !innerCalled {
		t.Fatalf("WithinTx: err=%v called=%v", err, innerCalled)
	}
}

func TestUoW_Defaults_Unimplemented(t *testing.T) {
	ctx := context.Background()
	m := New()
	if err := m.WithinTx(ctx, func(uow.Repos) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinTx default: want errUnimplemented, got %v", err)
	}
	if err := m.WithinLoanTx(ctx, "LN-X", func(uow.Repos, *loan.Loan) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinLoanTx default: want errUnimplemented, got %v", err)
	}
}

func TestPassthrough_WithinLoanTx(t *testing.T) {
	ctx := context.Background()
	lock := &loan.Loan{ID: 7, LoanID: "LN-7"}
	txs := &txmock.Repo{}
	repos := uow.Repos{
		Loans: &loanmock.Repo{
			GetByLoanIDForUpdateFn: func(_ context.Context, loanID string) (*loan.Loan, error) {
				if loanID != "LN-7" {
					t.Fatalf("loanID mismatch: %s", loanID)
				}
				return lock, nil
			},
		},
		Transactions: txs,
	}

	err := Passthrough(repos).WithinLoanTx(ctx, "LN-7", func(r uow.Repos, l *loan.Loan) error {
		if l != lock || r.Transactions != txs {
			t.Fatalf("loan or repos not forwarded: %+v", l)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinLoanTx: %v", err)
	}
}

func TestPassthrough_LookupErrorSkipsCallback(t *testing.T) {
	sentinel := errors.New("missing")
	repos := uow.Repos{Loans: &loanmock.Repo{
		GetByLoanIDForUpdateFn: func(context.Context, string) (*loan.Loan, error) { return nil, sentinel },
	}}
	err := Passthrough(repos).WithinLoanTx(context.Background(), "LN-0", func(uow.Repos, *loan.Loan) error {
		t.Fatalf("callback must not run")
		return nil
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("want %v, got %v", sentinel, err)
	}
}

func TestUoW_FluentSetters_And_Reset(t *testing.T) {
	m := New().
		WithWithinTx(func(context.Context, func(uow.Repos) error) error { return nil }).
		WithWithinLoanTx(func(context.Context, string, func(uow.Repos, *loan.Loan) error) error { return nil })
	if m.WithinTxFn == nil || m.WithinLoanTxFn == nil {
		t.Fatalf("fluent setters didn't assign funcs")
	}
	m.Reset()
	if m.WithinTxFn != nil || m.WithinLoanTxFn != nil {
		t.Fatalf("Reset should clear function fields")
	}
}
