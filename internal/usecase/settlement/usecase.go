// Package settlement holds the two mutating operations on a disbursed loan.
// Each runs in one store transaction with the loan row locked.
package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	cycleDomain "pawn-settlement/internal/domain/cycle"
	domainLoan "pawn-settlement/internal/domain/loan"
	txDomain "pawn-settlement/internal/domain/transaction"
	"pawn-settlement/internal/domain/uow"
	cycleuc "pawn-settlement/internal/usecase/cycle"
	"pawn-settlement/pkg/id"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Usecase struct {
	uow uow.UnitOfWork
	log logrus.FieldLogger
	now func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, log logrus.FieldLogger) *Usecase {
	return &Usecase{uow: tx, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// RecordInterestPayment appends an interest_payment to the active cycle and
// bumps the cycle's cached total by the same amount. Period statuses are left alone.
func (u *Usecase) RecordInterestPayment(ctx context.Context, loanID string, amount int64, notes *string) (string, error) {
	if err := domainLoan.CheckAmount("interest payment", amount); err != nil {
		return "", err
	}

	var txID string
	var cycleNumber int
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if !l.Settleable() {
			return fmt.Errorf("%w: loan %s is %s", domainLoan.ErrAlreadySettled, l.LoanID, l.State)
		}
		c, err := activeCycle(ctx, r, l)
		if err != nil {
			return err
		}
		txID, err = appendInterest(ctx, r, l, c, amount, notes)
		cycleNumber = c.CycleNumber
		return err
	})
	if err != nil {
		return "", domainLoan.FromStore("record interest payment", err)
	}

	u.log.WithFields(logrus.Fields{
		"loan_id":        loanID,
		"cycle":          cycleNumber,
		"amount":         amount,
		"transaction_id": txID,
	}).Info("interest payment recorded")
	return txID, nil
}

// Redeem settles the loan in full: principal must match exactly, interest
// may fall short of what remains (the shortfall is logged, not rejected).
func (u *Usecase) Redeem(ctx context.Context, in RedeemInput) (*RedemptionDTO, error) {
	if in.InterestAmount < 0 {
		return nil, fmt.Errorf("%w: got %d", domainLoan.ErrInvalidInterest, in.InterestAmount)
	}
	if in.InterestAmount > domainLoan.MaxAmount {
		return nil, fmt.Errorf("%w: interest must not exceed %d, got %d", domainLoan.ErrInvalidAmount, domainLoan.MaxAmount, in.InterestAmount)
	}

	var out *RedemptionDTO
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if !l.Settleable() {
			return fmt.Errorf("%w: loan %s is %s", domainLoan.ErrAlreadySettled, l.LoanID, l.State)
		}
		if in.PrincipalAmount != l.Principal {
			return fmt.Errorf("%w: expected %d, got %d", domainLoan.ErrInvalidPrincipal, l.Principal, in.PrincipalAmount)
		}
		total, err := domainLoan.AddAmounts(in.PrincipalAmount, in.InterestAmount)
		if err != nil {
			return err
		}

		c, err := activeCycle(ctx, r, l)
		if err != nil {
			return err
		}
		remaining, err := remainingInterest(ctx, r, c)
		if err != nil {
			return err
		}
		if in.InterestAmount > 0 {
			if _, err := domainLoan.AddAmounts(c.TotalInterestPaid, in.InterestAmount); err != nil {
				return fmt.Errorf("cycle %d interest total: %w", c.CycleNumber, err)
			}
		}

		now := u.now()
		principalTx := &txDomain.PaymentTransaction{
			TransactionID: id.NewID32(),
			LoanID:        l.ID,
			CycleID:       c.ID,
			Type:          txDomain.TypePrincipalPayment,
			Amount:        in.PrincipalAmount,
			Notes:         in.Notes,
		}
		if err := r.Transactions.Append(ctx, principalTx); err != nil {
			return domainLoan.Persist("append principal payment", err)
		}

		var interestTxID string
		if in.InterestAmount > 0 {
			if interestTxID, err = appendInterest(ctx, r, l, c, in.InterestAmount, in.Notes); err != nil {
				return err
			}
		}

		if err := releaseCollateral(ctx, r, l, now); err != nil {
			return err
		}

		l.State = domainLoan.StateRedeemed
		l.StateUpdatedAt = now
		if err := r.Loans.Save(ctx, l); err != nil {
			return domainLoan.Persist("save loan", err)
		}

		out = &RedemptionDTO{
			LoanID:                 l.LoanID,
			TotalAmount:            total,
			PrincipalTransactionID: principalTx.TransactionID,
			InterestTransactionID:  interestTxID,
			Shortfall:              max(0, remaining-in.InterestAmount),
			RedeemedAt:             now,
		}
		return nil
	})
	if err != nil {
		return nil, domainLoan.FromStore("redeem", err)
	}

	entry := u.log.WithFields(logrus.Fields{
		"loan_id":   out.LoanID,
		"principal": in.PrincipalAmount,
		"interest":  in.InterestAmount,
		"total":     out.TotalAmount,
	})
	if out.Shortfall > 0 {
		entry.WithField("shortfall", out.Shortfall).Warn("loan redeemed with interest shortfall")
	} else {
		entry.Info("loan redeemed")
	}
	return out, nil
}

// activeCycle loads the loan's current cycle, materializing it at the
// default anchor if an earlier step never did.
func activeCycle(ctx context.Context, r uow.Repos, l *domainLoan.Loan) (*cycleDomain.PaymentCycle, error) {
	c, _, err := cycleuc.Ensure(ctx, r.Cycles, l, l.CurrentCycle, cycleuc.DefaultAnchor(l, l.CurrentCycle))
	return c, err
}

func remainingInterest(ctx context.Context, r uow.Repos, c *cycleDomain.PaymentCycle) (int64, error) {
	periods, err := r.Cycles.ListPeriods(ctx, c.ID, cycleDomain.PeriodCurrent)
	if err != nil {
		return 0, domainLoan.Persist("list periods", err)
	}
	var due int64
	for _, p := range periods {
		due += p.FeeAmount
	}
	return max(0, due-c.TotalInterestPaid), nil
}

// appendInterest refuses, before writing, an amount that would push the
// cycle's cached total past int64.
func appendInterest(ctx context.Context, r uow.Repos, l *domainLoan.Loan, c *cycleDomain.PaymentCycle, amount int64, notes *string) (string, error) {
	newTotal, err := domainLoan.AddAmounts(c.TotalInterestPaid, amount)
	if err != nil {
		return "", fmt.Errorf("cycle %d interest total: %w", c.CycleNumber, err)
	}
	t := &txDomain.PaymentTransaction{
		TransactionID: id.NewID32(),
		LoanID:        l.ID,
		CycleID:       c.ID,
		Type:          txDomain.TypeInterestPayment,
		Amount:        amount,
		Notes:         notes,
	}
	if err := r.Transactions.Append(ctx, t); err != nil {
		return "", domainLoan.Persist("append interest payment", err)
	}
	if err := r.Cycles.IncrementInterestPaid(ctx, c.ID, amount); err != nil {
		return "", domainLoan.Persist("increment interest paid", err)
	}
	c.TotalInterestPaid = newTotal
	return t.TransactionID, nil
}

// releaseCollateral hands the pledged asset back. Loans without a
// collateral row are redeemed all the same.
func releaseCollateral(ctx context.Context, r uow.Repos, l *domainLoan.Loan, at time.Time) error {
	col, err := r.Collaterals.GetByLoanID(ctx, l.ID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	case err != nil:
		return domainLoan.Persist("load collateral", err)
	}
	col.InCustody = false
	col.ReleasedAt = &at
	if err := r.Collaterals.Save(ctx, col); err != nil {
		return domainLoan.Persist("release collateral", err)
	}
	return nil
}
