package loan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	collateralDomain "pawn-settlement/internal/domain/collateral"
	domainLoan "pawn-settlement/internal/domain/loan"
	"pawn-settlement/internal/domain/schedule"
	"pawn-settlement/internal/domain/uow"
	cycleuc "pawn-settlement/internal/usecase/cycle"
	"pawn-settlement/pkg/id"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Usecase struct {
	repo domainLoan.Repository
	uow  uow.UnitOfWork
	log  logrus.FieldLogger
	now  func() time.Time
}

func NewUsecase(r domainLoan.Repository, tx uow.UnitOfWork, log logrus.FieldLogger) *Usecase {
	return &Usecase{repo: r, uow: tx, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// Disburse books a new loan with its collateral appraisal and materializes
// cycle 1, all in one transaction. The appraisal fee is withheld from the payout.
func (u *Usecase) Disburse(ctx context.Context, in DisburseInput) (*LoanDTO, error) {
	if strings.TrimSpace(in.CustomerID) == "" {
		return nil, fmt.Errorf("%w: customer id is required", domainLoan.ErrInvalidInput)
	}
	if err := domainLoan.CheckAmount("principal", in.Principal); err != nil {
		return nil, err
	}
	product, err := domainLoan.ParseProduct(in.Product)
	if err != nil {
		return nil, err
	}
	if v := in.Collateral.AppraisedValue; v < 0 || v > domainLoan.MaxAmount {
		return nil, fmt.Errorf("%w: appraised value must be within [0, %d], got %d", domainLoan.ErrInvalidAmount, domainLoan.MaxAmount, v)
	}

	anchor := in.DisbursedAt
	if anchor.IsZero() {
		anchor = u.now()
	}
	anchor = cycleuc.DateOf(anchor)
	fee := schedule.AppraisalFee(in.Principal, product)

	l := &domainLoan.Loan{
		LoanID:         id.NewID32(),
		CustomerID:     in.CustomerID,
		Principal:      in.Principal,
		Product:        product,
		AppraisalFee:   fee,
		NetDisbursed:   in.Principal - fee,
		DisbursedAt:    anchor,
		CurrentCycle:   1,
		State:          domainLoan.StateDisbursed,
		StateUpdatedAt: u.now(),
	}

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, l); err != nil {
			return domainLoan.Persist("create loan", err)
		}
		col := &collateralDomain.Collateral{
			CollateralID:        id.NewID32(),
			LoanID:              l.ID,
			Description:         in.Collateral.Description,
			AppraisedValue:      in.Collateral.AppraisedValue,
			AppraiserEmployeeID: in.Collateral.AppraiserEmployeeID,
			AppraisalDate:       anchor,
			AppraisalFee:        fee,
			InCustody:           product.HoldsCollateral(),
		}
		if err := r.Collaterals.Create(ctx, col); err != nil {
			return domainLoan.Persist("create collateral", err)
		}
		_, _, err := cycleuc.Ensure(ctx, r.Cycles, l, 1, anchor)
		return err
	})
	if err != nil {
		return nil, domainLoan.Persist("disburse", err)
	}

	u.log.WithFields(logrus.Fields{
		"loan_id":       l.LoanID,
		"product":       l.Product,
		"principal":     l.Principal,
		"appraisal_fee": fee,
	}).Info("loan disbursed")
	return toDTO(l), nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, domainLoan.FromStore("load loan", err)
	}
	return toDTO(l), nil
}

// Renew rolls a disbursed loan into its next cycle, anchored at the renewal
// date, with the same principal. The renewal date may not precede the start
// of the cycle being rolled over.
func (u *Usecase) Renew(ctx context.Context, loanID string, at time.Time) (*LoanDTO, error) {
	if at.IsZero() {
		at = u.now()
	}
	var out *domainLoan.Loan
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if !l.Settleable() {
			return fmt.Errorf("%w: loan %s is %s", domainLoan.ErrAlreadySettled, l.LoanID, l.State)
		}
		start, err := cycleStart(ctx, r, l)
		if err != nil {
			return err
		}
		if cycleuc.DateOf(at).Before(start) {
			return fmt.Errorf("%w: renewal date %s is before cycle %d start %s", domainLoan.ErrInvalidInput,
				cycleuc.DateOf(at).Format(time.DateOnly), l.CurrentCycle, start.Format(time.DateOnly))
		}
		l.CurrentCycle++
		if err := r.Loans.Save(ctx, l); err != nil {
			return domainLoan.Persist("save loan", err)
		}
		if _, _, err := cycleuc.Ensure(ctx, r.Cycles, l, l.CurrentCycle, at); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, domainLoan.FromStore("renew", err)
	}

	u.log.WithFields(logrus.Fields{
		"loan_id": out.LoanID,
		"cycle":   out.CurrentCycle,
		"anchor":  cycleuc.DateOf(at).Format(time.DateOnly),
	}).Info("loan renewed")
	return toDTO(out), nil
}

// cycleStart is the start date of the loan's active cycle, or the date it
// would be materialized at when no row exists yet.
func cycleStart(ctx context.Context, r uow.Repos, l *domainLoan.Loan) (time.Time, error) {
	c, err := r.Cycles.GetByLoanAndNumber(ctx, l.ID, l.CurrentCycle)
	switch {
	case err == nil:
		return cycleuc.DateOf(c.StartDate), nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return cycleuc.DefaultAnchor(l, l.CurrentCycle), nil
	default:
		return time.Time{}, domainLoan.Persist("load cycle", err)
	}
}

// Quote previews the schedule and appraisal fee without touching the store.
func (u *Usecase) Quote(principal int64, product string) (*QuoteDTO, error) {
	p, err := domainLoan.ParseProduct(product)
	if err != nil {
		return nil, err
	}
	s, err := schedule.Compute(principal, p)
	if err != nil {
		return nil, err
	}
	fee := schedule.AppraisalFee(principal, p)
	return &QuoteDTO{
		Product:      string(p),
		Principal:    principal,
		AppraisalFee: fee,
		NetDisbursed: principal - fee,
		TotalFee:     s.TotalFee(),
		Milestones:   s.Milestones,
	}, nil
}

func toDTO(l *domainLoan.Loan) *LoanDTO {
	return &LoanDTO{
		LoanID:       l.LoanID,
		CustomerID:   l.CustomerID,
		Principal:    l.Principal,
		Product:      string(l.Product),
		AppraisalFee: l.AppraisalFee,
		NetDisbursed: l.NetDisbursed,
		DisbursedAt:  l.DisbursedAt.Format(time.DateOnly),
		CurrentCycle: l.CurrentCycle,
		State:        string(l.State),
		CreatedAt:    l.CreatedAt,
	}
}
