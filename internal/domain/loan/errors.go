package loan

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidPrincipal = errors.New("principal does not match loan principal")
	ErrInvalidInterest  = errors.New("interest amount must not be negative")
	ErrUnknownProduct   = errors.New("unknown loan product")
	ErrNotFound         = errors.New("loan not found")
	ErrAlreadySettled   = errors.New("loan already settled")
	ErrPersistence      = errors.New("persistence failure")
	// ErrLedgerDrift means a cycle's cached interest total disagrees with its transaction log.
	ErrLedgerDrift = errors.New("cycle interest total out of sync with transaction log")
)

// PersistenceError wraps a store error. Error() stays generic so the cause
// never reaches an end user; errors.Is matches both ErrPersistence and the cause.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return "persistence failure: " + e.Op }

func (e *PersistenceError) Unwrap() []error { return []error{ErrPersistence, e.Err} }

// Persist wraps err as a PersistenceError unless it is nil or already a domain error.
func Persist(op string, err error) error {
	if err == nil || IsDomainError(err) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// FromStore translates a repository error for loan lookups: a missing row
// becomes ErrNotFound, anything else a PersistenceError.
func FromStore(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, op)
	}
	return Persist(op, err)
}

// DriftError carries both sides of a failed cycle reconciliation.
type DriftError struct {
	CycleID uint64
	Cached  int64
	Logged  int64
}

func (e *DriftError) Error() string {
	return fmt.Sprintf("cycle %d: cached interest paid %d, transaction log sums to %d", e.CycleID, e.Cached, e.Logged)
}

func (e *DriftError) Unwrap() error { return ErrLedgerDrift }

// IsClientError reports whether err was caused by invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidPrincipal) ||
		errors.Is(err, ErrInvalidInterest) ||
		errors.Is(err, ErrUnknownProduct)
}

// IsDomainError reports whether err belongs to the settlement error taxonomy.
func IsDomainError(err error) bool {
	return IsClientError(err) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAlreadySettled) ||
		errors.Is(err, ErrPersistence) ||
		errors.Is(err, ErrLedgerDrift)
}
