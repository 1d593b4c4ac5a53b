// Package id issues the 32-char lowercase hex identifiers used for loans,
// collaterals, transactions, customers and employees.
package id

import (
	"encoding/hex"
	"regexp"

	"github.com/google/uuid"
)

var reID32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

// NewID32 returns a random (v4) UUID as exactly 32 hex characters.
func NewID32() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// Valid reports whether s has the NewID32 shape.
func Valid(s string) bool { return reID32.MatchString(s) }
