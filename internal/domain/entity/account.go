package entity

import (
	"regexp"
	"time"

	errs "github.com/fireesports/ledger/internal/domain/error"
	coreport "github.com/fireesports/ledger/internal/domain/port/core"
)

// MaxAccountIDLength bounds the opaque account identifier
const MaxAccountIDLength = 64

var accountIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Account is the ledger view of a user's wallet. Balance is always the sum of the
// account's completed transactions and is only changed by the ledger store.
type Account struct {
	ID        string
	Balance   int64  // minor units
	Version   uint64 // incremented by every applied transaction
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAccount creates an empty account
func NewAccount(id string, timeProvider coreport.TimeProvider) (*Account, error) {
	if err := ValidateAccountID(id); err != nil {
		return nil, err
	}

	now := timeProvider.Now()
	return &Account{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ValidateAccountID checks the shape of an account identifier
func ValidateAccountID(id string) error {
	if id == "" || len(id) > MaxAccountIDLength || !accountIDPattern.MatchString(id) {
		return errs.ErrInvalidAccountID
	}
	return nil
}

// FormattedBalance returns the balance as a string with 2 decimal places
func (a *Account) FormattedBalance() string {
	return FormatAmount(a.Balance)
}
