package entity

import (
	"fmt"
	"strings"
	"time"

	errs "github.com/fireesports/ledger/internal/domain/error"
)

// Category classifies what a transaction was for
type Category string

// Transaction categories
const (
	CategoryEntryFee   Category = "entry-fee"
	CategoryPrize      Category = "prize"
	CategoryRefund     Category = "refund"
	CategoryBonus      Category = "bonus"
	CategoryWithdrawal Category = "withdrawal"
	CategoryOther      Category = "other"
)

// TransactionStatus defines possible status values for a transaction
type TransactionStatus string

// TransactionStatus constants
const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
	StatusCancelled TransactionStatus = "cancelled"
)

// MaxIdempotencyKeyLength bounds client supplied keys
const MaxIdempotencyKeyLength = 128

// Direction says whether a request adds to or takes from the balance
type Direction int

const (
	Credit Direction = iota + 1
	Debit
)

func (d Direction) String() string {
	switch d {
	case Credit:
		return "credit"
	case Debit:
		return "debit"
	default:
		return "unknown"
	}
}

// Transaction is an immutable ledger record. Completed records are never edited;
// corrections are new compensating records.
type Transaction struct {
	ID             string            // server generated
	Sequence       uint64            // store-wide monotonic order, used for pagination
	AccountID      string            // account the delta was applied to
	Amount         int64             // signed delta in minor units
	Category       Category          // what the money moved for
	Status         TransactionStatus // completed for everything the store has applied
	ReferenceID    string            // e.g. tournament id
	IdempotencyKey string            // unique per account
	Description    string            // free text for history screens
	BalanceAfter   int64             // account balance right after this record
	AccountVersion uint64            // account version produced by this record
	CreatedAt      time.Time
}

// IsCredit returns true if this transaction increased the balance
func (t *Transaction) IsCredit() bool {
	return t.Amount > 0
}

// IsDebit returns true if this transaction decreased the balance
func (t *Transaction) IsDebit() bool {
	return t.Amount < 0
}

// Magnitude is the unsigned size of the delta
func (t *Transaction) Magnitude() int64 {
	if t.Amount < 0 {
		return -t.Amount
	}
	return t.Amount
}

// FormattedAmount returns the signed amount with 2 decimal places
func (t *Transaction) FormattedAmount() string {
	return FormatAmount(t.Amount)
}

// SamePayload reports whether a stored record matches a repeated request
func (t *Transaction) SamePayload(amount int64, category Category) bool {
	return t.Amount == amount && t.Category == category
}

// ParseCategory validates a category name
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", errs.ErrInvalidCategory, s)
	}
	return c, nil
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	switch c {
	case CategoryEntryFee, CategoryPrize, CategoryRefund, CategoryBonus, CategoryWithdrawal, CategoryOther:
		return true
	default:
		return false
	}
}

// AllowedFor tells whether money can move in direction d under this category
func (c Category) AllowedFor(d Direction) bool {
	switch c {
	case CategoryEntryFee, CategoryWithdrawal:
		return d == Debit
	case CategoryPrize, CategoryRefund, CategoryBonus:
		return d == Credit
	case CategoryOther:
		return true
	default:
		return false
	}
}

// ValidateIdempotencyKey checks a client supplied key
func ValidateIdempotencyKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errs.ErrMissingIdempotencyKey
	}
	if len(key) > MaxIdempotencyKeyLength {
		return fmt.Errorf("%w: longer than %d characters", errs.ErrMissingIdempotencyKey, MaxIdempotencyKeyLength)
	}
	return nil
}
