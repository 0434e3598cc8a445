package entity

import (
	"fmt"
	"math"
	"strings"

	errs "github.com/fireesports/ledger/internal/domain/error"
	"github.com/shopspring/decimal"
)

// MaxDecimalPlaces defines the maximum number of decimal places allowed for money amounts
const MaxDecimalPlaces = 2

var (
	minorUnitsPerMajor = decimal.New(1, MaxDecimalPlaces)
	maxMinorUnits      = decimal.NewFromInt(math.MaxInt64)
)

// ParseAmount converts a decimal string such as "12.50" into minor units (1250).
// Amounts must be non-negative and carry at most two decimal places.
func ParseAmount(amount string) (int64, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return 0, fmt.Errorf("%w: empty value", errs.ErrInvalidAmount)
	}
	// decimal accepts exponents; the API does not.
	if strings.ContainsAny(amount, "eE") {
		return 0, fmt.Errorf("%w: invalid number format", errs.ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", errs.ErrInvalidAmount, err.Error())
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: negative value", errs.ErrInvalidAmount)
	}
	if -d.Exponent() > MaxDecimalPlaces && !d.Equal(d.Truncate(MaxDecimalPlaces)) {
		return 0, fmt.Errorf("%w: maximum %d decimal places allowed", errs.ErrInvalidAmount, MaxDecimalPlaces)
	}

	minor := d.Mul(minorUnitsPerMajor)
	if minor.GreaterThan(maxMinorUnits) {
		return 0, errs.ErrAmountOverflow
	}
	return minor.IntPart(), nil
}

// FormatAmount renders minor units as a two-decimal string, e.g. -1015 becomes "-10.15"
func FormatAmount(minor int64) string {
	return decimal.New(minor, -MaxDecimalPlaces).StringFixed(MaxDecimalPlaces)
}
