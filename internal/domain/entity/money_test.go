package entity

import (
	"testing"

	errs "github.com/fireesports/ledger/internal/domain/error"
	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	t.Run("Valid amounts", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected int64
		}{
			{"100.00", 10000},
			{"0.01", 1},
			{"0.10", 10},
			{"1", 100},
			{"1.5", 150},
			{"1234567.89", 123456789},
			{"0.00", 0},
			{" 12.50 ", 1250},
			{"3.100", 310},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				minor, err := ParseAmount(tc.input)
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, minor)
			})
		}
	})

	t.Run("Invalid amounts", func(t *testing.T) {
		testCases := []struct {
			input       string
			description string
		}{
			{"", "Empty string"},
			{"   ", "Whitespace only"},
			{"-1.00", "Negative amount"},
			{"1.234", "Too many decimal places"},
			{"abc", "Non-numeric"},
			{"1,000.00", "Comma as thousands separator"},
			{"1.00.00", "Multiple decimal points"},
			{"$100", "Currency symbol"},
			{"1e3", "Exponent notation"},
		}

		for _, tc := range testCases {
			t.Run(tc.description, func(t *testing.T) {
				_, err := ParseAmount(tc.input)
				assert.ErrorIs(t, err, errs.ErrInvalidAmount)
			})
		}
	})

	t.Run("Overflow", func(t *testing.T) {
		_, err := ParseAmount("92233720368547758.08")
		assert.ErrorIs(t, err, errs.ErrAmountOverflow)
	})
}

func TestFormatAmount(t *testing.T) {
	cases := map[int64]string{
		0:      "0.00",
		1:      "0.01",
		10:     "0.10",
		1015:   "10.15",
		100000: "1000.00",
		-1015:  "-10.15",
		-5:     "-0.05",
	}
	for minor, want := range cases {
		assert.Equal(t, want, FormatAmount(minor))
	}
}
