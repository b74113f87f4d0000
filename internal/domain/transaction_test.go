package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCheckPoints(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  error
	}{
		{name: "Whole", input: "10000"},
		{name: "Negative", input: "-200"},
		{name: "Fraction", input: "0.000000000000000001"},
		{name: "LargestExponent", input: "1e18"},
		{name: "HugeExponent", input: "1e50000000", want: ErrPointsOutOfRange},
		{name: "TinyExponent", input: "1e-10000000", want: ErrPointsOutOfRange},
		{name: "TooManyDecimals", input: "0.0000000000000000001", want: ErrPointsOutOfRange},
		{name: "TooManyDigits", input: "1234567890123456789012345678901234567890", want: ErrPointsOutOfRange},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			d, err := decimal.NewFromString(tc.input)
			if err != nil {
				t.Fatalf("decimal.NewFromString(%q) returned error: %v", tc.input, err)
			}

			if got := CheckPoints(d); !errors.Is(got, tc.want) {
				t.Errorf("CheckPoints(%s) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}
