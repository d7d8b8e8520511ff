package protocol

import (
	"errors"
	"math"
	"testing"
)

func TestCheckedAdd(t *testing.T) {
	cases := []struct {
		name    string
		a, b    uint64
		want    uint64
		wantErr error
	}{
		{"simple", 2, 3, 5, nil},
		{"zero", 0, 0, 0, nil},
		{"max exact", math.MaxUint64 - 1, 1, math.MaxUint64, nil},
		{"overflow", math.MaxUint64, 1, 0, ErrArithmeticOverflow},
		{"overflow both large", math.MaxUint64 / 2, math.MaxUint64/2 + 2, 0, ErrArithmeticOverflow},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := checkedAdd(tc.a, tc.b)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("error mismatch: %v, want %v", err, tc.wantErr)
			}
			if err == nil && got != tc.want {
				t.Fatalf("sum mismatch: %d, want %d", got, tc.want)
			}
		})
	}
}

func TestCheckedSub(t *testing.T) {
	cases := []struct {
		name    string
		a, b    uint64
		want    uint64
		wantErr error
	}{
		{"simple", 5, 3, 2, nil},
		{"to zero", 7, 7, 0, nil},
		{"underflow", 3, 4, 0, ErrArithmeticUnderflow},
		{"underflow from zero", 0, 1, 0, ErrArithmeticUnderflow},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := checkedSub(tc.a, tc.b)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("error mismatch: %v, want %v", err, tc.wantErr)
			}
			if err == nil && got != tc.want {
				t.Fatalf("difference mismatch: %d, want %d", got, tc.want)
			}
		})
	}
}

func TestSwapQuote(t *testing.T) {
	cases := []struct {
		name       string
		reserveOut uint64
		reserveIn  uint64
		amountIn   uint64
		want       uint64
	}{
		{"balanced reserves", 1000, 1000, 100, 90},
		{"floors", 1000, 1000, 1, 0},
		{"empty out reserve", 0, 1000, 100, 0},
		{"empty in reserve", 1000, 0, 100, 1000},
		{"wide numerator", 1 << 63, 1 << 62, 1 << 62, 1 << 62},
		{"max reserves", math.MaxUint64, math.MaxUint64, math.MaxUint64, math.MaxUint64 / 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := swapQuote(tc.reserveOut, tc.reserveIn, tc.amountIn)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("quote mismatch: %d, want %d", got, tc.want)
			}
		})
	}
}

func TestSwapQuoteZeroAmountIn(t *testing.T) {
	if _, err := swapQuote(1000, 1000, 0); !errors.Is(err, ErrZeroAmount) {
		t.Fatalf("expected ErrZeroAmount, got %v", err)
	}
}

// The quote never exceeds the output reserve, so the reserve subtraction
// after a successful quote cannot underflow.
func TestSwapQuoteBoundedByReserve(t *testing.T) {
	reserves := []uint64{1, 2, 999, 1000, math.MaxUint64}
	for _, reserveOut := range reserves {
		for _, amountIn := range []uint64{1, 500, math.MaxUint64} {
			got, err := swapQuote(reserveOut, 1000, amountIn)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got > reserveOut {
				t.Fatalf("quote %d exceeds reserve %d", got, reserveOut)
			}
		}
	}
}
