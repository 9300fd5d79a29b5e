package types

import (
	"errors"
	"math"
	"testing"
)

func TestCheckedAdd(t *testing.T) {
	sum, err := CheckedAdd(40, 2)
	if err != nil || sum != 42 {
		t.Fatalf("expected 42, got %d (%v)", sum, err)
	}
	if _, err := CheckedAdd(math.MaxUint64, 1); !errors.Is(err, ErrArithmeticOverflow) {
		t.Errorf("expected overflow, got %v", err)
	}
}

func TestCheckedSub(t *testing.T) {
	diff, err := CheckedSub(10, 3)
	if err != nil || diff != 7 {
		t.Fatalf("expected 7, got %d (%v)", diff, err)
	}
	if _, err := CheckedSub(3, 10); !errors.Is(err, ErrArithmeticOverflow) {
		t.Errorf("expected underflow, got %v", err)
	}
}

func TestMulDiv(t *testing.T) {
	tests := []struct {
		name     string
		a, b, d  uint64
		expected uint64
		overflow bool
	}{
		{"one to one", 50, AssetScale, AssetScale, 50, false},
		{"half price", 5_000_000_000, AssetScale, 2 * AssetScale, 2_500_000_000, false},
		{"floors", 5, AssetScale, 10 * AssetScale, 0, false},
		{"wide intermediate", math.MaxUint64, AssetScale, AssetScale, math.MaxUint64, false},
		{"result too large", math.MaxUint64, AssetScale, 1, 0, true},
		{"zero denominator", 1, 1, 0, 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := MulDiv(tc.a, tc.b, tc.d)
			if tc.overflow {
				if !errors.Is(err, ErrArithmeticOverflow) {
					t.Fatalf("expected overflow, got %d (%v)", got, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("expected %d, got %d", tc.expected, got)
			}
		})
	}
}
