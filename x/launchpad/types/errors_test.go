package types

import (
	"errors"
	"testing"

	errorsmod "cosmossdk.io/errors"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		kind Kind
	}{
		{errorsmod.Wrap(ErrInvalidParameters, "bad window"), KindValidation},
		{ErrDuplicatePool, KindValidation},
		{ErrPoolNotStarted, KindTemporal},
		{ErrPoolNotEnded, KindTemporal},
		{ErrPoolFinalized, KindState},
		{ErrBelowMinContribution, KindBound},
		{ErrExceedsSupply, KindBound},
		{ErrNoContribution, KindEntitlement},
		{ErrUnauthorized, KindEntitlement},
		{ErrArithmeticOverflow, KindArithmetic},
		{errorsmod.Wrap(ErrInsufficientBalance, "escrow"), KindCollaborator},
		{errors.New("other"), KindUnknown},
		{nil, KindUnknown},
	}

	for _, tc := range tests {
		if got := KindOf(tc.err); got != tc.kind {
			t.Errorf("KindOf(%v) = %s, want %s", tc.err, got, tc.kind)
		}
	}
}

func TestIsFatal(t *testing.T) {
	if IsFatal(ErrNoContribution) {
		t.Errorf("a missing contribution is an ordinary rejection")
	}
	if IsFatal(ErrTransferFailed) {
		t.Errorf("a failed transfer is retryable")
	}
	if !IsFatal(errorsmod.Wrap(ErrArithmeticOverflow, "claim")) {
		t.Errorf("overflow is fatal")
	}

	joined := errors.Join(ErrFatal, errorsmod.Wrap(ErrInsufficientBalance, "fund vault"))
	if !IsFatal(joined) {
		t.Errorf("joined fatal error should be fatal")
	}
	if !errors.Is(joined, ErrInsufficientBalance) {
		t.Errorf("joined error should keep its cause")
	}
}
