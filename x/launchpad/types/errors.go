package types

import (
	"errors"

	errorsmod "cosmossdk.io/errors"
)

// Module error codes
var (
	// Creation errors
	ErrDuplicatePool       = errorsmod.Register(ModuleName, 1, "pool already exists for this authority and asset")
	ErrInvalidParameters   = errorsmod.Register(ModuleName, 2, "invalid pool parameters")
	ErrInsufficientBalance = errorsmod.Register(ModuleName, 3, "insufficient balance")
	ErrPoolNotFound        = errorsmod.Register(ModuleName, 4, "pool not found")

	// Temporal errors
	ErrPoolNotStarted = errorsmod.Register(ModuleName, 10, "pool has not started")
	ErrPoolEnded      = errorsmod.Register(ModuleName, 11, "pool has ended")
	ErrPoolNotEnded   = errorsmod.Register(ModuleName, 12, "pool has not ended")

	// Lifecycle errors
	ErrPoolFinalized          = errorsmod.Register(ModuleName, 20, "pool is already finalized")
	ErrPoolNotFinalized       = errorsmod.Register(ModuleName, 21, "pool is not finalized")
	ErrUnsoldAlreadyWithdrawn = errorsmod.Register(ModuleName, 22, "unsold supply already withdrawn")

	// Bound errors
	ErrBelowMinContribution   = errorsmod.Register(ModuleName, 30, "contribution is below minimum amount")
	ErrExceedsMaxContribution = errorsmod.Register(ModuleName, 31, "contribution exceeds maximum amount")
	ErrExceedsSupply          = errorsmod.Register(ModuleName, 32, "contribution exceeds remaining token supply")

	// Entitlement errors
	ErrNoContribution = errorsmod.Register(ModuleName, 40, "no contribution found")
	ErrUnauthorized   = errorsmod.Register(ModuleName, 41, "unauthorized")

	// Arithmetic errors
	ErrArithmeticOverflow = errorsmod.Register(ModuleName, 50, "arithmetic overflow")

	// Collaborator errors
	ErrTransferFailed      = errorsmod.Register(ModuleName, 60, "asset transfer failed")
	ErrInvalidEscrowSigner = errorsmod.Register(ModuleName, 61, "escrow signer does not control source account")
	ErrDerivationFailed    = errorsmod.Register(ModuleName, 62, "unable to derive off-curve address")

	// ErrFatal marks a failure that indicates an upstream accounting defect
	ErrFatal = errorsmod.Register(ModuleName, 99, "invariant breach")
)

// Kind classifies a launchpad error
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindTemporal
	KindState
	KindBound
	KindEntitlement
	KindArithmetic
	KindCollaborator
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindTemporal:
		return "temporal"
	case KindState:
		return "state"
	case KindBound:
		return "bound"
	case KindEntitlement:
		return "entitlement"
	case KindArithmetic:
		return "arithmetic"
	case KindCollaborator:
		return "collaborator"
	default:
		return "unknown"
	}
}

var errorKinds = []struct {
	err  error
	kind Kind
}{
	{ErrArithmeticOverflow, KindArithmetic},
	{ErrPoolNotStarted, KindTemporal},
	{ErrPoolEnded, KindTemporal},
	{ErrPoolNotEnded, KindTemporal},
	{ErrPoolFinalized, KindState},
	{ErrPoolNotFinalized, KindState},
	{ErrUnsoldAlreadyWithdrawn, KindState},
	{ErrBelowMinContribution, KindBound},
	{ErrExceedsMaxContribution, KindBound},
	{ErrExceedsSupply, KindBound},
	{ErrNoContribution, KindEntitlement},
	{ErrUnauthorized, KindEntitlement},
	{ErrInsufficientBalance, KindCollaborator},
	{ErrTransferFailed, KindCollaborator},
	{ErrInvalidEscrowSigner, KindCollaborator},
	{ErrDuplicatePool, KindValidation},
	{ErrInvalidParameters, KindValidation},
	{ErrPoolNotFound, KindValidation},
	{ErrDerivationFailed, KindValidation},
}

// KindOf returns the taxonomy kind of err
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	for _, ek := range errorKinds {
		if errors.Is(err, ek.err) {
			return ek.kind
		}
	}
	return KindUnknown
}

// IsFatal reports whether err signals an invariant breach rather than an
// ordinary user-facing rejection.
func IsFatal(err error) bool {
	return errors.Is(err, ErrFatal) || KindOf(err) == KindArithmetic
}
