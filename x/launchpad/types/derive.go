package types

import (
	"crypto/sha256"

	errorsmod "cosmossdk.io/errors"
	"filippo.io/edwards25519"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"github.com/mr-tron/base58"
)

// Derivation seeds
var (
	PoolSeed      = []byte("pool")
	EscrowSeed    = []byte("escrow")
	FundVaultSeed = []byte("funds")

	pdaMarker = []byte("ProgramDerivedAddress")
)

// ProgramID is the namespace every launchpad address is derived under
func ProgramID() []byte {
	return authtypes.NewModuleAddress(ModuleName)
}

// DeriveAddress derives a 32-byte address from seeds. The search walks the bump
// byte down from 255 and returns the first hash that is not a valid ed25519
// point, so no private key can ever sign for the result.
func DeriveAddress(seeds ...[]byte) (sdk.AccAddress, uint8, error) {
	programID := ProgramID()
	for bump := 255; bump > 0; bump-- {
		addr := hashSeeds(seeds, uint8(bump), programID)
		if !isOnCurve(addr) {
			return sdk.AccAddress(addr), uint8(bump), nil
		}
	}
	return nil, 0, ErrDerivationFailed
}

// CreateAddress recomputes an address for a known bump
func CreateAddress(bump uint8, seeds ...[]byte) (sdk.AccAddress, error) {
	addr := hashSeeds(seeds, bump, ProgramID())
	if isOnCurve(addr) {
		return nil, errorsmod.Wrapf(ErrDerivationFailed, "bump %d yields an on-curve point", bump)
	}
	return sdk.AccAddress(addr), nil
}

func hashSeeds(seeds [][]byte, bump uint8, programID []byte) []byte {
	h := sha256.New()
	for _, seed := range seeds {
		h.Write(seed)
	}
	h.Write([]byte{bump})
	h.Write(programID)
	h.Write(pdaMarker)
	return h.Sum(nil)
}

func isOnCurve(point []byte) bool {
	if len(point) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}

// DerivePoolAddress derives the pool address for an (authority, asset) pair.
// The denom is length-prefixed so distinct pairs never share a seed stream.
func DerivePoolAddress(authority sdk.AccAddress, assetDenom string) (sdk.AccAddress, uint8, error) {
	return DeriveAddress(PoolSeed, []byte{byte(len(authority))}, authority, []byte(assetDenom))
}

// DeriveEscrowAddress derives the custody address of a pool's asset supply
func DeriveEscrowAddress(pool sdk.AccAddress) (sdk.AccAddress, error) {
	addr, _, err := DeriveAddress(EscrowSeed, pool)
	return addr, err
}

// DeriveFundVaultAddress derives the custody address of a pool's raised currency
func DeriveFundVaultAddress(pool sdk.AccAddress) (sdk.AccAddress, error) {
	addr, _, err := DeriveAddress(FundVaultSeed, pool)
	return addr, err
}

// PoolIDFromAddress encodes a pool address as its public identifier
func PoolIDFromAddress(pool sdk.AccAddress) string {
	return base58.Encode(pool)
}

// PoolAddressFromID decodes a pool identifier
func PoolAddressFromID(poolID string) (sdk.AccAddress, error) {
	if poolID == "" {
		return nil, errorsmod.Wrap(ErrPoolNotFound, "empty pool id")
	}
	bz, err := base58.Decode(poolID)
	if err != nil {
		return nil, errorsmod.Wrapf(ErrPoolNotFound, "malformed pool id %q: %v", poolID, err)
	}
	if len(bz) != 32 {
		return nil, errorsmod.Wrapf(ErrPoolNotFound, "pool id %q decodes to %d bytes", poolID, len(bz))
	}
	return sdk.AccAddress(bz), nil
}
