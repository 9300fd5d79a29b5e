package keeper

import (
	"errors"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/openalpha/launchpad/x/launchpad/types"
)

// escrowSigner authorizes a release of coins held at one of a pool's derived
// custody addresses. Values are only minted by signerFor, so nothing outside the
// keeper can move custody funds.
type escrowSigner struct {
	pool    sdk.AccAddress
	account sdk.AccAddress
}

// signerFor re-derives the custody address from the pool address and checks it
// against the stored one before granting the capability.
func signerFor(poolAddr sdk.AccAddress, seed []byte, stored string) (escrowSigner, error) {
	derived, _, err := types.DeriveAddress(seed, poolAddr)
	if err != nil {
		return escrowSigner{}, err
	}
	if derived.String() != stored {
		return escrowSigner{}, errorsmod.Wrapf(types.ErrInvalidEscrowSigner,
			"custody %s is not derived from pool %s", stored, types.PoolIDFromAddress(poolAddr))
	}
	return escrowSigner{pool: poolAddr, account: derived}, nil
}

// transferGateway moves fungible units between owners through the bank module
type transferGateway struct {
	bank types.BankKeeper
}

// transferFromOwner moves units out of an externally signed account
func (g transferGateway) transferFromOwner(ctx sdk.Context, owner, to sdk.AccAddress, denom string, amount uint64) error {
	return g.send(ctx, owner, to, denom, amount)
}

// transferFromEscrow moves units out of a pool custody address
func (g transferGateway) transferFromEscrow(ctx sdk.Context, signer escrowSigner, to sdk.AccAddress, denom string, amount uint64) error {
	if signer.account.Empty() || signer.pool.Empty() {
		return types.ErrInvalidEscrowSigner
	}
	return g.send(ctx, signer.account, to, denom, amount)
}

// balance returns the units of denom held at addr
func (g transferGateway) balance(ctx sdk.Context, addr sdk.AccAddress, denom string) math.Int {
	return g.bank.GetBalance(ctx, addr, denom).Amount
}

func (g transferGateway) send(ctx sdk.Context, from, to sdk.AccAddress, denom string, amount uint64) error {
	if amount == 0 {
		return nil
	}
	coin := sdk.NewCoin(denom, math.NewIntFromUint64(amount))
	if bal := g.bank.GetBalance(ctx, from, denom); bal.IsLT(coin) {
		return errorsmod.Wrapf(types.ErrInsufficientBalance, "%s holds %s, needs %s", from, bal, coin)
	}
	if err := g.bank.SendCoins(ctx, from, to, sdk.NewCoins(coin)); err != nil {
		if errors.Is(err, sdkerrors.ErrInsufficientFunds) {
			return errorsmod.Wrapf(types.ErrInsufficientBalance, "%s: %v", from, err)
		}
		return errorsmod.Wrapf(types.ErrTransferFailed, "%s -> %s %s: %v", from, to, coin, err)
	}
	return nil
}
