package keeper

import (
	"context"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/launchpad/x/launchpad/types"
)

// WithdrawUnsold returns to the authority the part of the escrowed supply that the
// final running total did not buy. Allowed once, after finalize.
func (k *Keeper) WithdrawUnsold(ctx context.Context, caller, poolID string) (uint64, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	poolAddr, pool, err := k.loadPool(sdkCtx, poolID)
	if err != nil {
		return 0, k.reject(types.TypeMsgWithdrawUnsold, err)
	}
	if caller != pool.Authority {
		return 0, k.reject(types.TypeMsgWithdrawUnsold,
			errorsmod.Wrapf(types.ErrUnauthorized, "%s is not the pool authority", caller))
	}
	if !pool.Finalized {
		return 0, k.reject(types.TypeMsgWithdrawUnsold, types.ErrPoolNotFinalized)
	}
	if pool.UnsoldWithdrawn {
		return 0, k.reject(types.TypeMsgWithdrawUnsold, types.ErrUnsoldAlreadyWithdrawn)
	}

	unsold, err := pool.UnsoldSupply()
	if err != nil {
		return 0, k.fatal(types.TypeMsgWithdrawUnsold, pool, err)
	}
	authority, err := pool.AuthorityAddress()
	if err != nil {
		return 0, k.reject(types.TypeMsgWithdrawUnsold, err)
	}

	cacheCtx, write := sdkCtx.CacheContext()
	pool.UnsoldWithdrawn = true
	k.SetPool(cacheCtx, poolAddr, pool)

	if unsold > 0 {
		signer, err := signerFor(poolAddr, types.EscrowSeed, pool.Escrow)
		if err != nil {
			return 0, k.reject(types.TypeMsgWithdrawUnsold, err)
		}
		if err := k.gateway.transferFromEscrow(cacheCtx, signer, authority, pool.AssetDenom, unsold); err != nil {
			return 0, k.reject(types.TypeMsgWithdrawUnsold, err)
		}
	}

	cacheCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeUnsoldWithdraw,
			sdk.NewAttribute(types.AttributeKeyPoolID, pool.PoolID),
			sdk.NewAttribute(types.AttributeKeyAuthority, pool.Authority),
			sdk.NewAttribute(types.AttributeKeyTokenAmount, strconv.FormatUint(unsold, 10)),
		),
	)
	write()

	k.logger.Info("Unsold supply withdrawn",
		"pool_id", pool.PoolID,
		"authority", pool.Authority,
		"token_amount", unsold,
	)

	return unsold, nil
}
