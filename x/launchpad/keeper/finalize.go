package keeper

import (
	"context"
	"errors"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/launchpad/x/launchpad/types"
)

// FinalizePool closes an ended pool and sweeps the raised currency from the fund
// vault to the authority. It returns the amount swept.
func (k *Keeper) FinalizePool(ctx context.Context, caller, poolID string) (uint64, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	poolAddr, pool, err := k.loadPool(sdkCtx, poolID)
	if err != nil {
		return 0, k.reject(types.TypeMsgFinalizePool, err)
	}
	if caller != pool.Authority {
		return 0, k.reject(types.TypeMsgFinalizePool,
			errorsmod.Wrapf(types.ErrUnauthorized, "%s is not the pool authority", caller))
	}

	now := sdkCtx.BlockTime().Unix()
	if now <= pool.EndTime {
		return 0, k.reject(types.TypeMsgFinalizePool,
			errorsmod.Wrapf(types.ErrPoolNotEnded, "closes at %d, now %d", pool.EndTime, now))
	}
	if pool.Finalized {
		return 0, k.reject(types.TypeMsgFinalizePool, types.ErrPoolFinalized)
	}

	authority, err := pool.AuthorityAddress()
	if err != nil {
		return 0, k.reject(types.TypeMsgFinalizePool, err)
	}

	cacheCtx, write := sdkCtx.CacheContext()
	pool.Finalized = true
	k.SetPool(cacheCtx, poolAddr, pool)

	if pool.TotalRaised > 0 {
		signer, err := signerFor(poolAddr, types.FundVaultSeed, pool.FundVault)
		if err != nil {
			return 0, k.fatal(types.TypeMsgFinalizePool, pool, err)
		}
		if err := k.gateway.transferFromEscrow(cacheCtx, signer, authority, pool.RaiseDenom, pool.TotalRaised); err != nil {
			return 0, k.fatal(types.TypeMsgFinalizePool, pool, err)
		}
	}

	cacheCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePoolFinalized,
			sdk.NewAttribute(types.AttributeKeyPoolID, pool.PoolID),
			sdk.NewAttribute(types.AttributeKeyAuthority, pool.Authority),
			sdk.NewAttribute(types.AttributeKeyTotalRaised, strconv.FormatUint(pool.TotalRaised, 10)),
		),
	)
	write()

	k.metrics.RecordFinalize(pool.PoolID, pool.TotalRaised)
	k.logger.Info("Pool finalized",
		"pool_id", pool.PoolID,
		"authority", pool.Authority,
		"amount_swept", pool.TotalRaised,
	)

	return pool.TotalRaised, nil
}

// fatal marks a custody failure that the pool's own bookkeeping should have
// made impossible.
func (k *Keeper) fatal(operation string, pool *types.Pool, err error) error {
	k.logger.Error("Custody invariant breached",
		"operation", operation,
		"pool_id", pool.PoolID,
		"error", err,
	)
	return k.reject(operation, errors.Join(types.ErrFatal, err))
}
