package keeper

import (
	"context"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/launchpad/x/launchpad/types"
)

// InitializePool creates a pool for (authority, asset) and moves the full supply
// from the authority into the pool escrow. Either both happen or neither does.
func (k *Keeper) InitializePool(ctx context.Context, authority string, params types.PoolParams) (*types.Pool, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	authAddr, err := sdk.AccAddressFromBech32(authority)
	if err != nil {
		return nil, k.reject(types.TypeMsgCreatePool, errorsmod.Wrapf(types.ErrInvalidParameters, "invalid authority: %v", err))
	}
	if err := params.Validate(); err != nil {
		return nil, k.reject(types.TypeMsgCreatePool, err)
	}

	moduleParams := k.GetParams(sdkCtx)
	if params.AssetDenom == moduleParams.RaiseDenom {
		return nil, k.reject(types.TypeMsgCreatePool, errorsmod.Wrapf(types.ErrInvalidParameters,
			"asset denom %s cannot be the raise denom", params.AssetDenom))
	}

	poolAddr, bump, err := types.DerivePoolAddress(authAddr, params.AssetDenom)
	if err != nil {
		return nil, k.reject(types.TypeMsgCreatePool, err)
	}
	if k.HasPool(sdkCtx, poolAddr) {
		return nil, k.reject(types.TypeMsgCreatePool, errorsmod.Wrapf(types.ErrDuplicatePool,
			"pool %s already exists", types.PoolIDFromAddress(poolAddr)))
	}

	escrow, err := types.DeriveEscrowAddress(poolAddr)
	if err != nil {
		return nil, k.reject(types.TypeMsgCreatePool, err)
	}
	fundVault, err := types.DeriveFundVaultAddress(poolAddr)
	if err != nil {
		return nil, k.reject(types.TypeMsgCreatePool, err)
	}

	pool := types.NewPool(poolAddr, authAddr, escrow, fundVault, bump, moduleParams.RaiseDenom, params, sdkCtx.BlockHeight())

	cacheCtx, write := sdkCtx.CacheContext()
	k.SetPool(cacheCtx, poolAddr, pool)
	k.setWindowCloseIndex(cacheCtx, pool.EndTime, poolAddr)

	if err := k.gateway.transferFromOwner(cacheCtx, authAddr, escrow, pool.AssetDenom, pool.TotalSupply); err != nil {
		return nil, k.reject(types.TypeMsgCreatePool, err)
	}

	cacheCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePoolCreated,
			sdk.NewAttribute(types.AttributeKeyPoolID, pool.PoolID),
			sdk.NewAttribute(types.AttributeKeyAuthority, pool.Authority),
			sdk.NewAttribute(types.AttributeKeyAssetDenom, pool.AssetDenom),
			sdk.NewAttribute(types.AttributeKeyTotalSupply, strconv.FormatUint(pool.TotalSupply, 10)),
			sdk.NewAttribute(types.AttributeKeyUnitPrice, strconv.FormatUint(pool.UnitPrice, 10)),
			sdk.NewAttribute(types.AttributeKeyStartTime, strconv.FormatInt(pool.StartTime, 10)),
			sdk.NewAttribute(types.AttributeKeyEndTime, strconv.FormatInt(pool.EndTime, 10)),
			sdk.NewAttribute(types.AttributeKeyEscrow, pool.Escrow),
			sdk.NewAttribute(types.AttributeKeyFundVault, pool.FundVault),
		),
	)
	write()

	k.metrics.RecordPoolCreated(pool.AssetDenom, pool.TotalSupply)
	k.logger.Info("Pool created",
		"pool_id", pool.PoolID,
		"authority", pool.Authority,
		"asset_denom", pool.AssetDenom,
		"total_supply", pool.TotalSupply,
		"window", []int64{pool.StartTime, pool.EndTime},
	)

	return pool, nil
}

// reject records a refused operation and hands the error back unchanged
func (k *Keeper) reject(operation string, err error) error {
	k.metrics.RecordRejection(operation, types.KindOf(err).String())
	return err
}
