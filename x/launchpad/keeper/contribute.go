package keeper

import (
	"context"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/launchpad/x/launchpad/types"
)

// Contribute adds amount of the raise currency to the participant's record in an
// open pool. The currency moves into the pool fund vault.
//
// Besides the window, finalize and per-participant bounds, a contribution is
// refused with ErrExceedsSupply when the new running total would buy more asset
// units than the pool escrowed, so escrow can always pay every claim.
func (k *Keeper) Contribute(ctx context.Context, participant, poolID string, amount uint64) (types.ContributionRecord, *types.Pool, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	participantAddr, err := sdk.AccAddressFromBech32(participant)
	if err != nil {
		return types.ContributionRecord{}, nil, k.reject(types.TypeMsgContribute,
			errorsmod.Wrapf(types.ErrInvalidParameters, "invalid participant: %v", err))
	}
	if amount == 0 {
		return types.ContributionRecord{}, nil, k.reject(types.TypeMsgContribute,
			errorsmod.Wrap(types.ErrInvalidParameters, "amount must be positive"))
	}

	poolAddr, pool, err := k.loadPool(sdkCtx, poolID)
	if err != nil {
		return types.ContributionRecord{}, nil, k.reject(types.TypeMsgContribute, err)
	}

	now := sdkCtx.BlockTime().Unix()
	if now < pool.StartTime {
		return types.ContributionRecord{}, nil, k.reject(types.TypeMsgContribute,
			errorsmod.Wrapf(types.ErrPoolNotStarted, "opens at %d, now %d", pool.StartTime, now))
	}
	if now > pool.EndTime {
		return types.ContributionRecord{}, nil, k.reject(types.TypeMsgContribute,
			errorsmod.Wrapf(types.ErrPoolEnded, "closed at %d, now %d", pool.EndTime, now))
	}
	if pool.Finalized {
		return types.ContributionRecord{}, nil, k.reject(types.TypeMsgContribute, types.ErrPoolFinalized)
	}
	if amount < pool.MinContribution {
		return types.ContributionRecord{}, nil, k.reject(types.TypeMsgContribute,
			errorsmod.Wrapf(types.ErrBelowMinContribution, "%d < %d", amount, pool.MinContribution))
	}

	record := k.GetContribution(sdkCtx, poolAddr, participantAddr)
	newAmount, err := types.CheckedAdd(record.Amount, amount)
	if err != nil {
		return types.ContributionRecord{}, nil, k.reject(types.TypeMsgContribute, err)
	}
	if newAmount > pool.MaxContribution {
		return types.ContributionRecord{}, nil, k.reject(types.TypeMsgContribute,
			errorsmod.Wrapf(types.ErrExceedsMaxContribution, "%d > %d", newAmount, pool.MaxContribution))
	}

	newTotal, err := types.CheckedAdd(pool.TotalRaised, amount)
	if err != nil {
		return types.ContributionRecord{}, nil, k.reject(types.TypeMsgContribute, err)
	}
	sold, err := types.TokensForContribution(newTotal, pool.UnitPrice)
	if err != nil {
		return types.ContributionRecord{}, nil, k.reject(types.TypeMsgContribute, err)
	}
	if sold > pool.TotalSupply {
		return types.ContributionRecord{}, nil, k.reject(types.TypeMsgContribute,
			errorsmod.Wrapf(types.ErrExceedsSupply, "would sell %d of %d", sold, pool.TotalSupply))
	}

	fundVault, err := pool.FundVaultAddress()
	if err != nil {
		return types.ContributionRecord{}, nil, k.reject(types.TypeMsgContribute, err)
	}

	cacheCtx, write := sdkCtx.CacheContext()
	if err := k.gateway.transferFromOwner(cacheCtx, participantAddr, fundVault, pool.RaiseDenom, amount); err != nil {
		return types.ContributionRecord{}, nil, k.reject(types.TypeMsgContribute, err)
	}

	record.Amount = newAmount
	pool.TotalRaised = newTotal
	k.SetContribution(cacheCtx, poolAddr, participantAddr, record)
	k.SetPool(cacheCtx, poolAddr, pool)

	cacheCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeContribution,
			sdk.NewAttribute(types.AttributeKeyPoolID, pool.PoolID),
			sdk.NewAttribute(types.AttributeKeyParticipant, participant),
			sdk.NewAttribute(types.AttributeKeyAmount, strconv.FormatUint(amount, 10)),
			sdk.NewAttribute(types.AttributeKeyTotal, strconv.FormatUint(newAmount, 10)),
			sdk.NewAttribute(types.AttributeKeyTotalRaised, strconv.FormatUint(newTotal, 10)),
		),
	)
	write()

	k.metrics.RecordContribution(pool.PoolID, amount)
	k.logger.Info("Contribution accepted",
		"pool_id", pool.PoolID,
		"participant", participant,
		"amount", amount,
		"total_raised", pool.TotalRaised,
	)

	return record, pool, nil
}
