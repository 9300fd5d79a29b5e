package keeper

import (
	"context"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/launchpad/x/launchpad/types"
)

// Claim redeems the participant's whole recorded contribution for asset units at
// the pool's fixed price. The escrow transfer and the zeroing of the record commit
// together; a failed transfer leaves the record intact so the claim can be retried.
func (k *Keeper) Claim(ctx context.Context, participant, poolID string) (redeemed, tokenAmount uint64, err error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	participantAddr, err := sdk.AccAddressFromBech32(participant)
	if err != nil {
		return 0, 0, k.reject(types.TypeMsgClaim,
			errorsmod.Wrapf(types.ErrInvalidParameters, "invalid participant: %v", err))
	}

	poolAddr, pool, err := k.loadPool(sdkCtx, poolID)
	if err != nil {
		return 0, 0, k.reject(types.TypeMsgClaim, err)
	}
	if !pool.Finalized {
		return 0, 0, k.reject(types.TypeMsgClaim, types.ErrPoolNotFinalized)
	}

	record := k.GetContribution(sdkCtx, poolAddr, participantAddr)
	if !record.IsClaimable() {
		return 0, 0, k.reject(types.TypeMsgClaim,
			errorsmod.Wrapf(types.ErrNoContribution, "%s in pool %s", participant, poolID))
	}

	tokenAmount, err = types.TokensForContribution(record.Amount, pool.UnitPrice)
	if err != nil {
		return 0, 0, k.fatal(types.TypeMsgClaim, pool, err)
	}

	cacheCtx, write := sdkCtx.CacheContext()
	if tokenAmount > 0 {
		signer, err := signerFor(poolAddr, types.EscrowSeed, pool.Escrow)
		if err != nil {
			return 0, 0, k.reject(types.TypeMsgClaim, err)
		}
		if err := k.gateway.transferFromEscrow(cacheCtx, signer, participantAddr, pool.AssetDenom, tokenAmount); err != nil {
			return 0, 0, k.reject(types.TypeMsgClaim, err)
		}
	}

	redeemed = record.Amount
	k.SetContribution(cacheCtx, poolAddr, participantAddr, types.ContributionRecord{Amount: 0})

	cacheCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeClaim,
			sdk.NewAttribute(types.AttributeKeyPoolID, pool.PoolID),
			sdk.NewAttribute(types.AttributeKeyParticipant, participant),
			sdk.NewAttribute(types.AttributeKeyAmount, strconv.FormatUint(redeemed, 10)),
			sdk.NewAttribute(types.AttributeKeyTokenAmount, strconv.FormatUint(tokenAmount, 10)),
		),
	)
	write()

	k.metrics.RecordClaim(pool.PoolID, tokenAmount)
	k.logger.Info("Claim processed",
		"pool_id", pool.PoolID,
		"participant", participant,
		"redeemed", redeemed,
		"token_amount", tokenAmount,
	)

	return redeemed, tokenAmount, nil
}

// EstimateClaim returns the asset units the participant would receive from a
// claim right now, without checking whether the pool is finalized.
func (k *Keeper) EstimateClaim(ctx sdk.Context, poolID, participant string) (uint64, error) {
	participantAddr, err := sdk.AccAddressFromBech32(participant)
	if err != nil {
		return 0, errorsmod.Wrapf(types.ErrInvalidParameters, "invalid participant: %v", err)
	}
	poolAddr, pool, err := k.loadPool(ctx, poolID)
	if err != nil {
		return 0, err
	}
	record := k.GetContribution(ctx, poolAddr, participantAddr)
	if !record.IsClaimable() {
		return 0, nil
	}
	return types.TokensForContribution(record.Amount, pool.UnitPrice)
}
