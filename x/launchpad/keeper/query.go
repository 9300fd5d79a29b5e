package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/launchpad/x/launchpad/types"
)

// QueryServer defines the launchpad QueryServer
type QueryServer struct {
	keeper *Keeper
}

// NewQueryServerImpl creates a new QueryServer instance
func NewQueryServerImpl(keeper *Keeper) *QueryServer {
	return &QueryServer{keeper: keeper}
}

// Params returns the module parameters
func (q *QueryServer) Params(ctx context.Context) types.Params {
	return q.keeper.GetParams(sdk.UnwrapSDKContext(ctx))
}

// Pool returns a pool by ID together with its phase at the current block time
func (q *QueryServer) Pool(ctx context.Context, poolID string) (*types.Pool, types.Phase, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	_, pool, err := q.keeper.loadPool(sdkCtx, poolID)
	if err != nil {
		return nil, types.PhasePending, err
	}
	return pool, pool.Phase(sdkCtx.BlockTime().Unix()), nil
}

// Pools returns all pools
func (q *QueryServer) Pools(ctx context.Context, offset, limit uint64) ([]*types.Pool, uint64, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	allPools := q.keeper.GetAllPools(sdkCtx)

	total := uint64(len(allPools))

	// Apply pagination
	if offset >= total {
		return []*types.Pool{}, total, nil
	}

	end := offset + limit
	if end > total || limit == 0 {
		end = total
	}

	return allPools[offset:end], total, nil
}

// Contribution returns the participant's record in a pool
func (q *QueryServer) Contribution(ctx context.Context, poolID, participant string) (types.ContributionRecord, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	participantAddr, err := sdk.AccAddressFromBech32(participant)
	if err != nil {
		return types.ContributionRecord{}, errorsmod.Wrapf(types.ErrInvalidParameters, "invalid participant: %v", err)
	}
	poolAddr, _, err := q.keeper.loadPool(sdkCtx, poolID)
	if err != nil {
		return types.ContributionRecord{}, err
	}
	if !q.keeper.HasContribution(sdkCtx, poolAddr, participantAddr) {
		return types.ContributionRecord{}, errorsmod.Wrapf(types.ErrNoContribution, "%s in pool %s", participant, poolID)
	}
	return q.keeper.GetContribution(sdkCtx, poolAddr, participantAddr), nil
}

// PoolContributions returns the records of a pool
func (q *QueryServer) PoolContributions(ctx context.Context, poolID string, offset, limit uint64) ([]types.Contribution, uint64, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	poolAddr, _, err := q.keeper.loadPool(sdkCtx, poolID)
	if err != nil {
		return nil, 0, err
	}
	all := q.keeper.GetPoolContributions(sdkCtx, poolAddr)

	total := uint64(len(all))
	if offset >= total {
		return []types.Contribution{}, total, nil
	}

	end := offset + limit
	if end > total || limit == 0 {
		end = total
	}

	return all[offset:end], total, nil
}

// EstimateClaim returns what a claim would pay and whether it is allowed yet
func (q *QueryServer) EstimateClaim(ctx context.Context, poolID, participant string) (tokenAmount uint64, claimable bool, err error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	tokenAmount, err = q.keeper.EstimateClaim(sdkCtx, poolID, participant)
	if err != nil {
		return 0, false, err
	}
	pool := q.keeper.GetPool(sdkCtx, poolID)
	return tokenAmount, pool != nil && pool.Finalized && tokenAmount > 0, nil
}

// DerivePool computes the addresses a pool for (authority, assetDenom) would use
func (q *QueryServer) DerivePool(authority, assetDenom string) (poolID, escrow, fundVault string, err error) {
	authAddr, err := sdk.AccAddressFromBech32(authority)
	if err != nil {
		return "", "", "", errorsmod.Wrapf(types.ErrInvalidParameters, "invalid authority: %v", err)
	}
	poolAddr, _, err := types.DerivePoolAddress(authAddr, assetDenom)
	if err != nil {
		return "", "", "", err
	}
	escrowAddr, err := types.DeriveEscrowAddress(poolAddr)
	if err != nil {
		return "", "", "", err
	}
	vaultAddr, err := types.DeriveFundVaultAddress(poolAddr)
	if err != nil {
		return "", "", "", err
	}
	return types.PoolIDFromAddress(poolAddr), escrowAddr.String(), vaultAddr.String(), nil
}
