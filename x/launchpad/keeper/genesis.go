package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/launchpad/x/launchpad/types"
)

// InitGenesis loads pools and contribution records. Pools that are not finalized
// are put back on the window index; the first EndBlocker announces any whose
// window already closed.
func (k *Keeper) InitGenesis(ctx sdk.Context, gs types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return fmt.Errorf("invalid launchpad genesis: %w", err)
	}
	k.SetParams(ctx, gs.Params)

	for i := range gs.Pools {
		pool := gs.Pools[i]
		poolAddr, err := pool.Address()
		if err != nil {
			return err
		}
		k.SetPool(ctx, poolAddr, &pool)
		if !pool.Finalized {
			k.setWindowCloseIndex(ctx, pool.EndTime, poolAddr)
		}
	}

	for _, c := range gs.Contributions {
		poolAddr, err := types.PoolAddressFromID(c.PoolID)
		if err != nil {
			return err
		}
		participant, err := sdk.AccAddressFromBech32(c.Participant)
		if err != nil {
			return err
		}
		k.SetContribution(ctx, poolAddr, participant, types.ContributionRecord{Amount: c.Amount})
	}
	return nil
}

// ExportGenesis dumps the module state
func (k *Keeper) ExportGenesis(ctx sdk.Context) *types.GenesisState {
	gs := types.DefaultGenesis()
	gs.Params = k.GetParams(ctx)

	k.IteratePools(ctx, func(poolAddr sdk.AccAddress, pool *types.Pool) bool {
		gs.Pools = append(gs.Pools, *pool)
		gs.Contributions = append(gs.Contributions, k.GetPoolContributions(ctx, poolAddr)...)
		return false
	})
	return gs
}
