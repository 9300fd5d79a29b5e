package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// GenesisState defines the launchpad module's genesis state
type GenesisState struct {
	Params        Params         `json:"params"`
	Pools         []Pool         `json:"pools"`
	Contributions []Contribution `json:"contributions"`
}

// DefaultGenesis returns the default genesis state
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:        DefaultParams(),
		Pools:         []Pool{},
		Contributions: []Contribution{},
	}
}

// Validate performs basic genesis state validation
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}

	pools := make(map[string]*Pool, len(gs.Pools))
	for i := range gs.Pools {
		pool := &gs.Pools[i]
		if _, dup := pools[pool.PoolID]; dup {
			return fmt.Errorf("duplicate pool %s", pool.PoolID)
		}
		if err := validateGenesisPool(pool); err != nil {
			return fmt.Errorf("pool %s: %w", pool.PoolID, err)
		}
		pools[pool.PoolID] = pool
	}

	sums := make(map[string]uint64, len(pools))
	seen := make(map[string]struct{}, len(gs.Contributions))
	for _, c := range gs.Contributions {
		pool, ok := pools[c.PoolID]
		if !ok {
			return fmt.Errorf("contribution of %s references unknown pool %s", c.Participant, c.PoolID)
		}
		if _, err := sdk.AccAddressFromBech32(c.Participant); err != nil {
			return fmt.Errorf("contribution in pool %s: invalid participant: %w", c.PoolID, err)
		}
		key := c.PoolID + "/" + c.Participant
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate contribution %s", key)
		}
		seen[key] = struct{}{}
		if c.Amount > pool.MaxContribution {
			return fmt.Errorf("contribution %s amount %d exceeds max %d", key, c.Amount, pool.MaxContribution)
		}
		sum, err := CheckedAdd(sums[c.PoolID], c.Amount)
		if err != nil {
			return fmt.Errorf("pool %s: %w", c.PoolID, err)
		}
		sums[c.PoolID] = sum
	}

	for id, pool := range pools {
		sum := sums[id]
		if !pool.Finalized && sum != pool.TotalRaised {
			return fmt.Errorf("pool %s: total raised %d does not match contributions %d", id, pool.TotalRaised, sum)
		}
		if pool.Finalized && sum > pool.TotalRaised {
			return fmt.Errorf("pool %s: unclaimed contributions %d exceed total raised %d", id, sum, pool.TotalRaised)
		}
	}
	return nil
}

func validateGenesisPool(pool *Pool) error {
	addr, err := pool.Address()
	if err != nil {
		return err
	}
	authority, err := pool.AuthorityAddress()
	if err != nil {
		return fmt.Errorf("invalid authority: %w", err)
	}
	expected, err := CreateAddress(pool.Bump, PoolSeed, []byte{byte(len(authority))}, authority, []byte(pool.AssetDenom))
	if err != nil {
		return err
	}
	if !expected.Equals(addr) {
		return fmt.Errorf("pool id is not derived from authority %s and asset %s", pool.Authority, pool.AssetDenom)
	}
	if err := pool.Params().Validate(); err != nil {
		return err
	}
	if err := sdk.ValidateDenom(pool.RaiseDenom); err != nil {
		return fmt.Errorf("invalid raise denom: %w", err)
	}
	if err := checkCustody(pool.EscrowAddress, DeriveEscrowAddress, addr, "escrow"); err != nil {
		return err
	}
	if err := checkCustody(pool.FundVaultAddress, DeriveFundVaultAddress, addr, "fund vault"); err != nil {
		return err
	}
	sold, err := pool.TokensSold()
	if err != nil {
		return err
	}
	if sold > pool.TotalSupply {
		return fmt.Errorf("total raised %d sells %d tokens, supply is %d", pool.TotalRaised, sold, pool.TotalSupply)
	}
	if pool.UnsoldWithdrawn && !pool.Finalized {
		return fmt.Errorf("unsold supply withdrawn before finalize")
	}
	return nil
}

// checkCustody requires a stored custody address to be the one derived from the pool
func checkCustody(stored func() (sdk.AccAddress, error), derive func(sdk.AccAddress) (sdk.AccAddress, error), pool sdk.AccAddress, name string) error {
	got, err := stored()
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	want, err := derive(pool)
	if err != nil {
		return err
	}
	if !got.Equals(want) {
		return fmt.Errorf("%s %s is not derived from the pool address", name, got)
	}
	return nil
}
