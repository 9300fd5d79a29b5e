package keeper

import (
	"fmt"
	"strings"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/launchpad/x/launchpad/types"
)

// NamedInvariant pairs an invariant with its registry route
type NamedInvariant struct {
	Route string
	Check sdk.Invariant
}

// Invariants lists the launchpad invariants in the order they are checked
func Invariants(k *Keeper) []NamedInvariant {
	return []NamedInvariant{
		{Route: "conservation", Check: ConservationInvariant(k)},
		{Route: "escrow-solvency", Check: EscrowSolvencyInvariant(k)},
	}
}

// RegisterInvariants registers the launchpad invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k *Keeper) {
	for _, inv := range Invariants(k) {
		ir.RegisterRoute(types.ModuleName, inv.Route, inv.Check)
	}
}

// AllInvariants runs every launchpad invariant
func AllInvariants(k *Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := ConservationInvariant(k)(ctx)
		if stop {
			return res, stop
		}
		return EscrowSolvencyInvariant(k)(ctx)
	}
}

// ConservationInvariant checks that an open pool's running total equals the sum
// of its records and that a finalized pool never owes more than it raised.
func ConservationInvariant(k *Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var broken []string

		k.IteratePools(ctx, func(poolAddr sdk.AccAddress, pool *types.Pool) bool {
			var sum uint64
			overflow := false
			k.IteratePoolContributions(ctx, poolAddr, func(_ sdk.AccAddress, record types.ContributionRecord) bool {
				if record.Amount > pool.MaxContribution {
					broken = append(broken, fmt.Sprintf("pool %s: record %d above max %d", pool.PoolID, record.Amount, pool.MaxContribution))
				}
				next, err := types.CheckedAdd(sum, record.Amount)
				if err != nil {
					overflow = true
					return true
				}
				sum = next
				return false
			})

			switch {
			case overflow:
				broken = append(broken, fmt.Sprintf("pool %s: contributions overflow", pool.PoolID))
			case !pool.Finalized && sum != pool.TotalRaised:
				broken = append(broken, fmt.Sprintf("pool %s: total raised %d, records sum %d", pool.PoolID, pool.TotalRaised, sum))
			case pool.Finalized && sum > pool.TotalRaised:
				broken = append(broken, fmt.Sprintf("pool %s: unclaimed %d above total raised %d", pool.PoolID, sum, pool.TotalRaised))
			}
			return false
		})

		return sdk.FormatInvariant(types.ModuleName, "conservation",
			fmt.Sprintf("%d pools broken\n%s", len(broken), strings.Join(broken, "\n"))), len(broken) > 0
	}
}

// EscrowSolvencyInvariant checks that every custody address holds at least what
// the pool still owes out of it.
func EscrowSolvencyInvariant(k *Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var broken []string

		k.IteratePools(ctx, func(poolAddr sdk.AccAddress, pool *types.Pool) bool {
			owed, err := k.assetOwed(ctx, poolAddr, pool)
			if err != nil {
				broken = append(broken, fmt.Sprintf("pool %s: %v", pool.PoolID, err))
				return false
			}
			if escrow, err := pool.EscrowAddress(); err == nil {
				if held := k.gateway.balance(ctx, escrow, pool.AssetDenom); held.LT(math.NewIntFromUint64(owed)) {
					broken = append(broken, fmt.Sprintf("pool %s: escrow holds %s%s, owes %d", pool.PoolID, held, pool.AssetDenom, owed))
				}
			}
			if !pool.Finalized {
				if vault, err := pool.FundVaultAddress(); err == nil {
					if held := k.gateway.balance(ctx, vault, pool.RaiseDenom); held.LT(math.NewIntFromUint64(pool.TotalRaised)) {
						broken = append(broken, fmt.Sprintf("pool %s: fund vault holds %s%s, raised %d", pool.PoolID, held, pool.RaiseDenom, pool.TotalRaised))
					}
				}
			}
			return false
		})

		return sdk.FormatInvariant(types.ModuleName, "escrow-solvency",
			fmt.Sprintf("%d pools broken\n%s", len(broken), strings.Join(broken, "\n"))), len(broken) > 0
	}
}

// assetOwed is the asset the escrow must still pay out: the full supply before
// finalize, then outstanding claims plus any unsold supply not yet withdrawn.
func (k *Keeper) assetOwed(ctx sdk.Context, poolAddr sdk.AccAddress, pool *types.Pool) (uint64, error) {
	if !pool.Finalized {
		return pool.TotalSupply, nil
	}

	var owed uint64
	var err error
	k.IteratePoolContributions(ctx, poolAddr, func(_ sdk.AccAddress, record types.ContributionRecord) bool {
		var tokens uint64
		if tokens, err = types.TokensForContribution(record.Amount, pool.UnitPrice); err != nil {
			return true
		}
		if owed, err = types.CheckedAdd(owed, tokens); err != nil {
			return true
		}
		return false
	})
	if err != nil {
		return 0, err
	}

	if !pool.UnsoldWithdrawn {
		unsold, err := pool.UnsoldSupply()
		if err != nil {
			return 0, err
		}
		return types.CheckedAdd(owed, unsold)
	}
	return owed, nil
}
