package keeper

import (
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/openalpha/launchpad/x/launchpad/types"
)

type routeRecorder struct {
	routes []string
}

func (r *routeRecorder) RegisterRoute(moduleName, route string, _ sdk.Invariant) {
	r.routes = append(r.routes, moduleName+"/"+route)
}

func TestRegisterInvariants(t *testing.T) {
	f := setupKeeper(t)
	ir := &routeRecorder{}
	RegisterInvariants(ir, f.keeper)

	require.Equal(t, []string{
		types.ModuleName + "/conservation",
		types.ModuleName + "/escrow-solvency",
	}, ir.routes)
}

func TestConservationInvariantDetectsDrift(t *testing.T) {
	f := setupKeeper(t)
	participant := testAddr(2)
	pool := f.createPool(t, testAddr(1), defaultPoolParams())
	f.bank.mint(participant, testRaise, 100)

	ctx := f.at(windowT + 10)
	_, _, err := f.keeper.Contribute(ctx, participant.String(), pool.PoolID, 100)
	require.NoError(t, err)

	_, broken := ConservationInvariant(f.keeper)(ctx)
	require.False(t, broken)

	// A running total that disagrees with the records must be reported
	poolAddr, stored, err := f.keeper.loadPool(ctx, pool.PoolID)
	require.NoError(t, err)
	stored.TotalRaised++
	f.keeper.SetPool(ctx, poolAddr, stored)

	msg, broken := ConservationInvariant(f.keeper)(ctx)
	require.True(t, broken, msg)
}
