package keeper

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openalpha/launchpad/x/launchpad/types"
)

func TestEndBlockerAnnouncesClosedWindows(t *testing.T) {
	f := setupKeeper(t)
	m := &recordingMetrics{}
	f.keeper.SetMetrics(m)

	early := defaultPoolParams()
	late := defaultPoolParams()
	late.AssetDenom = "ulate"
	late.EndTime = windowT + 500

	earlyPool := f.createPool(t, testAddr(1), early)
	f.createPool(t, testAddr(1), late)
	require.Equal(t, 2, f.keeper.PendingWindowCloses(f.ctx))

	// Still open at the end time itself
	require.NoError(t, f.keeper.EndBlocker(f.at(windowT+100)))
	require.False(t, hasEvent(f.ctx, types.EventTypeWindowClosed))

	require.NoError(t, f.keeper.EndBlocker(f.at(windowT+101)))
	require.True(t, hasEvent(f.ctx, types.EventTypeWindowClosed))
	require.Equal(t, []string{earlyPool.PoolID}, m.closed)
	require.Equal(t, 1, f.keeper.PendingWindowCloses(f.ctx))

	// Announced once
	require.NoError(t, f.keeper.EndBlocker(f.at(windowT+102)))
	require.False(t, hasEvent(f.ctx, types.EventTypeWindowClosed))

	require.NoError(t, f.keeper.EndBlocker(f.at(windowT+10_000)))
	require.Len(t, m.closed, 2)
	require.Zero(t, f.keeper.PendingWindowCloses(f.ctx))
}

func TestGenesisRoundTrip(t *testing.T) {
	f := setupKeeper(t)
	authority, alice, bob := testAddr(1), testAddr(2), testAddr(3)
	pool := f.createPool(t, authority, defaultPoolParams())
	f.bank.mint(alice, testRaise, 100)
	f.bank.mint(bob, testRaise, 100)

	_, _, err := f.keeper.Contribute(f.at(windowT+1), alice.String(), pool.PoolID, 30)
	require.NoError(t, err)
	_, _, err = f.keeper.Contribute(f.ctx, bob.String(), pool.PoolID, 20)
	require.NoError(t, err)

	exported := f.keeper.ExportGenesis(f.ctx)
	require.NoError(t, exported.Validate())
	require.Len(t, exported.Pools, 1)
	require.Len(t, exported.Contributions, 2)

	g := setupKeeper(t)
	require.NoError(t, g.keeper.InitGenesis(g.ctx, *exported))
	require.Equal(t, exported, g.keeper.ExportGenesis(g.ctx))
	require.Equal(t, 1, g.keeper.PendingWindowCloses(g.ctx))

	poolAddr, err := pool.Address()
	require.NoError(t, err)
	require.Equal(t, uint64(30), g.keeper.GetContribution(g.ctx, poolAddr, alice).Amount)
}

func TestInitGenesisRejectsMismatchedTotals(t *testing.T) {
	f := setupKeeper(t)
	pool := f.createPool(t, testAddr(1), defaultPoolParams())

	gs := types.DefaultGenesis()
	gs.Pools = append(gs.Pools, *pool)
	gs.Contributions = append(gs.Contributions, types.Contribution{
		PoolID:      pool.PoolID,
		Participant: testAddr(2).String(),
		Amount:      10,
	})

	g := setupKeeper(t)
	require.Error(t, g.keeper.InitGenesis(g.ctx, *gs))
}

func TestInitGenesisRejectsForeignCustody(t *testing.T) {
	f := setupKeeper(t)
	pool := f.createPool(t, testAddr(1), defaultPoolParams())

	foreign := *pool
	foreign.Escrow = testAddr(9).String()
	gs := types.DefaultGenesis()
	gs.Pools = append(gs.Pools, foreign)

	g := setupKeeper(t)
	require.Error(t, g.keeper.InitGenesis(g.ctx, *gs))
	require.Nil(t, g.keeper.GetPool(g.ctx, pool.PoolID))
}

func TestMsgServerRoutesLifecycle(t *testing.T) {
	f := setupKeeper(t)
	srv := NewMsgServerImpl(f.keeper)
	authority, alice := testAddr(1), testAddr(2)
	f.bank.mint(authority, testAsset, 1000)
	f.bank.mint(alice, testRaise, 100)

	params := defaultPoolParams()
	created, err := srv.CreatePool(f.at(windowT-1), &types.MsgCreatePool{
		Authority:       authority.String(),
		AssetDenom:      params.AssetDenom,
		StartTime:       params.StartTime,
		EndTime:         params.EndTime,
		TotalSupply:     params.TotalSupply,
		UnitPrice:       params.UnitPrice,
		MinContribution: params.MinContribution,
		MaxContribution: params.MaxContribution,
	})
	require.NoError(t, err)

	contributed, err := srv.Contribute(f.at(windowT+1), &types.MsgContribute{
		Participant: alice.String(),
		PoolID:      created.PoolID,
		Amount:      25,
	})
	require.NoError(t, err)
	require.Equal(t, uint64(25), contributed.TotalContributed)
	require.Equal(t, uint64(25), contributed.PoolTotalRaised)

	_, err = srv.Contribute(f.ctx, &types.MsgContribute{Participant: alice.String(), PoolID: created.PoolID})
	require.ErrorIs(t, err, types.ErrInvalidParameters)

	finalized, err := srv.FinalizePool(f.at(windowT+101), &types.MsgFinalizePool{
		Authority: authority.String(),
		PoolID:    created.PoolID,
	})
	require.NoError(t, err)
	require.Equal(t, uint64(25), finalized.AmountSwept)

	claimed, err := srv.Claim(f.ctx, &types.MsgClaim{Participant: alice.String(), PoolID: created.PoolID})
	require.NoError(t, err)
	require.Equal(t, uint64(25), claimed.TokenAmount)

	withdrawn, err := srv.WithdrawUnsold(f.ctx, &types.MsgWithdrawUnsold{
		Authority: authority.String(),
		PoolID:    created.PoolID,
	})
	require.NoError(t, err)
	require.Equal(t, uint64(975), withdrawn.TokenAmount)
}

func TestQueryServer(t *testing.T) {
	f := setupKeeper(t)
	q := NewQueryServerImpl(f.keeper)
	authority, alice := testAddr(1), testAddr(2)

	poolID, escrow, vault, err := q.DerivePool(authority.String(), testAsset)
	require.NoError(t, err)

	pool := f.createPool(t, authority, defaultPoolParams())
	require.Equal(t, poolID, pool.PoolID)
	require.Equal(t, escrow, pool.Escrow)
	require.Equal(t, vault, pool.FundVault)

	got, phase, err := q.Pool(f.at(windowT+1), pool.PoolID)
	require.NoError(t, err)
	require.Equal(t, pool.PoolID, got.PoolID)
	require.Equal(t, types.PhaseOpen, phase)

	_, err = q.Contribution(f.ctx, pool.PoolID, alice.String())
	require.ErrorIs(t, err, types.ErrNoContribution)

	f.bank.mint(alice, testRaise, 10)
	_, _, err = f.keeper.Contribute(f.ctx, alice.String(), pool.PoolID, 10)
	require.NoError(t, err)

	record, err := q.Contribution(f.ctx, pool.PoolID, alice.String())
	require.NoError(t, err)
	require.Equal(t, uint64(10), record.Amount)

	list, total, err := q.PoolContributions(f.ctx, pool.PoolID, 0, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(1), total)
	require.Len(t, list, 1)

	tokens, claimable, err := q.EstimateClaim(f.ctx, pool.PoolID, alice.String())
	require.NoError(t, err)
	require.Equal(t, uint64(10), tokens)
	require.False(t, claimable)

	pools, n, err := q.Pools(f.ctx, 5, 10)
	require.NoError(t, err)
	require.Equal(t, uint64(1), n)
	require.Empty(t, pools)

	require.Equal(t, types.DefaultParams(), q.Params(f.ctx))
}
