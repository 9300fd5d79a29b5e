package keeper

import (
	"errors"
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/openalpha/launchpad/x/launchpad/types"
)

func TestInitializePool(t *testing.T) {
	f := setupKeeper(t)
	authority := testAddr(1)
	params := defaultPoolParams()

	pool := f.createPool(t, authority, params)
	require.True(t, hasEvent(f.ctx, types.EventTypePoolCreated))
	require.Equal(t, authority.String(), pool.Authority)
	require.Zero(t, pool.TotalRaised)
	require.False(t, pool.Finalized)

	escrow, err := pool.EscrowAddress()
	require.NoError(t, err)
	require.Equal(t, uint64(1000), f.bank.amount(escrow, testAsset))
	require.Zero(t, f.bank.amount(authority, testAsset))

	poolAddr, _, err := types.DerivePoolAddress(authority, testAsset)
	require.NoError(t, err)
	require.Equal(t, types.PoolIDFromAddress(poolAddr), pool.PoolID)

	// A second pool for the same (authority, asset) collides
	f.bank.mint(authority, testAsset, params.TotalSupply)
	_, err = f.keeper.InitializePool(f.ctx, authority.String(), params)
	require.ErrorIs(t, err, types.ErrDuplicatePool)
	require.Equal(t, uint64(1000), f.bank.amount(authority, testAsset))

	// Same authority, different asset is a different pool
	other := params
	other.AssetDenom = "uother"
	f.bank.mint(authority, "uother", other.TotalSupply)
	otherPool, err := f.keeper.InitializePool(f.ctx, authority.String(), other)
	require.NoError(t, err)
	require.NotEqual(t, pool.PoolID, otherPool.PoolID)
}

func TestInitializePoolInvalidParameters(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *types.PoolParams)
	}{
		{"start equals end", func(p *types.PoolParams) { p.EndTime = p.StartTime }},
		{"start after end", func(p *types.PoolParams) { p.StartTime = p.EndTime + 1 }},
		{"zero supply", func(p *types.PoolParams) { p.TotalSupply = 0 }},
		{"zero price", func(p *types.PoolParams) { p.UnitPrice = 0 }},
		{"zero max", func(p *types.PoolParams) { p.MaxContribution = 0 }},
		{"min above max", func(p *types.PoolParams) { p.MinContribution = p.MaxContribution + 1 }},
		{"bad denom", func(p *types.PoolParams) { p.AssetDenom = "!" }},
		{"asset is raise currency", func(p *types.PoolParams) { p.AssetDenom = testRaise }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := setupKeeper(t)
			authority := testAddr(1)
			params := defaultPoolParams()
			tc.mutate(&params)
			f.bank.mint(authority, testAsset, 1000)

			_, err := f.keeper.InitializePool(f.ctx, authority.String(), params)
			require.ErrorIs(t, err, types.ErrInvalidParameters)
			require.Empty(t, f.keeper.GetAllPools(f.ctx))
			require.Equal(t, uint64(1000), f.bank.amount(authority, testAsset))
		})
	}
}

func TestInitializePoolInsufficientBalanceLeavesNoPool(t *testing.T) {
	f := setupKeeper(t)
	authority := testAddr(1)
	f.bank.mint(authority, testAsset, 999)

	_, err := f.keeper.InitializePool(f.ctx, authority.String(), defaultPoolParams())
	require.ErrorIs(t, err, types.ErrInsufficientBalance)
	require.Empty(t, f.keeper.GetAllPools(f.ctx))
	require.Zero(t, f.keeper.PendingWindowCloses(f.ctx))
	require.False(t, hasEvent(f.ctx, types.EventTypePoolCreated))
}

func TestContributePreconditions(t *testing.T) {
	f := setupKeeper(t)
	authority, alice := testAddr(1), testAddr(2)
	params := defaultPoolParams()
	params.MinContribution = 10
	params.MaxContribution = 100
	pool := f.createPool(t, authority, params)
	f.bank.mint(alice, testRaise, 10_000)

	_, _, err := f.keeper.Contribute(f.at(windowT-1), alice.String(), pool.PoolID, 50)
	require.ErrorIs(t, err, types.ErrPoolNotStarted)

	_, _, err = f.keeper.Contribute(f.at(windowT+101), alice.String(), pool.PoolID, 50)
	require.ErrorIs(t, err, types.ErrPoolEnded)

	_, _, err = f.keeper.Contribute(f.at(windowT+1), alice.String(), "11111111111111111111111111111111", 50)
	require.ErrorIs(t, err, types.ErrPoolNotFound)

	_, _, err = f.keeper.Contribute(f.at(windowT+1), alice.String(), pool.PoolID, 9)
	require.ErrorIs(t, err, types.ErrBelowMinContribution)

	_, _, err = f.keeper.Contribute(f.at(windowT+1), alice.String(), pool.PoolID, 0)
	require.ErrorIs(t, err, types.ErrInvalidParameters)

	// Window bounds are inclusive
	_, _, err = f.keeper.Contribute(f.at(windowT), alice.String(), pool.PoolID, 60)
	require.NoError(t, err)
	record, updated, err := f.keeper.Contribute(f.at(windowT+100), alice.String(), pool.PoolID, 40)
	require.NoError(t, err)
	require.Equal(t, uint64(100), record.Amount)
	require.Equal(t, uint64(100), updated.TotalRaised)

	// Cumulative cap
	_, _, err = f.keeper.Contribute(f.at(windowT+50), alice.String(), pool.PoolID, 10)
	require.ErrorIs(t, err, types.ErrExceedsMaxContribution)

	fundVault, err := updated.FundVaultAddress()
	require.NoError(t, err)
	require.Equal(t, uint64(100), f.bank.amount(fundVault, testRaise))
	require.Equal(t, uint64(9_900), f.bank.amount(alice, testRaise))
}

func TestContributeRejectsFinalizedPool(t *testing.T) {
	f := setupKeeper(t)
	pool := f.createPool(t, testAddr(1), defaultPoolParams())
	poolAddr, err := pool.Address()
	require.NoError(t, err)

	pool.Finalized = true
	f.keeper.SetPool(f.ctx, poolAddr, pool)
	f.bank.mint(testAddr(2), testRaise, 100)

	_, _, err = f.keeper.Contribute(f.at(windowT+1), testAddr(2).String(), pool.PoolID, 10)
	require.ErrorIs(t, err, types.ErrPoolFinalized)
}

func TestContributeSupplyCap(t *testing.T) {
	f := setupKeeper(t)
	params := defaultPoolParams()
	params.TotalSupply = 100
	params.MaxContribution = 1_000
	pool := f.createPool(t, testAddr(1), params)
	alice, bob := testAddr(2), testAddr(3)
	f.bank.mint(alice, testRaise, 1_000)
	f.bank.mint(bob, testRaise, 1_000)

	_, _, err := f.keeper.Contribute(f.at(windowT+1), alice.String(), pool.PoolID, 80)
	require.NoError(t, err)

	_, _, err = f.keeper.Contribute(f.ctx, bob.String(), pool.PoolID, 21)
	require.ErrorIs(t, err, types.ErrExceedsSupply)

	_, _, err = f.keeper.Contribute(f.ctx, bob.String(), pool.PoolID, 20)
	require.NoError(t, err)
}

func TestContributeInsufficientFundsChangesNothing(t *testing.T) {
	f := setupKeeper(t)
	pool := f.createPool(t, testAddr(1), defaultPoolParams())
	alice := testAddr(2)
	f.bank.mint(alice, testRaise, 5)

	_, _, err := f.keeper.Contribute(f.at(windowT+1), alice.String(), pool.PoolID, 10)
	require.ErrorIs(t, err, types.ErrInsufficientBalance)

	poolAddr, err := pool.Address()
	require.NoError(t, err)
	require.False(t, f.keeper.HasContribution(f.ctx, poolAddr, alice))
	require.Zero(t, f.keeper.GetPool(f.ctx, pool.PoolID).TotalRaised)
}

func TestRunningTotalMatchesRecords(t *testing.T) {
	f := setupKeeper(t)
	pool := f.createPool(t, testAddr(1), defaultPoolParams())
	amounts := map[byte][]uint64{2: {5, 7, 11}, 3: {13}, 4: {1, 1, 1, 1}}

	f.at(windowT + 1)
	var expected uint64
	for b, list := range amounts {
		f.bank.mint(testAddr(b), testRaise, 1_000)
		for _, amt := range list {
			_, _, err := f.keeper.Contribute(f.ctx, testAddr(b).String(), pool.PoolID, amt)
			require.NoError(t, err)
			expected += amt
		}
	}

	poolAddr, err := pool.Address()
	require.NoError(t, err)
	var sum uint64
	for _, c := range f.keeper.GetPoolContributions(f.ctx, poolAddr) {
		sum += c.Amount
	}
	require.Equal(t, expected, sum)
	require.Equal(t, expected, f.keeper.GetPool(f.ctx, pool.PoolID).TotalRaised)

	msg, broken := AllInvariants(f.keeper)(f.ctx)
	require.False(t, broken, msg)
}

func TestFinalizePool(t *testing.T) {
	f := setupKeeper(t)
	authority, alice := testAddr(1), testAddr(2)
	pool := f.createPool(t, authority, defaultPoolParams())
	f.bank.mint(alice, testRaise, 100)

	_, _, err := f.keeper.Contribute(f.at(windowT+1), alice.String(), pool.PoolID, 50)
	require.NoError(t, err)

	_, err = f.keeper.FinalizePool(f.at(windowT+100), authority.String(), pool.PoolID)
	require.ErrorIs(t, err, types.ErrPoolNotEnded)

	_, err = f.keeper.FinalizePool(f.at(windowT+101), alice.String(), pool.PoolID)
	require.ErrorIs(t, err, types.ErrUnauthorized)

	swept, err := f.keeper.FinalizePool(f.ctx, authority.String(), pool.PoolID)
	require.NoError(t, err)
	require.Equal(t, uint64(50), swept)
	require.Equal(t, uint64(50), f.bank.amount(authority, testRaise))
	require.True(t, hasEvent(f.ctx, types.EventTypePoolFinalized))

	_, err = f.keeper.FinalizePool(f.ctx, authority.String(), pool.PoolID)
	require.ErrorIs(t, err, types.ErrPoolFinalized)
}

func TestFinalizeEmptyPoolSkipsTransfer(t *testing.T) {
	f := setupKeeper(t)
	authority := testAddr(1)
	pool := f.createPool(t, authority, defaultPoolParams())
	sends := f.bank.sends

	swept, err := f.keeper.FinalizePool(f.at(windowT+101), authority.String(), pool.PoolID)
	require.NoError(t, err)
	require.Zero(t, swept)
	require.Equal(t, sends, f.bank.sends)
	require.True(t, f.keeper.GetPool(f.ctx, pool.PoolID).Finalized)
}

func TestFinalizeInsolventVaultIsFatal(t *testing.T) {
	f := setupKeeper(t)
	authority, alice := testAddr(1), testAddr(2)
	pool := f.createPool(t, authority, defaultPoolParams())
	f.bank.mint(alice, testRaise, 100)
	_, _, err := f.keeper.Contribute(f.at(windowT+1), alice.String(), pool.PoolID, 50)
	require.NoError(t, err)

	// Drain the vault behind the keeper's back
	vault, err := pool.FundVaultAddress()
	require.NoError(t, err)
	require.NoError(t, f.bank.SendCoins(f.ctx, vault, testAddr(9), sdk.NewCoins(sdk.NewInt64Coin(testRaise, 10))))

	_, err = f.keeper.FinalizePool(f.at(windowT+101), authority.String(), pool.PoolID)
	require.Error(t, err)
	require.True(t, types.IsFatal(err))
	require.ErrorIs(t, err, types.ErrInsufficientBalance)
	require.False(t, f.keeper.GetPool(f.ctx, pool.PoolID).Finalized)

	_, broken := EscrowSolvencyInvariant(f.keeper)(f.ctx)
	require.True(t, broken)
}

func TestClaimLifecycle(t *testing.T) {
	f := setupKeeper(t)
	authority, alice := testAddr(1), testAddr(2)
	pool := f.createPool(t, authority, defaultPoolParams())
	f.bank.mint(alice, testRaise, 100)

	_, _, err := f.keeper.Contribute(f.at(windowT+1), alice.String(), pool.PoolID, 50)
	require.NoError(t, err)

	_, _, err = f.keeper.Claim(f.at(windowT+101), alice.String(), pool.PoolID)
	require.ErrorIs(t, err, types.ErrPoolNotFinalized)

	_, err = f.keeper.FinalizePool(f.ctx, authority.String(), pool.PoolID)
	require.NoError(t, err)

	_, _, err = f.keeper.Claim(f.ctx, testAddr(3).String(), pool.PoolID)
	require.ErrorIs(t, err, types.ErrNoContribution)

	redeemed, tokens, err := f.keeper.Claim(f.ctx, alice.String(), pool.PoolID)
	require.NoError(t, err)
	require.Equal(t, uint64(50), redeemed)
	require.Equal(t, uint64(50), tokens)
	require.Equal(t, uint64(50), f.bank.amount(alice, testAsset))
	require.True(t, hasEvent(f.ctx, types.EventTypeClaim))

	sends := f.bank.sends
	_, _, err = f.keeper.Claim(f.ctx, alice.String(), pool.PoolID)
	require.ErrorIs(t, err, types.ErrNoContribution)
	require.Equal(t, sends, f.bank.sends)
	require.Equal(t, uint64(50), f.bank.amount(alice, testAsset))
}

func TestClaimRedemptionAtPrice(t *testing.T) {
	f := setupKeeper(t)
	authority, alice := testAddr(1), testAddr(2)
	params := defaultPoolParams()
	params.UnitPrice = 2 * types.AssetScale
	params.TotalSupply = 10_000_000_000
	params.MaxContribution = 10_000_000_000
	pool := f.createPool(t, authority, params)
	f.bank.mint(alice, testRaise, 5_000_000_000)

	_, _, err := f.keeper.Contribute(f.at(windowT+1), alice.String(), pool.PoolID, 5_000_000_000)
	require.NoError(t, err)
	_, err = f.keeper.FinalizePool(f.at(windowT+101), authority.String(), pool.PoolID)
	require.NoError(t, err)

	estimate, claimable, err := NewQueryServerImpl(f.keeper).EstimateClaim(f.ctx, pool.PoolID, alice.String())
	require.NoError(t, err)
	require.True(t, claimable)
	require.Equal(t, uint64(2_500_000_000), estimate)

	_, tokens, err := f.keeper.Claim(f.ctx, alice.String(), pool.PoolID)
	require.NoError(t, err)
	require.Equal(t, uint64(2_500_000_000), tokens)
}

func TestClaimTransferFailureIsRetryable(t *testing.T) {
	f := setupKeeper(t)
	authority, alice := testAddr(1), testAddr(2)
	pool := f.createPool(t, authority, defaultPoolParams())
	f.bank.mint(alice, testRaise, 100)

	_, _, err := f.keeper.Contribute(f.at(windowT+1), alice.String(), pool.PoolID, 40)
	require.NoError(t, err)
	_, err = f.keeper.FinalizePool(f.at(windowT+101), authority.String(), pool.PoolID)
	require.NoError(t, err)

	f.bank.failSends = errors.New("bank halted")
	_, _, err = f.keeper.Claim(f.ctx, alice.String(), pool.PoolID)
	require.ErrorIs(t, err, types.ErrTransferFailed)
	require.False(t, types.IsFatal(err))

	poolAddr, err := pool.Address()
	require.NoError(t, err)
	require.Equal(t, uint64(40), f.keeper.GetContribution(f.ctx, poolAddr, alice).Amount)

	f.bank.failSends = nil
	_, tokens, err := f.keeper.Claim(f.ctx, alice.String(), pool.PoolID)
	require.NoError(t, err)
	require.Equal(t, uint64(40), tokens)
	require.Zero(t, f.keeper.GetContribution(f.ctx, poolAddr, alice).Amount)
}

func TestClaimZeroTokenAmountStillZeroesRecord(t *testing.T) {
	f := setupKeeper(t)
	authority, alice := testAddr(1), testAddr(2)
	params := defaultPoolParams()
	params.UnitPrice = 10 * types.AssetScale
	pool := f.createPool(t, authority, params)
	f.bank.mint(alice, testRaise, 100)

	_, _, err := f.keeper.Contribute(f.at(windowT+1), alice.String(), pool.PoolID, 5)
	require.NoError(t, err)
	_, err = f.keeper.FinalizePool(f.at(windowT+101), authority.String(), pool.PoolID)
	require.NoError(t, err)

	sends := f.bank.sends
	redeemed, tokens, err := f.keeper.Claim(f.ctx, alice.String(), pool.PoolID)
	require.NoError(t, err)
	require.Equal(t, uint64(5), redeemed)
	require.Zero(t, tokens)
	require.Equal(t, sends, f.bank.sends)

	_, _, err = f.keeper.Claim(f.ctx, alice.String(), pool.PoolID)
	require.ErrorIs(t, err, types.ErrNoContribution)
}

func TestConcreteScenario(t *testing.T) {
	f := setupKeeper(t)
	authority, alice := testAddr(1), testAddr(2)
	params := types.PoolParams{
		AssetDenom:      testAsset,
		StartTime:       windowT,
		EndTime:         windowT + 100,
		TotalSupply:     1000,
		UnitPrice:       1_000_000_000,
		MinContribution: 0,
		MaxContribution: 1000,
	}
	pool := f.createPool(t, authority, params)
	f.bank.mint(alice, testRaise, 50)

	_, _, err := f.keeper.Contribute(f.at(windowT+1), alice.String(), pool.PoolID, 50)
	require.NoError(t, err)

	swept, err := f.keeper.FinalizePool(f.at(windowT+101), authority.String(), pool.PoolID)
	require.NoError(t, err)
	require.Equal(t, uint64(50), swept)
	require.Equal(t, uint64(50), f.bank.amount(authority, testRaise))

	_, tokens, err := f.keeper.Claim(f.ctx, alice.String(), pool.PoolID)
	require.NoError(t, err)
	require.Equal(t, uint64(50), tokens)
	require.Equal(t, uint64(50), f.bank.amount(alice, testAsset))

	_, _, err = f.keeper.Claim(f.ctx, alice.String(), pool.PoolID)
	require.ErrorIs(t, err, types.ErrNoContribution)

	msg, broken := AllInvariants(f.keeper)(f.ctx)
	require.False(t, broken, msg)
}

func TestWithdrawUnsold(t *testing.T) {
	f := setupKeeper(t)
	authority, alice := testAddr(1), testAddr(2)
	pool := f.createPool(t, authority, defaultPoolParams())
	f.bank.mint(alice, testRaise, 300)

	_, _, err := f.keeper.Contribute(f.at(windowT+1), alice.String(), pool.PoolID, 300)
	require.NoError(t, err)

	_, err = f.keeper.WithdrawUnsold(f.ctx, authority.String(), pool.PoolID)
	require.ErrorIs(t, err, types.ErrPoolNotFinalized)

	_, err = f.keeper.FinalizePool(f.at(windowT+101), authority.String(), pool.PoolID)
	require.NoError(t, err)

	_, err = f.keeper.WithdrawUnsold(f.ctx, alice.String(), pool.PoolID)
	require.ErrorIs(t, err, types.ErrUnauthorized)

	unsold, err := f.keeper.WithdrawUnsold(f.ctx, authority.String(), pool.PoolID)
	require.NoError(t, err)
	require.Equal(t, uint64(700), unsold)
	require.Equal(t, uint64(700), f.bank.amount(authority, testAsset))

	_, err = f.keeper.WithdrawUnsold(f.ctx, authority.String(), pool.PoolID)
	require.ErrorIs(t, err, types.ErrUnsoldAlreadyWithdrawn)

	// Claims are still fully backed
	_, tokens, err := f.keeper.Claim(f.ctx, alice.String(), pool.PoolID)
	require.NoError(t, err)
	require.Equal(t, uint64(300), tokens)

	escrow, err := pool.EscrowAddress()
	require.NoError(t, err)
	require.Zero(t, f.bank.amount(escrow, testAsset))

	msg, broken := AllInvariants(f.keeper)(f.ctx)
	require.False(t, broken, msg)
}

func TestRejectionsAreRecorded(t *testing.T) {
	f := setupKeeper(t)
	m := &recordingMetrics{}
	f.keeper.SetMetrics(m)
	pool := f.createPool(t, testAddr(1), defaultPoolParams())

	_, _, err := f.keeper.Claim(f.ctx, testAddr(2).String(), pool.PoolID)
	require.ErrorIs(t, err, types.ErrPoolNotFinalized)
	require.Equal(t, 1, m.rejections[types.TypeMsgClaim+"/state"])
}
