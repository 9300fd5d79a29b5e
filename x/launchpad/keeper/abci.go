package keeper

import (
	"strconv"
	"time"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/launchpad/x/launchpad/types"
)

// EndBlocker announces every pool whose contribution window closed since the
// previous block and drops it from the window index.
func (k *Keeper) EndBlocker(ctx sdk.Context) error {
	start := time.Now()
	now := ctx.BlockTime().Unix()
	store := k.GetStore(ctx)

	type closed struct {
		endTime int64
		pool    sdk.AccAddress
	}
	var due []closed

	iterator := store.Iterator(types.WindowCloseIndexPrefix, types.WindowCloseKey(now, nil))
	for ; iterator.Valid(); iterator.Next() {
		endTime, poolAddr := types.SplitWindowCloseKey(iterator.Key())
		if poolAddr == nil {
			continue
		}
		due = append(due, closed{endTime: endTime, pool: poolAddr})
	}
	iterator.Close()

	for _, c := range due {
		k.deleteWindowCloseIndex(ctx, c.endTime, c.pool)

		pool := k.GetPoolByAddress(ctx, c.pool)
		if pool == nil {
			continue
		}
		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeWindowClosed,
				sdk.NewAttribute(types.AttributeKeyPoolID, pool.PoolID),
				sdk.NewAttribute(types.AttributeKeyEndTime, strconv.FormatInt(pool.EndTime, 10)),
				sdk.NewAttribute(types.AttributeKeyTotalRaised, strconv.FormatUint(pool.TotalRaised, 10)),
				sdk.NewAttribute(types.AttributeKeyBlockHeight, strconv.FormatInt(ctx.BlockHeight(), 10)),
			),
		)
		k.metrics.RecordWindowClosed(pool.PoolID)
	}

	if len(due) > 0 {
		k.logger.Debug("Launchpad EndBlocker completed",
			"block", ctx.BlockHeight(),
			"windows_closed", len(due),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
	return nil
}

// PendingWindowCloses returns the number of pools whose window has not yet been announced
func (k *Keeper) PendingWindowCloses(ctx sdk.Context) int {
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), types.WindowCloseIndexPrefix)
	defer iterator.Close()

	n := 0
	for ; iterator.Valid(); iterator.Next() {
		n++
	}
	return n
}
