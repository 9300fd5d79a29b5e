package keeper

import (
	"encoding/json"
	"fmt"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/launchpad/x/launchpad/types"
)

// Metrics receives lifecycle observations from the keeper
type Metrics interface {
	RecordPoolCreated(assetDenom string, totalSupply uint64)
	RecordContribution(poolID string, amount uint64)
	RecordFinalize(poolID string, amountSwept uint64)
	RecordClaim(poolID string, tokenAmount uint64)
	RecordRejection(operation string, kind string)
	RecordWindowClosed(poolID string)
}

type noopMetrics struct{}

func (noopMetrics) RecordPoolCreated(string, uint64)  {}
func (noopMetrics) RecordContribution(string, uint64) {}
func (noopMetrics) RecordFinalize(string, uint64)     {}
func (noopMetrics) RecordClaim(string, uint64)        {}
func (noopMetrics) RecordRejection(string, string)    {}
func (noopMetrics) RecordWindowClosed(string)         {}

// Keeper manages the launchpad module state
type Keeper struct {
	cdc      codec.BinaryCodec
	storeKey storetypes.StoreKey
	gateway  transferGateway
	logger   log.Logger
	metrics  Metrics
}

// NewKeeper creates a new launchpad keeper
func NewKeeper(
	cdc codec.BinaryCodec,
	storeKey storetypes.StoreKey,
	bankKeeper types.BankKeeper,
	logger log.Logger,
) *Keeper {
	return &Keeper{
		cdc:      cdc,
		storeKey: storeKey,
		gateway:  transferGateway{bank: bankKeeper},
		logger:   logger.With("module", "x/"+types.ModuleName),
		metrics:  noopMetrics{},
	}
}

// SetMetrics installs a metrics sink
func (k *Keeper) SetMetrics(m Metrics) {
	if m == nil {
		m = noopMetrics{}
	}
	k.metrics = m
}

// Logger returns the module logger
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// GetStore returns the KVStore
func (k *Keeper) GetStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

// ============ Params ============

// SetParams saves the module parameters
func (k *Keeper) SetParams(ctx sdk.Context, params types.Params) {
	bz, err := json.Marshal(params)
	if err != nil {
		panic(fmt.Errorf("marshal params: %w", err))
	}
	k.GetStore(ctx).Set(types.ParamsKey, bz)
}

// GetParams returns the module parameters, falling back to defaults when none
// are stored or the stored record is corrupt
func (k *Keeper) GetParams(ctx sdk.Context) types.Params {
	bz := k.GetStore(ctx).Get(types.ParamsKey)
	if bz == nil {
		return types.DefaultParams()
	}
	var params types.Params
	if err := json.Unmarshal(bz, &params); err != nil {
		k.logger.Error("corrupt module params, using defaults", "error", err)
		return types.DefaultParams()
	}
	return params
}

// ============ Pool Operations ============

// SetPool saves a pool to the store
func (k *Keeper) SetPool(ctx sdk.Context, poolAddr sdk.AccAddress, pool *types.Pool) {
	bz, err := json.Marshal(pool)
	if err != nil {
		panic(fmt.Errorf("marshal pool %s: %w", pool.PoolID, err))
	}
	k.GetStore(ctx).Set(types.PoolKey(poolAddr), bz)
}

// HasPool reports whether a pool exists at poolAddr
func (k *Keeper) HasPool(ctx sdk.Context, poolAddr sdk.AccAddress) bool {
	return k.GetStore(ctx).Has(types.PoolKey(poolAddr))
}

// GetPoolByAddress retrieves a pool from the store
func (k *Keeper) GetPoolByAddress(ctx sdk.Context, poolAddr sdk.AccAddress) *types.Pool {
	bz := k.GetStore(ctx).Get(types.PoolKey(poolAddr))
	if bz == nil {
		return nil
	}
	var pool types.Pool
	if err := json.Unmarshal(bz, &pool); err != nil {
		k.logger.Error("corrupt pool record", "pool", types.PoolIDFromAddress(poolAddr), "error", err)
		return nil
	}
	return &pool
}

// GetPool retrieves a pool by its ID
func (k *Keeper) GetPool(ctx sdk.Context, poolID string) *types.Pool {
	poolAddr, err := types.PoolAddressFromID(poolID)
	if err != nil {
		return nil
	}
	return k.GetPoolByAddress(ctx, poolAddr)
}

// loadPool resolves a pool ID to its address and record
func (k *Keeper) loadPool(ctx sdk.Context, poolID string) (sdk.AccAddress, *types.Pool, error) {
	poolAddr, err := types.PoolAddressFromID(poolID)
	if err != nil {
		return nil, nil, err
	}
	pool := k.GetPoolByAddress(ctx, poolAddr)
	if pool == nil {
		return nil, nil, types.ErrPoolNotFound.Wrapf("pool %s", poolID)
	}
	return poolAddr, pool, nil
}

// IteratePools calls cb for every pool until cb returns true. Records that fail
// to decode are logged and skipped.
func (k *Keeper) IteratePools(ctx sdk.Context, cb func(poolAddr sdk.AccAddress, pool *types.Pool) (stop bool)) {
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), types.PoolKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		poolAddr := sdk.AccAddress(iterator.Key()[len(types.PoolKeyPrefix):])
		var pool types.Pool
		if err := json.Unmarshal(iterator.Value(), &pool); err != nil {
			k.logger.Error("corrupt pool record", "pool", types.PoolIDFromAddress(poolAddr), "error", err)
			continue
		}
		if cb(poolAddr, &pool) {
			return
		}
	}
}

// GetAllPools returns all pools
func (k *Keeper) GetAllPools(ctx sdk.Context) []*types.Pool {
	var pools []*types.Pool
	k.IteratePools(ctx, func(_ sdk.AccAddress, pool *types.Pool) bool {
		pools = append(pools, pool)
		return false
	})
	return pools
}

// ============ Contribution Operations ============

// SetContribution saves a contribution record. Records are zeroed, never deleted.
func (k *Keeper) SetContribution(ctx sdk.Context, poolAddr, participant sdk.AccAddress, record types.ContributionRecord) {
	bz, err := json.Marshal(record)
	if err != nil {
		panic(fmt.Errorf("marshal contribution: %w", err))
	}
	k.GetStore(ctx).Set(types.ContributionKey(poolAddr, participant), bz)
}

// GetContribution returns the participant's record, or an empty record on first contact
func (k *Keeper) GetContribution(ctx sdk.Context, poolAddr, participant sdk.AccAddress) types.ContributionRecord {
	bz := k.GetStore(ctx).Get(types.ContributionKey(poolAddr, participant))
	if bz == nil {
		return types.ContributionRecord{}
	}
	var record types.ContributionRecord
	if err := json.Unmarshal(bz, &record); err != nil {
		k.logger.Error("corrupt contribution record",
			"pool", types.PoolIDFromAddress(poolAddr),
			"participant", participant.String(),
			"error", err,
		)
		return types.ContributionRecord{}
	}
	return record
}

// HasContribution reports whether a record was ever created
func (k *Keeper) HasContribution(ctx sdk.Context, poolAddr, participant sdk.AccAddress) bool {
	return k.GetStore(ctx).Has(types.ContributionKey(poolAddr, participant))
}

// IteratePoolContributions calls cb for every record of a pool until cb returns true
func (k *Keeper) IteratePoolContributions(ctx sdk.Context, poolAddr sdk.AccAddress, cb func(participant sdk.AccAddress, record types.ContributionRecord) (stop bool)) {
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), types.PoolContributionsPrefix(poolAddr))
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		participant := types.ParticipantFromContributionKey(poolAddr, iterator.Key())
		if participant == nil {
			continue
		}
		var record types.ContributionRecord
		if err := json.Unmarshal(iterator.Value(), &record); err != nil {
			continue
		}
		if cb(participant, record) {
			return
		}
	}
}

// GetPoolContributions returns every record of a pool, including claimed (zeroed) ones
func (k *Keeper) GetPoolContributions(ctx sdk.Context, poolAddr sdk.AccAddress) []types.Contribution {
	poolID := types.PoolIDFromAddress(poolAddr)
	var contributions []types.Contribution
	k.IteratePoolContributions(ctx, poolAddr, func(participant sdk.AccAddress, record types.ContributionRecord) bool {
		contributions = append(contributions, types.Contribution{
			PoolID:      poolID,
			Participant: participant.String(),
			Amount:      record.Amount,
		})
		return false
	})
	return contributions
}

// ============ Window Close Index ============

func (k *Keeper) setWindowCloseIndex(ctx sdk.Context, endTime int64, poolAddr sdk.AccAddress) {
	k.GetStore(ctx).Set(types.WindowCloseKey(endTime, poolAddr), []byte{0x01})
}

func (k *Keeper) deleteWindowCloseIndex(ctx sdk.Context, endTime int64, poolAddr sdk.AccAddress) {
	k.GetStore(ctx).Delete(types.WindowCloseKey(endTime, poolAddr))
}
