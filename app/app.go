package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"cosmossdk.io/core/appmodule"
	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	abci "github.com/cometbft/cometbft/abci/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/baseapp"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/grpc/cmtservice"
	nodeservice "github.com/cosmos/cosmos-sdk/client/grpc/node"
	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/cosmos/cosmos-sdk/codec/address"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/runtime"
	"github.com/cosmos/cosmos-sdk/server/api"
	"github.com/cosmos/cosmos-sdk/server/config"
	servertypes "github.com/cosmos/cosmos-sdk/server/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/module"
	"github.com/cosmos/cosmos-sdk/x/auth"
	authkeeper "github.com/cosmos/cosmos-sdk/x/auth/keeper"
	authtx "github.com/cosmos/cosmos-sdk/x/auth/tx"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"github.com/cosmos/cosmos-sdk/x/bank"
	bankkeeper "github.com/cosmos/cosmos-sdk/x/bank/keeper"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"github.com/cosmos/cosmos-sdk/x/consensus"
	consensusparamkeeper "github.com/cosmos/cosmos-sdk/x/consensus/keeper"
	consensusparamtypes "github.com/cosmos/cosmos-sdk/x/consensus/types"
	"github.com/cosmos/cosmos-sdk/x/genutil"
	genutiltypes "github.com/cosmos/cosmos-sdk/x/genutil/types"
	"github.com/cosmos/cosmos-sdk/x/staking"
	gogoprotograpc "github.com/cosmos/gogoproto/grpc"

	"github.com/openalpha/launchpad/metrics"
	"github.com/openalpha/launchpad/x/launchpad"
	launchpadkeeper "github.com/openalpha/launchpad/x/launchpad/keeper"
	launchpadtypes "github.com/openalpha/launchpad/x/launchpad/types"
)

const (
	Name = "launchpad"

	// endBlockWarnThreshold is the EndBlocker duration above which a warning is logged
	endBlockWarnThreshold = 100 * time.Millisecond
)

var (
	// DefaultNodeHome default home directories for the application daemon
	DefaultNodeHome string

	// ModuleBasics defines the module BasicManager used for codec registration
	ModuleBasics = module.NewBasicManager(
		auth.AppModuleBasic{},
		bank.AppModuleBasic{},
		staking.AppModuleBasic{},
		genutil.NewAppModuleBasic(genutiltypes.DefaultMessageValidator),
		consensus.AppModuleBasic{},
		launchpad.AppModuleBasic{},
	)
)

func init() {
	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	DefaultNodeHome = filepath.Join(userHomeDir, ".launchpad")
}

// App extends an ABCI application
type App struct {
	*baseapp.BaseApp

	legacyAmino       *codec.LegacyAmino
	appCodec          codec.Codec
	interfaceRegistry codectypes.InterfaceRegistry
	txConfig          client.TxConfig

	// Keys
	keys    map[string]*storetypes.KVStoreKey
	tkeys   map[string]*storetypes.TransientStoreKey
	memKeys map[string]*storetypes.MemoryStoreKey

	// SDK Keepers
	ConsensusParamsKeeper consensusparamkeeper.Keeper
	AccountKeeper         authkeeper.AccountKeeper
	BankKeeper            bankkeeper.BaseKeeper

	// Custom module keepers
	LaunchpadKeeper *launchpadkeeper.Keeper

	// Modules that take part in InitChainer, in initialization order
	genesisModules []genesisModule

	cfg     Config
	metrics *metrics.Collector

	// Module Manager
	BasicModuleManager module.BasicManager
}

// genesisModule is the slice of an AppModule that genesis import and export need
type genesisModule interface {
	Name() string
	InitGenesis(ctx sdk.Context, cdc codec.JSONCodec, data json.RawMessage)
	ExportGenesis(ctx sdk.Context, cdc codec.JSONCodec) json.RawMessage
}

// NewApp returns a new App instance
func NewApp(
	logger log.Logger,
	db dbm.DB,
	traceStore io.Writer,
	loadLatest bool,
	appOpts servertypes.AppOptions,
	baseAppOptions ...func(*baseapp.BaseApp),
) *App {
	// Create codec
	encodingConfig := MakeEncodingConfig()
	appCodec := encodingConfig.Codec
	legacyAmino := encodingConfig.Amino
	interfaceRegistry := encodingConfig.InterfaceRegistry

	// Create base app
	bApp := baseapp.NewBaseApp(Name, logger, db, encodingConfig.TxConfig.TxDecoder(), baseAppOptions...)
	bApp.SetCommitMultiStoreTracer(traceStore)
	bApp.SetInterfaceRegistry(interfaceRegistry)

	// Define store keys
	keys := storetypes.NewKVStoreKeys(
		authtypes.StoreKey,
		banktypes.StoreKey,
		launchpadtypes.StoreKey,
		consensusparamtypes.StoreKey,
		ValidatorsStoreKey,
	)
	tkeys := storetypes.NewTransientStoreKeys()
	memKeys := storetypes.NewMemoryStoreKeys()

	app := &App{
		BaseApp:            bApp,
		legacyAmino:        legacyAmino,
		appCodec:           appCodec,
		interfaceRegistry:  interfaceRegistry,
		txConfig:           encodingConfig.TxConfig,
		keys:               keys,
		tkeys:              tkeys,
		memKeys:            memKeys,
		cfg:                ConfigFromAppOptions(appOpts),
		BasicModuleManager: ModuleBasics,
	}

	// Initialize consensus params keeper
	app.ConsensusParamsKeeper = consensusparamkeeper.NewKeeper(
		appCodec,
		runtime.NewKVStoreService(keys[consensusparamtypes.StoreKey]),
		"", // authority - no governance module
		runtime.EventService{},
	)
	bApp.SetParamStore(app.ConsensusParamsKeeper.ParamsStore)

	// Module account permissions
	maccPerms := map[string][]string{
		authtypes.FeeCollectorName: nil,
	}

	// Create address codec
	addrCodec := address.NewBech32Codec(sdk.GetConfig().GetBech32AccountAddrPrefix())

	// Initialize account keeper
	app.AccountKeeper = authkeeper.NewAccountKeeper(
		appCodec,
		runtime.NewKVStoreService(keys[authtypes.StoreKey]),
		authtypes.ProtoBaseAccount,
		maccPerms,
		addrCodec,
		sdk.GetConfig().GetBech32AccountAddrPrefix(),
		"", // authority - no governance module
	)

	// Initialize bank keeper
	// Authority is set to the governance module address for bank operations
	bankAuthority := authtypes.NewModuleAddress("gov").String()
	app.BankKeeper = bankkeeper.NewBaseKeeper(
		appCodec,
		runtime.NewKVStoreService(keys[banktypes.StoreKey]),
		app.AccountKeeper,
		BlockedModuleAccountAddrs(maccPerms),
		bankAuthority,
		logger,
	)

	// Initialize launchpad keeper; pool custody accounts are plain bank balances
	// held under derived addresses
	app.LaunchpadKeeper = launchpadkeeper.NewKeeper(
		appCodec,
		keys[launchpadtypes.StoreKey],
		app.BankKeeper,
		logger,
	)
	if app.cfg.MetricsEnabled() {
		app.metrics = metrics.GetCollector()
		app.LaunchpadKeeper.SetMetrics(app.metrics)
	}

	app.genesisModules = []genesisModule{
		auth.NewAppModule(appCodec, app.AccountKeeper, nil, nil),
		bank.NewAppModule(appCodec, app.BankKeeper, app.AccountKeeper, nil),
		launchpad.NewAppModule(app.LaunchpadKeeper),
	}

	// No-op until the launchpad messages carry a generated service descriptor
	launchpadtypes.RegisterMsgServer(bApp.MsgServiceRouter(), launchpadkeeper.NewMsgServerImpl(app.LaunchpadKeeper))

	// Register QueryServers for SDK modules
	authtypes.RegisterQueryServer(bApp.GRPCQueryRouter(), authkeeper.NewQueryServer(app.AccountKeeper))
	banktypes.RegisterQueryServer(bApp.GRPCQueryRouter(), bankkeeper.NewQuerier(&app.BankKeeper))

	// Mount stores
	app.MountKVStores(keys)
	app.MountTransientStores(tkeys)
	app.MountMemoryStores(memKeys)

	// Initialize and finalize
	app.SetInitChainer(app.InitChainer)
	app.SetBeginBlocker(app.BeginBlocker)
	app.SetEndBlocker(app.EndBlocker)

	if loadLatest {
		if err := app.LoadLatestVersion(); err != nil {
			panic(err)
		}
	}

	return app
}

// Name returns the name of the App
func (app *App) Name() string { return app.BaseApp.Name() }

// Config returns the launchpad section of the app configuration
func (app *App) Config() Config { return app.cfg }

// BeginBlocker executes begin block logic
func (app *App) BeginBlocker(ctx sdk.Context) (sdk.BeginBlock, error) {
	return sdk.BeginBlock{}, nil
}

// EndBlocker executes end block logic with performance metrics
func (app *App) EndBlocker(ctx sdk.Context) (sdk.EndBlock, error) {
	logger := app.Logger()
	blockHeight := ctx.BlockHeight()
	total := metrics.NewTimer()

	// ===========================================
	// Phase 1: Contribution window announcements
	// ===========================================
	windows := metrics.NewTimer()
	if err := app.LaunchpadKeeper.EndBlocker(ctx); err != nil {
		logger.Error("launchpad end blocker failed", "error", err)
	}
	windowMs := windows.ElapsedMs()

	// ===========================================
	// Phase 2: Periodic invariant checks
	// ===========================================
	var invariantMs float64
	if app.cfg.InvariantCheckDue(blockHeight) {
		invariants := metrics.NewTimer()
		app.checkInvariants(ctx)
		invariantMs = invariants.ElapsedMs()
	}

	totalMs := total.ElapsedMs()

	logger.Debug("EndBlocker performance",
		"block", blockHeight,
		"total_ms", totalMs,
		"windows_ms", windowMs,
		"invariants_ms", invariantMs,
	)

	if app.metrics != nil {
		pending := app.LaunchpadKeeper.PendingWindowCloses(ctx)
		app.metrics.UpdateBlockMetrics(blockHeight, pending, totalMs)
	}

	// Warn if EndBlocker takes too long
	if thresholdMs := float64(endBlockWarnThreshold.Milliseconds()); totalMs > thresholdMs {
		logger.Warn("EndBlocker exceeded latency threshold",
			"block", blockHeight,
			"duration_ms", totalMs,
			"threshold_ms", thresholdMs,
		)
	}

	return sdk.EndBlock{}, nil
}

// checkInvariants runs the launchpad invariants and reports broken ones.
// A broken invariant is logged rather than halting the chain.
func (app *App) checkInvariants(ctx sdk.Context) {
	for _, inv := range launchpadkeeper.Invariants(app.LaunchpadKeeper) {
		msg, broken := inv.Check(ctx)
		if !broken {
			continue
		}
		app.Logger().Error("invariant broken",
			"module", launchpadtypes.ModuleName,
			"route", inv.Route,
			"block", ctx.BlockHeight(),
			"details", msg,
		)
		if app.metrics != nil {
			app.metrics.RecordInvariantBroken(inv.Route)
		}
	}
}

// InitChainer initializes the chain
func (app *App) InitChainer(ctx sdk.Context, req *abci.RequestInitChain) (*abci.ResponseInitChain, error) {
	var genesisState map[string]json.RawMessage
	if err := json.Unmarshal(req.AppStateBytes, &genesisState); err != nil {
		return nil, err
	}

	for _, m := range app.genesisModules {
		bz, ok := genesisState[m.Name()]
		if !ok {
			continue
		}
		if err := initModuleGenesis(ctx, app.appCodec, m, bz); err != nil {
			return nil, err
		}
	}

	// If validators are provided in request, use them
	validators := req.Validators
	if len(validators) == 0 {
		validators = genesisValidators(genesisState)
	}

	// Without a staking module the genesis set never changes; keep it for export
	if err := app.saveValidators(ctx, validators); err != nil {
		return nil, err
	}

	return &abci.ResponseInitChain{
		Validators: validators,
	}, nil
}

// initModuleGenesis runs a module's InitGenesis, turning its panic into an error
func initModuleGenesis(ctx sdk.Context, cdc codec.JSONCodec, m genesisModule, bz json.RawMessage) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("init %s genesis: %v", m.Name(), r)
		}
	}()
	m.InitGenesis(ctx, cdc, bz)
	return nil
}

// exportModuleGenesis runs a module's ExportGenesis, turning its panic into an error
func exportModuleGenesis(ctx sdk.Context, cdc codec.JSONCodec, m genesisModule) (bz json.RawMessage, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("export %s genesis: %v", m.Name(), r)
		}
	}()
	return m.ExportGenesis(ctx, cdc), nil
}

// LoadHeight loads a particular height
func (app *App) LoadHeight(height int64) error {
	return app.LoadVersion(height)
}

// LegacyAmino returns the legacy amino codec
func (app *App) LegacyAmino() *codec.LegacyAmino {
	return app.legacyAmino
}

// AppCodec returns the app codec
func (app *App) AppCodec() codec.Codec {
	return app.appCodec
}

// InterfaceRegistry returns the InterfaceRegistry
func (app *App) InterfaceRegistry() codectypes.InterfaceRegistry {
	return app.interfaceRegistry
}

// RegisterAPIRoutes registers all application module routes
func (app *App) RegisterAPIRoutes(apiSvr *api.Server, apiConfig config.APIConfig) {
	clientCtx := apiSvr.ClientCtx
	ModuleBasics.RegisterGRPCGatewayRoutes(clientCtx, apiSvr.GRPCGatewayRouter)
}

// GetKey returns a store key
func (app *App) GetKey(storeKey string) *storetypes.KVStoreKey {
	return app.keys[storeKey]
}

// GetTKey returns a transient store key
func (app *App) GetTKey(storeKey string) *storetypes.TransientStoreKey {
	return app.tkeys[storeKey]
}

// GetMemKey returns a memory store key
func (app *App) GetMemKey(storeKey string) *storetypes.MemoryStoreKey {
	return app.memKeys[storeKey]
}

// TxConfig returns the transaction config
func (app *App) TxConfig() client.TxConfig {
	return app.txConfig
}

// AutoCliOpts returns the autocli options for the app
func (app *App) AutoCliOpts() map[string]appmodule.AppModule {
	return map[string]appmodule.AppModule{}
}

// RegisterTxService implements the Application.RegisterTxService method
func (app *App) RegisterTxService(clientCtx client.Context) {
	authtx.RegisterTxService(app.BaseApp.GRPCQueryRouter(), clientCtx, app.BaseApp.Simulate, app.interfaceRegistry)
}

// RegisterTendermintService implements the Application.RegisterTendermintService method
func (app *App) RegisterTendermintService(clientCtx client.Context) {
	cmtservice.RegisterTendermintService(
		clientCtx,
		app.BaseApp.GRPCQueryRouter(),
		app.interfaceRegistry,
		app.Query,
	)
}

// RegisterNodeService implements the Application.RegisterNodeService method
func (app *App) RegisterNodeService(clientCtx client.Context, cfg config.Config) {
	nodeservice.RegisterNodeService(clientCtx, app.BaseApp.GRPCQueryRouter(), cfg)
}

// RegisterGRPCServer registers the app's gRPC services
func (app *App) RegisterGRPCServer(server gogoprotograpc.Server) {
	// Launchpad exposes no gRPC services
}

// SimulationManager returns the app's simulation manager
func (app *App) SimulationManager() *module.SimulationManager {
	return nil
}

// BlockedModuleAccountAddrs returns module account addresses that should not
// receive coins. Pool escrow and fund vault addresses are derived off-curve
// addresses, not module accounts, so they are never blocked.
func BlockedModuleAccountAddrs(maccPerms map[string][]string) map[string]bool {
	blockedAddrs := make(map[string]bool)
	for acc := range maccPerms {
		blockedAddrs[authtypes.NewModuleAddress(acc).String()] = true
	}
	return blockedAddrs
}
