package cmd

import (
	"context"
	"io"
	"os"
	"time"

	"cosmossdk.io/log"
	confixcmd "cosmossdk.io/tools/confix/cmd"
	tmcfg "github.com/cometbft/cometbft/config"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/config"
	"github.com/cosmos/cosmos-sdk/client/debug"
	"github.com/cosmos/cosmos-sdk/client/keys"
	"github.com/cosmos/cosmos-sdk/client/pruning"
	"github.com/cosmos/cosmos-sdk/client/snapshot"
	"github.com/cosmos/cosmos-sdk/server"
	serverconfig "github.com/cosmos/cosmos-sdk/server/config"
	servertypes "github.com/cosmos/cosmos-sdk/server/types"
	"github.com/cosmos/cosmos-sdk/types/module"
	authcli "github.com/cosmos/cosmos-sdk/x/auth/client/cli"
	"github.com/cosmos/cosmos-sdk/x/auth/types"
	"github.com/cosmos/cosmos-sdk/x/crisis"
	genutilcli "github.com/cosmos/cosmos-sdk/x/genutil/client/cli"
	"github.com/spf13/cobra"

	"github.com/openalpha/launchpad/app"
	"github.com/openalpha/launchpad/metrics"
	launchpadcli "github.com/openalpha/launchpad/x/launchpad/client/cli"
)

const (
	appName    = "launchpadd"
	envPrefix  = "LAUNCHPAD"
	appVersion = "v0.1.0"
)

// NewRootCmd creates a new root command for launchpadd
func NewRootCmd() *cobra.Command {
	tempApp := app.NewApp(
		log.NewNopLogger(),
		dbm.NewMemDB(),
		nil,
		false,
		nil,
	)
	encodingConfig := app.MakeEncodingConfig()

	initClientCtx := client.Context{}.
		WithCodec(encodingConfig.Codec).
		WithInterfaceRegistry(encodingConfig.InterfaceRegistry).
		WithTxConfig(encodingConfig.TxConfig).
		WithLegacyAmino(encodingConfig.Amino).
		WithInput(os.Stdin).
		WithAccountRetriever(types.AccountRetriever{}).
		WithHomeDir(app.DefaultNodeHome).
		WithViper(envPrefix)

	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "Launchpad - fixed-price token sale chain",
		Long: `Launchpad runs fixed-price token sale pools on Cosmos SDK.
Authorities escrow a supply, participants contribute inside a time window,
and after finalization every contribution is redeemed at the pool price.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Set the default command outputs
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())

			initClientCtx = initClientCtx.WithCmdContext(cmd.Context())
			initClientCtx, err := client.ReadPersistentCommandFlags(initClientCtx, cmd.Flags())
			if err != nil {
				return err
			}

			initClientCtx, err = config.ReadFromClientConfig(initClientCtx)
			if err != nil {
				return err
			}

			if err := client.SetCmdClientContextHandler(initClientCtx, cmd); err != nil {
				return err
			}

			customAppTemplate, customAppConfig := initAppConfig()
			customCMTConfig := initCometBFTConfig()

			return server.InterceptConfigsPreRunHandler(cmd, customAppTemplate, customAppConfig, customCMTConfig)
		},
	}

	initRootCmd(rootCmd, encodingConfig, tempApp.BasicModuleManager)

	return rootCmd
}

func initRootCmd(rootCmd *cobra.Command, encodingConfig app.EncodingConfig, basicManager module.BasicManager) {
	rootCmd.AddCommand(
		genutilcli.InitCmd(basicManager, app.DefaultNodeHome),
		debug.Cmd(),
		confixcmd.ConfigCommand(),
		pruning.Cmd(newApp, app.DefaultNodeHome),
		snapshot.Cmd(newApp),
	)

	server.AddCommands(rootCmd, app.DefaultNodeHome, newApp, appExport, addModuleInitFlags)

	// Add genesis commands
	genesisCmd := genutilcli.Commands(encodingConfig.TxConfig, basicManager, app.DefaultNodeHome)
	rootCmd.AddCommand(genesisCmd)

	rootCmd.AddCommand(
		queryCommand(),
		txCommand(),
		keys.Commands(),
		VersionCmd(),
	)
}

func queryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "query",
		Aliases:                    []string{"q"},
		Short:                      "Querying subcommands",
		DisableFlagParsing:         false,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}
	cmd.AddCommand(
		authcli.QueryTxsByEventsCmd(),
		authcli.QueryTxCmd(),
		launchpadcli.GetQueryCmd(),
	)
	return cmd
}

func txCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "tx",
		Short:                      "Transactions subcommands",
		DisableFlagParsing:         false,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}
	cmd.AddCommand(
		authcli.GetSignCommand(),
		authcli.GetBroadcastCommand(),
		launchpadcli.GetTxCmd(),
	)
	return cmd
}

func addModuleInitFlags(startCmd *cobra.Command) {
	crisis.AddModuleInitFlags(startCmd)
	startCmd.Flags().String(app.FlagMetricsAddress, "", "Listen address of the launchpad Prometheus endpoint (overrides app.toml)")
	startCmd.Flags().Uint64(app.FlagInvariantCheckPeriod, 0, "Run the launchpad invariants every N blocks (overrides app.toml)")
}

// newApp creates a new Cosmos SDK app and starts the metrics endpoint when configured
func newApp(
	logger log.Logger,
	db dbm.DB,
	traceStore io.Writer,
	appOpts servertypes.AppOptions,
) servertypes.Application {
	baseappOptions := server.DefaultBaseappOptions(appOpts)

	launchpadApp := app.NewApp(
		logger,
		db,
		traceStore,
		true,
		appOpts,
		baseappOptions...,
	)

	if cfg := launchpadApp.Config(); cfg.MetricsEnabled() {
		go func() {
			logger.Info("starting launchpad metrics server", "address", cfg.MetricsAddress)
			if err := metrics.Serve(context.Background(), cfg.MetricsAddress); err != nil {
				logger.Error("launchpad metrics server stopped", "error", err)
			}
		}()
	}

	return launchpadApp
}

// appExport creates a new app (optionally at a given height) and exports state
func appExport(
	logger log.Logger,
	db dbm.DB,
	traceStore io.Writer,
	height int64,
	forZeroHeight bool,
	jailAllowedAddrs []string,
	appOpts servertypes.AppOptions,
	modulesToExport []string,
) (servertypes.ExportedApp, error) {
	// height -1 exports the latest committed state
	launchpadApp := app.NewApp(
		logger,
		db,
		traceStore,
		height == -1,
		appOpts,
	)

	if height != -1 {
		if err := launchpadApp.LoadHeight(height); err != nil {
			return servertypes.ExportedApp{}, err
		}
	}

	return launchpadApp.ExportAppStateAndValidators(forZeroHeight, jailAllowedAddrs, modulesToExport)
}

// CustomAppConfig extends the server config with the launchpad section
type CustomAppConfig struct {
	serverconfig.Config `mapstructure:",squash"`

	Launchpad app.Config `mapstructure:"launchpad"`
}

// initAppConfig returns custom app config template and config
func initAppConfig() (string, interface{}) {
	customAppConfig := CustomAppConfig{
		Config:    *serverconfig.DefaultConfig(),
		Launchpad: app.DefaultConfig(),
	}

	customAppTemplate := serverconfig.DefaultConfigTemplate + app.ConfigTemplate

	return customAppTemplate, customAppConfig
}

// initCometBFTConfig returns the CometBFT config. Contribution windows are
// measured in block time, so blocks are kept at roughly one second.
func initCometBFTConfig() *tmcfg.Config {
	cfg := tmcfg.DefaultConfig()

	cfg.Consensus.TimeoutPropose = time.Second
	cfg.Consensus.TimeoutProposeDelta = 200 * time.Millisecond
	cfg.Consensus.TimeoutPrevote = time.Second
	cfg.Consensus.TimeoutPrevoteDelta = 200 * time.Millisecond
	cfg.Consensus.TimeoutPrecommit = time.Second
	cfg.Consensus.TimeoutPrecommitDelta = 200 * time.Millisecond
	cfg.Consensus.TimeoutCommit = time.Second

	// Sale openings attract bursts of contributions
	cfg.Mempool.Size = 10000
	cfg.Mempool.Recheck = true

	return cfg
}

// VersionCmd returns a command to print the version
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the application version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("Launchpad %s\n", appVersion)
		},
	}
}
