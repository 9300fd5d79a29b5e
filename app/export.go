package app

import (
	"encoding/json"
	"fmt"

	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	servertypes "github.com/cosmos/cosmos-sdk/server/types"
)

// ExportAppStateAndValidators exports the genesis state of every module that
// takes part in InitChainer, at the last committed height. The chain has no
// staking module, so there is no zero-height preparation and no jailing;
// forZeroHeight only resets the reported height.
func (app *App) ExportAppStateAndValidators(
	forZeroHeight bool,
	jailAllowedAddrs []string,
	modulesToExport []string,
) (servertypes.ExportedApp, error) {
	ctx := app.NewContextLegacy(true, cmtproto.Header{Height: app.LastBlockHeight()})

	height := app.LastBlockHeight() + 1
	if forZeroHeight {
		height = 0
	}

	include := make(map[string]bool, len(modulesToExport))
	for _, name := range modulesToExport {
		include[name] = true
	}

	genState := make(map[string]json.RawMessage, len(app.genesisModules))
	for _, m := range app.genesisModules {
		if len(include) > 0 && !include[m.Name()] {
			continue
		}
		bz, err := exportModuleGenesis(ctx, app.appCodec, m)
		if err != nil {
			return servertypes.ExportedApp{}, err
		}
		genState[m.Name()] = bz
	}

	appState, err := json.MarshalIndent(genState, "", "  ")
	if err != nil {
		return servertypes.ExportedApp{}, fmt.Errorf("marshal app state: %w", err)
	}

	validators, err := app.loadValidators(ctx)
	if err != nil {
		return servertypes.ExportedApp{}, err
	}

	return servertypes.ExportedApp{
		AppState:        appState,
		Validators:      validators,
		Height:          height,
		ConsensusParams: app.BaseApp.GetConsensusParams(ctx),
	}, nil
}
