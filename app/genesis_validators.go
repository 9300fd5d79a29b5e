package app

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	abci "github.com/cometbft/cometbft/abci/types"
	"github.com/cometbft/cometbft/crypto/ed25519"
	cmtcrypto "github.com/cometbft/cometbft/proto/tendermint/crypto"
	cmttypes "github.com/cometbft/cometbft/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	bondedStatus          = "BOND_STATUS_BONDED"
	msgCreateValidatorURL = "/cosmos.staking.v1beta1.MsgCreateValidator"
	genesisValidatorPower = 100

	// ValidatorsStoreKey holds the validator set chosen at genesis
	ValidatorsStoreKey = "validators"
)

var validatorSetKey = []byte{0x01}

// storedValidator is the persisted form of one genesis validator
type storedValidator struct {
	PubKey []byte `json:"pub_key"`
	Power  int64  `json:"power"`
}

// StakingGenesisState represents the staking module's genesis state
type StakingGenesisState struct {
	Validators []struct {
		ConsensusPubkey struct {
			Type string `json:"@type"`
			Key  string `json:"key"`
		} `json:"consensus_pubkey"`
		Tokens string `json:"tokens"`
		Status string `json:"status"`
	} `json:"validators"`
}

// GenutilGenesisState represents the genutil module's genesis state
type GenutilGenesisState struct {
	GenTxs []json.RawMessage `json:"gen_txs"`
}

// GenTx represents a genesis transaction
type GenTx struct {
	Body struct {
		Messages []json.RawMessage `json:"messages"`
	} `json:"body"`
}

// MsgCreateValidator represents the create validator message
type MsgCreateValidator struct {
	Type   string `json:"@type"`
	Pubkey struct {
		Type string `json:"@type"`
		Key  string `json:"key"`
	} `json:"pubkey"`
}

// genesisValidators builds the initial validator set. The chain runs without a
// staking keeper, so bonded staking validators are used first and gentxs second.
func genesisValidators(genesisState map[string]json.RawMessage) []abci.ValidatorUpdate {
	if validators := validatorsFromStaking(genesisState["staking"]); len(validators) > 0 {
		return validators
	}
	return validatorsFromGenTxs(genesisState["genutil"])
}

func validatorsFromStaking(bz json.RawMessage) []abci.ValidatorUpdate {
	if len(bz) == 0 {
		return nil
	}
	var state StakingGenesisState
	if err := json.Unmarshal(bz, &state); err != nil {
		return nil
	}

	var validators []abci.ValidatorUpdate
	for _, val := range state.Validators {
		if val.Status != bondedStatus {
			continue
		}
		if update, ok := ed25519Update(val.ConsensusPubkey.Key); ok {
			validators = append(validators, update)
		}
	}
	return validators
}

func validatorsFromGenTxs(bz json.RawMessage) []abci.ValidatorUpdate {
	if len(bz) == 0 {
		return nil
	}
	var state GenutilGenesisState
	if err := json.Unmarshal(bz, &state); err != nil {
		return nil
	}

	var validators []abci.ValidatorUpdate
	for _, raw := range state.GenTxs {
		var genTx GenTx
		if err := json.Unmarshal(raw, &genTx); err != nil {
			continue
		}
		for _, msgRaw := range genTx.Body.Messages {
			var msg MsgCreateValidator
			if err := json.Unmarshal(msgRaw, &msg); err != nil || msg.Type != msgCreateValidatorURL {
				continue
			}
			if update, ok := ed25519Update(msg.Pubkey.Key); ok {
				validators = append(validators, update)
			}
		}
	}
	return validators
}

func ed25519Update(key string) (abci.ValidatorUpdate, bool) {
	pubKeyBytes, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		return abci.ValidatorUpdate{}, false
	}
	return abci.ValidatorUpdate{
		PubKey: cmtcrypto.PublicKey{
			Sum: &cmtcrypto.PublicKey_Ed25519{Ed25519: pubKeyBytes},
		},
		Power: genesisValidatorPower,
	}, true
}

// saveValidators persists the genesis validator set. Only ed25519 keys are
// accepted, matching what genesisValidators produces.
func (app *App) saveValidators(ctx sdk.Context, updates []abci.ValidatorUpdate) error {
	stored := make([]storedValidator, 0, len(updates))
	for _, u := range updates {
		pk := u.PubKey.GetEd25519()
		if len(pk) != ed25519.PubKeySize {
			return fmt.Errorf("genesis validator key is not ed25519")
		}
		stored = append(stored, storedValidator{PubKey: pk, Power: u.Power})
	}
	bz, err := json.Marshal(stored)
	if err != nil {
		return err
	}
	ctx.KVStore(app.keys[ValidatorsStoreKey]).Set(validatorSetKey, bz)
	return nil
}

// loadValidators returns the persisted validator set in CometBFT genesis form
func (app *App) loadValidators(ctx sdk.Context) ([]cmttypes.GenesisValidator, error) {
	bz := ctx.KVStore(app.keys[ValidatorsStoreKey]).Get(validatorSetKey)
	if bz == nil {
		return nil, nil
	}
	var stored []storedValidator
	if err := json.Unmarshal(bz, &stored); err != nil {
		return nil, fmt.Errorf("corrupt validator set: %w", err)
	}

	validators := make([]cmttypes.GenesisValidator, 0, len(stored))
	for _, v := range stored {
		pk := ed25519.PubKey(v.PubKey)
		validators = append(validators, cmttypes.GenesisValidator{
			Address: pk.Address(),
			PubKey:  pk,
			Power:   v.Power,
		})
	}
	return validators, nil
}
