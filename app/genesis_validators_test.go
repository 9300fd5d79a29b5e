package app

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenesisValidatorsFromStaking(t *testing.T) {
	key := base64.StdEncoding.EncodeToString(make([]byte, 32))
	state := map[string]json.RawMessage{
		"staking": json.RawMessage(`{"validators":[
			{"consensus_pubkey":{"key":"` + key + `"},"status":"BOND_STATUS_BONDED"},
			{"consensus_pubkey":{"key":"` + key + `"},"status":"BOND_STATUS_UNBONDED"},
			{"consensus_pubkey":{"key":"!!"},"status":"BOND_STATUS_BONDED"}
		]}`),
	}

	validators := genesisValidators(state)
	require.Len(t, validators, 1)
	require.Equal(t, int64(genesisValidatorPower), validators[0].Power)
}

func TestGenesisValidatorsFromGenTxs(t *testing.T) {
	key := base64.StdEncoding.EncodeToString(make([]byte, 32))
	state := map[string]json.RawMessage{
		"genutil": json.RawMessage(`{"gen_txs":[{"body":{"messages":[
			{"@type":"/cosmos.bank.v1beta1.MsgSend"},
			{"@type":"` + msgCreateValidatorURL + `","pubkey":{"key":"` + key + `"}}
		]}}]}`),
	}

	validators := genesisValidators(state)
	require.Len(t, validators, 1)
	require.Equal(t, make([]byte, 32), validators[0].PubKey.GetEd25519())
}

func TestGenesisValidatorsEmpty(t *testing.T) {
	require.Empty(t, genesisValidators(map[string]json.RawMessage{}))
	require.Empty(t, genesisValidators(map[string]json.RawMessage{
		"staking": json.RawMessage(`not json`),
	}))
}
