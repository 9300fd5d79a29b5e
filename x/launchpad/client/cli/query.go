package cli

import (
	"encoding/json"
	"fmt"
	"time"

	abci "github.com/cometbft/cometbft/abci/types"
	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/kv"

	"github.com/openalpha/launchpad/x/launchpad/types"
)

// PoolInfo is a CLI-friendly pool view
type PoolInfo struct {
	*types.Pool
	Phase  string `json:"phase"`
	Height int64  `json:"height"`
}

// ClaimInfo is a CLI-friendly claim estimate
type ClaimInfo struct {
	PoolID      string `json:"pool_id"`
	Participant string `json:"participant"`
	Amount      uint64 `json:"amount"`
	TokenAmount uint64 `json:"token_amount"`
	Claimable   bool   `json:"claimable"`
}

// DerivedPool lists the addresses a pool would occupy
type DerivedPool struct {
	PoolID    string `json:"pool_id"`
	Escrow    string `json:"escrow"`
	FundVault string `json:"fund_vault"`
}

// GetQueryCmd returns the cli query commands for the launchpad module
func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Querying commands for the launchpad module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdQueryPool(),
		CmdQueryPools(),
		CmdQueryContribution(),
		CmdQueryClaimable(),
		CmdDerivePool(),
	)

	return cmd
}

// CmdQueryPool returns the command to query a pool
func CmdQueryPool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool [pool-id]",
		Short: "Query a pool and its current phase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			pool, height, err := fetchPool(clientCtx, args[0])
			if err != nil {
				return err
			}

			return printJSON(PoolInfo{
				Pool:   pool,
				Phase:  pool.Phase(time.Now().Unix()).String(),
				Height: height,
			})
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryPools returns the command to list every pool
func CmdQueryPools() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pools",
		Short: "List all pools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			resp, err := clientCtx.QueryABCI(abci.RequestQuery{
				Path: fmt.Sprintf("/store/%s/subspace", types.StoreKey),
				Data: types.PoolKeyPrefix,
			})
			if err != nil {
				return err
			}
			var pairs kv.Pairs
			if err := pairs.Unmarshal(resp.Value); err != nil {
				return fmt.Errorf("decode subspace: %w", err)
			}

			now := time.Now().Unix()
			pools := make([]PoolInfo, 0, len(pairs.Pairs))
			for _, pair := range pairs.Pairs {
				var pool types.Pool
				if err := json.Unmarshal(pair.Value, &pool); err != nil {
					return fmt.Errorf("decode pool: %w", err)
				}
				pools = append(pools, PoolInfo{Pool: &pool, Phase: pool.Phase(now).String()})
			}

			return printJSON(pools)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryContribution returns the command to query a contribution record
func CmdQueryContribution() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contribution [pool-id] [participant]",
		Short: "Query a participant's unclaimed contribution to a pool",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			record, err := fetchContribution(clientCtx, args[0], args[1])
			if err != nil {
				return err
			}

			return printJSON(types.Contribution{
				PoolID:      args[0],
				Participant: args[1],
				Amount:      record.Amount,
			})
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryClaimable returns the command to estimate a claim
func CmdQueryClaimable() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claimable [pool-id] [participant]",
		Short: "Estimate the asset units a claim would pay",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			pool, _, err := fetchPool(clientCtx, args[0])
			if err != nil {
				return err
			}
			record, err := fetchContribution(clientCtx, args[0], args[1])
			if err != nil {
				return err
			}
			tokens, err := types.TokensForContribution(record.Amount, pool.UnitPrice)
			if err != nil {
				return err
			}

			return printJSON(ClaimInfo{
				PoolID:      args[0],
				Participant: args[1],
				Amount:      record.Amount,
				TokenAmount: tokens,
				Claimable:   pool.Finalized && record.IsClaimable(),
			})
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdDerivePool returns the command to compute pool addresses offline
func CmdDerivePool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "derive-pool [authority] [asset-denom]",
		Short: "Compute the pool id and custody addresses for an authority and asset",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			authority, err := sdk.AccAddressFromBech32(args[0])
			if err != nil {
				return fmt.Errorf("invalid authority: %w", err)
			}
			poolAddr, _, err := types.DerivePoolAddress(authority, args[1])
			if err != nil {
				return err
			}
			escrow, err := types.DeriveEscrowAddress(poolAddr)
			if err != nil {
				return err
			}
			vault, err := types.DeriveFundVaultAddress(poolAddr)
			if err != nil {
				return err
			}

			return printJSON(DerivedPool{
				PoolID:    types.PoolIDFromAddress(poolAddr),
				Escrow:    escrow.String(),
				FundVault: vault.String(),
			})
		},
	}

	return cmd
}

func fetchPool(clientCtx client.Context, poolID string) (*types.Pool, int64, error) {
	poolAddr, err := types.PoolAddressFromID(poolID)
	if err != nil {
		return nil, 0, err
	}
	bz, height, err := clientCtx.QueryStore(types.PoolKey(poolAddr), types.StoreKey)
	if err != nil {
		return nil, 0, err
	}
	if len(bz) == 0 {
		return nil, height, types.ErrPoolNotFound.Wrapf("pool %s", poolID)
	}
	var pool types.Pool
	if err := json.Unmarshal(bz, &pool); err != nil {
		return nil, height, fmt.Errorf("decode pool: %w", err)
	}
	return &pool, height, nil
}

func fetchContribution(clientCtx client.Context, poolID, participant string) (types.ContributionRecord, error) {
	poolAddr, err := types.PoolAddressFromID(poolID)
	if err != nil {
		return types.ContributionRecord{}, err
	}
	participantAddr, err := sdk.AccAddressFromBech32(participant)
	if err != nil {
		return types.ContributionRecord{}, fmt.Errorf("invalid participant: %w", err)
	}
	bz, _, err := clientCtx.QueryStore(types.ContributionKey(poolAddr, participantAddr), types.StoreKey)
	if err != nil {
		return types.ContributionRecord{}, err
	}
	var record types.ContributionRecord
	if len(bz) == 0 {
		return record, nil
	}
	if err := json.Unmarshal(bz, &record); err != nil {
		return record, fmt.Errorf("decode contribution: %w", err)
	}
	return record, nil
}

func printJSON(v interface{}) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}
