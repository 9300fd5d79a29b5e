package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/tx"

	"github.com/openalpha/launchpad/x/launchpad/types"
)

const (
	FlagMinContribution = "min-contribution"
	FlagMaxContribution = "max-contribution"
)

// unroutableNote is appended to every tx command's help. The launchpad messages
// have no protobuf service, so BaseApp's router rejects them; the commands build
// and sign transactions for offline inspection only.
const unroutableNote = `

NOTE: launchpad messages are not routable by the chain's message router yet.
A broadcast transaction carrying this message is rejected with an unknown
message error; use --generate-only to inspect the unsigned transaction.`

// GetTxCmd returns the transaction commands for the launchpad module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Launchpad module transaction commands",
		Long:                       "Launchpad module transaction commands." + unroutableNote,
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdCreatePool(),
		CmdContribute(),
		CmdFinalizePool(),
		CmdClaim(),
		CmdWithdrawUnsold(),
	)

	return cmd
}

// CmdCreatePool returns the command to create a pool
func CmdCreatePool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-pool [asset-denom] [start] [end] [total-supply] [unit-price]",
		Short: "Create a pool and escrow the full asset supply",
		Long: `Create a pool selling total-supply units of asset-denom between start and end.
Times are unix seconds or RFC3339. unit-price is the raise currency per asset unit
scaled by 1e9, so 1000000000 sells one asset unit per unit of raise currency.` + unroutableNote,
		Args: cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			start, err := parseTime(args[1])
			if err != nil {
				return fmt.Errorf("invalid start: %w", err)
			}
			end, err := parseTime(args[2])
			if err != nil {
				return fmt.Errorf("invalid end: %w", err)
			}
			supply, err := strconv.ParseUint(args[3], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid total supply: %w", err)
			}
			price, err := strconv.ParseUint(args[4], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid unit price: %w", err)
			}
			minContribution, err := cmd.Flags().GetUint64(FlagMinContribution)
			if err != nil {
				return err
			}
			maxContribution, err := cmd.Flags().GetUint64(FlagMaxContribution)
			if err != nil {
				return err
			}
			if maxContribution == 0 {
				maxContribution = supply
			}

			msg := &types.MsgCreatePool{
				Authority:       clientCtx.GetFromAddress().String(),
				AssetDenom:      args[0],
				StartTime:       start,
				EndTime:         end,
				TotalSupply:     supply,
				UnitPrice:       price,
				MinContribution: minContribution,
				MaxContribution: maxContribution,
			}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	cmd.Flags().Uint64(FlagMinContribution, 0, "Smallest amount accepted per contribution")
	cmd.Flags().Uint64(FlagMaxContribution, 0, "Cap on one participant's cumulative contribution (defaults to the total supply)")
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdContribute returns the command to contribute to a pool
func CmdContribute() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contribute [pool-id] [amount]",
		Short: "Contribute raise currency to an open pool",
		Long:  "Contribute raise currency to an open pool." + unroutableNote,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			amount, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid amount: %w", err)
			}

			msg := &types.MsgContribute{
				Participant: clientCtx.GetFromAddress().String(),
				PoolID:      args[0],
				Amount:      amount,
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdFinalizePool returns the command to finalize an ended pool
func CmdFinalizePool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finalize [pool-id]",
		Short: "Finalize an ended pool and collect the raised funds",
		Long:  "Finalize an ended pool and collect the raised funds." + unroutableNote,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgFinalizePool{
				Authority: clientCtx.GetFromAddress().String(),
				PoolID:    args[0],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdClaim returns the command to claim purchased asset units
func CmdClaim() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claim [pool-id]",
		Short: "Claim asset units for your contribution to a finalized pool",
		Long:  "Claim asset units for your contribution to a finalized pool." + unroutableNote,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgClaim{
				Participant: clientCtx.GetFromAddress().String(),
				PoolID:      args[0],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdWithdrawUnsold returns the command to recover unsold supply
func CmdWithdrawUnsold() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "withdraw-unsold [pool-id]",
		Short: "Return the unsold asset supply of a finalized pool to its authority",
		Long:  "Return the unsold asset supply of a finalized pool to its authority." + unroutableNote,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgWithdrawUnsold{
				Authority: clientCtx.GetFromAddress().String(),
				PoolID:    args[0],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

func parseTime(s string) (int64, error) {
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return unix, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}
