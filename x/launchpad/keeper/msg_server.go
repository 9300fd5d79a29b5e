package keeper

import (
	"context"

	"github.com/openalpha/launchpad/x/launchpad/types"
)

var _ types.MsgServer = (*msgServer)(nil)

type msgServer struct {
	Keeper *Keeper
}

// NewMsgServerImpl returns an implementation of the MsgServer interface
func NewMsgServerImpl(keeper *Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

// CreatePool handles the MsgCreatePool message
func (m *msgServer) CreatePool(ctx context.Context, msg *types.MsgCreatePool) (*types.MsgCreatePoolResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	pool, err := m.Keeper.InitializePool(ctx, msg.Authority, msg.PoolParams())
	if err != nil {
		return nil, err
	}

	return &types.MsgCreatePoolResponse{
		PoolID:    pool.PoolID,
		Escrow:    pool.Escrow,
		FundVault: pool.FundVault,
	}, nil
}

// Contribute handles the MsgContribute message
func (m *msgServer) Contribute(ctx context.Context, msg *types.MsgContribute) (*types.MsgContributeResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	record, pool, err := m.Keeper.Contribute(ctx, msg.Participant, msg.PoolID, msg.Amount)
	if err != nil {
		return nil, err
	}

	return &types.MsgContributeResponse{
		TotalContributed: record.Amount,
		PoolTotalRaised:  pool.TotalRaised,
	}, nil
}

// FinalizePool handles the MsgFinalizePool message
func (m *msgServer) FinalizePool(ctx context.Context, msg *types.MsgFinalizePool) (*types.MsgFinalizePoolResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	swept, err := m.Keeper.FinalizePool(ctx, msg.Authority, msg.PoolID)
	if err != nil {
		return nil, err
	}

	return &types.MsgFinalizePoolResponse{AmountSwept: swept}, nil
}

// Claim handles the MsgClaim message
func (m *msgServer) Claim(ctx context.Context, msg *types.MsgClaim) (*types.MsgClaimResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	redeemed, tokenAmount, err := m.Keeper.Claim(ctx, msg.Participant, msg.PoolID)
	if err != nil {
		return nil, err
	}

	return &types.MsgClaimResponse{
		ContributionRedeemed: redeemed,
		TokenAmount:          tokenAmount,
	}, nil
}

// WithdrawUnsold handles the MsgWithdrawUnsold message
func (m *msgServer) WithdrawUnsold(ctx context.Context, msg *types.MsgWithdrawUnsold) (*types.MsgWithdrawUnsoldResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	unsold, err := m.Keeper.WithdrawUnsold(ctx, msg.Authority, msg.PoolID)
	if err != nil {
		return nil, err
	}

	return &types.MsgWithdrawUnsoldResponse{TokenAmount: unsold}, nil
}
