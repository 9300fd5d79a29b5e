package types

import (
	"context"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Message types
const (
	TypeMsgCreatePool     = "create_pool"
	TypeMsgContribute     = "contribute"
	TypeMsgFinalizePool   = "finalize_pool"
	TypeMsgClaim          = "claim"
	TypeMsgWithdrawUnsold = "withdraw_unsold"
)

// MsgServer defines the launchpad module's message service
type MsgServer interface {
	CreatePool(context.Context, *MsgCreatePool) (*MsgCreatePoolResponse, error)
	Contribute(context.Context, *MsgContribute) (*MsgContributeResponse, error)
	FinalizePool(context.Context, *MsgFinalizePool) (*MsgFinalizePoolResponse, error)
	Claim(context.Context, *MsgClaim) (*MsgClaimResponse, error)
	WithdrawUnsold(context.Context, *MsgWithdrawUnsold) (*MsgWithdrawUnsoldResponse, error)
}

// MsgCreatePool creates a pool and escrows the issuer's supply
type MsgCreatePool struct {
	Authority       string `json:"authority"`
	AssetDenom      string `json:"asset_denom"`
	StartTime       int64  `json:"start_time"`
	EndTime         int64  `json:"end_time"`
	TotalSupply     uint64 `json:"total_supply"`
	UnitPrice       uint64 `json:"unit_price"`
	MinContribution uint64 `json:"min_contribution"`
	MaxContribution uint64 `json:"max_contribution"`
}

// Route implements sdk.Msg
func (msg MsgCreatePool) Route() string { return RouterKey }

// Type implements sdk.Msg
func (msg MsgCreatePool) Type() string { return TypeMsgCreatePool }

// PoolParams returns the pool parameters carried by the message
func (msg MsgCreatePool) PoolParams() PoolParams {
	return PoolParams{
		AssetDenom:      msg.AssetDenom,
		StartTime:       msg.StartTime,
		EndTime:         msg.EndTime,
		TotalSupply:     msg.TotalSupply,
		UnitPrice:       msg.UnitPrice,
		MinContribution: msg.MinContribution,
		MaxContribution: msg.MaxContribution,
	}
}

// ValidateBasic implements sdk.Msg
func (msg MsgCreatePool) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return errorsmod.Wrapf(ErrInvalidParameters, "invalid authority: %v", err)
	}
	return msg.PoolParams().Validate()
}

// GetSigners implements sdk.Msg
func (msg MsgCreatePool) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgCreatePool) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgCreatePool) Reset() { *msg = MsgCreatePool{} }

// String implements proto.Message
func (msg MsgCreatePool) String() string {
	return fmt.Sprintf("MsgCreatePool{Authority: %s, AssetDenom: %s, Window: [%d, %d], Supply: %d, Price: %d}",
		msg.Authority, msg.AssetDenom, msg.StartTime, msg.EndTime, msg.TotalSupply, msg.UnitPrice)
}

// XXX_MessageName returns the message type URL
func (*MsgCreatePool) XXX_MessageName() string { return "launchpad.v1.MsgCreatePool" }

// MsgCreatePoolResponse defines the CreatePool response
type MsgCreatePoolResponse struct {
	PoolID    string `json:"pool_id"`
	Escrow    string `json:"escrow"`
	FundVault string `json:"fund_vault"`
}

// MsgContribute adds to the sender's contribution in an open pool
type MsgContribute struct {
	Participant string `json:"participant"`
	PoolID      string `json:"pool_id"`
	Amount      uint64 `json:"amount"`
}

// Route implements sdk.Msg
func (msg MsgContribute) Route() string { return RouterKey }

// Type implements sdk.Msg
func (msg MsgContribute) Type() string { return TypeMsgContribute }

// ValidateBasic implements sdk.Msg
func (msg MsgContribute) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Participant); err != nil {
		return errorsmod.Wrapf(ErrInvalidParameters, "invalid participant: %v", err)
	}
	if _, err := PoolAddressFromID(msg.PoolID); err != nil {
		return err
	}
	if msg.Amount == 0 {
		return errorsmod.Wrap(ErrInvalidParameters, "amount must be positive")
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgContribute) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Participant)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgContribute) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgContribute) Reset() { *msg = MsgContribute{} }

// String implements proto.Message
func (msg MsgContribute) String() string {
	return fmt.Sprintf("MsgContribute{Participant: %s, PoolID: %s, Amount: %d}", msg.Participant, msg.PoolID, msg.Amount)
}

// XXX_MessageName returns the message type URL
func (*MsgContribute) XXX_MessageName() string { return "launchpad.v1.MsgContribute" }

// MsgContributeResponse defines the Contribute response
type MsgContributeResponse struct {
	TotalContributed uint64 `json:"total_contributed"`
	PoolTotalRaised  uint64 `json:"pool_total_raised"`
}

// MsgFinalizePool sweeps the raised funds to the pool authority
type MsgFinalizePool struct {
	Authority string `json:"authority"`
	PoolID    string `json:"pool_id"`
}

// Route implements sdk.Msg
func (msg MsgFinalizePool) Route() string { return RouterKey }

// Type implements sdk.Msg
func (msg MsgFinalizePool) Type() string { return TypeMsgFinalizePool }

// ValidateBasic implements sdk.Msg
func (msg MsgFinalizePool) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return errorsmod.Wrapf(ErrInvalidParameters, "invalid authority: %v", err)
	}
	_, err := PoolAddressFromID(msg.PoolID)
	return err
}

// GetSigners implements sdk.Msg
func (msg MsgFinalizePool) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgFinalizePool) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgFinalizePool) Reset() { *msg = MsgFinalizePool{} }

// String implements proto.Message
func (msg MsgFinalizePool) String() string {
	return fmt.Sprintf("MsgFinalizePool{Authority: %s, PoolID: %s}", msg.Authority, msg.PoolID)
}

// XXX_MessageName returns the message type URL
func (*MsgFinalizePool) XXX_MessageName() string { return "launchpad.v1.MsgFinalizePool" }

// MsgFinalizePoolResponse defines the FinalizePool response
type MsgFinalizePoolResponse struct {
	AmountSwept uint64 `json:"amount_swept"`
}

// MsgClaim redeems the sender's contribution for asset units
type MsgClaim struct {
	Participant string `json:"participant"`
	PoolID      string `json:"pool_id"`
}

// Route implements sdk.Msg
func (msg MsgClaim) Route() string { return RouterKey }

// Type implements sdk.Msg
func (msg MsgClaim) Type() string { return TypeMsgClaim }

// ValidateBasic implements sdk.Msg
func (msg MsgClaim) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Participant); err != nil {
		return errorsmod.Wrapf(ErrInvalidParameters, "invalid participant: %v", err)
	}
	_, err := PoolAddressFromID(msg.PoolID)
	return err
}

// GetSigners implements sdk.Msg
func (msg MsgClaim) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Participant)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgClaim) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgClaim) Reset() { *msg = MsgClaim{} }

// String implements proto.Message
func (msg MsgClaim) String() string {
	return fmt.Sprintf("MsgClaim{Participant: %s, PoolID: %s}", msg.Participant, msg.PoolID)
}

// XXX_MessageName returns the message type URL
func (*MsgClaim) XXX_MessageName() string { return "launchpad.v1.MsgClaim" }

// MsgClaimResponse defines the Claim response
type MsgClaimResponse struct {
	ContributionRedeemed uint64 `json:"contribution_redeemed"`
	TokenAmount          uint64 `json:"token_amount"`
}

// MsgWithdrawUnsold returns the supply no contribution bought to the authority
type MsgWithdrawUnsold struct {
	Authority string `json:"authority"`
	PoolID    string `json:"pool_id"`
}

// Route implements sdk.Msg
func (msg MsgWithdrawUnsold) Route() string { return RouterKey }

// Type implements sdk.Msg
func (msg MsgWithdrawUnsold) Type() string { return TypeMsgWithdrawUnsold }

// ValidateBasic implements sdk.Msg
func (msg MsgWithdrawUnsold) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return errorsmod.Wrapf(ErrInvalidParameters, "invalid authority: %v", err)
	}
	_, err := PoolAddressFromID(msg.PoolID)
	return err
}

// GetSigners implements sdk.Msg
func (msg MsgWithdrawUnsold) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgWithdrawUnsold) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgWithdrawUnsold) Reset() { *msg = MsgWithdrawUnsold{} }

// String implements proto.Message
func (msg MsgWithdrawUnsold) String() string {
	return fmt.Sprintf("MsgWithdrawUnsold{Authority: %s, PoolID: %s}", msg.Authority, msg.PoolID)
}

// XXX_MessageName returns the message type URL
func (*MsgWithdrawUnsold) XXX_MessageName() string { return "launchpad.v1.MsgWithdrawUnsold" }

// MsgWithdrawUnsoldResponse defines the WithdrawUnsold response
type MsgWithdrawUnsoldResponse struct {
	TokenAmount uint64 `json:"token_amount"`
}

// Ensure all messages implement sdk.Msg interface
var (
	_ sdk.Msg = &MsgCreatePool{}
	_ sdk.Msg = &MsgContribute{}
	_ sdk.Msg = &MsgFinalizePool{}
	_ sdk.Msg = &MsgClaim{}
	_ sdk.Msg = &MsgWithdrawUnsold{}
)
