package types

import (
	"github.com/cosmos/cosmos-sdk/codec"
	cdctypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// RegisterLegacyAminoCodec registers the module's messages on the given LegacyAmino codec
func RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterConcrete(&MsgCreatePool{}, "launchpad/MsgCreatePool", nil)
	cdc.RegisterConcrete(&MsgContribute{}, "launchpad/MsgContribute", nil)
	cdc.RegisterConcrete(&MsgFinalizePool{}, "launchpad/MsgFinalizePool", nil)
	cdc.RegisterConcrete(&MsgClaim{}, "launchpad/MsgClaim", nil)
	cdc.RegisterConcrete(&MsgWithdrawUnsold{}, "launchpad/MsgWithdrawUnsold", nil)
}

// RegisterInterfaces registers the module's interface types
func RegisterInterfaces(registry cdctypes.InterfaceRegistry) {
	registry.RegisterImplementations((*sdk.Msg)(nil),
		&MsgCreatePool{},
		&MsgContribute{},
		&MsgFinalizePool{},
		&MsgClaim{},
		&MsgWithdrawUnsold{},
	)
}

// RegisterMsgServer is a no-op. Messages are hand-written rather than
// protoc-generated, so there is no service descriptor to bind and BaseApp cannot
// route launchpad messages: a transaction carrying one fails with an unknown
// message error. The MsgServer is only reachable by calling it in-process.
func RegisterMsgServer(s interface{}, srv MsgServer) {}
