package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// DefaultRaiseDenom is the currency contributions are paid in unless genesis says otherwise
const DefaultRaiseDenom = "stake"

// Params defines the module parameters. They are fixed at genesis.
type Params struct {
	RaiseDenom string `json:"raise_denom"`
	AssetScale uint64 `json:"asset_scale"`
}

// DefaultParams returns the default module parameters
func DefaultParams() Params {
	return Params{
		RaiseDenom: DefaultRaiseDenom,
		AssetScale: AssetScale,
	}
}

// Validate checks the parameters
func (p Params) Validate() error {
	if err := sdk.ValidateDenom(p.RaiseDenom); err != nil {
		return fmt.Errorf("invalid raise denom: %w", err)
	}
	if p.AssetScale != AssetScale {
		return fmt.Errorf("asset scale must be %d, got %d", AssetScale, p.AssetScale)
	}
	return nil
}
