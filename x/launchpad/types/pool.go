package types

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Phase is the lifecycle phase of a pool. Only Finalized is stored; the others
// follow from the block time.
type Phase int

const (
	PhasePending Phase = iota
	PhaseOpen
	PhaseEnded
	PhaseFinalized
)

// String returns the phase name
func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseOpen:
		return "open"
	case PhaseEnded:
		return "ended"
	case PhaseFinalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// PoolParams are the issuer-chosen parameters of a pool
type PoolParams struct {
	AssetDenom      string `json:"asset_denom"`
	StartTime       int64  `json:"start_time"`
	EndTime         int64  `json:"end_time"`
	TotalSupply     uint64 `json:"total_supply"`
	UnitPrice       uint64 `json:"unit_price"`
	MinContribution uint64 `json:"min_contribution"`
	MaxContribution uint64 `json:"max_contribution"`
}

// Validate checks the parameter combination
func (p PoolParams) Validate() error {
	if err := sdk.ValidateDenom(p.AssetDenom); err != nil {
		return errorsmod.Wrapf(ErrInvalidParameters, "asset denom: %v", err)
	}
	if p.StartTime >= p.EndTime {
		return errorsmod.Wrapf(ErrInvalidParameters, "start time %d must be before end time %d", p.StartTime, p.EndTime)
	}
	if p.TotalSupply == 0 {
		return errorsmod.Wrap(ErrInvalidParameters, "total supply must be positive")
	}
	if p.UnitPrice == 0 {
		return errorsmod.Wrap(ErrInvalidParameters, "unit price must be positive")
	}
	if p.MaxContribution == 0 {
		return errorsmod.Wrap(ErrInvalidParameters, "max contribution must be positive")
	}
	if p.MinContribution > p.MaxContribution {
		return errorsmod.Wrapf(ErrInvalidParameters, "min contribution %d exceeds max contribution %d", p.MinContribution, p.MaxContribution)
	}
	return nil
}

// Pool is the authoritative state of one fundraising campaign
type Pool struct {
	PoolID     string `json:"pool_id"`
	Authority  string `json:"authority"`
	AssetDenom string `json:"asset_denom"`
	RaiseDenom string `json:"raise_denom"`
	Escrow     string `json:"escrow"`
	FundVault  string `json:"fund_vault"`

	StartTime int64 `json:"start_time"`
	EndTime   int64 `json:"end_time"`

	TotalSupply     uint64 `json:"total_supply"`
	UnitPrice       uint64 `json:"unit_price"`
	MinContribution uint64 `json:"min_contribution"`
	MaxContribution uint64 `json:"max_contribution"`
	TotalRaised     uint64 `json:"total_raised"`

	Finalized       bool  `json:"finalized"`
	UnsoldWithdrawn bool  `json:"unsold_withdrawn,omitempty"`
	Bump            uint8 `json:"bump"`

	CreatedHeight int64 `json:"created_height"`
}

// NewPool creates a pool with an empty running total
func NewPool(poolAddr, authority, escrow, fundVault sdk.AccAddress, bump uint8, raiseDenom string, params PoolParams, height int64) *Pool {
	return &Pool{
		PoolID:          PoolIDFromAddress(poolAddr),
		Authority:       authority.String(),
		AssetDenom:      params.AssetDenom,
		RaiseDenom:      raiseDenom,
		Escrow:          escrow.String(),
		FundVault:       fundVault.String(),
		StartTime:       params.StartTime,
		EndTime:         params.EndTime,
		TotalSupply:     params.TotalSupply,
		UnitPrice:       params.UnitPrice,
		MinContribution: params.MinContribution,
		MaxContribution: params.MaxContribution,
		TotalRaised:     0,
		Finalized:       false,
		Bump:            bump,
		CreatedHeight:   height,
	}
}

// Params returns the issuer-chosen parameters of the pool
func (p *Pool) Params() PoolParams {
	return PoolParams{
		AssetDenom:      p.AssetDenom,
		StartTime:       p.StartTime,
		EndTime:         p.EndTime,
		TotalSupply:     p.TotalSupply,
		UnitPrice:       p.UnitPrice,
		MinContribution: p.MinContribution,
		MaxContribution: p.MaxContribution,
	}
}

// Phase returns the lifecycle phase at unix time now
func (p *Pool) Phase(now int64) Phase {
	switch {
	case p.Finalized:
		return PhaseFinalized
	case now < p.StartTime:
		return PhasePending
	case now <= p.EndTime:
		return PhaseOpen
	default:
		return PhaseEnded
	}
}

// Address decodes the pool address from its ID
func (p *Pool) Address() (sdk.AccAddress, error) {
	return PoolAddressFromID(p.PoolID)
}

// AuthorityAddress decodes the authority
func (p *Pool) AuthorityAddress() (sdk.AccAddress, error) {
	return sdk.AccAddressFromBech32(p.Authority)
}

// EscrowAddress decodes the escrow location
func (p *Pool) EscrowAddress() (sdk.AccAddress, error) {
	return sdk.AccAddressFromBech32(p.Escrow)
}

// FundVaultAddress decodes the fund vault location
func (p *Pool) FundVaultAddress() (sdk.AccAddress, error) {
	return sdk.AccAddressFromBech32(p.FundVault)
}

// TokensSold returns the asset units bought by the whole running total
func (p *Pool) TokensSold() (uint64, error) {
	return TokensForContribution(p.TotalRaised, p.UnitPrice)
}

// UnsoldSupply returns the asset units no contribution can ever claim
func (p *Pool) UnsoldSupply() (uint64, error) {
	sold, err := p.TokensSold()
	if err != nil {
		return 0, err
	}
	return CheckedSub(p.TotalSupply, sold)
}

// ContributionRecord accumulates what one participant has contributed to one pool
// and not yet redeemed.
type ContributionRecord struct {
	Amount uint64 `json:"amount"`
}

// IsClaimable reports whether the record still holds a contribution
func (r ContributionRecord) IsClaimable() bool {
	return r.Amount > 0
}

// Contribution is a record together with its owning identities, used by genesis and queries
type Contribution struct {
	PoolID      string `json:"pool_id"`
	Participant string `json:"participant"`
	Amount      uint64 `json:"amount"`
}
