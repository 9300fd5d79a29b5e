package types

// Event types
const (
	EventTypePoolCreated    = "launchpad_pool_created"
	EventTypeContribution   = "launchpad_contribution"
	EventTypePoolFinalized  = "launchpad_pool_finalized"
	EventTypeClaim          = "launchpad_claim"
	EventTypeUnsoldWithdraw = "launchpad_unsold_withdrawn"
	EventTypeWindowClosed   = "launchpad_window_closed"
)

// Event attribute keys
const (
	AttributeKeyPoolID      = "pool_id"
	AttributeKeyAuthority   = "authority"
	AttributeKeyAssetDenom  = "asset_denom"
	AttributeKeyParticipant = "participant"
	AttributeKeyAmount      = "amount"
	AttributeKeyTotal       = "total"
	AttributeKeyTotalRaised = "total_raised"
	AttributeKeyTokenAmount = "token_amount"
	AttributeKeyTotalSupply = "total_supply"
	AttributeKeyUnitPrice   = "unit_price"
	AttributeKeyStartTime   = "start_time"
	AttributeKeyEndTime     = "end_time"
	AttributeKeyEscrow      = "escrow"
	AttributeKeyFundVault   = "fund_vault"
	AttributeKeyBlockHeight = "block_height"
)
