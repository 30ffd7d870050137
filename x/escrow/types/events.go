package types

// Event types for the escrow module
// All event types use lowercase with underscore separator (module_action format)
const (
	EventTypeAccountCreated = "escrow_account_created"
	EventTypeDeposited      = "escrow_deposited"
	EventTypeWithdrawn      = "escrow_withdrawn"
	EventTypeAccountClosed  = "escrow_account_closed"
	EventTypeOverdrawn      = "escrow_overdrawn"
)

// Event attribute keys
const (
	AttributeKeyScope     = "scope"
	AttributeKeyXID       = "xid"
	AttributeKeyOwner     = "owner"
	AttributeKeyDepositor = "depositor"
	AttributeKeyRecipient = "recipient"
	AttributeKeyAmount    = "amount"
	AttributeKeyBalance   = "balance"
	AttributeKeyHeight    = "height"
)
