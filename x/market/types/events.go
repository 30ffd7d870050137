package types

// Event types for the market module
// All event types use lowercase with underscore separator (module_action format)
const (
	EventTypeOrderOpened       = "order_opened"
	EventTypeOrderClosed       = "order_closed"
	EventTypeBidPlaced         = "bid_placed"
	EventTypeBidClosed         = "bid_closed"
	EventTypeBidLost           = "bid_lost"
	EventTypeLeaseCreated      = "lease_created"
	EventTypeLeaseClosed       = "lease_closed"
	EventTypeInsufficientFunds = "insufficient_funds"
)

// Order close reasons carried by the order_closed event
const (
	CloseReasonMatched          = "matched"
	CloseReasonUnmatched        = "unmatched"
	CloseReasonDeploymentClosed = "deployment-closed"
)

// Event attribute keys
const (
	AttributeKeyOwner    = "owner"
	AttributeKeyDSeq     = "dseq"
	AttributeKeyGSeq     = "gseq"
	AttributeKeyOSeq     = "oseq"
	AttributeKeyProvider = "provider"
	AttributeKeyPrice    = "price"
	AttributeKeyDeposit  = "deposit"
	AttributeKeyAmount   = "amount"
	AttributeKeyReason   = "reason"
	AttributeKeyHeight   = "height"
)
