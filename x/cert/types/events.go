package types

// Event types for the cert module
// All event types use lowercase with underscore separator (module_action format)
const (
	EventTypeCertIssued  = "cert_issued"
	EventTypeCertRevoked = "cert_revoked"
)

// Event attribute keys
const (
	AttributeKeyOwner    = "owner"
	AttributeKeySerial   = "serial"
	AttributeKeyNotAfter = "not_after"
	AttributeKeyHeight   = "height"
)
