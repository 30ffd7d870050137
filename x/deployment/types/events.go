package types

// Event types for the deployment module
// All event types use lowercase with underscore separator (module_action format)
const (
	EventTypeDeploymentCreated = "deployment_created"
	EventTypeDeploymentClosed  = "deployment_closed"
	EventTypeGroupClosed       = "group_closed"
	EventTypeGroupFailed       = "group_failed"
)

// Event attribute keys
const (
	AttributeKeyOwner  = "owner"
	AttributeKeyDSeq   = "dseq"
	AttributeKeyGSeq   = "gseq"
	AttributeKeyGroups = "groups"
	AttributeKeyHeight = "height"
)
