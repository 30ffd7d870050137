package types

import (
	sdkerrors "cosmossdk.io/errors"
)

// Deployment lifecycle sentinel errors

var (
	// Validation errors
	ErrInvalidDeployment = sdkerrors.Register(ModuleName, 2, "invalid deployment")
	ErrInvalidAddress    = sdkerrors.Register(ModuleName, 3, "invalid address")
	ErrEmptyGroups       = sdkerrors.Register(ModuleName, 4, "deployment has no groups")
	ErrInvalidGroupSpec  = sdkerrors.Register(ModuleName, 5, "invalid group spec")
	ErrInvalidDeposit    = sdkerrors.Register(ModuleName, 6, "invalid deposit")
	ErrTooManyGroups     = sdkerrors.Register(ModuleName, 7, "too many groups")
	ErrDenomMismatch     = sdkerrors.Register(ModuleName, 8, "denomination mismatch")

	// Lookup errors
	ErrDeploymentNotFound = sdkerrors.Register(ModuleName, 10, "deployment not found")
	ErrGroupNotFound      = sdkerrors.Register(ModuleName, 11, "group not found")

	// State conflict errors
	ErrDeploymentClosed  = sdkerrors.Register(ModuleName, 20, "deployment closed")
	ErrDeploymentExists  = sdkerrors.Register(ModuleName, 21, "deployment already exists")
	ErrInvalidGroupState = sdkerrors.Register(ModuleName, 22, "invalid group state transition")

	// Insufficient funds errors
	ErrInsufficientDeposit = sdkerrors.Register(ModuleName, 25, "deposit below admission floor")

	// Authorization errors
	ErrUnauthorized = sdkerrors.Register(ModuleName, 30, "unauthorized")
)
