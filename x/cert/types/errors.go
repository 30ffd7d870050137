package types

import (
	sdkerrors "cosmossdk.io/errors"
)

// Certificate registry sentinel errors

var (
	// Validation errors
	ErrInvalidAddress  = sdkerrors.Register(ModuleName, 2, "invalid address")
	ErrInvalidPubKey   = sdkerrors.Register(ModuleName, 3, "invalid public key")
	ErrInvalidValidity = sdkerrors.Register(ModuleName, 4, "invalid validity window")
	ErrInvalidSerial   = sdkerrors.Register(ModuleName, 5, "invalid serial")
	ErrInvalidState    = sdkerrors.Register(ModuleName, 6, "invalid certificate state")

	// Lookup errors
	ErrCertificateNotFound = sdkerrors.Register(ModuleName, 10, "certificate not found")

	// State conflict errors
	ErrAlreadyRevoked     = sdkerrors.Register(ModuleName, 20, "certificate already revoked")
	ErrCertificateExists  = sdkerrors.Register(ModuleName, 21, "certificate already exists")
	ErrValidityTooLong    = sdkerrors.Register(ModuleName, 22, "validity window exceeds maximum")
	ErrCertificateExpired = sdkerrors.Register(ModuleName, 23, "certificate expired")

	// Authorization errors
	ErrUnauthorized = sdkerrors.Register(ModuleName, 30, "unauthorized")
)
