package types

import (
	sdkerrors "cosmossdk.io/errors"
)

// Order book, matching, and lease sentinel errors

var (
	// Validation errors
	ErrInvalidOrder    = sdkerrors.Register(ModuleName, 2, "invalid order")
	ErrInvalidBid      = sdkerrors.Register(ModuleName, 3, "invalid bid")
	ErrInvalidLease    = sdkerrors.Register(ModuleName, 4, "invalid lease")
	ErrInvalidAddress  = sdkerrors.Register(ModuleName, 5, "invalid address")
	ErrPriceOutOfRange = sdkerrors.Register(ModuleName, 6, "price out of range")
	ErrInvalidDeposit  = sdkerrors.Register(ModuleName, 7, "invalid deposit")

	// Lookup errors
	ErrOrderNotFound = sdkerrors.Register(ModuleName, 10, "order not found")
	ErrBidNotFound   = sdkerrors.Register(ModuleName, 11, "bid not found")
	ErrLeaseNotFound = sdkerrors.Register(ModuleName, 12, "lease not found")

	// State conflict errors
	ErrOrderNotOpen = sdkerrors.Register(ModuleName, 20, "order not open")
	ErrBidClosed    = sdkerrors.Register(ModuleName, 21, "bid not open")
	ErrLeaseClosed  = sdkerrors.Register(ModuleName, 22, "lease closed")
	ErrDuplicateBid = sdkerrors.Register(ModuleName, 23, "duplicate bid")

	// Insufficient funds errors
	ErrInsufficientDeposit = sdkerrors.Register(ModuleName, 25, "insufficient deposit")

	// Authorization errors
	ErrUnauthorized       = sdkerrors.Register(ModuleName, 30, "unauthorized")
	ErrInvalidCertificate = sdkerrors.Register(ModuleName, 31, "no valid provider certificate")
)
