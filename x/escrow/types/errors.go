package types

import (
	sdkerrors "cosmossdk.io/errors"
)

// Escrow ledger sentinel errors

var (
	// Validation errors
	ErrInvalidAccountID = sdkerrors.Register(ModuleName, 2, "invalid account id")
	ErrInvalidAddress   = sdkerrors.Register(ModuleName, 3, "invalid address")
	ErrInvalidDeposit   = sdkerrors.Register(ModuleName, 4, "invalid deposit")
	ErrInvalidDenom     = sdkerrors.Register(ModuleName, 5, "denomination mismatch")
	ErrInvalidState     = sdkerrors.Register(ModuleName, 6, "invalid account state")
	ErrInvalidRate      = sdkerrors.Register(ModuleName, 7, "invalid rate adjustment")

	// Lookup errors
	ErrAccountNotFound = sdkerrors.Register(ModuleName, 10, "escrow account not found")

	// State conflict errors
	ErrAccountExists   = sdkerrors.Register(ModuleName, 20, "escrow account already exists")
	ErrAccountClosed   = sdkerrors.Register(ModuleName, 21, "escrow account closed")
	ErrReserveViolated = sdkerrors.Register(ModuleName, 22, "withdrawal breaks settlement reserve")

	// Insufficient funds errors
	ErrDepositBelowMinimum = sdkerrors.Register(ModuleName, 25, "deposit below minimum")

	// Authorization errors
	ErrUnauthorized = sdkerrors.Register(ModuleName, 30, "unauthorized")
)
