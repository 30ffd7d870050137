package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Default parameter values
const (
	// DefaultBondDenom is the denom minimum deposits are expressed in
	DefaultBondDenom = "uvela"

	// DefaultMinDepositAmount floors account creation deposits in the bond denom
	DefaultMinDepositAmount int64 = 1000

	// DefaultWithdrawReserveBlocks is the settlement coverage an owner
	// withdrawal must leave behind while leases draw on the account. Kept in
	// step with the market module's default settlement interval.
	DefaultWithdrawReserveBlocks int64 = 5
)

// Params defines the parameters for the escrow module
type Params struct {
	MinDeposit            sdk.Coin `json:"min_deposit"`
	WithdrawReserveBlocks int64    `json:"withdraw_reserve_blocks"`
}

// DefaultParams returns a default set of parameters
func DefaultParams() Params {
	return Params{
		MinDeposit:            sdk.NewInt64Coin(DefaultBondDenom, DefaultMinDepositAmount),
		WithdrawReserveBlocks: DefaultWithdrawReserveBlocks,
	}
}

// Validate validates the set of params
func (p Params) Validate() error {
	if err := p.MinDeposit.Validate(); err != nil {
		return fmt.Errorf("invalid min deposit: %w", err)
	}

	if p.WithdrawReserveBlocks <= 0 {
		return fmt.Errorf("withdraw reserve blocks must be positive: %d", p.WithdrawReserveBlocks)
	}

	return nil
}
