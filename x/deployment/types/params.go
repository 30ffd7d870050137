package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Default parameter values
const (
	// DefaultBondDenom is the denom admission deposits are expressed in
	DefaultBondDenom = "uvela"

	// DefaultMinDepositAmount floors deployment deposits in the bond denom
	DefaultMinDepositAmount int64 = 5000

	// DefaultMaxGroups caps the number of groups in one deployment
	DefaultMaxGroups uint32 = 10
)

// Params defines the parameters for the deployment module
type Params struct {
	MinDeposit sdk.Coin `json:"min_deposit"`
	MaxGroups  uint32   `json:"max_groups"`
}

// DefaultParams returns a default set of parameters
func DefaultParams() Params {
	return Params{
		MinDeposit: sdk.NewInt64Coin(DefaultBondDenom, DefaultMinDepositAmount),
		MaxGroups:  DefaultMaxGroups,
	}
}

// Validate validates the set of params
func (p Params) Validate() error {
	if err := p.MinDeposit.Validate(); err != nil {
		return fmt.Errorf("invalid min deposit: %w", err)
	}

	if p.MaxGroups == 0 {
		return fmt.Errorf("max groups must be positive")
	}

	return nil
}
