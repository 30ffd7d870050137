package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Default parameter values
const (
	// DefaultBondDenom is the denom bid deposits are expressed in
	DefaultBondDenom = "uvela"

	// DefaultBidDuration is how many blocks an order accepts bids
	DefaultBidDuration int64 = 10

	// DefaultSettlementInterval is the lease settlement cadence in blocks.
	// It doubles as the grace window for insufficient_funds leases and
	// matches the escrow module's default withdraw reserve.
	DefaultSettlementInterval int64 = 5

	// DefaultMinBidDepositAmount floors bid deposits in the bond denom. It
	// must not undercut the escrow module's account creation minimum.
	DefaultMinBidDepositAmount int64 = 1000
)

// Params defines the parameters for the market module
type Params struct {
	BidDuration        int64    `json:"bid_duration"`
	SettlementInterval int64    `json:"settlement_interval"`
	MinBidDeposit      sdk.Coin `json:"min_bid_deposit"`
	EarlyMatch         bool     `json:"early_match"`
}

// DefaultParams returns a default set of parameters
func DefaultParams() Params {
	return Params{
		BidDuration:        DefaultBidDuration,
		SettlementInterval: DefaultSettlementInterval,
		MinBidDeposit:      sdk.NewInt64Coin(DefaultBondDenom, DefaultMinBidDepositAmount),
		EarlyMatch:         false,
	}
}

// Validate validates the set of params
func (p Params) Validate() error {
	if p.BidDuration <= 0 {
		return fmt.Errorf("bid duration must be positive: %d", p.BidDuration)
	}

	if p.SettlementInterval <= 0 {
		return fmt.Errorf("settlement interval must be positive: %d", p.SettlementInterval)
	}

	if err := p.MinBidDeposit.Validate(); err != nil {
		return fmt.Errorf("invalid min bid deposit: %w", err)
	}

	return nil
}
