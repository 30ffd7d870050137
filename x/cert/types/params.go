package types

import (
	"fmt"
)

// Default parameter values
const (
	// DefaultMaxValiditySeconds caps certificate lifetimes at one year
	DefaultMaxValiditySeconds int64 = 365 * 24 * 60 * 60
)

// Params defines the parameters for the cert module
type Params struct {
	MaxValiditySeconds int64 `json:"max_validity_seconds"`
}

// DefaultParams returns a default set of parameters
func DefaultParams() Params {
	return Params{
		MaxValiditySeconds: DefaultMaxValiditySeconds,
	}
}

// Validate validates the set of params
func (p Params) Validate() error {
	if p.MaxValiditySeconds <= 0 {
		return fmt.Errorf("max validity seconds must be positive: %d", p.MaxValiditySeconds)
	}
	return nil
}
