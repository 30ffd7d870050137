package types

import (
	"fmt"
)

// GenesisState defines the escrow module's genesis state
type GenesisState struct {
	Params   Params    `json:"params"`
	Accounts []Account `json:"accounts"`
}

// DefaultGenesis returns the default genesis state for the escrow module
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:   DefaultParams(),
		Accounts: []Account{},
	}
}

// Validate ensures the genesis state is well-formed
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}

	seen := make(map[string]struct{}, len(gs.Accounts))
	for _, acc := range gs.Accounts {
		if err := acc.Validate(); err != nil {
			return fmt.Errorf("invalid account %s: %w", acc.ID, err)
		}
		key := acc.ID.String()
		if _, ok := seen[key]; ok {
			return fmt.Errorf("duplicate account id %s", key)
		}
		seen[key] = struct{}{}
	}

	return nil
}
