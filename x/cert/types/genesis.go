package types

import (
	"fmt"
)

// GenesisState defines the cert module's genesis state
type GenesisState struct {
	Params       Params        `json:"params"`
	Certificates []Certificate `json:"certificates"`
	NextSerial   uint64        `json:"next_serial"`
}

// DefaultGenesis returns the default genesis state for the cert module
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:       DefaultParams(),
		Certificates: []Certificate{},
		NextSerial:   1,
	}
}

// Validate ensures the genesis state is well-formed
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}

	if gs.NextSerial == 0 {
		return fmt.Errorf("next serial must be positive")
	}

	seen := make(map[uint64]struct{}, len(gs.Certificates))
	for _, cert := range gs.Certificates {
		if err := cert.Validate(); err != nil {
			return fmt.Errorf("invalid certificate %s/%d: %w", cert.Owner, cert.Serial, err)
		}
		if _, ok := seen[cert.Serial]; ok {
			return fmt.Errorf("duplicate certificate serial %d", cert.Serial)
		}
		seen[cert.Serial] = struct{}{}
		if cert.Serial >= gs.NextSerial {
			return fmt.Errorf("certificate serial %d not below next serial %d", cert.Serial, gs.NextSerial)
		}
	}

	return nil
}
