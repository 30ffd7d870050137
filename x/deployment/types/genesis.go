package types

import (
	"fmt"
)

// GenesisState defines the deployment module's genesis state
type GenesisState struct {
	Params      Params       `json:"params"`
	Deployments []Deployment `json:"deployments"`
	Groups      []Group      `json:"groups"`
	NextDSeq    uint64       `json:"next_dseq"`
}

// DefaultGenesis returns the default genesis state for the deployment module
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:      DefaultParams(),
		Deployments: []Deployment{},
		Groups:      []Group{},
		NextDSeq:    1,
	}
}

// Validate ensures the genesis state is well-formed
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}

	if gs.NextDSeq == 0 {
		return fmt.Errorf("next dseq must be positive")
	}

	deployments := make(map[string]struct{}, len(gs.Deployments))
	for _, dep := range gs.Deployments {
		if err := dep.Validate(); err != nil {
			return fmt.Errorf("invalid deployment %s: %w", dep.ID, err)
		}
		if dep.ID.DSeq >= gs.NextDSeq {
			return fmt.Errorf("deployment %s dseq at or above next dseq %d", dep.ID, gs.NextDSeq)
		}
		key := dep.ID.String()
		if _, ok := deployments[key]; ok {
			return fmt.Errorf("duplicate deployment id %s", key)
		}
		deployments[key] = struct{}{}
	}

	groups := make(map[string]struct{}, len(gs.Groups))
	for _, group := range gs.Groups {
		if err := group.Validate(); err != nil {
			return fmt.Errorf("invalid group %s: %w", group.ID, err)
		}
		if _, ok := deployments[group.ID.DeploymentID().String()]; !ok {
			return fmt.Errorf("group %s references unknown deployment", group.ID)
		}
		key := group.ID.String()
		if _, ok := groups[key]; ok {
			return fmt.Errorf("duplicate group id %s", key)
		}
		groups[key] = struct{}{}
	}

	return nil
}
