package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	escrowtypes "github.com/vela-grid/vela/x/escrow/types"
)

// DeploymentState is the lifecycle state of a deployment
type DeploymentState uint8

const (
	DeploymentStateUnspecified DeploymentState = iota
	DeploymentStateActive
	DeploymentStateClosed
)

// String returns a human-readable state name
func (s DeploymentState) String() string {
	switch s {
	case DeploymentStateActive:
		return "active"
	case DeploymentStateClosed:
		return "closed"
	default:
		return "unspecified"
	}
}

// GroupState is the lifecycle state of a deployment group
type GroupState uint8

const (
	GroupStateUnspecified GroupState = iota
	GroupStateOpen
	GroupStateMatched
	GroupStateFailed
	GroupStateClosed
)

// String returns a human-readable state name
func (s GroupState) String() string {
	switch s {
	case GroupStateOpen:
		return "open"
	case GroupStateMatched:
		return "matched"
	case GroupStateFailed:
		return "failed"
	case GroupStateClosed:
		return "closed"
	default:
		return "unspecified"
	}
}

// DeploymentID identifies a deployment by its owner and a keeper-assigned
// global sequence.
type DeploymentID struct {
	Owner string `json:"owner"`
	DSeq  uint64 `json:"dseq"`
}

// String implements fmt.Stringer
func (id DeploymentID) String() string {
	return fmt.Sprintf("%s/%d", id.Owner, id.DSeq)
}

// Validate checks the id fields
func (id DeploymentID) Validate() error {
	if _, err := sdk.AccAddressFromBech32(id.Owner); err != nil {
		return ErrInvalidAddress.Wrapf("invalid owner address: %v", err)
	}

	if id.DSeq == 0 {
		return ErrInvalidDeployment.Wrap("dseq cannot be zero")
	}

	return nil
}

// EscrowAccountID returns the id of the deployment-scoped escrow account
// funding every lease under this deployment.
func (id DeploymentID) EscrowAccountID() escrowtypes.AccountID {
	return escrowtypes.DeploymentAccountID(id.Owner, id.DSeq)
}

// GroupID identifies one group within a deployment
type GroupID struct {
	Owner string `json:"owner"`
	DSeq  uint64 `json:"dseq"`
	GSeq  uint32 `json:"gseq"`
}

// MakeGroupID builds a GroupID under the deployment id
func MakeGroupID(id DeploymentID, gseq uint32) GroupID {
	return GroupID{
		Owner: id.Owner,
		DSeq:  id.DSeq,
		GSeq:  gseq,
	}
}

// DeploymentID returns the id of the deployment this group belongs to
func (id GroupID) DeploymentID() DeploymentID {
	return DeploymentID{
		Owner: id.Owner,
		DSeq:  id.DSeq,
	}
}

// String implements fmt.Stringer
func (id GroupID) String() string {
	return fmt.Sprintf("%s/%d/%d", id.Owner, id.DSeq, id.GSeq)
}

// Validate checks the id fields
func (id GroupID) Validate() error {
	if err := id.DeploymentID().Validate(); err != nil {
		return err
	}

	if id.GSeq == 0 {
		return ErrInvalidGroupSpec.Wrap("gseq cannot be zero")
	}

	return nil
}

// Resource describes one homogeneous slice of requested compute
type Resource struct {
	CPU     uint64 `json:"cpu"`     // millicores
	Memory  uint64 `json:"memory"`  // bytes
	Storage uint64 `json:"storage"` // bytes
	GPU     uint64 `json:"gpu"`     // whole units
	Count   uint32 `json:"count"`
}

// Validate checks the resource fields
func (r Resource) Validate() error {
	if r.CPU == 0 {
		return ErrInvalidGroupSpec.Wrap("resource cpu cannot be zero")
	}

	if r.Memory == 0 {
		return ErrInvalidGroupSpec.Wrap("resource memory cannot be zero")
	}

	if r.Count == 0 {
		return ErrInvalidGroupSpec.Wrap("resource count cannot be zero")
	}

	return nil
}

// Attribute is one provider placement requirement
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// GroupSpec is the tenant-authored description of one group: what to run,
// the most the tenant will pay per block, and where it may be placed.
type GroupSpec struct {
	Name                string      `json:"name"`
	Resources           []Resource  `json:"resources"`
	MaxPrice            sdk.Coin    `json:"max_price"` // per block
	PlacementAttributes []Attribute `json:"placement_attributes,omitempty"`
}

// Validate performs stateless validation of a group spec
func (gs GroupSpec) Validate() error {
	if gs.Name == "" {
		return ErrInvalidGroupSpec.Wrap("group name cannot be empty")
	}

	if len(gs.Resources) == 0 {
		return ErrInvalidGroupSpec.Wrapf("group %q has no resources", gs.Name)
	}

	for i, res := range gs.Resources {
		if err := res.Validate(); err != nil {
			return ErrInvalidGroupSpec.Wrapf("group %q resource %d: %v", gs.Name, i, err)
		}
	}

	if err := gs.MaxPrice.Validate(); err != nil {
		return ErrInvalidGroupSpec.Wrapf("group %q max price: %v", gs.Name, err)
	}

	if !gs.MaxPrice.IsPositive() {
		return ErrInvalidGroupSpec.Wrapf("group %q max price must be positive", gs.Name)
	}

	seen := make(map[string]struct{}, len(gs.PlacementAttributes))
	for _, attr := range gs.PlacementAttributes {
		if attr.Key == "" {
			return ErrInvalidGroupSpec.Wrapf("group %q has an attribute with an empty key", gs.Name)
		}
		if _, ok := seen[attr.Key]; ok {
			return ErrInvalidGroupSpec.Wrapf("group %q has duplicate attribute key %q", gs.Name, attr.Key)
		}
		seen[attr.Key] = struct{}{}
	}

	return nil
}

// Deployment is the root record of one tenant workload
type Deployment struct {
	ID        DeploymentID    `json:"id"`
	State     DeploymentState `json:"state"`
	CreatedAt int64           `json:"created_at"`
	ClosedAt  int64           `json:"closed_at,omitempty"` // block height, zero while active
}

// Validate performs stateless validation of a deployment record
func (d Deployment) Validate() error {
	if err := d.ID.Validate(); err != nil {
		return err
	}

	switch d.State {
	case DeploymentStateActive, DeploymentStateClosed:
	default:
		return ErrInvalidDeployment.Wrapf("unknown deployment state %d", d.State)
	}

	if d.CreatedAt < 0 {
		return ErrInvalidDeployment.Wrap("created_at cannot be negative")
	}

	return nil
}

// Group is one stored deployment group with its current market state
type Group struct {
	ID        GroupID    `json:"id"`
	Spec      GroupSpec  `json:"spec"`
	State     GroupState `json:"state"`
	CreatedAt int64      `json:"created_at"`
}

// Validate performs stateless validation of a group record
func (g Group) Validate() error {
	if err := g.ID.Validate(); err != nil {
		return err
	}

	if err := g.Spec.Validate(); err != nil {
		return err
	}

	switch g.State {
	case GroupStateOpen, GroupStateMatched, GroupStateFailed, GroupStateClosed:
	default:
		return ErrInvalidGroupState.Wrapf("unknown group state %d", g.State)
	}

	if g.CreatedAt < 0 {
		return ErrInvalidGroupSpec.Wrap("created_at cannot be negative")
	}

	return nil
}

// TotalMaxPrice sums the max prices of the given group specs. The denom of
// the first group wins; callers validate denom consistency separately.
func TotalMaxPrice(groups []GroupSpec) sdk.Coin {
	if len(groups) == 0 {
		return sdk.Coin{}
	}

	total := sdk.NewInt64Coin(groups[0].MaxPrice.Denom, 0)
	for _, gs := range groups {
		if gs.MaxPrice.Denom == total.Denom {
			total = total.Add(gs.MaxPrice)
		}
	}
	return total
}
