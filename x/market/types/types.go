package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	deploymenttypes "github.com/vela-grid/vela/x/deployment/types"
	escrowtypes "github.com/vela-grid/vela/x/escrow/types"
)

// OrderState is the lifecycle state of an order
type OrderState uint8

const (
	OrderStateUnspecified OrderState = iota
	OrderStateOpen
	OrderStateActive
	OrderStateClosed
)

// String returns a human-readable state name
func (s OrderState) String() string {
	switch s {
	case OrderStateOpen:
		return "open"
	case OrderStateActive:
		return "active"
	case OrderStateClosed:
		return "closed"
	default:
		return "unspecified"
	}
}

// BidState is the lifecycle state of a bid
type BidState uint8

const (
	BidStateUnspecified BidState = iota
	BidStateOpen
	BidStateActive
	BidStateLost
	BidStateClosed
)

// String returns a human-readable state name
func (s BidState) String() string {
	switch s {
	case BidStateOpen:
		return "open"
	case BidStateActive:
		return "active"
	case BidStateLost:
		return "lost"
	case BidStateClosed:
		return "closed"
	default:
		return "unspecified"
	}
}

// LeaseState is the lifecycle state of a lease
type LeaseState uint8

const (
	LeaseStateUnspecified LeaseState = iota
	LeaseStateActive
	LeaseStateInsufficientFunds
	LeaseStateClosed
)

// String returns a human-readable state name
func (s LeaseState) String() string {
	switch s {
	case LeaseStateActive:
		return "active"
	case LeaseStateInsufficientFunds:
		return "insufficient_funds"
	case LeaseStateClosed:
		return "closed"
	default:
		return "unspecified"
	}
}

// OrderID identifies an order. OSeq distinguishes successive orders listed
// for the same group, which happens when a provider walks away from a lease
// and the group is re-listed.
type OrderID struct {
	Owner string `json:"owner"`
	DSeq  uint64 `json:"dseq"`
	GSeq  uint32 `json:"gseq"`
	OSeq  uint32 `json:"oseq"`
}

// MakeOrderID builds an OrderID for a group's oseq'th order
func MakeOrderID(id deploymenttypes.GroupID, oseq uint32) OrderID {
	return OrderID{
		Owner: id.Owner,
		DSeq:  id.DSeq,
		GSeq:  id.GSeq,
		OSeq:  oseq,
	}
}

// GroupID returns the id of the group this order lists
func (id OrderID) GroupID() deploymenttypes.GroupID {
	return deploymenttypes.GroupID{
		Owner: id.Owner,
		DSeq:  id.DSeq,
		GSeq:  id.GSeq,
	}
}

// DeploymentID returns the id of the deployment this order belongs to
func (id OrderID) DeploymentID() deploymenttypes.DeploymentID {
	return deploymenttypes.DeploymentID{
		Owner: id.Owner,
		DSeq:  id.DSeq,
	}
}

// String implements fmt.Stringer
func (id OrderID) String() string {
	return fmt.Sprintf("%s/%d/%d/%d", id.Owner, id.DSeq, id.GSeq, id.OSeq)
}

// Validate checks the id fields
func (id OrderID) Validate() error {
	if err := id.GroupID().Validate(); err != nil {
		return err
	}

	if id.OSeq == 0 {
		return ErrInvalidOrder.Wrap("oseq cannot be zero")
	}

	return nil
}

// BidID identifies a bid: an order id plus the bidding provider. A lease
// carries the id of the bid that won it, so LeaseID is the same tuple.
type BidID struct {
	Owner    string `json:"owner"`
	DSeq     uint64 `json:"dseq"`
	GSeq     uint32 `json:"gseq"`
	OSeq     uint32 `json:"oseq"`
	Provider string `json:"provider"`
}

// LeaseID identifies a lease
type LeaseID = BidID

// MakeBidID builds a BidID for a provider's bid on an order
func MakeBidID(id OrderID, provider string) BidID {
	return BidID{
		Owner:    id.Owner,
		DSeq:     id.DSeq,
		GSeq:     id.GSeq,
		OSeq:     id.OSeq,
		Provider: provider,
	}
}

// OrderID returns the id of the order this bid is placed on
func (id BidID) OrderID() OrderID {
	return OrderID{
		Owner: id.Owner,
		DSeq:  id.DSeq,
		GSeq:  id.GSeq,
		OSeq:  id.OSeq,
	}
}

// DeploymentID returns the id of the deployment this bid's order belongs to
func (id BidID) DeploymentID() deploymenttypes.DeploymentID {
	return id.OrderID().DeploymentID()
}

// EscrowAccountID returns the id of the bid-scoped escrow account holding
// the bid deposit.
func (id BidID) EscrowAccountID() escrowtypes.AccountID {
	return escrowtypes.BidAccountID(id.Owner, id.DSeq, id.GSeq, id.OSeq, id.Provider)
}

// String implements fmt.Stringer
func (id BidID) String() string {
	return fmt.Sprintf("%s/%d/%d/%d/%s", id.Owner, id.DSeq, id.GSeq, id.OSeq, id.Provider)
}

// Validate checks the id fields
func (id BidID) Validate() error {
	if err := id.OrderID().Validate(); err != nil {
		return err
	}

	if _, err := sdk.AccAddressFromBech32(id.Provider); err != nil {
		return ErrInvalidAddress.Wrapf("invalid provider address: %v", err)
	}

	return nil
}

// Order is one group's open request for a provider. MaxPrice is copied from
// the group spec at listing time so bid validation needs no deployment
// lookup.
type Order struct {
	ID              OrderID    `json:"id"`
	State           OrderState `json:"state"`
	MaxPrice        sdk.Coin   `json:"max_price"`
	CreatedAt       int64      `json:"created_at"`
	WindowEnd       int64      `json:"window_end"`
	MatchedProvider string     `json:"matched_provider,omitempty"`
}

// Validate performs stateless validation of an order record
func (o Order) Validate() error {
	if err := o.ID.Validate(); err != nil {
		return err
	}

	switch o.State {
	case OrderStateOpen, OrderStateActive, OrderStateClosed:
	default:
		return ErrInvalidOrder.Wrapf("unknown order state %d", o.State)
	}

	if err := o.MaxPrice.Validate(); err != nil {
		return ErrInvalidOrder.Wrapf("max price: %v", err)
	}

	if !o.MaxPrice.IsPositive() {
		return ErrInvalidOrder.Wrap("max price must be positive")
	}

	if o.WindowEnd <= o.CreatedAt {
		return ErrInvalidOrder.Wrap("window end must follow creation")
	}

	if o.State == OrderStateActive && o.MatchedProvider == "" {
		return ErrInvalidOrder.Wrap("active order has no matched provider")
	}

	return nil
}

// Bid is a provider's price offer against an order
type Bid struct {
	ID        BidID    `json:"id"`
	Price     sdk.Coin `json:"price"`
	Deposit   sdk.Coin `json:"deposit"`
	State     BidState `json:"state"`
	CreatedAt int64    `json:"created_at"`
}

// Validate performs stateless validation of a bid record
func (b Bid) Validate() error {
	if err := b.ID.Validate(); err != nil {
		return err
	}

	switch b.State {
	case BidStateOpen, BidStateActive, BidStateLost, BidStateClosed:
	default:
		return ErrInvalidBid.Wrapf("unknown bid state %d", b.State)
	}

	if err := b.Price.Validate(); err != nil {
		return ErrInvalidBid.Wrapf("price: %v", err)
	}

	if !b.Price.IsPositive() {
		return ErrInvalidBid.Wrap("price must be positive")
	}

	if err := b.Deposit.Validate(); err != nil {
		return ErrInvalidBid.Wrapf("deposit: %v", err)
	}

	return nil
}

// Lease is a matched order being served by a provider. SettledAt is the
// settlement checkpoint: all blocks before it are paid for (or forgiven by
// the min-withdrawal semantics). InsufficientAt is the height the lease
// entered insufficient_funds, zero otherwise.
type Lease struct {
	ID             LeaseID    `json:"id"`
	Price          sdk.Coin   `json:"price"`
	State          LeaseState `json:"state"`
	CreatedAt      int64      `json:"created_at"`
	SettledAt      int64      `json:"settled_at"`
	InsufficientAt int64      `json:"insufficient_at,omitempty"`
	ClosedAt       int64      `json:"closed_at,omitempty"`
	TotalPaid      sdk.Coin   `json:"total_paid"`
}

// Validate performs stateless validation of a lease record
func (l Lease) Validate() error {
	if err := l.ID.Validate(); err != nil {
		return err
	}

	switch l.State {
	case LeaseStateActive, LeaseStateInsufficientFunds, LeaseStateClosed:
	default:
		return ErrInvalidLease.Wrapf("unknown lease state %d", l.State)
	}

	if err := l.Price.Validate(); err != nil {
		return ErrInvalidLease.Wrapf("price: %v", err)
	}

	if !l.Price.IsPositive() {
		return ErrInvalidLease.Wrap("price must be positive")
	}

	if l.SettledAt < l.CreatedAt {
		return ErrInvalidLease.Wrap("settlement checkpoint precedes creation")
	}

	if err := l.TotalPaid.Validate(); err != nil {
		return ErrInvalidLease.Wrapf("total paid: %v", err)
	}

	if l.State == LeaseStateInsufficientFunds && l.InsufficientAt == 0 {
		return ErrInvalidLease.Wrap("insufficient_funds lease has no entry height")
	}

	return nil
}

// Live reports whether the lease still draws on escrow
func (l Lease) Live() bool {
	return l.State == LeaseStateActive || l.State == LeaseStateInsufficientFunds
}
