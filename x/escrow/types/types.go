package types

import (
	"fmt"
	"strings"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Account scopes. A deployment-scoped account is the shared fund pool backing
// every lease under one deployment; a bid-scoped account holds a single bid
// deposit.
const (
	ScopeDeployment = "deployment"
	ScopeBid        = "bid"
)

// AccountState is the lifecycle state of an escrow account
type AccountState uint8

const (
	AccountStateUnspecified AccountState = iota
	AccountStateOpen
	AccountStateClosed
	AccountStateOverdrawn
)

// String returns a human-readable state name
func (s AccountState) String() string {
	switch s {
	case AccountStateOpen:
		return "open"
	case AccountStateClosed:
		return "closed"
	case AccountStateOverdrawn:
		return "overdrawn"
	default:
		return "unspecified"
	}
}

// AccountID identifies an escrow account by scope and an opaque cross-module
// identifier chosen by the owning module.
type AccountID struct {
	Scope string `json:"scope"`
	XID   string `json:"xid"`
}

// String implements fmt.Stringer
func (id AccountID) String() string {
	return fmt.Sprintf("%s/%s", id.Scope, id.XID)
}

// Validate checks the id fields
func (id AccountID) Validate() error {
	switch id.Scope {
	case ScopeDeployment, ScopeBid:
	default:
		return ErrInvalidAccountID.Wrapf("unknown scope %q", id.Scope)
	}

	if id.XID == "" {
		return ErrInvalidAccountID.Wrap("xid cannot be empty")
	}

	if strings.ContainsRune(id.XID, 0) {
		return ErrInvalidAccountID.Wrap("xid contains NUL")
	}

	return nil
}

// Account is an escrow account. All funds live in the module account; Balance
// tracks this account's share of it.
type Account struct {
	ID        AccountID    `json:"id"`
	Owner     string       `json:"owner"`
	Balance   sdk.Coin     `json:"balance"`
	Deposited sdk.Coin     `json:"deposited"` // lifetime deposits
	Rate      sdk.Coin     `json:"rate"`      // sum of active lease prices drawing on this account
	SettledAt int64        `json:"settled_at"`
	State     AccountState `json:"state"`
	ClosedAt  int64        `json:"closed_at,omitempty"` // block height, zero while open
}

// Validate performs stateless validation of an account record
func (a Account) Validate() error {
	if err := a.ID.Validate(); err != nil {
		return err
	}

	if _, err := sdk.AccAddressFromBech32(a.Owner); err != nil {
		return ErrInvalidAddress.Wrapf("invalid owner address: %v", err)
	}

	if err := a.Balance.Validate(); err != nil {
		return ErrInvalidDeposit.Wrapf("invalid balance: %v", err)
	}

	if err := a.Deposited.Validate(); err != nil {
		return ErrInvalidDeposit.Wrapf("invalid deposited total: %v", err)
	}

	if a.Deposited.Denom != a.Balance.Denom {
		return ErrInvalidDenom.Wrapf("deposited denom %s does not match balance denom %s", a.Deposited.Denom, a.Balance.Denom)
	}

	if err := a.Rate.Validate(); err != nil {
		return ErrInvalidDeposit.Wrapf("invalid rate: %v", err)
	}

	if a.Rate.Denom != a.Balance.Denom {
		return ErrInvalidDenom.Wrapf("rate denom %s does not match balance denom %s", a.Rate.Denom, a.Balance.Denom)
	}

	if a.Balance.Amount.GT(a.Deposited.Amount) {
		return ErrInvalidDeposit.Wrap("balance exceeds lifetime deposits")
	}

	if a.SettledAt < 0 {
		return ErrInvalidAccountID.Wrap("settled_at cannot be negative")
	}

	switch a.State {
	case AccountStateOpen, AccountStateClosed, AccountStateOverdrawn:
	default:
		return ErrInvalidState.Wrapf("unknown account state %d", a.State)
	}

	return nil
}

// DeploymentAccountID builds the id of the deployment-scoped account shared
// by every lease under one deployment.
func DeploymentAccountID(owner string, dseq uint64) AccountID {
	return AccountID{
		Scope: ScopeDeployment,
		XID:   fmt.Sprintf("%s/%d", owner, dseq),
	}
}

// BidAccountID builds the id of the bid-scoped account holding one provider's
// bid deposit.
func BidAccountID(owner string, dseq uint64, gseq, oseq uint32, provider string) AccountID {
	return AccountID{
		Scope: ScopeBid,
		XID:   fmt.Sprintf("%s/%d/%d/%d/%s", owner, dseq, gseq, oseq, provider),
	}
}
