package types

import (
	sdkerrors "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

var (
	_ sdk.Msg = &MsgCreateDeployment{}
	_ sdk.Msg = &MsgCloseDeployment{}
	_ sdk.Msg = &MsgDepositDeployment{}
)

// MsgCreateDeployment creates a deployment with its groups, funds the
// deployment-scoped escrow account, and opens one market order per group.
type MsgCreateDeployment struct {
	Owner   string      `json:"owner"`
	Groups  []GroupSpec `json:"groups"`
	Deposit sdk.Coin    `json:"deposit"`
}

// NewMsgCreateDeployment creates a new MsgCreateDeployment instance
func NewMsgCreateDeployment(owner string, groups []GroupSpec, deposit sdk.Coin) *MsgCreateDeployment {
	return &MsgCreateDeployment{
		Owner:   owner,
		Groups:  groups,
		Deposit: deposit,
	}
}

// Route implements the sdk.Msg interface
func (msg MsgCreateDeployment) Route() string {
	return RouterKey
}

// Type implements the sdk.Msg interface
func (msg MsgCreateDeployment) Type() string {
	return "create_deployment"
}

// GetSigners implements the sdk.Msg interface
func (msg MsgCreateDeployment) GetSigners() []sdk.AccAddress {
	owner, err := sdk.AccAddressFromBech32(msg.Owner)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{owner}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgCreateDeployment) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgCreateDeployment) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
		return sdkerrors.Wrapf(ErrInvalidAddress, "invalid owner address: %s", err)
	}

	if len(msg.Groups) == 0 {
		return ErrEmptyGroups
	}

	if err := msg.Deposit.Validate(); err != nil {
		return sdkerrors.Wrapf(ErrInvalidDeposit, "invalid deposit: %s", err)
	}

	if !msg.Deposit.IsPositive() {
		return sdkerrors.Wrap(ErrInvalidDeposit, "deposit must be positive")
	}

	seen := make(map[string]struct{}, len(msg.Groups))
	for _, gs := range msg.Groups {
		if err := gs.Validate(); err != nil {
			return err
		}
		if gs.MaxPrice.Denom != msg.Deposit.Denom {
			return sdkerrors.Wrapf(ErrDenomMismatch,
				"group %q price denom %s does not match deposit denom %s", gs.Name, gs.MaxPrice.Denom, msg.Deposit.Denom)
		}
		if _, ok := seen[gs.Name]; ok {
			return sdkerrors.Wrapf(ErrInvalidGroupSpec, "duplicate group name %q", gs.Name)
		}
		seen[gs.Name] = struct{}{}
	}

	return nil
}

// MsgCloseDeployment queues a deployment closure. Orders, bids, and leases
// close at the next settlement pass with a final pro-rated settlement, then
// the escrow account refunds the remainder.
type MsgCloseDeployment struct {
	ID DeploymentID `json:"id"`
}

// NewMsgCloseDeployment creates a new MsgCloseDeployment instance
func NewMsgCloseDeployment(id DeploymentID) *MsgCloseDeployment {
	return &MsgCloseDeployment{ID: id}
}

// Route implements the sdk.Msg interface
func (msg MsgCloseDeployment) Route() string {
	return RouterKey
}

// Type implements the sdk.Msg interface
func (msg MsgCloseDeployment) Type() string {
	return "close_deployment"
}

// GetSigners implements the sdk.Msg interface
func (msg MsgCloseDeployment) GetSigners() []sdk.AccAddress {
	owner, err := sdk.AccAddressFromBech32(msg.ID.Owner)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{owner}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgCloseDeployment) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgCloseDeployment) ValidateBasic() error {
	return msg.ID.Validate()
}

// MsgDepositDeployment tops up the deployment's escrow account. Any address
// may deposit; a lease in insufficient_funds that becomes affordable again
// resumes active at the next settlement pass.
type MsgDepositDeployment struct {
	ID        DeploymentID `json:"id"`
	Depositor string       `json:"depositor"`
	Amount    sdk.Coin     `json:"amount"`
}

// NewMsgDepositDeployment creates a new MsgDepositDeployment instance
func NewMsgDepositDeployment(id DeploymentID, depositor string, amount sdk.Coin) *MsgDepositDeployment {
	return &MsgDepositDeployment{
		ID:        id,
		Depositor: depositor,
		Amount:    amount,
	}
}

// Route implements the sdk.Msg interface
func (msg MsgDepositDeployment) Route() string {
	return RouterKey
}

// Type implements the sdk.Msg interface
func (msg MsgDepositDeployment) Type() string {
	return "deposit_deployment"
}

// GetSigners implements the sdk.Msg interface
func (msg MsgDepositDeployment) GetSigners() []sdk.AccAddress {
	depositor, err := sdk.AccAddressFromBech32(msg.Depositor)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{depositor}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgDepositDeployment) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgDepositDeployment) ValidateBasic() error {
	if err := msg.ID.Validate(); err != nil {
		return err
	}

	if _, err := sdk.AccAddressFromBech32(msg.Depositor); err != nil {
		return sdkerrors.Wrapf(ErrInvalidAddress, "invalid depositor address: %s", err)
	}

	if err := msg.Amount.Validate(); err != nil {
		return sdkerrors.Wrapf(ErrInvalidDeposit, "invalid amount: %s", err)
	}

	if msg.Amount.IsZero() {
		return sdkerrors.Wrap(ErrInvalidDeposit, "amount cannot be zero")
	}

	return nil
}
