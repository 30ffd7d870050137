package types

import (
	sdkerrors "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

var (
	_ sdk.Msg = &MsgDepositEscrow{}
	_ sdk.Msg = &MsgWithdrawEscrow{}
)

// MsgDepositEscrow tops up an escrow account. Any address may deposit.
type MsgDepositEscrow struct {
	ID        AccountID `json:"id"`
	Depositor string    `json:"depositor"`
	Amount    sdk.Coin  `json:"amount"`
}

// NewMsgDepositEscrow creates a new MsgDepositEscrow instance
func NewMsgDepositEscrow(id AccountID, depositor string, amount sdk.Coin) *MsgDepositEscrow {
	return &MsgDepositEscrow{
		ID:        id,
		Depositor: depositor,
		Amount:    amount,
	}
}

// Route implements the sdk.Msg interface
func (msg MsgDepositEscrow) Route() string {
	return RouterKey
}

// Type implements the sdk.Msg interface
func (msg MsgDepositEscrow) Type() string {
	return "deposit_escrow"
}

// GetSigners implements the sdk.Msg interface
func (msg MsgDepositEscrow) GetSigners() []sdk.AccAddress {
	depositor, err := sdk.AccAddressFromBech32(msg.Depositor)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{depositor}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgDepositEscrow) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgDepositEscrow) ValidateBasic() error {
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

// MsgWithdrawEscrow withdraws funds from an escrow account. Owner-only; the
// withdrawal must leave one settlement interval of the current rate in
// reserve while leases are active.
type MsgWithdrawEscrow struct {
	ID     AccountID `json:"id"`
	Owner  string    `json:"owner"`
	Amount sdk.Coin  `json:"amount"`
}

// NewMsgWithdrawEscrow creates a new MsgWithdrawEscrow instance
func NewMsgWithdrawEscrow(id AccountID, owner string, amount sdk.Coin) *MsgWithdrawEscrow {
	return &MsgWithdrawEscrow{
		ID:     id,
		Owner:  owner,
		Amount: amount,
	}
}

// Route implements the sdk.Msg interface
func (msg MsgWithdrawEscrow) Route() string {
	return RouterKey
}

// Type implements the sdk.Msg interface
func (msg MsgWithdrawEscrow) Type() string {
	return "withdraw_escrow"
}

// GetSigners implements the sdk.Msg interface
func (msg MsgWithdrawEscrow) GetSigners() []sdk.AccAddress {
	owner, err := sdk.AccAddressFromBech32(msg.Owner)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{owner}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgWithdrawEscrow) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgWithdrawEscrow) ValidateBasic() error {
	if err := msg.ID.Validate(); err != nil {
		return err
	}

	if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
		return sdkerrors.Wrapf(ErrInvalidAddress, "invalid owner address: %s", err)
	}

	if err := msg.Amount.Validate(); err != nil {
		return sdkerrors.Wrapf(ErrInvalidDeposit, "invalid amount: %s", err)
	}

	if msg.Amount.IsZero() {
		return sdkerrors.Wrap(ErrInvalidDeposit, "amount cannot be zero")
	}

	return nil
}
