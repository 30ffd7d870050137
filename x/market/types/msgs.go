package types

import (
	sdkerrors "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

var (
	_ sdk.Msg = &MsgCreateBid{}
	_ sdk.Msg = &MsgCloseBid{}
	_ sdk.Msg = &MsgCloseLease{}
)

// MsgCreateBid places a provider's bid on an open order. The deposit backs
// the bid through a bid-scoped escrow account.
type MsgCreateBid struct {
	Order    OrderID  `json:"order"`
	Provider string   `json:"provider"`
	Price    sdk.Coin `json:"price"`
	Deposit  sdk.Coin `json:"deposit"`
}

// NewMsgCreateBid creates a new MsgCreateBid instance
func NewMsgCreateBid(order OrderID, provider string, price, deposit sdk.Coin) *MsgCreateBid {
	return &MsgCreateBid{
		Order:    order,
		Provider: provider,
		Price:    price,
		Deposit:  deposit,
	}
}

// Route implements the sdk.Msg interface
func (msg MsgCreateBid) Route() string {
	return RouterKey
}

// Type implements the sdk.Msg interface
func (msg MsgCreateBid) Type() string {
	return "create_bid"
}

// GetSigners implements the sdk.Msg interface
func (msg MsgCreateBid) GetSigners() []sdk.AccAddress {
	provider, err := sdk.AccAddressFromBech32(msg.Provider)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{provider}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgCreateBid) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgCreateBid) ValidateBasic() error {
	if err := msg.Order.Validate(); err != nil {
		return err
	}

	if _, err := sdk.AccAddressFromBech32(msg.Provider); err != nil {
		return sdkerrors.Wrapf(ErrInvalidAddress, "invalid provider address: %s", err)
	}

	if msg.Provider == msg.Order.Owner {
		return sdkerrors.Wrap(ErrInvalidBid, "cannot bid on own order")
	}

	if err := msg.Price.Validate(); err != nil {
		return sdkerrors.Wrapf(ErrPriceOutOfRange, "invalid price: %s", err)
	}

	if !msg.Price.IsPositive() {
		return sdkerrors.Wrap(ErrPriceOutOfRange, "price must be positive")
	}

	if err := msg.Deposit.Validate(); err != nil {
		return sdkerrors.Wrapf(ErrInvalidDeposit, "invalid deposit: %s", err)
	}

	if msg.Deposit.IsZero() {
		return sdkerrors.Wrap(ErrInvalidDeposit, "deposit cannot be zero")
	}

	return nil
}

// MsgCloseBid withdraws an open bid, or queues a provider-side lease close
// when the bid backs an active lease.
type MsgCloseBid struct {
	ID BidID `json:"id"`
}

// NewMsgCloseBid creates a new MsgCloseBid instance
func NewMsgCloseBid(id BidID) *MsgCloseBid {
	return &MsgCloseBid{ID: id}
}

// Route implements the sdk.Msg interface
func (msg MsgCloseBid) Route() string {
	return RouterKey
}

// Type implements the sdk.Msg interface
func (msg MsgCloseBid) Type() string {
	return "close_bid"
}

// GetSigners implements the sdk.Msg interface
func (msg MsgCloseBid) GetSigners() []sdk.AccAddress {
	provider, err := sdk.AccAddressFromBech32(msg.ID.Provider)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{provider}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgCloseBid) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgCloseBid) ValidateBasic() error {
	return msg.ID.Validate()
}

// MsgCloseLease queues a lease close. Either the tenant or the provider may
// send it; the close and its final pro-rated settlement apply at this
// block's settlement pass.
type MsgCloseLease struct {
	ID     LeaseID `json:"id"`
	Sender string  `json:"sender"`
}

// NewMsgCloseLease creates a new MsgCloseLease instance
func NewMsgCloseLease(id LeaseID, sender string) *MsgCloseLease {
	return &MsgCloseLease{
		ID:     id,
		Sender: sender,
	}
}

// Route implements the sdk.Msg interface
func (msg MsgCloseLease) Route() string {
	return RouterKey
}

// Type implements the sdk.Msg interface
func (msg MsgCloseLease) Type() string {
	return "close_lease"
}

// GetSigners implements the sdk.Msg interface
func (msg MsgCloseLease) GetSigners() []sdk.AccAddress {
	sender, err := sdk.AccAddressFromBech32(msg.Sender)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{sender}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgCloseLease) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgCloseLease) ValidateBasic() error {
	if err := msg.ID.Validate(); err != nil {
		return err
	}

	if _, err := sdk.AccAddressFromBech32(msg.Sender); err != nil {
		return sdkerrors.Wrapf(ErrInvalidAddress, "invalid sender address: %s", err)
	}

	if msg.Sender != msg.ID.Owner && msg.Sender != msg.ID.Provider {
		return sdkerrors.Wrap(ErrUnauthorized, "sender is neither tenant nor provider")
	}

	return nil
}
