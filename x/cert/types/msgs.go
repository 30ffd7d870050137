package types

import (
	"time"

	sdkerrors "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

var (
	_ sdk.Msg = &MsgIssueCertificate{}
	_ sdk.Msg = &MsgRevokeCertificate{}
)

// MsgIssueCertificate registers a new certificate for the signing owner
type MsgIssueCertificate struct {
	Owner    string    `json:"owner"`
	PubKey   string    `json:"pub_key"`
	NotAfter time.Time `json:"not_after"`
}

// NewMsgIssueCertificate creates a new MsgIssueCertificate instance
func NewMsgIssueCertificate(owner, pubKey string, notAfter time.Time) *MsgIssueCertificate {
	return &MsgIssueCertificate{
		Owner:    owner,
		PubKey:   pubKey,
		NotAfter: notAfter,
	}
}

// Route implements the sdk.Msg interface
func (msg MsgIssueCertificate) Route() string {
	return RouterKey
}

// Type implements the sdk.Msg interface
func (msg MsgIssueCertificate) Type() string {
	return "issue_certificate"
}

// GetSigners implements the sdk.Msg interface
func (msg MsgIssueCertificate) GetSigners() []sdk.AccAddress {
	owner, err := sdk.AccAddressFromBech32(msg.Owner)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{owner}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgIssueCertificate) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgIssueCertificate) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
		return sdkerrors.Wrapf(ErrInvalidAddress, "invalid owner address: %s", err)
	}

	if err := ValidatePubKeyPEM(msg.PubKey); err != nil {
		return err
	}

	if msg.NotAfter.IsZero() {
		return sdkerrors.Wrap(ErrInvalidValidity, "not_after cannot be zero")
	}

	return nil
}

// MsgRevokeCertificate revokes one of the owner's certificates
type MsgRevokeCertificate struct {
	Owner  string `json:"owner"`
	Serial uint64 `json:"serial"`
}

// NewMsgRevokeCertificate creates a new MsgRevokeCertificate instance
func NewMsgRevokeCertificate(owner string, serial uint64) *MsgRevokeCertificate {
	return &MsgRevokeCertificate{
		Owner:  owner,
		Serial: serial,
	}
}

// Route implements the sdk.Msg interface
func (msg MsgRevokeCertificate) Route() string {
	return RouterKey
}

// Type implements the sdk.Msg interface
func (msg MsgRevokeCertificate) Type() string {
	return "revoke_certificate"
}

// GetSigners implements the sdk.Msg interface
func (msg MsgRevokeCertificate) GetSigners() []sdk.AccAddress {
	owner, err := sdk.AccAddressFromBech32(msg.Owner)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{owner}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgRevokeCertificate) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgRevokeCertificate) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
		return sdkerrors.Wrapf(ErrInvalidAddress, "invalid owner address: %s", err)
	}

	if msg.Serial == 0 {
		return sdkerrors.Wrap(ErrInvalidSerial, "serial cannot be zero")
	}

	return nil
}
