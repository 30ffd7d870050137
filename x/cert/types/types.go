package types

import (
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// CertificateState is the lifecycle state of a certificate
type CertificateState uint8

const (
	CertificateStateUnspecified CertificateState = iota
	CertificateStateValid
	CertificateStateRevoked
)

// String returns a human-readable state name
func (s CertificateState) String() string {
	switch s {
	case CertificateStateValid:
		return "valid"
	case CertificateStateRevoked:
		return "revoked"
	default:
		return "unspecified"
	}
}

// PEM block type accepted for certificate public keys
const pubKeyPEMType = "PUBLIC KEY"

// Certificate represents a participant identity certificate. Validity is
// always evaluated against ledger time so every replica reaches the same
// answer.
type Certificate struct {
	Owner     string           `json:"owner"`
	Serial    uint64           `json:"serial"`
	PubKey    string           `json:"pub_key"` // PEM-encoded PKIX public key
	NotBefore time.Time        `json:"not_before"`
	NotAfter  time.Time        `json:"not_after"`
	State     CertificateState `json:"state"`
	RevokedAt int64            `json:"revoked_at,omitempty"` // block height, zero until revoked
}

// IsValidAt reports whether the certificate is usable at the given ledger
// time. The window is inclusive of NotBefore and exclusive of NotAfter.
func (c Certificate) IsValidAt(t time.Time) bool {
	if c.State != CertificateStateValid {
		return false
	}
	return !t.Before(c.NotBefore) && t.Before(c.NotAfter)
}

// Validate performs stateless validation of a certificate record
func (c Certificate) Validate() error {
	if _, err := sdk.AccAddressFromBech32(c.Owner); err != nil {
		return ErrInvalidAddress.Wrapf("invalid owner address: %v", err)
	}

	if c.Serial == 0 {
		return ErrInvalidSerial.Wrap("serial cannot be zero")
	}

	if err := ValidatePubKeyPEM(c.PubKey); err != nil {
		return err
	}

	if !c.NotAfter.After(c.NotBefore) {
		return ErrInvalidValidity.Wrapf("not_after %s must follow not_before %s",
			c.NotAfter.Format(time.RFC3339), c.NotBefore.Format(time.RFC3339))
	}

	switch c.State {
	case CertificateStateValid, CertificateStateRevoked:
	default:
		return ErrInvalidState.Wrapf("unknown certificate state %d", c.State)
	}

	if c.State == CertificateStateRevoked && c.RevokedAt < 0 {
		return ErrInvalidState.Wrap("revoked_at cannot be negative")
	}

	return nil
}

// ValidatePubKeyPEM checks that the given string is a PEM block containing a
// parseable PKIX public key.
func ValidatePubKeyPEM(pubKey string) error {
	if pubKey == "" {
		return ErrInvalidPubKey.Wrap("public key cannot be empty")
	}

	block, rest := pem.Decode([]byte(pubKey))
	if block == nil {
		return ErrInvalidPubKey.Wrap("not PEM encoded")
	}

	if len(rest) != 0 {
		return ErrInvalidPubKey.Wrap("trailing data after PEM block")
	}

	if block.Type != pubKeyPEMType {
		return ErrInvalidPubKey.Wrapf("unexpected PEM block type %q", block.Type)
	}

	if _, err := x509.ParsePKIXPublicKey(block.Bytes); err != nil {
		return ErrInvalidPubKey.Wrapf("parse PKIX public key: %v", err)
	}

	return nil
}

// CertificateID identifies a certificate by owner and serial
type CertificateID struct {
	Owner  string `json:"owner"`
	Serial uint64 `json:"serial"`
}

// String implements fmt.Stringer
func (id CertificateID) String() string {
	return fmt.Sprintf("%s/%d", id.Owner, id.Serial)
}

// Validate checks the id fields
func (id CertificateID) Validate() error {
	if _, err := sdk.AccAddressFromBech32(id.Owner); err != nil {
		return ErrInvalidAddress.Wrapf("invalid owner address: %v", err)
	}
	if id.Serial == 0 {
		return ErrInvalidSerial.Wrap("serial cannot be zero")
	}
	return nil
}
