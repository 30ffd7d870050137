package ante

import (
	"fmt"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	certkeeper "github.com/vela-grid/vela/x/cert/keeper"
	certtypes "github.com/vela-grid/vela/x/cert/types"
)

// CertDecorator validates cert module-specific transaction requirements
type CertDecorator struct {
	keeper certkeeper.Keeper
}

// NewCertDecorator creates a new CertDecorator
func NewCertDecorator(keeper certkeeper.Keeper) CertDecorator {
	return CertDecorator{
		keeper: keeper,
	}
}

// AnteHandle implements the AnteDecorator interface
func (cd CertDecorator) AnteHandle(ctx sdk.Context, tx sdk.Tx, simulate bool, next sdk.AnteHandler) (newCtx sdk.Context, err error) {
	// Skip validation during simulation
	if simulate {
		return next(ctx, tx, simulate)
	}

	msgs := tx.GetMsgs()
	for _, msg := range msgs {
		switch msg := msg.(type) {
		case *certtypes.MsgIssueCertificate:
			if err := cd.validateIssueCertificate(ctx, msg); err != nil {
				return ctx, err
			}
		case *certtypes.MsgRevokeCertificate:
			if err := cd.validateRevokeCertificate(ctx, msg); err != nil {
				return ctx, err
			}
		}
	}

	return next(ctx, tx, simulate)
}

// validateIssueCertificate rejects certificates whose key material does not
// parse or whose validity window cannot be granted at this block's time.
func (cd CertDecorator) validateIssueCertificate(ctx sdk.Context, msg *certtypes.MsgIssueCertificate) error {
	if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
		return sdkerrors.ErrInvalidAddress.Wrapf("invalid owner address: %s", err)
	}

	// Consume gas for validation
	ctx.GasMeter().ConsumeGas(1500, "certificate issuance validation")

	if err := certtypes.ValidatePubKeyPEM(msg.PubKey); err != nil {
		return sdkerrors.ErrInvalidRequest.Wrapf("invalid public key: %s", err)
	}

	notBefore := ctx.BlockTime()
	if !msg.NotAfter.After(notBefore) {
		return sdkerrors.ErrInvalidRequest.Wrapf(
			"not_after %s is not after ledger time %s",
			msg.NotAfter.Format(time.RFC3339), notBefore.Format(time.RFC3339))
	}

	params, err := cd.keeper.GetParams(ctx)
	if err != nil {
		return fmt.Errorf("failed to get params: %w", err)
	}

	if int64(msg.NotAfter.Sub(notBefore).Seconds()) > params.MaxValiditySeconds {
		return sdkerrors.ErrInvalidRequest.Wrapf(
			"validity window %ds exceeds maximum %ds",
			int64(msg.NotAfter.Sub(notBefore).Seconds()), params.MaxValiditySeconds)
	}

	return nil
}

// validateRevokeCertificate checks the certificate exists and is still
// revocable by the sender.
func (cd CertDecorator) validateRevokeCertificate(ctx sdk.Context, msg *certtypes.MsgRevokeCertificate) error {
	if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
		return sdkerrors.ErrInvalidAddress.Wrapf("invalid owner address: %s", err)
	}

	// Consume gas for validation
	ctx.GasMeter().ConsumeGas(1000, "certificate revocation validation")

	cert, err := cd.keeper.GetCertificate(ctx, msg.Owner, msg.Serial)
	if err != nil {
		return sdkerrors.ErrInvalidRequest.Wrapf("unknown certificate %s/%d", msg.Owner, msg.Serial)
	}

	if cert.State != certtypes.CertificateStateValid {
		return sdkerrors.ErrInvalidRequest.Wrapf("certificate %s/%d is already %s", msg.Owner, msg.Serial, cert.State)
	}

	return nil
}
