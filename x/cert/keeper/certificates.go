package keeper

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/vela-grid/vela/x/cert/types"
)

// GetNextSerial returns and increments the global certificate serial
func (k Keeper) GetNextSerial(ctx context.Context) (uint64, error) {
	store := k.getStore(ctx)
	bz := store.Get(types.NextSerialKey)

	var next uint64 = 1
	if bz != nil {
		next = binary.BigEndian.Uint64(bz)
	}

	nextBz := make([]byte, 8)
	binary.BigEndian.PutUint64(nextBz, next+1)
	store.Set(types.NextSerialKey, nextBz)

	return next, nil
}

// PeekNextSerial returns the next serial without consuming it
func (k Keeper) PeekNextSerial(ctx context.Context) uint64 {
	store := k.getStore(ctx)
	bz := store.Get(types.NextSerialKey)
	if bz == nil {
		return 1
	}
	return binary.BigEndian.Uint64(bz)
}

// SetNextSerial overwrites the global serial counter. Used by genesis import.
func (k Keeper) SetNextSerial(ctx context.Context, serial uint64) {
	store := k.getStore(ctx)
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, serial)
	store.Set(types.NextSerialKey, bz)
}

// SetCertificate stores a certificate record
func (k Keeper) SetCertificate(ctx context.Context, cert types.Certificate) error {
	store := k.getStore(ctx)

	bz, err := json.Marshal(cert)
	if err != nil {
		return fmt.Errorf("SetCertificate: marshal: %w", err)
	}

	store.Set(types.GetCertificateKey(cert.Owner, cert.Serial), bz)
	return nil
}

// GetCertificate retrieves a certificate by owner and serial
func (k Keeper) GetCertificate(ctx context.Context, owner string, serial uint64) (types.Certificate, error) {
	store := k.getStore(ctx)

	bz := store.Get(types.GetCertificateKey(owner, serial))
	if bz == nil {
		return types.Certificate{}, types.ErrCertificateNotFound.Wrapf("owner %s serial %d", owner, serial)
	}

	var cert types.Certificate
	if err := json.Unmarshal(bz, &cert); err != nil {
		return types.Certificate{}, fmt.Errorf("GetCertificate: unmarshal: %w", err)
	}

	return cert, nil
}

// HasCertificate reports whether a certificate exists for owner and serial
func (k Keeper) HasCertificate(ctx context.Context, owner string, serial uint64) bool {
	store := k.getStore(ctx)
	return store.Has(types.GetCertificateKey(owner, serial))
}

// IssueCertificate registers a new certificate for the owner. The serial is
// keeper-assigned from the global sequence and the validity window starts at
// the current ledger time.
func (k Keeper) IssueCertificate(ctx context.Context, owner sdk.AccAddress, pubKey string, notAfter time.Time) (types.Certificate, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if err := types.ValidatePubKeyPEM(pubKey); err != nil {
		return types.Certificate{}, err
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return types.Certificate{}, fmt.Errorf("IssueCertificate: get params: %w", err)
	}

	notBefore := sdkCtx.BlockTime()
	if !notAfter.After(notBefore) {
		return types.Certificate{}, types.ErrInvalidValidity.Wrapf(
			"not_after %s is not after ledger time %s",
			notAfter.Format(time.RFC3339), notBefore.Format(time.RFC3339))
	}

	if int64(notAfter.Sub(notBefore).Seconds()) > params.MaxValiditySeconds {
		return types.Certificate{}, types.ErrValidityTooLong.Wrapf(
			"window %ds exceeds maximum %ds",
			int64(notAfter.Sub(notBefore).Seconds()), params.MaxValiditySeconds)
	}

	serial, err := k.GetNextSerial(ctx)
	if err != nil {
		return types.Certificate{}, fmt.Errorf("IssueCertificate: next serial: %w", err)
	}

	cert := types.Certificate{
		Owner:     owner.String(),
		Serial:    serial,
		PubKey:    pubKey,
		NotBefore: notBefore,
		NotAfter:  notAfter,
		State:     types.CertificateStateValid,
	}

	if err := k.SetCertificate(ctx, cert); err != nil {
		return types.Certificate{}, fmt.Errorf("IssueCertificate: %w", err)
	}

	k.metrics.CertificatesIssued.Inc()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeCertIssued,
			sdk.NewAttribute(types.AttributeKeyOwner, cert.Owner),
			sdk.NewAttribute(types.AttributeKeySerial, fmt.Sprintf("%d", cert.Serial)),
			sdk.NewAttribute(types.AttributeKeyNotAfter, cert.NotAfter.Format(time.RFC3339)),
			sdk.NewAttribute(types.AttributeKeyHeight, fmt.Sprintf("%d", sdkCtx.BlockHeight())),
		),
	)

	return cert, nil
}

// RevokeCertificate marks the owner's certificate as revoked. Revocation is
// irreversible and visible to the next match pass.
func (k Keeper) RevokeCertificate(ctx context.Context, owner sdk.AccAddress, serial uint64) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	cert, err := k.GetCertificate(ctx, owner.String(), serial)
	if err != nil {
		return err
	}

	if cert.State == types.CertificateStateRevoked {
		return types.ErrAlreadyRevoked.Wrapf("owner %s serial %d", cert.Owner, cert.Serial)
	}

	cert.State = types.CertificateStateRevoked
	cert.RevokedAt = sdkCtx.BlockHeight()

	if err := k.SetCertificate(ctx, cert); err != nil {
		return fmt.Errorf("RevokeCertificate: %w", err)
	}

	k.metrics.CertificatesRevoked.Inc()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeCertRevoked,
			sdk.NewAttribute(types.AttributeKeyOwner, cert.Owner),
			sdk.NewAttribute(types.AttributeKeySerial, fmt.Sprintf("%d", cert.Serial)),
			sdk.NewAttribute(types.AttributeKeyHeight, fmt.Sprintf("%d", sdkCtx.BlockHeight())),
		),
	)

	return nil
}

// IsCertValid reports whether the certificate identified by owner and serial
// is usable at the current ledger time.
func (k Keeper) IsCertValid(ctx context.Context, owner string, serial uint64) bool {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	cert, err := k.GetCertificate(ctx, owner, serial)
	if err != nil {
		k.metrics.ValidityChecks.WithLabelValues("not_found").Inc()
		return false
	}

	valid := cert.IsValidAt(sdkCtx.BlockTime())
	if valid {
		k.metrics.ValidityChecks.WithLabelValues("valid").Inc()
	} else {
		k.metrics.ValidityChecks.WithLabelValues("invalid").Inc()
	}
	return valid
}

// HasValidCertificate reports whether the owner holds any certificate that is
// usable at the current ledger time.
func (k Keeper) HasValidCertificate(ctx context.Context, owner string) bool {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	blockTime := sdkCtx.BlockTime()

	found := false
	k.iterateOwnerCertificates(ctx, owner, func(cert types.Certificate) bool {
		if cert.IsValidAt(blockTime) {
			found = true
			return true
		}
		return false
	})

	if found {
		k.metrics.ValidityChecks.WithLabelValues("valid").Inc()
	} else {
		k.metrics.ValidityChecks.WithLabelValues("invalid").Inc()
	}
	return found
}

// GetCertificatesByOwner returns all certificates registered by the owner
func (k Keeper) GetCertificatesByOwner(ctx context.Context, owner string) []types.Certificate {
	var certs []types.Certificate
	k.iterateOwnerCertificates(ctx, owner, func(cert types.Certificate) bool {
		certs = append(certs, cert)
		return false
	})
	return certs
}

// iterateOwnerCertificates walks the owner's certificates in serial order,
// stopping when cb returns true.
func (k Keeper) iterateOwnerCertificates(ctx context.Context, owner string, cb func(types.Certificate) bool) {
	store := k.getStore(ctx)
	ownerPrefix := types.GetCertificateOwnerPrefix(owner)

	iterator := storetypes.KVStorePrefixIterator(store, ownerPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var cert types.Certificate
		if err := json.Unmarshal(iterator.Value(), &cert); err != nil {
			k.Logger(ctx).Error("skipping corrupt certificate record", "key", fmt.Sprintf("%x", iterator.Key()), "error", err)
			continue
		}
		if cb(cert) {
			return
		}
	}
}

// IterateCertificates walks every stored certificate, stopping when cb
// returns true. Used by genesis export and invariants.
func (k Keeper) IterateCertificates(ctx context.Context, cb func(types.Certificate) bool) {
	store := k.getStore(ctx)

	iterator := storetypes.KVStorePrefixIterator(store, types.CertificateKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var cert types.Certificate
		if err := json.Unmarshal(iterator.Value(), &cert); err != nil {
			k.Logger(ctx).Error("skipping corrupt certificate record", "key", fmt.Sprintf("%x", iterator.Key()), "error", err)
			continue
		}
		if cb(cert) {
			return
		}
	}
}
