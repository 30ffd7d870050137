package keeper_test

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/vela-grid/vela/testutil/keeper"
	"github.com/vela-grid/vela/x/cert/types"
)

func testPubKeyPEM(t *testing.T) string {
	t.Helper()

	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(pub)
	require.NoError(t, err)

	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

func TestIssueCertificate(t *testing.T) {
	k, ctx := keepertest.CertKeeper(t)

	owner := sdk.AccAddress(bytes.Repeat([]byte{0x1}, 20))
	pubKey := testPubKeyPEM(t)
	notAfter := ctx.BlockTime().Add(24 * time.Hour)

	cert, err := k.IssueCertificate(ctx, owner, pubKey, notAfter)
	require.NoError(t, err)
	require.Equal(t, uint64(1), cert.Serial)
	require.Equal(t, owner.String(), cert.Owner)
	require.Equal(t, types.CertificateStateValid, cert.State)
	require.Equal(t, ctx.BlockTime(), cert.NotBefore)

	stored, err := k.GetCertificate(ctx, owner.String(), cert.Serial)
	require.NoError(t, err)
	require.Equal(t, cert, stored)

	events := ctx.EventManager().Events()
	require.NotEmpty(t, events)
	require.Equal(t, types.EventTypeCertIssued, events[len(events)-1].Type)
}

func TestIssueCertificateAssignsSequentialSerials(t *testing.T) {
	k, ctx := keepertest.CertKeeper(t)

	owner := sdk.AccAddress(bytes.Repeat([]byte{0x2}, 20))
	other := sdk.AccAddress(bytes.Repeat([]byte{0x3}, 20))
	notAfter := ctx.BlockTime().Add(time.Hour)

	for i, addr := range []sdk.AccAddress{owner, other, owner} {
		cert, err := k.IssueCertificate(ctx, addr, testPubKeyPEM(t), notAfter)
		require.NoError(t, err)
		require.Equal(t, uint64(i+1), cert.Serial)
	}

	require.Len(t, k.GetCertificatesByOwner(ctx, owner.String()), 2)
	require.Len(t, k.GetCertificatesByOwner(ctx, other.String()), 1)
}

func TestIssueCertificateRejectsBadInput(t *testing.T) {
	k, ctx := keepertest.CertKeeper(t)

	owner := sdk.AccAddress(bytes.Repeat([]byte{0x4}, 20))
	pubKey := testPubKeyPEM(t)

	tests := []struct {
		name     string
		pubKey   string
		notAfter time.Time
		wantErr  error
	}{
		{
			name:     "not pem encoded",
			pubKey:   "not a pem block",
			notAfter: ctx.BlockTime().Add(time.Hour),
			wantErr:  types.ErrInvalidPubKey,
		},
		{
			name:     "wrong pem block type",
			pubKey:   "-----BEGIN CERTIFICATE-----\nZm9v\n-----END CERTIFICATE-----\n",
			notAfter: ctx.BlockTime().Add(time.Hour),
			wantErr:  types.ErrInvalidPubKey,
		},
		{
			name:     "expiry before ledger time",
			pubKey:   pubKey,
			notAfter: ctx.BlockTime().Add(-time.Second),
			wantErr:  types.ErrInvalidValidity,
		},
		{
			name:     "expiry equals ledger time",
			pubKey:   pubKey,
			notAfter: ctx.BlockTime(),
			wantErr:  types.ErrInvalidValidity,
		},
		{
			name:     "window exceeds maximum",
			pubKey:   pubKey,
			notAfter: ctx.BlockTime().Add(2 * 365 * 24 * time.Hour),
			wantErr:  types.ErrValidityTooLong,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := k.IssueCertificate(ctx, owner, tc.pubKey, tc.notAfter)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}

	// No state was written by any rejected issue.
	require.Empty(t, k.GetCertificatesByOwner(ctx, owner.String()))
}

func TestRevokeCertificate(t *testing.T) {
	k, ctx := keepertest.CertKeeper(t)

	owner := sdk.AccAddress(bytes.Repeat([]byte{0x5}, 20))
	cert, err := k.IssueCertificate(ctx, owner, testPubKeyPEM(t), ctx.BlockTime().Add(time.Hour))
	require.NoError(t, err)

	require.NoError(t, k.RevokeCertificate(ctx, owner, cert.Serial))

	stored, err := k.GetCertificate(ctx, owner.String(), cert.Serial)
	require.NoError(t, err)
	require.Equal(t, types.CertificateStateRevoked, stored.State)
	require.Equal(t, ctx.BlockHeight(), stored.RevokedAt)

	// Revocation is irreversible; a second revoke is a state conflict.
	err = k.RevokeCertificate(ctx, owner, cert.Serial)
	require.ErrorIs(t, err, types.ErrAlreadyRevoked)
}

func TestRevokeCertificateNotFound(t *testing.T) {
	k, ctx := keepertest.CertKeeper(t)

	owner := sdk.AccAddress(bytes.Repeat([]byte{0x6}, 20))
	err := k.RevokeCertificate(ctx, owner, 42)
	require.ErrorIs(t, err, types.ErrCertificateNotFound)
}

func TestIsCertValid(t *testing.T) {
	k, ctx := keepertest.CertKeeper(t)

	owner := sdk.AccAddress(bytes.Repeat([]byte{0x7}, 20))
	cert, err := k.IssueCertificate(ctx, owner, testPubKeyPEM(t), ctx.BlockTime().Add(time.Hour))
	require.NoError(t, err)

	require.True(t, k.IsCertValid(ctx, owner.String(), cert.Serial))

	// Validity is evaluated against ledger time, exclusive of NotAfter.
	expiredCtx := ctx.WithBlockTime(cert.NotAfter)
	require.False(t, k.IsCertValid(expiredCtx, owner.String(), cert.Serial))

	lastValidCtx := ctx.WithBlockTime(cert.NotAfter.Add(-time.Second))
	require.True(t, k.IsCertValid(lastValidCtx, owner.String(), cert.Serial))

	require.False(t, k.IsCertValid(ctx, owner.String(), 999))

	require.NoError(t, k.RevokeCertificate(ctx, owner, cert.Serial))
	require.False(t, k.IsCertValid(ctx, owner.String(), cert.Serial))
}

func TestIsCertValidBeforeWindow(t *testing.T) {
	k, ctx := keepertest.CertKeeper(t)

	owner := sdk.AccAddress(bytes.Repeat([]byte{0x8}, 20))
	cert := types.Certificate{
		Owner:     owner.String(),
		Serial:    7,
		PubKey:    testPubKeyPEM(t),
		NotBefore: ctx.BlockTime().Add(time.Hour),
		NotAfter:  ctx.BlockTime().Add(2 * time.Hour),
		State:     types.CertificateStateValid,
	}
	require.NoError(t, k.SetCertificate(ctx, cert))

	require.False(t, k.IsCertValid(ctx, owner.String(), cert.Serial))

	// Inclusive of NotBefore.
	activeCtx := ctx.WithBlockTime(cert.NotBefore)
	require.True(t, k.IsCertValid(activeCtx, owner.String(), cert.Serial))
}

func TestHasValidCertificate(t *testing.T) {
	k, ctx := keepertest.CertKeeper(t)

	owner := sdk.AccAddress(bytes.Repeat([]byte{0x9}, 20))
	require.False(t, k.HasValidCertificate(ctx, owner.String()))

	first, err := k.IssueCertificate(ctx, owner, testPubKeyPEM(t), ctx.BlockTime().Add(time.Hour))
	require.NoError(t, err)
	require.True(t, k.HasValidCertificate(ctx, owner.String()))

	require.NoError(t, k.RevokeCertificate(ctx, owner, first.Serial))
	require.False(t, k.HasValidCertificate(ctx, owner.String()))

	// A later valid certificate restores the owner's standing.
	_, err = k.IssueCertificate(ctx, owner, testPubKeyPEM(t), ctx.BlockTime().Add(time.Hour))
	require.NoError(t, err)
	require.True(t, k.HasValidCertificate(ctx, owner.String()))
}
