package ante_test

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/vela-grid/vela/app/ante"
	testkeeper "github.com/vela-grid/vela/testutil/keeper"
	certtypes "github.com/vela-grid/vela/x/cert/types"
)

func testPubKeyPEM(t *testing.T) string {
	t.Helper()

	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(pub)
	require.NoError(t, err)

	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

func TestCertDecorator_IssueCertificate(t *testing.T) {
	f := testkeeper.MarketKeeper(t)
	dec := ante.NewCertDecorator(*f.Cert)

	owner := sdk.AccAddress([]byte("cert-owner-issue----")).String()
	blockTime := f.Ctx.BlockTime()

	t.Run("valid issuance passes", func(t *testing.T) {
		msg := certtypes.NewMsgIssueCertificate(owner, testPubKeyPEM(t), blockTime.Add(time.Hour))
		_, err := dec.AnteHandle(f.Ctx, mockTx{msgs: []sdk.Msg{msg}}, false, passthrough)
		require.NoError(t, err)
	})

	t.Run("malformed key rejected", func(t *testing.T) {
		msg := certtypes.NewMsgIssueCertificate(owner, "not a pem block", blockTime.Add(time.Hour))
		_, err := dec.AnteHandle(f.Ctx, mockTx{msgs: []sdk.Msg{msg}}, false, passthrough)
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid public key")
	})

	t.Run("expiry at block time rejected", func(t *testing.T) {
		msg := certtypes.NewMsgIssueCertificate(owner, testPubKeyPEM(t), blockTime)
		_, err := dec.AnteHandle(f.Ctx, mockTx{msgs: []sdk.Msg{msg}}, false, passthrough)
		require.Error(t, err)
		require.Contains(t, err.Error(), "is not after ledger time")
	})

	t.Run("validity window over maximum rejected", func(t *testing.T) {
		msg := certtypes.NewMsgIssueCertificate(owner, testPubKeyPEM(t), blockTime.Add(2*365*24*time.Hour))
		_, err := dec.AnteHandle(f.Ctx, mockTx{msgs: []sdk.Msg{msg}}, false, passthrough)
		require.Error(t, err)
		require.Contains(t, err.Error(), "exceeds maximum")
	})

	t.Run("simulate skips validation", func(t *testing.T) {
		msg := certtypes.NewMsgIssueCertificate(owner, "not a pem block", blockTime.Add(time.Hour))
		_, err := dec.AnteHandle(f.Ctx, mockTx{msgs: []sdk.Msg{msg}}, true, passthrough)
		require.NoError(t, err)
	})
}

func TestCertDecorator_RevokeCertificate(t *testing.T) {
	f := testkeeper.MarketKeeper(t)
	dec := ante.NewCertDecorator(*f.Cert)

	owner := sdk.AccAddress([]byte("cert-owner-revoke---"))

	t.Run("unknown certificate rejected", func(t *testing.T) {
		msg := certtypes.NewMsgRevokeCertificate(owner.String(), 42)
		_, err := dec.AnteHandle(f.Ctx, mockTx{msgs: []sdk.Msg{msg}}, false, passthrough)
		require.Error(t, err)
		require.Contains(t, err.Error(), "unknown certificate")
	})

	cert, err := f.Cert.IssueCertificate(f.Ctx, owner, testPubKeyPEM(t), f.Ctx.BlockTime().Add(time.Hour))
	require.NoError(t, err)

	t.Run("valid certificate accepted", func(t *testing.T) {
		msg := certtypes.NewMsgRevokeCertificate(owner.String(), cert.Serial)
		_, err := dec.AnteHandle(f.Ctx, mockTx{msgs: []sdk.Msg{msg}}, false, passthrough)
		require.NoError(t, err)
	})

	t.Run("already revoked certificate rejected", func(t *testing.T) {
		require.NoError(t, f.Cert.RevokeCertificate(f.Ctx, owner, cert.Serial))

		msg := certtypes.NewMsgRevokeCertificate(owner.String(), cert.Serial)
		_, err := dec.AnteHandle(f.Ctx, mockTx{msgs: []sdk.Msg{msg}}, false, passthrough)
		require.Error(t, err)
		require.Contains(t, err.Error(), "already")
	})
}
