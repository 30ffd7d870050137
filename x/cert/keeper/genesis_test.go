package keeper_test

import (
	"bytes"
	"testing"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/vela-grid/vela/testutil/keeper"
	"github.com/vela-grid/vela/x/cert/types"
)

func TestCertGenesisRoundTrip(t *testing.T) {
	k, ctx := keepertest.CertKeeper(t)

	ownerOne := sdk.AccAddress(bytes.Repeat([]byte{0x1}, 20))
	ownerTwo := sdk.AccAddress(bytes.Repeat([]byte{0x2}, 20))

	first, err := k.IssueCertificate(ctx, ownerOne, testPubKeyPEM(t), ctx.BlockTime().Add(time.Hour))
	require.NoError(t, err)
	second, err := k.IssueCertificate(ctx, ownerTwo, testPubKeyPEM(t), ctx.BlockTime().Add(2*time.Hour))
	require.NoError(t, err)
	require.NoError(t, k.RevokeCertificate(ctx, ownerTwo, second.Serial))

	exported := k.ExportGenesis(ctx)
	require.Len(t, exported.Certificates, 2)
	require.Equal(t, uint64(3), exported.NextSerial)
	require.NoError(t, exported.Validate())

	// Import into a fresh keeper and compare.
	k2, ctx2 := keepertest.CertKeeper(t)
	require.NoError(t, k2.InitGenesis(ctx2, *exported))

	restored, err := k2.GetCertificate(ctx2, ownerOne.String(), first.Serial)
	require.NoError(t, err)
	require.Equal(t, first, restored)

	restoredRevoked, err := k2.GetCertificate(ctx2, ownerTwo.String(), second.Serial)
	require.NoError(t, err)
	require.Equal(t, types.CertificateStateRevoked, restoredRevoked.State)

	// Counter keeps issuing past imported serials.
	next, err := k2.IssueCertificate(ctx2, ownerOne, testPubKeyPEM(t), ctx2.BlockTime().Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, uint64(3), next.Serial)
}

func TestCertGenesisCounterRecovery(t *testing.T) {
	k, ctx := keepertest.CertKeeper(t)

	owner := sdk.AccAddress(bytes.Repeat([]byte{0x3}, 20))
	gs := types.GenesisState{
		Params: types.DefaultParams(),
		Certificates: []types.Certificate{
			{
				Owner:     owner.String(),
				Serial:    9,
				PubKey:    testPubKeyPEM(t),
				NotBefore: ctx.BlockTime(),
				NotAfter:  ctx.BlockTime().Add(time.Hour),
				State:     types.CertificateStateValid,
			},
		},
		// Counter lags behind the highest imported serial.
		NextSerial: 2,
	}

	require.NoError(t, k.InitGenesis(ctx, gs))

	cert, err := k.IssueCertificate(ctx, owner, testPubKeyPEM(t), ctx.BlockTime().Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, uint64(10), cert.Serial)
}

func TestCertGenesisValidation(t *testing.T) {
	owner := sdk.AccAddress(bytes.Repeat([]byte{0x4}, 20))
	now := time.Unix(1700000000, 0).UTC()

	valid := types.Certificate{
		Owner:     owner.String(),
		Serial:    1,
		PubKey:    testPubKeyPEM(t),
		NotBefore: now,
		NotAfter:  now.Add(time.Hour),
		State:     types.CertificateStateValid,
	}

	tests := []struct {
		name    string
		mutate  func(*types.GenesisState)
		wantErr bool
	}{
		{
			name:   "default is valid",
			mutate: func(gs *types.GenesisState) {},
		},
		{
			name: "well-formed certificate",
			mutate: func(gs *types.GenesisState) {
				gs.Certificates = []types.Certificate{valid}
				gs.NextSerial = 2
			},
		},
		{
			name: "duplicate serial",
			mutate: func(gs *types.GenesisState) {
				gs.Certificates = []types.Certificate{valid, valid}
				gs.NextSerial = 2
			},
			wantErr: true,
		},
		{
			name: "serial at counter",
			mutate: func(gs *types.GenesisState) {
				gs.Certificates = []types.Certificate{valid}
				gs.NextSerial = 1
			},
			wantErr: true,
		},
		{
			name: "zero counter",
			mutate: func(gs *types.GenesisState) {
				gs.NextSerial = 0
			},
			wantErr: true,
		},
		{
			name: "bad params",
			mutate: func(gs *types.GenesisState) {
				gs.Params.MaxValiditySeconds = 0
			},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gs := types.DefaultGenesis()
			tc.mutate(gs)
			err := gs.Validate()
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
