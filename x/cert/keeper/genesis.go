package keeper

import (
	"context"
	"fmt"

	"github.com/vela-grid/vela/x/cert/types"
)

// InitGenesis initializes the cert module's state from a genesis state
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := k.SetParams(ctx, genState.Params); err != nil {
		return fmt.Errorf("failed to set params: %w", err)
	}

	maxSerial := uint64(0)
	for _, cert := range genState.Certificates {
		if err := cert.Validate(); err != nil {
			return fmt.Errorf("invalid certificate %s/%d: %w", cert.Owner, cert.Serial, err)
		}
		if err := k.SetCertificate(ctx, cert); err != nil {
			return fmt.Errorf("failed to set certificate %s/%d: %w", cert.Owner, cert.Serial, err)
		}
		if cert.Serial > maxSerial {
			maxSerial = cert.Serial
		}
	}

	// The counter must stay ahead of every imported serial even if the
	// exported value lags.
	next := genState.NextSerial
	if maxSerial >= next {
		next = maxSerial + 1
	}
	k.SetNextSerial(ctx, next)

	return nil
}

// ExportGenesis returns the cert module's exported genesis state
func (k Keeper) ExportGenesis(ctx context.Context) *types.GenesisState {
	genState := types.DefaultGenesis()

	params, err := k.GetParams(ctx)
	if err == nil {
		genState.Params = params
	}

	k.IterateCertificates(ctx, func(cert types.Certificate) bool {
		genState.Certificates = append(genState.Certificates, cert)
		return false
	})

	genState.NextSerial = k.PeekNextSerial(ctx)

	return genState
}
