package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/vela-grid/vela/x/cert/types"
)

// RegisterInvariants registers all cert invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "serial-bounds", SerialBoundsInvariant(k))
	ir.RegisterRoute(types.ModuleName, "well-formed-records", WellFormedRecordsInvariant(k))
}

// AllInvariants runs all invariants of the cert module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := SerialBoundsInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		return WellFormedRecordsInvariant(k)(ctx)
	}
}

// SerialBoundsInvariant checks that every stored serial is below the global
// counter, so the keeper can never re-issue an existing serial.
func SerialBoundsInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		next := k.PeekNextSerial(ctx)
		k.IterateCertificates(ctx, func(cert types.Certificate) bool {
			if cert.Serial >= next {
				count++
				msg += fmt.Sprintf("\tcertificate %s/%d at or above next serial %d\n", cert.Owner, cert.Serial, next)
			}
			return false
		})

		broken := count != 0
		return sdk.FormatInvariant(types.ModuleName, "serial-bounds",
			fmt.Sprintf("found %d certificate(s) with out-of-range serials\n%s", count, msg)), broken
	}
}

// WellFormedRecordsInvariant checks that every stored certificate passes
// stateless validation.
func WellFormedRecordsInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		k.IterateCertificates(ctx, func(cert types.Certificate) bool {
			if err := cert.Validate(); err != nil {
				count++
				msg += fmt.Sprintf("\tcertificate %s/%d: %v\n", cert.Owner, cert.Serial, err)
			}
			return false
		})

		broken := count != 0
		return sdk.FormatInvariant(types.ModuleName, "well-formed-records",
			fmt.Sprintf("found %d malformed certificate(s)\n%s", count, msg)), broken
	}
}
