package keeper

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/vela-grid/vela/x/escrow/types"
)

// RegisterInvariants registers all escrow invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "module-account-balance", ModuleAccountBalanceInvariant(k))
	ir.RegisterRoute(types.ModuleName, "well-formed-accounts", WellFormedAccountsInvariant(k))
}

// AllInvariants runs all invariants of the escrow module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := ModuleAccountBalanceInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		return WellFormedAccountsInvariant(k)(ctx)
	}
}

// ModuleAccountBalanceInvariant checks that the module account holds at least
// the sum of all ledger balances, per denom. Anything less means custody has
// paid out funds the ledger still claims.
func ModuleAccountBalanceInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		totals := make(map[string]sdkmath.Int)
		k.IterateAccounts(ctx, func(account types.Account) bool {
			if !account.Balance.IsNil() && account.Balance.IsPositive() {
				total, ok := totals[account.Balance.Denom]
				if !ok {
					total = sdkmath.ZeroInt()
				}
				totals[account.Balance.Denom] = total.Add(account.Balance.Amount)
			}
			return false
		})

		var (
			msg   string
			count int
		)

		moduleAddr := k.GetModuleAddress()
		for denom, total := range totals {
			held := k.bankKeeper.GetBalance(ctx, moduleAddr, denom)
			if held.Amount.LT(total) {
				count++
				msg += fmt.Sprintf("\tmodule holds %s, ledger claims %s%s\n", held, total, denom)
			}
		}

		broken := count != 0
		return sdk.FormatInvariant(types.ModuleName, "module-account-balance",
			fmt.Sprintf("found %d underfunded denom(s)\n%s", count, msg)), broken
	}
}

// WellFormedAccountsInvariant checks that every stored account passes
// stateless validation, which includes non-negative balances and
// balance <= deposited.
func WellFormedAccountsInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		k.IterateAccounts(ctx, func(account types.Account) bool {
			if err := account.Validate(); err != nil {
				count++
				msg += fmt.Sprintf("\taccount %s: %v\n", account.ID, err)
			}
			return false
		})

		broken := count != 0
		return sdk.FormatInvariant(types.ModuleName, "well-formed-accounts",
			fmt.Sprintf("found %d malformed account(s)\n%s", count, msg)), broken
	}
}
