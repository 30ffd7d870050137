package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	deploymenttypes "github.com/vela-grid/vela/x/deployment/types"
	"github.com/vela-grid/vela/x/market/types"
)

// RegisterInvariants registers the market module invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "single-winner", SingleWinnerInvariant(k))
	ir.RegisterRoute(types.ModuleName, "escrow-rate-backing", EscrowRateBackingInvariant(k))
	ir.RegisterRoute(types.ModuleName, "well-formed-records", WellFormedRecordsInvariant(k))
}

// AllInvariants runs all invariants of the market module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		msg, broke := SingleWinnerInvariant(k)(ctx)
		if broke {
			return msg, broke
		}
		msg, broke = EscrowRateBackingInvariant(k)(ctx)
		if broke {
			return msg, broke
		}
		return WellFormedRecordsInvariant(k)(ctx)
	}
}

// SingleWinnerInvariant checks that no order carries more than one active
// bid or more than one live lease.
func SingleWinnerInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			broken bool
			msg    string
		)

		activeBids := make(map[types.OrderID]int)
		k.IterateBids(ctx, func(bid types.Bid) bool {
			if bid.State == types.BidStateActive {
				activeBids[bid.ID.OrderID()]++
			}
			return false
		})
		for orderID, n := range activeBids {
			if n > 1 {
				broken = true
				msg += fmt.Sprintf("order %s has %d active bids\n", orderID, n)
			}
		}

		liveLeases := make(map[types.OrderID]int)
		k.IterateLeases(ctx, func(lease types.Lease) bool {
			if lease.Live() {
				liveLeases[lease.ID.OrderID()]++
			}
			return false
		})
		for orderID, n := range liveLeases {
			if n > 1 {
				broken = true
				msg += fmt.Sprintf("order %s has %d live leases\n", orderID, n)
			}
		}

		return sdk.FormatInvariant(types.ModuleName, "single-winner",
			fmt.Sprintf("found orders with multiple winners\n%s", msg)), broken
	}
}

// EscrowRateBackingInvariant checks that each deployment escrow account's
// aggregate rate equals the sum of its live lease prices.
func EscrowRateBackingInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			broken bool
			msg    string
		)

		rates := make(map[deploymenttypes.DeploymentID]sdk.Coin)
		k.IterateLeases(ctx, func(lease types.Lease) bool {
			if !lease.Live() {
				return false
			}
			id := lease.ID.DeploymentID()
			if total, ok := rates[id]; ok && total.Denom == lease.Price.Denom {
				rates[id] = total.Add(lease.Price)
			} else {
				rates[id] = lease.Price
			}
			return false
		})

		for id, total := range rates {
			account, err := k.escrowKeeper.GetAccount(ctx, id.EscrowAccountID())
			if err != nil {
				broken = true
				msg += fmt.Sprintf("deployment %s has live leases but no escrow account\n", id)
				continue
			}
			if account.Rate.Denom != total.Denom || !account.Rate.Amount.Equal(total.Amount) {
				broken = true
				msg += fmt.Sprintf("deployment %s escrow rate %s, live lease total %s\n", id, account.Rate, total)
			}
		}

		return sdk.FormatInvariant(types.ModuleName, "escrow-rate-backing",
			fmt.Sprintf("found escrow accounts out of step with lease rates\n%s", msg)), broken
	}
}

// WellFormedRecordsInvariant checks that all stored orders, bids, and leases
// pass validation and reference each other consistently.
func WellFormedRecordsInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			broken bool
			msg    string
		)

		k.IterateOrders(ctx, func(order types.Order) bool {
			if err := order.Validate(); err != nil {
				broken = true
				msg += fmt.Sprintf("invalid order %s: %v\n", order.ID, err)
			}
			return false
		})

		k.IterateBids(ctx, func(bid types.Bid) bool {
			if err := bid.Validate(); err != nil {
				broken = true
				msg += fmt.Sprintf("invalid bid %s: %v\n", bid.ID, err)
			}
			if !k.HasOrder(ctx, bid.ID.OrderID()) {
				broken = true
				msg += fmt.Sprintf("bid %s references missing order\n", bid.ID)
			}
			return false
		})

		k.IterateLeases(ctx, func(lease types.Lease) bool {
			if err := lease.Validate(); err != nil {
				broken = true
				msg += fmt.Sprintf("invalid lease %s: %v\n", lease.ID, err)
			}
			if !k.HasBid(ctx, lease.ID) {
				broken = true
				msg += fmt.Sprintf("lease %s references missing bid\n", lease.ID)
			}
			return false
		})

		return sdk.FormatInvariant(types.ModuleName, "well-formed-records",
			fmt.Sprintf("found malformed market records\n%s", msg)), broken
	}
}
