package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// EndBlocker runs the market's per-block state machine. The order is fixed:
// queued closes first, so a deployment closed this block settles before its
// leases are charged again; then settlement; then matching, so an order
// listed by a close in this same block is not decided until its window runs.
func (k Keeper) EndBlocker(ctx context.Context) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if err := k.closePass(ctx); err != nil {
		sdkCtx.Logger().Error("market close pass failed", "error", err)
	}

	if err := k.settlePass(ctx); err != nil {
		sdkCtx.Logger().Error("market settlement pass failed", "error", err)
	}

	if err := k.matchPass(ctx); err != nil {
		sdkCtx.Logger().Error("market match pass failed", "error", err)
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"market_end_block",
			sdk.NewAttribute("height", fmt.Sprintf("%d", sdkCtx.BlockHeight())),
		),
	)

	return nil
}
