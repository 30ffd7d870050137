package types

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	escrowtypes "github.com/vela-grid/vela/x/escrow/types"
)

// EscrowKeeper is the escrow interface the deployment module depends on
type EscrowKeeper interface {
	AccountCreate(ctx context.Context, id escrowtypes.AccountID, owner sdk.AccAddress, deposit sdk.Coin) (escrowtypes.Account, error)
	AccountDeposit(ctx context.Context, id escrowtypes.AccountID, depositor sdk.AccAddress, amount sdk.Coin) error
	GetAccount(ctx context.Context, id escrowtypes.AccountID) (escrowtypes.Account, error)
}

// MarketKeeper is the market interface the deployment msg server drives.
// Expressed in deployment types only; the market module depends on this
// module, not the other way around.
type MarketKeeper interface {
	// CreateOrder opens a market order for the group.
	CreateOrder(ctx context.Context, group Group) error

	// QueueDeploymentClose schedules the deployment's orders, bids, and
	// leases to close at this block's settlement pass. Idempotent.
	QueueDeploymentClose(ctx context.Context, id DeploymentID) error

	// SettlementInterval reports the current settlement interval in blocks,
	// used for the admission deposit floor.
	SettlementInterval(ctx context.Context) int64
}
