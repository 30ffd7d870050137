package types

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	deploymenttypes "github.com/vela-grid/vela/x/deployment/types"
	escrowtypes "github.com/vela-grid/vela/x/escrow/types"
)

// EscrowKeeper is the custody surface the market draws on: deployment
// accounts fund leases, bid accounts hold bid deposits.
type EscrowKeeper interface {
	AccountCreate(ctx context.Context, id escrowtypes.AccountID, owner sdk.AccAddress, deposit sdk.Coin) (escrowtypes.Account, error)
	AccountDeposit(ctx context.Context, id escrowtypes.AccountID, depositor sdk.AccAddress, amount sdk.Coin) error
	GetAccount(ctx context.Context, id escrowtypes.AccountID) (escrowtypes.Account, error)

	// Withdraw pays out min(requested, balance) to the recipient. It is the
	// sole insufficient-funds discovery mechanism: a short payout, not an
	// error, signals exhaustion.
	Withdraw(ctx context.Context, id escrowtypes.AccountID, recipient sdk.AccAddress, requested sdk.Coin) (sdk.Coin, error)

	AccountClose(ctx context.Context, id escrowtypes.AccountID) error
	AccountOverdrawn(ctx context.Context, id escrowtypes.AccountID) error
	AdjustRate(ctx context.Context, id escrowtypes.AccountID, delta sdk.Coin, increase bool) error
	MarkSettled(ctx context.Context, id escrowtypes.AccountID, height int64) error
	Balance(ctx context.Context, id escrowtypes.AccountID) (sdk.Coin, error)
}

// DeploymentKeeper is the deployment surface the market drives: group state
// follows order and lease lifecycles, and exhausted escrow closes the whole
// deployment.
type DeploymentKeeper interface {
	GetDeployment(ctx context.Context, id deploymenttypes.DeploymentID) (deploymenttypes.Deployment, error)
	HasDeployment(ctx context.Context, id deploymenttypes.DeploymentID) bool
	GetGroup(ctx context.Context, id deploymenttypes.GroupID) (deploymenttypes.Group, error)
	OnLeaseMatched(ctx context.Context, id deploymenttypes.GroupID) error
	OnGroupFailed(ctx context.Context, id deploymenttypes.GroupID) error
	OnGroupClosed(ctx context.Context, id deploymenttypes.GroupID) error
	OnGroupReopened(ctx context.Context, id deploymenttypes.GroupID) error
	CloseDeployment(ctx context.Context, id deploymenttypes.DeploymentID) error
}

// CertKeeper gates which providers may bid and win.
type CertKeeper interface {
	HasValidCertificate(ctx context.Context, owner string) bool
}
