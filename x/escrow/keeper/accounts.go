package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/vela-grid/vela/x/escrow/types"
)

// SetAccount stores an account record and maintains the owner index
func (k Keeper) SetAccount(ctx context.Context, account types.Account) error {
	store := k.getStore(ctx)

	bz, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("SetAccount: marshal: %w", err)
	}

	primaryKey := types.GetAccountKey(account.ID)
	store.Set(primaryKey, bz)
	store.Set(types.GetAccountOwnerIndexKey(account.Owner, account.ID), primaryKey)
	return nil
}

// GetAccount retrieves an escrow account by id
func (k Keeper) GetAccount(ctx context.Context, id types.AccountID) (types.Account, error) {
	store := k.getStore(ctx)

	bz := store.Get(types.GetAccountKey(id))
	if bz == nil {
		return types.Account{}, types.ErrAccountNotFound.Wrapf("id %s", id)
	}

	var account types.Account
	if err := json.Unmarshal(bz, &account); err != nil {
		return types.Account{}, fmt.Errorf("GetAccount: unmarshal: %w", err)
	}

	return account, nil
}

// HasAccount reports whether an account exists for the id
func (k Keeper) HasAccount(ctx context.Context, id types.AccountID) bool {
	store := k.getStore(ctx)
	return store.Has(types.GetAccountKey(id))
}

// AccountCreate opens a new escrow account funded with the initial deposit.
// The deposit is transferred from the owner into the module account before
// the record is persisted.
func (k Keeper) AccountCreate(ctx context.Context, id types.AccountID, owner sdk.AccAddress, deposit sdk.Coin) (types.Account, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if err := id.Validate(); err != nil {
		return types.Account{}, err
	}

	if err := deposit.Validate(); err != nil {
		return types.Account{}, types.ErrInvalidDeposit.Wrapf("%v", err)
	}

	if !deposit.IsPositive() {
		return types.Account{}, types.ErrInvalidDeposit.Wrap("deposit must be positive")
	}

	if k.HasAccount(ctx, id) {
		return types.Account{}, types.ErrAccountExists.Wrapf("id %s", id)
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return types.Account{}, fmt.Errorf("AccountCreate: %w", err)
	}

	// The floor applies to deposits in the bond denom; IBC-transferred denoms
	// have no on-chain price to value them against.
	if deposit.Denom == params.MinDeposit.Denom && deposit.Amount.LT(params.MinDeposit.Amount) {
		return types.Account{}, types.ErrDepositBelowMinimum.Wrapf(
			"deposit %s below minimum %s", deposit, params.MinDeposit)
	}

	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, owner, types.ModuleName, sdk.NewCoins(deposit)); err != nil {
		return types.Account{}, fmt.Errorf("AccountCreate: fund escrow: %w", err)
	}

	account := types.Account{
		ID:        id,
		Owner:     owner.String(),
		Balance:   deposit,
		Deposited: deposit,
		Rate:      sdk.NewInt64Coin(deposit.Denom, 0),
		SettledAt: sdkCtx.BlockHeight(),
		State:     types.AccountStateOpen,
	}

	if err := k.SetAccount(ctx, account); err != nil {
		// Funds are already in the module account; refund rather than strand them.
		if refundErr := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, owner, sdk.NewCoins(deposit)); refundErr != nil {
			k.Logger(ctx).Error("failed to refund after store failure; funds stranded in module account",
				"id", id.String(), "owner", account.Owner, "amount", deposit.String(), "error", refundErr)
		}
		return types.Account{}, fmt.Errorf("AccountCreate: %w", err)
	}

	k.metrics.AccountsCreated.WithLabelValues(id.Scope).Inc()
	k.metrics.DepositVolume.WithLabelValues(id.Scope).Add(float64(deposit.Amount.Int64()))

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeAccountCreated,
			sdk.NewAttribute(types.AttributeKeyScope, id.Scope),
			sdk.NewAttribute(types.AttributeKeyXID, id.XID),
			sdk.NewAttribute(types.AttributeKeyOwner, account.Owner),
			sdk.NewAttribute(types.AttributeKeyAmount, deposit.String()),
			sdk.NewAttribute(types.AttributeKeyHeight, fmt.Sprintf("%d", sdkCtx.BlockHeight())),
		),
	)

	return account, nil
}

// AccountDeposit tops up an open account. Any address may deposit; the denom
// must match the account's balance denom.
func (k Keeper) AccountDeposit(ctx context.Context, id types.AccountID, depositor sdk.AccAddress, amount sdk.Coin) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	account, err := k.GetAccount(ctx, id)
	if err != nil {
		return err
	}

	if account.State != types.AccountStateOpen {
		return types.ErrAccountClosed.Wrapf("id %s is %s", id, account.State)
	}

	if err := amount.Validate(); err != nil {
		return types.ErrInvalidDeposit.Wrapf("%v", err)
	}

	if !amount.IsPositive() {
		return types.ErrInvalidDeposit.Wrap("amount must be positive")
	}

	if amount.Denom != account.Balance.Denom {
		return types.ErrInvalidDenom.Wrapf("deposit denom %s, account denom %s", amount.Denom, account.Balance.Denom)
	}

	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, depositor, types.ModuleName, sdk.NewCoins(amount)); err != nil {
		return fmt.Errorf("AccountDeposit: fund escrow: %w", err)
	}

	account.Balance = account.Balance.Add(amount)
	account.Deposited = account.Deposited.Add(amount)

	if err := k.SetAccount(ctx, account); err != nil {
		if refundErr := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, depositor, sdk.NewCoins(amount)); refundErr != nil {
			k.Logger(ctx).Error("failed to refund after store failure; funds stranded in module account",
				"id", id.String(), "depositor", depositor.String(), "amount", amount.String(), "error", refundErr)
		}
		return fmt.Errorf("AccountDeposit: %w", err)
	}

	k.metrics.DepositVolume.WithLabelValues(id.Scope).Add(float64(amount.Amount.Int64()))

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeDeposited,
			sdk.NewAttribute(types.AttributeKeyScope, id.Scope),
			sdk.NewAttribute(types.AttributeKeyXID, id.XID),
			sdk.NewAttribute(types.AttributeKeyDepositor, depositor.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
			sdk.NewAttribute(types.AttributeKeyBalance, account.Balance.String()),
			sdk.NewAttribute(types.AttributeKeyHeight, fmt.Sprintf("%d", sdkCtx.BlockHeight())),
		),
	)

	return nil
}

// Withdraw debits min(requested, balance) from the account and transfers it
// to the recipient. It never drives the balance negative and a short payout
// is not an error: comparing the returned amount against the request is the
// sole insufficient-funds discovery mechanism.
func (k Keeper) Withdraw(ctx context.Context, id types.AccountID, recipient sdk.AccAddress, requested sdk.Coin) (sdk.Coin, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	account, err := k.GetAccount(ctx, id)
	if err != nil {
		return sdk.Coin{}, err
	}

	if account.State != types.AccountStateOpen {
		return sdk.Coin{}, types.ErrAccountClosed.Wrapf("id %s is %s", id, account.State)
	}

	if err := requested.Validate(); err != nil {
		return sdk.Coin{}, types.ErrInvalidDeposit.Wrapf("%v", err)
	}

	if requested.Denom != account.Balance.Denom {
		return sdk.Coin{}, types.ErrInvalidDenom.Wrapf("requested denom %s, account denom %s", requested.Denom, account.Balance.Denom)
	}

	actual := requested
	if account.Balance.Amount.LT(requested.Amount) {
		actual = account.Balance
	}

	if actual.IsZero() {
		return actual, nil
	}

	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, recipient, sdk.NewCoins(actual)); err != nil {
		return sdk.Coin{}, fmt.Errorf("Withdraw: pay out: %w", err)
	}

	account.Balance = account.Balance.Sub(actual)
	if err := k.SetAccount(ctx, account); err != nil {
		// Funds already left the module account; claw them back rather than
		// leave the ledger out of step with bank balances.
		if refundErr := k.bankKeeper.SendCoinsFromAccountToModule(ctx, recipient, types.ModuleName, sdk.NewCoins(actual)); refundErr != nil {
			k.Logger(ctx).Error("failed to claw back after store failure; ledger out of step with bank",
				"id", id.String(), "recipient", recipient.String(), "amount", actual.String(), "error", refundErr)
		}
		return sdk.Coin{}, fmt.Errorf("Withdraw: %w", err)
	}

	k.metrics.WithdrawVolume.WithLabelValues(id.Scope).Add(float64(actual.Amount.Int64()))

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeWithdrawn,
			sdk.NewAttribute(types.AttributeKeyScope, id.Scope),
			sdk.NewAttribute(types.AttributeKeyXID, id.XID),
			sdk.NewAttribute(types.AttributeKeyRecipient, recipient.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, actual.String()),
			sdk.NewAttribute(types.AttributeKeyBalance, account.Balance.String()),
			sdk.NewAttribute(types.AttributeKeyHeight, fmt.Sprintf("%d", sdkCtx.BlockHeight())),
		),
	)

	return actual, nil
}

// OwnerWithdraw handles an owner-initiated withdrawal. While leases draw on
// the account the withdrawal must leave one settlement interval of the
// current rate in reserve; within that cap the usual min semantics apply.
func (k Keeper) OwnerWithdraw(ctx context.Context, id types.AccountID, owner sdk.AccAddress, requested sdk.Coin) (sdk.Coin, error) {
	account, err := k.GetAccount(ctx, id)
	if err != nil {
		return sdk.Coin{}, err
	}

	if account.Owner != owner.String() {
		return sdk.Coin{}, types.ErrUnauthorized.Wrapf("account %s is not owned by %s", id, owner)
	}

	if account.State != types.AccountStateOpen {
		return sdk.Coin{}, types.ErrAccountClosed.Wrapf("id %s is %s", id, account.State)
	}

	if requested.Denom != account.Balance.Denom {
		return sdk.Coin{}, types.ErrInvalidDenom.Wrapf("requested denom %s, account denom %s", requested.Denom, account.Balance.Denom)
	}

	if account.Rate.IsPositive() {
		params, err := k.GetParams(ctx)
		if err != nil {
			return sdk.Coin{}, fmt.Errorf("OwnerWithdraw: %w", err)
		}

		reserve := account.Rate.Amount.MulRaw(params.WithdrawReserveBlocks)
		withdrawable := account.Balance.Amount.Sub(reserve)
		if !withdrawable.IsPositive() {
			return sdk.Coin{}, types.ErrReserveViolated.Wrapf(
				"balance %s is within the %s reserve", account.Balance, sdk.NewCoin(account.Rate.Denom, reserve))
		}

		if requested.Amount.GT(withdrawable) {
			requested = sdk.NewCoin(requested.Denom, withdrawable)
		}
	}

	return k.Withdraw(ctx, id, owner, requested)
}

// AccountClose refunds the remaining balance to the owner and closes the
// account. Closed is terminal.
func (k Keeper) AccountClose(ctx context.Context, id types.AccountID) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	account, err := k.GetAccount(ctx, id)
	if err != nil {
		return err
	}

	if account.State != types.AccountStateOpen {
		return types.ErrAccountClosed.Wrapf("id %s is %s", id, account.State)
	}

	refund := account.Balance
	if refund.IsPositive() {
		owner, err := sdk.AccAddressFromBech32(account.Owner)
		if err != nil {
			return types.ErrInvalidAddress.Wrapf("stored owner %q: %v", account.Owner, err)
		}
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, owner, sdk.NewCoins(refund)); err != nil {
			return fmt.Errorf("AccountClose: refund: %w", err)
		}
	}

	account.Balance = sdk.NewInt64Coin(account.Balance.Denom, 0)
	account.State = types.AccountStateClosed
	account.ClosedAt = sdkCtx.BlockHeight()

	if err := k.SetAccount(ctx, account); err != nil {
		return fmt.Errorf("AccountClose: %w", err)
	}

	k.metrics.AccountsClosed.WithLabelValues(id.Scope, account.State.String()).Inc()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeAccountClosed,
			sdk.NewAttribute(types.AttributeKeyScope, id.Scope),
			sdk.NewAttribute(types.AttributeKeyXID, id.XID),
			sdk.NewAttribute(types.AttributeKeyOwner, account.Owner),
			sdk.NewAttribute(types.AttributeKeyAmount, refund.String()),
			sdk.NewAttribute(types.AttributeKeyHeight, fmt.Sprintf("%d", sdkCtx.BlockHeight())),
		),
	)

	return nil
}

// AccountOverdrawn marks an exhausted account overdrawn. The settlement pass
// calls this when the shared pool ran dry and the grace interval elapsed
// without a top-up.
func (k Keeper) AccountOverdrawn(ctx context.Context, id types.AccountID) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	account, err := k.GetAccount(ctx, id)
	if err != nil {
		return err
	}

	if account.State != types.AccountStateOpen {
		return types.ErrAccountClosed.Wrapf("id %s is %s", id, account.State)
	}

	account.State = types.AccountStateOverdrawn
	account.ClosedAt = sdkCtx.BlockHeight()

	if err := k.SetAccount(ctx, account); err != nil {
		return fmt.Errorf("AccountOverdrawn: %w", err)
	}

	k.metrics.AccountsClosed.WithLabelValues(id.Scope, account.State.String()).Inc()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOverdrawn,
			sdk.NewAttribute(types.AttributeKeyScope, id.Scope),
			sdk.NewAttribute(types.AttributeKeyXID, id.XID),
			sdk.NewAttribute(types.AttributeKeyOwner, account.Owner),
			sdk.NewAttribute(types.AttributeKeyHeight, fmt.Sprintf("%d", sdkCtx.BlockHeight())),
		),
	)

	return nil
}

// AdjustRate moves the account's aggregate withdrawal rate as leases open and
// close against it.
func (k Keeper) AdjustRate(ctx context.Context, id types.AccountID, delta sdk.Coin, increase bool) error {
	account, err := k.GetAccount(ctx, id)
	if err != nil {
		return err
	}

	if account.State != types.AccountStateOpen {
		return types.ErrAccountClosed.Wrapf("id %s is %s", id, account.State)
	}

	if delta.Denom != account.Rate.Denom {
		return types.ErrInvalidDenom.Wrapf("delta denom %s, rate denom %s", delta.Denom, account.Rate.Denom)
	}

	if increase {
		account.Rate = account.Rate.Add(delta)
	} else {
		if account.Rate.Amount.LT(delta.Amount) {
			return types.ErrInvalidRate.Wrapf("rate %s cannot drop by %s", account.Rate, delta)
		}
		account.Rate = account.Rate.Sub(delta)
	}

	if err := k.SetAccount(ctx, account); err != nil {
		return fmt.Errorf("AdjustRate: %w", err)
	}

	return nil
}

// MarkSettled advances the account-level settlement checkpoint
func (k Keeper) MarkSettled(ctx context.Context, id types.AccountID, height int64) error {
	account, err := k.GetAccount(ctx, id)
	if err != nil {
		return err
	}

	account.SettledAt = height

	if err := k.SetAccount(ctx, account); err != nil {
		return fmt.Errorf("MarkSettled: %w", err)
	}

	return nil
}

// Balance returns the account's current balance
func (k Keeper) Balance(ctx context.Context, id types.AccountID) (sdk.Coin, error) {
	account, err := k.GetAccount(ctx, id)
	if err != nil {
		return sdk.Coin{}, err
	}
	return account.Balance, nil
}

// GetAccountsByOwner returns all accounts owned by the address
func (k Keeper) GetAccountsByOwner(ctx context.Context, owner string) []types.Account {
	store := k.getStore(ctx)

	var accounts []types.Account
	iterator := storetypes.KVStorePrefixIterator(store, types.GetAccountOwnerPrefix(owner))
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		bz := store.Get(iterator.Value())
		if bz == nil {
			k.Logger(ctx).Error("dangling owner index entry", "key", fmt.Sprintf("%x", iterator.Key()))
			continue
		}

		var account types.Account
		if err := json.Unmarshal(bz, &account); err != nil {
			k.Logger(ctx).Error("skipping corrupt account record", "key", fmt.Sprintf("%x", iterator.Value()), "error", err)
			continue
		}
		accounts = append(accounts, account)
	}

	return accounts
}

// IterateAccounts walks every stored account, stopping when cb returns true.
// Used by genesis export and invariants.
func (k Keeper) IterateAccounts(ctx context.Context, cb func(types.Account) bool) {
	store := k.getStore(ctx)

	iterator := storetypes.KVStorePrefixIterator(store, types.AccountKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var account types.Account
		if err := json.Unmarshal(iterator.Value(), &account); err != nil {
			k.Logger(ctx).Error("skipping corrupt account record", "key", fmt.Sprintf("%x", iterator.Key()), "error", err)
			continue
		}
		if cb(account) {
			return
		}
	}
}
