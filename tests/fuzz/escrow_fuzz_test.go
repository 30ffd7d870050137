package fuzz

import (
	"bytes"
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/vela-grid/vela/testutil/keeper"
	"github.com/vela-grid/vela/x/escrow/types"
)

func fuzzAddr(b byte) sdk.AccAddress {
	return sdk.AccAddress(bytes.Repeat([]byte{b}, 20))
}

// FuzzEscrowWithdraw drives an escrow account through a fuzzed
// deposit/withdraw/withdraw sequence and checks the core guarantees the
// settlement engine relies on: a withdrawal returns min(requested,
// available), the balance never goes negative, and nothing is minted or
// burned along the way.
func FuzzEscrowWithdraw(f *testing.F) {
	seeds := []struct {
		deposit uint64
		first   uint64
		second  uint64
	}{
		{1000, 1, 1},                    // minimum deposit, trivial draws
		{1000, 1000, 1},                 // first draw empties the account
		{5000, 2500, 2500},              // two draws empty it exactly
		{5000, 10000, 1},                // over-withdraw clamps to balance
		{1 << 40, 1 << 39, 1 << 39},     // large balanced draws
		{1000, 0, 0},                    // zero requests are rejected
		{9999999999, 9999999998, 50000}, // near-total then overdraw
	}
	for _, seed := range seeds {
		f.Add(seed.deposit, seed.first, seed.second)
	}

	f.Fuzz(func(t *testing.T, depositRaw, firstRaw, secondRaw uint64) {
		// Keep amounts inside int64 coin range.
		depositRaw %= 1 << 50
		firstRaw %= 1 << 50
		secondRaw %= 1 << 50
		if depositRaw < uint64(types.DefaultMinDepositAmount) {
			return
		}

		k, bank, ctx := keepertest.EscrowKeeper(t)

		owner := fuzzAddr(1)
		recipient := fuzzAddr(2)
		id := types.DeploymentAccountID(owner.String(), 1)

		deposit := sdk.NewInt64Coin(types.DefaultBondDenom, int64(depositRaw))
		keepertest.FundAccount(t, ctx, bank, owner, sdk.NewCoins(deposit))

		_, err := k.AccountCreate(ctx, id, owner, deposit)
		require.NoError(t, err)

		remaining := int64(depositRaw)
		for _, raw := range []uint64{firstRaw, secondRaw} {
			if raw == 0 {
				// Zero withdrawals are validation errors, not no-ops.
				_, err := k.Withdraw(ctx, id, recipient, sdk.NewInt64Coin(types.DefaultBondDenom, 0))
				require.Error(t, err)
				continue
			}

			requested := int64(raw)
			actual, err := k.Withdraw(ctx, id, recipient, sdk.NewInt64Coin(types.DefaultBondDenom, requested))
			require.NoError(t, err)

			want := requested
			if remaining < want {
				want = remaining
			}
			require.Equal(t, want, actual.Amount.Int64())
			remaining -= want

			balance, err := k.Balance(ctx, id)
			require.NoError(t, err)
			require.Equal(t, remaining, balance.Amount.Int64())
			require.False(t, balance.IsNegative())
		}

		// Conservation: recipient credit plus remaining balance equals the
		// original deposit.
		credited := bank.GetBalance(ctx, recipient, types.DefaultBondDenom).Amount.Int64()
		require.Equal(t, int64(depositRaw), credited+remaining)
	})
}

// FuzzDepositEscrowValidateBasic feeds arbitrary field values through the
// deposit message's stateless validation; it must classify, never panic.
func FuzzDepositEscrowValidateBasic(f *testing.F) {
	f.Add("deployment", "owner/1", fuzzAddr(1).String(), "uvela", int64(1000))
	f.Add("bid", "owner/1/1/1/prov", "", "uvela", int64(-5))
	f.Add("", "", "not-an-address", "", int64(0))
	f.Add("deployment", "x", fuzzAddr(2).String(), "u", int64(1))

	f.Fuzz(func(t *testing.T, scope, xid, depositor, denom string, amount int64) {
		if err := sdk.ValidateDenom(denom); err != nil || amount < 0 {
			// NewMsgDepositEscrow takes a constructed coin; invalid denoms
			// and negative amounts cannot be represented without panicking
			// in the coin constructor itself, which is the sdk contract.
			return
		}

		msg := types.NewMsgDepositEscrow(
			types.AccountID{Scope: scope, XID: xid},
			depositor,
			sdk.NewInt64Coin(denom, amount),
		)

		err := msg.ValidateBasic()

		if _, addrErr := sdk.AccAddressFromBech32(depositor); addrErr != nil {
			require.Error(t, err, "invalid depositor must be rejected")
		}
		if scope != types.ScopeDeployment && scope != types.ScopeBid {
			require.Error(t, err, "unknown scope must be rejected")
		}
		if amount == 0 {
			require.Error(t, err, "zero deposit must be rejected")
		}
	})
}
