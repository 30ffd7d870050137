package ante

import (
	"fmt"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

const (
	// MaxBlockTimeDrift bounds the spread between consecutive block timestamps.
	MaxBlockTimeDrift = 5 * time.Minute

	// MaxFutureBlockTime is how far ahead of wall-clock time a block
	// timestamp may run before transactions are rejected.
	MaxFutureBlockTime = 30 * time.Second
)

// TimeValidatorDecorator rejects transactions in blocks whose timestamp runs
// ahead of wall-clock time. Marketplace state transitions (bid windows,
// settlement accrual, certificate validity) are keyed off block time, so a
// proposer pushing timestamps forward could prematurely expire orders or
// over-accrue lease payments.
type TimeValidatorDecorator struct{}

func NewTimeValidatorDecorator() TimeValidatorDecorator {
	return TimeValidatorDecorator{}
}

func (tvd TimeValidatorDecorator) AnteHandle(ctx sdk.Context, tx sdk.Tx, simulate bool, next sdk.AnteHandler) (sdk.Context, error) {
	if simulate {
		return next(ctx, tx, simulate)
	}

	// Genesis and the first block have no meaningful reference time.
	if ctx.BlockHeight() <= 1 {
		return next(ctx, tx, simulate)
	}

	blockTime := ctx.BlockTime()
	now := time.Now()
	if blockTime.After(now.Add(MaxFutureBlockTime)) {
		return ctx, sdkerrors.ErrInvalidRequest.Wrapf(
			"block time %s is too far in the future (max drift: %s from %s)",
			blockTime, MaxFutureBlockTime, now,
		)
	}

	// Historical block times are never rejected against the wall clock: nodes
	// replaying during catch-up legitimately process old timestamps.
	// Monotonicity is enforced by consensus against the previous block time,
	// which is not available here.

	return next(ctx, tx, simulate)
}

// ValidateBlockTime checks a block timestamp against the previous block time
// and the local clock. A zero prevBlockTime skips the monotonicity check.
func ValidateBlockTime(blockTime time.Time, prevBlockTime time.Time, currentTime time.Time) error {
	if blockTime.After(currentTime.Add(MaxFutureBlockTime)) {
		return fmt.Errorf(
			"block time %s is too far in the future (max drift: %s from %s)",
			blockTime, MaxFutureBlockTime, currentTime,
		)
	}

	if !prevBlockTime.IsZero() && blockTime.Before(prevBlockTime) {
		return fmt.Errorf(
			"block time %s is before previous block time %s",
			blockTime, prevBlockTime,
		)
	}

	return nil
}

// IsTimeManipulation reports whether a sequence of block times contains a
// backwards step or a forward jump larger than threshold.
func IsTimeManipulation(blockTimes []time.Time, threshold time.Duration) bool {
	if len(blockTimes) < 2 {
		return false
	}

	for i := 1; i < len(blockTimes); i++ {
		diff := blockTimes[i].Sub(blockTimes[i-1])
		if diff > threshold {
			return true
		}
		if diff < 0 {
			return true
		}
	}

	return false
}
