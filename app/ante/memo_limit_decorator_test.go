package ante

import (
	"strings"
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
	proto "google.golang.org/protobuf/proto"
)

// memoTx is the smallest tx satisfying sdk.TxWithMemo.
type memoTx struct {
	memo string
}

func (m memoTx) GetMsgs() []sdk.Msg                  { return nil }
func (m memoTx) GetMsgsV2() ([]proto.Message, error) { return nil, nil }
func (m memoTx) ValidateBasic() error                { return nil }
func (m memoTx) GetMemo() string                     { return m.memo }

func TestMemoLimitDecorator(t *testing.T) {
	dec := NewMemoLimitDecorator(10)

	txExact := memoTx{memo: "0123456789"}
	txOver := memoTx{memo: "0123456789a"}

	ctx := sdk.Context{}.WithTxBytes([]byte{})
	ante := sdk.ChainAnteDecorators(dec)

	// exact size passes
	_, err := ante(ctx, txExact, false)
	require.NoError(t, err)

	// oversize fails
	_, err = ante(ctx, txOver, false)
	require.Error(t, err)
	require.Contains(t, err.Error(), "memo too large")
}

func TestMemoLimitDecorator_DefaultLimit(t *testing.T) {
	dec := NewMemoLimitDecorator(DefaultMaxMemoBytes)

	ctx := sdk.Context{}.WithTxBytes([]byte{})
	ante := sdk.ChainAnteDecorators(dec)

	_, err := ante(ctx, memoTx{memo: strings.Repeat("m", DefaultMaxMemoBytes)}, false)
	require.NoError(t, err)

	_, err = ante(ctx, memoTx{memo: strings.Repeat("m", DefaultMaxMemoBytes+1)}, false)
	require.Error(t, err)
}
