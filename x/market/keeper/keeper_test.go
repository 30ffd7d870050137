package keeper_test

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	testkeeper "github.com/vela-grid/vela/testutil/keeper"
	deploymentkeeper "github.com/vela-grid/vela/x/deployment/keeper"
	deploymenttypes "github.com/vela-grid/vela/x/deployment/types"
	marketkeeper "github.com/vela-grid/vela/x/market/keeper"
	"github.com/vela-grid/vela/x/market/types"
)

func testAddr(b byte) sdk.AccAddress {
	return sdk.AccAddress(bytes.Repeat([]byte{b}, 20))
}

func testPubKeyPEM(t *testing.T) string {
	t.Helper()

	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(pub)
	require.NoError(t, err)

	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

// marketSuite drives the market through its public surfaces: deployments
// list orders via the deployment msg server, providers bid via the market
// msg server, and blocks advance by running the end blocker at a height.
type marketSuite struct {
	t   *testing.T
	f   testkeeper.MarketFixture
	ms  types.MsgServer
	dms deploymenttypes.MsgServer
}

func newMarketSuite(t *testing.T) *marketSuite {
	f := testkeeper.MarketKeeper(t)
	return &marketSuite{
		t:   t,
		f:   f,
		ms:  marketkeeper.NewMsgServerImpl(*f.Market),
		dms: deploymentkeeper.NewMsgServerImpl(*f.Deployment, f.Market),
	}
}

func (s *marketSuite) at(height int64) sdk.Context {
	return s.f.WithHeight(height)
}

// endBlock runs the market end blocker at the given height and returns the
// context it ran under.
func (s *marketSuite) endBlock(height int64) sdk.Context {
	ctx := s.at(height)
	require.NoError(s.t, s.f.Market.EndBlocker(ctx))
	return ctx
}

func (s *marketSuite) fund(addr sdk.AccAddress, coins ...sdk.Coin) {
	testkeeper.FundAccount(s.t, s.f.Ctx, s.f.Bank, addr, sdk.NewCoins(coins...))
}

func (s *marketSuite) balance(addr sdk.AccAddress, denom string) sdk.Coin {
	return s.f.Bank.GetBalance(s.f.Ctx, addr, denom)
}

func (s *marketSuite) issueCert(provider sdk.AccAddress) uint64 {
	cert, err := s.f.Cert.IssueCertificate(s.f.Ctx, provider, testPubKeyPEM(s.t), s.f.Ctx.BlockTime().Add(24*time.Hour))
	require.NoError(s.t, err)
	return cert.Serial
}

// certifiedProvider funds the provider with the default bid deposit and
// issues it a certificate.
func (s *marketSuite) certifiedProvider(b byte) sdk.AccAddress {
	provider := testAddr(b)
	s.fund(provider, sdk.NewInt64Coin(types.DefaultBondDenom, types.DefaultMinBidDepositAmount))
	s.issueCert(provider)
	return provider
}

// createDeployment opens a single-group deployment through the deployment
// msg server and returns the order listed for the group.
func (s *marketSuite) createDeployment(ctx sdk.Context, owner sdk.AccAddress, maxPrice, deposit sdk.Coin) types.Order {
	resp, err := s.dms.CreateDeployment(ctx, deploymenttypes.NewMsgCreateDeployment(owner.String(), []deploymenttypes.GroupSpec{{
		Name:      "compute",
		Resources: []deploymenttypes.Resource{{CPU: 1000, Memory: 1 << 30, Storage: 10 << 30, Count: 1}},
		MaxPrice:  maxPrice,
	}}, deposit))
	require.NoError(s.t, err)

	orders := s.f.Market.GetOrdersByDeployment(ctx, resp.ID)
	require.Len(s.t, orders, 1)
	return orders[0]
}

// bid places a bid through the market msg server with the default deposit.
func (s *marketSuite) bid(ctx sdk.Context, order types.OrderID, provider sdk.AccAddress, price sdk.Coin) types.BidID {
	deposit := sdk.NewInt64Coin(types.DefaultBondDenom, types.DefaultMinBidDepositAmount)
	_, err := s.ms.CreateBid(ctx, types.NewMsgCreateBid(order, provider.String(), price, deposit))
	require.NoError(s.t, err)
	return types.MakeBidID(order, provider.String())
}

func (s *marketSuite) setParams(params types.Params) {
	require.NoError(s.t, s.f.Market.SetParams(s.f.Ctx, params))
}

func uvela(amount int64) sdk.Coin {
	return sdk.NewInt64Coin(types.DefaultBondDenom, amount)
}

// hasEvent reports whether an event of the given type was emitted on the
// fixture's event manager.
func hasEvent(ctx sdk.Context, eventType string) bool {
	for _, ev := range ctx.EventManager().Events() {
		if ev.Type == eventType {
			return true
		}
	}
	return false
}
