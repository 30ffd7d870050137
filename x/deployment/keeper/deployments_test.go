package keeper_test

import (
	"bytes"
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	testkeeper "github.com/vela-grid/vela/testutil/keeper"
	"github.com/vela-grid/vela/x/deployment/types"
)

func testAddr(b byte) sdk.AccAddress {
	return sdk.AccAddress(bytes.Repeat([]byte{b}, 20))
}

func testGroupSpec(name string, price int64) types.GroupSpec {
	return types.GroupSpec{
		Name: name,
		Resources: []types.Resource{
			{CPU: 1000, Memory: 1 << 30, Storage: 10 << 30, Count: 1},
		},
		MaxPrice: sdk.NewInt64Coin("uvela", price),
	}
}

func TestCreateDeployment(t *testing.T) {
	k, _, _, ctx := testkeeper.DeploymentKeeper(t)
	owner := testAddr(1)

	deployment, groups, err := k.CreateDeployment(ctx, owner, []types.GroupSpec{
		testGroupSpec("web", 10),
		testGroupSpec("db", 25),
	})
	require.NoError(t, err)

	require.Equal(t, owner.String(), deployment.ID.Owner)
	require.Equal(t, uint64(1), deployment.ID.DSeq)
	require.Equal(t, types.DeploymentStateActive, deployment.State)
	require.Equal(t, ctx.BlockHeight(), deployment.CreatedAt)

	require.Len(t, groups, 2)
	for i, group := range groups {
		require.Equal(t, uint32(i+1), group.ID.GSeq)
		require.Equal(t, deployment.ID, group.ID.DeploymentID())
		require.Equal(t, types.GroupStateOpen, group.State)
	}
	require.Equal(t, "web", groups[0].Spec.Name)
	require.Equal(t, "db", groups[1].Spec.Name)

	stored, err := k.GetDeployment(ctx, deployment.ID)
	require.NoError(t, err)
	require.Equal(t, deployment, stored)
	require.Equal(t, groups, k.GetGroups(ctx, deployment.ID))

	second, _, err := k.CreateDeployment(ctx, owner, []types.GroupSpec{testGroupSpec("batch", 5)})
	require.NoError(t, err)
	require.Equal(t, uint64(2), second.ID.DSeq)
}

func TestCreateDeploymentRejectsBadSpecs(t *testing.T) {
	k, _, _, ctx := testkeeper.DeploymentKeeper(t)
	owner := testAddr(1)

	tooMany := make([]types.GroupSpec, types.DefaultMaxGroups+1)
	for i := range tooMany {
		tooMany[i] = testGroupSpec("g", 10)
	}

	noResources := testGroupSpec("empty", 10)
	noResources.Resources = nil

	freePrice := testGroupSpec("free", 10)
	freePrice.MaxPrice = sdk.NewInt64Coin("uvela", 0)

	testCases := []struct {
		name   string
		groups []types.GroupSpec
		err    error
	}{
		{"no groups", nil, types.ErrEmptyGroups},
		{"too many groups", tooMany, types.ErrTooManyGroups},
		{"group without resources", []types.GroupSpec{noResources}, types.ErrInvalidGroupSpec},
		{"zero max price", []types.GroupSpec{freePrice}, types.ErrInvalidGroupSpec},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := k.CreateDeployment(ctx, owner, tc.groups)
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestCreateDeploymentRejectionDoesNotBurnSequence(t *testing.T) {
	k, _, _, ctx := testkeeper.DeploymentKeeper(t)
	owner := testAddr(1)

	_, _, err := k.CreateDeployment(ctx, owner, nil)
	require.ErrorIs(t, err, types.ErrEmptyGroups)

	deployment, _, err := k.CreateDeployment(ctx, owner, []types.GroupSpec{testGroupSpec("web", 10)})
	require.NoError(t, err)
	require.Equal(t, uint64(1), deployment.ID.DSeq)
}

func TestCloseDeployment(t *testing.T) {
	k, _, _, ctx := testkeeper.DeploymentKeeper(t)
	owner := testAddr(1)

	deployment, groups, err := k.CreateDeployment(ctx, owner, []types.GroupSpec{
		testGroupSpec("web", 10),
		testGroupSpec("db", 25),
	})
	require.NoError(t, err)

	require.NoError(t, k.OnLeaseMatched(ctx, groups[0].ID))

	closeCtx := ctx.WithBlockHeight(ctx.BlockHeight() + 50)
	require.NoError(t, k.CloseDeployment(closeCtx, deployment.ID))

	stored, err := k.GetDeployment(ctx, deployment.ID)
	require.NoError(t, err)
	require.Equal(t, types.DeploymentStateClosed, stored.State)
	require.Equal(t, closeCtx.BlockHeight(), stored.ClosedAt)

	for _, group := range k.GetGroups(ctx, deployment.ID) {
		require.Equal(t, types.GroupStateClosed, group.State)
	}

	err = k.CloseDeployment(ctx, deployment.ID)
	require.ErrorIs(t, err, types.ErrDeploymentClosed)
}

func TestCloseDeploymentNotFound(t *testing.T) {
	k, _, _, ctx := testkeeper.DeploymentKeeper(t)

	err := k.CloseDeployment(ctx, types.DeploymentID{Owner: testAddr(9).String(), DSeq: 42})
	require.ErrorIs(t, err, types.ErrDeploymentNotFound)
}

func TestGroupTransitions(t *testing.T) {
	k, _, _, ctx := testkeeper.DeploymentKeeper(t)
	owner := testAddr(1)

	_, groups, err := k.CreateDeployment(ctx, owner, []types.GroupSpec{
		testGroupSpec("a", 10),
		testGroupSpec("b", 10),
		testGroupSpec("c", 10),
	})
	require.NoError(t, err)

	matched, failed, closed := groups[0].ID, groups[1].ID, groups[2].ID

	require.NoError(t, k.OnLeaseMatched(ctx, matched))
	group, err := k.GetGroup(ctx, matched)
	require.NoError(t, err)
	require.Equal(t, types.GroupStateMatched, group.State)

	// only open groups can match or fail
	require.ErrorIs(t, k.OnLeaseMatched(ctx, matched), types.ErrInvalidGroupState)
	require.ErrorIs(t, k.OnGroupFailed(ctx, matched), types.ErrInvalidGroupState)

	require.NoError(t, k.OnGroupFailed(ctx, failed))
	group, err = k.GetGroup(ctx, failed)
	require.NoError(t, err)
	require.Equal(t, types.GroupStateFailed, group.State)

	// a matched group reopens when its lease ends provider-side
	require.NoError(t, k.OnGroupReopened(ctx, matched))
	group, err = k.GetGroup(ctx, matched)
	require.NoError(t, err)
	require.Equal(t, types.GroupStateOpen, group.State)
	require.ErrorIs(t, k.OnGroupReopened(ctx, matched), types.ErrInvalidGroupState)

	require.NoError(t, k.OnGroupClosed(ctx, closed))
	group, err = k.GetGroup(ctx, closed)
	require.NoError(t, err)
	require.Equal(t, types.GroupStateClosed, group.State)
	require.ErrorIs(t, k.OnGroupClosed(ctx, closed), types.ErrInvalidGroupState)

	require.ErrorIs(t, k.OnLeaseMatched(ctx, types.GroupID{Owner: owner.String(), DSeq: 1, GSeq: 99}), types.ErrGroupNotFound)
}

func TestGetDeploymentsByOwner(t *testing.T) {
	k, _, _, ctx := testkeeper.DeploymentKeeper(t)
	alice := testAddr(1)
	bob := testAddr(2)

	for i := 0; i < 3; i++ {
		_, _, err := k.CreateDeployment(ctx, alice, []types.GroupSpec{testGroupSpec("web", 10)})
		require.NoError(t, err)
	}
	_, _, err := k.CreateDeployment(ctx, bob, []types.GroupSpec{testGroupSpec("web", 10)})
	require.NoError(t, err)

	aliceDeployments := k.GetDeploymentsByOwner(ctx, alice.String())
	require.Len(t, aliceDeployments, 3)
	for _, deployment := range aliceDeployments {
		require.Equal(t, alice.String(), deployment.ID.Owner)
	}

	require.Len(t, k.GetDeploymentsByOwner(ctx, bob.String()), 1)
	require.Empty(t, k.GetDeploymentsByOwner(ctx, testAddr(3).String()))
}
