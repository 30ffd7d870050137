package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	testkeeper "github.com/vela-grid/vela/testutil/keeper"
	"github.com/vela-grid/vela/x/deployment/types"
)

func TestDeploymentGenesisRoundTrip(t *testing.T) {
	k, _, _, ctx := testkeeper.DeploymentKeeper(t)
	owner := testAddr(1)

	first, _, err := k.CreateDeployment(ctx, owner, []types.GroupSpec{
		testGroupSpec("web", 10),
		testGroupSpec("db", 25),
	})
	require.NoError(t, err)

	_, groups, err := k.CreateDeployment(ctx, owner, []types.GroupSpec{testGroupSpec("batch", 5)})
	require.NoError(t, err)
	require.NoError(t, k.OnLeaseMatched(ctx, groups[0].ID))
	require.NoError(t, k.CloseDeployment(ctx, first.ID))

	exported := k.ExportGenesis(ctx)
	require.NoError(t, exported.Validate())
	require.Len(t, exported.Deployments, 2)
	require.Len(t, exported.Groups, 3)
	require.Equal(t, uint64(3), exported.NextDSeq)

	fresh, _, _, freshCtx := testkeeper.DeploymentKeeper(t)
	require.NoError(t, fresh.InitGenesis(freshCtx, *exported))

	reExported := fresh.ExportGenesis(freshCtx)
	require.Equal(t, exported, reExported)

	// the sequence continues past imported deployments
	next, _, err := fresh.CreateDeployment(freshCtx, owner, []types.GroupSpec{testGroupSpec("extra", 7)})
	require.NoError(t, err)
	require.Equal(t, uint64(3), next.ID.DSeq)
}

func TestDeploymentGenesisValidation(t *testing.T) {
	owner := testAddr(1).String()

	valid := func() types.GenesisState {
		id := types.DeploymentID{Owner: owner, DSeq: 1}
		return types.GenesisState{
			Params: types.DefaultParams(),
			Deployments: []types.Deployment{
				{ID: id, State: types.DeploymentStateActive, CreatedAt: 1},
			},
			Groups: []types.Group{
				{ID: types.MakeGroupID(id, 1), Spec: testGroupSpec("web", 10), State: types.GroupStateOpen, CreatedAt: 1},
			},
			NextDSeq: 2,
		}
	}

	testCases := []struct {
		name    string
		mutate  func(*types.GenesisState)
		wantErr string
	}{
		{
			"valid state",
			func(*types.GenesisState) {},
			"",
		},
		{
			"duplicate deployment",
			func(gs *types.GenesisState) {
				gs.Deployments = append(gs.Deployments, gs.Deployments[0])
			},
			"duplicate",
		},
		{
			"dseq at or beyond sequence",
			func(gs *types.GenesisState) { gs.NextDSeq = 1 },
			"at or above next dseq",
		},
		{
			"group without deployment",
			func(gs *types.GenesisState) { gs.Deployments = nil },
			"unknown deployment",
		},
		{
			"bad params",
			func(gs *types.GenesisState) { gs.Params.MaxGroups = 0 },
			"max groups",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gs := valid()
			tc.mutate(&gs)

			err := gs.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
