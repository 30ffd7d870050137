package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	storeprefix "cosmossdk.io/store/prefix"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/query"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vela-grid/vela/x/deployment/types"
)

type queryServer struct {
	Keeper
}

const (
	defaultPaginationLimit = 100
	maxPaginationLimit     = 1000
)

// NewQueryServerImpl returns an implementation of the deployment QueryServer interface
func NewQueryServerImpl(keeper Keeper) types.QueryServer {
	return &queryServer{Keeper: keeper}
}

var _ types.QueryServer = queryServer{}

func sanitizePagination(p *query.PageRequest) *query.PageRequest {
	if p == nil {
		return &query.PageRequest{Limit: defaultPaginationLimit}
	}

	if p.Limit == 0 {
		p.Limit = defaultPaginationLimit
	}

	if p.Limit > maxPaginationLimit {
		p.Limit = maxPaginationLimit
	}

	return p
}

// Deployment returns a single deployment with its groups
func (qs queryServer) Deployment(goCtx context.Context, req *types.QueryDeploymentRequest) (*types.QueryDeploymentResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	id := types.DeploymentID{Owner: req.Owner, DSeq: req.DSeq}
	if err := id.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	deployment, err := qs.Keeper.GetDeployment(goCtx, id)
	if err != nil {
		return nil, status.Error(codes.NotFound, fmt.Sprintf("deployment not found: %s", id))
	}

	return &types.QueryDeploymentResponse{
		Deployment: deployment,
		Groups:     qs.Keeper.GetGroups(goCtx, id),
	}, nil
}

// Deployments returns the owner's deployments with pagination, optionally
// filtered by state.
func (qs queryServer) Deployments(goCtx context.Context, req *types.QueryDeploymentsRequest) (*types.QueryDeploymentsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	if _, err := sdk.AccAddressFromBech32(req.Owner); err != nil {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("invalid owner address: %s", err))
	}

	switch req.State {
	case "", types.DeploymentStateActive.String(), types.DeploymentStateClosed.String():
	default:
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("unknown state filter %q", req.State))
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	store := ctx.KVStore(qs.Keeper.storeKey)
	ownerStore := storeprefix.NewStore(store, types.GetDeploymentOwnerPrefix(req.Owner))

	sanitized := sanitizePagination(req.Pagination)
	ctx.GasMeter().ConsumeGas(sanitized.Limit*100, "paginated deployments query")

	deployments := make([]types.Deployment, 0, sanitized.Limit)
	pageRes, err := query.FilteredPaginate(ownerStore, sanitized, func(key []byte, value []byte, accumulate bool) (bool, error) {
		var deployment types.Deployment
		if err := json.Unmarshal(value, &deployment); err != nil {
			return false, fmt.Errorf("unmarshal deployment: %w", err)
		}

		if req.State != "" && deployment.State.String() != req.State {
			return false, nil
		}

		if accumulate {
			deployments = append(deployments, deployment)
		}
		return true, nil
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return &types.QueryDeploymentsResponse{
		Deployments: deployments,
		Pagination:  pageRes,
	}, nil
}

// Group returns a single group by id
func (qs queryServer) Group(goCtx context.Context, req *types.QueryGroupRequest) (*types.QueryGroupResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	id := types.GroupID{Owner: req.Owner, DSeq: req.DSeq, GSeq: req.GSeq}
	if err := id.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	group, err := qs.Keeper.GetGroup(goCtx, id)
	if err != nil {
		return nil, status.Error(codes.NotFound, fmt.Sprintf("group not found: %s", id))
	}

	return &types.QueryGroupResponse{
		Group: group,
	}, nil
}

// Params returns the module parameters
func (qs queryServer) Params(goCtx context.Context, req *types.QueryParamsRequest) (*types.QueryParamsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	params, err := qs.Keeper.GetParams(goCtx)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return &types.QueryParamsResponse{
		Params: params,
	}, nil
}
