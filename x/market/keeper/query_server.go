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

	"github.com/vela-grid/vela/x/market/types"
)

type queryServer struct {
	Keeper
}

const (
	defaultPaginationLimit = 100
	maxPaginationLimit     = 1000
)

// NewQueryServerImpl returns an implementation of the market QueryServer interface
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

// Order returns a single order along with the bids placed on it
func (qs queryServer) Order(goCtx context.Context, req *types.QueryOrderRequest) (*types.QueryOrderResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	id := types.OrderID{Owner: req.Owner, DSeq: req.DSeq, GSeq: req.GSeq, OSeq: req.OSeq}
	if err := id.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	order, err := qs.Keeper.GetOrder(goCtx, id)
	if err != nil {
		return nil, status.Error(codes.NotFound, fmt.Sprintf("order not found: %s", id))
	}

	return &types.QueryOrderResponse{
		Order: order,
		Bids:  qs.Keeper.GetBidsByOrder(goCtx, id),
	}, nil
}

// Orders returns orders with pagination, optionally narrowed to an owner and
// dseq and filtered by state.
func (qs queryServer) Orders(goCtx context.Context, req *types.QueryOrdersRequest) (*types.QueryOrdersResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	prefix := types.OrderKeyPrefix
	if req.Owner != "" {
		if _, err := sdk.AccAddressFromBech32(req.Owner); err != nil {
			return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("invalid owner address: %s", err))
		}
		prefix = types.GetOrderOwnerPrefix(req.Owner)
		if req.DSeq != 0 {
			prefix = types.GetDeploymentOrdersPrefix(req.Owner, req.DSeq)
		}
	} else if req.DSeq != 0 {
		return nil, status.Error(codes.InvalidArgument, "dseq filter requires an owner")
	}

	switch req.State {
	case "", types.OrderStateOpen.String(), types.OrderStateActive.String(), types.OrderStateClosed.String():
	default:
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("unknown state filter %q", req.State))
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	orderStore := storeprefix.NewStore(ctx.KVStore(qs.Keeper.storeKey), prefix)

	sanitized := sanitizePagination(req.Pagination)
	ctx.GasMeter().ConsumeGas(sanitized.Limit*100, "paginated orders query")

	orders := make([]types.Order, 0, sanitized.Limit)
	pageRes, err := query.FilteredPaginate(orderStore, sanitized, func(key []byte, value []byte, accumulate bool) (bool, error) {
		var order types.Order
		if err := json.Unmarshal(value, &order); err != nil {
			return false, fmt.Errorf("unmarshal order: %w", err)
		}

		if req.State != "" && order.State.String() != req.State {
			return false, nil
		}

		if accumulate {
			orders = append(orders, order)
		}
		return true, nil
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return &types.QueryOrdersResponse{
		Orders:     orders,
		Pagination: pageRes,
	}, nil
}

// Bid returns a single bid by id
func (qs queryServer) Bid(goCtx context.Context, req *types.QueryBidRequest) (*types.QueryBidResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	id := types.BidID{Owner: req.Owner, DSeq: req.DSeq, GSeq: req.GSeq, OSeq: req.OSeq, Provider: req.Provider}
	if err := id.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	bid, err := qs.Keeper.GetBid(goCtx, id)
	if err != nil {
		return nil, status.Error(codes.NotFound, fmt.Sprintf("bid not found: %s", id))
	}

	return &types.QueryBidResponse{Bid: bid}, nil
}

// Bids returns one order's bids with pagination, optionally filtered by
// state.
func (qs queryServer) Bids(goCtx context.Context, req *types.QueryBidsRequest) (*types.QueryBidsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	orderID := types.OrderID{Owner: req.Owner, DSeq: req.DSeq, GSeq: req.GSeq, OSeq: req.OSeq}
	if err := orderID.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	switch req.State {
	case "", types.BidStateOpen.String(), types.BidStateActive.String(), types.BidStateLost.String(), types.BidStateClosed.String():
	default:
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("unknown state filter %q", req.State))
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	bidStore := storeprefix.NewStore(ctx.KVStore(qs.Keeper.storeKey), types.GetOrderBidsPrefix(orderID))

	sanitized := sanitizePagination(req.Pagination)
	ctx.GasMeter().ConsumeGas(sanitized.Limit*100, "paginated bids query")

	bids := make([]types.Bid, 0, sanitized.Limit)
	pageRes, err := query.FilteredPaginate(bidStore, sanitized, func(key []byte, value []byte, accumulate bool) (bool, error) {
		var bid types.Bid
		if err := json.Unmarshal(value, &bid); err != nil {
			return false, fmt.Errorf("unmarshal bid: %w", err)
		}

		if req.State != "" && bid.State.String() != req.State {
			return false, nil
		}

		if accumulate {
			bids = append(bids, bid)
		}
		return true, nil
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return &types.QueryBidsResponse{
		Bids:       bids,
		Pagination: pageRes,
	}, nil
}

// Lease returns a single lease by id
func (qs queryServer) Lease(goCtx context.Context, req *types.QueryLeaseRequest) (*types.QueryLeaseResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	id := types.LeaseID{Owner: req.Owner, DSeq: req.DSeq, GSeq: req.GSeq, OSeq: req.OSeq, Provider: req.Provider}
	if err := id.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	lease, err := qs.Keeper.GetLease(goCtx, id)
	if err != nil {
		return nil, status.Error(codes.NotFound, fmt.Sprintf("lease not found: %s", id))
	}

	return &types.QueryLeaseResponse{Lease: lease}, nil
}

// Leases returns a tenant's or provider's leases with pagination, optionally
// filtered by state. Tenant-side requests walk the primary store; provider
// side requests resolve through the provider index.
func (qs queryServer) Leases(goCtx context.Context, req *types.QueryLeasesRequest) (*types.QueryLeasesResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	if req.Owner == "" && req.Provider == "" {
		return nil, status.Error(codes.InvalidArgument, "either owner or provider is required")
	}

	if req.Owner != "" {
		if _, err := sdk.AccAddressFromBech32(req.Owner); err != nil {
			return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("invalid owner address: %s", err))
		}
	}

	if req.Provider != "" {
		if _, err := sdk.AccAddressFromBech32(req.Provider); err != nil {
			return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("invalid provider address: %s", err))
		}
	}

	switch req.State {
	case "", types.LeaseStateActive.String(), types.LeaseStateInsufficientFunds.String(), types.LeaseStateClosed.String():
	default:
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("unknown state filter %q", req.State))
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	store := ctx.KVStore(qs.Keeper.storeKey)

	sanitized := sanitizePagination(req.Pagination)
	ctx.GasMeter().ConsumeGas(sanitized.Limit*100, "paginated leases query")

	match := func(lease types.Lease) bool {
		if req.Owner != "" && lease.ID.Owner != req.Owner {
			return false
		}
		if req.Provider != "" && lease.ID.Provider != req.Provider {
			return false
		}
		if req.State != "" && lease.State.String() != req.State {
			return false
		}
		return true
	}

	leases := make([]types.Lease, 0, sanitized.Limit)

	var (
		pageRes *query.PageResponse
		err     error
	)
	if req.Owner != "" {
		leaseStore := storeprefix.NewStore(store, types.GetLeaseOwnerPrefix(req.Owner))
		pageRes, err = query.FilteredPaginate(leaseStore, sanitized, func(key []byte, value []byte, accumulate bool) (bool, error) {
			var lease types.Lease
			if err := json.Unmarshal(value, &lease); err != nil {
				return false, fmt.Errorf("unmarshal lease: %w", err)
			}
			if !match(lease) {
				return false, nil
			}
			if accumulate {
				leases = append(leases, lease)
			}
			return true, nil
		})
	} else {
		indexStore := storeprefix.NewStore(store, types.GetLeaseProviderPrefix(req.Provider))
		pageRes, err = query.FilteredPaginate(indexStore, sanitized, func(key []byte, value []byte, accumulate bool) (bool, error) {
			bz := store.Get(value)
			if bz == nil {
				return false, nil
			}
			var lease types.Lease
			if err := json.Unmarshal(bz, &lease); err != nil {
				return false, fmt.Errorf("unmarshal lease: %w", err)
			}
			if !match(lease) {
				return false, nil
			}
			if accumulate {
				leases = append(leases, lease)
			}
			return true, nil
		})
	}
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return &types.QueryLeasesResponse{
		Leases:     leases,
		Pagination: pageRes,
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
