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

	"github.com/vela-grid/vela/x/escrow/types"
)

type queryServer struct {
	Keeper
}

const (
	defaultPaginationLimit = 100
	maxPaginationLimit     = 1000
)

// NewQueryServerImpl returns an implementation of the escrow QueryServer interface
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

// Account returns a single escrow account by scope and xid
func (qs queryServer) Account(goCtx context.Context, req *types.QueryAccountRequest) (*types.QueryAccountResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	id := types.AccountID{Scope: req.Scope, XID: req.XID}
	if err := id.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	account, err := qs.Keeper.GetAccount(goCtx, id)
	if err != nil {
		return nil, status.Error(codes.NotFound, fmt.Sprintf("escrow account not found: %s", id))
	}

	return &types.QueryAccountResponse{
		Account: account,
	}, nil
}

// Accounts returns the owner's escrow accounts with pagination. The owner
// index stores primary keys, so each page entry is resolved through a second
// store read.
func (qs queryServer) Accounts(goCtx context.Context, req *types.QueryAccountsRequest) (*types.QueryAccountsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	if _, err := sdk.AccAddressFromBech32(req.Owner); err != nil {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("invalid owner address: %s", err))
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	store := ctx.KVStore(qs.Keeper.storeKey)
	indexStore := storeprefix.NewStore(store, types.GetAccountOwnerPrefix(req.Owner))

	sanitized := sanitizePagination(req.Pagination)
	ctx.GasMeter().ConsumeGas(sanitized.Limit*100, "paginated escrow accounts query")

	accounts := make([]types.Account, 0, sanitized.Limit)
	pageRes, err := query.Paginate(indexStore, sanitized, func(key []byte, value []byte) error {
		bz := store.Get(value)
		if bz == nil {
			return fmt.Errorf("dangling owner index entry %x", value)
		}

		var account types.Account
		if err := json.Unmarshal(bz, &account); err != nil {
			return fmt.Errorf("unmarshal account: %w", err)
		}
		accounts = append(accounts, account)
		return nil
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return &types.QueryAccountsResponse{
		Accounts:   accounts,
		Pagination: pageRes,
	}, nil
}

// Balance returns an account's spendable escrow balance
func (qs queryServer) Balance(goCtx context.Context, req *types.QueryBalanceRequest) (*types.QueryBalanceResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	id := types.AccountID{Scope: req.Scope, XID: req.XID}
	if err := id.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	balance, err := qs.Keeper.Balance(goCtx, id)
	if err != nil {
		return nil, status.Error(codes.NotFound, fmt.Sprintf("escrow account not found: %s", id))
	}

	return &types.QueryBalanceResponse{
		Balance: balance,
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
