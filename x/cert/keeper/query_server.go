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

	"github.com/vela-grid/vela/x/cert/types"
)

type queryServer struct {
	Keeper
}

const (
	defaultPaginationLimit = 100
	maxPaginationLimit     = 1000
)

// NewQueryServerImpl returns an implementation of the cert QueryServer interface
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

// Certificate returns a single certificate by owner and serial
func (qs queryServer) Certificate(goCtx context.Context, req *types.QueryCertificateRequest) (*types.QueryCertificateResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	if _, err := sdk.AccAddressFromBech32(req.Owner); err != nil {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("invalid owner address: %s", err))
	}

	cert, err := qs.Keeper.GetCertificate(goCtx, req.Owner, req.Serial)
	if err != nil {
		return nil, status.Error(codes.NotFound, fmt.Sprintf("certificate not found: %s/%d", req.Owner, req.Serial))
	}

	return &types.QueryCertificateResponse{
		Certificate: cert,
	}, nil
}

// Certificates returns the owner's certificates with pagination
func (qs queryServer) Certificates(goCtx context.Context, req *types.QueryCertificatesRequest) (*types.QueryCertificatesResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	if _, err := sdk.AccAddressFromBech32(req.Owner); err != nil {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("invalid owner address: %s", err))
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	store := ctx.KVStore(qs.Keeper.storeKey)
	ownerStore := storeprefix.NewStore(store, types.GetCertificateOwnerPrefix(req.Owner))

	sanitized := sanitizePagination(req.Pagination)
	ctx.GasMeter().ConsumeGas(sanitized.Limit*100, "paginated certificates query")

	certs := make([]types.Certificate, 0, sanitized.Limit)
	pageRes, err := query.Paginate(ownerStore, sanitized, func(key []byte, value []byte) error {
		var cert types.Certificate
		if err := json.Unmarshal(value, &cert); err != nil {
			return fmt.Errorf("unmarshal certificate: %w", err)
		}
		certs = append(certs, cert)
		return nil
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return &types.QueryCertificatesResponse{
		Certificates: certs,
		Pagination:   pageRes,
	}, nil
}

// CertificateValidity reports whether the certificate is usable at the
// current ledger time.
func (qs queryServer) CertificateValidity(goCtx context.Context, req *types.QueryCertificateValidityRequest) (*types.QueryCertificateValidityResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	if _, err := sdk.AccAddressFromBech32(req.Owner); err != nil {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("invalid owner address: %s", err))
	}

	return &types.QueryCertificateValidityResponse{
		Valid: qs.Keeper.IsCertValid(goCtx, req.Owner, req.Serial),
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
