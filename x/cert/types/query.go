package types

import (
	"context"

	grpc1 "github.com/cosmos/gogoproto/grpc"
	"google.golang.org/grpc"

	"github.com/cosmos/cosmos-sdk/types/query"
)

// QueryServer defines the query server interface
type QueryServer interface {
	Certificate(context.Context, *QueryCertificateRequest) (*QueryCertificateResponse, error)
	Certificates(context.Context, *QueryCertificatesRequest) (*QueryCertificatesResponse, error)
	CertificateValidity(context.Context, *QueryCertificateValidityRequest) (*QueryCertificateValidityResponse, error)
	Params(context.Context, *QueryParamsRequest) (*QueryParamsResponse, error)
}

// QueryCertificateRequest is the request for a single certificate
type QueryCertificateRequest struct {
	Owner  string `json:"owner"`
	Serial uint64 `json:"serial"`
}

// QueryCertificateResponse is the response carrying one certificate
type QueryCertificateResponse struct {
	Certificate Certificate `json:"certificate"`
}

// QueryCertificatesRequest lists an owner's certificates
type QueryCertificatesRequest struct {
	Owner      string             `json:"owner"`
	Pagination *query.PageRequest `json:"pagination,omitempty"`
}

// QueryCertificatesResponse carries a page of certificates
type QueryCertificatesResponse struct {
	Certificates []Certificate       `json:"certificates"`
	Pagination   *query.PageResponse `json:"pagination,omitempty"`
}

// QueryCertificateValidityRequest asks whether a certificate is currently valid
type QueryCertificateValidityRequest struct {
	Owner  string `json:"owner"`
	Serial uint64 `json:"serial"`
}

// QueryCertificateValidityResponse reports validity at the current ledger time
type QueryCertificateValidityResponse struct {
	Valid bool `json:"valid"`
}

// QueryParamsRequest is the request for module params
type QueryParamsRequest struct{}

// QueryParamsResponse carries the module params
type QueryParamsResponse struct {
	Params Params `json:"params"`
}

// QueryClient is the client API for the cert query service
type QueryClient interface {
	Certificate(ctx context.Context, in *QueryCertificateRequest, opts ...grpc.CallOption) (*QueryCertificateResponse, error)
	Certificates(ctx context.Context, in *QueryCertificatesRequest, opts ...grpc.CallOption) (*QueryCertificatesResponse, error)
	CertificateValidity(ctx context.Context, in *QueryCertificateValidityRequest, opts ...grpc.CallOption) (*QueryCertificateValidityResponse, error)
	Params(ctx context.Context, in *QueryParamsRequest, opts ...grpc.CallOption) (*QueryParamsResponse, error)
}

type queryClient struct {
	cc grpc1.ClientConn
}

// NewQueryClient creates a new cert query client
func NewQueryClient(cc grpc1.ClientConn) QueryClient {
	return &queryClient{cc}
}

func (c *queryClient) Certificate(ctx context.Context, in *QueryCertificateRequest, opts ...grpc.CallOption) (*QueryCertificateResponse, error) {
	out := new(QueryCertificateResponse)
	err := c.cc.Invoke(ctx, "/vela.cert.v1.Query/Certificate", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *queryClient) Certificates(ctx context.Context, in *QueryCertificatesRequest, opts ...grpc.CallOption) (*QueryCertificatesResponse, error) {
	out := new(QueryCertificatesResponse)
	err := c.cc.Invoke(ctx, "/vela.cert.v1.Query/Certificates", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *queryClient) CertificateValidity(ctx context.Context, in *QueryCertificateValidityRequest, opts ...grpc.CallOption) (*QueryCertificateValidityResponse, error) {
	out := new(QueryCertificateValidityResponse)
	err := c.cc.Invoke(ctx, "/vela.cert.v1.Query/CertificateValidity", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *queryClient) Params(ctx context.Context, in *QueryParamsRequest, opts ...grpc.CallOption) (*QueryParamsResponse, error) {
	out := new(QueryParamsResponse)
	err := c.cc.Invoke(ctx, "/vela.cert.v1.Query/Params", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RegisterQueryServer registers the query server with the given gRPC server
func RegisterQueryServer(s grpc1.Server, srv QueryServer) {
	s.RegisterService(&_Query_serviceDesc, srv)
}

func _Query_Certificate_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(QueryCertificateRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(QueryServer).Certificate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/vela.cert.v1.Query/Certificate",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(QueryServer).Certificate(ctx, req.(*QueryCertificateRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Query_Certificates_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(QueryCertificatesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(QueryServer).Certificates(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/vela.cert.v1.Query/Certificates",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(QueryServer).Certificates(ctx, req.(*QueryCertificatesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Query_CertificateValidity_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(QueryCertificateValidityRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(QueryServer).CertificateValidity(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/vela.cert.v1.Query/CertificateValidity",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(QueryServer).CertificateValidity(ctx, req.(*QueryCertificateValidityRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Query_Params_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(QueryParamsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(QueryServer).Params(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/vela.cert.v1.Query/Params",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(QueryServer).Params(ctx, req.(*QueryParamsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var _Query_serviceDesc = grpc.ServiceDesc{
	ServiceName: "vela.cert.v1.Query",
	HandlerType: (*QueryServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Certificate",
			Handler:    _Query_Certificate_Handler,
		},
		{
			MethodName: "Certificates",
			Handler:    _Query_Certificates_Handler,
		},
		{
			MethodName: "CertificateValidity",
			Handler:    _Query_CertificateValidity_Handler,
		},
		{
			MethodName: "Params",
			Handler:    _Query_Params_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "vela/cert/v1/query.proto",
}
