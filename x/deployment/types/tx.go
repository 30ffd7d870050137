package types

import (
	"context"

	grpc1 "github.com/cosmos/gogoproto/grpc"
	"google.golang.org/grpc"
)

// MsgServer defines the message server interface
type MsgServer interface {
	CreateDeployment(context.Context, *MsgCreateDeployment) (*MsgCreateDeploymentResponse, error)
	CloseDeployment(context.Context, *MsgCloseDeployment) (*MsgCloseDeploymentResponse, error)
	DepositDeployment(context.Context, *MsgDepositDeployment) (*MsgDepositDeploymentResponse, error)
}

// MsgCreateDeploymentResponse carries the assigned deployment id
type MsgCreateDeploymentResponse struct {
	ID DeploymentID `json:"id"`
}

// MsgCloseDeploymentResponse defines the response for CloseDeployment
type MsgCloseDeploymentResponse struct{}

// MsgDepositDeploymentResponse defines the response for DepositDeployment
type MsgDepositDeploymentResponse struct{}

// RegisterMsgServer registers the message server with the given gRPC server
func RegisterMsgServer(s grpc1.Server, srv MsgServer) {
	s.RegisterService(&_Msg_serviceDesc, srv)
}

func _Msg_CreateDeployment_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(MsgCreateDeployment)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MsgServer).CreateDeployment(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/vela.deployment.v1.Msg/CreateDeployment",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MsgServer).CreateDeployment(ctx, req.(*MsgCreateDeployment))
	}
	return interceptor(ctx, in, info, handler)
}

func _Msg_CloseDeployment_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(MsgCloseDeployment)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MsgServer).CloseDeployment(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/vela.deployment.v1.Msg/CloseDeployment",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MsgServer).CloseDeployment(ctx, req.(*MsgCloseDeployment))
	}
	return interceptor(ctx, in, info, handler)
}

func _Msg_DepositDeployment_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(MsgDepositDeployment)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MsgServer).DepositDeployment(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/vela.deployment.v1.Msg/DepositDeployment",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MsgServer).DepositDeployment(ctx, req.(*MsgDepositDeployment))
	}
	return interceptor(ctx, in, info, handler)
}

var _Msg_serviceDesc = grpc.ServiceDesc{
	ServiceName: "vela.deployment.v1.Msg",
	HandlerType: (*MsgServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateDeployment",
			Handler:    _Msg_CreateDeployment_Handler,
		},
		{
			MethodName: "CloseDeployment",
			Handler:    _Msg_CloseDeployment_Handler,
		},
		{
			MethodName: "DepositDeployment",
			Handler:    _Msg_DepositDeployment_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "vela/deployment/v1/tx.proto",
}
