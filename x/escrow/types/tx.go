package types

import (
	"context"

	grpc1 "github.com/cosmos/gogoproto/grpc"
	"google.golang.org/grpc"
)

// MsgServer defines the message server interface
type MsgServer interface {
	DepositEscrow(context.Context, *MsgDepositEscrow) (*MsgDepositEscrowResponse, error)
	WithdrawEscrow(context.Context, *MsgWithdrawEscrow) (*MsgWithdrawEscrowResponse, error)
}

// MsgDepositEscrowResponse defines the response for DepositEscrow
type MsgDepositEscrowResponse struct{}

// MsgWithdrawEscrowResponse defines the response for WithdrawEscrow. Amount
// carries the actual amount withdrawn under min semantics.
type MsgWithdrawEscrowResponse struct {
	Amount string `json:"amount"`
}

// RegisterMsgServer registers the message server with the given gRPC server
func RegisterMsgServer(s grpc1.Server, srv MsgServer) {
	s.RegisterService(&_Msg_serviceDesc, srv)
}

func _Msg_DepositEscrow_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(MsgDepositEscrow)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MsgServer).DepositEscrow(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/vela.escrow.v1.Msg/DepositEscrow",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MsgServer).DepositEscrow(ctx, req.(*MsgDepositEscrow))
	}
	return interceptor(ctx, in, info, handler)
}

func _Msg_WithdrawEscrow_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(MsgWithdrawEscrow)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MsgServer).WithdrawEscrow(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/vela.escrow.v1.Msg/WithdrawEscrow",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MsgServer).WithdrawEscrow(ctx, req.(*MsgWithdrawEscrow))
	}
	return interceptor(ctx, in, info, handler)
}

var _Msg_serviceDesc = grpc.ServiceDesc{
	ServiceName: "vela.escrow.v1.Msg",
	HandlerType: (*MsgServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "DepositEscrow",
			Handler:    _Msg_DepositEscrow_Handler,
		},
		{
			MethodName: "WithdrawEscrow",
			Handler:    _Msg_WithdrawEscrow_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "vela/escrow/v1/tx.proto",
}
