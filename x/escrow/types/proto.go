package types

import (
	"fmt"
)

// The chain's wire types are maintained by hand, so the gogoproto plumbing
// that generated code would normally provide lives here. XXX_MessageName
// supplies the type URL used for interface registry and Any packing.

// Reset implements proto.Message
func (msg *MsgDepositEscrow) Reset() { *msg = MsgDepositEscrow{} }

// String implements proto.Message
func (msg *MsgDepositEscrow) String() string { return fmt.Sprintf("%+v", *msg) }

// ProtoMessage implements proto.Message
func (*MsgDepositEscrow) ProtoMessage() {}

// XXX_MessageName returns the canonical message name
func (*MsgDepositEscrow) XXX_MessageName() string { return "vela.escrow.v1.MsgDepositEscrow" }

// Reset implements proto.Message
func (msg *MsgWithdrawEscrow) Reset() { *msg = MsgWithdrawEscrow{} }

// String implements proto.Message
func (msg *MsgWithdrawEscrow) String() string { return fmt.Sprintf("%+v", *msg) }

// ProtoMessage implements proto.Message
func (*MsgWithdrawEscrow) ProtoMessage() {}

// XXX_MessageName returns the canonical message name
func (*MsgWithdrawEscrow) XXX_MessageName() string { return "vela.escrow.v1.MsgWithdrawEscrow" }

func (msg *MsgDepositEscrowResponse) Reset()         { *msg = MsgDepositEscrowResponse{} }
func (msg *MsgDepositEscrowResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (*MsgDepositEscrowResponse) ProtoMessage()      {}

func (msg *MsgWithdrawEscrowResponse) Reset()         { *msg = MsgWithdrawEscrowResponse{} }
func (msg *MsgWithdrawEscrowResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (*MsgWithdrawEscrowResponse) ProtoMessage()      {}

func (msg *QueryAccountRequest) Reset()         { *msg = QueryAccountRequest{} }
func (msg *QueryAccountRequest) String() string { return fmt.Sprintf("%+v", *msg) }
func (*QueryAccountRequest) ProtoMessage()      {}

func (msg *QueryAccountResponse) Reset()         { *msg = QueryAccountResponse{} }
func (msg *QueryAccountResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (*QueryAccountResponse) ProtoMessage()      {}

func (msg *QueryAccountsRequest) Reset()         { *msg = QueryAccountsRequest{} }
func (msg *QueryAccountsRequest) String() string { return fmt.Sprintf("%+v", *msg) }
func (*QueryAccountsRequest) ProtoMessage()      {}

func (msg *QueryAccountsResponse) Reset()         { *msg = QueryAccountsResponse{} }
func (msg *QueryAccountsResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (*QueryAccountsResponse) ProtoMessage()      {}

func (msg *QueryBalanceRequest) Reset()         { *msg = QueryBalanceRequest{} }
func (msg *QueryBalanceRequest) String() string { return fmt.Sprintf("%+v", *msg) }
func (*QueryBalanceRequest) ProtoMessage()      {}

func (msg *QueryBalanceResponse) Reset()         { *msg = QueryBalanceResponse{} }
func (msg *QueryBalanceResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (*QueryBalanceResponse) ProtoMessage()      {}

func (msg *QueryParamsRequest) Reset()         { *msg = QueryParamsRequest{} }
func (msg *QueryParamsRequest) String() string { return fmt.Sprintf("%+v", *msg) }
func (*QueryParamsRequest) ProtoMessage()      {}

func (msg *QueryParamsResponse) Reset()         { *msg = QueryParamsResponse{} }
func (msg *QueryParamsResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (*QueryParamsResponse) ProtoMessage()      {}
