package types

import (
	"fmt"
)

// The chain's wire types are maintained by hand, so the gogoproto plumbing
// that generated code would normally provide lives here. XXX_MessageName
// supplies the type URL used for interface registry and Any packing.

// Reset implements proto.Message
func (msg *MsgCreateBid) Reset() { *msg = MsgCreateBid{} }

// String implements proto.Message
func (msg *MsgCreateBid) String() string { return fmt.Sprintf("%+v", *msg) }

// ProtoMessage implements proto.Message
func (*MsgCreateBid) ProtoMessage() {}

// XXX_MessageName returns the canonical message name
func (*MsgCreateBid) XXX_MessageName() string { return "vela.market.v1.MsgCreateBid" }

// Reset implements proto.Message
func (msg *MsgCloseBid) Reset() { *msg = MsgCloseBid{} }

// String implements proto.Message
func (msg *MsgCloseBid) String() string { return fmt.Sprintf("%+v", *msg) }

// ProtoMessage implements proto.Message
func (*MsgCloseBid) ProtoMessage() {}

// XXX_MessageName returns the canonical message name
func (*MsgCloseBid) XXX_MessageName() string { return "vela.market.v1.MsgCloseBid" }

// Reset implements proto.Message
func (msg *MsgCloseLease) Reset() { *msg = MsgCloseLease{} }

// String implements proto.Message
func (msg *MsgCloseLease) String() string { return fmt.Sprintf("%+v", *msg) }

// ProtoMessage implements proto.Message
func (*MsgCloseLease) ProtoMessage() {}

// XXX_MessageName returns the canonical message name
func (*MsgCloseLease) XXX_MessageName() string { return "vela.market.v1.MsgCloseLease" }

func (msg *MsgCreateBidResponse) Reset()         { *msg = MsgCreateBidResponse{} }
func (msg *MsgCreateBidResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (*MsgCreateBidResponse) ProtoMessage()      {}

func (msg *MsgCloseBidResponse) Reset()         { *msg = MsgCloseBidResponse{} }
func (msg *MsgCloseBidResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (*MsgCloseBidResponse) ProtoMessage()      {}

func (msg *MsgCloseLeaseResponse) Reset()         { *msg = MsgCloseLeaseResponse{} }
func (msg *MsgCloseLeaseResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (*MsgCloseLeaseResponse) ProtoMessage()      {}

func (msg *QueryOrderRequest) Reset()         { *msg = QueryOrderRequest{} }
func (msg *QueryOrderRequest) String() string { return fmt.Sprintf("%+v", *msg) }
func (*QueryOrderRequest) ProtoMessage()      {}

func (msg *QueryOrderResponse) Reset()         { *msg = QueryOrderResponse{} }
func (msg *QueryOrderResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (*QueryOrderResponse) ProtoMessage()      {}

func (msg *QueryOrdersRequest) Reset()         { *msg = QueryOrdersRequest{} }
func (msg *QueryOrdersRequest) String() string { return fmt.Sprintf("%+v", *msg) }
func (*QueryOrdersRequest) ProtoMessage()      {}

func (msg *QueryOrdersResponse) Reset()         { *msg = QueryOrdersResponse{} }
func (msg *QueryOrdersResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (*QueryOrdersResponse) ProtoMessage()      {}

func (msg *QueryBidRequest) Reset()         { *msg = QueryBidRequest{} }
func (msg *QueryBidRequest) String() string { return fmt.Sprintf("%+v", *msg) }
func (*QueryBidRequest) ProtoMessage()      {}

func (msg *QueryBidResponse) Reset()         { *msg = QueryBidResponse{} }
func (msg *QueryBidResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (*QueryBidResponse) ProtoMessage()      {}

func (msg *QueryBidsRequest) Reset()         { *msg = QueryBidsRequest{} }
func (msg *QueryBidsRequest) String() string { return fmt.Sprintf("%+v", *msg) }
func (*QueryBidsRequest) ProtoMessage()      {}

func (msg *QueryBidsResponse) Reset()         { *msg = QueryBidsResponse{} }
func (msg *QueryBidsResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (*QueryBidsResponse) ProtoMessage()      {}

func (msg *QueryLeaseRequest) Reset()         { *msg = QueryLeaseRequest{} }
func (msg *QueryLeaseRequest) String() string { return fmt.Sprintf("%+v", *msg) }
func (*QueryLeaseRequest) ProtoMessage()      {}

func (msg *QueryLeaseResponse) Reset()         { *msg = QueryLeaseResponse{} }
func (msg *QueryLeaseResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (*QueryLeaseResponse) ProtoMessage()      {}

func (msg *QueryLeasesRequest) Reset()         { *msg = QueryLeasesRequest{} }
func (msg *QueryLeasesRequest) String() string { return fmt.Sprintf("%+v", *msg) }
func (*QueryLeasesRequest) ProtoMessage()      {}

func (msg *QueryLeasesResponse) Reset()         { *msg = QueryLeasesResponse{} }
func (msg *QueryLeasesResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (*QueryLeasesResponse) ProtoMessage()      {}

func (msg *QueryParamsRequest) Reset()         { *msg = QueryParamsRequest{} }
func (msg *QueryParamsRequest) String() string { return fmt.Sprintf("%+v", *msg) }
func (*QueryParamsRequest) ProtoMessage()      {}

func (msg *QueryParamsResponse) Reset()         { *msg = QueryParamsResponse{} }
func (msg *QueryParamsResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (*QueryParamsResponse) ProtoMessage()      {}
