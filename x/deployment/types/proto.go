package types

import (
	"fmt"
)

// The chain's wire types are maintained by hand, so the gogoproto plumbing
// that generated code would normally provide lives here. XXX_MessageName
// supplies the type URL used for interface registry and Any packing.

// Reset implements proto.Message
func (msg *MsgCreateDeployment) Reset() { *msg = MsgCreateDeployment{} }

// String implements proto.Message
func (msg *MsgCreateDeployment) String() string { return fmt.Sprintf("%+v", *msg) }

// ProtoMessage implements proto.Message
func (*MsgCreateDeployment) ProtoMessage() {}

// XXX_MessageName returns the canonical message name
func (*MsgCreateDeployment) XXX_MessageName() string { return "vela.deployment.v1.MsgCreateDeployment" }

// Reset implements proto.Message
func (msg *MsgCloseDeployment) Reset() { *msg = MsgCloseDeployment{} }

// String implements proto.Message
func (msg *MsgCloseDeployment) String() string { return fmt.Sprintf("%+v", *msg) }

// ProtoMessage implements proto.Message
func (*MsgCloseDeployment) ProtoMessage() {}

// XXX_MessageName returns the canonical message name
func (*MsgCloseDeployment) XXX_MessageName() string { return "vela.deployment.v1.MsgCloseDeployment" }

// Reset implements proto.Message
func (msg *MsgDepositDeployment) Reset() { *msg = MsgDepositDeployment{} }

// String implements proto.Message
func (msg *MsgDepositDeployment) String() string { return fmt.Sprintf("%+v", *msg) }

// ProtoMessage implements proto.Message
func (*MsgDepositDeployment) ProtoMessage() {}

// XXX_MessageName returns the canonical message name
func (*MsgDepositDeployment) XXX_MessageName() string {
	return "vela.deployment.v1.MsgDepositDeployment"
}

func (msg *MsgCreateDeploymentResponse) Reset()         { *msg = MsgCreateDeploymentResponse{} }
func (msg *MsgCreateDeploymentResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (*MsgCreateDeploymentResponse) ProtoMessage()      {}

func (msg *MsgCloseDeploymentResponse) Reset()         { *msg = MsgCloseDeploymentResponse{} }
func (msg *MsgCloseDeploymentResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (*MsgCloseDeploymentResponse) ProtoMessage()      {}

func (msg *MsgDepositDeploymentResponse) Reset()         { *msg = MsgDepositDeploymentResponse{} }
func (msg *MsgDepositDeploymentResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (*MsgDepositDeploymentResponse) ProtoMessage()      {}

func (msg *QueryDeploymentRequest) Reset()         { *msg = QueryDeploymentRequest{} }
func (msg *QueryDeploymentRequest) String() string { return fmt.Sprintf("%+v", *msg) }
func (*QueryDeploymentRequest) ProtoMessage()      {}

func (msg *QueryDeploymentResponse) Reset()         { *msg = QueryDeploymentResponse{} }
func (msg *QueryDeploymentResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (*QueryDeploymentResponse) ProtoMessage()      {}

func (msg *QueryDeploymentsRequest) Reset()         { *msg = QueryDeploymentsRequest{} }
func (msg *QueryDeploymentsRequest) String() string { return fmt.Sprintf("%+v", *msg) }
func (*QueryDeploymentsRequest) ProtoMessage()      {}

func (msg *QueryDeploymentsResponse) Reset()         { *msg = QueryDeploymentsResponse{} }
func (msg *QueryDeploymentsResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (*QueryDeploymentsResponse) ProtoMessage()      {}

func (msg *QueryGroupRequest) Reset()         { *msg = QueryGroupRequest{} }
func (msg *QueryGroupRequest) String() string { return fmt.Sprintf("%+v", *msg) }
func (*QueryGroupRequest) ProtoMessage()      {}

func (msg *QueryGroupResponse) Reset()         { *msg = QueryGroupResponse{} }
func (msg *QueryGroupResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (*QueryGroupResponse) ProtoMessage()      {}

func (msg *QueryParamsRequest) Reset()         { *msg = QueryParamsRequest{} }
func (msg *QueryParamsRequest) String() string { return fmt.Sprintf("%+v", *msg) }
func (*QueryParamsRequest) ProtoMessage()      {}

func (msg *QueryParamsResponse) Reset()         { *msg = QueryParamsResponse{} }
func (msg *QueryParamsResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (*QueryParamsResponse) ProtoMessage()      {}
