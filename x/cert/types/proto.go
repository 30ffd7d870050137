package types

import (
	"fmt"
)

// The chain's wire types are maintained by hand, so the gogoproto plumbing
// that generated code would normally provide lives here. XXX_MessageName
// supplies the type URL used for interface registry and Any packing.

// Reset implements proto.Message
func (msg *MsgIssueCertificate) Reset() { *msg = MsgIssueCertificate{} }

// String implements proto.Message
func (msg *MsgIssueCertificate) String() string { return fmt.Sprintf("%+v", *msg) }

// ProtoMessage implements proto.Message
func (*MsgIssueCertificate) ProtoMessage() {}

// XXX_MessageName returns the canonical message name
func (*MsgIssueCertificate) XXX_MessageName() string { return "vela.cert.v1.MsgIssueCertificate" }

// Reset implements proto.Message
func (msg *MsgRevokeCertificate) Reset() { *msg = MsgRevokeCertificate{} }

// String implements proto.Message
func (msg *MsgRevokeCertificate) String() string { return fmt.Sprintf("%+v", *msg) }

// ProtoMessage implements proto.Message
func (*MsgRevokeCertificate) ProtoMessage() {}

// XXX_MessageName returns the canonical message name
func (*MsgRevokeCertificate) XXX_MessageName() string { return "vela.cert.v1.MsgRevokeCertificate" }

func (msg *MsgIssueCertificateResponse) Reset()         { *msg = MsgIssueCertificateResponse{} }
func (msg *MsgIssueCertificateResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (*MsgIssueCertificateResponse) ProtoMessage()      {}

func (msg *MsgRevokeCertificateResponse) Reset()         { *msg = MsgRevokeCertificateResponse{} }
func (msg *MsgRevokeCertificateResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (*MsgRevokeCertificateResponse) ProtoMessage()      {}

func (msg *QueryCertificateRequest) Reset()         { *msg = QueryCertificateRequest{} }
func (msg *QueryCertificateRequest) String() string { return fmt.Sprintf("%+v", *msg) }
func (*QueryCertificateRequest) ProtoMessage()      {}

func (msg *QueryCertificateResponse) Reset()         { *msg = QueryCertificateResponse{} }
func (msg *QueryCertificateResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (*QueryCertificateResponse) ProtoMessage()      {}

func (msg *QueryCertificatesRequest) Reset()         { *msg = QueryCertificatesRequest{} }
func (msg *QueryCertificatesRequest) String() string { return fmt.Sprintf("%+v", *msg) }
func (*QueryCertificatesRequest) ProtoMessage()      {}

func (msg *QueryCertificatesResponse) Reset()         { *msg = QueryCertificatesResponse{} }
func (msg *QueryCertificatesResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (*QueryCertificatesResponse) ProtoMessage()      {}

func (msg *QueryCertificateValidityRequest) Reset()         { *msg = QueryCertificateValidityRequest{} }
func (msg *QueryCertificateValidityRequest) String() string { return fmt.Sprintf("%+v", *msg) }
func (*QueryCertificateValidityRequest) ProtoMessage()      {}

func (msg *QueryCertificateValidityResponse) Reset()         { *msg = QueryCertificateValidityResponse{} }
func (msg *QueryCertificateValidityResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (*QueryCertificateValidityResponse) ProtoMessage()      {}

func (msg *QueryParamsRequest) Reset()         { *msg = QueryParamsRequest{} }
func (msg *QueryParamsRequest) String() string { return fmt.Sprintf("%+v", *msg) }
func (*QueryParamsRequest) ProtoMessage()      {}

func (msg *QueryParamsResponse) Reset()         { *msg = QueryParamsResponse{} }
func (msg *QueryParamsResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (*QueryParamsResponse) ProtoMessage()      {}
