package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/vela-grid/vela/x/cert/types"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the cert MsgServer interface
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

// IssueCertificate handles registration of a new certificate
func (ms msgServer) IssueCertificate(goCtx context.Context, msg *types.MsgIssueCertificate) (*types.MsgIssueCertificateResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("IssueCertificate: validate: %w", err)
	}

	owner, err := sdk.AccAddressFromBech32(msg.Owner)
	if err != nil {
		return nil, fmt.Errorf("IssueCertificate: invalid owner address: %w", err)
	}

	cert, err := ms.Keeper.IssueCertificate(goCtx, owner, msg.PubKey, msg.NotAfter)
	if err != nil {
		return nil, fmt.Errorf("IssueCertificate: %w", err)
	}

	return &types.MsgIssueCertificateResponse{
		Serial: cert.Serial,
	}, nil
}

// RevokeCertificate handles revocation of one of the owner's certificates
func (ms msgServer) RevokeCertificate(goCtx context.Context, msg *types.MsgRevokeCertificate) (*types.MsgRevokeCertificateResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("RevokeCertificate: validate: %w", err)
	}

	owner, err := sdk.AccAddressFromBech32(msg.Owner)
	if err != nil {
		return nil, fmt.Errorf("RevokeCertificate: invalid owner address: %w", err)
	}

	if err := ms.Keeper.RevokeCertificate(goCtx, owner, msg.Serial); err != nil {
		return nil, fmt.Errorf("RevokeCertificate: %w", err)
	}

	return &types.MsgRevokeCertificateResponse{}, nil
}
