package api

import (
	"net/http"
	"strconv"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gin-gonic/gin"

	deploymenttypes "github.com/vela-grid/vela/x/deployment/types"
)

// handleListDeployments lists the deployments of one owner
func (s *Server) handleListDeployments(c *gin.Context) {
	var params DeploymentListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters", Details: err.Error()})
		return
	}
	params.Normalize()

	if params.Owner == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Owner address is required"})
		return
	}
	if err := ValidateAddress(params.Owner); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid owner address", Details: err.Error()})
		return
	}
	if !validateStateFilter(c, params.State, "active", "closed") {
		return
	}

	queryClient := deploymenttypes.NewQueryClient(s.clientCtx)
	res, err := queryClient.Deployments(c.Request.Context(), &deploymenttypes.QueryDeploymentsRequest{
		Owner:      params.Owner,
		State:      params.State,
		Pagination: params.PageRequest(),
	})
	if err != nil {
		respondQueryError(c, "deployments", err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// handleGetDeployment returns one deployment and its groups
func (s *Server) handleGetDeployment(c *gin.Context) {
	owner := c.Param("owner")
	if err := ValidateAddress(owner); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid owner address", Details: err.Error()})
		return
	}

	dseq, err := strconv.ParseUint(c.Param("dseq"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid dseq", Details: err.Error()})
		return
	}

	queryClient := deploymenttypes.NewQueryClient(s.clientCtx)
	res, err := queryClient.Deployment(c.Request.Context(), &deploymenttypes.QueryDeploymentRequest{
		Owner: owner,
		DSeq:  dseq,
	})
	if err != nil {
		respondQueryError(c, "deployment", err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// handleGetGroup returns one deployment group
func (s *Server) handleGetGroup(c *gin.Context) {
	owner := c.Param("owner")
	if err := ValidateAddress(owner); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid owner address", Details: err.Error()})
		return
	}

	dseq, err := strconv.ParseUint(c.Param("dseq"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid dseq", Details: err.Error()})
		return
	}

	gseq, err := strconv.ParseUint(c.Param("gseq"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid gseq", Details: err.Error()})
		return
	}

	queryClient := deploymenttypes.NewQueryClient(s.clientCtx)
	res, err := queryClient.Group(c.Request.Context(), &deploymenttypes.QueryGroupRequest{
		Owner: owner,
		DSeq:  dseq,
		GSeq:  uint32(gseq),
	})
	if err != nil {
		respondQueryError(c, "group", err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// handleCreateDeployment broadcasts a MsgCreateDeployment for the
// authenticated user. The chain assigns the deployment sequence number.
func (s *Server) handleCreateDeployment(c *gin.Context) {
	userID, _, address, err := GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req CreateDeploymentRequest
	if err := ValidateAndBindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Details: err.Error()})
		return
	}
	if err := ValidateCreateDeploymentRequest(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Details: err.Error()})
		return
	}

	owner, err := sdk.AccAddressFromBech32(address)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid owner address", Details: err.Error()})
		return
	}

	groups := make([]deploymenttypes.GroupSpec, 0, len(req.Groups))
	for _, g := range req.Groups {
		maxPrice, err := CoinFromString(g.MaxPrice, chainDenom)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid max price", Details: err.Error()})
			return
		}

		resources := make([]deploymenttypes.Resource, 0, len(g.Resources))
		for _, r := range g.Resources {
			resources = append(resources, deploymenttypes.Resource{
				CPU:     r.CPU,
				Memory:  r.Memory,
				Storage: r.Storage,
				GPU:     r.GPU,
				Count:   r.Count,
			})
		}

		attrs := make([]deploymenttypes.Attribute, 0, len(g.PlacementAttributes))
		for _, a := range g.PlacementAttributes {
			attrs = append(attrs, deploymenttypes.Attribute{Key: a.Key, Value: a.Value})
		}

		groups = append(groups, deploymenttypes.GroupSpec{
			Name:                g.Name,
			Resources:           resources,
			MaxPrice:            maxPrice,
			PlacementAttributes: attrs,
		})
	}

	deposit, err := CoinFromString(req.Deposit, chainDenom)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid deposit", Details: err.Error()})
		return
	}

	msg := deploymenttypes.NewMsgCreateDeployment(owner.String(), groups, deposit)

	res, err := s.walletService.SignAndBroadcast(owner, req.Memo, msg)
	recordTxBroadcast("deployment/create", err)
	if err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to create deployment", Details: err.Error()})
		return
	}

	if s.auditLogger != nil {
		s.auditLogger.LogTransaction(userID, res.TxHash, "deployment/create", req.Deposit+chainDenom, "broadcast", "")
	}
	s.wsHub.BroadcastTxEvent(ChannelOrders, "deployment_created", gin.H{
		"owner":   owner.String(),
		"groups":  len(groups),
		"tx_hash": res.TxHash,
	})

	c.JSON(http.StatusOK, TxResponse{
		TxHash:    res.TxHash,
		Height:    res.Height,
		Code:      res.Code,
		Success:   true,
		Message:   "Deployment broadcast successfully",
		Timestamp: time.Now().Unix(),
	})
}

// handleCloseDeployment broadcasts a MsgCloseDeployment
func (s *Server) handleCloseDeployment(c *gin.Context) {
	userID, _, address, err := GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req CloseDeploymentRequest
	if err := ValidateAndBindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Details: err.Error()})
		return
	}

	owner, err := sdk.AccAddressFromBech32(address)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid owner address", Details: err.Error()})
		return
	}

	id := deploymenttypes.DeploymentID{Owner: owner.String(), DSeq: req.DSeq}

	res, err := s.walletService.SignAndBroadcast(owner, req.Memo, deploymenttypes.NewMsgCloseDeployment(id))
	recordTxBroadcast("deployment/close", err)
	if err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to close deployment", Details: err.Error()})
		return
	}

	if s.auditLogger != nil {
		s.auditLogger.LogTransaction(userID, res.TxHash, "deployment/close", "", "broadcast", id.String())
	}
	s.wsHub.BroadcastTxEvent(ChannelOrders, "deployment_closed", gin.H{
		"deployment": id,
		"tx_hash":    res.TxHash,
	})

	c.JSON(http.StatusOK, TxResponse{
		TxHash:    res.TxHash,
		Height:    res.Height,
		Code:      res.Code,
		Success:   true,
		Message:   "Deployment close broadcast successfully",
		Timestamp: time.Now().Unix(),
	})
}

// handleDepositDeployment broadcasts a MsgDepositDeployment topping up the
// deployment's escrow account
func (s *Server) handleDepositDeployment(c *gin.Context) {
	userID, _, address, err := GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req DepositDeploymentRequest
	if err := ValidateAndBindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Details: err.Error()})
		return
	}
	if err := ValidateAmount(req.Amount); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid amount", Details: err.Error()})
		return
	}

	depositor, err := sdk.AccAddressFromBech32(address)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid depositor address", Details: err.Error()})
		return
	}

	amount, err := CoinFromString(req.Amount, chainDenom)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid amount", Details: err.Error()})
		return
	}

	id := deploymenttypes.DeploymentID{Owner: depositor.String(), DSeq: req.DSeq}
	msg := deploymenttypes.NewMsgDepositDeployment(id, depositor.String(), amount)

	res, err := s.walletService.SignAndBroadcast(depositor, req.Memo, msg)
	recordTxBroadcast("deployment/deposit", err)
	if err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to deposit", Details: err.Error()})
		return
	}

	if s.auditLogger != nil {
		s.auditLogger.LogTransaction(userID, res.TxHash, "deployment/deposit", req.Amount+chainDenom, "broadcast", id.String())
	}
	s.wsHub.BroadcastTxEvent(ChannelEscrow, "deployment_deposit", gin.H{
		"deployment": id,
		"amount":     amount,
		"tx_hash":    res.TxHash,
	})

	c.JSON(http.StatusOK, TxResponse{
		TxHash:    res.TxHash,
		Height:    res.Height,
		Code:      res.Code,
		Success:   true,
		Message:   "Deposit broadcast successfully",
		Timestamp: time.Now().Unix(),
	})
}
