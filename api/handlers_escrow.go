package api

import (
	"net/http"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gin-gonic/gin"

	escrowtypes "github.com/vela-grid/vela/x/escrow/types"
)

// handleGetEscrowAccount returns one escrow account by scope and xid
func (s *Server) handleGetEscrowAccount(c *gin.Context) {
	var params EscrowAccountParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters", Details: err.Error()})
		return
	}
	if err := ValidateEscrowScope(params.Scope); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid scope", Details: err.Error()})
		return
	}

	queryClient := escrowtypes.NewQueryClient(s.clientCtx)
	res, err := queryClient.Account(c.Request.Context(), &escrowtypes.QueryAccountRequest{
		Scope: params.Scope,
		XID:   params.XID,
	})
	if err != nil {
		respondQueryError(c, "escrow account", err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// handleListEscrowAccounts lists the escrow accounts owned by one address
func (s *Server) handleListEscrowAccounts(c *gin.Context) {
	var params EscrowListParams
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

	queryClient := escrowtypes.NewQueryClient(s.clientCtx)
	res, err := queryClient.Accounts(c.Request.Context(), &escrowtypes.QueryAccountsRequest{
		Owner:      params.Owner,
		Pagination: params.PageRequest(),
	})
	if err != nil {
		respondQueryError(c, "escrow accounts", err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// handleGetEscrowBalance returns the spendable balance of one escrow account
func (s *Server) handleGetEscrowBalance(c *gin.Context) {
	var params EscrowAccountParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters", Details: err.Error()})
		return
	}
	if err := ValidateEscrowScope(params.Scope); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid scope", Details: err.Error()})
		return
	}

	queryClient := escrowtypes.NewQueryClient(s.clientCtx)
	res, err := queryClient.Balance(c.Request.Context(), &escrowtypes.QueryBalanceRequest{
		Scope: params.Scope,
		XID:   params.XID,
	})
	if err != nil {
		respondQueryError(c, "escrow balance", err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// handleDepositEscrow broadcasts a MsgDepositEscrow from the authenticated user
func (s *Server) handleDepositEscrow(c *gin.Context) {
	userID, _, address, err := GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req DepositEscrowRequest
	if err := ValidateAndBindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Details: err.Error()})
		return
	}
	if err := ValidateEscrowScope(req.Scope); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid scope", Details: err.Error()})
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

	id := escrowtypes.AccountID{Scope: req.Scope, XID: req.XID}
	msg := escrowtypes.NewMsgDepositEscrow(id, depositor.String(), amount)

	res, err := s.walletService.SignAndBroadcast(depositor, req.Memo, msg)
	recordTxBroadcast("escrow/deposit", err)
	if err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to deposit", Details: err.Error()})
		return
	}

	if s.auditLogger != nil {
		s.auditLogger.LogTransaction(userID, res.TxHash, "escrow/deposit", req.Amount+chainDenom, "broadcast", id.String())
	}
	s.wsHub.BroadcastTxEvent(ChannelEscrow, "escrow_deposit", gin.H{
		"account": id,
		"amount":  amount,
		"tx_hash": res.TxHash,
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

// handleWithdrawEscrow broadcasts a MsgWithdrawEscrow from the authenticated user
func (s *Server) handleWithdrawEscrow(c *gin.Context) {
	userID, _, address, err := GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req WithdrawEscrowRequest
	if err := ValidateAndBindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Details: err.Error()})
		return
	}
	if err := ValidateEscrowScope(req.Scope); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid scope", Details: err.Error()})
		return
	}
	if err := ValidateAmount(req.Amount); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid amount", Details: err.Error()})
		return
	}

	owner, err := sdk.AccAddressFromBech32(address)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid owner address", Details: err.Error()})
		return
	}

	amount, err := CoinFromString(req.Amount, chainDenom)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid amount", Details: err.Error()})
		return
	}

	id := escrowtypes.AccountID{Scope: req.Scope, XID: req.XID}
	msg := escrowtypes.NewMsgWithdrawEscrow(id, owner.String(), amount)

	res, err := s.walletService.SignAndBroadcast(owner, req.Memo, msg)
	recordTxBroadcast("escrow/withdraw", err)
	if err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to withdraw", Details: err.Error()})
		return
	}

	if s.auditLogger != nil {
		s.auditLogger.LogTransaction(userID, res.TxHash, "escrow/withdraw", req.Amount+chainDenom, "broadcast", id.String())
	}
	s.wsHub.BroadcastTxEvent(ChannelEscrow, "escrow_withdraw", gin.H{
		"account": id,
		"amount":  amount,
		"tx_hash": res.TxHash,
	})

	c.JSON(http.StatusOK, TxResponse{
		TxHash:    res.TxHash,
		Height:    res.Height,
		Code:      res.Code,
		Success:   true,
		Message:   "Withdrawal broadcast successfully",
		Timestamp: time.Now().Unix(),
	})
}
