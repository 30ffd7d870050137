package api

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/tx"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/tx/signing"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"github.com/gin-gonic/gin"

	coretypes "github.com/cometbft/cometbft/rpc/core/types"
)

// chainDenom is the settlement denom for market amounts and gateway fees.
const chainDenom = "uvela"

const (
	defaultTxGas = 200000
	defaultTxFee = 1000
)

// WalletService signs and broadcasts transactions on behalf of gateway
// users whose keys are held in the configured keyring.
type WalletService struct {
	clientCtx client.Context
}

// NewWalletService creates a new wallet service
func NewWalletService(clientCtx client.Context) *WalletService {
	return &WalletService{
		clientCtx: clientCtx,
	}
}

// handleGetBalance returns the wallet balance for the authenticated user
func (s *Server) handleGetBalance(c *gin.Context) {
	address, exists := c.Get("address")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	accAddress, err := sdk.AccAddressFromBech32(address.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid address",
			Details: err.Error(),
		})
		return
	}

	balance, err := s.walletService.GetBalance(accAddress)
	if err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "Failed to query balance",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, balance)
}

// handleGetAddress returns the user's blockchain address
func (s *Server) handleGetAddress(c *gin.Context) {
	address, exists := c.Get("address")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	username, _ := c.Get("username")

	c.JSON(http.StatusOK, gin.H{
		"address":  address,
		"username": username,
	})
}

// handleSendTokens handles token transfers
func (s *Server) handleSendTokens(c *gin.Context) {
	address, exists := c.Get("address")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req SendTokensRequest
	if err := ValidateAndBindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request",
			Details: err.Error(),
		})
		return
	}

	if err := ValidateSendTokensRequest(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Validation failed",
			Details: err.Error(),
		})
		return
	}

	fromAddress, err := sdk.AccAddressFromBech32(address.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid from address",
			Details: err.Error(),
		})
		return
	}

	toAddress, err := sdk.AccAddressFromBech32(req.ToAddress)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid to address",
			Details: err.Error(),
		})
		return
	}

	coins, err := CoinsFromString(req.Amount, req.Denom)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid amount",
			Details: err.Error(),
		})
		return
	}

	res, err := s.walletService.SignAndBroadcast(fromAddress, req.Memo, banktypes.NewMsgSend(fromAddress, toAddress, coins))
	recordTxBroadcast("bank/send", err)
	if err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "Failed to send tokens",
			Details: err.Error(),
		})
		return
	}

	if s.auditLogger != nil {
		s.auditLogger.LogTransaction(c.GetString("user_id"), res.TxHash, "bank/send", req.Amount+req.Denom, "broadcast", "")
	}

	c.JSON(http.StatusOK, TxResponse{
		TxHash:    res.TxHash,
		Height:    res.Height,
		Code:      res.Code,
		Success:   true,
		Message:   "Transaction broadcast successfully",
		Timestamp: time.Now().Unix(),
	})
}

// handleGetTransactions returns transaction history
func (s *Server) handleGetTransactions(c *gin.Context) {
	address, exists := c.Get("address")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	pagination := DefaultPagination()
	_ = c.ShouldBindQuery(&pagination)
	pagination.Normalize()

	accAddress, err := sdk.AccAddressFromBech32(address.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid address",
			Details: err.Error(),
		})
		return
	}

	txHistory, err := s.walletService.GetTransactions(accAddress, pagination)
	if err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "Failed to query transactions",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, txHistory)
}

// GetBalance queries all balances for an address
func (ws *WalletService) GetBalance(address sdk.AccAddress) (*BalanceResponse, error) {
	queryClient := banktypes.NewQueryClient(ws.clientCtx)

	res, err := queryClient.AllBalances(
		context.Background(),
		&banktypes.QueryAllBalancesRequest{
			Address: address.String(),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query balances: %w", err)
	}

	return &BalanceResponse{
		Address:  address.String(),
		Balances: res.Balances,
	}, nil
}

// SignAndBroadcast builds a transaction around the given messages, signs it
// with the key matching the from address and broadcasts it. The key must be
// present in the gateway keyring.
func (ws *WalletService) SignAndBroadcast(from sdk.AccAddress, memo string, msgs ...sdk.Msg) (*sdk.TxResponse, error) {
	if ws.clientCtx.TxConfig == nil || ws.clientCtx.Keyring == nil {
		return nil, fmt.Errorf("transaction signing is not configured")
	}

	txBuilder := ws.clientCtx.TxConfig.NewTxBuilder()
	if err := txBuilder.SetMsgs(msgs...); err != nil {
		return nil, fmt.Errorf("failed to set messages: %w", err)
	}

	if memo != "" {
		txBuilder.SetMemo(memo)
	}

	txBuilder.SetGasLimit(defaultTxGas)
	txBuilder.SetFeeAmount(sdk.NewCoins(sdk.NewInt64Coin(chainDenom, defaultTxFee)))

	keyInfo, err := ws.clientCtx.Keyring.KeyByAddress(from)
	if err != nil {
		return nil, fmt.Errorf("key not found in keyring (wallet must be imported): %w", err)
	}

	txFactory := tx.Factory{}.
		WithChainID(ws.clientCtx.ChainID).
		WithKeybase(ws.clientCtx.Keyring).
		WithTxConfig(ws.clientCtx.TxConfig).
		WithSignMode(signing.SignMode_SIGN_MODE_DIRECT)

	// Pick up the on-chain account number and sequence when the node is
	// reachable; a fresh account signs with zero values.
	if ws.clientCtx.AccountRetriever != nil {
		if acc, err := ws.clientCtx.AccountRetriever.GetAccount(ws.clientCtx, from); err == nil && acc != nil {
			txFactory = txFactory.
				WithAccountNumber(acc.GetAccountNumber()).
				WithSequence(acc.GetSequence())
		}
	}

	if err := tx.Sign(context.Background(), txFactory, keyInfo.Name, txBuilder, true); err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	txBytes, err := ws.clientCtx.TxConfig.TxEncoder()(txBuilder.GetTx())
	if err != nil {
		return nil, fmt.Errorf("failed to encode tx: %w", err)
	}

	res, err := ws.clientCtx.BroadcastTx(txBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to broadcast tx: %w", err)
	}

	if res.Code != 0 {
		return nil, fmt.Errorf("transaction failed: code=%d, log=%s", res.Code, res.RawLog)
	}

	return res, nil
}

// GetTransactions retrieves transaction history for an address through the
// node's tx index. The node must run with indexing enabled.
func (ws *WalletService) GetTransactions(address sdk.AccAddress, pagination PaginationParams) (*TransactionHistoryResponse, error) {
	if ws.clientCtx.Client == nil {
		return nil, fmt.Errorf("node connection is not configured")
	}

	ctx := context.Background()
	page := pagination.Page
	perPage := pagination.PageSize
	blockTimes := make(map[int64]time.Time)

	sent, sentErr := ws.searchTxs(ctx, fmt.Sprintf("message.sender='%s'", address.String()), "send", page, perPage, blockTimes)
	received, recvErr := ws.searchTxs(ctx, fmt.Sprintf("transfer.recipient='%s'", address.String()), "receive", page, perPage, blockTimes)
	if sentErr != nil && recvErr != nil {
		return nil, fmt.Errorf("tx search failed: %v", sentErr)
	}

	allTxs := append(sent.txs, received.txs...)
	sort.Slice(allTxs, func(i, j int) bool {
		return allTxs[i].Height > allTxs[j].Height
	})
	if len(allTxs) > pagination.PageSize {
		allTxs = allTxs[:pagination.PageSize]
	}
	if allTxs == nil {
		allTxs = []Transaction{}
	}

	return &TransactionHistoryResponse{
		Transactions: allTxs,
		TotalCount:   sent.total + received.total,
		Page:         pagination.Page,
		PageSize:     pagination.PageSize,
	}, nil
}

type txSearchResult struct {
	txs   []Transaction
	total int
}

func (ws *WalletService) searchTxs(ctx context.Context, query, direction string, page, perPage int, blockTimes map[int64]time.Time) (txSearchResult, error) {
	res, err := ws.clientCtx.Client.TxSearch(ctx, query, false, &page, &perPage, "desc")
	if err != nil {
		return txSearchResult{}, err
	}

	out := txSearchResult{total: res.TotalCount}
	for _, raw := range res.Txs {
		out.txs = append(out.txs, ws.toTransaction(ctx, raw, direction, blockTimes))
	}
	return out, nil
}

// toTransaction converts an indexed tx into the API shape, pulling the
// counterparty and amount out of the transfer events.
func (ws *WalletService) toTransaction(ctx context.Context, res *coretypes.ResultTx, direction string, blockTimes map[int64]time.Time) Transaction {
	txn := Transaction{
		Hash:   res.Hash.String(),
		Height: res.Height,
		Type:   direction,
		Status: "success",
	}
	if res.TxResult.Code != 0 {
		txn.Status = "failed"
	}

	for _, event := range res.TxResult.Events {
		switch event.Type {
		case "transfer":
			for _, attr := range event.Attributes {
				switch attr.Key {
				case "sender":
					txn.From = attr.Value
				case "recipient":
					txn.To = attr.Value
				case "amount":
					if coins, err := sdk.ParseCoinsNormalized(attr.Value); err == nil && len(coins) > 0 {
						txn.Amount = coins[0].Amount.String()
						txn.Denom = coins[0].Denom
					}
				}
			}
		case "tx":
			for _, attr := range event.Attributes {
				if attr.Key == "fee" {
					txn.Fee = attr.Value
				}
			}
		}
	}

	if t, ok := blockTimes[res.Height]; ok {
		txn.Timestamp = t
	} else {
		height := res.Height
		if block, err := ws.clientCtx.Client.Block(ctx, &height); err == nil {
			blockTimes[height] = block.Block.Time
			txn.Timestamp = block.Block.Time
		}
	}

	return txn
}
