package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/query"
	"github.com/gin-gonic/gin"

	markettypes "github.com/vela-grid/vela/x/market/types"
)

// statsSampleLimit bounds the per-lease lookups behind /api/market/stats.
const statsSampleLimit = 200

// respondQueryError maps a module query failure onto an HTTP status.
// Missing records become 404, everything else is a gateway-side 502.
func respondQueryError(c *gin.Context, what string, err error) {
	if strings.Contains(err.Error(), "not found") {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   fmt.Sprintf("%s not found", what),
			Details: err.Error(),
		})
		return
	}
	c.JSON(http.StatusBadGateway, ErrorResponse{
		Error:   fmt.Sprintf("Failed to query %s", what),
		Details: err.Error(),
	})
}

// validateStateFilter rejects unknown state filters before they reach the
// chain
func validateStateFilter(c *gin.Context, state string, allowed ...string) bool {
	if state == "" {
		return true
	}
	for _, a := range allowed {
		if state == a {
			return true
		}
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "Invalid state filter",
		Details: fmt.Sprintf("state must be one of %s", strings.Join(allowed, ", ")),
	})
	return false
}

// parseOrderPath reads an order id from the request path
func parseOrderPath(c *gin.Context) (markettypes.OrderID, bool) {
	owner := c.Param("owner")
	if err := ValidateAddress(owner); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid owner address", Details: err.Error()})
		return markettypes.OrderID{}, false
	}

	dseq, err := strconv.ParseUint(c.Param("dseq"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid dseq", Details: err.Error()})
		return markettypes.OrderID{}, false
	}

	gseq, err := strconv.ParseUint(c.Param("gseq"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid gseq", Details: err.Error()})
		return markettypes.OrderID{}, false
	}

	oseq, err := strconv.ParseUint(c.Param("oseq"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid oseq", Details: err.Error()})
		return markettypes.OrderID{}, false
	}

	return markettypes.OrderID{
		Owner: owner,
		DSeq:  dseq,
		GSeq:  uint32(gseq),
		OSeq:  uint32(oseq),
	}, true
}

// parseLeasePath reads a lease (or bid) id from the request path
func parseLeasePath(c *gin.Context) (markettypes.LeaseID, bool) {
	orderID, ok := parseOrderPath(c)
	if !ok {
		return markettypes.LeaseID{}, false
	}

	provider := c.Param("provider")
	if err := ValidateAddress(provider); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid provider address", Details: err.Error()})
		return markettypes.LeaseID{}, false
	}

	return markettypes.MakeBidID(orderID, provider), true
}

// handleListOrders lists orders, optionally filtered by owner, dseq and state
func (s *Server) handleListOrders(c *gin.Context) {
	var params OrderListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters", Details: err.Error()})
		return
	}
	params.Normalize()

	if !validateStateFilter(c, params.State, "open", "active", "closed") {
		return
	}
	if params.Owner != "" {
		if err := ValidateAddress(params.Owner); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid owner address", Details: err.Error()})
			return
		}
	}

	queryClient := markettypes.NewQueryClient(s.clientCtx)
	res, err := queryClient.Orders(c.Request.Context(), &markettypes.QueryOrdersRequest{
		Owner:      params.Owner,
		DSeq:       params.DSeq,
		State:      params.State,
		Pagination: params.PageRequest(),
	})
	if err != nil {
		respondQueryError(c, "orders", err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// handleGetOrder returns one order along with its bids
func (s *Server) handleGetOrder(c *gin.Context) {
	id, ok := parseOrderPath(c)
	if !ok {
		return
	}

	queryClient := markettypes.NewQueryClient(s.clientCtx)
	res, err := queryClient.Order(c.Request.Context(), &markettypes.QueryOrderRequest{
		Owner: id.Owner,
		DSeq:  id.DSeq,
		GSeq:  id.GSeq,
		OSeq:  id.OSeq,
	})
	if err != nil {
		respondQueryError(c, "order", err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// handleListOrderBids lists the bids placed on one order
func (s *Server) handleListOrderBids(c *gin.Context) {
	id, ok := parseOrderPath(c)
	if !ok {
		return
	}

	var params BidListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters", Details: err.Error()})
		return
	}
	params.Normalize()

	if !validateStateFilter(c, params.State, "open", "active", "lost", "closed") {
		return
	}

	queryClient := markettypes.NewQueryClient(s.clientCtx)
	res, err := queryClient.Bids(c.Request.Context(), &markettypes.QueryBidsRequest{
		Owner:      id.Owner,
		DSeq:       id.DSeq,
		GSeq:       id.GSeq,
		OSeq:       id.OSeq,
		State:      params.State,
		Pagination: params.PageRequest(),
	})
	if err != nil {
		respondQueryError(c, "bids", err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// handleGetBid returns a single bid
func (s *Server) handleGetBid(c *gin.Context) {
	id, ok := parseLeasePath(c)
	if !ok {
		return
	}

	queryClient := markettypes.NewQueryClient(s.clientCtx)
	res, err := queryClient.Bid(c.Request.Context(), &markettypes.QueryBidRequest{
		Owner:    id.Owner,
		DSeq:     id.DSeq,
		GSeq:     id.GSeq,
		OSeq:     id.OSeq,
		Provider: id.Provider,
	})
	if err != nil {
		respondQueryError(c, "bid", err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// handlePlaceBid broadcasts a MsgCreateBid signed by the authenticated
// provider
func (s *Server) handlePlaceBid(c *gin.Context) {
	userID, _, address, err := GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req PlaceBidRequest
	if err := ValidateAndBindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Details: err.Error()})
		return
	}
	if err := ValidatePlaceBidRequest(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Details: err.Error()})
		return
	}

	price, err := CoinFromString(req.Price, chainDenom)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid price", Details: err.Error()})
		return
	}
	deposit, err := CoinFromString(req.Deposit, chainDenom)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid deposit", Details: err.Error()})
		return
	}

	provider, err := sdk.AccAddressFromBech32(address)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid provider address", Details: err.Error()})
		return
	}

	orderID := markettypes.OrderID{Owner: req.Owner, DSeq: req.DSeq, GSeq: req.GSeq, OSeq: req.OSeq}
	msg := markettypes.NewMsgCreateBid(orderID, provider.String(), price, deposit)

	res, err := s.walletService.SignAndBroadcast(provider, req.Memo, msg)
	recordTxBroadcast("market/create-bid", err)
	if err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to place bid", Details: err.Error()})
		return
	}

	if s.auditLogger != nil {
		s.auditLogger.LogTransaction(userID, res.TxHash, "market/create-bid", req.Price+chainDenom, "broadcast", orderID.String())
	}
	s.wsHub.BroadcastTxEvent(ChannelBids, "bid_placed", gin.H{
		"order":    orderID,
		"provider": provider.String(),
		"price":    price,
		"tx_hash":  res.TxHash,
	})

	c.JSON(http.StatusOK, TxResponse{
		TxHash:    res.TxHash,
		Height:    res.Height,
		Code:      res.Code,
		Success:   true,
		Message:   "Bid broadcast successfully",
		Timestamp: time.Now().Unix(),
	})
}

// handleCloseBid broadcasts a MsgCloseBid withdrawing the caller's bid
func (s *Server) handleCloseBid(c *gin.Context) {
	userID, _, address, err := GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req CloseBidRequest
	if err := ValidateAndBindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Details: err.Error()})
		return
	}
	if err := ValidateAddress(req.Owner); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid owner address", Details: err.Error()})
		return
	}

	provider, err := sdk.AccAddressFromBech32(address)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid provider address", Details: err.Error()})
		return
	}

	bidID := markettypes.MakeBidID(markettypes.OrderID{
		Owner: req.Owner,
		DSeq:  req.DSeq,
		GSeq:  req.GSeq,
		OSeq:  req.OSeq,
	}, provider.String())

	res, err := s.walletService.SignAndBroadcast(provider, req.Memo, markettypes.NewMsgCloseBid(bidID))
	recordTxBroadcast("market/close-bid", err)
	if err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to close bid", Details: err.Error()})
		return
	}

	if s.auditLogger != nil {
		s.auditLogger.LogTransaction(userID, res.TxHash, "market/close-bid", "", "broadcast", bidID.String())
	}
	s.wsHub.BroadcastTxEvent(ChannelBids, "bid_closed", gin.H{
		"bid":     bidID,
		"tx_hash": res.TxHash,
	})

	c.JSON(http.StatusOK, TxResponse{
		TxHash:    res.TxHash,
		Height:    res.Height,
		Code:      res.Code,
		Success:   true,
		Message:   "Bid close broadcast successfully",
		Timestamp: time.Now().Unix(),
	})
}

// handleListLeases lists leases for a tenant or provider
func (s *Server) handleListLeases(c *gin.Context) {
	var params LeaseListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters", Details: err.Error()})
		return
	}
	params.Normalize()

	if params.Owner == "" && params.Provider == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Either owner or provider is required",
		})
		return
	}
	if !validateStateFilter(c, params.State, "active", "insufficient_funds", "closed") {
		return
	}

	queryClient := markettypes.NewQueryClient(s.clientCtx)
	res, err := queryClient.Leases(c.Request.Context(), &markettypes.QueryLeasesRequest{
		Owner:      params.Owner,
		Provider:   params.Provider,
		State:      params.State,
		Pagination: params.PageRequest(),
	})
	if err != nil {
		respondQueryError(c, "leases", err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// handleGetLease returns a single lease
func (s *Server) handleGetLease(c *gin.Context) {
	id, ok := parseLeasePath(c)
	if !ok {
		return
	}

	queryClient := markettypes.NewQueryClient(s.clientCtx)
	res, err := queryClient.Lease(c.Request.Context(), &markettypes.QueryLeaseRequest{
		Owner:    id.Owner,
		DSeq:     id.DSeq,
		GSeq:     id.GSeq,
		OSeq:     id.OSeq,
		Provider: id.Provider,
	})
	if err != nil {
		respondQueryError(c, "lease", err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// handleCloseLease broadcasts a MsgCloseLease. The chain enforces that the
// sender is the lease's tenant or provider.
func (s *Server) handleCloseLease(c *gin.Context) {
	userID, _, address, err := GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req CloseLeaseRequest
	if err := ValidateAndBindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Details: err.Error()})
		return
	}
	if err := ValidateCloseLeaseRequest(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Details: err.Error()})
		return
	}

	sender, err := sdk.AccAddressFromBech32(address)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid sender address", Details: err.Error()})
		return
	}

	leaseID := markettypes.MakeBidID(markettypes.OrderID{
		Owner: req.Owner,
		DSeq:  req.DSeq,
		GSeq:  req.GSeq,
		OSeq:  req.OSeq,
	}, req.Provider)

	res, err := s.walletService.SignAndBroadcast(sender, req.Memo, markettypes.NewMsgCloseLease(leaseID, sender.String()))
	recordTxBroadcast("market/close-lease", err)
	if err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to close lease", Details: err.Error()})
		return
	}

	if s.auditLogger != nil {
		s.auditLogger.LogTransaction(userID, res.TxHash, "market/close-lease", "", "broadcast", leaseID.String())
	}
	s.wsHub.BroadcastTxEvent(ChannelLeases, "lease_closed", gin.H{
		"lease":   leaseID,
		"tx_hash": res.TxHash,
	})

	c.JSON(http.StatusOK, TxResponse{
		TxHash:    res.TxHash,
		Height:    res.Height,
		Code:      res.Code,
		Success:   true,
		Message:   "Lease close broadcast successfully",
		Timestamp: time.Now().Unix(),
	})
}

// handleGetMarketStats aggregates a marketplace snapshot. Lease prices are
// sampled through the active orders' matched leases, capped at
// statsSampleLimit lookups per request.
func (s *Server) handleGetMarketStats(c *gin.Context) {
	ctx := c.Request.Context()
	queryClient := markettypes.NewQueryClient(s.clientCtx)
	page := &query.PageRequest{Limit: 1000}

	open, err := queryClient.Orders(ctx, &markettypes.QueryOrdersRequest{State: "open", Pagination: page})
	if err != nil {
		respondQueryError(c, "orders", err)
		return
	}

	active, err := queryClient.Orders(ctx, &markettypes.QueryOrdersRequest{State: "active", Pagination: page})
	if err != nil {
		respondQueryError(c, "orders", err)
		return
	}

	closed, err := queryClient.Orders(ctx, &markettypes.QueryOrdersRequest{State: "closed", Pagination: page})
	if err != nil {
		respondQueryError(c, "orders", err)
		return
	}

	matchedClosed := 0
	for _, order := range closed.Orders {
		if order.MatchedProvider != "" {
			matchedClosed++
		}
	}

	stats := MarketStatsResponse{
		OpenOrders:   len(open.Orders),
		ActiveLeases: len(active.Orders),
		TotalLeases:  len(active.Orders) + matchedClosed,
		TotalSpend:   sdk.NewCoins(),
		LastUpdated:  time.Now(),
	}

	var (
		priceSum   = math.ZeroInt()
		priceCount int64
		minPrice   sdk.Coin
		maxPrice   sdk.Coin
	)

	for i, order := range active.Orders {
		if i >= statsSampleLimit {
			break
		}

		lease, err := queryClient.Lease(ctx, &markettypes.QueryLeaseRequest{
			Owner:    order.ID.Owner,
			DSeq:     order.ID.DSeq,
			GSeq:     order.ID.GSeq,
			OSeq:     order.ID.OSeq,
			Provider: order.MatchedProvider,
		})
		if err != nil {
			continue
		}

		price := lease.Lease.Price
		priceSum = priceSum.Add(price.Amount)
		priceCount++

		if minPrice.IsNil() || price.Amount.LT(minPrice.Amount) {
			minPrice = price
		}
		if maxPrice.IsNil() || price.Amount.GT(maxPrice.Amount) {
			maxPrice = price
		}

		if !lease.Lease.TotalPaid.IsNil() && lease.Lease.TotalPaid.IsPositive() {
			stats.TotalSpend = stats.TotalSpend.Add(lease.Lease.TotalPaid)
		}
	}

	if priceCount > 0 {
		avg := priceSum.QuoRaw(priceCount)
		stats.AvgLeasePrice = sdk.NewCoin(minPrice.Denom, avg).String()
		stats.MinLeasePrice = minPrice.String()
		stats.MaxLeasePrice = maxPrice.String()
	}

	c.JSON(http.StatusOK, stats)
}
