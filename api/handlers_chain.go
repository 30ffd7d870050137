package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// handleGetChainStatus returns a condensed view of the connected node's
// status. The gateway is stateless; everything here comes straight from the
// node's RPC.
func (s *Server) handleGetChainStatus(c *gin.Context) {
	if s.clientCtx.Client == nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Node connection is not configured"})
		return
	}

	status, err := s.clientCtx.Client.Status(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to query node status", Details: err.Error()})
		return
	}

	c.JSON(http.StatusOK, ChainStatusResponse{
		ChainID:      status.NodeInfo.Network,
		LatestHeight: status.SyncInfo.LatestBlockHeight,
		LatestTime:   status.SyncInfo.LatestBlockTime,
		CatchingUp:   status.SyncInfo.CatchingUp,
		NodeMoniker:  status.NodeInfo.Moniker,
	})
}

// handleGetBlock returns one block header. The height path segment accepts
// "latest" or a block number.
func (s *Server) handleGetBlock(c *gin.Context) {
	var height *int64
	if raw := c.Param("height"); raw != "" && raw != "latest" {
		h, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || h < 1 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid block height"})
			return
		}
		height = &h
	}

	if s.clientCtx.Client == nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Node connection is not configured"})
		return
	}

	block, err := s.clientCtx.Client.Block(c.Request.Context(), height)
	if err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to query block", Details: err.Error()})
		return
	}

	c.JSON(http.StatusOK, BlockResponse{
		Height:   block.Block.Height,
		Hash:     block.BlockID.Hash.String(),
		Time:     block.Block.Time,
		ChainID:  block.Block.ChainID,
		Proposer: block.Block.ProposerAddress.String(),
		NumTxs:   len(block.Block.Txs),
		LastHash: block.Block.LastBlockID.Hash.String(),
		DataHash: block.Block.DataHash.String(),
	})
}

// handleVerifyRegion resolves the caller's source IP and reports whether it
// matches the region the provider advertises. Providers call this from their
// own infrastructure before publishing placement attributes; a mismatch is
// recorded but not blocked since the chain, not the gateway, enforces
// placement.
func (s *Server) handleVerifyRegion(c *gin.Context) {
	if _, _, _, err := GetUserFromContext(c); err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req VerifyRegionRequest
	if err := ValidateAndBindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Details: err.Error()})
		return
	}
	if err := ValidateAddress(req.Provider); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid provider address", Details: err.Error()})
		return
	}
	if !IsKnownRegion(req.Region) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unknown region", Details: req.Region})
		return
	}

	resolved, matches, err := VerifyRegionClaim(s.geoResolver, c.ClientIP(), req.Region)
	if err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Region resolution failed", Details: err.Error()})
		return
	}

	if !matches && s.auditLogger != nil {
		s.auditLogger.LogSecurityEvent("region_claim_mismatch", "medium", "verify_region", "mismatch",
			"provider region claim did not match source address", map[string]interface{}{
				"provider": req.Provider,
				"claimed":  req.Region,
				"resolved": resolved,
				"ip":       c.ClientIP(),
			})
	}

	c.JSON(http.StatusOK, VerifyRegionResponse{
		Provider:       req.Provider,
		ClaimedRegion:  req.Region,
		ResolvedRegion: resolved,
		Matches:        matches,
	})
}
