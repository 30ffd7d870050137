package api

import (
	"net/http"
	"strconv"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gin-gonic/gin"

	certtypes "github.com/vela-grid/vela/x/cert/types"
)

// parseCertPath extracts the owner address and serial from the route
func parseCertPath(c *gin.Context) (string, uint64, bool) {
	owner := c.Param("owner")
	if err := ValidateAddress(owner); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid owner address", Details: err.Error()})
		return "", 0, false
	}

	serial, err := strconv.ParseUint(c.Param("serial"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid serial", Details: err.Error()})
		return "", 0, false
	}

	return owner, serial, true
}

// handleListCertificates lists the certificates anchored by one owner
func (s *Server) handleListCertificates(c *gin.Context) {
	var params CertificateListParams
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

	queryClient := certtypes.NewQueryClient(s.clientCtx)
	res, err := queryClient.Certificates(c.Request.Context(), &certtypes.QueryCertificatesRequest{
		Owner:      params.Owner,
		Pagination: params.PageRequest(),
	})
	if err != nil {
		respondQueryError(c, "certificates", err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// handleGetCertificate returns one certificate by owner and serial
func (s *Server) handleGetCertificate(c *gin.Context) {
	owner, serial, ok := parseCertPath(c)
	if !ok {
		return
	}

	queryClient := certtypes.NewQueryClient(s.clientCtx)
	res, err := queryClient.Certificate(c.Request.Context(), &certtypes.QueryCertificateRequest{
		Owner:  owner,
		Serial: serial,
	})
	if err != nil {
		respondQueryError(c, "certificate", err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// handleGetCertificateValidity reports whether a certificate is usable at the
// current chain time
func (s *Server) handleGetCertificateValidity(c *gin.Context) {
	owner, serial, ok := parseCertPath(c)
	if !ok {
		return
	}

	queryClient := certtypes.NewQueryClient(s.clientCtx)
	res, err := queryClient.CertificateValidity(c.Request.Context(), &certtypes.QueryCertificateValidityRequest{
		Owner:  owner,
		Serial: serial,
	})
	if err != nil {
		respondQueryError(c, "certificate", err)
		return
	}

	out := CertificateValidityResponse{
		Owner:  owner,
		Serial: serial,
		Valid:  res.Valid,
	}
	if !res.Valid {
		out.Reason = "certificate is expired or revoked"
	}

	c.JSON(http.StatusOK, out)
}

// handleIssueCertificate broadcasts a MsgIssueCertificate anchoring the
// authenticated user's public key on chain
func (s *Server) handleIssueCertificate(c *gin.Context) {
	userID, _, address, err := GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req IssueCertificateRequest
	if err := ValidateAndBindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Details: err.Error()})
		return
	}
	if err := ValidateIssueCertificateRequest(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Details: err.Error()})
		return
	}

	notAfter, err := time.Parse(time.RFC3339, req.NotAfter)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid not_after timestamp", Details: err.Error()})
		return
	}

	owner, err := sdk.AccAddressFromBech32(address)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid owner address", Details: err.Error()})
		return
	}

	msg := certtypes.NewMsgIssueCertificate(owner.String(), req.PubKey, notAfter)

	res, err := s.walletService.SignAndBroadcast(owner, req.Memo, msg)
	recordTxBroadcast("cert/issue", err)
	if err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to issue certificate", Details: err.Error()})
		return
	}

	if s.auditLogger != nil {
		s.auditLogger.LogTransaction(userID, res.TxHash, "cert/issue", "", "broadcast", owner.String())
	}

	c.JSON(http.StatusOK, TxResponse{
		TxHash:    res.TxHash,
		Height:    res.Height,
		Code:      res.Code,
		Success:   true,
		Message:   "Certificate broadcast successfully",
		Timestamp: time.Now().Unix(),
	})
}

// handleRevokeCertificate broadcasts a MsgRevokeCertificate
func (s *Server) handleRevokeCertificate(c *gin.Context) {
	userID, _, address, err := GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req RevokeCertificateRequest
	if err := ValidateAndBindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Details: err.Error()})
		return
	}

	owner, err := sdk.AccAddressFromBech32(address)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid owner address", Details: err.Error()})
		return
	}

	msg := certtypes.NewMsgRevokeCertificate(owner.String(), req.Serial)

	res, err := s.walletService.SignAndBroadcast(owner, req.Memo, msg)
	recordTxBroadcast("cert/revoke", err)
	if err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to revoke certificate", Details: err.Error()})
		return
	}

	if s.auditLogger != nil {
		s.auditLogger.LogTransaction(userID, res.TxHash, "cert/revoke", "", "broadcast", strconv.FormatUint(req.Serial, 10))
	}

	c.JSON(http.StatusOK, TxResponse{
		TxHash:    res.TxHash,
		Height:    res.Height,
		Code:      res.Code,
		Success:   true,
		Message:   "Revocation broadcast successfully",
		Timestamp: time.Now().Unix(),
	})
}
