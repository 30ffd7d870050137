package api

import (
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/query"
)

// ==================== Authentication Types ====================

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in"` // Seconds until access token expires
	Username     string `json:"username"`
	UserID       string `json:"user_id"`
	Address      string `json:"address,omitempty"`
}

// RefreshTokenRequest represents a token refresh request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshTokenResponse represents a token refresh response
type RefreshTokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // Seconds until access token expires
}

// LogoutRequest revokes a refresh token
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// User represents a user in the system
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Address      string    `json:"address"`
	Tier         string    `json:"tier"`
	CreatedAt    time.Time `json:"created_at"`
}

// ==================== Market Types ====================

// OrderListParams filters the order listing. State is one of "open",
// "active" or "closed"; empty means all states.
type OrderListParams struct {
	Owner string `form:"owner"`
	DSeq  uint64 `form:"dseq"`
	State string `form:"state"`
	PaginationParams
}

// BidListParams filters the bid listing for one order
type BidListParams struct {
	State string `form:"state"`
	PaginationParams
}

// LeaseListParams filters the lease listing. At least one of Owner and
// Provider must be set.
type LeaseListParams struct {
	Owner    string `form:"owner"`
	Provider string `form:"provider"`
	State    string `form:"state"`
	PaginationParams
}

// CloseLeaseRequest asks the chain to close an active lease
type CloseLeaseRequest struct {
	Owner    string `json:"owner" binding:"required"`
	DSeq     uint64 `json:"dseq" binding:"required"`
	GSeq     uint32 `json:"gseq" binding:"required"`
	OSeq     uint32 `json:"oseq" binding:"required"`
	Provider string `json:"provider" binding:"required"`
	Memo     string `json:"memo,omitempty"`
}

// PlaceBidRequest places a provider bid on an open order
type PlaceBidRequest struct {
	Owner   string `json:"owner" binding:"required"`
	DSeq    uint64 `json:"dseq" binding:"required"`
	GSeq    uint32 `json:"gseq" binding:"required"`
	OSeq    uint32 `json:"oseq" binding:"required"`
	Price   string `json:"price" binding:"required"`
	Deposit string `json:"deposit" binding:"required"`
	Memo    string `json:"memo,omitempty"`
}

// CloseBidRequest withdraws the caller's bid from an order
type CloseBidRequest struct {
	Owner string `json:"owner" binding:"required"`
	DSeq  uint64 `json:"dseq" binding:"required"`
	GSeq  uint32 `json:"gseq" binding:"required"`
	OSeq  uint32 `json:"oseq" binding:"required"`
	Memo  string `json:"memo,omitempty"`
}

// MarketStatsResponse aggregates a snapshot of marketplace activity
type MarketStatsResponse struct {
	OpenOrders    int       `json:"open_orders"`
	ActiveLeases  int       `json:"active_leases"`
	TotalLeases   int       `json:"total_leases"`
	TotalSpend    sdk.Coins `json:"total_spend"`
	AvgLeasePrice string    `json:"avg_lease_price,omitempty"`
	MinLeasePrice string    `json:"min_lease_price,omitempty"`
	MaxLeasePrice string    `json:"max_lease_price,omitempty"`
	LastUpdated   time.Time `json:"last_updated"`
}

// ==================== Deployment Types ====================

// ResourceRequest describes one resource bundle inside a group
type ResourceRequest struct {
	CPU     uint64 `json:"cpu" binding:"required,gt=0"`
	Memory  uint64 `json:"memory" binding:"required,gt=0"`
	Storage uint64 `json:"storage"`
	GPU     uint64 `json:"gpu"`
	Count   uint32 `json:"count" binding:"required,gt=0"`
}

// AttributeRequest is a placement attribute key/value pair
type AttributeRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value" binding:"required"`
}

// GroupSpecRequest describes one deployment group
type GroupSpecRequest struct {
	Name                string             `json:"name" binding:"required"`
	Resources           []ResourceRequest  `json:"resources" binding:"required,min=1"`
	MaxPrice            string             `json:"max_price" binding:"required"`
	PlacementAttributes []AttributeRequest `json:"placement_attributes,omitempty"`
}

// CreateDeploymentRequest creates a deployment with its groups and the
// initial escrow deposit
type CreateDeploymentRequest struct {
	Groups  []GroupSpecRequest `json:"groups" binding:"required,min=1"`
	Deposit string             `json:"deposit" binding:"required"`
	Memo    string             `json:"memo,omitempty"`
}

// CloseDeploymentRequest closes a deployment by sequence number
type CloseDeploymentRequest struct {
	DSeq uint64 `json:"dseq" binding:"required"`
	Memo string `json:"memo,omitempty"`
}

// DepositDeploymentRequest tops up a deployment's escrow account
type DepositDeploymentRequest struct {
	DSeq   uint64 `json:"dseq" binding:"required"`
	Amount string `json:"amount" binding:"required"`
	Memo   string `json:"memo,omitempty"`
}

// DeploymentListParams filters the deployment listing
type DeploymentListParams struct {
	Owner string `form:"owner"`
	State string `form:"state"`
	PaginationParams
}

// TxResponse reports the outcome of a broadcast transaction
type TxResponse struct {
	TxHash    string `json:"tx_hash"`
	Height    int64  `json:"height"`
	Code      uint32 `json:"code"`
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// ==================== Escrow Types ====================

// EscrowAccountParams identifies an escrow account by scope and xid
type EscrowAccountParams struct {
	Scope string `form:"scope" binding:"required"`
	XID   string `form:"xid" binding:"required"`
}

// EscrowListParams filters the escrow account listing
type EscrowListParams struct {
	Owner string `form:"owner"`
	Scope string `form:"scope"`
	State string `form:"state"`
	PaginationParams
}

// DepositEscrowRequest tops up an escrow account
type DepositEscrowRequest struct {
	Scope  string `json:"scope" binding:"required"`
	XID    string `json:"xid" binding:"required"`
	Amount string `json:"amount" binding:"required"`
	Memo   string `json:"memo,omitempty"`
}

// WithdrawEscrowRequest withdraws unspent funds from an escrow account
type WithdrawEscrowRequest struct {
	Scope  string `json:"scope" binding:"required"`
	XID    string `json:"xid" binding:"required"`
	Amount string `json:"amount" binding:"required"`
	Memo   string `json:"memo,omitempty"`
}

// ==================== Certificate Types ====================

// IssueCertificateRequest anchors a provider certificate on chain
type IssueCertificateRequest struct {
	PubKey   string `json:"pub_key" binding:"required"`
	NotAfter string `json:"not_after" binding:"required"` // RFC 3339
	Memo     string `json:"memo,omitempty"`
}

// RevokeCertificateRequest revokes a certificate by serial
type RevokeCertificateRequest struct {
	Serial uint64 `json:"serial" binding:"required"`
	Memo   string `json:"memo,omitempty"`
}

// CertificateListParams filters the certificate listing
type CertificateListParams struct {
	Owner string `form:"owner"`
	State string `form:"state"`
	PaginationParams
}

// CertificateValidityResponse reports whether a certificate is usable now
type CertificateValidityResponse struct {
	Owner  string `json:"owner"`
	Serial uint64 `json:"serial"`
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// ==================== Provider Types ====================

// VerifyRegionRequest asks the gateway to confirm that the caller's source
// address resolves to the region the provider advertises
type VerifyRegionRequest struct {
	Provider string `json:"provider" binding:"required"`
	Region   string `json:"region" binding:"required"`
}

// VerifyRegionResponse reports the resolved and claimed regions
type VerifyRegionResponse struct {
	Provider       string `json:"provider"`
	ClaimedRegion  string `json:"claimed_region"`
	ResolvedRegion string `json:"resolved_region"`
	Matches        bool   `json:"matches"`
}

// ==================== Wallet Types ====================

// BalanceResponse represents wallet balance response
type BalanceResponse struct {
	Address  string    `json:"address"`
	Balances sdk.Coins `json:"balances"`
}

// SendTokensRequest represents a token transfer request
type SendTokensRequest struct {
	ToAddress string `json:"to_address" binding:"required"`
	Amount    string `json:"amount" binding:"required"`
	Denom     string `json:"denom" binding:"required"`
	Memo      string `json:"memo,omitempty"`
}

// Transaction represents a blockchain transaction
type Transaction struct {
	Hash      string    `json:"hash"`
	Height    int64     `json:"height"`
	Type      string    `json:"type"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Amount    string    `json:"amount"`
	Denom     string    `json:"denom"`
	Fee       string    `json:"fee"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Memo      string    `json:"memo,omitempty"`
}

// TransactionHistoryResponse represents transaction history
type TransactionHistoryResponse struct {
	Transactions []Transaction `json:"transactions"`
	TotalCount   int           `json:"total_count"`
	Page         int           `json:"page"`
	PageSize     int           `json:"page_size"`
}

// ==================== Chain Types ====================

// ChainStatusResponse is a condensed view of the node status
type ChainStatusResponse struct {
	ChainID      string    `json:"chain_id"`
	LatestHeight int64     `json:"latest_height"`
	LatestTime   time.Time `json:"latest_time"`
	CatchingUp   bool      `json:"catching_up"`
	NodeMoniker  string    `json:"node_moniker,omitempty"`
}

// BlockResponse represents a block header
type BlockResponse struct {
	Height   int64     `json:"height"`
	Hash     string    `json:"hash"`
	Time     time.Time `json:"time"`
	ChainID  string    `json:"chain_id"`
	Proposer string    `json:"proposer"`
	NumTxs   int       `json:"num_txs"`
	LastHash string    `json:"last_hash"`
	DataHash string    `json:"data_hash,omitempty"`
}

// ==================== WebSocket Types ====================

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Channel string      `json:"channel,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// WSSubscribeMessage represents a subscription message
type WSSubscribeMessage struct {
	Type    string `json:"type"`    // "subscribe" or "unsubscribe"
	Channel string `json:"channel"` // "orders", "bids", "leases", "escrow", "blocks"
}

// ==================== Common Response Types ====================

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse represents a generic success response
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// PaginationParams represents pagination parameters
type PaginationParams struct {
	Page     int `form:"page" json:"page"`
	PageSize int `form:"page_size" json:"page_size"`
}

// DefaultPagination returns default pagination parameters
func DefaultPagination() PaginationParams {
	return PaginationParams{
		Page:     1,
		PageSize: 20,
	}
}

// Normalize clamps pagination to sane bounds
func (p *PaginationParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

// PageRequest converts page/page_size into the offset form the module
// query servers expect
func (p PaginationParams) PageRequest() *query.PageRequest {
	return &query.PageRequest{
		Offset:     uint64((p.Page - 1) * p.PageSize),
		Limit:      uint64(p.PageSize),
		CountTotal: true,
	}
}

// ==================== Helper Types ====================

// CoinFromString parses an amount and denom into a single coin
func CoinFromString(amount, denom string) (sdk.Coin, error) {
	return sdk.ParseCoinNormalized(amount + denom)
}

// CoinsFromString converts string amount to sdk.Coins
func CoinsFromString(amount, denom string) (sdk.Coins, error) {
	coin, err := CoinFromString(amount, denom)
	if err != nil {
		return nil, err
	}
	return sdk.NewCoins(coin), nil
}
