package app

import (
	"strings"

	"cosmossdk.io/log"
	"github.com/cosmos/cosmos-sdk/client"

	"github.com/vela-grid/vela/app/health"
)

// normalizeRPCURL maps a CometBFT listen address to a URL the RPC client
// accepts. Node config files carry tcp:// addresses; the HTTP client wants
// an http scheme. Unix sockets and explicit http(s) URLs pass through.
func normalizeRPCURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "tcp://") {
		return "http://" + strings.TrimPrefix(raw, "tcp://")
	}
	return raw
}

// NewHealthChecker builds a health checker probing the node's own RPC
// endpoint. rpcAddr may be a tcp:// listen address straight from the node
// config; an empty address falls back to the default local endpoint.
func NewHealthChecker(logger log.Logger, clientCtx client.Context, rpcAddr string) (*health.Checker, error) {
	cfg := health.DefaultConfig()
	if url := normalizeRPCURL(rpcAddr); url != "" {
		cfg.RPCURL = url
	}
	return health.NewChecker(logger, cfg, clientCtx)
}
