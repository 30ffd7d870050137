package main

import (
	"fmt"
	"log"
	"os"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/vela-grid/vela/api"
	"github.com/vela-grid/vela/app"
)

func main() {
	// Configure bech32 prefixes
	app.SetConfig()

	encCfg := app.MakeEncodingConfig()

	homeDir := getEnv("VELA_HOME", app.DefaultNodeHome)
	chainID := getEnv("CHAIN_ID", "vela-1")
	nodeURI := getEnv("NODE_URI", "tcp://localhost:26657")

	// Keyring for signing gateway-managed transactions. The test backend is
	// unencrypted; use file or os outside development.
	kr, err := keyring.New(app.Name, getEnv("KEYRING_BACKEND", keyring.BackendTest), homeDir, os.Stdin, encCfg.Codec)
	if err != nil {
		log.Fatalf("Failed to open keyring: %v", err)
	}

	clientCtx := client.Context{}.
		WithCodec(encCfg.Codec).
		WithInterfaceRegistry(encCfg.InterfaceRegistry).
		WithTxConfig(encCfg.TxConfig).
		WithLegacyAmino(encCfg.Amino).
		WithInput(os.Stdin).
		WithOutput(os.Stdout).
		WithAccountRetriever(authtypes.AccountRetriever{}).
		WithBroadcastMode(flags.BroadcastSync).
		WithHomeDir(homeDir).
		WithKeyring(kr).
		WithChainID(chainID).
		WithNodeURI(nodeURI)

	// Without a reachable node the gateway still serves auth and reports
	// 502 on chain-backed endpoints.
	if rpcClient, err := client.NewClientFromNode(nodeURI); err != nil {
		fmt.Printf("WARNING: node %s unreachable: %v\n", nodeURI, err)
	} else {
		clientCtx = clientCtx.WithClient(rpcClient)
	}

	// Create server config
	serverConfig := api.DefaultConfig()
	serverConfig.Host = getEnv("API_HOST", "0.0.0.0")
	serverConfig.Port = getEnv("API_PORT", "5000")
	serverConfig.ChainID = chainID
	serverConfig.NodeURI = nodeURI
	serverConfig.GeoDBPath = os.Getenv("GEOIP_DB_PATH")
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		serverConfig.JWTSecret = []byte(secret)
	}
	if cert, key := os.Getenv("TLS_CERT_FILE"), os.Getenv("TLS_KEY_FILE"); cert != "" && key != "" {
		serverConfig.TLSEnabled = true
		serverConfig.TLSCertFile = cert
		serverConfig.TLSKeyFile = key
	}

	// Create and start server
	server, err := api.NewServer(clientCtx, serverConfig)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	fmt.Println("╔═══════════════════════════════════════════════════╗")
	fmt.Println("║              Vela API Gateway                     ║")
	fmt.Println("╚═══════════════════════════════════════════════════╝")
	fmt.Printf("\nServer Configuration:\n")
	fmt.Printf("  - Host: %s\n", serverConfig.Host)
	fmt.Printf("  - Port: %s\n", serverConfig.Port)
	fmt.Printf("  - Chain ID: %s\n", serverConfig.ChainID)
	fmt.Printf("  - Node URI: %s\n", serverConfig.NodeURI)
	fmt.Printf("\nAPI Endpoints:\n")
	fmt.Printf("  - Health: http://%s:%s/health\n", serverConfig.Host, serverConfig.Port)
	fmt.Printf("  - Metrics: http://%s:%s/metrics\n", serverConfig.Host, serverConfig.Port)
	fmt.Printf("  - Auth: http://%s:%s/api/auth/*\n", serverConfig.Host, serverConfig.Port)
	fmt.Printf("  - Market: http://%s:%s/api/orders, /api/bids, /api/leases\n", serverConfig.Host, serverConfig.Port)
	fmt.Printf("  - Deployments: http://%s:%s/api/deployments/*\n", serverConfig.Host, serverConfig.Port)
	fmt.Printf("  - WebSocket: ws://%s:%s/ws\n", serverConfig.Host, serverConfig.Port)
	fmt.Printf("\nPress Ctrl+C to stop the server\n\n")

	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
