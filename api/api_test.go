package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vela-grid/vela/app"
)

// setupTestServer creates a gateway instance with no node connection. Chain
// backed endpoints respond 502; everything in front of the node is live.
func setupTestServer(t *testing.T) *Server {
	app.SetConfig()
	encCfg := app.MakeEncodingConfig()

	clientCtx := client.Context{}.
		WithCodec(encCfg.Codec).
		WithInterfaceRegistry(encCfg.InterfaceRegistry).
		WithTxConfig(encCfg.TxConfig).
		WithKeyring(keyring.NewInMemory(encCfg.Codec)).
		WithChainID("vela-test")

	config := &Config{
		Host:         "localhost",
		Port:         "5000",
		ChainID:      "vela-test",
		NodeURI:      "tcp://localhost:26657",
		JWTSecret:    []byte("test-secret"),
		CORSOrigins:  []string{"*"},
		RateLimitRPS: 1000,
	}

	server, err := NewServer(clientCtx, config)
	require.NoError(t, err)

	return server
}

func testAddress(seed string) string {
	padded := (seed + "____________________")[:20]
	return sdk.AccAddress([]byte(padded)).String()
}

func doJSON(server *Server, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)
	return w
}

// TestHealthCheck tests the health check endpoint
func TestHealthCheck(t *testing.T) {
	server := setupTestServer(t)

	w := doJSON(server, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Equal(t, "healthy", response["status"])
	assert.Equal(t, "vela-test", response["chain_id"])
	assert.NotNil(t, response["timestamp"])
}

// TestUserRegistration tests user registration
func TestUserRegistration(t *testing.T) {
	server := setupTestServer(t)

	tests := []struct {
		name           string
		payload        RegisterRequest
		expectedStatus int
		checkResponse  func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "successful registration",
			payload: RegisterRequest{
				Username: "newuser",
				Password: "Str0ngPass1",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var response SuccessResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				assert.True(t, response.Success)

				data, ok := response.Data.(map[string]interface{})
				require.True(t, ok)
				address, _ := data["address"].(string)
				assert.True(t, strings.HasPrefix(address, "vela1"))
			},
		},
		{
			name: "username too short",
			payload: RegisterRequest{
				Username: "ab",
				Password: "Str0ngPass1",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "weak password",
			payload: RegisterRequest{
				Username: "validuser",
				Password: "password",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate username",
			payload: RegisterRequest{
				Username: "newuser",
				Password: "Str0ngPass1",
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(server, "POST", "/api/auth/register", "", tt.payload)
			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.checkResponse != nil {
				tt.checkResponse(t, w)
			}
		})
	}
}

// TestUserLogin tests user login
func TestUserLogin(t *testing.T) {
	server := setupTestServer(t)

	w := doJSON(server, "POST", "/api/auth/register", "", RegisterRequest{
		Username: "logintest",
		Password: "Str0ngPass1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(server, "POST", "/api/auth/login", "", LoginRequest{
		Username: "logintest",
		Password: "Str0ngPass1",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var response AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.NotEmpty(t, response.Token)
	assert.NotEmpty(t, response.RefreshToken)
	assert.Equal(t, "logintest", response.Username)
	assert.NotEmpty(t, response.UserID)

	w = doJSON(server, "POST", "/api/auth/login", "", LoginRequest{
		Username: "logintest",
		Password: "WrongPass123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(server, "POST", "/api/auth/login", "", LoginRequest{
		Username: "ghost",
		Password: "Str0ngPass1",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestRefreshTokenRotation verifies a refresh token works once and is
// rotated out after use
func TestRefreshTokenRotation(t *testing.T) {
	server := setupTestServer(t)

	_, refresh := registerAndLogin(t, server, "refresher", "Str0ngPass1")

	w := doJSON(server, "POST", "/api/auth/refresh", "", RefreshTokenRequest{RefreshToken: refresh})
	assert.Equal(t, http.StatusOK, w.Code)

	var response RefreshTokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.NotEmpty(t, response.Token)
	assert.NotEmpty(t, response.RefreshToken)
	assert.NotEqual(t, refresh, response.RefreshToken)

	// The old token was rotated out and cannot be replayed
	w = doJSON(server, "POST", "/api/auth/refresh", "", RefreshTokenRequest{RefreshToken: refresh})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestLogoutRevokesRefreshToken tests the logout flow
func TestLogoutRevokesRefreshToken(t *testing.T) {
	server := setupTestServer(t)

	token, refresh := registerAndLogin(t, server, "leaver", "Str0ngPass1")

	w := doJSON(server, "POST", "/api/auth/logout", token, LogoutRequest{RefreshToken: refresh})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(server, "POST", "/api/auth/refresh", "", RefreshTokenRequest{RefreshToken: refresh})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestAuthMiddleware tests authentication middleware
func TestAuthMiddleware(t *testing.T) {
	server := setupTestServer(t)

	// Without token
	w := doJSON(server, "GET", "/api/wallet/address", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// With invalid token
	w = doJSON(server, "GET", "/api/wallet/address", "invalid-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// With valid token
	token, _ := registerAndLogin(t, server, "authtest", "Str0ngPass1")
	w = doJSON(server, "GET", "/api/wallet/address", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	address, _ := response["address"].(string)
	assert.True(t, strings.HasPrefix(address, "vela1"))
}

// TestWalletEndpointsWithoutNode verifies chain-backed wallet endpoints
// degrade to 502 when no node is reachable
func TestWalletEndpointsWithoutNode(t *testing.T) {
	server := setupTestServer(t)
	token, _ := registerAndLogin(t, server, "walletuser", "Str0ngPass1")

	w := doJSON(server, "GET", "/api/wallet/balance", token, nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = doJSON(server, "GET", "/api/wallet/transactions", token, nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	// Valid payload, but the signing key is not in the gateway keyring
	w = doJSON(server, "POST", "/api/wallet/send", token, SendTokensRequest{
		ToAddress: testAddress("recipient"),
		Amount:    "100",
		Denom:     "uvela",
	})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

// TestOrderQueryValidation tests order listing parameter validation
func TestOrderQueryValidation(t *testing.T) {
	server := setupTestServer(t)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
	}{
		{"unknown state filter", "/api/orders?state=bogus", http.StatusBadRequest},
		{"invalid owner address", "/api/orders?owner=notanaddress", http.StatusBadRequest},
		{"valid params but no node", "/api/orders?state=open", http.StatusBadGateway},
		{"invalid dseq in path", "/api/orders/" + testAddress("tenant") + "/abc/1/1", http.StatusBadRequest},
		{"invalid owner in path", "/api/orders/zzz/1/1/1", http.StatusBadRequest},
		{"valid path but no node", "/api/orders/" + testAddress("tenant") + "/1/1/1", http.StatusBadGateway},
		{"bids for order without node", "/api/orders/" + testAddress("tenant") + "/1/1/1/bids", http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(server, "GET", tt.path, "", nil)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

// TestLeaseListRequiresParty verifies lease listing needs an owner or a
// provider filter
func TestLeaseListRequiresParty(t *testing.T) {
	server := setupTestServer(t)

	w := doJSON(server, "GET", "/api/leases", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(server, "GET", "/api/leases?owner="+testAddress("tenant"), "", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = doJSON(server, "GET", "/api/leases?state=expired&owner="+testAddress("tenant"), "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestBidEndpoints tests bid placement validation and auth
func TestBidEndpoints(t *testing.T) {
	server := setupTestServer(t)

	bid := PlaceBidRequest{
		Owner:   testAddress("tenant"),
		DSeq:    1,
		GSeq:    1,
		OSeq:    1,
		Price:   "10",
		Deposit: "50",
	}

	// Requires auth
	w := doJSON(server, "POST", "/api/bids", "", bid)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, _ := registerAndLogin(t, server, "provider", "Str0ngPass1")

	// Invalid price
	bad := bid
	bad.Price = "ten"
	w = doJSON(server, "POST", "/api/bids", token, bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Valid, but the provider key is not in the keyring
	w = doJSON(server, "POST", "/api/bids", token, bid)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	// Close bid follows the same path
	w = doJSON(server, "POST", "/api/bids/close", token, CloseBidRequest{
		Owner: testAddress("tenant"),
		DSeq:  1,
		GSeq:  1,
		OSeq:  1,
	})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

// TestDeploymentEndpoints tests deployment creation validation
func TestDeploymentEndpoints(t *testing.T) {
	server := setupTestServer(t)
	token, _ := registerAndLogin(t, server, "tenant", "Str0ngPass1")

	// Listing requires an owner
	w := doJSON(server, "GET", "/api/deployments", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Invalid dseq in path
	w = doJSON(server, "GET", "/api/deployments/"+testAddress("tenant")+"/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Missing groups
	w = doJSON(server, "POST", "/api/deployments", token, CreateDeploymentRequest{
		Deposit: "100",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Zero cpu rejected before touching the chain
	w = doJSON(server, "POST", "/api/deployments", token, CreateDeploymentRequest{
		Groups: []GroupSpecRequest{{
			Name:      "web",
			Resources: []ResourceRequest{{CPU: 0, Memory: 1024, Count: 1}},
			MaxPrice:  "10",
		}},
		Deposit: "100",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Valid spec; fails at signing because the key is absent
	w = doJSON(server, "POST", "/api/deployments", token, CreateDeploymentRequest{
		Groups: []GroupSpecRequest{{
			Name:      "web",
			Resources: []ResourceRequest{{CPU: 1000, Memory: 1 << 30, Storage: 10 << 30, Count: 2}},
			MaxPrice:  "10",
		}},
		Deposit: "100",
	})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

// TestEscrowEndpoints tests escrow parameter validation
func TestEscrowEndpoints(t *testing.T) {
	server := setupTestServer(t)
	token, _ := registerAndLogin(t, server, "escrowuser", "Str0ngPass1")

	// Missing scope and xid
	w := doJSON(server, "GET", "/api/escrow/account", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown scope
	w = doJSON(server, "GET", "/api/escrow/account?scope=vault&xid=a/1", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Valid scope, no node
	w = doJSON(server, "GET", "/api/escrow/balance?scope=deployment&xid="+testAddress("tenant")+"/1", "", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	// Accounts listing requires an owner
	w = doJSON(server, "GET", "/api/escrow/accounts", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Deposit validates the amount before signing
	w = doJSON(server, "POST", "/api/escrow/deposit", token, DepositEscrowRequest{
		Scope:  "deployment",
		XID:    testAddress("tenant") + "/1",
		Amount: "abc",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(server, "POST", "/api/escrow/withdraw", token, WithdrawEscrowRequest{
		Scope:  "deployment",
		XID:    testAddress("tenant") + "/1",
		Amount: "25",
	})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

// TestCertificateEndpoints tests certificate parameter validation
func TestCertificateEndpoints(t *testing.T) {
	server := setupTestServer(t)
	token, _ := registerAndLogin(t, server, "certuser", "Str0ngPass1")

	w := doJSON(server, "GET", "/api/certs", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(server, "GET", "/api/certs/"+testAddress("prov")+"/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(server, "GET", "/api/certs/"+testAddress("prov")+"/1/validity", "", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	// Issue requires a PEM public key
	w = doJSON(server, "POST", "/api/certs", token, IssueCertificateRequest{
		PubKey:   "not-a-pem",
		NotAfter: time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(server, "POST", "/api/certs", token, IssueCertificateRequest{
		PubKey:   "-----BEGIN PUBLIC KEY-----\nMIIBIjANBg\n-----END PUBLIC KEY-----",
		NotAfter: time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = doJSON(server, "POST", "/api/certs/revoke", token, RevokeCertificateRequest{Serial: 1})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

// TestChainEndpointsWithoutNode tests node status handling with no RPC
// connection
func TestChainEndpointsWithoutNode(t *testing.T) {
	server := setupTestServer(t)

	w := doJSON(server, "GET", "/api/chain/status", "", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = doJSON(server, "GET", "/api/chain/blocks/latest", "", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = doJSON(server, "GET", "/api/chain/blocks/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(server, "GET", "/api/market/stats", "", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

// TestVerifyRegion tests the provider region attestation endpoint
func TestVerifyRegion(t *testing.T) {
	server := setupTestServer(t)

	payload := VerifyRegionRequest{
		Provider: testAddress("prov"),
		Region:   "europe",
	}

	w := doJSON(server, "POST", "/api/providers/verify-region", "", payload)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, _ := registerAndLogin(t, server, "regionprov", "Str0ngPass1")

	bad := payload
	bad.Region = "atlantis"
	w = doJSON(server, "POST", "/api/providers/verify-region", token, bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// No GeoIP database configured
	w = doJSON(server, "POST", "/api/providers/verify-region", token, payload)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

// TestSecurityHeaders verifies the hardening headers are set on every
// response
func TestSecurityHeaders(t *testing.T) {
	server := setupTestServer(t)

	w := doJSON(server, "GET", "/health", "", nil)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

// TestMetricsEndpoint verifies the Prometheus scrape endpoint responds
func TestMetricsEndpoint(t *testing.T) {
	server := setupTestServer(t)

	// Populate the request counter before scraping
	doJSON(server, "GET", "/health", "", nil)

	w := doJSON(server, "GET", "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "vela_gateway_ws_connections")
	assert.Contains(t, w.Body.String(), "vela_gateway_requests_total")
}

// TestWebSocketSubscription tests the subscribe flow and channel filtering
func TestWebSocketSubscription(t *testing.T) {
	server := setupTestServer(t)
	go server.wsHub.Run()

	ts := httptest.NewServer(server.router)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))

	// Unknown channels are rejected
	require.NoError(t, conn.WriteJSON(WSSubscribeMessage{Type: "subscribe", Channel: "everything"}))
	var msg WSMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "error", msg.Type)

	require.NoError(t, conn.WriteJSON(WSSubscribeMessage{Type: "subscribe", Channel: ChannelOrders}))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "subscribed", msg.Type)
	assert.Equal(t, ChannelOrders, msg.Channel)

	// Events on other channels are filtered out
	server.wsHub.BroadcastTxEvent(ChannelLeases, "lease_closed", map[string]interface{}{"ignored": true})
	server.wsHub.BroadcastTxEvent(ChannelOrders, "deployment_created", map[string]interface{}{"groups": 1})

	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "deployment_created", msg.Type)
	assert.Equal(t, ChannelOrders, msg.Channel)
}

// registerAndLogin registers a user and returns the access and refresh
// tokens
func registerAndLogin(t *testing.T, server *Server, username, password string) (string, string) {
	w := doJSON(server, "POST", "/api/auth/register", "", RegisterRequest{
		Username: username,
		Password: password,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(server, "POST", "/api/auth/login", "", LoginRequest{
		Username: username,
		Password: password,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var response AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	return response.Token, response.RefreshToken
}
