package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestLimiter builds a limiter from the default config after applying
// mutate, and registers cleanup for its background goroutine.
func newTestLimiter(t *testing.T, mutate func(*RateLimitConfig)) *AdvancedRateLimiter {
	t.Helper()
	config := DefaultRateLimitConfig()
	// Tests never want the localhost whitelist bypass.
	config.IPConfig.WhitelistCIDRs = nil
	if mutate != nil {
		mutate(config)
	}
	limiter, err := NewAdvancedRateLimiter(config, nil)
	require.NoError(t, err)
	t.Cleanup(limiter.Close)
	return limiter
}

// testRequest builds a gin context for a request from the given IP. An
// empty account leaves the request unauthenticated.
func testRequest(ip, method, path, account, tier string) *gin.Context {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, nil)
	c.Request.RemoteAddr = ip + ":52000"
	if account != "" {
		c.Set("user_id", account)
	}
	if tier != "" {
		c.Set("tier", tier)
	}
	return c
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RateLimitConfig)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *RateLimitConfig) {},
		},
		{
			name:    "zero default rps",
			mutate:  func(c *RateLimitConfig) { c.DefaultRPS = 0 },
			wantErr: "default_rps",
		},
		{
			name: "enabled endpoint with zero burst",
			mutate: func(c *RateLimitConfig) {
				c.EndpointLimits["/api/bids"].Burst = 0
			},
			wantErr: "burst",
		},
		{
			name: "tier without minute budget",
			mutate: func(c *RateLimitConfig) {
				c.AccountTiers["premium"].RequestsPerMinute = 0
			},
			wantErr: "requests_per_minute",
		},
		{
			name: "suspicion multiplier above one",
			mutate: func(c *RateLimitConfig) {
				c.AdaptiveConfig.SuspicionMultiplier = 1.5
			},
			wantErr: "suspicion_multiplier",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			config := DefaultRateLimitConfig()
			tc.mutate(config)
			err := config.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
			} else {
				require.ErrorContains(t, err, tc.wantErr)
			}
		})
	}
}

func TestBidEndpointThrottle(t *testing.T) {
	limiter := newTestLimiter(t, func(c *RateLimitConfig) {
		c.EndpointLimits = map[string]*EndpointLimit{
			"/api/bids": {
				Path:        "/api/bids",
				Method:      "POST",
				RPS:         1,
				Burst:       3,
				Enabled:     true,
				SkipIPLimit: true,
			},
		}
	})

	// Burst capacity admits the first bids, then the throttle kicks in.
	allowedCount := 0
	var lastHeaders *RateLimitHeaders
	for i := 0; i < 6; i++ {
		c := testRequest("10.1.0.7", "POST", "/api/bids", "", "")
		allowed, headers, err := limiter.CheckLimit(c)
		require.NoError(t, err)
		if allowed {
			allowedCount++
		} else {
			lastHeaders = headers
		}
	}

	assert.Equal(t, 3, allowedCount)
	require.NotNil(t, lastHeaders)
	assert.Equal(t, 1, lastHeaders.Limit)
	assert.Equal(t, 0, lastHeaders.Remaining)
	assert.Positive(t, lastHeaders.RetryAfter)
}

func TestEndpointLimitIgnoresOtherMethods(t *testing.T) {
	limiter := newTestLimiter(t, func(c *RateLimitConfig) {
		c.EndpointLimits = map[string]*EndpointLimit{
			"/api/deployments": {
				Path:    "/api/deployments",
				Method:  "POST",
				RPS:     1,
				Burst:   1,
				Enabled: true,
			},
		}
		c.IPConfig.DefaultRPS = 1000
		c.IPConfig.DefaultBurst = 1000
	})

	// Exhaust the POST throttle.
	c := testRequest("10.1.0.8", "POST", "/api/deployments", "", "")
	allowed, _, err := limiter.CheckLimit(c)
	require.NoError(t, err)
	require.True(t, allowed)

	c = testRequest("10.1.0.8", "POST", "/api/deployments", "", "")
	allowed, _, err = limiter.CheckLimit(c)
	require.NoError(t, err)
	require.False(t, allowed)

	// GETs on the same path are not covered by the POST limit.
	c = testRequest("10.1.0.8", "GET", "/api/deployments", "", "")
	allowed, _, err = limiter.CheckLimit(c)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestWildcardEndpointPattern(t *testing.T) {
	config := DefaultRateLimitConfig()
	config.EndpointLimits["/api/deployments/*"] = &EndpointLimit{
		Path:    "/api/deployments/*",
		RPS:     7,
		Burst:   7,
		Enabled: true,
	}

	limit := config.GetEndpointLimit("GET", "/api/deployments/42/groups")
	require.NotNil(t, limit)
	assert.Equal(t, 7, limit.RPS)

	assert.Nil(t, config.GetEndpointLimit("GET", "/api/orders"))
}

func TestIPBucketExhaustion(t *testing.T) {
	limiter := newTestLimiter(t, func(c *RateLimitConfig) {
		c.EndpointLimits = nil
		c.IPConfig.DefaultRPS = 1
		c.IPConfig.DefaultBurst = 2
		c.IPConfig.AutoBlockThreshold = 0
	})

	allowedCount := 0
	for i := 0; i < 5; i++ {
		c := testRequest("10.2.0.9", "GET", "/api/orders", "", "")
		allowed, _, err := limiter.CheckLimit(c)
		require.NoError(t, err)
		if allowed {
			allowedCount++
		}
	}
	assert.Equal(t, 2, allowedCount)

	// A different IP has its own bucket.
	c := testRequest("10.2.0.10", "GET", "/api/orders", "", "")
	allowed, _, err := limiter.CheckLimit(c)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestAutoBlockAfterRepeatedViolations(t *testing.T) {
	limiter := newTestLimiter(t, func(c *RateLimitConfig) {
		c.EndpointLimits = nil
		c.IPConfig.DefaultRPS = 1
		c.IPConfig.DefaultBurst = 1
		c.IPConfig.AutoBlockThreshold = 3
		c.IPConfig.BlockDuration = time.Hour
	})

	ip := "10.3.0.4"
	for i := 0; i < 5; i++ {
		c := testRequest(ip, "GET", "/api/orders", "", "")
		limiter.CheckLimit(c)
	}

	// The IP crossed the violation threshold and now fails the blacklist
	// check before any bucket is consulted.
	c := testRequest(ip, "GET", "/api/orders", "", "")
	allowed, _, err := limiter.CheckLimit(c)
	assert.False(t, allowed)
	assert.Error(t, err)
}

func TestStaticBlacklistAndCIDR(t *testing.T) {
	limiter := newTestLimiter(t, func(c *RateLimitConfig) {
		c.IPConfig.BlacklistIPs = []string{"203.0.113.50"}
		c.IPConfig.BlacklistCIDRs = []string{"198.51.100.0/24"}
	})

	c := testRequest("203.0.113.50", "GET", "/api/market/stats", "", "")
	allowed, _, err := limiter.CheckLimit(c)
	assert.False(t, allowed)
	assert.Error(t, err)

	c = testRequest("198.51.100.77", "GET", "/api/market/stats", "", "")
	allowed, _, err = limiter.CheckLimit(c)
	assert.False(t, allowed)
	assert.Error(t, err)

	c = testRequest("192.0.2.1", "GET", "/api/market/stats", "", "")
	allowed, _, err = limiter.CheckLimit(c)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestWhitelistBypassesEveryLimit(t *testing.T) {
	limiter := newTestLimiter(t, func(c *RateLimitConfig) {
		c.IPConfig.WhitelistIPs = []string{"10.4.0.2"}
		c.IPConfig.DefaultRPS = 1
		c.IPConfig.DefaultBurst = 1
	})

	for i := 0; i < 20; i++ {
		c := testRequest("10.4.0.2", "GET", "/api/orders", "", "")
		allowed, _, err := limiter.CheckLimit(c)
		require.NoError(t, err)
		require.True(t, allowed)
	}
}

func TestTierBudgetsDiffer(t *testing.T) {
	limiter := newTestLimiter(t, func(c *RateLimitConfig) {
		c.EndpointLimits = nil
		c.IPConfig.Enabled = false
		c.AdaptiveConfig.Enabled = false
		c.AccountTiers["free"].RequestsPerMinute = 60
		c.AccountTiers["free"].BurstSize = 2
		c.AccountTiers["free"].ConcurrentReqs = 100
		c.AccountTiers["premium"].RequestsPerMinute = 600
		c.AccountTiers["premium"].BurstSize = 10
		c.AccountTiers["premium"].ConcurrentReqs = 100
	})

	countAllowed := func(account, tier string, n int) int {
		allowed := 0
		for i := 0; i < n; i++ {
			c := testRequest("10.5.0.1", "GET", "/api/orders", account, tier)
			ok, _, err := limiter.CheckLimit(c)
			require.NoError(t, err)
			if ok {
				allowed++
			}
			limiter.DecrementConcurrent(account)
		}
		return allowed
	}

	freeAllowed := countAllowed("vela1free", "free", 12)
	premiumAllowed := countAllowed("vela1premiumxx", "premium", 12)

	assert.Equal(t, 2, freeAllowed)
	assert.Greater(t, premiumAllowed, freeAllowed)
}

func TestUnknownTierFallsBackToFree(t *testing.T) {
	config := DefaultRateLimitConfig()
	limit := config.GetTierLimit("platinum")
	require.NotNil(t, limit)
	assert.Equal(t, "free", limit.Name)
}

func TestConcurrentSlotAccounting(t *testing.T) {
	limiter := newTestLimiter(t, func(c *RateLimitConfig) {
		c.EndpointLimits = nil
		c.IPConfig.Enabled = false
		c.AdaptiveConfig.Enabled = false
		c.AccountTiers["free"].ConcurrentReqs = 2
		c.AccountTiers["free"].RequestsPerMinute = 6000
		c.AccountTiers["free"].BurstSize = 100
	})

	account := "vela1tenant"
	admit := func() bool {
		c := testRequest("10.6.0.1", "GET", "/api/orders", account, "free")
		ok, _, err := limiter.CheckLimit(c)
		require.NoError(t, err)
		return ok
	}

	require.True(t, admit())
	require.True(t, admit())
	// Both slots held, third request is refused.
	assert.False(t, admit())

	// Releasing a slot re-admits.
	limiter.DecrementConcurrent(account)
	assert.True(t, admit())
}

func TestReputationAdjustsMultiplier(t *testing.T) {
	limiter := newTestLimiter(t, func(c *RateLimitConfig) {
		c.AdaptiveConfig.TrustThreshold = 5
		c.AdaptiveConfig.SuspicionThreshold = 3
	})

	account := "vela1provider"

	assert.Equal(t, 1.0, limiter.reputationMultiplier(account))

	for i := 0; i < 10; i++ {
		limiter.RecordSuccess(account)
	}
	trusted := limiter.reputationMultiplier(account)
	assert.Greater(t, trusted, 1.0)

	for i := 0; i < 30; i++ {
		limiter.RecordFailure(account)
	}
	suspect := limiter.reputationMultiplier(account)
	assert.Less(t, suspect, 1.0)
	assert.GreaterOrEqual(t, suspect, limiter.config.AdaptiveConfig.SuspicionMultiplier)
}

type staticRegionResolver struct {
	country string
}

func (s staticRegionResolver) Country(string) (string, error) { return s.country, nil }
func (s staticRegionResolver) Region(string) (string, error)  { return "europe", nil }
func (s staticRegionResolver) Close() error                   { return nil }

func TestCountryPolicy(t *testing.T) {
	limiter := newTestLimiter(t, func(c *RateLimitConfig) {
		c.GeoConfig.Enabled = true
		c.GeoConfig.BlockedCountries = []string{"xx"}
	})

	// Without a resolver the policy is inert.
	c := testRequest("192.0.2.5", "GET", "/api/market/stats", "", "")
	allowed, _, err := limiter.CheckLimit(c)
	require.NoError(t, err)
	assert.True(t, allowed)

	limiter.SetRegionResolver(staticRegionResolver{country: "XX"})
	c = testRequest("192.0.2.5", "GET", "/api/market/stats", "", "")
	allowed, _, err = limiter.CheckLimit(c)
	assert.False(t, allowed)
	assert.Error(t, err)

	limiter.SetRegionResolver(staticRegionResolver{country: "DE"})
	c = testRequest("192.0.2.5", "GET", "/api/market/stats", "", "")
	allowed, _, err = limiter.CheckLimit(c)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestMiddlewareResponses(t *testing.T) {
	limiter := newTestLimiter(t, func(c *RateLimitConfig) {
		c.EndpointLimits = map[string]*EndpointLimit{
			"/api/bids": {
				Path:          "/api/bids",
				Method:        "POST",
				RPS:           1,
				Burst:         1,
				Enabled:       true,
				SkipIPLimit:   true,
				CustomMessage: "Bid submission rate limit exceeded.",
			},
		}
		c.IPConfig.BlacklistIPs = []string{"203.0.113.9"}
	})

	router := gin.New()
	router.Use(AdvancedRateLimitMiddleware(limiter))
	router.POST("/api/bids", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(ip string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/bids", nil)
		req.RemoteAddr = ip + ":52000"
		router.ServeHTTP(w, req)
		return w
	}

	// First request passes, second hits the throttle with the custom
	// message and rate limit headers.
	assert.Equal(t, http.StatusOK, send("10.7.0.1").Code)

	w := send("10.7.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Bid submission rate limit exceeded.")
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Limit"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// Blacklisted IPs get a 403, not a 429.
	assert.Equal(t, http.StatusForbidden, send("203.0.113.9").Code)
}

func TestNilLimiterIsInert(t *testing.T) {
	var limiter *AdvancedRateLimiter

	limiter.RecordSuccess("vela1x")
	limiter.RecordFailure("vela1x")
	limiter.DecrementConcurrent("vela1x")
	limiter.SetRegionResolver(nil)
	limiter.Close()

	stats := limiter.GetStats()
	assert.Equal(t, false, stats["enabled"])
}

func TestCleanupDropsIdleState(t *testing.T) {
	limiter := newTestLimiter(t, nil)

	c := testRequest("10.8.0.1", "GET", "/api/orders", "vela1idle", "free")
	_, _, err := limiter.CheckLimit(c)
	require.NoError(t, err)
	limiter.RecordSuccess("vela1idle")

	stats := limiter.GetStats()
	assert.Equal(t, 1, stats["ip_limiters"])
	assert.Equal(t, 1, stats["account_limiters"])

	// Backdate everything past the retirement window and sweep.
	stale := time.Now().Add(-time.Hour)
	limiter.ipBuckets.Range(func(_, v interface{}) bool {
		v.(*ipBucket).lastSeen = stale
		return true
	})
	limiter.accountBuckets.Range(func(_, v interface{}) bool {
		v.(*accountBucket).lastSeen = stale
		return true
	})
	limiter.reputations.Range(func(_, v interface{}) bool {
		v.(*reputation).lastActivity = stale
		return true
	})
	limiter.cleanup()

	stats = limiter.GetStats()
	assert.Equal(t, 0, stats["ip_limiters"])
	assert.Equal(t, 0, stats["account_limiters"])
	assert.Equal(t, 0, stats["behavior_trackers"])
}

func TestConcurrentCheckLimit(t *testing.T) {
	limiter := newTestLimiter(t, func(c *RateLimitConfig) {
		c.IPConfig.DefaultRPS = 10000
		c.IPConfig.DefaultBurst = 10000
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ip := fmt.Sprintf("10.9.0.%d", n)
			account := fmt.Sprintf("vela1acct%d", n)
			for j := 0; j < 50; j++ {
				c := testRequest(ip, "GET", "/api/orders", account, "premium")
				limiter.CheckLimit(c)
				limiter.RecordSuccess(account)
				limiter.DecrementConcurrent(account)
			}
		}(i)
	}
	wg.Wait()

	stats := limiter.GetStats()
	assert.Equal(t, 8, stats["ip_limiters"])
	assert.Equal(t, 8, stats["account_limiters"])
}
