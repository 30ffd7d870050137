package api

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// retireAfter is how long an idle per-IP or per-account bucket survives
// before the cleanup loop drops it.
const retireAfter = 10 * time.Minute

// AdvancedRateLimiter layers several admission policies in front of the
// gateway: IP blacklist and country policy, endpoint throttles, a per-IP
// token bucket with automatic blocking of repeat offenders, and tiered
// per-account limits scaled by a reputation score.
type AdvancedRateLimiter struct {
	config      *RateLimitConfig
	auditLogger *AuditLogger

	ipBuckets      *sync.Map // map[string]*ipBucket
	ipBlacklist    *sync.Map // map[string]time.Time, value is the unblock time
	ipWhitelist    map[string]bool
	whitelistCIDRs []*net.IPNet
	blacklistCIDRs []*net.IPNet

	regionResolver   RegionResolver
	blockedCountries map[string]bool

	accountBuckets   *sync.Map // map[string]*accountBucket
	endpointLimiters map[string]*rate.Limiter
	reputations      *sync.Map // map[string]*reputation

	stopChan chan struct{}
	mu       sync.RWMutex
}

// ipBucket is the per-IP token bucket plus the violation counter that
// feeds the auto-block policy.
type ipBucket struct {
	limiter    *rate.Limiter
	lastSeen   time.Time
	violations int
	blocked    bool
	blockUntil time.Time
	mu         sync.RWMutex
}

// accountBucket holds the tiered limiters for one authenticated account.
// The minute limiter is the one consulted on the hot path; hour and day
// limiters catch sustained abuse that stays under the minute rate.
type accountBucket struct {
	account       string
	tier          string
	minuteLimiter *rate.Limiter
	hourLimiter   *rate.Limiter
	dayLimiter    *rate.Limiter
	concurrent    int
	maxConcurrent int
	lastSeen      time.Time
	mu            sync.RWMutex
}

// reputation tracks request outcomes for one account. Trust grows with
// runs of successful requests and widens the effective limit; suspicion
// grows with runs of failures and narrows it.
type reputation struct {
	account            string
	successCount       int
	failureCount       int
	trustLevel         int
	suspicionLevel     int
	lastActivity       time.Time
	consecutiveSuccess int
	consecutiveFailure int
	mu                 sync.RWMutex
}

// NewAdvancedRateLimiter builds a limiter from config and starts its
// cleanup loop. A nil config gets the defaults.
func NewAdvancedRateLimiter(config *RateLimitConfig, auditLogger *AuditLogger) (*AdvancedRateLimiter, error) {
	if config == nil {
		config = DefaultRateLimitConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rate limit config: %w", err)
	}

	l := &AdvancedRateLimiter{
		config:           config,
		auditLogger:      auditLogger,
		ipBuckets:        &sync.Map{},
		ipBlacklist:      &sync.Map{},
		ipWhitelist:      make(map[string]bool),
		blockedCountries: make(map[string]bool),
		accountBuckets:   &sync.Map{},
		endpointLimiters: make(map[string]*rate.Limiter),
		reputations:      &sync.Map{},
		stopChan:         make(chan struct{}),
	}

	if ipc := config.IPConfig; ipc != nil {
		l.whitelistCIDRs = parseCIDRs(ipc.WhitelistCIDRs)
		l.blacklistCIDRs = parseCIDRs(ipc.BlacklistCIDRs)
		for _, ip := range ipc.WhitelistIPs {
			l.ipWhitelist[ip] = true
		}
		// Statically blacklisted IPs get a far-future unblock time so
		// the cleanup loop never expires them.
		for _, ip := range ipc.BlacklistIPs {
			l.ipBlacklist.Store(ip, time.Now().Add(365*24*time.Hour))
		}
	}

	if config.GeoConfig != nil {
		for _, country := range config.GeoConfig.BlockedCountries {
			l.blockedCountries[strings.ToUpper(country)] = true
		}
	}

	for path, el := range config.EndpointLimits {
		if el.Enabled {
			l.endpointLimiters[path] = rate.NewLimiter(rate.Limit(el.RPS), el.Burst)
		}
	}

	go l.cleanupLoop()

	return l, nil
}

func parseCIDRs(cidrs []string) []*net.IPNet {
	var nets []*net.IPNet
	for _, cidr := range cidrs {
		if _, ipNet, err := net.ParseCIDR(cidr); err == nil {
			nets = append(nets, ipNet)
		}
	}
	return nets
}

// SetRegionResolver attaches the GeoIP resolver used for country blocking.
// Without a resolver the region policy is skipped entirely.
func (l *AdvancedRateLimiter) SetRegionResolver(r RegionResolver) {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.regionResolver = r
	l.mu.Unlock()
}

// CheckLimit runs the request through every admission policy in order:
// blacklist, country policy, whitelist bypass, endpoint throttle, per-IP
// bucket, per-account bucket. A non-nil error means a policy rejection
// (403 material), allowed=false with nil error means a limit was hit.
func (l *AdvancedRateLimiter) CheckLimit(c *gin.Context) (allowed bool, headers *RateLimitHeaders, err error) {
	if !l.config.Enabled {
		return true, nil, nil
	}

	ip := c.ClientIP()
	path := c.Request.URL.Path
	method := c.Request.Method
	account := c.GetString("user_id")

	if l.isIPBlacklisted(ip) {
		l.logSecurityEvent("rate_limit_blacklist", "critical", "blocked_request",
			fmt.Sprintf("IP %s is blacklisted", ip),
			map[string]interface{}{"ip": ip, "path": path})
		return false, nil, fmt.Errorf("IP address is blacklisted")
	}

	if blocked, country := l.isCountryBlocked(ip); blocked {
		l.logSecurityEvent("geo_policy_block", "warning", "blocked_request",
			fmt.Sprintf("IP %s resolved to blocked country %s", ip, country),
			map[string]interface{}{"ip": ip, "country": country, "path": path})
		return false, nil, fmt.Errorf("requests from this region are not permitted")
	}

	if l.isIPWhitelisted(ip) {
		return true, nil, nil
	}

	endpointLimit := l.config.GetEndpointLimit(method, path)
	if endpointLimit != nil && endpointLimit.Enabled {
		allowed, headers = l.admitEndpoint(endpointLimit)
		if !allowed {
			if l.auditLogger != nil {
				l.auditLogger.LogRateLimitExceeded(c, account, fmt.Sprintf("endpoint:%s", path))
			}
			return false, headers, nil
		}
	}

	// Write-heavy endpoints such as bid and deployment submission can
	// opt out of the shared IP bucket so their own tighter throttle is
	// the only one that applies.
	if endpointLimit == nil || !endpointLimit.SkipIPLimit {
		allowed, headers = l.admitIP(ip)
		if !allowed {
			if l.auditLogger != nil {
				l.auditLogger.LogRateLimitExceeded(c, account, "ip")
			}
			return false, headers, nil
		}
	}

	if account != "" {
		tier := c.GetString("tier")
		if tier == "" {
			tier = "free"
		}
		allowed, headers = l.admitAccount(account, tier)
		if !allowed {
			if l.auditLogger != nil {
				l.auditLogger.LogRateLimitExceeded(c, account, fmt.Sprintf("account:%s", tier))
			}
			return false, headers, nil
		}
	}

	return true, headers, nil
}

func (l *AdvancedRateLimiter) logSecurityEvent(eventType, severity, action, description string, details map[string]interface{}) {
	if l.auditLogger == nil {
		return
	}
	l.auditLogger.LogSecurityEvent(eventType, severity, action, "blocked", description, details)
}

// admitEndpoint consults the shared limiter for one endpoint. It uses a
// reservation rather than Allow so the Retry-After header can report the
// actual wait.
func (l *AdvancedRateLimiter) admitEndpoint(el *EndpointLimit) (bool, *RateLimitHeaders) {
	limiter, exists := l.endpointLimiters[el.Path]
	if !exists {
		return true, nil
	}

	reservation := limiter.Reserve()
	if !reservation.OK() {
		return false, &RateLimitHeaders{
			Limit:      el.RPS,
			Remaining:  0,
			Reset:      time.Now().Add(time.Second).Unix(),
			RetryAfter: 1,
		}
	}

	if delay := reservation.Delay(); delay > 0 {
		reservation.Cancel()
		return false, &RateLimitHeaders{
			Limit:      el.RPS,
			Remaining:  0,
			Reset:      time.Now().Add(delay).Unix(),
			RetryAfter: int(delay.Seconds()) + 1,
		}
	}

	return true, &RateLimitHeaders{
		Limit:     el.RPS,
		Remaining: el.Burst - 1,
		Reset:     time.Now().Add(time.Second).Unix(),
	}
}

// admitIP consults the per-IP bucket. Each rejection counts as a
// violation; crossing AutoBlockThreshold moves the IP onto the dynamic
// blacklist for BlockDuration.
func (l *AdvancedRateLimiter) admitIP(ip string) (bool, *RateLimitHeaders) {
	if !l.config.IPConfig.Enabled {
		return true, nil
	}

	b := l.ipBucket(ip)

	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	if b.blocked {
		if now.Before(b.blockUntil) {
			return false, &RateLimitHeaders{
				Limit:      0,
				Remaining:  0,
				Reset:      b.blockUntil.Unix(),
				RetryAfter: int(time.Until(b.blockUntil).Seconds()) + 1,
			}
		}
		b.blocked = false
		b.violations = 0
	}

	b.lastSeen = now

	if !b.limiter.Allow() {
		b.violations++
		if t := l.config.IPConfig.AutoBlockThreshold; t > 0 && b.violations >= t {
			b.blocked = true
			b.blockUntil = now.Add(l.config.IPConfig.BlockDuration)
			l.ipBlacklist.Store(ip, b.blockUntil)
			l.logSecurityEvent("ip_auto_blocked", "critical", "auto_block",
				fmt.Sprintf("IP %s auto-blocked after %d violations", ip, b.violations),
				map[string]interface{}{"ip": ip, "violations": b.violations})
		}
		return false, &RateLimitHeaders{
			Limit:      l.config.IPConfig.DefaultRPS,
			Remaining:  0,
			Reset:      now.Add(time.Second).Unix(),
			RetryAfter: 1,
		}
	}

	return true, &RateLimitHeaders{
		Limit:     l.config.IPConfig.DefaultRPS,
		Remaining: l.config.IPConfig.DefaultBurst - 1,
		Reset:     now.Add(time.Second).Unix(),
	}
}

// admitAccount consults the per-account bucket for the account's tier and
// applies the reputation multiplier to the advertised limit.
func (l *AdvancedRateLimiter) admitAccount(account, tier string) (bool, *RateLimitHeaders) {
	b := l.accountBucket(account, tier)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastSeen = time.Now()

	if b.concurrent >= b.maxConcurrent {
		return false, &RateLimitHeaders{
			Limit:      b.maxConcurrent,
			Remaining:  0,
			Reset:      time.Now().Add(time.Second).Unix(),
			RetryAfter: 1,
		}
	}

	multiplier := l.reputationMultiplier(account)

	if !b.minuteLimiter.Allow() {
		return false, &RateLimitHeaders{
			Limit:      int(float64(b.minuteLimiter.Limit()) * multiplier),
			Remaining:  0,
			Reset:      time.Now().Add(time.Minute).Unix(),
			RetryAfter: 60,
		}
	}

	b.concurrent++

	tierLimit := l.config.GetTierLimit(tier)
	return true, &RateLimitHeaders{
		Limit:     int(float64(tierLimit.RequestsPerMinute) * multiplier),
		Remaining: tierLimit.BurstSize - b.concurrent,
		Reset:     time.Now().Add(time.Minute).Unix(),
	}
}

// DecrementConcurrent releases one concurrency slot for an account. Safe
// on a nil receiver; the gateway runs without an advanced limiter when
// only the simple per-IP limiter is configured.
func (l *AdvancedRateLimiter) DecrementConcurrent(account string) {
	if l == nil || account == "" {
		return
	}
	v, ok := l.accountBuckets.Load(account)
	if !ok {
		return
	}
	b := v.(*accountBucket)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.concurrent > 0 {
		b.concurrent--
	}
}

// RecordSuccess feeds a successful request into the account's reputation.
// Safe on a nil receiver.
func (l *AdvancedRateLimiter) RecordSuccess(account string) {
	if l == nil || !l.config.AdaptiveConfig.Enabled || account == "" {
		return
	}

	r := l.reputation(account)
	r.mu.Lock()
	defer r.mu.Unlock()

	r.successCount++
	r.consecutiveSuccess++
	r.consecutiveFailure = 0
	r.lastActivity = time.Now()

	if r.consecutiveSuccess >= l.config.AdaptiveConfig.TrustThreshold {
		if r.trustLevel < l.config.AdaptiveConfig.MaxTrustLevel {
			r.trustLevel++
		}
		r.consecutiveSuccess = 0
	}
	if r.suspicionLevel > 0 {
		r.suspicionLevel--
	}
}

// RecordFailure feeds a failed request into the account's reputation.
// Safe on a nil receiver.
func (l *AdvancedRateLimiter) RecordFailure(account string) {
	if l == nil || !l.config.AdaptiveConfig.Enabled || account == "" {
		return
	}

	r := l.reputation(account)
	r.mu.Lock()
	defer r.mu.Unlock()

	r.failureCount++
	r.consecutiveFailure++
	r.consecutiveSuccess = 0
	r.lastActivity = time.Now()

	if r.consecutiveFailure >= l.config.AdaptiveConfig.SuspicionThreshold {
		if r.suspicionLevel < l.config.AdaptiveConfig.MaxSuspicionLevel {
			r.suspicionLevel++
		}
		r.consecutiveFailure = 0

		if l.auditLogger != nil && r.suspicionLevel >= 3 {
			l.auditLogger.LogSecurityEvent(
				"suspicious_activity", "critical", "high_failure_rate", "detected",
				fmt.Sprintf("Account %s reached suspicion level %d", account, r.suspicionLevel),
				map[string]interface{}{
					"user_id":         account,
					"suspicion_level": r.suspicionLevel,
				},
			)
		}
	}

	if r.trustLevel > 0 {
		r.trustLevel--
	}
}

// reputationMultiplier converts an account's trust and suspicion levels
// into a limit multiplier, clamped to the configured bounds.
func (l *AdvancedRateLimiter) reputationMultiplier(account string) float64 {
	if l == nil || !l.config.AdaptiveConfig.Enabled || account == "" {
		return 1.0
	}

	v, ok := l.reputations.Load(account)
	if !ok {
		return 1.0
	}

	r := v.(*reputation)
	r.mu.RLock()
	defer r.mu.RUnlock()

	multiplier := 1.0
	if r.trustLevel > 0 {
		multiplier *= 1.0 + float64(r.trustLevel)*0.2
		if multiplier > l.config.AdaptiveConfig.TrustMultiplier {
			multiplier = l.config.AdaptiveConfig.TrustMultiplier
		}
	}
	if r.suspicionLevel > 0 {
		multiplier *= 1.0 - float64(r.suspicionLevel)*0.1
		if multiplier < l.config.AdaptiveConfig.SuspicionMultiplier {
			multiplier = l.config.AdaptiveConfig.SuspicionMultiplier
		}
	}
	return multiplier
}

func (l *AdvancedRateLimiter) ipBucket(ip string) *ipBucket {
	v, _ := l.ipBuckets.LoadOrStore(ip, &ipBucket{
		limiter: rate.NewLimiter(
			rate.Limit(l.config.IPConfig.DefaultRPS),
			l.config.IPConfig.DefaultBurst,
		),
		lastSeen: time.Now(),
	})
	return v.(*ipBucket)
}

func (l *AdvancedRateLimiter) accountBucket(account, tier string) *accountBucket {
	if v, ok := l.accountBuckets.Load(account); ok {
		return v.(*accountBucket)
	}

	tl := l.config.GetTierLimit(tier)
	v, _ := l.accountBuckets.LoadOrStore(account, &accountBucket{
		account:       account,
		tier:          tier,
		minuteLimiter: rate.NewLimiter(rate.Limit(tl.RequestsPerMinute)/60.0, tl.BurstSize),
		hourLimiter:   rate.NewLimiter(rate.Limit(tl.RequestsPerHour)/3600.0, tl.BurstSize),
		dayLimiter:    rate.NewLimiter(rate.Limit(tl.RequestsPerDay)/86400.0, tl.BurstSize),
		maxConcurrent: tl.ConcurrentReqs,
		lastSeen:      time.Now(),
	})
	return v.(*accountBucket)
}

func (l *AdvancedRateLimiter) reputation(account string) *reputation {
	v, _ := l.reputations.LoadOrStore(account, &reputation{
		account:      account,
		lastActivity: time.Now(),
	})
	return v.(*reputation)
}

func (l *AdvancedRateLimiter) isIPWhitelisted(ip string) bool {
	if l.ipWhitelist[ip] {
		return true
	}
	return cidrsContain(l.whitelistCIDRs, ip)
}

func (l *AdvancedRateLimiter) isIPBlacklisted(ip string) bool {
	if v, ok := l.ipBlacklist.Load(ip); ok {
		if time.Now().Before(v.(time.Time)) {
			return true
		}
		l.ipBlacklist.Delete(ip)
	}
	return cidrsContain(l.blacklistCIDRs, ip)
}

func cidrsContain(nets []*net.IPNet, ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	for _, n := range nets {
		if n.Contains(parsed) {
			return true
		}
	}
	return false
}

// isCountryBlocked resolves the client IP to a country and applies the
// blocked-country list. Lookup failures and the "private"/"unknown"
// placeholders never block.
func (l *AdvancedRateLimiter) isCountryBlocked(ip string) (bool, string) {
	if l.config.GeoConfig == nil || !l.config.GeoConfig.Enabled {
		return false, ""
	}
	if len(l.blockedCountries) == 0 {
		return false, ""
	}

	l.mu.RLock()
	resolver := l.regionResolver
	l.mu.RUnlock()
	if resolver == nil {
		return false, ""
	}

	country, err := resolver.Country(ip)
	if err != nil || country == "private" || country == "unknown" {
		return false, ""
	}

	country = strings.ToUpper(country)
	return l.blockedCountries[country], country
}

func (l *AdvancedRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(l.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stopChan:
			return
		}
	}
}

// cleanup drops idle buckets and expired dynamic blacklist entries.
func (l *AdvancedRateLimiter) cleanup() {
	now := time.Now()

	l.ipBuckets.Range(func(key, value interface{}) bool {
		b := value.(*ipBucket)
		b.mu.RLock()
		lastSeen := b.lastSeen
		b.mu.RUnlock()
		if now.Sub(lastSeen) > retireAfter {
			l.ipBuckets.Delete(key)
		}
		return true
	})

	l.accountBuckets.Range(func(key, value interface{}) bool {
		b := value.(*accountBucket)
		b.mu.RLock()
		lastSeen := b.lastSeen
		b.mu.RUnlock()
		if now.Sub(lastSeen) > retireAfter {
			l.accountBuckets.Delete(key)
		}
		return true
	})

	l.reputations.Range(func(key, value interface{}) bool {
		r := value.(*reputation)
		r.mu.RLock()
		lastActivity := r.lastActivity
		r.mu.RUnlock()
		if now.Sub(lastActivity) > retireAfter {
			l.reputations.Delete(key)
		}
		return true
	})

	l.ipBlacklist.Range(func(key, value interface{}) bool {
		if now.After(value.(time.Time)) {
			l.ipBlacklist.Delete(key)
		}
		return true
	})
}

// Close stops the cleanup loop. Safe on a nil receiver.
func (l *AdvancedRateLimiter) Close() {
	if l == nil {
		return
	}
	close(l.stopChan)
}

// GetStats reports how many buckets and trackers the limiter currently
// holds, for the admin stats endpoint.
func (l *AdvancedRateLimiter) GetStats() map[string]interface{} {
	if l == nil {
		return map[string]interface{}{"enabled": false}
	}

	count := func(m *sync.Map) int {
		n := 0
		m.Range(func(_, _ interface{}) bool { n++; return true })
		return n
	}

	return map[string]interface{}{
		"ip_limiters":       count(l.ipBuckets),
		"account_limiters":  count(l.accountBuckets),
		"behavior_trackers": count(l.reputations),
		"blacklisted_ips":   count(l.ipBlacklist),
		"enabled":           l.config.Enabled,
	}
}

// AdvancedRateLimitMiddleware enforces the multi-strategy limiter on every
// request. Policy violations (blacklist, region) return 403, exhausted
// limits return 429 with standard rate limit headers.
func AdvancedRateLimitMiddleware(l *AdvancedRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, headers, err := l.CheckLimit(c)

		if headers != nil {
			for key, value := range headers.ToHeaders() {
				c.Header(key, value)
			}
		}

		if err != nil {
			c.JSON(http.StatusForbidden, ErrorResponse{
				Error: err.Error(),
				Code:  "FORBIDDEN",
			})
			c.Abort()
			return
		}

		if !allowed {
			message := "Rate limit exceeded"
			if limit := l.config.GetEndpointLimit(c.Request.Method, c.Request.URL.Path); limit != nil && limit.CustomMessage != "" {
				message = limit.CustomMessage
			}
			c.JSON(http.StatusTooManyRequests, ErrorResponse{
				Error: message,
				Code:  "RATE_LIMITED",
			})
			c.Abort()
			return
		}

		account := c.GetString("user_id")
		c.Next()
		l.DecrementConcurrent(account)
	}
}
