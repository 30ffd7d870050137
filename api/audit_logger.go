package api

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Audit severities and statuses used throughout the gateway.
const (
	severityInfo     = "info"
	severityWarning  = "warning"
	severityCritical = "critical"
)

// AuditLogger appends security events to a JSON-lines file with size-based
// rotation. A disabled logger swallows everything, so call sites never
// need a nil check on the logger itself.
type AuditLogger struct {
	logFile  *os.File
	mu       sync.Mutex
	enabled  bool
	logDir   string
	maxSize  int64
	maxFiles int
}

// AuditEvent is one security audit record.
type AuditEvent struct {
	EventID     string                 `json:"event_id"`
	Timestamp   time.Time              `json:"timestamp"`
	EventType   string                 `json:"event_type"`
	Severity    string                 `json:"severity"` // "info", "warning", "critical"
	UserID      string                 `json:"user_id,omitempty"`
	Username    string                 `json:"username,omitempty"`
	IPAddress   string                 `json:"ip_address"`
	Action      string                 `json:"action"`
	Resource    string                 `json:"resource,omitempty"`
	Status      string                 `json:"status"` // "success", "failure", "blocked"
	Details     map[string]interface{} `json:"details,omitempty"`
	UserAgent   string                 `json:"user_agent,omitempty"`
	RequestID   string                 `json:"request_id,omitempty"`
	BlockHeight int64                  `json:"block_height,omitempty"`
}

// NewAuditLogger opens an audit log under logDir. When disabled it returns
// a logger whose methods are no-ops.
func NewAuditLogger(logDir string, enabled bool) (*AuditLogger, error) {
	if !enabled {
		return &AuditLogger{enabled: false}, nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create audit log directory: %w", err)
	}

	al := &AuditLogger{
		enabled:  true,
		logDir:   logDir,
		maxSize:  100 * 1024 * 1024,
		maxFiles: 10,
	}
	if err := al.rotate(); err != nil {
		return nil, err
	}
	return al, nil
}

// Log writes one event. Missing IDs and timestamps are filled in, and
// critical events are flushed to disk before returning.
func (al *AuditLogger) Log(event AuditEvent) error {
	if !al.enabled {
		return nil
	}

	al.mu.Lock()
	defer al.mu.Unlock()

	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	if al.logFile != nil {
		if info, err := al.logFile.Stat(); err == nil && info.Size() >= al.maxSize {
			al.rotate()
		}
	}

	jsonData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}
	if _, err := al.logFile.Write(append(jsonData, '\n')); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}

	if event.Severity == severityCritical {
		al.logFile.Sync()
	}
	return nil
}

// rotate opens a fresh timestamped log file and prunes old ones. Caller
// holds the mutex (or is the constructor).
func (al *AuditLogger) rotate() error {
	if al.logFile != nil {
		al.logFile.Close()
	}

	name := fmt.Sprintf("audit_%s.log", time.Now().Format("2006-01-02_15-04-05"))
	file, err := os.OpenFile(filepath.Join(al.logDir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit log file: %w", err)
	}
	al.logFile = file

	go al.pruneOldLogs()
	return nil
}

// pruneOldLogs drops the oldest files beyond maxFiles. The timestamped
// names sort chronologically.
func (al *AuditLogger) pruneOldLogs() {
	files, err := filepath.Glob(filepath.Join(al.logDir, "audit_*.log"))
	if err != nil || len(files) <= al.maxFiles {
		return
	}
	for _, f := range files[:len(files)-al.maxFiles] {
		os.Remove(f)
	}
}

// Close closes the underlying log file.
func (al *AuditLogger) Close() error {
	if !al.enabled || al.logFile == nil {
		return nil
	}
	al.mu.Lock()
	defer al.mu.Unlock()
	return al.logFile.Close()
}

// requestFields copies the client-identifying parts of the request into
// the event.
func requestFields(c *gin.Context, event AuditEvent) AuditEvent {
	event.IPAddress = c.ClientIP()
	event.UserAgent = c.Request.UserAgent()
	if event.RequestID == "" {
		event.RequestID = c.GetString("request_id")
	}
	return event
}

// LogAuthentication records a login, registration, logout or token event.
func (al *AuditLogger) LogAuthentication(c *gin.Context, userID, username, action string, success bool, details string) {
	status, severity := "success", severityInfo
	if !success {
		status, severity = "failure", severityWarning
	}

	al.Log(requestFields(c, AuditEvent{
		EventType: "authentication",
		Severity:  severity,
		Username:  username,
		UserID:    userID,
		Action:    action,
		Status:    status,
		Details:   map[string]interface{}{"details": details},
	}))
}

// LogAuthorization records an access decision on a resource.
func (al *AuditLogger) LogAuthorization(c *gin.Context, userID, resource, action, status string) {
	al.Log(requestFields(c, AuditEvent{
		EventType: "authorization",
		Severity:  severityForStatus(status),
		UserID:    userID,
		Action:    action,
		Resource:  resource,
		Status:    status,
	}))
}

// LogTransaction records a broadcast chain transaction, such as a
// deployment creation, bid, escrow deposit or certificate revocation.
func (al *AuditLogger) LogTransaction(userID, txHash, txType, amount, status, details string) {
	al.Log(AuditEvent{
		EventType: "transaction",
		Severity:  severityInfo,
		UserID:    userID,
		Action:    txType,
		Status:    status,
		Details: map[string]interface{}{
			"tx_hash": txHash,
			"amount":  amount,
			"details": details,
		},
	})
}

// LogSecurityEvent records a generic security event not tied to a request.
func (al *AuditLogger) LogSecurityEvent(eventType, severity, action, status, details string, metadata map[string]interface{}) {
	al.Log(AuditEvent{
		EventType: eventType,
		Severity:  severity,
		Action:    action,
		Status:    status,
		Details: map[string]interface{}{
			"details":  details,
			"metadata": metadata,
		},
	})
}

// LogAPIAccess records one completed API request with timing and sizes.
func (al *AuditLogger) LogAPIAccess(c *gin.Context, userID string, statusCode int, duration time.Duration) {
	severity, status := severityInfo, "success"
	switch {
	case statusCode >= 500:
		severity, status = severityCritical, "server_error"
	case statusCode >= 400:
		severity, status = severityWarning, "client_error"
	}

	al.Log(requestFields(c, AuditEvent{
		EventType: "api_access",
		Severity:  severity,
		UserID:    userID,
		Action:    c.Request.Method + " " + c.Request.URL.Path,
		Status:    status,
		Details: map[string]interface{}{
			"status_code":   statusCode,
			"duration_ms":   duration.Milliseconds(),
			"request_size":  c.Request.ContentLength,
			"response_size": c.Writer.Size(),
			"query_params":  c.Request.URL.Query(),
		},
	}))
}

// LogRateLimitExceeded records a rejected request and which limit fired.
func (al *AuditLogger) LogRateLimitExceeded(c *gin.Context, userID, limit string) {
	al.Log(requestFields(c, AuditEvent{
		EventType: "rate_limit_exceeded",
		Severity:  severityWarning,
		UserID:    userID,
		Action:    c.Request.Method + " " + c.Request.URL.Path,
		Status:    "blocked",
		Details:   map[string]interface{}{"limit": limit},
	}))
}

// LogSuspiciousActivity records detected abuse patterns.
func (al *AuditLogger) LogSuspiciousActivity(c *gin.Context, userID, activityType, details string) {
	al.Log(requestFields(c, AuditEvent{
		EventType: "suspicious_activity",
		Severity:  severityCritical,
		UserID:    userID,
		Action:    activityType,
		Status:    "detected",
		Details:   map[string]interface{}{"details": details},
	}))
}

func severityForStatus(status string) string {
	switch status {
	case "failure", "denied":
		return severityWarning
	case "blocked":
		return severityCritical
	default:
		return severityInfo
	}
}

// AuditMiddleware records every request after it completes.
func AuditMiddleware(auditLogger *AuditLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// "user_id" is set by the auth middleware; empty for anonymous
		// requests.
		auditLogger.LogAPIAccess(c, c.GetString("user_id"), c.Writer.Status(), time.Since(start))
	}
}
