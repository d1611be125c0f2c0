package api

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// AuditLogger appends admin events as JSON lines to rotating files. A nil
// *AuditLogger discards everything.
type AuditLogger struct {
	mu       sync.Mutex
	logFile  *os.File
	logDir   string
	maxSize  int64
	maxFiles int
	seq      int
}

// AuditEvent is one line of the audit trail.
type AuditEvent struct {
	Timestamp   time.Time              `json:"timestamp"`
	EventType   string                 `json:"event_type"`
	Severity    string                 `json:"severity"`
	Admin       string                 `json:"admin,omitempty"`
	IPAddress   string                 `json:"ip_address,omitempty"`
	Action      string                 `json:"action"`
	Status      string                 `json:"status"`
	Details     map[string]interface{} `json:"details,omitempty"`
	RequestID   string                 `json:"request_id,omitempty"`
	BlockHeight int64                  `json:"block_height,omitempty"`
}

// NewAuditLogger opens an audit trail under logDir. An empty logDir returns
// nil, which disables auditing.
func NewAuditLogger(logDir string) (*AuditLogger, error) {
	if logDir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(logDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create audit log directory: %w", err)
	}

	al := &AuditLogger{
		logDir:   logDir,
		maxSize:  100 * 1024 * 1024,
		maxFiles: 10,
	}
	if err := al.rotateLogFile(); err != nil {
		return nil, err
	}
	return al, nil
}

// Log writes event, rotating the file first when it has grown past maxSize.
func (al *AuditLogger) Log(event AuditEvent) error {
	if al == nil {
		return nil
	}

	al.mu.Lock()
	defer al.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	if info, err := al.logFile.Stat(); err == nil && info.Size() >= al.maxSize {
		if err := al.rotateLogFile(); err != nil {
			return err
		}
	}

	jsonData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}
	if _, err := al.logFile.Write(append(jsonData, '\n')); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	if event.Severity == "critical" {
		return al.logFile.Sync()
	}
	return nil
}

func (al *AuditLogger) rotateLogFile() error {
	if al.logFile != nil {
		_ = al.logFile.Close()
	}

	al.seq++
	name := fmt.Sprintf("audit_%s_%03d.log", time.Now().UTC().Format("2006-01-02_15-04-05"), al.seq)
	file, err := os.OpenFile(filepath.Join(al.logDir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return fmt.Errorf("failed to open audit log file: %w", err)
	}
	al.logFile = file
	al.cleanupOldLogs()
	return nil
}

// cleanupOldLogs keeps the newest maxFiles files. Names sort by creation time.
func (al *AuditLogger) cleanupOldLogs() {
	files, err := filepath.Glob(filepath.Join(al.logDir, "audit_*.log"))
	if err != nil || len(files) <= al.maxFiles {
		return
	}
	sort.Strings(files)
	for _, f := range files[:len(files)-al.maxFiles] {
		_ = os.Remove(f)
	}
}

// Close closes the current file.
func (al *AuditLogger) Close() error {
	if al == nil {
		return nil
	}
	al.mu.Lock()
	defer al.mu.Unlock()
	return al.logFile.Close()
}

// LogAuthFailure records a rejected admin token.
func (al *AuditLogger) LogAuthFailure(c *gin.Context, reason string) {
	_ = al.Log(AuditEvent{
		EventType: "authentication",
		Severity:  "warning",
		IPAddress: c.ClientIP(),
		Action:    c.Request.Method + " " + c.Request.URL.Path,
		Status:    "failure",
		Details:   map[string]interface{}{"reason": reason},
		RequestID: c.GetString("request_id"),
	})
}

// LogAdminAction records the outcome of an admin operation. A nil err
// means the change was committed at height.
func (al *AuditLogger) LogAdminAction(c *gin.Context, admin, action string, details map[string]interface{}, height int64, err error) {
	event := AuditEvent{
		EventType: "admin_action",
		Severity:  "critical",
		Admin:     admin,
		IPAddress: c.ClientIP(),
		Action:    action,
		Status:    "success",
		Details:   details,
		RequestID: c.GetString("request_id"),
	}
	if err != nil {
		event.Severity = "warning"
		event.Status = "failure"
		if event.Details == nil {
			event.Details = map[string]interface{}{}
		}
		event.Details["error"] = err.Error()
	} else {
		event.BlockHeight = height
	}
	_ = al.Log(event)
}
