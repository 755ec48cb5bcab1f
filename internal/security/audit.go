package security

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// auditCapacity is the maximum number of events kept in memory; the oldest
// are evicted first.
const auditCapacity = 1000

// EventKind classifies a security-relevant occurrence.
type EventKind string

const (
	EventLogin         EventKind = "login"
	EventLogout        EventKind = "logout"
	EventRegister      EventKind = "register"
	EventFailedLogin   EventKind = "failed_login"
	EventAccountLocked EventKind = "account_locked"
)

// AuditEvent is one immutable record in the audit log.
type AuditEvent struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Kind      EventKind         `json:"event"`
	UserID    string            `json:"user_id,omitempty"`
	Handle    string            `json:"handle,omitempty"`
	Email     string            `json:"email,omitempty"`
	IPAddress string            `json:"ip_address"`
	UserAgent string            `json:"user_agent,omitempty"`
	Success   bool              `json:"success"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// AuditLog is a bounded in-memory ring of security events, retrieved newest
// first. It is not persisted: a restart loses history. That is acceptable
// only because this log is operational, not a compliance record.
type AuditLog struct {
	mu     sync.Mutex
	events []AuditEvent // ring buffer
	next   int          // next write position
	size   int          // number of valid events
	logger *slog.Logger
}

// NewAuditLog returns an empty audit log. The logger may be nil to disable
// the slog echo of appended events.
func NewAuditLog(logger *slog.Logger) *AuditLog {
	return &AuditLog{
		events: make([]AuditEvent, auditCapacity),
		logger: logger,
	}
}

// Append records an event, filling in its synthetic ID and timestamp. When
// the log is full the oldest event is overwritten.
func (l *AuditLog) Append(event AuditEvent) {
	event.ID = "audit_" + uuid.NewString()
	event.Timestamp = time.Now().UTC()

	l.mu.Lock()
	l.events[l.next] = event
	l.next = (l.next + 1) % auditCapacity
	if l.size < auditCapacity {
		l.size++
	}
	l.mu.Unlock()

	if l.logger != nil {
		l.logger.Info("audit event",
			slog.String("event", string(event.Kind)),
			slog.String("handle", event.Handle),
			slog.String("ip", event.IPAddress),
			slog.Bool("success", event.Success),
		)
	}
}

// Recent returns up to limit events, most recent first.
func (l *AuditLog) Recent(limit int) []AuditEvent {
	return l.collect(limit, func(AuditEvent) bool { return true })
}

// ForUser returns up to limit events for the given user ID, most recent first.
func (l *AuditLog) ForUser(userID string, limit int) []AuditEvent {
	return l.collect(limit, func(e AuditEvent) bool { return e.UserID == userID })
}

func (l *AuditLog) collect(limit int, keep func(AuditEvent) bool) []AuditEvent {
	if limit <= 0 {
		limit = 50
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]AuditEvent, 0, limit)
	for i := 0; i < l.size && len(out) < limit; i++ {
		// Walk backwards from the newest entry.
		idx := (l.next - 1 - i + auditCapacity) % auditCapacity
		if keep(l.events[idx]) {
			out = append(out, l.events[idx])
		}
	}
	return out
}

// Size returns the number of retained events.
func (l *AuditLog) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.size
}
