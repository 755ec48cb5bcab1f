package security

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuditLogNewestFirst(t *testing.T) {
	log := NewAuditLog(nil)

	log.Append(AuditEvent{Kind: EventFailedLogin, Handle: "@alice", IPAddress: "1.2.3.4"})
	log.Append(AuditEvent{Kind: EventLogin, Handle: "@alice", IPAddress: "1.2.3.4", Success: true})

	events := log.Recent(10)
	assert.Len(t, events, 2)
	assert.Equal(t, EventLogin, events[0].Kind)
	assert.Equal(t, EventFailedLogin, events[1].Kind)
	assert.NotEmpty(t, events[0].ID)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestAuditLogCapacityEvictsOldest(t *testing.T) {
	log := NewAuditLog(nil)

	for i := 0; i < auditCapacity+100; i++ {
		log.Append(AuditEvent{Kind: EventLogin, Handle: fmt.Sprintf("@user%d", i)})
	}

	assert.Equal(t, auditCapacity, log.Size())

	events := log.Recent(auditCapacity)
	assert.Len(t, events, auditCapacity)
	assert.Equal(t, fmt.Sprintf("@user%d", auditCapacity+99), events[0].Handle)
	assert.Equal(t, "@user100", events[len(events)-1].Handle, "first 100 events evicted")
}

func TestAuditLogRecentLimit(t *testing.T) {
	log := NewAuditLog(nil)

	for i := 0; i < 20; i++ {
		log.Append(AuditEvent{Kind: EventLogout})
	}

	assert.Len(t, log.Recent(5), 5)
	assert.Len(t, log.Recent(0), 20, "non-positive limit falls back to the default")
}

func TestAuditLogForUser(t *testing.T) {
	log := NewAuditLog(nil)

	log.Append(AuditEvent{Kind: EventRegister, UserID: "u1", Success: true})
	log.Append(AuditEvent{Kind: EventLogin, UserID: "u2", Success: true})
	log.Append(AuditEvent{Kind: EventLogin, UserID: "u1", Success: true})

	events := log.ForUser("u1", 10)
	assert.Len(t, events, 2)
	assert.Equal(t, EventLogin, events[0].Kind)
	assert.Equal(t, EventRegister, events[1].Kind)

	assert.Empty(t, log.ForUser("missing", 10))
}
