package domain

// EventType classifies security events.
type EventType string

const (
	EventSessionCreated        EventType = "session_created"
	EventSessionAccessed       EventType = "session_accessed"
	EventSessionAccessDenied   EventType = "session_access_denied"
	EventSessionLocked         EventType = "session_locked"
	EventSessionDeleted        EventType = "session_deleted"
	EventMessagesExported      EventType = "messages_exported"
	EventArchiveCreated        EventType = "archive_created"
	EventArchiveDelivered      EventType = "archive_delivered"
	EventArchiveDeliveryFailed EventType = "archive_delivery_failed"
	EventMessagesWiped         EventType = "messages_wiped"
	EventMessageVerified       EventType = "message_verified"
)

// SecurityEvent is one append-only audit record. Events are created by
// every hardened-session state transition and every verification attempt,
// and are never deleted or mutated.
type SecurityEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
	Subject   Identity  `json:"subject,omitempty"`
	Details   string    `json:"details,omitempty"`
	Timestamp int64     `json:"timestamp"`
}
