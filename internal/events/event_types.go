package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAdminCreated           EventType = "admin_created"
	EventAdminRemoved           EventType = "admin_removed"
	EventPasswordResetRequested EventType = "password_reset_requested"
	EventPasswordReset          EventType = "password_reset"
	EventPasswordChanged        EventType = "password_changed"
	EventSettingsUpdated        EventType = "settings_updated"
	EventPostCreated            EventType = "post_created"
	EventPostUpdated            EventType = "post_updated"
	EventPostDeleted            EventType = "post_deleted"
	EventPageUpdated            EventType = "page_updated"
	EventPageDeleted            EventType = "page_deleted"
	EventMessageReceived        EventType = "message_received"
)

// Actor identifies the admin that caused an event, when known.
type Actor struct {
	AdminID *string `json:"admin_id,omitempty"`
}

// Event represents a domain event emitted by services.
// Payloads never carry passwords, hashes or reset tokens.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	AdminID   string      `json:"admin_id,omitempty"`
	Email     string      `json:"email,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// SettingsUpdatedPayload lists the fields a settings update touched.
type SettingsUpdatedPayload struct {
	Fields []string `json:"fields"`
}

// ContentPayload identifies the post or page an event refers to.
type ContentPayload struct {
	ID     string `json:"id"`
	Slug   string `json:"slug,omitempty"`
	Status string `json:"status,omitempty"`
}

// MessageReceivedPayload describes a new contact message without its body.
type MessageReceivedPayload struct {
	MessageID string `json:"message_id"`
	Name      string `json:"name"`
}
