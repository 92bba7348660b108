package dto

import "time"

// AuditEvent is the wire shape published to the audit stream and persisted to
// the audit_logs table.
type AuditEvent struct {
	Action    string         `json:"action"`
	Entity    string         `json:"entity"`
	EntityID  uint           `json:"entity_id"`
	UserID    uint           `json:"user_id,omitempty"`
	TenantID  uint           `json:"tenant_id,omitempty"`
	IP        string         `json:"ip,omitempty"`
	UserAgent string         `json:"user_agent,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}
