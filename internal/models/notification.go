// internal/models/notification.go
package models

// Notification records one readiness alert delivery attempt.
type Notification struct {
	ID        string                 `json:"id"`
	Project   string                 `json:"project"`
	Type      string                 `json:"type"`    // "readiness_degraded"
	Channel   string                 `json:"channel"` // "sns", "ses"
	Status    string                 `json:"status"`  // "sent", "failed", "suppressed"
	Payload   map[string]interface{} `json:"payload"`
	SentAt    string                 `json:"sentAt,omitempty"`
	CreatedAt string                 `json:"createdAt"`
}

type NotificationTemplate struct {
	Type     string `json:"type"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	HTMLBody string `json:"htmlBody,omitempty"`
}

const NotificationTypeReadinessDegraded = "readiness_degraded"

const (
	NotificationStatusSent       = "sent"
	NotificationStatusFailed     = "failed"
	NotificationStatusSuppressed = "suppressed"
)
