package notificationdomain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Severity tags how a notification is presented.
type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeveritySuccess Severity = "SUCCESS"
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)

// IsValid checks if the severity is a known value.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityInfo, SeveritySuccess, SeverityWarning, SeverityError:
		return true
	}
	return false
}

// ParseSeverity accepts any casing and falls back to INFO.
func ParseSeverity(s string) Severity {
	sev := Severity(strings.ToUpper(strings.TrimSpace(s)))
	if !sev.IsValid() {
		return SeverityInfo
	}
	return sev
}

// TopicNotificationCreatedV1 is published once a notification is stored.
const TopicNotificationCreatedV1 = "notification.created.v1"

// MetadataUserID carries the recipient on bus messages so streams can filter
// without decoding the payload.
const MetadataUserID = "user_id"

// NotificationCreatedPayloadV1 is the body of notification.created.v1.
type NotificationCreatedPayloadV1 struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Severity  Severity  `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
}
