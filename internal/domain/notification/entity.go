package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeLeaveApproval  NotificationType = "LEAVE_APPROVAL"
	TypeLeaveRejection NotificationType = "LEAVE_REJECTION"
	TypeAttendance     NotificationType = "ATTENDANCE"
	TypeSystem         NotificationType = "SYSTEM"
)

// EventNewNotification is the real-time event name used for every delivery.
const EventNewNotification = "new-notification"

// AllNotificationTypes returns all available notification types
func AllNotificationTypes() []NotificationType {
	return []NotificationType{
		TypeLeaveApproval,
		TypeLeaveRejection,
		TypeAttendance,
		TypeSystem,
	}
}

// Notification represents a notification entity. RelatedID is a weak
// reference to the record that triggered it.
type Notification struct {
	ID        string
	UserID    string
	Title     string
	Message   string
	Type      NotificationType
	RelatedID *string
	IsRead    bool
	Metadata  map[string]interface{}
	CreatedAt time.Time
	UpdatedAt time.Time
}
