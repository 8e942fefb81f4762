package domain

import "errors"

// Well-known notification types. The set is open-ended: producers may send
// types not listed here and the core passes them through unvalidated.
const (
	NotificationTypeRegistration = "registration"
	NotificationTypeEventUpdate  = "event-update"
	NotificationTypeReminder     = "reminder"
	NotificationTypeAnnouncement = "announcement"
)

const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

var ErrNotificationNotFound = errors.New("notification not found")
