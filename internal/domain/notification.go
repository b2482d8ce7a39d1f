package domain

import (
	"errors"
	"time"
)

// ErrNotificationNotFound indicates that the notification is not found.
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationKind enumerates the notification feed entry kinds.
type NotificationKind string

// Notification kinds.
const (
	NotificationProjectAssigned  NotificationKind = "project_assigned"
	NotificationProjectCompleted NotificationKind = "project_completed"
	NotificationMessage          NotificationKind = "message"
	NotificationStatusChange     NotificationKind = "status_change"
)

// Notification is an append-only per-user feed entry. Only the read flag
// mutates after creation.
type Notification struct {
	ID        int64            `json:"id"`
	Username  string           `json:"username"`
	Kind      NotificationKind `json:"kind"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	ProjectID int64            `json:"project_id,omitempty"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}

// CreateNotificationParams is the input data to append a notification.
type CreateNotificationParams struct {
	Username  string           `json:"username"`
	Kind      NotificationKind `json:"kind"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	ProjectID int64            `json:"project_id,omitempty"`
}
