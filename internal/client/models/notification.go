package models

import "time"

type NotificationType string

const (
	NotifySystem    NotificationType = "system"
	NotifyMaterial  NotificationType = "material"
	NotifyCommittee NotificationType = "committee"
	NotifyReport    NotificationType = "report"
)

type NotificationStatus string

const (
	NotificationUnread NotificationStatus = "unread"
	NotificationRead   NotificationStatus = "read"
)

type Notification struct {
	ID        int64              `json:"id"`
	UserID    int64              `json:"user_id"`
	Type      NotificationType   `json:"type"`
	Title     string             `json:"title"`
	Content   string             `json:"content"`
	Status    NotificationStatus `json:"status"`
	Link      string             `json:"link,omitempty"`
	ReadAt    *time.Time         `json:"read_at,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

func (n Notification) EntityID() int64 { return n.ID }

func (n Notification) Unread() bool { return n.Status == NotificationUnread }
