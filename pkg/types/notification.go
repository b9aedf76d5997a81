package types

import (
	"encoding/json"
	"time"
)

type NotificationType string

const (
	NotificationTypeDonation NotificationType = "donation"
	NotificationTypeRequest  NotificationType = "request"
	NotificationTypeSystem   NotificationType = "system"
	NotificationTypeAlert    NotificationType = "alert"
	NotificationTypeMessage  NotificationType = "message"
	NotificationTypeUpdate   NotificationType = "update"
	NotificationTypeReminder NotificationType = "reminder"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationTypeDonation, NotificationTypeRequest, NotificationTypeSystem,
		NotificationTypeAlert, NotificationTypeMessage, NotificationTypeUpdate, NotificationTypeReminder:
		return true
	}
	return false
}

type NotificationStatus string

const (
	NotificationStatusUnread    NotificationStatus = "unread"
	NotificationStatusRead      NotificationStatus = "read"
	NotificationStatusImportant NotificationStatus = "important"
	NotificationStatusArchived  NotificationStatus = "archived"
)

func (s NotificationStatus) Valid() bool {
	switch s {
	case NotificationStatusUnread, NotificationStatusRead, NotificationStatusImportant, NotificationStatusArchived:
		return true
	}
	return false
}

type Notification struct {
	ID          string             `db:"id" json:"id"`
	Type        NotificationType   `db:"type" json:"type"`
	UserType    UserType           `db:"user_type" json:"user_type"`
	RecipientID string             `db:"recipient_id" json:"recipient_id"`
	Status      NotificationStatus `db:"status" json:"status"`
	Message     string             `db:"message" json:"message"`
	Metadata    json.RawMessage    `db:"metadata" json:"metadata"`
	CreatedAt   time.Time          `db:"created_at" json:"created_at"`
}

// DonationID pulls metadata.donation_id, if any.
func (n *Notification) DonationID() string {
	if len(n.Metadata) == 0 {
		return ""
	}
	var meta struct {
		DonationID string `json:"donation_id"`
	}
	if err := json.Unmarshal(n.Metadata, &meta); err != nil {
		return ""
	}
	return meta.DonationID
}

// NotificationFilter is an equality filter; zero fields are ignored.
type NotificationFilter struct {
	ID          string
	Type        NotificationType
	UserType    UserType
	RecipientID string
	Status      NotificationStatus
}
