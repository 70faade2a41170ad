package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	NotificationWateringDue          NotificationType = "watering_due"
	NotificationWateringOverdue      NotificationType = "watering_overdue"
	NotificationFertilizationDue     NotificationType = "fertilization_due"
	NotificationFertilizationOverdue NotificationType = "fertilization_overdue"
	NotificationTreatmentReminder    NotificationType = "treatment_reminder"
)

// Notification is an in-app message created by the notification sweep.
// Day is the sweep date (YYYY-MM-DD) the notification was raised for; at
// most one notification per (PlantID, Type, Day) exists.
type Notification struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Type      NotificationType    `bson:"type" json:"type"`
	Title     string              `bson:"title" json:"title"`
	Message   string              `bson:"message" json:"message"`
	PlantID   *primitive.ObjectID `bson:"plantId,omitempty" json:"plantId,omitempty"`
	PlantName string              `bson:"plantName,omitempty" json:"plantName,omitempty"`
	Day       string              `bson:"day" json:"-"`
	IsRead    bool                `bson:"isRead" json:"isRead"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	ReadAt    *time.Time          `bson:"readAt,omitempty" json:"readAt,omitempty"`
}

// NotificationStats summarizes the notification inbox.
type NotificationStats struct {
	Total  int64 `json:"total"`
	Unread int64 `json:"unread"`
}
