package domain

import "time"

// Notification types.
const (
	NotificationVaccinationDue     = "vaccination_due"
	NotificationVaccinationOverdue = "vaccination_overdue"
	NotificationHealthAlert        = "health_alert"
	NotificationAppointment        = "appointment_reminder"
	NotificationSystemAlert        = "system_alert"
	NotificationSubscription       = "subscription_update"
)

// Notification priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Notification statuses.
const (
	NotificationPending   = "pending"
	NotificationSent      = "sent"
	NotificationFailed    = "failed"
	NotificationCancelled = "cancelled"
)

// ChannelDelivery is the outcome slot for a single channel attempt.
// Sent=false with a nil SentAt and empty Error means the channel was never
// attempted (disabled by the recipient's preferences).
type ChannelDelivery struct {
	Sent   bool       `json:"sent" dynamodbav:"sent"`
	SentAt *time.Time `json:"sent_at,omitempty" dynamodbav:"sent_at"`
	Error  string     `json:"error,omitempty" dynamodbav:"error"`
}

// DeliveryStatus has one fixed slot per known channel so the compiler
// enforces the channel set.
type DeliveryStatus struct {
	Email ChannelDelivery `json:"email" dynamodbav:"email"`
	SMS   ChannelDelivery `json:"sms" dynamodbav:"sms"`
	Push  ChannelDelivery `json:"push" dynamodbav:"push"`
}

type Notification struct {
	NotificationID string         `json:"id" dynamodbav:"notification_id"`
	RecipientID    string         `json:"recipient_id" dynamodbav:"recipient_id"`
	Type           string         `json:"type" dynamodbav:"type"`
	Title          string         `json:"title" dynamodbav:"title"`
	Message        string         `json:"message" dynamodbav:"message"`
	Priority       string         `json:"priority" dynamodbav:"priority"`
	RelatedAnimal  *string        `json:"related_animal,omitempty" dynamodbav:"related_animal"`
	RelatedVaccine *string        `json:"related_vaccine,omitempty" dynamodbav:"related_vaccine"`
	ScheduledFor   time.Time      `json:"scheduled_for" dynamodbav:"scheduled_for"`
	Status         string         `json:"status" dynamodbav:"status"`
	Delivery       DeliveryStatus `json:"delivery_status" dynamodbav:"delivery_status"`
	Read           bool           `json:"read" dynamodbav:"read"`
	ReadAt         *time.Time     `json:"read_at,omitempty" dynamodbav:"read_at"`
	CreatedAt      time.Time      `json:"created" dynamodbav:"created_at"`
	UpdatedAt      time.Time      `json:"updated" dynamodbav:"updated_at"`
}

type CreateNotificationRequest struct {
	Type           string  `json:"type" validate:"required,oneof=vaccination_due vaccination_overdue health_alert appointment_reminder system_alert subscription_update"`
	Title          string  `json:"title" validate:"required"`
	Message        string  `json:"message" validate:"required"`
	Priority       string  `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	RelatedAnimal  *string `json:"related_animal"`
	RelatedVaccine *string `json:"related_vaccine"`
	ScheduledFor   string  `json:"scheduled_for" validate:"required"` // RFC 3339 or YYYY-MM-DD
}

type VaccinationReminderRequest struct {
	AnimalID  string `json:"animal_id" validate:"required"`
	VaccineID string `json:"vaccine_id" validate:"required"`
	DueDate   string `json:"due_date" validate:"required"` // YYYY-MM-DD
}
