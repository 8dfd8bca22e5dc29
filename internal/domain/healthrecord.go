package domain

import "time"

// Health record statuses.
const (
	HealthRecordStatusActive   = "active"
	HealthRecordStatusResolved = "resolved"
	HealthRecordStatusOngoing  = "ongoing"
	HealthRecordStatusReferred = "referred"
)

type Medication struct {
	Name      string `json:"name" dynamodbav:"name" validate:"required"`
	Dosage    Dosage `json:"dosage" dynamodbav:"dosage"`
	Frequency string `json:"frequency" dynamodbav:"frequency"`
	Duration  string `json:"duration" dynamodbav:"duration"`
	Notes     string `json:"notes,omitempty" dynamodbav:"notes"`
}

type VitalSigns struct {
	TemperatureC    float64 `json:"temperature_c" dynamodbav:"temperature_c"`
	HeartRate       int     `json:"heart_rate" dynamodbav:"heart_rate"`
	RespiratoryRate int     `json:"respiratory_rate" dynamodbav:"respiratory_rate"`
	WeightKg        float64 `json:"weight_kg" dynamodbav:"weight_kg"`
}

// HealthRecord is one medical visit for one animal. OwnerID is denormalized
// from the animal, the same way vaccination records carry it.
type HealthRecord struct {
	RecordID     string       `json:"id" dynamodbav:"record_id"`
	AnimalID     string       `json:"animal_id" dynamodbav:"animal_id"`
	OwnerID      string       `json:"owner_id" dynamodbav:"owner_id"`
	Date         time.Time    `json:"date" dynamodbav:"date"`
	RecordType   string       `json:"record_type" dynamodbav:"record_type"`
	Diagnosis    string       `json:"diagnosis" dynamodbav:"diagnosis"`
	Treatment    string       `json:"treatment" dynamodbav:"treatment"`
	Medications  []Medication `json:"medications,omitempty" dynamodbav:"medications"`
	VitalSigns   *VitalSigns  `json:"vital_signs,omitempty" dynamodbav:"vital_signs"`
	Veterinarian string       `json:"veterinarian" dynamodbav:"veterinarian"`
	FollowUpDate *time.Time   `json:"follow_up_date,omitempty" dynamodbav:"follow_up_date"`
	Status       string       `json:"status" dynamodbav:"status"`
	Notes        string       `json:"notes,omitempty" dynamodbav:"notes"`
	CreatedAt    time.Time    `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time    `json:"updated" dynamodbav:"updated_at"`
}

// Attachment is a lab result, image or document tied to a health record.
// The bytes live in S3; this is the metadata document.
type Attachment struct {
	AttachmentID string    `json:"id" dynamodbav:"attachment_id"`
	RecordID     string    `json:"record_id" dynamodbav:"record_id"`
	OwnerID      string    `json:"owner_id" dynamodbav:"owner_id"`
	Type         string    `json:"type" dynamodbav:"type"` // image | document | lab_result
	Object       string    `json:"object" dynamodbav:"object"`
	Name         string    `json:"name" dynamodbav:"name"`
	Size         int64     `json:"size" dynamodbav:"size"`
	Description  string    `json:"description,omitempty" dynamodbav:"description"`
	UploadedAt   time.Time `json:"uploaded_at" dynamodbav:"uploaded_at"`
}

type CreateHealthRecordRequest struct {
	AnimalID     string       `json:"animal_id" validate:"required"`
	Date         string       `json:"date" validate:"required"` // YYYY-MM-DD
	RecordType   string       `json:"record_type" validate:"required,oneof=checkup treatment surgery injury disease other"`
	Diagnosis    string       `json:"diagnosis" validate:"required"`
	Treatment    string       `json:"treatment" validate:"required"`
	Medications  []Medication `json:"medications" validate:"omitempty,dive"`
	VitalSigns   *VitalSigns  `json:"vital_signs"`
	FollowUpDate *string      `json:"follow_up_date"` // YYYY-MM-DD
	Notes        string       `json:"notes"`
}

type UpdateHealthRecordRequest struct {
	Diagnosis    *string     `json:"diagnosis"`
	Treatment    *string     `json:"treatment"`
	VitalSigns   *VitalSigns `json:"vital_signs"`
	FollowUpDate *string     `json:"follow_up_date"`
	Status       *string     `json:"status" validate:"omitempty,oneof=active resolved ongoing referred"`
	Notes        *string     `json:"notes"`
}
