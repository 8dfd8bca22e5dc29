package domain

import "time"

// Vaccination record statuses.
const (
	VaccinationStatusScheduled = "scheduled"
	VaccinationStatusCompleted = "completed"
	VaccinationStatusMissed    = "missed"
	VaccinationStatusCancelled = "cancelled"
)

// Vaccination is one administered (or scheduled) dose for one animal.
// OwnerID is denormalized from the animal so recipient-scoped due-date
// queries never need a join. Records are written only through the animal
// aggregate service; the scheduler treats them as read-only input.
type Vaccination struct {
	VaccinationID    string    `json:"id" dynamodbav:"vaccination_id"`
	AnimalID         string    `json:"animal_id" dynamodbav:"animal_id"`
	OwnerID          string    `json:"owner_id" dynamodbav:"owner_id"`
	VaccineID        string    `json:"vaccine_id" dynamodbav:"vaccine_id"`
	VaccineName      string    `json:"vaccine_name" dynamodbav:"vaccine_name"`
	AdministeredDate time.Time `json:"administered_date" dynamodbav:"administered_date"`
	NextDueDate      time.Time `json:"next_due_date" dynamodbav:"next_due_date"`
	BatchNumber      string    `json:"batch_number" dynamodbav:"batch_number"`
	Dosage           Dosage    `json:"dosage" dynamodbav:"dosage"`
	Route            string    `json:"route" dynamodbav:"route"`
	Site             string    `json:"site" dynamodbav:"site"`
	AdministeredBy   string    `json:"administered_by" dynamodbav:"administered_by"`
	AdverseReactions string    `json:"adverse_reactions,omitempty" dynamodbav:"adverse_reactions"`
	Notes            string    `json:"notes,omitempty" dynamodbav:"notes"`
	Status           string    `json:"status" dynamodbav:"status"`
	CreatedAt        time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt        time.Time `json:"updated" dynamodbav:"updated_at"`
}

type CreateVaccinationRequest struct {
	VaccineID        string  `json:"vaccine_id" validate:"required"`
	AdministeredDate string  `json:"administered_date" validate:"required"` // YYYY-MM-DD
	NextDueDate      string  `json:"next_due_date"`                        // YYYY-MM-DD; derived from the vaccine plan when empty
	BatchNumber      string  `json:"batch_number" validate:"required"`
	Dosage           Dosage  `json:"dosage"`
	Route            string  `json:"route" validate:"required,oneof=intramuscular subcutaneous intravenous oral intranasal"`
	Site             string  `json:"site" validate:"required"`
	AdverseReactions string  `json:"adverse_reactions"`
	Notes            string  `json:"notes"`
	Status           *string `json:"status" validate:"omitempty,oneof=scheduled completed missed cancelled"`
}

type UpdateVaccinationRequest struct {
	AdministeredDate *string `json:"administered_date"`
	NextDueDate      *string `json:"next_due_date"`
	BatchNumber      *string `json:"batch_number"`
	AdverseReactions *string `json:"adverse_reactions"`
	Notes            *string `json:"notes"`
	Status           *string `json:"status" validate:"omitempty,oneof=scheduled completed missed cancelled"`
}
