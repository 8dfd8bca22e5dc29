package domain

import "time"

// Vaccine catalog statuses.
const (
	VaccineStatusActive       = "active"
	VaccineStatusDiscontinued = "discontinued"
	VaccineStatusRecalled     = "recalled"
)

// BoosterInterval describes how long after an administered dose the next
// dose comes due.
type BoosterInterval struct {
	Value int    `json:"value" dynamodbav:"value" validate:"required,gt=0"`
	Unit  string `json:"unit" dynamodbav:"unit" validate:"required,oneof=weeks months years"`
}

type Dosage struct {
	Amount float64 `json:"amount" dynamodbav:"amount"`
	Unit   string  `json:"unit" dynamodbav:"unit"` // ml | cc | dose
}

// Vaccine is an admin-managed catalog entry describing a product and its
// dosing plan.
type Vaccine struct {
	VaccineID       string          `json:"id" dynamodbav:"vaccine_id"`
	Name            string          `json:"name" dynamodbav:"name"`
	Manufacturer    string          `json:"manufacturer" dynamodbav:"manufacturer"`
	Description     string          `json:"description" dynamodbav:"description"`
	Type            string          `json:"type" dynamodbav:"type"`
	TargetSpecies   []string        `json:"target_species" dynamodbav:"target_species"`
	Dosage          Dosage          `json:"dosage" dynamodbav:"dosage"`
	Route           string          `json:"route" dynamodbav:"route"`
	BoosterInterval BoosterInterval `json:"booster_interval" dynamodbav:"booster_interval"`
	TotalDoses      int             `json:"total_doses" dynamodbav:"total_doses"`
	Status          string          `json:"status" dynamodbav:"status"`
	CreatedAt       time.Time       `json:"created" dynamodbav:"created_at"`
	UpdatedAt       time.Time       `json:"updated" dynamodbav:"updated_at"`
}

type CreateVaccineRequest struct {
	Name            string          `json:"name" validate:"required"`
	Manufacturer    string          `json:"manufacturer" validate:"required"`
	Description     string          `json:"description" validate:"required"`
	Type            string          `json:"type" validate:"required,oneof=live inactivated subunit toxoid conjugate"`
	TargetSpecies   []string        `json:"target_species" validate:"required,min=1,dive,oneof=cattle sheep goats pigs poultry"`
	Dosage          Dosage          `json:"dosage"`
	Route           string          `json:"route" validate:"required,oneof=intramuscular subcutaneous oral intranasal"`
	BoosterInterval BoosterInterval `json:"booster_interval" validate:"required"`
	TotalDoses      int             `json:"total_doses" validate:"omitempty,gt=0"`
}

type UpdateVaccineRequest struct {
	Description     *string          `json:"description"`
	Dosage          *Dosage          `json:"dosage"`
	BoosterInterval *BoosterInterval `json:"booster_interval"`
	Status          *string          `json:"status" validate:"omitempty,oneof=active discontinued recalled"`
}
