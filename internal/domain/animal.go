package domain

import "time"

// Animal health statuses.
const (
	HealthStatusHealthy        = "healthy"
	HealthStatusSick           = "sick"
	HealthStatusUnderTreatment = "under_treatment"
	HealthStatusQuarantined    = "quarantined"
)

type Animal struct {
	AnimalID     string     `json:"id" dynamodbav:"animal_id"`
	TagNumber    string     `json:"tag_number" dynamodbav:"tag_number"`
	Name         string     `json:"name" dynamodbav:"name"`
	Species      string     `json:"species" dynamodbav:"species"`
	Breed        string     `json:"breed" dynamodbav:"breed"`
	DateOfBirth  time.Time  `json:"date_of_birth" dynamodbav:"date_of_birth"`
	Gender       string     `json:"gender" dynamodbav:"gender"`
	WeightKg     float64    `json:"weight_kg" dynamodbav:"weight_kg"`
	HealthStatus string     `json:"health_status" dynamodbav:"health_status"`
	Notes        string     `json:"notes,omitempty" dynamodbav:"notes"`
	OwnerID      string     `json:"owner_id" dynamodbav:"owner_id"`
	Enable       bool       `json:"enable" dynamodbav:"enable"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty" dynamodbav:"deleted_at"`
	CreatedAt    time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time  `json:"updated" dynamodbav:"updated_at"`
}

// AgeInMonths returns the animal's age in whole months at the given time.
func (a *Animal) AgeInMonths(now time.Time) int {
	months := (now.Year()-a.DateOfBirth.Year())*12 + int(now.Month()) - int(a.DateOfBirth.Month())
	if now.Day() < a.DateOfBirth.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

type CreateAnimalRequest struct {
	TagNumber    string  `json:"tag_number" validate:"required"`
	Name         string  `json:"name" validate:"required"`
	Species      string  `json:"species" validate:"required,oneof=cattle sheep goats pigs poultry"`
	Breed        string  `json:"breed" validate:"required"`
	DateOfBirth  string  `json:"date_of_birth" validate:"required"` // YYYY-MM-DD
	Gender       string  `json:"gender" validate:"required,oneof=male female"`
	WeightKg     float64 `json:"weight_kg" validate:"required,gt=0"`
	HealthStatus string  `json:"health_status" validate:"omitempty,oneof=healthy sick under_treatment quarantined"`
	Notes        string  `json:"notes"`
}

type UpdateAnimalRequest struct {
	Name         *string  `json:"name"`
	Breed        *string  `json:"breed"`
	WeightKg     *float64 `json:"weight_kg" validate:"omitempty,gt=0"`
	HealthStatus *string  `json:"health_status" validate:"omitempty,oneof=healthy sick under_treatment quarantined"`
	Notes        *string  `json:"notes"`
}
