package domain

import (
	"fmt"
	"time"
)

// Schedule classification statuses.
const (
	ScheduleOverdue  = "overdue"
	ScheduleUpcoming = "upcoming"
)

// ScheduleEntry is the derived, non-persisted view of one vaccination
// sub-record's position in the dosing plan.
type ScheduleEntry struct {
	VaccineID   string    `json:"vaccine_id"`
	VaccineName string    `json:"vaccine_name"`
	LastDate    time.Time `json:"last_date"`
	NextDueDate time.Time `json:"next_due_date"`
	Status      string    `json:"status"`
}

// Classify reports whether a due date is overdue or upcoming at the given
// instant. Strict less-than: a record due exactly now is still upcoming.
// A zero nextDue is rejected; callers must not classify records without a
// due date.
func Classify(nextDue, now time.Time) (string, error) {
	if nextDue.IsZero() {
		return "", fmt.Errorf("vaccination record has no next due date: %w", ErrBadRequest)
	}
	if nextDue.Before(now) {
		return ScheduleOverdue, nil
	}
	return ScheduleUpcoming, nil
}

// NextDueDate derives the next due date from an administered date and the
// vaccine's booster interval.
func NextDueDate(administered time.Time, iv BoosterInterval) (time.Time, error) {
	if iv.Value <= 0 {
		return time.Time{}, fmt.Errorf("booster interval must be positive: %w", ErrBadRequest)
	}
	switch iv.Unit {
	case "weeks":
		return administered.AddDate(0, 0, 7*iv.Value), nil
	case "months":
		return administered.AddDate(0, iv.Value, 0), nil
	case "years":
		return administered.AddDate(iv.Value, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("unknown booster interval unit %q: %w", iv.Unit, ErrBadRequest)
	}
}
