package vaccination

import (
	"context"
	"fmt"
	"time"

	"github.com/herdtrack-api/internal/domain"
	"github.com/herdtrack-api/internal/pkg/id"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldAdministeredDate = "administered_date"
	fieldNextDueDate      = "next_due_date"
	fieldBatchNumber      = "batch_number"
	fieldAdverseReactions = "adverse_reactions"
	fieldNotes            = "notes"
	fieldStatus           = "status"
)

type Service interface {
	Create(ctx context.Context, animalID, actorID, actorRole string, req domain.CreateVaccinationRequest) (*domain.Vaccination, error)
	Get(ctx context.Context, vaccinationID, actorID, actorRole string) (*domain.Vaccination, error)
	ListByAnimal(ctx context.Context, animalID, actorID, actorRole string) ([]domain.Vaccination, error)
	Update(ctx context.Context, vaccinationID, actorID, actorRole string, req domain.UpdateVaccinationRequest) (*domain.Vaccination, error)
	Delete(ctx context.Context, vaccinationID, actorID, actorRole string) error

	ListUpcoming(ctx context.Context, ownerID string) ([]domain.Vaccination, error)
	ListOverdue(ctx context.Context, ownerID string) ([]domain.Vaccination, error)
	Schedule(ctx context.Context, animalID, actorID, actorRole string) ([]domain.ScheduleEntry, error)
}

type vaccinationStore interface {
	Put(ctx context.Context, v *domain.Vaccination) error
	Get(ctx context.Context, vaccinationID string) (*domain.Vaccination, error)
	ListByAnimal(ctx context.Context, animalID string) ([]domain.Vaccination, error)
	ListUpcoming(ctx context.Context, ownerID string, now time.Time) ([]domain.Vaccination, error)
	ListOverdue(ctx context.Context, ownerID string, now time.Time) ([]domain.Vaccination, error)
	Update(ctx context.Context, vaccinationID string, updates map[string]interface{}) error
	HardDelete(ctx context.Context, vaccinationID string) error
}

type animalStore interface {
	Get(ctx context.Context, animalID string) (*domain.Animal, error)
}

type vaccineStore interface {
	Get(ctx context.Context, vaccineID string) (*domain.Vaccine, error)
}

type service struct {
	repo        vaccinationStore
	animalRepo  animalStore
	vaccineRepo vaccineStore
	now         func() time.Time
}

type ServiceDeps struct {
	VaccinationRepo vaccinationStore
	AnimalRepo      animalStore
	VaccineRepo     vaccineStore
	Now             func() time.Time // defaults to time.Now
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:        deps.VaccinationRepo,
		animalRepo:  deps.AnimalRepo,
		vaccineRepo: deps.VaccineRepo,
		now:         now,
	}
}

func (s *service) Create(ctx context.Context, animalID, actorID, actorRole string, req domain.CreateVaccinationRequest) (*domain.Vaccination, error) {
	animal, err := s.authorizedAnimal(ctx, animalID, actorID, actorRole)
	if err != nil {
		return nil, err
	}
	vaccine, err := s.vaccineRepo.Get(ctx, req.VaccineID)
	if err != nil {
		return nil, err
	}
	if vaccine.Status == domain.VaccineStatusRecalled {
		return nil, fmt.Errorf("vaccine has been recalled: %w", domain.ErrConflict)
	}
	administered, err := time.Parse("2006-01-02", req.AdministeredDate)
	if err != nil {
		return nil, fmt.Errorf("administered_date must be in YYYY-MM-DD format: %w", domain.ErrBadRequest)
	}
	var nextDue time.Time
	if req.NextDueDate != "" {
		nextDue, err = time.Parse("2006-01-02", req.NextDueDate)
		if err != nil {
			return nil, fmt.Errorf("next_due_date must be in YYYY-MM-DD format: %w", domain.ErrBadRequest)
		}
	} else {
		nextDue, err = domain.NextDueDate(administered, vaccine.BoosterInterval)
		if err != nil {
			return nil, err
		}
	}
	dosage := req.Dosage
	if dosage.Amount == 0 {
		dosage = vaccine.Dosage
	}
	status := domain.VaccinationStatusCompleted
	if req.Status != nil {
		status = *req.Status
	}
	now := s.now().UTC()
	v := &domain.Vaccination{
		VaccinationID:    id.New(),
		AnimalID:         animal.AnimalID,
		OwnerID:          animal.OwnerID,
		VaccineID:        vaccine.VaccineID,
		VaccineName:      vaccine.Name,
		AdministeredDate: administered,
		NextDueDate:      nextDue,
		BatchNumber:      req.BatchNumber,
		Dosage:           dosage,
		Route:            req.Route,
		Site:             req.Site,
		AdministeredBy:   actorID,
		AdverseReactions: req.AdverseReactions,
		Notes:            req.Notes,
		Status:           status,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Put(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *service) Get(ctx context.Context, vaccinationID, actorID, actorRole string) (*domain.Vaccination, error) {
	v, err := s.repo.Get(ctx, vaccinationID)
	if err != nil {
		return nil, err
	}
	if err := authorize(v.OwnerID, actorID, actorRole); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *service) ListByAnimal(ctx context.Context, animalID, actorID, actorRole string) ([]domain.Vaccination, error) {
	if _, err := s.authorizedAnimal(ctx, animalID, actorID, actorRole); err != nil {
		return nil, err
	}
	return s.repo.ListByAnimal(ctx, animalID)
}

func (s *service) Update(ctx context.Context, vaccinationID, actorID, actorRole string, req domain.UpdateVaccinationRequest) (*domain.Vaccination, error) {
	v, err := s.Get(ctx, vaccinationID, actorID, actorRole)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if req.AdministeredDate != nil {
		t, err := time.Parse("2006-01-02", *req.AdministeredDate)
		if err != nil {
			return nil, fmt.Errorf("administered_date must be in YYYY-MM-DD format: %w", domain.ErrBadRequest)
		}
		updates[fieldAdministeredDate] = t
	}
	if req.NextDueDate != nil {
		t, err := time.Parse("2006-01-02", *req.NextDueDate)
		if err != nil {
			return nil, fmt.Errorf("next_due_date must be in YYYY-MM-DD format: %w", domain.ErrBadRequest)
		}
		updates[fieldNextDueDate] = t
	}
	if req.BatchNumber != nil {
		updates[fieldBatchNumber] = *req.BatchNumber
	}
	if req.AdverseReactions != nil {
		updates[fieldAdverseReactions] = *req.AdverseReactions
	}
	if req.Notes != nil {
		updates[fieldNotes] = *req.Notes
	}
	if req.Status != nil {
		updates[fieldStatus] = *req.Status
	}
	if len(updates) == 0 {
		return v, nil
	}
	if err := s.repo.Update(ctx, vaccinationID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, vaccinationID)
}

func (s *service) Delete(ctx context.Context, vaccinationID, actorID, actorRole string) error {
	if _, err := s.Get(ctx, vaccinationID, actorID, actorRole); err != nil {
		return err
	}
	return s.repo.HardDelete(ctx, vaccinationID)
}

func (s *service) ListUpcoming(ctx context.Context, ownerID string) ([]domain.Vaccination, error) {
	return s.repo.ListUpcoming(ctx, ownerID, s.now())
}

func (s *service) ListOverdue(ctx context.Context, ownerID string) ([]domain.Vaccination, error) {
	return s.repo.ListOverdue(ctx, ownerID, s.now())
}

// Schedule derives the animal's dosing plan: for each vaccine, the latest
// completed dose decides the next due date and its overdue/upcoming status.
// Doses without a due date are left out rather than misclassified.
func (s *service) Schedule(ctx context.Context, animalID, actorID, actorRole string) ([]domain.ScheduleEntry, error) {
	if _, err := s.authorizedAnimal(ctx, animalID, actorID, actorRole); err != nil {
		return nil, err
	}
	records, err := s.repo.ListByAnimal(ctx, animalID)
	if err != nil {
		return nil, err
	}
	latest := map[string]domain.Vaccination{}
	order := []string{}
	for _, v := range records {
		if v.Status != domain.VaccinationStatusCompleted {
			continue
		}
		prev, seen := latest[v.VaccineID]
		if !seen {
			order = append(order, v.VaccineID)
		}
		if !seen || v.AdministeredDate.After(prev.AdministeredDate) {
			latest[v.VaccineID] = v
		}
	}
	now := s.now()
	entries := make([]domain.ScheduleEntry, 0, len(order))
	for _, vaccineID := range order {
		v := latest[vaccineID]
		if v.NextDueDate.IsZero() {
			continue
		}
		status, err := domain.Classify(v.NextDueDate, now)
		if err != nil {
			return nil, err
		}
		entries = append(entries, domain.ScheduleEntry{
			VaccineID:   v.VaccineID,
			VaccineName: v.VaccineName,
			LastDate:    v.AdministeredDate,
			NextDueDate: v.NextDueDate,
			Status:      status,
		})
	}
	return entries, nil
}

func (s *service) authorizedAnimal(ctx context.Context, animalID, actorID, actorRole string) (*domain.Animal, error) {
	a, err := s.animalRepo.Get(ctx, animalID)
	if err != nil {
		return nil, err
	}
	if err := authorize(a.OwnerID, actorID, actorRole); err != nil {
		return nil, err
	}
	return a, nil
}

func authorize(ownerID, actorID, actorRole string) error {
	if ownerID == actorID {
		return nil
	}
	if actorRole == domain.RoleAdmin || actorRole == domain.RoleVeterinarian {
		return nil
	}
	return fmt.Errorf("record belongs to another owner: %w", domain.ErrForbidden)
}
