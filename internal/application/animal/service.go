package animal

import (
	"context"
	"fmt"
	"time"

	"github.com/herdtrack-api/internal/domain"
	"github.com/herdtrack-api/internal/pkg/id"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldName         = "name"
	fieldBreed        = "breed"
	fieldWeightKg     = "weight_kg"
	fieldHealthStatus = "health_status"
	fieldNotes        = "notes"
)

type Service interface {
	Create(ctx context.Context, ownerID string, req domain.CreateAnimalRequest) (*domain.Animal, error)
	Get(ctx context.Context, animalID, actorID, actorRole string) (*domain.Animal, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Animal, error)
	Update(ctx context.Context, animalID, actorID, actorRole string, req domain.UpdateAnimalRequest) (*domain.Animal, error)
	Delete(ctx context.Context, animalID, actorID, actorRole string) error
}

type animalStore interface {
	Put(ctx context.Context, a *domain.Animal) error
	Get(ctx context.Context, animalID string) (*domain.Animal, error)
	GetByTagNumber(ctx context.Context, tagNumber string) (*domain.Animal, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Animal, error)
	Update(ctx context.Context, animalID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, animalID string) error
}

type service struct {
	repo animalStore
}

func NewService(repo animalStore) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, ownerID string, req domain.CreateAnimalRequest) (*domain.Animal, error) {
	if _, err := s.repo.GetByTagNumber(ctx, req.TagNumber); err == nil {
		return nil, fmt.Errorf("tag number already registered: %w", domain.ErrConflict)
	}
	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return nil, fmt.Errorf("date_of_birth must be in YYYY-MM-DD format: %w", domain.ErrBadRequest)
	}
	status := req.HealthStatus
	if status == "" {
		status = domain.HealthStatusHealthy
	}
	now := time.Now().UTC()
	a := &domain.Animal{
		AnimalID:     id.New(),
		TagNumber:    req.TagNumber,
		Name:         req.Name,
		Species:      req.Species,
		Breed:        req.Breed,
		DateOfBirth:  dob,
		Gender:       req.Gender,
		WeightKg:     req.WeightKg,
		HealthStatus: status,
		Notes:        req.Notes,
		OwnerID:      ownerID,
		Enable:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Put(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) Get(ctx context.Context, animalID, actorID, actorRole string) (*domain.Animal, error) {
	a, err := s.repo.Get(ctx, animalID)
	if err != nil {
		return nil, err
	}
	if err := authorize(a, actorID, actorRole); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) ListByOwner(ctx context.Context, ownerID string) ([]domain.Animal, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *service) Update(ctx context.Context, animalID, actorID, actorRole string, req domain.UpdateAnimalRequest) (*domain.Animal, error) {
	a, err := s.repo.Get(ctx, animalID)
	if err != nil {
		return nil, err
	}
	if err := authorize(a, actorID, actorRole); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates[fieldName] = *req.Name
	}
	if req.Breed != nil {
		updates[fieldBreed] = *req.Breed
	}
	if req.WeightKg != nil {
		updates[fieldWeightKg] = *req.WeightKg
	}
	if req.HealthStatus != nil {
		updates[fieldHealthStatus] = *req.HealthStatus
	}
	if req.Notes != nil {
		updates[fieldNotes] = *req.Notes
	}
	if len(updates) == 0 {
		return a, nil
	}
	if err := s.repo.Update(ctx, animalID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, animalID)
}

func (s *service) Delete(ctx context.Context, animalID, actorID, actorRole string) error {
	a, err := s.repo.Get(ctx, animalID)
	if err != nil {
		return err
	}
	if err := authorize(a, actorID, actorRole); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, animalID)
}

// authorize allows the owner, veterinarians and admins through. Other users'
// herds are invisible to each other.
func authorize(a *domain.Animal, actorID, actorRole string) error {
	if a.OwnerID == actorID {
		return nil
	}
	if actorRole == domain.RoleAdmin || actorRole == domain.RoleVeterinarian {
		return nil
	}
	return fmt.Errorf("animal belongs to another owner: %w", domain.ErrForbidden)
}
