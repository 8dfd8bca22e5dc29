package vaccine

import (
	"context"
	"fmt"
	"time"

	"github.com/herdtrack-api/internal/domain"
	"github.com/herdtrack-api/internal/pkg/id"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldDescription     = "description"
	fieldDosage          = "dosage"
	fieldBoosterInterval = "booster_interval"
	fieldStatus          = "status"
)

type Service interface {
	Create(ctx context.Context, req domain.CreateVaccineRequest) (*domain.Vaccine, error)
	Get(ctx context.Context, vaccineID string) (*domain.Vaccine, error)
	List(ctx context.Context) ([]domain.Vaccine, error)
	Update(ctx context.Context, vaccineID string, req domain.UpdateVaccineRequest) (*domain.Vaccine, error)
	Delete(ctx context.Context, vaccineID string) error
}

type vaccineStore interface {
	Put(ctx context.Context, v *domain.Vaccine) error
	Get(ctx context.Context, vaccineID string) (*domain.Vaccine, error)
	Scan(ctx context.Context) ([]domain.Vaccine, error)
	Update(ctx context.Context, vaccineID string, updates map[string]interface{}) error
	HardDelete(ctx context.Context, vaccineID string) error
}

type service struct {
	repo vaccineStore
}

func NewService(repo vaccineStore) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req domain.CreateVaccineRequest) (*domain.Vaccine, error) {
	// The interval drives due-date derivation later, so reject bad plans at
	// catalog entry time instead of at scheduling time.
	if _, err := domain.NextDueDate(time.Now(), req.BoosterInterval); err != nil {
		return nil, err
	}
	totalDoses := req.TotalDoses
	if totalDoses == 0 {
		totalDoses = 1
	}
	now := time.Now().UTC()
	v := &domain.Vaccine{
		VaccineID:       id.New(),
		Name:            req.Name,
		Manufacturer:    req.Manufacturer,
		Description:     req.Description,
		Type:            req.Type,
		TargetSpecies:   req.TargetSpecies,
		Dosage:          req.Dosage,
		Route:           req.Route,
		BoosterInterval: req.BoosterInterval,
		TotalDoses:      totalDoses,
		Status:          domain.VaccineStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Put(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *service) Get(ctx context.Context, vaccineID string) (*domain.Vaccine, error) {
	return s.repo.Get(ctx, vaccineID)
}

func (s *service) List(ctx context.Context) ([]domain.Vaccine, error) {
	return s.repo.Scan(ctx)
}

func (s *service) Update(ctx context.Context, vaccineID string, req domain.UpdateVaccineRequest) (*domain.Vaccine, error) {
	updates := map[string]interface{}{}
	if req.Description != nil {
		updates[fieldDescription] = *req.Description
	}
	if req.Dosage != nil {
		updates[fieldDosage] = *req.Dosage
	}
	if req.BoosterInterval != nil {
		if _, err := domain.NextDueDate(time.Now(), *req.BoosterInterval); err != nil {
			return nil, err
		}
		updates[fieldBoosterInterval] = *req.BoosterInterval
	}
	if req.Status != nil {
		updates[fieldStatus] = *req.Status
	}
	if len(updates) == 0 {
		return s.repo.Get(ctx, vaccineID)
	}
	if err := s.repo.Update(ctx, vaccineID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, vaccineID)
}

func (s *service) Delete(ctx context.Context, vaccineID string) error {
	v, err := s.repo.Get(ctx, vaccineID)
	if err != nil {
		return err
	}
	if v.Status == domain.VaccineStatusActive {
		return fmt.Errorf("active vaccine must be discontinued before deletion: %w", domain.ErrConflict)
	}
	return s.repo.HardDelete(ctx, vaccineID)
}
