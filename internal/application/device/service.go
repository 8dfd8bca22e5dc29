package device

import (
	"context"
	"fmt"

	"github.com/herdtrack-api/internal/domain"
)

type Service interface {
	List(ctx context.Context, userID string) ([]domain.Device, error)
	Get(ctx context.Context, deviceID, actorID string) (*domain.Device, error)
	// RegisterPushToken stores the device's push token and registers it as an
	// SNS platform endpoint, making the device a push-channel target.
	RegisterPushToken(ctx context.Context, deviceID, actorID, pushToken string) (*domain.Device, error)
	Delete(ctx context.Context, deviceID, actorID string) error
}

type deviceStore interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Device, error)
	Get(ctx context.Context, deviceID string) (*domain.Device, error)
	Update(ctx context.Context, deviceID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, deviceID string) error
}

type endpointRegistrar interface {
	RegisterEndpoint(ctx context.Context, pushToken string) (string, error)
}

type service struct {
	repo      deviceStore
	registrar endpointRegistrar
}

func NewService(repo deviceStore, registrar endpointRegistrar) Service {
	return &service{repo: repo, registrar: registrar}
}

func (s *service) List(ctx context.Context, userID string) ([]domain.Device, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Get(ctx context.Context, deviceID, actorID string) (*domain.Device, error) {
	d, err := s.repo.Get(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if d.UserID != actorID {
		return nil, fmt.Errorf("device belongs to another user: %w", domain.ErrForbidden)
	}
	return d, nil
}

func (s *service) RegisterPushToken(ctx context.Context, deviceID, actorID, pushToken string) (*domain.Device, error) {
	if _, err := s.Get(ctx, deviceID, actorID); err != nil {
		return nil, err
	}
	if s.registrar == nil {
		return nil, fmt.Errorf("push endpoint registration not configured")
	}
	endpointARN, err := s.registrar.RegisterEndpoint(ctx, pushToken)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"push_token":   pushToken,
		"endpoint_arn": endpointARN,
	}
	if err := s.repo.Update(ctx, deviceID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, deviceID)
}

func (s *service) Delete(ctx context.Context, deviceID, actorID string) error {
	if _, err := s.Get(ctx, deviceID, actorID); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, deviceID)
}
