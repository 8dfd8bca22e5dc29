package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/herdtrack-api/internal/domain"
	"github.com/herdtrack-api/internal/pkg/id"
)

type Service interface {
	Create(ctx context.Context, recipientID string, req domain.CreateNotificationRequest) (*domain.Notification, error)
	CreateVaccinationReminder(ctx context.Context, recipientID string, req domain.VaccinationReminderRequest) (*domain.Notification, error)
	Get(ctx context.Context, notificationID, actorID string) (*domain.Notification, error)
	List(ctx context.Context, recipientID string) ([]domain.Notification, error)
	ListPending(ctx context.Context, recipientID string) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, notificationID, actorID string) (*domain.Notification, error)
	Delete(ctx context.Context, notificationID, actorID string) error
}

type notificationStore interface {
	Put(ctx context.Context, n *domain.Notification) error
	Get(ctx context.Context, notificationID string) (*domain.Notification, error)
	ListByRecipient(ctx context.Context, recipientID string) ([]domain.Notification, error)
	ListPending(ctx context.Context, recipientID string, now time.Time) ([]domain.Notification, error)
	FindPendingReminder(ctx context.Context, recipientID, animalID, vaccineID string, dueDate time.Time) (*domain.Notification, error)
	MarkAsRead(ctx context.Context, notificationID string, readAt time.Time) error
	HardDelete(ctx context.Context, notificationID string) error
}

type animalStore interface {
	Get(ctx context.Context, animalID string) (*domain.Animal, error)
}

type vaccineStore interface {
	Get(ctx context.Context, vaccineID string) (*domain.Vaccine, error)
}

type service struct {
	repo        notificationStore
	animalRepo  animalStore
	vaccineRepo vaccineStore
	now         func() time.Time
}

type ServiceDeps struct {
	NotificationRepo notificationStore
	AnimalRepo       animalStore
	VaccineRepo      vaccineStore
	Now              func() time.Time // defaults to time.Now
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:        deps.NotificationRepo,
		animalRepo:  deps.AnimalRepo,
		vaccineRepo: deps.VaccineRepo,
		now:         now,
	}
}

func (s *service) Create(ctx context.Context, recipientID string, req domain.CreateNotificationRequest) (*domain.Notification, error) {
	scheduledFor, err := parseSchedule(req.ScheduledFor)
	if err != nil {
		return nil, err
	}
	priority := req.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	now := s.now().UTC()
	n := &domain.Notification{
		NotificationID: id.New(),
		RecipientID:    recipientID,
		Type:           req.Type,
		Title:          req.Title,
		Message:        req.Message,
		Priority:       priority,
		RelatedAnimal:  req.RelatedAnimal,
		RelatedVaccine: req.RelatedVaccine,
		ScheduledFor:   scheduledFor,
		Status:         domain.NotificationPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Put(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// CreateVaccinationReminder builds a vaccination_due notification for the
// animal's owner. A second reminder for the same animal, vaccine and due
// date while the first is still pending is a conflict, not a duplicate row.
func (s *service) CreateVaccinationReminder(ctx context.Context, recipientID string, req domain.VaccinationReminderRequest) (*domain.Notification, error) {
	animal, err := s.animalRepo.Get(ctx, req.AnimalID)
	if err != nil {
		return nil, err
	}
	if animal.OwnerID != recipientID {
		return nil, fmt.Errorf("animal belongs to another owner: %w", domain.ErrForbidden)
	}
	vaccine, err := s.vaccineRepo.Get(ctx, req.VaccineID)
	if err != nil {
		return nil, err
	}
	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return nil, fmt.Errorf("due_date must be in YYYY-MM-DD format: %w", domain.ErrBadRequest)
	}
	if existing, err := s.repo.FindPendingReminder(ctx, recipientID, animal.AnimalID, vaccine.VaccineID, dueDate); err == nil && existing != nil {
		return nil, fmt.Errorf("reminder already pending for this due date: %w", domain.ErrConflict)
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	now := s.now().UTC()
	n := &domain.Notification{
		NotificationID: id.New(),
		RecipientID:    recipientID,
		Type:           domain.NotificationVaccinationDue,
		Title:          fmt.Sprintf("%s due for %s", vaccine.Name, animal.Name),
		Message: fmt.Sprintf("%s (tag %s) is due for %s on %s.",
			animal.Name, animal.TagNumber, vaccine.Name, dueDate.Format("2006-01-02")),
		Priority:       domain.PriorityHigh,
		RelatedAnimal:  &animal.AnimalID,
		RelatedVaccine: &vaccine.VaccineID,
		ScheduledFor:   dueDate,
		Status:         domain.NotificationPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Put(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *service) Get(ctx context.Context, notificationID, actorID string) (*domain.Notification, error) {
	n, err := s.repo.Get(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n.RecipientID != actorID {
		return nil, fmt.Errorf("notification belongs to another user: %w", domain.ErrForbidden)
	}
	return n, nil
}

func (s *service) List(ctx context.Context, recipientID string) ([]domain.Notification, error) {
	return s.repo.ListByRecipient(ctx, recipientID)
}

func (s *service) ListPending(ctx context.Context, recipientID string) ([]domain.Notification, error) {
	return s.repo.ListPending(ctx, recipientID, s.now())
}

// MarkAsRead is idempotent: re-reading an already-read notification returns
// it unchanged and keeps the original ReadAt.
func (s *service) MarkAsRead(ctx context.Context, notificationID, actorID string) (*domain.Notification, error) {
	n, err := s.Get(ctx, notificationID, actorID)
	if err != nil {
		return nil, err
	}
	if n.Read {
		return n, nil
	}
	readAt := s.now().UTC()
	if err := s.repo.MarkAsRead(ctx, notificationID, readAt); err != nil {
		return nil, err
	}
	n.Read = true
	n.ReadAt = &readAt
	return n, nil
}

func (s *service) Delete(ctx context.Context, notificationID, actorID string) error {
	if _, err := s.Get(ctx, notificationID, actorID); err != nil {
		return err
	}
	return s.repo.HardDelete(ctx, notificationID)
}

func parseSchedule(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("scheduled_for must be RFC 3339 or YYYY-MM-DD: %w", domain.ErrBadRequest)
}
