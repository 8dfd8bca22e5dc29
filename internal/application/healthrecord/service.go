package healthrecord

import (
	"context"
	"fmt"
	"time"

	"github.com/herdtrack-api/internal/domain"
	"github.com/herdtrack-api/internal/pkg/id"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldDiagnosis    = "diagnosis"
	fieldTreatment    = "treatment"
	fieldVitalSigns   = "vital_signs"
	fieldFollowUpDate = "follow_up_date"
	fieldStatus       = "status"
	fieldNotes        = "notes"
)

const presignTTL = 15 * time.Minute

type AttachmentUpload struct {
	Type        string `json:"type" validate:"required,oneof=image document lab_result"`
	Name        string `json:"name" validate:"required"`
	Data        string `json:"data" validate:"required"` // base64
	Description string `json:"description"`
}

type Service interface {
	Create(ctx context.Context, actorID, actorRole string, req domain.CreateHealthRecordRequest) (*domain.HealthRecord, error)
	Get(ctx context.Context, recordID, actorID, actorRole string) (*domain.HealthRecord, error)
	ListByAnimal(ctx context.Context, animalID, actorID, actorRole string) ([]domain.HealthRecord, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.HealthRecord, error)
	ListFollowUps(ctx context.Context, ownerID string) ([]domain.HealthRecord, error)
	Update(ctx context.Context, recordID, actorID, actorRole string, req domain.UpdateHealthRecordRequest) (*domain.HealthRecord, error)
	Delete(ctx context.Context, recordID, actorID, actorRole string) error

	AddAttachment(ctx context.Context, recordID, actorID, actorRole string, upload AttachmentUpload) (*domain.Attachment, error)
	ListAttachments(ctx context.Context, recordID, actorID, actorRole string) ([]domain.Attachment, error)
	AttachmentURL(ctx context.Context, attachmentID, actorID, actorRole string) (string, error)
	DeleteAttachment(ctx context.Context, attachmentID, actorID, actorRole string) error
}

type recordStore interface {
	Put(ctx context.Context, rec *domain.HealthRecord) error
	Get(ctx context.Context, recordID string) (*domain.HealthRecord, error)
	ListByAnimal(ctx context.Context, animalID string) ([]domain.HealthRecord, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.HealthRecord, error)
	ListFollowUps(ctx context.Context, ownerID string, now time.Time) ([]domain.HealthRecord, error)
	Update(ctx context.Context, recordID string, updates map[string]interface{}) error
	HardDelete(ctx context.Context, recordID string) error
}

type attachmentStore interface {
	Put(ctx context.Context, a *domain.Attachment) error
	Get(ctx context.Context, attachmentID string) (*domain.Attachment, error)
	ListByRecord(ctx context.Context, recordID string) ([]domain.Attachment, error)
	HardDelete(ctx context.Context, attachmentID string) error
}

type animalStore interface {
	Get(ctx context.Context, animalID string) (*domain.Animal, error)
}

type objectStore interface {
	UploadBase64(ctx context.Context, key, b64Data string) (string, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

type service struct {
	repo           recordStore
	attachmentRepo attachmentStore
	animalRepo     animalStore
	objects        objectStore
}

type ServiceDeps struct {
	RecordRepo     recordStore
	AttachmentRepo attachmentStore
	AnimalRepo     animalStore
	Objects        objectStore
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:           deps.RecordRepo,
		attachmentRepo: deps.AttachmentRepo,
		animalRepo:     deps.AnimalRepo,
		objects:        deps.Objects,
	}
}

func (s *service) Create(ctx context.Context, actorID, actorRole string, req domain.CreateHealthRecordRequest) (*domain.HealthRecord, error) {
	animal, err := s.animalRepo.Get(ctx, req.AnimalID)
	if err != nil {
		return nil, err
	}
	if err := authorize(animal.OwnerID, actorID, actorRole); err != nil {
		return nil, err
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("date must be in YYYY-MM-DD format: %w", domain.ErrBadRequest)
	}
	var followUp *time.Time
	if req.FollowUpDate != nil {
		t, err := time.Parse("2006-01-02", *req.FollowUpDate)
		if err != nil {
			return nil, fmt.Errorf("follow_up_date must be in YYYY-MM-DD format: %w", domain.ErrBadRequest)
		}
		followUp = &t
	}
	now := time.Now().UTC()
	rec := &domain.HealthRecord{
		RecordID:     id.New(),
		AnimalID:     animal.AnimalID,
		OwnerID:      animal.OwnerID,
		Date:         date,
		RecordType:   req.RecordType,
		Diagnosis:    req.Diagnosis,
		Treatment:    req.Treatment,
		Medications:  req.Medications,
		VitalSigns:   req.VitalSigns,
		Veterinarian: actorID,
		FollowUpDate: followUp,
		Status:       domain.HealthRecordStatusActive,
		Notes:        req.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Put(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *service) Get(ctx context.Context, recordID, actorID, actorRole string) (*domain.HealthRecord, error) {
	rec, err := s.repo.Get(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if err := authorize(rec.OwnerID, actorID, actorRole); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *service) ListByAnimal(ctx context.Context, animalID, actorID, actorRole string) ([]domain.HealthRecord, error) {
	animal, err := s.animalRepo.Get(ctx, animalID)
	if err != nil {
		return nil, err
	}
	if err := authorize(animal.OwnerID, actorID, actorRole); err != nil {
		return nil, err
	}
	return s.repo.ListByAnimal(ctx, animalID)
}

func (s *service) ListByOwner(ctx context.Context, ownerID string) ([]domain.HealthRecord, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// ListFollowUps returns the owner's open cases with a follow-up visit still
// ahead of now.
func (s *service) ListFollowUps(ctx context.Context, ownerID string) ([]domain.HealthRecord, error) {
	return s.repo.ListFollowUps(ctx, ownerID, time.Now().UTC())
}

func (s *service) Update(ctx context.Context, recordID, actorID, actorRole string, req domain.UpdateHealthRecordRequest) (*domain.HealthRecord, error) {
	rec, err := s.Get(ctx, recordID, actorID, actorRole)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if req.Diagnosis != nil {
		updates[fieldDiagnosis] = *req.Diagnosis
	}
	if req.Treatment != nil {
		updates[fieldTreatment] = *req.Treatment
	}
	if req.VitalSigns != nil {
		updates[fieldVitalSigns] = *req.VitalSigns
	}
	if req.FollowUpDate != nil {
		t, err := time.Parse("2006-01-02", *req.FollowUpDate)
		if err != nil {
			return nil, fmt.Errorf("follow_up_date must be in YYYY-MM-DD format: %w", domain.ErrBadRequest)
		}
		updates[fieldFollowUpDate] = t
	}
	if req.Status != nil {
		updates[fieldStatus] = *req.Status
	}
	if req.Notes != nil {
		updates[fieldNotes] = *req.Notes
	}
	if len(updates) == 0 {
		return rec, nil
	}
	if err := s.repo.Update(ctx, recordID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, recordID)
}

func (s *service) Delete(ctx context.Context, recordID, actorID, actorRole string) error {
	if _, err := s.Get(ctx, recordID, actorID, actorRole); err != nil {
		return err
	}
	attachments, err := s.attachmentRepo.ListByRecord(ctx, recordID)
	if err != nil {
		return err
	}
	for _, a := range attachments {
		if err := s.objects.Delete(ctx, a.Object); err != nil {
			return err
		}
		if err := s.attachmentRepo.HardDelete(ctx, a.AttachmentID); err != nil {
			return err
		}
	}
	return s.repo.HardDelete(ctx, recordID)
}

func (s *service) AddAttachment(ctx context.Context, recordID, actorID, actorRole string, upload AttachmentUpload) (*domain.Attachment, error) {
	rec, err := s.Get(ctx, recordID, actorID, actorRole)
	if err != nil {
		return nil, err
	}
	attachmentID := id.New()
	key := fmt.Sprintf("records/%s/%s-%s", recordID, attachmentID, upload.Name)
	if _, err := s.objects.UploadBase64(ctx, key, upload.Data); err != nil {
		return nil, err
	}
	a := &domain.Attachment{
		AttachmentID: attachmentID,
		RecordID:     recordID,
		OwnerID:      rec.OwnerID,
		Type:         upload.Type,
		Object:       key,
		Name:         upload.Name,
		Size:         int64(len(upload.Data) * 3 / 4),
		Description:  upload.Description,
		UploadedAt:   time.Now().UTC(),
	}
	if err := s.attachmentRepo.Put(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) ListAttachments(ctx context.Context, recordID, actorID, actorRole string) ([]domain.Attachment, error) {
	if _, err := s.Get(ctx, recordID, actorID, actorRole); err != nil {
		return nil, err
	}
	return s.attachmentRepo.ListByRecord(ctx, recordID)
}

func (s *service) AttachmentURL(ctx context.Context, attachmentID, actorID, actorRole string) (string, error) {
	a, err := s.attachmentRepo.Get(ctx, attachmentID)
	if err != nil {
		return "", err
	}
	if err := authorize(a.OwnerID, actorID, actorRole); err != nil {
		return "", err
	}
	return s.objects.PresignedURL(ctx, a.Object, presignTTL)
}

func (s *service) DeleteAttachment(ctx context.Context, attachmentID, actorID, actorRole string) error {
	a, err := s.attachmentRepo.Get(ctx, attachmentID)
	if err != nil {
		return err
	}
	if err := authorize(a.OwnerID, actorID, actorRole); err != nil {
		return err
	}
	if err := s.objects.Delete(ctx, a.Object); err != nil {
		return err
	}
	return s.attachmentRepo.HardDelete(ctx, attachmentID)
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
