package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/herdtrack-api/internal/application/healthrecord"
	"github.com/herdtrack-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockHealthRecordSvc struct{ mock.Mock }

func (m *mockHealthRecordSvc) Create(ctx context.Context, actorID, actorRole string, req domain.CreateHealthRecordRequest) (*domain.HealthRecord, error) {
	args := m.Called(ctx, actorID, actorRole, req)
	if rec, _ := args.Get(0).(*domain.HealthRecord); rec != nil {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockHealthRecordSvc) Get(ctx context.Context, recordID, actorID, actorRole string) (*domain.HealthRecord, error) {
	args := m.Called(ctx, recordID, actorID, actorRole)
	if rec, _ := args.Get(0).(*domain.HealthRecord); rec != nil {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockHealthRecordSvc) ListByAnimal(ctx context.Context, animalID, actorID, actorRole string) ([]domain.HealthRecord, error) {
	args := m.Called(ctx, animalID, actorID, actorRole)
	return args.Get(0).([]domain.HealthRecord), args.Error(1)
}

func (m *mockHealthRecordSvc) ListByOwner(ctx context.Context, ownerID string) ([]domain.HealthRecord, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.HealthRecord), args.Error(1)
}

func (m *mockHealthRecordSvc) ListFollowUps(ctx context.Context, ownerID string) ([]domain.HealthRecord, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.HealthRecord), args.Error(1)
}

func (m *mockHealthRecordSvc) Update(ctx context.Context, recordID, actorID, actorRole string, req domain.UpdateHealthRecordRequest) (*domain.HealthRecord, error) {
	args := m.Called(ctx, recordID, actorID, actorRole, req)
	if rec, _ := args.Get(0).(*domain.HealthRecord); rec != nil {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockHealthRecordSvc) Delete(ctx context.Context, recordID, actorID, actorRole string) error {
	return m.Called(ctx, recordID, actorID, actorRole).Error(0)
}

func (m *mockHealthRecordSvc) AddAttachment(ctx context.Context, recordID, actorID, actorRole string, upload healthrecord.AttachmentUpload) (*domain.Attachment, error) {
	args := m.Called(ctx, recordID, actorID, actorRole, upload)
	if a, _ := args.Get(0).(*domain.Attachment); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockHealthRecordSvc) ListAttachments(ctx context.Context, recordID, actorID, actorRole string) ([]domain.Attachment, error) {
	args := m.Called(ctx, recordID, actorID, actorRole)
	return args.Get(0).([]domain.Attachment), args.Error(1)
}

func (m *mockHealthRecordSvc) AttachmentURL(ctx context.Context, attachmentID, actorID, actorRole string) (string, error) {
	args := m.Called(ctx, attachmentID, actorID, actorRole)
	return args.String(0), args.Error(1)
}

func (m *mockHealthRecordSvc) DeleteAttachment(ctx context.Context, attachmentID, actorID, actorRole string) error {
	return m.Called(ctx, attachmentID, actorID, actorRole).Error(0)
}

func TestHealthRecordListFollowUps_MissingClaims(t *testing.T) {
	h := NewHealthRecordHandler(&mockHealthRecordSvc{})
	rr := httptest.NewRecorder()
	h.ListFollowUps(rr, httptest.NewRequest(http.MethodGet, "/v1/health-records/follow-ups", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHealthRecordListFollowUps_ReturnsCallersOpenCases(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockHealthRecordSvc{}
	followUp := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	svc.On("ListFollowUps", mock.Anything, "u1").Return([]domain.HealthRecord{
		{RecordID: "r1", OwnerID: "u1", FollowUpDate: &followUp, Status: domain.HealthRecordStatusActive},
	}, nil)
	h := NewHealthRecordHandler(svc)

	r := bearerReq(t, p, http.MethodGet, "/v1/health-records/follow-ups", "u1", domain.RoleFarmer, nil)
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.ListFollowUps), rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	var records []domain.HealthRecord
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&records))
	require.Len(t, records, 1)
	assert.Equal(t, "r1", records[0].RecordID)
	svc.AssertExpectations(t)
}

func TestHealthRecordListFollowUps_StoreErrorIs500(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockHealthRecordSvc{}
	svc.On("ListFollowUps", mock.Anything, "u1").
		Return([]domain.HealthRecord(nil), assert.AnError)
	h := NewHealthRecordHandler(svc)

	r := bearerReq(t, p, http.MethodGet, "/v1/health-records/follow-ups", "u1", domain.RoleFarmer, nil)
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.ListFollowUps), rr, r)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
