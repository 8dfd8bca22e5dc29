package vaccine

import (
	"context"
	"testing"

	"github.com/herdtrack-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockVaccineStore struct{ mock.Mock }

func (m *mockVaccineStore) Put(ctx context.Context, v *domain.Vaccine) error {
	return m.Called(ctx, v).Error(0)
}
func (m *mockVaccineStore) Get(ctx context.Context, vaccineID string) (*domain.Vaccine, error) {
	args := m.Called(ctx, vaccineID)
	if v, _ := args.Get(0).(*domain.Vaccine); v != nil {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockVaccineStore) Scan(ctx context.Context) ([]domain.Vaccine, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Vaccine), args.Error(1)
}
func (m *mockVaccineStore) Update(ctx context.Context, vaccineID string, updates map[string]interface{}) error {
	return m.Called(ctx, vaccineID, updates).Error(0)
}
func (m *mockVaccineStore) HardDelete(ctx context.Context, vaccineID string) error {
	return m.Called(ctx, vaccineID).Error(0)
}

func baseReq() domain.CreateVaccineRequest {
	return domain.CreateVaccineRequest{
		Name:            "Clostridial 8-way",
		Manufacturer:    "AgriVet Labs",
		Description:     "Multivalent clostridial vaccine",
		Type:            "inactivated",
		TargetSpecies:   []string{"cattle", "sheep"},
		Dosage:          domain.Dosage{Amount: 2, Unit: "ml"},
		Route:           "subcutaneous",
		BoosterInterval: domain.BoosterInterval{Value: 6, Unit: "months"},
	}
}

func TestCreate_InvalidIntervalUnitRejected(t *testing.T) {
	store := &mockVaccineStore{}
	svc := NewService(store)
	req := baseReq()
	req.BoosterInterval.Unit = "days"

	_, err := svc.Create(context.Background(), req)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBadRequest)
	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestCreate_DefaultsActiveSingleDose(t *testing.T) {
	store := &mockVaccineStore{}
	store.On("Put", mock.Anything, mock.Anything).Return(nil)
	svc := NewService(store)

	v, err := svc.Create(context.Background(), baseReq())

	require.NoError(t, err)
	assert.Equal(t, domain.VaccineStatusActive, v.Status)
	assert.Equal(t, 1, v.TotalDoses)
	assert.NotEmpty(t, v.VaccineID)
	store.AssertExpectations(t)
}

func TestUpdate_BadIntervalRejectedBeforeWrite(t *testing.T) {
	store := &mockVaccineStore{}
	svc := NewService(store)
	bad := domain.BoosterInterval{Value: 0, Unit: "months"}

	_, err := svc.Update(context.Background(), "v1", domain.UpdateVaccineRequest{BoosterInterval: &bad})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBadRequest)
	store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_EmptyRequestSkipsWrite(t *testing.T) {
	store := &mockVaccineStore{}
	store.On("Get", mock.Anything, "v1").Return(&domain.Vaccine{VaccineID: "v1"}, nil)
	svc := NewService(store)

	v, err := svc.Update(context.Background(), "v1", domain.UpdateVaccineRequest{})

	require.NoError(t, err)
	assert.Equal(t, "v1", v.VaccineID)
	store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestDelete_ActiveVaccineIsConflict(t *testing.T) {
	store := &mockVaccineStore{}
	store.On("Get", mock.Anything, "v1").Return(&domain.Vaccine{VaccineID: "v1", Status: domain.VaccineStatusActive}, nil)
	svc := NewService(store)

	err := svc.Delete(context.Background(), "v1")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict)
	store.AssertNotCalled(t, "HardDelete", mock.Anything, mock.Anything)
}

func TestDelete_DiscontinuedVaccineRemoved(t *testing.T) {
	store := &mockVaccineStore{}
	store.On("Get", mock.Anything, "v1").Return(&domain.Vaccine{VaccineID: "v1", Status: domain.VaccineStatusDiscontinued}, nil)
	store.On("HardDelete", mock.Anything, "v1").Return(nil)
	svc := NewService(store)

	err := svc.Delete(context.Background(), "v1")

	require.NoError(t, err)
	store.AssertExpectations(t)
}
