package user

import (
	"context"
	"errors"
	"testing"

	"github.com/herdtrack-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Put(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockUserStore) ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error) {
	args := m.Called(ctx, limit, cursor)
	return args.Get(0).([]domain.User), args.String(1), args.Error(2)
}
func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	return m.Called(ctx, userID, updates).Error(0)
}
func (m *mockUserStore) SoftDelete(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type mockSessionStore struct{ mock.Mock }

func (m *mockSessionStore) Put(ctx context.Context, s *domain.Session) error {
	return m.Called(ctx, s).Error(0)
}
func (m *mockSessionStore) SoftDeleteByUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

// --- helpers ---

func newService(us *mockUserStore, ss *mockSessionStore) Service {
	return NewService(ServiceDeps{
		UserRepo:    us,
		SessionRepo: ss,
	})
}

func baseReq() domain.CreateUserRequest {
	return domain.CreateUserRequest{
		Username:  "mjensen",
		Password:  "password123",
		Email:     "m.jensen@example.com",
		FirstName: "Maria",
		LastName:  "Jensen",
		FarmName:  "Hilltop Dairy",
	}
}

// --- Register tests ---

func TestRegister_UsernameConflict(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByUsername", mock.Anything, "mjensen").Return(&domain.User{}, nil)

	svc := newService(us, nil)
	_, err := svc.Register(context.Background(), baseReq())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	us.AssertExpectations(t)
}

func TestRegister_EmailConflict(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByUsername", mock.Anything, "mjensen").Return(nil, domain.ErrNotFound)
	us.On("GetByEmail", mock.Anything, "m.jensen@example.com").Return(&domain.User{}, nil)

	svc := newService(us, nil)
	_, err := svc.Register(context.Background(), baseReq())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	us.AssertExpectations(t)
}

func TestRegister_DefaultsToFarmerWithAllChannelsOn(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByUsername", mock.Anything, "mjensen").Return(nil, domain.ErrNotFound)
	us.On("GetByEmail", mock.Anything, "m.jensen@example.com").Return(nil, domain.ErrNotFound)
	us.On("Put", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	svc := newService(us, nil)
	u, err := svc.Register(context.Background(), baseReq())

	require.NoError(t, err)
	assert.Equal(t, domain.RoleFarmer, u.Role)
	assert.True(t, u.Enable)
	assert.True(t, u.Preferences.Email)
	assert.True(t, u.Preferences.SMS)
	assert.True(t, u.Preferences.Push)
	us.AssertExpectations(t)
}

func TestRegister_VeterinarianRoleKept(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByUsername", mock.Anything, "mjensen").Return(nil, domain.ErrNotFound)
	us.On("GetByEmail", mock.Anything, "m.jensen@example.com").Return(nil, domain.ErrNotFound)
	us.On("Put", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	svc := newService(us, nil)
	req := baseReq()
	req.Role = domain.RoleVeterinarian
	u, err := svc.Register(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, domain.RoleVeterinarian, u.Role)
}

// --- Update tests ---

func ptr[T any](v T) *T { return &v }

func TestUpdate_EmptyRequest_ReturnsExistingUser(t *testing.T) {
	us := &mockUserStore{}
	existing := &domain.User{UserID: "u1", Username: "mjensen"}
	us.On("Get", mock.Anything, "u1").Return(existing, nil)

	svc := newService(us, nil)
	u, err := svc.Update(context.Background(), "u1", domain.UpdateUserRequest{})

	require.NoError(t, err)
	assert.Equal(t, existing, u)
	us.AssertExpectations(t)
}

func TestUpdate_InvalidRole(t *testing.T) {
	svc := newService(&mockUserStore{}, nil)
	_, err := svc.Update(context.Background(), "u1", domain.UpdateUserRequest{
		Role: ptr("superuser"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestUpdate_PreferencesWritten(t *testing.T) {
	us := &mockUserStore{}
	prefs := domain.NotificationPreferences{Email: true, SMS: false, Push: true}
	updated := &domain.User{UserID: "u1", Preferences: prefs}
	us.On("Update", mock.Anything, "u1", mock.MatchedBy(func(m map[string]interface{}) bool {
		got, ok := m["notification_preferences"].(domain.NotificationPreferences)
		return ok && !got.SMS && got.Email && got.Push
	})).Return(nil)
	us.On("Get", mock.Anything, "u1").Return(updated, nil)

	svc := newService(us, nil)
	u, err := svc.Update(context.Background(), "u1", domain.UpdateUserRequest{
		Preferences: &prefs,
	})

	require.NoError(t, err)
	assert.False(t, u.Preferences.SMS)
	us.AssertExpectations(t)
}

// --- Delete tests ---

func TestDelete_PropagatesStoreError(t *testing.T) {
	us := &mockUserStore{}
	storeErr := errors.New("dynamo error")
	us.On("SoftDelete", mock.Anything, "u1").Return(storeErr)

	svc := newService(us, &mockSessionStore{})
	err := svc.Delete(context.Background(), "u1")

	require.Error(t, err)
	assert.Equal(t, storeErr, err)
	us.AssertExpectations(t)
}

func TestDelete_AlsoDeletesSessions(t *testing.T) {
	us := &mockUserStore{}
	ss := &mockSessionStore{}
	us.On("SoftDelete", mock.Anything, "u1").Return(nil)
	ss.On("SoftDeleteByUser", mock.Anything, "u1").Return(nil)

	svc := newService(us, ss)
	err := svc.Delete(context.Background(), "u1")

	require.NoError(t, err)
	us.AssertExpectations(t)
	ss.AssertExpectations(t)
}
