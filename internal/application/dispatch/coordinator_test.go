package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/herdtrack-api/internal/config"
	"github.com/herdtrack-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockNotificationStore struct{ mock.Mock }

func (m *mockNotificationStore) Get(ctx context.Context, notificationID string) (*domain.Notification, error) {
	args := m.Called(ctx, notificationID)
	if n, _ := args.Get(0).(*domain.Notification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockNotificationStore) SetDispatchResult(ctx context.Context, notificationID string, delivery domain.DeliveryStatus, status string) error {
	return m.Called(ctx, notificationID, delivery, status).Error(0)
}

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockDeviceStore struct{ mock.Mock }

func (m *mockDeviceStore) ListByUser(ctx context.Context, userID string) ([]domain.Device, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Device), args.Error(1)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

type mockSMSSender struct{ mock.Mock }

func (m *mockSMSSender) SendSMS(ctx context.Context, to, message string) error {
	return m.Called(ctx, to, message).Error(0)
}

type mockPushSender struct{ mock.Mock }

func (m *mockPushSender) SendPush(ctx context.Context, endpointARN, title, message string) error {
	return m.Called(ctx, endpointARN, title, message).Error(0)
}

// --- helpers ---

func pendingNotification() *domain.Notification {
	return &domain.Notification{
		NotificationID: "n1",
		RecipientID:    "u1",
		Type:           domain.NotificationVaccinationDue,
		Title:          "Clostridial due for Bella",
		Message:        "Bella (tag NL-4471) is due for Clostridial on 2024-07-15.",
		Status:         domain.NotificationPending,
	}
}

func ptr[T any](v T) *T { return &v }

func recipient(prefs domain.NotificationPreferences) *domain.User {
	return &domain.User{
		UserID:      "u1",
		Email:       "m.jensen@example.com",
		Phone:       ptr("+4520304050"),
		Preferences: prefs,
	}
}

type fixture struct {
	nr   *mockNotificationStore
	ur   *mockUserStore
	dr   *mockDeviceStore
	mail *mockMailer
	sms  *mockSMSSender
	push *mockPushSender
}

func newFixture() *fixture {
	return &fixture{
		nr:   &mockNotificationStore{},
		ur:   &mockUserStore{},
		dr:   &mockDeviceStore{},
		mail: &mockMailer{},
		sms:  &mockSMSSender{},
		push: &mockPushSender{},
	}
}

func (f *fixture) coordinator(policy string) Coordinator {
	return NewCoordinator(CoordinatorDeps{
		NotificationRepo: f.nr,
		UserRepo:         f.ur,
		DeviceRepo:       f.dr,
		Mailer:           f.mail,
		SMS:              f.sms,
		Push:             f.push,
		StatusPolicy:     policy,
	})
}

// --- tests ---

func TestDispatch_AllChannelsSucceed(t *testing.T) {
	f := newFixture()
	f.nr.On("Get", mock.Anything, "n1").Return(pendingNotification(), nil)
	f.ur.On("Get", mock.Anything, "u1").Return(recipient(domain.DefaultPreferences()), nil)
	f.dr.On("ListByUser", mock.Anything, "u1").Return([]domain.Device{
		{DeviceID: "d1", EndpointARN: ptr("arn:aws:sns:endpoint/d1")},
	}, nil)
	f.mail.On("SendEmail", "m.jensen@example.com", mock.Anything, mock.Anything).Return(nil)
	f.sms.On("SendSMS", mock.Anything, "+4520304050", mock.Anything).Return(nil)
	f.push.On("SendPush", mock.Anything, "arn:aws:sns:endpoint/d1", mock.Anything, mock.Anything).Return(nil)
	f.nr.On("SetDispatchResult", mock.Anything, "n1", mock.Anything, domain.NotificationSent).Return(nil)

	n, err := f.coordinator(config.PolicyAlwaysSent).Dispatch(context.Background(), "n1", "u1")

	require.NoError(t, err)
	assert.Equal(t, domain.NotificationSent, n.Status)
	assert.True(t, n.Delivery.Email.Sent)
	assert.True(t, n.Delivery.SMS.Sent)
	assert.True(t, n.Delivery.Push.Sent)
	assert.NotNil(t, n.Delivery.Email.SentAt)
	f.nr.AssertExpectations(t)
}

func TestDispatch_PartialFailureRecordedPerChannel(t *testing.T) {
	f := newFixture()
	f.nr.On("Get", mock.Anything, "n1").Return(pendingNotification(), nil)
	f.ur.On("Get", mock.Anything, "u1").Return(recipient(domain.NotificationPreferences{Email: true, SMS: true}), nil)
	f.mail.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp timeout"))
	f.sms.On("SendSMS", mock.Anything, "+4520304050", mock.Anything).Return(nil)
	f.nr.On("SetDispatchResult", mock.Anything, "n1", mock.Anything, domain.NotificationSent).Return(nil)

	n, err := f.coordinator(config.PolicyRequireDelivery).Dispatch(context.Background(), "n1", "u1")

	require.NoError(t, err)
	assert.Equal(t, domain.NotificationSent, n.Status)
	assert.False(t, n.Delivery.Email.Sent)
	assert.Equal(t, "smtp timeout", n.Delivery.Email.Error)
	assert.True(t, n.Delivery.SMS.Sent)
	// push preference off: the slot stays untouched
	assert.False(t, n.Delivery.Push.Sent)
	assert.Empty(t, n.Delivery.Push.Error)
}

func TestDispatch_AllFail_RequireDeliveryMarksFailed(t *testing.T) {
	f := newFixture()
	f.nr.On("Get", mock.Anything, "n1").Return(pendingNotification(), nil)
	f.ur.On("Get", mock.Anything, "u1").Return(recipient(domain.NotificationPreferences{Email: true, SMS: true}), nil)
	f.mail.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp timeout"))
	f.sms.On("SendSMS", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("sns throttled"))
	f.nr.On("SetDispatchResult", mock.Anything, "n1", mock.Anything, domain.NotificationFailed).Return(nil)

	n, err := f.coordinator(config.PolicyRequireDelivery).Dispatch(context.Background(), "n1", "u1")

	require.NoError(t, err)
	assert.Equal(t, domain.NotificationFailed, n.Status)
}

func TestDispatch_AllFail_AlwaysSentStillMarksSent(t *testing.T) {
	f := newFixture()
	f.nr.On("Get", mock.Anything, "n1").Return(pendingNotification(), nil)
	f.ur.On("Get", mock.Anything, "u1").Return(recipient(domain.NotificationPreferences{Email: true}), nil)
	f.mail.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp timeout"))
	f.nr.On("SetDispatchResult", mock.Anything, "n1", mock.Anything, domain.NotificationSent).Return(nil)

	n, err := f.coordinator(config.PolicyAlwaysSent).Dispatch(context.Background(), "n1", "u1")

	require.NoError(t, err)
	assert.Equal(t, domain.NotificationSent, n.Status)
	assert.Equal(t, "smtp timeout", n.Delivery.Email.Error)
}

func TestDispatch_NotPendingIsConflict(t *testing.T) {
	f := newFixture()
	sent := pendingNotification()
	sent.Status = domain.NotificationSent
	f.nr.On("Get", mock.Anything, "n1").Return(sent, nil)

	_, err := f.coordinator(config.PolicyAlwaysSent).Dispatch(context.Background(), "n1", "u1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestDispatch_RacingPersistLosesWithConflict(t *testing.T) {
	f := newFixture()
	f.nr.On("Get", mock.Anything, "n1").Return(pendingNotification(), nil)
	f.ur.On("Get", mock.Anything, "u1").Return(recipient(domain.NotificationPreferences{Email: true}), nil)
	f.mail.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.nr.On("SetDispatchResult", mock.Anything, "n1", mock.Anything, domain.NotificationSent).
		Return(domain.ErrConflict)

	_, err := f.coordinator(config.PolicyAlwaysSent).Dispatch(context.Background(), "n1", "u1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestDispatch_OtherRecipientForbidden(t *testing.T) {
	f := newFixture()
	f.nr.On("Get", mock.Anything, "n1").Return(pendingNotification(), nil)

	_, err := f.coordinator(config.PolicyAlwaysSent).Dispatch(context.Background(), "n1", "u2")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestDispatch_PushWithoutEndpointsLeavesSlotUntouched(t *testing.T) {
	f := newFixture()
	f.nr.On("Get", mock.Anything, "n1").Return(pendingNotification(), nil)
	f.ur.On("Get", mock.Anything, "u1").Return(recipient(domain.NotificationPreferences{Push: true}), nil)
	f.dr.On("ListByUser", mock.Anything, "u1").Return([]domain.Device{{DeviceID: "d1"}}, nil)
	f.nr.On("SetDispatchResult", mock.Anything, "n1", mock.Anything, domain.NotificationSent).Return(nil)

	n, err := f.coordinator(config.PolicyAlwaysSent).Dispatch(context.Background(), "n1", "u1")

	require.NoError(t, err)
	assert.False(t, n.Delivery.Push.Sent)
	assert.Empty(t, n.Delivery.Push.Error)
	assert.Nil(t, n.Delivery.Push.SentAt)
	f.push.AssertNotCalled(t, "SendPush")
}

func TestDispatch_NilSendersRecordUnavailableInsteadOfPanicking(t *testing.T) {
	f := newFixture()
	f.nr.On("Get", mock.Anything, "n1").Return(pendingNotification(), nil)
	f.ur.On("Get", mock.Anything, "u1").Return(recipient(domain.DefaultPreferences()), nil)
	f.mail.On("SendEmail", "m.jensen@example.com", mock.Anything, mock.Anything).Return(nil)
	f.nr.On("SetDispatchResult", mock.Anything, "n1", mock.Anything, domain.NotificationSent).Return(nil)

	// SNS was never configured: the SMS and push slots are nil, as they
	// are when sender setup fails at startup.
	c := NewCoordinator(CoordinatorDeps{
		NotificationRepo: f.nr,
		UserRepo:         f.ur,
		DeviceRepo:       f.dr,
		Mailer:           f.mail,
		StatusPolicy:     config.PolicyAlwaysSent,
	})

	n, err := c.Dispatch(context.Background(), "n1", "u1")

	require.NoError(t, err)
	assert.True(t, n.Delivery.Email.Sent)
	assert.False(t, n.Delivery.SMS.Sent)
	assert.Equal(t, "sms channel not configured", n.Delivery.SMS.Error)
	assert.False(t, n.Delivery.Push.Sent)
	assert.Equal(t, "push channel not configured", n.Delivery.Push.Error)
}

func TestDispatch_RequireDelivery_NothingAttemptedStillMarksSent(t *testing.T) {
	f := newFixture()
	f.nr.On("Get", mock.Anything, "n1").Return(pendingNotification(), nil)
	f.ur.On("Get", mock.Anything, "u1").Return(recipient(domain.NotificationPreferences{}), nil)
	f.nr.On("SetDispatchResult", mock.Anything, "n1", mock.Anything, domain.NotificationSent).Return(nil)

	n, err := f.coordinator(config.PolicyRequireDelivery).Dispatch(context.Background(), "n1", "u1")

	require.NoError(t, err)
	assert.Equal(t, domain.NotificationSent, n.Status)
	assert.Empty(t, n.Delivery.Email.Error)
	assert.Empty(t, n.Delivery.SMS.Error)
	assert.Empty(t, n.Delivery.Push.Error)
	f.mail.AssertNotCalled(t, "SendEmail")
	f.sms.AssertNotCalled(t, "SendSMS")
	f.push.AssertNotCalled(t, "SendPush")
}

func TestDispatch_OneGoodEndpointMarksPushSent(t *testing.T) {
	f := newFixture()
	f.nr.On("Get", mock.Anything, "n1").Return(pendingNotification(), nil)
	f.ur.On("Get", mock.Anything, "u1").Return(recipient(domain.NotificationPreferences{Push: true}), nil)
	f.dr.On("ListByUser", mock.Anything, "u1").Return([]domain.Device{
		{DeviceID: "d1", EndpointARN: ptr("arn:bad")},
		{DeviceID: "d2", EndpointARN: ptr("arn:good")},
	}, nil)
	f.push.On("SendPush", mock.Anything, "arn:bad", mock.Anything, mock.Anything).Return(errors.New("endpoint disabled"))
	f.push.On("SendPush", mock.Anything, "arn:good", mock.Anything, mock.Anything).Return(nil)
	f.nr.On("SetDispatchResult", mock.Anything, "n1", mock.Anything, domain.NotificationSent).Return(nil)

	n, err := f.coordinator(config.PolicyRequireDelivery).Dispatch(context.Background(), "n1", "u1")

	require.NoError(t, err)
	assert.True(t, n.Delivery.Push.Sent)
	assert.Empty(t, n.Delivery.Push.Error)
}
