package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/herdtrack-api/internal/config"
	"github.com/herdtrack-api/internal/domain"
)

// Coordinator fans a pending notification out to every channel the
// recipient has enabled and persists the combined outcome exactly once.
type Coordinator interface {
	Dispatch(ctx context.Context, notificationID, actorID string) (*domain.Notification, error)
}

type notificationStore interface {
	Get(ctx context.Context, notificationID string) (*domain.Notification, error)
	SetDispatchResult(ctx context.Context, notificationID string, delivery domain.DeliveryStatus, status string) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type deviceStore interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Device, error)
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type pushSender interface {
	SendPush(ctx context.Context, endpointARN, title, message string) error
}

type coordinator struct {
	notificationRepo notificationStore
	userRepo         userStore
	deviceRepo       deviceStore
	mailer           mailer
	sms              smsSender
	push             pushSender
	statusPolicy     string
	now              func() time.Time
}

type CoordinatorDeps struct {
	NotificationRepo notificationStore
	UserRepo         userStore
	DeviceRepo       deviceStore
	Mailer           mailer
	SMS              smsSender
	Push             pushSender
	StatusPolicy     string // config.PolicyAlwaysSent or config.PolicyRequireDelivery
	Now              func() time.Time
}

func NewCoordinator(deps CoordinatorDeps) Coordinator {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	policy := deps.StatusPolicy
	if policy == "" {
		policy = config.PolicyAlwaysSent
	}
	return &coordinator{
		notificationRepo: deps.NotificationRepo,
		userRepo:         deps.UserRepo,
		deviceRepo:       deps.DeviceRepo,
		mailer:           deps.Mailer,
		sms:              deps.SMS,
		push:             deps.Push,
		statusPolicy:     policy,
		now:              now,
	}
}

// Dispatch attempts every channel the recipient has enabled. Channels run
// concurrently and each goroutine writes only its own slot of the delivery
// record, so no locking is needed before the merge. The final persist is
// conditional on the notification still being pending; of two racing
// dispatches exactly one commits and the other gets ErrConflict.
func (c *coordinator) Dispatch(ctx context.Context, notificationID, actorID string) (*domain.Notification, error) {
	n, err := c.notificationRepo.Get(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n.RecipientID != actorID {
		return nil, fmt.Errorf("notification belongs to another user: %w", domain.ErrForbidden)
	}
	if n.Status != domain.NotificationPending {
		return nil, fmt.Errorf("notification is %s, not pending: %w", n.Status, domain.ErrConflict)
	}
	recipient, err := c.userRepo.Get(ctx, n.RecipientID)
	if err != nil {
		return nil, err
	}

	var delivery domain.DeliveryStatus
	var wg sync.WaitGroup

	if recipient.Preferences.Email && recipient.Email != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			delivery.Email = c.sendEmail(recipient.Email, n)
		}()
	}
	if recipient.Preferences.SMS && recipient.Phone != nil && *recipient.Phone != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			delivery.SMS = c.sendSMS(ctx, *recipient.Phone, n)
		}()
	}
	if recipient.Preferences.Push {
		wg.Add(1)
		go func() {
			defer wg.Done()
			delivery.Push = c.sendPush(ctx, recipient.UserID, n)
		}()
	}
	wg.Wait()

	status := c.finalStatus(delivery)
	if err := c.notificationRepo.SetDispatchResult(ctx, notificationID, delivery, status); err != nil {
		return nil, err
	}
	n.Delivery = delivery
	n.Status = status
	n.UpdatedAt = c.now().UTC()
	return n, nil
}

func (c *coordinator) sendEmail(to string, n *domain.Notification) domain.ChannelDelivery {
	if c.mailer == nil {
		return domain.ChannelDelivery{Error: "email channel not configured"}
	}
	if err := c.mailer.SendEmail(to, n.Title, n.Message); err != nil {
		return domain.ChannelDelivery{Error: err.Error()}
	}
	at := c.now().UTC()
	return domain.ChannelDelivery{Sent: true, SentAt: &at}
}

func (c *coordinator) sendSMS(ctx context.Context, to string, n *domain.Notification) domain.ChannelDelivery {
	if c.sms == nil {
		return domain.ChannelDelivery{Error: "sms channel not configured"}
	}
	if err := c.sms.SendSMS(ctx, to, n.Title+": "+n.Message); err != nil {
		return domain.ChannelDelivery{Error: err.Error()}
	}
	at := c.now().UTC()
	return domain.ChannelDelivery{Sent: true, SentAt: &at}
}

// sendPush delivers to every registered endpoint; one successful endpoint
// marks the channel sent.
func (c *coordinator) sendPush(ctx context.Context, userID string, n *domain.Notification) domain.ChannelDelivery {
	if c.push == nil {
		return domain.ChannelDelivery{Error: "push channel not configured"}
	}
	devices, err := c.deviceRepo.ListByUser(ctx, userID)
	if err != nil {
		return domain.ChannelDelivery{Error: err.Error()}
	}
	var attempted bool
	var lastErr error
	var delivered bool
	for _, d := range devices {
		if d.EndpointARN == nil || *d.EndpointARN == "" {
			continue
		}
		attempted = true
		if err := c.push.SendPush(ctx, *d.EndpointARN, n.Title, n.Message); err != nil {
			lastErr = err
			continue
		}
		delivered = true
	}
	if !attempted {
		// Preference on but no registered endpoint: channel never attempted.
		return domain.ChannelDelivery{}
	}
	if !delivered {
		return domain.ChannelDelivery{Error: lastErr.Error()}
	}
	at := c.now().UTC()
	return domain.ChannelDelivery{Sent: true, SentAt: &at}
}

func (c *coordinator) finalStatus(delivery domain.DeliveryStatus) string {
	if c.statusPolicy == config.PolicyRequireDelivery {
		if delivery.Email.Sent || delivery.SMS.Sent || delivery.Push.Sent {
			return domain.NotificationSent
		}
		if delivery.Email.Error != "" || delivery.SMS.Error != "" || delivery.Push.Error != "" {
			return domain.NotificationFailed
		}
		// No channel was attempted (all preferences off, or push on with no
		// registered endpoint): nothing failed, the run completed.
		return domain.NotificationSent
	}
	// Orchestration completed; individual channel failures live in the
	// delivery record.
	return domain.NotificationSent
}
