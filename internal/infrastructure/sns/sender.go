package sns

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/herdtrack-api/internal/config"
)

// SMSSender sends SMS messages via AWS SNS.
type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

// PushSender delivers mobile push notifications through SNS platform
// endpoints and registers device tokens as endpoints.
type PushSender interface {
	SendPush(ctx context.Context, endpointARN, title, message string) error
	RegisterEndpoint(ctx context.Context, pushToken string) (string, error)
}

// Sender implements both channels over one SNS client.
type Sender struct {
	client         *sns.Client
	platformAppARN string
}

func NewSender(cfg *config.Config) (*Sender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.SNSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &Sender{
		client:         sns.NewFromConfig(awsCfg),
		platformAppARN: cfg.SNSPlatformAppARN,
	}, nil
}

func (s *Sender) SendSMS(ctx context.Context, to, message string) error {
	_, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: &to,
		Message:     &message,
	})
	return err
}

// SendPush publishes a JSON payload to the device's platform endpoint.
func (s *Sender) SendPush(ctx context.Context, endpointARN, title, message string) error {
	payload, err := json.Marshal(map[string]string{
		"title":   title,
		"message": message,
	})
	if err != nil {
		return fmt.Errorf("marshal push payload: %w", err)
	}
	_, err = s.client.Publish(ctx, &sns.PublishInput{
		TargetArn: aws.String(endpointARN),
		Message:   aws.String(string(payload)),
	})
	return err
}

// RegisterEndpoint creates a platform endpoint for a device push token and
// returns its ARN. Idempotent for the same token on the SNS side.
func (s *Sender) RegisterEndpoint(ctx context.Context, pushToken string) (string, error) {
	if s.platformAppARN == "" {
		return "", fmt.Errorf("push platform application not configured")
	}
	out, err := s.client.CreatePlatformEndpoint(ctx, &sns.CreatePlatformEndpointInput{
		PlatformApplicationArn: aws.String(s.platformAppARN),
		Token:                  aws.String(pushToken),
	})
	if err != nil {
		return "", fmt.Errorf("create platform endpoint: %w", err)
	}
	return aws.ToString(out.EndpointArn), nil
}
