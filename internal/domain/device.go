package domain

import "time"

// Device is a registered client installation. Devices carrying an SNS
// platform endpoint are the target set for the push notification channel.
type Device struct {
	DeviceID    string    `json:"id" dynamodbav:"device_id"`
	UUID        string    `json:"uuid" dynamodbav:"device_uuid"`
	UserID      string    `json:"user_id" dynamodbav:"user_id"`
	PushToken   *string   `json:"push_token" dynamodbav:"push_token"`
	EndpointARN *string   `json:"endpoint_arn,omitempty" dynamodbav:"endpoint_arn"`
	Enable      bool      `json:"enable" dynamodbav:"enable"`
	CreatedAt   time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updated" dynamodbav:"updated_at"`
}

type UpdateDeviceRequest struct {
	PushToken   *string `json:"push_token"`
	EndpointARN *string `json:"endpoint_arn"`
}
