package domain

import "time"

// Role names carried in JWT claims.
const (
	RoleFarmer       = "farmer"
	RoleVeterinarian = "veterinarian"
	RoleAdmin        = "admin"
)

// NotificationPreferences is the fixed set of delivery channels a user can
// opt in or out of. One field per known channel; adding a channel means
// extending this struct, not adding a string key.
type NotificationPreferences struct {
	Email bool `json:"email" dynamodbav:"email"`
	SMS   bool `json:"sms" dynamodbav:"sms"`
	Push  bool `json:"push" dynamodbav:"push"`
}

// DefaultPreferences enables every channel, matching the behavior for
// accounts that never touched their settings.
func DefaultPreferences() NotificationPreferences {
	return NotificationPreferences{Email: true, SMS: true, Push: true}
}

type User struct {
	UserID       string                  `json:"id" dynamodbav:"user_id"`
	Username     string                  `json:"username" dynamodbav:"username"`
	Email        string                  `json:"email" dynamodbav:"email"`
	Phone        *string                 `json:"phone" dynamodbav:"phone"`
	PasswordHash string                  `json:"-" dynamodbav:"password_hash"`
	Role         string                  `json:"role" dynamodbav:"role"`
	FirstName    string                  `json:"first_name" dynamodbav:"first_name"`
	LastName     string                  `json:"last_name" dynamodbav:"last_name"`
	FarmName     string                  `json:"farm_name,omitempty" dynamodbav:"farm_name"`
	Preferences  NotificationPreferences `json:"notification_preferences" dynamodbav:"notification_preferences"`
	Enable       bool                    `json:"enable" dynamodbav:"enable"`
	DeletedAt    *time.Time              `json:"deleted_at,omitempty" dynamodbav:"deleted_at"`
	CreatedAt    time.Time               `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time               `json:"updated" dynamodbav:"updated_at"`
}

type CreateUserRequest struct {
	Username   string  `json:"username" validate:"required,min=3"`
	Password   string  `json:"password" validate:"required,min=8,max=72"`
	Email      string  `json:"email" validate:"required,email"`
	Phone      *string `json:"phone"`
	FirstName  string  `json:"first_name" validate:"required"`
	LastName   string  `json:"last_name" validate:"required"`
	FarmName   string  `json:"farm_name"`
	Role       string  `json:"role" validate:"omitempty,oneof=farmer veterinarian"`
	DeviceUUID *string `json:"device_uuid"`
}

type UpdateUserRequest struct {
	Username    *string                  `json:"username"`
	Email       *string                  `json:"email" validate:"omitempty,email"`
	Phone       *string                  `json:"phone"`
	FirstName   *string                  `json:"first_name"`
	LastName    *string                  `json:"last_name"`
	FarmName    *string                  `json:"farm_name"`
	Role        *string                  `json:"role"`
	Preferences *NotificationPreferences `json:"notification_preferences"`
}
