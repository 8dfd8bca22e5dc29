package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Dispatch status policies. See DispatchStatusPolicy.
const (
	PolicyAlwaysSent      = "always-sent"
	PolicyRequireDelivery = "require-delivery"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration
	RefreshTokenDur   time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	SNSRegion         string
	SNSPlatformAppARN string // platform application for mobile push endpoints

	// DispatchStatusPolicy decides the notification's final status when every
	// attempted channel failed: "always-sent" marks it sent as long as the
	// orchestration completed, "require-delivery" marks it failed unless at
	// least one channel got through.
	DispatchStatusPolicy string

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users         string
	Sessions      string
	Devices       string
	Animals       string
	Vaccines      string
	Vaccinations  string
	HealthRecords string
	Attachments   string
	Notifications string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:         getEnv("DYNAMO_TABLE_USERS", "users"),
			Sessions:      getEnv("DYNAMO_TABLE_SESSIONS", "sessions"),
			Devices:       getEnv("DYNAMO_TABLE_DEVICES", "devices"),
			Animals:       getEnv("DYNAMO_TABLE_ANIMALS", "animals"),
			Vaccines:      getEnv("DYNAMO_TABLE_VACCINES", "vaccines"),
			Vaccinations:  getEnv("DYNAMO_TABLE_VACCINATIONS", "vaccinations"),
			HealthRecords: getEnv("DYNAMO_TABLE_HEALTH_RECORDS", "health_records"),
			Attachments:   getEnv("DYNAMO_TABLE_ATTACHMENTS", "attachments"),
			Notifications: getEnv("DYNAMO_TABLE_NOTIFICATIONS", "notifications"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "herdtrack-attachments"),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         time.Duration(getEnvInt("JWT_EXPIRY_DAYS", 7)) * 24 * time.Hour,
		RefreshTokenDur:   time.Duration(getEnvInt("REFRESH_TOKEN_EXPIRY_DAYS", 30)) * 24 * time.Hour,

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@herdtrack.example"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		SNSRegion:         getEnv("SNS_REGION", "us-east-1"),
		SNSPlatformAppARN: getEnv("SNS_PLATFORM_APP_ARN", ""),

		DispatchStatusPolicy: getEnv("DISPATCH_STATUS_POLICY", PolicyAlwaysSent),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
