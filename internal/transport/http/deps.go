package http

import (
	"github.com/herdtrack-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/herdtrack-api/internal/infrastructure/jwt"
	s3infra "github.com/herdtrack-api/internal/infrastructure/s3"
	"github.com/herdtrack-api/internal/infrastructure/smtp"
	"github.com/herdtrack-api/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo         *dynamo.UserRepo
	SessionRepo      *dynamo.SessionRepo
	DeviceRepo       *dynamo.DeviceRepo
	AnimalRepo       *dynamo.AnimalRepo
	VaccineRepo      *dynamo.VaccineRepo
	VaccinationRepo  *dynamo.VaccinationRepo
	HealthRecordRepo *dynamo.HealthRecordRepo
	AttachmentRepo   *dynamo.AttachmentRepo
	NotificationRepo *dynamo.NotificationRepo
	S3Store          *s3infra.Store
	Mailer           smtp.Mailer
	// SMSSender and PushSender are nil when SNS is not configured; the
	// affected channels then report unavailable instead of sending.
	SMSSender   sns.SMSSender
	PushSender  sns.PushSender
	JWTProvider *jwtinfra.Provider
}
