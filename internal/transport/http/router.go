package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/herdtrack-api/internal/application/animal"
	"github.com/herdtrack-api/internal/application/device"
	"github.com/herdtrack-api/internal/application/dispatch"
	"github.com/herdtrack-api/internal/application/healthrecord"
	"github.com/herdtrack-api/internal/application/notification"
	"github.com/herdtrack-api/internal/application/session"
	"github.com/herdtrack-api/internal/application/user"
	"github.com/herdtrack-api/internal/application/vaccination"
	"github.com/herdtrack-api/internal/application/vaccine"
	"github.com/herdtrack-api/internal/config"
	"github.com/herdtrack-api/internal/domain"
	"github.com/herdtrack-api/internal/transport/http/handler"
	appmiddleware "github.com/herdtrack-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	sessionSvc := session.NewService(session.ServiceDeps{
		SessionRepo:     deps.SessionRepo,
		UserRepo:        deps.UserRepo,
		DeviceRepo:      deps.DeviceRepo,
		JWTProvider:     deps.JWTProvider,
		RefreshTokenDur: cfg.RefreshTokenDur,
	})
	userSvc := user.NewService(user.ServiceDeps{
		UserRepo:        deps.UserRepo,
		SessionRepo:     deps.SessionRepo,
		DeviceRepo:      deps.DeviceRepo,
		JWTProvider:     deps.JWTProvider,
		RefreshTokenDur: cfg.RefreshTokenDur,
	})
	animalSvc := animal.NewService(deps.AnimalRepo)
	vaccineSvc := vaccine.NewService(deps.VaccineRepo)
	vaccinationSvc := vaccination.NewService(vaccination.ServiceDeps{
		VaccinationRepo: deps.VaccinationRepo,
		AnimalRepo:      deps.AnimalRepo,
		VaccineRepo:     deps.VaccineRepo,
	})
	healthRecordSvc := healthrecord.NewService(healthrecord.ServiceDeps{
		RecordRepo:     deps.HealthRecordRepo,
		AttachmentRepo: deps.AttachmentRepo,
		AnimalRepo:     deps.AnimalRepo,
		Objects:        deps.S3Store,
	})
	deviceSvc := device.NewService(deps.DeviceRepo, deps.PushSender)
	notifSvc := notification.NewService(notification.ServiceDeps{
		NotificationRepo: deps.NotificationRepo,
		AnimalRepo:       deps.AnimalRepo,
		VaccineRepo:      deps.VaccineRepo,
	})
	coordinator := dispatch.NewCoordinator(dispatch.CoordinatorDeps{
		NotificationRepo: deps.NotificationRepo,
		UserRepo:         deps.UserRepo,
		DeviceRepo:       deps.DeviceRepo,
		Mailer:           deps.Mailer,
		SMS:              deps.SMSSender,
		Push:             deps.PushSender,
		StatusPolicy:     cfg.DispatchStatusPolicy,
	})

	healthH := handler.NewHealthHandler()
	sessionH := handler.NewSessionHandler(sessionSvc)
	userH := handler.NewUserHandler(userSvc)
	animalH := handler.NewAnimalHandler(animalSvc)
	vaccineH := handler.NewVaccineHandler(vaccineSvc)
	vaccinationH := handler.NewVaccinationHandler(vaccinationSvc)
	recordH := handler.NewHealthRecordHandler(healthRecordSvc)
	deviceH := handler.NewDeviceHandler(deviceSvc)
	notifH := handler.NewNotificationHandler(notifSvc, coordinator)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/sessions/login", sessionH.Login)
		r.Post("/sessions/refresh", sessionH.Refresh)
		r.With(sensitiveRL.Limit).Post("/users", userH.Register)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/sessions", sessionH.GetCurrent)
			r.Post("/sessions/logout", sessionH.Logout)

			r.Get("/users/{id}", userH.Get)
			r.Put("/users/{id}", userH.Update)
			r.Post("/users/change-password", userH.ChangePassword)

			r.Post("/animals", animalH.Create)
			r.Get("/animals", animalH.List)
			r.Get("/animals/{id}", animalH.Get)
			r.Put("/animals/{id}", animalH.Update)
			r.Delete("/animals/{id}", animalH.Delete)

			r.Post("/animals/{animalID}/vaccinations", vaccinationH.Create)
			r.Get("/animals/{animalID}/vaccinations", vaccinationH.ListByAnimal)
			r.Get("/animals/{animalID}/schedule", vaccinationH.Schedule)
			r.Get("/vaccinations/upcoming", vaccinationH.ListUpcoming)
			r.Get("/vaccinations/overdue", vaccinationH.ListOverdue)
			r.Get("/vaccinations/{id}", vaccinationH.Get)
			r.Put("/vaccinations/{id}", vaccinationH.Update)
			r.Delete("/vaccinations/{id}", vaccinationH.Delete)

			r.Get("/vaccines", vaccineH.List)
			r.Get("/vaccines/{id}", vaccineH.Get)

			r.Post("/health-records", recordH.Create)
			r.Get("/health-records", recordH.List)
			r.Get("/health-records/follow-ups", recordH.ListFollowUps)
			r.Get("/health-records/{id}", recordH.Get)
			r.Put("/health-records/{id}", recordH.Update)
			r.Delete("/health-records/{id}", recordH.Delete)
			r.Post("/health-records/{id}/attachments", recordH.AddAttachment)
			r.Get("/health-records/{id}/attachments", recordH.ListAttachments)
			r.Get("/attachments/{attachmentID}/url", recordH.AttachmentURL)
			r.Delete("/attachments/{attachmentID}", recordH.DeleteAttachment)

			r.Get("/devices", deviceH.List)
			r.Get("/devices/{id}", deviceH.Get)
			r.Put("/devices/{id}/push-token", deviceH.RegisterPushToken)
			r.Delete("/devices/{id}", deviceH.Delete)

			r.Get("/notifications", notifH.List)
			r.Post("/notifications", notifH.Create)
			r.Post("/notifications/reminders", notifH.CreateVaccinationReminder)
			r.Get("/notifications/{id}", notifH.Get)
			r.Put("/notifications/{id}/read", notifH.MarkAsRead)
			r.Post("/notifications/{id}/dispatch", notifH.Dispatch)
			r.Delete("/notifications/{id}", notifH.Delete)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Get("/users", userH.List)
				r.Delete("/users/{id}", userH.Delete)

				r.Post("/vaccines", vaccineH.Create)
				r.Put("/vaccines/{id}", vaccineH.Update)
				r.Delete("/vaccines/{id}", vaccineH.Delete)
			})
		})
	})

	return r
}
