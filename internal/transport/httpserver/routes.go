package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"pharmaduty-go/internal/config"
	"pharmaduty-go/internal/domain/user"
	"pharmaduty-go/internal/transport/httpserver/handler"
	authmw "pharmaduty-go/internal/transport/httpserver/middleware"
	"pharmaduty-go/pkg/logger"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, tokens authmw.TokenParser, accounts authmw.AccountLookup, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(authmw.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORSOrigins))

	auth := authmw.NewJWTAuth(tokens, accounts, log)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Common.Health)

		r.Get("/pharmacies", handlers.Public.ListPharmacies)
		r.Get("/pharmacies/on-duty-now", handlers.Public.OnDutyNow)
		r.Get("/pharmacies/on-duty-today", handlers.Public.OnDutyToday)
		r.Get("/pharmacies/{id}", handlers.Public.GetPharmacy)
		r.Post("/pharmacies/{id}/reviews", handlers.Public.SubmitReview)

		r.Get("/schedule", handlers.Public.ScheduleRange)
		r.Get("/schedule/calendar/{month}/{year}", handlers.Public.ScheduleCalendar)
		r.Get("/schedule/week", handlers.Public.ScheduleWeek)

		r.Get("/neighborhoods", handlers.Public.ListNeighborhoods)
		r.Get("/neighborhoods/{id}/pharmacies", handlers.Public.NeighborhoodPharmacies)
		r.Get("/statistics", handlers.Public.GetStatistics)

		r.Post("/auth/register", handlers.Auth.Register)
		r.Post("/auth/login", handlers.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Post("/auth/logout", handlers.Auth.Logout)
			r.Get("/auth/me", handlers.Auth.Me)

			r.Route("/pharmacist", func(r chi.Router) {
				r.Use(authmw.RequireRole(user.RolePharmacist))

				r.Get("/pharmacy", handlers.Pharmacist.GetPharmacy)
				r.Put("/pharmacy", handlers.Pharmacist.UpdatePharmacy)
				r.Get("/profile", handlers.Pharmacist.GetProfile)
				r.Put("/profile", handlers.Pharmacist.UpdateProfile)

				r.Get("/my-schedules", handlers.Pharmacist.ListSchedules)
				r.Post("/my-schedules", handlers.Pharmacist.CreateSchedule)
				r.Put("/my-schedules/{id}", handlers.Pharmacist.UpdateSchedule)
				r.Delete("/my-schedules/{id}", handlers.Pharmacist.DeleteSchedule)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(authmw.RequireRole(user.RoleAdmin))

				r.Get("/pharmacies", handlers.Admin.ListPharmacies)
				r.Post("/pharmacies", handlers.Admin.CreatePharmacy)
				r.Get("/pharmacies/pending", handlers.Admin.PendingPharmacies)
				r.Get("/pharmacies/{id}", handlers.Admin.GetPharmacy)
				r.Put("/pharmacies/{id}", handlers.Admin.UpdatePharmacy)
				r.Delete("/pharmacies/{id}", handlers.Admin.DeletePharmacy)
				r.Post("/pharmacies/{id}/approve", handlers.Admin.ApprovePharmacy)
				r.Post("/pharmacies/{id}/reject", handlers.Admin.RejectPharmacy)
				r.Post("/pharmacies/{id}/toggle-active", handlers.Admin.ToggleActive)
				r.Post("/pharmacies/{id}/restore", handlers.Admin.RestorePharmacy)

				r.Get("/schedule", handlers.Admin.ListSchedules)
				r.Post("/schedule", handlers.Admin.CreateSchedule)
				r.Post("/schedule/bulk", handlers.Admin.BulkCreateSchedules)
				r.Post("/schedule/generate", handlers.Admin.GenerateRotation)
				r.Get("/schedule/export", handlers.Admin.ExportSchedules)
				r.Put("/schedule/{id}", handlers.Admin.UpdateSchedule)
				r.Delete("/schedule/{id}", handlers.Admin.DeleteSchedule)

				r.Get("/reviews", handlers.Admin.ListReviews)
				r.Post("/reviews/{id}/approve", handlers.Admin.ApproveReview)
				r.Delete("/reviews/{id}", handlers.Admin.DeleteReview)

				r.Get("/users", handlers.Admin.ListUsers)
				r.Post("/users", handlers.Admin.CreateUser)
				r.Put("/users/{id}", handlers.Admin.UpdateUser)
				r.Delete("/users/{id}", handlers.Admin.DeleteUser)

				r.Get("/audit-logs", handlers.Admin.ListAuditLogs)
			})
		})
	})

	return r
}
