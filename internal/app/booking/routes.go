// Package booking предоставляет маршруты основного приложения.
package booking

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/salon-booking/internal/config"
	"github.com/magabrotheeeer/salon-booking/internal/http/handlers/appointment/cancel"
	"github.com/magabrotheeeer/salon-booking/internal/http/handlers/appointment/confirm"
	"github.com/magabrotheeeer/salon-booking/internal/http/handlers/appointment/create"
	"github.com/magabrotheeeer/salon-booking/internal/http/handlers/appointment/list"
	"github.com/magabrotheeeer/salon-booking/internal/http/handlers/appointment/read"
	"github.com/magabrotheeeer/salon-booking/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/salon-booking/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/salon-booking/internal/http/handlers/catalog/employeecreate"
	"github.com/magabrotheeeer/salon-booking/internal/http/handlers/catalog/employeedeactivate"
	"github.com/magabrotheeeer/salon-booking/internal/http/handlers/catalog/employeelist"
	"github.com/magabrotheeeer/salon-booking/internal/http/handlers/catalog/servicecreate"
	"github.com/magabrotheeeer/salon-booking/internal/http/handlers/catalog/servicedeactivate"
	"github.com/magabrotheeeer/salon-booking/internal/http/handlers/catalog/servicelist"
	"github.com/magabrotheeeer/salon-booking/internal/http/handlers/payment/paymentcheckout"
	"github.com/magabrotheeeer/salon-booking/internal/http/handlers/payment/paymentlist"
	"github.com/magabrotheeeer/salon-booking/internal/http/handlers/payment/paymentwebhook"
	"github.com/magabrotheeeer/salon-booking/internal/http/handlers/profile/public"
	"github.com/magabrotheeeer/salon-booking/internal/http/handlers/profile/upsert"
	"github.com/magabrotheeeer/salon-booking/internal/http/handlers/trial/notify"
	"github.com/magabrotheeeer/salon-booking/internal/http/handlers/trial/status"
	"github.com/magabrotheeeer/salon-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/salon-booking/internal/models"
	appointmentservice "github.com/magabrotheeeer/salon-booking/internal/services/appointment"
	authservice "github.com/magabrotheeeer/salon-booking/internal/services/auth"
	catalogservice "github.com/magabrotheeeer/salon-booking/internal/services/catalog"
	confirmationservice "github.com/magabrotheeeer/salon-booking/internal/services/confirmation"
	paymentservice "github.com/magabrotheeeer/salon-booking/internal/services/payment"
	trialservice "github.com/magabrotheeeer/salon-booking/internal/services/trial"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	authService *authservice.AuthService,
	trialService *trialservice.TrialService,
	appointmentService *appointmentservice.AppointmentService,
	catalogService *catalogservice.CatalogService,
	confirmationService *confirmationservice.ConfirmationService,
	paymentService *paymentservice.PaymentService,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		// Клиенты салона подтверждают запись по ссылке из письма.
		r.Post("/appointments/confirm", confirm.New(logger, confirmationService).ServeHTTP)
		// Публичная страница записи салона.
		r.Get("/public/{slug}", public.New(logger, catalogService).ServeHTTP)
		// Вебхук платёжного провайдера, подлинность проверяется подписью.
		r.Post("/payments/webhook", paymentwebhook.New(logger, trialService, cfg.WebhookSecret).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			// Доступно и с истекшим пробным периодом: статус и оплата.
			r.Get("/trial/status", status.New(logger, trialService).ServeHTTP)
			r.Post("/trial/notify", notify.New(logger, trialService).ServeHTTP)
			r.Post("/payments/checkout", paymentcheckout.New(logger, paymentService).ServeHTTP)
			r.Get("/payments/list", paymentlist.New(logger, paymentService).ServeHTTP)

			// Записи клиентов
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.TrialAccessMiddleware(logger, trialService, models.FeatureCreateAppointments))
				r.Post("/appointments", create.New(logger, appointmentService).ServeHTTP)
				r.Get("/appointments/{id}", read.New(logger, appointmentService).ServeHTTP)
				r.Get("/appointments/list", list.New(logger, appointmentService).ServeHTTP)
				r.Delete("/appointments/{id}", cancel.New(logger, appointmentService).ServeHTTP)
			})

			// Услуги салона
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.TrialAccessMiddleware(logger, trialService, models.FeatureServices))
				r.Post("/services", servicecreate.New(logger, catalogService).ServeHTTP)
				r.Get("/services", servicelist.New(logger, catalogService).ServeHTTP)
				r.Delete("/services/{id}", servicedeactivate.New(logger, catalogService).ServeHTTP)
			})

			// Сотрудники
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.TrialAccessMiddleware(logger, trialService, models.FeatureEmployees))
				r.Post("/employees", employeecreate.New(logger, catalogService).ServeHTTP)
				r.Get("/employees", employeelist.New(logger, catalogService).ServeHTTP)
				r.Delete("/employees/{id}", employeedeactivate.New(logger, catalogService).ServeHTTP)
			})

			// Публичный профиль бизнеса
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.TrialAccessMiddleware(logger, trialService, models.FeatureProfile))
				r.Put("/profile", upsert.New(logger, catalogService).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
